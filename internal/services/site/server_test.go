package site

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/lumenvpn/site/internal/platform/i18n/catalog"
	"github.com/lumenvpn/site/internal/platform/i18n/routing"
	siteapp "github.com/lumenvpn/site/internal/services/site/app"
	"github.com/lumenvpn/site/internal/services/site/module"
	"github.com/lumenvpn/site/internal/services/site/platform/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := routing.Default()
	registry := prometheus.NewRegistry()
	return Config{
		App:     siteapp.DefaultAppConfig(),
		Routing: &cfg,
		Metrics: observability.NewMetricsWith(registry, registry),
	}
}

func newTestHandler(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	h, err := NewHandler(cfg)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return h
}

func get(h http.Handler, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestNewHandlerServesAdminSections(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, testConfig(t))
	for _, path := range []string{"/admin-panel/cms", "/admin-panel/users", "/admin-panel/vpns", "/de-DE/admin-panel/vpns"} {
		rr := get(h, path, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want %d", path, rr.Code, http.StatusOK)
		}
		if rr.Header().Get("X-Request-ID") == "" {
			t.Fatalf("%s missing request id header", path)
		}
		if !strings.Contains(rr.Body.String(), "data-admin-chrome") {
			t.Fatalf("%s body missing admin chrome", path)
		}
	}
}

func TestNewHandlerRedirectsAdminRoot(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, testConfig(t))
	tests := []struct {
		target string
		want   string
	}{
		{target: "/admin-panel", want: "/admin-panel/cms"},
		{target: "/admin-panel/", want: "/admin-panel"},
		{target: "/pt-BR/admin-panel", want: "/pt-BR/admin-panel/cms"},
	}
	for _, tc := range tests {
		rr := get(h, tc.target, nil)
		if rr.Code != http.StatusFound && rr.Code != http.StatusMovedPermanently {
			t.Fatalf("%s status = %d, want redirect", tc.target, rr.Code)
		}
		if got := rr.Header().Get("Location"); got != tc.want {
			t.Fatalf("%s Location = %q, want %q", tc.target, got, tc.want)
		}
	}
}

func TestNewHandlerKeepsTrailingSlashWhenDisabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.App.RedirectTrailingSlash = false
	h := newTestHandler(t, cfg)
	rr := get(h, "/admin-panel/cms/", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestNewHandlerLocalizesNotFound(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, testConfig(t))
	tests := []struct {
		target  string
		headers map[string]string
		want    string
	}{
		{target: "/missing", want: "Page not found"},
		{target: "/pt-BR/missing", want: "Página não encontrada"},
		{target: "/de-DE/missing", want: "Seite nicht gefunden"},
		{target: "/", want: "Page not found"},
	}
	for _, tc := range tests {
		rr := get(h, tc.target, tc.headers)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s status = %d, want %d", tc.target, rr.Code, http.StatusNotFound)
		}
		if !strings.Contains(rr.Body.String(), tc.want) {
			t.Fatalf("%s body missing %q", tc.target, tc.want)
		}
		if got := rr.Header().Get("Cache-Control"); got != "no-store" {
			t.Fatalf("%s Cache-Control = %q, want no-store", tc.target, got)
		}
	}
}

func TestNewHandlerDetectsLocaleFromAcceptLanguage(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, testConfig(t))
	rr := get(h, "/admin-panel/users", map[string]string{"Accept-Language": "de-DE,de;q=0.9"})
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusFound)
	}
	if got := rr.Header().Get("Location"); got != "/de-DE/admin-panel/users" {
		t.Fatalf("Location = %q, want /de-DE/admin-panel/users", got)
	}
}

func TestNewHandlerServesHealthAndStatic(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, testConfig(t))

	rr := get(h, "/healthz", map[string]string{"Accept-Language": "pt-BR"})
	if rr.Code != http.StatusOK {
		t.Fatalf("health status = %d, want %d", rr.Code, http.StatusOK)
	}
	var payload map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("health payload = %v, want status ok", payload)
	}

	rr = get(h, "/static/admin.css", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("static status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/css") {
		t.Fatalf("static Content-Type = %q, want text/css", rr.Header().Get("Content-Type"))
	}

	for _, path := range []string{"/static", "/static/"} {
		rr = get(h, path, nil)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s status = %d, want %d", path, rr.Code, http.StatusNotFound)
		}
		if got := rr.Header().Get("Location"); got != "" {
			t.Fatalf("%s Location = %q, want no redirect", path, got)
		}
		if !strings.Contains(rr.Body.String(), "Page not found") {
			t.Fatalf("%s body missing not-found page", path)
		}
	}
}

func TestNewHandlerRecordsRouteMetrics(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	h := newTestHandler(t, cfg)
	get(h, "/admin-panel/users", nil)
	get(h, "/admin-panel", nil)
	get(h, "/missing", nil)

	if got := testutil.ToFloat64(cfg.Metrics.Requests.WithLabelValues("admin.users", "200")); got != 1 {
		t.Fatalf("admin.users requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(cfg.Metrics.Requests.WithLabelValues(observability.UnmatchedRoute, "404")); got != 1 {
		t.Fatalf("unmatched requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(cfg.Metrics.AdminRedirects); got != 1 {
		t.Fatalf("admin redirects = %v, want 1", got)
	}
}

func TestNewHandlerRecoversPanicsWithLocalizedError(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Modules = []module.Module{panicModule{}}
	h := newTestHandler(t, cfg)
	rr := get(h, "/pt-BR/boom", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rr.Body.String(), `lang="pt-BR"`) {
		t.Fatalf("body = %q, want pt-BR error page", rr.Body.String())
	}
}

func TestNewHandlerStrictModeRejectsIncompleteCatalogs(t *testing.T) {
	t.Parallel()

	bundle, err := catalog.LoadFromFS(fstest.MapFS{
		"locales/en-US/NotFound.yaml": {Data: []byte("locale: en-US\nnamespace: NotFound\nmessages:\n  NotFound.title: Page not found\n  NotFound.description: Gone\n")},
		"locales/pt-BR/NotFound.yaml": {Data: []byte("locale: pt-BR\nnamespace: NotFound\nmessages:\n  NotFound.title: Página não encontrada\n")},
		"locales/de-DE/NotFound.yaml": {Data: []byte("locale: de-DE\nnamespace: NotFound\nmessages:\n  NotFound.title: Seite nicht gefunden\n  NotFound.description: Weg\n")},
	})
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}

	cfg := testConfig(t)
	cfg.Catalog = bundle
	if _, err := NewHandler(cfg); err == nil || !strings.Contains(err.Error(), "NotFound.description") {
		t.Fatalf("strict NewHandler error = %v, want missing key error", err)
	}

	cfg.App = cfg.App.With(func(c siteapp.AppConfig) siteapp.AppConfig {
		c.StrictMode = false
		return c
	})
	if _, err := NewHandler(cfg); err != nil {
		t.Fatalf("lenient NewHandler error = %v", err)
	}
}

func TestNewHandlerLoadsRoutingFile(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Routing = nil
	cfg.App = cfg.App.With(siteapp.WithI18n(t.TempDir() + "/missing.yaml"))
	if _, err := NewHandler(cfg); err == nil {
		t.Fatal("expected missing routing file error")
	}
}

func TestNewServerRequiresHTTPAddress(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.App.HTTPAddr = " "
	if _, err := NewServer(context.Background(), cfg); err == nil {
		t.Fatal("expected error for blank http address")
	}
}

func TestServerListenAndServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.App.HTTPAddr = freeAddr(t)
	cfg.MetricsAddr = freeAddr(t)
	server, err := NewServer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.ListenAndServe(ctx)
	}()

	waitFor(t, "http://"+cfg.MetricsAddr+"/metrics")
	resp, err := http.Get("http://" + cfg.App.HTTPAddr + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNilServer(t *testing.T) {
	t.Parallel()

	var server *Server
	if err := server.ListenAndServe(context.Background()); err == nil {
		t.Fatal("expected nil server error")
	}
	server.Close()
}

func freeAddr(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	_ = listener.Close()
	return addr
}

func waitFor(t *testing.T, url string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("%s did not become ready", url)
}

type panicModule struct{}

func (panicModule) ID() string { return "panic" }

func (panicModule) Mount(module.Dependencies) (module.Mount, error) {
	return module.Mount{Prefix: "/boom/", Handler: http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	})}, nil
}
