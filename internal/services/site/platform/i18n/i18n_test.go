package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lumenvpn/site/internal/platform/i18n/catalog"
	"github.com/lumenvpn/site/internal/platform/i18n/routing"
	"github.com/lumenvpn/site/internal/services/site/module"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type seen struct {
	path   string
	locale string
}

func capture(cfg routing.Config, out *seen) http.Handler {
	return Middleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out.path = r.URL.Path
		out.locale = Locale(r, cfg)
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestMiddlewareAsNeeded(t *testing.T) {
	t.Parallel()

	cfg := routing.Default()
	tests := []struct {
		name       string
		target     string
		cookie     string
		accept     string
		wantStatus int
		wantPath   string
		wantLocale string
		wantLoc    string
		wantCookie string
	}{
		{
			name:       "unprefixed default",
			target:     "/admin-panel/cms",
			wantStatus: http.StatusNoContent,
			wantPath:   "/admin-panel/cms",
			wantLocale: "en-US",
		},
		{
			name:       "prefixed locale is stripped",
			target:     "/pt-BR/admin-panel/users",
			wantStatus: http.StatusNoContent,
			wantPath:   "/admin-panel/users",
			wantLocale: "pt-BR",
			wantCookie: "pt-BR",
		},
		{
			name:       "prefixed default redirects to unprefixed",
			target:     "/en-US/admin-panel/vpns?tab=1",
			cookie:     "de-DE",
			wantStatus: http.StatusFound,
			wantLoc:    "/admin-panel/vpns?tab=1",
			wantCookie: "en-US",
		},
		{
			name:       "detected locale redirects to prefix",
			target:     "/admin-panel/cms",
			accept:     "de-DE,de;q=0.9",
			wantStatus: http.StatusFound,
			wantLoc:    "/de-DE/admin-panel/cms",
		},
		{
			name:       "cookie locale redirects to prefix",
			target:     "/admin-panel",
			cookie:     "pt-BR",
			wantStatus: http.StatusFound,
			wantLoc:    "/pt-BR/admin-panel",
		},
		{
			name:       "unlocalized path passes through",
			target:     "/healthz",
			accept:     "de-DE",
			wantStatus: http.StatusNoContent,
			wantPath:   "/healthz",
			wantLocale: "de-DE",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var got seen
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: tc.cookie})
			}
			if tc.accept != "" {
				req.Header.Set("Accept-Language", tc.accept)
			}
			rr := httptest.NewRecorder()
			capture(cfg, &got).ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			if tc.wantLoc != "" {
				if loc := rr.Header().Get("Location"); loc != tc.wantLoc {
					t.Fatalf("Location = %q, want %q", loc, tc.wantLoc)
				}
			}
			if tc.wantPath != "" && got.path != tc.wantPath {
				t.Fatalf("path = %q, want %q", got.path, tc.wantPath)
			}
			if tc.wantLocale != "" && got.locale != tc.wantLocale {
				t.Fatalf("locale = %q, want %q", got.locale, tc.wantLocale)
			}
			if tc.wantCookie != "" {
				cookies := rr.Result().Cookies()
				if len(cookies) != 1 || cookies[0].Value != tc.wantCookie {
					t.Fatalf("cookies = %v, want %s", cookies, tc.wantCookie)
				}
			}
		})
	}
}

func TestMiddlewareAlwaysRedirectsUnprefixed(t *testing.T) {
	t.Parallel()

	cfg := routing.Default()
	cfg.LocalePrefix = routing.PrefixAlways
	var got seen
	rr := httptest.NewRecorder()
	capture(cfg, &got).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin-panel?lang=pt-BR&x=1", nil))
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusFound)
	}
	if loc := rr.Header().Get("Location"); loc != "/pt-BR/admin-panel?x=1" {
		t.Fatalf("Location = %q, want %q", loc, "/pt-BR/admin-panel?x=1")
	}

	rr = httptest.NewRecorder()
	capture(cfg, &got).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/en-US/admin-panel", nil))
	if rr.Code != http.StatusNoContent || got.path != "/admin-panel" || got.locale != "en-US" {
		t.Fatalf("prefixed default: status = %d path = %q locale = %q", rr.Code, got.path, got.locale)
	}
}

func TestMiddlewareNeverUsesQueryAndCookie(t *testing.T) {
	t.Parallel()

	cfg := routing.Default()
	cfg.LocalePrefix = routing.PrefixNever
	var got seen
	rr := httptest.NewRecorder()
	capture(cfg, &got).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin-panel/cms?lang=de-DE", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if got.locale != "de-DE" {
		t.Fatalf("locale = %q, want de-DE", got.locale)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "de-DE" {
		t.Fatalf("cookies = %v, want de-DE", cookies)
	}

	rr = httptest.NewRecorder()
	capture(cfg, &got).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pt-BR/admin-panel", nil))
	if got.path != "/pt-BR/admin-panel" {
		t.Fatalf("path = %q, want prefix kept in never mode", got.path)
	}
}

func TestLocalizerLogsMissingKeysInStrictMode(t *testing.T) {
	t.Parallel()

	bundle, err := catalog.LoadEmbedded()
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	core, logs := observer.New(zap.WarnLevel)
	deps := module.Dependencies{
		Logger:     zap.New(core),
		Catalog:    bundle,
		Routing:    routing.Default(),
		StrictMode: true,
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	loc := Localizer(req, deps)
	if got := loc.T("NotFound.title"); got != "Page not found" {
		t.Fatalf("title = %q", got)
	}
	if got := loc.T("NotFound.nope"); got != "NotFound.nope" {
		t.Fatalf("missing = %q, want key path", got)
	}
	if logs.Len() != 1 {
		t.Fatalf("warn logs = %d, want 1", logs.Len())
	}

	deps.StrictMode = false
	core2, logs2 := observer.New(zap.WarnLevel)
	deps.Logger = zap.New(core2)
	_ = Localizer(req, deps).T("NotFound.nope")
	if logs2.Len() != 0 {
		t.Fatalf("lenient warn logs = %d, want 0", logs2.Len())
	}
}

func TestLocalizedPath(t *testing.T) {
	t.Parallel()

	cfg := routing.Default()
	var got string
	Middleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocalizedPath(r, cfg, "/admin-panel/cms")
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/de-DE/admin-panel", nil))
	if got != "/de-DE/admin-panel/cms" {
		t.Fatalf("LocalizedPath = %q, want %q", got, "/de-DE/admin-panel/cms")
	}
}
