// Package site hosts the localized admin site.
package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lumenvpn/site/internal/platform/i18n/catalog"
	"github.com/lumenvpn/site/internal/platform/i18n/routing"
	"github.com/lumenvpn/site/internal/platform/logging"
	"github.com/lumenvpn/site/internal/platform/timeouts"
	"github.com/lumenvpn/site/internal/services/shared/route"
	siteapp "github.com/lumenvpn/site/internal/services/site/app"
	"github.com/lumenvpn/site/internal/services/site/module"
	"github.com/lumenvpn/site/internal/services/site/modules"
	"github.com/lumenvpn/site/internal/services/site/modules/adminpanel/section"
	"github.com/lumenvpn/site/internal/services/site/platform/httpx"
	sitei18n "github.com/lumenvpn/site/internal/services/site/platform/i18n"
	"github.com/lumenvpn/site/internal/services/site/platform/observability"
	"github.com/lumenvpn/site/internal/services/site/platform/weberror"
	"github.com/lumenvpn/site/internal/services/site/routepath"
	sitestatic "github.com/lumenvpn/site/internal/services/site/static"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config defines startup inputs for the site service.
type Config struct {
	App siteapp.AppConfig
	// MetricsAddr serves /metrics on a separate listener when set.
	MetricsAddr string
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	// Catalog and Routing override the embedded catalogs and the routing
	// file named by App.I18n.
	Catalog *catalog.Bundle
	Routing *routing.Config
	// Views are the admin section views; nil fields mount placeholders.
	Views section.Views
	// Modules replaces the default module set when non-nil.
	Modules []module.Module
}

// Server hosts the site HTTP surface and lifecycle.
type Server struct {
	logger        *zap.Logger
	httpServer    *http.Server
	metricsServer *http.Server
}

// NewHandler builds the root handler from the module registry.
func NewHandler(cfg Config) (http.Handler, error) {
	deps, err := dependencies(cfg)
	if err != nil {
		return nil, err
	}
	features := cfg.Modules
	if features == nil {
		features = modules.Default(modules.Options{AdminViews: cfg.Views})
	}
	composed, err := siteapp.Composer{}.Compose(siteapp.ComposeInput{
		Dependencies: deps,
		Modules:      features,
		NotFound:     weberror.NotFoundHandler(deps),
	})
	if err != nil {
		return nil, fmt.Errorf("compose site modules: %w", err)
	}

	rootMux := http.NewServeMux()
	assets := observability.Route("static", sitestatic.Handler(routepath.StaticPrefix, weberror.NotFoundHandler(deps)))
	rootMux.Handle(routepath.StaticPrefix, assets)
	rootMux.Handle(routepath.Static, assets)
	rootMux.Handle(routepath.Health, observability.Route("health", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})))
	rootMux.Handle(routepath.Root, composed)

	var trailingSlash httpx.Middleware
	if cfg.App.RedirectTrailingSlash {
		trailingSlash = route.TrailingSlashExcept(routepath.IsUnlocalized)
	}
	return httpx.Chain(rootMux,
		httpx.RequestID(),
		observability.Tracing(),
		observability.RequestLogger(deps.Logger),
		deps.Metrics.Middleware(),
		trailingSlash,
		sitei18n.Middleware(deps.Routing),
		httpx.RecoverPanic(deps.Logger, weberror.ServerErrorHandler(deps)),
	), nil
}

func dependencies(cfg Config) (module.Dependencies, error) {
	logger := logging.OrNop(cfg.Logger)

	bundle := cfg.Catalog
	if bundle == nil {
		loaded, err := catalog.LoadEmbedded()
		if err != nil {
			return module.Dependencies{}, fmt.Errorf("load catalogs: %w", err)
		}
		bundle = loaded
	}

	var routingCfg routing.Config
	if cfg.Routing != nil {
		routingCfg = *cfg.Routing
	} else {
		loaded, err := routing.Load(cfg.App.I18n.RequestConfigPath)
		if err != nil {
			return module.Dependencies{}, err
		}
		routingCfg = loaded
	}

	if cfg.App.StrictMode {
		if err := bundle.Validate(routingCfg.Locales, true); err != nil {
			return module.Dependencies{}, fmt.Errorf("validate catalogs: %w", err)
		}
	} else if err := bundle.Validate(routingCfg.Locales, false); err != nil {
		logger.Warn("catalogs incomplete", zap.Error(err))
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics()
	}

	return module.Dependencies{
		Logger:       logger,
		Catalog:      bundle,
		Routing:      routingCfg,
		Metrics:      metrics,
		StrictMode:   cfg.App.StrictMode,
		AssetBaseURL: strings.TrimRight(strings.TrimSpace(cfg.App.AssetBaseURL), "/"),
	}, nil
}

// NewServer validates config and constructs a site server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.App.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NewMetrics()
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose site handler: %w", err)
	}

	server := &Server{
		logger: logging.OrNop(cfg.Logger),
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}
	if metricsAddr := strings.TrimSpace(cfg.MetricsAddr); metricsAddr != "" {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", cfg.Metrics.Handler())
		server.metricsServer = &http.Server{
			Addr:              metricsAddr,
			Handler:           metricsMux,
			ReadHeaderTimeout: timeouts.ReadHeader,
		}
	}
	return server, nil
}

// Handler returns the root site handler.
func (s *Server) Handler() http.Handler {
	if s == nil || s.httpServer == nil {
		return nil
	}
	return s.httpServer.Handler
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("site server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return s.serve(groupCtx, "site", s.httpServer)
	})
	if s.metricsServer != nil {
		group.Go(func() error {
			return s.serve(groupCtx, "metrics", s.metricsServer)
		})
	}
	return group.Wait()
}

func (s *Server) serve(ctx context.Context, name string, server *http.Server) error {
	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("http listening", zap.String("server", name), zap.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := server.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown %s http server: %w", name, err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s http: %w", name, err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.metricsServer != nil {
		_ = s.metricsServer.Close()
	}
}
