// Package site parses site service flags and launches the service.
package site

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/lumenvpn/site/internal/platform/cmd"
	"github.com/lumenvpn/site/internal/platform/logging"
	sitesvc "github.com/lumenvpn/site/internal/services/site"
	siteapp "github.com/lumenvpn/site/internal/services/site/app"
	"go.uber.org/zap"
)

// Config holds site command configuration.
type Config struct {
	HTTPAddr              string `env:"LUMEN_SITE_HTTP_ADDR" envDefault:"localhost:8080"`
	MetricsAddr           string `env:"LUMEN_SITE_METRICS_ADDR"`
	AssetBaseURL          string `env:"LUMEN_SITE_ASSET_BASE_URL"`
	I18nConfigPath        string `env:"LUMEN_SITE_I18N_CONFIG" envDefault:"config/i18n.yaml"`
	StrictMode            bool   `env:"LUMEN_SITE_STRICT_MODE" envDefault:"true"`
	RedirectTrailingSlash bool   `env:"LUMEN_SITE_REDIRECT_TRAILING_SLASH" envDefault:"true"`
	LogLevel              string `env:"LUMEN_SITE_LOG_LEVEL" envDefault:"info"`
	LogEncoding           string `env:"LUMEN_SITE_LOG_ENCODING" envDefault:"json"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Prometheus listen address (empty disables)")
	fs.StringVar(&cfg.AssetBaseURL, "asset-base-url", cfg.AssetBaseURL, "Base URL for static assets")
	fs.StringVar(&cfg.I18nConfigPath, "i18n-config", cfg.I18nConfigPath, "Locale routing config file")
	fs.BoolVar(&cfg.StrictMode, "strict-mode", cfg.StrictMode, "Require complete translation catalogs")
	fs.BoolVar(&cfg.RedirectTrailingSlash, "redirect-trailing-slash", cfg.RedirectTrailingSlash, "Redirect paths ending in /")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	fs.StringVar(&cfg.LogEncoding, "log-encoding", cfg.LogEncoding, "Log encoding (json or console)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// AppConfig derives the site framework settings from cfg.
func (c Config) AppConfig() siteapp.AppConfig {
	return siteapp.DefaultAppConfig().With(
		func(base siteapp.AppConfig) siteapp.AppConfig {
			base.HTTPAddr = c.HTTPAddr
			base.StrictMode = c.StrictMode
			base.RedirectTrailingSlash = c.RedirectTrailingSlash
			base.AssetBaseURL = c.AssetBaseURL
			return base
		},
		siteapp.WithI18n(c.I18nConfigPath),
	)
}

// Run starts the site HTTP service.
func Run(ctx context.Context, cfg Config, logger *zap.Logger) error {
	logger = logging.OrNop(logger)
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceSite, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		server, err := sitesvc.NewServer(ctx, sitesvc.Config{
			App:         cfg.AppConfig(),
			MetricsAddr: cfg.MetricsAddr,
			Logger:      logger,
		})
		if err != nil {
			return fmt.Errorf("init site server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve site: %w", err)
		}
		return nil
	})
}
