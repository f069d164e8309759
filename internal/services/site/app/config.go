package app

import (
	"strings"

	"github.com/lumenvpn/site/internal/platform/i18n/routing"
)

// I18nConfig points the i18n plugin at its request routing file.
type I18nConfig struct {
	RequestConfigPath string
}

// AppConfig holds the site framework settings.
type AppConfig struct {
	HTTPAddr              string
	StrictMode            bool
	RedirectTrailingSlash bool
	AssetBaseURL          string
	I18n                  I18nConfig
}

// Plugin derives a new AppConfig from a base one.
type Plugin func(AppConfig) AppConfig

// DefaultAppConfig returns the settings used when nothing overrides them.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		HTTPAddr:              "localhost:8080",
		StrictMode:            true,
		RedirectTrailingSlash: true,
		I18n:                  I18nConfig{RequestConfigPath: routing.DefaultConfigPath},
	}
}

// WithI18n sets the i18n request config path and leaves every other setting
// untouched. A blank path selects the default location.
func WithI18n(requestConfigPath string) Plugin {
	path := strings.TrimSpace(requestConfigPath)
	if path == "" {
		path = routing.DefaultConfigPath
	}
	return func(base AppConfig) AppConfig {
		base.I18n.RequestConfigPath = path
		return base
	}
}

// With applies plugins in order to a copy of c.
func (c AppConfig) With(plugins ...Plugin) AppConfig {
	out := c
	for _, plugin := range plugins {
		if plugin == nil {
			continue
		}
		out = plugin(out)
	}
	return out
}
