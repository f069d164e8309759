package i18nhttp

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lumenvpn/site/internal/platform/i18n/routing"
)

// LangParam is the query parameter used to select a language explicitly.
const LangParam = "lang"

// LanguageOption represents a supported language option in UI surfaces.
type LanguageOption struct {
	Locale string
	Label  string
	URL    string
	Active bool
}

type localeContextKey struct{}

// WithLocale stores the resolved request locale on ctx.
func WithLocale(ctx context.Context, locale string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, localeContextKey{}, strings.TrimSpace(locale))
}

// LocaleFromContext returns the request locale, or fallback when none was resolved.
func LocaleFromContext(ctx context.Context, fallback string) string {
	if ctx == nil {
		return fallback
	}
	if locale, ok := ctx.Value(localeContextKey{}).(string); ok && locale != "" {
		return locale
	}
	return fallback
}

// ResolveTag determines the best locale for a request without a path prefix.
// An explicit lang query parameter wins and should be persisted, reported by
// the bool. Otherwise the cookie wins over Accept-Language, and detection off
// means the default.
func ResolveTag(r *http.Request, cfg routing.Config) (string, bool) {
	if r == nil {
		return cfg.DefaultLocale, false
	}

	if r.URL != nil {
		if locale, ok := cfg.Supported(r.URL.Query().Get(LangParam)); ok {
			return locale, true
		}
	}

	if !cfg.LocaleDetection {
		return cfg.DefaultLocale, false
	}

	if cookie, err := r.Cookie(cfg.CookieName); err == nil {
		if locale, ok := cfg.Supported(cookie.Value); ok {
			return locale, false
		}
	}

	if locale, ok := cfg.MatchAcceptLanguage(r.Header.Get("Accept-Language")); ok {
		return locale, false
	}

	return cfg.DefaultLocale, false
}

// CookieLocale returns the persisted locale, if any.
func CookieLocale(r *http.Request, cfg routing.Config) string {
	if r == nil {
		return ""
	}
	cookie, err := r.Cookie(cfg.CookieName)
	if err != nil {
		return ""
	}
	locale, _ := cfg.Supported(cookie.Value)
	return locale
}

// SetLanguageCookie persists the selected locale on the response.
func SetLanguageCookie(w http.ResponseWriter, cfg routing.Config, locale string) {
	if w == nil || strings.TrimSpace(locale) == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    locale,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// BuildLanguageOptions returns configured locales as switcher entries pointing
// at path in each locale.
func BuildLanguageOptions(cfg routing.Config, activeLocale string, path string, labelForLocale func(locale string) string) []LanguageOption {
	options := make([]LanguageOption, 0, len(cfg.Locales))
	active, ok := cfg.Supported(activeLocale)
	if !ok {
		active = cfg.DefaultLocale
	}
	for _, locale := range cfg.Locales {
		label := locale
		if labelForLocale != nil {
			if resolved := strings.TrimSpace(labelForLocale(locale)); resolved != "" {
				label = resolved
			}
		}
		options = append(options, LanguageOption{
			Locale: locale,
			Label:  label,
			URL:    LanguageURL(cfg, path, locale),
			Active: locale == active,
		})
	}
	return options
}

// ActiveLanguageLabel returns the label for the active language selection.
func ActiveLanguageLabel(options []LanguageOption) string {
	for _, option := range options {
		if option.Active {
			return option.Label
		}
	}
	if len(options) == 0 {
		return ""
	}
	return options[0].Label
}

// LanguageURL returns a link that switches to locale while staying on path.
// With prefixes enabled the locale is always spelled out so the middleware can
// persist the choice; without prefixes the lang parameter carries it.
func LanguageURL(cfg routing.Config, path string, locale string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	if cfg.LocalePrefix == routing.PrefixNever {
		query := url.Values{}
		query.Set(LangParam, locale)
		return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
	}
	if path == "/" {
		return "/" + locale
	}
	return "/" + locale + path
}
