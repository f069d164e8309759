// Package i18n resolves the request locale for site handlers.
package i18n

import (
	"net/http"

	"github.com/lumenvpn/site/internal/platform/i18n/catalog"
	"github.com/lumenvpn/site/internal/platform/i18n/routing"
	"github.com/lumenvpn/site/internal/platform/logging"
	"github.com/lumenvpn/site/internal/services/shared/i18nhttp"
	"github.com/lumenvpn/site/internal/services/site/module"
	"github.com/lumenvpn/site/internal/services/site/platform/httpx"
	"github.com/lumenvpn/site/internal/services/site/routepath"
	"go.uber.org/zap"
)

// Locale returns the locale resolved for r by Middleware, or the default.
func Locale(r *http.Request, cfg routing.Config) string {
	if r == nil {
		return cfg.DefaultLocale
	}
	return i18nhttp.LocaleFromContext(r.Context(), cfg.DefaultLocale)
}

// Localizer returns a translator for the request locale. In strict mode
// unresolved keys are logged at warn level.
func Localizer(r *http.Request, deps module.Dependencies) *catalog.Translator {
	locale := Locale(r, deps.Routing)
	var missing catalog.MissingFunc
	if deps.StrictMode {
		logger := logging.WithRequestID(httpx.RequestContext(r), deps.Logger)
		missing = func(locale, key string) {
			logger.Warn("missing translation", zap.String("locale", locale), zap.String("key", key))
		}
	}
	return deps.Catalog.Translator(locale, missing)
}

// LocalizedPath prefixes path for the request locale.
func LocalizedPath(r *http.Request, cfg routing.Config, path string) string {
	return cfg.LocalizedPath(Locale(r, cfg), path)
}

// Middleware strips a leading locale segment, redirects per the prefix mode,
// persists explicit choices in the locale cookie and stores the locale on the
// request context.
func Middleware(cfg routing.Config) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if routepath.IsUnlocalized(r.URL.Path) {
				locale, _ := i18nhttp.ResolveTag(r, cfg)
				next.ServeHTTP(w, r.WithContext(i18nhttp.WithLocale(r.Context(), locale)))
				return
			}

			if locale, rest, ok := cfg.SplitPath(r.URL.Path); ok {
				if i18nhttp.CookieLocale(r, cfg) != locale {
					i18nhttp.SetLanguageCookie(w, cfg, locale)
				}
				if cfg.LocalePrefix == routing.PrefixAsNeeded && locale == cfg.DefaultLocale {
					httpx.WriteRedirect(w, r, withQuery(rest, r.URL.RawQuery))
					return
				}
				next.ServeHTTP(w, stripPrefix(r, rest, locale))
				return
			}

			locale, persist := i18nhttp.ResolveTag(r, cfg)
			if persist && i18nhttp.CookieLocale(r, cfg) != locale {
				i18nhttp.SetLanguageCookie(w, cfg, locale)
			}
			switch cfg.LocalePrefix {
			case routing.PrefixAlways:
				httpx.WriteRedirect(w, r, withQuery(cfg.LocalizedPath(locale, r.URL.Path), withoutLang(r)))
				return
			case routing.PrefixAsNeeded:
				if locale != cfg.DefaultLocale {
					httpx.WriteRedirect(w, r, withQuery(cfg.LocalizedPath(locale, r.URL.Path), withoutLang(r)))
					return
				}
			}
			next.ServeHTTP(w, r.WithContext(i18nhttp.WithLocale(r.Context(), locale)))
		})
	}
}

func stripPrefix(r *http.Request, rest string, locale string) *http.Request {
	stripped := r.Clone(i18nhttp.WithLocale(r.Context(), locale))
	stripped.URL.Path = rest
	stripped.URL.RawPath = ""
	return stripped
}

func withQuery(path string, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}

func withoutLang(r *http.Request) string {
	query := r.URL.Query()
	if !query.Has(i18nhttp.LangParam) {
		return r.URL.RawQuery
	}
	query.Del(i18nhttp.LangParam)
	return query.Encode()
}
