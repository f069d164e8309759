// Package routing describes which locales the site serves and how locales
// appear in request paths.
package routing

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// PrefixMode controls when paths carry a locale segment.
type PrefixMode string

const (
	// PrefixAlways requires a locale segment on every localized path.
	PrefixAlways PrefixMode = "always"
	// PrefixAsNeeded omits the segment for the default locale.
	PrefixAsNeeded PrefixMode = "as-needed"
	// PrefixNever never puts locales in paths.
	PrefixNever PrefixMode = "never"
)

const (
	// DefaultCookieName stores the visitor's locale preference.
	DefaultCookieName = "LUMEN_LOCALE"
	// DefaultConfigPath is where the site looks for routing settings.
	DefaultConfigPath = "config/i18n.yaml"
)

var (
	// ErrNoLocales is returned when a config lists no locales.
	ErrNoLocales = errors.New("routing config lists no locales")
	// ErrUnsupportedDefault is returned when the default locale is not listed.
	ErrUnsupportedDefault = errors.New("default locale is not a supported locale")
	// ErrInvalidPrefixMode is returned for unknown localePrefix values.
	ErrInvalidPrefixMode = errors.New("invalid locale prefix mode")
)

// Config is the locale routing configuration. Build it with Default, Parse
// or Load; the zero value is not usable.
type Config struct {
	Locales         []string   `yaml:"locales"`
	DefaultLocale   string     `yaml:"defaultLocale"`
	LocalePrefix    PrefixMode `yaml:"localePrefix"`
	LocaleDetection bool       `yaml:"localeDetection"`
	CookieName      string     `yaml:"cookieName"`

	tags    []language.Tag
	matcher language.Matcher
}

// Default returns the routing used when no file overrides it.
func Default() Config {
	cfg := Config{
		Locales:         []string{"en-US", "pt-BR", "de-DE"},
		DefaultLocale:   "en-US",
		LocalePrefix:    PrefixAsNeeded,
		LocaleDetection: true,
		CookieName:      DefaultCookieName,
	}
	normalized, err := cfg.normalize()
	if err != nil {
		panic(fmt.Sprintf("default routing config: %v", err))
	}
	return normalized
}

// Load reads and parses a routing file.
func Load(path string) (Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read i18n config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("i18n config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML routing settings. Omitted fields keep their defaults.
func Parse(data []byte) (Config, error) {
	cfg := Config{
		LocalePrefix:    PrefixAsNeeded,
		LocaleDetection: true,
		CookieName:      DefaultCookieName,
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode routing: %w", err)
	}
	return cfg.normalize()
}

func (c Config) normalize() (Config, error) {
	if len(c.Locales) == 0 {
		return Config{}, ErrNoLocales
	}

	seen := make(map[string]struct{}, len(c.Locales))
	locales := make([]string, 0, len(c.Locales))
	tags := make([]language.Tag, 0, len(c.Locales))
	for _, raw := range c.Locales {
		tag, err := language.Parse(strings.TrimSpace(raw))
		if err != nil {
			return Config{}, fmt.Errorf("parse locale %q: %w", raw, err)
		}
		locale := tag.String()
		if _, dup := seen[locale]; dup {
			return Config{}, fmt.Errorf("duplicate locale %q", locale)
		}
		seen[locale] = struct{}{}
		locales = append(locales, locale)
		tags = append(tags, tag)
	}

	defaultLocale := strings.TrimSpace(c.DefaultLocale)
	if defaultLocale == "" {
		defaultLocale = locales[0]
	} else {
		tag, err := language.Parse(defaultLocale)
		if err != nil {
			return Config{}, fmt.Errorf("parse default locale %q: %w", c.DefaultLocale, err)
		}
		defaultLocale = tag.String()
	}
	if _, ok := seen[defaultLocale]; !ok {
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedDefault, defaultLocale)
	}

	switch c.LocalePrefix {
	case "":
		c.LocalePrefix = PrefixAsNeeded
	case PrefixAlways, PrefixAsNeeded, PrefixNever:
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidPrefixMode, c.LocalePrefix)
	}

	if strings.TrimSpace(c.CookieName) == "" {
		c.CookieName = DefaultCookieName
	}

	// The matcher's first tag is its fallback, so the default leads.
	ordered := make([]language.Tag, 0, len(tags))
	for i, locale := range locales {
		if locale == defaultLocale {
			ordered = append([]language.Tag{tags[i]}, ordered...)
			continue
		}
		ordered = append(ordered, tags[i])
	}

	c.Locales = locales
	c.DefaultLocale = defaultLocale
	c.CookieName = strings.TrimSpace(c.CookieName)
	c.tags = ordered
	c.matcher = language.NewMatcher(ordered)
	return c, nil
}

// Supported returns the canonical form of locale when it is configured.
func (c Config) Supported(locale string) (string, bool) {
	trimmed := strings.TrimSpace(locale)
	if trimmed == "" {
		return "", false
	}
	for _, candidate := range c.Locales {
		if strings.EqualFold(candidate, trimmed) {
			return candidate, true
		}
	}
	return "", false
}

// Match picks the best configured locale for the preferred tags, falling back
// to the default locale.
func (c Config) Match(preferred ...language.Tag) string {
	if c.matcher == nil || len(preferred) == 0 {
		return c.DefaultLocale
	}
	_, index, confidence := c.matcher.Match(preferred...)
	if confidence == language.No || index < 0 || index >= len(c.tags) {
		return c.DefaultLocale
	}
	return c.tags[index].String()
}

// MatchAcceptLanguage negotiates an Accept-Language header value.
func (c Config) MatchAcceptLanguage(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	return c.Match(tags...), true
}

// SplitPath separates a leading locale segment from path. ok is false when
// the first segment is not a configured locale or prefixes are disabled.
func (c Config) SplitPath(path string) (locale string, rest string, ok bool) {
	if c.LocalePrefix == PrefixNever {
		return "", path, false
	}
	trimmed := strings.TrimPrefix(path, "/")
	segment, remainder, hasRest := strings.Cut(trimmed, "/")
	canonical, supported := c.Supported(segment)
	if !supported {
		return "", path, false
	}
	if !hasRest {
		return canonical, "/", true
	}
	return canonical, "/" + remainder, true
}

// LocalizedPath prefixes path with locale as the prefix mode requires.
func (c Config) LocalizedPath(locale string, path string) string {
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	canonical, ok := c.Supported(locale)
	if !ok || c.LocalePrefix == PrefixNever {
		return path
	}
	if c.LocalePrefix == PrefixAsNeeded && canonical == c.DefaultLocale {
		return path
	}
	if path == "/" {
		return "/" + canonical
	}
	return "/" + canonical + path
}
