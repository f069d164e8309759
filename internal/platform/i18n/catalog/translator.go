package catalog

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MissingFunc observes lookups that fell through to the key path.
type MissingFunc func(locale, key string)

// Translator resolves messages for one locale.
type Translator struct {
	bundle  *Bundle
	locale  string
	tag     language.Tag
	missing MissingFunc
}

// Translator returns a translator bound to locale. Unknown locales resolve
// every key through the base locale.
func (b *Bundle) Translator(locale string, missing MissingFunc) *Translator {
	trimmed := strings.TrimSpace(locale)
	if !b.HasLocale(trimmed) {
		trimmed = BaseLocale
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		tag = language.AmericanEnglish
	}
	return &Translator{bundle: b, locale: trimmed, tag: tag, missing: missing}
}

// Locale returns the resolved locale of this translator.
func (t *Translator) Locale() string {
	if t == nil {
		return BaseLocale
	}
	return t.locale
}

// T resolves key and formats args with the locale's printer. Unresolved keys
// return the key path itself.
func (t *Translator) T(key string, args ...any) string {
	if t == nil {
		return key
	}
	value, ok := t.bundle.Message(t.locale, key)
	if !ok {
		if t.missing != nil {
			t.missing(t.locale, key)
		}
		return key
	}
	if len(args) == 0 {
		return value
	}
	return message.NewPrinter(t.tag).Sprintf(value, args...)
}

// Namespace scopes lookups under one catalog namespace.
func (t *Translator) Namespace(namespace string) Namespaced {
	return Namespaced{translator: t, namespace: strings.TrimSpace(namespace)}
}

// Namespaced resolves keys relative to a namespace, so "title" in the
// NotFound namespace reads NotFound.title.
type Namespaced struct {
	translator *Translator
	namespace  string
}

// qualify returns the fully qualified key path.
func (n Namespaced) qualify(key string) string {
	if n.namespace == "" {
		return key
	}
	return n.namespace + "." + key
}

// T resolves key within the namespace.
func (n Namespaced) T(key string, args ...any) string {
	return n.translator.T(n.qualify(key), args...)
}
