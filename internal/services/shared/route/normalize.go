// Package route canonicalizes request paths before they reach handlers.
package route

import (
	"net/http"
	"strings"
)

// Canonical strips trailing "/" characters, keeping "/" for the root.
func Canonical(path string) string {
	canonical := strings.TrimRight(path, "/")
	if canonical == "" {
		return "/"
	}
	return canonical
}

// RedirectTrailingSlash canonicalizes request paths by stripping trailing "/" characters.
//
// It returns true when a redirect was written. The query string is kept.
func RedirectTrailingSlash(w http.ResponseWriter, r *http.Request) bool {
	if w == nil || r == nil || r.URL == nil {
		return false
	}

	originalPath := r.URL.Path
	canonical := Canonical(originalPath)
	if canonical == originalPath {
		return false
	}

	target := canonical
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
	return true
}

// TrailingSlash wraps next so non-canonical paths are redirected before routing.
func TrailingSlash(next http.Handler) http.Handler {
	return TrailingSlashExcept(nil)(next)
}

// TrailingSlashExcept is TrailingSlash for every path skip rejects. Skipped
// paths reach next unchanged, which keeps subtree patterns such as "/static/"
// from bouncing between the two spellings.
func TrailingSlashExcept(skip func(path string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip != nil && r != nil && r.URL != nil && skip(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			if RedirectTrailingSlash(w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
