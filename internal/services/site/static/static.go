// Package static embeds the site's stylesheet.
package static

import (
	"embed"
	"net/http"
	"strings"
)

// FS exposes site static assets for HTTP serving.
//
//go:embed *.css
var FS embed.FS

// Handler serves FS under prefix. Directory paths, including the bare
// prefix, are handed to notFound instead of being listed.
func Handler(prefix string, notFound http.Handler) http.Handler {
	if notFound == nil {
		notFound = http.NotFoundHandler()
	}
	files := http.StripPrefix(prefix, http.FileServer(http.FS(FS)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, ok := strings.CutPrefix(r.URL.Path, prefix)
		if !ok || name == "" || strings.HasSuffix(name, "/") {
			notFound.ServeHTTP(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
