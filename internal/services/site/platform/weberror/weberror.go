// Package weberror renders localized error documents for site modules.
package weberror

import (
	"net/http"

	"github.com/lumenvpn/site/internal/platform/logging"
	"github.com/lumenvpn/site/internal/services/site/module"
	"github.com/lumenvpn/site/internal/services/site/platform/httpx"
	sitei18n "github.com/lumenvpn/site/internal/services/site/platform/i18n"
	"github.com/lumenvpn/site/internal/services/site/platform/pagerender"
	"github.com/lumenvpn/site/internal/services/site/templates"
	"go.uber.org/zap"
)

// namespaceFor maps a status to the catalog namespace holding its copy.
func namespaceFor(statusCode int) string {
	if statusCode == http.StatusNotFound {
		return "NotFound"
	}
	return "Errors"
}

// StatusPage resolves the localized copy for statusCode.
func StatusPage(r *http.Request, deps module.Dependencies, statusCode int) templates.StatusPage {
	loc := sitei18n.Localizer(r, deps)
	text := loc.Namespace(namespaceFor(statusCode))
	return templates.StatusPage{
		Lang:        loc.Locale(),
		StatusCode:  statusCode,
		Title:       text.T("title"),
		Description: text.T("description"),
		Stylesheet:  templates.StylesheetURL(deps.AssetBaseURL),
	}
}

// WriteNotFound writes the localized not-found document with status 404.
func WriteNotFound(w http.ResponseWriter, r *http.Request, deps module.Dependencies) {
	writeStatus(w, r, deps, http.StatusNotFound)
}

// WriteServerError writes the localized error document with status 500.
func WriteServerError(w http.ResponseWriter, r *http.Request, deps module.Dependencies) {
	writeStatus(w, r, deps, http.StatusInternalServerError)
}

// NotFoundHandler serves WriteNotFound for every request.
func NotFoundHandler(deps module.Dependencies) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, r, deps)
	})
}

// ServerErrorHandler serves WriteServerError for every request.
func ServerErrorHandler(deps module.Dependencies) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteServerError(w, r, deps)
	})
}

func writeStatus(w http.ResponseWriter, r *http.Request, deps module.Dependencies, statusCode int) {
	if w == nil {
		return
	}
	page := StatusPage(r, deps, statusCode)
	w.Header().Set("Cache-Control", "no-store")
	err := pagerender.Write(w, r, pagerender.Page{
		StatusCode: statusCode,
		Full:       templates.StatusDocument(page),
		Fragment:   templates.StatusMain(page),
	})
	if err != nil {
		logging.WithRequestID(httpx.RequestContext(r), deps.Logger).Error("render error page",
			zap.Int("status", statusCode),
			zap.Error(err),
		)
		http.Error(w, page.Title, statusCode)
	}
}
