package adminpanel

import (
	"net/http"

	"github.com/lumenvpn/site/internal/services/site/modules/adminpanel/section"
	"github.com/lumenvpn/site/internal/services/site/platform/httpx"
	"github.com/lumenvpn/site/internal/services/site/platform/observability"
	"github.com/lumenvpn/site/internal/services/site/platform/weberror"
	"github.com/lumenvpn/site/internal/services/site/routepath"
)

// registerRoutes wires admin routes into the provided mux.
func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	readOnly := []httpx.Middleware{
		httpx.AllowMethods(http.MethodGet, http.MethodHead),
		httpx.NoStore(),
	}
	mux.Handle(routepath.AdminPanel, observability.Route("admin.root",
		httpx.Chain(http.HandlerFunc(h.handleRoot), readOnly...)))
	for _, id := range section.IDs() {
		mux.Handle(routepath.AdminSection(id.String()), observability.Route("admin."+id.String(),
			httpx.Chain(h.sectionPage(id), readOnly...)))
	}
	mux.Handle(routepath.AdminPanelPrefix, weberror.NotFoundHandler(h.deps))
}
