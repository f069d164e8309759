package adminpanel

import (
	"bytes"
	"net/http"

	"github.com/lumenvpn/site/internal/platform/i18n/catalog"
	"github.com/lumenvpn/site/internal/platform/logging"
	"github.com/lumenvpn/site/internal/services/shared/i18nhttp"
	"github.com/lumenvpn/site/internal/services/site/module"
	"github.com/lumenvpn/site/internal/services/site/modules/adminpanel/section"
	"github.com/lumenvpn/site/internal/services/site/platform/httpx"
	sitei18n "github.com/lumenvpn/site/internal/services/site/platform/i18n"
	"github.com/lumenvpn/site/internal/services/site/platform/navigation"
	"github.com/lumenvpn/site/internal/services/site/platform/pagerender"
	"github.com/lumenvpn/site/internal/services/site/platform/weberror"
	"github.com/lumenvpn/site/internal/services/site/routepath"
	"github.com/lumenvpn/site/internal/services/site/templates"
	"go.uber.org/zap"
)

// NavigatorFactory binds a navigator to one response.
type NavigatorFactory func(w http.ResponseWriter, r *http.Request) navigation.Navigator

// HTTPNavigator replaces the current location with an HTMX-aware redirect.
func HTTPNavigator(w http.ResponseWriter, r *http.Request) navigation.Navigator {
	return navigation.NavigatorFunc(func(target string) error {
		httpx.WriteRedirect(w, r, target)
		return nil
	})
}

type handlers struct {
	deps      module.Dependencies
	views     section.Views
	navigator NavigatorFactory
}

func newHandlers(deps module.Dependencies, views section.Views, navigator NavigatorFactory) handlers {
	if navigator == nil {
		navigator = HTTPNavigator
	}
	deps.Logger = logging.OrNop(deps.Logger)
	return handlers{deps: deps, views: views, navigator: navigator}
}

// handleRoot mounts a redirect to the CMS section. The redirect renders
// nothing; once that render is committed its mount effect navigates.
func (h handlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	redirect := navigation.NewRedirect(sitei18n.LocalizedPath(r, h.deps.Routing, routepath.AdminCMS))
	logger := logging.WithRequestID(httpx.RequestContext(r), h.deps.Logger)

	var initial bytes.Buffer
	if err := redirect.Render(r.Context(), &initial); err != nil {
		logger.Error("render admin redirect", zap.Error(err))
		weberror.WriteServerError(w, r, h.deps)
		return
	}

	if err := redirect.OnMount(h.navigator(w, r)); err != nil {
		logger.Warn("admin redirect did not navigate",
			zap.String("target", redirect.Target()),
			zap.Error(err),
		)
		if err := pagerender.Write(w, r, pagerender.Page{Full: redirect}); err != nil {
			logger.Error("render admin redirect", zap.Error(err))
		}
		return
	}
	h.deps.Metrics.IncrementAdminRedirects()
}

// sectionPage renders the admin shell around the section bound to id.
func (h handlers) sectionPage(id section.ID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.WithRequestID(httpx.RequestContext(r), h.deps.Logger)
		active, err := h.views.Section(id)
		if err != nil {
			logger.Error("bind admin section", zap.String("section", id.String()), zap.Error(err))
			weberror.WriteServerError(w, r, h.deps)
			return
		}

		page := h.adminPage(r, sitei18n.Localizer(r, h.deps), active)
		err = pagerender.Write(w, r, pagerender.Page{
			Full:     templates.AdminLayout(page),
			Fragment: templates.AdminMain(page),
		})
		if err != nil {
			logger.Error("render admin section", zap.String("section", id.String()), zap.Error(err))
			weberror.WriteServerError(w, r, h.deps)
		}
	})
}

func (h handlers) adminPage(r *http.Request, loc *catalog.Translator, active section.Section) templates.AdminPage {
	cfg := h.deps.Routing
	text := loc.Namespace("Admin")
	heading := text.T("heading." + active.ID().String())
	languages := i18nhttp.BuildLanguageOptions(cfg, loc.Locale(), r.URL.Path, func(locale string) string {
		return loc.T("Language." + locale)
	})
	localized := func(id section.ID) string {
		return sitei18n.LocalizedPath(r, cfg, routepath.AdminSection(id.String()))
	}
	return templates.AdminPage{
		Lang:     loc.Locale(),
		Title:    text.T("page_title", heading),
		Brand:    text.T("title"),
		HomeURL:  localized(section.CMS),
		NavLabel: text.T("nav_label"),
		Heading:  heading,
		Nav: templates.AdminNavItems(active.ID(), func(id section.ID) string {
			return text.T("nav." + id.String())
		}, localized),
		LanguageLabel:  loc.T("Language.label"),
		ActiveLanguage: i18nhttp.ActiveLanguageLabel(languages),
		Languages:      languages,
		Stylesheet:     templates.StylesheetURL(h.deps.AssetBaseURL),
		Section:        active,
	}
}
