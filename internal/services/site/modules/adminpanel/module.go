// Package adminpanel serves the admin panel: the root redirect and one page
// per section.
package adminpanel

import (
	"errors"
	"net/http"

	"github.com/lumenvpn/site/internal/services/site/module"
	"github.com/lumenvpn/site/internal/services/site/modules/adminpanel/section"
	"github.com/lumenvpn/site/internal/services/site/routepath"
)

// Module mounts the admin panel routes.
type Module struct {
	views     section.Views
	navigator NavigatorFactory
}

// Option configures the admin panel module.
type Option func(*Module)

// WithViews binds the management view mounted by each section.
func WithViews(views section.Views) Option {
	return func(m *Module) {
		m.views = views
	}
}

// WithNavigator routes the root redirect through factory.
func WithNavigator(factory NavigatorFactory) Option {
	return func(m *Module) {
		m.navigator = factory
	}
}

// New returns the admin panel module.
func New(opts ...Option) Module {
	var m Module
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// ID returns the module identifier.
func (Module) ID() string { return "adminpanel" }

// Mount wires the admin panel routes.
func (m Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.Catalog == nil {
		return module.Mount{}, errors.New("catalog is required")
	}
	h := newHandlers(deps, m.views, m.navigator)
	mux := http.NewServeMux()
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.AdminPanelPrefix, Handler: mux}, nil
}
