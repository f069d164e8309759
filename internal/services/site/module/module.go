// Package module defines the contract between the site composer and its
// feature modules.
package module

import (
	"net/http"

	"github.com/lumenvpn/site/internal/platform/i18n/catalog"
	"github.com/lumenvpn/site/internal/platform/i18n/routing"
	"github.com/lumenvpn/site/internal/services/site/platform/observability"
	"go.uber.org/zap"
)

// Dependencies carries shared collaborators into module mounts.
type Dependencies struct {
	Logger       *zap.Logger
	Catalog      *catalog.Bundle
	Routing      routing.Config
	Metrics      *observability.Metrics
	StrictMode   bool
	AssetBaseURL string
}

// Mount is the routed surface a module contributes.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module is one feature area mounted under a prefix.
type Module interface {
	ID() string
	Mount(Dependencies) (Mount, error)
}
