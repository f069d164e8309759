package modules

import (
	"github.com/lumenvpn/site/internal/services/site/modules/adminpanel"
	"github.com/lumenvpn/site/internal/services/site/modules/adminpanel/section"
)

// Options carries feature settings for the default module set.
type Options struct {
	// AdminViews are the management views mounted by the admin sections.
	AdminViews section.Views
}

// Default returns the modules the site mounts.
func Default(opts Options) []Module {
	return []Module{
		adminpanel.New(adminpanel.WithViews(opts.AdminViews)),
	}
}
