// Package routepath names the site's unlocalized URL paths.
package routepath

const (
	Root = "/"
)

const (
	Static       = "/static"
	StaticPrefix = "/static/"
	Health       = "/healthz"
)

const (
	AdminPanel       = "/admin-panel"
	AdminPanelPrefix = "/admin-panel/"
	AdminCMS         = "/admin-panel/cms"
)

// AdminSection returns the path of one admin section.
func AdminSection(id string) string {
	return AdminPanelPrefix + id
}

// IsUnlocalized reports whether path bypasses locale routing and path
// canonicalisation.
func IsUnlocalized(path string) bool {
	switch path {
	case Health, Static:
		return true
	}
	return len(path) >= len(StaticPrefix) && path[:len(StaticPrefix)] == StaticPrefix
}
