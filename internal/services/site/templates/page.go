// Package templates holds the site's templ components and the page models
// they render.
package templates

import (
	"strings"

	"github.com/lumenvpn/site/internal/services/shared/i18nhttp"
	"github.com/lumenvpn/site/internal/services/site/modules/adminpanel/section"
)

// LanguageOption represents a supported language option in the admin chrome.
type LanguageOption = i18nhttp.LanguageOption

// NavItem is one entry in the admin section navigation.
type NavItem struct {
	ID     section.ID
	Label  string
	URL    string
	Active bool
}

// AdminPage carries everything the admin shell renders around a section.
type AdminPage struct {
	Lang     string
	Title    string
	Brand    string
	HomeURL  string
	NavLabel string
	Heading  string
	Nav      []NavItem
	// LanguageLabel names the switcher; ActiveLanguage is shown as its
	// current value.
	LanguageLabel  string
	ActiveLanguage string
	Languages      []LanguageOption
	Stylesheet     string
	Section        section.Section
}

// StatusPage describes a localized status document such as the not-found page.
type StatusPage struct {
	Lang        string
	StatusCode  int
	Title       string
	Description string
	Stylesheet  string
}

// StylesheetURL joins the asset base with the stylesheet path.
func StylesheetURL(assetBaseURL string) string {
	base := strings.TrimRight(strings.TrimSpace(assetBaseURL), "/")
	return base + "/static/admin.css"
}

// AdminNavItems lists every section in navigation order with active marked.
// label and pathFor supply each entry's text and link.
func AdminNavItems(active section.ID, label func(section.ID) string, pathFor func(section.ID) string) []NavItem {
	ids := section.IDs()
	items := make([]NavItem, 0, len(ids))
	for _, id := range ids {
		item := NavItem{ID: id, Label: id.String(), URL: "/admin-panel/" + id.String(), Active: id == active}
		if label != nil {
			item.Label = label(id)
		}
		if pathFor != nil {
			item.URL = pathFor(id)
		}
		items = append(items, item)
	}
	return items
}
