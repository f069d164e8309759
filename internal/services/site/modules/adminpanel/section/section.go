// Package section defines the admin panel sections and binds each one to the
// view it mounts.
package section

import (
	"errors"
	"fmt"

	"github.com/a-h/templ"
)

// ID names one admin section.
type ID string

const (
	CMS   ID = "cms"
	Users ID = "users"
	VPNs  ID = "vpns"
)

// ErrUnknownSection is returned for IDs outside the admin section set.
var ErrUnknownSection = errors.New("unknown admin section")

// IDs returns every section in navigation order.
func IDs() []ID {
	return []ID{CMS, Users, VPNs}
}

// String returns the raw identifier.
func (id ID) String() string {
	return string(id)
}

// Section is an admin section together with its bound view. The only way to
// build one is Views.Section, so the tag and view always agree.
type Section struct {
	id   ID
	view templ.Component
}

// ID returns the section tag.
func (s Section) ID() ID {
	return s.id
}

// View returns the management view mounted for this section.
func (s Section) View() templ.Component {
	if s.view == nil {
		return templ.NopComponent
	}
	return s.view
}

// Views holds the management view for each section. Nil fields mount an
// empty placeholder.
type Views struct {
	Dashboard templ.Component
	Users     templ.Component
	VPNs      templ.Component
}

// Section binds id to its view.
func (v Views) Section(id ID) (Section, error) {
	var view templ.Component
	switch id {
	case CMS:
		view = v.Dashboard
	case Users:
		view = v.Users
	case VPNs:
		view = v.VPNs
	default:
		return Section{}, fmt.Errorf("%w: %q", ErrUnknownSection, id)
	}
	if view == nil {
		view = Placeholder(id)
	}
	return Section{id: id, view: view}, nil
}
