package view

// Package view enumerates the portal's views and maps URL path segments to
// them. The set is closed: dispatch is by tagged constant, not reflection.

import "strings"

// View identifies one of the portal's fixed views.
type View string

const (
	Home        View = "home"
	Register    View = "register"
	EditProfile View = "editProfile"
	Login       View = "login"
	AboutUs     View = "aboutUs"
	BlogGuide   View = "blogGuide"
)

// Default is the view shown when no view was explicitly requested.
func Default() View { return Home }

// segments maps the first URL path segment to a view. The empty segment is
// the root path.
var segments = map[string]View{
	"":            Home,
	"register":    Register,
	"editProfile": EditProfile,
	"login":       Login,
	"aboutUs":     AboutUs,
	"blogGuide":   BlogGuide,
}

// Valid reports whether v is a member of the enumerated set.
func (v View) Valid() bool {
	for _, known := range segments {
		if v == known {
			return true
		}
	}
	return false
}

// FromPath resolves the first segment of a URL path to a starting view.
// Unrecognized segments select Home and normalize the visible path to "/";
// normalized reports whether that rewrite happened.
func FromPath(path string) (v View, displayPath string, normalized bool) {
	seg, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if mapped, ok := segments[seg]; ok {
		return mapped, path, false
	}
	return Home, "/", true
}
