// Package router maps a location fragment to the page that renders it.
package router

import (
	"strconv"
	"strings"
)

// Page identifies a page controller.
type Page int

// Pages in navigation order.
const (
	Dashboard Page = iota
	Generate
	Verify
	Results
	Detail
)

func (p Page) String() string {
	switch p {
	case Dashboard:
		return "dashboard"
	case Generate:
		return "generate"
	case Verify:
		return "verify"
	case Results:
		return "results"
	case Detail:
		return "detail"
	default:
		return "unknown"
	}
}

// Route is the outcome of resolving a fragment. ID is set only for Detail
// and is the literal path remainder.
type Route struct {
	ID       string
	Fragment string
	Page     Page
}

const detailPrefix = "/results/"

var table = map[string]Page{
	"/":         Dashboard,
	"/generate": Generate,
	"/verify":   Verify,
	"/results":  Results,
}

// Normalize strips a leading '#' and maps the empty fragment to "/".
func Normalize(fragment string) string {
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" {
		return "/"
	}
	return fragment
}

// Resolve selects the page for fragment. Unknown fragments resolve to the
// dashboard.
func Resolve(fragment string) Route {
	frag := Normalize(fragment)

	if id, ok := strings.CutPrefix(frag, detailPrefix); ok && id != "" {
		return Route{Page: Detail, ID: id, Fragment: frag}
	}
	if page, ok := table[frag]; ok {
		return Route{Page: page, Fragment: frag}
	}
	return Route{Page: Dashboard, Fragment: frag}
}

// DetailFragment is the location of a result's detail page.
func DetailFragment(id int) string {
	return detailPrefix + strconv.Itoa(id)
}

// NavItem is an entry of the navigation bar.
type NavItem struct {
	Key      string
	Label    string
	Fragment string
	Shortcut string
}

// NavItems lists the navigation bar in display order.
var NavItems = []NavItem{
	{Key: "dashboard", Label: "Dashboard", Fragment: "/", Shortcut: "1"},
	{Key: "generate", Label: "Generate", Fragment: "/generate", Shortcut: "2"},
	{Key: "verify", Label: "Verify", Fragment: "/verify", Shortcut: "3"},
	{Key: "results", Label: "Results", Fragment: "/results", Shortcut: "4"},
}

// IsActive reports whether the nav item key is highlighted for fragment.
// Detail pages keep "results" highlighted.
func IsActive(key, fragment string) bool {
	frag := Normalize(fragment)
	if key == "dashboard" {
		return frag == "/"
	}
	return strings.HasPrefix(frag, "/"+key)
}
