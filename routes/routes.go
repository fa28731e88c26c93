// Package routes maps a request path and query onto one of the gallery's
// logical views.
package routes

import (
	"net/url"
	"strconv"
	"strings"
)

// Kind of view selected by a path.
type Kind string

const (
	Gallery  Kind = "gallery"
	Detail   Kind = "detail"
	Redirect Kind = "redirect"
	Unknown  Kind = "unknown"
)

const (
	// PhotoQueryParam on the root view redirects to that photo's detail view.
	PhotoQueryParam = "photo"
	// SearchQueryParam on the root view seeds the search term.
	SearchQueryParam = "q"
)

// Route is the outcome of matching.
type Route struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id,omitempty"`
	Term string `json:"term,omitempty"`
	// Location is the redirect target for Redirect routes.
	Location string `json:"location,omitempty"`
}

// Router matches paths below a base prefix, e.g. "/Astrogalerry/".
type Router struct {
	Base string
}

// New normalises base to a "/"-delimited prefix.
func New(base string) Router {
	return Router{Base: NormaliseBase(base)}
}

// NormaliseBase returns base with exactly one leading and trailing slash.
func NormaliseBase(base string) string {
	base = strings.Trim(base, "/")
	if base == "" {
		return "/"
	}
	return "/" + base + "/"
}

// Match selects the view for path and its raw query string. The detail id is
// kept raw; resolving it is the detail view's job.
func (rt Router) Match(path, rawQuery string) Route {
	rel, ok := rt.strip(path)
	if !ok {
		return Route{Kind: Unknown}
	}
	query, _ := url.ParseQuery(rawQuery)

	segments := splitPath(rel)
	switch {
	case len(segments) == 0:
		if id := query.Get(PhotoQueryParam); id != "" {
			return Route{Kind: Redirect, ID: id, Location: rt.DetailPath(id)}
		}
		return Route{Kind: Gallery, Term: query.Get(SearchQueryParam)}
	case len(segments) == 2 && segments[0] == "photo":
		return Route{Kind: Detail, ID: segments[1]}
	}
	return Route{Kind: Unknown}
}

// DetailPath is the detail route for a raw id.
func (rt Router) DetailPath(id string) string {
	return rt.base() + "photo/" + url.PathEscape(id)
}

// DetailLink is DetailPath for a numeric id.
func (rt Router) DetailLink(id int) string {
	return rt.DetailPath(strconv.Itoa(id))
}

// GalleryPath is the root view.
func (rt Router) GalleryPath() string { return rt.base() }

func (rt Router) base() string {
	if rt.Base == "" {
		return "/"
	}
	return rt.Base
}

func (rt Router) strip(path string) (string, bool) {
	if path == "" {
		path = "/"
	}
	base := rt.base()
	if base == "/" {
		return path, true
	}
	if path == strings.TrimSuffix(base, "/") {
		return "/", true
	}
	if !strings.HasPrefix(path, base) {
		return "", false
	}
	return "/" + strings.TrimPrefix(path, base), true
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
