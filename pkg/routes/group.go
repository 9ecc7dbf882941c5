// Package routes declares HTTP endpoints as nested groups and registers them on
// a ServeMux using Go 1.22 method patterns.
package routes

import "net/http"

// Route is a single endpoint. Pattern is appended to the enclosing group prefixes
// and may be empty to serve the prefix itself.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group is a set of routes sharing a prefix. Children inherit the prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register mounts every route of groups on mux. Handlers record their full
// pattern on requests prepared with Capture.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		g.register(mux, "")
	}
}

func (g Group) register(mux *http.ServeMux, parent string) {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		pattern := r.Method + " " + prefix + r.Pattern
		mux.HandleFunc(pattern, record(pattern, r.Handler))
	}
	for _, child := range g.Children {
		child.register(mux, prefix)
	}
}
