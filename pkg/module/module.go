// Package module mounts prefixed sub-routers, each with its own middleware stack.
package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/scout/pkg/middleware"
)

// Module serves every request under a single-level prefix such as "/api".
// The prefix is stripped before the inner router sees the request.
type Module struct {
	prefix string
	router http.Handler
	stack  middleware.Stack
}

// New creates a Module. It panics when prefix is not a single path segment
// with a leading slash.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{prefix: prefix, router: router}
}

// Prefix returns the mount prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware to the module's stack.
func (m *Module) Use(mw middleware.Func) {
	m.stack.Use(mw)
}

// Handler returns the inner router wrapped with the module middleware.
func (m *Module) Handler() http.Handler {
	return m.stack.Then(m.router)
}

// Serve strips the prefix and dispatches to Handler. The request context is
// shared with the original so route capture slots survive.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	inner := req.Clone(req.Context())
	inner.URL.Path = strings.TrimPrefix(req.URL.Path, m.prefix)
	if inner.URL.Path == "" {
		inner.URL.Path = "/"
	}
	inner.URL.RawPath = ""
	m.Handler().ServeHTTP(w, inner)
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1:
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	return nil
}
