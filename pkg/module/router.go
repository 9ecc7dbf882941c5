package module

import (
	"net/http"
	"strings"
)

// Router sends each request to the module owning its first path segment.
// Paths no module owns fall through to a native ServeMux, which hosts the
// operational endpoints (health, readiness, metrics).
type Router struct {
	modules map[string]*Module
	native  *http.ServeMux
}

// NewRouter returns a Router with no modules mounted.
func NewRouter() *Router {
	return &Router{
		modules: map[string]*Module{},
		native:  http.NewServeMux(),
	}
}

// HandleNative registers handler on the fallback mux.
func (r *Router) HandleNative(pattern string, handler http.Handler) {
	r.native.Handle(pattern, handler)
}

// Mount attaches m under its prefix, replacing any module already there.
func (r *Router) Mount(m *Module) {
	r.modules[m.prefix] = m
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if p := req.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
		req.URL.Path = strings.TrimSuffix(p, "/")
	}

	if m, ok := r.modules[firstSegment(req.URL.Path)]; ok {
		m.Serve(w, req)
		return
	}
	r.native.ServeHTTP(w, req)
}

func firstSegment(path string) string {
	rest := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return "/" + rest
}
