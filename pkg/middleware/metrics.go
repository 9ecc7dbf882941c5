package middleware

import (
	"net/http"
	"time"

	"github.com/JaimeStill/scout/pkg/routes"
)

// RequestObserver receives one observation per completed HTTP request.
// Route is the registered pattern, or "unmatched" when no route served the request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Metrics returns middleware that reports request outcomes to obs.
// Route labels come from patterns registered through routes.Register.
func Metrics(obs RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)
			req, pattern := routes.Capture(r)

			next.ServeHTTP(sw, req)

			route := pattern()
			if route == "" {
				route = "unmatched"
			}
			obs.ObserveRequest(r.Method, route, sw.status, time.Since(start))
		})
	}
}
