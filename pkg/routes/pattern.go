package routes

import (
	"context"
	"net/http"
	"sync/atomic"
)

type patternKey struct{}

// Capture attaches a slot to the request context that records the pattern of the
// route eventually serving it. The returned func reads the slot and yields "" when
// no registered route matched. The slot survives request clones made by routers.
func Capture(r *http.Request) (*http.Request, func() string) {
	slot := new(atomic.Pointer[string])
	ctx := context.WithValue(r.Context(), patternKey{}, slot)
	return r.WithContext(ctx), func() string {
		if p := slot.Load(); p != nil {
			return *p
		}
		return ""
	}
}

func record(pattern string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if slot, ok := r.Context().Value(patternKey{}).(*atomic.Pointer[string]); ok {
			slot.Store(&pattern)
		}
		handler(w, r)
	}
}
