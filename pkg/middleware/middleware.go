// Package middleware provides the HTTP wrappers applied to every module:
// request logging, Prometheus instrumentation, and CORS.
package middleware

import "net/http"

// Func wraps a handler with cross-cutting behavior.
type Func func(http.Handler) http.Handler

// Stack is an ordered list of middleware. The first entry added runs outermost.
// The zero value is ready to use.
type Stack struct {
	funcs []Func
}

// Use appends fns to the stack.
func (s *Stack) Use(fns ...Func) {
	s.funcs = append(s.funcs, fns...)
}

// Len reports how many middleware are registered.
func (s *Stack) Len() int {
	return len(s.funcs)
}

// Then wraps h with the stack.
func (s *Stack) Then(h http.Handler) http.Handler {
	for i := len(s.funcs) - 1; i >= 0; i-- {
		h = s.funcs[i](h)
	}
	return h
}
