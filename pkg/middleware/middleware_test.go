package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/scout/pkg/middleware"
	"github.com/JaimeStill/scout/pkg/routes"
)

func TestStackOrder(t *testing.T) {
	var order []string
	var mw middleware.Stack

	for _, name := range []string{"first", "second"} {
		mw.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	if mw.Len() != 2 {
		t.Fatalf("len: got %d, want 2", mw.Len())
	}

	handler := mw.Then(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if strings.Join(order, ",") != "first,second,handler" {
		t.Errorf("order: got %v, want [first second handler]", order)
	}
}

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name            string
		cfg             middleware.CORSConfig
		method          string
		origin          string
		wantStatus      int
		wantOrigin      string
		wantCredentials string
	}{
		{
			name:       "disabled",
			cfg:        middleware.CORSConfig{Origins: []string{"http://app.test"}},
			method:     "GET",
			origin:     "http://app.test",
			wantStatus: http.StatusOK,
		},
		{
			name:            "allowed origin",
			cfg:             middleware.CORSConfig{Enabled: true, Origins: []string{"http://app.test"}, AllowCredentials: true},
			method:          "GET",
			origin:          "http://app.test",
			wantStatus:      http.StatusOK,
			wantOrigin:      "http://app.test",
			wantCredentials: "true",
		},
		{
			name:       "disallowed origin",
			cfg:        middleware.CORSConfig{Enabled: true, Origins: []string{"http://app.test"}},
			method:     "GET",
			origin:     "http://evil.test",
			wantStatus: http.StatusOK,
		},
		{
			name:       "wildcard never sends credentials",
			cfg:        middleware.CORSConfig{Enabled: true, Origins: []string{"*"}, AllowCredentials: true},
			method:     "GET",
			origin:     "http://any.test",
			wantStatus: http.StatusOK,
			wantOrigin: "*",
		},
		{
			name:       "preflight short-circuits",
			cfg:        middleware.CORSConfig{Enabled: true, Origins: []string{"http://app.test"}},
			method:     "OPTIONS",
			origin:     "http://app.test",
			wantStatus: http.StatusNoContent,
			wantOrigin: "http://app.test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			tt.cfg.ExposedHeaders = []string{"Content-Disposition"}

			middleware.CORS(&tt.cfg)(ok).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("allow-origin: got %q, want %q", got, tt.wantOrigin)
			}
			if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCredentials {
				t.Errorf("allow-credentials: got %q, want %q", got, tt.wantCredentials)
			}
			if tt.wantOrigin != "" && rec.Header().Get("Access-Control-Expose-Headers") != "Content-Disposition" {
				t.Errorf("expose-headers: got %q", rec.Header().Get("Access-Control-Expose-Headers"))
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/profiles?page=2", nil))

	out := buf.String()
	for _, want := range []string{"level=ERROR", "status=502", "uri=\"/api/profiles?page=2\""} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}

func TestLoggerPreservesFlush(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("event: log\n\n"))
		if err := http.NewResponseController(w).Flush(); err != nil {
			t.Errorf("Flush() error = %v", err)
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/matches", nil))

	if !rec.Flushed {
		t.Error("response should be flushed through the wrapper")
	}
}

type observation struct {
	method string
	route  string
	status int
}

type recorder struct {
	mu  sync.Mutex
	obs []observation
}

func (r *recorder) ObserveRequest(method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.obs = append(r.obs, observation{method, route, status})
}

func TestMetrics(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Prefix: "/profiles",
		Routes: []routes.Route{{
			Method:  "GET",
			Pattern: "/{id}",
			Handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
		}},
	})

	rec := &recorder{}
	handler := middleware.Metrics(rec)(mux)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/profiles/42", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/nowhere", nil))

	want := []observation{
		{"GET", "GET /profiles/{id}", http.StatusNotFound},
		{"GET", "unmatched", http.StatusNotFound},
	}
	if len(rec.obs) != len(want) {
		t.Fatalf("observations = %v, want %v", rec.obs, want)
	}
	for i := range want {
		if rec.obs[i] != want[i] {
			t.Errorf("observation[%d] = %v, want %v", i, rec.obs[i], want[i])
		}
	}
}

func TestCORSConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := middleware.CORSConfig{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize failed: %v", err)
		}
		if len(cfg.AllowedMethods) != 5 || len(cfg.AllowedHeaders) != 3 || cfg.MaxAge != 3600 {
			t.Errorf("defaults = %+v", cfg)
		}
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("TEST_CORS_ENABLED", "true")
		t.Setenv("TEST_CORS_ORIGINS", "http://a.test, ,http://b.test")

		cfg := middleware.CORSConfig{}
		err := cfg.Finalize(&middleware.CORSEnv{Enabled: "TEST_CORS_ENABLED", Origins: "TEST_CORS_ORIGINS"})
		if err != nil {
			t.Fatalf("finalize failed: %v", err)
		}
		if !cfg.Enabled || strings.Join(cfg.Origins, "|") != "http://a.test|http://b.test" {
			t.Errorf("config = %+v", cfg)
		}
	})

	t.Run("merge", func(t *testing.T) {
		base := middleware.CORSConfig{Origins: []string{"http://base.test"}, AllowedMethods: []string{"GET"}, MaxAge: 3600}
		base.Merge(&middleware.CORSConfig{Enabled: true, Origins: []string{"http://overlay.test"}, MaxAge: 7200})

		if !base.Enabled || base.Origins[0] != "http://overlay.test" || base.MaxAge != 7200 {
			t.Errorf("merged = %+v", base)
		}
		if len(base.AllowedMethods) != 1 {
			t.Errorf("allowed_methods should be preserved, got %v", base.AllowedMethods)
		}
	})
}
