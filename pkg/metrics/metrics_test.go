package metrics_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/JaimeStill/scout/pkg/metrics"
)

func find(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) *dto.Metric {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	next:
		for _, m := range f.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue next
				}
			}
			return m
		}
	}
	return nil
}

func TestObserveAttempt(t *testing.T) {
	m := metrics.New()

	m.ObserveAttempt("rank", 200*time.Millisecond, nil)
	m.ObserveAttempt("rank", time.Second, errors.New("timeout"))
	m.ObserveAttempt("rank", time.Second, errors.New("timeout"))

	failures := find(t, m.Registry(), "scout_ai_attempts_total", map[string]string{"operation": "rank", "outcome": "failure"})
	if failures == nil || failures.GetCounter().GetValue() != 2 {
		t.Errorf("failure attempts = %v, want 2", failures)
	}

	hist := find(t, m.Registry(), "scout_ai_request_duration_seconds", map[string]string{"operation": "rank"})
	if hist == nil || hist.GetHistogram().GetSampleCount() != 3 {
		t.Errorf("duration samples = %v, want 3", hist)
	}
}

func TestFallbacksAndStreams(t *testing.T) {
	m := metrics.New()

	m.AddFallbacks("rank", 5)
	m.AddFallbacks("rank", 0)

	fb := find(t, m.Registry(), "scout_fallback_entries_total", map[string]string{"operation": "rank"})
	if fb == nil || fb.GetCounter().GetValue() != 5 {
		t.Errorf("fallbacks = %v, want 5", fb)
	}

	done := m.StreamOpened("match")
	open := find(t, m.Registry(), "scout_active_streams", map[string]string{"flow": "match"})
	if open.GetGauge().GetValue() != 1 {
		t.Errorf("active streams = %v, want 1", open.GetGauge().GetValue())
	}

	done()
	closed := find(t, m.Registry(), "scout_active_streams", map[string]string{"flow": "match"})
	if closed.GetGauge().GetValue() != 0 {
		t.Errorf("active streams = %v, want 0", closed.GetGauge().GetValue())
	}
}

func TestHandler(t *testing.T) {
	m := metrics.New()
	m.ObserveRequest("POST", "POST /matches", 200, 3*time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	want := `scout_http_requests_total{method="POST",route="POST /matches",status="200"} 1`
	if !strings.Contains(string(body), want) {
		t.Errorf("exposition missing %q", want)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("exposition missing runtime collectors")
	}
}
