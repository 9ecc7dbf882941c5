package matching_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/scout/internal/matching"
	"github.com/JaimeStill/scout/pkg/auth"
	"github.com/JaimeStill/scout/pkg/sse"
)

func setupMux(h *matching.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func post(mux *http.ServeMux, body string, user bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/matches", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user {
		req = req.WithContext(auth.WithUserID(req.Context(), "user-1"))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func readFrames(t *testing.T, body io.Reader) []sse.Frame {
	t.Helper()
	r := sse.NewReader(body)
	var frames []sse.Frame
	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			return frames
		}
		if err != nil {
			t.Fatalf("read frame: %v", err)
		}
		frames = append(frames, f)
	}
}

func TestHandlerMatch(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		f := newFixture(1, scoreByIndex)
		rec := post(setupMux(f.orchestrator().Handler()), `{"jobDescription":"Go"}`, false)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); strings.HasPrefix(ct, "text/event-stream") {
			t.Error("stream opened for unauthenticated request")
		}
	})

	t.Run("empty description", func(t *testing.T) {
		f := newFixture(1, scoreByIndex)
		rec := post(setupMux(f.orchestrator().Handler()), `{"jobDescription":"   "}`, true)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}

		frames := readFrames(t, rec.Body)
		if len(frames) != 1 || frames[0].Event != sse.EventError {
			t.Fatalf("frames = %+v, want single error", frames)
		}

		var data sse.ErrorData
		if err := frames[0].Decode(&data); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if data.Message != matching.ErrEmptyDescription.Error() {
			t.Errorf("message = %q", data.Message)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		f := newFixture(1, scoreByIndex)
		rec := post(setupMux(f.orchestrator().Handler()), `{"jobDescription":`, true)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		frames := readFrames(t, rec.Body)
		if len(frames) != 1 || !frames[0].Fatal() {
			t.Errorf("frames = %+v, want single fatal frame", frames)
		}
	})

	t.Run("streams to completion", func(t *testing.T) {
		f := newFixture(3, scoreByIndex)
		rec := post(setupMux(f.orchestrator().Handler()), `{"job_description":"Go engineer"}`, true)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		frames := readFrames(t, rec.Body)
		if len(frames) == 0 {
			t.Fatal("no frames")
		}

		terminal := 0
		for _, fr := range frames {
			if fr.Terminal() {
				terminal++
			}
		}
		if terminal != 1 {
			t.Errorf("terminal frames = %d, want 1", terminal)
		}

		last := frames[len(frames)-1]
		if last.Event != sse.EventComplete {
			t.Fatalf("last event = %q, want complete", last.Event)
		}

		var result matching.Result
		if err := last.Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Total != 3 || len(result.Matches) != 3 || result.SearchID == nil {
			t.Errorf("result = %+v", result)
		}
		if got := f.metrics.open.Load(); got != 0 {
			t.Errorf("open streams = %d, want 0 after completion", got)
		}
	})

	t.Run("run failure ends with error event", func(t *testing.T) {
		f := newFixture(2, scoreByIndex)
		f.searches.err = errors.New("insert failed")
		rec := post(setupMux(f.orchestrator().Handler()), `{"jobDescription":"Go engineer"}`, true)

		frames := readFrames(t, rec.Body)
		last := frames[len(frames)-1]
		if last.Event != sse.EventError {
			t.Fatalf("last event = %q, want error", last.Event)
		}

		var data sse.ErrorData
		if err := last.Decode(&data); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.Contains(data.Message, matching.ErrPersistFailed.Error()) {
			t.Errorf("message = %q", data.Message)
		}
	})
}

func TestMapHTTPStatus(t *testing.T) {
	if got := matching.MapHTTPStatus(matching.ErrEmptyDescription); got != http.StatusBadRequest {
		t.Errorf("empty description = %d, want 400", got)
	}
	if got := matching.MapHTTPStatus(context.DeadlineExceeded); got != http.StatusInternalServerError {
		t.Errorf("other = %d, want 500", got)
	}
}
