package extraction_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/JaimeStill/scout/internal/config"
	"github.com/JaimeStill/scout/internal/extraction"
	"github.com/JaimeStill/scout/internal/gemini"
	"github.com/JaimeStill/scout/pkg/auth"
	"github.com/JaimeStill/scout/pkg/sse"
)

func setupMux(h *extraction.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}

	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func upload(mux *http.ServeMux, body io.Reader, contentType string, user bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/resumes", body)
	req.Header.Set("Content-Type", contentType)
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

func singleError(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, want error) {
	t.Helper()

	if rec.Code != wantStatus {
		t.Errorf("status = %d, want %d", rec.Code, wantStatus)
	}

	frames := readFrames(t, rec.Body)
	if len(frames) != 1 || frames[0].Event != sse.EventError {
		t.Fatalf("frames = %+v, want single error", frames)
	}

	var data sse.ErrorData
	if err := frames[0].Decode(&data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Contains([]byte(data.Message), []byte(want.Error())) {
		t.Errorf("message = %q, want %q", data.Message, want)
	}
}

func TestHandlerUpload(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		f := newFixture(config.ModeStructured)
		body, ct := multipartBody(t, "file", "cv.txt", "text/plain", []byte("resume"))

		rec := upload(setupMux(f.orchestrator().Handler()), body, ct, false)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		f := newFixture(config.ModeStructured)
		body, ct := multipartBody(t, "attachment", "cv.txt", "text/plain", []byte("resume"))

		rec := upload(setupMux(f.orchestrator().Handler()), body, ct, true)
		singleError(t, rec, http.StatusBadRequest, extraction.ErrMissingFile)
	})

	t.Run("unsupported type", func(t *testing.T) {
		f := newFixture(config.ModeStructured)
		body, ct := multipartBody(t, "file", "cv.gif", "image/gif", []byte("GIF89a......"))

		rec := upload(setupMux(f.orchestrator().Handler()), body, ct, true)
		singleError(t, rec, http.StatusUnsupportedMediaType, extraction.ErrUnsupportedType)
	})

	t.Run("too large", func(t *testing.T) {
		f := newFixture(config.ModeStructured)
		body, ct := multipartBody(t, "file", "cv.txt", "text/plain", bytes.Repeat([]byte("a"), 2048))

		rec := upload(setupMux(f.orchestrator().Handler()), body, ct, true)
		singleError(t, rec, http.StatusRequestEntityTooLarge, extraction.ErrFileTooLarge)
	})

	t.Run("streams to completion", func(t *testing.T) {
		f := newFixture(config.ModeStructured)
		body, ct := multipartBody(t, "file", "cv.txt", "text/plain", []byte("Ada Lovelace\nada@example.com"))

		rec := upload(setupMux(f.orchestrator().Handler()), body, ct, true)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		frames := readFrames(t, rec.Body)
		last := frames[len(frames)-1]
		if last.Event != sse.EventComplete {
			t.Fatalf("last event = %q, want complete", last.Event)
		}

		var result extraction.Result
		if err := last.Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !result.Success || result.ProfileID.String() == "" {
			t.Errorf("result = %+v", result)
		}

		steps := 0
		for _, fr := range frames {
			if fr.Event != sse.EventProgress {
				continue
			}
			var p sse.ProgressData
			if err := fr.Decode(&p); err != nil {
				t.Fatalf("decode progress: %v", err)
			}
			if p.Step == "" || p.Total != 4 {
				t.Errorf("progress = %+v", p)
			}
			steps++
		}
		if steps != 4 {
			t.Errorf("progress events = %d, want 4", steps)
		}
		if f.metrics.open.Load() != 0 {
			t.Error("stream gauge not released")
		}
	})

	t.Run("extraction failure ends with error event", func(t *testing.T) {
		f := newFixture(config.ModeStructured)
		f.client.extractFn = func(context.Context, gemini.ExtractRequest) (*gemini.ExtractedProfile, error) {
			return nil, errors.New("model unavailable")
		}
		body, ct := multipartBody(t, "file", "cv.txt", "text/plain", []byte("resume"))

		rec := upload(setupMux(f.orchestrator().Handler()), body, ct, true)
		frames := readFrames(t, rec.Body)
		last := frames[len(frames)-1]
		if !last.Fatal() {
			t.Errorf("last event = %q, want fatal", last.Event)
		}
	})
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{extraction.ErrMissingFile, http.StatusBadRequest},
		{extraction.ErrUnreadablePDF, http.StatusBadRequest},
		{extraction.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{extraction.ErrUnsupportedType, http.StatusUnsupportedMediaType},
		{extraction.ErrExtractionFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := extraction.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus = %d, want %d", got, tt.want)
			}
		})
	}
}
