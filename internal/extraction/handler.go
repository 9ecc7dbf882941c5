package extraction

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/scout/pkg/auth"
	"github.com/JaimeStill/scout/pkg/routes"
	"github.com/JaimeStill/scout/pkg/sse"
)

const (
	// multipartOverhead allows for form boundaries and headers around the file.
	multipartOverhead = 1 << 20
	multipartMemory   = 32 << 20
)

// Handler streams resume extraction over Server-Sent Events.
type Handler struct {
	orch   *Orchestrator
	logger *slog.Logger
}

// Handler returns the HTTP handler for this orchestrator.
func (o *Orchestrator) Handler() *Handler {
	return NewHandler(o, o.logger)
}

// NewHandler creates a Handler for the given orchestrator.
func NewHandler(o *Orchestrator, logger *slog.Logger) *Handler {
	return &Handler{
		orch:   o,
		logger: logger.With("handler", "extraction"),
	}
}

// Routes returns the route group definition for resume endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/resumes",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Upload},
		},
	}
}

// Upload validates the multipart file field and streams its extraction.
// Authentication failures answer 401 before the stream opens; validation
// failures answer a 4xx stream holding a single error event.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.Require(w, r, h.logger)
	if !ok {
		return
	}

	f, err := h.read(w, r)
	if err != nil {
		h.logger.Warn("upload rejected", "user_id", userID, "error", err)
		sse.NewEmitter(w, MapHTTPStatus(err), h.logger).Fail(err.Error())
		return
	}

	closeStream := h.orch.rt.Metrics.StreamOpened("extract")
	defer closeStream()

	em := sse.NewEmitter(w, http.StatusOK, h.logger)

	result, err := h.orch.Run(r.Context(), userID, f, em)
	if err != nil {
		h.logger.Error("extraction failed", "user_id", userID, "file", f.Name, "error", err)
		em.Fail(err.Error())
		return
	}

	em.Complete(result)
}

func (h *Handler) read(w http.ResponseWriter, r *http.Request) (*File, error) {
	maxSize := h.orch.MaxFileSize()
	if maxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrFileTooLarge
		}
		return nil, fmt.Errorf("%w: %v", ErrMissingFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, ErrMissingFile
	}
	defer file.Close()

	if maxSize > 0 && header.Size > maxSize {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingFile, err)
	}

	return Inspect(header.Filename, header.Header.Get("Content-Type"), data, maxSize)
}
