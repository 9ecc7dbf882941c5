package matching

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/scout/pkg/auth"
	"github.com/JaimeStill/scout/pkg/handlers"
	"github.com/JaimeStill/scout/pkg/routes"
	"github.com/JaimeStill/scout/pkg/sse"
)

// Handler streams match runs over Server-Sent Events.
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
		logger: logger.With("handler", "matching"),
	}
}

// Routes returns the route group definition for match endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/matches",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Match},
		},
	}
}

// Match ranks the caller's profiles against the posted job description.
// Authentication failures answer 401 before the stream opens. An invalid or empty
// request answers a 400 stream holding a single error event.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.Require(w, r, h.logger)
	if !ok {
		return
	}

	var req Request
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		sse.NewEmitter(w, http.StatusBadRequest, h.logger).Fail(fmt.Sprintf("Request failed: %v", err))
		return
	}

	description := req.Description()
	if description == "" {
		sse.NewEmitter(w, MapHTTPStatus(ErrEmptyDescription), h.logger).Fail(ErrEmptyDescription.Error())
		return
	}

	closeStream := h.orch.rt.Metrics.StreamOpened("match")
	defer closeStream()

	em := sse.NewEmitter(w, http.StatusOK, h.logger)

	result, err := h.orch.Run(r.Context(), userID, description, em)
	if err != nil {
		h.logger.Error("match failed", "user_id", userID, "error", err)
		em.Fail(err.Error())
		return
	}

	em.Complete(result)
}
