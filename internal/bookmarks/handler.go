package bookmarks

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/scout/pkg/auth"
	"github.com/JaimeStill/scout/pkg/handlers"
	"github.com/JaimeStill/scout/pkg/routes"
)

// Handler provides HTTP endpoints for bookmarks.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "bookmarks"),
	}
}

// Routes returns the route group definition for bookmark endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/bookmarks",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "/{profile_id}", Handler: h.Add},
			{Method: "POST", Pattern: "/{profile_id}/toggle", Handler: h.Toggle},
			{Method: "DELETE", Pattern: "/{profile_id}", Handler: h.Remove},
		},
	}
}

// List returns the caller's bookmarks, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.Require(w, r, h.logger)
	if !ok {
		return
	}

	items, err := h.sys.List(r.Context(), userID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// Add bookmarks a profile.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.Require(w, r, h.logger)
	if !ok {
		return
	}

	id, err := handlers.PathUUID(r, "profile_id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	b, err := h.sys.Add(r.Context(), userID, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, b)
}

// Toggle flips the bookmark state of a profile.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.Require(w, r, h.logger)
	if !ok {
		return
	}

	id, err := handlers.PathUUID(r, "profile_id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	res, err := h.sys.Toggle(r.Context(), userID, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, res)
}

// Remove deletes the bookmark on a profile.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.Require(w, r, h.logger)
	if !ok {
		return
	}

	id, err := handlers.PathUUID(r, "profile_id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Remove(r.Context(), userID, id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
