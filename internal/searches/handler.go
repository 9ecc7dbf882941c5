package searches

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/scout/pkg/auth"
	"github.com/JaimeStill/scout/pkg/handlers"
	"github.com/JaimeStill/scout/pkg/pagination"
	"github.com/JaimeStill/scout/pkg/routes"
)

// Handler provides HTTP endpoints for search history.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "searches"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for search endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/searches",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/latest", Handler: h.Latest},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/export", Handler: h.Export},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns a paginated list of the caller's searches without their matches.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.Require(w, r, h.logger)
	if !ok {
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.List(r.Context(), userID, page)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Latest returns the caller's most recent search with its matches.
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.Require(w, r, h.logger)
	if !ok {
		return
	}

	s, err := h.sys.Latest(r.Context(), userID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, s)
}

// Find returns a search with its ranked matches.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.Require(w, r, h.logger)
	if !ok {
		return
	}

	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	s, err := h.sys.Find(r.Context(), userID, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, s)
}

// Export writes a search's ranked matches as a CSV attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.Require(w, r, h.logger)
	if !ok {
		return
	}

	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	s, err := h.sys.Find(r.Context(), userID, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", ExportFilename(s)),
	)
	w.WriteHeader(http.StatusOK)

	if err := WriteCSV(w, s.Matches); err != nil {
		h.logger.Warn("csv export interrupted", "id", id, "error", err)
	}
}

// Delete removes a search and its matches.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.Require(w, r, h.logger)
	if !ok {
		return
	}

	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Delete(r.Context(), userID, id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
