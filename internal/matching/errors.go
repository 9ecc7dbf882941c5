package matching

import (
	"errors"
	"net/http"
)

// Sentinel errors for a match run. Messages are shown to the client as-is.
var (
	ErrEmptyDescription = errors.New("validation failed: job description is required")
	ErrPromptFailed     = errors.New("failed to load ranking instructions")
	ErrFetchFailed      = errors.New("failed to fetch profiles")
	ErrPersistFailed    = errors.New("failed to save search results")
)

// MapHTTPStatus maps errors raised before a stream opens to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyDescription) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
