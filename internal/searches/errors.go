package searches

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/scout/pkg/auth"
)

// Domain errors for search operations.
var (
	ErrNotFound  = errors.New("search not found")
	ErrDuplicate = errors.New("search already exists")
	ErrInvalid   = errors.New("job description is required")
)

// MapHTTPStatus maps search domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrNoUser):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
