package bookmarks

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/scout/pkg/auth"
)

// Domain errors for bookmark operations.
var (
	ErrNotFound        = errors.New("bookmark not found")
	ErrDuplicate       = errors.New("bookmark already exists")
	ErrProfileNotFound = errors.New("candidate profile not found")
)

// MapHTTPStatus maps bookmark domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, auth.ErrNoUser):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
