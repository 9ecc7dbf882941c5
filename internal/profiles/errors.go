package profiles

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/scout/pkg/auth"
	"github.com/JaimeStill/scout/pkg/storage"
)

// Domain errors for profile operations.
var (
	ErrNotFound  = errors.New("profile not found")
	ErrDuplicate = errors.New("profile already exists")
	ErrNoResume  = errors.New("profile has no stored resume")
)

// MapHTTPStatus maps profile domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoResume), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, auth.ErrNoUser):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
