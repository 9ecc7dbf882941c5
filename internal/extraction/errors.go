package extraction

import (
	"errors"
	"net/http"
)

var (
	ErrMissingFile      = errors.New("validation failed: file is required")
	ErrEmptyFile        = errors.New("validation failed: file is empty")
	ErrFileTooLarge     = errors.New("validation failed: file exceeds maximum size")
	ErrUnsupportedType  = errors.New("validation failed: unsupported file type")
	ErrUnreadablePDF    = errors.New("validation failed: pdf could not be read")
	ErrPromptFailed     = errors.New("failed to load extraction instructions")
	ErrUploadFailed     = errors.New("storage upload failed")
	ErrExtractionFailed = errors.New("extraction failed")
	ErrPersistFailed    = errors.New("failed to save profile")
	ErrNoText           = errors.New("no readable text in document")
)

// MapHTTPStatus maps validation errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrMissingFile),
		errors.Is(err, ErrEmptyFile),
		errors.Is(err, ErrUnreadablePDF):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
