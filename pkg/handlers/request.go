package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// MaxBodyBytes bounds JSON request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// ErrInvalidID indicates a path parameter is not a valid UUID.
var ErrInvalidID = errors.New("invalid id")

// DecodeJSON decodes a bounded JSON request body into v. An empty body is an error.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body required")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// PathUUID parses the named path value as a UUID.
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrInvalidID, name)
	}
	return id, nil
}
