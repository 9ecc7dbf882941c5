package bookmarks

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for bookmark operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, userID string) ([]Bookmark, error)

	// Add bookmarks one of the user's profiles. Adding an existing bookmark returns it unchanged.
	Add(ctx context.Context, userID string, candidateID uuid.UUID) (*Bookmark, error)
	Remove(ctx context.Context, userID string, candidateID uuid.UUID) error
	Toggle(ctx context.Context, userID string, candidateID uuid.UUID) (*ToggleResult, error)
}
