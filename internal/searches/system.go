package searches

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/scout/pkg/pagination"
)

// System defines the public contract for search history operations.
// Every operation is scoped to the owning user.
type System interface {
	Handler() *Handler

	// Create records a search and all of its matches in one transaction.
	Create(ctx context.Context, cmd CreateCommand) (*Search, error)

	List(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResult[Search], error)

	// Find returns a search with its matches ordered by score, highest first.
	Find(ctx context.Context, userID string, id uuid.UUID) (*Search, error)
	Latest(ctx context.Context, userID string) (*Search, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}
