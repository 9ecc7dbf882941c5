package profiles

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/scout/pkg/pagination"
	"github.com/JaimeStill/scout/pkg/storage"
)

// System defines the public contract for profile domain operations.
// Reads and deletes are scoped to the owning user.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		userID string,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Profile], error)

	Find(ctx context.Context, userID string, id uuid.UUID) (*Profile, error)
	FindByEmail(ctx context.Context, userID, email string) (*Profile, error)

	// Recent returns up to limit of the user's profiles, newest first.
	Recent(ctx context.Context, userID string, limit int) ([]Profile, error)

	Save(ctx context.Context, cmd SaveCommand) (*Profile, error)
	UpdateContact(ctx context.Context, id uuid.UUID, update ContactUpdate) error
	Delete(ctx context.Context, userID string, id uuid.UUID) error

	// Resume opens the stored resume file of a profile. The caller must close the blob body.
	Resume(ctx context.Context, userID string, id uuid.UUID) (*storage.Blob, *Profile, error)
}
