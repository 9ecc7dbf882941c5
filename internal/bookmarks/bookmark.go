// Package bookmarks lets a user flag candidate profiles for follow-up.
package bookmarks

import (
	"time"

	"github.com/google/uuid"
)

// Bookmark is a flagged candidate with the profile fields needed to list it.
type Bookmark struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"user_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	CreatedAt   time.Time `json:"created_at"`
	FullName    *string   `json:"full_name"`
	Email       *string   `json:"email"`
	JobTitle    *string   `json:"job_title"`
}

// ToggleResult reports the bookmark state after a toggle.
type ToggleResult struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Bookmarked  bool      `json:"bookmarked"`
}
