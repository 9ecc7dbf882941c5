// Package profiles implements the candidate profile domain.
// A profile is the structured result of parsing one uploaded resume, owned by
// the user who uploaded it, with an optional reference to the stored file.
package profiles

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile is a parsed candidate resume.
type Profile struct {
	ID                uuid.UUID `json:"id"`
	UserID            string    `json:"user_id"`
	FullName          *string   `json:"full_name"`
	Email             *string   `json:"email"`
	PhoneNumber       *string   `json:"phone_number"`
	Location          *string   `json:"location"`
	JobTitle          *string   `json:"job_title"`
	YearsOfExperience *int      `json:"years_of_experience"`
	Sector            *string   `json:"sector"`
	Skills            []string  `json:"skills"`
	Experience        *string   `json:"experience"`
	Education         *string   `json:"education"`
	ResumeText        *string   `json:"resume_text"`
	ResumeFileURL     *string   `json:"resume_file_url"`
	StorageKey        *string   `json:"storage_key"`
	ContentType       *string   `json:"content_type"`
	PageCount         *int      `json:"page_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Fields are the parsed resume values of a profile.
// Nil values are stored as NULL.
type Fields struct {
	FullName          *string
	Email             *string
	PhoneNumber       *string
	Location          *string
	JobTitle          *string
	YearsOfExperience *int
	Sector            *string
	Skills            []string
	Experience        *string
	Education         *string
	ResumeText        *string
}

// SaveCommand carries a parsed resume and its stored file.
// With an email the upload enriches the user's existing profile for that
// address; without one a new profile is always inserted.
type SaveCommand struct {
	UserID        string
	Fields        Fields
	ResumeFileURL *string
	StorageKey    *string
	ContentType   *string
	PageCount     *int
}

// ContactUpdate carries display fields recovered during ranking.
// Nil fields leave the stored value unchanged.
type ContactUpdate struct {
	FullName          *string
	Email             *string
	PhoneNumber       *string
	Location          *string
	JobTitle          *string
	YearsOfExperience *int
}

// Empty reports whether the update changes nothing.
func (c ContactUpdate) Empty() bool {
	return c.FullName == nil &&
		c.Email == nil &&
		c.PhoneNumber == nil &&
		c.Location == nil &&
		c.JobTitle == nil &&
		c.YearsOfExperience == nil
}

// NormalizeEmail lowercases and trims an address. Blank values become nil.
func NormalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*email))
	if v == "" {
		return nil
	}
	return &v
}
