// Package matching ranks a user's candidate profiles against a job description.
// Profiles are planned into groups, each group is ranked by the model with retry,
// groups that cannot be ranked degrade to fallback entries, and the merged ranking
// is recorded as a search.
package matching

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fallback entry values.
const (
	FallbackReasoning = "Analysis failed - manual review needed"
	FallbackConcern   = "Automated analysis unavailable"
	NotExtracted      = "Not extracted"
)

// Request is the body of a match request. Both key spellings are accepted.
type Request struct {
	JobDescription      string `json:"jobDescription"`
	SnakeJobDescription string `json:"job_description"`
}

// Description returns the trimmed job description, preferring jobDescription.
func (r Request) Description() string {
	if d := strings.TrimSpace(r.JobDescription); d != "" {
		return d
	}
	return strings.TrimSpace(r.SnakeJobDescription)
}

// Match is one ranked candidate joined with its source profile.
type Match struct {
	ID                uuid.UUID `json:"id"`
	ResumeFileURL     *string   `json:"resume_file_url"`
	ResumeText        *string   `json:"resume_text"`
	CreatedAt         time.Time `json:"created_at"`
	FullName          string    `json:"full_name"`
	Email             *string   `json:"email"`
	PhoneNumber       *string   `json:"phone_number"`
	Location          *string   `json:"location"`
	JobTitle          *string   `json:"job_title"`
	YearsOfExperience *int      `json:"years_of_experience"`
	MatchScore        int       `json:"matchScore"`
	Reasoning         string    `json:"reasoning"`
	Strengths         []string  `json:"strengths"`
	Concerns          []string  `json:"concerns"`
	IsFallback        bool      `json:"isFallback"`
}

// Result is the payload of a completed match run. SearchID is nil when there
// was nothing to rank.
type Result struct {
	Matches  []Match    `json:"matches"`
	Total    int        `json:"total"`
	SearchID *uuid.UUID `json:"search_id"`
	Message  string     `json:"message"`
}
