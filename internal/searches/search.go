// Package searches records completed candidate matching runs: the job
// description that was searched and the ranked matches it produced.
package searches

import (
	"time"

	"github.com/google/uuid"
)

// Search is one completed matching run.
type Search struct {
	ID              uuid.UUID `json:"id"`
	UserID          string    `json:"user_id"`
	JobDescription  string    `json:"job_description"`
	TotalCandidates int       `json:"total_candidates"`
	CreatedAt       time.Time `json:"created_at"`
	Matches         []Match   `json:"matches,omitempty"`
}

// Match is a ranked candidate within a search. Contact fields are a snapshot
// taken when the search ran and do not follow later profile edits.
type Match struct {
	ID                uuid.UUID `json:"id"`
	SearchID          uuid.UUID `json:"search_id"`
	CandidateID       uuid.UUID `json:"candidate_id"`
	Rank              int       `json:"rank"`
	CandidateName     string    `json:"candidate_name"`
	CandidateEmail    *string   `json:"candidate_email"`
	CandidatePhone    *string   `json:"candidate_phone"`
	CandidateLocation *string   `json:"candidate_location"`
	JobRole           *string   `json:"job_role"`
	ExperienceYears   *int      `json:"experience_years"`
	MatchScore        int       `json:"match_score"`
	Reasoning         string    `json:"reasoning"`
	KeyStrengths      []string  `json:"key_strengths"`
	PotentialConcerns []string  `json:"potential_concerns"`
	ResumeFileURL     *string   `json:"resume_file_url"`
	IsFallback        bool      `json:"is_fallback"`
	CreatedAt         time.Time `json:"created_at"`
}

// MatchInput is a ranked candidate to record. Rank is assigned from its
// position in CreateCommand.Matches.
type MatchInput struct {
	CandidateID       uuid.UUID
	CandidateName     string
	CandidateEmail    *string
	CandidatePhone    *string
	CandidateLocation *string
	JobRole           *string
	ExperienceYears   *int
	MatchScore        int
	Reasoning         string
	KeyStrengths      []string
	PotentialConcerns []string
	ResumeFileURL     *string
	IsFallback        bool
}

// CreateCommand records a search and its matches in ranked order.
type CreateCommand struct {
	UserID          string
	JobDescription  string
	TotalCandidates int
	Matches         []MatchInput
}
