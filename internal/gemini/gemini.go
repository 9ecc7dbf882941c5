// Package gemini adapts the Gemini generative model to the three calls the service
// makes: ranking candidate snippets against a job description, extracting structured
// profile fields from a resume, and transcribing a resume to plain text.
package gemini

import (
	"context"
	"time"
)

// Operation names used in logs, errors, and metrics.
const (
	OpRank       = "rank"
	OpExtract    = "extract"
	OpTranscribe = "transcribe"
)

// DefaultSnippetLimit is the per-candidate character budget when a request sets none.
const DefaultSnippetLimit = 1000

// Client is the model surface the orchestrators depend on.
type Client interface {
	Rank(ctx context.Context, req RankRequest) (*RankResponse, error)
	Extract(ctx context.Context, req ExtractRequest) (*ExtractedProfile, error)
	Transcribe(ctx context.Context, req TranscribeRequest) (string, error)
}

// Observer receives the outcome of every model call.
type Observer interface {
	ObserveAttempt(operation string, elapsed time.Duration, err error)
}

// Snippet is one candidate's resume excerpt. Index is the candidate's position
// in the full source list and is echoed back as candidateIndex.
type Snippet struct {
	Index int    `json:"index"`
	Text  string `json:"resume"`
}

// RankRequest scores a group of candidates against one job description.
type RankRequest struct {
	Instructions   string
	JobDescription string
	Candidates     []Snippet
	SnippetLimit   int
}

// RankedCandidate is one validated entry of a rank response.
type RankedCandidate struct {
	CandidateIndex    int      `json:"candidateIndex"`
	FullName          *string  `json:"fullName"`
	Email             *string  `json:"email"`
	Phone             *string  `json:"phone"`
	Location          *string  `json:"location"`
	JobTitle          *string  `json:"jobTitle"`
	YearsOfExperience *int     `json:"yearsOfExperience"`
	MatchScore        int      `json:"matchScore"`
	Reasoning         string   `json:"reasoning"`
	Strengths         []string `json:"strengths"`
	Concerns          []string `json:"concerns"`
}

// RankResponse holds the ranked entries in the order the model returned them.
type RankResponse struct {
	Candidates []RankedCandidate `json:"candidates"`
}

// Document is a resume handed to the model. When Text is set it is sent as a
// text part and Data is ignored; otherwise Data goes inline with MIMEType.
type Document struct {
	Data     []byte
	MIMEType string
	Text     string
}

// ExtractRequest asks for structured profile fields from one document.
type ExtractRequest struct {
	Instructions string
	Document     Document
}

// TranscribeRequest asks for the plain text of one document.
type TranscribeRequest struct {
	Instructions string
	Document     Document
}

// ExtractedProfile is the raw field set returned by the extract call.
// Values are not yet sanitized.
type ExtractedProfile struct {
	FullName          Text `json:"full_name"`
	Email             Text `json:"email"`
	PhoneNumber       Text `json:"phone_number"`
	Location          Text `json:"location"`
	JobTitle          Text `json:"job_title"`
	YearsOfExperience Text `json:"years_of_experience"`
	Sector            Text `json:"sector"`
	Skills            List `json:"skills"`
	Experience        Text `json:"experience"`
	Education         Text `json:"education"`
	ResumeText        Text `json:"resume_text"`

	// Raw is the response text the fields were decoded from.
	Raw string `json:"-"`
}
