package gemini

import (
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"

	"github.com/JaimeStill/scout/pkg/formatting"
)

// Rank entries keep at most this many strengths and concerns.
const maxListEntries = 3

const defaultReasoning = "Analyzed"

type rankEnvelope struct {
	Candidates *[]rankedEntry `json:"candidates"`
}

type rankedEntry struct {
	CandidateIndex    *float64 `json:"candidateIndex"`
	FullName          String   `json:"fullName"`
	Email             String   `json:"email"`
	Phone             String   `json:"phone"`
	Location          String   `json:"location"`
	JobTitle          String   `json:"jobTitle"`
	YearsOfExperience Text     `json:"yearsOfExperience"`
	MatchScore        *float64 `json:"matchScore"`
	Reasoning         String   `json:"reasoning"`
	Strengths         List     `json:"strengths"`
	Concerns          List     `json:"concerns"`
}

// responseText returns the text of the first candidate, failing on truncation,
// blocking, and empty output.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmpty
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", fmt.Errorf("%w: %s", ErrBlocked, fb.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", ErrEmpty
	}

	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonMaxTokens {
		return "", ErrTruncated
	}

	var sb strings.Builder
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought || part.Text == "" {
				continue
			}
			sb.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		if cand.FinishReason == genai.FinishReasonSafety {
			return "", fmt.Errorf("%w: %s", ErrBlocked, cand.FinishReason)
		}
		return "", ErrEmpty
	}
	return text, nil
}

func decodeRank(text string) (*RankResponse, error) {
	env, err := formatting.Parse[rankEnvelope](text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if env.Candidates == nil {
		return nil, fmt.Errorf("%w: missing candidates array", ErrInvalidResponse)
	}

	out := &RankResponse{Candidates: make([]RankedCandidate, 0, len(*env.Candidates))}
	for i, e := range *env.Candidates {
		rc, err := e.validate()
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidResponse, i, err)
		}
		out.Candidates = append(out.Candidates, rc)
	}
	return out, nil
}

func (e rankedEntry) validate() (RankedCandidate, error) {
	if e.CandidateIndex == nil {
		return RankedCandidate{}, fmt.Errorf("missing candidateIndex")
	}
	idx := *e.CandidateIndex
	if idx < 0 || idx != math.Trunc(idx) {
		return RankedCandidate{}, fmt.Errorf("candidateIndex %v is not a valid index", idx)
	}
	if e.MatchScore == nil {
		return RankedCandidate{}, fmt.Errorf("missing matchScore")
	}
	score := *e.MatchScore
	if score < 0 || score > 100 {
		return RankedCandidate{}, fmt.Errorf("matchScore %v outside 0-100", score)
	}

	rc := RankedCandidate{
		CandidateIndex: int(idx),
		FullName:       formatting.SanitizeString(string(e.FullName), 0),
		Email:          formatting.SanitizeString(string(e.Email), 0),
		Phone:          formatting.SanitizeString(string(e.Phone), 0),
		Location:       formatting.SanitizeString(string(e.Location), 0),
		JobTitle:       formatting.SanitizeString(string(e.JobTitle), 0),
		MatchScore:     int(math.Round(score)),
		Reasoning:      defaultReasoning,
		Strengths:      capList(formatting.SanitizeList(e.Strengths)),
		Concerns:       capList(formatting.SanitizeList(e.Concerns)),
	}
	if e.YearsOfExperience != "" {
		rc.YearsOfExperience = formatting.CoerceInt(string(e.YearsOfExperience))
	}
	if r := formatting.SanitizeString(string(e.Reasoning), 0); r != nil {
		rc.Reasoning = *r
	}
	return rc, nil
}

func capList(items []string) []string {
	if items == nil {
		return []string{}
	}
	if len(items) > maxListEntries {
		return items[:maxListEntries]
	}
	return items
}

func decodeProfile(text string) (*ExtractedProfile, error) {
	p, err := formatting.Parse[ExtractedProfile](text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return &p, nil
}
