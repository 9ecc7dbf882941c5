package searches

import (
	"github.com/JaimeStill/scout/pkg/query"
	"github.com/JaimeStill/scout/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "job_searches", "s").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("job_description", "JobDescription").
	Project("total_candidates", "TotalCandidates").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

const matchColumns = `id, search_id, candidate_id, rank, candidate_name, candidate_email,
	candidate_phone, candidate_location, job_role, experience_years, match_score,
	reasoning, key_strengths, potential_concerns, resume_file_url, is_fallback, created_at`

func scanSearch(s repository.Scanner) (Search, error) {
	var v Search
	err := s.Scan(
		&v.ID,
		&v.UserID,
		&v.JobDescription,
		&v.TotalCandidates,
		&v.CreatedAt,
	)
	return v, err
}

func scanMatch(s repository.Scanner) (Match, error) {
	var (
		m                   Match
		strengths, concerns []byte
	)
	err := s.Scan(
		&m.ID,
		&m.SearchID,
		&m.CandidateID,
		&m.Rank,
		&m.CandidateName,
		&m.CandidateEmail,
		&m.CandidatePhone,
		&m.CandidateLocation,
		&m.JobRole,
		&m.ExperienceYears,
		&m.MatchScore,
		&m.Reasoning,
		&strengths,
		&concerns,
		&m.ResumeFileURL,
		&m.IsFallback,
		&m.CreatedAt,
	)
	if err != nil {
		return m, err
	}

	if m.KeyStrengths, err = repository.DecodeList(strengths); err != nil {
		return m, err
	}
	m.PotentialConcerns, err = repository.DecodeList(concerns)
	return m, err
}
