package searches

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var exportHeader = []string{
	"Rank",
	"Full Name",
	"Email",
	"Phone Number",
	"Location",
	"Job Title",
	"Years of Experience",
	"Match %",
	"Key Strengths",
	"Potential Concerns",
	"Reasoning",
	"Resume URL",
}

// WriteCSV writes matches as CSV in the order given, numbering rows from 1.
// List columns are joined with "; ".
func WriteCSV(w io.Writer, matches []Match) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, m := range matches {
		years := ""
		if m.ExperienceYears != nil {
			years = strconv.Itoa(*m.ExperienceYears)
		}

		row := []string{
			strconv.Itoa(i + 1),
			m.CandidateName,
			deref(m.CandidateEmail),
			deref(m.CandidatePhone),
			deref(m.CandidateLocation),
			deref(m.JobRole),
			years,
			strconv.Itoa(m.MatchScore),
			strings.Join(m.KeyStrengths, "; "),
			strings.Join(m.PotentialConcerns, "; "),
			m.Reasoning,
			deref(m.ResumeFileURL),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFilename names the CSV download for a search.
func ExportFilename(s *Search) string {
	return fmt.Sprintf("candidate_matches_%s.csv", s.CreatedAt.UTC().Format("2006-01-02"))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
