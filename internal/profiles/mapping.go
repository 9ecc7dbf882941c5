package profiles

import (
	"net/url"

	"github.com/JaimeStill/scout/pkg/query"
	"github.com/JaimeStill/scout/pkg/repository"
)

const columns = `id, user_id, full_name, email, phone_number, location, job_title,
	years_of_experience, sector, skills, experience, education, resume_text,
	resume_file_url, storage_key, content_type, page_count, created_at, updated_at`

var projection = query.
	NewProjectionMap("public", "profiles", "p").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("full_name", "FullName").
	Project("email", "Email").
	Project("phone_number", "PhoneNumber").
	Project("location", "Location").
	Project("job_title", "JobTitle").
	Project("years_of_experience", "YearsOfExperience").
	Project("sector", "Sector").
	Project("skills", "Skills").
	Project("experience", "Experience").
	Project("education", "Education").
	Project("resume_text", "ResumeText").
	Project("resume_file_url", "ResumeFileURL").
	Project("storage_key", "StorageKey").
	Project("content_type", "ContentType").
	Project("page_count", "PageCount").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for profile queries.
// Nil fields are ignored. Skill matches an exact element of the skills list;
// the remaining fields use case-insensitive contains matching.
type Filters struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	JobTitle *string `json:"job_title,omitempty"`
	Sector   *string `json:"sector,omitempty"`
	Location *string `json:"location,omitempty"`
	Skill    *string `json:"skill,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("FullName", f.Name).
		WhereContains("Email", f.Email).
		WhereContains("JobTitle", f.JobTitle).
		WhereContains("Sector", f.Sector).
		WhereContains("Location", f.Location).
		WhereTagged("Skills", f.Skill)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("name"); v != "" {
		f.Name = &v
	}
	if v := values.Get("email"); v != "" {
		f.Email = &v
	}
	if v := values.Get("job_title"); v != "" {
		f.JobTitle = &v
	}
	if v := values.Get("sector"); v != "" {
		f.Sector = &v
	}
	if v := values.Get("location"); v != "" {
		f.Location = &v
	}
	if v := values.Get("skill"); v != "" {
		f.Skill = &v
	}

	return f
}

func scanProfile(s repository.Scanner) (Profile, error) {
	var (
		p      Profile
		skills []byte
	)
	err := s.Scan(
		&p.ID,
		&p.UserID,
		&p.FullName,
		&p.Email,
		&p.PhoneNumber,
		&p.Location,
		&p.JobTitle,
		&p.YearsOfExperience,
		&p.Sector,
		&skills,
		&p.Experience,
		&p.Education,
		&p.ResumeText,
		&p.ResumeFileURL,
		&p.StorageKey,
		&p.ContentType,
		&p.PageCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return p, err
	}

	p.Skills, err = repository.DecodeList(skills)
	return p, err
}
