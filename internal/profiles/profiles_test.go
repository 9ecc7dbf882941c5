package profiles_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/JaimeStill/scout/internal/profiles"
	"github.com/JaimeStill/scout/pkg/auth"
	"github.com/JaimeStill/scout/pkg/query"
	"github.com/JaimeStill/scout/pkg/storage"
)

func ptr[T any](v T) *T { return &v }

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", profiles.ErrNotFound, http.StatusNotFound},
		{"no resume", profiles.ErrNoResume, http.StatusNotFound},
		{"missing blob", fmt.Errorf("download resume: %w", storage.ErrNotFound), http.StatusNotFound},
		{"duplicate", profiles.ErrDuplicate, http.StatusConflict},
		{"no user", auth.ErrNoUser, http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := profiles.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		f := profiles.FiltersFromQuery(url.Values{
			"name":      {"ada"},
			"email":     {"example.com"},
			"job_title": {"engineer"},
			"sector":    {"fintech"},
			"location":  {"berlin"},
			"skill":     {"Go"},
		})

		checks := map[string]*string{
			"ada":         f.Name,
			"example.com": f.Email,
			"engineer":    f.JobTitle,
			"fintech":     f.Sector,
			"berlin":      f.Location,
			"Go":          f.Skill,
		}
		for want, got := range checks {
			if got == nil || *got != want {
				t.Errorf("filter = %v, want %s", got, want)
			}
		}
	})

	t.Run("empty params yield nil fields", func(t *testing.T) {
		f := profiles.FiltersFromQuery(url.Values{})
		if f != (profiles.Filters{}) {
			t.Errorf("filters = %+v, want zero value", f)
		}
	})
}

func TestFiltersApply(t *testing.T) {
	projection := query.
		NewProjectionMap("public", "profiles", "p").
		Project("full_name", "FullName").
		Project("email", "Email").
		Project("job_title", "JobTitle").
		Project("sector", "Sector").
		Project("location", "Location").
		Project("skills", "Skills")

	t.Run("no filters produces no WHERE clause", func(t *testing.T) {
		b := query.NewBuilder(projection)
		profiles.Filters{}.Apply(b)
		sql, args := b.Build()

		if strings.Contains(sql, "WHERE") {
			t.Errorf("sql = %q, want no WHERE", sql)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("name contains filter", func(t *testing.T) {
		b := query.NewBuilder(projection)
		profiles.Filters{Name: ptr("ada")}.Apply(b)
		sql, args := b.Build()

		if !strings.Contains(sql, "p.full_name ILIKE $1") {
			t.Errorf("sql = %q, want full_name ILIKE", sql)
		}
		if len(args) != 1 || args[0] != "%ada%" {
			t.Errorf("args = %v, want [%%ada%%]", args)
		}
	})

	t.Run("skill uses containment", func(t *testing.T) {
		b := query.NewBuilder(projection)
		profiles.Filters{Skill: ptr("Go")}.Apply(b)
		sql, args := b.Build()

		if !strings.Contains(sql, "p.skills @> jsonb_build_array($1::text)") {
			t.Errorf("sql = %q, want skills containment", sql)
		}
		if len(args) != 1 || args[0] != "Go" {
			t.Errorf("args = %v, want [Go]", args)
		}
	})

	t.Run("multiple filters combine with AND", func(t *testing.T) {
		b := query.NewBuilder(projection)
		profiles.Filters{
			JobTitle: ptr("engineer"),
			Sector:   ptr("fintech"),
			Location: ptr("berlin"),
		}.Apply(b)
		sql, args := b.Build()

		if strings.Count(sql, " AND ") != 2 {
			t.Errorf("sql = %q, want two AND joins", sql)
		}
		if len(args) != 3 {
			t.Errorf("args length = %d, want 3", len(args))
		}
	})
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want *string
	}{
		{"nil", nil, nil},
		{"blank", ptr("   "), nil},
		{"mixed case", ptr("  Ada@Example.COM "), ptr("ada@example.com")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := profiles.NormalizeEmail(tt.in)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("NormalizeEmail = %q, want nil", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("NormalizeEmail = %v, want %q", got, *tt.want)
			}
		})
	}
}

func TestContactUpdateEmpty(t *testing.T) {
	if !(profiles.ContactUpdate{}).Empty() {
		t.Error("zero update should be empty")
	}
	if (profiles.ContactUpdate{YearsOfExperience: ptr(4)}).Empty() {
		t.Error("update with years should not be empty")
	}
}
