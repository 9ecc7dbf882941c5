package query_test

import (
	"slices"
	"testing"

	"github.com/JaimeStill/scout/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "profiles", "p").
		Project("id", "id").
		Project("full_name", "fullName").
		Project("skills", "skills").
		Project("years_of_experience", "yearsOfExperience").
		Project("created_at", "createdAt")
}

const selectAll = "SELECT p.id, p.full_name, p.skills, p.years_of_experience, p.created_at FROM public.profiles p"

func ptr[T any](v T) *T { return &v }

func TestProjectionMap(t *testing.T) {
	p := testProjection()

	if got := p.Table(); got != "public.profiles p" {
		t.Errorf("Table() = %q", got)
	}
	if got := p.Alias(); got != "p" {
		t.Errorf("Alias() = %q", got)
	}
	if got := p.Column("fullName"); got != "p.full_name" {
		t.Errorf("Column(fullName) = %q", got)
	}
	if got := p.Column("unknown"); got != "unknown" {
		t.Errorf("Column(unknown) = %q, want passthrough", got)
	}
	if !p.Has("createdAt") || p.Has("created_at") {
		t.Error("Has should match view names only")
	}
	if len(p.ColumnList()) != 5 {
		t.Errorf("ColumnList() length = %d, want 5", len(p.ColumnList()))
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		input string
		want  []query.SortField
	}{
		{"", nil},
		{"fullName", []query.SortField{{Field: "fullName"}}},
		{"-createdAt", []query.SortField{{Field: "createdAt", Descending: true}}},
		{"fullName, -createdAt,", []query.SortField{{Field: "fullName"}, {Field: "createdAt", Descending: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := query.ParseSortFields(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("ParseSortFields(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuilder(t *testing.T) {
	tests := []struct {
		name     string
		build    func() (string, []any)
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "plain select",
			build:   query.NewBuilder(testProjection()).Build,
			wantSQL: selectAll,
		},
		{
			name:    "count",
			build:   query.NewBuilder(testProjection()).BuildCount,
			wantSQL: "SELECT COUNT(*) FROM public.profiles p",
		},
		{
			name: "page with default sort",
			build: func() (string, []any) {
				return query.NewBuilder(testProjection(), query.SortField{Field: "createdAt", Descending: true}).BuildPage(2, 10)
			},
			wantSQL: selectAll + " ORDER BY p.created_at DESC LIMIT 10 OFFSET 10",
		},
		{
			name: "single by id",
			build: func() (string, []any) {
				return query.NewBuilder(testProjection()).BuildSingle("id", "abc-123")
			},
			wantSQL:  selectAll + " WHERE p.id = $1",
			wantArgs: []any{"abc-123"},
		},
		{
			name: "nil filters skipped",
			build: query.NewBuilder(testProjection()).
				WhereEquals("id", (*string)(nil)).
				WhereContains("fullName", ptr("")).
				WhereSearch(nil, "fullName").
				WhereAtLeast("yearsOfExperience", (*int)(nil)).
				WhereTagged("skills", nil).
				WhereIn("id", nil).
				Build,
			wantSQL: selectAll,
		},
		{
			name: "conditions numbered in order",
			build: query.NewBuilder(testProjection()).
				WhereSearch(ptr("jane"), "fullName", "skills").
				WhereAtLeast("yearsOfExperience", ptr(5)).
				WhereTagged("skills", ptr("Go")).
				BuildCount,
			wantSQL:  "SELECT COUNT(*) FROM public.profiles p WHERE (p.full_name ILIKE $1 OR p.skills ILIKE $2) AND p.years_of_experience >= $3 AND p.skills @> jsonb_build_array($4::text)",
			wantArgs: []any{"%jane%", "%jane%", ptr(5), "Go"},
		},
		{
			name: "in and nullable",
			build: query.NewBuilder(testProjection()).
				WhereIn("id", []any{"a", "b"}).
				WhereNullable("fullName", nil).
				Build,
			wantSQL:  selectAll + " WHERE p.id IN ($1, $2) AND p.full_name IS NULL",
			wantArgs: []any{"a", "b"},
		},
		{
			name: "explicit order overrides default",
			build: query.NewBuilder(testProjection(), query.SortField{Field: "id"}).
				OrderByFields([]query.SortField{{Field: "createdAt", Descending: true}, {Field: "fullName"}}).
				Build,
			wantSQL: selectAll + " ORDER BY p.created_at DESC, p.full_name ASC",
		},
		{
			name: "single or null keeps order",
			build: query.NewBuilder(testProjection(), query.SortField{Field: "createdAt", Descending: true}).
				WhereEquals("id", "x").
				BuildSingleOrNull,
			wantSQL:  selectAll + " WHERE p.id = $1 ORDER BY p.created_at DESC LIMIT 1",
			wantArgs: []any{"x"},
		},
		{
			name: "unmapped sort fields dropped",
			build: query.NewBuilder(testProjection()).
				OrderByFields(query.ParseSortFields("fullName;DROP TABLE profiles,-nope")).
				Build,
			wantSQL: selectAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.build()
			if sql != tt.wantSQL {
				t.Errorf("sql:\ngot  %s\nwant %s", sql, tt.wantSQL)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if p, ok := args[i].(*int); ok {
					if *p != *tt.wantArgs[i].(*int) {
						t.Errorf("args[%d] = %d, want %d", i, *p, *tt.wantArgs[i].(*int))
					}
					continue
				}
				if args[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}
