package prompts

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/scout/pkg/query"
	"github.com/JaimeStill/scout/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "prompts", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("stage", "Stage").
	Project("instructions", "Instructions").
	Project("description", "Description").
	Project("active", "Active")

var defaultSort = query.SortField{Field: "Name"}

// Filters narrows a prompt listing. Nil fields match everything; Name is a
// case-insensitive substring match.
type Filters struct {
	Stage  *Stage  `json:"stage,omitempty"`
	Name   *string `json:"name,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// Apply adds the set filters to b.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Stage", f.Stage).
		WhereContains("Name", f.Name).
		WhereEquals("Active", f.Active)
}

// FiltersFromQuery reads ?stage=, ?name=, and ?active=. Values that do not
// parse (an unknown stage, a non-boolean active) are dropped.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if stage, err := ParseStage(values.Get("stage")); err == nil {
		f.Stage = &stage
	}
	if name := values.Get("name"); name != "" {
		f.Name = &name
	}
	if active, err := strconv.ParseBool(values.Get("active")); err == nil {
		f.Active = &active
	}

	return f
}

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var p Prompt
	err := s.Scan(&p.ID, &p.Name, &p.Stage, &p.Instructions, &p.Description, &p.Active)
	return p, err
}
