package api

import (
	"github.com/JaimeStill/scout/internal/bookmarks"
	"github.com/JaimeStill/scout/internal/extraction"
	"github.com/JaimeStill/scout/internal/matching"
	"github.com/JaimeStill/scout/internal/profiles"
	"github.com/JaimeStill/scout/internal/prompts"
	"github.com/JaimeStill/scout/internal/searches"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Profiles   profiles.System
	Searches   searches.System
	Bookmarks  bookmarks.System
	Prompts    prompts.System
	Matching   *matching.Orchestrator
	Extraction *extraction.Orchestrator
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	profilesSystem := profiles.New(db, runtime.Storage, runtime.Logger, runtime.Pagination)
	searchesSystem := searches.New(db, runtime.Logger, runtime.Pagination)
	bookmarksSystem := bookmarks.New(db, runtime.Logger)
	promptsSystem := prompts.New(db, runtime.Logger, runtime.Pagination)

	matchingOrch := matching.New(matching.Runtime{
		Client:   runtime.Gemini,
		Profiles: profilesSystem,
		Searches: searchesSystem,
		Prompts:  promptsSystem,
		Metrics:  runtime.Metrics,
		Config:   runtime.Match,
		Logger:   runtime.Logger,
	})

	extractionOrch := extraction.New(extraction.Runtime{
		Client:   runtime.Gemini,
		Profiles: profilesSystem,
		Blobs:    runtime.Storage,
		Prompts:  promptsSystem,
		Metrics:  runtime.Metrics,
		Config:   runtime.Extract,
		Logger:   runtime.Logger,
	})

	return &Domain{
		Profiles:   profilesSystem,
		Searches:   searchesSystem,
		Bookmarks:  bookmarksSystem,
		Prompts:    promptsSystem,
		Matching:   matchingOrch,
		Extraction: extractionOrch,
	}
}
