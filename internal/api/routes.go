package api

import (
	"net/http"

	"github.com/JaimeStill/scout/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Matching.Handler().Routes(),
		domain.Extraction.Handler().Routes(),
		domain.Profiles.Handler().Routes(),
		domain.Searches.Handler().Routes(),
		domain.Bookmarks.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
	)
}
