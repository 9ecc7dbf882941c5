package searches_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/scout/internal/searches"
	"github.com/JaimeStill/scout/pkg/auth"
	"github.com/JaimeStill/scout/pkg/pagination"
)

const testUser = "user-1"

type mockSystem struct {
	createFn func(ctx context.Context, cmd searches.CreateCommand) (*searches.Search, error)
	listFn   func(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResult[searches.Search], error)
	findFn   func(ctx context.Context, userID string, id uuid.UUID) (*searches.Search, error)
	latestFn func(ctx context.Context, userID string) (*searches.Search, error)
	deleteFn func(ctx context.Context, userID string, id uuid.UUID) error
}

func (m *mockSystem) Handler() *searches.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) Create(ctx context.Context, cmd searches.CreateCommand) (*searches.Search, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) List(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResult[searches.Search], error) {
	return m.listFn(ctx, userID, page)
}

func (m *mockSystem) Find(ctx context.Context, userID string, id uuid.UUID) (*searches.Search, error) {
	return m.findFn(ctx, userID, id)
}

func (m *mockSystem) Latest(ctx context.Context, userID string) (*searches.Search, error) {
	return m.latestFn(ctx, userID)
}

func (m *mockSystem) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	return m.deleteFn(ctx, userID, id)
}

func newTestHandler(sys searches.System) *searches.Handler {
	return searches.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func setupMux(h *searches.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func serve(mux *http.ServeMux, method, target string, user bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if user {
		req = req.WithContext(auth.WithUserID(req.Context(), testUser))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func sampleSearch() searches.Search {
	return searches.Search{
		ID:              uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7"),
		UserID:          testUser,
		JobDescription:  "Senior Go engineer",
		TotalCandidates: 2,
		CreatedAt:       time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		Matches:         sampleMatches(),
	}
}

func TestHandlerList(t *testing.T) {
	var captured string
	sys := &mockSystem{
		listFn: func(_ context.Context, userID string, page pagination.PageRequest) (*pagination.PageResult[searches.Search], error) {
			captured = userID
			result := pagination.NewPageResult([]searches.Search{}, 0, page.Page, page.PageSize)
			return &result, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	t.Run("requires a user", func(t *testing.T) {
		if rec := serve(mux, "GET", "/searches", false); rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("scopes to the caller", func(t *testing.T) {
		rec := serve(mux, "GET", "/searches", true)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured != testUser {
			t.Errorf("user = %q, want %q", captured, testUser)
		}
	})
}

func TestHandlerFind(t *testing.T) {
	s := sampleSearch()
	sys := &mockSystem{
		findFn: func(_ context.Context, _ string, id uuid.UUID) (*searches.Search, error) {
			if id == s.ID {
				return &s, nil
			}
			return nil, searches.ErrNotFound
		},
	}
	mux := setupMux(newTestHandler(sys))

	t.Run("returns matches", func(t *testing.T) {
		rec := serve(mux, "GET", "/searches/"+s.ID.String(), true)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var got searches.Search
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got.Matches) != 2 || got.Matches[0].MatchScore != 92 {
			t.Errorf("matches = %+v", got.Matches)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if rec := serve(mux, "GET", "/searches/"+uuid.New().String(), true); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerLatest(t *testing.T) {
	sys := &mockSystem{
		latestFn: func(context.Context, string) (*searches.Search, error) {
			return nil, searches.ErrNotFound
		},
	}
	mux := setupMux(newTestHandler(sys))

	if rec := serve(mux, "GET", "/searches/latest", true); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerExport(t *testing.T) {
	s := sampleSearch()
	sys := &mockSystem{
		findFn: func(context.Context, string, uuid.UUID) (*searches.Search, error) {
			return &s, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	rec := serve(mux, "GET", "/searches/"+s.ID.String()+"/export", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content-type = %q, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="candidate_matches_2026-02-01.csv"` {
		t.Errorf("content-disposition = %q", cd)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[1], "1,Ada Lovelace,") {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestHandlerDelete(t *testing.T) {
	sys := &mockSystem{
		deleteFn: func(_ context.Context, userID string, _ uuid.UUID) error {
			if userID != testUser {
				return searches.ErrNotFound
			}
			return nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	if rec := serve(mux, "DELETE", "/searches/"+uuid.New().String(), true); rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec := serve(mux, "DELETE", "/searches/bad-id", true); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
