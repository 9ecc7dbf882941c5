package bookmarks_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/scout/internal/bookmarks"
	"github.com/JaimeStill/scout/pkg/auth"
)

const testUser = "user-1"

type mockSystem struct {
	listFn   func(ctx context.Context, userID string) ([]bookmarks.Bookmark, error)
	addFn    func(ctx context.Context, userID string, candidateID uuid.UUID) (*bookmarks.Bookmark, error)
	removeFn func(ctx context.Context, userID string, candidateID uuid.UUID) error
	toggleFn func(ctx context.Context, userID string, candidateID uuid.UUID) (*bookmarks.ToggleResult, error)
}

func (m *mockSystem) Handler() *bookmarks.Handler {
	return bookmarks.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (m *mockSystem) List(ctx context.Context, userID string) ([]bookmarks.Bookmark, error) {
	return m.listFn(ctx, userID)
}

func (m *mockSystem) Add(ctx context.Context, userID string, candidateID uuid.UUID) (*bookmarks.Bookmark, error) {
	return m.addFn(ctx, userID, candidateID)
}

func (m *mockSystem) Remove(ctx context.Context, userID string, candidateID uuid.UUID) error {
	return m.removeFn(ctx, userID, candidateID)
}

func (m *mockSystem) Toggle(ctx context.Context, userID string, candidateID uuid.UUID) (*bookmarks.ToggleResult, error) {
	return m.toggleFn(ctx, userID, candidateID)
}

func setupMux(h *bookmarks.Handler) *http.ServeMux {
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

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", bookmarks.ErrNotFound, http.StatusNotFound},
		{"profile not found", bookmarks.ErrProfileNotFound, http.StatusNotFound},
		{"duplicate", bookmarks.ErrDuplicate, http.StatusConflict},
		{"no user", auth.ErrNoUser, http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bookmarks.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestHandlerList(t *testing.T) {
	name := "Ada Lovelace"
	sys := &mockSystem{
		listFn: func(_ context.Context, userID string) ([]bookmarks.Bookmark, error) {
			return []bookmarks.Bookmark{{ID: uuid.New(), UserID: userID, CandidateID: uuid.New(), FullName: &name}}, nil
		},
	}
	mux := setupMux(sys.Handler())

	t.Run("requires a user", func(t *testing.T) {
		if rec := serve(mux, "GET", "/bookmarks", false); rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("lists the caller's bookmarks", func(t *testing.T) {
		rec := serve(mux, "GET", "/bookmarks", true)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var got []bookmarks.Bookmark
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got) != 1 || got[0].UserID != testUser {
			t.Errorf("bookmarks = %+v", got)
		}
	})
}

func TestHandlerAdd(t *testing.T) {
	owned := uuid.New()
	sys := &mockSystem{
		addFn: func(_ context.Context, userID string, candidateID uuid.UUID) (*bookmarks.Bookmark, error) {
			if candidateID != owned {
				return nil, bookmarks.ErrProfileNotFound
			}
			return &bookmarks.Bookmark{ID: uuid.New(), UserID: userID, CandidateID: candidateID}, nil
		},
	}
	mux := setupMux(sys.Handler())

	t.Run("created", func(t *testing.T) {
		if rec := serve(mux, "POST", "/bookmarks/"+owned.String(), true); rec.Code != http.StatusCreated {
			t.Errorf("status = %d, want 201", rec.Code)
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		if rec := serve(mux, "POST", "/bookmarks/"+uuid.New().String(), true); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		if rec := serve(mux, "POST", "/bookmarks/nope", true); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerToggle(t *testing.T) {
	state := map[uuid.UUID]bool{}
	sys := &mockSystem{
		toggleFn: func(_ context.Context, _ string, candidateID uuid.UUID) (*bookmarks.ToggleResult, error) {
			state[candidateID] = !state[candidateID]
			return &bookmarks.ToggleResult{CandidateID: candidateID, Bookmarked: state[candidateID]}, nil
		},
	}
	mux := setupMux(sys.Handler())
	id := uuid.New()

	for _, want := range []bool{true, false} {
		rec := serve(mux, "POST", "/bookmarks/"+id.String()+"/toggle", true)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var got bookmarks.ToggleResult
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Bookmarked != want {
			t.Errorf("bookmarked = %v, want %v", got.Bookmarked, want)
		}
	}
}

func TestHandlerRemove(t *testing.T) {
	sys := &mockSystem{
		removeFn: func(context.Context, string, uuid.UUID) error {
			return bookmarks.ErrNotFound
		},
	}
	mux := setupMux(sys.Handler())

	if rec := serve(mux, "DELETE", "/bookmarks/"+uuid.New().String(), true); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
