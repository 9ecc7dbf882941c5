package bookmarks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/scout/pkg/repository"
)

const listQuery = `
	SELECT b.id, b.user_id, b.candidate_id, b.created_at, p.full_name, p.email, p.job_title
	FROM candidate_bookmarks b
	JOIN profiles p ON p.id = b.candidate_id
	WHERE b.user_id = $1
	ORDER BY b.created_at DESC`

const addQuery = `
	WITH added AS (
		INSERT INTO candidate_bookmarks(user_id, candidate_id)
		SELECT $1, p.id FROM profiles p WHERE p.id = $2 AND p.user_id = $1
		ON CONFLICT (user_id, candidate_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, candidate_id, created_at
	)
	SELECT a.id, a.user_id, a.candidate_id, a.created_at, p.full_name, p.email, p.job_title
	FROM added a
	JOIN profiles p ON p.id = a.candidate_id`

const removeQuery = "DELETE FROM candidate_bookmarks WHERE user_id = $1 AND candidate_id = $2"

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a bookmark repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "bookmarks"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) List(ctx context.Context, userID string) ([]Bookmark, error) {
	items, err := repository.QueryMany(ctx, r.db, listQuery, []any{userID}, scanBookmark)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return items, nil
}

func (r *repo) Add(ctx context.Context, userID string, candidateID uuid.UUID) (*Bookmark, error) {
	b, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Bookmark, error) {
		return repository.QueryOne(ctx, tx, addQuery, []any{userID, candidateID}, scanBookmark)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrProfileNotFound, ErrDuplicate)
	}

	r.logger.Info("bookmark added", "candidate_id", candidateID)
	return &b, nil
}

func (r *repo) Remove(ctx context.Context, userID string, candidateID uuid.UUID) error {
	if err := repository.ExecExpectOne(ctx, r.db, removeQuery, userID, candidateID); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("bookmark removed", "candidate_id", candidateID)
	return nil
}

func (r *repo) Toggle(ctx context.Context, userID string, candidateID uuid.UUID) (*ToggleResult, error) {
	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (ToggleResult, error) {
		res := ToggleResult{CandidateID: candidateID}

		err := repository.ExecExpectOne(ctx, tx, removeQuery, userID, candidateID)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return res, err
		}

		if _, err := repository.QueryOne(ctx, tx, addQuery, []any{userID, candidateID}, scanBookmark); err != nil {
			return res, err
		}
		res.Bookmarked = true
		return res, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrProfileNotFound, ErrDuplicate)
	}

	r.logger.Info("bookmark toggled", "candidate_id", candidateID, "bookmarked", result.Bookmarked)
	return &result, nil
}

func scanBookmark(s repository.Scanner) (Bookmark, error) {
	var b Bookmark
	err := s.Scan(
		&b.ID,
		&b.UserID,
		&b.CandidateID,
		&b.CreatedAt,
		&b.FullName,
		&b.Email,
		&b.JobTitle,
	)
	return b, err
}
