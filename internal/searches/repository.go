package searches

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/scout/pkg/pagination"
	"github.com/JaimeStill/scout/pkg/query"
	"github.com/JaimeStill/scout/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a search repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "searches"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Search, error) {
	if strings.TrimSpace(cmd.JobDescription) == "" {
		return nil, ErrInvalid
	}

	insertSearch := `
		INSERT INTO job_searches(user_id, job_description, total_candidates)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, job_description, total_candidates, created_at`

	insertMatch := `
		INSERT INTO candidate_matches(
			search_id, candidate_id, rank, candidate_name, candidate_email,
			candidate_phone, candidate_location, job_role, experience_years, match_score,
			reasoning, key_strengths, potential_concerns, resume_file_url, is_fallback)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + matchColumns

	s, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Search, error) {
		s, err := repository.QueryOne(
			ctx, tx, insertSearch,
			[]any{cmd.UserID, cmd.JobDescription, cmd.TotalCandidates},
			scanSearch,
		)
		if err != nil {
			return s, err
		}

		s.Matches, err = repository.InsertEach(
			ctx, tx, insertMatch, cmd.Matches,
			func(rank int, in MatchInput) ([]any, error) {
				return matchArgs(s.ID, rank, in)
			},
			scanMatch,
		)
		if err != nil {
			return s, fmt.Errorf("insert matches: %w", err)
		}
		return s, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("search recorded", "id", s.ID, "matches", len(s.Matches))
	return &s, nil
}

func (r *repo) List(
	ctx context.Context,
	userID string,
	page pagination.PageRequest,
) (*pagination.PageResult[Search], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("UserID", userID).
		WhereSearch(page.Search, "JobDescription")

	result, err := pagination.Fetch(ctx, r.db, qb, page, scanSearch)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	return &result, nil
}

func (r *repo) Find(ctx context.Context, userID string, id uuid.UUID) (*Search, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("ID", id).
		WhereEquals("UserID", userID).
		BuildSingleOrNull()

	return r.load(ctx, q, args)
}

func (r *repo) Latest(ctx context.Context, userID string) (*Search, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("UserID", userID).
		BuildPage(1, 1)

	return r.load(ctx, q, args)
}

func (r *repo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM job_searches WHERE id = $1 AND user_id = $2",
			id, userID,
		)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("search deleted", "id", id)
	return nil
}

func (r *repo) load(ctx context.Context, q string, args []any) (*Search, error) {
	s, err := repository.QueryOne(ctx, r.db, q, args, scanSearch)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	matches, err := repository.QueryMany(
		ctx, r.db,
		"SELECT "+matchColumns+" FROM candidate_matches WHERE search_id = $1 ORDER BY match_score DESC, rank ASC",
		[]any{s.ID},
		scanMatch,
	)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}

	s.Matches = matches
	return &s, nil
}

func matchArgs(searchID uuid.UUID, rank int, in MatchInput) ([]any, error) {
	strengths, err := repository.EncodeList(in.KeyStrengths)
	if err != nil {
		return nil, err
	}
	concerns, err := repository.EncodeList(in.PotentialConcerns)
	if err != nil {
		return nil, err
	}

	return []any{
		searchID, in.CandidateID, rank, in.CandidateName, in.CandidateEmail,
		in.CandidatePhone, in.CandidateLocation, in.JobRole, in.ExperienceYears, in.MatchScore,
		in.Reasoning, strengths, concerns, in.ResumeFileURL, in.IsFallback,
	}, nil
}
