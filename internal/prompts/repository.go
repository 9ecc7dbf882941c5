package prompts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

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

// New creates a prompt repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "prompts"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Prompt], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Description")

	filters.Apply(qb)

	result, err := pagination.Fetch(ctx, r.db, qb, page, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Instructions(ctx context.Context, stage Stage) (string, error) {
	if _, err := ParseStage(string(stage)); err != nil {
		return "", err
	}

	var text string
	err := r.db.QueryRowContext(
		ctx,
		"SELECT instructions FROM prompts WHERE stage = $1 AND active = true LIMIT 1",
		stage,
	).Scan(&text)

	if errors.Is(err, sql.ErrNoRows) {
		return Instructions(stage)
	}
	if err != nil {
		return "", fmt.Errorf("load active prompt: %w", err)
	}
	return text, nil
}

func (r *repo) Spec(_ context.Context, stage Stage) (string, error) {
	return Spec(stage)
}

const returning = "RETURNING id, name, stage, instructions, description, active"

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Prompt, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return r.mutate(ctx, "prompt created",
		"INSERT INTO prompts(name, stage, instructions, description) VALUES ($1, $2, $3, $4) "+returning,
		cmd.Name, cmd.Stage, cmd.Instructions, cmd.Description,
	)
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Prompt, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return r.mutate(ctx, "prompt updated",
		"UPDATE prompts SET name = $1, stage = $2, instructions = $3, description = $4 WHERE id = $5 "+returning,
		cmd.Name, cmd.Stage, cmd.Instructions, cmd.Description, id,
	)
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM prompts WHERE id = $1", id)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prompt deleted", "id", id)
	return nil
}

// Activate makes id the only active prompt of its stage. The partial unique
// index on (stage) WHERE active requires clearing the current one first.
func (r *repo) Activate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		var stage Stage
		if err := tx.QueryRowContext(ctx, "SELECT stage FROM prompts WHERE id = $1 FOR UPDATE", id).Scan(&stage); err != nil {
			return Prompt{}, err
		}

		if _, err := tx.ExecContext(
			ctx,
			"UPDATE prompts SET active = false WHERE stage = $1 AND active AND id <> $2",
			stage, id,
		); err != nil {
			return Prompt{}, fmt.Errorf("deactivate current: %w", err)
		}

		return repository.QueryOne(ctx, tx, "UPDATE prompts SET active = true WHERE id = $1 "+returning, []any{id}, scanPrompt)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prompt activated", "id", p.ID, "name", p.Name, "stage", p.Stage)
	return &p, nil
}

func (r *repo) Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	return r.mutate(ctx, "prompt deactivated",
		"UPDATE prompts SET active = false WHERE id = $1 "+returning,
		id,
	)
}

func (r *repo) mutate(ctx context.Context, event, q string, args ...any) (*Prompt, error) {
	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(event, "id", p.ID, "name", p.Name, "stage", p.Stage)
	return &p, nil
}
