package profiles

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
	"github.com/JaimeStill/scout/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a profile repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "profiles"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	userID string,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Profile], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("UserID", userID).
		WhereSearch(page.Search, "FullName", "Email", "JobTitle", "Sector", "Location")

	filters.Apply(qb)

	result, err := pagination.Fetch(ctx, r.db, qb, page, scanProfile)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return &result, nil
}

func (r *repo) Find(ctx context.Context, userID string, id uuid.UUID) (*Profile, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("ID", id).
		WhereEquals("UserID", userID).
		BuildSingleOrNull()

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProfile)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) FindByEmail(ctx context.Context, userID, email string) (*Profile, error) {
	normalized := NormalizeEmail(&email)
	if normalized == nil {
		return nil, ErrNotFound
	}

	q, args := query.
		NewBuilder(projection).
		WhereEquals("UserID", userID).
		WhereEquals("Email", *normalized).
		BuildSingleOrNull()

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProfile)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Recent(ctx context.Context, userID string, limit int) ([]Profile, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("UserID", userID).
		BuildPage(1, limit)

	items, err := repository.QueryMany(ctx, r.db, q, args, scanProfile)
	if err != nil {
		return nil, fmt.Errorf("recent profiles: %w", err)
	}
	return items, nil
}

type saved struct {
	profile  Profile
	previous *string
}

// Save inserts a profile, or enriches the caller's existing profile with the same
// email. Fields the new upload left empty keep their stored values; the resume file
// always moves to the new upload.
func (r *repo) Save(ctx context.Context, cmd SaveCommand) (*Profile, error) {
	skills, err := repository.EncodeList(cmd.Fields.Skills)
	if err != nil {
		return nil, err
	}

	email := NormalizeEmail(cmd.Fields.Email)

	q := `
		INSERT INTO profiles(
			user_id, full_name, email, phone_number, location, job_title,
			years_of_experience, sector, skills, experience, education, resume_text,
			resume_file_url, storage_key, content_type, page_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (user_id, email) DO UPDATE SET
			full_name = COALESCE(EXCLUDED.full_name, profiles.full_name),
			phone_number = COALESCE(EXCLUDED.phone_number, profiles.phone_number),
			location = COALESCE(EXCLUDED.location, profiles.location),
			job_title = COALESCE(EXCLUDED.job_title, profiles.job_title),
			years_of_experience = COALESCE(EXCLUDED.years_of_experience, profiles.years_of_experience),
			sector = COALESCE(EXCLUDED.sector, profiles.sector),
			skills = CASE
				WHEN EXCLUDED.skills = '[]'::jsonb THEN profiles.skills
				ELSE EXCLUDED.skills
			END,
			experience = COALESCE(EXCLUDED.experience, profiles.experience),
			education = COALESCE(EXCLUDED.education, profiles.education),
			resume_text = COALESCE(EXCLUDED.resume_text, profiles.resume_text),
			resume_file_url = EXCLUDED.resume_file_url,
			storage_key = EXCLUDED.storage_key,
			content_type = EXCLUDED.content_type,
			page_count = EXCLUDED.page_count,
			updated_at = now()
		RETURNING ` + columns

	f := cmd.Fields
	args := []any{
		cmd.UserID, f.FullName, email, f.PhoneNumber, f.Location, f.JobTitle,
		f.YearsOfExperience, f.Sector, skills, f.Experience, f.Education, f.ResumeText,
		cmd.ResumeFileURL, cmd.StorageKey, cmd.ContentType, cmd.PageCount,
	}

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (saved, error) {
		var s saved
		if email != nil {
			err := tx.QueryRowContext(
				ctx,
				"SELECT storage_key FROM profiles WHERE user_id = $1 AND email = $2 FOR UPDATE",
				cmd.UserID, *email,
			).Scan(&s.previous)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return s, err
			}
		}

		p, err := repository.QueryOne(ctx, tx, q, args, scanProfile)
		s.profile = p
		return s, err
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if prev := result.previous; prev != nil && (cmd.StorageKey == nil || *prev != *cmd.StorageKey) {
		if delErr := r.storage.Delete(ctx, *prev); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
			r.logger.Warn("replaced resume blob delete failed", "key", *prev, "error", delErr)
		}
	}

	r.logger.Info("profile saved", "id", result.profile.ID, "replaced", result.previous != nil)
	return &result.profile, nil
}

func (r *repo) UpdateContact(ctx context.Context, id uuid.UUID, update ContactUpdate) error {
	if update.Empty() {
		return nil
	}

	q := `
		UPDATE profiles SET
			full_name = COALESCE($1, full_name),
			email = COALESCE($2, email),
			phone_number = COALESCE($3, phone_number),
			location = COALESCE($4, location),
			job_title = COALESCE($5, job_title),
			years_of_experience = COALESCE($6, years_of_experience),
			updated_at = now()
		WHERE id = $7`

	err := repository.ExecExpectOne(
		ctx, r.db, q,
		update.FullName,
		NormalizeEmail(update.Email),
		update.PhoneNumber,
		update.Location,
		update.JobTitle,
		update.YearsOfExperience,
		id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	p, err := r.Find(ctx, userID, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM profiles WHERE id = $1 AND user_id = $2",
			id, userID,
		)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if p.StorageKey != nil {
		if delErr := r.storage.Delete(ctx, *p.StorageKey); delErr != nil {
			r.logger.Warn(
				"blob delete failed after DB delete",
				"key", *p.StorageKey,
				"error", delErr,
			)
		}
	}

	r.logger.Info("profile deleted", "id", id)
	return nil
}

func (r *repo) Resume(ctx context.Context, userID string, id uuid.UUID) (*storage.Blob, *Profile, error) {
	p, err := r.Find(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	if p.StorageKey == nil {
		return nil, nil, ErrNoResume
	}

	blob, err := r.storage.Download(ctx, *p.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("download resume: %w", err)
	}
	return blob, p, nil
}
