package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/quesify/identity-service/internal/models"
)

// AccountWriteRepository is the system of record for accounts. It owns the
// schema, including the unique indexes on email and display name that make
// Postgres the authority for uniqueness.
type AccountWriteRepository struct {
	db *sql.DB
}

func NewAccountWriteRepository(db *sql.DB) (*AccountWriteRepository, error) {
	repo := &AccountWriteRepository{db: db}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure accounts schema: %w", err)
	}
	return repo, nil
}

func (r *AccountWriteRepository) ensureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL,
			display_name TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			about TEXT,
			location TEXT,
			birth_date TIMESTAMPTZ,
			website_url TEXT,
			profile_image_url TEXT,
			password_hash TEXT NOT NULL,
			email_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
			lockout_end TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_key ON accounts (LOWER(email));
		CREATE UNIQUE INDEX IF NOT EXISTS accounts_display_name_key ON accounts (display_name);
	`)
	return err
}

const accountColumns = `id, email, display_name, score, about, location, birth_date,
		   website_url, profile_image_url, password_hash, email_confirmed, lockout_end,
		   created_at, updated_at`

// GetByID fetches the full write model (including security state) for
// internal operations.
func (r *AccountWriteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail resolves an account by its login identifier. Matching is
// case-insensitive; the store keeps one row per lowercased email.
func (r *AccountWriteRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1)`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *AccountWriteRepository) scanAccount(row *sql.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID, &account.Email, &account.DisplayName, &account.Score,
		&account.About, &account.Location, &account.BirthDate,
		&account.WebSiteURL, &account.ProfileImageURL,
		&account.PasswordHash, &account.EmailConfirmed, &account.LockoutEnd,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return &account, nil
}

// Update persists the profile fields of an account. Email, score and security
// state are never written here; score moves only through AdjustScore and the
// rest belongs to the registration flow.
func (r *AccountWriteRepository) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET display_name = $2, about = $3, location = $4, birth_date = $5,
			website_url = $6, profile_image_url = $7, updated_at = $8
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		account.ID, account.DisplayName, account.About, account.Location,
		account.BirthDate, account.WebSiteURL, account.ProfileImageURL,
		account.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	if rows == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

// AdjustScore applies a reputation delta atomically; concurrent adjustments
// serialise inside Postgres.
func (r *AccountWriteRepository) AdjustScore(ctx context.Context, id uuid.UUID, delta int) error {
	query := `UPDATE accounts SET score = score + $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, delta, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	if rows == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

// mapWriteError translates a failed write into a domain error kind: integrity
// violations become BusinessError with the offending field; everything else
// reads as the store being unavailable.
func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && strings.HasPrefix(string(pqErr.Code), "23") {
		return &models.BusinessError{Errors: []models.FieldError{constraintFieldError(pqErr)}}
	}
	return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
}

func constraintFieldError(pqErr *pq.Error) models.FieldError {
	switch pqErr.Constraint {
	case "accounts_email_key":
		return models.FieldError{Field: "email", Message: "Email address is already taken"}
	case "accounts_display_name_key":
		return models.FieldError{Field: "displayName", Message: "Display name is already taken"}
	default:
		field := pqErr.Column
		if field == "" {
			field = "account"
		}
		return models.FieldError{Field: field, Message: pqErr.Message}
	}
}
