package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/trackrec/records-backend-go/internal/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, driver string) *UserRepository {
	return &UserRepository{db: db, driver: driver, now: time.Now}
}

// Upsert creates the user or refreshes its profile, keyed by external id.
// It returns the internal id.
func (r *UserRepository) Upsert(ctx context.Context, u models.User) (int64, error) {
	now := formatTime(r.now())
	query := rebind(r.driver, `INSERT INTO users
		(external_id, username, first_name, last_name, language_code, is_bot, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (external_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			language_code = excluded.language_code,
			is_bot = excluded.is_bot,
			updated_at = excluded.updated_at
		RETURNING id`)

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		u.ExternalID, u.Username, u.FirstName, u.LastName, u.LanguageCode, u.IsBot, now, now,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert user: %w", err)
	}
	return id, nil
}

// ResolveID maps an external id to the internal one. ok is false for
// unknown users.
func (r *UserRepository) ResolveID(ctx context.Context, externalID string) (int64, bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, rebind(r.driver, `SELECT id FROM users WHERE external_id = ?`), externalID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to resolve user: %w", err)
	}
	return id, true, nil
}

// GetByID retrieves a user by internal id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := rebind(r.driver, `SELECT id, external_id, username, first_name, last_name, language_code,
		is_bot, created_at, updated_at FROM users WHERE id = ?`)

	var (
		u                    models.User
		createdAt, updatedAt string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.ExternalID, &u.Username, &u.FirstName, &u.LastName, &u.LanguageCode,
		&u.IsBot, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
