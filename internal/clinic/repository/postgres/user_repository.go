package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain"
)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, password_hash, role, failed_login_attempts, locked_until, active, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role,
		&user.FailedLoginAttempts, &user.LockedUntil, &user.Active,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1 LIMIT 1`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 LIMIT 1`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, password_hash, role, failed_login_attempts, locked_until, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, user.ID, user.Username, user.PasswordHash, user.Role,
		user.FailedLoginAttempts, user.LockedUntil, user.Active,
		user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at`, userColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role,
			&user.FailedLoginAttempts, &user.LockedUntil, &user.Active,
			&user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *UserRepository) UpdateRole(ctx context.Context, id, role string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET role = $2, updated_at = now() WHERE id = $1
	`, id, role)
	return err
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET active = $2, updated_at = now() WHERE id = $1
	`, id, active)
	return err
}

func (r *UserRepository) ResetLockout(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET failed_login_attempts = 0, locked_until = NULL, updated_at = now() WHERE id = $1
	`, id)
	return err
}

// RegisterFailedAttempt runs the counter transition inside one transaction
// with the row locked, so two concurrent failed attempts cannot both read the
// same count and miss the lockout threshold.
func (r *UserRepository) RegisterFailedAttempt(ctx context.Context, username string, maxAttempts int, lockFor time.Duration) (*domain.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1 FOR UPDATE`, userColumns)
	user, err := scanUser(tx.QueryRow(ctx, query, username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	user.RegisterFailure(time.Now(), maxAttempts, lockFor)

	_, err = tx.Exec(ctx, `
		UPDATE users SET failed_login_attempts = $2, locked_until = $3, updated_at = now() WHERE id = $1
	`, user.ID, user.FailedLoginAttempts, user.LockedUntil)
	if err != nil {
		return nil, fmt.Errorf("failed to update login state: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit login state: %w", err)
	}

	return user, nil
}
