package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain"
)

type SessionRepository struct {
	db DB
}

func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Store(ctx context.Context, s *domain.Session) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (id, user_id, refresh_token, ip_address, user_agent, expires_at, created_at, revoked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.ID, s.UserID, s.RefreshToken, s.IPAddress, s.UserAgent, s.ExpiresAt, s.CreatedAt, s.Revoked)
	return err
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, refresh_token, ip_address, user_agent, expires_at, created_at, revoked
		FROM sessions
		WHERE refresh_token = $1
		LIMIT 1
	`, token)

	var s domain.Session
	err := row.Scan(&s.ID, &s.UserID, &s.RefreshToken, &s.IPAddress, &s.UserAgent,
		&s.ExpiresAt, &s.CreatedAt, &s.Revoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &s, nil
}

func (r *SessionRepository) Revoke(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `UPDATE sessions SET revoked = true WHERE id = $1`, id)
	return err
}

func (r *SessionRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `UPDATE sessions SET revoked = true WHERE user_id = $1 AND revoked = false`, userID)
	return err
}

func (r *SessionRepository) ListActiveForUser(ctx context.Context, userID string) ([]domain.Session, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, refresh_token, ip_address, user_agent, expires_at, created_at, revoked
		FROM sessions
		WHERE user_id = $1 AND revoked = false AND expires_at > now()
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var s domain.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.RefreshToken, &s.IPAddress, &s.UserAgent,
			&s.ExpiresAt, &s.CreatedAt, &s.Revoked); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

func (r *SessionRepository) DeleteOldestForUser(ctx context.Context, userID string, keep int) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM sessions
		WHERE id IN (
			SELECT id FROM sessions
			WHERE user_id = $1 AND revoked = false
			ORDER BY created_at DESC
			OFFSET $2
		)
	`, userID, keep)
	return err
}
