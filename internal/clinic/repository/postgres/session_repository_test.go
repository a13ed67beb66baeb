package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain"
	repo "github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/repository/postgres"
)

var sessionColumns = []string{
	"id", "user_id", "refresh_token", "ip_address", "user_agent",
	"expires_at", "created_at", "revoked",
}

func TestSessionRepository_Store(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewSessionRepository(mock)
	now := time.Now()
	s := &domain.Session{
		ID:           "session-1",
		UserID:       "user-1",
		RefreshToken: "refresh",
		IPAddress:    "1.2.3.4",
		UserAgent:    "test-agent",
		ExpiresAt:    now.Add(time.Hour),
		CreatedAt:    now,
	}

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(s.ID, s.UserID, s.RefreshToken, s.IPAddress, s.UserAgent,
			s.ExpiresAt, s.CreatedAt, s.Revoked).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, r.Store(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_GetByToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewSessionRepository(mock)
	ctx := context.Background()
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM sessions").
			WithArgs("refresh").
			WillReturnRows(pgxmock.NewRows(sessionColumns).
				AddRow("session-1", "user-1", "refresh", "1.2.3.4", "agent",
					now.Add(time.Hour), now, false))

		session, err := r.GetByToken(ctx, "refresh")
		require.NoError(t, err)
		assert.Equal(t, "session-1", session.ID)
		assert.False(t, session.Revoked)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM sessions").
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		session, err := r.GetByToken(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, session)
	})
}

func TestSessionRepository_Revoke(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewSessionRepository(mock)

	mock.ExpectExec("UPDATE sessions SET revoked = true WHERE id").
		WithArgs("session-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, r.Revoke(context.Background(), "session-1"))
}

func TestSessionRepository_RevokeAllForUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewSessionRepository(mock)

	mock.ExpectExec("UPDATE sessions SET revoked = true WHERE user_id").
		WithArgs("user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	assert.NoError(t, r.RevokeAllForUser(context.Background(), "user-1"))
}

func TestSessionRepository_ListActiveForUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewSessionRepository(mock)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM sessions").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(sessionColumns).
			AddRow("session-2", "user-1", "r2", "1.2.3.4", "agent", now.Add(time.Hour), now, false).
			AddRow("session-1", "user-1", "r1", "1.2.3.4", "agent", now.Add(time.Hour), now.Add(-time.Hour), false))

	sessions, err := r.ListActiveForUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
	assert.Equal(t, "session-2", sessions[0].ID)
}

func TestSessionRepository_DeleteOldestForUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewSessionRepository(mock)

	mock.ExpectExec("DELETE FROM sessions").
		WithArgs("user-1", 5).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	assert.NoError(t, r.DeleteOldestForUser(context.Background(), "user-1", 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}
