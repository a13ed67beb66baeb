package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/AnthoniusHendriyanto/clinic-service/config"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/audit"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/dto"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/service"
	autherror "github.com/AnthoniusHendriyanto/clinic-service/internal/errors"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/metrics"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/mocks"
	"github.com/AnthoniusHendriyanto/clinic-service/pkg/constant"
)

type authFixture struct {
	users    *mocks.MockUserRepository
	sessions *mocks.MockSessionRepository
	tokens   *mocks.MockTokenGenerator
	recorder *mocks.MockRecorder
	metrics  *metrics.Metrics
	svc      *service.AuthService
}

func newAuthFixture(t *testing.T) (*authFixture, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &authFixture{
		users:    mocks.NewMockUserRepository(ctrl),
		sessions: mocks.NewMockSessionRepository(ctrl),
		tokens:   mocks.NewMockTokenGenerator(ctrl),
		recorder: mocks.NewMockRecorder(ctrl),
		metrics:  metrics.New(prometheus.NewRegistry()),
	}

	cfg := &config.Config{
		LoginMaxAttempts:  5,
		LockoutMinutes:    15,
		PasswordMinLength: 8,
		MaxActiveSessions: 5,
	}
	f.svc = service.NewAuthService(f.users, f.sessions, f.tokens, f.recorder, f.metrics, zap.NewNop(), cfg)

	return f, ctrl
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func activeUser(t *testing.T, password string) *domain.User {
	t.Helper()
	return &domain.User{
		ID:           "user-1",
		Username:     "alice",
		PasswordHash: hashPassword(t, password),
		Role:         constant.RoleReceptionist,
		Active:       true,
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	input := dto.RegisterInput{Username: "alice", Password: "Secret1!", IPAddress: "1.2.3.4"}

	f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(nil, nil)
	f.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.recorder.EXPECT().Record(audit.Anonymous, "1.2.3.4", "user_register", gomock.Any()).Times(1)

	user, err := f.svc.Register(context.Background(), input)

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "Secret1!", user.PasswordHash)
	assert.Equal(t, constant.DefaultUserRole, user.Role)
	assert.True(t, user.Active)
}

func TestAuthService_Register_PolicyViolation(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	// No uppercase letter. The repository must never be touched.
	input := dto.RegisterInput{Username: "alice", Password: "secret1!"}

	user, err := f.svc.Register(context.Background(), input)

	assert.Nil(t, user)
	var policyErr *autherror.PolicyViolationError
	assert.ErrorAs(t, err, &policyErr)
	assert.Equal(t, "uppercase", policyErr.Rule)
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	input := dto.RegisterInput{Username: "alice", Password: "Secret1!"}

	f.users.EXPECT().GetByUsername(gomock.Any(), "alice").
		Return(&domain.User{ID: "existing", Username: "alice"}, nil)

	user, err := f.svc.Register(context.Background(), input)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, autherror.ErrUsernameTaken)
}

func TestAuthService_Login_Success(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	user := activeUser(t, "Secret1!")
	input := dto.LoginInput{Username: "alice", Password: "Secret1!", IPAddress: "1.2.3.4", UserAgent: "test-agent"}

	f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user, nil)
	f.tokens.EXPECT().Generate(user.ID, user.Username, user.Role).
		Return("access-token", "refresh-token", time.Now().Add(time.Hour), nil)
	f.sessions.EXPECT().Store(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, s *domain.Session) error {
			assert.Equal(t, user.ID, s.UserID)
			assert.Equal(t, "refresh-token", s.RefreshToken)
			assert.Equal(t, "1.2.3.4", s.IPAddress)
			assert.Equal(t, "test-agent", s.UserAgent)
			return nil
		})
	f.sessions.EXPECT().DeleteOldestForUser(gomock.Any(), user.ID, 5).Return(nil)
	f.recorder.EXPECT().Record(user.ID, "1.2.3.4", "login_success", gomock.Any()).Times(1)

	tokens, err := f.svc.Login(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, "access-token", tokens.AccessToken)
	assert.Equal(t, "refresh-token", tokens.RefreshToken)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.LoginAttempts.WithLabelValues(metrics.OutcomeSuccess)))
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	input := dto.LoginInput{Username: "ghost", Password: "Secret1!", IPAddress: "1.2.3.4"}

	f.users.EXPECT().GetByUsername(gomock.Any(), "ghost").Return(nil, nil)
	f.recorder.EXPECT().Record(audit.Anonymous, "1.2.3.4", "login_failure", gomock.Any()).Times(1)

	tokens, err := f.svc.Login(context.Background(), input)

	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, autherror.ErrInvalidCredentials)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.LoginAttempts.WithLabelValues(metrics.OutcomeFailure)))
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	user := activeUser(t, "Secret1!")
	user.Active = false
	input := dto.LoginInput{Username: "alice", Password: "Secret1!", IPAddress: "1.2.3.4"}

	f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user, nil)
	f.recorder.EXPECT().Record(audit.Anonymous, "1.2.3.4", "login_failure", gomock.Any()).Times(1)

	tokens, err := f.svc.Login(context.Background(), input)

	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, autherror.ErrInvalidCredentials)
}

func TestAuthService_Login_LockedAccount(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	user := activeUser(t, "Secret1!")
	lockedUntil := time.Now().Add(10 * time.Minute)
	user.FailedLoginAttempts = 5
	user.LockedUntil = &lockedUntil

	input := dto.LoginInput{Username: "alice", Password: "Secret1!", IPAddress: "1.2.3.4"}

	// Even the correct password must be rejected without touching the
	// counter while the lock holds.
	f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user, nil)
	f.recorder.EXPECT().Record(user.ID, "1.2.3.4", "login_attempt_locked", gomock.Any()).Times(1)

	tokens, err := f.svc.Login(context.Background(), input)

	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, autherror.ErrAccountLocked)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.LoginAttempts.WithLabelValues(metrics.OutcomeLocked)))
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	user := activeUser(t, "Secret1!")
	input := dto.LoginInput{Username: "alice", Password: "WrongPass1!", IPAddress: "1.2.3.4"}

	updated := *user
	updated.FailedLoginAttempts = 2

	f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user, nil)
	f.users.EXPECT().RegisterFailedAttempt(gomock.Any(), "alice", 5, 15*time.Minute).Return(&updated, nil)
	f.recorder.EXPECT().Record(user.ID, "1.2.3.4", "login_failure", gomock.Any()).Times(1)

	tokens, err := f.svc.Login(context.Background(), input)

	assert.Nil(t, tokens)
	var attemptsErr *autherror.RemainingAttemptsError
	assert.ErrorAs(t, err, &attemptsErr)
	assert.Equal(t, 3, attemptsErr.Remaining)
	assert.ErrorIs(t, err, autherror.ErrInvalidCredentials)
}

func TestAuthService_Login_WrongPasswordTriggersLock(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	user := activeUser(t, "Secret1!")
	input := dto.LoginInput{Username: "alice", Password: "WrongPass1!", IPAddress: "1.2.3.4"}

	lockedUntil := time.Now().Add(15 * time.Minute)
	updated := *user
	updated.FailedLoginAttempts = 5
	updated.LockedUntil = &lockedUntil

	f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user, nil)
	f.users.EXPECT().RegisterFailedAttempt(gomock.Any(), "alice", 5, 15*time.Minute).Return(&updated, nil)
	f.recorder.EXPECT().Record(user.ID, "1.2.3.4", "login_failure", gomock.Any()).Times(1)

	tokens, err := f.svc.Login(context.Background(), input)

	assert.Nil(t, tokens)
	var attemptsErr *autherror.RemainingAttemptsError
	assert.ErrorAs(t, err, &attemptsErr)
	assert.Equal(t, 0, attemptsErr.Remaining)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Lockouts))
}

func TestAuthService_Login_SuccessResetsLockout(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	user := activeUser(t, "Secret1!")
	user.FailedLoginAttempts = 3
	input := dto.LoginInput{Username: "alice", Password: "Secret1!", IPAddress: "1.2.3.4"}

	f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user, nil)
	f.users.EXPECT().ResetLockout(gomock.Any(), user.ID).Return(nil)
	f.tokens.EXPECT().Generate(user.ID, user.Username, user.Role).
		Return("access-token", "refresh-token", time.Now().Add(time.Hour), nil)
	f.sessions.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
	f.sessions.EXPECT().DeleteOldestForUser(gomock.Any(), user.ID, 5).Return(nil)
	f.recorder.EXPECT().Record(user.ID, "1.2.3.4", "login_success", gomock.Any()).Times(1)

	tokens, err := f.svc.Login(context.Background(), input)

	assert.NoError(t, err)
	assert.NotNil(t, tokens)
}

func TestAuthService_Login_SessionTrimFailureIsNonFatal(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	user := activeUser(t, "Secret1!")
	input := dto.LoginInput{Username: "alice", Password: "Secret1!", IPAddress: "1.2.3.4"}

	f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user, nil)
	f.tokens.EXPECT().Generate(user.ID, user.Username, user.Role).
		Return("access-token", "refresh-token", time.Now().Add(time.Hour), nil)
	f.sessions.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
	f.sessions.EXPECT().DeleteOldestForUser(gomock.Any(), user.ID, 5).Return(errors.New("db down"))
	f.recorder.EXPECT().Record(user.ID, "1.2.3.4", "login_success", gomock.Any()).Times(1)

	tokens, err := f.svc.Login(context.Background(), input)

	assert.NoError(t, err)
	assert.NotNil(t, tokens)
}

func TestAuthService_Refresh_Success(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	user := activeUser(t, "Secret1!")
	session := &domain.Session{
		ID:           "session-1",
		UserID:       user.ID,
		RefreshToken: "old-refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	input := dto.RefreshInput{RefreshToken: "old-refresh", IPAddress: "1.2.3.4"}

	f.sessions.EXPECT().GetByToken(gomock.Any(), "old-refresh").Return(session, nil)
	f.sessions.EXPECT().Revoke(gomock.Any(), "session-1").Return(nil)
	f.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
	f.tokens.EXPECT().Generate(user.ID, user.Username, user.Role).
		Return("new-access", "new-refresh", time.Now().Add(time.Hour), nil)
	f.sessions.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
	f.recorder.EXPECT().Record(user.ID, "1.2.3.4", "session_refresh", gomock.Any()).Times(1)

	tokens, err := f.svc.Refresh(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, "new-access", tokens.AccessToken)
	assert.Equal(t, "new-refresh", tokens.RefreshToken)
}

func TestAuthService_Refresh_TokenNotFound(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	f.sessions.EXPECT().GetByToken(gomock.Any(), "missing").Return(nil, nil)

	tokens, err := f.svc.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "missing"})

	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, autherror.ErrRefreshTokenNotFound)
}

func TestAuthService_Refresh_TokenRevoked(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	session := &domain.Session{ID: "session-1", Revoked: true, ExpiresAt: time.Now().Add(time.Hour)}
	f.sessions.EXPECT().GetByToken(gomock.Any(), "revoked").Return(session, nil)

	tokens, err := f.svc.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "revoked"})

	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, autherror.ErrRefreshTokenRevoked)
}

func TestAuthService_Refresh_TokenExpired(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	session := &domain.Session{ID: "session-1", ExpiresAt: time.Now().Add(-time.Minute)}
	f.sessions.EXPECT().GetByToken(gomock.Any(), "expired").Return(session, nil)

	tokens, err := f.svc.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "expired"})

	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, autherror.ErrRefreshTokenExpired)
}

func TestAuthService_Refresh_DeactivatedUser(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	user := activeUser(t, "Secret1!")
	user.Active = false
	session := &domain.Session{ID: "session-1", UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}

	f.sessions.EXPECT().GetByToken(gomock.Any(), "old-refresh").Return(session, nil)
	f.sessions.EXPECT().Revoke(gomock.Any(), "session-1").Return(nil)
	f.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)

	tokens, err := f.svc.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "old-refresh"})

	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, autherror.ErrUserNotFound)
}

func TestAuthService_Logout_Success(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	session := &domain.Session{ID: "session-1", UserID: "user-1"}
	input := dto.LogoutInput{RefreshToken: "refresh", IPAddress: "1.2.3.4"}

	f.sessions.EXPECT().GetByToken(gomock.Any(), "refresh").Return(session, nil)
	f.sessions.EXPECT().Revoke(gomock.Any(), "session-1").Return(nil)
	f.recorder.EXPECT().Record("user-1", "1.2.3.4", "logout", gomock.Any()).Times(1)

	assert.NoError(t, f.svc.Logout(context.Background(), input))
}

func TestAuthService_Logout_TokenNotFound(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	f.sessions.EXPECT().GetByToken(gomock.Any(), "missing").Return(nil, nil)

	err := f.svc.Logout(context.Background(), dto.LogoutInput{RefreshToken: "missing"})

	assert.ErrorIs(t, err, autherror.ErrRefreshTokenNotFound)
}

func TestAuthService_UpdateRole_Success(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	actor := audit.Actor{ID: "admin-1", IP: "1.2.3.4"}
	user := &domain.User{ID: "user-1", Username: "alice"}

	f.users.EXPECT().GetByID(gomock.Any(), "user-1").Return(user, nil)
	f.users.EXPECT().UpdateRole(gomock.Any(), "user-1", constant.RoleClinician).Return(nil)
	f.recorder.EXPECT().Record("admin-1", "1.2.3.4", "user_role_update", gomock.Any()).Times(1)

	assert.NoError(t, f.svc.UpdateRole(context.Background(), actor, "user-1", constant.RoleClinician))
}

func TestAuthService_UpdateRole_InvalidRole(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	err := f.svc.UpdateRole(context.Background(), audit.Actor{}, "user-1", "wizard")

	assert.ErrorIs(t, err, autherror.ErrInvalidRole)
}

func TestAuthService_Deactivate_Success(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	actor := audit.Actor{ID: "admin-1", IP: "1.2.3.4"}
	user := &domain.User{ID: "user-1", Username: "alice", Active: true}

	f.users.EXPECT().GetByID(gomock.Any(), "user-1").Return(user, nil)
	f.users.EXPECT().SetActive(gomock.Any(), "user-1", false).Return(nil)
	f.sessions.EXPECT().RevokeAllForUser(gomock.Any(), "user-1").Return(nil)
	f.recorder.EXPECT().Record("admin-1", "1.2.3.4", "user_deactivate", gomock.Any()).Times(1)

	assert.NoError(t, f.svc.Deactivate(context.Background(), actor, "user-1"))
}

func TestAuthService_Deactivate_UserNotFound(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	f.users.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, nil)

	err := f.svc.Deactivate(context.Background(), audit.Actor{}, "missing")

	assert.ErrorIs(t, err, autherror.ErrUserNotFound)
}

func TestAuthService_ForceLogout_Success(t *testing.T) {
	f, ctrl := newAuthFixture(t)
	defer ctrl.Finish()

	actor := audit.Actor{ID: "admin-1", IP: "1.2.3.4"}

	f.sessions.EXPECT().RevokeAllForUser(gomock.Any(), "user-1").Return(nil)
	f.recorder.EXPECT().Record("admin-1", "1.2.3.4", "session_revoke", gomock.Any()).Times(1)

	assert.NoError(t, f.svc.ForceLogout(context.Background(), actor, "user-1"))
}
