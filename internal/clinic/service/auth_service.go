package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/AnthoniusHendriyanto/clinic-service/config"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/audit"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/dto"
	autherror "github.com/AnthoniusHendriyanto/clinic-service/internal/errors"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/metrics"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/security/password"
	"github.com/AnthoniusHendriyanto/clinic-service/pkg/constant"
)

// AuthService orchestrates registration, the login flow with lockout
// accounting, refresh-token rotation, and admin account management.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	tokens   TokenGenerator
	policy   password.Policy
	audit    audit.Recorder
	metrics  *metrics.Metrics
	log      *zap.Logger
	cfg      *config.Config
	now      func() time.Time
}

func NewAuthService(
	users domain.UserRepository,
	sessions domain.SessionRepository,
	tokens TokenGenerator,
	rec audit.Recorder,
	m *metrics.Metrics,
	log *zap.Logger,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		policy:   password.NewPolicy(cfg.PasswordMinLength),
		audit:    rec,
		metrics:  m,
		log:      log,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	if res := s.policy.Validate(input.Password); !res.OK {
		return nil, &autherror.PolicyViolationError{Rule: res.Rule, Message: res.Message}
	}

	existing, err := s.users.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		PasswordHash: string(hashed),
		Role:         constant.DefaultUserRole,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(audit.Anonymous, input.IPAddress, "user_register", map[string]any{
		"username": user.Username,
	})
	s.log.Info("user registered", zap.String("username", user.Username))

	return user, nil
}

// Login runs the credential-submission sequence: lookup, lockout check,
// password verification, counter bookkeeping, session issuance. The rate
// limiter runs before this in the HTTP layer. Unknown and wrong-password
// cases surface uniformly as invalid credentials.
func (s *AuthService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	if user == nil || !user.Active {
		s.metrics.LoginAttempts.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.audit.Record(audit.Anonymous, input.IPAddress, "login_failure", map[string]any{
			"username": input.Username,
		})
		return nil, autherror.ErrInvalidCredentials
	}

	now := s.now()
	if user.IsLocked(now) {
		s.metrics.LoginAttempts.WithLabelValues(metrics.OutcomeLocked).Inc()
		s.audit.Record(user.ID, input.IPAddress, "login_attempt_locked", map[string]any{
			"username":     user.Username,
			"locked_until": user.LockedUntil.UTC().Format(time.RFC3339),
		})
		return nil, autherror.ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, s.handleFailedPassword(ctx, user, input.IPAddress)
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := s.users.ResetLockout(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	accessToken, refreshToken, expiresAt, err := s.tokens.Generate(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		RefreshToken: refreshToken,
		IPAddress:    input.IPAddress,
		UserAgent:    input.UserAgent,
		ExpiresAt:    expiresAt,
		CreatedAt:    now,
	}
	if err := s.sessions.Store(ctx, session); err != nil {
		return nil, err
	}

	if err := s.sessions.DeleteOldestForUser(ctx, user.ID, s.cfg.MaxActiveSessions); err != nil {
		s.log.Warn("failed to trim sessions", zap.String("user_id", user.ID), zap.Error(err))
	}

	s.metrics.LoginAttempts.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.audit.Record(user.ID, input.IPAddress, "login_success", map[string]any{
		"username": user.Username,
	})

	return &dto.TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// handleFailedPassword commits the failed-attempt transition atomically and
// audits only after the commit, so a persistence failure cannot produce a
// record for a counter that never moved.
func (s *AuthService) handleFailedPassword(ctx context.Context, user *domain.User, ip string) error {
	lockFor := time.Duration(s.cfg.LockoutMinutes) * time.Minute

	updated, err := s.users.RegisterFailedAttempt(ctx, user.Username, s.cfg.LoginMaxAttempts, lockFor)
	if err != nil {
		return err
	}
	if updated == nil {
		// Account vanished between lookup and update; stay uniform.
		return autherror.ErrInvalidCredentials
	}

	s.metrics.LoginAttempts.WithLabelValues(metrics.OutcomeFailure).Inc()
	s.audit.Record(user.ID, ip, "login_failure", map[string]any{
		"username": user.Username,
		"attempts": updated.FailedLoginAttempts,
	})

	if updated.IsLocked(s.now()) {
		s.metrics.Lockouts.Inc()
		s.log.Warn("account locked after repeated failures",
			zap.String("username", user.Username),
			zap.Int("attempts", updated.FailedLoginAttempts))
	}

	remaining := s.cfg.LoginMaxAttempts - updated.FailedLoginAttempts
	if remaining < 0 {
		remaining = 0
	}
	return &autherror.RemainingAttemptsError{Remaining: remaining}
}

func (s *AuthService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.TokenResponse, error) {
	session, err := s.sessions.GetByToken(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, autherror.ErrRefreshTokenNotFound
	}
	if session.Revoked {
		return nil, autherror.ErrRefreshTokenRevoked
	}
	if s.now().After(session.ExpiresAt) {
		return nil, autherror.ErrRefreshTokenExpired
	}

	if err := s.sessions.Revoke(ctx, session.ID); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, autherror.ErrUserNotFound
	}

	accessToken, refreshToken, expiresAt, err := s.tokens.Generate(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	newSession := &domain.Session{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		RefreshToken: refreshToken,
		IPAddress:    input.IPAddress,
		UserAgent:    input.UserAgent,
		ExpiresAt:    expiresAt,
		CreatedAt:    s.now(),
	}
	if err := s.sessions.Store(ctx, newSession); err != nil {
		return nil, err
	}

	s.audit.Record(user.ID, input.IPAddress, "session_refresh", map[string]any{
		"username": user.Username,
	})

	return &dto.TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) Logout(ctx context.Context, input dto.LogoutInput) error {
	session, err := s.sessions.GetByToken(ctx, input.RefreshToken)
	if err != nil {
		return err
	}
	if session == nil {
		return autherror.ErrRefreshTokenNotFound
	}

	if err := s.sessions.Revoke(ctx, session.ID); err != nil {
		return err
	}

	s.audit.Record(session.UserID, input.IPAddress, "logout", nil)
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *AuthService) UpdateRole(ctx context.Context, actor audit.Actor, userID, role string) error {
	if !constant.ValidRole(role) {
		return autherror.ErrInvalidRole
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return err
	}

	s.audit.Record(actor.AuditID(), actor.IP, "user_role_update", map[string]any{
		"username": user.Username,
		"role":     role,
	})
	return nil
}

// Deactivate soft-disables an account and revokes its sessions. Identity rows
// are never physically deleted.
func (s *AuthService) Deactivate(ctx context.Context, actor audit.Actor, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	if err := s.users.SetActive(ctx, userID, false); err != nil {
		return err
	}
	if err := s.sessions.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}

	s.audit.Record(actor.AuditID(), actor.IP, "user_deactivate", map[string]any{
		"username": user.Username,
	})
	return nil
}

func (s *AuthService) ListSessions(ctx context.Context, userID string) ([]domain.Session, error) {
	return s.sessions.ListActiveForUser(ctx, userID)
}

func (s *AuthService) ForceLogout(ctx context.Context, actor audit.Actor, userID string) error {
	if err := s.sessions.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}

	s.audit.Record(actor.AuditID(), actor.IP, "session_revoke", map[string]any{
		"user_id": userID,
	})
	return nil
}
