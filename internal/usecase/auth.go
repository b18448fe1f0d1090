package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/infra/security"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/repository"
)

const resetTokenBytes = 32

var (
	// ErrInvalidCredentials is returned for unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrAccountBanned indicates the account is banned and may not authenticate.
	ErrAccountBanned = errors.New("account is banned")
	// ErrForbidden indicates the caller lacks the capability for the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrResetTokenInvalid covers unknown, expired, and already-used reset tokens.
	ErrResetTokenInvalid = errors.New("reset token is invalid or expired")
	// ErrWeakPassword wraps password policy violations from the validator.
	ErrWeakPassword = errors.New("password does not meet requirements")
	// ErrInvalidInput marks rejected payload fields. The wrapped text names the field.
	ErrInvalidInput = errors.New("invalid input")
)

// TokenIssuer mints signed access tokens.
type TokenIssuer interface {
	Issue(userID string, role domain.Role, sessionID string) (string, time.Time, error)
}

// RegisterInput captures the payload for account registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult carries the authenticated user and their access token.
type AuthResult struct {
	User      domain.User
	Token     string
	ExpiresAt time.Time
	SessionID string
}

// SessionMeta carries request metadata recorded on admin sessions and reset tokens.
type SessionMeta struct {
	IP        *string
	UserAgent *string
	Device    *string
}

// AuthService implements registration, login, and password reset flows.
type AuthService struct {
	users         port.UserRepository
	resetTokens   port.ResetTokenRepository
	adminSessions port.AdminSessionRepository
	tokens        TokenIssuer
	validator     *security.PasswordValidator
	publisher     port.EventPublisher
	resetTTL      time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(
	users port.UserRepository,
	resetTokens port.ResetTokenRepository,
	adminSessions port.AdminSessionRepository,
	tokens TokenIssuer,
	validator *security.PasswordValidator,
	publisher port.EventPublisher,
	resetTTL time.Duration,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:         users,
		resetTokens:   resetTokens,
		adminSessions: adminSessions,
		tokens:        tokens,
		validator:     validator,
		publisher:     publisher,
		resetTTL:      resetTTL,
		logger:        logger,
		now:           time.Now,
	}
}

// Register creates an account and returns a freshly issued token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	var result AuthResult

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return result, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return result, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}

	if err := s.validator.Validate(input.Password); err != nil {
		return result, fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return result, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		PasswordAlgo: "argon2id",
		Role:         domain.RoleUser,
		CreatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return result, ErrEmailTaken
		}
		return result, fmt.Errorf("create user: %w", err)
	}

	s.publishEvent(ctx, "user registered", func(ctx context.Context) error {
		return s.publisher.PublishUserRegistered(ctx, domain.UserRegisteredEvent{
			EventID:      uuid.NewString(),
			UserID:       user.ID,
			Name:         user.Name,
			Email:        user.Email,
			RegisteredAt: now,
		})
	})

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role, "")
	if err != nil {
		return result, fmt.Errorf("issue token: %w", err)
	}

	result.User = user
	result.Token = token
	result.ExpiresAt = expiresAt
	return result, nil
}

// Login verifies credentials and issues an access token carrying the live role.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var result AuthResult

	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return result, err
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role, "")
	if err != nil {
		return result, fmt.Errorf("issue token: %w", err)
	}

	result.User = *user
	result.Token = token
	result.ExpiresAt = expiresAt
	return result, nil
}

// AdminLogin verifies credentials, requires the live role to be admin, opens
// a device session, and issues an admin token bound to that session.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string, meta SessionMeta) (AuthResult, error) {
	var result AuthResult

	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return result, err
	}

	if !user.Role.CanModerate() {
		return result, ErrForbidden
	}

	now := s.now().UTC()
	session := domain.AdminSession{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		IPAddress:    meta.IP,
		UserAgent:    meta.UserAgent,
		Device:       meta.Device,
		StartedAt:    now,
		LastActivity: now,
		IsActive:     true,
	}

	if err := s.adminSessions.Create(ctx, session); err != nil {
		return result, fmt.Errorf("create admin session: %w", err)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role, session.ID)
	if err != nil {
		return result, fmt.Errorf("issue admin token: %w", err)
	}

	result.User = *user
	result.Token = token
	result.ExpiresAt = expiresAt
	result.SessionID = session.ID
	return result, nil
}

func (s *AuthService) authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if user.IsBanned() {
		return nil, ErrAccountBanned
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("update last login failed", zap.String("user_id", user.ID), zap.Error(err))
	}
	user.LastLogin = &now

	return user, nil
}

// RequestPasswordReset issues a single-use reset token. Unknown emails return
// success with an empty token so the endpoint does not leak which addresses
// are registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string, meta SessionMeta) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	raw, err := security.GenerateSecureToken(resetTokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	now := s.now().UTC()
	token := domain.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: security.HashToken(raw),
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.resetTTL),
	}

	if err := s.resetTokens.Create(ctx, token); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	return raw, nil
}

// ValidateResetToken checks whether the raw token can still redeem a reset.
func (s *AuthService) ValidateResetToken(ctx context.Context, raw string) error {
	_, err := s.usableToken(ctx, raw)
	return err
}

// ResetPassword redeems the token and replaces the account password. The
// token is consumed with a conditional update so concurrent submissions
// redeem it at most once.
func (s *AuthService) ResetPassword(ctx context.Context, raw, newPassword string) error {
	token, err := s.usableToken(ctx, raw)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}

	if err := s.resetTokens.MarkUsed(ctx, token.ID, s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("consume reset token: %w", err)
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, token.UserID, hash, "argon2id"); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

// SweepExpiredResetTokens deletes reset tokens whose expiry has passed and
// returns how many rows were removed. Used tokens fall out the same way once
// their expiry lapses.
func (s *AuthService) SweepExpiredResetTokens(ctx context.Context) (int, error) {
	deleted, err := s.resetTokens.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired reset tokens: %w", err)
	}
	return deleted, nil
}

func (s *AuthService) usableToken(ctx context.Context, raw string) (*domain.PasswordResetToken, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrResetTokenInvalid
	}

	token, err := s.resetTokens.GetByHash(ctx, security.HashToken(raw))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResetTokenInvalid
		}
		return nil, fmt.Errorf("lookup reset token: %w", err)
	}

	if !token.Usable(s.now().UTC()) {
		return nil, ErrResetTokenInvalid
	}

	return token, nil
}

// publishEvent runs the publish best-effort; event delivery never fails the
// primary operation.
func (s *AuthService) publishEvent(ctx context.Context, name string, fn func(context.Context) error) {
	if s.publisher == nil {
		return
	}
	if err := fn(ctx); err != nil {
		s.logger.Warn("publish event failed", zap.String("event", name), zap.Error(err))
	}
}
