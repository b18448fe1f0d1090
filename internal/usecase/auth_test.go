package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/infra/security"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/repository"
)

const strongTestPassword = "Correct-Horse-7-Battery"

func newAuthService(users *mockUserRepository, resetTokens *mockResetTokenRepository, sessions *mockAdminSessionRepository, issuer *mockTokenIssuer, publisher *mockEventPublisher) *AuthService {
	service := NewAuthService(
		users,
		resetTokens,
		sessions,
		issuer,
		security.DefaultPasswordValidator(),
		nil,
		time.Hour,
		zap.NewNop(),
	)
	if publisher != nil {
		service.publisher = publisher
	}
	return service
}

func hashForTest(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func TestAuthService_Register_Success(t *testing.T) {
	users := &mockUserRepository{}
	issuer := &mockTokenIssuer{token: "signed-token", expiresAt: time.Now().Add(time.Hour)}
	publisher := &mockEventPublisher{}

	service := newAuthService(users, &mockResetTokenRepository{}, &mockAdminSessionRepository{}, issuer, publisher)

	result, err := service.Register(context.Background(), RegisterInput{
		Name:     "  Alice  ",
		Email:    "Alice@Example.com",
		Password: strongTestPassword,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if users.createCalls != 1 {
		t.Fatalf("expected Create to be called once, got %d", users.createCalls)
	}
	if users.createdUser.Name != "Alice" {
		t.Fatalf("expected trimmed name Alice, got %q", users.createdUser.Name)
	}
	if users.createdUser.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %q", users.createdUser.Email)
	}
	if users.createdUser.Role != domain.RoleUser {
		t.Fatalf("expected new accounts to start as user, got %s", users.createdUser.Role)
	}
	if ok, err := security.VerifyPassword(strongTestPassword, users.createdUser.PasswordHash); err != nil || !ok {
		t.Fatalf("expected stored hash to verify against the password")
	}
	if result.Token != "signed-token" {
		t.Fatalf("expected issued token, got %q", result.Token)
	}
	if issuer.role != domain.RoleUser || issuer.sessionID != "" {
		t.Fatalf("expected user token without session, got role=%s sid=%q", issuer.role, issuer.sessionID)
	}
	if publisher.registeredCalls != 1 {
		t.Fatalf("expected registered event once, got %d", publisher.registeredCalls)
	}
	if publisher.registered.UserID != users.createdUser.ID {
		t.Fatalf("expected event user id %s, got %s", users.createdUser.ID, publisher.registered.UserID)
	}
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	users := &mockUserRepository{createErr: repository.ErrConflict}
	service := newAuthService(users, &mockResetTokenRepository{}, &mockAdminSessionRepository{}, &mockTokenIssuer{}, nil)

	_, err := service.Register(context.Background(), RegisterInput{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: strongTestPassword,
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	users := &mockUserRepository{}
	service := newAuthService(users, &mockResetTokenRepository{}, &mockAdminSessionRepository{}, &mockTokenIssuer{}, nil)

	_, err := service.Register(context.Background(), RegisterInput{
		Name:     "Carol",
		Email:    "carol@example.com",
		Password: "password",
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if users.createCalls != 0 {
		t.Fatalf("expected no create on weak password, got %d", users.createCalls)
	}
}

func TestAuthService_Register_EventFailureDoesNotBlock(t *testing.T) {
	users := &mockUserRepository{}
	publisher := &mockEventPublisher{err: errors.New("kafka down")}
	service := newAuthService(users, &mockResetTokenRepository{}, &mockAdminSessionRepository{}, &mockTokenIssuer{token: "t"}, publisher)

	if _, err := service.Register(context.Background(), RegisterInput{
		Name:     "Dan",
		Email:    "dan@example.com",
		Password: strongTestPassword,
	}); err != nil {
		t.Fatalf("expected registration to succeed despite event failure, got %v", err)
	}
	if publisher.registeredCalls != 1 {
		t.Fatalf("expected publisher to be invoked even on failure")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	hash := hashForTest(t, strongTestPassword)
	users := &mockUserRepository{
		usersByEmail: map[string]*domain.User{
			"alice@example.com": {ID: "user-1", Email: "alice@example.com", PasswordHash: hash, Role: domain.RoleUser},
		},
	}
	issuer := &mockTokenIssuer{token: "signed", expiresAt: time.Now().Add(time.Hour)}
	service := newAuthService(users, &mockResetTokenRepository{}, &mockAdminSessionRepository{}, issuer, nil)

	result, err := service.Login(context.Background(), " Alice@Example.com ", strongTestPassword)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.User.ID != "user-1" {
		t.Fatalf("expected user-1, got %s", result.User.ID)
	}
	if users.lastLoginCalls != 1 || users.lastLoginID != "user-1" {
		t.Fatalf("expected last login stamp for user-1, calls=%d id=%s", users.lastLoginCalls, users.lastLoginID)
	}
	if issuer.userID != "user-1" || issuer.sessionID != "" {
		t.Fatalf("expected token for user-1 without session, got %s/%q", issuer.userID, issuer.sessionID)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hash := hashForTest(t, strongTestPassword)
	users := &mockUserRepository{
		usersByEmail: map[string]*domain.User{
			"alice@example.com": {ID: "user-1", PasswordHash: hash},
		},
	}
	service := newAuthService(users, &mockResetTokenRepository{}, &mockAdminSessionRepository{}, &mockTokenIssuer{}, nil)

	if _, err := service.Login(context.Background(), "alice@example.com", "not-the-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	service := newAuthService(&mockUserRepository{}, &mockResetTokenRepository{}, &mockAdminSessionRepository{}, &mockTokenIssuer{}, nil)

	if _, err := service.Login(context.Background(), "ghost@example.com", strongTestPassword); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthService_Login_BannedAccount(t *testing.T) {
	hash := hashForTest(t, strongTestPassword)
	users := &mockUserRepository{
		usersByEmail: map[string]*domain.User{
			"banned@example.com": {
				ID:           "user-9",
				PasswordHash: hash,
				Ban:          domain.BanState{Banned: true},
			},
		},
	}
	service := newAuthService(users, &mockResetTokenRepository{}, &mockAdminSessionRepository{}, &mockTokenIssuer{}, nil)

	if _, err := service.Login(context.Background(), "banned@example.com", strongTestPassword); !errors.Is(err, ErrAccountBanned) {
		t.Fatalf("expected ErrAccountBanned, got %v", err)
	}
}

func TestAuthService_AdminLogin_RequiresAdminRole(t *testing.T) {
	hash := hashForTest(t, strongTestPassword)
	users := &mockUserRepository{
		usersByEmail: map[string]*domain.User{
			"user@example.com": {ID: "user-1", PasswordHash: hash, Role: domain.RoleUser},
		},
	}
	sessions := &mockAdminSessionRepository{}
	service := newAuthService(users, &mockResetTokenRepository{}, sessions, &mockTokenIssuer{}, nil)

	if _, err := service.AdminLogin(context.Background(), "user@example.com", strongTestPassword, SessionMeta{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
	if sessions.createCalls != 0 {
		t.Fatalf("expected no session for rejected admin login, got %d", sessions.createCalls)
	}
}

func TestAuthService_AdminLogin_OpensSession(t *testing.T) {
	hash := hashForTest(t, strongTestPassword)
	users := &mockUserRepository{
		usersByEmail: map[string]*domain.User{
			"admin@example.com": {ID: "admin-1", PasswordHash: hash, Role: domain.RoleAdmin},
		},
	}
	sessions := &mockAdminSessionRepository{}
	issuer := &mockTokenIssuer{token: "admin-token"}
	service := newAuthService(users, &mockResetTokenRepository{}, sessions, issuer, nil)

	ip := "203.0.113.9"
	result, err := service.AdminLogin(context.Background(), "admin@example.com", strongTestPassword, SessionMeta{IP: &ip})
	if err != nil {
		t.Fatalf("AdminLogin returned error: %v", err)
	}
	if sessions.createCalls != 1 {
		t.Fatalf("expected one session created, got %d", sessions.createCalls)
	}
	if !sessions.created.IsActive {
		t.Fatalf("expected session to start active")
	}
	if sessions.created.IPAddress == nil || *sessions.created.IPAddress != ip {
		t.Fatalf("expected session to record the IP")
	}
	if result.SessionID != sessions.created.ID {
		t.Fatalf("expected result session id %s, got %s", sessions.created.ID, result.SessionID)
	}
	if issuer.sessionID != sessions.created.ID {
		t.Fatalf("expected token bound to session %s, got %s", sessions.created.ID, issuer.sessionID)
	}
}

func TestAuthService_RequestPasswordReset_UnknownEmailStaysSilent(t *testing.T) {
	resetTokens := &mockResetTokenRepository{}
	service := newAuthService(&mockUserRepository{}, resetTokens, &mockAdminSessionRepository{}, &mockTokenIssuer{}, nil)

	raw, err := service.RequestPasswordReset(context.Background(), "ghost@example.com", SessionMeta{})
	if err != nil {
		t.Fatalf("expected silent success for unknown email, got %v", err)
	}
	if raw != "" {
		t.Fatalf("expected empty token for unknown email, got %q", raw)
	}
	if resetTokens.createCalls != 0 {
		t.Fatalf("expected no token stored for unknown email, got %d", resetTokens.createCalls)
	}
}

func TestAuthService_RequestPasswordReset_StoresHashedToken(t *testing.T) {
	users := &mockUserRepository{
		usersByEmail: map[string]*domain.User{
			"alice@example.com": {ID: "user-1"},
		},
	}
	resetTokens := &mockResetTokenRepository{}
	service := newAuthService(users, resetTokens, &mockAdminSessionRepository{}, &mockTokenIssuer{}, nil)

	raw, err := service.RequestPasswordReset(context.Background(), "alice@example.com", SessionMeta{})
	if err != nil {
		t.Fatalf("RequestPasswordReset returned error: %v", err)
	}
	if raw == "" {
		t.Fatalf("expected a raw token for a known email")
	}
	if resetTokens.created.TokenHash != security.HashToken(raw) {
		t.Fatalf("expected stored hash of the raw token")
	}
	if resetTokens.created.TokenHash == raw {
		t.Fatalf("raw token must never be stored")
	}
	if resetTokens.created.UserID != "user-1" {
		t.Fatalf("expected token for user-1, got %s", resetTokens.created.UserID)
	}
	if !resetTokens.created.ExpiresAt.After(resetTokens.created.CreatedAt) {
		t.Fatalf("expected expiry after creation")
	}
}

func TestAuthService_ResetPassword_Success(t *testing.T) {
	raw := "raw-reset-token"
	users := &mockUserRepository{}
	resetTokens := &mockResetTokenRepository{
		getByHashResult: &domain.PasswordResetToken{
			ID:        "token-1",
			UserID:    "user-1",
			TokenHash: security.HashToken(raw),
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	service := newAuthService(users, resetTokens, &mockAdminSessionRepository{}, &mockTokenIssuer{}, nil)

	if err := service.ResetPassword(context.Background(), raw, strongTestPassword); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}
	if resetTokens.markUsedCalls != 1 || resetTokens.markUsedID != "token-1" {
		t.Fatalf("expected token-1 consumed once, calls=%d id=%s", resetTokens.markUsedCalls, resetTokens.markUsedID)
	}
	if users.updatePasswordCalls != 1 || users.updatePasswordID != "user-1" {
		t.Fatalf("expected password update for user-1")
	}
	if users.updatedPasswordAlgo != "argon2id" {
		t.Fatalf("expected argon2id algo, got %s", users.updatedPasswordAlgo)
	}
}

func TestAuthService_ResetPassword_WeakPassword(t *testing.T) {
	raw := "raw-reset-token"
	users := &mockUserRepository{}
	resetTokens := &mockResetTokenRepository{
		getByHashResult: &domain.PasswordResetToken{
			ID:        "token-1",
			UserID:    "user-1",
			TokenHash: security.HashToken(raw),
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	service := newAuthService(users, resetTokens, &mockAdminSessionRepository{}, &mockTokenIssuer{}, nil)

	if err := service.ResetPassword(context.Background(), raw, "aaaaaaaa"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if resetTokens.markUsedCalls != 0 {
		t.Fatalf("expected token untouched on weak password, got %d consume calls", resetTokens.markUsedCalls)
	}
	if users.updatePasswordCalls != 0 {
		t.Fatalf("expected no password change on weak password")
	}
}

func TestAuthService_ResetPassword_SingleRedemption(t *testing.T) {
	raw := "raw-reset-token"
	users := &mockUserRepository{}
	resetTokens := &mockResetTokenRepository{
		getByHashResult: &domain.PasswordResetToken{
			ID:        "token-1",
			UserID:    "user-1",
			TokenHash: security.HashToken(raw),
			ExpiresAt: time.Now().Add(time.Hour),
		},
		markUsedErr: repository.ErrConflict,
	}
	service := newAuthService(users, resetTokens, &mockAdminSessionRepository{}, &mockTokenIssuer{}, nil)

	if err := service.ResetPassword(context.Background(), raw, strongTestPassword); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid when token already consumed, got %v", err)
	}
	if users.updatePasswordCalls != 0 {
		t.Fatalf("expected no password change after lost redemption race")
	}
}

func TestAuthService_ResetPassword_ExpiredToken(t *testing.T) {
	raw := "raw-reset-token"
	resetTokens := &mockResetTokenRepository{
		getByHashResult: &domain.PasswordResetToken{
			ID:        "token-1",
			TokenHash: security.HashToken(raw),
			ExpiresAt: time.Now().Add(-time.Minute),
		},
	}
	service := newAuthService(&mockUserRepository{}, resetTokens, &mockAdminSessionRepository{}, &mockTokenIssuer{}, nil)

	if err := service.ResetPassword(context.Background(), raw, strongTestPassword); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid for expired token, got %v", err)
	}
}

func TestAuthService_SweepExpiredResetTokens(t *testing.T) {
	now := time.Date(2026, 3, 14, 4, 30, 0, 0, time.UTC)
	resetTokens := &mockResetTokenRepository{deleteExpiredResult: 3}
	service := newAuthService(&mockUserRepository{}, resetTokens, &mockAdminSessionRepository{}, &mockTokenIssuer{}, nil)
	service.now = func() time.Time { return now }

	deleted, err := service.SweepExpiredResetTokens(context.Background())
	if err != nil {
		t.Fatalf("SweepExpiredResetTokens returned error: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected 3 deleted tokens, got %d", deleted)
	}
	if resetTokens.deleteExpiredCalls != 1 {
		t.Fatalf("expected one delete pass, got %d", resetTokens.deleteExpiredCalls)
	}
	if !resetTokens.deleteExpiredCutoff.Equal(now) {
		t.Fatalf("expected cutoff at the sweep time, got %v", resetTokens.deleteExpiredCutoff)
	}
}

func TestAuthService_ValidateResetToken_UnknownToken(t *testing.T) {
	service := newAuthService(&mockUserRepository{}, &mockResetTokenRepository{}, &mockAdminSessionRepository{}, &mockTokenIssuer{}, nil)

	if err := service.ValidateResetToken(context.Background(), "nope"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid, got %v", err)
	}
}
