package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
)

var (
	// ErrInvalidToken marks tokens that fail signature or claim validation.
	ErrInvalidToken = errors.New("security: invalid token")
	// ErrExpiredToken marks tokens past their expiry.
	ErrExpiredToken = errors.New("security: token expired")
)

// AccessClaims are the claims embedded in every access token. Role is the
// role at issue time; admin endpoints re-check the live role on each call.
type AccessClaims struct {
	UserID    string      `json:"uid"`
	Role      domain.Role `json:"role"`
	SessionID string      `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and parses HS256 access tokens.
type TokenService struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
	adminTTL  time.Duration
	now       func() time.Time
}

func NewTokenService(secret, issuer string, accessTTL, adminTTL time.Duration) *TokenService {
	return &TokenService{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
		adminTTL:  adminTTL,
		now:       time.Now,
	}
}

// Issue mints an access token for the user. Admin tokens carry the session
// identifier of the device session created at login and use the shorter TTL.
func (s *TokenService) Issue(userID string, role domain.Role, sessionID string) (string, time.Time, error) {
	ttl := s.accessTTL
	if role == domain.RoleAdmin {
		ttl = s.adminTTL
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(ttl)

	claims := AccessClaims{
		UserID:    userID,
		Role:      role,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	return signed, expiresAt, nil
}

// Parse validates the token signature and expiry and returns its claims.
func (s *TokenService) Parse(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}

	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
