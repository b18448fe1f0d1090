package port

import (
	"context"
	"time"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
)

// ResetTokenRepository exposes persistence behavior for password reset tokens.
// Tokens are stored hashed; the raw value is only ever sent to the user.
type ResetTokenRepository interface {
	Create(ctx context.Context, token domain.PasswordResetToken) error
	GetByHash(ctx context.Context, tokenHash string) (*domain.PasswordResetToken, error)
	// MarkUsed consumes the token conditionally on used_at IS NULL; a guard
	// miss returns repository.ErrConflict so a token redeems exactly once.
	MarkUsed(ctx context.Context, id string, at time.Time) error
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)
}
