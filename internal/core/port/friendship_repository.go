package port

import (
	"context"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
)

// FriendshipRepository exposes persistence behavior for friendship rows.
// Rows are keyed by the unordered user pair; the unique index on
// (user_min, user_max) guards concurrent duplicate sends.
type FriendshipRepository interface {
	Create(ctx context.Context, friendship domain.Friendship) error
	GetByPair(ctx context.Context, a, b string) (*domain.Friendship, error)
	// Accept promotes pending -> accepted conditionally; a guard miss
	// returns repository.ErrConflict.
	Accept(ctx context.Context, a, b string) error
	// Delete removes the row for the pair only when it carries the expected
	// status (pending for cancel/decline, accepted for unfriend).
	Delete(ctx context.Context, a, b string, expected domain.FriendshipStatus) error
	ListAccepted(ctx context.Context, userID string) ([]domain.Friendship, error)
	ListPending(ctx context.Context, userID string) ([]domain.Friendship, error)
}
