package port

import (
	"context"
	"time"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
)

// UserFilter narrows user listings for browse and admin views.
type UserFilter struct {
	Role   domain.Role
	Banned *bool
	Search string
	Limit  int
	Offset int
}

// UserRepository exposes persistence behavior for users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, user domain.User) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id string, passwordHash string, passwordAlgo string) error
	// UpdateRole flips the role only when the stored role still equals
	// expected; a guard miss returns repository.ErrConflict.
	UpdateRole(ctx context.Context, id string, expected, next domain.Role) error
	// SetBanState toggles the ban flag only when the stored flag equals
	// expected; a guard miss returns repository.ErrConflict.
	SetBanState(ctx context.Context, id string, expected bool, ban domain.BanState) error
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	Count(ctx context.Context, filter UserFilter) (int, error)
}
