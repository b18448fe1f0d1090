package port

import (
	"context"
	"time"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
)

// AdminSessionFilter narrows admin session listings.
type AdminSessionFilter struct {
	UserID     string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// AdminSessionRepository exposes persistence behavior for admin device sessions.
type AdminSessionRepository interface {
	Create(ctx context.Context, session domain.AdminSession) error
	GetByID(ctx context.Context, id string) (*domain.AdminSession, error)
	List(ctx context.Context, filter AdminSessionFilter) ([]domain.AdminSession, error)
	// Touch advances last_activity; used by the heartbeat path.
	Touch(ctx context.Context, id string, at time.Time) error
	// Terminate closes the session conditionally on is_active=true; a guard
	// miss returns repository.ErrConflict.
	Terminate(ctx context.Context, id string, adminID, reason string, at time.Time) error
	// ExpireIdle closes sessions whose last activity predates the cutoff and
	// returns how many were closed.
	ExpireIdle(ctx context.Context, cutoff time.Time) (int, error)
}

// HeartbeatCache records per-session last-activity timestamps in a fast
// store so the heartbeat path does not hit the primary database on every
// authenticated request.
type HeartbeatCache interface {
	SetLastActivity(ctx context.Context, sessionID string, at time.Time) error
	GetLastActivity(ctx context.Context, sessionID string) (time.Time, bool, error)
}
