package port

import (
	"context"
	"time"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
)

// NotificationFilter narrows notification listings for the owner's inbox.
type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

// NotificationRepository exposes persistence behavior for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification domain.Notification) error
	ListByUser(ctx context.Context, userID string, filter NotificationFilter) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	// MarkRead flips the read flag; the owner check is part of the update
	// predicate so another user's id yields ErrNotFound.
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
	// DeleteOlderThan enforces the retention window and returns how many
	// rows were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
