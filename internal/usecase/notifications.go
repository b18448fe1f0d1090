package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
)

// NotificationService exposes the owner-scoped inbox.
type NotificationService struct {
	notifications port.NotificationRepository
	retention     time.Duration
	now           func() time.Time
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(notifications port.NotificationRepository) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		retention:     domain.NotificationRetention,
		now:           time.Now,
	}
}

// List returns the owner's notifications.
func (s *NotificationService) List(ctx context.Context, userID string, filter port.NotificationFilter) ([]domain.Notification, error) {
	return s.notifications.ListByUser(ctx, userID, filter)
}

// CountUnread returns the owner's unread count.
func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.notifications.CountUnread(ctx, userID)
}

// MarkRead marks one notification read. Ownership is enforced by the store
// predicate; another user's notification id comes back as not found.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	return s.notifications.MarkRead(ctx, notificationID, userID)
}

// MarkAllRead marks every unread notification of the owner.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return s.notifications.MarkAllRead(ctx, userID)
}

// SweepExpired deletes notifications older than the retention window.
func (s *NotificationService) SweepExpired(ctx context.Context) (int, error) {
	cutoff := s.now().UTC().Add(-s.retention)

	deleted, err := s.notifications.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweep notifications: %w", err)
	}

	return deleted, nil
}
