package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/repository"
)

func TestNotificationService_MarkRead_OwnerScoped(t *testing.T) {
	notifications := &mockNotificationRepository{markReadErr: repository.ErrNotFound}
	service := NewNotificationService(notifications)

	if err := service.MarkRead(context.Background(), "note-1", "intruder"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found for another user's notification, got %v", err)
	}
	if notifications.markReadID != "note-1" || notifications.markReadUserID != "intruder" {
		t.Fatalf("expected owner to be part of the predicate")
	}
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	notifications := &mockNotificationRepository{markAllReadResult: 4}
	service := NewNotificationService(notifications)

	count, err := service.MarkAllRead(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("MarkAllRead returned error: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 marked, got %d", count)
	}
}

func TestNotificationService_SweepExpired_RetentionCutoff(t *testing.T) {
	notifications := &mockNotificationRepository{deleteOlderResult: 12}
	service := NewNotificationService(notifications)

	fixedNow := time.Date(2026, 2, 3, 4, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixedNow }

	deleted, err := service.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("SweepExpired returned error: %v", err)
	}
	if deleted != 12 {
		t.Fatalf("expected 12 deleted, got %d", deleted)
	}
	want := fixedNow.Add(-30 * 24 * time.Hour)
	if !notifications.deleteOlderCutoff.Equal(want) {
		t.Fatalf("expected cutoff %v, got %v", want, notifications.deleteOlderCutoff)
	}
}
