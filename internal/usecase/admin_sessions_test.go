package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/repository"
)

func TestAdminSessionService_Terminate_Success(t *testing.T) {
	sessions := &mockAdminSessionRepository{
		byID: map[string]*domain.AdminSession{"session-1": {ID: "session-1", UserID: "admin-2"}},
	}
	publisher := &mockEventPublisher{}

	service := NewAdminSessionService(sessions, nil, nil, time.Hour, zap.NewNop())
	service.publisher = publisher

	if err := service.Terminate(context.Background(), "session-1", "admin-1", "device lost"); err != nil {
		t.Fatalf("Terminate returned error: %v", err)
	}

	if sessions.terminateCalls != 1 || sessions.terminateID != "session-1" {
		t.Fatalf("expected one terminate for session-1")
	}
	if sessions.terminateBy != "admin-1" || sessions.terminateReason != "device lost" {
		t.Fatalf("expected acting admin and reason, got %s/%s", sessions.terminateBy, sessions.terminateReason)
	}
	if publisher.sessionTerminatedCalls != 1 {
		t.Fatalf("expected terminated event once, got %d", publisher.sessionTerminatedCalls)
	}
	if publisher.sessionTerminated.UserID != "admin-2" {
		t.Fatalf("expected event to carry the session owner, got %s", publisher.sessionTerminated.UserID)
	}
}

func TestAdminSessionService_Terminate_AlreadyInactive(t *testing.T) {
	sessions := &mockAdminSessionRepository{terminateErr: repository.ErrConflict}
	publisher := &mockEventPublisher{}

	service := NewAdminSessionService(sessions, nil, nil, time.Hour, zap.NewNop())
	service.publisher = publisher

	if err := service.Terminate(context.Background(), "session-1", "admin-1", "cleanup"); !errors.Is(err, ErrSessionInactive) {
		t.Fatalf("expected ErrSessionInactive, got %v", err)
	}
	if publisher.sessionTerminatedCalls != 0 {
		t.Fatalf("expected no event for a session that was already closed")
	}
}

func TestAdminSessionService_RecordHeartbeat(t *testing.T) {
	touched := make(chan struct{}, 1)
	cached := make(chan struct{}, 1)
	sessions := &mockAdminSessionRepository{touchNotify: touched}
	heartbeats := &mockHeartbeatCache{setNotify: cached}

	service := NewAdminSessionService(sessions, heartbeats, nil, time.Hour, zap.NewNop())

	service.RecordHeartbeat("session-1")

	select {
	case <-cached:
	case <-time.After(2 * time.Second):
		t.Fatalf("heartbeat cache write did not happen")
	}
	select {
	case <-touched:
	case <-time.After(2 * time.Second):
		t.Fatalf("heartbeat touch did not happen")
	}

	if sessions.touchID != "session-1" || heartbeats.setID != "session-1" {
		t.Fatalf("expected heartbeat for session-1, got %s/%s", sessions.touchID, heartbeats.setID)
	}
}

func TestAdminSessionService_RecordHeartbeat_EmptySession(t *testing.T) {
	sessions := &mockAdminSessionRepository{}
	service := NewAdminSessionService(sessions, nil, nil, time.Hour, zap.NewNop())

	service.RecordHeartbeat("")

	if sessions.touchID != "" {
		t.Fatalf("expected no touch for empty session id")
	}
}

func TestAdminSessionService_ExpireIdleSessions_Cutoff(t *testing.T) {
	sessions := &mockAdminSessionRepository{expireResult: 3}
	service := NewAdminSessionService(sessions, nil, nil, 30*time.Minute, zap.NewNop())

	fixedNow := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixedNow }

	expired, err := service.ExpireIdleSessions(context.Background())
	if err != nil {
		t.Fatalf("ExpireIdleSessions returned error: %v", err)
	}
	if expired != 3 {
		t.Fatalf("expected 3 expired, got %d", expired)
	}
	want := fixedNow.Add(-30 * time.Minute)
	if !sessions.expireCutoff.Equal(want) {
		t.Fatalf("expected cutoff %v, got %v", want, sessions.expireCutoff)
	}
}
