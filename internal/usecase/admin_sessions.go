package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/repository"
)

// ErrSessionInactive indicates the session was already terminated or expired.
var ErrSessionInactive = errors.New("session is not active")

// heartbeatTimeout bounds the detached heartbeat write.
const heartbeatTimeout = 5 * time.Second

// AdminSessionService tracks admin device sessions and their heartbeats.
type AdminSessionService struct {
	sessions    port.AdminSessionRepository
	heartbeats  port.HeartbeatCache
	publisher   port.EventPublisher
	idleTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewAdminSessionService constructs an AdminSessionService.
func NewAdminSessionService(
	sessions port.AdminSessionRepository,
	heartbeats port.HeartbeatCache,
	publisher port.EventPublisher,
	idleTimeout time.Duration,
	logger *zap.Logger,
) *AdminSessionService {
	return &AdminSessionService{
		sessions:    sessions,
		heartbeats:  heartbeats,
		publisher:   publisher,
		idleTimeout: idleTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns device sessions per the filter.
func (s *AdminSessionService) List(ctx context.Context, filter port.AdminSessionFilter) ([]domain.AdminSession, error) {
	return s.sessions.List(ctx, filter)
}

// Terminate closes an active session. The store guard is conditional on
// is_active, so a session terminates exactly once.
func (s *AdminSessionService) Terminate(ctx context.Context, sessionID, adminID, reason string) error {
	now := s.now().UTC()

	if err := s.sessions.Terminate(ctx, sessionID, adminID, reason, now); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrSessionInactive
		}
		return err
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	userID := ""
	if err == nil {
		userID = session.UserID
	}

	s.publish(ctx, "admin session terminated", func(ctx context.Context) error {
		return s.publisher.PublishAdminSessionTerminated(ctx, domain.AdminSessionTerminatedEvent{
			EventID:      uuid.NewString(),
			SessionID:    sessionID,
			UserID:       userID,
			TerminatedBy: adminID,
			Reason:       reason,
			At:           now,
		})
	})

	return nil
}

// RecordHeartbeat dispatches a best-effort activity update for the session
// without blocking the caller. Failures never affect the primary request;
// they are logged at warn.
func (s *AdminSessionService) RecordHeartbeat(sessionID string) {
	if sessionID == "" {
		return
	}

	at := s.now().UTC()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), heartbeatTimeout)
		defer cancel()

		if s.heartbeats != nil {
			if err := s.heartbeats.SetLastActivity(ctx, sessionID, at); err != nil {
				s.logger.Warn("heartbeat cache write failed",
					zap.String("session_id", sessionID), zap.Error(err))
			}
		}

		if err := s.sessions.Touch(ctx, sessionID, at); err != nil {
			s.logger.Warn("heartbeat touch failed",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}()
}

// ExpireIdleSessions closes sessions idle past the configured timeout.
func (s *AdminSessionService) ExpireIdleSessions(ctx context.Context) (int, error) {
	cutoff := s.now().UTC().Add(-s.idleTimeout)

	expired, err := s.sessions.ExpireIdle(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire idle sessions: %w", err)
	}

	return expired, nil
}

func (s *AdminSessionService) publish(ctx context.Context, name string, fn func(context.Context) error) {
	if s.publisher == nil {
		return
	}
	if err := fn(ctx); err != nil {
		s.logger.Warn("publish event failed", zap.String("event", name), zap.Error(err))
	}
}
