package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs skillshikhi.user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"name":          event.Name,
		"email":         event.Email,
		"registered_at": event.RegisteredAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishFriendRequestSent logs skillshikhi.friend.request.sent events.
func (p *StubPublisher) PublishFriendRequestSent(_ context.Context, event domain.FriendRequestSentEvent) error {
	payload := map[string]any{
		"from_user_id": event.FromUserID,
		"to_user_id":   event.ToUserID,
		"sent_at":      event.SentAt,
		"metadata":     event.Metadata,
	}
	p.logEvent("friend.request.sent", event.FromUserID, event.SentAt, payload)
	return nil
}

// PublishFriendAccepted logs skillshikhi.friend.accepted events.
func (p *StubPublisher) PublishFriendAccepted(_ context.Context, event domain.FriendAcceptedEvent) error {
	payload := map[string]any{
		"from_user_id": event.FromUserID,
		"to_user_id":   event.ToUserID,
		"accepted_at":  event.AcceptedAt,
		"metadata":     event.Metadata,
	}
	p.logEvent("friend.accepted", event.ToUserID, event.AcceptedAt, payload)
	return nil
}

// PublishSessionRequestCreated logs skillshikhi.session.request.created events.
func (p *StubPublisher) PublishSessionRequestCreated(_ context.Context, event domain.SessionRequestCreatedEvent) error {
	payload := map[string]any{
		"request_id": event.RequestID,
		"from_user":  event.FromUser,
		"to_user":    event.ToUser,
		"skill":      event.Skill,
		"created_at": event.CreatedAt,
		"metadata":   event.Metadata,
	}
	p.logEvent("session.request.created", event.FromUser, event.CreatedAt, payload)
	return nil
}

// PublishSessionRequestTransitioned logs skillshikhi.session.request.transitioned events.
func (p *StubPublisher) PublishSessionRequestTransitioned(_ context.Context, event domain.SessionRequestTransitionedEvent) error {
	payload := map[string]any{
		"request_id":  event.RequestID,
		"from_status": event.FromStatus,
		"to_status":   event.ToStatus,
		"actor_id":    event.ActorID,
		"at":          event.At,
		"metadata":    event.Metadata,
	}
	p.logEvent("session.request.transitioned", event.ActorID, event.At, payload)
	return nil
}

// PublishReportFiled logs skillshikhi.report.filed events.
func (p *StubPublisher) PublishReportFiled(_ context.Context, event domain.ReportFiledEvent) error {
	payload := map[string]any{
		"report_id":     event.ReportID,
		"reported_by":   event.ReportedBy,
		"reported_user": event.ReportedUser,
		"reason":        event.Reason,
		"filed_at":      event.FiledAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("report.filed", event.ReportedBy, event.FiledAt, payload)
	return nil
}

// PublishReportHandled logs skillshikhi.report.handled events.
func (p *StubPublisher) PublishReportHandled(_ context.Context, event domain.ReportHandledEvent) error {
	payload := map[string]any{
		"report_id":  event.ReportID,
		"outcome":    event.Outcome,
		"admin_id":   event.AdminID,
		"handled_at": event.HandledAt,
		"metadata":   event.Metadata,
	}
	p.logEvent("report.handled", event.AdminID, event.HandledAt, payload)
	return nil
}

// PublishUserBanStateChanged logs skillshikhi.user.banned / unbanned events.
func (p *StubPublisher) PublishUserBanStateChanged(_ context.Context, event domain.UserBanStateChangedEvent) error {
	payload := map[string]any{
		"user_id":  event.UserID,
		"banned":   event.Banned,
		"reason":   event.Reason,
		"admin_id": event.AdminID,
		"at":       event.At,
		"metadata": event.Metadata,
	}
	eventType := "user.unbanned"
	if event.Banned {
		eventType = "user.banned"
	}
	p.logEvent(eventType, event.UserID, event.At, payload)
	return nil
}

// PublishUserRoleChanged logs skillshikhi.user.role.changed events.
func (p *StubPublisher) PublishUserRoleChanged(_ context.Context, event domain.UserRoleChangedEvent) error {
	payload := map[string]any{
		"user_id":  event.UserID,
		"old_role": event.OldRole,
		"new_role": event.NewRole,
		"admin_id": event.AdminID,
		"at":       event.At,
		"metadata": event.Metadata,
	}
	p.logEvent("user.role.changed", event.UserID, event.At, payload)
	return nil
}

// PublishAdminSessionTerminated logs skillshikhi.admin.session.terminated events.
func (p *StubPublisher) PublishAdminSessionTerminated(_ context.Context, event domain.AdminSessionTerminatedEvent) error {
	payload := map[string]any{
		"session_id":    event.SessionID,
		"user_id":       event.UserID,
		"terminated_by": event.TerminatedBy,
		"reason":        event.Reason,
		"at":            event.At,
		"metadata":      event.Metadata,
	}
	p.logEvent("admin.session.terminated", event.UserID, event.At, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
