package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	UserID    string           `json:"user_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, userID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes skillshikhi.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string         `json:"user_id"`
		Name         string         `json:"name"`
		Email        string         `json:"email"`
		RegisteredAt time.Time      `json:"registered_at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		UserID:       event.UserID,
		Name:         event.Name,
		Email:        event.Email,
		RegisteredAt: event.RegisteredAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "user.registered", event.UserID, event.RegisteredAt, payload)
}

// PublishFriendRequestSent publishes skillshikhi.friend.request.sent events.
func (p *EventPublisher) PublishFriendRequestSent(ctx context.Context, event domain.FriendRequestSentEvent) error {
	payload := struct {
		FromUserID string         `json:"from_user_id"`
		ToUserID   string         `json:"to_user_id"`
		SentAt     time.Time      `json:"sent_at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		FromUserID: event.FromUserID,
		ToUserID:   event.ToUserID,
		SentAt:     event.SentAt.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "friend.request.sent", event.FromUserID, event.SentAt, payload)
}

// PublishFriendAccepted publishes skillshikhi.friend.accepted events.
func (p *EventPublisher) PublishFriendAccepted(ctx context.Context, event domain.FriendAcceptedEvent) error {
	payload := struct {
		FromUserID string         `json:"from_user_id"`
		ToUserID   string         `json:"to_user_id"`
		AcceptedAt time.Time      `json:"accepted_at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		FromUserID: event.FromUserID,
		ToUserID:   event.ToUserID,
		AcceptedAt: event.AcceptedAt.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "friend.accepted", event.ToUserID, event.AcceptedAt, payload)
}

// PublishSessionRequestCreated publishes skillshikhi.session.request.created events.
func (p *EventPublisher) PublishSessionRequestCreated(ctx context.Context, event domain.SessionRequestCreatedEvent) error {
	payload := struct {
		RequestID string         `json:"request_id"`
		FromUser  string         `json:"from_user"`
		ToUser    string         `json:"to_user"`
		Skill     string         `json:"skill"`
		CreatedAt time.Time      `json:"created_at"`
		Metadata  map[string]any `json:"metadata,omitempty"`
	}{
		RequestID: event.RequestID,
		FromUser:  event.FromUser,
		ToUser:    event.ToUser,
		Skill:     event.Skill,
		CreatedAt: event.CreatedAt.UTC(),
		Metadata:  event.Metadata,
	}

	return p.publish(ctx, event.EventID, "session.request.created", event.FromUser, event.CreatedAt, payload)
}

// PublishSessionRequestTransitioned publishes skillshikhi.session.request.transitioned events.
func (p *EventPublisher) PublishSessionRequestTransitioned(ctx context.Context, event domain.SessionRequestTransitionedEvent) error {
	payload := struct {
		RequestID  string         `json:"request_id"`
		FromStatus string         `json:"from_status"`
		ToStatus   string         `json:"to_status"`
		ActorID    string         `json:"actor_id"`
		At         time.Time      `json:"at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		RequestID:  event.RequestID,
		FromStatus: string(event.FromStatus),
		ToStatus:   string(event.ToStatus),
		ActorID:    event.ActorID,
		At:         event.At.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "session.request.transitioned", event.ActorID, event.At, payload)
}

// PublishReportFiled publishes skillshikhi.report.filed events.
func (p *EventPublisher) PublishReportFiled(ctx context.Context, event domain.ReportFiledEvent) error {
	payload := struct {
		ReportID     string         `json:"report_id"`
		ReportedBy   string         `json:"reported_by"`
		ReportedUser string         `json:"reported_user"`
		Reason       string         `json:"reason"`
		FiledAt      time.Time      `json:"filed_at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		ReportID:     event.ReportID,
		ReportedBy:   event.ReportedBy,
		ReportedUser: event.ReportedUser,
		Reason:       string(event.Reason),
		FiledAt:      event.FiledAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "report.filed", event.ReportedBy, event.FiledAt, payload)
}

// PublishReportHandled publishes skillshikhi.report.handled events.
func (p *EventPublisher) PublishReportHandled(ctx context.Context, event domain.ReportHandledEvent) error {
	payload := struct {
		ReportID  string         `json:"report_id"`
		Outcome   string         `json:"outcome"`
		AdminID   string         `json:"admin_id"`
		HandledAt time.Time      `json:"handled_at"`
		Metadata  map[string]any `json:"metadata,omitempty"`
	}{
		ReportID:  event.ReportID,
		Outcome:   string(event.Outcome),
		AdminID:   event.AdminID,
		HandledAt: event.HandledAt.UTC(),
		Metadata:  event.Metadata,
	}

	return p.publish(ctx, event.EventID, "report.handled", event.AdminID, event.HandledAt, payload)
}

// PublishUserBanStateChanged publishes skillshikhi.user.banned and
// skillshikhi.user.unbanned events.
func (p *EventPublisher) PublishUserBanStateChanged(ctx context.Context, event domain.UserBanStateChangedEvent) error {
	payload := struct {
		UserID   string         `json:"user_id"`
		Banned   bool           `json:"banned"`
		Reason   string         `json:"reason,omitempty"`
		AdminID  string         `json:"admin_id"`
		At       time.Time      `json:"at"`
		Metadata map[string]any `json:"metadata,omitempty"`
	}{
		UserID:   event.UserID,
		Banned:   event.Banned,
		Reason:   event.Reason,
		AdminID:  event.AdminID,
		At:       event.At.UTC(),
		Metadata: event.Metadata,
	}

	eventType := "user.unbanned"
	if event.Banned {
		eventType = "user.banned"
	}

	return p.publish(ctx, event.EventID, eventType, event.UserID, event.At, payload)
}

// PublishUserRoleChanged publishes skillshikhi.user.role.changed events.
func (p *EventPublisher) PublishUserRoleChanged(ctx context.Context, event domain.UserRoleChangedEvent) error {
	payload := struct {
		UserID   string         `json:"user_id"`
		OldRole  string         `json:"old_role"`
		NewRole  string         `json:"new_role"`
		AdminID  string         `json:"admin_id"`
		At       time.Time      `json:"at"`
		Metadata map[string]any `json:"metadata,omitempty"`
	}{
		UserID:   event.UserID,
		OldRole:  string(event.OldRole),
		NewRole:  string(event.NewRole),
		AdminID:  event.AdminID,
		At:       event.At.UTC(),
		Metadata: event.Metadata,
	}

	return p.publish(ctx, event.EventID, "user.role.changed", event.UserID, event.At, payload)
}

// PublishAdminSessionTerminated publishes skillshikhi.admin.session.terminated events.
func (p *EventPublisher) PublishAdminSessionTerminated(ctx context.Context, event domain.AdminSessionTerminatedEvent) error {
	payload := struct {
		SessionID    string         `json:"session_id"`
		UserID       string         `json:"user_id"`
		TerminatedBy string         `json:"terminated_by"`
		Reason       string         `json:"reason,omitempty"`
		At           time.Time      `json:"at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		SessionID:    event.SessionID,
		UserID:       event.UserID,
		TerminatedBy: event.TerminatedBy,
		Reason:       event.Reason,
		At:           event.At.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "admin.session.terminated", event.UserID, event.At, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
