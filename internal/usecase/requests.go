package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/repository"
)

var (
	// ErrSelfRequest rejects a teaching request aimed at oneself.
	ErrSelfRequest = errors.New("cannot send a session request to yourself")
	// ErrDuplicateRequest indicates a pending request already exists for the triple.
	ErrDuplicateRequest = errors.New("a pending request already exists")
	// ErrNotParticipant indicates the actor is not authorized for the transition.
	ErrNotParticipant = errors.New("not a participant of this request")
	// ErrInvalidTransition indicates the request is not in the expected prior state.
	ErrInvalidTransition = errors.New("request is not in a state that allows this transition")
)

// CreateRequestInput captures the payload for creating a session request.
type CreateRequestInput struct {
	FromUser      string
	ToUser        string
	Skill         string
	Message       *string
	PreferredDate *time.Time
}

// RequestService drives the teaching-session request state machine.
type RequestService struct {
	requests      port.SessionRequestRepository
	users         port.UserRepository
	notifications port.NotificationRepository
	publisher     port.EventPublisher
	logger        *zap.Logger
	now           func() time.Time
}

// NewRequestService constructs a RequestService.
func NewRequestService(
	requests port.SessionRequestRepository,
	users port.UserRepository,
	notifications port.NotificationRepository,
	publisher port.EventPublisher,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requests:      requests,
		users:         users,
		notifications: notifications,
		publisher:     publisher,
		logger:        logger,
		now:           time.Now,
	}
}

// Create inserts a pending request after validating both parties. Duplicate
// pending triples are rejected by the store's partial unique index, so a
// concurrent double-send still yields exactly one row.
func (s *RequestService) Create(ctx context.Context, input CreateRequestInput) (*domain.SessionRequest, error) {
	skill := strings.TrimSpace(input.Skill)
	if skill == "" {
		return nil, fmt.Errorf("%w: skill is required", ErrInvalidInput)
	}
	if input.FromUser == input.ToUser {
		return nil, ErrSelfRequest
	}

	if _, err := s.users.GetByID(ctx, input.ToUser); err != nil {
		return nil, fmt.Errorf("lookup recipient: %w", err)
	}

	now := s.now().UTC()
	request := domain.SessionRequest{
		ID:            uuid.NewString(),
		FromUser:      input.FromUser,
		ToUser:        input.ToUser,
		Skill:         skill,
		Message:       input.Message,
		PreferredDate: input.PreferredDate,
		Status:        domain.RequestStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateRequest
		}
		return nil, fmt.Errorf("create request: %w", err)
	}

	s.notify(ctx, domain.Notification{
		ID:          uuid.NewString(),
		UserID:      request.ToUser,
		Type:        domain.NotificationSessionRequest,
		Title:       "New session request",
		Message:     fmt.Sprintf("You received a request to teach %s", skill),
		RelatedID:   &request.ID,
		RelatedKind: strPtr("session_request"),
		CreatedAt:   now,
	})

	s.publish(ctx, "session request created", func(ctx context.Context) error {
		return s.publisher.PublishSessionRequestCreated(ctx, domain.SessionRequestCreatedEvent{
			EventID:   uuid.NewString(),
			RequestID: request.ID,
			FromUser:  request.FromUser,
			ToUser:    request.ToUser,
			Skill:     request.Skill,
			CreatedAt: now,
		})
	})

	return &request, nil
}

// Get returns a request, restricted to its participants.
func (s *RequestService) Get(ctx context.Context, actorID, requestID string) (*domain.SessionRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !request.Participant(actorID) {
		return nil, ErrNotParticipant
	}
	return request, nil
}

// List returns the actor's requests per the filter.
func (s *RequestService) List(ctx context.Context, actorID string, filter port.RequestFilter) ([]domain.SessionRequest, error) {
	filter.UserID = actorID
	return s.requests.List(ctx, filter)
}

// Accept moves pending -> accepted. Recipient only.
func (s *RequestService) Accept(ctx context.Context, actorID, requestID string) (*domain.SessionRequest, error) {
	return s.transition(ctx, actorID, requestID, domain.RequestStatusAccepted, recipientOnly)
}

// Reject moves pending -> rejected. Recipient only.
func (s *RequestService) Reject(ctx context.Context, actorID, requestID string) (*domain.SessionRequest, error) {
	return s.transition(ctx, actorID, requestID, domain.RequestStatusRejected, recipientOnly)
}

// Cancel moves pending or accepted -> cancelled. Either participant.
func (s *RequestService) Cancel(ctx context.Context, actorID, requestID string) (*domain.SessionRequest, error) {
	return s.transition(ctx, actorID, requestID, domain.RequestStatusCancelled, anyParticipant)
}

// Complete moves accepted -> completed. Either participant.
func (s *RequestService) Complete(ctx context.Context, actorID, requestID string) (*domain.SessionRequest, error) {
	return s.transition(ctx, actorID, requestID, domain.RequestStatusCompleted, anyParticipant)
}

type actorRule int

const (
	recipientOnly actorRule = iota
	anyParticipant
)

// transition re-reads the request, authorizes the actor, and performs the
// move as a conditional update keyed on the observed prior status. If a
// concurrent transition won in between, the guard misses and the caller gets
// ErrInvalidTransition rather than a silent double-apply.
func (s *RequestService) transition(ctx context.Context, actorID, requestID string, to domain.RequestStatus, rule actorRule) (*domain.SessionRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !request.Participant(actorID) {
		return nil, ErrNotParticipant
	}
	if rule == recipientOnly && request.ToUser != actorID {
		return nil, ErrNotParticipant
	}

	if !request.Status.CanTransition(to) {
		return nil, ErrInvalidTransition
	}

	from := request.Status
	if err := s.requests.UpdateStatus(ctx, requestID, from, to); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("transition request: %w", err)
	}

	now := s.now().UTC()
	request.Status = to
	request.UpdatedAt = now

	if other := s.counterpart(request, actorID); other != "" {
		s.notify(ctx, domain.Notification{
			ID:          uuid.NewString(),
			UserID:      other,
			Type:        domain.NotificationSessionUpdate,
			Title:       "Session request updated",
			Message:     fmt.Sprintf("Request for %s is now %s", request.Skill, to),
			RelatedID:   &request.ID,
			RelatedKind: strPtr("session_request"),
			CreatedAt:   now,
		})
	}

	s.publish(ctx, "session request transitioned", func(ctx context.Context) error {
		return s.publisher.PublishSessionRequestTransitioned(ctx, domain.SessionRequestTransitionedEvent{
			EventID:    uuid.NewString(),
			RequestID:  request.ID,
			FromStatus: from,
			ToStatus:   to,
			ActorID:    actorID,
			At:         now,
		})
	})

	return request, nil
}

func (s *RequestService) counterpart(request *domain.SessionRequest, actorID string) string {
	if request.FromUser == actorID {
		return request.ToUser
	}
	if request.ToUser == actorID {
		return request.FromUser
	}
	return ""
}

func (s *RequestService) notify(ctx context.Context, notification domain.Notification) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		s.logger.Warn("create notification failed",
			zap.String("user_id", notification.UserID),
			zap.String("type", string(notification.Type)),
			zap.Error(err),
		)
	}
}

func (s *RequestService) publish(ctx context.Context, name string, fn func(context.Context) error) {
	if s.publisher == nil {
		return
	}
	if err := fn(ctx); err != nil {
		s.logger.Warn("publish event failed", zap.String("event", name), zap.Error(err))
	}
}

func strPtr(s string) *string {
	return &s
}
