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

var (
	// ErrSelfFriendship rejects friendship operations aimed at oneself.
	ErrSelfFriendship = errors.New("cannot befriend yourself")
	// ErrAlreadyFriends indicates an accepted friendship already exists.
	ErrAlreadyFriends = errors.New("already friends")
	// ErrFriendRequestExists indicates a pending row already exists for the pair.
	ErrFriendRequestExists = errors.New("a friend request already exists")
	// ErrNoFriendship indicates no row matched the expected state.
	ErrNoFriendship = errors.New("no such friendship")
)

// Friend pairs a user with the viewer-relative relation status.
type Friend struct {
	UserID   string
	Relation domain.RelationStatus
	Since    time.Time
}

// FriendshipService manages the single-row friendship model. Because each
// pair maps to exactly one row, the symmetric update is atomic by
// construction; there is no reciprocal record to keep in sync.
type FriendshipService struct {
	friendships   port.FriendshipRepository
	users         port.UserRepository
	notifications port.NotificationRepository
	publisher     port.EventPublisher
	logger        *zap.Logger
	now           func() time.Time
}

// NewFriendshipService constructs a FriendshipService.
func NewFriendshipService(
	friendships port.FriendshipRepository,
	users port.UserRepository,
	notifications port.NotificationRepository,
	publisher port.EventPublisher,
	logger *zap.Logger,
) *FriendshipService {
	return &FriendshipService{
		friendships:   friendships,
		users:         users,
		notifications: notifications,
		publisher:     publisher,
		logger:        logger,
		now:           time.Now,
	}
}

// Status derives the viewer-relative relation with the other user.
func (s *FriendshipService) Status(ctx context.Context, selfID, otherID string) (domain.RelationStatus, error) {
	if selfID == otherID {
		return domain.RelationNone, ErrSelfFriendship
	}

	friendship, err := s.friendships.GetByPair(ctx, selfID, otherID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.RelationNone, nil
		}
		return domain.RelationNone, fmt.Errorf("lookup friendship: %w", err)
	}

	return friendship.RelationFor(selfID), nil
}

// SendRequest creates a pending friendship row with the sender as requester.
// The unique (user_min, user_max) index makes concurrent duplicate sends
// resolve to a single row.
func (s *FriendshipService) SendRequest(ctx context.Context, selfID, otherID string) (*domain.Friendship, error) {
	if selfID == otherID {
		return nil, ErrSelfFriendship
	}

	if _, err := s.users.GetByID(ctx, otherID); err != nil {
		return nil, fmt.Errorf("lookup recipient: %w", err)
	}

	if existing, err := s.friendships.GetByPair(ctx, selfID, otherID); err == nil {
		if existing.Status == domain.FriendshipStatusAccepted {
			return nil, ErrAlreadyFriends
		}
		return nil, ErrFriendRequestExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup friendship: %w", err)
	}

	userMin, userMax := domain.OrderPair(selfID, otherID)
	now := s.now().UTC()
	friendship := domain.Friendship{
		ID:        uuid.NewString(),
		UserMin:   userMin,
		UserMax:   userMax,
		Requester: selfID,
		Status:    domain.FriendshipStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.friendships.Create(ctx, friendship); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrFriendRequestExists
		}
		return nil, fmt.Errorf("create friendship: %w", err)
	}

	s.notify(ctx, domain.Notification{
		ID:          uuid.NewString(),
		UserID:      otherID,
		Type:        domain.NotificationFriendRequest,
		Title:       "New friend request",
		Message:     "You received a friend request",
		RelatedID:   &friendship.ID,
		RelatedKind: strPtr("friendship"),
		CreatedAt:   now,
	})

	s.publish(ctx, "friend request sent", func(ctx context.Context) error {
		return s.publisher.PublishFriendRequestSent(ctx, domain.FriendRequestSentEvent{
			EventID:    uuid.NewString(),
			FromUserID: selfID,
			ToUserID:   otherID,
			SentAt:     now,
		})
	})

	return &friendship, nil
}

// Accept promotes the pending row to accepted. Only the non-requester may
// accept; the store-level guard rejects a row that is no longer pending.
func (s *FriendshipService) Accept(ctx context.Context, selfID, otherID string) error {
	if selfID == otherID {
		return ErrSelfFriendship
	}

	friendship, err := s.friendships.GetByPair(ctx, selfID, otherID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoFriendship
		}
		return fmt.Errorf("lookup friendship: %w", err)
	}

	if friendship.Status == domain.FriendshipStatusAccepted {
		return ErrAlreadyFriends
	}
	if friendship.Requester == selfID {
		return ErrForbidden
	}

	if err := s.friendships.Accept(ctx, selfID, otherID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrAlreadyFriends
		}
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoFriendship
		}
		return fmt.Errorf("accept friendship: %w", err)
	}

	now := s.now().UTC()
	s.notify(ctx, domain.Notification{
		ID:          uuid.NewString(),
		UserID:      friendship.Requester,
		Type:        domain.NotificationFriendAccepted,
		Title:       "Friend request accepted",
		Message:     "Your friend request was accepted",
		RelatedID:   &friendship.ID,
		RelatedKind: strPtr("friendship"),
		CreatedAt:   now,
	})

	s.publish(ctx, "friend accepted", func(ctx context.Context) error {
		return s.publisher.PublishFriendAccepted(ctx, domain.FriendAcceptedEvent{
			EventID:    uuid.NewString(),
			FromUserID: friendship.Requester,
			ToUserID:   selfID,
			AcceptedAt: now,
		})
	})

	return nil
}

// Withdraw removes a pending row. The sender cancels, the recipient declines;
// both reduce to deleting the pending row for the pair.
func (s *FriendshipService) Withdraw(ctx context.Context, selfID, otherID string) error {
	if selfID == otherID {
		return ErrSelfFriendship
	}

	if err := s.friendships.Delete(ctx, selfID, otherID, domain.FriendshipStatusPending); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrConflict) {
			return ErrNoFriendship
		}
		return fmt.Errorf("withdraw friendship: %w", err)
	}

	return nil
}

// Unfriend removes an accepted row.
func (s *FriendshipService) Unfriend(ctx context.Context, selfID, otherID string) error {
	if selfID == otherID {
		return ErrSelfFriendship
	}

	if err := s.friendships.Delete(ctx, selfID, otherID, domain.FriendshipStatusAccepted); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrConflict) {
			return ErrNoFriendship
		}
		return fmt.Errorf("unfriend: %w", err)
	}

	return nil
}

// ListFriends returns accepted friendships as viewer-relative entries.
func (s *FriendshipService) ListFriends(ctx context.Context, selfID string) ([]Friend, error) {
	rows, err := s.friendships.ListAccepted(ctx, selfID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return s.project(rows, selfID), nil
}

// ListPending returns pending friendships involving the viewer, both sent
// and received, distinguished by the relation field.
func (s *FriendshipService) ListPending(ctx context.Context, selfID string) ([]Friend, error) {
	rows, err := s.friendships.ListPending(ctx, selfID)
	if err != nil {
		return nil, fmt.Errorf("list pending friendships: %w", err)
	}
	return s.project(rows, selfID), nil
}

func (s *FriendshipService) project(rows []domain.Friendship, selfID string) []Friend {
	friends := make([]Friend, 0, len(rows))
	for _, row := range rows {
		friends = append(friends, Friend{
			UserID:   row.Other(selfID),
			Relation: row.RelationFor(selfID),
			Since:    row.UpdatedAt,
		})
	}
	return friends
}

func (s *FriendshipService) notify(ctx context.Context, notification domain.Notification) {
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

func (s *FriendshipService) publish(ctx context.Context, name string, fn func(context.Context) error) {
	if s.publisher == nil {
		return
	}
	if err := fn(ctx); err != nil {
		s.logger.Warn("publish event failed", zap.String("event", name), zap.Error(err))
	}
}
