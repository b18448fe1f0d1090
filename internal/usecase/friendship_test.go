package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/repository"
)

func newFriendshipService(friendships *mockFriendshipRepository, users *mockUserRepository, notifications *mockNotificationRepository, publisher *mockEventPublisher) *FriendshipService {
	service := NewFriendshipService(friendships, users, notifications, nil, zap.NewNop())
	if publisher != nil {
		service.publisher = publisher
	}
	return service
}

func pendingFriendship(requester, other string) *domain.Friendship {
	userMin, userMax := domain.OrderPair(requester, other)
	return &domain.Friendship{
		ID:        "friendship-1",
		UserMin:   userMin,
		UserMax:   userMax,
		Requester: requester,
		Status:    domain.FriendshipStatusPending,
	}
}

func TestFriendshipService_SendRequest_Success(t *testing.T) {
	friendships := &mockFriendshipRepository{}
	users := &mockUserRepository{usersByID: map[string]*domain.User{"user-a": {ID: "user-a"}}}
	notifications := &mockNotificationRepository{}
	publisher := &mockEventPublisher{}

	service := newFriendshipService(friendships, users, notifications, publisher)

	friendship, err := service.SendRequest(context.Background(), "user-b", "user-a")
	if err != nil {
		t.Fatalf("SendRequest returned error: %v", err)
	}

	if friendship.UserMin != "user-a" || friendship.UserMax != "user-b" {
		t.Fatalf("expected canonical pair (user-a,user-b), got (%s,%s)", friendship.UserMin, friendship.UserMax)
	}
	if friendship.Requester != "user-b" {
		t.Fatalf("expected requester user-b, got %s", friendship.Requester)
	}
	if notifications.createCalls != 1 || notifications.created[0].UserID != "user-a" {
		t.Fatalf("expected recipient notification")
	}
	if publisher.friendRequestCalls != 1 || publisher.friendRequest.ToUserID != "user-a" {
		t.Fatalf("expected friend request event to user-a")
	}
}

func TestFriendshipService_SendRequest_Self(t *testing.T) {
	service := newFriendshipService(&mockFriendshipRepository{}, &mockUserRepository{}, &mockNotificationRepository{}, nil)

	if _, err := service.SendRequest(context.Background(), "user-a", "user-a"); !errors.Is(err, ErrSelfFriendship) {
		t.Fatalf("expected ErrSelfFriendship, got %v", err)
	}
}

func TestFriendshipService_SendRequest_ExistingPending(t *testing.T) {
	friendships := &mockFriendshipRepository{getByPairResult: pendingFriendship("user-a", "user-b")}
	users := &mockUserRepository{usersByID: map[string]*domain.User{"user-b": {ID: "user-b"}}}

	service := newFriendshipService(friendships, users, &mockNotificationRepository{}, nil)

	if _, err := service.SendRequest(context.Background(), "user-a", "user-b"); !errors.Is(err, ErrFriendRequestExists) {
		t.Fatalf("expected ErrFriendRequestExists, got %v", err)
	}
	if friendships.createCalls != 0 {
		t.Fatalf("expected no create for existing pair")
	}
}

func TestFriendshipService_SendRequest_AlreadyFriends(t *testing.T) {
	accepted := pendingFriendship("user-a", "user-b")
	accepted.Status = domain.FriendshipStatusAccepted
	friendships := &mockFriendshipRepository{getByPairResult: accepted}
	users := &mockUserRepository{usersByID: map[string]*domain.User{"user-b": {ID: "user-b"}}}

	service := newFriendshipService(friendships, users, &mockNotificationRepository{}, nil)

	if _, err := service.SendRequest(context.Background(), "user-a", "user-b"); !errors.Is(err, ErrAlreadyFriends) {
		t.Fatalf("expected ErrAlreadyFriends, got %v", err)
	}
}

func TestFriendshipService_SendRequest_LosesCreateRace(t *testing.T) {
	friendships := &mockFriendshipRepository{createErr: repository.ErrConflict}
	users := &mockUserRepository{usersByID: map[string]*domain.User{"user-b": {ID: "user-b"}}}

	service := newFriendshipService(friendships, users, &mockNotificationRepository{}, nil)

	if _, err := service.SendRequest(context.Background(), "user-a", "user-b"); !errors.Is(err, ErrFriendRequestExists) {
		t.Fatalf("expected ErrFriendRequestExists on unique index hit, got %v", err)
	}
}

func TestFriendshipService_Accept_ByRecipient(t *testing.T) {
	friendships := &mockFriendshipRepository{getByPairResult: pendingFriendship("user-a", "user-b")}
	notifications := &mockNotificationRepository{}
	publisher := &mockEventPublisher{}

	service := newFriendshipService(friendships, &mockUserRepository{}, notifications, publisher)

	if err := service.Accept(context.Background(), "user-b", "user-a"); err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}
	if friendships.acceptCalls != 1 {
		t.Fatalf("expected one accept, got %d", friendships.acceptCalls)
	}
	if notifications.createCalls != 1 || notifications.created[0].UserID != "user-a" {
		t.Fatalf("expected requester to be notified")
	}
	if publisher.friendAcceptedCalls != 1 {
		t.Fatalf("expected accepted event")
	}
}

func TestFriendshipService_Accept_ByRequesterForbidden(t *testing.T) {
	friendships := &mockFriendshipRepository{getByPairResult: pendingFriendship("user-a", "user-b")}

	service := newFriendshipService(friendships, &mockUserRepository{}, &mockNotificationRepository{}, nil)

	if err := service.Accept(context.Background(), "user-a", "user-b"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for requester accepting own request, got %v", err)
	}
	if friendships.acceptCalls != 0 {
		t.Fatalf("expected no accept call")
	}
}

func TestFriendshipService_Accept_AlreadyAccepted(t *testing.T) {
	accepted := pendingFriendship("user-a", "user-b")
	accepted.Status = domain.FriendshipStatusAccepted
	friendships := &mockFriendshipRepository{getByPairResult: accepted}

	service := newFriendshipService(friendships, &mockUserRepository{}, &mockNotificationRepository{}, nil)

	if err := service.Accept(context.Background(), "user-b", "user-a"); !errors.Is(err, ErrAlreadyFriends) {
		t.Fatalf("expected ErrAlreadyFriends, got %v", err)
	}
}

func TestFriendshipService_Accept_NoRow(t *testing.T) {
	service := newFriendshipService(&mockFriendshipRepository{}, &mockUserRepository{}, &mockNotificationRepository{}, nil)

	if err := service.Accept(context.Background(), "user-b", "user-a"); !errors.Is(err, ErrNoFriendship) {
		t.Fatalf("expected ErrNoFriendship, got %v", err)
	}
}

func TestFriendshipService_Status_SymmetricViews(t *testing.T) {
	friendships := &mockFriendshipRepository{getByPairResult: pendingFriendship("user-a", "user-b")}
	service := newFriendshipService(friendships, &mockUserRepository{}, &mockNotificationRepository{}, nil)

	fromRequester, err := service.Status(context.Background(), "user-a", "user-b")
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if fromRequester != domain.RelationSent {
		t.Fatalf("expected requester to see sent, got %s", fromRequester)
	}

	fromRecipient, err := service.Status(context.Background(), "user-b", "user-a")
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if fromRecipient != domain.RelationReceived {
		t.Fatalf("expected recipient to see received, got %s", fromRecipient)
	}
}

func TestFriendshipService_Status_NoRow(t *testing.T) {
	service := newFriendshipService(&mockFriendshipRepository{}, &mockUserRepository{}, &mockNotificationRepository{}, nil)

	relation, err := service.Status(context.Background(), "user-a", "user-b")
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if relation != domain.RelationNone {
		t.Fatalf("expected none, got %s", relation)
	}
}

func TestFriendshipService_Withdraw_GuardedOnPending(t *testing.T) {
	friendships := &mockFriendshipRepository{}
	service := newFriendshipService(friendships, &mockUserRepository{}, &mockNotificationRepository{}, nil)

	if err := service.Withdraw(context.Background(), "user-a", "user-b"); err != nil {
		t.Fatalf("Withdraw returned error: %v", err)
	}
	if friendships.deleteExpected != domain.FriendshipStatusPending {
		t.Fatalf("expected delete guarded on pending, got %s", friendships.deleteExpected)
	}
}

func TestFriendshipService_Unfriend_NoFriendship(t *testing.T) {
	friendships := &mockFriendshipRepository{deleteErr: repository.ErrNotFound}
	service := newFriendshipService(friendships, &mockUserRepository{}, &mockNotificationRepository{}, nil)

	if err := service.Unfriend(context.Background(), "user-a", "user-b"); !errors.Is(err, ErrNoFriendship) {
		t.Fatalf("expected ErrNoFriendship, got %v", err)
	}
	if friendships.deleteExpected != domain.FriendshipStatusAccepted {
		t.Fatalf("expected delete guarded on accepted, got %s", friendships.deleteExpected)
	}
}

func TestFriendshipService_ListFriends_ViewerRelative(t *testing.T) {
	accepted := pendingFriendship("user-a", "user-b")
	accepted.Status = domain.FriendshipStatusAccepted
	friendships := &mockFriendshipRepository{listAcceptedResult: []domain.Friendship{*accepted}}

	service := newFriendshipService(friendships, &mockUserRepository{}, &mockNotificationRepository{}, nil)

	friends, err := service.ListFriends(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("ListFriends returned error: %v", err)
	}
	if len(friends) != 1 {
		t.Fatalf("expected one friend, got %d", len(friends))
	}
	if friends[0].UserID != "user-b" || friends[0].Relation != domain.RelationFriends {
		t.Fatalf("expected user-b as friend, got %s/%s", friends[0].UserID, friends[0].Relation)
	}
}
