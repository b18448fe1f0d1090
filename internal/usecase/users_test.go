package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/repository"
)

func TestUserService_GetPublicProfile_HidesBanned(t *testing.T) {
	users := &mockUserRepository{
		usersByID: map[string]*domain.User{
			"banned-1": {ID: "banned-1", Ban: domain.BanState{Banned: true}},
		},
	}
	service := NewUserService(users, &mockFriendshipRepository{}, zap.NewNop())

	if _, err := service.GetPublicProfile(context.Background(), "viewer-1", "banned-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected banned profile to be hidden, got %v", err)
	}
}

func TestUserService_GetPublicProfile_RelationDerived(t *testing.T) {
	users := &mockUserRepository{
		usersByID: map[string]*domain.User{"user-b": {ID: "user-b", Name: "B", Email: "b@example.com"}},
	}
	friendship := pendingFriendship("user-a", "user-b")
	friendship.Status = domain.FriendshipStatusAccepted
	friendships := &mockFriendshipRepository{getByPairResult: friendship}

	service := NewUserService(users, friendships, zap.NewNop())

	profile, err := service.GetPublicProfile(context.Background(), "user-a", "user-b")
	if err != nil {
		t.Fatalf("GetPublicProfile returned error: %v", err)
	}
	if profile.Relation != domain.RelationFriends {
		t.Fatalf("expected friends relation, got %s", profile.Relation)
	}
}

func TestUserService_GetPublicProfile_Self(t *testing.T) {
	users := &mockUserRepository{usersByID: map[string]*domain.User{"user-a": {ID: "user-a"}}}
	service := NewUserService(users, &mockFriendshipRepository{}, zap.NewNop())

	profile, err := service.GetPublicProfile(context.Background(), "user-a", "user-a")
	if err != nil {
		t.Fatalf("GetPublicProfile returned error: %v", err)
	}
	if profile.Relation != domain.RelationSelf {
		t.Fatalf("expected self relation, got %s", profile.Relation)
	}
}

func TestUserService_UpdateProfile_PartialUpdate(t *testing.T) {
	bio := "teaches guitar"
	users := &mockUserRepository{
		usersByID: map[string]*domain.User{
			"user-1": {ID: "user-1", Name: "Alice", Bio: &bio},
		},
	}
	service := NewUserService(users, &mockFriendshipRepository{}, zap.NewNop())

	updated, err := service.UpdateProfile(context.Background(), "user-1", UpdateProfileInput{
		Name:         strPtr("  Alice Rahman  "),
		SkillsTaught: []string{" Guitar ", "guitar", "", "Tabla"},
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}

	if updated.Name != "Alice Rahman" {
		t.Fatalf("expected trimmed name, got %q", updated.Name)
	}
	if updated.Bio == nil || *updated.Bio != bio {
		t.Fatalf("expected untouched bio")
	}
	if len(updated.SkillsTaught) != 2 || updated.SkillsTaught[0] != "Guitar" || updated.SkillsTaught[1] != "Tabla" {
		t.Fatalf("expected deduplicated skills, got %v", updated.SkillsTaught)
	}
	if users.updateProfileCalls != 1 {
		t.Fatalf("expected one profile update, got %d", users.updateProfileCalls)
	}
}

func TestUserService_UpdateProfile_EmptyName(t *testing.T) {
	users := &mockUserRepository{usersByID: map[string]*domain.User{"user-1": {ID: "user-1", Name: "Alice"}}}
	service := NewUserService(users, &mockFriendshipRepository{}, zap.NewNop())

	if _, err := service.UpdateProfile(context.Background(), "user-1", UpdateProfileInput{Name: strPtr("   ")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
	if users.updateProfileCalls != 0 {
		t.Fatalf("expected no update for blank name")
	}
}

func TestUserService_Browse_ExcludesBanned(t *testing.T) {
	users := &mockUserRepository{listResult: []domain.User{{ID: "user-1", Name: "Alice"}}, countResult: 1}
	service := NewUserService(users, &mockFriendshipRepository{}, zap.NewNop())

	profiles, total, err := service.Browse(context.Background(), " guitar ", 20, 0)
	if err != nil {
		t.Fatalf("Browse returned error: %v", err)
	}
	if total != 1 || len(profiles) != 1 {
		t.Fatalf("expected one profile, got %d/%d", len(profiles), total)
	}
	if users.listFilter.Banned == nil || *users.listFilter.Banned {
		t.Fatalf("expected banned accounts filtered out")
	}
	if users.listFilter.Search != "guitar" {
		t.Fatalf("expected trimmed search, got %q", users.listFilter.Search)
	}
}
