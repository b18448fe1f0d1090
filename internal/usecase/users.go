package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/repository"
)

// PublicProfile is the viewer-facing projection of another user. Email and
// moderation fields are omitted; the relation is relative to the viewer.
type PublicProfile struct {
	ID             string
	Name           string
	Bio            *string
	Location       *string
	SkillsTaught   []string
	SkillsMastered []string
	Relation       domain.RelationStatus
	MemberSince    time.Time
}

// UpdateProfileInput carries the mutable profile fields. Nil pointers leave
// the current value untouched; a pointer to the zero value clears it.
type UpdateProfileInput struct {
	Name           *string
	Bio            *string
	Location       *string
	SkillsTaught   []string
	SkillsMastered []string
}

// UserService covers self-profile management and member browsing.
type UserService struct {
	users       port.UserRepository
	friendships port.FriendshipRepository
	logger      *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(users port.UserRepository, friendships port.FriendshipRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, friendships: friendships, logger: logger}
}

// GetProfile returns the caller's own record.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// GetPublicProfile returns another member's public view, annotated with the
// viewer's relation to them. Banned accounts are hidden from members.
func (s *UserService) GetPublicProfile(ctx context.Context, viewerID, targetID string) (*PublicProfile, error) {
	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user.IsBanned() {
		return nil, repository.ErrNotFound
	}

	relation := domain.RelationNone
	if viewerID != targetID {
		friendship, err := s.friendships.GetByPair(ctx, viewerID, targetID)
		switch {
		case err == nil:
			relation = friendship.RelationFor(viewerID)
		case errors.Is(err, repository.ErrNotFound):
		default:
			return nil, fmt.Errorf("lookup friendship: %w", err)
		}
	} else {
		relation = domain.RelationSelf
	}

	return &PublicProfile{
		ID:             user.ID,
		Name:           user.Name,
		Bio:            user.Bio,
		Location:       user.Location,
		SkillsTaught:   user.SkillsTaught,
		SkillsMastered: user.SkillsMastered,
		Relation:       relation,
		MemberSince:    user.CreatedAt,
	}, nil
}

// UpdateProfile applies partial changes to the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		user.Name = name
	}
	if input.Bio != nil {
		user.Bio = input.Bio
	}
	if input.Location != nil {
		user.Location = input.Location
	}
	if input.SkillsTaught != nil {
		user.SkillsTaught = normalizeSkills(input.SkillsTaught)
	}
	if input.SkillsMastered != nil {
		user.SkillsMastered = normalizeSkills(input.SkillsMastered)
	}

	if err := s.users.UpdateProfile(ctx, *user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return user, nil
}

// Browse lists non-banned members matching the search, as public views
// without per-user relation lookups.
func (s *UserService) Browse(ctx context.Context, search string, limit, offset int) ([]PublicProfile, int, error) {
	notBanned := false
	filter := port.UserFilter{
		Banned: &notBanned,
		Search: strings.TrimSpace(search),
		Limit:  limit,
		Offset: offset,
	}

	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	profiles := make([]PublicProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, PublicProfile{
			ID:             user.ID,
			Name:           user.Name,
			Bio:            user.Bio,
			Location:       user.Location,
			SkillsTaught:   user.SkillsTaught,
			SkillsMastered: user.SkillsMastered,
			Relation:       domain.RelationNone,
			MemberSince:    user.CreatedAt,
		})
	}

	return profiles, total, nil
}

// normalizeSkills trims entries and drops blanks and duplicates while
// keeping first-seen order.
func normalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, skill)
	}
	return out
}
