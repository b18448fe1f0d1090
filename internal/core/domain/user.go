package domain

import "time"

// Role designates the capability level of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// CanModerate reports whether the role grants access to moderation operations.
// All admin-only checks in the service funnel through this single predicate.
func (r Role) CanModerate() bool {
	return r == RoleAdmin
}

// BanState captures the moderation ban status of a user together with its audit trail.
type BanState struct {
	Banned   bool
	Reason   *string
	BannedAt *time.Time
	BannedBy *string
}

// User mirrors the persisted representation in the users table.
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	PasswordAlgo   string
	Role           Role
	Ban            BanState
	Bio            *string
	Location       *string
	SkillsTaught   []string
	SkillsMastered []string
	CreatedAt      time.Time
	LastLogin      *time.Time
}

// IsBanned reports whether the account is currently banned.
func (u User) IsBanned() bool {
	return u.Ban.Banned
}

// PasswordResetToken represents a single-use password reset token (stored as a hash).
type PasswordResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	IP        *string
	UserAgent *string
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// Usable reports whether the token can still redeem a reset at the supplied moment.
func (t PasswordResetToken) Usable(at time.Time) bool {
	return t.UsedAt == nil && t.ExpiresAt.After(at)
}
