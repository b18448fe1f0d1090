package domain

import "time"

// UserRegisteredEvent represents the payload for skillshikhi.user.registered messages.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Name         string
	Email        string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// FriendRequestSentEvent represents the payload for skillshikhi.friend.request.sent messages.
type FriendRequestSentEvent struct {
	EventID    string
	FromUserID string
	ToUserID   string
	SentAt     time.Time
	Metadata   map[string]any
}

// FriendAcceptedEvent represents the payload for skillshikhi.friend.accepted messages.
type FriendAcceptedEvent struct {
	EventID    string
	FromUserID string
	ToUserID   string
	AcceptedAt time.Time
	Metadata   map[string]any
}

// SessionRequestCreatedEvent represents the payload for skillshikhi.session.request.created messages.
type SessionRequestCreatedEvent struct {
	EventID   string
	RequestID string
	FromUser  string
	ToUser    string
	Skill     string
	CreatedAt time.Time
	Metadata  map[string]any
}

// SessionRequestTransitionedEvent represents the payload for
// skillshikhi.session.request.transitioned messages.
type SessionRequestTransitionedEvent struct {
	EventID    string
	RequestID  string
	FromStatus RequestStatus
	ToStatus   RequestStatus
	ActorID    string
	At         time.Time
	Metadata   map[string]any
}

// ReportFiledEvent represents the payload for skillshikhi.report.filed messages.
type ReportFiledEvent struct {
	EventID      string
	ReportID     string
	ReportedBy   string
	ReportedUser string
	Reason       ReportReason
	FiledAt      time.Time
	Metadata     map[string]any
}

// ReportHandledEvent represents the payload for skillshikhi.report.handled messages.
type ReportHandledEvent struct {
	EventID   string
	ReportID  string
	Outcome   ReportStatus
	AdminID   string
	HandledAt time.Time
	Metadata  map[string]any
}

// UserBanStateChangedEvent represents the payload for skillshikhi.user.banned
// and skillshikhi.user.unbanned messages.
type UserBanStateChangedEvent struct {
	EventID  string
	UserID   string
	Banned   bool
	Reason   string
	AdminID  string
	At       time.Time
	Metadata map[string]any
}

// UserRoleChangedEvent represents the payload for skillshikhi.user.role.changed messages.
type UserRoleChangedEvent struct {
	EventID  string
	UserID   string
	OldRole  Role
	NewRole  Role
	AdminID  string
	At       time.Time
	Metadata map[string]any
}

// AdminSessionTerminatedEvent represents the payload for
// skillshikhi.admin.session.terminated messages.
type AdminSessionTerminatedEvent struct {
	EventID      string
	SessionID    string
	UserID       string
	TerminatedBy string
	Reason       string
	At           time.Time
	Metadata     map[string]any
}
