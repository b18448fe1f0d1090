package domain

import "time"

// NotificationType enumerates the events that fan out to user notifications.
type NotificationType string

const (
	NotificationFriendRequest   NotificationType = "friend_request"
	NotificationFriendAccepted  NotificationType = "friend_accepted"
	NotificationSessionRequest  NotificationType = "session_request"
	NotificationSessionUpdate   NotificationType = "session_update"
	NotificationReportUpdate    NotificationType = "report_update"
	NotificationAccountBanned   NotificationType = "account_banned"
	NotificationAccountUnbanned NotificationType = "account_unbanned"
	NotificationRoleChanged     NotificationType = "role_changed"
)

// NotificationRetention is how long notifications are kept before the sweep
// removes them.
const NotificationRetention = 30 * 24 * time.Hour

// Notification is an owner-scoped inbox entry. Only the owner may mark it read.
type Notification struct {
	ID          string
	UserID      string
	Type        NotificationType
	Title       string
	Message     string
	Link        *string
	Read        bool
	RelatedID   *string
	RelatedKind *string
	CreatedAt   time.Time
}
