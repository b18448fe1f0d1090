package domain

import "time"

// FriendshipStatus is the stored state of a friendship row.
type FriendshipStatus string

const (
	FriendshipStatusPending  FriendshipStatus = "pending"
	FriendshipStatusAccepted FriendshipStatus = "accepted"
)

// RelationStatus is the per-viewer view of a friendship, derived from the
// stored row and the viewer's position in it.
type RelationStatus string

const (
	RelationNone     RelationStatus = "none"
	RelationSelf     RelationStatus = "self"
	RelationSent     RelationStatus = "sent"
	RelationReceived RelationStatus = "received"
	RelationFriends  RelationStatus = "friends"
)

// Friendship is a single row keyed by the unordered user pair. Keeping one
// row per pair makes the relationship symmetric by construction; there is no
// reciprocal record to keep in sync.
type Friendship struct {
	ID        string
	UserMin   string
	UserMax   string
	Requester string
	Status    FriendshipStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderPair returns the two user ids in canonical (min, max) order.
func OrderPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// Involves reports whether the user is one side of the friendship.
func (f Friendship) Involves(userID string) bool {
	return f.UserMin == userID || f.UserMax == userID
}

// Other returns the counterpart of the supplied user in the pair.
func (f Friendship) Other(userID string) string {
	if f.UserMin == userID {
		return f.UserMax
	}
	return f.UserMin
}

// RelationFor derives the viewer-relative status from the stored row.
func (f Friendship) RelationFor(viewer string) RelationStatus {
	if !f.Involves(viewer) {
		return RelationNone
	}
	if f.Status == FriendshipStatusAccepted {
		return RelationFriends
	}
	if f.Requester == viewer {
		return RelationSent
	}
	return RelationReceived
}
