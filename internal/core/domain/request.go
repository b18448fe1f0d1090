package domain

import "time"

// RequestStatus enumerates the lifecycle states of a teaching session request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// Terminal reports whether no further transition is defined from the status.
func (s RequestStatus) Terminal() bool {
	switch s {
	case RequestStatusRejected, RequestStatusCompleted, RequestStatusCancelled:
		return true
	}
	return false
}

// requestTransitions defines the full transition table for session requests.
// pending -> accepted | rejected | cancelled; accepted -> completed | cancelled.
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending:  {RequestStatusAccepted, RequestStatusRejected, RequestStatusCancelled},
	RequestStatusAccepted: {RequestStatusCompleted, RequestStatusCancelled},
}

// CanTransition reports whether moving from the current status to next is legal.
func (s RequestStatus) CanTransition(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SessionRequest is a request from one user asking another to teach a skill.
// At most one pending request may exist per (from, to, skill) triple.
type SessionRequest struct {
	ID            string
	FromUser      string
	ToUser        string
	Skill         string
	Message       *string
	PreferredDate *time.Time
	Status        RequestStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Participant reports whether the given user is either side of the request.
func (r SessionRequest) Participant(userID string) bool {
	return r.FromUser == userID || r.ToUser == userID
}
