package domain

import "time"

// AdminSession tracks an admin's device session. Rows are created on admin
// login, touched by heartbeats on each authenticated admin request, and
// closed either by explicit termination or by the expiry sweep.
type AdminSession struct {
	ID                string
	UserID            string
	IPAddress         *string
	UserAgent         *string
	Device            *string
	StartedAt         time.Time
	LastActivity      time.Time
	IsActive          bool
	TerminatedBy      *string
	TerminationReason *string
	EndedAt           *time.Time
}

// Terminate closes the session, recording the acting admin and reason.
// Returns false when the session is already inactive.
func (s *AdminSession) Terminate(at time.Time, adminID, reason string) bool {
	if !s.IsActive {
		return false
	}
	s.IsActive = false
	s.TerminatedBy = &adminID
	s.TerminationReason = &reason
	s.EndedAt = &at
	return true
}

// Touch records activity on the session.
func (s *AdminSession) Touch(at time.Time) {
	if at.After(s.LastActivity) {
		s.LastActivity = at
	}
}
