package domain

import "time"

// ReportReason enumerates accepted reasons when reporting a user.
type ReportReason string

const (
	ReportReasonSpam          ReportReason = "spam"
	ReportReasonHarassment    ReportReason = "harassment"
	ReportReasonInappropriate ReportReason = "inappropriate"
	ReportReasonImpersonation ReportReason = "impersonation"
	ReportReasonOther         ReportReason = "other"
)

// Valid reports whether the reason is one of the known variants.
func (r ReportReason) Valid() bool {
	switch r {
	case ReportReasonSpam, ReportReasonHarassment, ReportReasonInappropriate,
		ReportReasonImpersonation, ReportReasonOther:
		return true
	}
	return false
}

// ReportStatus enumerates moderation states of a report.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// Report is a user-filed complaint awaiting admin moderation. Only a pending
// report may transition, and it transitions exactly once.
type Report struct {
	ID             string
	ReportedBy     string
	ReportedUser   string
	Reason         ReportReason
	Description    *string
	EvidenceURL    *string
	Status         ReportStatus
	ResolvedBy     *string
	ResolutionNote *string
	CreatedAt      time.Time
	ResolvedAt     *time.Time
}
