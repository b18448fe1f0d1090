package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/usecase"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserView is the caller-facing projection of their own account.
type UserView struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	Bio            *string     `json:"bio,omitempty"`
	Location       *string     `json:"location,omitempty"`
	SkillsTaught   []string    `json:"skills_taught"`
	SkillsMastered []string    `json:"skills_mastered"`
	CreatedAt      time.Time   `json:"created_at"`
	LastLogin      *time.Time  `json:"last_login,omitempty"`
}

// NewUserView projects a domain user for API responses.
func NewUserView(user domain.User) UserView {
	return UserView{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		Bio:            user.Bio,
		Location:       user.Location,
		SkillsTaught:   user.SkillsTaught,
		SkillsMastered: user.SkillsMastered,
		CreatedAt:      user.CreatedAt,
		LastLogin:      user.LastLogin,
	}
}

// PublicProfileView is the member-facing projection of another user.
type PublicProfileView struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Bio            *string               `json:"bio,omitempty"`
	Location       *string               `json:"location,omitempty"`
	SkillsTaught   []string              `json:"skills_taught"`
	SkillsMastered []string              `json:"skills_mastered"`
	Relation       domain.RelationStatus `json:"relation"`
	MemberSince    time.Time             `json:"member_since"`
}

// NewPublicProfileView projects a public profile for API responses.
func NewPublicProfileView(profile usecase.PublicProfile) PublicProfileView {
	return PublicProfileView{
		ID:             profile.ID,
		Name:           profile.Name,
		Bio:            profile.Bio,
		Location:       profile.Location,
		SkillsTaught:   profile.SkillsTaught,
		SkillsMastered: profile.SkillsMastered,
		Relation:       profile.Relation,
		MemberSince:    profile.MemberSince,
	}
}

// RegisterRequest defines the account registration payload.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest defines the credential payload for both login endpoints.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Device   string `json:"device"`
}

// AuthResponse describes a successful authentication.
type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	SessionID   string    `json:"session_id,omitempty"`
	User        UserView  `json:"user"`
}

// PasswordResetRequest asks for a reset token by email.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirmRequest redeems a reset token.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// PasswordResetIssuedResponse acknowledges a reset request. The token is
// only echoed in development mode; production delivery happens out of band.
type PasswordResetIssuedResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"reset_token,omitempty"`
}

// AdminSessionStatusResponse confirms an admin bearer token is still valid.
type AdminSessionStatusResponse struct {
	Active    bool   `json:"active"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id,omitempty"`
}

// UpdateProfileRequest carries partial profile changes. Absent fields are
// left untouched.
type UpdateProfileRequest struct {
	Name           *string  `json:"name"`
	Bio            *string  `json:"bio"`
	Location       *string  `json:"location"`
	SkillsTaught   []string `json:"skills_taught"`
	SkillsMastered []string `json:"skills_mastered"`
}

// ListResponse wraps a page of results with the total row count.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// FriendRequestPayload targets another member for a friendship action.
type FriendRequestPayload struct {
	UserID string `json:"user_id" binding:"required"`
}

// FriendView is one entry of a friends or pending listing.
type FriendView struct {
	UserID   string                `json:"user_id"`
	Relation domain.RelationStatus `json:"relation"`
	Since    time.Time             `json:"since"`
}

// NewFriendView projects a usecase friend entry.
func NewFriendView(friend usecase.Friend) FriendView {
	return FriendView{UserID: friend.UserID, Relation: friend.Relation, Since: friend.Since}
}

// CreateSessionRequestPayload asks another member to teach a skill.
type CreateSessionRequestPayload struct {
	ToUser        string     `json:"to_user" binding:"required"`
	Skill         string     `json:"skill" binding:"required"`
	Message       *string    `json:"message"`
	PreferredDate *time.Time `json:"preferred_date"`
}

// SessionRequestView is the API projection of a teaching session request.
type SessionRequestView struct {
	ID            string               `json:"id"`
	FromUser      string               `json:"from_user"`
	ToUser        string               `json:"to_user"`
	Skill         string               `json:"skill"`
	Message       *string              `json:"message,omitempty"`
	PreferredDate *time.Time           `json:"preferred_date,omitempty"`
	Status        domain.RequestStatus `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// NewSessionRequestView projects a domain session request.
func NewSessionRequestView(request domain.SessionRequest) SessionRequestView {
	return SessionRequestView{
		ID:            request.ID,
		FromUser:      request.FromUser,
		ToUser:        request.ToUser,
		Skill:         request.Skill,
		Message:       request.Message,
		PreferredDate: request.PreferredDate,
		Status:        request.Status,
		CreatedAt:     request.CreatedAt,
		UpdatedAt:     request.UpdatedAt,
	}
}

// NotificationView is one inbox entry.
type NotificationView struct {
	ID          string                  `json:"id"`
	Type        domain.NotificationType `json:"type"`
	Title       string                  `json:"title"`
	Message     string                  `json:"message"`
	Read        bool                    `json:"read"`
	RelatedID   *string                 `json:"related_id,omitempty"`
	RelatedKind *string                 `json:"related_kind,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
}

// NewNotificationView projects a domain notification.
func NewNotificationView(notification domain.Notification) NotificationView {
	return NotificationView{
		ID:          notification.ID,
		Type:        notification.Type,
		Title:       notification.Title,
		Message:     notification.Message,
		Read:        notification.Read,
		RelatedID:   notification.RelatedID,
		RelatedKind: notification.RelatedKind,
		CreatedAt:   notification.CreatedAt,
	}
}

// NotificationListResponse pages the inbox along with the unread count.
type NotificationListResponse struct {
	Items  []NotificationView `json:"items"`
	Unread int                `json:"unread"`
}

// MarkAllReadResponse reports how many notifications were flipped.
type MarkAllReadResponse struct {
	Updated int `json:"updated"`
}

// FileReportPayload files a complaint against another member.
type FileReportPayload struct {
	ReportedUser string  `json:"reported_user" binding:"required"`
	Reason       string  `json:"reason" binding:"required"`
	Description  *string `json:"description"`
	EvidenceURL  *string `json:"evidence_url"`
}

// ReportView is the API projection of a report.
type ReportView struct {
	ID             string              `json:"id"`
	ReportedBy     string              `json:"reported_by"`
	ReportedUser   string              `json:"reported_user"`
	Reason         domain.ReportReason `json:"reason"`
	Description    *string             `json:"description,omitempty"`
	EvidenceURL    *string             `json:"evidence_url,omitempty"`
	Status         domain.ReportStatus `json:"status"`
	ResolvedBy     *string             `json:"resolved_by,omitempty"`
	ResolutionNote *string             `json:"resolution_note,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	ResolvedAt     *time.Time          `json:"resolved_at,omitempty"`
}

// NewReportView projects a domain report.
func NewReportView(report domain.Report) ReportView {
	return ReportView{
		ID:             report.ID,
		ReportedBy:     report.ReportedBy,
		ReportedUser:   report.ReportedUser,
		Reason:         report.Reason,
		Description:    report.Description,
		EvidenceURL:    report.EvidenceURL,
		Status:         report.Status,
		ResolvedBy:     report.ResolvedBy,
		ResolutionNote: report.ResolutionNote,
		CreatedAt:      report.CreatedAt,
		ResolvedAt:     report.ResolvedAt,
	}
}

// ResolutionPayload carries an optional note when closing reports.
type ResolutionPayload struct {
	Note *string `json:"note"`
}

// BulkReportPayload names the reports a bulk action covers.
type BulkReportPayload struct {
	ReportIDs []string `json:"report_ids" binding:"required"`
	Note      *string  `json:"note"`
}

// BulkOutcomeView summarizes a partial-success bulk action.
type BulkOutcomeView struct {
	Succeeded []string          `json:"succeeded"`
	Failed    []BulkFailureView `json:"failed"`
}

// BulkFailureView names one id that could not be processed.
type BulkFailureView struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// NewBulkOutcomeView projects a usecase bulk outcome.
func NewBulkOutcomeView(outcome usecase.BulkOutcome) BulkOutcomeView {
	view := BulkOutcomeView{
		Succeeded: outcome.Succeeded,
		Failed:    make([]BulkFailureView, 0, len(outcome.Failed)),
	}
	if view.Succeeded == nil {
		view.Succeeded = []string{}
	}
	for _, failure := range outcome.Failed {
		view.Failed = append(view.Failed, BulkFailureView{ID: failure.ID, Reason: failure.Reason})
	}
	return view
}

// BanPayload carries the reason for banning a user.
type BanPayload struct {
	Reason string `json:"reason" binding:"required"`
}

// TerminateSessionPayload carries the reason for closing an admin session.
type TerminateSessionPayload struct {
	Reason string `json:"reason"`
}

// AdminSessionView is the API projection of an admin device session.
type AdminSessionView struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	IPAddress         *string    `json:"ip_address,omitempty"`
	UserAgent         *string    `json:"user_agent,omitempty"`
	Device            *string    `json:"device,omitempty"`
	StartedAt         time.Time  `json:"started_at"`
	LastActivity      time.Time  `json:"last_activity"`
	IsActive          bool       `json:"is_active"`
	TerminatedBy      *string    `json:"terminated_by,omitempty"`
	TerminationReason *string    `json:"termination_reason,omitempty"`
	EndedAt           *time.Time `json:"ended_at,omitempty"`
}

// NewAdminSessionView projects a domain admin session.
func NewAdminSessionView(session domain.AdminSession) AdminSessionView {
	return AdminSessionView{
		ID:                session.ID,
		UserID:            session.UserID,
		IPAddress:         session.IPAddress,
		UserAgent:         session.UserAgent,
		Device:            session.Device,
		StartedAt:         session.StartedAt,
		LastActivity:      session.LastActivity,
		IsActive:          session.IsActive,
		TerminatedBy:      session.TerminatedBy,
		TerminationReason: session.TerminationReason,
		EndedAt:           session.EndedAt,
	}
}

// SnapshotView is the API projection of a daily analytics snapshot with its
// read-time trends.
type SnapshotView struct {
	Date              string              `json:"date"`
	ActiveUsers       int                 `json:"active_users"`
	NewUsers          int                 `json:"new_users"`
	SessionsCreated   int                 `json:"sessions_created"`
	SessionsAccepted  int                 `json:"sessions_accepted"`
	SessionsCompleted int                 `json:"sessions_completed"`
	ReportsFiled      int                 `json:"reports_filed"`
	ReportsResolved   int                 `json:"reports_resolved"`
	BansIssued        int                 `json:"bans_issued"`
	TopSkills         []domain.SkillCount `json:"top_skills"`
	GeneratedAt       time.Time           `json:"generated_at"`
	ActiveUsersChange *float64            `json:"active_users_change,omitempty"`
	NewUsersChange    *float64            `json:"new_users_change,omitempty"`
	SessionsChange    *float64            `json:"sessions_change,omitempty"`
}

// NewSnapshotView projects a snapshot trend entry.
func NewSnapshotView(trend domain.SnapshotTrend) SnapshotView {
	snapshot := trend.Snapshot
	return SnapshotView{
		Date:              snapshot.SnapshotDate.Format("2006-01-02"),
		ActiveUsers:       snapshot.ActiveUsers,
		NewUsers:          snapshot.NewUsers,
		SessionsCreated:   snapshot.SessionsCreated,
		SessionsAccepted:  snapshot.SessionsAccepted,
		SessionsCompleted: snapshot.SessionsCompleted,
		ReportsFiled:      snapshot.ReportsFiled,
		ReportsResolved:   snapshot.ReportsResolved,
		BansIssued:        snapshot.BansIssued,
		TopSkills:         snapshot.TopSkills,
		GeneratedAt:       snapshot.GeneratedAt,
		ActiveUsersChange: trend.ActiveUsersChange,
		NewUsersChange:    trend.NewUsersChange,
		SessionsChange:    trend.SessionsChange,
	}
}

// HealthResponse reports liveness information.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}
