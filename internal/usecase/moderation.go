package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/repository"
)

var (
	// ErrSelfReport rejects reporting oneself.
	ErrSelfReport = errors.New("cannot report yourself")
	// ErrInvalidReason indicates an unknown report reason.
	ErrInvalidReason = errors.New("invalid report reason")
	// ErrAlreadyHandled indicates the report left pending before this action.
	ErrAlreadyHandled = errors.New("report already handled")
	// ErrAlreadyAdmin indicates the target already holds the admin role.
	ErrAlreadyAdmin = errors.New("user is already an admin")
	// ErrNotAdmin indicates the target does not hold the admin role.
	ErrNotAdmin = errors.New("user is not an admin")
	// ErrAlreadyBanned indicates the target is already banned.
	ErrAlreadyBanned = errors.New("user is already banned")
	// ErrNotBanned indicates the target is not banned.
	ErrNotBanned = errors.New("user is not banned")
	// ErrSelfDemotion rejects an admin demoting their own account.
	ErrSelfDemotion = errors.New("cannot demote yourself")
)

// FileReportInput captures the payload for filing a report.
type FileReportInput struct {
	ReportedBy   string
	ReportedUser string
	Reason       domain.ReportReason
	Description  *string
	EvidenceURL  *string
}

// BulkOutcome summarizes a bulk moderation action. Succeeded ids were
// applied; failures carry the per-id reason. Successes are never rolled back.
type BulkOutcome struct {
	Succeeded []string
	Failed    []BulkFailure
}

// BulkFailure names one id that could not be processed.
type BulkFailure struct {
	ID     string
	Reason string
}

// ModerationService covers reports and admin actions on users.
type ModerationService struct {
	reports       port.ReportRepository
	users         port.UserRepository
	notifications port.NotificationRepository
	publisher     port.EventPublisher
	logger        *zap.Logger
	now           func() time.Time
}

// NewModerationService constructs a ModerationService.
func NewModerationService(
	reports port.ReportRepository,
	users port.UserRepository,
	notifications port.NotificationRepository,
	publisher port.EventPublisher,
	logger *zap.Logger,
) *ModerationService {
	return &ModerationService{
		reports:       reports,
		users:         users,
		notifications: notifications,
		publisher:     publisher,
		logger:        logger,
		now:           time.Now,
	}
}

// FileReport records a complaint against a user.
func (s *ModerationService) FileReport(ctx context.Context, input FileReportInput) (*domain.Report, error) {
	if !input.Reason.Valid() {
		return nil, ErrInvalidReason
	}
	if input.ReportedBy == input.ReportedUser {
		return nil, ErrSelfReport
	}

	if _, err := s.users.GetByID(ctx, input.ReportedUser); err != nil {
		return nil, fmt.Errorf("lookup reported user: %w", err)
	}

	now := s.now().UTC()
	report := domain.Report{
		ID:           uuid.NewString(),
		ReportedBy:   input.ReportedBy,
		ReportedUser: input.ReportedUser,
		Reason:       input.Reason,
		Description:  input.Description,
		EvidenceURL:  input.EvidenceURL,
		Status:       domain.ReportStatusPending,
		CreatedAt:    now,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	s.publish(ctx, "report filed", func(ctx context.Context) error {
		return s.publisher.PublishReportFiled(ctx, domain.ReportFiledEvent{
			EventID:      uuid.NewString(),
			ReportID:     report.ID,
			ReportedBy:   report.ReportedBy,
			ReportedUser: report.ReportedUser,
			Reason:       report.Reason,
			FiledAt:      now,
		})
	})

	return &report, nil
}

// ListReports returns the moderation queue per the filter.
func (s *ModerationService) ListReports(ctx context.Context, filter port.ReportFilter) ([]domain.Report, int, error) {
	reports, err := s.reports.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}

	total, err := s.reports.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	return reports, total, nil
}

// ResolveReport closes a pending report as resolved.
func (s *ModerationService) ResolveReport(ctx context.Context, reportID, adminID string, note *string) error {
	return s.closeReport(ctx, reportID, adminID, domain.ReportStatusResolved, note)
}

// DismissReport closes a pending report as dismissed.
func (s *ModerationService) DismissReport(ctx context.Context, reportID, adminID string, note *string) error {
	return s.closeReport(ctx, reportID, adminID, domain.ReportStatusDismissed, note)
}

// closeReport performs the single allowed transition of a report. The store
// guard is conditional on status=pending, so a report is handled exactly once
// even when two admins race.
func (s *ModerationService) closeReport(ctx context.Context, reportID, adminID string, outcome domain.ReportStatus, note *string) error {
	now := s.now().UTC()

	if err := s.reports.Close(ctx, reportID, outcome, adminID, note, now); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrAlreadyHandled
		}
		return err
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err == nil {
		s.notify(ctx, domain.Notification{
			ID:          uuid.NewString(),
			UserID:      report.ReportedBy,
			Type:        domain.NotificationReportUpdate,
			Title:       "Report update",
			Message:     fmt.Sprintf("Your report was %s", outcome),
			RelatedID:   &report.ID,
			RelatedKind: strPtr("report"),
			CreatedAt:   now,
		})
	}

	s.publish(ctx, "report handled", func(ctx context.Context) error {
		return s.publisher.PublishReportHandled(ctx, domain.ReportHandledEvent{
			EventID:   uuid.NewString(),
			ReportID:  reportID,
			Outcome:   outcome,
			AdminID:   adminID,
			HandledAt: now,
		})
	})

	return nil
}

// BulkCloseReports applies the outcome per id and reports partial success.
func (s *ModerationService) BulkCloseReports(ctx context.Context, reportIDs []string, adminID string, outcome domain.ReportStatus, note *string) BulkOutcome {
	var result BulkOutcome

	for _, id := range reportIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			result.Failed = append(result.Failed, BulkFailure{ID: id, Reason: "empty id"})
			continue
		}

		if err := s.closeReport(ctx, id, adminID, outcome, note); err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: id, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	return result
}

// ListUsers returns the admin user listing.
func (s *ModerationService) ListUsers(ctx context.Context, filter port.UserFilter) ([]domain.User, int, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

// Promote elevates a user to admin. Conditional on the stored role still
// being user, so racing promotions conflict instead of double-applying.
func (s *ModerationService) Promote(ctx context.Context, targetID, adminID string) error {
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.Role == domain.RoleAdmin {
		return ErrAlreadyAdmin
	}

	if err := s.users.UpdateRole(ctx, targetID, domain.RoleUser, domain.RoleAdmin); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrAlreadyAdmin
		}
		return err
	}

	s.afterRoleChange(ctx, targetID, adminID, domain.RoleUser, domain.RoleAdmin)
	return nil
}

// Demote strips the admin role. Self-demotion is always Forbidden; demoting
// a non-admin conflicts.
func (s *ModerationService) Demote(ctx context.Context, targetID, adminID string) error {
	if targetID == adminID {
		return ErrSelfDemotion
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.Role != domain.RoleAdmin {
		return ErrNotAdmin
	}

	if err := s.users.UpdateRole(ctx, targetID, domain.RoleAdmin, domain.RoleUser); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrNotAdmin
		}
		return err
	}

	s.afterRoleChange(ctx, targetID, adminID, domain.RoleAdmin, domain.RoleUser)
	return nil
}

func (s *ModerationService) afterRoleChange(ctx context.Context, targetID, adminID string, oldRole, newRole domain.Role) {
	now := s.now().UTC()

	s.notify(ctx, domain.Notification{
		ID:        uuid.NewString(),
		UserID:    targetID,
		Type:      domain.NotificationRoleChanged,
		Title:     "Role changed",
		Message:   fmt.Sprintf("Your role is now %s", newRole),
		CreatedAt: now,
	})

	s.publish(ctx, "user role changed", func(ctx context.Context) error {
		return s.publisher.PublishUserRoleChanged(ctx, domain.UserRoleChangedEvent{
			EventID: uuid.NewString(),
			UserID:  targetID,
			OldRole: oldRole,
			NewRole: newRole,
			AdminID: adminID,
			At:      now,
		})
	})
}

// Ban marks the account banned with the acting admin and reason.
func (s *ModerationService) Ban(ctx context.Context, targetID, adminID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("%w: ban reason is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	ban := domain.BanState{
		Banned:   true,
		Reason:   &reason,
		BannedAt: &now,
		BannedBy: &adminID,
	}

	if err := s.users.SetBanState(ctx, targetID, false, ban); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrAlreadyBanned
		}
		return err
	}

	s.afterBanChange(ctx, targetID, adminID, true, reason)
	return nil
}

// Unban clears the ban state.
func (s *ModerationService) Unban(ctx context.Context, targetID, adminID string) error {
	if err := s.users.SetBanState(ctx, targetID, true, domain.BanState{}); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrNotBanned
		}
		return err
	}

	s.afterBanChange(ctx, targetID, adminID, false, "")
	return nil
}

func (s *ModerationService) afterBanChange(ctx context.Context, targetID, adminID string, banned bool, reason string) {
	now := s.now().UTC()

	kind := domain.NotificationAccountUnbanned
	title := "Account reinstated"
	message := "Your account has been reinstated"
	if banned {
		kind = domain.NotificationAccountBanned
		title = "Account banned"
		message = fmt.Sprintf("Your account has been banned: %s", reason)
	}

	s.notify(ctx, domain.Notification{
		ID:        uuid.NewString(),
		UserID:    targetID,
		Type:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: now,
	})

	s.publish(ctx, "user ban state changed", func(ctx context.Context) error {
		return s.publisher.PublishUserBanStateChanged(ctx, domain.UserBanStateChangedEvent{
			EventID: uuid.NewString(),
			UserID:  targetID,
			Banned:  banned,
			Reason:  reason,
			AdminID: adminID,
			At:      now,
		})
	})
}

func (s *ModerationService) notify(ctx context.Context, notification domain.Notification) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		s.logger.Warn("create notification failed",
			zap.String("user_id", notification.UserID),
			zap.String("type", string(notification.Type)),
			zap.Error(err),
		)
	}
}

func (s *ModerationService) publish(ctx context.Context, name string, fn func(context.Context) error) {
	if s.publisher == nil {
		return
	}
	if err := fn(ctx); err != nil {
		s.logger.Warn("publish event failed", zap.String("event", name), zap.Error(err))
	}
}
