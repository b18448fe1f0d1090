package port

import (
	"context"
	"time"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
)

// ReportFilter narrows report listings for the moderation queue.
type ReportFilter struct {
	Status       domain.ReportStatus
	ReportedUser string
	Limit        int
	Offset       int
}

// ReportRepository exposes persistence behavior for user reports.
type ReportRepository interface {
	Create(ctx context.Context, report domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	List(ctx context.Context, filter ReportFilter) ([]domain.Report, error)
	Count(ctx context.Context, filter ReportFilter) (int, error)
	// Close moves a pending report to resolved or dismissed, stamping the
	// acting admin. The update is conditional on status=pending; a guard
	// miss returns repository.ErrConflict.
	Close(ctx context.Context, id string, outcome domain.ReportStatus, adminID string, note *string, at time.Time) error
}
