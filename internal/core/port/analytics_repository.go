package port

import (
	"context"
	"time"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
)

// AnalyticsRepository persists daily snapshots keyed by date.
type AnalyticsRepository interface {
	// Upsert writes the snapshot for its date, overwriting any existing row
	// so regeneration is idempotent.
	Upsert(ctx context.Context, snapshot domain.AnalyticsSnapshot) error
	GetByDate(ctx context.Context, date time.Time) (*domain.AnalyticsSnapshot, error)
	// Range returns snapshots between from and to inclusive, newest first.
	Range(ctx context.Context, from, to time.Time) ([]domain.AnalyticsSnapshot, error)
}

// StatsSource answers the per-day counter queries a snapshot is built from.
// day is midnight UTC; each counter covers [day, day+24h).
type StatsSource interface {
	CountActiveUsers(ctx context.Context, day time.Time) (int, error)
	CountNewUsers(ctx context.Context, day time.Time) (int, error)
	CountRequestsCreated(ctx context.Context, day time.Time) (int, error)
	CountRequestsTransitioned(ctx context.Context, day time.Time, status domain.RequestStatus) (int, error)
	CountReportsFiled(ctx context.Context, day time.Time) (int, error)
	CountReportsClosed(ctx context.Context, day time.Time) (int, error)
	CountBansIssued(ctx context.Context, day time.Time) (int, error)
	TopSkills(ctx context.Context, day time.Time, limit int) ([]domain.SkillCount, error)
}
