package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
)

// topSkillsLimit caps how many skills a snapshot records.
const topSkillsLimit = 10

// AnalyticsService builds and serves daily activity snapshots.
type AnalyticsService struct {
	snapshots port.AnalyticsRepository
	stats     port.StatsSource
	logger    *zap.Logger
	now       func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(snapshots port.AnalyticsRepository, stats port.StatsSource, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		snapshots: snapshots,
		stats:     stats,
		logger:    logger,
		now:       time.Now,
	}
}

// GenerateSnapshot aggregates the counters for the given day (midnight UTC)
// and upserts the dated row, so re-running a day overwrites rather than
// duplicating.
func (s *AnalyticsService) GenerateSnapshot(ctx context.Context, day time.Time) error {
	day = day.UTC().Truncate(24 * time.Hour)

	snapshot := domain.AnalyticsSnapshot{
		SnapshotDate: day,
		GeneratedAt:  s.now().UTC(),
	}

	counters := []struct {
		name string
		dst  *int
		fn   func(context.Context, time.Time) (int, error)
	}{
		{"active_users", &snapshot.ActiveUsers, s.stats.CountActiveUsers},
		{"new_users", &snapshot.NewUsers, s.stats.CountNewUsers},
		{"sessions_created", &snapshot.SessionsCreated, s.stats.CountRequestsCreated},
		{"reports_filed", &snapshot.ReportsFiled, s.stats.CountReportsFiled},
		{"reports_resolved", &snapshot.ReportsResolved, s.stats.CountReportsClosed},
		{"bans_issued", &snapshot.BansIssued, s.stats.CountBansIssued},
	}
	for _, c := range counters {
		value, err := c.fn(ctx, day)
		if err != nil {
			return fmt.Errorf("count %s: %w", c.name, err)
		}
		*c.dst = value
	}

	accepted, err := s.stats.CountRequestsTransitioned(ctx, day, domain.RequestStatusAccepted)
	if err != nil {
		return fmt.Errorf("count sessions_accepted: %w", err)
	}
	snapshot.SessionsAccepted = accepted

	completed, err := s.stats.CountRequestsTransitioned(ctx, day, domain.RequestStatusCompleted)
	if err != nil {
		return fmt.Errorf("count sessions_completed: %w", err)
	}
	snapshot.SessionsCompleted = completed

	topSkills, err := s.stats.TopSkills(ctx, day, topSkillsLimit)
	if err != nil {
		return fmt.Errorf("top skills: %w", err)
	}
	snapshot.TopSkills = topSkills

	if err := s.snapshots.Upsert(ctx, snapshot); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	s.logger.Info("analytics snapshot generated",
		zap.Time("snapshot_date", day),
		zap.Int("active_users", snapshot.ActiveUsers),
		zap.Int("sessions_created", snapshot.SessionsCreated),
	)

	return nil
}

// Snapshot returns the snapshot for one date.
func (s *AnalyticsService) Snapshot(ctx context.Context, date time.Time) (*domain.AnalyticsSnapshot, error) {
	return s.snapshots.GetByDate(ctx, date.UTC().Truncate(24*time.Hour))
}

// Range returns the snapshots between from and to inclusive, newest first,
// each annotated with percent changes against the previous calendar day.
func (s *AnalyticsService) Range(ctx context.Context, from, to time.Time) ([]domain.SnapshotTrend, error) {
	from = from.UTC().Truncate(24 * time.Hour)
	to = to.UTC().Truncate(24 * time.Hour)
	if to.Before(from) {
		return nil, fmt.Errorf("range end precedes start")
	}

	rows, err := s.snapshots.Range(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("range snapshots: %w", err)
	}

	// Rows arrive newest first. Index by date so each entry can find the
	// preceding day even across gaps in the series.
	byDate := make(map[time.Time]domain.AnalyticsSnapshot, len(rows))
	for _, row := range rows {
		byDate[row.SnapshotDate] = row
	}

	trends := make([]domain.SnapshotTrend, 0, len(rows))
	for _, row := range rows {
		trend := domain.SnapshotTrend{Snapshot: row}
		if prev, ok := byDate[row.SnapshotDate.AddDate(0, 0, -1)]; ok {
			trend.ActiveUsersChange = domain.PercentChange(prev.ActiveUsers, row.ActiveUsers)
			trend.NewUsersChange = domain.PercentChange(prev.NewUsers, row.NewUsers)
			trend.SessionsChange = domain.PercentChange(prev.SessionsCreated, row.SessionsCreated)
		}
		trends = append(trends, trend)
	}

	return trends, nil
}
