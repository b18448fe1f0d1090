package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/repository"
)

var analyticsColumns = []string{
	"snapshot_date",
	"active_users",
	"new_users",
	"sessions_created",
	"sessions_accepted",
	"sessions_completed",
	"reports_filed",
	"reports_resolved",
	"bans_issued",
	"top_skills",
	"generated_at",
}

// AnalyticsRepository implements port.AnalyticsRepository using PostgreSQL.
// Snapshots are keyed by date; TopSkills rides along as a jsonb column.
type AnalyticsRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAnalyticsRepository wires a PostgreSQL-backed analytics repository.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert writes the snapshot for its date. ON CONFLICT overwrites in place
// so regeneration is idempotent.
func (r *AnalyticsRepository) Upsert(ctx context.Context, snapshot domain.AnalyticsSnapshot) error {
	topSkills, err := json.Marshal(snapshot.TopSkills)
	if err != nil {
		return fmt.Errorf("marshal top skills: %w", err)
	}

	stmt, args, err := r.builder.Insert("analytics_snapshots").
		Columns(analyticsColumns...).
		Values(
			snapshot.SnapshotDate,
			snapshot.ActiveUsers,
			snapshot.NewUsers,
			snapshot.SessionsCreated,
			snapshot.SessionsAccepted,
			snapshot.SessionsCompleted,
			snapshot.ReportsFiled,
			snapshot.ReportsResolved,
			snapshot.BansIssued,
			topSkills,
			snapshot.GeneratedAt,
		).
		Suffix(`ON CONFLICT (snapshot_date) DO UPDATE SET
			active_users = EXCLUDED.active_users,
			new_users = EXCLUDED.new_users,
			sessions_created = EXCLUDED.sessions_created,
			sessions_accepted = EXCLUDED.sessions_accepted,
			sessions_completed = EXCLUDED.sessions_completed,
			reports_filed = EXCLUDED.reports_filed,
			reports_resolved = EXCLUDED.reports_resolved,
			bans_issued = EXCLUDED.bans_issued,
			top_skills = EXCLUDED.top_skills,
			generated_at = EXCLUDED.generated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert snapshot sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	return nil
}

// GetByDate retrieves the snapshot for the given date.
func (r *AnalyticsRepository) GetByDate(ctx context.Context, date time.Time) (*domain.AnalyticsSnapshot, error) {
	stmt, args, err := r.builder.
		Select(analyticsColumns...).
		From("analytics_snapshots").
		Where(squirrel.Eq{"snapshot_date": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select snapshot sql: %w", err)
	}

	return scanSnapshot(r.exec.QueryRow(ctx, stmt, args...))
}

// Range returns snapshots between from and to inclusive, newest first.
func (r *AnalyticsRepository) Range(ctx context.Context, from, to time.Time) ([]domain.AnalyticsSnapshot, error) {
	stmt, args, err := r.builder.
		Select(analyticsColumns...).
		From("analytics_snapshots").
		Where(squirrel.GtOrEq{"snapshot_date": from}).
		Where(squirrel.LtOrEq{"snapshot_date": to}).
		OrderBy("snapshot_date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build range snapshots sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("range snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.AnalyticsSnapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	return snapshots, nil
}

func scanSnapshot(row pgx.Row) (*domain.AnalyticsSnapshot, error) {
	var (
		snapshot  domain.AnalyticsSnapshot
		topSkills []byte
	)

	if err := row.Scan(
		&snapshot.SnapshotDate,
		&snapshot.ActiveUsers,
		&snapshot.NewUsers,
		&snapshot.SessionsCreated,
		&snapshot.SessionsAccepted,
		&snapshot.SessionsCompleted,
		&snapshot.ReportsFiled,
		&snapshot.ReportsResolved,
		&snapshot.BansIssued,
		&topSkills,
		&snapshot.GeneratedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}

	if len(topSkills) > 0 {
		if err := json.Unmarshal(topSkills, &snapshot.TopSkills); err != nil {
			return nil, fmt.Errorf("unmarshal top skills: %w", err)
		}
	}

	return &snapshot, nil
}

var _ port.AnalyticsRepository = (*AnalyticsRepository)(nil)
