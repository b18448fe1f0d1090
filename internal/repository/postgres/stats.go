package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
)

// StatsRepository implements port.StatsSource by counting rows in the
// operational tables. Each counter covers the [day, day+24h) window.
type StatsRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewStatsRepository wires a PostgreSQL-backed stats source.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func dayWindow(day time.Time) (time.Time, time.Time) {
	start := day.UTC().Truncate(24 * time.Hour)
	return start, start.Add(24 * time.Hour)
}

func (r *StatsRepository) countWindow(ctx context.Context, table, column string, day time.Time, extra squirrel.Sqlizer) (int, error) {
	start, end := dayWindow(day)

	query := r.builder.
		Select("COUNT(*)").
		From(table).
		Where(squirrel.GtOrEq{column: start}).
		Where(squirrel.Lt{column: end})

	if extra != nil {
		query = query.Where(extra)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count %s sql: %w", table, err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}

	return count, nil
}

// CountActiveUsers counts users whose last login fell on the day.
func (r *StatsRepository) CountActiveUsers(ctx context.Context, day time.Time) (int, error) {
	return r.countWindow(ctx, "users", "last_login", day, nil)
}

// CountNewUsers counts registrations on the day.
func (r *StatsRepository) CountNewUsers(ctx context.Context, day time.Time) (int, error) {
	return r.countWindow(ctx, "users", "created_at", day, nil)
}

// CountRequestsCreated counts session requests created on the day.
func (r *StatsRepository) CountRequestsCreated(ctx context.Context, day time.Time) (int, error) {
	return r.countWindow(ctx, "session_requests", "created_at", day, nil)
}

// CountRequestsTransitioned counts requests that moved into the given status on the day.
func (r *StatsRepository) CountRequestsTransitioned(ctx context.Context, day time.Time, status domain.RequestStatus) (int, error) {
	return r.countWindow(ctx, "session_requests", "updated_at", day, squirrel.Eq{"status": string(status)})
}

// CountReportsFiled counts reports filed on the day.
func (r *StatsRepository) CountReportsFiled(ctx context.Context, day time.Time) (int, error) {
	return r.countWindow(ctx, "reports", "created_at", day, nil)
}

// CountReportsClosed counts reports resolved or dismissed on the day.
func (r *StatsRepository) CountReportsClosed(ctx context.Context, day time.Time) (int, error) {
	return r.countWindow(ctx, "reports", "resolved_at", day, nil)
}

// CountBansIssued counts ban actions taken on the day.
func (r *StatsRepository) CountBansIssued(ctx context.Context, day time.Time) (int, error) {
	return r.countWindow(ctx, "users", "banned_at", day, squirrel.Eq{"banned": true})
}

// TopSkills returns the most requested skills for the day.
func (r *StatsRepository) TopSkills(ctx context.Context, day time.Time, limit int) ([]domain.SkillCount, error) {
	start, end := dayWindow(day)

	stmt, args, err := r.builder.
		Select("skill", "COUNT(*) AS cnt").
		From("session_requests").
		Where(squirrel.GtOrEq{"created_at": start}).
		Where(squirrel.Lt{"created_at": end}).
		GroupBy("skill").
		OrderBy("cnt DESC", "skill ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build top skills sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query top skills: %w", err)
	}
	defer rows.Close()

	var skills []domain.SkillCount
	for rows.Next() {
		var entry domain.SkillCount
		if err := rows.Scan(&entry.Skill, &entry.Count); err != nil {
			return nil, fmt.Errorf("scan top skill: %w", err)
		}
		skills = append(skills, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top skills: %w", err)
	}

	return skills, nil
}

var _ port.StatsSource = (*StatsRepository)(nil)
