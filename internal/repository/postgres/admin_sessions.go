package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/repository"
)

var adminSessionColumns = []string{
	"id",
	"user_id",
	"ip_address",
	"user_agent",
	"device",
	"started_at",
	"last_activity",
	"is_active",
	"terminated_by",
	"termination_reason",
	"ended_at",
}

// AdminSessionRepository implements port.AdminSessionRepository using PostgreSQL.
type AdminSessionRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAdminSessionRepository wires a PostgreSQL-backed admin session repository.
func NewAdminSessionRepository(pool *pgxpool.Pool) *AdminSessionRepository {
	return &AdminSessionRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *AdminSessionRepository) WithTx(tx pgx.Tx) *AdminSessionRepository {
	if tx == nil {
		return r
	}
	return &AdminSessionRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new admin session row.
func (r *AdminSessionRepository) Create(ctx context.Context, session domain.AdminSession) error {
	stmt, args, err := r.builder.Insert("admin_sessions").
		Columns(adminSessionColumns...).
		Values(
			session.ID,
			session.UserID,
			session.IPAddress,
			session.UserAgent,
			session.Device,
			session.StartedAt,
			session.LastActivity,
			session.IsActive,
			session.TerminatedBy,
			session.TerminationReason,
			session.EndedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert admin session sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert admin session: %w", err)
	}

	return nil
}

// GetByID retrieves an admin session by identifier.
func (r *AdminSessionRepository) GetByID(ctx context.Context, id string) (*domain.AdminSession, error) {
	stmt, args, err := r.builder.
		Select(adminSessionColumns...).
		From("admin_sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select admin session sql: %w", err)
	}

	return scanAdminSession(r.exec.QueryRow(ctx, stmt, args...))
}

// List returns sessions matching the filter, most recently active first.
func (r *AdminSessionRepository) List(ctx context.Context, filter port.AdminSessionFilter) ([]domain.AdminSession, error) {
	query := r.builder.
		Select(adminSessionColumns...).
		From("admin_sessions").
		OrderBy("last_activity DESC")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list admin sessions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list admin sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.AdminSession
	for rows.Next() {
		session, err := scanAdminSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin sessions: %w", err)
	}

	return sessions, nil
}

// Touch advances last_activity. Only moves the timestamp forward so a slow
// heartbeat cannot rewind activity recorded by a faster one.
func (r *AdminSessionRepository) Touch(ctx context.Context, id string, at time.Time) error {
	stmt, args, err := r.builder.
		Update("admin_sessions").
		Set("last_activity", at).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Lt{"last_activity": at}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build touch admin session sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("touch admin session: %w", err)
	}

	return nil
}

// Terminate closes the session conditionally on it still being active, so a
// session terminates exactly once.
func (r *AdminSessionRepository) Terminate(ctx context.Context, id string, adminID, reason string, at time.Time) error {
	stmt, args, err := r.builder.
		Update("admin_sessions").
		Set("is_active", false).
		Set("terminated_by", adminID).
		Set("termination_reason", reason).
		Set("ended_at", at).
		Where(squirrel.Eq{"id": id, "is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build terminate admin session sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("terminate admin session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return repository.ErrConflict
	}

	return nil
}

// ExpireIdle closes active sessions whose last activity predates the cutoff.
func (r *AdminSessionRepository) ExpireIdle(ctx context.Context, cutoff time.Time) (int, error) {
	stmt, args, err := r.builder.
		Update("admin_sessions").
		Set("is_active", false).
		Set("termination_reason", "idle timeout").
		Set("ended_at", time.Now().UTC()).
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Lt{"last_activity": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build expire idle sessions sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("expire idle sessions: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

func scanAdminSession(row pgx.Row) (*domain.AdminSession, error) {
	var session domain.AdminSession

	if err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.IPAddress,
		&session.UserAgent,
		&session.Device,
		&session.StartedAt,
		&session.LastActivity,
		&session.IsActive,
		&session.TerminatedBy,
		&session.TerminationReason,
		&session.EndedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan admin session: %w", err)
	}

	return &session, nil
}

var _ port.AdminSessionRepository = (*AdminSessionRepository)(nil)
