package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/repository"
)

var requestColumns = []string{
	"id",
	"from_user",
	"to_user",
	"skill",
	"message",
	"preferred_date",
	"status",
	"created_at",
	"updated_at",
}

// SessionRequestRepository implements port.SessionRequestRepository using PostgreSQL.
type SessionRequestRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewSessionRequestRepository wires a PostgreSQL-backed session request repository.
func NewSessionRequestRepository(pool *pgxpool.Pool) *SessionRequestRepository {
	return &SessionRequestRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *SessionRequestRepository) WithTx(tx pgx.Tx) *SessionRequestRepository {
	if tx == nil {
		return r
	}
	return &SessionRequestRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a pending request. The partial unique index on
// (from_user, to_user, skill) WHERE status = 'pending' rejects concurrent
// duplicates; the violation surfaces as ErrConflict.
func (r *SessionRequestRepository) Create(ctx context.Context, request domain.SessionRequest) error {
	stmt, args, err := r.builder.Insert("session_requests").
		Columns(requestColumns...).
		Values(
			request.ID,
			request.FromUser,
			request.ToUser,
			request.Skill,
			request.Message,
			request.PreferredDate,
			string(request.Status),
			request.CreatedAt,
			request.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert request sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert request: %w", err)
	}

	return nil
}

// GetByID retrieves a session request by identifier.
func (r *SessionRequestRepository) GetByID(ctx context.Context, id string) (*domain.SessionRequest, error) {
	stmt, args, err := r.builder.
		Select(requestColumns...).
		From("session_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select request sql: %w", err)
	}

	return scanRequest(r.exec.QueryRow(ctx, stmt, args...))
}

// List returns requests visible to the filter, newest first.
func (r *SessionRequestRepository) List(ctx context.Context, filter port.RequestFilter) ([]domain.SessionRequest, error) {
	query := r.builder.
		Select(requestColumns...).
		From("session_requests").
		OrderBy("created_at DESC")

	switch {
	case filter.UserID != "" && filter.Incoming && !filter.Outgoing:
		query = query.Where(squirrel.Eq{"to_user": filter.UserID})
	case filter.UserID != "" && filter.Outgoing && !filter.Incoming:
		query = query.Where(squirrel.Eq{"from_user": filter.UserID})
	case filter.UserID != "":
		query = query.Where(squirrel.Or{
			squirrel.Eq{"from_user": filter.UserID},
			squirrel.Eq{"to_user": filter.UserID},
		})
	}

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list requests sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.SessionRequest
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}

	return requests, nil
}

// UpdateStatus performs the transition conditionally on the expected prior
// status. Exactly one of two concurrent transitions can win; the loser's
// guard misses and returns ErrConflict.
func (r *SessionRequestRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RequestStatus) error {
	stmt, args, err := r.builder.
		Update("session_requests").
		Set("status", string(to)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update request status sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return repository.ErrConflict
	}

	return nil
}

func scanRequest(row pgx.Row) (*domain.SessionRequest, error) {
	var (
		request domain.SessionRequest
		status  string
		message sql.NullString
	)

	if err := row.Scan(
		&request.ID,
		&request.FromUser,
		&request.ToUser,
		&request.Skill,
		&message,
		&request.PreferredDate,
		&status,
		&request.CreatedAt,
		&request.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan request: %w", err)
	}

	request.Status = domain.RequestStatus(status)
	if message.Valid {
		request.Message = &message.String
	}

	return &request, nil
}

var _ port.SessionRequestRepository = (*SessionRequestRepository)(nil)
