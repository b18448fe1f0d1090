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

var friendshipColumns = []string{
	"id",
	"user_min",
	"user_max",
	"requester",
	"status",
	"created_at",
	"updated_at",
}

// FriendshipRepository implements port.FriendshipRepository using PostgreSQL.
// One row per unordered pair; the unique index on (user_min, user_max)
// rejects concurrent duplicate sends.
type FriendshipRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewFriendshipRepository wires a PostgreSQL-backed friendship repository.
func NewFriendshipRepository(pool *pgxpool.Pool) *FriendshipRepository {
	return &FriendshipRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *FriendshipRepository) WithTx(tx pgx.Tx) *FriendshipRepository {
	if tx == nil {
		return r
	}
	return &FriendshipRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a friendship row for the pair.
func (r *FriendshipRepository) Create(ctx context.Context, friendship domain.Friendship) error {
	stmt, args, err := r.builder.Insert("friendships").
		Columns(friendshipColumns...).
		Values(
			friendship.ID,
			friendship.UserMin,
			friendship.UserMax,
			friendship.Requester,
			string(friendship.Status),
			friendship.CreatedAt,
			friendship.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert friendship sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert friendship: %w", err)
	}

	return nil
}

// GetByPair retrieves the friendship row for the unordered pair.
func (r *FriendshipRepository) GetByPair(ctx context.Context, a, b string) (*domain.Friendship, error) {
	userMin, userMax := domain.OrderPair(a, b)

	stmt, args, err := r.builder.
		Select(friendshipColumns...).
		From("friendships").
		Where(squirrel.Eq{"user_min": userMin}).
		Where(squirrel.Eq{"user_max": userMax}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select friendship sql: %w", err)
	}

	return scanFriendship(r.exec.QueryRow(ctx, stmt, args...))
}

// Accept promotes the pair's row from pending to accepted. A guard miss
// means the row was already accepted or removed and returns ErrConflict.
func (r *FriendshipRepository) Accept(ctx context.Context, a, b string) error {
	userMin, userMax := domain.OrderPair(a, b)

	stmt, args, err := r.builder.
		Update("friendships").
		Set("status", string(domain.FriendshipStatusAccepted)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"user_min": userMin}).
		Where(squirrel.Eq{"user_max": userMax}).
		Where(squirrel.Eq{"status": string(domain.FriendshipStatusPending)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build accept friendship sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("accept friendship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByPair(ctx, a, b); getErr != nil {
			return getErr
		}
		return repository.ErrConflict
	}

	return nil
}

// Delete removes the pair's row only when it carries the expected status.
func (r *FriendshipRepository) Delete(ctx context.Context, a, b string, expected domain.FriendshipStatus) error {
	userMin, userMax := domain.OrderPair(a, b)

	stmt, args, err := r.builder.
		Delete("friendships").
		Where(squirrel.Eq{"user_min": userMin}).
		Where(squirrel.Eq{"user_max": userMax}).
		Where(squirrel.Eq{"status": string(expected)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete friendship sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete friendship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByPair(ctx, a, b); getErr != nil {
			return getErr
		}
		return repository.ErrConflict
	}

	return nil
}

// ListAccepted returns the user's accepted friendships, newest first.
func (r *FriendshipRepository) ListAccepted(ctx context.Context, userID string) ([]domain.Friendship, error) {
	return r.listByStatus(ctx, userID, domain.FriendshipStatusAccepted)
}

// ListPending returns pending friendships involving the user, newest first.
func (r *FriendshipRepository) ListPending(ctx context.Context, userID string) ([]domain.Friendship, error) {
	return r.listByStatus(ctx, userID, domain.FriendshipStatusPending)
}

func (r *FriendshipRepository) listByStatus(ctx context.Context, userID string, status domain.FriendshipStatus) ([]domain.Friendship, error) {
	stmt, args, err := r.builder.
		Select(friendshipColumns...).
		From("friendships").
		Where(squirrel.Eq{"status": string(status)}).
		Where(squirrel.Or{
			squirrel.Eq{"user_min": userID},
			squirrel.Eq{"user_max": userID},
		}).
		OrderBy("updated_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list friendships sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}
	defer rows.Close()

	var friendships []domain.Friendship
	for rows.Next() {
		friendship, err := scanFriendship(rows)
		if err != nil {
			return nil, err
		}
		friendships = append(friendships, *friendship)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friendships: %w", err)
	}

	return friendships, nil
}

func scanFriendship(row pgx.Row) (*domain.Friendship, error) {
	var (
		friendship domain.Friendship
		status     string
	)

	if err := row.Scan(
		&friendship.ID,
		&friendship.UserMin,
		&friendship.UserMax,
		&friendship.Requester,
		&status,
		&friendship.CreatedAt,
		&friendship.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan friendship: %w", err)
	}

	friendship.Status = domain.FriendshipStatus(status)
	return &friendship, nil
}

var _ port.FriendshipRepository = (*FriendshipRepository)(nil)
