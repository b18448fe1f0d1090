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

var notificationColumns = []string{
	"id",
	"user_id",
	"type",
	"title",
	"message",
	"link",
	"read",
	"related_id",
	"related_kind",
	"created_at",
}

// NotificationRepository implements port.NotificationRepository using PostgreSQL.
type NotificationRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewNotificationRepository wires a PostgreSQL-backed notification repository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *NotificationRepository) WithTx(tx pgx.Tx) *NotificationRepository {
	if tx == nil {
		return r
	}
	return &NotificationRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a notification row.
func (r *NotificationRepository) Create(ctx context.Context, notification domain.Notification) error {
	stmt, args, err := r.builder.Insert("notifications").
		Columns(notificationColumns...).
		Values(
			notification.ID,
			notification.UserID,
			string(notification.Type),
			notification.Title,
			notification.Message,
			notification.Link,
			notification.Read,
			notification.RelatedID,
			notification.RelatedKind,
			notification.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert notification sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

// ListByUser returns the user's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, filter port.NotificationFilter) ([]domain.Notification, error) {
	query := r.builder.
		Select(notificationColumns...).
		From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	if filter.UnreadOnly {
		query = query.Where(squirrel.Eq{"read": false})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list notifications sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *notification)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return notifications, nil
}

// CountUnread returns how many unread notifications the user has.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	stmt, args, err := r.builder.
		Select("COUNT(*)").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID, "read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count unread sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead flips the read flag. Ownership is part of the predicate, so a
// caller that does not own the notification gets ErrNotFound.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	stmt, args, err := r.builder.
		Update("notifications").
		Set("read", true).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark read sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// MarkAllRead flips every unread notification of the user and returns the count.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	stmt, args, err := r.builder.
		Update("notifications").
		Set("read", true).
		Where(squirrel.Eq{"user_id": userID, "read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build mark all read sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// DeleteOlderThan removes notifications past the retention cutoff.
func (r *NotificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	stmt, args, err := r.builder.
		Delete("notifications").
		Where(squirrel.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete old notifications sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete old notifications: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var (
		notification domain.Notification
		kind         string
	)

	if err := row.Scan(
		&notification.ID,
		&notification.UserID,
		&kind,
		&notification.Title,
		&notification.Message,
		&notification.Link,
		&notification.Read,
		&notification.RelatedID,
		&notification.RelatedKind,
		&notification.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan notification: %w", err)
	}

	notification.Type = domain.NotificationType(kind)
	return &notification, nil
}

var _ port.NotificationRepository = (*NotificationRepository)(nil)
