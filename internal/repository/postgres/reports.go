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

var reportColumns = []string{
	"id",
	"reported_by",
	"reported_user",
	"reason",
	"description",
	"evidence_url",
	"status",
	"resolved_by",
	"resolution_note",
	"created_at",
	"resolved_at",
}

// ReportRepository implements port.ReportRepository using PostgreSQL.
type ReportRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewReportRepository wires a PostgreSQL-backed report repository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *ReportRepository) WithTx(tx pgx.Tx) *ReportRepository {
	if tx == nil {
		return r
	}
	return &ReportRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new report row.
func (r *ReportRepository) Create(ctx context.Context, report domain.Report) error {
	stmt, args, err := r.builder.Insert("reports").
		Columns(reportColumns...).
		Values(
			report.ID,
			report.ReportedBy,
			report.ReportedUser,
			string(report.Reason),
			report.Description,
			report.EvidenceURL,
			string(report.Status),
			report.ResolvedBy,
			report.ResolutionNote,
			report.CreatedAt,
			report.ResolvedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert report sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	return nil
}

// GetByID retrieves a report by identifier.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	stmt, args, err := r.builder.
		Select(reportColumns...).
		From("reports").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select report sql: %w", err)
	}

	return scanReport(r.exec.QueryRow(ctx, stmt, args...))
}

// List returns reports matching the filter, newest first.
func (r *ReportRepository) List(ctx context.Context, filter port.ReportFilter) ([]domain.Report, error) {
	query := r.builder.
		Select(reportColumns...).
		From("reports").
		OrderBy("created_at DESC")

	query = applyReportFilter(query, filter)

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list reports sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	return reports, nil
}

// Count returns the number of reports matching the filter.
func (r *ReportRepository) Count(ctx context.Context, filter port.ReportFilter) (int, error) {
	query := r.builder.
		Select("COUNT(*)").
		From("reports")

	query = applyReportFilter(query, filter)

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count reports sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}

	return count, nil
}

// Close moves a pending report to its outcome. Conditional on the row still
// being pending so a report is handled exactly once.
func (r *ReportRepository) Close(ctx context.Context, id string, outcome domain.ReportStatus, adminID string, note *string, at time.Time) error {
	stmt, args, err := r.builder.
		Update("reports").
		Set("status", string(outcome)).
		Set("resolved_by", adminID).
		Set("resolution_note", note).
		Set("resolved_at", at).
		Where(squirrel.Eq{"id": id, "status": string(domain.ReportStatusPending)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build close report sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return repository.ErrConflict
	}

	return nil
}

func applyReportFilter(query squirrel.SelectBuilder, filter port.ReportFilter) squirrel.SelectBuilder {
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.ReportedUser != "" {
		query = query.Where(squirrel.Eq{"reported_user": filter.ReportedUser})
	}
	return query
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var (
		report      domain.Report
		reason      string
		status      string
		description sql.NullString
		evidence    sql.NullString
		resolvedBy  sql.NullString
		note        sql.NullString
	)

	if err := row.Scan(
		&report.ID,
		&report.ReportedBy,
		&report.ReportedUser,
		&reason,
		&description,
		&evidence,
		&status,
		&resolvedBy,
		&note,
		&report.CreatedAt,
		&report.ResolvedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan report: %w", err)
	}

	report.Reason = domain.ReportReason(reason)
	report.Status = domain.ReportStatus(status)
	if description.Valid {
		report.Description = &description.String
	}
	if evidence.Valid {
		report.EvidenceURL = &evidence.String
	}
	if resolvedBy.Valid {
		report.ResolvedBy = &resolvedBy.String
	}
	if note.Valid {
		report.ResolutionNote = &note.String
	}

	return &report, nil
}

var _ port.ReportRepository = (*ReportRepository)(nil)
