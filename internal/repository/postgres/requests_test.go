package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/repository"
)

func newMockRequestRepo(t *testing.T) (*SessionRequestRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)

	repo := &SessionRequestRepository{
		exec:    mock,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	return repo, mock
}

func TestSessionRequestRepository_Create(t *testing.T) {
	repo, mock := newMockRequestRepo(t)

	now := time.Now().UTC()
	message := "would love an intro lesson"
	request := domain.SessionRequest{
		ID:        "req-1",
		FromUser:  "user-a",
		ToUser:    "user-b",
		Skill:     "guitar",
		Message:   &message,
		Status:    domain.RequestStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec(`INSERT INTO session_requests`).
		WithArgs(
			request.ID,
			request.FromUser,
			request.ToUser,
			request.Skill,
			&message,
			request.PreferredDate,
			string(domain.RequestStatusPending),
			request.CreatedAt,
			request.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), request); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionRequestRepository_CreateDuplicatePending(t *testing.T) {
	repo, mock := newMockRequestRepo(t)

	now := time.Now().UTC()
	request := domain.SessionRequest{
		ID:        "req-2",
		FromUser:  "user-a",
		ToUser:    "user-b",
		Skill:     "guitar",
		Status:    domain.RequestStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec(`INSERT INTO session_requests`).
		WithArgs(
			request.ID,
			request.FromUser,
			request.ToUser,
			request.Skill,
			request.Message,
			request.PreferredDate,
			string(domain.RequestStatusPending),
			request.CreatedAt,
			request.UpdatedAt,
		).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	if err := repo.Create(context.Background(), request); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionRequestRepository_UpdateStatusWins(t *testing.T) {
	repo, mock := newMockRequestRepo(t)

	mock.ExpectExec(`UPDATE session_requests`).
		WithArgs(string(domain.RequestStatusAccepted), pgxmock.AnyArg(), "req-1", string(domain.RequestStatusPending)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.UpdateStatus(context.Background(), "req-1", domain.RequestStatusPending, domain.RequestStatusAccepted); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionRequestRepository_UpdateStatusLosesRace(t *testing.T) {
	repo, mock := newMockRequestRepo(t)

	now := time.Now().UTC()

	mock.ExpectExec(`UPDATE session_requests`).
		WithArgs(string(domain.RequestStatusRejected), pgxmock.AnyArg(), "req-1", string(domain.RequestStatusPending)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	rows := pgxmock.NewRows(requestColumns).AddRow(
		"req-1", "user-a", "user-b", "guitar", nil, nil,
		string(domain.RequestStatusAccepted), now, now,
	)
	mock.ExpectQuery(`SELECT .*FROM session_requests`).WithArgs("req-1").WillReturnRows(rows)

	err := repo.UpdateStatus(context.Background(), "req-1", domain.RequestStatusPending, domain.RequestStatusRejected)
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict when guard misses, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionRequestRepository_UpdateStatusMissingRow(t *testing.T) {
	repo, mock := newMockRequestRepo(t)

	mock.ExpectExec(`UPDATE session_requests`).
		WithArgs(string(domain.RequestStatusAccepted), pgxmock.AnyArg(), "req-missing", string(domain.RequestStatusPending)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	mock.ExpectQuery(`SELECT .*FROM session_requests`).
		WithArgs("req-missing").
		WillReturnError(pgx.ErrNoRows)

	err := repo.UpdateStatus(context.Background(), "req-missing", domain.RequestStatusPending, domain.RequestStatusAccepted)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing row, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
