package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
)

func snapshotDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestAnalyticsService_GenerateSnapshot_AggregatesCounters(t *testing.T) {
	stats := &mockStatsSource{
		activeUsers: 42,
		newUsers:    7,
		created:     19,
		transitioned: map[domain.RequestStatus]int{
			domain.RequestStatusAccepted:  11,
			domain.RequestStatusCompleted: 5,
		},
		reportsFiled:  3,
		reportsClosed: 2,
		bansIssued:    1,
		topSkills:     []domain.SkillCount{{Skill: "guitar", Count: 9}},
	}
	snapshots := &mockAnalyticsRepository{}

	service := NewAnalyticsService(snapshots, stats, zap.NewNop())
	fixedNow := time.Date(2026, 2, 4, 0, 15, 0, 0, time.UTC)
	service.now = func() time.Time { return fixedNow }

	day := time.Date(2026, 2, 3, 9, 30, 0, 0, time.UTC)
	if err := service.GenerateSnapshot(context.Background(), day); err != nil {
		t.Fatalf("GenerateSnapshot returned error: %v", err)
	}

	if snapshots.upsertCalls != 1 {
		t.Fatalf("expected one upsert, got %d", snapshots.upsertCalls)
	}
	got := snapshots.upserted
	if !got.SnapshotDate.Equal(snapshotDay(2026, 2, 3)) {
		t.Fatalf("expected date truncated to midnight, got %v", got.SnapshotDate)
	}
	if got.ActiveUsers != 42 || got.NewUsers != 7 || got.SessionsCreated != 19 {
		t.Fatalf("unexpected user counters: %+v", got)
	}
	if got.SessionsAccepted != 11 || got.SessionsCompleted != 5 {
		t.Fatalf("unexpected transition counters: %+v", got)
	}
	if got.ReportsFiled != 3 || got.ReportsResolved != 2 || got.BansIssued != 1 {
		t.Fatalf("unexpected moderation counters: %+v", got)
	}
	if len(got.TopSkills) != 1 || got.TopSkills[0].Skill != "guitar" {
		t.Fatalf("unexpected top skills: %v", got.TopSkills)
	}
	if !got.GeneratedAt.Equal(fixedNow) {
		t.Fatalf("expected generated_at %v, got %v", fixedNow, got.GeneratedAt)
	}
	if stats.lastLimit != topSkillsLimit {
		t.Fatalf("expected top skills limit %d, got %d", topSkillsLimit, stats.lastLimit)
	}
}

func TestAnalyticsService_GenerateSnapshot_CounterError(t *testing.T) {
	stats := &mockStatsSource{err: errors.New("db down")}
	snapshots := &mockAnalyticsRepository{}

	service := NewAnalyticsService(snapshots, stats, zap.NewNop())

	if err := service.GenerateSnapshot(context.Background(), snapshotDay(2026, 2, 3)); err == nil {
		t.Fatalf("expected error when a counter fails")
	}
	if snapshots.upsertCalls != 0 {
		t.Fatalf("expected no upsert on failure")
	}
}

func TestAnalyticsService_Range_ComputesTrends(t *testing.T) {
	older := domain.AnalyticsSnapshot{SnapshotDate: snapshotDay(2026, 2, 2), ActiveUsers: 100, NewUsers: 10, SessionsCreated: 50}
	newer := domain.AnalyticsSnapshot{SnapshotDate: snapshotDay(2026, 2, 3), ActiveUsers: 150, NewUsers: 5, SessionsCreated: 50}
	snapshots := &mockAnalyticsRepository{rangeResult: []domain.AnalyticsSnapshot{newer, older}}

	service := NewAnalyticsService(snapshots, &mockStatsSource{}, zap.NewNop())

	trends, err := service.Range(context.Background(), snapshotDay(2026, 2, 2), snapshotDay(2026, 2, 3))
	if err != nil {
		t.Fatalf("Range returned error: %v", err)
	}
	if len(trends) != 2 {
		t.Fatalf("expected two entries, got %d", len(trends))
	}

	head := trends[0]
	if head.ActiveUsersChange == nil || *head.ActiveUsersChange != 50 {
		t.Fatalf("expected +50%% active users, got %v", head.ActiveUsersChange)
	}
	if head.NewUsersChange == nil || *head.NewUsersChange != -50 {
		t.Fatalf("expected -50%% new users, got %v", head.NewUsersChange)
	}
	if head.SessionsChange == nil || *head.SessionsChange != 0 {
		t.Fatalf("expected flat sessions, got %v", head.SessionsChange)
	}

	tail := trends[1]
	if tail.ActiveUsersChange != nil || tail.NewUsersChange != nil || tail.SessionsChange != nil {
		t.Fatalf("expected no trend without a preceding day")
	}
}

func TestAnalyticsService_Range_GapYieldsNoTrend(t *testing.T) {
	older := domain.AnalyticsSnapshot{SnapshotDate: snapshotDay(2026, 2, 1), ActiveUsers: 100}
	newer := domain.AnalyticsSnapshot{SnapshotDate: snapshotDay(2026, 2, 3), ActiveUsers: 150}
	snapshots := &mockAnalyticsRepository{rangeResult: []domain.AnalyticsSnapshot{newer, older}}

	service := NewAnalyticsService(snapshots, &mockStatsSource{}, zap.NewNop())

	trends, err := service.Range(context.Background(), snapshotDay(2026, 2, 1), snapshotDay(2026, 2, 3))
	if err != nil {
		t.Fatalf("Range returned error: %v", err)
	}
	if trends[0].ActiveUsersChange != nil {
		t.Fatalf("expected no trend across a missing day")
	}
}

func TestAnalyticsService_Range_RejectsInvertedRange(t *testing.T) {
	service := NewAnalyticsService(&mockAnalyticsRepository{}, &mockStatsSource{}, zap.NewNop())

	if _, err := service.Range(context.Background(), snapshotDay(2026, 2, 3), snapshotDay(2026, 2, 1)); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func TestAnalyticsService_Range_ZeroBaselineYieldsNil(t *testing.T) {
	older := domain.AnalyticsSnapshot{SnapshotDate: snapshotDay(2026, 2, 2), ActiveUsers: 0}
	newer := domain.AnalyticsSnapshot{SnapshotDate: snapshotDay(2026, 2, 3), ActiveUsers: 9}
	snapshots := &mockAnalyticsRepository{rangeResult: []domain.AnalyticsSnapshot{newer, older}}

	service := NewAnalyticsService(snapshots, &mockStatsSource{}, zap.NewNop())

	trends, err := service.Range(context.Background(), snapshotDay(2026, 2, 2), snapshotDay(2026, 2, 3))
	if err != nil {
		t.Fatalf("Range returned error: %v", err)
	}
	if trends[0].ActiveUsersChange != nil {
		t.Fatalf("expected undefined change against a zero baseline")
	}
}
