package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/infra/config"
)

// AnalyticsJob generates the daily snapshot for the given day.
type AnalyticsJob interface {
	GenerateSnapshot(ctx context.Context, day time.Time) error
}

// NotificationSweeper deletes notifications older than the retention window.
type NotificationSweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// SessionSweeper expires admin sessions that have been idle too long.
type SessionSweeper interface {
	ExpireIdleSessions(ctx context.Context) (int, error)
}

// TokenSweeper deletes password reset tokens past their expiry.
type TokenSweeper interface {
	SweepExpiredResetTokens(ctx context.Context) (int, error)
}

// Scheduler runs the periodic background jobs on cron schedules.
type Scheduler struct {
	cron          *cron.Cron
	cfg           config.JobSettings
	logger        *zap.Logger
	analytics     AnalyticsJob
	notifications NotificationSweeper
	sessions      SessionSweeper
	tokens        TokenSweeper
}

func New(cfg config.JobSettings, analytics AnalyticsJob, notifications NotificationSweeper, sessions SessionSweeper, tokens TokenSweeper, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		cfg:           cfg,
		logger:        logger,
		analytics:     analytics,
		notifications: notifications,
		sessions:      sessions,
		tokens:        tokens,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.AnalyticsSpec, s.runAnalytics); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.NotificationSweepSpec, s.runNotificationSweep); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.SessionSweepSpec, s.runSessionSweep); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.TokenSweepSpec, s.runTokenSweep); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("background scheduler started",
		zap.String("analytics_spec", s.cfg.AnalyticsSpec),
		zap.String("notification_sweep_spec", s.cfg.NotificationSweepSpec),
		zap.String("session_sweep_spec", s.cfg.SessionSweepSpec),
		zap.String("token_sweep_spec", s.cfg.TokenSweepSpec),
	)
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) runAnalytics() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// The nightly run covers the day that just ended.
	day := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	if err := s.analytics.GenerateSnapshot(ctx, day); err != nil {
		s.logger.Error("analytics snapshot job failed", zap.Time("day", day), zap.Error(err))
		return
	}
	s.logger.Info("analytics snapshot generated", zap.Time("day", day))
}

func (s *Scheduler) runNotificationSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := s.notifications.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("notification retention sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("notification retention sweep completed", zap.Int("deleted", deleted))
}

func (s *Scheduler) runSessionSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	expired, err := s.sessions.ExpireIdleSessions(ctx)
	if err != nil {
		s.logger.Error("idle session sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		s.logger.Info("idle admin sessions expired", zap.Int("count", expired))
	}
}

func (s *Scheduler) runTokenSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := s.tokens.SweepExpiredResetTokens(ctx)
	if err != nil {
		s.logger.Error("reset token sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.logger.Info("expired reset tokens deleted", zap.Int("count", deleted))
	}
}
