package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Users         *UserRepository
	Requests      *SessionRequestRepository
	Friendships   *FriendshipRepository
	Reports       *ReportRepository
	AdminSessions *AdminSessionRepository
	Notifications *NotificationRepository
	ResetTokens   *ResetTokenRepository
	Analytics     *AnalyticsRepository
	Stats         *StatsRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(pool),
		Requests:      NewSessionRequestRepository(pool),
		Friendships:   NewFriendshipRepository(pool),
		Reports:       NewReportRepository(pool),
		AdminSessions: NewAdminSessionRepository(pool),
		Notifications: NewNotificationRepository(pool),
		ResetTokens:   NewResetTokenRepository(pool),
		Analytics:     NewAnalyticsRepository(pool),
		Stats:         NewStatsRepository(pool),
	}
}
