package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/repository"
)

type mockUserRepository struct {
	createErr   error
	createCalls int
	createdUser domain.User

	usersByID  map[string]*domain.User
	getByIDErr error

	usersByEmail  map[string]*domain.User
	getByEmailErr error

	updateProfileErr   error
	updateProfileCalls int
	updatedProfile     domain.User

	lastLoginCalls int
	lastLoginErr   error
	lastLoginID    string

	updatePasswordErr   error
	updatePasswordCalls int
	updatePasswordID    string
	updatedPasswordHash string
	updatedPasswordAlgo string

	updateRoleErr      error
	updateRoleCalls    int
	updateRoleID       string
	updateRoleExpected domain.Role
	updateRoleNext     domain.Role

	setBanErr      error
	setBanCalls    int
	setBanID       string
	setBanExpected bool
	setBanState    domain.BanState

	listResult  []domain.User
	listErr     error
	listFilter  port.UserFilter
	countResult int
	countErr    error
}

func (m *mockUserRepository) Create(_ context.Context, user domain.User) error {
	m.createCalls++
	m.createdUser = user
	return m.createErr
}

func (m *mockUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	if m.getByIDErr != nil {
		return nil, m.getByIDErr
	}
	if user, ok := m.usersByID[id]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.getByEmailErr != nil {
		return nil, m.getByEmailErr
	}
	if user, ok := m.usersByEmail[email]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) UpdateProfile(_ context.Context, user domain.User) error {
	m.updateProfileCalls++
	m.updatedProfile = user
	return m.updateProfileErr
}

func (m *mockUserRepository) UpdateLastLogin(_ context.Context, id string, _ time.Time) error {
	m.lastLoginCalls++
	m.lastLoginID = id
	return m.lastLoginErr
}

func (m *mockUserRepository) UpdatePassword(_ context.Context, id, passwordHash, passwordAlgo string) error {
	m.updatePasswordCalls++
	m.updatePasswordID = id
	m.updatedPasswordHash = passwordHash
	m.updatedPasswordAlgo = passwordAlgo
	return m.updatePasswordErr
}

func (m *mockUserRepository) UpdateRole(_ context.Context, id string, expected, next domain.Role) error {
	m.updateRoleCalls++
	m.updateRoleID = id
	m.updateRoleExpected = expected
	m.updateRoleNext = next
	return m.updateRoleErr
}

func (m *mockUserRepository) SetBanState(_ context.Context, id string, expected bool, ban domain.BanState) error {
	m.setBanCalls++
	m.setBanID = id
	m.setBanExpected = expected
	m.setBanState = ban
	return m.setBanErr
}

func (m *mockUserRepository) List(_ context.Context, filter port.UserFilter) ([]domain.User, error) {
	m.listFilter = filter
	return m.listResult, m.listErr
}

func (m *mockUserRepository) Count(_ context.Context, filter port.UserFilter) (int, error) {
	return m.countResult, m.countErr
}

type mockRequestRepository struct {
	createErr   error
	createCalls int
	created     domain.SessionRequest

	byID     map[string]*domain.SessionRequest
	getErr   error
	getCalls int

	listResult []domain.SessionRequest
	listErr    error
	listFilter port.RequestFilter

	updateStatusErr   error
	updateStatusCalls int
	updateStatusID    string
	updateStatusFrom  domain.RequestStatus
	updateStatusTo    domain.RequestStatus
}

func (m *mockRequestRepository) Create(_ context.Context, request domain.SessionRequest) error {
	m.createCalls++
	m.created = request
	return m.createErr
}

func (m *mockRequestRepository) GetByID(_ context.Context, id string) (*domain.SessionRequest, error) {
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	if request, ok := m.byID[id]; ok {
		copy := *request
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockRequestRepository) List(_ context.Context, filter port.RequestFilter) ([]domain.SessionRequest, error) {
	m.listFilter = filter
	return m.listResult, m.listErr
}

func (m *mockRequestRepository) UpdateStatus(_ context.Context, id string, from, to domain.RequestStatus) error {
	m.updateStatusCalls++
	m.updateStatusID = id
	m.updateStatusFrom = from
	m.updateStatusTo = to
	return m.updateStatusErr
}

type mockFriendshipRepository struct {
	createErr   error
	createCalls int
	created     domain.Friendship

	getByPairResult *domain.Friendship
	getByPairErr    error

	acceptErr   error
	acceptCalls int

	deleteErr      error
	deleteCalls    int
	deleteExpected domain.FriendshipStatus

	listAcceptedResult []domain.Friendship
	listAcceptedErr    error
	listPendingResult  []domain.Friendship
	listPendingErr     error
}

func (m *mockFriendshipRepository) Create(_ context.Context, friendship domain.Friendship) error {
	m.createCalls++
	m.created = friendship
	return m.createErr
}

func (m *mockFriendshipRepository) GetByPair(_ context.Context, _, _ string) (*domain.Friendship, error) {
	if m.getByPairErr != nil {
		return nil, m.getByPairErr
	}
	if m.getByPairResult == nil {
		return nil, repository.ErrNotFound
	}
	copy := *m.getByPairResult
	return &copy, nil
}

func (m *mockFriendshipRepository) Accept(_ context.Context, _, _ string) error {
	m.acceptCalls++
	return m.acceptErr
}

func (m *mockFriendshipRepository) Delete(_ context.Context, _, _ string, expected domain.FriendshipStatus) error {
	m.deleteCalls++
	m.deleteExpected = expected
	return m.deleteErr
}

func (m *mockFriendshipRepository) ListAccepted(_ context.Context, _ string) ([]domain.Friendship, error) {
	return m.listAcceptedResult, m.listAcceptedErr
}

func (m *mockFriendshipRepository) ListPending(_ context.Context, _ string) ([]domain.Friendship, error) {
	return m.listPendingResult, m.listPendingErr
}

type mockReportRepository struct {
	createErr   error
	createCalls int
	created     domain.Report

	byID map[string]*domain.Report

	listResult  []domain.Report
	listErr     error
	countResult int
	countErr    error

	closeErr     error
	closeErrByID map[string]error
	closeCalls   int
	closeID      string
	closeOutcome domain.ReportStatus
	closeAdminID string
	closeNote    *string
}

func (m *mockReportRepository) Create(_ context.Context, report domain.Report) error {
	m.createCalls++
	m.created = report
	return m.createErr
}

func (m *mockReportRepository) GetByID(_ context.Context, id string) (*domain.Report, error) {
	if report, ok := m.byID[id]; ok {
		copy := *report
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockReportRepository) List(_ context.Context, _ port.ReportFilter) ([]domain.Report, error) {
	return m.listResult, m.listErr
}

func (m *mockReportRepository) Count(_ context.Context, _ port.ReportFilter) (int, error) {
	return m.countResult, m.countErr
}

func (m *mockReportRepository) Close(_ context.Context, id string, outcome domain.ReportStatus, adminID string, note *string, _ time.Time) error {
	m.closeCalls++
	m.closeID = id
	m.closeOutcome = outcome
	m.closeAdminID = adminID
	m.closeNote = note
	if err, ok := m.closeErrByID[id]; ok {
		return err
	}
	return m.closeErr
}

type mockAdminSessionRepository struct {
	createErr   error
	createCalls int
	created     domain.AdminSession

	byID map[string]*domain.AdminSession

	listResult []domain.AdminSession
	listErr    error

	touchErr    error
	touchID     string
	touchNotify chan struct{}

	terminateErr    error
	terminateCalls  int
	terminateID     string
	terminateBy     string
	terminateReason string

	expireResult int
	expireErr    error
	expireCutoff time.Time
}

func (m *mockAdminSessionRepository) Create(_ context.Context, session domain.AdminSession) error {
	m.createCalls++
	m.created = session
	return m.createErr
}

func (m *mockAdminSessionRepository) GetByID(_ context.Context, id string) (*domain.AdminSession, error) {
	if session, ok := m.byID[id]; ok {
		copy := *session
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockAdminSessionRepository) List(_ context.Context, _ port.AdminSessionFilter) ([]domain.AdminSession, error) {
	return m.listResult, m.listErr
}

func (m *mockAdminSessionRepository) Touch(_ context.Context, id string, _ time.Time) error {
	m.touchID = id
	if m.touchNotify != nil {
		m.touchNotify <- struct{}{}
	}
	return m.touchErr
}

func (m *mockAdminSessionRepository) Terminate(_ context.Context, id, adminID, reason string, _ time.Time) error {
	m.terminateCalls++
	m.terminateID = id
	m.terminateBy = adminID
	m.terminateReason = reason
	return m.terminateErr
}

func (m *mockAdminSessionRepository) ExpireIdle(_ context.Context, cutoff time.Time) (int, error) {
	m.expireCutoff = cutoff
	return m.expireResult, m.expireErr
}

type mockNotificationRepository struct {
	createErr   error
	createCalls int
	created     []domain.Notification

	listResult []domain.Notification
	listErr    error
	listFilter port.NotificationFilter

	countUnreadResult int
	countUnreadErr    error

	markReadErr    error
	markReadCalls  int
	markReadID     string
	markReadUserID string

	markAllReadResult int
	markAllReadErr    error

	deleteOlderResult int
	deleteOlderErr    error
	deleteOlderCutoff time.Time
}

func (m *mockNotificationRepository) Create(_ context.Context, notification domain.Notification) error {
	m.createCalls++
	m.created = append(m.created, notification)
	return m.createErr
}

func (m *mockNotificationRepository) ListByUser(_ context.Context, _ string, filter port.NotificationFilter) ([]domain.Notification, error) {
	m.listFilter = filter
	return m.listResult, m.listErr
}

func (m *mockNotificationRepository) CountUnread(_ context.Context, _ string) (int, error) {
	return m.countUnreadResult, m.countUnreadErr
}

func (m *mockNotificationRepository) MarkRead(_ context.Context, id, userID string) error {
	m.markReadCalls++
	m.markReadID = id
	m.markReadUserID = userID
	return m.markReadErr
}

func (m *mockNotificationRepository) MarkAllRead(_ context.Context, _ string) (int, error) {
	return m.markAllReadResult, m.markAllReadErr
}

func (m *mockNotificationRepository) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	m.deleteOlderCutoff = cutoff
	return m.deleteOlderResult, m.deleteOlderErr
}

type mockResetTokenRepository struct {
	createErr   error
	createCalls int
	created     domain.PasswordResetToken

	getByHashResult *domain.PasswordResetToken
	getByHashErr    error
	getByHashLast   string

	markUsedErr   error
	markUsedCalls int
	markUsedID    string

	deleteExpiredResult int
	deleteExpiredErr    error
	deleteExpiredCalls  int
	deleteExpiredCutoff time.Time
}

func (m *mockResetTokenRepository) Create(_ context.Context, token domain.PasswordResetToken) error {
	m.createCalls++
	m.created = token
	return m.createErr
}

func (m *mockResetTokenRepository) GetByHash(_ context.Context, tokenHash string) (*domain.PasswordResetToken, error) {
	m.getByHashLast = tokenHash
	if m.getByHashErr != nil {
		return nil, m.getByHashErr
	}
	if m.getByHashResult == nil {
		return nil, repository.ErrNotFound
	}
	copy := *m.getByHashResult
	return &copy, nil
}

func (m *mockResetTokenRepository) MarkUsed(_ context.Context, id string, _ time.Time) error {
	m.markUsedCalls++
	m.markUsedID = id
	return m.markUsedErr
}

func (m *mockResetTokenRepository) DeleteExpired(_ context.Context, cutoff time.Time) (int, error) {
	m.deleteExpiredCalls++
	m.deleteExpiredCutoff = cutoff
	return m.deleteExpiredResult, m.deleteExpiredErr
}

type mockHeartbeatCache struct {
	setErr    error
	setCalls  int
	setID     string
	setAt     time.Time
	setNotify chan struct{}
}

func (m *mockHeartbeatCache) SetLastActivity(_ context.Context, sessionID string, at time.Time) error {
	m.setCalls++
	m.setID = sessionID
	m.setAt = at
	if m.setNotify != nil {
		m.setNotify <- struct{}{}
	}
	return m.setErr
}

func (m *mockHeartbeatCache) GetLastActivity(_ context.Context, _ string) (time.Time, bool, error) {
	return time.Time{}, false, errors.New("unexpected call: GetLastActivity")
}

type mockEventPublisher struct {
	err error

	registeredCalls int
	registered      domain.UserRegisteredEvent

	friendRequestCalls int
	friendRequest      domain.FriendRequestSentEvent

	friendAcceptedCalls int
	friendAccepted      domain.FriendAcceptedEvent

	requestCreatedCalls int
	requestCreated      domain.SessionRequestCreatedEvent

	transitionedCalls int
	transitioned      domain.SessionRequestTransitionedEvent

	reportFiledCalls int
	reportFiled      domain.ReportFiledEvent

	reportHandledCalls int
	reportHandled      domain.ReportHandledEvent

	banChangedCalls int
	banChanged      domain.UserBanStateChangedEvent

	roleChangedCalls int
	roleChanged      domain.UserRoleChangedEvent

	sessionTerminatedCalls int
	sessionTerminated      domain.AdminSessionTerminatedEvent
}

func (m *mockEventPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	m.registeredCalls++
	m.registered = event
	return m.err
}

func (m *mockEventPublisher) PublishFriendRequestSent(_ context.Context, event domain.FriendRequestSentEvent) error {
	m.friendRequestCalls++
	m.friendRequest = event
	return m.err
}

func (m *mockEventPublisher) PublishFriendAccepted(_ context.Context, event domain.FriendAcceptedEvent) error {
	m.friendAcceptedCalls++
	m.friendAccepted = event
	return m.err
}

func (m *mockEventPublisher) PublishSessionRequestCreated(_ context.Context, event domain.SessionRequestCreatedEvent) error {
	m.requestCreatedCalls++
	m.requestCreated = event
	return m.err
}

func (m *mockEventPublisher) PublishSessionRequestTransitioned(_ context.Context, event domain.SessionRequestTransitionedEvent) error {
	m.transitionedCalls++
	m.transitioned = event
	return m.err
}

func (m *mockEventPublisher) PublishReportFiled(_ context.Context, event domain.ReportFiledEvent) error {
	m.reportFiledCalls++
	m.reportFiled = event
	return m.err
}

func (m *mockEventPublisher) PublishReportHandled(_ context.Context, event domain.ReportHandledEvent) error {
	m.reportHandledCalls++
	m.reportHandled = event
	return m.err
}

func (m *mockEventPublisher) PublishUserBanStateChanged(_ context.Context, event domain.UserBanStateChangedEvent) error {
	m.banChangedCalls++
	m.banChanged = event
	return m.err
}

func (m *mockEventPublisher) PublishUserRoleChanged(_ context.Context, event domain.UserRoleChangedEvent) error {
	m.roleChangedCalls++
	m.roleChanged = event
	return m.err
}

func (m *mockEventPublisher) PublishAdminSessionTerminated(_ context.Context, event domain.AdminSessionTerminatedEvent) error {
	m.sessionTerminatedCalls++
	m.sessionTerminated = event
	return m.err
}

type mockTokenIssuer struct {
	token     string
	expiresAt time.Time
	err       error

	calls     int
	userID    string
	role      domain.Role
	sessionID string
}

func (m *mockTokenIssuer) Issue(userID string, role domain.Role, sessionID string) (string, time.Time, error) {
	m.calls++
	m.userID = userID
	m.role = role
	m.sessionID = sessionID
	return m.token, m.expiresAt, m.err
}

type mockStatsSource struct {
	activeUsers   int
	newUsers      int
	created       int
	transitioned  map[domain.RequestStatus]int
	reportsFiled  int
	reportsClosed int
	bansIssued    int
	topSkills     []domain.SkillCount

	err       error
	lastDay   time.Time
	lastLimit int
}

func (m *mockStatsSource) CountActiveUsers(_ context.Context, day time.Time) (int, error) {
	m.lastDay = day
	return m.activeUsers, m.err
}

func (m *mockStatsSource) CountNewUsers(_ context.Context, _ time.Time) (int, error) {
	return m.newUsers, m.err
}

func (m *mockStatsSource) CountRequestsCreated(_ context.Context, _ time.Time) (int, error) {
	return m.created, m.err
}

func (m *mockStatsSource) CountRequestsTransitioned(_ context.Context, _ time.Time, status domain.RequestStatus) (int, error) {
	return m.transitioned[status], m.err
}

func (m *mockStatsSource) CountReportsFiled(_ context.Context, _ time.Time) (int, error) {
	return m.reportsFiled, m.err
}

func (m *mockStatsSource) CountReportsClosed(_ context.Context, _ time.Time) (int, error) {
	return m.reportsClosed, m.err
}

func (m *mockStatsSource) CountBansIssued(_ context.Context, _ time.Time) (int, error) {
	return m.bansIssued, m.err
}

func (m *mockStatsSource) TopSkills(_ context.Context, _ time.Time, limit int) ([]domain.SkillCount, error) {
	m.lastLimit = limit
	return m.topSkills, m.err
}

type mockAnalyticsRepository struct {
	upsertErr   error
	upsertCalls int
	upserted    domain.AnalyticsSnapshot

	byDate map[time.Time]*domain.AnalyticsSnapshot

	rangeResult []domain.AnalyticsSnapshot
	rangeErr    error
	rangeFrom   time.Time
	rangeTo     time.Time
}

func (m *mockAnalyticsRepository) Upsert(_ context.Context, snapshot domain.AnalyticsSnapshot) error {
	m.upsertCalls++
	m.upserted = snapshot
	return m.upsertErr
}

func (m *mockAnalyticsRepository) GetByDate(_ context.Context, date time.Time) (*domain.AnalyticsSnapshot, error) {
	if snapshot, ok := m.byDate[date]; ok {
		copy := *snapshot
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockAnalyticsRepository) Range(_ context.Context, from, to time.Time) ([]domain.AnalyticsSnapshot, error) {
	m.rangeFrom = from
	m.rangeTo = to
	return m.rangeResult, m.rangeErr
}
