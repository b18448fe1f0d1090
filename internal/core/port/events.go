package port

import (
	"context"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishFriendRequestSent(ctx context.Context, event domain.FriendRequestSentEvent) error
	PublishFriendAccepted(ctx context.Context, event domain.FriendAcceptedEvent) error
	PublishSessionRequestCreated(ctx context.Context, event domain.SessionRequestCreatedEvent) error
	PublishSessionRequestTransitioned(ctx context.Context, event domain.SessionRequestTransitionedEvent) error
	PublishReportFiled(ctx context.Context, event domain.ReportFiledEvent) error
	PublishReportHandled(ctx context.Context, event domain.ReportHandledEvent) error
	PublishUserBanStateChanged(ctx context.Context, event domain.UserBanStateChangedEvent) error
	PublishUserRoleChanged(ctx context.Context, event domain.UserRoleChangedEvent) error
	PublishAdminSessionTerminated(ctx context.Context, event domain.AdminSessionTerminatedEvent) error
}
