package port

import (
	"context"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/domain"
)

// RequestFilter narrows session request listings.
type RequestFilter struct {
	UserID   string
	Incoming bool
	Outgoing bool
	Status   domain.RequestStatus
	Limit    int
	Offset   int
}

// SessionRequestRepository exposes persistence behavior for teaching session requests.
type SessionRequestRepository interface {
	// Create inserts a pending request. A concurrent duplicate for the same
	// (from, to, skill) triple is rejected by the partial unique index and
	// surfaced as repository.ErrConflict.
	Create(ctx context.Context, request domain.SessionRequest) error
	GetByID(ctx context.Context, id string) (*domain.SessionRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]domain.SessionRequest, error)
	// UpdateStatus performs the transition as a conditional update keyed on
	// the expected prior status. A guard miss returns repository.ErrConflict
	// so concurrent accept/reject races resolve to exactly one winner.
	UpdateStatus(ctx context.Context, id string, from, to domain.RequestStatus) error
}
