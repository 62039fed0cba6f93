package ports

import (
	"context"
	"time"

	"tpts/internal/core/domain/model/group"
	"tpts/internal/core/domain/model/kernel"
)

// GroupRepository defines the persistence contract for consolidation groups.
type GroupRepository interface {
	Add(ctx context.Context, g *group.Group) error
	Update(ctx context.Context, g *group.Group) error

	// Get returns errs.ErrObjectNotFound when the group does not exist.
	Get(ctx context.Context, id kernel.UUID) (*group.Group, error)

	// ListOpenPastDeadline returns Open groups whose deadline is not after now.
	ListOpenPastDeadline(ctx context.Context, now time.Time, limit int) ([]*group.Group, error)

	// ListAwaitingLeg returns unflagged groups that wait for an agent: ready for pickup
	// without a pickup agent, or in transit without a delivery agent.
	ListAwaitingLeg(ctx context.Context, limit int) ([]*group.Group, error)
}
