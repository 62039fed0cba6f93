package ports

import (
	"context"
	"time"

	"tpts/internal/core/domain/model/assignment"
	"tpts/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for offers made to agents.
type AssignmentRepository interface {
	Add(ctx context.Context, a *assignment.Assignment) error

	// Update fails with errs.ErrConcurrentModification when another writer resolved the
	// offer first. This is what makes a double response safe.
	Update(ctx context.Context, a *assignment.Assignment) error

	// Get returns errs.ErrObjectNotFound when the assignment does not exist.
	Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error)

	// FindActive returns the Pending or Accepted offer of the subject, or
	// errs.ErrObjectNotFound when there is none.
	FindActive(ctx context.Context, subject assignment.Subject) (*assignment.Assignment, error)

	// ListBySubject returns every offer ever made for the subject, oldest first.
	ListBySubject(ctx context.Context, subject assignment.Subject) ([]*assignment.Assignment, error)

	// ListAgentsWithPendingOffers returns the agents currently holding an unanswered offer.
	ListAgentsWithPendingOffers(ctx context.Context) ([]kernel.UUID, error)

	// ListOverdue returns Pending offers whose respondBy is not after now.
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]*assignment.Assignment, error)
}
