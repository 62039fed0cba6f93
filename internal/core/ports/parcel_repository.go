// Package ports defines the contracts between the logistics core and its infrastructure:
// repositories bound to a unit of work, and the outward gateways (clock, tokens,
// notifications, payments, document storage).
package ports

import (
	"context"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/parcel"
)

// ParcelRepository defines the persistence contract for parcel aggregates.
//
// Update is an optimistic write: it succeeds only if the stored version still equals the
// version the parcel was read with, and fails with errs.ErrConcurrentModification otherwise.
type ParcelRepository interface {
	// Add persists a new parcel.
	Add(ctx context.Context, p *parcel.Parcel) error

	// Update persists changes to an existing parcel under the version check.
	Update(ctx context.Context, p *parcel.Parcel) error

	// Get retrieves a parcel by id. Returns errs.ErrObjectNotFound when absent.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	// ListByGroup returns every parcel currently referencing the group.
	ListByGroup(ctx context.Context, groupID kernel.UUID) ([]*parcel.Parcel, error)

	// ListDispatchable returns Confirmed parcels outside any group that are not flagged
	// for manual reassignment, oldest confirmation first.
	ListDispatchable(ctx context.Context, limit int) ([]*parcel.Parcel, error)

	// ListNeedingReassignment returns the company's parcels flagged for manual assignment.
	ListNeedingReassignment(ctx context.Context, companyID kernel.UUID) ([]*parcel.Parcel, error)
}
