// Package commands contains business operations that modify system state.
// Every handler validates its command, then runs one read-transition cycle inside a
// unit of work, retried from scratch when a versioned write loses a race. Side effects
// collected during the cycle run only after it committed.
package commands

import (
	"context"

	"tpts/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	ParcelRepoFactory interface {
		ParcelRepository() ports.ParcelRepository
	}

	AgentRepoFactory interface {
		AgentRepository() ports.AgentRepository
	}

	CompanyRepoFactory interface {
		CompanyRepository() ports.CompanyRepository
	}

	AssignmentRepoFactory interface {
		AssignmentRepository() ports.AssignmentRepository
	}

	GroupRepoFactory interface {
		GroupRepository() ports.GroupRepository
	}

	LedgerRepoFactory interface {
		LedgerRepository() ports.LedgerRepository
	}

	// UoW spans every aggregate. Dispatch, delivery and settlement touch parcels, agents,
	// assignments, groups and the ledger in one transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   p, err := uow.ParcelRepository().Get(ctx, id)
	//   // ... transition, update
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		ParcelRepoFactory
		AgentRepoFactory
		CompanyRepoFactory
		AssignmentRepoFactory
		GroupRepoFactory
		LedgerRepoFactory
	}

	// UoWFactory creates new unit of work instances, one per attempt of a cycle.
	UoWFactory interface {
		Create() UoW
	}
)
