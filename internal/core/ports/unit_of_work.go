package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for each command attempt.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. Repositories obtained after
// Begin share its transaction.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	ParcelRepository() ParcelRepository
	AgentRepository() AgentRepository
	CompanyRepository() CompanyRepository
	AssignmentRepository() AssignmentRepository
	GroupRepository() GroupRepository
	LedgerRepository() LedgerRepository
}
