// Package postgres provides the GORM-based Unit of Work over the parcel, agent, company,
// assignment, group and ledger repositories.
//
// Every command attempt gets a fresh unit of work. Repositories handed out after Begin
// share its transaction, so a dispatch that writes a parcel, an agent and an assignment
// commits or rolls back as one.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, bounds)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	p, err := uow.ParcelRepository().Get(ctx, parcelID)
//	if err != nil {
//	    return err
//	}
//	// ... transition p
//	if err := uow.ParcelRepository().Update(ctx, p); err != nil {
//	    return err // errs.ErrConcurrentModification: re-read and retry
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Writes are optimistic: each versioned update matches on the version it read
//   - Each UnitOfWork instance owns at most one transaction; do not share it between goroutines
//   - Rollback after Commit is a no-op error and is safe to defer
package postgres

import (
	"context"

	"tpts/internal/adapters/out/postgres/agentrepo"
	"tpts/internal/adapters/out/postgres/assignmentrepo"
	"tpts/internal/adapters/out/postgres/companyrepo"
	"tpts/internal/adapters/out/postgres/grouprepo"
	"tpts/internal/adapters/out/postgres/ledgerrepo"
	"tpts/internal/adapters/out/postgres/parcelrepo"
	"tpts/internal/core/domain/model/company"
	"tpts/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// The commission bounds are handed to the company repository, which re-checks stored
// rates against them on load.
type GormUnitOfWorkFactory struct {
	db     *gorm.DB
	bounds company.CommissionBounds
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db, policy.Settlement.CommissionBounds)
func NewGormUnitOfWorkFactory(db *gorm.DB, bounds company.CommissionBounds) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, bounds: bounds}
}

// Create produces a new UnitOfWork with no transaction started.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db, bounds: f.bounds}
}

// GormUnitOfWork coordinates one database transaction across all repositories.
type GormUnitOfWork struct {
	db     *gorm.DB
	tx     *gorm.DB
	bounds company.CommissionBounds
}

// Begin starts the transaction. Calling it twice does not nest.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction. Returns gorm.ErrInvalidTransaction when none is active.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction. Returns gorm.ErrInvalidTransaction when none is
// active, which is what a deferred Rollback after Commit sees.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// conn is the active transaction, or the plain connection before Begin.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) ParcelRepository() ports.ParcelRepository {
	return parcelrepo.NewGormParcelRepository(uow.conn())
}

func (uow *GormUnitOfWork) AgentRepository() ports.AgentRepository {
	return agentrepo.NewGormAgentRepository(uow.conn())
}

func (uow *GormUnitOfWork) CompanyRepository() ports.CompanyRepository {
	return companyrepo.NewGormCompanyRepository(uow.conn(), uow.bounds)
}

func (uow *GormUnitOfWork) AssignmentRepository() ports.AssignmentRepository {
	return assignmentrepo.NewGormAssignmentRepository(uow.conn())
}

func (uow *GormUnitOfWork) GroupRepository() ports.GroupRepository {
	return grouprepo.NewGormGroupRepository(uow.conn())
}

func (uow *GormUnitOfWork) LedgerRepository() ports.LedgerRepository {
	return ledgerrepo.NewGormLedgerRepository(uow.conn())
}
