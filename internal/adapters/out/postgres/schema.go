package postgres

import (
	"fmt"

	"tpts/internal/adapters/out/postgres/agentrepo"
	"tpts/internal/adapters/out/postgres/assignmentrepo"
	"tpts/internal/adapters/out/postgres/companyrepo"
	"tpts/internal/adapters/out/postgres/grouprepo"
	"tpts/internal/adapters/out/postgres/ledgerrepo"
	"tpts/internal/adapters/out/postgres/parcelrepo"
	"tpts/internal/core/domain/model/assignment"

	"gorm.io/gorm"
)

// Models lists every table the repositories write.
func Models() []any {
	return []any{
		&companyrepo.CompanyDTO{},
		&agentrepo.AgentDTO{},
		&parcelrepo.ParcelDTO{},
		&assignmentrepo.AssignmentDTO{},
		&grouprepo.GroupDTO{},
		&grouprepo.MemberDTO{},
		&ledgerrepo.EarningDTO{},
		&ledgerrepo.TransactionDTO{},
		&ledgerrepo.WalletDTO{},
		&ledgerrepo.PayoutDTO{},
		&ledgerrepo.GroupSettlementDTO{},
	}
}

// Migrate creates or extends the tables, then adds the partial unique indexes GORM tags
// cannot express: at most one Pending or Accepted offer per parcel and per group leg, and
// at most one Pending offer per agent. A concurrent dispatch that loses on any of them
// surfaces as errs.ErrConcurrentModification and re-selects.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	active := fmt.Sprintf("status IN (%d, %d)", assignment.Pending, assignment.Accepted)
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_assignments_active_parcel
			ON assignments (parcel_id) WHERE parcel_id IS NOT NULL AND ` + active,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_assignments_active_group_leg
			ON assignments (group_id, leg) WHERE group_id IS NOT NULL AND ` + active,
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS uq_assignments_pending_agent
			ON assignments (agent_id) WHERE status = %d`, assignment.Pending),
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
