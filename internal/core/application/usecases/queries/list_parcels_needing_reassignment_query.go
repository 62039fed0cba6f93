package queries

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/guard"
)

var ErrListParcelsNeedingReassignmentQueryIsNotConstructed = errors.New(
	"ListParcelsNeedingReassignmentQuery must be created via NewListParcelsNeedingReassignmentQuery constructor",
)

// ListParcelsNeedingReassignmentQuery is the company's manual-assignment queue: parcels and
// groups whose automatic offers ran out.
type ListParcelsNeedingReassignmentQuery struct {
	companyID kernel.UUID
	guard     guard.ConstructorGuard
}

func NewListParcelsNeedingReassignmentQuery(companyID kernel.UUID) (ListParcelsNeedingReassignmentQuery, error) {
	if err := companyID.Validate(); err != nil {
		return ListParcelsNeedingReassignmentQuery{}, err
	}
	return ListParcelsNeedingReassignmentQuery{companyID: companyID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListParcelsNeedingReassignmentQuery) Validate() error {
	return q.guard.Validate(ErrListParcelsNeedingReassignmentQueryIsNotConstructed)
}

func (q ListParcelsNeedingReassignmentQuery) CompanyID() kernel.UUID { return q.companyID }
