package commands

import (
	"errors"
	"strings"
	"time"

	"tpts/internal/core/domain/model/group"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateGroupCommandIsNotConstructed = errors.New(
	"CreateGroupCommand must be created via NewCreateGroupCommand constructor",
)

// GroupTerms overrides the policy defaults of a new group. Zero fields keep the default.
type GroupTerms struct {
	TargetMembers int
	MinMembers    int
	DiscountRate  *decimal.Decimal
	Deadline      *time.Time
}

// CreateGroupCommand opens a group shipment on a route, collected at a warehouse.
type CreateGroupCommand struct {
	companyID kernel.UUID
	route     group.Route
	warehouse kernel.Address
	terms     GroupTerms

	guard guard.ConstructorGuard
}

func NewCreateGroupCommand(
	companyID kernel.UUID,
	route group.Route,
	warehouse kernel.Address,
	terms GroupTerms,
) (CreateGroupCommand, error) {
	var routeErr, termsErr error
	if strings.TrimSpace(route.SourceCity) == "" || strings.TrimSpace(route.TargetCity) == "" {
		routeErr = errs.NewValueIsRequiredError("route")
	}
	if terms.TargetMembers < 0 || terms.MinMembers < 0 {
		termsErr = errs.NewValueIsInvalidError("group size")
	}

	if err := errors.Join(companyID.Validate(), routeErr, warehouse.Validate(), termsErr); err != nil {
		return CreateGroupCommand{}, err
	}

	return CreateGroupCommand{
		companyID: companyID,
		route:     route,
		warehouse: warehouse,
		terms:     terms,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c CreateGroupCommand) Validate() error {
	return c.guard.Validate(ErrCreateGroupCommandIsNotConstructed)
}

func (c CreateGroupCommand) CompanyID() kernel.UUID    { return c.companyID }
func (c CreateGroupCommand) Route() group.Route        { return c.route }
func (c CreateGroupCommand) Warehouse() kernel.Address { return c.warehouse }
func (c CreateGroupCommand) Terms() GroupTerms         { return c.terms }
