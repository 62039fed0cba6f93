package commands

import (
	"errors"
	"slices"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/guard"
)

var ErrRegisterAgentCommandIsNotConstructed = errors.New(
	"RegisterAgentCommand must be created via NewRegisterAgentCommand constructor",
)

// RegisterAgentCommand adds a delivery agent to a company's fleet.
type RegisterAgentCommand struct {
	companyID           kernel.UUID
	name                string
	phone               string
	city                string
	servicePincodes     []string
	maxConcurrentOrders int

	guard guard.ConstructorGuard
}

func NewRegisterAgentCommand(
	companyID kernel.UUID,
	name, phone, city string,
	servicePincodes []string,
	maxConcurrentOrders int,
) (RegisterAgentCommand, error) {
	var capacityErr error
	if maxConcurrentOrders < 1 {
		capacityErr = errs.NewValueIsOutOfRangeError("max concurrent orders", maxConcurrentOrders, 1, "unbounded")
	}
	if err := errors.Join(companyID.Validate(), capacityErr); err != nil {
		return RegisterAgentCommand{}, err
	}

	return RegisterAgentCommand{
		companyID:           companyID,
		name:                name,
		phone:               phone,
		city:                city,
		servicePincodes:     slices.Clone(servicePincodes),
		maxConcurrentOrders: maxConcurrentOrders,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterAgentCommand) Validate() error {
	return c.guard.Validate(ErrRegisterAgentCommandIsNotConstructed)
}

func (c RegisterAgentCommand) CompanyID() kernel.UUID    { return c.companyID }
func (c RegisterAgentCommand) Name() string              { return c.name }
func (c RegisterAgentCommand) Phone() string             { return c.phone }
func (c RegisterAgentCommand) City() string              { return c.city }
func (c RegisterAgentCommand) ServicePincodes() []string { return slices.Clone(c.servicePincodes) }
func (c RegisterAgentCommand) MaxConcurrentOrders() int  { return c.maxConcurrentOrders }
