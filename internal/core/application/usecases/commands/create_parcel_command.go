package commands

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/parcel"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateParcelCommandIsNotConstructed = errors.New(
	"CreateParcelCommand must be created via NewCreateParcelCommand constructor",
)

// CreateParcelCommand books a shipment for a customer with a logistics company.
// Addresses are snapshots; later edits of the customer's address book do not affect it.
//
// Example:
//
//	cmd, err := NewCreateParcelCommand(customerID, companyID, pickup, delivery,
//	    parcel.Package{WeightKg: decimal.NewFromInt(2), Type: "box"}, decimal.NewFromInt(12))
//	if err != nil {
//	    return fmt.Errorf("invalid booking: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateParcelCommand struct {
	customerID kernel.UUID
	companyID  kernel.UUID
	pickup     kernel.Address
	delivery   kernel.Address
	pkg        parcel.Package
	distanceKm decimal.Decimal

	guard guard.ConstructorGuard
}

func NewCreateParcelCommand(
	customerID, companyID kernel.UUID,
	pickup, delivery kernel.Address,
	pkg parcel.Package,
	distanceKm decimal.Decimal,
) (CreateParcelCommand, error) {
	var distanceErr error
	if distanceKm.IsNegative() {
		distanceErr = errs.NewValueIsOutOfRangeError("distance", distanceKm, 0, "unbounded")
	}

	if err := errors.Join(
		requireIDs(customerID, companyID),
		pickup.Validate(),
		delivery.Validate(),
		pkg.Validate(),
		distanceErr,
	); err != nil {
		return CreateParcelCommand{}, err
	}

	return CreateParcelCommand{
		customerID: customerID,
		companyID:  companyID,
		pickup:     pickup,
		delivery:   delivery,
		pkg:        pkg,
		distanceKm: distanceKm,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateParcelCommand) Validate() error {
	return c.guard.Validate(ErrCreateParcelCommandIsNotConstructed)
}

func (c CreateParcelCommand) CustomerID() kernel.UUID     { return c.customerID }
func (c CreateParcelCommand) CompanyID() kernel.UUID      { return c.companyID }
func (c CreateParcelCommand) Pickup() kernel.Address      { return c.pickup }
func (c CreateParcelCommand) Delivery() kernel.Address    { return c.delivery }
func (c CreateParcelCommand) Package() parcel.Package     { return c.pkg }
func (c CreateParcelCommand) DistanceKm() decimal.Decimal { return c.distanceKm }
