package commands

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/guard"
)

var ErrResolveDisputeCommandIsNotConstructed = errors.New(
	"ResolveDisputeCommand must be created via NewResolveDisputeCommand constructor",
)

// ResolveDisputeCommand ends a dispute, either in favour of the payees or with a refund
// to the customer.
type ResolveDisputeCommand struct {
	parcelID kernel.UUID
	refund   bool

	guard guard.ConstructorGuard
}

func NewResolveDisputeCommand(parcelID kernel.UUID, refund bool) (ResolveDisputeCommand, error) {
	if err := parcelID.Validate(); err != nil {
		return ResolveDisputeCommand{}, err
	}
	return ResolveDisputeCommand{parcelID: parcelID, refund: refund, guard: guard.NewConstructorGuard()}, nil
}

func (c ResolveDisputeCommand) Validate() error {
	return c.guard.Validate(ErrResolveDisputeCommandIsNotConstructed)
}

func (c ResolveDisputeCommand) ParcelID() kernel.UUID { return c.parcelID }
func (c ResolveDisputeCommand) Refund() bool          { return c.refund }
