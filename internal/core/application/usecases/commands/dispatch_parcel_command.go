package commands

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/guard"
)

var ErrDispatchParcelCommandIsNotConstructed = errors.New(
	"DispatchParcelCommand must be created via NewDispatchParcelCommand constructor",
)

// DispatchParcelCommand offers a confirmed parcel to the best eligible agent.
type DispatchParcelCommand struct {
	parcelID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDispatchParcelCommand(parcelID kernel.UUID) (DispatchParcelCommand, error) {
	if err := parcelID.Validate(); err != nil {
		return DispatchParcelCommand{}, err
	}
	return DispatchParcelCommand{parcelID: parcelID, guard: guard.NewConstructorGuard()}, nil
}

func (c DispatchParcelCommand) Validate() error {
	return c.guard.Validate(ErrDispatchParcelCommandIsNotConstructed)
}

func (c DispatchParcelCommand) ParcelID() kernel.UUID { return c.parcelID }
