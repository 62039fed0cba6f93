package commands

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/guard"
)

var ErrHandlePaymentResultCommandIsNotConstructed = errors.New(
	"HandlePaymentResultCommand must be created via NewHandlePaymentResultCommand constructor",
)

// HandlePaymentResultCommand carries the payment gateway's verdict on a parcel's checkout.
type HandlePaymentResultCommand struct {
	parcelID  kernel.UUID
	success   bool
	reference string

	guard guard.ConstructorGuard
}

func NewHandlePaymentResultCommand(parcelID kernel.UUID, success bool, reference string) (HandlePaymentResultCommand, error) {
	if err := parcelID.Validate(); err != nil {
		return HandlePaymentResultCommand{}, err
	}
	return HandlePaymentResultCommand{
		parcelID:  parcelID,
		success:   success,
		reference: reference,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c HandlePaymentResultCommand) Validate() error {
	return c.guard.Validate(ErrHandlePaymentResultCommandIsNotConstructed)
}

func (c HandlePaymentResultCommand) ParcelID() kernel.UUID { return c.parcelID }
func (c HandlePaymentResultCommand) Success() bool         { return c.success }
func (c HandlePaymentResultCommand) Reference() string     { return c.reference }
