package commands

import (
	"errors"
	"strings"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/parcel"
	"tpts/internal/pkg/guard"
)

var ErrCancelParcelCommandIsNotConstructed = errors.New(
	"CancelParcelCommand must be created via NewCancelParcelCommand constructor",
)

type CancelParcelCommand struct {
	parcelID kernel.UUID
	reason   string

	guard guard.ConstructorGuard
}

func NewCancelParcelCommand(parcelID kernel.UUID, reason string) (CancelParcelCommand, error) {
	reason = strings.TrimSpace(reason)
	var reasonErr error
	if reason == "" {
		reasonErr = parcel.ErrCancellationReasonIsRequired
	}
	if err := errors.Join(parcelID.Validate(), reasonErr); err != nil {
		return CancelParcelCommand{}, err
	}
	return CancelParcelCommand{parcelID: parcelID, reason: reason, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelParcelCommand) Validate() error {
	return c.guard.Validate(ErrCancelParcelCommandIsNotConstructed)
}

func (c CancelParcelCommand) ParcelID() kernel.UUID { return c.parcelID }
func (c CancelParcelCommand) Reason() string        { return c.reason }
