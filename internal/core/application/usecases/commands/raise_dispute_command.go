package commands

import (
	"errors"
	"strings"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/guard"
)

var ErrRaiseDisputeCommandIsNotConstructed = errors.New(
	"RaiseDisputeCommand must be created via NewRaiseDisputeCommand constructor",
)

// RaiseDisputeCommand holds the clearance of a delivered parcel's earning.
type RaiseDisputeCommand struct {
	parcelID kernel.UUID
	reason   string

	guard guard.ConstructorGuard
}

func NewRaiseDisputeCommand(parcelID kernel.UUID, reason string) (RaiseDisputeCommand, error) {
	reason = strings.TrimSpace(reason)
	var reasonErr error
	if reason == "" {
		reasonErr = errs.NewValueIsRequiredError("dispute reason")
	}
	if err := errors.Join(parcelID.Validate(), reasonErr); err != nil {
		return RaiseDisputeCommand{}, err
	}
	return RaiseDisputeCommand{parcelID: parcelID, reason: reason, guard: guard.NewConstructorGuard()}, nil
}

func (c RaiseDisputeCommand) Validate() error {
	return c.guard.Validate(ErrRaiseDisputeCommandIsNotConstructed)
}

func (c RaiseDisputeCommand) ParcelID() kernel.UUID { return c.parcelID }
func (c RaiseDisputeCommand) Reason() string        { return c.reason }
