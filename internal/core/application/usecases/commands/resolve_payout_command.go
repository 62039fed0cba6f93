package commands

import (
	"errors"
	"strings"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/guard"
)

var (
	ErrApprovePayoutCommandIsNotConstructed = errors.New(
		"ApprovePayoutCommand must be created via NewApprovePayoutCommand constructor",
	)
	ErrRejectPayoutCommandIsNotConstructed = errors.New(
		"RejectPayoutCommand must be created via NewRejectPayoutCommand constructor",
	)
)

// ApprovePayoutCommand confirms a payout was sent, with the bank or gateway reference.
type ApprovePayoutCommand struct {
	payoutID  kernel.UUID
	reference string

	guard guard.ConstructorGuard
}

func NewApprovePayoutCommand(payoutID kernel.UUID, reference string) (ApprovePayoutCommand, error) {
	reference = strings.TrimSpace(reference)
	var refErr error
	if reference == "" {
		refErr = errs.NewValueIsRequiredError("payout reference")
	}
	if err := errors.Join(payoutID.Validate(), refErr); err != nil {
		return ApprovePayoutCommand{}, err
	}
	return ApprovePayoutCommand{payoutID: payoutID, reference: reference, guard: guard.NewConstructorGuard()}, nil
}

func (c ApprovePayoutCommand) Validate() error {
	return c.guard.Validate(ErrApprovePayoutCommandIsNotConstructed)
}

func (c ApprovePayoutCommand) PayoutID() kernel.UUID { return c.payoutID }
func (c ApprovePayoutCommand) Reference() string     { return c.reference }

// RejectPayoutCommand refuses a payout; its reserved amount returns to the balance.
type RejectPayoutCommand struct {
	payoutID kernel.UUID
	reason   string

	guard guard.ConstructorGuard
}

func NewRejectPayoutCommand(payoutID kernel.UUID, reason string) (RejectPayoutCommand, error) {
	if err := payoutID.Validate(); err != nil {
		return RejectPayoutCommand{}, err
	}
	return RejectPayoutCommand{payoutID: payoutID, reason: strings.TrimSpace(reason), guard: guard.NewConstructorGuard()}, nil
}

func (c RejectPayoutCommand) Validate() error {
	return c.guard.Validate(ErrRejectPayoutCommandIsNotConstructed)
}

func (c RejectPayoutCommand) PayoutID() kernel.UUID { return c.payoutID }
func (c RejectPayoutCommand) Reason() string        { return c.reason }
