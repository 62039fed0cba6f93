package commands

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrRequestPayoutCommandIsNotConstructed = errors.New(
	"RequestPayoutCommand must be created via NewRequestPayoutCommand constructor",
)

// RequestPayoutCommand withdraws part of a company's or agent's available balance.
type RequestPayoutCommand struct {
	ownerID kernel.UUID
	amount  decimal.Decimal

	guard guard.ConstructorGuard
}

func NewRequestPayoutCommand(ownerID kernel.UUID, amount decimal.Decimal) (RequestPayoutCommand, error) {
	var amountErr error
	if !amount.IsPositive() {
		amountErr = errs.NewValueIsOutOfRangeError("payout amount", amount, "0.01", "unbounded")
	}
	if err := errors.Join(ownerID.Validate(), amountErr); err != nil {
		return RequestPayoutCommand{}, err
	}
	return RequestPayoutCommand{
		ownerID: ownerID,
		amount:  kernel.RoundMoney(amount),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RequestPayoutCommand) Validate() error {
	return c.guard.Validate(ErrRequestPayoutCommandIsNotConstructed)
}

func (c RequestPayoutCommand) OwnerID() kernel.UUID    { return c.ownerID }
func (c RequestPayoutCommand) Amount() decimal.Decimal { return c.amount }
