package commands

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrSettleParcelCommandIsNotConstructed = errors.New(
	"SettleParcelCommand must be created via NewSettleParcelCommand constructor",
)

// SettleParcelCommand records the earning of a delivered parcel that was not settled on
// delivery, for instance after a manual correction.
type SettleParcelCommand struct {
	parcelID kernel.UUID
	bonus    decimal.Decimal
	tip      decimal.Decimal

	guard guard.ConstructorGuard
}

func NewSettleParcelCommand(parcelID kernel.UUID, bonus, tip decimal.Decimal) (SettleParcelCommand, error) {
	var amountErr error
	if bonus.IsNegative() || tip.IsNegative() {
		amountErr = errs.NewValueIsOutOfRangeError("bonus and tip", decimal.Min(bonus, tip), 0, "unbounded")
	}
	if err := errors.Join(parcelID.Validate(), amountErr); err != nil {
		return SettleParcelCommand{}, err
	}
	return SettleParcelCommand{parcelID: parcelID, bonus: bonus, tip: tip, guard: guard.NewConstructorGuard()}, nil
}

func (c SettleParcelCommand) Validate() error {
	return c.guard.Validate(ErrSettleParcelCommandIsNotConstructed)
}

func (c SettleParcelCommand) ParcelID() kernel.UUID  { return c.parcelID }
func (c SettleParcelCommand) Bonus() decimal.Decimal { return c.bonus }
func (c SettleParcelCommand) Tip() decimal.Decimal   { return c.tip }
