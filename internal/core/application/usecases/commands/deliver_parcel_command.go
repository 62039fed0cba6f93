package commands

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrDeliverParcelCommandIsNotConstructed = errors.New(
	"DeliverParcelCommand must be created via NewDeliverParcelCommand constructor",
)

// DeliverParcelCommand is the holding agent handing a parcel to its recipient against
// the delivery OTP. Proof is optional; tip is what the customer added for the agent.
type DeliverParcelCommand struct {
	parcelID kernel.UUID
	agentID  kernel.UUID
	otp      string
	proof    *Document
	tip      decimal.Decimal

	guard guard.ConstructorGuard
}

func NewDeliverParcelCommand(
	parcelID, agentID kernel.UUID,
	otp string,
	proof *Document,
	tip decimal.Decimal,
) (DeliverParcelCommand, error) {
	var tipErr error
	if tip.IsNegative() {
		tipErr = errs.NewValueIsOutOfRangeError("tip", tip, 0, "unbounded")
	}
	if err := errors.Join(requireIDs(parcelID, agentID), proof.validate(), tipErr); err != nil {
		return DeliverParcelCommand{}, err
	}

	return DeliverParcelCommand{
		parcelID: parcelID,
		agentID:  agentID,
		otp:      otp,
		proof:    proof,
		tip:      tip,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c DeliverParcelCommand) Validate() error {
	return c.guard.Validate(ErrDeliverParcelCommandIsNotConstructed)
}

func (c DeliverParcelCommand) ParcelID() kernel.UUID { return c.parcelID }
func (c DeliverParcelCommand) AgentID() kernel.UUID  { return c.agentID }
func (c DeliverParcelCommand) Otp() string           { return c.otp }
func (c DeliverParcelCommand) Proof() *Document      { return c.proof }
func (c DeliverParcelCommand) Tip() decimal.Decimal  { return c.tip }
