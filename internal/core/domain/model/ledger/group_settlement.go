package ledger

import (
	"errors"
	"time"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// GroupShares are the fractions of a group's total value paid to its two agents.
type GroupShares struct {
	Pickup   decimal.Decimal
	Delivery decimal.Decimal
}

// GroupSettlement records the one-time payment of a completed group's agents by its company.
type GroupSettlement struct {
	ID               kernel.UUID
	GroupID          kernel.UUID
	CompanyID        kernel.UUID
	PickupAgentID    kernel.UUID
	DeliveryAgentID  kernel.UUID
	TotalGroupValue  decimal.Decimal
	Shares           GroupShares
	PickupEarnings   decimal.Decimal
	DeliveryEarnings decimal.Decimal
	CreatedAt        time.Time
}

// NewGroupSettlement computes both leg earnings from the group's total value.
func NewGroupSettlement(
	groupID, companyID, pickupAgentID, deliveryAgentID kernel.UUID,
	totalGroupValue decimal.Decimal,
	shares GroupShares,
	now time.Time,
) (GroupSettlement, error) {
	var sharesErr error
	if shares.Pickup.IsNegative() || shares.Delivery.IsNegative() ||
		shares.Pickup.Add(shares.Delivery).GreaterThan(decimal.NewFromInt(1)) {
		sharesErr = errs.NewValueIsOutOfRangeError("group agent shares", shares.Pickup.Add(shares.Delivery), 0, 1)
	}

	if err := errors.Join(
		sharesErr,
		groupID.Validate(),
		companyID.Validate(),
		pickupAgentID.Validate(),
		deliveryAgentID.Validate(),
	); err != nil {
		return GroupSettlement{}, err
	}

	return GroupSettlement{
		ID:               kernel.NewUUID(),
		GroupID:          groupID,
		CompanyID:        companyID,
		PickupAgentID:    pickupAgentID,
		DeliveryAgentID:  deliveryAgentID,
		TotalGroupValue:  totalGroupValue,
		Shares:           shares,
		PickupEarnings:   kernel.ApplyRate(totalGroupValue, shares.Pickup),
		DeliveryEarnings: kernel.ApplyRate(totalGroupValue, shares.Delivery),
		CreatedAt:        now,
	}, nil
}

// CompanyCost is what the company pays for both legs.
func (s GroupSettlement) CompanyCost() decimal.Decimal {
	return s.PickupEarnings.Add(s.DeliveryEarnings)
}
