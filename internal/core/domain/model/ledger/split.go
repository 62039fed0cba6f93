package ledger

import (
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Split is the division of a delivered parcel's order amount.
//
//	PlatformCommission + CompanyNetEarning + AgentEarning == OrderAmount
//
// AgentBonus and CustomerTip are paid on top of AgentEarning and are not part of the identity.
type Split struct {
	OrderAmount        decimal.Decimal
	PlatformRate       decimal.Decimal
	AgentRate          decimal.Decimal
	PlatformCommission decimal.Decimal
	CompanyNetEarning  decimal.Decimal
	AgentEarning       decimal.Decimal
	AgentBonus         decimal.Decimal
	CustomerTip        decimal.Decimal
}

// NewSplit computes the split. The platform commission is taken first and rounded to the
// currency unit; the agent's share is a rate of the remainder; the company keeps the rest,
// so rounding never breaks the identity.
func NewSplit(orderAmount, platformRate, agentRate, bonus, tip decimal.Decimal) (Split, error) {
	if !orderAmount.IsPositive() {
		return Split{}, errs.NewValueIsInvalidError("order amount")
	}
	if bonus.IsNegative() || tip.IsNegative() {
		return Split{}, errs.NewValueIsInvalidError("bonus and tip")
	}

	amount := kernel.RoundMoney(orderAmount)
	platform := kernel.ApplyRate(amount, platformRate)
	remainder := amount.Sub(platform)
	agent := kernel.ApplyRate(remainder, agentRate)

	s := Split{
		OrderAmount:        amount,
		PlatformRate:       platformRate,
		AgentRate:          agentRate,
		PlatformCommission: platform,
		CompanyNetEarning:  remainder.Sub(agent),
		AgentEarning:       agent,
		AgentBonus:         kernel.RoundMoney(bonus),
		CustomerTip:        kernel.RoundMoney(tip),
	}
	return s, s.Reconcile()
}

// CompanyEarning is the company's gross share before paying its agent.
func (s Split) CompanyEarning() decimal.Decimal {
	return s.CompanyNetEarning.Add(s.AgentEarning)
}

// AgentTotal is what the agent is credited: share plus bonus plus tip.
func (s Split) AgentTotal() decimal.Decimal {
	return s.AgentEarning.Add(s.AgentBonus).Add(s.CustomerTip)
}

// Reconcile verifies the split identity and that no share is negative.
func (s Split) Reconcile() error {
	sum := s.PlatformCommission.Add(s.CompanyNetEarning).Add(s.AgentEarning)
	if !sum.Equal(s.OrderAmount) {
		return errs.NewDataIntegrityError("split of %s does not reconcile: platform %s + company %s + agent %s = %s",
			s.OrderAmount, s.PlatformCommission, s.CompanyNetEarning, s.AgentEarning, sum)
	}
	if s.PlatformCommission.IsNegative() || s.CompanyNetEarning.IsNegative() || s.AgentEarning.IsNegative() {
		return errs.NewDataIntegrityError("split of %s has a negative share", s.OrderAmount)
	}
	return nil
}
