package commands

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrSetCommissionRatesCommandIsNotConstructed = errors.New(
	"SetCommissionRatesCommand must be created via NewSetCommissionRatesCommand constructor",
)

// SetCommissionRatesCommand renegotiates a company's rates. Settled parcels keep theirs.
type SetCommissionRatesCommand struct {
	companyID    kernel.UUID
	platformRate decimal.Decimal
	agentRate    decimal.Decimal

	guard guard.ConstructorGuard
}

func NewSetCommissionRatesCommand(companyID kernel.UUID, platformRate, agentRate decimal.Decimal) (SetCommissionRatesCommand, error) {
	if err := companyID.Validate(); err != nil {
		return SetCommissionRatesCommand{}, err
	}
	return SetCommissionRatesCommand{
		companyID:    companyID,
		platformRate: platformRate,
		agentRate:    agentRate,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c SetCommissionRatesCommand) Validate() error {
	return c.guard.Validate(ErrSetCommissionRatesCommandIsNotConstructed)
}

func (c SetCommissionRatesCommand) CompanyID() kernel.UUID        { return c.companyID }
func (c SetCommissionRatesCommand) PlatformRate() decimal.Decimal { return c.platformRate }
func (c SetCommissionRatesCommand) AgentRate() decimal.Decimal    { return c.agentRate }
