package commands

import (
	"errors"
	"strings"

	"tpts/internal/core/domain/model/company"
	"tpts/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrRegisterCompanyCommandIsNotConstructed = errors.New(
	"RegisterCompanyCommand must be created via NewRegisterCompanyCommand constructor",
)

// RegisterCompanyCommand onboards a logistics company with its negotiated rates.
type RegisterCompanyCommand struct {
	name         string
	city         string
	platformRate decimal.Decimal
	agentRate    decimal.Decimal

	guard guard.ConstructorGuard
}

func NewRegisterCompanyCommand(name, city string, platformRate, agentRate decimal.Decimal) (RegisterCompanyCommand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return RegisterCompanyCommand{}, company.ErrNameIsRequired
	}
	return RegisterCompanyCommand{
		name:         name,
		city:         strings.TrimSpace(city),
		platformRate: platformRate,
		agentRate:    agentRate,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterCompanyCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCompanyCommandIsNotConstructed)
}

func (c RegisterCompanyCommand) Name() string                  { return c.name }
func (c RegisterCompanyCommand) City() string                  { return c.city }
func (c RegisterCompanyCommand) PlatformRate() decimal.Decimal { return c.platformRate }
func (c RegisterCompanyCommand) AgentRate() decimal.Decimal    { return c.agentRate }
