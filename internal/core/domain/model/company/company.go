// Package company holds the logistics company aggregate and its commission terms.
package company

import (
	"errors"
	"strings"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrNameIsRequired          = errs.NewValueIsRequiredError("company name")
	ErrCompanyIsNotConstructed = errors.New("Company must be created via NewCompany constructor")
)

// CommissionBounds is the platform-wide range a company's platform commission rate must fall in.
type CommissionBounds struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Company is a logistics company. Its platform commission rate is negotiated per company
// within CommissionBounds; its agent commission rate is the share of the post-commission
// remainder paid to the delivering agent.
type Company struct {
	id                     kernel.UUID
	name                   string
	city                   string
	platformCommissionRate decimal.Decimal
	agentCommissionRate    decimal.Decimal
	kernel.Versioned
	guard guard.ConstructorGuard
}

func NewCompany(id kernel.UUID, name, city string, platformRate, agentRate decimal.Decimal, bounds CommissionBounds) (*Company, error) {
	return RestoreCompany(id, name, city, platformRate, agentRate, bounds, 0)
}

// RestoreCompany rebuilds a company from storage. Stored rates are re-checked against
// the current bounds so a tightened policy surfaces as an error instead of a silent split.
func RestoreCompany(
	id kernel.UUID,
	name, city string,
	platformRate, agentRate decimal.Decimal,
	bounds CommissionBounds,
	version int64,
) (*Company, error) {
	c := &Company{
		Versioned: kernel.RestoreVersioned(version),
		guard:     guard.NewConstructorGuard(),
	}

	name = strings.TrimSpace(name)
	var nameErr error
	if name == "" {
		nameErr = ErrNameIsRequired
	}

	if err := errors.Join(id.Validate(), nameErr, c.SetCommissionRates(platformRate, agentRate, bounds)); err != nil {
		return nil, err
	}

	c.id = id
	c.name = name
	c.city = strings.TrimSpace(city)
	return c, nil
}

// SetCommissionRates replaces both rates after validating them.
func (c *Company) SetCommissionRates(platformRate, agentRate decimal.Decimal, bounds CommissionBounds) error {
	if platformRate.LessThan(bounds.Min) || platformRate.GreaterThan(bounds.Max) {
		return errs.NewValueIsOutOfRangeError("platform commission rate", platformRate, bounds.Min, bounds.Max)
	}
	if agentRate.IsNegative() || agentRate.GreaterThan(decimal.NewFromInt(1)) {
		return errs.NewValueIsOutOfRangeError("agent commission rate", agentRate, 0, 1)
	}
	c.platformCommissionRate = platformRate
	c.agentCommissionRate = agentRate
	return nil
}

func (c *Company) Validate() error {
	if c == nil {
		return ErrCompanyIsNotConstructed
	}
	return c.guard.Validate(ErrCompanyIsNotConstructed)
}

func (c *Company) ID() kernel.UUID                         { return c.id }
func (c *Company) Name() string                            { return c.name }
func (c *Company) City() string                            { return c.city }
func (c *Company) PlatformCommissionRate() decimal.Decimal { return c.platformCommissionRate }
func (c *Company) AgentCommissionRate() decimal.Decimal    { return c.agentCommissionRate }
