package parcel

import (
	"errors"
	"fmt"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Pricing is the computed price of a parcel. Total is what the customer pays and what
// settlement splits; it always equals basePrice + tax - discount.
type Pricing struct {
	distanceKm decimal.Decimal
	basePrice  decimal.Decimal
	discount   decimal.Decimal
	tax        decimal.Decimal
	total      decimal.Decimal
}

// NewPricing prices a parcel without discount. Tax is charged on the base price.
func NewPricing(distanceKm, basePrice, taxRate decimal.Decimal) (Pricing, error) {
	if err := errors.Join(
		notNegative("distance", distanceKm),
		positive("base price", basePrice),
		notNegative("tax rate", taxRate),
	); err != nil {
		return Pricing{}, err
	}

	tax := kernel.ApplyRate(basePrice, taxRate)
	return Pricing{
		distanceKm: distanceKm,
		basePrice:  kernel.RoundMoney(basePrice),
		discount:   decimal.Zero,
		tax:        tax,
		total:      kernel.RoundMoney(basePrice).Add(tax),
	}, nil
}

// RestorePricing rebuilds a stored price and re-checks that it adds up.
func RestorePricing(distanceKm, basePrice, discount, tax, total decimal.Decimal) (Pricing, error) {
	p := Pricing{distanceKm: distanceKm, basePrice: basePrice, discount: discount, tax: tax, total: total}
	if !basePrice.Add(tax).Sub(discount).Equal(total) {
		return Pricing{}, errs.NewDataIntegrityError("parcel total %s does not match base %s + tax %s - discount %s",
			total, basePrice, tax, discount)
	}
	return p, nil
}

// WithDiscount applies rate to the undiscounted total (base + tax). A second discount
// replaces the first rather than compounding.
func (p Pricing) WithDiscount(rate decimal.Decimal) (Pricing, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return p, errs.NewValueIsOutOfRangeError("discount rate", rate, 0, 1)
	}

	gross := p.basePrice.Add(p.tax)
	p.discount = kernel.ApplyRate(gross, rate)
	p.total = gross.Sub(p.discount)
	return p, nil
}

func (p Pricing) DistanceKm() decimal.Decimal { return p.distanceKm }
func (p Pricing) BasePrice() decimal.Decimal  { return p.basePrice }
func (p Pricing) Discount() decimal.Decimal   { return p.discount }
func (p Pricing) Tax() decimal.Decimal        { return p.tax }
func (p Pricing) Total() decimal.Decimal      { return p.total }

// Package describes what is being shipped.
type Package struct {
	WeightKg    decimal.Decimal
	Type        string
	Description string
}

// Validate requires a positive weight and a package type.
func (p Package) Validate() error {
	var typeErr error
	if p.Type == "" {
		typeErr = errs.NewValueIsRequiredError("package type")
	}
	return errors.Join(positive("weight", p.WeightKg), typeErr)
}

func positive(name string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%s is not greater than 0", v))
	}
	return nil
}

func notNegative(name string, v decimal.Decimal) error {
	if v.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%s is negative", v))
	}
	return nil
}
