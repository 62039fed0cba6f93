package kernel

import (
	"github.com/shopspring/decimal"
)

// CurrencyScale is the number of decimal places of the smallest currency unit.
const CurrencyScale = 2

// RoundMoney rounds half away from zero to the smallest currency unit.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyScale)
}

// ApplyRate returns amount × rate rounded to the smallest currency unit.
func ApplyRate(amount, rate decimal.Decimal) decimal.Decimal {
	return RoundMoney(amount.Mul(rate))
}

// Percent converts a percentage such as 10 into the rate 0.10.
func Percent(p float64) decimal.Decimal {
	return decimal.NewFromFloat(p).Div(decimal.NewFromInt(100))
}
