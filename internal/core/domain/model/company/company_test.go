package company_test

import (
	"testing"

	"tpts/internal/core/domain/model/company"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bounds = company.CommissionBounds{Min: kernel.Percent(5), Max: kernel.Percent(25)}

func TestNewCompany(t *testing.T) {
	c, err := company.NewCompany(kernel.NewUUID(), "FastShip", "Chennai", kernel.Percent(10), kernel.Percent(20), bounds)

	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.True(t, c.PlatformCommissionRate().Equal(decimal.RequireFromString("0.1")))
	assert.True(t, c.AgentCommissionRate().Equal(decimal.RequireFromString("0.2")))
}

func TestCompany_CommissionBounds(t *testing.T) {
	t.Run("platform rate below the minimum", func(t *testing.T) {
		_, err := company.NewCompany(kernel.NewUUID(), "FastShip", "", kernel.Percent(1), kernel.Percent(20), bounds)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("agent rate above one", func(t *testing.T) {
		_, err := company.NewCompany(kernel.NewUUID(), "FastShip", "", kernel.Percent(10), decimal.NewFromInt(2), bounds)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("failed update keeps previous rates", func(t *testing.T) {
		c, err := company.NewCompany(kernel.NewUUID(), "FastShip", "", kernel.Percent(10), kernel.Percent(20), bounds)
		require.NoError(t, err)

		require.Error(t, c.SetCommissionRates(kernel.Percent(30), kernel.Percent(20), bounds))
		assert.True(t, c.PlatformCommissionRate().Equal(kernel.Percent(10)))
	})
}

func TestCompany_NameRequired(t *testing.T) {
	_, err := company.NewCompany(kernel.NewUUID(), " ", "", kernel.Percent(10), kernel.Percent(20), bounds)
	assert.ErrorIs(t, err, company.ErrNameIsRequired)
}
