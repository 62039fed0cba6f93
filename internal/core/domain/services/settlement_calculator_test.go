package services_test

import (
	"testing"

	"tpts/internal/core/domain/model/company"
	"tpts/internal/core/domain/model/group"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/ledger"
	"tpts/internal/core/domain/services"
	"tpts/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	bounds = company.CommissionBounds{Min: kernel.Percent(5), Max: kernel.Percent(20)}
	shares = ledger.GroupShares{Pickup: kernel.Percent(10), Delivery: kernel.Percent(10)}
)

func newCompany(t *testing.T, platform float64) *company.Company {
	t.Helper()
	c, err := company.RestoreCompany(kernel.NewUUID(), "FastShip", "Chennai",
		kernel.Percent(platform), kernel.Percent(20), company.CommissionBounds{Min: decimal.Zero, Max: decimal.NewFromInt(1)}, 1)
	require.NoError(t, err)
	return c
}

func TestSettlementCalculator_ParcelSplit(t *testing.T) {
	calc := services.NewSettlementCalculator(bounds, shares)

	s, err := calc.ParcelSplit(newCompany(t, 10), decimal.NewFromInt(1000), decimal.Zero, decimal.Zero)

	require.NoError(t, err)
	assert.True(t, s.PlatformCommission.Equal(decimal.NewFromInt(100)))
	assert.True(t, s.AgentEarning.Equal(decimal.NewFromInt(180)))
	assert.True(t, s.CompanyNetEarning.Equal(decimal.NewFromInt(720)))
}

func TestSettlementCalculator_RateOutsideBounds(t *testing.T) {
	calc := services.NewSettlementCalculator(bounds, shares)

	_, err := calc.ParcelSplit(newCompany(t, 30), decimal.NewFromInt(1000), decimal.Zero, decimal.Zero)

	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestSettlementCalculator_GroupMemberSplit(t *testing.T) {
	calc := services.NewSettlementCalculator(bounds, shares)

	s, err := calc.GroupMemberSplit(newCompany(t, 10), decimal.NewFromInt(800))

	require.NoError(t, err)
	assert.True(t, s.AgentEarning.IsZero())
	assert.True(t, s.CompanyNetEarning.Equal(decimal.NewFromInt(720)))
}

func TestSettlementCalculator_GroupSettlement(t *testing.T) {
	calc := services.NewSettlementCalculator(bounds, shares)
	warehouse, err := kernel.NewAddress("Hub", "1", "Plot 4", "Chennai", "600032", kernel.Coordinates{})
	require.NoError(t, err)
	pickupAgent, deliveryAgent := kernel.NewUUID(), kernel.NewUUID()

	g, err := group.RestoreGroup(group.Snapshot{
		Params: group.Params{
			ID: kernel.NewUUID(), Code: "G1", CompanyID: kernel.NewUUID(),
			Route:     group.Route{SourceCity: "Chennai", TargetCity: "Pune"},
			Warehouse: warehouse, TargetMembers: 2, MinMembers: 2, Deadline: now,
		},
		Members: []group.Member{
			{ParcelID: kernel.NewUUID(), CustomerID: kernel.NewUUID(), FinalPrice: decimal.NewFromInt(600)},
			{ParcelID: kernel.NewUUID(), CustomerID: kernel.NewUUID(), FinalPrice: decimal.NewFromInt(400)},
		},
		Status:          group.Delivering,
		PickupAgentID:   &pickupAgent,
		DeliveryAgentID: &deliveryAgent,
	})
	require.NoError(t, err)

	s, err := calc.GroupSettlement(g, now)

	require.NoError(t, err)
	assert.True(t, s.TotalGroupValue.Equal(decimal.NewFromInt(1000)))
	assert.True(t, s.PickupEarnings.Equal(decimal.NewFromInt(100)))
	assert.True(t, s.DeliveryEarnings.Equal(decimal.NewFromInt(100)))
	assert.True(t, s.PickupAgentID.IsEqual(pickupAgent))
}
