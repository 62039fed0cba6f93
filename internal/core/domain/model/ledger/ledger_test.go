package ledger_test

import (
	"testing"
	"time"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/ledger"
	"tpts/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

const holding = 72 * time.Hour

func newEarning(t *testing.T) *ledger.Earning {
	t.Helper()
	split, err := ledger.NewSplit(d("1000"), kernel.Percent(10), kernel.Percent(20), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	agentID := kernel.NewUUID()
	e, err := ledger.NewEarning(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), &agentID, split, now, holding)
	require.NoError(t, err)
	return e
}

func TestEarning_Clearance(t *testing.T) {
	e := newEarning(t)

	assert.False(t, e.Clear(now.Add(holding-time.Second)))
	assert.True(t, e.Clear(now.Add(holding)))
	assert.False(t, e.Clear(now.Add(holding)), "already cleared")
	assert.Equal(t, ledger.EarningCleared, e.Status())
	assert.ErrorIs(t, e.RaiseDispute(), errs.ErrInvalidStatusTransition)
}

func TestEarning_Dispute(t *testing.T) {
	t.Run("held earning does not clear", func(t *testing.T) {
		e := newEarning(t)
		require.NoError(t, e.RaiseDispute())

		assert.False(t, e.Clear(now.Add(2*holding)))

		require.NoError(t, e.ResolveDispute(false))
		assert.True(t, e.Clear(now.Add(2*holding)))
	})

	t.Run("refund reverses", func(t *testing.T) {
		e := newEarning(t)
		require.NoError(t, e.RaiseDispute())
		require.NoError(t, e.ResolveDispute(true))

		assert.Equal(t, ledger.EarningReversed, e.Status())
		assert.False(t, e.Clear(now.Add(2*holding)))
	})

	t.Run("resolve without dispute fails", func(t *testing.T) {
		assert.ErrorIs(t, newEarning(t).ResolveDispute(false), errs.ErrInvalidStatusTransition)
	})
}

func TestWalletPosting(t *testing.T) {
	owner := kernel.NewUUID()
	w, err := ledger.NewWallet(owner, ledger.RoleAgent)
	require.NoError(t, err)

	credit, err := ledger.NewPendingCredit(owner, ledger.RoleAgent, ledger.TxEarning, d("180"),
		ledger.References{}, "parcel", now, now.Add(holding))
	require.NoError(t, err)

	require.NoError(t, ledger.Post(w, credit))
	assert.True(t, w.Pending().Equal(d("180")))
	assert.True(t, w.Available().IsZero())
	assert.True(t, w.TotalEarned().Equal(d("180")))

	cleared, err := ledger.Clear(w, credit, now)
	require.NoError(t, err)
	assert.False(t, cleared, "not due yet")

	cleared, err = ledger.Clear(w, credit, now.Add(holding))
	require.NoError(t, err)
	assert.True(t, cleared)
	assert.True(t, w.Pending().IsZero())
	assert.True(t, w.Available().Equal(d("180")))

	cleared, err = ledger.Clear(w, credit, now.Add(holding))
	require.NoError(t, err)
	assert.False(t, cleared, "clearing twice is a no-op")
	assert.True(t, w.Available().Equal(d("180")))
}

func TestWalletPosting_Reserve(t *testing.T) {
	owner := kernel.NewUUID()
	w, err := ledger.RestoreWallet(owner, ledger.RoleCompany, d("50"), decimal.Zero, d("50"), 1)
	require.NoError(t, err)

	tooMuch, err := ledger.NewClearedEntry(owner, ledger.RoleCompany, ledger.TxPayoutReserve, d("-50.01"),
		ledger.References{}, "payout", now)
	require.NoError(t, err)
	require.ErrorIs(t, ledger.Post(w, tooMuch), errs.ErrInsufficientFunds)
	assert.True(t, w.Available().Equal(d("50")))

	reserve, err := ledger.NewClearedEntry(owner, ledger.RoleCompany, ledger.TxPayoutReserve, d("-50"),
		ledger.References{}, "payout", now)
	require.NoError(t, err)
	require.NoError(t, ledger.Post(w, reserve))
	assert.True(t, w.Available().IsZero())
	assert.True(t, w.TotalEarned().Equal(d("50")), "payouts are not earnings")
}

func TestWalletPosting_Reverse(t *testing.T) {
	owner := kernel.NewUUID()
	w, err := ledger.NewWallet(owner, ledger.RoleCompany)
	require.NoError(t, err)
	credit, err := ledger.NewPendingCredit(owner, ledger.RoleCompany, ledger.TxEarning, d("720"),
		ledger.References{}, "parcel", now, now.Add(holding))
	require.NoError(t, err)
	require.NoError(t, ledger.Post(w, credit))

	credit.SetHeld(true)
	cleared, err := ledger.Clear(w, credit, now.Add(holding))
	require.NoError(t, err)
	assert.False(t, cleared, "held entries stay pending")

	require.NoError(t, ledger.Reverse(w, credit))
	assert.Equal(t, ledger.TxReversed, credit.Status())
	assert.True(t, w.Pending().IsZero())
	assert.True(t, w.TotalEarned().IsZero())
	assert.ErrorIs(t, ledger.Reverse(w, credit), errs.ErrInvalidStatusTransition)
}

func TestWalletPosting_WrongOwner(t *testing.T) {
	w, err := ledger.NewWallet(kernel.NewUUID(), ledger.RoleAgent)
	require.NoError(t, err)
	tx, err := ledger.NewPendingCredit(kernel.NewUUID(), ledger.RoleAgent, ledger.TxEarning, d("1"),
		ledger.References{}, "", now, now)
	require.NoError(t, err)

	assert.ErrorIs(t, ledger.Post(w, tx), errs.ErrDataIntegrity)
}

func TestPayout(t *testing.T) {
	p, err := ledger.NewPayout(kernel.NewUUID(), kernel.NewUUID(), ledger.RoleAgent, d("100"), now)
	require.NoError(t, err)

	require.NoError(t, p.Approve("UTR123", now))
	assert.Equal(t, ledger.PayoutProcessed, p.Status())
	assert.ErrorIs(t, p.Approve("UTR124", now), errs.ErrPaymentAlreadyProcessed)
	assert.ErrorIs(t, p.Reject("late", now), errs.ErrPaymentAlreadyProcessed)

	_, err = ledger.NewPayout(kernel.NewUUID(), kernel.NewUUID(), ledger.RoleAgent, decimal.Zero, now)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestGroupSettlement(t *testing.T) {
	shares := ledger.GroupShares{Pickup: kernel.Percent(10), Delivery: kernel.Percent(10)}

	s, err := ledger.NewGroupSettlement(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		d("2450"), shares, now)

	require.NoError(t, err)
	assert.True(t, s.PickupEarnings.Equal(d("245")))
	assert.True(t, s.DeliveryEarnings.Equal(d("245")))
	assert.True(t, s.CompanyCost().Equal(d("490")))

	_, err = ledger.NewGroupSettlement(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		d("1"), ledger.GroupShares{Pickup: kernel.Percent(60), Delivery: kernel.Percent(60)}, now)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
