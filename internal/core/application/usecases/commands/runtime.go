package commands

import (
	"context"
	"errors"
	"time"

	"tpts/internal/core/domain/model/company"
	"tpts/internal/core/domain/model/ledger"
	"tpts/internal/core/domain/services"
	"tpts/internal/core/ports"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/retry"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DispatchPolicy tunes the offer protocol.
type DispatchPolicy struct {
	// ResponseTimeout is how long an agent has to answer an offer.
	ResponseTimeout time.Duration
	// MaxAttempts is the number of automatic offers per subject before it is handed to
	// the company for manual assignment.
	MaxAttempts int
	Ranking     services.RankingWeights
}

// GroupPolicy holds the defaults a company's group starts with unless it overrides them.
type GroupPolicy struct {
	TargetMembers int
	MinMembers    int
	DiscountRate  decimal.Decimal
	OpenFor       time.Duration
	Shares        ledger.GroupShares
}

// SettlementPolicy bounds commission rates and sets the clearance delay.
type SettlementPolicy struct {
	CommissionBounds company.CommissionBounds
	HoldingPeriod    time.Duration
}

// PricingPolicy computes a parcel's base price as BaseFare + PerKm*distance + PerKg*weight.
type PricingPolicy struct {
	BaseFare decimal.Decimal
	PerKm    decimal.Decimal
	PerKg    decimal.Decimal
	TaxRate  decimal.Decimal
}

// Policy is the business configuration every handler reads.
type Policy struct {
	Dispatch   DispatchPolicy
	Group      GroupPolicy
	Settlement SettlementPolicy
	Pricing    PricingPolicy
	// SweepBatchSize caps the rows a sweep touches per run; the next tick picks up the rest.
	SweepBatchSize int
}

// DefaultPolicy returns the values the platform runs with when no policy file overrides them.
func DefaultPolicy() Policy {
	return Policy{
		Dispatch: DispatchPolicy{
			ResponseTimeout: 2 * time.Minute,
			MaxAttempts:     3,
			Ranking:         services.DefaultRankingWeights(),
		},
		Group: GroupPolicy{
			TargetMembers: 5,
			MinMembers:    2,
			DiscountRate:  decimal.RequireFromString("0.15"),
			OpenFor:       24 * time.Hour,
			Shares: ledger.GroupShares{
				Pickup:   decimal.RequireFromString("0.10"),
				Delivery: decimal.RequireFromString("0.10"),
			},
		},
		Settlement: SettlementPolicy{
			CommissionBounds: company.CommissionBounds{
				Min: decimal.RequireFromString("0.05"),
				Max: decimal.RequireFromString("0.25"),
			},
			HoldingPeriod: 72 * time.Hour,
		},
		Pricing: PricingPolicy{
			BaseFare: decimal.NewFromInt(40),
			PerKm:    decimal.NewFromInt(8),
			PerKg:    decimal.NewFromInt(5),
			TaxRate:  decimal.RequireFromString("0.18"),
		},
		SweepBatchSize: 100,
	}
}

// Runtime carries the collaborators shared by all command handlers.
type Runtime struct {
	UoWFactory UoWFactory
	Clock      ports.Clock
	Tokens     ports.TokenGenerator
	Documents  ports.DocumentStorage
	Effects    *EffectRunner
	Retrier    *retry.Retrier
	Logger     *zap.Logger
	Policy     Policy
}

// outcome is a business result reported as an error once the state change that goes with
// it has been committed, e.g. a parcel flagged for manual reassignment.
type outcome struct {
	err error
}

func (o outcome) Error() string { return o.err.Error() }
func (o outcome) Unwrap() error { return o.err }

func reportAfterCommit(err error) error {
	return outcome{err: err}
}

// cycle is one read-transition-write pass. It must not commit; execute does.
type cycle func(ctx context.Context, uow UoW, fx *effects) error

// execute runs c in a fresh unit of work per attempt, retrying on version conflicts, and
// fires the side effects of the attempt that committed.
func (rt Runtime) execute(ctx context.Context, c cycle) error {
	var (
		fx        effects
		committed bool
	)

	err := rt.Retrier.OnConflict(ctx, func(ctx context.Context) error {
		fx = effects{}

		uow := rt.UoWFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}
		defer func() {
			_ = uow.Rollback(ctx)
		}()

		err := c(ctx, uow, &fx)
		var o outcome
		if err != nil && !errors.As(err, &o) {
			return err
		}
		if commitErr := uow.Commit(ctx); commitErr != nil {
			return commitErr
		}
		committed = true
		return err
	})

	var o outcome
	if errors.As(err, &o) {
		err = o.err
	}
	if errors.Is(err, errs.ErrDataIntegrity) {
		rt.logger().Error("ledger invariant violated", zap.Error(err))
	}
	if !committed {
		return err
	}

	if fxErr := rt.Effects.run(ctx, fx); fxErr != nil && err == nil {
		return fxErr
	}
	return err
}

func (rt Runtime) now() time.Time {
	return rt.Clock.Now().UTC()
}

func (rt Runtime) logger() *zap.Logger {
	if rt.Logger == nil {
		return zap.NewNop()
	}
	return rt.Logger
}

func (rt Runtime) offers() offerer {
	return offerer{
		selector: services.NewAgentSelector(rt.Policy.Dispatch.Ranking),
		policy:   rt.Policy.Dispatch,
	}
}

func (rt Runtime) calculator() services.SettlementCalculator {
	return services.NewSettlementCalculator(rt.Policy.Settlement.CommissionBounds, rt.Policy.Group.Shares)
}

func (rt Runtime) batch() int {
	if rt.Policy.SweepBatchSize <= 0 {
		return DefaultPolicy().SweepBatchSize
	}
	return rt.Policy.SweepBatchSize
}
