package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"tpts/internal/core/application/usecases/commands"
	"tpts/internal/core/domain/model/company"
	"tpts/internal/core/domain/model/ledger"
	"tpts/internal/core/domain/services"
	"tpts/internal/jobs"
	"tpts/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"go.yaml.in/yaml/v4"
)

// Policy is the business configuration file. Keys left out keep their defaults.
type Policy struct {
	Dispatch   DispatchPolicy   `yaml:"dispatch"`
	Group      GroupPolicy      `yaml:"group"`
	Settlement SettlementPolicy `yaml:"settlement"`
	Pricing    PricingPolicy    `yaml:"pricing"`
	Sweeps     SweepPolicy      `yaml:"sweeps"`
}

type DispatchPolicy struct {
	ResponseTimeout time.Duration           `yaml:"response_timeout"`
	MaxAttempts     int                     `yaml:"max_attempts"`
	Ranking         services.RankingWeights `yaml:"ranking"`
}

type GroupPolicy struct {
	TargetMembers int             `yaml:"target_members"`
	MinMembers    int             `yaml:"min_members"`
	DiscountRate  decimal.Decimal `yaml:"discount_rate"`
	OpenFor       time.Duration   `yaml:"open_for"`
	PickupShare   decimal.Decimal `yaml:"pickup_share"`
	DeliveryShare decimal.Decimal `yaml:"delivery_share"`
}

type SettlementPolicy struct {
	MinCommission decimal.Decimal `yaml:"min_commission"`
	MaxCommission decimal.Decimal `yaml:"max_commission"`
	HoldingPeriod time.Duration   `yaml:"holding_period"`
}

type PricingPolicy struct {
	BaseFare decimal.Decimal `yaml:"base_fare"`
	PerKm    decimal.Decimal `yaml:"per_km"`
	PerKg    decimal.Decimal `yaml:"per_kg"`
	TaxRate  decimal.Decimal `yaml:"tax_rate"`
}

type SweepPolicy struct {
	BatchSize         int           `yaml:"batch_size"`
	RunTimeout        time.Duration `yaml:"run_timeout"`
	AssignmentTimeout string        `yaml:"assignment_timeout"`
	GroupDeadline     string        `yaml:"group_deadline"`
	Clearance         string        `yaml:"clearance"`
	PendingDispatch   string        `yaml:"pending_dispatch"`
}

// DefaultPolicy mirrors commands.DefaultPolicy and jobs.DefaultSchedules.
func DefaultPolicy() Policy {
	c := commands.DefaultPolicy()
	s := jobs.DefaultSchedules()
	return Policy{
		Dispatch: DispatchPolicy{
			ResponseTimeout: c.Dispatch.ResponseTimeout,
			MaxAttempts:     c.Dispatch.MaxAttempts,
			Ranking:         c.Dispatch.Ranking,
		},
		Group: GroupPolicy{
			TargetMembers: c.Group.TargetMembers,
			MinMembers:    c.Group.MinMembers,
			DiscountRate:  c.Group.DiscountRate,
			OpenFor:       c.Group.OpenFor,
			PickupShare:   c.Group.Shares.Pickup,
			DeliveryShare: c.Group.Shares.Delivery,
		},
		Settlement: SettlementPolicy{
			MinCommission: c.Settlement.CommissionBounds.Min,
			MaxCommission: c.Settlement.CommissionBounds.Max,
			HoldingPeriod: c.Settlement.HoldingPeriod,
		},
		Pricing: PricingPolicy{
			BaseFare: c.Pricing.BaseFare,
			PerKm:    c.Pricing.PerKm,
			PerKg:    c.Pricing.PerKg,
			TaxRate:  c.Pricing.TaxRate,
		},
		Sweeps: SweepPolicy{
			BatchSize:         c.SweepBatchSize,
			RunTimeout:        s.RunTimeout,
			AssignmentTimeout: s.AssignmentTimeout,
			GroupDeadline:     s.GroupDeadline,
			Clearance:         s.Clearance,
			PendingDispatch:   s.PendingDispatch,
		},
	}
}

// LoadPolicy reads the YAML file at path over the defaults. An empty path yields the
// defaults.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("failed to read policy file: %w", err)
	}
	if err = yaml.Unmarshal(data, &policy); err != nil {
		return Policy{}, fmt.Errorf("failed to unmarshal policy: %w", err)
	}
	if err = policy.Validate(); err != nil {
		return Policy{}, fmt.Errorf("invalid policy: %w", err)
	}
	return policy, nil
}

// Validate rejects values no handler can run with.
func (p Policy) Validate() error {
	var problems []error
	positive := func(name string, v time.Duration) {
		if v <= 0 {
			problems = append(problems, errs.NewValueIsOutOfRangeError(name, v, "1ns", "unbounded"))
		}
	}
	rate := func(name string, v decimal.Decimal) {
		if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(1)) {
			problems = append(problems, errs.NewValueIsOutOfRangeError(name, v, 0, 1))
		}
	}

	positive("dispatch.response_timeout", p.Dispatch.ResponseTimeout)
	positive("group.open_for", p.Group.OpenFor)
	positive("sweeps.run_timeout", p.Sweeps.RunTimeout)
	if p.Settlement.HoldingPeriod < 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("settlement.holding_period", p.Settlement.HoldingPeriod, 0, "unbounded"))
	}
	if p.Dispatch.MaxAttempts < 1 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("dispatch.max_attempts", p.Dispatch.MaxAttempts, 1, "unbounded"))
	}
	if p.Group.MinMembers < 1 || p.Group.MinMembers > p.Group.TargetMembers {
		problems = append(problems, errs.NewValueIsOutOfRangeError("group.min_members", p.Group.MinMembers, 1, p.Group.TargetMembers))
	}
	rate("group.discount_rate", p.Group.DiscountRate)
	rate("group.pickup_share", p.Group.PickupShare)
	rate("group.delivery_share", p.Group.DeliveryShare)
	rate("settlement.min_commission", p.Settlement.MinCommission)
	rate("settlement.max_commission", p.Settlement.MaxCommission)
	if p.Settlement.MinCommission.GreaterThan(p.Settlement.MaxCommission) {
		problems = append(problems, errs.NewValueIsInvalidError("settlement commission bounds"))
	}
	if p.Group.PickupShare.Add(p.Group.DeliveryShare).GreaterThan(decimal.NewFromInt(1)) {
		problems = append(problems, errs.NewValueIsInvalidError("group agent shares"))
	}
	return errors.Join(problems...)
}

// Commands converts the file into the handler policy.
func (p Policy) Commands() commands.Policy {
	return commands.Policy{
		Dispatch: commands.DispatchPolicy{
			ResponseTimeout: p.Dispatch.ResponseTimeout,
			MaxAttempts:     p.Dispatch.MaxAttempts,
			Ranking:         p.Dispatch.Ranking,
		},
		Group: commands.GroupPolicy{
			TargetMembers: p.Group.TargetMembers,
			MinMembers:    p.Group.MinMembers,
			DiscountRate:  p.Group.DiscountRate,
			OpenFor:       p.Group.OpenFor,
			Shares: ledger.GroupShares{
				Pickup:   p.Group.PickupShare,
				Delivery: p.Group.DeliveryShare,
			},
		},
		Settlement: commands.SettlementPolicy{
			CommissionBounds: company.CommissionBounds{
				Min: p.Settlement.MinCommission,
				Max: p.Settlement.MaxCommission,
			},
			HoldingPeriod: p.Settlement.HoldingPeriod,
		},
		Pricing: commands.PricingPolicy{
			BaseFare: p.Pricing.BaseFare,
			PerKm:    p.Pricing.PerKm,
			PerKg:    p.Pricing.PerKg,
			TaxRate:  p.Pricing.TaxRate,
		},
		SweepBatchSize: p.Sweeps.BatchSize,
	}
}

// Schedules converts the sweep section into job schedules.
func (p Policy) Schedules() jobs.Schedules {
	return jobs.Schedules{
		AssignmentTimeout: p.Sweeps.AssignmentTimeout,
		GroupDeadline:     p.Sweeps.GroupDeadline,
		Clearance:         p.Sweeps.Clearance,
		PendingDispatch:   p.Sweeps.PendingDispatch,
		RunTimeout:        p.Sweeps.RunTimeout,
	}
}
