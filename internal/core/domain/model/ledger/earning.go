package ledger

import (
	"errors"
	"time"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/guard"
)

var ErrEarningIsNotConstructed = errors.New("Earning must be created via NewEarning constructor")

type EarningStatus int

const (
	EarningUnknown EarningStatus = iota
	EarningPending
	EarningCleared
	EarningReversed
)

func (s EarningStatus) String() string {
	switch s {
	case EarningPending:
		return "Pending"
	case EarningCleared:
		return "Cleared"
	case EarningReversed:
		return "Reversed"
	case EarningUnknown:
	}
	return "Unknown"
}

// EarningSnapshot is the persisted state of an earning.
type EarningSnapshot struct {
	ID        kernel.UUID
	ParcelID  kernel.UUID
	CompanyID kernel.UUID
	AgentID   *kernel.UUID
	Split     Split
	Status    EarningStatus
	Disputed  bool
	ClearsAt  time.Time
	CreatedAt time.Time
	ClearedAt *time.Time
	Version   int64
}

// Earning is the settlement record of one delivered parcel. The split never changes after
// creation; only the clearance status and the dispute flag do.
type Earning struct {
	id        kernel.UUID
	parcelID  kernel.UUID
	companyID kernel.UUID
	agentID   *kernel.UUID
	split     Split
	status    EarningStatus
	disputed  bool
	clearsAt  time.Time
	createdAt time.Time
	clearedAt *time.Time
	kernel.Versioned
	guard guard.ConstructorGuard
}

// NewEarning records a settlement that clears after holdingPeriod. agentID is nil when no
// agent is paid per parcel, as for group members.
func NewEarning(
	id, parcelID, companyID kernel.UUID,
	agentID *kernel.UUID,
	split Split,
	now time.Time,
	holdingPeriod time.Duration,
) (*Earning, error) {
	return RestoreEarning(EarningSnapshot{
		ID:        id,
		ParcelID:  parcelID,
		CompanyID: companyID,
		AgentID:   agentID,
		Split:     split,
		Status:    EarningPending,
		ClearsAt:  now.Add(holdingPeriod),
		CreatedAt: now,
	})
}

func RestoreEarning(s EarningSnapshot) (*Earning, error) {
	var statusErr error
	if s.Status < EarningPending || s.Status > EarningReversed {
		statusErr = errs.NewValueIsInvalidError("earning status")
	}
	if err := errors.Join(
		s.ID.Validate(),
		s.ParcelID.Validate(),
		s.CompanyID.Validate(),
		s.Split.Reconcile(),
		statusErr,
	); err != nil {
		return nil, err
	}

	return &Earning{
		id:        s.ID,
		parcelID:  s.ParcelID,
		companyID: s.CompanyID,
		agentID:   s.AgentID,
		split:     s.Split,
		status:    s.Status,
		disputed:  s.Disputed,
		clearsAt:  s.ClearsAt,
		createdAt: s.CreatedAt,
		clearedAt: s.ClearedAt,
		Versioned: kernel.RestoreVersioned(s.Version),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (e *Earning) Validate() error {
	if e == nil {
		return ErrEarningIsNotConstructed
	}
	return e.guard.Validate(ErrEarningIsNotConstructed)
}

// IsDue reports whether the holding period has elapsed without a dispute.
func (e *Earning) IsDue(now time.Time) bool {
	return e.status == EarningPending && !e.disputed && !now.Before(e.clearsAt)
}

// Clear marks a due earning cleared. It returns false for anything not due, so the
// clearance sweep is idempotent.
func (e *Earning) Clear(now time.Time) bool {
	if !e.IsDue(now) {
		return false
	}
	e.status = EarningCleared
	e.clearedAt = &now
	return true
}

// RaiseDispute holds clearance of a pending earning.
func (e *Earning) RaiseDispute() error {
	if e.status != EarningPending {
		return errs.NewInvalidStatusTransitionError("earning", e.status.String(), "Disputed")
	}
	e.disputed = true
	return nil
}

// ResolveDispute lifts the hold, or reverses the earning when the customer is refunded.
func (e *Earning) ResolveDispute(refund bool) error {
	if e.status != EarningPending || !e.disputed {
		return errs.NewInvalidStatusTransitionError("earning", e.status.String(), "Resolved")
	}
	e.disputed = false
	if refund {
		e.status = EarningReversed
	}
	return nil
}

func (e *Earning) ID() kernel.UUID        { return e.id }
func (e *Earning) ParcelID() kernel.UUID  { return e.parcelID }
func (e *Earning) CompanyID() kernel.UUID { return e.companyID }
func (e *Earning) AgentID() *kernel.UUID  { return e.agentID }
func (e *Earning) Split() Split           { return e.split }
func (e *Earning) Status() EarningStatus  { return e.status }
func (e *Earning) Disputed() bool         { return e.disputed }
func (e *Earning) ClearsAt() time.Time    { return e.clearsAt }
func (e *Earning) CreatedAt() time.Time   { return e.createdAt }
func (e *Earning) ClearedAt() *time.Time  { return e.clearedAt }
