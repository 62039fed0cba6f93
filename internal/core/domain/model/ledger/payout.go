package ledger

import (
	"errors"
	"strings"
	"time"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type PayoutStatus int

const (
	PayoutUnknown PayoutStatus = iota
	PayoutRequested
	PayoutProcessed
	PayoutRejected
)

func (s PayoutStatus) String() string {
	switch s {
	case PayoutRequested:
		return "Requested"
	case PayoutProcessed:
		return "Processed"
	case PayoutRejected:
		return "Rejected"
	case PayoutUnknown:
	}
	return "Unknown"
}

// PayoutSnapshot is the persisted state of a payout.
type PayoutSnapshot struct {
	ID          kernel.UUID
	OwnerID     kernel.UUID
	Role        Role
	Amount      decimal.Decimal
	Status      PayoutStatus
	Reference   string
	Reason      string
	RequestedAt time.Time
	ResolvedAt  *time.Time
	Version     int64
}

// Payout is a withdrawal request. Its amount is reserved out of the available balance when
// requested and returned only if the request is rejected.
type Payout struct {
	id          kernel.UUID
	ownerID     kernel.UUID
	role        Role
	amount      decimal.Decimal
	status      PayoutStatus
	reference   string
	reason      string
	requestedAt time.Time
	resolvedAt  *time.Time
	kernel.Versioned
}

func NewPayout(id, ownerID kernel.UUID, role Role, amount decimal.Decimal, now time.Time) (*Payout, error) {
	return RestorePayout(PayoutSnapshot{
		ID: id, OwnerID: ownerID, Role: role, Amount: amount, Status: PayoutRequested, RequestedAt: now,
	})
}

func RestorePayout(s PayoutSnapshot) (*Payout, error) {
	var problems []error
	if !s.Amount.IsPositive() {
		problems = append(problems, errs.NewValueIsInvalidError("payout amount"))
	}
	if s.Status <= PayoutUnknown || s.Status > PayoutRejected {
		problems = append(problems, errs.NewValueIsInvalidError("payout status"))
	}
	if err := errors.Join(append(problems, s.ID.Validate(), s.OwnerID.Validate())...); err != nil {
		return nil, err
	}

	return &Payout{
		id:          s.ID,
		ownerID:     s.OwnerID,
		role:        s.Role,
		amount:      s.Amount,
		status:      s.Status,
		reference:   s.Reference,
		reason:      s.Reason,
		requestedAt: s.RequestedAt,
		resolvedAt:  s.ResolvedAt,
		Versioned:   kernel.RestoreVersioned(s.Version),
	}, nil
}

// Approve marks the payout processed with the bank or gateway reference.
func (p *Payout) Approve(reference string, now time.Time) error {
	if p.status != PayoutRequested {
		return errs.ErrPaymentAlreadyProcessed
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return errs.NewValueIsRequiredError("payout reference")
	}
	p.status = PayoutProcessed
	p.reference = reference
	p.resolvedAt = &now
	return nil
}

// Reject refuses the payout; the caller releases the reserved amount.
func (p *Payout) Reject(reason string, now time.Time) error {
	if p.status != PayoutRequested {
		return errs.ErrPaymentAlreadyProcessed
	}
	p.status = PayoutRejected
	p.reason = strings.TrimSpace(reason)
	p.resolvedAt = &now
	return nil
}

func (p *Payout) ID() kernel.UUID         { return p.id }
func (p *Payout) OwnerID() kernel.UUID    { return p.ownerID }
func (p *Payout) Role() Role              { return p.role }
func (p *Payout) Amount() decimal.Decimal { return p.amount }
func (p *Payout) Status() PayoutStatus    { return p.status }
func (p *Payout) Reference() string       { return p.reference }
func (p *Payout) Reason() string          { return p.reason }
func (p *Payout) RequestedAt() time.Time  { return p.requestedAt }
func (p *Payout) ResolvedAt() *time.Time  { return p.resolvedAt }
