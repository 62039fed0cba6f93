package ledger

import (
	"errors"
	"time"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Role is the kind of wallet owner.
type Role int

const (
	RoleUnknown Role = iota
	RoleCompany
	RoleAgent
)

func (r Role) String() string {
	switch r {
	case RoleCompany:
		return "Company"
	case RoleAgent:
		return "Agent"
	case RoleUnknown:
	}
	return "Unknown"
}

// TxType classifies wallet entries.
type TxType int

const (
	TxUnknown TxType = iota
	// TxEarning credits a parcel settlement share.
	TxEarning
	// TxGroupEarning credits a group leg share to an agent.
	TxGroupEarning
	// TxGroupCost debits the company for its group agents.
	TxGroupCost
	// TxPayoutReserve takes a requested payout out of the available balance.
	TxPayoutReserve
	// TxPayoutRelease returns a rejected payout to the available balance.
	TxPayoutRelease
)

func (t TxType) String() string {
	switch t {
	case TxEarning:
		return "Earning"
	case TxGroupEarning:
		return "GroupEarning"
	case TxGroupCost:
		return "GroupCost"
	case TxPayoutReserve:
		return "PayoutReserve"
	case TxPayoutRelease:
		return "PayoutRelease"
	case TxUnknown:
	}
	return "Unknown"
}

// countsAsEarning reports whether the entry changes the owner's lifetime earnings.
func (t TxType) countsAsEarning() bool {
	return t == TxEarning || t == TxGroupEarning || t == TxGroupCost
}

// TxStatus tells which balance the entry sits in.
type TxStatus int

const (
	TxStatusUnknown TxStatus = iota
	// TxPending entries count towards the pending balance until they clear.
	TxPending
	// TxCleared entries count towards the available balance.
	TxCleared
	// TxReversed entries no longer count anywhere.
	TxReversed
)

func (s TxStatus) String() string {
	switch s {
	case TxPending:
		return "Pending"
	case TxCleared:
		return "Cleared"
	case TxReversed:
		return "Reversed"
	case TxStatusUnknown:
	}
	return "Unknown"
}

// References link an entry to what caused it.
type References struct {
	EarningID *kernel.UUID
	ParcelID  *kernel.UUID
	GroupID   *kernel.UUID
	PayoutID  *kernel.UUID
}

// TransactionSnapshot is the persisted form of a Transaction.
type TransactionSnapshot struct {
	ID          kernel.UUID
	OwnerID     kernel.UUID
	Role        Role
	Type        TxType
	Amount      decimal.Decimal
	Status      TxStatus
	Held        bool
	References  References
	Description string
	ClearsAt    time.Time
	CreatedAt   time.Time
}

// Transaction is one append-only wallet entry. Amounts are signed and never change; only
// the status (pending, cleared, reversed) and the dispute hold move, and only through the
// posting functions of this package.
type Transaction struct {
	id          kernel.UUID
	ownerID     kernel.UUID
	role        Role
	txType      TxType
	amount      decimal.Decimal
	status      TxStatus
	held        bool
	refs        References
	description string
	clearsAt    time.Time
	createdAt   time.Time
}

// NewPendingCredit builds an entry that waits for clearance until clearsAt.
func NewPendingCredit(
	ownerID kernel.UUID,
	role Role,
	txType TxType,
	amount decimal.Decimal,
	refs References,
	description string,
	now, clearsAt time.Time,
) (*Transaction, error) {
	return RestoreTransaction(TransactionSnapshot{
		ID: kernel.NewUUID(), OwnerID: ownerID, Role: role, Type: txType, Amount: amount,
		Status: TxPending, References: refs, Description: description, ClearsAt: clearsAt, CreatedAt: now,
	})
}

// NewClearedEntry builds an entry that takes effect on the available balance at once.
func NewClearedEntry(
	ownerID kernel.UUID,
	role Role,
	txType TxType,
	amount decimal.Decimal,
	refs References,
	description string,
	now time.Time,
) (*Transaction, error) {
	return RestoreTransaction(TransactionSnapshot{
		ID: kernel.NewUUID(), OwnerID: ownerID, Role: role, Type: txType, Amount: amount,
		Status: TxCleared, References: refs, Description: description, ClearsAt: now, CreatedAt: now,
	})
}

func RestoreTransaction(s TransactionSnapshot) (*Transaction, error) {
	var problems []error
	if s.Role != RoleCompany && s.Role != RoleAgent {
		problems = append(problems, errs.NewValueIsInvalidError("owner role"))
	}
	if s.Type <= TxUnknown || s.Type > TxPayoutRelease {
		problems = append(problems, errs.NewValueIsInvalidError("transaction type"))
	}
	if s.Status <= TxStatusUnknown || s.Status > TxReversed {
		problems = append(problems, errs.NewValueIsInvalidError("transaction status"))
	}
	if s.Amount.IsZero() {
		problems = append(problems, errs.NewValueIsInvalidError("transaction amount"))
	}
	if err := errors.Join(append(problems, s.ID.Validate(), s.OwnerID.Validate())...); err != nil {
		return nil, err
	}

	return &Transaction{
		id:          s.ID,
		ownerID:     s.OwnerID,
		role:        s.Role,
		txType:      s.Type,
		amount:      s.Amount,
		status:      s.Status,
		held:        s.Held,
		refs:        s.References,
		description: s.Description,
		clearsAt:    s.ClearsAt,
		createdAt:   s.CreatedAt,
	}, nil
}

// IsDue reports whether a pending, unheld entry has reached its clearance time.
func (t *Transaction) IsDue(now time.Time) bool {
	return t.status == TxPending && !t.held && !now.Before(t.clearsAt)
}

// SetHeld puts a pending entry on hold during a dispute, or lifts the hold.
func (t *Transaction) SetHeld(held bool) {
	if t.status == TxPending {
		t.held = held
	}
}

func (t *Transaction) ID() kernel.UUID         { return t.id }
func (t *Transaction) OwnerID() kernel.UUID    { return t.ownerID }
func (t *Transaction) Role() Role              { return t.role }
func (t *Transaction) Type() TxType            { return t.txType }
func (t *Transaction) Amount() decimal.Decimal { return t.amount }
func (t *Transaction) Status() TxStatus        { return t.status }
func (t *Transaction) Held() bool              { return t.held }
func (t *Transaction) References() References  { return t.refs }
func (t *Transaction) Description() string     { return t.description }
func (t *Transaction) ClearsAt() time.Time     { return t.clearsAt }
func (t *Transaction) CreatedAt() time.Time    { return t.createdAt }
