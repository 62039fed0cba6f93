package parcel

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// OtpLength is the number of digits of pickup and delivery OTPs.
const OtpLength = 6

var (
	// ErrParcelIsNotConstructed is returned when a Parcel was not built by NewParcel or RestoreParcel.
	ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel constructor")

	ErrTrackingNumberIsRequired     = errs.NewValueIsRequiredError("tracking number")
	ErrCancellationReasonIsRequired = errs.NewValueIsRequiredError("cancellation reason")
)

// Params holds the data a parcel is created with. OTPs and the tracking number come from
// the token generator; pricing is computed by the caller.
type Params struct {
	ID             kernel.UUID
	TrackingNumber string
	CustomerID     kernel.UUID
	CompanyID      kernel.UUID
	Pickup         kernel.Address
	Delivery       kernel.Address
	Package        Package
	Pricing        Pricing
	PickupOtp      string
	DeliveryOtp    string
}

// Timeline stamps every transition. Nil means the transition has not happened.
type Timeline struct {
	CreatedAt   time.Time
	ConfirmedAt *time.Time
	AssignedAt  *time.Time
	PickedUpAt  *time.Time
	InTransitAt *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time
}

// Snapshot is the full persisted state of a parcel, used to restore it.
type Snapshot struct {
	Params
	AgentID            *kernel.UUID
	GroupID            *kernel.UUID
	Status             Status
	PaymentStatus      PaymentStatus
	PaymentRef         string
	ProofOfDeliveryURL string
	NeedsReassignment  bool
	CancellationReason string
	Timeline           Timeline
	Version            int64
}

// Parcel is a single shipment from one customer to one recipient and the aggregate root of
// the lifecycle state machine.
//
// Invariants:
//   - status only changes through the transition table in status.go
//   - an agent is referenced from Assigned through Delivered
//   - pickup and delivery OTPs are single-use; a verified OTP is cleared
//   - pickup and delivery addresses are snapshots taken at creation
type Parcel struct {
	id                 kernel.UUID
	trackingNumber     string
	customerID         kernel.UUID
	companyID          kernel.UUID
	agentID            *kernel.UUID
	groupID            *kernel.UUID
	pickup             kernel.Address
	delivery           kernel.Address
	pkg                Package
	pricing            Pricing
	status             Status
	paymentStatus      PaymentStatus
	paymentRef         string
	pickupOtp          string
	deliveryOtp        string
	proofOfDeliveryURL string
	needsReassignment  bool
	cancellationReason string
	timeline           Timeline
	kernel.Versioned
	guard guard.ConstructorGuard
}

// NewParcel creates a parcel in Created status with payment pending.
//
// Example:
//
//	p, err := parcel.NewParcel(parcel.Params{
//	    ID:             kernel.NewUUID(),
//	    TrackingNumber: tokens.TrackingNumber(),
//	    ...
//	}, clock.Now())
func NewParcel(params Params, now time.Time) (*Parcel, error) {
	p := &Parcel{
		status:        Created,
		paymentStatus: PaymentPending,
		timeline:      Timeline{CreatedAt: now},
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setParams(params),
		validateOtp("pickup otp", params.PickupOtp),
		validateOtp("delivery otp", params.DeliveryOtp),
	); err != nil {
		return nil, err
	}
	p.pickupOtp = params.PickupOtp
	p.deliveryOtp = params.DeliveryOtp

	return p, nil
}

// RestoreParcel rebuilds a parcel from storage. Consumed OTPs are stored empty.
func RestoreParcel(s Snapshot) (*Parcel, error) {
	p := &Parcel{
		agentID:            s.AgentID,
		groupID:            s.GroupID,
		paymentRef:         s.PaymentRef,
		pickupOtp:          s.PickupOtp,
		deliveryOtp:        s.DeliveryOtp,
		proofOfDeliveryURL: s.ProofOfDeliveryURL,
		needsReassignment:  s.NeedsReassignment,
		cancellationReason: s.CancellationReason,
		timeline:           s.Timeline,
		Versioned:          kernel.RestoreVersioned(s.Version),
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setParams(s.Params),
		p.setStatus(s.Status, s.AgentID),
		p.setPaymentStatus(s.PaymentStatus),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Parcel) setParams(params Params) error {
	var trackingErr error
	if strings.TrimSpace(params.TrackingNumber) == "" {
		trackingErr = ErrTrackingNumberIsRequired
	}

	if err := errors.Join(
		params.ID.Validate(),
		params.CustomerID.Validate(),
		params.CompanyID.Validate(),
		trackingErr,
		params.Pickup.Validate(),
		params.Delivery.Validate(),
		params.Package.Validate(),
		positive("total", params.Pricing.Total()),
	); err != nil {
		return err
	}

	p.id = params.ID
	p.trackingNumber = params.TrackingNumber
	p.customerID = params.CustomerID
	p.companyID = params.CompanyID
	p.pickup = params.Pickup
	p.delivery = params.Delivery
	p.pkg = params.Package
	p.pricing = params.Pricing
	return nil
}

func (p *Parcel) setStatus(status Status, agentID *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}
	needsAgent := status == Assigned || status == PickedUp || status == InTransit || status == Delivered
	if needsAgent && agentID == nil {
		return errs.NewValueIsRequiredErrorWithCause("agent", errors.New(status.String()+" parcel must reference an agent"))
	}
	p.status = status
	return nil
}

func (p *Parcel) setPaymentStatus(status PaymentStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	p.paymentStatus = status
	return nil
}

func validateOtp(name, otp string) error {
	if len(otp) != OtpLength {
		return errs.NewValueIsInvalidErrorWithCause(name, errors.New("must have 6 digits"))
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			return errs.NewValueIsInvalidErrorWithCause(name, errors.New("must have 6 digits"))
		}
	}
	return nil
}

// verifyOtp checks a supplied OTP against the stored one. A consumed OTP is reported as
// expired; a mismatch leaves the stored OTP untouched.
func verifyOtp(stored, supplied string, mismatch error) error {
	if stored == "" {
		return errs.ErrOtpExpired
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) != 1 {
		return mismatch
	}
	return nil
}

// Validate returns ErrParcelIsNotConstructed for nil or zero-value parcels.
func (p *Parcel) Validate() error {
	if p == nil {
		return ErrParcelIsNotConstructed
	}
	return p.guard.Validate(ErrParcelIsNotConstructed)
}

// MarkPaid handles the gateway's success callback: Created -> Confirmed.
func (p *Parcel) MarkPaid(reference string, now time.Time) error {
	if p.paymentStatus == PaymentPaid || p.paymentStatus == PaymentRefunded {
		return errs.ErrPaymentAlreadyProcessed
	}
	next, err := p.status.TransitionTo(Confirmed)
	if err != nil {
		return err
	}

	p.status = next
	p.paymentStatus = PaymentPaid
	p.paymentRef = reference
	p.timeline.ConfirmedAt = &now
	return nil
}

// MarkPaymentFailed records a failed checkout. The parcel stays Created so the customer can retry.
func (p *Parcel) MarkPaymentFailed() error {
	if p.paymentStatus == PaymentPaid || p.paymentStatus == PaymentRefunded {
		return errs.ErrPaymentAlreadyProcessed
	}
	p.paymentStatus = PaymentFailed
	return nil
}

// MarkRefunded records that the paid amount is being returned to the customer.
func (p *Parcel) MarkRefunded() error {
	if p.paymentStatus != PaymentPaid {
		return errs.ErrPaymentAlreadyProcessed
	}
	p.paymentStatus = PaymentRefunded
	return nil
}

// Assign records the agent who accepted the offer: Confirmed -> Assigned.
func (p *Parcel) Assign(agentID kernel.UUID, now time.Time) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	next, err := p.status.TransitionTo(Assigned)
	if err != nil {
		return err
	}

	p.status = next
	p.agentID = &agentID
	p.timeline.AssignedAt = &now
	return nil
}

// Unassign releases the agent before pickup: Assigned -> Confirmed. It returns the released agent.
func (p *Parcel) Unassign() (kernel.UUID, error) {
	next, err := p.status.TransitionTo(Confirmed)
	if err != nil {
		return kernel.UUID{}, err
	}

	released := *p.agentID
	p.status = next
	p.agentID = nil
	p.timeline.AssignedAt = nil
	return released, nil
}

// PickUp verifies the pickup OTP supplied by the agent: Assigned -> PickedUp.
func (p *Parcel) PickUp(otp string, now time.Time) error {
	next, err := p.status.TransitionTo(PickedUp)
	if err != nil && p.pickupOtp != "" {
		return err
	}
	if otpErr := verifyOtp(p.pickupOtp, otp, errs.ErrInvalidPickupOtp); otpErr != nil {
		return otpErr
	}
	if err != nil {
		return err
	}

	p.status = next
	p.pickupOtp = ""
	p.timeline.PickedUpAt = &now
	return nil
}

// StartTransit moves a picked-up parcel on: PickedUp -> InTransit.
func (p *Parcel) StartTransit(now time.Time) error {
	next, err := p.status.TransitionTo(InTransit)
	if err != nil {
		return err
	}

	p.status = next
	p.timeline.InTransitAt = &now
	return nil
}

// HandOver passes an in-transit parcel to another agent, as on the delivery leg of a group.
func (p *Parcel) HandOver(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	if p.status != InTransit {
		return errs.NewInvalidStatusTransitionError("parcel", p.status.String(), "handed over")
	}
	p.agentID = &agentID
	return nil
}

// Deliver verifies the delivery OTP: InTransit -> Delivered. proofURL is the stored
// proof-of-delivery document, empty when none was uploaded.
func (p *Parcel) Deliver(otp, proofURL string, now time.Time) error {
	next, err := p.status.TransitionTo(Delivered)
	if err != nil && p.deliveryOtp != "" {
		return err
	}
	if otpErr := verifyOtp(p.deliveryOtp, otp, errs.ErrInvalidDeliveryOtp); otpErr != nil {
		return otpErr
	}
	if err != nil {
		return err
	}

	p.status = next
	p.deliveryOtp = ""
	p.proofOfDeliveryURL = proofURL
	p.timeline.DeliveredAt = &now
	return nil
}

// Cancel ends the parcel from any non-terminal status. The holding agent, if any, stays
// referenced so the caller can release its slot.
func (p *Parcel) Cancel(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrCancellationReasonIsRequired
	}
	next, err := p.status.TransitionTo(Cancelled)
	if err != nil {
		return err
	}

	p.status = next
	p.cancellationReason = reason
	p.needsReassignment = false
	p.timeline.CancelledAt = &now
	return nil
}

// JoinGroup attaches a confirmed parcel to a group and applies the group discount.
// It returns the amount by which the total dropped.
func (p *Parcel) JoinGroup(groupID kernel.UUID, discountRate decimal.Decimal) (decimal.Decimal, error) {
	if err := groupID.Validate(); err != nil {
		return decimal.Zero, err
	}
	if p.groupID != nil {
		return decimal.Zero, errs.ErrAlreadyJoinedGroup
	}
	if p.status != Confirmed {
		return decimal.Zero, errs.NewInvalidStatusTransitionError("parcel", p.status.String(), "grouped")
	}

	discounted, err := p.pricing.WithDiscount(discountRate)
	if err != nil {
		return decimal.Zero, err
	}

	reduction := p.pricing.Total().Sub(discounted.Total())
	p.pricing = discounted
	p.groupID = &groupID
	p.needsReassignment = false
	return reduction, nil
}

// LeaveGroup detaches the parcel from its group so it can be dispatched on its own.
// The discounted price is kept.
func (p *Parcel) LeaveGroup() {
	p.groupID = nil
}

func (p *Parcel) FlagNeedsReassignment()  { p.needsReassignment = true }
func (p *Parcel) ClearNeedsReassignment() { p.needsReassignment = false }

// IsDispatchable reports whether the parcel can be offered to agents individually.
func (p *Parcel) IsDispatchable() bool {
	return p.status == Confirmed && p.groupID == nil
}

func (p *Parcel) ID() kernel.UUID                 { return p.id }
func (p *Parcel) TrackingNumber() string          { return p.trackingNumber }
func (p *Parcel) CustomerID() kernel.UUID         { return p.customerID }
func (p *Parcel) CompanyID() kernel.UUID          { return p.companyID }
func (p *Parcel) AgentID() *kernel.UUID           { return p.agentID }
func (p *Parcel) GroupID() *kernel.UUID           { return p.groupID }
func (p *Parcel) Pickup() kernel.Address          { return p.pickup }
func (p *Parcel) Delivery() kernel.Address        { return p.delivery }
func (p *Parcel) Package() Package                { return p.pkg }
func (p *Parcel) Pricing() Pricing                { return p.pricing }
func (p *Parcel) Status() Status                  { return p.status }
func (p *Parcel) PaymentStatus() PaymentStatus    { return p.paymentStatus }
func (p *Parcel) PaymentRef() string              { return p.paymentRef }
func (p *Parcel) PickupOtp() string               { return p.pickupOtp }
func (p *Parcel) DeliveryOtp() string             { return p.deliveryOtp }
func (p *Parcel) ProofOfDeliveryURL() string      { return p.proofOfDeliveryURL }
func (p *Parcel) NeedsReassignment() bool         { return p.needsReassignment }
func (p *Parcel) CancellationReason() string      { return p.cancellationReason }
func (p *Parcel) Timeline() Timeline              { return p.timeline }
