package commands

import (
	"context"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/parcel"

	"github.com/shopspring/decimal"
)

// CreatedParcel is what the customer needs to pay for and track a new parcel.
type CreatedParcel struct {
	ParcelID       kernel.UUID
	TrackingNumber string
	Total          decimal.Decimal
}

// CreateParcelCommandHandler prices a booking, issues its tracking number and OTPs, and
// stores the parcel in Created status awaiting payment.
type CreateParcelCommandHandler struct {
	rt Runtime
}

func NewCreateParcelCommandHandler(rt Runtime) CreateParcelCommandHandler {
	return CreateParcelCommandHandler{rt: rt}
}

func (h CreateParcelCommandHandler) Handle(ctx context.Context, cmd CreateParcelCommand) (CreatedParcel, error) {
	if err := cmd.Validate(); err != nil {
		return CreatedParcel{}, err
	}

	pricing, err := h.price(cmd)
	if err != nil {
		return CreatedParcel{}, err
	}

	tracking, err := h.rt.Tokens.GenerateTrackingNumber()
	if err != nil {
		return CreatedParcel{}, err
	}
	pickupOtp, err := h.rt.Tokens.GenerateOtp()
	if err != nil {
		return CreatedParcel{}, err
	}
	deliveryOtp, err := h.rt.Tokens.GenerateOtp()
	if err != nil {
		return CreatedParcel{}, err
	}

	var created CreatedParcel
	err = h.rt.execute(ctx, func(ctx context.Context, uow UoW, _ *effects) error {
		if _, err := uow.CompanyRepository().Get(ctx, cmd.CompanyID()); err != nil {
			return err
		}

		p, err := parcel.NewParcel(parcel.Params{
			ID:             kernel.NewUUID(),
			TrackingNumber: tracking,
			CustomerID:     cmd.CustomerID(),
			CompanyID:      cmd.CompanyID(),
			Pickup:         cmd.Pickup(),
			Delivery:       cmd.Delivery(),
			Package:        cmd.Package(),
			Pricing:        pricing,
			PickupOtp:      pickupOtp,
			DeliveryOtp:    deliveryOtp,
		}, h.rt.now())
		if err != nil {
			return err
		}
		if err = uow.ParcelRepository().Add(ctx, p); err != nil {
			return err
		}

		created = CreatedParcel{ParcelID: p.ID(), TrackingNumber: p.TrackingNumber(), Total: p.Pricing().Total()}
		return nil
	})
	return created, err
}

func (h CreateParcelCommandHandler) price(cmd CreateParcelCommand) (parcel.Pricing, error) {
	policy := h.rt.Policy.Pricing
	base := policy.BaseFare.
		Add(policy.PerKm.Mul(cmd.DistanceKm())).
		Add(policy.PerKg.Mul(cmd.Package().WeightKg))
	return parcel.NewPricing(cmd.DistanceKm(), kernel.RoundMoney(base), policy.TaxRate)
}
