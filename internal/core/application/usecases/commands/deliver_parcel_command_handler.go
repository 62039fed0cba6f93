package commands

import (
	"context"

	"tpts/internal/core/ports"

	"github.com/shopspring/decimal"
)

// DeliverParcelCommandHandler completes an individually dispatched parcel. In the same
// unit of work it frees the agent's slot and settles the parcel, so a delivered parcel
// always has exactly one earning.
type DeliverParcelCommandHandler struct {
	rt Runtime
}

func NewDeliverParcelCommandHandler(rt Runtime) DeliverParcelCommandHandler {
	return DeliverParcelCommandHandler{rt: rt}
}

func (h DeliverParcelCommandHandler) Handle(ctx context.Context, cmd DeliverParcelCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	proofURL, err := h.rt.storeDocument(ctx, cmd.Proof())
	if err != nil {
		return err
	}

	return h.rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
		now := h.rt.now()
		parcels := uow.ParcelRepository()

		p, err := parcels.Get(ctx, cmd.ParcelID())
		if err != nil {
			return err
		}
		if p.GroupID() != nil {
			return ErrParcelInGroup
		}
		if err = requireHolder(p.AgentID(), cmd.AgentID()); err != nil {
			return err
		}

		if err = p.Deliver(cmd.Otp(), proofURL, now); err != nil {
			return err
		}
		if err = parcels.Update(ctx, p); err != nil {
			return err
		}

		if err = releaseAgent(ctx, uow, cmd.AgentID()); err != nil {
			return err
		}
		if _, err = h.rt.settleParcel(ctx, uow, p, decimal.Zero, cmd.Tip(), now, fx); err != nil {
			return err
		}

		fx.notify(p.CustomerID(), ports.NotifyParcelDelivered, map[string]string{
			"parcel_id":       p.ID().String(),
			"tracking_number": p.TrackingNumber(),
			"proof_url":       proofURL,
		})
		return nil
	})
}
