package commands

import (
	"context"

	"tpts/internal/core/domain/model/kernel"
)

// DispatchParcelCommandHandler creates the next offer for a parcel.
//
// Outcomes:
//   - an offer was made: its id is returned
//   - the attempt ceiling is reached: the parcel is flagged and errs.ErrNeedsReassignment returned
//   - nobody eligible is left: the parcel is flagged and errs.ErrNoAgentsAvailable returned
//   - an offer is already pending or accepted: ErrActiveAssignmentExists
//
// The flag is committed before the error is returned.
type DispatchParcelCommandHandler struct {
	rt Runtime
}

func NewDispatchParcelCommandHandler(rt Runtime) DispatchParcelCommandHandler {
	return DispatchParcelCommandHandler{rt: rt}
}

func (h DispatchParcelCommandHandler) Handle(ctx context.Context, cmd DispatchParcelCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	var offered kernel.UUID
	err := h.rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
		p, err := uow.ParcelRepository().Get(ctx, cmd.ParcelID())
		if err != nil {
			return err
		}

		a, err := h.rt.offers().dispatchParcel(ctx, uow, p, h.rt.now(), fx)
		if isEscalation(err) && p.NeedsReassignment() {
			return reportAfterCommit(err)
		}
		if err != nil {
			return err
		}
		offered = a.ID()
		return nil
	})
	return offered, err
}
