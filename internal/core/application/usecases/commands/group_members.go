package commands

import (
	"context"

	"tpts/internal/core/domain/model/group"
	"tpts/internal/core/ports"
)

// dissolveMembers detaches every member parcel from g. The parcels keep their discounted
// price and become dispatchable on their own again.
func dissolveMembers(ctx context.Context, uow UoW, g *group.Group, fx *effects) error {
	parcels := uow.ParcelRepository()
	members, err := parcels.ListByGroup(ctx, g.ID())
	if err != nil {
		return err
	}

	for _, p := range members {
		p.LeaveGroup()
		if err = parcels.Update(ctx, p); err != nil {
			return err
		}
		fx.notify(p.CustomerID(), ports.NotifyGroupDissolved, map[string]string{
			"parcel_id":       p.ID().String(),
			"tracking_number": p.TrackingNumber(),
			"group_code":      g.Code(),
			"reason":          g.CloseReason().String(),
		})
	}
	return nil
}
