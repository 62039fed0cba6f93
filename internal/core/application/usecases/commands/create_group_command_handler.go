package commands

import (
	"context"
	"time"

	"tpts/internal/core/domain/model/group"
	"tpts/internal/core/domain/model/kernel"
)

// CreatedGroup identifies a new group to the company and to customers joining it.
type CreatedGroup struct {
	GroupID kernel.UUID
	Code    string
}

// CreateGroupCommandHandler opens a group with the policy defaults, overridden by the
// command's terms.
type CreateGroupCommandHandler struct {
	rt Runtime
}

func NewCreateGroupCommandHandler(rt Runtime) CreateGroupCommandHandler {
	return CreateGroupCommandHandler{rt: rt}
}

func (h CreateGroupCommandHandler) Handle(ctx context.Context, cmd CreateGroupCommand) (CreatedGroup, error) {
	if err := cmd.Validate(); err != nil {
		return CreatedGroup{}, err
	}

	code, err := h.rt.Tokens.GenerateGroupCode()
	if err != nil {
		return CreatedGroup{}, err
	}

	var created CreatedGroup
	err = h.rt.execute(ctx, func(ctx context.Context, uow UoW, _ *effects) error {
		now := h.rt.now()
		if _, err := uow.CompanyRepository().Get(ctx, cmd.CompanyID()); err != nil {
			return err
		}

		g, err := group.NewGroup(h.params(cmd, code, now), now)
		if err != nil {
			return err
		}
		if err = uow.GroupRepository().Add(ctx, g); err != nil {
			return err
		}

		created = CreatedGroup{GroupID: g.ID(), Code: g.Code()}
		return nil
	})
	return created, err
}

func (h CreateGroupCommandHandler) params(cmd CreateGroupCommand, code string, now time.Time) group.Params {
	defaults := h.rt.Policy.Group
	terms := cmd.Terms()

	params := group.Params{
		ID:            kernel.NewUUID(),
		Code:          code,
		CompanyID:     cmd.CompanyID(),
		Route:         cmd.Route(),
		Warehouse:     cmd.Warehouse(),
		TargetMembers: defaults.TargetMembers,
		MinMembers:    defaults.MinMembers,
		Deadline:      now.Add(defaults.OpenFor),
		DiscountRate:  defaults.DiscountRate,
	}
	if terms.TargetMembers > 0 {
		params.TargetMembers = terms.TargetMembers
	}
	if terms.MinMembers > 0 {
		params.MinMembers = terms.MinMembers
	}
	if terms.DiscountRate != nil {
		params.DiscountRate = *terms.DiscountRate
	}
	if terms.Deadline != nil {
		params.Deadline = terms.Deadline.UTC()
	}
	return params
}
