package commands

import (
	"errors"

	"tpts/internal/core/domain/model/assignment"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/guard"
)

var ErrDispatchGroupLegCommandIsNotConstructed = errors.New(
	"DispatchGroupLegCommand must be created via NewDispatchGroupLegCommand constructor",
)

// DispatchGroupLegCommand offers the pickup or delivery leg of a group to an agent.
type DispatchGroupLegCommand struct {
	subject assignment.Subject

	guard guard.ConstructorGuard
}

func NewDispatchGroupLegCommand(groupID kernel.UUID, leg assignment.Leg) (DispatchGroupLegCommand, error) {
	subject := assignment.GroupLegSubject(groupID, leg)
	if err := subject.Validate(); err != nil {
		return DispatchGroupLegCommand{}, err
	}
	return DispatchGroupLegCommand{subject: subject, guard: guard.NewConstructorGuard()}, nil
}

func (c DispatchGroupLegCommand) Validate() error {
	return c.guard.Validate(ErrDispatchGroupLegCommandIsNotConstructed)
}

func (c DispatchGroupLegCommand) GroupID() kernel.UUID { return *c.subject.GroupID() }
func (c DispatchGroupLegCommand) Leg() assignment.Leg  { return c.subject.Leg() }
