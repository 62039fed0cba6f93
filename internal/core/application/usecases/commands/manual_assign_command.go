package commands

import (
	"errors"

	"tpts/internal/core/domain/model/assignment"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/guard"
)

var ErrManualAssignCommandIsNotConstructed = errors.New(
	"ManualAssignCommand must be created via NewManualAssignCommand constructor",
)

// ManualAssignCommand is the company choosing the agent for a parcel or a group leg,
// typically one flagged after automatic dispatch gave up.
type ManualAssignCommand struct {
	subject assignment.Subject
	agentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewManualAssignCommand targets an individually dispatched parcel.
func NewManualAssignCommand(parcelID, agentID kernel.UUID) (ManualAssignCommand, error) {
	return newManualAssignCommand(assignment.ParcelSubject(parcelID), agentID)
}

// NewManualAssignGroupLegCommand targets the pickup or delivery leg of a group.
func NewManualAssignGroupLegCommand(groupID kernel.UUID, leg assignment.Leg, agentID kernel.UUID) (ManualAssignCommand, error) {
	return newManualAssignCommand(assignment.GroupLegSubject(groupID, leg), agentID)
}

func newManualAssignCommand(subject assignment.Subject, agentID kernel.UUID) (ManualAssignCommand, error) {
	if err := errors.Join(subject.Validate(), agentID.Validate()); err != nil {
		return ManualAssignCommand{}, err
	}
	return ManualAssignCommand{subject: subject, agentID: agentID, guard: guard.NewConstructorGuard()}, nil
}

func (c ManualAssignCommand) Validate() error {
	return c.guard.Validate(ErrManualAssignCommandIsNotConstructed)
}

func (c ManualAssignCommand) Subject() assignment.Subject { return c.subject }
func (c ManualAssignCommand) AgentID() kernel.UUID        { return c.agentID }
