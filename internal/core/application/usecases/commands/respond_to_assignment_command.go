package commands

import (
	"errors"
	"strings"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/guard"
)

var ErrRespondToAssignmentCommandIsNotConstructed = errors.New(
	"RespondToAssignmentCommand must be created via NewRespondToAssignmentCommand constructor",
)

// RespondToAssignmentCommand is an agent's answer to an offer.
type RespondToAssignmentCommand struct {
	assignmentID kernel.UUID
	agentID      kernel.UUID
	accept       bool
	reason       string

	guard guard.ConstructorGuard
}

func NewRespondToAssignmentCommand(
	assignmentID, agentID kernel.UUID,
	accept bool,
	reason string,
) (RespondToAssignmentCommand, error) {
	if err := requireIDs(assignmentID, agentID); err != nil {
		return RespondToAssignmentCommand{}, err
	}
	return RespondToAssignmentCommand{
		assignmentID: assignmentID,
		agentID:      agentID,
		accept:       accept,
		reason:       strings.TrimSpace(reason),
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c RespondToAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrRespondToAssignmentCommandIsNotConstructed)
}

func (c RespondToAssignmentCommand) AssignmentID() kernel.UUID { return c.assignmentID }
func (c RespondToAssignmentCommand) AgentID() kernel.UUID      { return c.agentID }
func (c RespondToAssignmentCommand) Accept() bool              { return c.accept }
func (c RespondToAssignmentCommand) Reason() string            { return c.reason }
