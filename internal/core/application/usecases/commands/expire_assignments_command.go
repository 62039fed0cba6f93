package commands

import (
	"errors"

	"tpts/internal/pkg/guard"
)

var ErrExpireAssignmentsCommandIsNotConstructed = errors.New(
	"ExpireAssignmentsCommand must be created via NewExpireAssignmentsCommand constructor",
)

// ExpireAssignmentsCommand is the timeout sweep over unanswered offers.
// This is a parameterless command run by the assignment timeout job.
type ExpireAssignmentsCommand struct {
	guard guard.ConstructorGuard
}

func NewExpireAssignmentsCommand() ExpireAssignmentsCommand {
	return ExpireAssignmentsCommand{guard: guard.NewConstructorGuard()}
}

func (c ExpireAssignmentsCommand) Validate() error {
	return c.guard.Validate(ErrExpireAssignmentsCommandIsNotConstructed)
}
