package assignment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/guard"
)

var ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment constructor")

// Snapshot is the persisted state of an assignment.
type Snapshot struct {
	ID              kernel.UUID
	Subject         Subject
	AgentID         kernel.UUID
	Status          Status
	AttemptCount    int
	Priority        int
	OfferedAt       time.Time
	RespondBy       time.Time
	RespondedAt     *time.Time
	RejectionReason string
	Version         int64
}

// Assignment is one offer of a parcel or group leg to one agent.
//
// The response deadline is authoritative: once now >= respondBy an answer is refused
// with ErrAssignmentExpired, whether or not the timeout sweep has already run.
// A resolved offer never changes again, except Accepted -> Superseded.
type Assignment struct {
	id              kernel.UUID
	subject         Subject
	agentID         kernel.UUID
	status          Status
	attemptCount    int
	priority        int
	offeredAt       time.Time
	respondBy       time.Time
	respondedAt     *time.Time
	rejectionReason string
	kernel.Versioned
	guard guard.ConstructorGuard
}

// NewAssignment creates a Pending offer. attempt is the 1-based number of this offer for
// its subject since the last manual reassignment.
func NewAssignment(
	id kernel.UUID,
	subject Subject,
	agentID kernel.UUID,
	attempt, priority int,
	offeredAt time.Time,
	timeout time.Duration,
) (*Assignment, error) {
	if timeout <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("response timeout", fmt.Errorf("%s is not positive", timeout))
	}
	return RestoreAssignment(Snapshot{
		ID:           id,
		Subject:      subject,
		AgentID:      agentID,
		Status:       Pending,
		AttemptCount: attempt,
		Priority:     priority,
		OfferedAt:    offeredAt,
		RespondBy:    offeredAt.Add(timeout),
	})
}

// RestoreAssignment rebuilds an assignment from storage.
func RestoreAssignment(s Snapshot) (*Assignment, error) {
	var attemptErr error
	if s.AttemptCount < 1 {
		attemptErr = errs.NewValueIsInvalidErrorWithCause("attempt count", fmt.Errorf("%d is less than 1", s.AttemptCount))
	}

	if err := errors.Join(
		s.ID.Validate(),
		s.Subject.Validate(),
		s.AgentID.Validate(),
		s.Status.Validate(),
		attemptErr,
	); err != nil {
		return nil, err
	}

	return &Assignment{
		id:              s.ID,
		subject:         s.Subject,
		agentID:         s.AgentID,
		status:          s.Status,
		attemptCount:    s.AttemptCount,
		priority:        s.Priority,
		offeredAt:       s.OfferedAt,
		respondBy:       s.RespondBy,
		respondedAt:     s.RespondedAt,
		rejectionReason: s.RejectionReason,
		Versioned:       kernel.RestoreVersioned(s.Version),
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (a *Assignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

// checkResponse applies the protocol checks shared by Accept and Reject, in order:
// wrong agent, expired, already resolved, deadline passed.
func (a *Assignment) checkResponse(agentID kernel.UUID, now time.Time) error {
	if !a.agentID.IsEqual(agentID) {
		return errs.ErrAgentNotAvailable
	}
	if a.status == Expired {
		return errs.ErrAssignmentExpired
	}
	if a.status != Pending {
		return errs.ErrAssignmentAlreadyResponded
	}
	if a.IsOverdue(now) {
		return errs.ErrAssignmentExpired
	}
	return nil
}

// Accept records the agent's acceptance.
func (a *Assignment) Accept(agentID kernel.UUID, now time.Time) error {
	if err := a.checkResponse(agentID, now); err != nil {
		return err
	}
	return a.resolve(Accepted, now)
}

// Reject records the agent's refusal with an optional reason.
func (a *Assignment) Reject(agentID kernel.UUID, reason string, now time.Time) error {
	if err := a.checkResponse(agentID, now); err != nil {
		return err
	}
	if err := a.resolve(Rejected, now); err != nil {
		return err
	}
	a.rejectionReason = strings.TrimSpace(reason)
	return nil
}

// Expire closes an overdue pending offer. It returns false, without error, when the
// offer is already resolved or not yet due, so the timeout sweep can run repeatedly.
func (a *Assignment) Expire(now time.Time) bool {
	if a.status != Pending || !a.IsOverdue(now) {
		return false
	}
	a.status = Expired
	a.respondedAt = &now
	return true
}

// Supersede ends a pending or accepted offer because the subject was cancelled or
// reassigned by the company.
func (a *Assignment) Supersede(now time.Time) error {
	return a.resolve(Superseded, now)
}

func (a *Assignment) resolve(next Status, now time.Time) error {
	status, err := a.status.TransitionTo(next)
	if err != nil {
		return err
	}
	a.status = status
	if a.respondedAt == nil {
		a.respondedAt = &now
	}
	return nil
}

// IsOverdue reports whether the response deadline has passed at now.
func (a *Assignment) IsOverdue(now time.Time) bool {
	return !now.Before(a.respondBy)
}

func (a *Assignment) ID() kernel.UUID         { return a.id }
func (a *Assignment) Subject() Subject        { return a.subject }
func (a *Assignment) AgentID() kernel.UUID    { return a.agentID }
func (a *Assignment) Status() Status          { return a.status }
func (a *Assignment) AttemptCount() int       { return a.attemptCount }
func (a *Assignment) Priority() int           { return a.priority }
func (a *Assignment) OfferedAt() time.Time    { return a.offeredAt }
func (a *Assignment) RespondBy() time.Time    { return a.respondBy }
func (a *Assignment) RespondedAt() *time.Time { return a.respondedAt }
func (a *Assignment) RejectionReason() string { return a.rejectionReason }
