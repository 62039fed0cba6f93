// Package assignmentrepo persists offers made to agents. The subject is stored as a nullable
// parcel id, or a nullable group id plus leg.
package assignmentrepo

import (
	"time"

	"tpts/internal/adapters/out/postgres/columns"
	"tpts/internal/core/domain/model/assignment"

	"github.com/google/uuid"
)

type AssignmentDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ParcelID        *uuid.UUID `gorm:"type:uuid;index"`
	GroupID         *uuid.UUID `gorm:"type:uuid;index"`
	Leg             int
	AgentID         uuid.UUID `gorm:"type:uuid;index;not null"`
	Status          int       `gorm:"index"`
	AttemptCount    int
	Priority        int
	OfferedAt       time.Time
	RespondBy       time.Time `gorm:"index"`
	RespondedAt     *time.Time
	RejectionReason string
	Version         int64
}

func (AssignmentDTO) TableName() string {
	return "assignments"
}

func fromDomain(a *assignment.Assignment) AssignmentDTO {
	subject := a.Subject()
	return AssignmentDTO{
		ID:              a.ID().Bytes(),
		ParcelID:        columns.UUIDPtr(subject.ParcelID()),
		GroupID:         columns.UUIDPtr(subject.GroupID()),
		Leg:             int(subject.Leg()),
		AgentID:         a.AgentID().Bytes(),
		Status:          int(a.Status()),
		AttemptCount:    a.AttemptCount(),
		Priority:        a.Priority(),
		OfferedAt:       a.OfferedAt(),
		RespondBy:       a.RespondBy(),
		RespondedAt:     a.RespondedAt(),
		RejectionReason: a.RejectionReason(),
		Version:         a.Version(),
	}
}

func toDomain(dto AssignmentDTO) (*assignment.Assignment, error) {
	id, err := columns.ToUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	agentID, err := columns.ToUUID(dto.AgentID)
	if err != nil {
		return nil, err
	}
	subject, err := subjectOf(dto)
	if err != nil {
		return nil, err
	}

	return assignment.RestoreAssignment(assignment.Snapshot{
		ID:              id,
		Subject:         subject,
		AgentID:         agentID,
		Status:          assignment.Status(dto.Status),
		AttemptCount:    dto.AttemptCount,
		Priority:        dto.Priority,
		OfferedAt:       dto.OfferedAt,
		RespondBy:       dto.RespondBy,
		RespondedAt:     dto.RespondedAt,
		RejectionReason: dto.RejectionReason,
		Version:         dto.Version,
	})
}

// subjectOf leaves validation to RestoreAssignment: a row with neither id yields the zero
// subject, which it rejects.
func subjectOf(dto AssignmentDTO) (assignment.Subject, error) {
	switch {
	case dto.ParcelID != nil:
		parcelID, err := columns.ToUUID(*dto.ParcelID)
		if err != nil {
			return assignment.Subject{}, err
		}
		return assignment.ParcelSubject(parcelID), nil
	case dto.GroupID != nil:
		groupID, err := columns.ToUUID(*dto.GroupID)
		if err != nil {
			return assignment.Subject{}, err
		}
		return assignment.GroupLegSubject(groupID, assignment.Leg(dto.Leg)), nil
	}
	return assignment.Subject{}, nil
}

func toDomainList(dtos []AssignmentDTO) ([]*assignment.Assignment, error) {
	res := make([]*assignment.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, nil
}
