// Package grouprepo persists consolidation groups. Members live in their own table and are
// rewritten with the group, which only ever happens under the group's version check.
package grouprepo

import (
	"time"

	"tpts/internal/adapters/out/postgres/columns"
	"tpts/internal/core/domain/model/group"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GroupDTO struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code                  string          `gorm:"uniqueIndex;not null"`
	CompanyID             uuid.UUID       `gorm:"type:uuid;index;not null"`
	SourceCity            string          `gorm:"index:idx_parcel_groups_route"`
	TargetCity            string          `gorm:"index:idx_parcel_groups_route"`
	Warehouse             columns.Address `gorm:"embedded;embeddedPrefix:warehouse_"`
	TargetMembers         int
	MinMembers            int
	Deadline              time.Time       `gorm:"index"`
	DiscountRate          decimal.Decimal `gorm:"type:numeric(6,4)"`
	Status                int             `gorm:"index"`
	CloseReason           int
	PickupAgentID         *uuid.UUID `gorm:"type:uuid"`
	DeliveryAgentID       *uuid.UUID `gorm:"type:uuid"`
	PickupStartedAt       *time.Time
	PickupCompletedAt     *time.Time
	DeliveryStartedAt     *time.Time
	DeliveryCompletedAt   *time.Time
	PickupAgentEarnings   decimal.Decimal `gorm:"type:numeric(14,2)"`
	DeliveryAgentEarnings decimal.Decimal `gorm:"type:numeric(14,2)"`
	NeedsReassignment     bool
	CreatedAt             time.Time
	Version               int64
}

func (GroupDTO) TableName() string {
	return "parcel_groups"
}

// MemberDTO is one parcel of a group, in joining order.
type MemberDTO struct {
	GroupID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ParcelID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID       `gorm:"type:uuid;not null"`
	FinalPrice decimal.Decimal `gorm:"type:numeric(14,2)"`
	Position   int
}

func (MemberDTO) TableName() string {
	return "group_members"
}

func fromDomain(g *group.Group) (GroupDTO, []MemberDTO) {
	dto := GroupDTO{
		ID:                    g.ID().Bytes(),
		Code:                  g.Code(),
		CompanyID:             g.CompanyID().Bytes(),
		SourceCity:            g.Route().SourceCity,
		TargetCity:            g.Route().TargetCity,
		Warehouse:             columns.FromAddress(g.Warehouse()),
		TargetMembers:         g.TargetMembers(),
		MinMembers:            g.MinMembers(),
		Deadline:              g.Deadline(),
		DiscountRate:          g.DiscountRate(),
		Status:                int(g.Status()),
		CloseReason:           int(g.CloseReason()),
		PickupAgentID:         columns.UUIDPtr(g.PickupAgentID()),
		DeliveryAgentID:       columns.UUIDPtr(g.DeliveryAgentID()),
		PickupStartedAt:       g.PickupStartedAt(),
		PickupCompletedAt:     g.PickupCompletedAt(),
		DeliveryStartedAt:     g.DeliveryStartedAt(),
		DeliveryCompletedAt:   g.DeliveryCompletedAt(),
		PickupAgentEarnings:   g.PickupAgentEarnings(),
		DeliveryAgentEarnings: g.DeliveryAgentEarnings(),
		NeedsReassignment:     g.NeedsReassignment(),
		CreatedAt:             g.CreatedAt(),
		Version:               g.Version(),
	}

	members := make([]MemberDTO, 0, g.CurrentMembers())
	for i, m := range g.Members() {
		members = append(members, MemberDTO{
			GroupID:    dto.ID,
			ParcelID:   m.ParcelID.Bytes(),
			CustomerID: m.CustomerID.Bytes(),
			FinalPrice: m.FinalPrice,
			Position:   i,
		})
	}
	return dto, members
}

func toDomain(dto GroupDTO, memberDTOs []MemberDTO) (*group.Group, error) {
	id, err := columns.ToUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	companyID, err := columns.ToUUID(dto.CompanyID)
	if err != nil {
		return nil, err
	}
	pickupAgentID, err := columns.ToUUIDPtr(dto.PickupAgentID)
	if err != nil {
		return nil, err
	}
	deliveryAgentID, err := columns.ToUUIDPtr(dto.DeliveryAgentID)
	if err != nil {
		return nil, err
	}
	warehouse, err := dto.Warehouse.ToDomain()
	if err != nil {
		return nil, err
	}

	members := make([]group.Member, 0, len(memberDTOs))
	for _, m := range memberDTOs {
		parcelID, parcelErr := columns.ToUUID(m.ParcelID)
		if parcelErr != nil {
			return nil, parcelErr
		}
		customerID, customerErr := columns.ToUUID(m.CustomerID)
		if customerErr != nil {
			return nil, customerErr
		}
		members = append(members, group.Member{ParcelID: parcelID, CustomerID: customerID, FinalPrice: m.FinalPrice})
	}

	return group.RestoreGroup(group.Snapshot{
		Params: group.Params{
			ID:            id,
			Code:          dto.Code,
			CompanyID:     companyID,
			Route:         group.Route{SourceCity: dto.SourceCity, TargetCity: dto.TargetCity},
			Warehouse:     warehouse,
			TargetMembers: dto.TargetMembers,
			MinMembers:    dto.MinMembers,
			Deadline:      dto.Deadline,
			DiscountRate:  dto.DiscountRate,
		},
		Members:               members,
		Status:                group.Status(dto.Status),
		CloseReason:           group.CloseReason(dto.CloseReason),
		PickupAgentID:         pickupAgentID,
		DeliveryAgentID:       deliveryAgentID,
		PickupStartedAt:       dto.PickupStartedAt,
		PickupCompletedAt:     dto.PickupCompletedAt,
		DeliveryStartedAt:     dto.DeliveryStartedAt,
		DeliveryCompletedAt:   dto.DeliveryCompletedAt,
		PickupAgentEarnings:   dto.PickupAgentEarnings,
		DeliveryAgentEarnings: dto.DeliveryAgentEarnings,
		NeedsReassignment:     dto.NeedsReassignment,
		CreatedAt:             dto.CreatedAt,
		Version:               dto.Version,
	})
}
