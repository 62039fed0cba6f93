// Package parcelrepo persists parcel aggregates.
package parcelrepo

import (
	"time"

	"tpts/internal/adapters/out/postgres/columns"
	"tpts/internal/core/domain/model/parcel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ParcelDTO is the parcels row. Consumed OTPs are stored empty.
type ParcelDTO struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TrackingNumber     string          `gorm:"uniqueIndex;not null"`
	CustomerID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	CompanyID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	AgentID            *uuid.UUID      `gorm:"type:uuid;index"`
	GroupID            *uuid.UUID      `gorm:"type:uuid;index"`
	Pickup             columns.Address `gorm:"embedded;embeddedPrefix:pickup_"`
	Delivery           columns.Address `gorm:"embedded;embeddedPrefix:delivery_"`
	WeightKg           decimal.Decimal `gorm:"type:numeric(10,3)"`
	PackageType        string
	PackageDescription string
	DistanceKm         decimal.Decimal `gorm:"type:numeric(10,3)"`
	BasePrice          decimal.Decimal `gorm:"type:numeric(14,2)"`
	Discount           decimal.Decimal `gorm:"type:numeric(14,2)"`
	Tax                decimal.Decimal `gorm:"type:numeric(14,2)"`
	Total              decimal.Decimal `gorm:"type:numeric(14,2)"`
	Status             int             `gorm:"index"`
	PaymentStatus      int
	PaymentRef         string
	PickupOtp          string
	DeliveryOtp        string
	ProofOfDeliveryURL string
	NeedsReassignment  bool `gorm:"index"`
	CancellationReason string
	CreatedAt          time.Time
	ConfirmedAt        *time.Time
	AssignedAt         *time.Time
	PickedUpAt         *time.Time
	InTransitAt        *time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	Version            int64
}

func (ParcelDTO) TableName() string {
	return "parcels"
}

func fromDomain(p *parcel.Parcel) ParcelDTO {
	pricing := p.Pricing()
	timeline := p.Timeline()

	return ParcelDTO{
		ID:                 p.ID().Bytes(),
		TrackingNumber:     p.TrackingNumber(),
		CustomerID:         p.CustomerID().Bytes(),
		CompanyID:          p.CompanyID().Bytes(),
		AgentID:            columns.UUIDPtr(p.AgentID()),
		GroupID:            columns.UUIDPtr(p.GroupID()),
		Pickup:             columns.FromAddress(p.Pickup()),
		Delivery:           columns.FromAddress(p.Delivery()),
		WeightKg:           p.Package().WeightKg,
		PackageType:        p.Package().Type,
		PackageDescription: p.Package().Description,
		DistanceKm:         pricing.DistanceKm(),
		BasePrice:          pricing.BasePrice(),
		Discount:           pricing.Discount(),
		Tax:                pricing.Tax(),
		Total:              pricing.Total(),
		Status:             int(p.Status()),
		PaymentStatus:      int(p.PaymentStatus()),
		PaymentRef:         p.PaymentRef(),
		PickupOtp:          p.PickupOtp(),
		DeliveryOtp:        p.DeliveryOtp(),
		ProofOfDeliveryURL: p.ProofOfDeliveryURL(),
		NeedsReassignment:  p.NeedsReassignment(),
		CancellationReason: p.CancellationReason(),
		CreatedAt:          timeline.CreatedAt,
		ConfirmedAt:        timeline.ConfirmedAt,
		AssignedAt:         timeline.AssignedAt,
		PickedUpAt:         timeline.PickedUpAt,
		InTransitAt:        timeline.InTransitAt,
		DeliveredAt:        timeline.DeliveredAt,
		CancelledAt:        timeline.CancelledAt,
		Version:            p.Version(),
	}
}

func toDomain(dto ParcelDTO) (*parcel.Parcel, error) {
	ids, err := columns.ToUUIDs([]uuid.UUID{dto.ID, dto.CustomerID, dto.CompanyID})
	if err != nil {
		return nil, err
	}
	agentID, err := columns.ToUUIDPtr(dto.AgentID)
	if err != nil {
		return nil, err
	}
	groupID, err := columns.ToUUIDPtr(dto.GroupID)
	if err != nil {
		return nil, err
	}

	pickup, err := dto.Pickup.ToDomain()
	if err != nil {
		return nil, err
	}
	delivery, err := dto.Delivery.ToDomain()
	if err != nil {
		return nil, err
	}

	pricing, err := parcel.RestorePricing(dto.DistanceKm, dto.BasePrice, dto.Discount, dto.Tax, dto.Total)
	if err != nil {
		return nil, err
	}

	return parcel.RestoreParcel(parcel.Snapshot{
		Params: parcel.Params{
			ID:             ids[0],
			TrackingNumber: dto.TrackingNumber,
			CustomerID:     ids[1],
			CompanyID:      ids[2],
			Pickup:         pickup,
			Delivery:       delivery,
			Package: parcel.Package{
				WeightKg:    dto.WeightKg,
				Type:        dto.PackageType,
				Description: dto.PackageDescription,
			},
			Pricing:     pricing,
			PickupOtp:   dto.PickupOtp,
			DeliveryOtp: dto.DeliveryOtp,
		},
		AgentID:            agentID,
		GroupID:            groupID,
		Status:             parcel.Status(dto.Status),
		PaymentStatus:      parcel.PaymentStatus(dto.PaymentStatus),
		PaymentRef:         dto.PaymentRef,
		ProofOfDeliveryURL: dto.ProofOfDeliveryURL,
		NeedsReassignment:  dto.NeedsReassignment,
		CancellationReason: dto.CancellationReason,
		Timeline: parcel.Timeline{
			CreatedAt:   dto.CreatedAt,
			ConfirmedAt: dto.ConfirmedAt,
			AssignedAt:  dto.AssignedAt,
			PickedUpAt:  dto.PickedUpAt,
			InTransitAt: dto.InTransitAt,
			DeliveredAt: dto.DeliveredAt,
			CancelledAt: dto.CancelledAt,
		},
		Version: dto.Version,
	})
}

func toDomainList(dtos []ParcelDTO) ([]*parcel.Parcel, error) {
	res := make([]*parcel.Parcel, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, nil
}
