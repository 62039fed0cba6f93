// Package agentrepo persists delivery agents.
package agentrepo

import (
	"time"

	"tpts/internal/adapters/out/postgres/columns"
	"tpts/internal/core/domain/model/agent"
	"tpts/internal/core/domain/model/kernel"

	"github.com/AlekSi/pointer"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AgentDTO is the agents row. The last known location is nullable as a whole.
type AgentDTO struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CompanyID           uuid.UUID      `gorm:"type:uuid;index;not null"`
	Name                string         `gorm:"not null"`
	Phone               string         `gorm:"not null"`
	City                string         `gorm:"index"`
	ServicePincodes     pq.StringArray `gorm:"type:text[]"`
	IsActive            bool
	IsAvailable         bool
	CurrentOrdersCount  int
	MaxConcurrentOrders int
	RatingAvg           float64
	LocationLatitude    *float64
	LocationLongitude   *float64
	LocationUpdatedAt   *time.Time
	Version             int64
}

func (AgentDTO) TableName() string {
	return "agents"
}

func fromDomain(a *agent.Agent) AgentDTO {
	dto := AgentDTO{
		ID:                  a.ID().Bytes(),
		CompanyID:           a.CompanyID().Bytes(),
		Name:                a.Name(),
		Phone:               a.Phone(),
		City:                a.City(),
		ServicePincodes:     pq.StringArray(a.ServicePincodes()),
		IsActive:            a.IsActive(),
		IsAvailable:         a.IsAvailable(),
		CurrentOrdersCount:  a.CurrentOrdersCount(),
		MaxConcurrentOrders: a.MaxConcurrentOrders(),
		RatingAvg:           a.RatingAvg(),
		LocationUpdatedAt:   a.LocationUpdatedAt(),
		Version:             a.Version(),
	}
	if loc := a.Location(); loc != nil {
		dto.LocationLatitude = pointer.To(loc.Latitude)
		dto.LocationLongitude = pointer.To(loc.Longitude)
	}
	return dto
}

func toDomain(dto AgentDTO) (*agent.Agent, error) {
	id, err := columns.ToUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	companyID, err := columns.ToUUID(dto.CompanyID)
	if err != nil {
		return nil, err
	}

	var location *kernel.Coordinates
	if dto.LocationLatitude != nil && dto.LocationLongitude != nil {
		location = &kernel.Coordinates{
			Latitude:  pointer.Get(dto.LocationLatitude),
			Longitude: pointer.Get(dto.LocationLongitude),
		}
	}

	return agent.RestoreAgent(agent.Snapshot{
		ID:                  id,
		CompanyID:           companyID,
		Name:                dto.Name,
		Phone:               dto.Phone,
		City:                dto.City,
		ServicePincodes:     []string(dto.ServicePincodes),
		IsActive:            dto.IsActive,
		IsAvailable:         dto.IsAvailable,
		CurrentOrdersCount:  dto.CurrentOrdersCount,
		MaxConcurrentOrders: dto.MaxConcurrentOrders,
		RatingAvg:           dto.RatingAvg,
		Location:            location,
		LocationUpdatedAt:   dto.LocationUpdatedAt,
		Version:             dto.Version,
	})
}
