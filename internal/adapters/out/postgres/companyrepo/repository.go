// Package companyrepo persists logistics companies and their commission rates.
package companyrepo

import (
	"context"

	"tpts/internal/adapters/out/postgres/columns"
	"tpts/internal/core/domain/model/company"
	"tpts/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CompanyDTO struct {
	ID                     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name                   string          `gorm:"not null"`
	City                   string          `gorm:"index"`
	PlatformCommissionRate decimal.Decimal `gorm:"type:numeric(6,4)"`
	AgentCommissionRate    decimal.Decimal `gorm:"type:numeric(6,4)"`
	Version                int64
}

func (CompanyDTO) TableName() string {
	return "companies"
}

// GormCompanyRepository restores companies against the current commission bounds, so a
// row outside tightened bounds fails to load instead of settling at a stale rate.
type GormCompanyRepository struct {
	db     *gorm.DB
	bounds company.CommissionBounds
}

func NewGormCompanyRepository(db *gorm.DB, bounds company.CommissionBounds) *GormCompanyRepository {
	return &GormCompanyRepository{db: db, bounds: bounds}
}

func (r *GormCompanyRepository) Add(ctx context.Context, aggregate *company.Company) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return columns.CheckInsert(r.db.WithContext(ctx).Create(&dto).Error, "company", aggregate.ID())
}

func (r *GormCompanyRepository) Update(ctx context.Context, aggregate *company.Company) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	result := r.db.WithContext(ctx).
		Model(&CompanyDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Updates(&dto)
	if err := columns.CheckVersioned(result, "company", aggregate.ID()); err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	return nil
}

func (r *GormCompanyRepository) Get(ctx context.Context, id kernel.UUID) (*company.Company, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CompanyDTO
	if err := columns.CheckFound(r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error, "company", id); err != nil {
		return nil, err
	}

	return company.RestoreCompany(id, dto.Name, dto.City, dto.PlatformCommissionRate, dto.AgentCommissionRate,
		r.bounds, dto.Version)
}

func fromDomain(c *company.Company) CompanyDTO {
	return CompanyDTO{
		ID:                     c.ID().Bytes(),
		Name:                   c.Name(),
		City:                   c.City(),
		PlatformCommissionRate: c.PlatformCommissionRate(),
		AgentCommissionRate:    c.AgentCommissionRate(),
		Version:                c.Version(),
	}
}
