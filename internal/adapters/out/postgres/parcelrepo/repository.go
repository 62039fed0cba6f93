package parcelrepo

import (
	"context"

	"tpts/internal/adapters/out/postgres/columns"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/parcel"

	"gorm.io/gorm"
)

// GormParcelRepository implements ports.ParcelRepository using GORM.
type GormParcelRepository struct {
	db *gorm.DB
}

func NewGormParcelRepository(db *gorm.DB) *GormParcelRepository {
	return &GormParcelRepository{db: db}
}

// Add saves a new parcel.
func (r *GormParcelRepository) Add(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return columns.CheckInsert(r.db.WithContext(ctx).Create(&dto).Error, "parcel", aggregate.ID())
}

// Update writes every column under the version check and advances the version.
func (r *GormParcelRepository) Update(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	result := r.db.WithContext(ctx).
		Model(&ParcelDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Updates(&dto)
	if err := columns.CheckVersioned(result, "parcel", aggregate.ID()); err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	return nil
}

// Get retrieves a parcel by ID.
func (r *GormParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ParcelDTO
	if err := columns.CheckFound(r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error, "parcel", id); err != nil {
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormParcelRepository) ListByGroup(ctx context.Context, groupID kernel.UUID) ([]*parcel.Parcel, error) {
	var dtos []ParcelDTO
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

// ListDispatchable returns confirmed, ungrouped, unflagged parcels, oldest confirmation first.
func (r *GormParcelRepository) ListDispatchable(ctx context.Context, limit int) ([]*parcel.Parcel, error) {
	var dtos []ParcelDTO
	if err := r.db.WithContext(ctx).
		Where("status = ? AND group_id IS NULL AND needs_reassignment = ?", int(parcel.Confirmed), false).
		Order("confirmed_at, id").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormParcelRepository) ListNeedingReassignment(ctx context.Context, companyID kernel.UUID) ([]*parcel.Parcel, error) {
	var dtos []ParcelDTO
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND needs_reassignment = ?", companyID.Bytes(), true).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}
