package assignmentrepo

import (
	"context"
	"time"

	"tpts/internal/adapters/out/postgres/columns"
	"tpts/internal/core/domain/model/assignment"
	"tpts/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssignmentRepository implements ports.AssignmentRepository using GORM. A partial
// unique index (see postgres.Migrate) backs the one-active-offer-per-subject rule, so a
// racing second offer fails on insert with a concurrent modification.
type GormAssignmentRepository struct {
	db *gorm.DB
}

func NewGormAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

func (r *GormAssignmentRepository) Add(ctx context.Context, aggregate *assignment.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return columns.CheckInsert(r.db.WithContext(ctx).Create(&dto).Error, "assignment", aggregate.ID())
}

func (r *GormAssignmentRepository) Update(ctx context.Context, aggregate *assignment.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	result := r.db.WithContext(ctx).
		Model(&AssignmentDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Updates(&dto)
	if err := columns.CheckVersioned(result, "assignment", aggregate.ID()); err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	return nil
}

func (r *GormAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err = columns.CheckFound(err, "assignment", id); err != nil {
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormAssignmentRepository) FindActive(ctx context.Context, subject assignment.Subject) (*assignment.Assignment, error) {
	if err := subject.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	err := r.bySubject(ctx, subject).
		Where("status IN ?", []int{int(assignment.Pending), int(assignment.Accepted)}).
		Take(&dto).Error
	if err = columns.CheckFound(err, "active assignment", subject.String()); err != nil {
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormAssignmentRepository) ListBySubject(ctx context.Context, subject assignment.Subject) ([]*assignment.Assignment, error) {
	if err := subject.Validate(); err != nil {
		return nil, err
	}

	var dtos []AssignmentDTO
	if err := r.bySubject(ctx, subject).Order("offered_at, attempt_count").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormAssignmentRepository) ListAgentsWithPendingOffers(ctx context.Context) ([]kernel.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&AssignmentDTO{}).
		Where("status = ?", int(assignment.Pending)).
		Distinct().
		Pluck("agent_id", &ids).Error; err != nil {
		return nil, err
	}
	return columns.ToUUIDs(ids)
}

func (r *GormAssignmentRepository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]*assignment.Assignment, error) {
	var dtos []AssignmentDTO
	if err := r.db.WithContext(ctx).
		Where("status = ? AND respond_by <= ?", int(assignment.Pending), now).
		Order("respond_by, id").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormAssignmentRepository) bySubject(ctx context.Context, subject assignment.Subject) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&AssignmentDTO{})
	if id := subject.ParcelID(); id != nil {
		return db.Where("parcel_id = ?", id.Bytes())
	}
	if id := subject.GroupID(); id != nil {
		return db.Where("group_id = ? AND leg = ?", id.Bytes(), int(subject.Leg()))
	}
	return db.Where("false")
}
