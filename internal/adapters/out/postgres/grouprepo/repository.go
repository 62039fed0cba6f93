package grouprepo

import (
	"context"
	"fmt"
	"time"

	"tpts/internal/adapters/out/postgres/columns"
	"tpts/internal/core/domain/model/group"
	"tpts/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormGroupRepository implements ports.GroupRepository using GORM.
type GormGroupRepository struct {
	db *gorm.DB
}

func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

func (r *GormGroupRepository) Add(ctx context.Context, aggregate *group.Group) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, members := fromDomain(aggregate)
	db := r.db.WithContext(ctx)
	if err := columns.CheckInsert(db.Create(&dto).Error, "group", aggregate.ID()); err != nil {
		return err
	}
	return r.insertMembers(db, members)
}

// Update writes the group under the version check, then replaces its member rows.
func (r *GormGroupRepository) Update(ctx context.Context, aggregate *group.Group) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, members := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	db := r.db.WithContext(ctx)
	result := db.
		Model(&GroupDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Updates(&dto)
	if err := columns.CheckVersioned(result, "group", aggregate.ID()); err != nil {
		return err
	}

	if err := db.Where("group_id = ?", dto.ID).Delete(&MemberDTO{}).Error; err != nil {
		return fmt.Errorf("clear members of group %s: %w", aggregate.ID(), err)
	}
	if err := r.insertMembers(db, members); err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	return nil
}

func (r *GormGroupRepository) Get(ctx context.Context, id kernel.UUID) (*group.Group, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto GroupDTO
	if err := columns.CheckFound(r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error, "group", id); err != nil {
		return nil, err
	}

	groups, err := r.withMembers(ctx, []GroupDTO{dto})
	if err != nil {
		return nil, err
	}
	return groups[0], nil
}

func (r *GormGroupRepository) ListOpenPastDeadline(ctx context.Context, now time.Time, limit int) ([]*group.Group, error) {
	var dtos []GroupDTO
	if err := r.db.WithContext(ctx).
		Where("status = ? AND deadline <= ?", int(group.Open), now).
		Order("deadline, id").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return r.withMembers(ctx, dtos)
}

// ListAwaitingLeg mirrors Group.ReadyForPickup for the pickup leg: closed groups, and
// expired ones that still reached their minimum.
func (r *GormGroupRepository) ListAwaitingLeg(ctx context.Context, limit int) ([]*group.Group, error) {
	var dtos []GroupDTO
	if err := r.db.WithContext(ctx).
		Where("needs_reassignment = ?", false).
		Where(
			r.db.Where("pickup_agent_id IS NULL AND (status = ? OR (status = ? AND close_reason <> ?))",
				int(group.Closed), int(group.Expired), int(group.UnderMinimum)).
				Or("delivery_agent_id IS NULL AND status = ?", int(group.InTransit)),
		).
		Order("created_at, id").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return r.withMembers(ctx, dtos)
}

func (r *GormGroupRepository) insertMembers(db *gorm.DB, members []MemberDTO) error {
	if len(members) == 0 {
		return nil
	}
	if err := db.Create(&members).Error; err != nil {
		return fmt.Errorf("insert group members: %w", err)
	}
	return nil
}

// withMembers loads the member rows of all groups in one query.
func (r *GormGroupRepository) withMembers(ctx context.Context, dtos []GroupDTO) ([]*group.Group, error) {
	if len(dtos) == 0 {
		return []*group.Group{}, nil
	}

	ids := make([]uuid.UUID, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.ID)
	}

	var members []MemberDTO
	if err := r.db.WithContext(ctx).
		Where("group_id IN ?", ids).
		Order("group_id, position").
		Find(&members).Error; err != nil {
		return nil, err
	}

	byGroup := make(map[uuid.UUID][]MemberDTO, len(dtos))
	for _, m := range members {
		byGroup[m.GroupID] = append(byGroup[m.GroupID], m)
	}

	res := make([]*group.Group, 0, len(dtos))
	for _, dto := range dtos {
		g, err := toDomain(dto, byGroup[dto.ID])
		if err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, nil
}
