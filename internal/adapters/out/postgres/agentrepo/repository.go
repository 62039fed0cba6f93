package agentrepo

import (
	"context"
	"fmt"

	"tpts/internal/adapters/out/postgres/columns"
	"tpts/internal/core/domain/model/agent"
	"tpts/internal/core/domain/model/kernel"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// GormAgentRepository implements ports.AgentRepository using GORM. The candidate search
// is assembled with squirrel and handed to GORM as raw SQL; GORM rebinds the "?"
// placeholders for postgres.
type GormAgentRepository struct {
	db *gorm.DB
}

func NewGormAgentRepository(db *gorm.DB) *GormAgentRepository {
	return &GormAgentRepository{db: db}
}

func (r *GormAgentRepository) Add(ctx context.Context, aggregate *agent.Agent) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return columns.CheckInsert(r.db.WithContext(ctx).Create(&dto).Error, "agent", aggregate.ID())
}

// Update writes every column under the version check. Slot counts are only ever changed
// here, so two dispatches racing for the last slot cannot both win.
func (r *GormAgentRepository) Update(ctx context.Context, aggregate *agent.Agent) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	result := r.db.WithContext(ctx).
		Model(&AgentDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Updates(&dto)
	if err := columns.CheckVersioned(result, "agent", aggregate.ID()); err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	return nil
}

func (r *GormAgentRepository) Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AgentDTO
	if err := columns.CheckFound(r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error, "agent", id); err != nil {
		return nil, err
	}
	return toDomain(dto)
}

// FindCandidates returns the company's agents that can take work in the area.
func (r *GormAgentRepository) FindCandidates(
	ctx context.Context,
	companyID kernel.UUID,
	city, pincode string,
) ([]*agent.Agent, error) {
	query, args, err := candidatesQuery(companyID, city, pincode)
	if err != nil {
		return nil, fmt.Errorf("build candidate query: %w", err)
	}

	var dtos []AgentDTO
	if err = r.db.WithContext(ctx).Raw(query, args...).Scan(&dtos).Error; err != nil {
		return nil, err
	}

	res := make([]*agent.Agent, 0, len(dtos))
	for _, dto := range dtos {
		a, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		res = append(res, a)
	}
	return res, nil
}

func candidatesQuery(companyID kernel.UUID, city, pincode string) (string, []any, error) {
	area := sq.Or{}
	if city != "" {
		area = append(area, sq.Expr("lower(city) = lower(?)", city))
	}
	if pincode != "" {
		area = append(area, sq.Expr("? = ANY(service_pincodes)", pincode))
	}
	if len(area) == 0 {
		area = append(area, sq.Expr("false"))
	}

	return sq.Select("*").
		From(AgentDTO{}.TableName()).
		Where(sq.Eq{
			"company_id":   companyID.String(),
			"is_active":    true,
			"is_available": true,
		}).
		Where("current_orders_count < max_concurrent_orders").
		Where(area).
		OrderBy("id").
		ToSql()
}
