package ports

import (
	"context"

	"tpts/internal/core/domain/model/agent"
	"tpts/internal/core/domain/model/company"
	"tpts/internal/core/domain/model/kernel"
)

// AgentRepository defines the persistence contract for delivery agents.
type AgentRepository interface {
	Add(ctx context.Context, a *agent.Agent) error

	// Update is version checked like every aggregate write.
	Update(ctx context.Context, a *agent.Agent) error

	// Get returns errs.ErrObjectNotFound when the agent does not exist.
	Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error)

	// FindCandidates returns the company's active, available agents with a free slot who
	// serve the city or list the pincode in their service area. Ranking is left to the
	// AgentSelector.
	FindCandidates(ctx context.Context, companyID kernel.UUID, city, pincode string) ([]*agent.Agent, error)
}

// CompanyRepository defines the persistence contract for logistics companies.
type CompanyRepository interface {
	Add(ctx context.Context, c *company.Company) error
	Update(ctx context.Context, c *company.Company) error
	Get(ctx context.Context, id kernel.UUID) (*company.Company, error)
}
