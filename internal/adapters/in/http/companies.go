package http

import (
	"net/http"

	"tpts/internal/core/application/usecases/commands"
	"tpts/internal/core/application/usecases/queries"
	"tpts/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// RegisterCompany handles POST /api/v1/companies.
func (s *Server) RegisterCompany(c echo.Context) error {
	var req NewCompany
	if err := bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewRegisterCompanyCommand(req.Name, req.City, req.PlatformRate, req.AgentRate)
	if err != nil {
		return err
	}
	id, err := s.h.RegisterCompany.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: id.String()})
}

// SetCommissionRates handles PUT /api/v1/companies/:id/commission.
func (s *Server) SetCommissionRates(c echo.Context) error {
	companyID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req CommissionRates
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewSetCommissionRatesCommand(companyID, req.PlatformRate, req.AgentRate)
	if err != nil {
		return err
	}
	if err = s.h.SetCommissionRates.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListNeedingReassignment handles GET /api/v1/companies/:id/reassignments, the company's
// manual assignment queue.
func (s *Server) ListNeedingReassignment(c echo.Context) error {
	companyID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	query, err := queries.NewListParcelsNeedingReassignmentQuery(companyID)
	if err != nil {
		return err
	}
	items, err := s.h.Reassignments.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]Reassignment, len(items))
	for i, item := range items {
		response[i] = Reassignment{
			Kind:       string(item.Kind),
			ID:         item.ID.String(),
			Reference:  item.Reference,
			SourceCity: item.SourceCity,
			TargetCity: item.TargetCity,
			Status:     item.Status,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// RegisterAgent handles POST /api/v1/agents.
func (s *Server) RegisterAgent(c echo.Context) error {
	var req NewAgent
	if err := bind(c, &req); err != nil {
		return err
	}
	companyID, err := parseID("companyId", req.CompanyID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRegisterAgentCommand(
		companyID, req.Name, req.Phone, req.City, req.ServicePincodes, req.MaxConcurrentOrders)
	if err != nil {
		return err
	}
	id, err := s.h.RegisterAgent.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: id.String()})
}

// SetAgentAvailability handles PUT /api/v1/agents/:id/availability.
func (s *Server) SetAgentAvailability(c echo.Context) error {
	agentID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req Availability
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewSetAgentAvailabilityCommand(agentID, req.Available)
	if err != nil {
		return err
	}
	if err = s.h.SetAgentAvailability.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateAgentLocation handles PUT /api/v1/agents/:id/location.
func (s *Server) UpdateAgentLocation(c echo.Context) error {
	agentID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req Location
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateAgentLocationCommand(agentID, kernel.Coordinates{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		return err
	}
	if err = s.h.UpdateAgentLocation.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RespondToAssignment handles POST /api/v1/assignments/:id/response. A rejection puts
// the subject back in dispatch.
func (s *Server) RespondToAssignment(c echo.Context) error {
	assignmentID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req AssignmentResponse
	if err = bind(c, &req); err != nil {
		return err
	}
	agentID, err := parseID("agentId", req.AgentID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRespondToAssignmentCommand(assignmentID, agentID, req.Accept, req.Reason)
	if err != nil {
		return err
	}
	if err = s.h.RespondToAssignment.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
