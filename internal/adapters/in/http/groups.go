package http

import (
	"net/http"

	"tpts/internal/core/application/usecases/commands"
	"tpts/internal/core/domain/model/group"

	"github.com/labstack/echo/v4"
)

// CreateGroup handles POST /api/v1/companies/:id/groups. Zero or missing terms fall
// back to the platform defaults.
func (s *Server) CreateGroup(c echo.Context) error {
	companyID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req NewGroup
	if err = bind(c, &req); err != nil {
		return err
	}
	warehouse, err := req.Warehouse.toDomain()
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateGroupCommand(
		companyID,
		group.Route{SourceCity: req.SourceCity, TargetCity: req.TargetCity},
		warehouse,
		commands.GroupTerms{
			TargetMembers: req.TargetMembers,
			MinMembers:    req.MinMembers,
			DiscountRate:  req.DiscountRate,
			Deadline:      req.Deadline,
		},
	)
	if err != nil {
		return err
	}
	created, err := s.h.CreateGroup.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CreatedGroup{ID: created.GroupID.String(), Code: created.Code})
}

// JoinGroup handles POST /api/v1/groups/:id/members.
func (s *Server) JoinGroup(c echo.Context) error {
	groupID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req GroupMember
	if err = bind(c, &req); err != nil {
		return err
	}
	parcelID, err := parseID("parcelId", req.ParcelID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewJoinGroupCommand(groupID, parcelID)
	if err != nil {
		return err
	}
	joined, err := s.h.JoinGroup.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, JoinedGroup{FinalPrice: joined.FinalPrice, Refund: joined.Refund, Closed: joined.Closed})
}

// CancelGroup handles POST /api/v1/groups/:id/cancel.
func (s *Server) CancelGroup(c echo.Context) error {
	groupID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewCancelGroupCommand(groupID)
	if err != nil {
		return err
	}
	if err = s.h.CancelGroup.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DispatchGroupLeg handles POST /api/v1/groups/:id/legs/:leg/dispatch, where leg is
// pickup or delivery.
func (s *Server) DispatchGroupLeg(c echo.Context) error {
	groupID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	leg, err := pathLeg(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewDispatchGroupLegCommand(groupID, leg)
	if err != nil {
		return err
	}
	assignmentID, err := s.h.DispatchGroupLeg.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: assignmentID.String()})
}

// ManualAssignGroupLeg handles POST /api/v1/groups/:id/legs/:leg/assign.
func (s *Server) ManualAssignGroupLeg(c echo.Context) error {
	groupID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	leg, err := pathLeg(c)
	if err != nil {
		return err
	}
	var req AgentRef
	if err = bind(c, &req); err != nil {
		return err
	}
	agentID, err := parseID("agentId", req.AgentID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewManualAssignGroupLegCommand(groupID, leg, agentID)
	if err != nil {
		return err
	}
	assignmentID, err := s.h.ManualAssign.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: assignmentID.String()})
}

// PickUpGroupParcel handles POST /api/v1/groups/:id/parcels/:parcelId/pickup.
func (s *Server) PickUpGroupParcel(c echo.Context) error {
	groupID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	parcelID, err := pathID(c, "parcelId")
	if err != nil {
		return err
	}
	var req OtpProof
	if err = bind(c, &req); err != nil {
		return err
	}
	agentID, err := parseID("agentId", req.AgentID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewPickUpGroupParcelCommand(groupID, parcelID, agentID, req.Otp)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err = s.checkOtp(ctx, parcelID); err != nil {
		return err
	}
	if err = s.h.PickUpGroupParcel.Handle(ctx, cmd); err != nil {
		return err
	}
	s.otpAccepted(ctx, parcelID)
	return c.NoContent(http.StatusNoContent)
}

// CompleteGroupPickup handles POST /api/v1/groups/:id/pickup/complete once every member
// is at the warehouse.
func (s *Server) CompleteGroupPickup(c echo.Context) error {
	groupID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req AgentRef
	if err = bind(c, &req); err != nil {
		return err
	}
	agentID, err := parseID("agentId", req.AgentID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCompleteGroupPickupCommand(groupID, agentID)
	if err != nil {
		return err
	}
	if err = s.h.CompleteGroupPickup.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeliverGroupParcel handles POST /api/v1/groups/:id/parcels/:parcelId/delivery as a
// multipart form, like a single delivery without the tip.
func (s *Server) DeliverGroupParcel(c echo.Context) error {
	groupID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	parcelID, err := pathID(c, "parcelId")
	if err != nil {
		return err
	}
	form, err := readDeliveryForm(c, s.maxProofSize)
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeliverGroupParcelCommand(groupID, parcelID, form.agentID, form.otp, form.proof)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err = s.checkOtp(ctx, parcelID); err != nil {
		return err
	}
	if err = s.h.DeliverGroupParcel.Handle(ctx, cmd); err != nil {
		return err
	}
	s.otpAccepted(ctx, parcelID)
	return c.NoContent(http.StatusNoContent)
}

// SettleGroup handles POST /api/v1/groups/:id/settlement.
func (s *Server) SettleGroup(c echo.Context) error {
	groupID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewSettleGroupCommand(groupID)
	if err != nil {
		return err
	}
	settlement, err := s.h.SettleGroup.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, groupSettlementResponse(settlement))
}
