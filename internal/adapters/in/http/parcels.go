package http

import (
	"net/http"

	"tpts/internal/core/application/usecases/commands"
	"tpts/internal/core/domain/model/parcel"

	"github.com/labstack/echo/v4"
)

// CreateParcel handles POST /api/v1/parcels. The parcel waits for its payment result
// before it can be dispatched.
func (s *Server) CreateParcel(c echo.Context) error {
	var req NewParcel
	if err := bind(c, &req); err != nil {
		return err
	}
	customerID, err := parseID("customerId", req.CustomerID)
	if err != nil {
		return err
	}
	companyID, err := parseID("companyId", req.CompanyID)
	if err != nil {
		return err
	}
	pickup, err := req.Pickup.toDomain()
	if err != nil {
		return err
	}
	delivery, err := req.Delivery.toDomain()
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateParcelCommand(customerID, companyID, pickup, delivery, parcel.Package{
		WeightKg:    req.WeightKg,
		Type:        req.PackageType,
		Description: req.Description,
	}, req.DistanceKm)
	if err != nil {
		return err
	}
	created, err := s.h.CreateParcel.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createdParcelResponse(created))
}

// HandlePaymentResult handles POST /api/v1/parcels/:id/payment, the gateway callback.
func (s *Server) HandlePaymentResult(c echo.Context) error {
	parcelID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req PaymentResult
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewHandlePaymentResultCommand(parcelID, req.Success, req.Reference)
	if err != nil {
		return err
	}
	if err = s.h.HandlePaymentResult.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DispatchParcel handles POST /api/v1/parcels/:id/dispatch and returns the offer made.
func (s *Server) DispatchParcel(c echo.Context) error {
	parcelID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewDispatchParcelCommand(parcelID)
	if err != nil {
		return err
	}
	assignmentID, err := s.h.DispatchParcel.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: assignmentID.String()})
}

// ManualAssign handles POST /api/v1/parcels/:id/assign.
func (s *Server) ManualAssign(c echo.Context) error {
	parcelID, err := pathID(c, "id")
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

	cmd, err := commands.NewManualAssignCommand(parcelID, agentID)
	if err != nil {
		return err
	}
	assignmentID, err := s.h.ManualAssign.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: assignmentID.String()})
}

// PickUpParcel handles POST /api/v1/parcels/:id/pickup.
func (s *Server) PickUpParcel(c echo.Context) error {
	parcelID, err := pathID(c, "id")
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

	cmd, err := commands.NewPickUpParcelCommand(parcelID, agentID, req.Otp)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err = s.checkOtp(ctx, parcelID); err != nil {
		return err
	}
	if err = s.h.PickUpParcel.Handle(ctx, cmd); err != nil {
		return err
	}
	s.otpAccepted(ctx, parcelID)
	return c.NoContent(http.StatusNoContent)
}

// StartTransit handles POST /api/v1/parcels/:id/transit.
func (s *Server) StartTransit(c echo.Context) error {
	parcelID, err := pathID(c, "id")
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

	cmd, err := commands.NewStartTransitCommand(parcelID, agentID)
	if err != nil {
		return err
	}
	if err = s.h.StartTransit.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeliverParcel handles POST /api/v1/parcels/:id/delivery. The body is a multipart form
// with agentId, otp, an optional tip and an optional proof photo.
func (s *Server) DeliverParcel(c echo.Context) error {
	parcelID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	form, err := readDeliveryForm(c, s.maxProofSize)
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeliverParcelCommand(parcelID, form.agentID, form.otp, form.proof, form.tip)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err = s.checkOtp(ctx, parcelID); err != nil {
		return err
	}
	if err = s.h.DeliverParcel.Handle(ctx, cmd); err != nil {
		return err
	}
	s.otpAccepted(ctx, parcelID)
	return c.NoContent(http.StatusNoContent)
}

// CancelParcel handles POST /api/v1/parcels/:id/cancel.
func (s *Server) CancelParcel(c echo.Context) error {
	parcelID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req Reason
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewCancelParcelCommand(parcelID, req.Reason)
	if err != nil {
		return err
	}
	if err = s.h.CancelParcel.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RaiseDispute handles POST /api/v1/parcels/:id/dispute.
func (s *Server) RaiseDispute(c echo.Context) error {
	parcelID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req Reason
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewRaiseDisputeCommand(parcelID, req.Reason)
	if err != nil {
		return err
	}
	if err = s.h.RaiseDispute.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ResolveDispute handles POST /api/v1/parcels/:id/dispute/resolution.
func (s *Server) ResolveDispute(c echo.Context) error {
	parcelID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req DisputeResolution
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewResolveDisputeCommand(parcelID, req.Refund)
	if err != nil {
		return err
	}
	if err = s.h.ResolveDispute.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SettleParcel handles POST /api/v1/parcels/:id/settlement and returns the posted split.
func (s *Server) SettleParcel(c echo.Context) error {
	parcelID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req SettlementExtras
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewSettleParcelCommand(parcelID, req.Bonus, req.Tip)
	if err != nil {
		return err
	}
	split, err := s.h.SettleParcel.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, splitResponse(split))
}
