package http

import (
	"net/http"
	"time"

	"tpts/internal/core/application/usecases/commands"
	"tpts/internal/core/application/usecases/queries"
	"tpts/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// GetWallet handles GET /api/v1/wallets/:ownerId.
func (s *Server) GetWallet(c echo.Context) error {
	ownerID, err := pathID(c, "ownerId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetWalletQuery(ownerID)
	if err != nil {
		return err
	}
	w, err := s.h.GetWallet.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Wallet{
		OwnerID:     w.OwnerID.String(),
		Role:        w.Role.String(),
		Available:   w.Available,
		Pending:     w.Pending,
		TotalEarned: w.TotalEarned,
	})
}

// GetDailyEarnings handles GET /api/v1/wallets/:ownerId/earnings?day=2006-01-02. The day
// defaults to today in UTC.
func (s *Server) GetDailyEarnings(c echo.Context) error {
	ownerID, err := pathID(c, "ownerId")
	if err != nil {
		return err
	}

	day := time.Now().UTC()
	if raw := c.QueryParam("day"); raw != "" {
		day, err = time.Parse(time.DateOnly, raw)
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause("day", err)
		}
	}

	query, err := queries.NewGetDailyEarningsQuery(ownerID, day)
	if err != nil {
		return err
	}
	resp, err := s.h.GetDailyEarnings.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dailyEarningsResponse(resp))
}

// RequestPayout handles POST /api/v1/wallets/:ownerId/payouts.
func (s *Server) RequestPayout(c echo.Context) error {
	ownerID, err := pathID(c, "ownerId")
	if err != nil {
		return err
	}
	var req PayoutRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewRequestPayoutCommand(ownerID, req.Amount)
	if err != nil {
		return err
	}
	payoutID, err := s.h.RequestPayout.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: payoutID.String()})
}

// ApprovePayout handles POST /api/v1/payouts/:id/approve.
func (s *Server) ApprovePayout(c echo.Context) error {
	payoutID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req PayoutApproval
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewApprovePayoutCommand(payoutID, req.Reference)
	if err != nil {
		return err
	}
	if err = s.h.ApprovePayout.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RejectPayout handles POST /api/v1/payouts/:id/reject; the reserved amount returns to
// the wallet.
func (s *Server) RejectPayout(c echo.Context) error {
	payoutID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req Reason
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewRejectPayoutCommand(payoutID, req.Reason)
	if err != nil {
		return err
	}
	if err = s.h.RejectPayout.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
