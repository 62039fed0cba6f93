package http

import (
	"errors"
	"net/http"

	"tpts/internal/core/application/usecases/commands"
	"tpts/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorKind struct {
	target error
	status int
	kind   string
}

// errorKinds is checked in order; the first sentinel the error wraps decides the status.
var errorKinds = []errorKind{
	{errs.ErrObjectNotFound, http.StatusNotFound, "not_found"},

	{errs.ErrValueIsRequired, http.StatusBadRequest, "value_required"},
	{errs.ErrValueIsInvalid, http.StatusBadRequest, "value_invalid"},
	{errs.ErrValueIsOutOfRange, http.StatusBadRequest, "value_out_of_range"},

	{errs.ErrInvalidPickupOtp, http.StatusUnprocessableEntity, "invalid_pickup_otp"},
	{errs.ErrInvalidDeliveryOtp, http.StatusUnprocessableEntity, "invalid_delivery_otp"},
	{errs.ErrOtpExpired, http.StatusUnprocessableEntity, "otp_expired"},
	{errs.ErrRouteMismatch, http.StatusUnprocessableEntity, "route_mismatch"},
	{errs.ErrInsufficientFunds, http.StatusUnprocessableEntity, "insufficient_funds"},
	{errs.ErrPaymentFailed, http.StatusPaymentRequired, "payment_failed"},

	{errs.ErrInvalidStatusTransition, http.StatusConflict, "invalid_status_transition"},
	{errs.ErrAgentNotAvailable, http.StatusConflict, "agent_not_available"},
	{errs.ErrNoAgentsAvailable, http.StatusConflict, "no_agents_available"},
	{errs.ErrAgentAlreadyAssigned, http.StatusConflict, "agent_already_assigned"},
	{errs.ErrNeedsReassignment, http.StatusConflict, "needs_reassignment"},
	{errs.ErrAssignmentAlreadyResponded, http.StatusConflict, "assignment_already_responded"},
	{errs.ErrAssignmentExpired, http.StatusGone, "assignment_expired"},
	{errs.ErrGroupFull, http.StatusConflict, "group_full"},
	{errs.ErrGroupClosed, http.StatusConflict, "group_closed"},
	{errs.ErrGroupDeadlinePassed, http.StatusGone, "group_deadline_passed"},
	{errs.ErrAlreadyJoinedGroup, http.StatusConflict, "already_joined_group"},
	{errs.ErrPaymentAlreadyProcessed, http.StatusConflict, "payment_already_processed"},
	{errs.ErrConcurrentModification, http.StatusConflict, "concurrent_modification"},
	{commands.ErrActiveAssignmentExists, http.StatusConflict, "active_assignment_exists"},
	{commands.ErrParcelInGroup, http.StatusConflict, "parcel_in_group"},
	{commands.ErrParcelNotInGroup, http.StatusConflict, "parcel_not_in_group"},
	{commands.ErrCompanyMismatch, http.StatusConflict, "company_mismatch"},
	{commands.ErrGroupParcelsPending, http.StatusConflict, "group_parcels_pending"},

	{errs.ErrRefundFailed, http.StatusBadGateway, "refund_failed"},
}

// errOtpAttempts is returned when a parcel ran out of OTP attempts for the current window.
var errOtpAttempts = errors.New("too many otp attempts")

// toError maps err to a status and body. Integrity violations and unknown errors are
// reported without their detail.
func toError(err error) Error {
	if errors.Is(err, errOtpAttempts) {
		return Error{Code: http.StatusTooManyRequests, Kind: "otp_attempts_exceeded", Message: err.Error()}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		return Error{Code: he.Code, Kind: "http", Message: msg}
	}

	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return Error{Code: k.status, Kind: k.kind, Message: err.Error()}
		}
	}

	return Error{Code: http.StatusInternalServerError, Kind: "internal", Message: "internal error"}
}

// ErrorHandler renders handler errors as Error bodies and logs the ones that are ours.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		body := toError(err)
		if body.Code >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", body.Code),
				zap.Error(err),
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(body.Code)
		} else {
			writeErr = c.JSON(body.Code, body)
		}
		if writeErr != nil {
			logger.Warn("error response not written", zap.Error(writeErr))
		}
	}
}
