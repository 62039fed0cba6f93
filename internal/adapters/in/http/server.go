package http

import (
	"context"
	"net/http"

	"tpts/internal/core/application/usecases/commands"
	"tpts/internal/core/application/usecases/queries"
	"tpts/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

// Handlers are the use cases the API exposes.
type Handlers struct {
	// Companies and agents
	RegisterCompany      commands.RegisterCompanyCommandHandler
	SetCommissionRates   commands.SetCommissionRatesCommandHandler
	RegisterAgent        commands.RegisterAgentCommandHandler
	SetAgentAvailability commands.SetAgentAvailabilityCommandHandler
	UpdateAgentLocation  commands.UpdateAgentLocationCommandHandler
	RespondToAssignment  commands.RespondToAssignmentCommandHandler
	Reassignments        queries.ListParcelsNeedingReassignmentQueryHandler

	// Parcels
	CreateParcel        commands.CreateParcelCommandHandler
	HandlePaymentResult commands.HandlePaymentResultCommandHandler
	DispatchParcel      commands.DispatchParcelCommandHandler
	ManualAssign        commands.ManualAssignCommandHandler
	PickUpParcel        commands.PickUpParcelCommandHandler
	StartTransit        commands.StartTransitCommandHandler
	DeliverParcel       commands.DeliverParcelCommandHandler
	CancelParcel        commands.CancelParcelCommandHandler
	RaiseDispute        commands.RaiseDisputeCommandHandler
	ResolveDispute      commands.ResolveDisputeCommandHandler
	SettleParcel        commands.SettleParcelCommandHandler

	// Groups
	CreateGroup         commands.CreateGroupCommandHandler
	JoinGroup           commands.JoinGroupCommandHandler
	CancelGroup         commands.CancelGroupCommandHandler
	DispatchGroupLeg    commands.DispatchGroupLegCommandHandler
	PickUpGroupParcel   commands.PickUpGroupParcelCommandHandler
	CompleteGroupPickup commands.CompleteGroupPickupCommandHandler
	DeliverGroupParcel  commands.DeliverGroupParcelCommandHandler
	SettleGroup         commands.SettleGroupCommandHandler

	// Wallets
	GetWallet        queries.GetWalletQueryHandler
	GetDailyEarnings queries.GetDailyEarningsQueryHandler
	RequestPayout    commands.RequestPayoutCommandHandler
	ApprovePayout    commands.ApprovePayoutCommandHandler
	RejectPayout     commands.RejectPayoutCommandHandler
}

// OtpLimiter bounds OTP guesses per parcel.
type OtpLimiter interface {
	Allow(ctx context.Context, parcelID kernel.UUID) (bool, error)
	Reset(ctx context.Context, parcelID kernel.UUID) error
}

// Server maps HTTP requests onto commands and queries.
type Server struct {
	h            Handlers
	limiter      OtpLimiter
	maxProofSize int64
	logger       *zap.Logger
}

// NewServer creates the API server. limiter may be nil, which disables OTP rate limiting.
func NewServer(h Handlers, limiter OtpLimiter, maxProofSize int64, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{h: h, limiter: limiter, maxProofSize: maxProofSize, logger: logger}
}

// NewEcho builds the echo instance with middleware, health, metrics, the API routes and
// their swagger UI. API requests are validated against the embedded OpenAPI description.
func NewEcho(s *Server) (*echo.Echo, error) {
	doc, err := LoadOpenAPI(context.Background())
	if err != nil {
		return nil, err
	}
	validator, err := validateRequests(doc)
	if err != nil {
		return nil, err
	}
	if err = registerSwagger(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler(s.logger)

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(requestLogger(s.logger))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	s.Register(e.Group("/api/v1", validator))
	return e, nil
}

// Register mounts the API routes on g.
func (s *Server) Register(g *echo.Group) {
	g.POST("/companies", s.RegisterCompany)
	g.PUT("/companies/:id/commission", s.SetCommissionRates)
	g.GET("/companies/:id/reassignments", s.ListNeedingReassignment)
	g.POST("/companies/:id/groups", s.CreateGroup)

	g.POST("/agents", s.RegisterAgent)
	g.PUT("/agents/:id/availability", s.SetAgentAvailability)
	g.PUT("/agents/:id/location", s.UpdateAgentLocation)
	g.POST("/assignments/:id/response", s.RespondToAssignment)

	g.POST("/parcels", s.CreateParcel)
	g.POST("/parcels/:id/payment", s.HandlePaymentResult)
	g.POST("/parcels/:id/dispatch", s.DispatchParcel)
	g.POST("/parcels/:id/assign", s.ManualAssign)
	g.POST("/parcels/:id/pickup", s.PickUpParcel)
	g.POST("/parcels/:id/transit", s.StartTransit)
	g.POST("/parcels/:id/delivery", s.DeliverParcel)
	g.POST("/parcels/:id/cancel", s.CancelParcel)
	g.POST("/parcels/:id/dispute", s.RaiseDispute)
	g.POST("/parcels/:id/dispute/resolution", s.ResolveDispute)
	g.POST("/parcels/:id/settlement", s.SettleParcel)

	g.POST("/groups/:id/members", s.JoinGroup)
	g.POST("/groups/:id/cancel", s.CancelGroup)
	g.POST("/groups/:id/legs/:leg/dispatch", s.DispatchGroupLeg)
	g.POST("/groups/:id/legs/:leg/assign", s.ManualAssignGroupLeg)
	g.POST("/groups/:id/parcels/:parcelId/pickup", s.PickUpGroupParcel)
	g.POST("/groups/:id/parcels/:parcelId/delivery", s.DeliverGroupParcel)
	g.POST("/groups/:id/pickup/complete", s.CompleteGroupPickup)
	g.POST("/groups/:id/settlement", s.SettleGroup)

	g.GET("/wallets/:ownerId", s.GetWallet)
	g.GET("/wallets/:ownerId/earnings", s.GetDailyEarnings)
	g.POST("/wallets/:ownerId/payouts", s.RequestPayout)
	g.POST("/payouts/:id/approve", s.ApprovePayout)
	g.POST("/payouts/:id/reject", s.RejectPayout)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}

// checkOtp consumes one OTP attempt of the parcel.
func (s *Server) checkOtp(ctx context.Context, parcelID kernel.UUID) error {
	if s.limiter == nil {
		return nil
	}
	ok, err := s.limiter.Allow(ctx, parcelID)
	if err != nil {
		return err
	}
	if !ok {
		return errOtpAttempts
	}
	return nil
}

// otpAccepted clears the parcel's attempts; a failed reset only delays the next window.
func (s *Server) otpAccepted(ctx context.Context, parcelID kernel.UUID) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Reset(ctx, parcelID); err != nil {
		s.logger.Warn("otp attempts not reset", zap.Stringer("parcel_id", parcelID), zap.Error(err))
	}
}
