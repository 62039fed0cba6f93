package cmd

import (
	api "tpts/internal/adapters/in/http"
	"tpts/internal/adapters/out/postgres"
	"tpts/internal/adapters/out/system"
	"tpts/internal/core/application/usecases/commands"
	"tpts/internal/core/application/usecases/queries"
	"tpts/internal/core/ports"
	"tpts/internal/jobs"
	"tpts/internal/pkg/retry"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Gateways are the outbound adapters the handlers reach after commit.
type Gateways struct {
	Notifier  ports.Notifier
	Payments  ports.PaymentGateway
	Documents ports.DocumentStorage
}

type CompositionRoot struct {
	gormDB  *gorm.DB
	runtime commands.Runtime
}

func NewCompositionRoot(gormDB *gorm.DB, policy commands.Policy, gw Gateways, logger *zap.Logger) CompositionRoot {
	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB, policy.Settlement.CommissionBounds)

	return CompositionRoot{
		gormDB: gormDB,
		runtime: commands.Runtime{
			UoWFactory: FuncUoWFactory(func() commands.UoW {
				return uowFactory.Create()
			}),
			Clock:     system.Clock{},
			Tokens:    system.Tokens{},
			Documents: gw.Documents,
			Effects:   commands.NewEffectRunner(gw.Notifier, gw.Payments, logger.Named("effects")),
			Retrier:   retry.New(retry.DefaultConfig()),
			Logger:    logger.Named("commands"),
			Policy:    policy,
		},
	}
}

// HTTPHandlers builds every use case the API exposes.
func (c *CompositionRoot) HTTPHandlers() api.Handlers {
	rt := c.runtime
	return api.Handlers{
		RegisterCompany:      commands.NewRegisterCompanyCommandHandler(rt),
		SetCommissionRates:   commands.NewSetCommissionRatesCommandHandler(rt),
		RegisterAgent:        commands.NewRegisterAgentCommandHandler(rt),
		SetAgentAvailability: commands.NewSetAgentAvailabilityCommandHandler(rt),
		UpdateAgentLocation:  commands.NewUpdateAgentLocationCommandHandler(rt),
		RespondToAssignment:  commands.NewRespondToAssignmentCommandHandler(rt),
		Reassignments:        queries.NewListParcelsNeedingReassignmentQueryHandler(c.gormDB),

		CreateParcel:        commands.NewCreateParcelCommandHandler(rt),
		HandlePaymentResult: commands.NewHandlePaymentResultCommandHandler(rt),
		DispatchParcel:      commands.NewDispatchParcelCommandHandler(rt),
		ManualAssign:        commands.NewManualAssignCommandHandler(rt),
		PickUpParcel:        commands.NewPickUpParcelCommandHandler(rt),
		StartTransit:        commands.NewStartTransitCommandHandler(rt),
		DeliverParcel:       commands.NewDeliverParcelCommandHandler(rt),
		CancelParcel:        commands.NewCancelParcelCommandHandler(rt),
		RaiseDispute:        commands.NewRaiseDisputeCommandHandler(rt),
		ResolveDispute:      commands.NewResolveDisputeCommandHandler(rt),
		SettleParcel:        commands.NewSettleParcelCommandHandler(rt),

		CreateGroup:         commands.NewCreateGroupCommandHandler(rt),
		JoinGroup:           commands.NewJoinGroupCommandHandler(rt),
		CancelGroup:         commands.NewCancelGroupCommandHandler(rt),
		DispatchGroupLeg:    commands.NewDispatchGroupLegCommandHandler(rt),
		PickUpGroupParcel:   commands.NewPickUpGroupParcelCommandHandler(rt),
		CompleteGroupPickup: commands.NewCompleteGroupPickupCommandHandler(rt),
		DeliverGroupParcel:  commands.NewDeliverGroupParcelCommandHandler(rt),
		SettleGroup:         commands.NewSettleGroupCommandHandler(rt),

		GetWallet:        queries.NewGetWalletQueryHandler(c.gormDB),
		GetDailyEarnings: queries.NewGetDailyEarningsQueryHandler(c.gormDB),
		RequestPayout:    commands.NewRequestPayoutCommandHandler(rt),
		ApprovePayout:    commands.NewApprovePayoutCommandHandler(rt),
		RejectPayout:     commands.NewRejectPayoutCommandHandler(rt),
	}
}

// JobHandlers builds the sweep commands the background jobs run.
func (c *CompositionRoot) JobHandlers() jobs.Handlers {
	return jobs.Handlers{
		ExpireAssignments:   commands.NewExpireAssignmentsCommandHandler(c.runtime),
		SweepGroupDeadlines: commands.NewSweepGroupDeadlinesCommandHandler(c.runtime),
		ClearEarnings:       commands.NewClearEarningsCommandHandler(c.runtime),
		DispatchPending:     commands.NewDispatchPendingCommandHandler(c.runtime),
	}
}

// FuncUoWFactory adapts the postgres factory, which returns ports.UnitOfWork, to the
// commands.UoWFactory the handlers take.
type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
