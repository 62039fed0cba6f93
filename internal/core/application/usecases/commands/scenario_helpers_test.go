package commands_test

import (
	"testing"

	"tpts/internal/core/application/usecases/commands"
	"tpts/internal/core/domain/model/assignment"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/parcel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const otp = "123456"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func address(t *testing.T, city, pincode string) kernel.Address {
	t.Helper()
	a, err := kernel.NewAddress("Meera Iyer", "+919800000001", "14 Residency Road", city, pincode,
		kernel.Coordinates{Latitude: 12.97, Longitude: 77.59})
	require.NoError(t, err)
	return a
}

// flatPricing makes every parcel cost exactly amount, which keeps expected splits readable.
func (w *world) flatPricing(amount string) {
	w.rt.Policy.Pricing = commands.PricingPolicy{
		BaseFare: dec(amount),
		PerKm:    decimal.Zero,
		PerKg:    decimal.Zero,
		TaxRate:  decimal.Zero,
	}
}

func (w *world) company(t *testing.T, platformRate, agentRate string) kernel.UUID {
	t.Helper()
	cmd, err := commands.NewRegisterCompanyCommand("Swift Couriers", "Bengaluru", dec(platformRate), dec(agentRate))
	require.NoError(t, err)
	id, err := commands.NewRegisterCompanyCommandHandler(w.rt).Handle(t.Context(), cmd)
	require.NoError(t, err)
	return id
}

// agent registers an available agent serving city.
func (w *world) agent(t *testing.T, companyID kernel.UUID, name, city string) kernel.UUID {
	t.Helper()
	cmd, err := commands.NewRegisterAgentCommand(companyID, name, "+919811111111", city, nil, 3)
	require.NoError(t, err)
	id, err := commands.NewRegisterAgentCommandHandler(w.rt).Handle(t.Context(), cmd)
	require.NoError(t, err)

	avail, err := commands.NewSetAgentAvailabilityCommand(id, true)
	require.NoError(t, err)
	require.NoError(t, commands.NewSetAgentAvailabilityCommandHandler(w.rt).Handle(t.Context(), avail))
	return id
}

func (w *world) booking(t *testing.T, customerID, companyID kernel.UUID, from, to string) commands.CreatedParcel {
	t.Helper()
	cmd, err := commands.NewCreateParcelCommand(customerID, companyID,
		address(t, from, "560001"), address(t, to, "600001"),
		parcel.Package{WeightKg: dec("2"), Type: "box"}, dec("12"))
	require.NoError(t, err)
	created, err := commands.NewCreateParcelCommandHandler(w.rt).Handle(t.Context(), cmd)
	require.NoError(t, err)
	return created
}

// confirmedParcel books and pays for a parcel from Bengaluru to Chennai.
func (w *world) confirmedParcel(t *testing.T, companyID kernel.UUID) kernel.UUID {
	t.Helper()
	created := w.booking(t, kernel.NewUUID(), companyID, "Bengaluru", "Chennai")
	cmd, err := commands.NewHandlePaymentResultCommand(created.ParcelID, true, "pay_"+created.TrackingNumber)
	require.NoError(t, err)
	require.NoError(t, commands.NewHandlePaymentResultCommandHandler(w.rt).Handle(t.Context(), cmd))
	return created.ParcelID
}

func (w *world) dispatch(t *testing.T, parcelID kernel.UUID) (kernel.UUID, error) {
	t.Helper()
	cmd, err := commands.NewDispatchParcelCommand(parcelID)
	require.NoError(t, err)
	return commands.NewDispatchParcelCommandHandler(w.rt).Handle(t.Context(), cmd)
}

func (w *world) respond(t *testing.T, assignmentID, agentID kernel.UUID, accept bool) error {
	t.Helper()
	reason := ""
	if !accept {
		reason = "too far"
	}
	cmd, err := commands.NewRespondToAssignmentCommand(assignmentID, agentID, accept, reason)
	require.NoError(t, err)
	return commands.NewRespondToAssignmentCommandHandler(w.rt).Handle(t.Context(), cmd)
}

// acceptOffer answers the pending offer of subject on behalf of whoever received it.
func (w *world) acceptOffer(t *testing.T, subject assignment.Subject) kernel.UUID {
	t.Helper()
	a := w.activeAssignment(subject)
	require.NotNil(t, a, "no offer for %s", subject)
	require.Equal(t, assignment.Pending, a.Status())
	require.NoError(t, w.respond(t, a.ID(), a.AgentID(), true))
	return a.AgentID()
}

// deliverParcel walks an assigned parcel through pickup, transit and delivery.
func (w *world) deliverParcel(t *testing.T, parcelID, agentID kernel.UUID, tip string) {
	t.Helper()
	ctx := t.Context()

	pickUp, err := commands.NewPickUpParcelCommand(parcelID, agentID, otp)
	require.NoError(t, err)
	require.NoError(t, commands.NewPickUpParcelCommandHandler(w.rt).Handle(ctx, pickUp))

	transit, err := commands.NewStartTransitCommand(parcelID, agentID)
	require.NoError(t, err)
	require.NoError(t, commands.NewStartTransitCommandHandler(w.rt).Handle(ctx, transit))

	deliver, err := commands.NewDeliverParcelCommand(parcelID, agentID, otp, nil, dec(tip))
	require.NoError(t, err)
	require.NoError(t, commands.NewDeliverParcelCommandHandler(w.rt).Handle(ctx, deliver))
}

func (w *world) parcel(id kernel.UUID) *parcel.Parcel {
	return w.store.parcels[id]
}
