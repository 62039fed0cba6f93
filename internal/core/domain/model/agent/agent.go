package agent

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/guard"
)

// Domain errors for agent operations.
var (
	// ErrNameIsRequired is returned when creating an agent without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCityIsRequired is returned when creating an agent without a home city.
	ErrCityIsRequired = errs.NewValueIsRequiredError("city")
	// ErrAgentIsNotConstructed is returned when using an improperly initialized Agent.
	ErrAgentIsNotConstructed = errors.New("Agent must be created via NewAgent constructor")
)

// Snapshot is the persisted state of an agent.
type Snapshot struct {
	ID                  kernel.UUID
	CompanyID           kernel.UUID
	Name                string
	Phone               string
	City                string
	ServicePincodes     []string
	IsActive            bool
	IsAvailable         bool
	CurrentOrdersCount  int
	MaxConcurrentOrders int
	RatingAvg           float64
	Location            *kernel.Coordinates
	LocationUpdatedAt   *time.Time
	Version             int64
}

// Agent is a delivery agent employed by a company. It is the aggregate root that owns the
// agent's availability and load; dispatch never changes these fields directly.
//
// Business rules:
//   - currentOrdersCount never exceeds maxConcurrentOrders and never goes below zero
//   - only active and available agents with a free slot can take an order
//   - an agent serves its home city and any pincode in its service list
//
// Example usage:
//
//	a, err := agent.NewAgent(kernel.NewUUID(), companyID, "Kiran", "9000000000", "Chennai",
//	    []string{"600001", "600002"}, 3)
//	if err != nil {
//	    // Handle construction error
//	}
type Agent struct {
	id                  kernel.UUID
	companyID           kernel.UUID
	name                string
	phone               string
	city                string
	servicePincodes     []string
	isActive            bool
	isAvailable         bool
	currentOrdersCount  int
	maxConcurrentOrders int
	ratingAvg           float64
	location            *kernel.Coordinates
	locationUpdatedAt   *time.Time
	kernel.Versioned
	guard guard.ConstructorGuard
}

// NewAgent creates an active agent who is not yet available for work.
func NewAgent(
	id, companyID kernel.UUID,
	name, phone, city string,
	servicePincodes []string,
	maxConcurrentOrders int,
) (*Agent, error) {
	a := &Agent{
		isActive: true,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setIdentity(id, companyID, name, phone),
		a.setServiceArea(city, servicePincodes),
		a.setCapacity(maxConcurrentOrders, 0),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAgent reconstructs an Agent aggregate from persistent storage.
func RestoreAgent(s Snapshot) (*Agent, error) {
	a := &Agent{
		isActive:          s.IsActive,
		isAvailable:       s.IsAvailable,
		location:          s.Location,
		locationUpdatedAt: s.LocationUpdatedAt,
		Versioned:         kernel.RestoreVersioned(s.Version),
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setIdentity(s.ID, s.CompanyID, s.Name, s.Phone),
		a.setServiceArea(s.City, s.ServicePincodes),
		a.setCapacity(s.MaxConcurrentOrders, s.CurrentOrdersCount),
		a.setRating(s.RatingAvg),
	); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *Agent) setIdentity(id, companyID kernel.UUID, name, phone string) error {
	name = strings.TrimSpace(name)
	var nameErr error
	if name == "" {
		nameErr = ErrNameIsRequired
	}

	if err := errors.Join(id.Validate(), companyID.Validate(), nameErr); err != nil {
		return err
	}

	a.id = id
	a.companyID = companyID
	a.name = name
	a.phone = strings.TrimSpace(phone)
	return nil
}

func (a *Agent) setServiceArea(city string, pincodes []string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return ErrCityIsRequired
	}

	cleaned := make([]string, 0, len(pincodes))
	for _, pin := range pincodes {
		if pin = strings.TrimSpace(pin); pin != "" && !slices.Contains(cleaned, pin) {
			cleaned = append(cleaned, pin)
		}
	}

	a.city = city
	a.servicePincodes = cleaned
	return nil
}

func (a *Agent) setCapacity(maxOrders, current int) error {
	if maxOrders <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("max concurrent orders", fmt.Errorf("%d is not greater than 0", maxOrders))
	}
	if current < 0 || current > maxOrders {
		return errs.NewValueIsOutOfRangeError("current orders count", current, 0, maxOrders)
	}
	a.maxConcurrentOrders = maxOrders
	a.currentOrdersCount = current
	return nil
}

func (a *Agent) setRating(rating float64) error {
	if rating < 0 || rating > 5 {
		return errs.NewValueIsOutOfRangeError("rating", rating, 0, 5)
	}
	a.ratingAvg = rating
	return nil
}

// Validate checks that the Agent was built by NewAgent or RestoreAgent.
func (a *Agent) Validate() error {
	if a == nil {
		return ErrAgentIsNotConstructed
	}
	return a.guard.Validate(ErrAgentIsNotConstructed)
}

// IsEqual compares agents by identity.
func (a *Agent) IsEqual(other *Agent) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// Covers reports whether the agent serves a pickup in city/pincode.
func (a *Agent) Covers(city, pincode string) bool {
	return kernel.SameCity(a.city, city) || slices.Contains(a.servicePincodes, strings.TrimSpace(pincode))
}

// HasFreeSlot reports whether the agent can carry one more order.
func (a *Agent) HasFreeSlot() bool {
	return a.currentOrdersCount < a.maxConcurrentOrders
}

// CanTakeOrders reports whether the agent may be offered new work at all.
func (a *Agent) CanTakeOrders() bool {
	return a.isActive && a.isAvailable && a.HasFreeSlot()
}

// TakeSlot occupies one order slot when the agent accepts an offer.
func (a *Agent) TakeSlot() error {
	if !a.CanTakeOrders() {
		return errs.ErrAgentNotAvailable
	}
	a.currentOrdersCount++
	return nil
}

// ReleaseSlot frees one order slot after delivery, cancellation or a finished group leg.
// Releasing with no slot taken is a no-op so that repeated releases stay harmless.
func (a *Agent) ReleaseSlot() {
	if a.currentOrdersCount > 0 {
		a.currentOrdersCount--
	}
}

// SetAvailability toggles whether the agent accepts new offers. Slots already taken are kept.
func (a *Agent) SetAvailability(available bool) error {
	if available && !a.isActive {
		return errs.ErrAgentNotAvailable
	}
	a.isAvailable = available
	return nil
}

// Deactivate removes the agent from dispatch permanently until reactivated by the company.
func (a *Agent) Deactivate() {
	a.isActive = false
	a.isAvailable = false
}

func (a *Agent) Activate() {
	a.isActive = true
}

// UpdateLocation records the agent's last reported position.
func (a *Agent) UpdateLocation(c kernel.Coordinates, now time.Time) error {
	if err := c.Validate(); err != nil {
		return err
	}
	a.location = &c
	a.locationUpdatedAt = &now
	return nil
}

// Rate stores the recalculated average rating.
func (a *Agent) Rate(avg float64) error {
	return a.setRating(avg)
}

func (a *Agent) ID() kernel.UUID                   { return a.id }
func (a *Agent) CompanyID() kernel.UUID            { return a.companyID }
func (a *Agent) Name() string                      { return a.name }
func (a *Agent) Phone() string                     { return a.phone }
func (a *Agent) City() string                      { return a.city }
func (a *Agent) ServicePincodes() []string         { return slices.Clone(a.servicePincodes) }
func (a *Agent) IsActive() bool                    { return a.isActive }
func (a *Agent) IsAvailable() bool                 { return a.isAvailable }
func (a *Agent) CurrentOrdersCount() int           { return a.currentOrdersCount }
func (a *Agent) MaxConcurrentOrders() int          { return a.maxConcurrentOrders }
func (a *Agent) RatingAvg() float64                { return a.ratingAvg }
func (a *Agent) Location() *kernel.Coordinates     { return a.location }
func (a *Agent) LocationUpdatedAt() *time.Time     { return a.locationUpdatedAt }
