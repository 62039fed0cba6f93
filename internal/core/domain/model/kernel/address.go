package kernel

import (
	"errors"
	"strings"

	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/guard"
)

var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError("address must be created via NewAddress")

// Coordinates is a WGS84 point. Accuracy of geocoding is not this package's concern,
// only the valid latitude/longitude ranges are enforced.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Validate checks latitude and longitude bounds.
func (c Coordinates) Validate() error {
	return errors.Join(
		rangeCheck("latitude", c.Latitude, -90, 90),
		rangeCheck("longitude", c.Longitude, -180, 180),
	)
}

func rangeCheck(name string, v, minValue, maxValue float64) error {
	if v < minValue || v > maxValue {
		return errs.NewValueIsOutOfRangeError(name, v, minValue, maxValue)
	}
	return nil
}

// Address is the contact-and-location snapshot copied onto a parcel (pickup and delivery)
// or a group (warehouse) at creation time. Later edits of a user's address book never
// change an existing snapshot.
type Address struct {
	name        string
	phone       string
	line        string
	city        string
	pincode     string
	coordinates Coordinates
	guard       guard.ConstructorGuard
}

// NewAddress validates and builds an Address. City comparison across the core is
// case-insensitive, so the city is stored trimmed.
func NewAddress(name, phone, line, city, pincode string, coordinates Coordinates) (Address, error) {
	a := Address{
		name:        strings.TrimSpace(name),
		phone:       strings.TrimSpace(phone),
		line:        strings.TrimSpace(line),
		city:        strings.TrimSpace(city),
		pincode:     strings.TrimSpace(pincode),
		coordinates: coordinates,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		required("name", a.name),
		required("phone", a.phone),
		required("address", a.line),
		required("city", a.city),
		required("pincode", a.pincode),
		coordinates.Validate(),
	); err != nil {
		return Address{}, err
	}

	return a, nil
}

func required(name, v string) error {
	if v == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) Name() string             { return a.name }
func (a Address) Phone() string            { return a.phone }
func (a Address) Line() string             { return a.line }
func (a Address) City() string             { return a.city }
func (a Address) Pincode() string          { return a.pincode }
func (a Address) Coordinates() Coordinates { return a.coordinates }

// SameCity compares two city names the way routes are matched.
func SameCity(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
