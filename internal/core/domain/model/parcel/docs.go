// Package parcel implements the Parcel aggregate: a single shipment moving through
// Created -> Confirmed -> Assigned -> PickedUp -> InTransit -> Delivered, or Cancelled
// from any non-terminal state.
//
// All status changes go through Status.TransitionTo. Pickup and delivery require the
// matching single-use OTP; a wrong OTP is rejected without consuming the stored one, so
// the caller may retry (attempts are rate-limited outside this package).
package parcel
