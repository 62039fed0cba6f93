// Package assignment models offers of work to delivery agents. An Assignment targets either
// a parcel or one leg (pickup or delivery) of a group shipment; at most one active
// assignment exists per subject at a time.
package assignment
