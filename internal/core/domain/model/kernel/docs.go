// Package kernel provides the shared value objects of the logistics core.
//
// The package includes:
//   - UUID: identifier value object wrapping github.com/google/uuid
//   - Address and Coordinates: the pickup, delivery and warehouse snapshots
//   - money helpers over github.com/shopspring/decimal rounding to the smallest currency unit
//
// Value objects validate on construction and are immutable once built.
package kernel
