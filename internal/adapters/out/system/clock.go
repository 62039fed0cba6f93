// Package system adapts the process environment: wall clock and random tokens.
package system

import "time"

// Clock reads the wall clock in UTC.
type Clock struct{}

func (Clock) Now() time.Time { return time.Now().UTC() }
