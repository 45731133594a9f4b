package clock

import "time"

// Clock provides current time.
type Clock interface {
	Now() time.Time
}

// Real is the wall clock, in UTC.
type Real struct{}

// Now returns current time.
func (Real) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant. Handy in tests and one-shot CLI runs.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time { return time.Time(f) }

// Func adapts a plain function to Clock.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time { return f() }
