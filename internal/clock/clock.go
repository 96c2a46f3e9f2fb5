// Package clock abstracts the wall clock so that every token operation can
// take exactly one reading and tests can pin time.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns T. Set advances it.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.T
}

func (c *FixedClock) Set(t time.Time) {
	c.T = t
}

func (c *FixedClock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}
