package clock

import "time"

// FakeClock pins Now to a fixed instant so batch timing assertions are
// reproducible.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward, for asserting on a run's elapsed time.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
