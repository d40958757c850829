package clock

import "time"

// DateLayout is the calendar-date form stored in lastPlayedDate and mission boards.
const DateLayout = "2006-01-02"

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock in a fixed calendar location
type RealClock struct {
	loc *time.Location
}

// New creates a RealClock. A nil location means time.Local.
func New(loc *time.Location) *RealClock {
	if loc == nil {
		loc = time.Local
	}
	return &RealClock{loc: loc}
}

// Now returns the current time in the clock's location
func (c *RealClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// FixedClock is a settable Clock for tests and tools
type FixedClock struct {
	CurrentTime time.Time
}

var _ Clock = (*FixedClock)(nil)

// NewFixed creates a FixedClock set to t
func NewFixed(t time.Time) *FixedClock {
	return &FixedClock{CurrentTime: t}
}

// Now returns the fixed time
func (c *FixedClock) Now() time.Time {
	return c.CurrentTime
}

// Advance moves the clock forward by d
func (c *FixedClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
}

// Today formats the calendar date of c.Now().
func Today(c Clock) string {
	return c.Now().Format(DateLayout)
}

// Yesterday formats the calendar date before t's.
func Yesterday(t time.Time) string {
	return t.AddDate(0, 0, -1).Format(DateLayout)
}
