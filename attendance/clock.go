package attendance

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/warp/attendance-engine/calendar"
)

// =============================================================================
// CLOCK - Source of "now" and "today"
// =============================================================================

// Clock supplies the current instant. "Today" is the calendar day of Now()
// in the clock's own location.
type Clock interface {
	Now() time.Time
}

// Today returns the calendar day of c.Now().
func Today(c Clock) calendar.Date { return calendar.DateOf(c.Now()) }

// SystemClock reads the wall clock in Location (UTC when nil).
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

// FixedClock is a settable clock for tests and scenarios.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixedClock(t time.Time) *FixedClock { return &FixedClock{now: t} }

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// =============================================================================
// IDS
// =============================================================================

// IDGenerator produces record IDs.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues time-ordered UUIDv7 strings.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.Must(uuid.NewV7()).String() }

// SequenceGenerator issues "<prefix>-0001", "<prefix>-0002", ... for
// deterministic output in tests and golden files.
type SequenceGenerator struct {
	Prefix string

	mu sync.Mutex
	n  int
}

func (g *SequenceGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	prefix := g.Prefix
	if prefix == "" {
		prefix = "rec"
	}
	return fmt.Sprintf("%s-%04d", prefix, g.n)
}
