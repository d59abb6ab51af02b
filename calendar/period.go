package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned for a range that cannot be resolved.
var ErrInvalidRange = errors.New("invalid date range")

// =============================================================================
// RANGE - Inclusive span of calendar days
// =============================================================================

// Range is the inclusive day span [Start, End].
type Range struct {
	Start Date
	End   Date
}

// NewRange validates that end is not before start.
func NewRange(start, end Date) (Range, error) {
	if end.Before(start) {
		return Range{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, start, end)
	}
	return Range{Start: start, End: end}, nil
}

// ParseRange parses two yyyy-MM-dd strings into a Range.
func ParseRange(start, end string) (Range, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Range{}, fmt.Errorf("%w: start: %v", ErrInvalidRange, err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return Range{}, fmt.Errorf("%w: end: %v", ErrInvalidRange, err)
	}
	return NewRange(s, e)
}

// MonthRange returns the first through last day of the month.
func MonthRange(year int, month time.Month) Range {
	return Range{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// Contains returns true if d is within [Start, End].
func (r Range) Contains(d Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// Days returns every day in the range in ascending order.
func (r Range) Days() []Date {
	var days []Date
	for current := r.Start; current.BeforeOrEqual(r.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// Len is the number of days in the range.
func (r Range) Len() int {
	if r.End.Before(r.Start) {
		return 0
	}
	// Unix seconds, since time.Duration saturates after ~292 years.
	return int((r.End.Time.Unix()-r.Start.Time.Unix())/secondsPerDay) + 1
}

// CheckSpan fails with ErrInvalidRange when r covers more than maxDays.
func (r Range) CheckSpan(maxDays int) error {
	if n := r.Len(); n > maxDays {
		return fmt.Errorf("%w: %s spans %d days, limit is %d", ErrInvalidRange, r, n, maxDays)
	}
	return nil
}

const secondsPerDay = 24 * 60 * 60

func (r Range) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}
