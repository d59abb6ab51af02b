package calendar

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// =============================================================================
// HOLIDAY CALENDAR - Organization holidays
// =============================================================================

// Holiday represents an organization holiday, a non-working day.
type Holiday struct {
	ID        string
	CompanyID string // Empty string = global/default holidays
	Date      Date
	Name      string
	Recurring bool // true = same month/day every year
}

// HolidayCalendar answers whether a date is a declared holiday.
// Implementations must be safe for concurrent use.
type HolidayCalendar interface {
	IsHoliday(d Date) bool
}

// NoHolidays is a calendar with no holidays at all.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(Date) bool { return false }

// IsWorkingDay reports a date that is neither a weekend nor a holiday.
func IsWorkingDay(cal HolidayCalendar, d Date) bool {
	if d.IsWeekend() {
		return false
	}
	if cal != nil && cal.IsHoliday(d) {
		return false
	}
	return true
}

// =============================================================================
// HOLIDAY SET - Immutable in-memory calendar
// =============================================================================

// HolidaySet is an immutable set of yyyy-MM-dd dates plus recurring MM-dd days.
// The zero value is an empty calendar.
type HolidaySet struct {
	dates     map[string]struct{}
	recurring map[string]struct{}
}

// NewHolidaySet builds a set from yyyy-MM-dd strings.
func NewHolidaySet(dates ...string) (HolidaySet, error) {
	set := HolidaySet{dates: make(map[string]struct{}, len(dates))}
	for _, s := range dates {
		d, err := ParseDate(s)
		if err != nil {
			return HolidaySet{}, fmt.Errorf("holiday set: %w", err)
		}
		set.dates[d.String()] = struct{}{}
	}
	return set, nil
}

// MustHolidaySet is NewHolidaySet for literals.
func MustHolidaySet(dates ...string) HolidaySet {
	set, err := NewHolidaySet(dates...)
	if err != nil {
		panic(err)
	}
	return set
}

// HolidaySetFrom builds a set from holiday records. Recurring holidays match
// their month/day in every year.
func HolidaySetFrom(holidays []Holiday) HolidaySet {
	set := HolidaySet{
		dates:     make(map[string]struct{}),
		recurring: make(map[string]struct{}),
	}
	for _, h := range holidays {
		if h.Recurring {
			set.recurring[h.Date.MonthDay()] = struct{}{}
			continue
		}
		set.dates[h.Date.String()] = struct{}{}
	}
	return set
}

func (s HolidaySet) IsHoliday(d Date) bool {
	if _, ok := s.dates[d.String()]; ok {
		return true
	}
	_, ok := s.recurring[d.MonthDay()]
	return ok
}

// Len counts fixed dates and recurring days.
func (s HolidaySet) Len() int { return len(s.dates) + len(s.recurring) }

// Dates returns the fixed holiday dates in ascending order.
func (s HolidaySet) Dates() []string {
	out := make([]string, 0, len(s.dates))
	for d := range s.dates {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// =============================================================================
// SNAPSHOT - Atomically swappable calendar
// =============================================================================

// Snapshot holds the current HolidaySet and lets a refresher replace it while
// readers keep using whichever immutable set they loaded.
type Snapshot struct {
	current atomic.Pointer[HolidaySet]
}

// NewSnapshot starts with the given set.
func NewSnapshot(initial HolidaySet) *Snapshot {
	s := &Snapshot{}
	s.Store(initial)
	return s
}

// Store replaces the current set.
func (s *Snapshot) Store(set HolidaySet) { s.current.Store(&set) }

// Load returns the current set.
func (s *Snapshot) Load() HolidaySet {
	if p := s.current.Load(); p != nil {
		return *p
	}
	return HolidaySet{}
}

func (s *Snapshot) IsHoliday(d Date) bool { return s.Load().IsHoliday(d) }

// Pinnable is a calendar that can hand out an immutable copy of itself.
// Callers resolving many days pin once instead of reading a live calendar
// that may be swapped mid-loop.
type Pinnable interface {
	HolidayCalendar
	Load() HolidaySet
}

var _ Pinnable = (*Snapshot)(nil)
