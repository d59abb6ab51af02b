/*
Package calendar provides the date primitives the attendance engine reasons about.

PURPOSE:
  Attendance is keyed by calendar day, never by instant. Everything in this
  package works on Date values normalized to UTC midnight so that weekday and
  ordering checks cannot drift with the local offset of the caller.

KEY CONCEPTS:
  - Date:            A calendar day (no time component)
  - Range:           An inclusive [Start, End] span of days
  - HolidayCalendar: Lookup of non-working holidays
  - HolidaySet:      Immutable in-memory HolidayCalendar

USAGE:
  d, err := calendar.ParseDate("2025-03-10")
  if d.IsWeekend() || holidays.IsHoliday(d) {
      // not a working day
  }

SEE ALSO:
  - period.go: Range enumeration
  - holidays.go: HolidayCalendar implementations
*/
package calendar

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for a Date.
const DateLayout = "2006-01-02"

// =============================================================================
// DATE - A calendar day normalized to UTC midnight
// =============================================================================

type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t as observed in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a yyyy-MM-dd string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for literals in tests and fixtures.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return DateOf(d.Time.AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return DateOf(d.Time.AddDate(0, n, 0)) }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.UTC().Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }
func (d Date) String() string        { return d.Time.Format(DateLayout) }

// IsWeekend reports Saturday or Sunday, evaluated on the UTC-normalized day.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// MonthDay returns the "MM-dd" key used for recurring holidays.
func (d Date) MonthDay() string { return d.Time.Format("01-02") }

// At combines the date with a wall-clock time in loc.
func (d Date) At(hour, min int, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, loc)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func StartOfMonth(year int, month time.Month) Date { return NewDate(year, month, 1) }
func EndOfMonth(year int, month time.Month) Date {
	return DateOf(time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1))
}
