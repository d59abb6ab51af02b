package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// HoursPlaces is the precision of every worked-hours figure.
const HoursPlaces = 2

var nanosPerHour = decimal.NewFromInt(int64(time.Hour))

// HoursBetween returns the elapsed hours from start to end, rounded half-up to
// two decimal places. A non-positive window yields zero.
//
//	09:00 -> 17:30  = 8.5
//	09:15 -> 18:00  = 8.75
//	09:00 -> 09:20  = 0.33
func HoursBetween(start, end time.Time) decimal.Decimal {
	elapsed := end.Sub(start)
	if elapsed <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(elapsed)).Div(nanosPerHour).Round(HoursPlaces)
}

// deriveDuration keeps a non-zero stored duration, otherwise computes one
// from the times when both are present.
func deriveDuration(stored *decimal.Decimal, start, end *time.Time) *decimal.Decimal {
	if stored != nil && !stored.IsZero() {
		d := *stored
		return &d
	}
	if start != nil && end != nil {
		d := HoursBetween(*start, *end)
		return &d
	}
	if stored != nil {
		d := *stored
		return &d
	}
	return nil
}
