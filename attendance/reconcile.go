/*
reconcile.go - Stored records + computed calendar -> one view per day

PURPOSE:
  Produces the dense daily attendance view. The calendar is the ground truth
  for WEEKEND; stored records are trusted for everything else. Nothing here
  touches storage: Resolve is a pure function of its input.

RESOLUTION (per date, first match wins):
  1. Record exists but disagrees with the weekend signal
       weekend day and status != WEEKEND, or
       working day and status == WEEKEND
     -> calendar status (WEEKEND, HOLIDAY, nil if future, ABSENT),
        record ID kept, times/reason/leave type/duration dropped
  2. Record exists, no disagreement
     -> record fields verbatim, duration derived when missing
  3. No record
     -> nil if future, HOLIDAY, WEEKEND, ABSENT

  Rules 1 and 3 rank the calendar signals differently: a future weekend with
  no record is undetermined, a future weekend with a stray record is WEEKEND.

  A record with no status on a weekend counts as disagreeing.

SEE ALSO:
  - service.go: GetMonthlyAttendance, GetYearlyAttendance
  - duration.go: HoursBetween
*/
package attendance

import (
	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/calendar"
)

// ResolveInput is everything the resolver reads. Records outside Range are
// ignored.
type ResolveInput struct {
	Range    calendar.Range
	Calendar calendar.HolidayCalendar
	Today    calendar.Date
	Records  []Record
}

// Resolve returns one DailyView per day of the range, in ascending order.
// Identical input yields identical output.
func Resolve(in ResolveInput) []DailyView {
	byDate := make(map[string]Record, len(in.Records))
	for _, rec := range in.Records {
		key := rec.Date.String()
		if _, dup := byDate[key]; dup {
			continue
		}
		byDate[key] = rec
	}

	days := in.Range.Days()
	views := make([]DailyView, 0, len(days))
	for _, day := range days {
		sig := daySignals{
			weekend: day.IsWeekend(),
			holiday: in.Calendar != nil && in.Calendar.IsHoliday(day),
			future:  day.After(in.Today),
		}

		rec, ok := byDate[day.String()]
		switch {
		case ok && sig.disagrees(rec):
			views = append(views, DailyView{
				Date:   day,
				ID:     Ptr(rec.ID),
				Status: sig.overrideStatus(),
			})
		case ok:
			views = append(views, recordView(day, rec))
		default:
			views = append(views, DailyView{Date: day, Status: sig.defaultStatus()})
		}
	}
	return views
}

type daySignals struct {
	weekend bool
	holiday bool
	future  bool
}

func (s daySignals) disagrees(rec Record) bool {
	storedWeekend := rec.HasStatus(StatusWeekend)
	return s.weekend != storedWeekend
}

// overrideStatus replaces a stored status the calendar contradicts.
// Weekend comes first so a stray record on a weekend always renders WEEKEND.
func (s daySignals) overrideStatus() *Status {
	switch {
	case s.weekend:
		return Ptr(StatusWeekend)
	case s.holiday:
		return Ptr(StatusHoliday)
	case s.future:
		return nil
	default:
		return Ptr(StatusAbsent)
	}
}

// defaultStatus is the status of a day nobody recorded anything for.
// Future days stay undetermined, weekends included.
func (s daySignals) defaultStatus() *Status {
	switch {
	case s.future:
		return nil
	case s.holiday:
		return Ptr(StatusHoliday)
	case s.weekend:
		return Ptr(StatusWeekend)
	default:
		return Ptr(StatusAbsent)
	}
}

func recordView(day calendar.Date, rec Record) DailyView {
	rec = rec.Clone()
	return DailyView{
		Date:      day,
		ID:        Ptr(rec.ID),
		Status:    rec.Status,
		StartTime: rec.StartTime,
		EndTime:   rec.EndTime,
		Reason:    rec.Reason,
		LeaveType: rec.LeaveType,
		Duration:  deriveDuration(rec.Duration, rec.StartTime, rec.EndTime),
	}
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summary aggregates a resolved view.
type Summary struct {
	Days         int
	Counts       map[Status]int
	Undetermined int // future days with no status yet
	WorkedHours  decimal.Decimal
}

// Summarize counts resolved statuses and totals worked hours.
func Summarize(views []DailyView) Summary {
	s := Summary{Days: len(views), Counts: make(map[Status]int), WorkedHours: decimal.Zero}
	for _, v := range views {
		if v.Status == nil {
			s.Undetermined++
		} else {
			s.Counts[*v.Status]++
		}
		if v.Duration != nil {
			s.WorkedHours = s.WorkedHours.Add(*v.Duration)
		}
	}
	return s
}
