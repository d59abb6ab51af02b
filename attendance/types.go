/*
Package attendance implements the attendance and leave reconciliation engine.

PURPOSE:
  Attendance facts are sparse: a row exists only when someone checked in,
  regularized a day, or requested leave. This package turns those rows plus
  a computed calendar into a dense day-by-day view, and owns the small state
  machines that write the rows.

COMPONENTS:
  reconcile.go: Pure resolver (stored records + calendar -> DailyView per day)
  checkin.go:   Per-day check-in/check-out state machine
  leave.go:     Multi-day leave validation and materialization
  approval.go:  LEAVE_PENDING -> LEAVE_APPROVED | LEAVE_REJECTED
  records.go:   Regular (manual) records and the admin override path

STATE MACHINES:
  Check-in, per (user, today):
    NO_RECORD ──checkIn──▶ CHECKED_IN ──checkOut──▶ CHECKED_OUT (terminal)

  Leave, per record:
    LEAVE_PENDING ──▶ LEAVE_APPROVED
                  └─▶ LEAVE_REJECTED

INVARIANT:
  At most one Record per (UserID, Date). The Store enforces it; every writer
  maps the store-level conflict to the same error its own pre-check returns.

SEE ALSO:
  - store.go: Persistence contract
  - errors.go: Error taxonomy
  - ../calendar: Dates, ranges, holidays
*/
package attendance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/calendar"
)

// =============================================================================
// STATUS
// =============================================================================

type Status string

const (
	StatusPresent               Status = "PRESENT"
	StatusAbsent                Status = "ABSENT"
	StatusWeekend               Status = "WEEKEND"
	StatusHoliday               Status = "HOLIDAY"
	StatusLeavePending          Status = "LEAVE_PENDING"
	StatusLeaveApproved         Status = "LEAVE_APPROVED"
	StatusLeaveRejected         Status = "LEAVE_REJECTED"
	StatusRegularizationPending Status = "REGULARIZATION_PENDING"
)

var allStatuses = []Status{
	StatusPresent, StatusAbsent, StatusWeekend, StatusHoliday,
	StatusLeavePending, StatusLeaveApproved, StatusLeaveRejected,
	StatusRegularizationPending,
}

func (s Status) Valid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus validates a wire status.
func ParseStatus(s string) (Status, error) {
	if st := Status(s); st.Valid() {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// =============================================================================
// LEAVE TYPE
// =============================================================================

type LeaveType string

const (
	LeaveCasual  LeaveType = "CASUAL"
	LeaveSick    LeaveType = "SICK"
	LeaveHalfDay LeaveType = "HALF_DAY"
)

func (t LeaveType) Valid() bool {
	return t == LeaveCasual || t == LeaveSick || t == LeaveHalfDay
}

// ParseLeaveType validates a wire leave type.
func ParseLeaveType(s string) (LeaveType, error) {
	if lt := LeaveType(s); lt.Valid() {
		return lt, nil
	}
	return "", fmt.Errorf("%w: unknown leave type %q", ErrInvalidStatus, s)
}

// =============================================================================
// RECORD - Persisted per-user, per-day fact
// =============================================================================

// Record is one persisted attendance fact. Nil pointers mean "absent".
type Record struct {
	ID     string
	UserID string
	Date   calendar.Date

	StartTime *time.Time
	EndTime   *time.Time
	Duration  *decimal.Decimal // hours

	Status          *Status
	Reason          *string
	LeaveType       *LeaveType
	RejectionReason *string
	ApproverID      *string
	IsHalfDay       bool

	Latitude  *float64
	Longitude *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLeave reports a leave-derived record.
func (r Record) IsLeave() bool { return r.LeaveType != nil }

// HasStatus compares the status, treating nil as no match.
func (r Record) HasStatus(s Status) bool { return r.Status != nil && *r.Status == s }

// IsOpen reports a checked-in record that has not been checked out.
func (r Record) IsOpen() bool { return r.StartTime != nil && r.EndTime == nil }

// Validate checks the persistent invariants of a single record.
func (r Record) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("%w: user is required", ErrInvalidTimes)
	}
	if r.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidTimes)
	}
	if r.StartTime != nil && r.EndTime != nil && !r.EndTime.After(*r.StartTime) {
		return fmt.Errorf("%w: end %s not after start %s", ErrInvalidTimes,
			r.EndTime.Format(time.RFC3339), r.StartTime.Format(time.RFC3339))
	}
	if r.Status != nil && !r.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, *r.Status)
	}
	return nil
}

// Clone returns a copy that shares no pointers with r.
func (r Record) Clone() Record {
	out := r
	out.StartTime = clonePtr(r.StartTime)
	out.EndTime = clonePtr(r.EndTime)
	out.Duration = clonePtr(r.Duration)
	out.Status = clonePtr(r.Status)
	out.Reason = clonePtr(r.Reason)
	out.LeaveType = clonePtr(r.LeaveType)
	out.RejectionReason = clonePtr(r.RejectionReason)
	out.ApproverID = clonePtr(r.ApproverID)
	out.Latitude = clonePtr(r.Latitude)
	out.Longitude = clonePtr(r.Longitude)
	return out
}

// =============================================================================
// DAILY VIEW - Computed, never persisted
// =============================================================================

// DailyView is the resolved attendance for one calendar day.
// ID is nil when no stored record backs the day; Status is nil only for
// future days whose outcome is not yet determinable.
type DailyView struct {
	Date      calendar.Date
	ID        *string
	Status    *Status
	StartTime *time.Time
	EndTime   *time.Time
	Reason    *string
	LeaveType *LeaveType
	Duration  *decimal.Decimal
}

// Ptr returns a pointer to v. Handy for optional record fields.
func Ptr[T any](v T) *T { return &v }

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
