package attendance

import (
	"errors"
	"fmt"

	"github.com/warp/attendance-engine/calendar"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

// Not found.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrRecordNotFound   = errors.New("attendance record not found")
	ErrApproverNotFound = errors.New("approver not found")
)

// Policy violations. Client errors, not retryable.
var (
	// ErrNonWorkingDay is returned for check-in or leave on a weekend or holiday.
	ErrNonWorkingDay = errors.New("date is not a working day")

	// ErrRetroactiveLeave is returned when leave starts before today.
	ErrRetroactiveLeave = errors.New("leave cannot start in the past")

	// ErrLeaveOverlap is returned when a leave range shares a day with pending
	// or approved leave.
	ErrLeaveOverlap = errors.New("leave overlaps existing leave")

	// ErrNoWorkingDays is returned when a leave range contains no working day.
	ErrNoWorkingDays = errors.New("no valid dates in range")

	// ErrInvalidTransition is returned for a leave status change the approval
	// state machine does not allow.
	ErrInvalidTransition = errors.New("invalid leave status transition")

	// ErrNotLeaveRecord is returned when approving a record without a leave type.
	ErrNotLeaveRecord = errors.New("record is not a leave record")

	// ErrFutureDate is returned when regularizing a day that has not happened.
	ErrFutureDate = errors.New("cannot regularize a future date")
)

// Conflicts. Client errors, may succeed after the caller inspects state.
var (
	ErrAlreadyCheckedIn = errors.New("already checked in today")
	ErrNoActiveCheckIn  = errors.New("no active check-in for today")

	// ErrDuplicateDay is the store-level (user, date) uniqueness violation.
	ErrDuplicateDay = errors.New("attendance record already exists for this day")
)

// Malformed input.
var (
	ErrInvalidRange  = calendar.ErrInvalidRange
	ErrInvalidTimes  = errors.New("invalid attendance times")
	ErrInvalidStatus = errors.New("invalid attendance status")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// PolicyError names the day that violated a policy rule.
type PolicyError struct {
	UserID string
	Date   calendar.Date
	Err    error
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("%v: %s for user %s", e.Err, e.Date, e.UserID)
}

func (e *PolicyError) Unwrap() error { return e.Err }

// ConflictError names the existing record that blocked a write.
type ConflictError struct {
	UserID     string
	Date       calendar.Date
	ExistingID string // empty when only the storage constraint saw the conflict
	Err        error
}

func (e *ConflictError) Error() string {
	if e.ExistingID == "" {
		return fmt.Sprintf("%v: %s for user %s", e.Err, e.Date, e.UserID)
	}
	return fmt.Sprintf("%v: %s for user %s (record %s)", e.Err, e.Date, e.UserID, e.ExistingID)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing user or record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrRecordNotFound) ||
		errors.Is(err, ErrApproverNotFound)
}

// IsPolicyViolation returns true if the request broke an attendance rule.
func IsPolicyViolation(err error) bool {
	return errors.Is(err, ErrNonWorkingDay) ||
		errors.Is(err, ErrRetroactiveLeave) ||
		errors.Is(err, ErrLeaveOverlap) ||
		errors.Is(err, ErrNoWorkingDays) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrNotLeaveRecord) ||
		errors.Is(err, ErrFutureDate)
}

// IsConflict returns true if the error is a per-day state conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyCheckedIn) ||
		errors.Is(err, ErrNoActiveCheckIn) ||
		errors.Is(err, ErrDuplicateDay)
}

// IsInvalidInput returns true for malformed requests.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidTimes) ||
		errors.Is(err, ErrInvalidStatus)
}

// IsClientError returns true if the error is due to the caller, not storage.
func IsClientError(err error) bool {
	return IsNotFound(err) || IsPolicyViolation(err) || IsConflict(err) || IsInvalidInput(err)
}
