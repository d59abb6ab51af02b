package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/calendar"
)

// =============================================================================
// CREATE - Leave or regular (regularization) attendance
// =============================================================================

// CreateAttendanceInput is a manual attendance entry. Setting LeaveType, or an
// EndDate different from Date, turns it into a leave request.
type CreateAttendanceInput struct {
	UserID  string
	Date    calendar.Date
	EndDate *calendar.Date

	StartTime *time.Time
	EndTime   *time.Time
	Duration  *decimal.Decimal
	Status    *Status

	Reason    string
	LeaveType *LeaveType
	IsHalfDay bool

	Latitude  *float64
	Longitude *float64
}

func (in CreateAttendanceInput) isLeave() bool {
	return in.LeaveType != nil || (in.EndDate != nil && !in.EndDate.Equal(in.Date))
}

// CreateResult holds either the single regular record or the leave records.
type CreateResult struct {
	Record *Record
	Leave  []Record
}

// CreateLeaveOrRegularAttendance routes a manual entry to the leave workflow
// or stores it as one regular record.
func (s *Service) CreateLeaveOrRegularAttendance(ctx context.Context, in CreateAttendanceInput) (CreateResult, error) {
	if in.isLeave() {
		end := in.Date
		if in.EndDate != nil {
			end = *in.EndDate
		}
		var leaveType LeaveType
		if in.LeaveType != nil {
			leaveType = *in.LeaveType
		}
		recs, err := s.RequestLeave(ctx, LeaveRequest{
			UserID:    in.UserID,
			StartDate: in.Date,
			EndDate:   end,
			LeaveType: leaveType,
			Reason:    in.Reason,
			IsHalfDay: in.IsHalfDay,
		})
		if err != nil {
			return CreateResult{}, err
		}
		return CreateResult{Leave: recs}, nil
	}

	rec, err := s.createRegular(ctx, in)
	if err != nil {
		return CreateResult{}, err
	}
	return CreateResult{Record: &rec}, nil
}

// regularStatuses are the statuses a manual non-leave entry may carry. Leave
// statuses only come from the leave workflow, which also sets a leave type.
var regularStatuses = map[Status]bool{
	StatusPresent:               true,
	StatusAbsent:                true,
	StatusRegularizationPending: true,
}

func (s *Service) createRegular(ctx context.Context, in CreateAttendanceInput) (Record, error) {
	if err := s.requireUser(ctx, in.UserID); err != nil {
		return Record{}, err
	}
	if in.Status != nil && !regularStatuses[*in.Status] {
		return Record{}, fmt.Errorf("%w: %q is not allowed on a regular record", ErrInvalidStatus, *in.Status)
	}
	if in.Date.After(s.today()) {
		return Record{}, &PolicyError{UserID: in.UserID, Date: in.Date, Err: ErrFutureDate}
	}
	if !calendar.IsWorkingDay(s.holidays(), in.Date) {
		return Record{}, &PolicyError{UserID: in.UserID, Date: in.Date, Err: ErrNonWorkingDay}
	}

	now := s.Clock.Now()
	rec := Record{
		ID:        s.IDs.NewID(),
		UserID:    in.UserID,
		Date:      in.Date,
		StartTime: clonePtr(in.StartTime),
		EndTime:   clonePtr(in.EndTime),
		Latitude:  clonePtr(in.Latitude),
		Longitude: clonePtr(in.Longitude),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if reason := strings.TrimSpace(in.Reason); reason != "" {
		rec.Reason = Ptr(reason)
	}

	switch {
	case in.Status != nil:
		rec.Status = Ptr(*in.Status)
	case rec.Reason != nil:
		rec.Status = Ptr(StatusRegularizationPending)
	default:
		rec.Status = Ptr(StatusPresent)
	}

	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	rec.Duration = deriveDuration(in.Duration, rec.StartTime, rec.EndTime)

	if err := s.Store.Create(ctx, rec); err != nil {
		if errors.Is(err, ErrDuplicateDay) {
			return Record{}, &ConflictError{UserID: rec.UserID, Date: rec.Date, Err: ErrDuplicateDay}
		}
		return Record{}, fmt.Errorf("create attendance: %w", err)
	}

	s.logf("regular record user=%s date=%s status=%s record=%s", rec.UserID, rec.Date, *rec.Status, rec.ID)
	return rec, nil
}

// =============================================================================
// ADMIN OVERRIDE - Bypasses the approval state machine
// =============================================================================

// RecordPatch lists the fields to overwrite. Nil means unchanged.
type RecordPatch struct {
	Date            *calendar.Date
	StartTime       *time.Time
	EndTime         *time.Time
	Duration        *decimal.Decimal
	Status          *Status
	Reason          *string
	LeaveType       *LeaveType
	RejectionReason *string
	ApproverID      *string
	IsHalfDay       *bool
	Latitude        *float64
	Longitude       *float64
}

// UpdateRecord force-edits a record. The end-after-start invariant and the
// (user, date) uniqueness still hold.
func (s *Service) UpdateRecord(ctx context.Context, id string, patch RecordPatch) (Record, error) {
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}

	if patch.ApproverID != nil && *patch.ApproverID != "" {
		ok, err := s.Users.UserExists(ctx, *patch.ApproverID)
		if err != nil {
			return Record{}, fmt.Errorf("lookup approver %s: %w", *patch.ApproverID, err)
		}
		if !ok {
			return Record{}, fmt.Errorf("%w: %s", ErrApproverNotFound, *patch.ApproverID)
		}
	}

	timesChanged := patch.StartTime != nil || patch.EndTime != nil
	if patch.Date != nil {
		rec.Date = *patch.Date
	}
	if patch.StartTime != nil {
		rec.StartTime = Ptr(*patch.StartTime)
	}
	if patch.EndTime != nil {
		rec.EndTime = Ptr(*patch.EndTime)
	}
	if patch.Status != nil {
		rec.Status = Ptr(*patch.Status)
	}
	if patch.Reason != nil {
		rec.Reason = Ptr(*patch.Reason)
	}
	if patch.LeaveType != nil {
		rec.LeaveType = Ptr(*patch.LeaveType)
	}
	if patch.RejectionReason != nil {
		rec.RejectionReason = Ptr(*patch.RejectionReason)
	}
	if patch.ApproverID != nil {
		rec.ApproverID = Ptr(*patch.ApproverID)
	}
	if patch.IsHalfDay != nil {
		rec.IsHalfDay = *patch.IsHalfDay
	}
	if patch.Latitude != nil {
		rec.Latitude = Ptr(*patch.Latitude)
	}
	if patch.Longitude != nil {
		rec.Longitude = Ptr(*patch.Longitude)
	}

	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	if rec.LeaveType != nil && !rec.LeaveType.Valid() {
		return Record{}, fmt.Errorf("%w: unknown leave type %q", ErrInvalidStatus, *rec.LeaveType)
	}

	switch {
	case patch.Duration != nil:
		rec.Duration = Ptr(*patch.Duration)
	case timesChanged && rec.StartTime != nil && rec.EndTime != nil:
		rec.Duration = Ptr(HoursBetween(*rec.StartTime, *rec.EndTime))
	}
	rec.UpdatedAt = s.Clock.Now()

	if err := s.Store.Update(ctx, rec); err != nil {
		if errors.Is(err, ErrDuplicateDay) {
			return Record{}, &ConflictError{UserID: rec.UserID, Date: rec.Date, Err: ErrDuplicateDay}
		}
		return Record{}, fmt.Errorf("update attendance %s: %w", id, err)
	}

	s.logf("admin update record=%s user=%s date=%s", rec.ID, rec.UserID, rec.Date)
	return rec, nil
}

// DeleteRecord removes a record. Admin only.
func (s *Service) DeleteRecord(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.logf("admin delete record=%s", id)
	return nil
}
