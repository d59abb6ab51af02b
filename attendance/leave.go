/*
leave.go - Multi-day leave requests

PURPOSE:
  Validates a leave range and materializes it as one LEAVE_PENDING record per
  working day. One logical request becomes N independent per-day records,
  each approved or rejected on its own (see approval.go).

VALIDATION ORDER (first failure aborts, nothing is written):
  1. user exists
  2. range is well formed (start <= end, within MaxRangeDays)
  3. no LEAVE_PENDING / LEAVE_APPROVED record anywhere in the range
  4. start is not before today
  5. start is a working day

MATERIALIZATION:
  Interior weekends and holidays are skipped, not rejected. A range with no
  working day at all fails with ErrNoWorkingDays. All records are written in
  one store transaction; a (user, date) clash mid-batch rolls the whole
  request back and is reported as ErrLeaveOverlap.

SEE ALSO:
  - approval.go: Per-record approval state machine
  - store.go: CreateBatch atomicity
*/
package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/warp/attendance-engine/calendar"
)

// LeaveRequest asks for leave over [StartDate, EndDate] inclusive.
type LeaveRequest struct {
	UserID    string
	StartDate calendar.Date
	EndDate   calendar.Date
	LeaveType LeaveType
	Reason    string
	IsHalfDay bool
}

// RequestLeave validates and materializes a leave request.
func (s *Service) RequestLeave(ctx context.Context, req LeaveRequest) ([]Record, error) {
	if err := s.requireUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	if !req.LeaveType.Valid() {
		return nil, fmt.Errorf("%w: unknown leave type %q", ErrInvalidStatus, req.LeaveType)
	}
	r, err := calendar.NewRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := s.checkSpan(r); err != nil {
		return nil, err
	}

	if err := s.checkLeaveOverlap(ctx, req.UserID, r); err != nil {
		return nil, err
	}

	today := s.today()
	if r.Start.Before(today) {
		return nil, &PolicyError{UserID: req.UserID, Date: r.Start, Err: ErrRetroactiveLeave}
	}
	cal := s.holidays()
	if !calendar.IsWorkingDay(cal, r.Start) {
		return nil, &PolicyError{UserID: req.UserID, Date: r.Start, Err: ErrNonWorkingDay}
	}

	recs := s.materializeLeave(req, r, cal)
	if len(recs) == 0 {
		return nil, &PolicyError{UserID: req.UserID, Date: r.Start, Err: ErrNoWorkingDays}
	}

	err = s.Store.WithTx(ctx, func(tx Store) error {
		return tx.CreateBatch(ctx, recs)
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateDay) {
			return nil, &PolicyError{UserID: req.UserID, Date: r.Start, Err: ErrLeaveOverlap}
		}
		return nil, fmt.Errorf("request leave: %w", err)
	}

	s.logf("leave requested user=%s range=%s type=%s days=%d", req.UserID, r, req.LeaveType, len(recs))
	return recs, nil
}

func (s *Service) checkLeaveOverlap(ctx context.Context, userID string, r calendar.Range) error {
	existing, err := s.Store.FindByUserBetween(ctx, userID, r.Start, r.End)
	if err != nil {
		return fmt.Errorf("leave overlap lookup: %w", err)
	}
	for _, rec := range existing {
		if rec.HasStatus(StatusLeavePending) || rec.HasStatus(StatusLeaveApproved) {
			return &PolicyError{UserID: userID, Date: rec.Date, Err: ErrLeaveOverlap}
		}
	}
	return nil
}

func (s *Service) materializeLeave(req LeaveRequest, r calendar.Range, cal calendar.HolidayCalendar) []Record {
	now := s.Clock.Now()
	halfDay := req.IsHalfDay || req.LeaveType == LeaveHalfDay

	var reason *string
	if trimmed := strings.TrimSpace(req.Reason); trimmed != "" {
		reason = Ptr(trimmed)
	}

	var recs []Record
	for _, day := range r.Days() {
		if !calendar.IsWorkingDay(cal, day) {
			continue
		}
		recs = append(recs, Record{
			ID:        s.IDs.NewID(),
			UserID:    req.UserID,
			Date:      day,
			Status:    Ptr(StatusLeavePending),
			Reason:    clonePtr(reason),
			LeaveType: Ptr(req.LeaveType),
			IsHalfDay: halfDay,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return recs
}
