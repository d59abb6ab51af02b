package attendance

import (
	"context"
	"fmt"
	"strings"
)

// =============================================================================
// LEAVE APPROVAL STATE MACHINE
// =============================================================================
//
//	LEAVE_PENDING ──▶ LEAVE_APPROVED
//	              └─▶ LEAVE_REJECTED
//
// Both targets are terminal on this path. Each record is decided on its own;
// a multi-day request needs one call per day. The admin path in records.go
// can still force any field.

var leaveTransitions = map[Status][]Status{
	StatusLeavePending: {StatusLeaveApproved, StatusLeaveRejected},
}

// CanTransition reports whether the approval path allows from -> to.
func CanTransition(from, to Status) bool {
	for _, allowed := range leaveTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// UpdateLeaveStatus approves or rejects one leave record. Empty
// rejectionReason and approverID are left unset.
func (s *Service) UpdateLeaveStatus(ctx context.Context, recordID string, newStatus Status, rejectionReason, approverID string) (Record, error) {
	rec, err := s.Store.Get(ctx, recordID)
	if err != nil {
		return Record{}, err
	}
	if !rec.IsLeave() {
		return Record{}, &PolicyError{UserID: rec.UserID, Date: rec.Date, Err: ErrNotLeaveRecord}
	}
	if newStatus != StatusLeaveApproved && newStatus != StatusLeaveRejected {
		return Record{}, fmt.Errorf("%w: target %q", ErrInvalidTransition, newStatus)
	}

	current := Status("")
	if rec.Status != nil {
		current = *rec.Status
	}
	if !CanTransition(current, newStatus) {
		return Record{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, newStatus)
	}

	approverID = strings.TrimSpace(approverID)
	if approverID != "" {
		ok, err := s.Users.UserExists(ctx, approverID)
		if err != nil {
			return Record{}, fmt.Errorf("lookup approver %s: %w", approverID, err)
		}
		if !ok {
			return Record{}, fmt.Errorf("%w: %s", ErrApproverNotFound, approverID)
		}
		rec.ApproverID = Ptr(approverID)
	}

	rec.Status = Ptr(newStatus)
	if reason := strings.TrimSpace(rejectionReason); reason != "" && newStatus == StatusLeaveRejected {
		rec.RejectionReason = Ptr(reason)
	}
	rec.UpdatedAt = s.Clock.Now()

	if err := s.Store.Update(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("update leave status: %w", err)
	}

	s.logf("leave %s record=%s user=%s date=%s approver=%s", newStatus, rec.ID, rec.UserID, rec.Date, approverID)
	return rec, nil
}
