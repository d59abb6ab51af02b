package attendance

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/calendar"
)

// =============================================================================
// CHECK-IN / CHECK-OUT
// =============================================================================
//
// Per (user, today):
//
//	NO_RECORD ──CheckIn──▶ CHECKED_IN ──CheckOut──▶ CHECKED_OUT
//
// CHECKED_OUT is terminal for the day. The pre-check below is racy; the
// store's uniqueness constraint is the real guard and its conflict is
// reported as ErrAlreadyCheckedIn too.

// Location is an optional check-in geolocation.
type Location struct {
	Latitude  *float64
	Longitude *float64
}

// CheckIn opens today's record for the user.
func (s *Service) CheckIn(ctx context.Context, userID string, loc Location) (Record, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return Record{}, err
	}

	now := s.Clock.Now()
	today := calendar.DateOf(now)
	if !calendar.IsWorkingDay(s.holidays(), today) {
		return Record{}, &PolicyError{UserID: userID, Date: today, Err: ErrNonWorkingDay}
	}

	existing, err := s.Store.FindByUserAndDate(ctx, userID, today)
	if err != nil {
		return Record{}, fmt.Errorf("check-in lookup: %w", err)
	}
	if existing != nil {
		return Record{}, &ConflictError{UserID: userID, Date: today, ExistingID: existing.ID, Err: ErrAlreadyCheckedIn}
	}

	rec := Record{
		ID:        s.IDs.NewID(),
		UserID:    userID,
		Date:      today,
		StartTime: Ptr(now),
		Duration:  Ptr(decimal.Zero),
		Status:    Ptr(StatusPresent),
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Create(ctx, rec); err != nil {
		if errors.Is(err, ErrDuplicateDay) {
			return Record{}, &ConflictError{UserID: userID, Date: today, Err: ErrAlreadyCheckedIn}
		}
		return Record{}, fmt.Errorf("check-in: %w", err)
	}

	s.logf("check-in user=%s date=%s record=%s", userID, today, rec.ID)
	return rec, nil
}

// CheckOut closes today's open record and fills in the worked hours.
func (s *Service) CheckOut(ctx context.Context, userID string) (Record, error) {
	now := s.Clock.Now()
	today := calendar.DateOf(now)

	existing, err := s.Store.FindByUserAndDate(ctx, userID, today)
	if err != nil {
		return Record{}, fmt.Errorf("check-out lookup: %w", err)
	}
	if existing == nil || !existing.IsOpen() {
		return Record{}, &ConflictError{UserID: userID, Date: today, Err: ErrNoActiveCheckIn}
	}
	if !now.After(*existing.StartTime) {
		return Record{}, fmt.Errorf("%w: check-out at %s is not after check-in", ErrInvalidTimes, now.Format("15:04:05"))
	}

	rec := existing.Clone()
	rec.EndTime = Ptr(now)
	rec.Duration = Ptr(HoursBetween(*rec.StartTime, now))
	rec.UpdatedAt = now

	if err := s.Store.Update(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("check-out: %w", err)
	}

	s.logf("check-out user=%s date=%s hours=%s", userID, today, rec.Duration.StringFixed(HoursPlaces))
	return rec, nil
}
