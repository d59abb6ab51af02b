package attendance

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/warp/attendance-engine/calendar"
)

// =============================================================================
// SERVICE - Exposed operations
// =============================================================================

// Service is the facade the HTTP layer and CLI call. Reads go to Resolve;
// writes go through Store and are guarded by its (user, date) uniqueness.
type Service struct {
	Store    TxStore
	Users    UserDirectory
	Calendar calendar.HolidayCalendar
	Clock    Clock
	IDs      IDGenerator
	Logger   *log.Logger

	// MaxRangeDays bounds resolved views and leave requests. Zero means
	// DefaultMaxRangeDays.
	MaxRangeDays int
}

// DefaultMaxRangeDays covers a leap year.
const DefaultMaxRangeDays = 366

// NewService wires a service with a system clock in UTC, UUIDv7 IDs and the
// standard logger. Override the exported fields afterwards for tests.
func NewService(store TxStore, users UserDirectory, cal calendar.HolidayCalendar) *Service {
	return &Service{
		Store:    store,
		Users:    users,
		Calendar: cal,
		Clock:    SystemClock{Location: time.UTC},
		IDs:      UUIDGenerator{},
		Logger:   log.Default(),
	}
}

func (s *Service) logf(format string, args ...any) {
	logger := s.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	logger.Printf("[Attendance] "+format, args...)
}

func (s *Service) today() calendar.Date { return Today(s.Clock) }

// holidays returns the calendar for one operation. A swappable snapshot is
// pinned so the whole operation sees a single holiday set.
func (s *Service) holidays() calendar.HolidayCalendar {
	switch cal := s.Calendar.(type) {
	case nil:
		return calendar.NoHolidays{}
	case calendar.Pinnable:
		return cal.Load()
	default:
		return cal
	}
}

func (s *Service) checkSpan(r calendar.Range) error {
	limit := s.MaxRangeDays
	if limit <= 0 {
		limit = DefaultMaxRangeDays
	}
	return r.CheckSpan(limit)
}

// requireUser maps a missing user to ErrUserNotFound.
func (s *Service) requireUser(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: empty user id", ErrUserNotFound)
	}
	ok, err := s.Users.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup user %s: %w", userID, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	return nil
}

// =============================================================================
// READS
// =============================================================================

// GetMonthlyAttendance resolves every day of the given month.
func (s *Service) GetMonthlyAttendance(ctx context.Context, userID string, month, year int) ([]DailyView, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d", ErrInvalidRange, month)
	}
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d", ErrInvalidRange, year)
	}
	return s.ResolveRange(ctx, userID, calendar.MonthRange(year, time.Month(month)))
}

// GetYearlyAttendance resolves an arbitrary yyyy-MM-dd range.
func (s *Service) GetYearlyAttendance(ctx context.Context, userID, startDate, endDate string) ([]DailyView, error) {
	r, err := calendar.ParseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.ResolveRange(ctx, userID, r)
}

// ResolveRange reads the user's records in r and resolves them against the
// calendar and today.
func (s *Service) ResolveRange(ctx context.Context, userID string, r calendar.Range) ([]DailyView, error) {
	if err := s.checkSpan(r); err != nil {
		return nil, err
	}
	recs, err := s.Store.FindByUserBetween(ctx, userID, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("load attendance %s %s: %w", userID, r, err)
	}
	return Resolve(ResolveInput{
		Range:    r,
		Calendar: s.holidays(),
		Today:    s.today(),
		Records:  recs,
	}), nil
}

// GetRecord returns one stored record.
func (s *Service) GetRecord(ctx context.Context, id string) (Record, error) {
	return s.Store.Get(ctx, id)
}

// ListPendingLeave returns every LEAVE_PENDING record, for approvers.
func (s *Service) ListPendingLeave(ctx context.Context) ([]Record, error) {
	return s.Store.FindByStatus(ctx, StatusLeavePending)
}
