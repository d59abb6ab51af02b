package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attendance-engine/calendar"
)

func TestHolidayRefresher_RunNowPicksUpExternalEdits(t *testing.T) {
	// GIVEN: a holiday written straight to the store, bypassing the API
	s := newTestServer(t)
	ctx := context.Background()
	day := calendar.MustParseDate("2025-04-18")
	_, err := s.h.Store.SaveHoliday(ctx, calendar.Holiday{Date: day, Name: "Good Friday"})
	require.NoError(t, err)
	assert.False(t, s.h.Holidays.IsHoliday(day))

	// WHEN: the refresher runs
	refresher := NewHolidayRefresher(s.h)
	require.NoError(t, refresher.RunNow())

	// THEN: the snapshot sees it
	assert.True(t, s.h.Holidays.IsHoliday(day))
	assert.False(t, refresher.LastRefresh().IsZero())
}

func TestHolidayRefresher_StartStop(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	day := calendar.MustParseDate("2025-05-01")
	_, err := s.h.Store.SaveHoliday(ctx, calendar.Holiday{Date: day, Name: "Labour Day"})
	require.NoError(t, err)

	refresher := NewHolidayRefresher(s.h)
	refresher.CheckInterval = 10 * time.Millisecond
	refresher.Start()
	refresher.Start() // no-op

	assert.Eventually(t, func() bool {
		return s.h.Holidays.IsHoliday(day)
	}, time.Second, 5*time.Millisecond)

	refresher.Stop()
	refresher.Stop() // no-op
}

func TestHolidayRefresher_Disabled(t *testing.T) {
	s := newTestServer(t)

	refresher := NewHolidayRefresher(s.h)
	refresher.Enabled = false
	refresher.Start()

	assert.True(t, refresher.LastRefresh().IsZero())
	refresher.Stop()
}

func TestHolidayRefresher_FailureKeepsPreviousSet(t *testing.T) {
	s := newTestServer(t)
	s.h.Holidays.Store(calendar.MustHolidaySet("2025-03-14"))
	require.NoError(t, s.h.Store.Close())

	err := NewHolidayRefresher(s.h).RunNow()

	assert.Error(t, err)
	assert.True(t, s.h.Holidays.IsHoliday(calendar.MustParseDate("2025-03-14")))
}
