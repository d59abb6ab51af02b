/*
scenarios_test.go - Tests for demo scenarios

PURPOSE:
	Tests that each scenario sets up the expected state through the same
	service rules the API uses. The clock is fixed at Wednesday 2025-03-12.
*/
package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/calendar"
)

func TestScenario_EmptyOffice(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, s.h.Load(ctx, "empty-office"))

	users, err := s.h.Store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, len(demoUsers))
	assert.True(t, s.h.Holidays.IsHoliday(calendar.MustParseDate("2025-12-25")))
	assert.Equal(t, "empty-office", s.h.CurrentScenario())
}

func TestScenario_RegularMonth(t *testing.T) {
	// GIVEN: the regular month scenario on 2025-03-12
	s := newTestServer(t)
	ctx := context.Background()

	// WHEN: loading it
	require.NoError(t, s.h.Load(ctx, "regular-month"))

	// THEN: the resolved month shows check-ins, one absence and the weekend override
	views, err := s.h.Service.GetMonthlyAttendance(ctx, "alice", 3, 2025)
	require.NoError(t, err)
	sum := attendance.Summarize(views)

	assert.Equal(t, 7, sum.Counts[attendance.StatusPresent])
	assert.Equal(t, 1, sum.Counts[attendance.StatusAbsent])
	assert.Equal(t, 4, sum.Counts[attendance.StatusWeekend])
	assert.Equal(t, 19, sum.Undetermined)

	// 2025-03-01 is a Saturday carrying a stray PRESENT record
	first := views[0]
	require.NotNil(t, first.ID)
	assert.Equal(t, attendance.StatusWeekend, *first.Status)
	// The third working day (2025-03-05) was skipped
	assert.Equal(t, attendance.StatusAbsent, *views[4].Status)
	// Today is open
	assert.Nil(t, views[11].EndTime)
}

func TestScenario_LeaveWorkflow(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, s.h.Load(ctx, "leave-workflow"))

	pending, err := s.h.Service.ListPendingLeave(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	for _, rec := range pending {
		assert.Equal(t, "alice", rec.UserID)
	}

	approved, err := s.h.Store.FindByStatus(ctx, attendance.StatusLeaveApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "2025-03-13", approved[0].Date.String())
	assert.Equal(t, "manager", *approved[0].ApproverID)

	rejected, err := s.h.Store.FindByStatus(ctx, attendance.StatusLeaveRejected)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.True(t, rejected[0].IsHalfDay)
	assert.Equal(t, "Team offsite", *rejected[0].RejectionReason)
}

func TestScenario_LoadResetsPreviousData(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, s.h.Load(ctx, "leave-workflow"))

	require.NoError(t, s.h.Load(ctx, "empty-office"))

	pending, err := s.h.Service.ListPendingLeave(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestScenarioEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ScenarioDTO](t, rec), len(scenarios))

	rec = s.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "regular-month"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "regular-month", decode[ScenarioDTO](t, rec).ID)

	rec = s.do(t, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.h.CurrentScenario())

	rec = s.do(t, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]UserDTO](t, rec))
}
