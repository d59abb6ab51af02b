/*
handlers_test.go - HTTP tests for the attendance API

Tests for:
- Check-in / check-out status codes and derived hours
- Leave requests, holidays, approval over HTTP
- Error taxonomy to status code mapping
- Monthly view, users, admin overrides, xlsx export
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/calendar"
	"github.com/warp/attendance-engine/store/sqlite"
	"github.com/xuri/excelize/v2"
)

// testServer is a handler over an in-memory sqlite store, with the clock
// fixed at Wednesday 2025-03-12 09:15 UTC and sequential record IDs.
type testServer struct {
	h      *Handler
	router http.Handler
	clock  *attendance.FixedClock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store, calendar.NewSnapshot(calendar.HolidaySet{}))
	clock := attendance.NewFixedClock(time.Date(2025, time.March, 12, 9, 15, 0, 0, time.UTC))
	h.Service.Clock = clock
	h.Service.IDs = &attendance.SequenceGenerator{}
	h.Service.Logger = log.New(io.Discard, "", 0)

	ctx := context.Background()
	for _, u := range []sqlite.User{
		{ID: "alice", Name: "Alice"},
		{ID: "bob", Name: "Bob"},
		{ID: "manager", Name: "Manager"},
	} {
		require.NoError(t, store.SaveUser(ctx, u))
	}

	return &testServer{h: h, router: NewRouter(h, nil), clock: clock}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// =============================================================================
// CHECK-IN / CHECK-OUT
// =============================================================================

func TestCheckInCheckOut(t *testing.T) {
	// GIVEN: alice checks in at 09:15 and out at 18:00
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/users/alice/check-in", CheckInRequest{
		Latitude:  attendance.Ptr(48.85),
		Longitude: attendance.Ptr(2.35),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	in := decode[AttendanceRecordDTO](t, rec)
	assert.Equal(t, "PRESENT", *in.Status)
	assert.Equal(t, "2025-03-12", in.Date)
	assert.Equal(t, "2025-03-12T09:15:00Z", *in.StartTime)
	assert.Nil(t, in.EndTime)
	assert.Equal(t, 0.0, *in.Duration)
	assert.Equal(t, 48.85, *in.Latitude)

	s.clock.Set(time.Date(2025, time.March, 12, 18, 0, 0, 0, time.UTC))

	// WHEN: checking out
	rec = s.do(t, http.MethodPost, "/api/users/alice/check-out", nil)

	// THEN: the record closes with 8.75 hours
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[AttendanceRecordDTO](t, rec)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, "2025-03-12T18:00:00Z", *out.EndTime)
	assert.Equal(t, 8.75, *out.Duration)
}

func TestCheckIn_ErrorMapping(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/users/alice/check-in", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"second check-in conflicts", "/api/users/alice/check-in", http.StatusConflict},
		{"unknown user", "/api/users/ghost/check-in", http.StatusNotFound},
		{"check-out without check-in", "/api/users/bob/check-out", http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, tt.path, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decode[ErrorResponse](t, rec)
			assert.NotEmpty(t, body.Error)
			assert.NotEmpty(t, body.Details)
		})
	}
}

func TestCheckIn_WeekendIsPolicyViolation(t *testing.T) {
	s := newTestServer(t)
	s.clock.Set(time.Date(2025, time.March, 15, 9, 0, 0, 0, time.UTC))

	rec := s.do(t, http.MethodPost, "/api/users/alice/check-in", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Details, attendance.ErrNonWorkingDay.Error())
}

func TestCheckIn_MalformedBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/users/alice/check-in", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// LEAVE
// =============================================================================

func TestLeaveWorkflow(t *testing.T) {
	// GIVEN: a holiday on Tuesday 2025-03-18
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/holidays", CreateHolidayRequest{Date: "2025-03-18", Name: "Founders Day"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// WHEN: alice requests Monday through Wednesday
	rec = s.do(t, http.MethodPost, "/api/attendance", CreateAttendanceRequest{
		UserID:    "alice",
		Date:      "2025-03-17",
		EndDate:   "2025-03-19",
		LeaveType: "CASUAL",
		Reason:    "  Trip  ",
	})

	// THEN: two pending records skip the holiday
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[CreateAttendanceResponse](t, rec)
	assert.Nil(t, created.Record)
	require.Len(t, created.Records, 2)
	assert.Equal(t, "2025-03-17", created.Records[0].Date)
	assert.Equal(t, "2025-03-19", created.Records[1].Date)
	for _, r := range created.Records {
		assert.Equal(t, "LEAVE_PENDING", *r.Status)
		assert.Equal(t, "CASUAL", *r.LeaveType)
		assert.Equal(t, "Trip", *r.Reason)
	}

	rec = s.do(t, http.MethodGet, "/api/leave/pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pending := decode[map[string][]AttendanceRecordDTO](t, rec)
	assert.Len(t, pending["records"], 2)

	// Overlapping request is rejected
	rec = s.do(t, http.MethodPost, "/api/attendance", CreateAttendanceRequest{
		UserID: "alice", Date: "2025-03-19", EndDate: "2025-03-20", LeaveType: "SICK",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Approve the first day
	path := "/api/attendance/" + created.Records[0].ID + "/leave-status"
	rec = s.do(t, http.MethodPost, path, LeaveStatusRequest{Status: "LEAVE_APPROVED", ApproverID: "manager"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	approved := decode[AttendanceRecordDTO](t, rec)
	assert.Equal(t, "LEAVE_APPROVED", *approved.Status)
	assert.Equal(t, "manager", *approved.ApproverID)
	assert.Nil(t, approved.RejectionReason)

	// Approving twice is an invalid transition
	rec = s.do(t, http.MethodPost, path, LeaveStatusRequest{Status: "LEAVE_REJECTED", ApproverID: "manager"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Reject the other day with a reason
	path = "/api/attendance/" + created.Records[1].ID + "/leave-status"
	rec = s.do(t, http.MethodPost, path, LeaveStatusRequest{Status: "LEAVE_REJECTED", RejectionReason: "Release week", ApproverID: "manager"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Release week", *decode[AttendanceRecordDTO](t, rec).RejectionReason)
}

func TestLeaveStatus_Errors(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/attendance", CreateAttendanceRequest{
		UserID: "bob", Date: "2025-03-13", LeaveType: "SICK",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[CreateAttendanceResponse](t, rec).Records[0].ID
	path := "/api/attendance/" + id + "/leave-status"

	tests := []struct {
		name   string
		body   LeaveStatusRequest
		status int
	}{
		{"unknown status", LeaveStatusRequest{Status: "MAYBE", ApproverID: "manager"}, http.StatusBadRequest},
		{"not a decision", LeaveStatusRequest{Status: "PRESENT", ApproverID: "manager"}, http.StatusUnprocessableEntity},
		{"unknown approver", LeaveStatusRequest{Status: "LEAVE_APPROVED", ApproverID: "ghost"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	rec = s.do(t, http.MethodPost, "/api/attendance/missing/leave-status", LeaveStatusRequest{Status: "LEAVE_APPROVED", ApproverID: "manager"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeave_RetroactiveAndNonWorkingStart(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/attendance", CreateAttendanceRequest{
		UserID: "alice", Date: "2025-03-11", LeaveType: "CASUAL",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/attendance", CreateAttendanceRequest{
		UserID: "alice", Date: "2025-03-15", EndDate: "2025-03-17", LeaveType: "CASUAL",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/attendance", CreateAttendanceRequest{
		UserID: "alice", Date: "2025-03-13", LeaveType: "VACATION",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// RECORDS
// =============================================================================

func TestCreateRegularAttendance(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/attendance", CreateAttendanceRequest{
		UserID:    "alice",
		Date:      "2025-03-10",
		StartTime: "2025-03-10T09:00:00Z",
		EndTime:   "2025-03-10T17:30:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[CreateAttendanceResponse](t, rec)
	require.NotNil(t, created.Record)
	assert.Equal(t, "PRESENT", *created.Record.Status)
	assert.Equal(t, 8.5, *created.Record.Duration)

	rec = s.do(t, http.MethodPost, "/api/attendance", CreateAttendanceRequest{
		UserID: "bob", Date: "2025-03-10", Reason: "Forgot to check in",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "REGULARIZATION_PENDING", *decode[CreateAttendanceResponse](t, rec).Record.Status)

	tests := []struct {
		name   string
		body   CreateAttendanceRequest
		status int
	}{
		{"duplicate day", CreateAttendanceRequest{UserID: "alice", Date: "2025-03-10"}, http.StatusConflict},
		{"end before start", CreateAttendanceRequest{
			UserID: "alice", Date: "2025-03-11",
			StartTime: "2025-03-11T17:00:00Z", EndTime: "2025-03-11T09:00:00Z",
		}, http.StatusBadRequest},
		{"bad date", CreateAttendanceRequest{UserID: "alice", Date: "11/03/2025"}, http.StatusBadRequest},
		{"bad time", CreateAttendanceRequest{UserID: "alice", Date: "2025-03-11", StartTime: "9am"}, http.StatusBadRequest},
		{"unknown user", CreateAttendanceRequest{UserID: "ghost", Date: "2025-03-11"}, http.StatusNotFound},
		{"leave status without leave", CreateAttendanceRequest{UserID: "alice", Date: "2025-03-11", Status: "LEAVE_PENDING"}, http.StatusBadRequest},
		{"future day", CreateAttendanceRequest{UserID: "alice", Date: "2025-03-20"}, http.StatusUnprocessableEntity},
		{"weekend", CreateAttendanceRequest{UserID: "alice", Date: "2025-03-08"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/attendance", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRecordAdminOverride(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/users/alice/check-in", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[AttendanceRecordDTO](t, rec).ID

	// WHEN: an admin closes the record by hand
	rec = s.do(t, http.MethodPut, "/api/attendance/"+id, UpdateAttendanceRequest{
		EndTime: attendance.Ptr("2025-03-12T12:15:00Z"),
	})

	// THEN: duration is re-derived from the new times
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 3.0, *decode[AttendanceRecordDTO](t, rec).Duration)

	rec = s.do(t, http.MethodPut, "/api/attendance/"+id, UpdateAttendanceRequest{Status: attendance.Ptr("ABSENT")})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ABSENT", *decode[AttendanceRecordDTO](t, rec).Status)

	rec = s.do(t, http.MethodPut, "/api/attendance/"+id, UpdateAttendanceRequest{EndTime: attendance.Ptr("2025-03-12T08:00:00Z")})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/attendance/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/attendance/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/attendance/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/attendance/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// VIEWS
// =============================================================================

func TestGetMonthlyAttendance(t *testing.T) {
	// GIVEN: a full day on Monday, a stray record an admin moved onto
	// Saturday, and today's check-in
	s := newTestServer(t)
	var strayID string
	for _, body := range []CreateAttendanceRequest{
		{UserID: "alice", Date: "2025-03-10", StartTime: "2025-03-10T09:00:00Z", EndTime: "2025-03-10T17:30:00Z"},
		{UserID: "alice", Date: "2025-03-07", Status: "PRESENT"},
	} {
		rec := s.do(t, http.MethodPost, "/api/attendance", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		strayID = decode[CreateAttendanceResponse](t, rec).Record.ID
	}
	moved := s.do(t, http.MethodPut, "/api/attendance/"+strayID, UpdateAttendanceRequest{Date: attendance.Ptr("2025-03-08")})
	require.Equal(t, http.StatusOK, moved.Code, moved.Body.String())
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/users/alice/check-in", nil).Code)

	// WHEN: resolving March
	rec := s.do(t, http.MethodGet, "/api/users/alice/attendance/monthly?month=3&year=2025", nil)

	// THEN: every day is present and resolved against today
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[AttendanceRangeResponse](t, rec)
	assert.Equal(t, "2025-03-01", resp.Start)
	assert.Equal(t, "2025-03-31", resp.End)
	require.Len(t, resp.Days, 31)

	day := func(n int) DailyViewDTO { return resp.Days[n-1] }
	assert.Equal(t, "WEEKEND", *day(8).Status, "stray record on a weekend")
	assert.NotNil(t, day(8).ID)
	assert.Equal(t, "PRESENT", *day(10).Status)
	assert.Equal(t, 8.5, *day(10).Duration)
	assert.Equal(t, "ABSENT", *day(11).Status)
	assert.Nil(t, day(11).ID)
	assert.Equal(t, "PRESENT", *day(12).Status)
	for n := 13; n <= 31; n++ {
		assert.Nil(t, day(n).Status, "day %d is in the future", n)
	}

	assert.Equal(t, 31, resp.Summary.Days)
	assert.Equal(t, 19, resp.Summary.Undetermined)
	assert.Equal(t, 2, resp.Summary.Counts["PRESENT"])
	assert.Equal(t, 8.5, resp.Summary.WorkedHours)
}

func TestGetMonthlyAttendance_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"month out of range", "/api/users/alice/attendance/monthly?month=13&year=2025", http.StatusBadRequest},
		{"month not a number", "/api/users/alice/attendance/monthly?month=march", http.StatusBadRequest},
		{"range reversed", "/api/users/alice/attendance?start=2025-03-10&end=2025-03-01", http.StatusBadRequest},
		{"range missing end", "/api/users/alice/attendance?start=2025-03-10", http.StatusBadRequest},
		{"range bad date", "/api/users/alice/attendance?start=2025-3-1&end=2025-03-10", http.StatusBadRequest},
		{"range too long", "/api/users/alice/attendance?start=0001-01-01&end=9999-12-31", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestGetMonthlyAttendance_DefaultsToCurrentMonth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/users/alice/attendance/monthly", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[AttendanceRangeResponse](t, rec)
	assert.Equal(t, "2025-03-01", resp.Start)
	assert.Len(t, resp.Days, 31)
}

func TestExportMonthlyAttendance(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/attendance", CreateAttendanceRequest{
		UserID: "alice", Date: "2025-03-10", StartTime: "2025-03-10T09:00:00Z", EndTime: "2025-03-10T17:30:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/users/alice/attendance/export?month=3&year=2025", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance-alice-2025-03.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(attendanceSheet)
	require.NoError(t, err)
	require.Len(t, rows, 32)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "2025-03-10", rows[10][0])
	assert.Equal(t, "Monday", rows[10][1])
	assert.Equal(t, "PRESENT", rows[10][2])
	assert.Equal(t, "09:00", rows[10][3])
	assert.Equal(t, "WEEKEND", rows[1][2])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Status", "Days"}, summary[0])
}

// =============================================================================
// USERS & HOLIDAYS
// =============================================================================

func TestUsers(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/users", CreateUserRequest{ID: "carol", Name: "Carol", Email: "carol@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "carol", decode[UserDTO](t, rec).ID)

	rec = s.do(t, http.MethodPost, "/api/users", CreateUserRequest{ID: "dave"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]UserDTO](t, rec), 4)

	rec = s.do(t, http.MethodGet, "/api/users/carol", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/users/carol", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/users/carol", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/users/carol", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHolidays_RefreshSnapshot(t *testing.T) {
	s := newTestServer(t)
	day := calendar.MustParseDate("2025-03-14")

	rec := s.do(t, http.MethodPost, "/api/holidays", CreateHolidayRequest{Date: "2025-03-14", Name: "Spring Break"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	holiday := decode[HolidayDTO](t, rec)
	assert.NotEmpty(t, holiday.ID)
	assert.True(t, s.h.Holidays.IsHoliday(day))

	rec = s.do(t, http.MethodGet, "/api/holidays", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[map[string][]HolidayDTO](t, rec)
	require.Len(t, list["holidays"], 1)
	assert.Equal(t, "Spring Break", list["holidays"][0].Name)

	rec = s.do(t, http.MethodDelete, "/api/holidays/"+holiday.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, s.h.Holidays.IsHoliday(day))

	rec = s.do(t, http.MethodPost, "/api/holidays", CreateHolidayRequest{Date: "14-03-2025", Name: "Bad"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/holidays", CreateHolidayRequest{Date: "2025-03-14"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHolidays_Defaults(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/holidays/defaults", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Recurring: any year's Christmas is a holiday
	assert.True(t, s.h.Holidays.IsHoliday(calendar.MustParseDate("2031-12-25")))
	assert.Equal(t, len(defaultHolidays), s.h.Holidays.Load().Len())
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
