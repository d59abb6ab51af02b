/*
handlers.go - HTTP API handlers for the attendance engine

PURPOSE:
  Exposes the attendance service via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the attendance package.

ENDPOINTS:
  Users:
    GET    /api/users                                List users
    POST   /api/users                                Create user
    GET    /api/users/{id}                           Get user
    DELETE /api/users/{id}                           Delete user

  Attendance (per user):
    GET    /api/users/{id}/attendance/monthly        Resolved month + summary
    GET    /api/users/{id}/attendance?start=&end=    Resolved range + summary
    GET    /api/users/{id}/attendance/export         Resolved month as xlsx
    POST   /api/users/{id}/check-in                  Open today's record
    POST   /api/users/{id}/check-out                 Close today's record

  Records:
    POST   /api/attendance                           Regularization or leave
    GET    /api/attendance/{recordID}                Get record
    PUT    /api/attendance/{recordID}                Admin override
    DELETE /api/attendance/{recordID}                Admin delete
    POST   /api/attendance/{recordID}/leave-status   Approve / reject leave
    GET    /api/leave/pending                        Pending leave records

  Holidays:
    GET    /api/holidays                             List holidays
    POST   /api/holidays                             Create holiday
    POST   /api/holidays/defaults                    Add fixed-date defaults
    DELETE /api/holidays/{id}                        Delete holiday

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Service: attendance operations (check-in, leave, resolution)
  - Store: SQLite store, also the user directory and holiday table
  - Holidays: the snapshot the service resolves against; replaced after
    every holiday change and by the HolidayRefresher

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input shape (dates, enums, JSON)
  3. Call the service under a request deadline
  4. Serialize response
  5. Map service errors to status codes

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input (bad range, times, status)
  - 404: User, record or approver not found
  - 409: Conflict (already checked in, no open check-in, duplicate day)
  - 422: Policy violation (non-working day, retroactive, overlap, transition)
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - export.go: Spreadsheet export
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/calendar"
	"github.com/warp/attendance-engine/store/sqlite"
)

// DefaultTimeout bounds every service call made by a handler.
const DefaultTimeout = 5 * time.Second

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler contains dependencies for HTTP handlers.
type Handler struct {
	Service   *attendance.Service
	Store     *sqlite.Store
	Holidays  *calendar.Snapshot
	CompanyID string
	Timeout   time.Duration

	mu              sync.RWMutex
	currentScenario string
}

// NewHandler wires a service over the store. The store doubles as the user
// directory; the service resolves against the holiday snapshot.
func NewHandler(store *sqlite.Store, holidays *calendar.Snapshot) *Handler {
	if holidays == nil {
		holidays = calendar.NewSnapshot(calendar.HolidaySet{})
	}
	return &Handler{
		Service:  attendance.NewService(store, store, holidays),
		Store:    store,
		Holidays: holidays,
		Timeout:  DefaultTimeout,
	}
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(r.Context(), timeout)
}

// RefreshHolidays reloads the holiday table into the snapshot.
func (h *Handler) RefreshHolidays(ctx context.Context) (int, error) {
	set, err := h.Store.HolidaySet(ctx, h.CompanyID)
	if err != nil {
		return 0, fmt.Errorf("refresh holidays: %w", err)
	}
	h.Holidays.Store(set)
	return set.Len(), nil
}

// =============================================================================
// USER ENDPOINTS
// =============================================================================

// ListUsers returns all users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	users, err := h.Store.ListUsers(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, toUserDTO(u))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateUser creates or updates a user.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	u := sqlite.User{ID: req.ID, Name: req.Name, Email: req.Email}
	if err := h.Store.SaveUser(ctx, u); err != nil {
		writeServiceError(w, err)
		return
	}
	saved, err := h.Store.GetUser(ctx, u.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(*saved))
}

// GetUser returns one user.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	u, err := h.Store.GetUser(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(*u))
}

// DeleteUser removes a user. Their records stay.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.Store.DeleteUser(ctx, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// ATTENDANCE VIEW ENDPOINTS
// =============================================================================

// GetMonthlyAttendance resolves one month. month and year default to the
// current month.
func (h *Handler) GetMonthlyAttendance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	month, year, err := h.monthParams(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	views, err := h.Service.GetMonthlyAttendance(ctx, userID, month, year)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rng := calendar.MonthRange(year, time.Month(month))
	writeJSON(w, http.StatusOK, NewAttendanceRangeResponse(userID, rng, views))
}

// GetAttendanceRange resolves an arbitrary [start, end] range.
func (h *Handler) GetAttendanceRange(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		writeError(w, http.StatusBadRequest, "start and end are required", nil)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	views, err := h.Service.GetYearlyAttendance(ctx, userID, start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rng, err := calendar.ParseRange(start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewAttendanceRangeResponse(userID, rng, views))
}

func (h *Handler) monthParams(r *http.Request) (month, year int, err error) {
	today := attendance.Today(h.Service.Clock)
	month, year = int(today.Month()), today.Year()

	q := r.URL.Query()
	if v := q.Get("month"); v != "" {
		if month, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("%w: month %q", attendance.ErrInvalidRange, v)
		}
	}
	if v := q.Get("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("%w: year %q", attendance.ErrInvalidRange, v)
		}
	}
	return month, year, nil
}

// =============================================================================
// CHECK-IN / CHECK-OUT ENDPOINTS
// =============================================================================

// CheckIn opens today's record. The body is optional.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	rec, err := h.Service.CheckIn(ctx, chi.URLParam(r, "id"), attendance.Location{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecordDTO(rec))
}

// CheckOut closes today's open record.
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	rec, err := h.Service.CheckOut(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

// =============================================================================
// RECORD ENDPOINTS
// =============================================================================

// CreateAttendance creates a regularization or a leave request.
func (h *Handler) CreateAttendance(w http.ResponseWriter, r *http.Request) {
	var req CreateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	res, err := h.Service.CreateLeaveOrRegularAttendance(ctx, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var resp CreateAttendanceResponse
	if res.Record != nil {
		dto := toRecordDTO(*res.Record)
		resp.Record = &dto
	} else {
		resp.Records = toRecordDTOs(res.Leave)
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (req CreateAttendanceRequest) toInput() (attendance.CreateAttendanceInput, error) {
	var in attendance.CreateAttendanceInput
	var err error

	in.UserID = strings.TrimSpace(req.UserID)
	if in.Date, err = calendar.ParseDate(req.Date); err != nil {
		return in, fmt.Errorf("%w: date: %v", attendance.ErrInvalidRange, err)
	}
	if req.EndDate != "" {
		end, err := calendar.ParseDate(req.EndDate)
		if err != nil {
			return in, fmt.Errorf("%w: end_date: %v", attendance.ErrInvalidRange, err)
		}
		in.EndDate = &end
	}
	if in.StartTime, err = parseTimePtr(req.StartTime); err != nil {
		return in, err
	}
	if in.EndTime, err = parseTimePtr(req.EndTime); err != nil {
		return in, err
	}
	if req.Duration != nil {
		d := decimal.NewFromFloat(*req.Duration)
		in.Duration = &d
	}
	if req.Status != "" {
		s, err := attendance.ParseStatus(req.Status)
		if err != nil {
			return in, err
		}
		in.Status = &s
	}
	if req.LeaveType != "" {
		lt, err := attendance.ParseLeaveType(req.LeaveType)
		if err != nil {
			return in, err
		}
		in.LeaveType = &lt
	}
	in.Reason = req.Reason
	in.IsHalfDay = req.IsHalfDay
	in.Latitude = req.Latitude
	in.Longitude = req.Longitude
	return in, nil
}

// GetRecord returns one stored record.
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	rec, err := h.Service.GetRecord(ctx, chi.URLParam(r, "recordID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

// UpdateRecord applies an admin override.
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	var req UpdateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	rec, err := h.Service.UpdateRecord(ctx, chi.URLParam(r, "recordID"), patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

func (req UpdateAttendanceRequest) toPatch() (attendance.RecordPatch, error) {
	patch := attendance.RecordPatch{
		Reason:          req.Reason,
		RejectionReason: req.RejectionReason,
		ApproverID:      req.ApproverID,
		IsHalfDay:       req.IsHalfDay,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
	}
	var err error

	if req.Date != nil {
		d, err := calendar.ParseDate(*req.Date)
		if err != nil {
			return patch, fmt.Errorf("%w: date: %v", attendance.ErrInvalidRange, err)
		}
		patch.Date = &d
	}
	if req.StartTime != nil {
		if patch.StartTime, err = parseTimePtr(*req.StartTime); err != nil {
			return patch, err
		}
	}
	if req.EndTime != nil {
		if patch.EndTime, err = parseTimePtr(*req.EndTime); err != nil {
			return patch, err
		}
	}
	if req.Duration != nil {
		d := decimal.NewFromFloat(*req.Duration)
		patch.Duration = &d
	}
	if req.Status != nil {
		s, err := attendance.ParseStatus(*req.Status)
		if err != nil {
			return patch, err
		}
		patch.Status = &s
	}
	if req.LeaveType != nil {
		lt, err := attendance.ParseLeaveType(*req.LeaveType)
		if err != nil {
			return patch, err
		}
		patch.LeaveType = &lt
	}
	return patch, nil
}

// DeleteRecord removes a record.
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.Service.DeleteRecord(ctx, chi.URLParam(r, "recordID")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UpdateLeaveStatus approves or rejects a pending leave record.
func (h *Handler) UpdateLeaveStatus(w http.ResponseWriter, r *http.Request) {
	var req LeaveStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	status, err := attendance.ParseStatus(req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	rec, err := h.Service.UpdateLeaveStatus(ctx, chi.URLParam(r, "recordID"), status, req.RejectionReason, req.ApproverID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

// ListPendingLeave returns every leave record awaiting a decision.
func (h *Handler) ListPendingLeave(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	recs, err := h.Service.ListPendingLeave(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": toRecordDTOs(recs)})
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListHolidays returns holidays for a company (plus global ones).
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	if companyID == "" {
		companyID = h.CompanyID
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	holidays, err := h.Store.ListHolidays(ctx, companyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, toHolidayDTO(hol))
	}
	writeJSON(w, http.StatusOK, map[string]any{"holidays": dtos})
}

// CreateHoliday adds a holiday and refreshes the calendar snapshot.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	saved, err := h.Store.SaveHoliday(ctx, calendar.Holiday{
		CompanyID: req.CompanyID,
		Date:      date,
		Name:      strings.TrimSpace(req.Name),
		Recurring: req.Recurring,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := h.RefreshHolidays(ctx); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayDTO(saved))
}

// DeleteHoliday removes a holiday and refreshes the calendar snapshot.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.Store.DeleteHoliday(ctx, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := h.RefreshHolidays(ctx); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// defaultHolidays are fixed-date holidays that recur every year.
var defaultHolidays = []struct {
	monthDay string
	name     string
}{
	{"01-01", "New Year's Day"},
	{"07-04", "Independence Day"},
	{"11-11", "Veterans Day"},
	{"12-25", "Christmas Day"},
}

// AddDefaultHolidays adds the recurring fixed-date holidays.
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	added, err := h.addDefaultHolidays(ctx, r.URL.Query().Get("company_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := h.RefreshHolidays(ctx); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"status": "created", "added": added})
}

func (h *Handler) addDefaultHolidays(ctx context.Context, companyID string) (int, error) {
	year := attendance.Today(h.Service.Clock).Year()
	for _, d := range defaultHolidays {
		date, err := calendar.ParseDate(fmt.Sprintf("%04d-%s", year, d.monthDay))
		if err != nil {
			return 0, err
		}
		_, err = h.Store.SaveHoliday(ctx, calendar.Holiday{
			CompanyID: companyID,
			Date:      date,
			Name:      d.name,
			Recurring: true,
		})
		if err != nil {
			return 0, err
		}
	}
	return len(defaultHolidays), nil
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError maps the attendance error taxonomy to a status code.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case attendance.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case attendance.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	case attendance.IsPolicyViolation(err):
		writeError(w, http.StatusUnprocessableEntity, "Policy violation", err)
	case attendance.IsConflict(err):
		writeError(w, http.StatusConflict, "Conflict", err)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "Timed out", err)
	default:
		log.Printf("[API] internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func parseTimePtr(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not RFC3339", attendance.ErrInvalidTimes, s)
	}
	return &t, nil
}
