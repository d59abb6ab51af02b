/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the attendance domain model from the external API contract:
  - snake_case field names
  - nullable fields as JSON null (nil pointers)
  - hours as plain JSON numbers instead of decimal strings

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Attendance:
    DailyViewDTO, AttendanceRecordDTO, SummaryDTO,
    AttendanceRangeResponse, CreateAttendanceRequest,
    UpdateAttendanceRequest, LeaveStatusRequest, CheckInRequest

  Directory:
    UserDTO, CreateUserRequest

  Calendar:
    HolidayDTO, CreateHolidayRequest

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers and the service, not in DTOs. DTOs are
  pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - attendance/types.go: Domain types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/calendar"
	"github.com/warp/attendance-engine/store/sqlite"
)

// =============================================================================
// ATTENDANCE DTOs
// =============================================================================

// DailyViewDTO is one resolved day.
type DailyViewDTO struct {
	Date      string   `json:"date"`
	ID        *string  `json:"id"`
	Status    *string  `json:"status"`
	StartTime *string  `json:"start_time"`
	EndTime   *string  `json:"end_time"`
	Reason    *string  `json:"reason"`
	LeaveType *string  `json:"leave_type"`
	Duration  *float64 `json:"duration"`
}

// SummaryDTO aggregates a resolved range.
type SummaryDTO struct {
	Days         int            `json:"days"`
	Counts       map[string]int `json:"counts"`
	Undetermined int            `json:"undetermined"`
	WorkedHours  float64        `json:"worked_hours"`
}

// AttendanceRangeResponse is returned by the monthly and range endpoints.
type AttendanceRangeResponse struct {
	UserID  string         `json:"user_id"`
	Start   string         `json:"start"`
	End     string         `json:"end"`
	Days    []DailyViewDTO `json:"days"`
	Summary SummaryDTO     `json:"summary"`
}

// AttendanceRecordDTO is a stored record.
type AttendanceRecordDTO struct {
	ID              string   `json:"id"`
	UserID          string   `json:"user_id"`
	Date            string   `json:"date"`
	StartTime       *string  `json:"start_time"`
	EndTime         *string  `json:"end_time"`
	Duration        *float64 `json:"duration"`
	Status          *string  `json:"status"`
	Reason          *string  `json:"reason"`
	LeaveType       *string  `json:"leave_type"`
	RejectionReason *string  `json:"rejection_reason"`
	ApproverID      *string  `json:"approver_id"`
	IsHalfDay       bool     `json:"is_half_day"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	CreatedAt       string   `json:"created_at,omitempty"`
	UpdatedAt       string   `json:"updated_at,omitempty"`
}

// CreateAttendanceResponse carries either one regular record or the
// materialized leave records.
type CreateAttendanceResponse struct {
	Record  *AttendanceRecordDTO  `json:"record,omitempty"`
	Records []AttendanceRecordDTO `json:"records,omitempty"`
}

// CheckInRequest is the optional body of a check-in.
type CheckInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// CreateAttendanceRequest is a manual entry: a regularization or a leave
// request (leave_type set, or end_date after date).
type CreateAttendanceRequest struct {
	UserID    string   `json:"user_id"`
	Date      string   `json:"date"`
	EndDate   string   `json:"end_date,omitempty"`
	StartTime string   `json:"start_time,omitempty"` // RFC3339
	EndTime   string   `json:"end_time,omitempty"`   // RFC3339
	Duration  *float64 `json:"duration,omitempty"`
	Status    string   `json:"status,omitempty"`
	Reason    string   `json:"reason,omitempty"`
	LeaveType string   `json:"leave_type,omitempty"`
	IsHalfDay bool     `json:"is_half_day,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// UpdateAttendanceRequest is an admin override. Omitted fields are kept.
type UpdateAttendanceRequest struct {
	Date            *string  `json:"date"`
	StartTime       *string  `json:"start_time"`
	EndTime         *string  `json:"end_time"`
	Duration        *float64 `json:"duration"`
	Status          *string  `json:"status"`
	Reason          *string  `json:"reason"`
	LeaveType       *string  `json:"leave_type"`
	RejectionReason *string  `json:"rejection_reason"`
	ApproverID      *string  `json:"approver_id"`
	IsHalfDay       *bool    `json:"is_half_day"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
}

// LeaveStatusRequest approves or rejects a pending leave record.
type LeaveStatusRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	ApproverID      string `json:"approver_id"`
}

// =============================================================================
// DIRECTORY & CALENDAR DTOs
// =============================================================================

// UserDTO represents a user in API responses.
type UserDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateUserRequest is the request body for creating a user.
type CreateUserRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HolidayDTO represents a company holiday.
type HolidayDTO struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id,omitempty"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// CreateHolidayRequest is the request body for creating a holiday.
type CreateHolidayRequest struct {
	CompanyID string `json:"company_id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// =============================================================================
// SCENARIO DTOs
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// LoadScenarioRequest is the request body for loading a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// ToDailyViewDTOs converts a resolved range for JSON output. Never nil.
func ToDailyViewDTOs(views []attendance.DailyView) []DailyViewDTO {
	out := make([]DailyViewDTO, 0, len(views))
	for _, v := range views {
		out = append(out, DailyViewDTO{
			Date:      v.Date.String(),
			ID:        v.ID,
			Status:    statusString(v.Status),
			StartTime: timeString(v.StartTime),
			EndTime:   timeString(v.EndTime),
			Reason:    v.Reason,
			LeaveType: leaveTypeString(v.LeaveType),
			Duration:  hours(v.Duration),
		})
	}
	return out
}

// ToSummaryDTO converts a summary. Statuses with zero days are omitted.
func ToSummaryDTO(s attendance.Summary) SummaryDTO {
	counts := make(map[string]int, len(s.Counts))
	for status, n := range s.Counts {
		counts[string(status)] = n
	}
	worked, _ := s.WorkedHours.Float64()
	return SummaryDTO{
		Days:         s.Days,
		Counts:       counts,
		Undetermined: s.Undetermined,
		WorkedHours:  worked,
	}
}

// NewAttendanceRangeResponse builds the response for a resolved range.
func NewAttendanceRangeResponse(userID string, r calendar.Range, views []attendance.DailyView) AttendanceRangeResponse {
	return AttendanceRangeResponse{
		UserID:  userID,
		Start:   r.Start.String(),
		End:     r.End.String(),
		Days:    ToDailyViewDTOs(views),
		Summary: ToSummaryDTO(attendance.Summarize(views)),
	}
}

func toRecordDTO(r attendance.Record) AttendanceRecordDTO {
	dto := AttendanceRecordDTO{
		ID:              r.ID,
		UserID:          r.UserID,
		Date:            r.Date.String(),
		StartTime:       timeString(r.StartTime),
		EndTime:         timeString(r.EndTime),
		Duration:        hours(r.Duration),
		Status:          statusString(r.Status),
		Reason:          r.Reason,
		LeaveType:       leaveTypeString(r.LeaveType),
		RejectionReason: r.RejectionReason,
		ApproverID:      r.ApproverID,
		IsHalfDay:       r.IsHalfDay,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
	}
	if !r.CreatedAt.IsZero() {
		dto.CreatedAt = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !r.UpdatedAt.IsZero() {
		dto.UpdatedAt = r.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func toRecordDTOs(recs []attendance.Record) []AttendanceRecordDTO {
	out := make([]AttendanceRecordDTO, 0, len(recs))
	for _, r := range recs {
		out = append(out, toRecordDTO(r))
	}
	return out
}

func toUserDTO(u sqlite.User) UserDTO {
	dto := UserDTO{ID: u.ID, Name: u.Name, Email: u.Email}
	if !u.CreatedAt.IsZero() {
		dto.CreatedAt = u.CreatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func toHolidayDTO(h calendar.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:        h.ID,
		CompanyID: h.CompanyID,
		Date:      h.Date.String(),
		Name:      h.Name,
		Recurring: h.Recurring,
	}
}

func statusString(s *attendance.Status) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

func leaveTypeString(t *attendance.LeaveType) *string {
	if t == nil {
		return nil
	}
	v := string(*t)
	return &v
}

func timeString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

func hours(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	v := d.InexactFloat64()
	return &v
}
