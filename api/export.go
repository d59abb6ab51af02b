/*
export.go - Spreadsheet export of a resolved month

PURPOSE:
  Renders the resolved monthly view as an .xlsx workbook for payroll and HR
  tooling that does not speak JSON.

LAYOUT:
  Sheet "Attendance": one row per calendar day
    Date | Weekday | Status | Start | End | Hours | Leave Type | Reason
    Undetermined (future) days have an empty status.
  Sheet "Summary": days per status, undetermined days, worked hours

SEE ALSO:
  - handlers.go: GetMonthlyAttendance (same data as JSON)
  - attendance/reconcile.go: Resolve, Summarize
*/
package api

import (
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/attendance-engine/attendance"
	"github.com/xuri/excelize/v2"
)

const (
	attendanceSheet = "Attendance"
	summarySheet    = "Summary"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var attendanceHeader = []any{"Date", "Weekday", "Status", "Start", "End", "Hours", "Leave Type", "Reason"}

// ExportMonthlyAttendance streams the resolved month as an xlsx workbook.
func (h *Handler) ExportMonthlyAttendance(w http.ResponseWriter, r *http.Request) {
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

	f, err := BuildMonthlyWorkbook(views)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build workbook", err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("attendance-%s-%04d-%02d.xlsx", userID, year, month)
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := f.Write(w); err != nil {
		log.Printf("[API] export %s: %v", filename, err)
	}
}

// BuildMonthlyWorkbook renders resolved days into a new workbook. The caller
// closes it.
func BuildMonthlyWorkbook(views []attendance.DailyView) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", attendanceSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeAttendanceSheet(f, views); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSummarySheet(f, attendance.Summarize(views)); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeAttendanceSheet(f *excelize.File, views []attendance.DailyView) error {
	if err := f.SetSheetRow(attendanceSheet, "A1", &attendanceHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(attendanceSheet, "A1", "H1", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(attendanceSheet, "A", "H", 14); err != nil {
		return err
	}

	for i, v := range views {
		row := []any{
			v.Date.String(),
			v.Date.Weekday().String(),
			derefString(statusString(v.Status)),
			clockTime(v.StartTime),
			clockTime(v.EndTime),
			"",
			derefString(leaveTypeString(v.LeaveType)),
			derefString(v.Reason),
		}
		if v.Duration != nil {
			row[5] = v.Duration.InexactFloat64()
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(attendanceSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s attendance.Summary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	statuses := make([]string, 0, len(s.Counts))
	for status := range s.Counts {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)

	rows := [][]any{{"Status", "Days"}}
	for _, status := range statuses {
		rows = append(rows, []any{status, s.Counts[attendance.Status(status)]})
	}
	rows = append(rows,
		[]any{"Undetermined", s.Undetermined},
		[]any{"Total days", s.Days},
		[]any{"Worked hours", s.WorkedHours.InexactFloat64()},
	)

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func clockTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("15:04")
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
