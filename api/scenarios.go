/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for demos. Each scenario creates users, holidays and attendance
	records relative to "today" (the service clock), so the resolved month
	always shows past, present and future days.

AVAILABLE SCENARIOS:

	empty-office:    Users and default holidays, no attendance
	regular-month:   A month of check-ins with one absence and a stray
	                 weekend record (resolved as WEEKEND)
	leave-workflow:  Pending, approved and rejected leave

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create users (alice, bob, manager)
 3. Add default holidays and refresh the calendar snapshot
 4. Add attendance through the service (same rules as the API)

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "leave-workflow"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Holiday defaults, record endpoints
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/calendar"
	"github.com/warp/attendance-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "empty-office",
		Name:        "Empty Office",
		Description: "Users and default holidays, no attendance yet",
		Category:    "setup",
	},
	{
		ID:          "regular-month",
		Name:        "Regular Month",
		Description: "Daily check-ins this month with one absence and a stray weekend record",
		Category:    "attendance",
	},
	{
		ID:          "leave-workflow",
		Name:        "Leave Workflow",
		Description: "Pending casual leave, approved sick leave and a rejected half day",
		Category:    "leave",
	},
}

var scenarioLoaders = map[string]func(h *Handler, ctx context.Context) error{
	"empty-office":   (*Handler).loadEmptyOfficeScenario,
	"regular-month":  (*Handler).loadRegularMonthScenario,
	"leave-workflow": (*Handler).loadLeaveWorkflowScenario,
}

var demoUsers = []sqlite.User{
	{ID: "alice", Name: "Alice Martin", Email: "alice@example.com"},
	{ID: "bob", Name: "Bob Chen", Email: "bob@example.com"},
	{ID: "manager", Name: "Morgan Lee", Email: "morgan@example.com"},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	current := h.CurrentScenario()
	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// CurrentScenario returns the ID of the last loaded scenario.
func (h *Handler) CurrentScenario() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.currentScenario
}

func (h *Handler) setCurrentScenario(id string) {
	h.mu.Lock()
	h.currentScenario = id
	h.mu.Unlock()
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if _, ok := scenarioLoaders[req.ScenarioID]; !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err := h.Load(r.Context(), req.ScenarioID); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// Load resets the database and runs one scenario loader.
func (h *Handler) Load(ctx context.Context, scenarioID string) error {
	loader, ok := scenarioLoaders[scenarioID]
	if !ok {
		return fmt.Errorf("unknown scenario %q", scenarioID)
	}
	if err := h.reset(ctx); err != nil {
		return err
	}
	if err := loader(h, ctx); err != nil {
		return err
	}
	h.setCurrentScenario(scenarioID)
	return nil
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) reset(ctx context.Context) error {
	if err := h.Store.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	h.setCurrentScenario("")
	_, err := h.RefreshHolidays(ctx)
	return err
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadEmptyOfficeScenario(ctx context.Context) error {
	return h.seedDirectory(ctx)
}

func (h *Handler) loadRegularMonthScenario(ctx context.Context) error {
	if err := h.seedDirectory(ctx); err != nil {
		return err
	}

	today := attendance.Today(h.Service.Clock)
	workday := 0
	strayPlaced := false

	for d := calendar.StartOfMonth(today.Year(), today.Month()); d.Before(today); d = d.AddDays(1) {
		if !calendar.IsWorkingDay(h.Holidays, d) {
			// One record on a weekend to show the calendar wins.
			if d.IsWeekend() && !strayPlaced {
				if err := h.seedStray(ctx, "alice", d, 10, 0, 12, 0); err != nil {
					return err
				}
				strayPlaced = true
			}
			continue
		}
		workday++
		if workday == 3 {
			continue // absent
		}
		if err := h.seedPresent(ctx, "alice", d, 9, 0, 17, 30); err != nil {
			return err
		}
	}

	_, err := h.Service.CheckIn(ctx, "alice", attendance.Location{})
	if err != nil && !attendance.IsPolicyViolation(err) {
		return err
	}
	return nil
}

func (h *Handler) loadLeaveWorkflowScenario(ctx context.Context) error {
	if err := h.seedDirectory(ctx); err != nil {
		return err
	}

	today := attendance.Today(h.Service.Clock)

	// Alice: three days of casual leave next week, awaiting a decision
	start := h.nextWorkingDay(today.AddDays(7))
	if _, err := h.Service.RequestLeave(ctx, attendance.LeaveRequest{
		UserID:    "alice",
		StartDate: start,
		EndDate:   start.AddDays(2),
		LeaveType: attendance.LeaveCasual,
		Reason:    "Family visit",
	}); err != nil {
		return fmt.Errorf("alice leave: %w", err)
	}

	// Bob: sick tomorrow, approved
	sick, err := h.Service.RequestLeave(ctx, attendance.LeaveRequest{
		UserID:    "bob",
		StartDate: h.nextWorkingDay(today.AddDays(1)),
		EndDate:   h.nextWorkingDay(today.AddDays(1)),
		LeaveType: attendance.LeaveSick,
		Reason:    "Flu",
	})
	if err != nil {
		return fmt.Errorf("bob sick leave: %w", err)
	}
	for _, rec := range sick {
		if _, err := h.Service.UpdateLeaveStatus(ctx, rec.ID, attendance.StatusLeaveApproved, "", "manager"); err != nil {
			return err
		}
	}

	// Bob: a half day two weeks out, rejected
	half := h.nextWorkingDay(today.AddDays(14))
	rejected, err := h.Service.RequestLeave(ctx, attendance.LeaveRequest{
		UserID:    "bob",
		StartDate: half,
		EndDate:   half,
		LeaveType: attendance.LeaveHalfDay,
		Reason:    "Dentist",
	})
	if err != nil {
		return fmt.Errorf("bob half day: %w", err)
	}
	for _, rec := range rejected {
		if _, err := h.Service.UpdateLeaveStatus(ctx, rec.ID, attendance.StatusLeaveRejected, "Team offsite", "manager"); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SEED HELPERS
// =============================================================================

func (h *Handler) seedDirectory(ctx context.Context) error {
	for _, u := range demoUsers {
		if err := h.Store.SaveUser(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}
	if _, err := h.addDefaultHolidays(ctx, h.CompanyID); err != nil {
		return fmt.Errorf("seed holidays: %w", err)
	}
	_, err := h.RefreshHolidays(ctx)
	return err
}

func (h *Handler) seedPresent(ctx context.Context, userID string, d calendar.Date, fromH, fromM, toH, toM int) error {
	start := d.At(fromH, fromM, time.UTC)
	end := d.At(toH, toM, time.UTC)
	_, err := h.Service.CreateLeaveOrRegularAttendance(ctx, attendance.CreateAttendanceInput{
		UserID:    userID,
		Date:      d,
		StartTime: &start,
		EndTime:   &end,
		Status:    attendance.Ptr(attendance.StatusPresent),
	})
	if err != nil {
		return fmt.Errorf("seed %s %s: %w", userID, d, err)
	}
	return nil
}

// seedStray writes straight to the store, the way an import or a bad sync
// would. The service refuses manual entries on non-working days.
func (h *Handler) seedStray(ctx context.Context, userID string, d calendar.Date, fromH, fromM, toH, toM int) error {
	start := d.At(fromH, fromM, time.UTC)
	end := d.At(toH, toM, time.UTC)
	now := h.Service.Clock.Now()
	rec := attendance.Record{
		ID:        h.Service.IDs.NewID(),
		UserID:    userID,
		Date:      d,
		StartTime: &start,
		EndTime:   &end,
		Duration:  attendance.Ptr(attendance.HoursBetween(start, end)),
		Status:    attendance.Ptr(attendance.StatusPresent),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Store.Create(ctx, rec); err != nil {
		return fmt.Errorf("seed stray %s %s: %w", userID, d, err)
	}
	return nil
}

func (h *Handler) nextWorkingDay(d calendar.Date) calendar.Date {
	for !calendar.IsWorkingDay(h.Holidays, d) {
		d = d.AddDays(1)
	}
	return d
}
