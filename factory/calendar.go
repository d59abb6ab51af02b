/*
Package factory provides file to Go holiday calendar conversion.

PURPOSE:
  Converts holiday calendar files into calendar.Holiday values. This lets HR
  maintain the organization's non-working days in a file kept under version
  control, and lets the server or the CLI import them without code changes.

FORMATS:
  YAML (.yaml, .yml) and JSON (.json). Unknown fields are rejected so a typo
  in a key fails loudly instead of silently dropping a holiday.

YAML SCHEMA:
  company_id: acme        # optional, empty = global
  holidays:
    - date: 2025-12-25
      name: Christmas Day
      recurring: true     # same month/day every year
    - date: 2025-03-11
      name: Founders Day

USAGE:
  holidays, err := factory.LoadCalendarFile("holidays.yaml")
  set := calendar.HolidaySetFrom(holidays)

SEE ALSO:
  - calendar/holidays.go: Holiday and HolidaySet
  - cmd/server/holidays.go: `holidays import` command
*/
package factory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/warp/attendance-engine/calendar"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files that are neither YAML nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported calendar format")

// =============================================================================
// FILE SCHEMA TYPES
// =============================================================================

// CalendarFile is the on-disk representation of a holiday calendar.
type CalendarFile struct {
	CompanyID string         `json:"company_id" yaml:"company_id"`
	Holidays  []HolidayEntry `json:"holidays" yaml:"holidays"`
}

// HolidayEntry is one holiday line.
type HolidayEntry struct {
	Date      string `json:"date" yaml:"date"`
	Name      string `json:"name" yaml:"name"`
	Recurring bool   `json:"recurring" yaml:"recurring"`
}

// =============================================================================
// PARSING
// =============================================================================

// LoadCalendarFile reads a calendar file, picking the format from the extension.
func LoadCalendarFile(path string) ([]calendar.Holiday, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calendar %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseCalendarYAML(data)
	case ".json":
		return ParseCalendarJSON(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ParseCalendarYAML parses a YAML calendar.
func ParseCalendarYAML(data []byte) ([]calendar.Holiday, error) {
	var file CalendarFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse calendar yaml: %w", err)
	}
	return file.toHolidays()
}

// ParseCalendarJSON parses a JSON calendar.
func ParseCalendarJSON(data []byte) ([]calendar.Holiday, error) {
	var file CalendarFile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse calendar json: %w", err)
	}
	return file.toHolidays()
}

func (f CalendarFile) toHolidays() ([]calendar.Holiday, error) {
	out := make([]calendar.Holiday, 0, len(f.Holidays))
	seen := make(map[string]bool, len(f.Holidays))

	for i, h := range f.Holidays {
		d, err := calendar.ParseDate(h.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday %d: %w", i, err)
		}
		name := strings.TrimSpace(h.Name)
		if name == "" {
			return nil, fmt.Errorf("holiday %d (%s): name is required", i, h.Date)
		}

		key := d.String()
		if h.Recurring {
			key = "*-" + d.MonthDay()
		}
		if seen[key] {
			return nil, fmt.Errorf("holiday %d: duplicate date %s", i, h.Date)
		}
		seen[key] = true

		out = append(out, calendar.Holiday{
			CompanyID: f.CompanyID,
			Date:      d,
			Name:      name,
			Recurring: h.Recurring,
		})
	}
	return out, nil
}
