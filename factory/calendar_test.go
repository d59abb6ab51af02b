package factory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attendance-engine/calendar"
)

const sampleYAML = `
company_id: acme
holidays:
  - date: 2025-12-25
    name: Christmas Day
    recurring: true
  - date: 2025-03-11
    name: Founders Day
`

func TestParseCalendarYAML(t *testing.T) {
	holidays, err := ParseCalendarYAML([]byte(sampleYAML))
	require.NoError(t, err)
	require.Len(t, holidays, 2)

	assert.Equal(t, "acme", holidays[0].CompanyID)
	assert.Equal(t, "Christmas Day", holidays[0].Name)
	assert.True(t, holidays[0].Recurring)
	assert.Equal(t, "2025-03-11", holidays[1].Date.String())

	set := calendar.HolidaySetFrom(holidays)
	assert.True(t, set.IsHoliday(calendar.MustParseDate("2027-12-25")))
	assert.True(t, set.IsHoliday(calendar.MustParseDate("2025-03-11")))
}

func TestParseCalendarYAML_UnknownFieldRejected(t *testing.T) {
	_, err := ParseCalendarYAML([]byte("holidays:\n  - date: 2025-03-11\n    nmae: Typo\n"))
	assert.Error(t, err)
}

func TestParseCalendarYAML_Empty(t *testing.T) {
	holidays, err := ParseCalendarYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, holidays)
}

func TestParseCalendarJSON(t *testing.T) {
	holidays, err := ParseCalendarJSON([]byte(`{"holidays":[{"date":"2025-01-01","name":"New Year"}]}`))
	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.Equal(t, "", holidays[0].CompanyID)
	assert.False(t, holidays[0].Recurring)

	_, err = ParseCalendarJSON([]byte(`{"holidays":[],"extra":1}`))
	assert.Error(t, err)
}

func TestParseCalendar_Validation(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"bad date", `{"holidays":[{"date":"2025-02-30","name":"Nope"}]}`},
		{"missing name", `{"holidays":[{"date":"2025-02-03","name":"  "}]}`},
		{"duplicate", `{"holidays":[{"date":"2025-02-03","name":"A"},{"date":"2025-02-03","name":"B"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCalendarJSON([]byte(tt.json))
			assert.Error(t, err)
		})
	}
}

func TestLoadCalendarFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "holidays.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleYAML), 0o600))
	holidays, err := LoadCalendarFile(yamlPath)
	require.NoError(t, err)
	assert.Len(t, holidays, 2)

	txtPath := filepath.Join(dir, "holidays.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("2025-01-01"), 0o600))
	_, err = LoadCalendarFile(txtPath)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadCalendarFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
