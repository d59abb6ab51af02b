package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"ATTENDANCE_PORT", "ATTENDANCE_DB", "ATTENDANCE_HOLIDAYS_FILE", "ATTENDANCE_COMPANY_ID",
	"ATTENDANCE_TIMEZONE", "ATTENDANCE_STORE_TIMEOUT", "ATTENDANCE_HOLIDAY_REFRESH",
	"ATTENDANCE_CORS_ORIGINS", "ATTENDANCE_MAX_RANGE_DAYS",
}

// clearEnv blanks every variable so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ATTENDANCE_PORT", "9090")
	t.Setenv("ATTENDANCE_DB", "/tmp/att.db")
	t.Setenv("ATTENDANCE_HOLIDAYS_FILE", "holidays.yaml")
	t.Setenv("ATTENDANCE_COMPANY_ID", "acme")
	t.Setenv("ATTENDANCE_TIMEZONE", "Europe/Paris")
	t.Setenv("ATTENDANCE_STORE_TIMEOUT", "2s")
	t.Setenv("ATTENDANCE_HOLIDAY_REFRESH", "0")
	t.Setenv("ATTENDANCE_CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("ATTENDANCE_MAX_RANGE_DAYS", "93")

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/att.db", cfg.DBPath)
	assert.Equal(t, "holidays.yaml", cfg.HolidaysFile)
	assert.Equal(t, "acme", cfg.CompanyID)
	assert.Equal(t, "Europe/Paris", cfg.Location().String())
	assert.Equal(t, 2*time.Second, cfg.StoreTimeout)
	assert.Equal(t, time.Duration(0), cfg.HolidayRefresh)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 93, cfg.MaxRangeDays)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"ATTENDANCE_PORT", "http"},
		{"ATTENDANCE_PORT", "70000"},
		{"ATTENDANCE_TIMEZONE", "Mars/Olympus"},
		{"ATTENDANCE_STORE_TIMEOUT", "soon"},
		{"ATTENDANCE_HOLIDAY_REFRESH", "-1h"},
		{"ATTENDANCE_MAX_RANGE_DAYS", "0"},
		{"ATTENDANCE_MAX_RANGE_DAYS", "forever"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("ATTENDANCE_DB")
	os.Unsetenv("ATTENDANCE_PORT")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ATTENDANCE_DB=from-file.db\nATTENDANCE_PORT=7070\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("ATTENDANCE_DB")
		os.Unsetenv("ATTENDANCE_PORT")
	})

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.DBPath)
	assert.Equal(t, 7070, cfg.Port)
}

func TestLoad_EnvDoesNotOverrideProcess(t *testing.T) {
	clearEnv(t)
	t.Setenv("ATTENDANCE_DB", "from-env.db")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ATTENDANCE_DB=from-file.db\n"), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.DBPath)
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.NoError(t, err)
}
