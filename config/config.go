/*
config.go - Server configuration from the environment

PURPOSE:
  Collects every runtime setting in one struct. Values come from, in order
  of precedence: command-line flags (applied by cmd/server), environment
  variables, an optional .env file in the working directory, built-in
  defaults.

VARIABLES:
  ATTENDANCE_PORT             HTTP port (8080)
  ATTENDANCE_DB               SQLite path (attendance.db)
  ATTENDANCE_HOLIDAYS_FILE    YAML/JSON holiday calendar imported at startup
  ATTENDANCE_COMPANY_ID       Company whose holidays apply ("" = global)
  ATTENDANCE_TIMEZONE         IANA zone that decides "today" (UTC)
  ATTENDANCE_STORE_TIMEOUT    Per-request deadline (5s)
  ATTENDANCE_HOLIDAY_REFRESH  Holiday reload interval, 0 disables (1h)
  ATTENDANCE_CORS_ORIGINS     Comma-separated allowed origins
  ATTENDANCE_MAX_RANGE_DAYS   Longest resolvable range or leave request (366)

SEE ALSO:
  - cmd/server/serve.go: flag overrides
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds server settings.
type Config struct {
	Port           int
	DBPath         string
	HolidaysFile   string
	CompanyID      string
	Timezone       string
	StoreTimeout   time.Duration
	HolidayRefresh time.Duration
	AllowedOrigins []string
	MaxRangeDays   int
}

const (
	DefaultPort           = 8080
	DefaultDBPath         = "attendance.db"
	DefaultTimezone       = "UTC"
	DefaultStoreTimeout   = 5 * time.Second
	DefaultHolidayRefresh = time.Hour
	DefaultMaxRangeDays   = 366
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:           DefaultPort,
		DBPath:         DefaultDBPath,
		Timezone:       DefaultTimezone,
		StoreTimeout:   DefaultStoreTimeout,
		HolidayRefresh: DefaultHolidayRefresh,
		MaxRangeDays:   DefaultMaxRangeDays,
	}
}

// Load reads envFiles (".env" when none given) into the process environment
// without overriding variables already set, then builds the Config. Missing
// env files are ignored.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds the Config from environment variables over the defaults.
func FromEnv() (Config, error) {
	cfg := Default()
	var err error

	if v := os.Getenv("ATTENDANCE_PORT"); v != "" {
		if cfg.Port, err = strconv.Atoi(v); err != nil || cfg.Port <= 0 || cfg.Port > 65535 {
			return Config{}, fmt.Errorf("ATTENDANCE_PORT: invalid port %q", v)
		}
	}
	if v := os.Getenv("ATTENDANCE_DB"); v != "" {
		cfg.DBPath = v
	}
	cfg.HolidaysFile = os.Getenv("ATTENDANCE_HOLIDAYS_FILE")
	cfg.CompanyID = os.Getenv("ATTENDANCE_COMPANY_ID")
	if v := os.Getenv("ATTENDANCE_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Config{}, fmt.Errorf("ATTENDANCE_TIMEZONE: %w", err)
	}
	if cfg.StoreTimeout, err = durationEnv("ATTENDANCE_STORE_TIMEOUT", cfg.StoreTimeout); err != nil {
		return Config{}, err
	}
	if cfg.HolidayRefresh, err = durationEnv("ATTENDANCE_HOLIDAY_REFRESH", cfg.HolidayRefresh); err != nil {
		return Config{}, err
	}
	cfg.AllowedOrigins = splitList(os.Getenv("ATTENDANCE_CORS_ORIGINS"))
	if v := os.Getenv("ATTENDANCE_MAX_RANGE_DAYS"); v != "" {
		if cfg.MaxRangeDays, err = strconv.Atoi(v); err != nil || cfg.MaxRangeDays <= 0 {
			return Config{}, fmt.Errorf("ATTENDANCE_MAX_RANGE_DAYS: invalid day count %q", v)
		}
	}
	return cfg, nil
}

// Location returns the time zone that decides "today".
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Addr returns the listen address.
func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
