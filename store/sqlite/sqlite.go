/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements attendance.TxStore, attendance.UserDirectory and the holiday
  calendar tables using SQLite. In production, the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  attendance.Store:         Attendance record persistence
  attendance.TxStore:       Atomic multi-record writes (leave requests)
  attendance.UserDirectory: User existence lookups

KEY TABLES:
  attendance_records: One row per (user, date)
  users:              Directory entries (the engine only checks existence)
  holidays:           Company-specific and global holidays

INDEXES:
  - idx_attendance_user_day: UNIQUE (user_id, date). The engine's only
    concurrency control: the second writer for a day gets ErrDuplicateDay.
  - idx_attendance_status: Pending leave lookups

CONCURRENCY:
  Uses sync.RWMutex for thread-safety and a single open connection, which
  also keeps ":memory:" databases shared across calls. In production with
  PostgreSQL, database-level concurrency control handles this instead.

USAGE:
  store, err := sqlite.New("./data/attendance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := attendance.NewService(store, store, calendar.NewSnapshot(set))

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - attendance/store.go: Interface definitions
  - attendance/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/calendar"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Attendance records (sparse: only days something happened)
	CREATE TABLE IF NOT EXISTS attendance_records (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		start_time TEXT,
		end_time TEXT,
		duration TEXT,
		status TEXT,
		reason TEXT,
		leave_type TEXT,
		rejection_reason TEXT,
		approver_id TEXT,
		is_half_day BOOLEAN NOT NULL DEFAULT FALSE,
		latitude REAL,
		longitude REAL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- CRITICAL: At most one record per user per day
	CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_user_day
		ON attendance_records(user_id, date);

	CREATE INDEX IF NOT EXISTS idx_attendance_status
		ON attendance_records(status, date);

	-- Users (directory boundary)
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		created_at TEXT NOT NULL
	);

	-- Holidays (company-specific and global)
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_company_date
		ON holidays(company_id, date);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(company_id, date, name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ATTENDANCE STORE (attendance.Store interface)
// =============================================================================

// execer and querier let the same SQL run against *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const recordColumns = `id, user_id, date, start_time, end_time, duration, status, reason,
	leave_type, rejection_reason, approver_id, is_half_day, latitude, longitude,
	created_at, updated_at`

// Create inserts a record.
func (s *Store) Create(ctx context.Context, rec attendance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return insertRecord(ctx, s.db, rec)
}

// CreateBatch inserts records atomically.
func (s *Store) CreateBatch(ctx context.Context, recs []attendance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, rec := range recs {
		if err := insertRecord(ctx, sqlTx, rec); err != nil {
			return err
		}
	}
	return sqlTx.Commit()
}

func insertRecord(ctx context.Context, db execer, rec attendance.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	query := `INSERT INTO attendance_records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.ExecContext(ctx, query, recordArgs(rec)...)
	if err != nil {
		return mapWriteError(err, rec)
	}
	return nil
}

// Update replaces an existing record by ID.
func (s *Store) Update(ctx context.Context, rec attendance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return updateRecord(ctx, s.db, rec)
}

func updateRecord(ctx context.Context, db execer, rec attendance.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE attendance_records SET
			user_id = ?, date = ?, start_time = ?, end_time = ?, duration = ?,
			status = ?, reason = ?, leave_type = ?, rejection_reason = ?,
			approver_id = ?, is_half_day = ?, latitude = ?, longitude = ?,
			created_at = ?, updated_at = ?
		WHERE id = ?
	`
	args := append(recordArgs(rec)[1:], rec.ID)
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, rec)
	}
	return requireAffected(res, rec.ID)
}

// Delete removes a record by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return deleteRecord(ctx, s.db, id)
}

func deleteRecord(ctx context.Context, db execer, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM attendance_records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, err)
	}
	return requireAffected(res, id)
}

// Get returns a record by ID.
func (s *Store) Get(ctx context.Context, id string) (attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return getRecord(ctx, s.db, id)
}

func getRecord(ctx context.Context, db querier, id string) (attendance.Record, error) {
	row := db.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM attendance_records WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return attendance.Record{}, fmt.Errorf("%w: %s", attendance.ErrRecordNotFound, id)
	}
	return rec, err
}

// FindByUserAndDate returns the record for (user, date), or nil.
func (s *Store) FindByUserAndDate(ctx context.Context, userID string, date calendar.Date) (*attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return findByUserAndDate(ctx, s.db, userID, date)
}

func findByUserAndDate(ctx context.Context, db querier, userID string, date calendar.Date) (*attendance.Record, error) {
	row := db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM attendance_records WHERE user_id = ? AND date = ?",
		userID, date.String(),
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindByUserBetween returns the user's records in [from, to], ordered by date.
func (s *Store) FindByUserBetween(ctx context.Context, userID string, from, to calendar.Date) ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return queryRecords(ctx, s.db,
		"SELECT "+recordColumns+" FROM attendance_records WHERE user_id = ? AND date BETWEEN ? AND ? ORDER BY date ASC",
		userID, from.String(), to.String(),
	)
}

// FindByStatus returns all records with the status, ordered by date then user.
func (s *Store) FindByStatus(ctx context.Context, status attendance.Status) ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return queryRecords(ctx, s.db,
		"SELECT "+recordColumns+" FROM attendance_records WHERE status = ? ORDER BY date ASC, user_id ASC",
		string(status),
	)
}

func queryRecords(ctx context.Context, db querier, query string, args ...any) ([]attendance.Record, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var recs []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// =============================================================================
// ROW MAPPING
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func recordArgs(rec attendance.Record) []any {
	var status, leaveType sql.NullString
	if rec.Status != nil {
		status = nullString(string(*rec.Status))
	}
	if rec.LeaveType != nil {
		leaveType = nullString(string(*rec.LeaveType))
	}
	var duration sql.NullString
	if rec.Duration != nil {
		duration = sql.NullString{String: rec.Duration.String(), Valid: true}
	}

	now := time.Now().UTC()
	created, updated := rec.CreatedAt, rec.UpdatedAt
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = created
	}

	return []any{
		rec.ID,
		rec.UserID,
		rec.Date.String(),
		nullTime(rec.StartTime),
		nullTime(rec.EndTime),
		duration,
		status,
		nullStringPtr(rec.Reason),
		leaveType,
		nullStringPtr(rec.RejectionReason),
		nullStringPtr(rec.ApproverID),
		rec.IsHalfDay,
		nullFloat(rec.Latitude),
		nullFloat(rec.Longitude),
		created.Format(time.RFC3339Nano),
		updated.Format(time.RFC3339Nano),
	}
}

func scanRecord(row scanner) (attendance.Record, error) {
	var (
		rec                                  attendance.Record
		dateStr, createdAt, updatedAt        string
		startTime, endTime, duration, status sql.NullString
		reason, leaveType, rejection         sql.NullString
		approver                             sql.NullString
		lat, lng                             sql.NullFloat64
	)
	err := row.Scan(
		&rec.ID, &rec.UserID, &dateStr, &startTime, &endTime, &duration, &status, &reason,
		&leaveType, &rejection, &approver, &rec.IsHalfDay, &lat, &lng,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}

	if rec.Date, err = calendar.ParseDate(dateStr); err != nil {
		return attendance.Record{}, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	if rec.StartTime, err = parseNullTime(startTime); err != nil {
		return attendance.Record{}, fmt.Errorf("record %s start_time: %w", rec.ID, err)
	}
	if rec.EndTime, err = parseNullTime(endTime); err != nil {
		return attendance.Record{}, fmt.Errorf("record %s end_time: %w", rec.ID, err)
	}
	if duration.Valid {
		d, err := decimal.NewFromString(duration.String)
		if err != nil {
			return attendance.Record{}, fmt.Errorf("record %s duration: %w", rec.ID, err)
		}
		rec.Duration = &d
	}
	if status.Valid {
		rec.Status = attendance.Ptr(attendance.Status(status.String))
	}
	if leaveType.Valid {
		rec.LeaveType = attendance.Ptr(attendance.LeaveType(leaveType.String))
	}
	rec.Reason = stringPtr(reason)
	rec.RejectionReason = stringPtr(rejection)
	rec.ApproverID = stringPtr(approver)
	if lat.Valid {
		rec.Latitude = attendance.Ptr(lat.Float64)
	}
	if lng.Valid {
		rec.Longitude = attendance.Ptr(lng.Float64)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return attendance.Record{}, fmt.Errorf("record %s created_at: %w", rec.ID, err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return attendance.Record{}, fmt.Errorf("record %s updated_at: %w", rec.ID, err)
	}
	return rec, nil
}

// =============================================================================
// TRANSACTIONAL STORE (attendance.TxStore interface)
// =============================================================================

// WithTx executes a function within a database transaction. The store's
// write lock is held throughout; the Store handed to fn talks to the
// *sql.Tx directly and never re-enters the lock.
func (s *Store) WithTx(ctx context.Context, fn func(store attendance.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

type txStore struct {
	tx *sql.Tx
}

func (ts *txStore) Create(ctx context.Context, rec attendance.Record) error {
	return insertRecord(ctx, ts.tx, rec)
}

func (ts *txStore) CreateBatch(ctx context.Context, recs []attendance.Record) error {
	for _, rec := range recs {
		if err := insertRecord(ctx, ts.tx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (ts *txStore) Update(ctx context.Context, rec attendance.Record) error {
	return updateRecord(ctx, ts.tx, rec)
}

func (ts *txStore) Delete(ctx context.Context, id string) error {
	return deleteRecord(ctx, ts.tx, id)
}

func (ts *txStore) Get(ctx context.Context, id string) (attendance.Record, error) {
	return getRecord(ctx, ts.tx, id)
}

func (ts *txStore) FindByUserAndDate(ctx context.Context, userID string, date calendar.Date) (*attendance.Record, error) {
	return findByUserAndDate(ctx, ts.tx, userID, date)
}

func (ts *txStore) FindByUserBetween(ctx context.Context, userID string, from, to calendar.Date) ([]attendance.Record, error) {
	return queryRecords(ctx, ts.tx,
		"SELECT "+recordColumns+" FROM attendance_records WHERE user_id = ? AND date BETWEEN ? AND ? ORDER BY date ASC",
		userID, from.String(), to.String(),
	)
}

func (ts *txStore) FindByStatus(ctx context.Context, status attendance.Status) ([]attendance.Record, error) {
	return queryRecords(ctx, ts.tx,
		"SELECT "+recordColumns+" FROM attendance_records WHERE status = ? ORDER BY date ASC, user_id ASC",
		string(status),
	)
}

// =============================================================================
// USER DIRECTORY
// =============================================================================

// User represents a directory entry.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// SaveUser inserts or updates a user.
func (s *Store) SaveUser(ctx context.Context, u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO users (id, name, email, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email
	`

	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Name, nullString(u.Email),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetUser retrieves a user by ID. Returns ErrUserNotFound.
func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u User
	var email sql.NullString
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, created_at FROM users WHERE id = ?",
		id,
	).Scan(&u.ID, &u.Name, &email, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", attendance.ErrUserNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	u.Email = email.String
	if u.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("user %s created_at: %w", u.ID, err)
	}
	return &u, nil
}

// ListUsers returns all users.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, created_at FROM users ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var email sql.NullString
		var createdAt string
		if err := rows.Scan(&u.ID, &u.Name, &email, &createdAt); err != nil {
			return nil, err
		}
		u.Email = email.String
		created, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("user %s created_at: %w", u.ID, err)
		}
		u.CreatedAt = created
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteUser removes a user. Their attendance records are kept.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", attendance.ErrUserNotFound, id)
	}
	return nil
}

// UserExists implements attendance.UserDirectory.
func (s *Store) UserExists(ctx context.Context, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE id = ?", userID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// SaveHoliday saves a holiday. An empty ID gets a fresh one; re-saving the
// same (company, date, name) only updates the recurring flag.
func (s *Store) SaveHoliday(ctx context.Context, h calendar.Holiday) (calendar.Holiday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h.ID == "" {
		h.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO holidays (id, company_id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(company_id, date, name) DO UPDATE SET
			recurring = excluded.recurring
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID,
		h.CompanyID,
		h.Date.String(),
		h.Name,
		h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return calendar.Holiday{}, fmt.Errorf("failed to save holiday %s: %w", h.Date, err)
	}
	return h, nil
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	return err
}

// ListHolidays returns company-specific and global holidays in date order.
func (s *Store) ListHolidays(ctx context.Context, companyID string) ([]calendar.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, company_id, date, name, recurring
		FROM holidays
		WHERE company_id = ? OR company_id = ''
		ORDER BY date ASC, name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []calendar.Holiday
	for rows.Next() {
		var h calendar.Holiday
		var dateStr string
		if err := rows.Scan(&h.ID, &h.CompanyID, &dateStr, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		if h.Date, err = calendar.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("holiday %s: %w", h.ID, err)
		}
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}

// HolidaySet loads the company's holidays into an immutable set.
func (s *Store) HolidaySet(ctx context.Context, companyID string) (calendar.HolidaySet, error) {
	holidays, err := s.ListHolidays(ctx, companyID)
	if err != nil {
		return calendar.HolidaySet{}, err
	}
	return calendar.HolidaySetFrom(holidays), nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"attendance_records", "holidays", "users"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return attendance.Ptr(ns.String)
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339Nano), Valid: true}
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", attendance.ErrRecordNotFound, id)
	}
	return nil
}

// mapWriteError turns the (user, date) unique index violation into
// ErrDuplicateDay.
func mapWriteError(err error, rec attendance.Record) error {
	if isDayUniquenessError(err) {
		return fmt.Errorf("%w: user %s date %s", attendance.ErrDuplicateDay, rec.UserID, rec.Date)
	}
	if isUniqueConstraintError(err) {
		return fmt.Errorf("duplicate record id %s: %w", rec.ID, err)
	}
	return fmt.Errorf("failed to write record %s: %w", rec.ID, err)
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isDayUniquenessError(err error) bool {
	return isUniqueConstraintError(err) &&
		strings.Contains(err.Error(), "attendance_records.user_id, attendance_records.date")
}

var (
	_ attendance.TxStore       = (*Store)(nil)
	_ attendance.UserDirectory = (*Store)(nil)
)
