/*
store.go - Persistence contract for attendance records

PURPOSE:
  Defines the interface between the engine and the database. The store is
  the single source of truth the resolver reads on every query.

UNIQUENESS:
  One record per (UserID, Date). Create and CreateBatch MUST reject a second
  record for the same pair with ErrDuplicateDay rather than overwrite it.
  This constraint is the engine's only concurrency control: the pre-checks in
  checkin.go and leave.go are not atomic with the write.

ATOMIC BATCHES:
  CreateBatch is all-or-nothing. A 5-day leave request is 5 records; either
  all are written or none are.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - attendance/store/memory.go: In-memory for tests and demos

SEE ALSO:
  - directory.go: User existence lookups
*/
package attendance

import (
	"context"

	"github.com/warp/attendance-engine/calendar"
)

// Store persists attendance records.
type Store interface {
	// Create inserts a record. Returns ErrDuplicateDay on a (user, date) clash.
	Create(ctx context.Context, rec Record) error

	// CreateBatch inserts records atomically.
	CreateBatch(ctx context.Context, recs []Record) error

	// Update replaces an existing record by ID. Returns ErrRecordNotFound.
	Update(ctx context.Context, rec Record) error

	// Delete removes a record by ID. Returns ErrRecordNotFound.
	Delete(ctx context.Context, id string) error

	// Get returns a record by ID. Returns ErrRecordNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// FindByUserAndDate returns the record for (user, date), or nil if none.
	FindByUserAndDate(ctx context.Context, userID string, date calendar.Date) (*Record, error)

	// FindByUserBetween returns the user's records in [from, to], ordered by date.
	FindByUserBetween(ctx context.Context, userID string, from, to calendar.Date) ([]Record, error)

	// FindByStatus returns all records with the status, ordered by date then user.
	FindByStatus(ctx context.Context, status Status) ([]Record, error)
}

// TxStore wraps Store with transaction support.
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns error, transaction is rolled back.
	// If fn returns nil, transaction is committed.
	WithTx(ctx context.Context, fn func(Store) error) error
}
