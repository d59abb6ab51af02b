// Package store provides in-memory attendance.Store implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/calendar"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is a TxStore and UserDirectory backed by maps. The dayKey index is
// the (user, date) uniqueness constraint.
type Memory struct {
	mu      sync.RWMutex
	records map[string]attendance.Record
	byDay   map[dayKey]string
	users   map[string]bool
}

type dayKey struct {
	UserID string
	Date   string
}

func keyOf(rec attendance.Record) dayKey {
	return dayKey{UserID: rec.UserID, Date: rec.Date.String()}
}

func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]attendance.Record),
		byDay:   make(map[dayKey]string),
		users:   make(map[string]bool),
	}
}

// =============================================================================
// USER DIRECTORY
// =============================================================================

// AddUser registers user IDs with the directory.
func (m *Memory) AddUser(ids ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		m.users[id] = true
	}
}

func (m *Memory) UserExists(_ context.Context, userID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[userID], nil
}

// =============================================================================
// WRITES
// =============================================================================

func (m *Memory) Create(_ context.Context, rec attendance.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked(rec)
}

// CreateBatch adds records atomically: every record is checked before any is
// written.
func (m *Memory) CreateBatch(_ context.Context, recs []attendance.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createBatchLocked(recs)
}

func (m *Memory) createBatchLocked(recs []attendance.Record) error {
	seen := make(map[dayKey]bool, len(recs))
	for _, rec := range recs {
		k := keyOf(rec)
		if _, taken := m.byDay[k]; taken || seen[k] {
			return fmt.Errorf("%w: user %s date %s", attendance.ErrDuplicateDay, k.UserID, k.Date)
		}
		seen[k] = true
	}
	for _, rec := range recs {
		if err := m.createLocked(rec); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) createLocked(rec attendance.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	k := keyOf(rec)
	if _, taken := m.byDay[k]; taken {
		return fmt.Errorf("%w: user %s date %s", attendance.ErrDuplicateDay, k.UserID, k.Date)
	}
	if _, taken := m.records[rec.ID]; taken {
		return fmt.Errorf("duplicate record id %s", rec.ID)
	}
	m.records[rec.ID] = rec.Clone()
	m.byDay[k] = rec.ID
	return nil
}

func (m *Memory) Update(_ context.Context, rec attendance.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateLocked(rec)
}

func (m *Memory) updateLocked(rec attendance.Record) error {
	old, ok := m.records[rec.ID]
	if !ok {
		return fmt.Errorf("%w: %s", attendance.ErrRecordNotFound, rec.ID)
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	k := keyOf(rec)
	if owner, taken := m.byDay[k]; taken && owner != rec.ID {
		return fmt.Errorf("%w: user %s date %s", attendance.ErrDuplicateDay, k.UserID, k.Date)
	}
	delete(m.byDay, keyOf(old))
	m.byDay[k] = rec.ID
	m.records[rec.ID] = rec.Clone()
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteLocked(id)
}

func (m *Memory) deleteLocked(id string) error {
	rec, ok := m.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", attendance.ErrRecordNotFound, id)
	}
	delete(m.byDay, keyOf(rec))
	delete(m.records, id)
	return nil
}

// =============================================================================
// READS
// =============================================================================

func (m *Memory) Get(_ context.Context, id string) (attendance.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getLocked(id)
}

func (m *Memory) getLocked(id string) (attendance.Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return attendance.Record{}, fmt.Errorf("%w: %s", attendance.ErrRecordNotFound, id)
	}
	return rec.Clone(), nil
}

func (m *Memory) FindByUserAndDate(_ context.Context, userID string, date calendar.Date) (*attendance.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findByUserAndDateLocked(userID, date), nil
}

func (m *Memory) findByUserAndDateLocked(userID string, date calendar.Date) *attendance.Record {
	id, ok := m.byDay[dayKey{UserID: userID, Date: date.String()}]
	if !ok {
		return nil
	}
	rec := m.records[id].Clone()
	return &rec
}

func (m *Memory) FindByUserBetween(_ context.Context, userID string, from, to calendar.Date) ([]attendance.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findByUserBetweenLocked(userID, from, to), nil
}

func (m *Memory) findByUserBetweenLocked(userID string, from, to calendar.Date) []attendance.Record {
	var out []attendance.Record
	for _, rec := range m.records {
		if rec.UserID != userID {
			continue
		}
		if from.BeforeOrEqual(rec.Date) && rec.Date.BeforeOrEqual(to) {
			out = append(out, rec.Clone())
		}
	}
	sortRecords(out)
	return out
}

func (m *Memory) FindByStatus(_ context.Context, status attendance.Status) ([]attendance.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findByStatusLocked(status), nil
}

func (m *Memory) findByStatusLocked(status attendance.Status) []attendance.Record {
	var out []attendance.Record
	for _, rec := range m.records {
		if rec.HasStatus(status) {
			out = append(out, rec.Clone())
		}
	}
	sortRecords(out)
	return out
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func sortRecords(recs []attendance.Record) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].Date.Equal(recs[j].Date) {
			return recs[i].Date.Before(recs[j].Date)
		}
		return recs[i].UserID < recs[j].UserID
	})
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn within a transaction, simulated with a snapshot and a
// rollback on error. The write lock is held for the whole of fn; the view
// passed to fn uses the lock-free variants.
func (m *Memory) WithTx(_ context.Context, fn func(attendance.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.snapshot()
	if err := fn(&txView{m: m}); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type memorySnapshot struct {
	records map[string]attendance.Record
	byDay   map[dayKey]string
}

func (m *Memory) snapshot() memorySnapshot {
	snap := memorySnapshot{
		records: make(map[string]attendance.Record, len(m.records)),
		byDay:   make(map[dayKey]string, len(m.byDay)),
	}
	for id, rec := range m.records {
		snap.records[id] = rec
	}
	for k, id := range m.byDay {
		snap.byDay[k] = id
	}
	return snap
}

func (m *Memory) restore(snap memorySnapshot) {
	m.records = snap.records
	m.byDay = snap.byDay
}

// txView is the Store handed to WithTx callbacks. The parent lock is
// already held.
type txView struct {
	m *Memory
}

func (v *txView) Create(_ context.Context, rec attendance.Record) error {
	return v.m.createLocked(rec)
}

func (v *txView) CreateBatch(_ context.Context, recs []attendance.Record) error {
	return v.m.createBatchLocked(recs)
}

func (v *txView) Update(_ context.Context, rec attendance.Record) error {
	return v.m.updateLocked(rec)
}

func (v *txView) Delete(_ context.Context, id string) error {
	return v.m.deleteLocked(id)
}

func (v *txView) Get(_ context.Context, id string) (attendance.Record, error) {
	return v.m.getLocked(id)
}

func (v *txView) FindByUserAndDate(_ context.Context, userID string, date calendar.Date) (*attendance.Record, error) {
	return v.m.findByUserAndDateLocked(userID, date), nil
}

func (v *txView) FindByUserBetween(_ context.Context, userID string, from, to calendar.Date) ([]attendance.Record, error) {
	return v.m.findByUserBetweenLocked(userID, from, to), nil
}

func (v *txView) FindByStatus(_ context.Context, status attendance.Status) ([]attendance.Record, error) {
	return v.m.findByStatusLocked(status), nil
}

var (
	_ attendance.TxStore       = (*Memory)(nil)
	_ attendance.UserDirectory = (*Memory)(nil)
)
