package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/calendar"
)

func rec(id, user, day string) attendance.Record {
	return attendance.Record{
		ID:     id,
		UserID: user,
		Date:   calendar.MustParseDate(day),
		Status: attendance.Ptr(attendance.StatusPresent),
	}
}

func TestMemory_UniquePerUserDay(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Create(ctx, rec("r1", "alice", "2025-03-10")))
	err := m.Create(ctx, rec("r2", "alice", "2025-03-10"))
	assert.ErrorIs(t, err, attendance.ErrDuplicateDay)

	require.NoError(t, m.Create(ctx, rec("r3", "bob", "2025-03-10")))
	assert.Equal(t, 2, m.Len())
}

func TestMemory_CreateBatchIsAtomic(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Create(ctx, rec("r1", "alice", "2025-03-12")))

	err := m.CreateBatch(ctx, []attendance.Record{
		rec("r2", "alice", "2025-03-11"),
		rec("r3", "alice", "2025-03-12"),
	})
	assert.ErrorIs(t, err, attendance.ErrDuplicateDay)
	assert.Equal(t, 1, m.Len())

	// Duplicates inside the batch itself
	err = m.CreateBatch(ctx, []attendance.Record{
		rec("r4", "alice", "2025-03-13"),
		rec("r5", "alice", "2025-03-13"),
	})
	assert.ErrorIs(t, err, attendance.ErrDuplicateDay)
	assert.Equal(t, 1, m.Len())
}

func TestMemory_UpdateMovesDayKey(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Create(ctx, rec("r1", "alice", "2025-03-10")))
	require.NoError(t, m.Create(ctx, rec("r2", "alice", "2025-03-11")))

	moved := rec("r1", "alice", "2025-03-12")
	require.NoError(t, m.Update(ctx, moved))

	old, err := m.FindByUserAndDate(ctx, "alice", calendar.MustParseDate("2025-03-10"))
	require.NoError(t, err)
	assert.Nil(t, old)

	clash := rec("r1", "alice", "2025-03-11")
	assert.ErrorIs(t, m.Update(ctx, clash), attendance.ErrDuplicateDay)

	assert.ErrorIs(t, m.Update(ctx, rec("nope", "alice", "2025-03-20")), attendance.ErrRecordNotFound)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Create(ctx, rec("r1", "alice", "2025-03-10")))

	got, err := m.Get(ctx, "r1")
	require.NoError(t, err)
	*got.Status = attendance.StatusAbsent

	again, err := m.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, *again.Status)
}

func TestMemory_Queries(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Create(ctx, rec("r3", "alice", "2025-03-14")))
	require.NoError(t, m.Create(ctx, rec("r1", "alice", "2025-03-10")))
	require.NoError(t, m.Create(ctx, rec("r2", "bob", "2025-03-10")))
	pending := rec("r4", "bob", "2025-03-09")
	pending.Status = attendance.Ptr(attendance.StatusLeavePending)
	require.NoError(t, m.Create(ctx, pending))

	got, err := m.FindByUserBetween(ctx, "alice", calendar.MustParseDate("2025-03-01"), calendar.MustParseDate("2025-03-31"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "r3", got[1].ID)

	got, err = m.FindByUserBetween(ctx, "alice", calendar.MustParseDate("2025-03-11"), calendar.MustParseDate("2025-03-14"))
	require.NoError(t, err)
	require.Len(t, got, 1)

	present, err := m.FindByStatus(ctx, attendance.StatusPresent)
	require.NoError(t, err)
	require.Len(t, present, 3)
	assert.Equal(t, []string{"r1", "r2", "r3"}, []string{present[0].ID, present[1].ID, present[2].ID})

	assert.ErrorIs(t, m.Delete(ctx, "missing"), attendance.ErrRecordNotFound)
	require.NoError(t, m.Delete(ctx, "r1"))
	_, err = m.Get(ctx, "r1")
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

func TestMemory_WithTxRollsBack(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	boom := errors.New("boom")

	err := m.WithTx(ctx, func(tx attendance.Store) error {
		require.NoError(t, tx.Create(ctx, rec("r1", "alice", "2025-03-10")))
		found, err := tx.FindByUserAndDate(ctx, "alice", calendar.MustParseDate("2025-03-10"))
		require.NoError(t, err)
		require.NotNil(t, found)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, m.Len())

	err = m.WithTx(ctx, func(tx attendance.Store) error {
		return tx.CreateBatch(ctx, []attendance.Record{rec("r1", "alice", "2025-03-10"), rec("r2", "alice", "2025-03-11")})
	})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
}

func TestMemory_UserDirectory(t *testing.T) {
	m := NewMemory()
	m.AddUser("alice")

	ok, err := m.UserExists(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.UserExists(context.Background(), "bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_RejectsInvalidRecord(t *testing.T) {
	m := NewMemory()
	bad := rec("r1", "", "2025-03-10")
	assert.Error(t, m.Create(context.Background(), bad))
}
