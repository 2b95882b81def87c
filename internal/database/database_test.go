package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memepool/internal/model"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndFinishOperation(t *testing.T) {
	db := newTestDatabase(t)

	id, err := db.RecordOperation("user-pubkey", model.OperationTypeDeposit, 1.5)
	require.NoError(t, err)
	require.NotZero(t, id)

	require.NoError(t, db.FinishOperation(id, "some-signature", model.OperationStatusConfirmed))

	history, err := db.GetOperations("user-pubkey", 1, 10)
	require.NoError(t, err)
	require.Len(t, history.Operations, 1)

	op := history.Operations[0]
	assert.Equal(t, model.OperationTypeDeposit, op.Type)
	assert.Equal(t, 1.5, op.Amount)
	assert.Equal(t, "some-signature", op.Signature)
	assert.Equal(t, model.OperationStatusConfirmed, op.Status)
	assert.NotZero(t, op.CreatedAt)
}

func TestFinishOperationUnknownID(t *testing.T) {
	db := newTestDatabase(t)
	assert.Error(t, db.FinishOperation(999, "sig", model.OperationStatusFailed))
}

func TestOperationStatuses(t *testing.T) {
	db := newTestDatabase(t)

	for _, status := range []string{
		model.OperationStatusConfirmed,
		model.OperationStatusFailed,
		model.OperationStatusUnknown,
	} {
		id, err := db.RecordOperation("user", model.OperationTypeRequestWithdraw, 1)
		require.NoError(t, err)
		require.NoError(t, db.FinishOperation(id, "", status))
	}

	history, err := db.GetOperations("user", 1, 10)
	require.NoError(t, err)
	require.Len(t, history.Operations, 3)

	statuses := make(map[string]bool)
	for _, op := range history.Operations {
		statuses[op.Status] = true
	}
	assert.True(t, statuses[model.OperationStatusUnknown])
	assert.True(t, statuses[model.OperationStatusFailed])
	assert.True(t, statuses[model.OperationStatusConfirmed])
}

func TestGetOperationsPagination(t *testing.T) {
	db := newTestDatabase(t)

	for i := 0; i < 25; i++ {
		_, err := db.RecordOperation("user", model.OperationTypeDeposit, float64(i))
		require.NoError(t, err)
	}

	page1, err := db.GetOperations("user", 1, 10)
	require.NoError(t, err)
	assert.Len(t, page1.Operations, 10)
	assert.Equal(t, 25, page1.Total)
	assert.Equal(t, 1, page1.Page)

	page3, err := db.GetOperations("user", 3, 10)
	require.NoError(t, err)
	assert.Len(t, page3.Operations, 5)

	// Other users see nothing.
	other, err := db.GetOperations("someone-else", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, other.Operations)
	assert.Zero(t, other.Total)
}
