package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStorage(t *testing.T) *Storage {
	t.Helper()

	store, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	err = store.EnsureSchema(context.Background())
	require.NoError(t, err)
	return store
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage driver")
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	store := newMemoryStorage(t)
	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, store.EnsureSchema(context.Background()))
}

func TestRebind(t *testing.T) {
	sqliteStore := &Storage{Driver: DriverSQLite}
	postgresStore := &Storage{Driver: DriverPostgres}

	query := `INSERT INTO users (username, password, email) VALUES (?, ?, ?)`

	assert.Equal(t, query, sqliteStore.Rebind(query))
	assert.Equal(t,
		`INSERT INTO users (username, password, email) VALUES ($1, $2, $3)`,
		postgresStore.Rebind(query))
	assert.Equal(t, `SELECT 1`, postgresStore.Rebind(`SELECT 1`))
}

func TestIsUniqueViolation(t *testing.T) {
	store := newMemoryStorage(t)
	ctx := context.Background()

	const insertQuery = `
INSERT INTO users (username, password, email, created_at)
VALUES (?, ?, ?, ?)
`
	_, err := store.DB.ExecContext(ctx, insertQuery, "alice", "secret", "alice@example.com", time.Now())
	require.NoError(t, err)

	_, err = store.DB.ExecContext(ctx, insertQuery, "alice", "secret", "other@example.com", time.Now())
	require.Error(t, err)
	assert.True(t, store.IsUniqueViolation(err))

	assert.False(t, store.IsUniqueViolation(nil))
	assert.False(t, store.IsUniqueViolation(errors.New("connection reset")))
}
