package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/appletgen/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a migrated in-memory history database that is closed when
// the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
