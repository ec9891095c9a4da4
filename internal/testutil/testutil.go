package testutil

import (
	"database/sql"
	"embed"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

//go:embed migrations/*.sql
var testMigrationsFS embed.FS

// NewTestDB creates a SQLite database in the test's temp directory with the
// schema applied. A file-backed database keeps all pooled connections on the
// same data, unlike :memory:.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	migrations := []string{
		"migrations/0001_init.sql",
	}
	for _, migration := range migrations {
		sqlBytes, err := testMigrationsFS.ReadFile(migration)
		require.NoError(t, err, "failed to read migration %s", migration)

		_, err = db.Exec(string(sqlBytes))
		require.NoError(t, err, "failed to apply migration %s", migration)
	}

	return db
}

// NewTestLearner inserts a learner row and returns its id.
func NewTestLearner(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()

	res, err := db.Exec(`INSERT INTO learners (name) VALUES (?)`, name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	t.Helper()
	require.NoError(t, closer.Close())
}
