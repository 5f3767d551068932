package repotest

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// TxDB returns an empty in-memory database for services that open
// transactions through dbx.WithTx. Manager ignores the handle, so only
// BEGIN and COMMIT ever reach it.
func TxDB(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
