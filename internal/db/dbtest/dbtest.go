// Package dbtest provides a migrated in-memory store for tests.
package dbtest

import (
	"testing"

	"storefront/internal/db"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Open returns a migrated in-memory SQLite store. A single connection keeps
// every statement on the same database and serializes transactions.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenDialector(sqlite.Open(":memory:"), db.PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() { db.Close(gdb) })
	return gdb
}
