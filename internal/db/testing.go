package db

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
)

// InitTest points the package global at a fresh in-memory sqlite database and
// restores the previous one when the test finishes. The shared-cache DSN keeps
// the database alive across the pooled connections gorm opens.
func InitTest(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	g, err := Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := Migrate(g); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	prev := DB
	DB = g
	t.Cleanup(func() {
		if sqlDB, err := g.DB(); err == nil {
			sqlDB.Close()
		}
		DB = prev
	})
}
