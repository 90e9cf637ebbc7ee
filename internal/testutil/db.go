// Package testutil provides shared helpers for package tests.
package testutil

import (
	"testing"

	"gorm.io/gorm"

	"teamtasks/internal/repository"
)

// NewTestDB opens an in-memory SQLite database with all migrations applied
// and closes it when the test completes. The pool is capped at one
// connection: each SQLite :memory: connection is its own database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := repository.NewDB(":memory:")
	if err != nil {
		t.Fatalf("creating test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrapping test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Errorf("closing test db: %v", err)
		}
	})

	return db
}
