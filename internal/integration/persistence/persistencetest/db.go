// Package persistencetest opens throwaway SQLite databases for tests.
package persistencetest

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/diet-tracker/backend/config"
	"github.com/diet-tracker/backend/internal/infra/db"
	"github.com/diet-tracker/backend/internal/integration/persistence/model"
)

// NewDatabase opens a migrated SQLite file under t.TempDir and closes it on cleanup.
func NewDatabase(t testing.TB) *db.Database {
	t.Helper()

	database, err := db.NewSQLiteConnection(&config.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "diet.db"),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := database.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

// NewDB is NewDatabase for callers that only need the GORM handle.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	return NewDatabase(t).DB()
}
