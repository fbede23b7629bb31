package dependency

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/diet-tracker/backend/config"
	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/infra/db"
	"github.com/diet-tracker/backend/internal/integration/hosted"
	"github.com/diet-tracker/backend/internal/integration/persistence"
	"github.com/diet-tracker/backend/internal/integration/persistence/model"
	"github.com/diet-tracker/backend/internal/integration/storemetrics"
)

// Store is an opened data store. DB is the GORM handle behind it, nil for the hosted backend.
type Store struct {
	Mode      config.StorageMode
	DataStore adapter.DataStore
	DB        *gorm.DB
}

// OpenStore constructs the data store for mode. GORM backends are migrated before use.
func OpenStore(ctx context.Context, storage *config.StorageConfig, mode config.StorageMode) (*Store, error) {
	var database *db.Database
	var err error

	switch mode {
	case config.StorageModeLocal:
		database, err = db.NewSQLiteConnection(&storage.Local)
	case config.StorageModePostgres:
		database, err = db.NewPostgresConnection(&storage.Postgres)
	case config.StorageModeCloud:
		store := hosted.NewDataStore(&storage.Cloud)
		if err := store.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to reach hosted store: %w", err)
		}
		return &Store{
			Mode:      mode,
			DataStore: storemetrics.Wrap(store, string(mode)),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage mode: %q", mode)
	}
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(model.AllModels()...); err != nil {
		_ = database.Close()
		return nil, err
	}

	return &Store{
		Mode:      mode,
		DataStore: storemetrics.Wrap(persistence.NewDataStore(database.DB(), database.Close), string(mode)),
		DB:        database.DB(),
	}, nil
}
