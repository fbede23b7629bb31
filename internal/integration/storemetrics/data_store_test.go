package storemetrics

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
	"github.com/diet-tracker/backend/internal/integration/persistence"
	"github.com/diet-tracker/backend/internal/integration/persistence/persistencetest"
	"github.com/diet-tracker/backend/internal/integration/storetest"
)

func TestWrappedStoreKeepsContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) adapter.DataStore {
		return Wrap(persistence.NewDataStore(persistencetest.NewDB(t), nil), "contract")
	})
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", outcome(nil))
	assert.Equal(t, "conflict", outcome(domainerror.NewStoreError("create user", domainerror.ErrConflict, nil)))
	assert.Equal(t, "unavailable", outcome(fmt.Errorf("wrapped: %w", domainerror.NewStoreError("ping", domainerror.ErrBackendUnavailable, nil))))
	assert.Equal(t, "error", outcome(fmt.Errorf("boom")))
}

func TestOperationsAreCounted(t *testing.T) {
	store := Wrap(persistence.NewDataStore(persistencetest.NewDB(t), nil), "counted")
	ctx := context.Background()

	user := entity.NewUser("count@example.com", "Count", "hash")
	_, err := store.CreateUser(ctx, user)
	require.NoError(t, err)

	_, err = store.CreateUser(ctx, entity.NewUser("count@example.com", "Again", "hash"))
	require.ErrorIs(t, err, domainerror.ErrConflict)

	found, err := store.GetUserByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)

	assert.Equal(t, 1.0, testutil.ToFloat64(operationsTotal.WithLabelValues("counted", "create_user", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(operationsTotal.WithLabelValues("counted", "create_user", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(operationsTotal.WithLabelValues("counted", "get_user_by_id", "ok")))
}

func TestExportedMetricNames(t *testing.T) {
	store := Wrap(persistence.NewDataStore(persistencetest.NewDB(t), nil), "named")
	_, err := store.GetGoal(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Positive(t, testutil.CollectAndCount(operationsTotal, "diet_tracker_store_operations_total"))
	assert.Positive(t, testutil.CollectAndCount(operationDuration, "diet_tracker_store_operation_duration_seconds"))
}
