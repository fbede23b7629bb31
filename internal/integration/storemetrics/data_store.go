// Package storemetrics decorates a DataStore with Prometheus instrumentation.
package storemetrics

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "diet_tracker",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Data store calls, by backend, operation and outcome.",
		},
		[]string{"backend", "op", "outcome"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "diet_tracker",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Data store call latency, by backend and operation.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"backend", "op"},
	)
)

type dataStore struct {
	next    adapter.DataStore
	backend string
}

// Wrap returns a DataStore that records every call made to next.
func Wrap(next adapter.DataStore, backend string) adapter.DataStore {
	return &dataStore{next: next, backend: backend}
}

func (s *dataStore) observe(op string, start time.Time, err error) {
	operationsTotal.WithLabelValues(s.backend, op, outcome(err)).Inc()
	operationDuration.WithLabelValues(s.backend, op).Observe(time.Since(start).Seconds())
}

// outcome labels an error by its store kind.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domainerror.ErrConflict):
		return "conflict"
	case errors.Is(err, domainerror.ErrBackendUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

func (s *dataStore) CreateUser(ctx context.Context, user *entity.User) (created *entity.User, err error) {
	defer func(start time.Time) { s.observe("create_user", start, err) }(time.Now())
	return s.next.CreateUser(ctx, user)
}

func (s *dataStore) GetUserByEmail(ctx context.Context, email string) (user *entity.User, err error) {
	defer func(start time.Time) { s.observe("get_user_by_email", start, err) }(time.Now())
	return s.next.GetUserByEmail(ctx, email)
}

func (s *dataStore) GetUserByID(ctx context.Context, id uuid.UUID) (user *entity.User, err error) {
	defer func(start time.Time) { s.observe("get_user_by_id", start, err) }(time.Now())
	return s.next.GetUserByID(ctx, id)
}

func (s *dataStore) UpdateUser(ctx context.Context, id uuid.UUID, update entity.UserUpdate) (user *entity.User, err error) {
	defer func(start time.Time) { s.observe("update_user", start, err) }(time.Now())
	return s.next.UpdateUser(ctx, id, update)
}

func (s *dataStore) ListUsers(ctx context.Context) (users []*entity.User, err error) {
	defer func(start time.Time) { s.observe("list_users", start, err) }(time.Now())
	return s.next.ListUsers(ctx)
}

func (s *dataStore) DeleteUser(ctx context.Context, id uuid.UUID) (err error) {
	defer func(start time.Time) { s.observe("delete_user", start, err) }(time.Now())
	return s.next.DeleteUser(ctx, id)
}

func (s *dataStore) GetEntries(ctx context.Context, userID uuid.UUID) (entries []*entity.DailyEntry, err error) {
	defer func(start time.Time) { s.observe("get_entries", start, err) }(time.Now())
	return s.next.GetEntries(ctx, userID)
}

func (s *dataStore) SaveEntry(ctx context.Context, input entity.EntryInput) (id uuid.UUID, err error) {
	defer func(start time.Time) { s.observe("save_entry", start, err) }(time.Now())
	return s.next.SaveEntry(ctx, input)
}

func (s *dataStore) DeleteEntry(ctx context.Context, id uuid.UUID) (err error) {
	defer func(start time.Time) { s.observe("delete_entry", start, err) }(time.Now())
	return s.next.DeleteEntry(ctx, id)
}

func (s *dataStore) GetGoal(ctx context.Context, userID uuid.UUID) (goal *entity.Goal, err error) {
	defer func(start time.Time) { s.observe("get_goal", start, err) }(time.Now())
	return s.next.GetGoal(ctx, userID)
}

func (s *dataStore) SaveGoal(ctx context.Context, goal *entity.Goal) (err error) {
	defer func(start time.Time) { s.observe("save_goal", start, err) }(time.Now())
	return s.next.SaveGoal(ctx, goal)
}

func (s *dataStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *dataStore) Close() error {
	return s.next.Close()
}
