package hosted

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/diet-tracker/backend/config"
	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
)

// dataStore implements adapter.DataStore over a PostgREST API.
//
// Every operation is one or more independent HTTP round trips. Sequences such as
// SaveEntry (upsert parent, delete children, insert children) are not atomic: a
// failure between requests can leave an entry with no meals or habits. The
// failed call returns an error and the caller may simply save the entry again.
type dataStore struct {
	client *resty.Client
}

// NewDataStore creates a hosted data store from the cloud configuration.
func NewDataStore(cfg *config.CloudConfig) adapter.DataStore {
	return &dataStore{
		client: newRestClient(cfg.URL, cfg.ServiceKey, cfg.Timeout),
	}
}

func (s *dataStore) req(ctx context.Context) *resty.Request {
	return s.client.R().SetContext(ctx)
}

// CreateUser inserts a new user and returns the stored row.
func (s *dataStore) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	var rows []userRow
	req := s.req(ctx).
		SetHeader("Prefer", preferRepresentation).
		SetBody(userRowFromEntity(user))
	if err := do("CreateUser", req, http.MethodPost, "/users", &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return user, nil
	}
	return rows[0].toEntity(), nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *dataStore) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return s.findUser(ctx, "GetUserByEmail", "email", entity.NormalizeEmail(email))
}

// GetUserByID retrieves a user by their ID.
func (s *dataStore) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return s.findUser(ctx, "GetUserByID", "id", id.String())
}

func (s *dataStore) findUser(ctx context.Context, op, column, value string) (*entity.User, error) {
	var rows []userRow
	req := s.req(ctx).
		SetQueryParam(column, eq(value)).
		SetQueryParam("limit", "1")
	if err := do(op, req, http.MethodGet, "/users", &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toEntity(), nil
}

// UpdateUser applies a partial update and returns the stored record.
func (s *dataStore) UpdateUser(ctx context.Context, id uuid.UUID, update entity.UserUpdate) (*entity.User, error) {
	patch := userPatch(update)
	if len(patch) == 0 {
		return s.GetUserByID(ctx, id)
	}

	var rows []userRow
	req := s.req(ctx).
		SetHeader("Prefer", preferRepresentation).
		SetQueryParam("id", eq(id)).
		SetBody(patch)
	if err := do("UpdateUser", req, http.MethodPatch, "/users", &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toEntity(), nil
}

// ListUsers returns every user ordered by creation time.
func (s *dataStore) ListUsers(ctx context.Context) ([]*entity.User, error) {
	var rows []userRow
	req := s.req(ctx).SetQueryParam("order", "created_at.asc")
	if err := do("ListUsers", req, http.MethodGet, "/users", &rows); err != nil {
		return nil, err
	}

	users := make([]*entity.User, len(rows))
	for i, r := range rows {
		users[i] = r.toEntity()
	}
	return users, nil
}

// DeleteUser removes the children of every entry, the entries, the goal and
// finally the user. Dependent rows are deleted explicitly so the result does
// not depend on the hosted schema declaring cascading foreign keys.
func (s *dataStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	const op = "DeleteUser"

	var entries []idRow
	req := s.req(ctx).
		SetQueryParam("user_id", eq(id)).
		SetQueryParam("select", "id")
	if err := do(op, req, http.MethodGet, "/daily_entries", &entries); err != nil {
		return err
	}

	if len(entries) > 0 {
		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.ID.String()
		}
		for _, table := range []string{"/meals", "/habits"} {
			if err := do(op, s.req(ctx).SetQueryParam("entry_id", in(ids)), http.MethodDelete, table, nil); err != nil {
				return err
			}
		}
	}

	if err := do(op, s.req(ctx).SetQueryParam("user_id", eq(id)), http.MethodDelete, "/daily_entries", nil); err != nil {
		return err
	}
	if err := do(op, s.req(ctx).SetQueryParam("user_id", eq(id)), http.MethodDelete, "/goals", nil); err != nil {
		return err
	}
	return do(op, s.req(ctx).SetQueryParam("id", eq(id)), http.MethodDelete, "/users", nil)
}

// GetEntries returns every entry of the user with embedded meals and habits.
func (s *dataStore) GetEntries(ctx context.Context, userID uuid.UUID) ([]*entity.DailyEntry, error) {
	var rows []entryRow
	req := s.req(ctx).
		SetQueryParam("user_id", eq(userID)).
		SetQueryParam("select", "*,meals(*),habits(*)")
	if err := do("GetEntries", req, http.MethodGet, "/daily_entries", &rows); err != nil {
		return nil, err
	}

	entries := make([]*entity.DailyEntry, len(rows))
	for i, r := range rows {
		entries[i] = r.toEntity()
	}
	return entries, nil
}

// SaveEntry upserts the entry for (user, date) and replaces its children.
func (s *dataStore) SaveEntry(ctx context.Context, input entity.EntryInput) (uuid.UUID, error) {
	const op = "SaveEntry"

	var existing []idRow
	req := s.req(ctx).
		SetQueryParam("user_id", eq(input.UserID)).
		SetQueryParam("date", eq(input.Date)).
		SetQueryParam("select", "id").
		SetQueryParam("limit", "1")
	if err := do(op, req, http.MethodGet, "/daily_entries", &existing); err != nil {
		return uuid.Nil, err
	}

	var entryID uuid.UUID
	if len(existing) == 0 {
		entryID = uuid.New()
		row := entryRow{
			ID:     entryID,
			UserID: input.UserID,
			Date:   input.Date,
			Weight: input.Weight,
			Notes:  input.Notes,
		}
		if err := do(op, s.req(ctx).SetBody(row), http.MethodPost, "/daily_entries", nil); err != nil {
			return uuid.Nil, err
		}
	} else {
		entryID = existing[0].ID
		patch := map[string]any{
			"weight": input.Weight,
			"notes":  input.Notes,
		}
		req := s.req(ctx).SetQueryParam("id", eq(entryID)).SetBody(patch)
		if err := do(op, req, http.MethodPatch, "/daily_entries", nil); err != nil {
			return uuid.Nil, err
		}
	}

	if err := s.replaceChildren(ctx, entryID, input); err != nil {
		return uuid.Nil, err
	}
	return entryID, nil
}

func (s *dataStore) replaceChildren(ctx context.Context, entryID uuid.UUID, input entity.EntryInput) error {
	const op = "SaveEntry"

	if err := s.deleteChildren(ctx, op, entryID); err != nil {
		return err
	}

	if rows := input.MealRows(); len(rows) > 0 {
		meals := make([]mealRow, len(rows))
		for i, r := range rows {
			meals[i] = mealRow{ID: uuid.New(), EntryID: entryID, Type: r.Type, Content: r.Content}
		}
		if err := do(op, s.req(ctx).SetBody(meals), http.MethodPost, "/meals", nil); err != nil {
			return err
		}
	}

	if rows := input.HabitRows(); len(rows) > 0 {
		habits := make([]habitRow, len(rows))
		for i, r := range rows {
			habits[i] = habitRow{ID: uuid.New(), EntryID: entryID, Name: r.Name, Completed: r.Completed}
		}
		if err := do(op, s.req(ctx).SetBody(habits), http.MethodPost, "/habits", nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *dataStore) deleteChildren(ctx context.Context, op string, entryID uuid.UUID) error {
	for _, table := range []string{"/meals", "/habits"} {
		if err := do(op, s.req(ctx).SetQueryParam("entry_id", eq(entryID)), http.MethodDelete, table, nil); err != nil {
			return err
		}
	}
	return nil
}

// DeleteEntry removes the children and then the entry. Each request must
// succeed before the next one is sent.
func (s *dataStore) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	if err := s.deleteChildren(ctx, "DeleteEntry", id); err != nil {
		return err
	}
	return do("DeleteEntry", s.req(ctx).SetQueryParam("id", eq(id)), http.MethodDelete, "/daily_entries", nil)
}

// GetGoal retrieves the goal of a user.
func (s *dataStore) GetGoal(ctx context.Context, userID uuid.UUID) (*entity.Goal, error) {
	var rows []goalRow
	req := s.req(ctx).
		SetQueryParam("user_id", eq(userID)).
		SetQueryParam("limit", "1")
	if err := do("GetGoal", req, http.MethodGet, "/goals", &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toEntity(), nil
}

// SaveGoal upserts the goal keyed by user id.
func (s *dataStore) SaveGoal(ctx context.Context, goal *entity.Goal) error {
	row := goalRow{
		UserID:       goal.UserID,
		StartWeight:  goal.StartWeight,
		TargetWeight: goal.TargetWeight,
		StartDate:    goal.StartDate,
	}
	req := s.req(ctx).
		SetHeader("Prefer", preferMerge).
		SetQueryParam("on_conflict", "user_id").
		SetBody(row)
	return do("SaveGoal", req, http.MethodPost, "/goals", nil)
}

// Ping issues a minimal read to check reachability and credentials.
func (s *dataStore) Ping(ctx context.Context) error {
	req := s.req(ctx).
		SetQueryParam("select", "id").
		SetQueryParam("limit", "1")
	return do("Ping", req, http.MethodGet, "/users", nil)
}

// Close releases idle HTTP connections.
func (s *dataStore) Close() error {
	s.client.GetClient().CloseIdleConnections()
	return nil
}
