// Package storetest holds the behavioral suite every adapter.DataStore must pass.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
)

// Run executes the suite. makeStore must return a clean, isolated store for every test.
func Run(t *testing.T, makeStore func(t *testing.T) adapter.DataStore) {
	t.Helper()
	suite.Run(t, &contractSuite{makeStore: makeStore})
}

type contractSuite struct {
	suite.Suite
	makeStore func(t *testing.T) adapter.DataStore
	store     adapter.DataStore
	ctx       context.Context
}

func (s *contractSuite) SetupTest() {
	s.store = s.makeStore(s.T())
	s.ctx = context.Background()
}

func (s *contractSuite) TearDownTest() {
	_ = s.store.Close()
}

func ptr[T any](v T) *T {
	return &v
}

func kg(v float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(v))
}

func (s *contractSuite) newUser(email string) *entity.User {
	gender := entity.GenderFemale
	user := entity.NewUser(email, "Ann", "$2a$12$hash")
	user.Phone = ptr("+351 900 000 000")
	user.HeightCm = ptr(168.5)
	user.DateOfBirth = ptr("1990-04-12")
	user.Gender = &gender
	user.CreatedAt = time.Now().UTC().Truncate(time.Second)
	return user
}

func (s *contractSuite) createUser(email string) *entity.User {
	user, err := s.store.CreateUser(s.ctx, s.newUser(email))
	s.Require().NoError(err)
	return user
}

func (s *contractSuite) entryFor(userID uuid.UUID, date string) *entity.DailyEntry {
	entries, err := s.store.GetEntries(s.ctx, userID)
	s.Require().NoError(err)
	for _, e := range entries {
		if e.Date == date {
			return e
		}
	}
	return nil
}

func (s *contractSuite) TestCreateUser_ThenGetByEmailReturnsSameFields() {
	user := s.newUser("ann@example.com")

	created, err := s.store.CreateUser(s.ctx, user)
	s.Require().NoError(err)
	s.Equal(user.ID, created.ID)

	got, err := s.store.GetUserByEmail(s.ctx, "ann@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.Equal(user.ID, got.ID)
	s.Equal(user.Email, got.Email)
	s.Equal(user.PasswordHash, got.PasswordHash)
	s.Equal(user.Name, got.Name)
	s.Equal(user.Phone, got.Phone)
	s.Equal(user.HeightCm, got.HeightCm)
	s.Equal(user.DateOfBirth, got.DateOfBirth)
	s.Equal(user.Gender, got.Gender)
	s.Nil(got.AvatarID)
	s.WithinDuration(user.CreatedAt, got.CreatedAt, time.Second)

	byID, err := s.store.GetUserByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().NotNil(byID)
	s.Equal(user.Email, byID.Email)
}

func (s *contractSuite) TestCreateUser_DuplicateEmailIsConflict() {
	s.createUser("dup@example.com")

	_, err := s.store.CreateUser(s.ctx, s.newUser("dup@example.com"))

	s.Require().Error(err)
	s.ErrorIs(err, domainerror.ErrConflict)

	var storeErr *domainerror.StoreError
	s.Require().ErrorAs(err, &storeErr)
	s.NotNil(storeErr.Err, "native backend error must be preserved")

	users, err := s.store.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 1)
}

func (s *contractSuite) TestCreateUser_MixedCaseEmailIsStoredNormalized() {
	user := s.newUser("ann@example.com")
	user.Email = "Ann@Example.com"

	created, err := s.store.CreateUser(s.ctx, user)
	s.Require().NoError(err)
	s.Equal("ann@example.com", created.Email)

	got, err := s.store.GetUserByEmail(s.ctx, "Ann@Example.com")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(user.ID, got.ID)

	got, err = s.store.GetUserByEmail(s.ctx, "ann@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(user.ID, got.ID)
}

func (s *contractSuite) TestCreateUser_DuplicateEmailDifferingInCaseIsConflict() {
	first := s.newUser("ann@example.com")
	first.Email = "Ann@Example.com"
	_, err := s.store.CreateUser(s.ctx, first)
	s.Require().NoError(err)

	_, err = s.store.CreateUser(s.ctx, s.newUser("ann@example.com"))
	s.ErrorIs(err, domainerror.ErrConflict)

	users, err := s.store.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 1)
}

func (s *contractSuite) TestLookupMissIsNilWithoutError() {
	byEmail, err := s.store.GetUserByEmail(s.ctx, "nobody@example.com")
	s.NoError(err)
	s.Nil(byEmail)

	byID, err := s.store.GetUserByID(s.ctx, uuid.New())
	s.NoError(err)
	s.Nil(byID)

	goal, err := s.store.GetGoal(s.ctx, uuid.New())
	s.NoError(err)
	s.Nil(goal)
}

func (s *contractSuite) TestUpdateUser_OnlySuppliedFieldsChange() {
	user := s.createUser("upd@example.com")

	updated, err := s.store.UpdateUser(s.ctx, user.ID, entity.UserUpdate{
		Name:     ptr("Anna"),
		AvatarID: ptr("avatar-3"),
	})
	s.Require().NoError(err)
	s.Require().NotNil(updated)

	s.Equal("Anna", updated.Name)
	s.Equal(ptr("avatar-3"), updated.AvatarID)
	s.Equal(user.Phone, updated.Phone)
	s.Equal(user.HeightCm, updated.HeightCm)
	s.Equal(user.PasswordHash, updated.PasswordHash)

	missing, err := s.store.UpdateUser(s.ctx, uuid.New(), entity.UserUpdate{Name: ptr("Ghost")})
	s.NoError(err)
	s.Nil(missing)
}

func (s *contractSuite) TestSaveEntry_ThenGetEntries() {
	user := s.createUser("entry@example.com")

	id, err := s.store.SaveEntry(s.ctx, entity.EntryInput{
		UserID: user.ID,
		Date:   "2024-01-01",
		Weight: kg(70),
		Meals:  map[string]string{"breakfast": "toast"},
		Habits: map[string]bool{"water": true},
	})
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, id)

	entries, err := s.store.GetEntries(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)

	e := entries[0]
	s.Equal(id, e.ID)
	s.Equal("2024-01-01", e.Date)
	s.Require().True(e.Weight.Valid)
	s.True(e.Weight.Decimal.Equal(decimal.NewFromInt(70)), "weight was %s", e.Weight.Decimal)
	s.Equal(map[string]string{"breakfast": "toast"}, e.Meals)
	s.Equal(map[string]bool{"water": true}, e.Habits)
}

func (s *contractSuite) TestSaveEntry_FullReplaceOfChildren() {
	user := s.createUser("replace@example.com")

	first, err := s.store.SaveEntry(s.ctx, entity.EntryInput{
		UserID: user.ID,
		Date:   "2024-02-10",
		Weight: kg(81.4),
		Notes:  ptr("first"),
		Meals:  map[string]string{"breakfast": "eggs"},
		Habits: map[string]bool{"walk": true, "water": false},
	})
	s.Require().NoError(err)

	second, err := s.store.SaveEntry(s.ctx, entity.EntryInput{
		UserID: user.ID,
		Date:   "2024-02-10",
		Meals:  map[string]string{"lunch": "soup"},
		Habits: map[string]bool{"sleep": false},
	})
	s.Require().NoError(err)
	s.Equal(first, second, "upsert must keep the entry id")

	entries, err := s.store.GetEntries(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)

	e := entries[0]
	s.Equal(map[string]string{"lunch": "soup"}, e.Meals)
	s.Equal(map[string]bool{"sleep": false}, e.Habits)
	s.False(e.Weight.Valid, "weight is overwritten, not merged")
	s.Nil(e.Notes)
}

func (s *contractSuite) TestSaveEntry_EmptyMealsRoundTrip() {
	user := s.createUser("empty@example.com")

	_, err := s.store.SaveEntry(s.ctx, entity.EntryInput{
		UserID: user.ID,
		Date:   "2024-03-01",
		Meals:  map[string]string{},
	})
	s.Require().NoError(err)

	e := s.entryFor(user.ID, "2024-03-01")
	s.Require().NotNil(e)
	s.NotNil(e.Meals)
	s.Empty(e.Meals)
	s.NotNil(e.Habits)
	s.Empty(e.Habits)
}

func (s *contractSuite) TestSaveEntry_SkipsBlankMealContent() {
	user := s.createUser("blank@example.com")

	_, err := s.store.SaveEntry(s.ctx, entity.EntryInput{
		UserID: user.ID,
		Date:   "2024-03-02",
		Meals:  map[string]string{"breakfast": "", "dinner": "fish"},
	})
	s.Require().NoError(err)

	e := s.entryFor(user.ID, "2024-03-02")
	s.Require().NotNil(e)
	s.Equal(map[string]string{"dinner": "fish"}, e.Meals)
}

func (s *contractSuite) TestSaveEntry_SameDateDifferentUsersAreIndependent() {
	ann := s.createUser("ann2@example.com")
	bob := s.createUser("bob@example.com")

	annID, err := s.store.SaveEntry(s.ctx, entity.EntryInput{UserID: ann.ID, Date: "2024-04-01", Meals: map[string]string{"lunch": "rice"}})
	s.Require().NoError(err)
	bobID, err := s.store.SaveEntry(s.ctx, entity.EntryInput{UserID: bob.ID, Date: "2024-04-01", Meals: map[string]string{"lunch": "pasta"}})
	s.Require().NoError(err)

	s.NotEqual(annID, bobID)
	s.Equal("rice", s.entryFor(ann.ID, "2024-04-01").Meals["lunch"])
	s.Equal("pasta", s.entryFor(bob.ID, "2024-04-01").Meals["lunch"])
}

func (s *contractSuite) TestDeleteEntry_RemovesEntryAndChildren() {
	user := s.createUser("delete@example.com")

	keep, err := s.store.SaveEntry(s.ctx, entity.EntryInput{UserID: user.ID, Date: "2024-05-01", Meals: map[string]string{"dinner": "salad"}})
	s.Require().NoError(err)
	gone, err := s.store.SaveEntry(s.ctx, entity.EntryInput{
		UserID: user.ID,
		Date:   "2024-05-02",
		Meals:  map[string]string{"breakfast": "oats"},
		Habits: map[string]bool{"water": true},
	})
	s.Require().NoError(err)

	s.Require().NoError(s.store.DeleteEntry(s.ctx, gone))

	entries, err := s.store.GetEntries(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(keep, entries[0].ID)

	// Re-creating the deleted date must start with no leftover children.
	_, err = s.store.SaveEntry(s.ctx, entity.EntryInput{UserID: user.ID, Date: "2024-05-02"})
	s.Require().NoError(err)
	e := s.entryFor(user.ID, "2024-05-02")
	s.Require().NotNil(e)
	s.Empty(e.Meals)
	s.Empty(e.Habits)
}

func (s *contractSuite) TestDeleteEntry_MissingIDIsNotAnError() {
	s.NoError(s.store.DeleteEntry(s.ctx, uuid.New()))
}

func (s *contractSuite) TestSaveGoal_IsSingletonUpsert() {
	user := s.createUser("goal@example.com")
	goal := &entity.Goal{
		UserID:       user.ID,
		StartWeight:  decimal.NewFromInt(90),
		TargetWeight: decimal.NewFromInt(80),
		StartDate:    "2024-01-01",
	}

	s.Require().NoError(s.store.SaveGoal(s.ctx, goal))
	s.Require().NoError(s.store.SaveGoal(s.ctx, goal))

	got, err := s.store.GetGoal(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.True(got.StartWeight.Equal(decimal.NewFromInt(90)))
	s.True(got.TargetWeight.Equal(decimal.NewFromInt(80)))
	s.Equal("2024-01-01", got.StartDate)

	s.Require().NoError(s.store.SaveGoal(s.ctx, &entity.Goal{
		UserID:       user.ID,
		StartWeight:  decimal.NewFromInt(88),
		TargetWeight: decimal.RequireFromString("75.5"),
		StartDate:    "2024-06-01",
	}))

	got, err = s.store.GetGoal(s.ctx, user.ID)
	s.Require().NoError(err)
	s.True(got.StartWeight.Equal(decimal.NewFromInt(88)))
	s.True(got.TargetWeight.Equal(decimal.RequireFromString("75.5")))
	s.Equal("2024-06-01", got.StartDate)
}

func (s *contractSuite) TestDeleteUser_CascadesEverything() {
	user := s.createUser("cascade@example.com")
	other := s.createUser("other@example.com")

	_, err := s.store.SaveEntry(s.ctx, entity.EntryInput{UserID: user.ID, Date: "2024-07-01", Meals: map[string]string{"lunch": "x"}, Habits: map[string]bool{"h": true}})
	s.Require().NoError(err)
	_, err = s.store.SaveEntry(s.ctx, entity.EntryInput{UserID: other.ID, Date: "2024-07-01", Meals: map[string]string{"lunch": "y"}})
	s.Require().NoError(err)
	s.Require().NoError(s.store.SaveGoal(s.ctx, &entity.Goal{UserID: user.ID, StartWeight: decimal.NewFromInt(1), TargetWeight: decimal.NewFromInt(2), StartDate: "2024-07-01"}))

	s.Require().NoError(s.store.DeleteUser(s.ctx, user.ID))

	got, err := s.store.GetUserByID(s.ctx, user.ID)
	s.NoError(err)
	s.Nil(got)

	entries, err := s.store.GetEntries(s.ctx, user.ID)
	s.NoError(err)
	s.Empty(entries)

	goal, err := s.store.GetGoal(s.ctx, user.ID)
	s.NoError(err)
	s.Nil(goal)

	s.NotNil(s.entryFor(other.ID, "2024-07-01"), "other users keep their data")

	// The email is free again.
	_, err = s.store.CreateUser(s.ctx, s.newUser("cascade@example.com"))
	s.NoError(err)
}

func (s *contractSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}
