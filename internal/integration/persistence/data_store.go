package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
	"github.com/diet-tracker/backend/internal/integration/persistence/model"
)

// dataStore implements adapter.DataStore on top of a GORM connection.
// The same implementation serves the embedded SQLite file and PostgreSQL.
type dataStore struct {
	db    *gorm.DB
	close func() error
}

// NewDataStore creates a GORM backed data store. closeFn releases the
// underlying connection and may be nil.
func NewDataStore(db *gorm.DB, closeFn func() error) adapter.DataStore {
	return &dataStore{
		db:    db,
		close: closeFn,
	}
}

// CreateUser inserts a new user.
func (s *dataStore) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	userModel := model.UserModelFromEntity(user)
	if err := s.db.WithContext(ctx).Create(userModel).Error; err != nil {
		return nil, classify("CreateUser", err)
	}
	return userModel.ToEntity(), nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *dataStore) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return s.findUser(ctx, "GetUserByEmail", "email = ?", entity.NormalizeEmail(email))
}

// GetUserByID retrieves a user by their ID.
func (s *dataStore) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return s.findUser(ctx, "GetUserByID", "id = ?", id)
}

func (s *dataStore) findUser(ctx context.Context, op, query string, arg any) (*entity.User, error) {
	var userModel model.UserModel
	result := s.db.WithContext(ctx).Where(query, arg).Limit(1).Find(&userModel)
	if result.Error != nil {
		return nil, classify(op, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return userModel.ToEntity(), nil
}

// UpdateUser applies a partial update and returns the stored record.
func (s *dataStore) UpdateUser(ctx context.Context, id uuid.UUID, update entity.UserUpdate) (*entity.User, error) {
	if cols := model.UserUpdateColumns(update); len(cols) > 0 {
		result := s.db.WithContext(ctx).
			Model(&model.UserModel{}).
			Where("id = ?", id).
			Updates(cols)
		if result.Error != nil {
			return nil, classify("UpdateUser", result.Error)
		}
	}
	return s.findUser(ctx, "UpdateUser", "id = ?", id)
}

// ListUsers returns every user ordered by creation time.
func (s *dataStore) ListUsers(ctx context.Context) ([]*entity.User, error) {
	var models []model.UserModel
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, classify("ListUsers", err)
	}

	users := make([]*entity.User, len(models))
	for i := range models {
		users[i] = models[i].ToEntity()
	}
	return users, nil
}

// DeleteUser removes a user and everything the user owns in one transaction.
func (s *dataStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entryIDs := tx.Model(&model.DailyEntryModel{}).Select("id").Where("user_id = ?", id)

		if err := tx.Where("entry_id IN (?)", entryIDs).Delete(&model.MealModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("entry_id IN (?)", entryIDs).Delete(&model.HabitModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.DailyEntryModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.GoalModel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.UserModel{}).Error
	})
	return classify("DeleteUser", err)
}

// GetEntries returns every entry of the user with meals and habits preloaded.
func (s *dataStore) GetEntries(ctx context.Context, userID uuid.UUID) ([]*entity.DailyEntry, error) {
	var models []model.DailyEntryModel
	err := s.db.WithContext(ctx).
		Preload("Meals").
		Preload("Habits").
		Where("user_id = ?", userID).
		Find(&models).Error
	if err != nil {
		return nil, classify("GetEntries", err)
	}

	entries := make([]*entity.DailyEntry, len(models))
	for i := range models {
		entries[i] = models[i].ToEntity()
	}
	return entries, nil
}

// SaveEntry upserts the entry for (user, date) and replaces its children.
// The whole sequence runs in one transaction so a failure leaves the previous children intact.
func (s *dataStore) SaveEntry(ctx context.Context, input entity.EntryInput) (uuid.UUID, error) {
	var entryID uuid.UUID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.DailyEntryModel
		result := tx.Where("user_id = ? AND date = ?", input.UserID, input.Date).Limit(1).Find(&existing)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			entry := &model.DailyEntryModel{
				ID:     uuid.New(),
				UserID: input.UserID,
				Date:   input.Date,
				Weight: input.Weight,
				Notes:  input.Notes,
			}
			if err := tx.Omit(clause.Associations).Create(entry).Error; err != nil {
				return err
			}
			entryID = entry.ID
		} else {
			entryID = existing.ID
			err := tx.Model(&model.DailyEntryModel{}).
				Where("id = ?", entryID).
				Updates(map[string]any{
					"weight": input.Weight,
					"notes":  input.Notes,
				}).Error
			if err != nil {
				return err
			}
		}

		return replaceChildren(tx, entryID, input)
	})
	if err != nil {
		return uuid.Nil, classify("SaveEntry", err)
	}
	return entryID, nil
}

func replaceChildren(tx *gorm.DB, entryID uuid.UUID, input entity.EntryInput) error {
	if err := tx.Where("entry_id = ?", entryID).Delete(&model.MealModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("entry_id = ?", entryID).Delete(&model.HabitModel{}).Error; err != nil {
		return err
	}

	if meals := model.MealModelsFromInput(entryID, input); len(meals) > 0 {
		if err := tx.Create(&meals).Error; err != nil {
			return err
		}
	}
	if habits := model.HabitModelsFromInput(entryID, input); len(habits) > 0 {
		if err := tx.Create(&habits).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteEntry removes an entry and its children. Each delete is confirmed
// before the next is issued, all inside one transaction.
func (s *dataStore) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", id).Delete(&model.MealModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("entry_id = ?", id).Delete(&model.HabitModel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.DailyEntryModel{}).Error
	})
	return classify("DeleteEntry", err)
}

// GetGoal retrieves the goal of a user.
func (s *dataStore) GetGoal(ctx context.Context, userID uuid.UUID) (*entity.Goal, error) {
	var goalModel model.GoalModel
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&goalModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classify("GetGoal", err)
	}
	return goalModel.ToEntity(), nil
}

// SaveGoal overwrites the goal of the user.
func (s *dataStore) SaveGoal(ctx context.Context, goal *entity.Goal) error {
	goalModel := model.GoalModelFromEntity(goal)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"start_weight", "target_weight", "start_date"}),
		}).
		Create(goalModel).Error
	return classify("SaveGoal", err)
}

// Ping checks the database connection.
func (s *dataStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return classify("Ping", err)
	}
	return classify("Ping", sqlDB.PingContext(ctx))
}

// Close releases the database connection.
func (s *dataStore) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
