package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tunehound/tunehound/pkg/models"
)

// UserRepository manages the users the bot has talked to.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user or reactivates an existing one.
func (r *UserRepository) CreateUser(ctx context.Context, telegramID int64, username string) error {
	existing, err := r.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return err
	}
	if existing != nil {
		return r.UpdateStatus(ctx, telegramID, true)
	}
	u := &models.User{
		TelegramID: telegramID,
		Username:   username,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(u).Error
}

// GetByTelegramID returns the user or nil when unknown.
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateStatus flips the active flag for the user.
func (r *UserRepository) UpdateStatus(ctx context.Context, telegramID int64, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("telegram_id = ?", telegramID).
		Update("is_active", active).Error
}
