package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tunehound/tunehound/pkg/models"
)

// HistoryRepository records which songs each user has recognized.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// CreateHistory inserts a record unless the (user, song) pair already exists;
// the duplicate branch returns nil without error.
func (r *HistoryRepository) CreateHistory(ctx context.Context, userID int64, songExternalID string) (*models.History, error) {
	existing, err := r.findByUserSong(ctx, userID, songExternalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}
	h := &models.History{
		UserID:         userID,
		SongExternalID: songExternalID,
		RecognizedAt:   time.Now().UTC(),
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(h)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return h, nil
}

// GetByUser returns the user's records, most recent first.
func (r *HistoryRepository) GetByUser(ctx context.Context, userID int64) ([]models.History, error) {
	var records []models.History
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recognized_at DESC").
		Find(&records).Error
	return records, err
}

func (r *HistoryRepository) findByUserSong(ctx context.Context, userID int64, songExternalID string) (*models.History, error) {
	var h models.History
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND song_external_id = ?", userID, songExternalID).
		First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}
