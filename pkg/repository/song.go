package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tunehound/tunehound/pkg/models"
)

// SongRepository persists recognized songs with dedup on the external ID.
type SongRepository struct {
	db *gorm.DB
}

func NewSongRepository(db *gorm.DB) *SongRepository {
	return &SongRepository{db: db}
}

// FindByExternalID returns the stored song or nil when no row matches.
func (r *SongRepository) FindByExternalID(ctx context.Context, externalID string) (*models.Song, error) {
	var s models.Song
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSong inserts the song unless a row with the same external ID already
// exists, and returns the resolved row either way. The insert itself is
// guarded by the unique index, so two concurrent recognitions of the same
// track cannot both create a row.
func (r *SongRepository) CreateSong(ctx context.Context, s *models.Song) (*models.Song, error) {
	existing, err := r.FindByExternalID(ctx, s.ExternalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoNothing: true,
	}).Create(s)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the insert race; fetch the winner.
		return r.FindByExternalID(ctx, s.ExternalID)
	}
	return s, nil
}
