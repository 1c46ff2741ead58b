package models

import "time"

// Song is the persisted form of a recognized track. ExternalID is the
// identifier assigned by the recognition service (acrid) and is the dedup key:
// recognizing the same track twice must not create a second row.
type Song struct {
	ID          uint    `gorm:"primaryKey"`
	Title       string  `gorm:"not null"`
	Artists     string
	Album       *string
	ReleaseDate string
	Genres      string
	Duration    *int              // milliseconds, pass-through from the recognition service
	Links       map[string]string `gorm:"serializer:json"`
	ExternalID  string            `gorm:"uniqueIndex;not null"`
	CreatedAt   time.Time
}

func (Song) TableName() string { return "songs" }

// History is append-only: one row per first recognition of a song by a user.
// The composite unique index guards the insert against concurrent duplicates.
type History struct {
	ID             uint      `gorm:"primaryKey"`
	UserID         int64     `gorm:"not null;uniqueIndex:idx_history_user_song"`
	SongExternalID string    `gorm:"not null;uniqueIndex:idx_history_user_song"`
	RecognizedAt   time.Time `gorm:"not null"`
}

func (History) TableName() string { return "history" }

// User rows are owned by the chat transport layer; the pipeline only requires
// that a user exists before history is written for them.
type User struct {
	ID         uint      `gorm:"primaryKey"`
	TelegramID int64     `gorm:"uniqueIndex;not null"`
	Username   string
	IsActive   bool      `gorm:"default:true"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (User) TableName() string { return "users" }
