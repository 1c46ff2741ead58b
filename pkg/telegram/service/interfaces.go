package service

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tunehound/tunehound/pkg/acrcloud"
	"github.com/tunehound/tunehound/pkg/audio"
	"github.com/tunehound/tunehound/pkg/models"
)

// MessageService handles everything the update loop routes to it.
type MessageService interface {
	HandleStart(msg *tgbotapi.Message)
	HandleHelp(msg *tgbotapi.Message)
	HandleHistory(msg *tgbotapi.Message)
	HandleFind(msg *tgbotapi.Message)
	HandleMedia(msg *tgbotapi.Message)
	SendMessage(chatID int64, text string)
	SendErrorMessage(chatID int64, text string)
	SendUnknownCommand(chatID int64)
}

// CallbackService handles inline keyboard callbacks.
type CallbackService interface {
	HandleCallback(cb *tgbotapi.CallbackQuery)
}

// Recognizer is the fingerprinting call boundary.
type Recognizer interface {
	Recognize(ctx context.Context, filePath string) (*acrcloud.Response, error)
}

// MediaConverter produces the canonical mp3 for a remote file.
type MediaConverter interface {
	SaveAndConvert(ctx context.Context, transport audio.Downloader, fileID, localName string) (string, error)
}

// DurationProber measures a local audio artifact.
type DurationProber interface {
	Length(ctx context.Context, path string) (float64, error)
}

// SongStore and HistoryStore are the persistence gateway the pipeline relies
// on; pkg/repository provides the gorm implementations.
type SongStore interface {
	FindByExternalID(ctx context.Context, externalID string) (*models.Song, error)
	CreateSong(ctx context.Context, s *models.Song) (*models.Song, error)
}

type HistoryStore interface {
	CreateHistory(ctx context.Context, userID int64, songExternalID string) (*models.History, error)
}

type HistoryReader interface {
	GetByUser(ctx context.Context, userID int64) ([]models.History, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, telegramID int64, username string) error
}

// ReplyCache stores rendered replies keyed by Telegram file unique ID so a
// re-sent clip skips conversion and recognition.
type ReplyCache interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Sender is the minimal Bot API surface the services need for replies.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}
