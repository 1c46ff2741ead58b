package service

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tunehound/tunehound/pkg/logging"
	"github.com/tunehound/tunehound/pkg/song"
)

const historyPageSize = 5

// HistoryService renders a user's recognition history page by page.
type HistoryService struct {
	history HistoryReader
	songs   SongStore
	logger  *logging.Logger
}

func NewHistoryService(history HistoryReader, songs SongStore, logger *logging.Logger) *HistoryService {
	return &HistoryService{history: history, songs: songs, logger: logger}
}

// Page renders one page plus the Prev/Next inline keyboard. The markup is nil
// when everything fits on a single page.
func (s *HistoryService) Page(ctx context.Context, userID int64, page int) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	records, err := s.history.GetByUser(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	if len(records) == 0 {
		return "You have no history yet.", nil, nil
	}

	if page < 0 {
		page = 0
	}
	start := page * historyPageSize
	if start >= len(records) {
		page = 0
		start = 0
	}
	end := start + historyPageSize
	if end > len(records) {
		end = len(records)
	}

	var b strings.Builder
	b.WriteString("📜 *Your recognition history:*\n\n")
	for _, record := range records[start:end] {
		stored, err := s.songs.FindByExternalID(ctx, record.SongExternalID)
		if err != nil {
			s.logger.Errorf("history song lookup failed for %s: %v", record.SongExternalID, err)
			continue
		}
		if stored == nil {
			continue
		}
		b.WriteString(song.FormatTelegram(song.FromModel(stored)))
		fmt.Fprintf(&b, "Recognized at: %s\n", record.RecognizedAt.Format("2006-01-02 15:04:05"))
		b.WriteString("-----------------------\n")
	}

	var row []tgbotapi.InlineKeyboardButton
	if page > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Prev", fmt.Sprintf("history:%d", page-1)))
	}
	if end < len(records) {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("➡️ Next", fmt.Sprintf("history:%d", page+1)))
	}
	if len(row) == 0 {
		return b.String(), nil, nil
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(row)
	return b.String(), &markup, nil
}
