package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunehound/tunehound/pkg/logging"
	"github.com/tunehound/tunehound/pkg/models"
)

type fakeHistoryReader struct {
	records []models.History
	err     error
}

func (f *fakeHistoryReader) GetByUser(ctx context.Context, userID int64) ([]models.History, error) {
	return f.records, f.err
}

type fakeSongFinder struct {
	songs map[string]*models.Song
}

func (f *fakeSongFinder) FindByExternalID(ctx context.Context, externalID string) (*models.Song, error) {
	return f.songs[externalID], nil
}

func (f *fakeSongFinder) CreateSong(ctx context.Context, s *models.Song) (*models.Song, error) {
	return s, nil
}

func historyFixture(t *testing.T, n int) (*fakeHistoryReader, *fakeSongFinder) {
	t.Helper()
	reader := &fakeHistoryReader{}
	finder := &fakeSongFinder{songs: map[string]*models.Song{}}
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("acr_%d", i)
		reader.records = append(reader.records, models.History{
			UserID:         42,
			SongExternalID: id,
			RecognizedAt:   base.Add(-time.Duration(i) * time.Hour),
		})
		finder.songs[id] = &models.Song{
			Title:      fmt.Sprintf("Song %d", i),
			Artists:    "Artist",
			ExternalID: id,
		}
	}
	return reader, finder
}

func newHistoryService(t *testing.T, n int) *HistoryService {
	t.Helper()
	logger, err := logging.New(context.Background(), "", "test")
	require.NoError(t, err)
	reader, finder := historyFixture(t, n)
	return NewHistoryService(reader, finder, logger)
}

func TestHistoryPageFirstOfTwo(t *testing.T) {
	svc := newHistoryService(t, 6)

	text, markup, err := svc.Page(context.Background(), 42, 0)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "📜 *Your recognition history:*\n\n"))
	for i := 0; i < 5; i++ {
		assert.Contains(t, text, fmt.Sprintf("Song %d", i))
	}
	assert.NotContains(t, text, "Song 5")
	assert.Contains(t, text, "Recognized at: 2024-06-01 12:00:00")

	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 1)
	button := markup.InlineKeyboard[0][0]
	assert.Equal(t, "➡️ Next", button.Text)
	assert.Equal(t, "history:1", *button.CallbackData)
}

func TestHistoryPageLast(t *testing.T) {
	svc := newHistoryService(t, 6)

	text, markup, err := svc.Page(context.Background(), 42, 1)
	require.NoError(t, err)

	assert.Contains(t, text, "Song 5")
	assert.NotContains(t, text, "Song 4")

	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard[0], 1)
	button := markup.InlineKeyboard[0][0]
	assert.Equal(t, "⬅️ Prev", button.Text)
	assert.Equal(t, "history:0", *button.CallbackData)
}

func TestHistoryPageSinglePageHasNoMarkup(t *testing.T) {
	svc := newHistoryService(t, 3)

	text, markup, err := svc.Page(context.Background(), 42, 0)
	require.NoError(t, err)
	assert.Nil(t, markup)
	assert.Contains(t, text, "Song 2")
}

func TestHistoryPageOutOfRangeResetsToFirst(t *testing.T) {
	svc := newHistoryService(t, 3)

	text, _, err := svc.Page(context.Background(), 42, 7)
	require.NoError(t, err)
	assert.Contains(t, text, "Song 0")
}

func TestHistoryPageEmpty(t *testing.T) {
	svc := newHistoryService(t, 0)

	text, markup, err := svc.Page(context.Background(), 42, 0)
	require.NoError(t, err)
	assert.Nil(t, markup)
	assert.Equal(t, "You have no history yet.", text)
}
