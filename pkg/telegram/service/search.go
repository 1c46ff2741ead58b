package service

import (
	"context"
	"sort"
	"strings"

	"github.com/tunehound/tunehound/pkg/logging"
	"github.com/tunehound/tunehound/pkg/matching"
	"github.com/tunehound/tunehound/pkg/models"
	"github.com/tunehound/tunehound/pkg/song"
)

const (
	minSearchScore   = 40
	maxSearchResults = 5
)

// SearchService fuzzy-matches a free-text query against the songs in the
// user's recognition history.
type SearchService struct {
	history HistoryReader
	songs   SongStore
	logger  *logging.Logger
}

func NewSearchService(history HistoryReader, songs SongStore, logger *logging.Logger) *SearchService {
	return &SearchService{history: history, songs: songs, logger: logger}
}

// Find renders the best matches, strongest first.
func (s *SearchService) Find(ctx context.Context, userID int64, query string) (string, error) {
	records, err := s.history.GetByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "You have no history yet.", nil
	}

	type scored struct {
		song  models.Song
		score int
	}
	var matches []scored
	for _, record := range records {
		stored, err := s.songs.FindByExternalID(ctx, record.SongExternalID)
		if err != nil {
			s.logger.Errorf("search song lookup failed for %s: %v", record.SongExternalID, err)
			continue
		}
		if stored == nil {
			continue
		}
		score := matching.Score(query, stored.Title, stored.Artists)
		if score >= minSearchScore {
			matches = append(matches, scored{song: *stored, score: score})
		}
	}
	if len(matches) == 0 {
		return "Nothing in your history matches that.", nil
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	if len(matches) > maxSearchResults {
		matches = matches[:maxSearchResults]
	}

	var b strings.Builder
	b.WriteString("🔍 *Matches in your history:*\n\n")
	for _, m := range matches {
		b.WriteString(song.FormatTelegram(song.FromModel(&m.song)))
		b.WriteString("\n")
	}
	return b.String(), nil
}
