package song

import "github.com/tunehound/tunehound/pkg/models"

// ToModel maps a canonical song onto its persisted form.
func ToModel(s CanonicalSong) *models.Song {
	return &models.Song{
		Title:       s.Title,
		Artists:     s.Artists,
		Album:       s.Album,
		ReleaseDate: s.ReleaseDate,
		Genres:      s.Genres,
		Duration:    s.DurationMs,
		Links:       s.Links,
		ExternalID:  s.ExternalID,
	}
}

// FromModel rebuilds a canonical song from a stored row, for re-rendering in
// history views.
func FromModel(m *models.Song) CanonicalSong {
	return CanonicalSong{
		Title:       m.Title,
		Artists:     m.Artists,
		Album:       m.Album,
		ReleaseDate: m.ReleaseDate,
		Genres:      m.Genres,
		DurationMs:  m.Duration,
		ExternalID:  m.ExternalID,
		Links:       m.Links,
	}
}
