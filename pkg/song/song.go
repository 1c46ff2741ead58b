// Package song holds the canonical song representation, the defensive
// normalizer for recognition-service candidates and the Telegram formatter.
package song

// Sentinels substituted by the normalizer when the recognition service omits
// a field. The formatter applies its own, independent "Unknown" substitution
// for songs loaded back from storage; the two layers handle different sources
// of missing data and must not be merged.
const (
	UnknownTitle  = "Unknown Title"
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
	UnknownDate   = "Unknown Date"
	UnknownGenre  = "Unknown Genre"
)

// Platforms recognized in external_metadata; anything else is dropped.
const (
	PlatformDeezer  = "deezer"
	PlatformSpotify = "spotify"
	PlatformYouTube = "youtube"
)

// CanonicalSong is the normalized, sentinel-filled representation of a
// recognized track. ExternalID uniquely identifies the song and is the dedup
// key in storage.
type CanonicalSong struct {
	Title       string
	Artists     string
	Album       *string
	ReleaseDate string
	Genres      string
	DurationMs  *int
	ExternalID  string
	Links       map[string]string
}
