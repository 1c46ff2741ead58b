package song

import (
	"fmt"
	"strings"
)

// FormatTelegram renders the track card in Markdown. Field order is fixed;
// nil or empty scalars render as the literal "Unknown" because rows loaded
// from storage may carry nulls the normalizer never saw. The links section is
// appended only when links exist, always in Deezer, Spotify, YouTube order.
func FormatTelegram(s CanonicalSong) string {
	album := ""
	if s.Album != nil {
		album = *s.Album
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎵 *Title*: %s\n", orUnknown(s.Title))
	fmt.Fprintf(&b, "🎤 *Artists*: %s\n", orUnknown(s.Artists))
	fmt.Fprintf(&b, "💿 *Album*: %s\n", orUnknown(album))
	fmt.Fprintf(&b, "📅 *Release Date*: %s\n", orUnknown(s.ReleaseDate))
	fmt.Fprintf(&b, "🎼 *Genre*: %s\n", orUnknown(s.Genres))

	if len(s.Links) == 0 {
		return b.String()
	}
	b.WriteString("\n🔗 *Links*:\n")
	if url, ok := s.Links[PlatformDeezer]; ok {
		fmt.Fprintf(&b, "🎧 [Deezer](%s)\n", url)
	}
	if url, ok := s.Links[PlatformSpotify]; ok {
		fmt.Fprintf(&b, "🎶 [Spotify](%s)\n", url)
	}
	if url, ok := s.Links[PlatformYouTube]; ok {
		fmt.Fprintf(&b, "📺 [YouTube](%s)\n", url)
	}
	return b.String()
}

func orUnknown(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}
