package song

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tunehound/tunehound/pkg/acrcloud"
)

// Normalize converts one recognition candidate into a CanonicalSong. Every
// field known to arrive in multiple shapes is resolved by explicit type
// dispatch; Normalize never fails, it substitutes sentinels instead.
func Normalize(c *acrcloud.Candidate) CanonicalSong {
	s := CanonicalSong{
		Title:       UnknownTitle,
		Artists:     joinNamed(c.Artists, UnknownArtist),
		Album:       normalizeAlbum(c.Album),
		ReleaseDate: UnknownDate,
		Genres:      joinNamed(c.Genres, UnknownGenre),
		DurationMs:  c.DurationMs,
		ExternalID:  c.AcrID,
		Links:       extractLinks(c.ExternalMetadata),
	}
	if c.Title != nil {
		s.Title = *c.Title
	}
	if c.ReleaseDate != nil {
		s.ReleaseDate = *c.ReleaseDate
	}
	return s
}

type namedEntry struct {
	Name *string `json:"name"`
}

// joinNamed resolves the string | list-of-{name} | absent union used by the
// artists and genres fields. An explicitly empty list yields "", absence
// yields the sentinel; entries without a name contribute the sentinel, and
// non-object entries are skipped.
func joinNamed(raw json.RawMessage, sentinel string) string {
	if isAbsent(raw) {
		return sentinel
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return sentinel
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		var entry namedEntry
		if err := json.Unmarshal(e, &entry); err != nil {
			continue
		}
		if entry.Name != nil {
			names = append(names, *entry.Name)
		} else {
			names = append(names, sentinel)
		}
	}
	return strings.Join(names, ", ")
}

// normalizeAlbum keeps the deliberate asymmetry with artists/genres: an
// absent album stays nil, while a present-but-empty object becomes the
// sentinel. Bare strings pass through unchanged.
func normalizeAlbum(raw json.RawMessage) *string {
	if isAbsent(raw) {
		return nil
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return &plain
	}
	var obj namedEntry
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	if obj.Name != nil {
		return obj.Name
	}
	name := UnknownAlbum
	return &name
}

type trackRef struct {
	Track struct {
		ID interface{} `json:"id"` // deezer ships numeric ids, spotify strings
	} `json:"track"`
}

type videoRef struct {
	Vid string `json:"vid"`
}

// extractLinks builds fully qualified platform URLs out of external_metadata.
// Absent metadata yields an empty map, unrecognized platforms are dropped.
func extractLinks(meta map[string]json.RawMessage) map[string]string {
	links := map[string]string{}
	if raw, ok := meta[PlatformDeezer]; ok {
		if id, ok := trackID(raw); ok {
			links[PlatformDeezer] = "https://www.deezer.com/track/" + id
		}
	}
	if raw, ok := meta[PlatformSpotify]; ok {
		if id, ok := trackID(raw); ok {
			links[PlatformSpotify] = "https://open.spotify.com/track/" + id
		}
	}
	if raw, ok := meta[PlatformYouTube]; ok {
		var v videoRef
		if err := json.Unmarshal(raw, &v); err == nil && v.Vid != "" {
			links[PlatformYouTube] = "https://www.youtube.com/watch?v=" + v.Vid
		}
	}
	return links
}

func trackID(raw json.RawMessage) (string, bool) {
	var ref trackRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		return "", false
	}
	switch id := ref.Track.ID.(type) {
	case string:
		if id == "" {
			return "", false
		}
		return id, true
	case float64:
		return strconv.FormatInt(int64(id), 10), true
	}
	return "", false
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
