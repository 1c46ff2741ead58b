package acrcloud

import "encoding/json"

// Response mirrors the identify endpoint's payload. status.code 0 means the
// service matched something; any other code is the service's own failure and
// comes with status.msg.
type Response struct {
	Status   Status   `json:"status"`
	Metadata Metadata `json:"metadata"`
}

type Status struct {
	Code    int    `json:"code"`
	Msg     string `json:"msg"`
	Version string `json:"version"`
}

type Metadata struct {
	Music   []Candidate `json:"music"`
	Humming []Candidate `json:"humming"`
}

// Candidate is one match. The service ships artists, album and genres in
// several shapes (list of {name} objects, bare string, absent), so those
// fields stay raw here; pkg/song owns their interpretation.
type Candidate struct {
	Title            *string                    `json:"title"`
	Artists          json.RawMessage            `json:"artists,omitempty"`
	Album            json.RawMessage            `json:"album,omitempty"`
	ReleaseDate      *string                    `json:"release_date"`
	DurationMs       *int                       `json:"duration_ms"`
	Genres           json.RawMessage            `json:"genres,omitempty"`
	AcrID            string                     `json:"acrid"`
	ExternalMetadata map[string]json.RawMessage `json:"external_metadata,omitempty"`
}

// BestMatch picks the first music candidate, falling back to the first
// humming candidate. The second return is false when both lists are empty.
func (r *Response) BestMatch() (*Candidate, bool) {
	if len(r.Metadata.Music) > 0 {
		return &r.Metadata.Music[0], true
	}
	if len(r.Metadata.Humming) > 0 {
		return &r.Metadata.Humming[0], true
	}
	return nil, false
}
