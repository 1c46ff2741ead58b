// pkg/matching/matching.go
package matching

import (
	"strings"

	"github.com/xrash/smetrics"
)

// Score returns a 0-100 similarity between a free-text query and a stored
// track. The best of title, artists and the combined line wins, so "daft punk"
// and "get lucky" both find the same row.
func Score(query, title, artists string) int {
	best := similarity(query, title)
	if s := similarity(query, artists); s > best {
		best = s
	}
	if s := similarity(query, title+" "+artists); s > best {
		best = s
	}
	return best
}

func similarity(s1, s2 string) int {
	s1, s2 = strings.ToLower(strings.TrimSpace(s1)), strings.ToLower(strings.TrimSpace(s2))
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}
	if maxLen == 0 {
		return 100
	}
	distance := smetrics.WagnerFischer(s1, s2, 1, 1, 2)
	score := 100 - (distance * 100 / maxLen)
	if score < 0 {
		return 0
	}
	return score
}
