package library

import (
	"strings"

	"MePlay/model"
)

// Search filters tracks by a case-insensitive substring of title, artist,
// album or genre, intersected with an optional genre filter (exact match,
// ignoring case). An empty query with a genre lists the whole genre; an
// empty query without one matches nothing.
func Search(tracks []model.Track, query, genre string) []model.Track {
	q := strings.ToLower(strings.TrimSpace(query))
	genre = strings.TrimSpace(genre)
	if q == "" && genre == "" {
		return []model.Track{}
	}

	out := []model.Track{}
	for _, t := range tracks {
		if genre != "" && !strings.EqualFold(strings.TrimSpace(t.Genre), genre) {
			continue
		}
		if q != "" && !matches(t, q) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matches(t model.Track, q string) bool {
	for _, field := range []string{t.Title, t.Artist, t.Album, t.Genre} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
