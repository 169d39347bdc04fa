package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearch(t *testing.T) {
	tracks := sampleTracks()

	tests := []struct {
		name  string
		query string
		genre string
		want  []string
	}{
		{name: "title substring ignores case", query: "HIGHWAY", want: []string{"7"}},
		{name: "artist", query: "miles", want: []string{"1", "42"}},
		{name: "album", query: "californication", want: []string{"9"}},
		{name: "genre text", query: "roc", want: []string{"7", "9"}},
		{name: "query with genre filter", query: "road", genre: "rock", want: []string{"9"}},
		{name: "genre filter is exact", query: "blue", genre: "Jaz", want: []string{}},
		{name: "genre browse", genre: "JAZZ", want: []string{"1", "42"}},
		{name: "empty query", query: "  ", want: []string{}},
		{name: "no match", query: "zeppelin", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, trackIDs(Search(tracks, tt.query, tt.genre)))
		})
	}
}
