package player

import (
	"strings"

	"MePlay/model"
)

// Origin names the view a TrackList was derived from.
type Origin string

const (
	OriginCatalog Origin = "catalog"
	OriginLiked   Origin = "liked"
	OriginSearch  Origin = "search"
	OriginQueue   Origin = "queue"

	playlistPrefix = "playlist:"
)

// PlaylistOrigin returns the origin tag for a playlist view.
func PlaylistOrigin(playlistID string) Origin {
	return Origin(playlistPrefix + playlistID)
}

// PlaylistID returns the playlist id for a playlist origin.
func (o Origin) PlaylistID() (string, bool) {
	s := string(o)
	if !strings.HasPrefix(s, playlistPrefix) {
		return "", false
	}
	return strings.TrimPrefix(s, playlistPrefix), true
}

// TrackList is an ordered sequence of tracks plus a cursor. The cursor is
// either -1 or a valid index into the sequence; the only way to move it is
// through methods that enforce that.
type TrackList struct {
	origin Origin
	tracks []model.Track
	cursor int
}

// NewTrackList copies tracks into a new list with no cursor.
func NewTrackList(origin Origin, tracks []model.Track) *TrackList {
	cp := make([]model.Track, len(tracks))
	copy(cp, tracks)
	return &TrackList{origin: origin, tracks: cp, cursor: -1}
}

// Origin returns the view this list came from.
func (l *TrackList) Origin() Origin {
	if l == nil {
		return ""
	}
	return l.origin
}

// Len returns the number of tracks.
func (l *TrackList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.tracks)
}

// Cursor returns the current index, or -1.
func (l *TrackList) Cursor() int {
	if l == nil {
		return -1
	}
	return l.cursor
}

// At returns the track at i.
func (l *TrackList) At(i int) (model.Track, bool) {
	if l == nil || i < 0 || i >= len(l.tracks) {
		return model.Track{}, false
	}
	return l.tracks[i], true
}

// Current returns the track under the cursor.
func (l *TrackList) Current() (model.Track, bool) {
	return l.At(l.Cursor())
}

// Tracks returns a copy of the sequence.
func (l *TrackList) Tracks() []model.Track {
	if l == nil {
		return nil
	}
	cp := make([]model.Track, len(l.tracks))
	copy(cp, l.tracks)
	return cp
}

// IndexOf returns the first index holding id, or -1.
func (l *TrackList) IndexOf(id string) int {
	if l == nil {
		return -1
	}
	for i, t := range l.tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// withCursor returns a copy positioned at i. The tracks slice is shared: it is
// never written after construction.
func (l *TrackList) withCursor(i int) (*TrackList, error) {
	if l == nil || len(l.tracks) == 0 {
		return nil, ErrEmptyContext
	}
	if i < -1 || i >= len(l.tracks) {
		return nil, ErrIndexOutOfRange
	}
	return &TrackList{origin: l.origin, tracks: l.tracks, cursor: i}, nil
}

// nextIndex wraps past the end.
func (l *TrackList) nextIndex() int {
	n := l.Len()
	if n == 0 {
		return -1
	}
	return (l.cursor + 1) % n
}

func (l *TrackList) prevIndex() int {
	n := l.Len()
	if n == 0 {
		return -1
	}
	if l.cursor > 0 {
		return l.cursor - 1
	}
	return n - 1
}

func (l *TrackList) atEnd() bool {
	return l.Len() > 0 && l.cursor == l.Len()-1
}
