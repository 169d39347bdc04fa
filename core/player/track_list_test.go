package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackListCopiesInput(t *testing.T) {
	tracks := testTracks("A", "B")
	list := NewTrackList(OriginSearch, tracks)
	tracks[0].Title = "changed"

	first, ok := list.At(0)
	require.True(t, ok)
	assert.Equal(t, "Track A", first.Title)
	assert.Equal(t, -1, list.Cursor())
	_, ok = list.Current()
	assert.False(t, ok)

	out := list.Tracks()
	out[1].Title = "changed"
	second, _ := list.At(1)
	assert.Equal(t, "Track B", second.Title)
}

func TestTrackListCursorStaysValid(t *testing.T) {
	list := NewTrackList(OriginCatalog, testTracks("A", "B", "C"))

	for _, i := range []int{-1, 0, 1, 2} {
		positioned, err := list.withCursor(i)
		require.NoError(t, err)
		assert.Equal(t, i, positioned.Cursor())
	}
	for _, i := range []int{-2, 3, 100} {
		_, err := list.withCursor(i)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}

	_, err := NewTrackList(OriginCatalog, nil).withCursor(-1)
	assert.ErrorIs(t, err, ErrEmptyContext)
}

func TestTrackListNavigation(t *testing.T) {
	list, err := NewTrackList(OriginCatalog, testTracks("A", "B", "C")).withCursor(0)
	require.NoError(t, err)
	assert.Equal(t, 1, list.nextIndex())
	assert.Equal(t, 2, list.prevIndex())
	assert.False(t, list.atEnd())

	list, err = list.withCursor(2)
	require.NoError(t, err)
	assert.Equal(t, 0, list.nextIndex())
	assert.Equal(t, 1, list.prevIndex())
	assert.True(t, list.atEnd())

	var empty *TrackList
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, -1, empty.Cursor())
	assert.Equal(t, -1, empty.nextIndex())
}

func TestTrackListIndexOf(t *testing.T) {
	list := NewTrackList(OriginLiked, testTracks("7", "42"))
	assert.Equal(t, 1, list.IndexOf("42"))
	assert.Equal(t, -1, list.IndexOf("8"))
}

func TestPlaylistOrigin(t *testing.T) {
	o := PlaylistOrigin("abc")
	assert.Equal(t, Origin("playlist:abc"), o)
	id, ok := o.PlaylistID()
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = OriginCatalog.PlaylistID()
	assert.False(t, ok)
}
