package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlaylistStore(t *testing.T) (*PlaylistStore, *fakePlaylistRemote) {
	t.Helper()
	catalog := NewCatalog(&fakeCatalogRemote{tracks: sampleTracks()})
	require.NoError(t, catalog.Refresh(context.Background()))
	remote := newFakePlaylistRemote(sampleTracks())
	return NewPlaylistStore(remote, catalog), remote
}

func TestPlaylistDuplicateSongRejected(t *testing.T) {
	store, _ := newTestPlaylistStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, "  Road Trip ", "summer")
	require.NoError(t, err)

	require.NoError(t, store.AddSong(ctx, id, "7"))
	assert.ErrorIs(t, store.AddSong(ctx, id, "7"), ErrAlreadyInPlaylist)

	songs, err := store.Songs(ctx, id)
	require.NoError(t, err)
	assert.Len(t, songs, 1)

	lists, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Road Trip", lists[0].Name)
	assert.Equal(t, int64(1), lists[0].SongCount)
}

func TestPlaylistValidation(t *testing.T) {
	store, remote := newTestPlaylistStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "   ", "")
	assert.ErrorIs(t, err, ErrEmptyPlaylistName)
	assert.Equal(t, 0, remote.calls)

	assert.ErrorIs(t, store.AddSong(ctx, "pl-1", "1000"), ErrUnknownTrack)
	assert.ErrorIs(t, store.AddSong(ctx, "", "7"), ErrPlaylistNotFound)
	assert.Equal(t, 0, remote.calls)
}

func TestPlaylistRemoveAndDelete(t *testing.T) {
	store, _ := newTestPlaylistStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, "Jazz", "")
	require.NoError(t, err)
	require.NoError(t, store.AddSong(ctx, id, "1"))
	require.NoError(t, store.AddSong(ctx, id, "42"))

	require.NoError(t, store.RemoveSong(ctx, id, "1"))
	assert.ErrorIs(t, store.RemoveSong(ctx, id, "1"), ErrRejected)

	songs, err := store.Songs(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, trackIDs(songs))

	require.NoError(t, store.Delete(ctx, id))
	assert.ErrorIs(t, store.Delete(ctx, id), ErrPlaylistNotFound)

	songs, err = store.Songs(ctx, id)
	assert.ErrorIs(t, err, ErrPlaylistNotFound)
	assert.Empty(t, songs)
}
