package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MePlay/core/player"
	"MePlay/model"
)

func TestCatalogRefresh(t *testing.T) {
	remote := &fakeCatalogRemote{tracks: append(sampleTracks(), model.Track{ID: "7", Title: "duplicate"})}
	c := NewCatalog(remote)

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, []string{"1", "7", "42", "9"}, trackIDs(c.Tracks()))

	tr, ok := c.Track("7")
	require.True(t, ok)
	assert.Equal(t, "Highway Star", tr.Title)

	_, ok = c.Track("042")
	assert.True(t, ok)
	_, ok = c.Track("42.0")
	assert.False(t, ok)
	_, ok = c.Track("100")
	assert.False(t, ok)

	list := c.List()
	assert.Equal(t, player.OriginCatalog, list.Origin())
	assert.Equal(t, 4, list.Len())
}

func TestCatalogRefreshFailureDegradesToEmpty(t *testing.T) {
	remote := &fakeCatalogRemote{tracks: sampleTracks()}
	c := NewCatalog(remote)
	require.NoError(t, c.Refresh(context.Background()))

	remote.err = errNetwork
	err := c.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.List().Len())
}

func TestCatalogGenres(t *testing.T) {
	c := NewCatalog(&fakeCatalogRemote{})
	c.Replace(append(sampleTracks(), model.Track{ID: "50", Title: "untagged"}))
	assert.Equal(t, []string{"Jazz", "Rock"}, c.Genres())
}
