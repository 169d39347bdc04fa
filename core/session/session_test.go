package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MePlay/core/library"
	"MePlay/core/player"
	"MePlay/model"
)

type stubRemote struct {
	mu     sync.Mutex
	tracks []model.Track
	liked  []string
	down   bool
	likes  []string
}

var errDown = errors.New("remote down")

func (r *stubRemote) FetchTracks(context.Context) ([]model.Track, error) {
	if r.down {
		return nil, errDown
	}
	return r.tracks, nil
}

func (r *stubRemote) LikedIDs(context.Context) ([]string, error) {
	if r.down {
		return nil, errDown
	}
	return r.liked, nil
}

func (r *stubRemote) Like(_ context.Context, id string) (model.Ack, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.likes = append(r.likes, "like:"+id)
	return model.Ack{Success: true}, nil
}

func (r *stubRemote) Unlike(_ context.Context, id string) (model.Ack, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.likes = append(r.likes, "unlike:"+id)
	return model.Ack{Success: true}, nil
}

func (r *stubRemote) CreatePlaylist(context.Context, string, string) (string, error) {
	return "pl-1", nil
}

func (r *stubRemote) DeletePlaylist(context.Context, string) error { return nil }

func (r *stubRemote) AddSong(context.Context, string, string) (model.Ack, error) {
	return model.Ack{Success: true}, nil
}

func (r *stubRemote) RemoveSong(context.Context, string, string) (model.Ack, error) {
	return model.Ack{Success: true}, nil
}

func (r *stubRemote) Playlists(context.Context) ([]model.Playlist, error) { return nil, nil }

func (r *stubRemote) PlaylistSongs(context.Context, string) ([]model.Track, error) {
	return r.tracks[:1], nil
}

type nullOutput struct {
	mu     sync.Mutex
	loaded string
}

func (o *nullOutput) Load(_ context.Context, uri string, _ func(error)) (time.Duration, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loaded = uri
	return time.Minute, nil
}
func (o *nullOutput) Play() error { return nil }
func (o *nullOutput) Pause() error { return nil }
func (o *nullOutput) Stop() error { return nil }
func (o *nullOutput) Seek(time.Duration) error { return nil }
func (o *nullOutput) SetVolume(float64) error { return nil }
func (o *nullOutput) Position() time.Duration { return 0 }

func newRemote() *stubRemote {
	return &stubRemote{
		tracks: []model.Track{
			{ID: "1", Title: "A", AudioURI: "mem://1"},
			{ID: "2", Title: "B", AudioURI: "mem://2"},
			{ID: "3", Title: "X", AudioURI: "mem://3"},
		},
		liked: []string{"2"},
	}
}

func wait(t *testing.T, ld *player.Load) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return ld.Wait(ctx)
}

func TestStartLoadsCatalogAndLikes(t *testing.T) {
	s := New(newRemote(), &nullOutput{}, nil)
	require.NoError(t, s.Start(context.Background()))
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, 3, s.Catalog.Len())
	assert.True(t, s.IsLiked("2"))
}

func TestStartDegradesWhenRemoteDown(t *testing.T) {
	remote := newRemote()
	remote.down = true
	s := New(remote, &nullOutput{}, nil)

	err := s.Start(context.Background())
	assert.ErrorIs(t, err, library.ErrRemoteUnavailable)
	assert.Equal(t, 0, s.Catalog.Len())

	ld, err := s.TogglePlayPause()
	assert.ErrorIs(t, err, player.ErrEmptyContext)
	assert.Nil(t, ld)

	ld, err = s.PlayView(context.Background(), library.CatalogView(), 0)
	assert.NoError(t, err)
	assert.ErrorIs(t, wait(t, ld), player.ErrEmptyContext)
}

func TestTogglePlaysCatalogWhenIdle(t *testing.T) {
	s := New(newRemote(), &nullOutput{}, nil)
	require.NoError(t, s.Start(context.Background()))

	ld, err := s.TogglePlayPause()
	require.NoError(t, err)
	require.NoError(t, wait(t, ld))
	snap := s.Engine.Snapshot()
	assert.Equal(t, "1", snap.Track.ID)
	assert.Equal(t, player.OriginCatalog, snap.Origin)
}

func TestQueuePreemptsContext(t *testing.T) {
	s := New(newRemote(), &nullOutput{}, nil)
	require.NoError(t, s.Start(context.Background()))

	list := player.NewTrackList(player.OriginCatalog, s.Catalog.Tracks()[:2])
	require.NoError(t, wait(t, s.Play(list, 1)))
	_, err := s.Enqueue("3")
	require.NoError(t, err)
	_, err = s.Enqueue("404")
	assert.ErrorIs(t, err, player.ErrUnknownTrack)

	require.NoError(t, wait(t, s.Next()))
	snap := s.Engine.Snapshot()
	assert.Equal(t, "3", snap.Track.ID)
	assert.Equal(t, player.OriginQueue, snap.Origin)
	assert.Equal(t, 0, s.Engine.Queue().Len())
}

func TestPlayLikedViewAndToggleCurrent(t *testing.T) {
	remote := newRemote()
	s := New(remote, &nullOutput{}, nil)
	require.NoError(t, s.Start(context.Background()))

	ld, err := s.PlayView(context.Background(), library.LikedView(), 0)
	require.NoError(t, err)
	require.NoError(t, wait(t, ld))
	assert.Equal(t, "2", s.Engine.Snapshot().Track.ID)

	res, err := s.ToggleCurrentLike(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.False(t, s.IsLiked("2"))

	require.NoError(t, s.Close(context.Background()))
	remote.mu.Lock()
	defer remote.mu.Unlock()
	assert.Equal(t, []string{"unlike:2"}, remote.likes)
	assert.Equal(t, player.StateIdle, s.Engine.Snapshot().State)
}

func TestToggleCurrentLikeWithoutTrack(t *testing.T) {
	s := New(newRemote(), &nullOutput{}, nil)
	_, err := s.ToggleCurrentLike(context.Background())
	assert.ErrorIs(t, err, player.ErrNoTrackLoaded)
}
