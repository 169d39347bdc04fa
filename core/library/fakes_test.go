package library

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"MePlay/model"
)

var errNetwork = errors.New("connection refused")

type fakeCatalogRemote struct {
	tracks []model.Track
	err    error
}

func (f *fakeCatalogRemote) FetchTracks(context.Context) ([]model.Track, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tracks, nil
}

// fakeLikeRemote behaves like the API: liking twice is a soft failure.
type fakeLikeRemote struct {
	mu      sync.Mutex
	liked   []string
	err     error
	listErr error
	gate    chan struct{}
	calls   []string
	// listing is signalled once LikedIDs has read the set; the answer is
	// held back until listGate is closed
	listing  chan struct{}
	listGate chan struct{}
}

func (f *fakeLikeRemote) LikedIDs(context.Context) ([]string, error) {
	f.mu.Lock()
	if f.listErr != nil {
		f.mu.Unlock()
		return nil, f.listErr
	}
	ids := append([]string(nil), f.liked...)
	listing, gate := f.listing, f.listGate
	f.mu.Unlock()

	if listing != nil {
		listing <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return ids, nil
}

func (f *fakeLikeRemote) Like(ctx context.Context, id string) (model.Ack, error) {
	return f.apply(ctx, "like", id)
}

func (f *fakeLikeRemote) Unlike(ctx context.Context, id string) (model.Ack, error) {
	return f.apply(ctx, "unlike", id)
}

func (f *fakeLikeRemote) apply(ctx context.Context, op, id string) (model.Ack, error) {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return model.Ack{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op+":"+id)
	if f.err != nil {
		return model.Ack{}, f.err
	}
	has := false
	for _, v := range f.liked {
		if v == id {
			has = true
		}
	}
	switch {
	case op == "like" && has:
		return model.Ack{Success: false, Message: "Song already liked"}, nil
	case op == "like":
		f.liked = append([]string{id}, f.liked...)
		return model.Ack{Success: true, Message: "Song liked successfully"}, nil
	case !has:
		return model.Ack{Success: false, Message: "Song was not liked or already unliked"}, nil
	default:
		f.liked = removeID(f.liked, id)
		return model.Ack{Success: true, Message: "Song unliked successfully"}, nil
	}
}

func (f *fakeLikeRemote) has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.liked {
		if v == id {
			return true
		}
	}
	return false
}

type memoryStore struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (m *memoryStore) SaveLikes(_ context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.ids = append([]string(nil), ids...)
	return nil
}

func (m *memoryStore) LoadLikes(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]string(nil), m.ids...), nil
}

type notFoundError struct{ msg string }

func (e *notFoundError) Error() string  { return e.msg }
func (e *notFoundError) NotFound() bool { return true }

type fakePlaylist struct {
	name  string
	songs []string
}

type fakePlaylistRemote struct {
	mu        sync.Mutex
	catalog   map[string]model.Track
	playlists map[string]*fakePlaylist
	nextID    int
	calls     int
	songsErr  error
}

func newFakePlaylistRemote(tracks []model.Track) *fakePlaylistRemote {
	f := &fakePlaylistRemote{catalog: map[string]model.Track{}, playlists: map[string]*fakePlaylist{}}
	for _, t := range tracks {
		f.catalog[t.ID] = t
	}
	return f
}

func (f *fakePlaylistRemote) CreatePlaylist(_ context.Context, name, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.nextID++
	id := fmt.Sprintf("pl-%d", f.nextID)
	f.playlists[id] = &fakePlaylist{name: name}
	return id, nil
}

func (f *fakePlaylistRemote) DeletePlaylist(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if _, ok := f.playlists[id]; !ok {
		return &notFoundError{"Playlist not found"}
	}
	delete(f.playlists, id)
	return nil
}

func (f *fakePlaylistRemote) AddSong(_ context.Context, pid, tid string) (model.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	pl, ok := f.playlists[pid]
	if !ok {
		return model.Ack{}, &notFoundError{"Playlist not found"}
	}
	for _, s := range pl.songs {
		if s == tid {
			return model.Ack{Success: false, Message: "Song already in playlist"}, nil
		}
	}
	pl.songs = append([]string{tid}, pl.songs...)
	return model.Ack{Success: true, Message: "Song added to playlist"}, nil
}

func (f *fakePlaylistRemote) RemoveSong(_ context.Context, pid, tid string) (model.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	pl, ok := f.playlists[pid]
	if !ok {
		return model.Ack{}, &notFoundError{"Playlist not found"}
	}
	before := len(pl.songs)
	pl.songs = removeID(pl.songs, tid)
	if len(pl.songs) == before {
		return model.Ack{Success: false, Message: "Song not found in playlist"}, nil
	}
	return model.Ack{Success: true, Message: "Song removed from playlist"}, nil
}

func (f *fakePlaylistRemote) Playlists(context.Context) ([]model.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	var out []model.Playlist
	for id, pl := range f.playlists {
		out = append(out, model.Playlist{ID: id, Name: pl.name, SongCount: int64(len(pl.songs))})
	}
	return out, nil
}

func (f *fakePlaylistRemote) PlaylistSongs(_ context.Context, pid string) ([]model.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.songsErr != nil {
		return nil, f.songsErr
	}
	pl, ok := f.playlists[pid]
	if !ok {
		return nil, &notFoundError{"Playlist not found"}
	}
	out := []model.Track{}
	for _, id := range pl.songs {
		out = append(out, f.catalog[id])
	}
	return out, nil
}

func sampleTracks() []model.Track {
	return []model.Track{
		{ID: "1", Title: "Blue in Green", Artist: "Miles Davis", Album: "Kind of Blue", Genre: "Jazz", AudioURI: "a/1.mp3"},
		{ID: "7", Title: "Highway Star", Artist: "Deep Purple", Album: "Machine Head", Genre: "Rock", AudioURI: "a/7.mp3"},
		{ID: "42", Title: "So What", Artist: "Miles Davis", Album: "Kind of Blue", Genre: "jazz", AudioURI: "a/42.mp3"},
		{ID: "9", Title: "Road Trippin'", Artist: "RHCP", Album: "Californication", Genre: "Rock", AudioURI: "a/9.mp3"},
	}
}

func trackIDs(tracks []model.Track) []string {
	ids := []string{}
	for _, t := range tracks {
		ids = append(ids, t.ID)
	}
	return ids
}
