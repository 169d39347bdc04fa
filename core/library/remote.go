package library

import (
	"context"

	"MePlay/model"
)

// CatalogRemote fetches the full track catalog.
type CatalogRemote interface {
	FetchTracks(ctx context.Context) ([]model.Track, error)
}

// LikeRemote is the durable tier of the like set. Like and Unlike return a
// nil error whenever a well-formed envelope came back, including
// success=false for a like that was already in place.
type LikeRemote interface {
	// LikedIDs returns the liked track ids, most recently liked first.
	LikedIDs(ctx context.Context) ([]string, error)
	Like(ctx context.Context, trackID string) (model.Ack, error)
	Unlike(ctx context.Context, trackID string) (model.Ack, error)
}

// LocalStore persists the local tier between sessions.
type LocalStore interface {
	SaveLikes(ctx context.Context, ids []string) error
	LoadLikes(ctx context.Context) ([]string, error)
}

// PlaylistRemote is playlist CRUD against the durable tier.
type PlaylistRemote interface {
	CreatePlaylist(ctx context.Context, name, description string) (string, error)
	DeletePlaylist(ctx context.Context, playlistID string) error
	AddSong(ctx context.Context, playlistID, trackID string) (model.Ack, error)
	RemoveSong(ctx context.Context, playlistID, trackID string) (model.Ack, error)
	Playlists(ctx context.Context) ([]model.Playlist, error)
	PlaylistSongs(ctx context.Context, playlistID string) ([]model.Track, error)
}
