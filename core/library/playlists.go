package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"MePlay/core/player"
	"MePlay/logger"
	"MePlay/model"
)

// PlaylistStore is playlist CRUD. Nothing is cached: every read goes to the
// durable tier.
type PlaylistStore struct {
	remote  PlaylistRemote
	catalog player.TrackLookup
}

// NewPlaylistStore creates a store. When catalog is non-nil, track ids are
// checked against it before any remote call.
func NewPlaylistStore(remote PlaylistRemote, catalog player.TrackLookup) *PlaylistStore {
	return &PlaylistStore{remote: remote, catalog: catalog}
}

// Create makes a playlist and returns its id.
func (p *PlaylistStore) Create(ctx context.Context, name, description string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyPlaylistName
	}
	id, err := p.remote.CreatePlaylist(ctx, name, strings.TrimSpace(description))
	if err != nil {
		return "", fmt.Errorf("create playlist %q: %w", name, err)
	}
	logger.Info("playlist created", logger.String("playlist", id), logger.String("name", name))
	return id, nil
}

// Delete removes a playlist and all of its memberships.
func (p *PlaylistStore) Delete(ctx context.Context, playlistID string) error {
	playlistID = strings.TrimSpace(playlistID)
	if playlistID == "" {
		return ErrPlaylistNotFound
	}
	if err := p.remote.DeletePlaylist(ctx, playlistID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("delete playlist %s: %w", playlistID, ErrPlaylistNotFound)
		}
		return fmt.Errorf("delete playlist %s: %w", playlistID, err)
	}
	return nil
}

// AddSong adds a track. Adding a track that is already a member fails with
// ErrAlreadyInPlaylist.
func (p *PlaylistStore) AddSong(ctx context.Context, playlistID, trackID string) error {
	playlistID, trackID, err := p.validate(playlistID, trackID)
	if err != nil {
		return err
	}
	ack, err := p.remote.AddSong(ctx, playlistID, trackID)
	if err != nil {
		return fmt.Errorf("add %s to playlist %s: %w", trackID, playlistID, err)
	}
	if !ack.Success {
		if strings.Contains(strings.ToLower(ack.Message), "already") {
			return fmt.Errorf("add %s to playlist %s: %w", trackID, playlistID, ErrAlreadyInPlaylist)
		}
		return fmt.Errorf("add %s to playlist %s: %w: %s", trackID, playlistID, ErrRejected, ack.Message)
	}
	return nil
}

// RemoveSong removes a track from a playlist.
func (p *PlaylistStore) RemoveSong(ctx context.Context, playlistID, trackID string) error {
	playlistID = strings.TrimSpace(playlistID)
	if playlistID == "" {
		return ErrPlaylistNotFound
	}
	canon, err := model.CanonicalID(trackID)
	if err != nil {
		return fmt.Errorf("remove %q: %w", trackID, ErrUnknownTrack)
	}
	ack, err := p.remote.RemoveSong(ctx, playlistID, canon)
	if err != nil {
		return fmt.Errorf("remove %s from playlist %s: %w", canon, playlistID, err)
	}
	if !ack.Success {
		return fmt.Errorf("remove %s from playlist %s: %w: %s", canon, playlistID, ErrRejected, ack.Message)
	}
	return nil
}

// List returns the user's playlists with their song counts.
func (p *PlaylistStore) List(ctx context.Context) ([]model.Playlist, error) {
	lists, err := p.remote.Playlists(ctx)
	if err != nil {
		return []model.Playlist{}, fmt.Errorf("%w: playlists: %v", ErrRemoteUnavailable, err)
	}
	return lists, nil
}

// Songs returns the playlist's tracks, most recently added first.
func (p *PlaylistStore) Songs(ctx context.Context, playlistID string) ([]model.Track, error) {
	playlistID = strings.TrimSpace(playlistID)
	if playlistID == "" {
		return []model.Track{}, ErrPlaylistNotFound
	}
	tracks, err := p.remote.PlaylistSongs(ctx, playlistID)
	if err != nil {
		if isNotFound(err) {
			return []model.Track{}, fmt.Errorf("playlist %s: %w", playlistID, ErrPlaylistNotFound)
		}
		return []model.Track{}, fmt.Errorf("%w: playlist %s: %v", ErrRemoteUnavailable, playlistID, err)
	}
	return tracks, nil
}

func (p *PlaylistStore) validate(playlistID, trackID string) (string, string, error) {
	playlistID = strings.TrimSpace(playlistID)
	if playlistID == "" {
		return "", "", ErrPlaylistNotFound
	}
	canon, err := model.CanonicalID(trackID)
	if err != nil {
		return "", "", fmt.Errorf("track %q: %w", trackID, ErrUnknownTrack)
	}
	if p.catalog != nil {
		if _, ok := p.catalog.Track(canon); !ok {
			return "", "", fmt.Errorf("track %s: %w", canon, ErrUnknownTrack)
		}
	}
	return playlistID, canon, nil
}

// isNotFound recognises remote errors that report a missing resource.
func isNotFound(err error) bool {
	var nf interface{ NotFound() bool }
	return errors.As(err, &nf) && nf.NotFound()
}
