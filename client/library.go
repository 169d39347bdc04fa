package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"MePlay/model"
)

// FetchTracks returns the full catalog, newest first.
func (c *Client) FetchTracks(ctx context.Context) ([]model.Track, error) {
	var tracks []model.Track
	if err := c.fetch(ctx, "/api/songs", nil, &tracks); err != nil {
		return nil, fmt.Errorf("fetch songs: %w", err)
	}
	return tracks, nil
}

// LikedTracks returns the user's liked tracks, most recently liked first.
func (c *Client) LikedTracks(ctx context.Context) ([]model.Track, error) {
	var tracks []model.Track
	q := url.Values{"action": {"get_liked_songs"}}
	if err := c.fetch(ctx, "/api/likes", q, &tracks); err != nil {
		return nil, fmt.Errorf("get liked songs: %w", err)
	}
	return tracks, nil
}

// LikedIDs returns the liked track ids, most recently liked first.
func (c *Client) LikedIDs(ctx context.Context) ([]string, error) {
	tracks, err := c.LikedTracks(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

// IsSongLiked asks the server directly, bypassing any local state.
func (c *Client) IsSongLiked(ctx context.Context, trackID string) (bool, error) {
	var status model.LikeStatus
	q := url.Values{"action": {"is_song_liked"}, "song_id": {trackID}}
	if err := c.fetch(ctx, "/api/likes", q, &status); err != nil {
		return false, fmt.Errorf("is song %s liked: %w", trackID, err)
	}
	return status.Liked, nil
}

// Like records a like. Liking a song that is already liked is a refused Ack,
// not an error.
func (c *Client) Like(ctx context.Context, trackID string) (model.Ack, error) {
	return c.ack(ctx, "/api/likes", model.ActionRequest{Action: "like_song", SongID: songID(trackID)})
}

// Unlike removes a like.
func (c *Client) Unlike(ctx context.Context, trackID string) (model.Ack, error) {
	return c.ack(ctx, "/api/likes", model.ActionRequest{Action: "unlike_song", SongID: songID(trackID)})
}

func (c *Client) ack(ctx context.Context, path string, req model.ActionRequest) (model.Ack, error) {
	env, err := c.send(ctx, path, req)
	if err != nil {
		return model.Ack{}, fmt.Errorf("%s: %w", req.Action, err)
	}
	return model.Ack{Success: env.Success, Message: env.Message}, nil
}

// CreatePlaylist creates a playlist and returns its id.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string) (string, error) {
	env, err := c.send(ctx, "/api/playlists", model.ActionRequest{
		Action:      "create_playlist",
		Name:        name,
		Description: description,
	})
	if err != nil {
		return "", err
	}
	if !env.Success {
		return "", &RemoteError{StatusCode: 200, Message: env.Message}
	}
	var created model.CreatedPlaylist
	if err := unmarshalData(env, &created); err != nil {
		return "", err
	}
	if created.PlaylistID == "" {
		return "", fmt.Errorf("%w: empty playlist_id", ErrMalformedResponse)
	}
	return created.PlaylistID, nil
}

// DeletePlaylist deletes a playlist with its memberships.
func (c *Client) DeletePlaylist(ctx context.Context, playlistID string) error {
	env, err := c.send(ctx, "/api/playlists", model.ActionRequest{Action: "delete_playlist", PlaylistID: playlistID})
	if err != nil {
		return err
	}
	if !env.Success {
		return &RemoteError{StatusCode: 200, Message: env.Message}
	}
	return nil
}

// AddSong adds a track to a playlist. A duplicate comes back as a refused Ack.
func (c *Client) AddSong(ctx context.Context, playlistID, trackID string) (model.Ack, error) {
	return c.ack(ctx, "/api/playlists", model.ActionRequest{
		Action:     "add_song_to_playlist",
		PlaylistID: playlistID,
		SongID:     songID(trackID),
	})
}

// RemoveSong removes a track from a playlist.
func (c *Client) RemoveSong(ctx context.Context, playlistID, trackID string) (model.Ack, error) {
	return c.ack(ctx, "/api/playlists", model.ActionRequest{
		Action:     "remove_song_from_playlist",
		PlaylistID: playlistID,
		SongID:     songID(trackID),
	})
}

// Playlists lists the user's playlists, newest first.
func (c *Client) Playlists(ctx context.Context) ([]model.Playlist, error) {
	var lists []model.Playlist
	q := url.Values{"action": {"get_playlists"}}
	if err := c.fetch(ctx, "/api/playlists", q, &lists); err != nil {
		return nil, fmt.Errorf("get playlists: %w", err)
	}
	return lists, nil
}

// PlaylistSongs lists a playlist's tracks, most recently added first.
func (c *Client) PlaylistSongs(ctx context.Context, playlistID string) ([]model.Track, error) {
	var tracks []model.Track
	q := url.Values{"action": {"get_playlist_songs"}, "playlist_id": {playlistID}}
	if err := c.fetch(ctx, "/api/playlists", q, &tracks); err != nil {
		return nil, fmt.Errorf("get playlist %s songs: %w", playlistID, err)
	}
	return tracks, nil
}

func unmarshalData(env *model.Envelope, out any) error {
	if len(env.Data) == 0 {
		return fmt.Errorf("%w: missing data", ErrMalformedResponse)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
