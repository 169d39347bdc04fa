package model

import "encoding/json"

// Envelope is the shape of every response the API sends.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Count   *int            `json:"count,omitempty"`
}

// Ack is the result of a remote mutation that may be refused without being an
// error, e.g. liking a track that is already liked.
type Ack struct {
	Success bool
	Message string
}

// CreatedPlaylist is the data payload of a create_playlist response.
type CreatedPlaylist struct {
	PlaylistID string `json:"playlist_id"`
}

// LikeStatus is the data payload of an is_song_liked response.
type LikeStatus struct {
	SongID string `json:"song_id"`
	Liked  bool   `json:"liked"`
}

// ActionRequest is the JSON body of every POST to the API. SongID may be a
// JSON string or number.
type ActionRequest struct {
	Action      string          `json:"action"`
	SongID      json.RawMessage `json:"song_id,omitempty"`
	PlaylistID  string          `json:"playlist_id,omitempty"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
}
