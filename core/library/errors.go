package library

import (
	"errors"

	"MePlay/core/player"
)

var (
	// ErrRemoteUnavailable wraps failures of the durable tier.
	ErrRemoteUnavailable = errors.New("remote unavailable")
	ErrEmptyPlaylistName = errors.New("playlist name is required")
	ErrPlaylistNotFound  = errors.New("playlist not found")
	ErrAlreadyInPlaylist = errors.New("song already in playlist")
	// ErrRejected is a well-formed response with success=false.
	ErrRejected = errors.New("request rejected")
	// ErrUnknownTrack is shared with the player so callers need only one check.
	ErrUnknownTrack = player.ErrUnknownTrack
)
