package player

import "errors"

var (
	ErrEmptyContext     = errors.New("track list is empty")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrNoTrackLoaded    = errors.New("no track loaded")
	ErrDurationUnknown  = errors.New("duration not known yet")
	ErrUnknownTrack     = errors.New("unknown track id")
	ErrSuperseded       = errors.New("load superseded by a newer play request")
	ErrPlaybackFailed   = errors.New("playback failed")
	ErrInvalidRepeatArg = errors.New("invalid repeat mode")
)
