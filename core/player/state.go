package player

import (
	"fmt"
	"strings"
	"time"

	"MePlay/model"
)

// State is the transport state of the engine.
type State int

const (
	StateIdle    State = iota // nothing loaded
	StateLoading              // source set, waiting for ready-to-play
	StatePlaying
	StatePaused
	StateError // the last load failed; only a fresh play recovers
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// RepeatMode controls what happens when a track ends.
type RepeatMode int

const (
	// RepeatNone stops after the last track of a non-shuffled list ends.
	RepeatNone RepeatMode = iota
	// RepeatAll wraps to the first track.
	RepeatAll
	// RepeatOne replays the same track when it ends. Manual next/previous
	// still navigate.
	RepeatOne
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatNone:
		return "none"
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m RepeatMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseRepeatMode accepts "none"/"off", "all" and "one".
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off":
		return RepeatNone, nil
	case "all":
		return RepeatAll, nil
	case "one":
		return RepeatOne, nil
	}
	return RepeatNone, fmt.Errorf("%w: %q", ErrInvalidRepeatArg, s)
}

// next cycles none -> all -> one -> none.
func (m RepeatMode) next() RepeatMode {
	switch m {
	case RepeatNone:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatNone
	}
}

// Snapshot is the observable playback session.
type Snapshot struct {
	Generation  uint64        `json:"generation"`
	Track       *model.Track  `json:"track,omitempty"`
	State       State         `json:"state"`
	IsPlaying   bool          `json:"is_playing"`
	Volume      float64       `json:"volume"`
	Shuffle     bool          `json:"shuffle"`
	Repeat      RepeatMode    `json:"repeat"`
	Origin      Origin        `json:"origin,omitempty"`
	Cursor      int           `json:"cursor"`
	Duration    time.Duration `json:"duration"`
	QueueLength int           `json:"queue_length"`
	Error       string        `json:"error,omitempty"`
}

// Observer receives a snapshot after every state change.
type Observer func(Snapshot)
