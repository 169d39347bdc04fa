package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultDuration is shown when the catalog has no display duration for a track.
const DefaultDuration = "0:00"

// Track represents an audio track in the music library.
//
// Tracks are value objects: once fetched they are never mutated, only replaced
// by a fresh catalog load. Duration is a display string; authoritative timing
// comes from the decoded media.
type Track struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album,omitempty"`
	Genre    string `json:"genre,omitempty"`
	Duration string `json:"duration"`
	AudioURI string `json:"audio_uri"`
	CoverURI string `json:"cover_uri,omitempty"`
}

// UnmarshalJSON canonicalises the id on the way in, so ids that arrive as
// numbers compare equal to the same id sent as a string.
func (t *Track) UnmarshalJSON(data []byte) error {
	type plain Track
	var aux struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := ParseID(aux.ID)
	if err != nil {
		return fmt.Errorf("track id: %w", err)
	}
	*t = Track(aux.plain)
	t.ID = id
	if t.Duration == "" {
		t.Duration = DefaultDuration
	}
	return nil
}

// CoverOrDefault returns the cover URI, or fallback when the track has none.
func (t Track) CoverOrDefault(fallback string) string {
	if strings.TrimSpace(t.CoverURI) == "" {
		return fallback
	}
	return t.CoverURI
}

// Label is the "Artist - Title" form used in logs and the player prompt.
func (t Track) Label() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}
