package library

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"MePlay/core/player"
	"MePlay/logger"
	"MePlay/model"
)

// Catalog holds the tracks of the last catalog load. A load replaces the
// whole sequence; tracks are never edited in place.
type Catalog struct {
	remote CatalogRemote

	mu     sync.RWMutex
	tracks []model.Track
	byID   map[string]int
}

func NewCatalog(remote CatalogRemote) *Catalog {
	return &Catalog{remote: remote, byID: map[string]int{}}
}

// Refresh reloads the catalog. On failure the catalog degrades to empty and
// the error is returned for the caller to surface.
func (c *Catalog) Refresh(ctx context.Context) error {
	tracks, err := c.remote.FetchTracks(ctx)
	if err != nil {
		c.replace(nil)
		logger.Warn("catalog load failed", logger.ErrorField(err))
		return fmt.Errorf("%w: catalog: %v", ErrRemoteUnavailable, err)
	}
	c.replace(tracks)
	logger.Info("catalog loaded", logger.Int("tracks", len(tracks)))
	return nil
}

// Replace installs tracks directly.
func (c *Catalog) Replace(tracks []model.Track) {
	c.replace(tracks)
}

func (c *Catalog) replace(tracks []model.Track) {
	cp := make([]model.Track, 0, len(tracks))
	byID := make(map[string]int, len(tracks))
	for _, t := range tracks {
		if _, dup := byID[t.ID]; dup || t.ID == "" {
			continue
		}
		byID[t.ID] = len(cp)
		cp = append(cp, t)
	}

	c.mu.Lock()
	c.tracks = cp
	c.byID = byID
	c.mu.Unlock()
}

// Tracks returns a copy of the catalog in remote order.
func (c *Catalog) Tracks() []model.Track {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cp := make([]model.Track, len(c.tracks))
	copy(cp, c.tracks)
	return cp
}

// Track looks a track up by id. Implements player.TrackLookup.
func (c *Catalog) Track(id string) (model.Track, bool) {
	canon, err := model.CanonicalID(id)
	if err != nil {
		return model.Track{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[canon]
	if !ok {
		return model.Track{}, false
	}
	return c.tracks[i], true
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tracks)
}

// List returns the catalog as a track list.
func (c *Catalog) List() *player.TrackList {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return player.NewTrackList(player.OriginCatalog, c.tracks)
}

// Genres lists the distinct genres, compared case-insensitively, sorted.
// The first spelling seen wins.
func (c *Catalog) Genres() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := map[string]bool{}
	var genres []string
	for _, t := range c.tracks {
		g := strings.TrimSpace(t.Genre)
		key := strings.ToLower(g)
		if g == "" || seen[key] {
			continue
		}
		seen[key] = true
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool {
		return strings.ToLower(genres[i]) < strings.ToLower(genres[j])
	})
	return genres
}
