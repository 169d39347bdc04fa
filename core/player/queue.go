package player

import (
	"fmt"
	"sync"

	"MePlay/model"
)

// TrackLookup resolves a track id against the loaded catalog.
type TrackLookup interface {
	Track(id string) (model.Track, bool)
}

// Queue is the explicit "play next" list. Automatic advance always drains
// index 0; removal at an arbitrary index is the only other mutation.
// It is never persisted.
type Queue struct {
	mu     sync.Mutex
	lookup TrackLookup
	items  []model.Track
}

// NewQueue creates an empty queue resolving ids through lookup.
func NewQueue(lookup TrackLookup) *Queue {
	return &Queue{lookup: lookup}
}

// Enqueue appends the catalog track with the given id.
func (q *Queue) Enqueue(id string) (model.Track, error) {
	canon, err := model.CanonicalID(id)
	if err != nil {
		return model.Track{}, fmt.Errorf("enqueue %q: %w", id, ErrUnknownTrack)
	}
	if q.lookup == nil {
		return model.Track{}, fmt.Errorf("enqueue %s: %w", canon, ErrUnknownTrack)
	}
	t, ok := q.lookup.Track(canon)
	if !ok {
		return model.Track{}, fmt.Errorf("enqueue %s: %w", canon, ErrUnknownTrack)
	}

	q.mu.Lock()
	q.items = append(q.items, t)
	q.mu.Unlock()
	return t, nil
}

// DequeueAt removes and returns the entry at index.
func (q *Queue) DequeueAt(index int) (model.Track, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if index < 0 || index >= len(q.items) {
		return model.Track{}, fmt.Errorf("dequeue %d of %d: %w", index, len(q.items), ErrIndexOutOfRange)
	}
	t := q.items[index]
	q.items = append(q.items[:index:index], q.items[index+1:]...)
	return t, nil
}

// pop drains the front entry.
func (q *Queue) pop() (model.Track, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return model.Track{}, false
	}
	t := q.items[0]
	q.items = q.items[1:]
	return t, true
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Items returns a copy of the queued tracks in play order.
func (q *Queue) Items() []model.Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	cp := make([]model.Track, len(q.items))
	copy(cp, q.items)
	return cp
}
