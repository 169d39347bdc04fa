package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue() *Queue {
	lookup := catalogLookup{}
	for _, tr := range testTracks("1", "2", "3", "42") {
		lookup[tr.ID] = tr
	}
	return NewQueue(lookup)
}

func queuedIDs(q *Queue) []string {
	ids := []string{}
	for _, t := range q.Items() {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestQueueEnqueueResolvesFromCatalog(t *testing.T) {
	q := newTestQueue()

	tr, err := q.Enqueue(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, "42", tr.ID)

	tr, err = q.Enqueue("0042")
	require.NoError(t, err)
	assert.Equal(t, "42", tr.ID)

	_, err = q.Enqueue("99")
	assert.ErrorIs(t, err, ErrUnknownTrack)
	_, err = q.Enqueue("")
	assert.ErrorIs(t, err, ErrUnknownTrack)

	assert.Equal(t, []string{"42", "42"}, queuedIDs(q))
}

func TestQueueWithoutLookupRejects(t *testing.T) {
	_, err := NewQueue(nil).Enqueue("1")
	assert.ErrorIs(t, err, ErrUnknownTrack)
}

func TestQueueDequeueAt(t *testing.T) {
	q := newTestQueue()
	for _, id := range []string{"1", "2", "3"} {
		_, err := q.Enqueue(id)
		require.NoError(t, err)
	}
	snapshot := q.Items()

	tr, err := q.DequeueAt(1)
	require.NoError(t, err)
	assert.Equal(t, "2", tr.ID)
	assert.Equal(t, []string{"1", "3"}, queuedIDs(q))
	assert.Equal(t, "2", snapshot[1].ID, "earlier snapshots are not affected")

	_, err = q.DequeueAt(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = q.DequeueAt(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestQueuePopIsFIFO(t *testing.T) {
	q := newTestQueue()
	for _, id := range []string{"3", "1"} {
		_, err := q.Enqueue(id)
		require.NoError(t, err)
	}

	tr, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, "3", tr.ID)
	tr, ok = q.pop()
	require.True(t, ok)
	assert.Equal(t, "1", tr.ID)
	_, ok = q.pop()
	assert.False(t, ok)
}

func TestQueueClear(t *testing.T) {
	q := newTestQueue()
	_, err := q.Enqueue("1")
	require.NoError(t, err)
	q.Clear()
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Items())
}
