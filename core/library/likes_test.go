package library

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitSync(t *testing.T, s *LikeSet) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func TestToggleCommitsLocallyAndSyncs(t *testing.T) {
	remote := &fakeLikeRemote{}
	s := NewLikeSet(remote, nil)

	res, err := s.Toggle(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, "Added to liked songs", res.Message)
	assert.True(t, s.IsLiked("42"))

	waitSync(t, s)
	assert.True(t, remote.has("42"))

	res, err = s.Toggle(context.Background(), "42")
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, "Removed from liked songs", res.Message)
	waitSync(t, s)
	assert.False(t, remote.has("42"))
}

func TestToggleTwiceRestoresOriginal(t *testing.T) {
	remote := &fakeLikeRemote{liked: []string{"7"}}
	s := NewLikeSet(remote, nil)
	require.NoError(t, s.Load(context.Background()))

	for _, id := range []string{"7", "42"} {
		before := s.IsLiked(id)
		_, err := s.Toggle(context.Background(), id)
		require.NoError(t, err)
		_, err = s.Toggle(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, before, s.IsLiked(id), id)
	}

	waitSync(t, s)
	assert.True(t, remote.has("7"))
	assert.False(t, remote.has("42"))
}

func TestToggleKeepsStateWhenRemoteFails(t *testing.T) {
	remote := &fakeLikeRemote{err: errNetwork}
	s := NewLikeSet(remote, nil)

	var results []SyncResult
	done := make(chan struct{})
	s.OnSync(func(r SyncResult) {
		results = append(results, r)
		close(done)
	})

	res, err := s.Toggle(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Added to liked songs", res.Message)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sync did not finish")
	}
	assert.True(t, s.IsLiked("42"))
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, errNetwork)
	assert.False(t, remote.has("42"))
}

func TestToggleCanonicalisesIDs(t *testing.T) {
	s := NewLikeSet(&fakeLikeRemote{}, nil)

	res, err := s.Toggle(context.Background(), " 042 ")
	require.NoError(t, err)
	assert.Equal(t, "42", res.ID)
	assert.True(t, s.IsLiked("42"))

	_, err = s.Toggle(context.Background(), "  ")
	assert.Error(t, err)
	waitSync(t, s)
}

func TestToggleOrdersMostRecentFirst(t *testing.T) {
	s := NewLikeSet(&fakeLikeRemote{}, nil)
	for _, id := range []string{"1", "7", "9"} {
		_, err := s.Toggle(context.Background(), id)
		require.NoError(t, err)
	}
	_, err := s.Toggle(context.Background(), "7")
	require.NoError(t, err)

	ids, _ := s.IDs()
	assert.Equal(t, []string{"9", "1"}, ids)
	assert.Equal(t, 2, s.Len())
	waitSync(t, s)
}

func TestLoadUsesDurableOrder(t *testing.T) {
	store := &memoryStore{}
	s := NewLikeSet(&fakeLikeRemote{liked: []string{"9", "1", "9"}}, store)

	require.NoError(t, s.Load(context.Background()))
	ids, ordered := s.IDs()
	assert.True(t, ordered)
	assert.Equal(t, []string{"9", "1"}, ids)
	assert.Equal(t, []string{"9", "1"}, store.ids)
}

func TestLoadFallsBackToLocalStore(t *testing.T) {
	store := &memoryStore{ids: []string{"7", "42"}}
	s := NewLikeSet(&fakeLikeRemote{listErr: errNetwork}, store)

	err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.True(t, s.IsLiked("7"))
	assert.True(t, s.IsLiked("42"))
	_, ordered := s.IDs()
	assert.False(t, ordered)
}

func TestLoadWithoutStoreReportsRemoteError(t *testing.T) {
	s := NewLikeSet(&fakeLikeRemote{listErr: errNetwork}, nil)
	assert.ErrorIs(t, s.Load(context.Background()), ErrRemoteUnavailable)
	assert.Equal(t, 0, s.Len())
}

func TestLoadKeepsPendingToggle(t *testing.T) {
	remote := &fakeLikeRemote{liked: []string{"1"}, gate: make(chan struct{})}
	s := NewLikeSet(remote, nil)

	_, err := s.Toggle(context.Background(), "5")
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))
	assert.True(t, s.IsLiked("5"))
	assert.True(t, s.IsLiked("1"))

	close(remote.gate)
	waitSync(t, s)
	assert.True(t, remote.has("5"))
}

func TestLoadKeepsToggleMadeDuringFetch(t *testing.T) {
	remote := &fakeLikeRemote{
		liked:    []string{"1"},
		listing:  make(chan struct{}, 1),
		listGate: make(chan struct{}),
	}
	s := NewLikeSet(remote, nil)
	ctx := context.Background()

	loaded := make(chan error, 1)
	go func() { loaded <- s.Load(ctx) }()
	<-remote.listing

	// 拉取结果已过时, 两次切换的同步都在它返回前完成
	_, err := s.Toggle(ctx, "42")
	require.NoError(t, err)
	_, err = s.Toggle(ctx, "1")
	require.NoError(t, err)
	waitSync(t, s)
	require.True(t, remote.has("42"))
	require.False(t, remote.has("1"))

	close(remote.listGate)
	require.NoError(t, <-loaded)

	assert.True(t, s.IsLiked("42"))
	assert.False(t, s.IsLiked("1"))
	ids, ordered := s.IDs()
	assert.True(t, ordered)
	assert.Equal(t, []string{"42"}, ids)

	drift, err := s.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, drift.Empty())
}

func TestLoadAfterToggleTakesRemoteState(t *testing.T) {
	remote := &fakeLikeRemote{}
	s := NewLikeSet(remote, nil)
	ctx := context.Background()

	_, err := s.Toggle(ctx, "9")
	require.NoError(t, err)
	waitSync(t, s)

	// 同步完成后的新拉取以服务端为准
	remote.mu.Lock()
	remote.liked = nil
	remote.mu.Unlock()
	require.NoError(t, s.Load(ctx))
	assert.False(t, s.IsLiked("9"))
}

func TestToggleSavesLocalSnapshot(t *testing.T) {
	store := &memoryStore{}
	s := NewLikeSet(&fakeLikeRemote{err: errNetwork}, store)

	_, err := s.Toggle(context.Background(), "7")
	require.NoError(t, err)
	waitSync(t, s)

	restored := NewLikeSet(&fakeLikeRemote{listErr: errNetwork}, store)
	require.NoError(t, restored.LoadLocal(context.Background()))
	assert.True(t, restored.IsLiked("7"))
}

func TestReconcileReportsDrift(t *testing.T) {
	remote := &fakeLikeRemote{liked: []string{"1", "7"}}
	s := NewLikeSet(remote, nil)
	require.NoError(t, s.Load(context.Background()))

	// the remote rejects the sync, so the tiers drift apart
	remote.mu.Lock()
	remote.err = errNetwork
	remote.mu.Unlock()
	_, err := s.Toggle(context.Background(), "7")
	require.NoError(t, err)
	_, err = s.Toggle(context.Background(), "42")
	require.NoError(t, err)
	waitSync(t, s)

	drift, err := s.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, drift.LocalOnly)
	assert.Equal(t, []string{"7"}, drift.RemoteOnly)
	assert.False(t, drift.Empty())
	assert.True(t, s.IsLiked("42"), "reconcile does not modify the local tier")

	remote.mu.Lock()
	remote.listErr = errNetwork
	remote.mu.Unlock()
	_, err = s.Reconcile(context.Background())
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}
