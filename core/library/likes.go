package library

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"MePlay/logger"
	"MePlay/model"
)

// ToggleResult is what the user is told after a toggle. Message is always a
// success message: remote failures never surface here.
type ToggleResult struct {
	ID      string
	Liked   bool
	Message string
}

// SyncResult reports how a background sync ended.
type SyncResult struct {
	ID    string
	Liked bool
	// Skipped is set when a newer toggle on the same id made the request moot.
	Skipped bool
	// Ack is the durable tier's answer when the request got one.
	Ack model.Ack
	Err error
}

// Drift lists the ids on which the two tiers disagree.
type Drift struct {
	LocalOnly  []string `json:"local_only"`
	RemoteOnly []string `json:"remote_only"`
}

// Empty reports whether the tiers agree.
func (d Drift) Empty() bool {
	return len(d.LocalOnly) == 0 && len(d.RemoteOnly) == 0
}

// LikeSet is the user's liked tracks. Reads only touch the local tier.
// Toggles commit locally first and then converge the durable tier in the
// background; a failed remote call is logged and the local state is kept.
type LikeSet struct {
	remote LikeRemote
	store  LocalStore

	mu    sync.Mutex
	liked map[string]struct{}
	// order is most recent first; trusted only when ordered is set
	order   []string
	ordered bool
	// clock counts toggles; seq holds the clock value of each id's last toggle
	clock uint64
	seq   map[string]uint64
	// tail holds the in-flight sync per id; a new sync waits for it
	tail   map[string]chan struct{}
	onSync func(SyncResult)

	wg sync.WaitGroup
}

// NewLikeSet creates an empty set. store may be nil.
func NewLikeSet(remote LikeRemote, store LocalStore) *LikeSet {
	return &LikeSet{
		remote: remote,
		store:  store,
		liked:  map[string]struct{}{},
		seq:    map[string]uint64{},
		tail:   map[string]chan struct{}{},
	}
}

// OnSync registers fn to be called after every background sync.
func (s *LikeSet) OnSync(fn func(SyncResult)) {
	s.mu.Lock()
	s.onSync = fn
	s.mu.Unlock()
}

// Load fills the local tier from the durable tier. When that fails and a
// local store is configured, the last saved snapshot is used instead and
// the remote error is still returned. Ids with a sync in flight keep their
// local value.
func (s *LikeSet) Load(ctx context.Context) error {
	since := s.now()
	ids, err := s.remote.LikedIDs(ctx)
	if err != nil {
		remoteErr := fmt.Errorf("%w: liked songs: %v", ErrRemoteUnavailable, err)
		if s.store == nil {
			return remoteErr
		}
		if localErr := s.loadLocal(ctx, since); localErr != nil {
			logger.Warn("like cache fallback failed", logger.ErrorField(localErr))
			return remoteErr
		}
		logger.Warn("durable like tier unreachable, using local snapshot", logger.ErrorField(err))
		return remoteErr
	}

	s.mu.Lock()
	s.replaceLocked(ids, true, since)
	snapshot := s.idsLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	logger.Info("likes loaded", logger.Int("count", len(snapshot)))
	return nil
}

// LoadLocal fills the local tier from the local store only.
func (s *LikeSet) LoadLocal(ctx context.Context) error {
	return s.loadLocal(ctx, s.now())
}

func (s *LikeSet) loadLocal(ctx context.Context, since uint64) error {
	if s.store == nil {
		return nil
	}
	ids, err := s.store.LoadLikes(ctx)
	if err != nil {
		return fmt.Errorf("load local likes: %w", err)
	}
	s.mu.Lock()
	s.replaceLocked(ids, false, since)
	s.mu.Unlock()
	return nil
}

func (s *LikeSet) now() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

// replaceLocked installs ids fetched from a tier. Ids toggled after since,
// the clock value taken before the fetch, keep their local value: the
// fetched list may predate the toggle even when its sync has finished.
func (s *LikeSet) replaceLocked(ids []string, ordered bool, since uint64) {
	liked := make(map[string]struct{}, len(ids))
	order := make([]string, 0, len(ids))
	for _, raw := range ids {
		id, err := model.CanonicalID(raw)
		if err != nil {
			continue
		}
		if _, dup := liked[id]; dup {
			continue
		}
		liked[id] = struct{}{}
		order = append(order, id)
	}

	for id, at := range s.seq {
		// a sync still in flight may or may not be in the fetched list
		if _, pending := s.tail[id]; at <= since && !pending {
			continue
		}
		_, local := s.liked[id]
		_, remote := liked[id]
		switch {
		case local && !remote:
			liked[id] = struct{}{}
			order = append([]string{id}, order...)
		case !local && remote:
			delete(liked, id)
			order = removeID(order, id)
		}
	}

	s.liked = liked
	s.order = order
	s.ordered = ordered
}

// IsLiked reports local-tier membership. It never blocks on the network.
func (s *LikeSet) IsLiked(id string) bool {
	canon, err := model.CanonicalID(id)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.liked[canon]
	return ok
}

// Len returns the number of liked tracks.
func (s *LikeSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.liked)
}

// IDs returns the liked ids, most recent first, and whether that order came
// from the durable tier.
func (s *LikeSet) IDs() ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idsLocked(), s.ordered
}

func (s *LikeSet) idsLocked() []string {
	cp := make([]string, len(s.order))
	copy(cp, s.order)
	return cp
}

// Toggle flips the like state of id in the local tier and starts the
// background sync. The only error is an unusable id.
func (s *LikeSet) Toggle(ctx context.Context, id string) (ToggleResult, error) {
	canon, err := model.CanonicalID(id)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("toggle like %q: %w", id, err)
	}

	s.mu.Lock()
	_, was := s.liked[canon]
	liked := !was
	if liked {
		s.liked[canon] = struct{}{}
		s.order = append([]string{canon}, removeID(s.order, canon)...)
	} else {
		delete(s.liked, canon)
		s.order = removeID(s.order, canon)
	}
	s.clock++
	s.seq[canon] = s.clock
	seq := s.clock
	prev := s.tail[canon]
	done := make(chan struct{})
	s.tail[canon] = done
	s.mu.Unlock()

	s.wg.Add(1)
	go s.sync(context.WithoutCancel(ctx), canon, liked, seq, prev, done)

	res := ToggleResult{ID: canon, Liked: liked, Message: "Removed from liked songs"}
	if liked {
		res.Message = "Added to liked songs"
	}
	return res, nil
}

// sync converges the durable tier for one toggle. Requests on the same id
// run one after another; a request whose toggle has been superseded is
// skipped since the newer one carries the final state.
func (s *LikeSet) sync(ctx context.Context, id string, liked bool, seq uint64, prev, done chan struct{}) {
	defer s.wg.Done()
	defer close(done)
	if prev != nil {
		<-prev
	}

	s.mu.Lock()
	current := s.seq[id]
	snapshot := s.idsLocked()
	s.mu.Unlock()

	res := SyncResult{ID: id, Liked: liked}
	if current != seq {
		res.Skipped = true
	} else {
		s.persist(ctx, snapshot)
		if liked {
			res.Ack, res.Err = s.remote.Like(ctx, id)
		} else {
			res.Ack, res.Err = s.remote.Unlike(ctx, id)
		}
		switch {
		case res.Err != nil:
			logger.Warn("like sync failed, keeping local state",
				logger.String("track", id), logger.Bool("liked", liked), logger.ErrorField(res.Err))
		case !res.Ack.Success:
			logger.Info("like sync not applied",
				logger.String("track", id), logger.Bool("liked", liked), logger.String("message", res.Ack.Message))
		default:
			logger.Debug("like synced", logger.String("track", id), logger.Bool("liked", liked))
		}
	}

	s.mu.Lock()
	if s.tail[id] == done {
		delete(s.tail, id)
	}
	onSync := s.onSync
	s.mu.Unlock()
	if onSync != nil {
		onSync(res)
	}
}

func (s *LikeSet) persist(ctx context.Context, ids []string) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveLikes(ctx, ids); err != nil {
		logger.Warn("like cache save failed", logger.ErrorField(err))
	}
}

// Wait blocks until every background sync started so far has finished.
func (s *LikeSet) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reconcile compares the local tier with the durable tier and reports the
// difference. Neither tier is modified.
func (s *LikeSet) Reconcile(ctx context.Context) (Drift, error) {
	ids, err := s.remote.LikedIDs(ctx)
	if err != nil {
		return Drift{}, fmt.Errorf("%w: liked songs: %v", ErrRemoteUnavailable, err)
	}
	remote := map[string]struct{}{}
	for _, raw := range ids {
		if id, err := model.CanonicalID(raw); err == nil {
			remote[id] = struct{}{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	drift := Drift{LocalOnly: []string{}, RemoteOnly: []string{}}
	for id := range s.liked {
		if _, ok := remote[id]; !ok {
			drift.LocalOnly = append(drift.LocalOnly, id)
		}
	}
	for id := range remote {
		if _, ok := s.liked[id]; !ok {
			drift.RemoteOnly = append(drift.RemoteOnly, id)
		}
	}
	sort.Strings(drift.LocalOnly)
	sort.Strings(drift.RemoteOnly)
	return drift, nil
}

func removeID(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
