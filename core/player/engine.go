package player

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"MePlay/logger"
	"MePlay/model"
)

const defaultVolume = 0.7

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for shuffle.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithVolume sets the initial volume.
func WithVolume(v float64) Option {
	return func(e *Engine) {
		e.volume = clampVolume(v)
	}
}

// WithDefaultContext sets the list toggle falls back to when nothing has
// been played yet, usually the catalog view.
func WithDefaultContext(fn func() *TrackList) Option {
	return func(e *Engine) {
		e.defaultContext = fn
	}
}

type subscriber struct {
	id int
	fn Observer
}

// Engine owns the single audio output and the playback session.
//
// All state lives behind mu. Loads run in their own goroutine and are tagged
// with a generation; whatever comes back for an older generation is
// discarded, which is how a newer play pre-empts an in-flight one.
type Engine struct {
	mu sync.Mutex

	out            Output
	queue          *Queue
	defaultContext func() *TrackList
	rng            *rand.Rand

	gen        uint64
	cancelLoad context.CancelFunc
	// ctx of the most recent play request, reused for automatic advance
	lastCtx context.Context

	list     *TrackList
	track    *model.Track
	state    State
	lastErr  error
	duration time.Duration
	volume   float64
	shuffle  bool
	repeat   RepeatMode

	subs   []subscriber
	nextID int
	// seq numbers snapshots under mu; fanout delivers them in that order
	seq       uint64
	fanout    sync.Mutex
	delivered uint64
}

// NewEngine creates an idle engine driving out. A nil queue gets an empty
// queue that cannot resolve ids.
func NewEngine(out Output, queue *Queue, opts ...Option) *Engine {
	if queue == nil {
		queue = NewQueue(nil)
	}
	e := &Engine{
		out:     out,
		queue:   queue,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		volume:  defaultVolume,
		lastCtx: context.Background(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Queue returns the engine's play-next queue.
func (e *Engine) Queue() *Queue {
	return e.queue
}

// Play stops whatever is current and starts loading list[index]. The list
// becomes the current context. An empty list or bad index leaves the session
// untouched and returns an already-failed Load.
func (e *Engine) Play(ctx context.Context, list *TrackList, index int) *Load {
	e.mu.Lock()
	ld, err := e.playLocked(ctx, list, index)
	return e.finishCommand("play", ld, err)
}

// Next advances: queue front first, then the current context.
func (e *Engine) Next(ctx context.Context) *Load {
	e.mu.Lock()
	ld, err := e.advanceLocked(ctx, false)
	return e.finishCommand("next", ld, err)
}

// Previous steps back within the current context. The queue is not consulted.
func (e *Engine) Previous(ctx context.Context) *Load {
	e.mu.Lock()
	var (
		ld  *Load
		err error
	)
	if e.list.Len() == 0 {
		err = ErrEmptyContext
	} else {
		idx := e.list.prevIndex()
		if e.shuffle {
			idx = e.shuffleIndexLocked()
		}
		ld, err = e.playLocked(ctx, e.list, idx)
	}
	return e.finishCommand("previous", ld, err)
}

// PlayQueued removes the queue entry at index and plays it as a singleton
// queue context.
func (e *Engine) PlayQueued(ctx context.Context, index int) *Load {
	e.mu.Lock()
	var (
		ld  *Load
		err error
	)
	t, err := e.queue.DequeueAt(index)
	if err == nil {
		ld, err = e.playLocked(ctx, NewTrackList(OriginQueue, []model.Track{t}), 0)
	}
	return e.finishCommand("play queued", ld, err)
}

// TogglePlayPause pauses or resumes the loaded track. With nothing loaded it
// plays index 0 of the current context, or of the default context when
// there is none. After a failed load it retries the same track.
// The returned Load is nil when no new load was started.
func (e *Engine) TogglePlayPause(ctx context.Context) (*Load, error) {
	e.mu.Lock()
	switch e.state {
	case StatePlaying:
		if err := e.out.Pause(); err != nil {
			e.mu.Unlock()
			return nil, fmt.Errorf("pause: %w", err)
		}
		e.state = StatePaused
		e.notifyAndUnlock()
		return nil, nil
	case StatePaused:
		if err := e.out.Play(); err != nil {
			e.mu.Unlock()
			return nil, fmt.Errorf("resume: %w", err)
		}
		e.state = StatePlaying
		e.notifyAndUnlock()
		return nil, nil
	case StateLoading:
		e.mu.Unlock()
		return nil, nil
	}

	var (
		ld  *Load
		err error
	)
	switch {
	case e.state == StateError && e.list.Cursor() >= 0:
		ld, err = e.playLocked(ctx, e.list, e.list.Cursor())
	case e.list.Len() > 0:
		ld, err = e.playLocked(ctx, e.list, 0)
	default:
		var list *TrackList
		if e.defaultContext != nil {
			list = e.defaultContext()
		}
		ld, err = e.playLocked(ctx, list, 0)
	}
	ld = e.finishCommand("toggle", ld, err)
	if err != nil {
		return nil, err
	}
	return ld, nil
}

// Seek moves the playhead of the loaded track, clamped to [0, duration].
func (e *Engine) Seek(pos time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seekLocked(pos)
}

// SeekTrack seeks only if gen is still the current load generation; commands
// aimed at a superseded track are dropped silently.
func (e *Engine) SeekTrack(gen uint64, pos time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		logger.Debug("dropping seek for superseded track", logger.Uint64("gen", gen), logger.Uint64("current", e.gen))
		return nil
	}
	return e.seekLocked(pos)
}

func (e *Engine) seekLocked(pos time.Duration) error {
	if e.state != StatePlaying && e.state != StatePaused {
		return ErrNoTrackLoaded
	}
	if e.duration <= 0 {
		return ErrDurationUnknown
	}
	if pos < 0 {
		pos = 0
	}
	if pos > e.duration {
		pos = e.duration
	}
	if err := e.out.Seek(pos); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	return nil
}

// SetVolume clamps v to [0, 1] and applies it immediately.
func (e *Engine) SetVolume(v float64) (float64, error) {
	e.mu.Lock()
	e.volume = clampVolume(v)
	vol := e.volume
	if e.state == StatePlaying || e.state == StatePaused {
		if err := e.out.SetVolume(vol); err != nil {
			e.mu.Unlock()
			return vol, fmt.Errorf("set volume: %w", err)
		}
	}
	e.notifyAndUnlock()
	return vol, nil
}

// SetShuffle turns shuffle on or off.
func (e *Engine) SetShuffle(on bool) {
	e.mu.Lock()
	e.shuffle = on
	e.notifyAndUnlock()
}

// ToggleShuffle flips shuffle and returns the new value.
func (e *Engine) ToggleShuffle() bool {
	e.mu.Lock()
	e.shuffle = !e.shuffle
	on := e.shuffle
	e.notifyAndUnlock()
	return on
}

// SetRepeat sets the repeat mode.
func (e *Engine) SetRepeat(m RepeatMode) {
	e.mu.Lock()
	e.repeat = m
	e.notifyAndUnlock()
}

// CycleRepeat steps none -> all -> one -> none and returns the new mode.
func (e *Engine) CycleRepeat() RepeatMode {
	e.mu.Lock()
	e.repeat = e.repeat.next()
	m := e.repeat
	e.notifyAndUnlock()
	return m
}

// Stop halts output and unloads the track. The context is kept.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.stopLocked()
	e.notifyAndUnlock()
}

// Position reports the playhead of the loaded track.
func (e *Engine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StatePlaying && e.state != StatePaused {
		return 0
	}
	return e.out.Position()
}

// Generation returns the current load generation.
func (e *Engine) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen
}

// Snapshot returns a copy of the session state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe registers fn for state changes and returns a function that
// removes it. Observers run outside the engine lock, one snapshot at a time
// and in subscription order. A snapshot that is older than one already
// delivered is dropped, so observers never go back in time. Observers must
// not call Engine methods that change state.
func (e *Engine) Subscribe(fn Observer) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscriber{id: id, fn: fn})
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// playLocked makes list[index] current and starts its load.
func (e *Engine) playLocked(ctx context.Context, list *TrackList, index int) (*Load, error) {
	if list.Len() == 0 {
		return nil, ErrEmptyContext
	}
	if index < 0 {
		return nil, fmt.Errorf("play %s[%d]: %w", list.Origin(), index, ErrIndexOutOfRange)
	}
	positioned, err := list.withCursor(index)
	if err != nil {
		return nil, fmt.Errorf("play %s[%d]: %w", list.Origin(), index, err)
	}
	track, _ := positioned.At(index)

	e.gen++
	gen := e.gen
	e.halt()

	loadCtx, cancel := context.WithCancel(ctx)
	e.cancelLoad = cancel
	e.lastCtx = ctx
	e.list = positioned
	e.track = &track
	e.state = StateLoading
	e.duration = 0
	e.lastErr = nil

	ld := newLoad(gen)
	go e.load(loadCtx, gen, track, ld)
	return ld, nil
}

func (e *Engine) load(ctx context.Context, gen uint64, track model.Track, ld *Load) {
	dur, err := e.out.Load(ctx, track.AudioURI, func(playErr error) {
		if playErr != nil {
			go e.trackFailed(gen, playErr)
			return
		}
		go e.trackEnded(gen)
	})

	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		logger.Debug("discarding superseded load", logger.String("track", track.ID), logger.Uint64("gen", gen))
		ld.finish(ErrSuperseded)
		return
	}
	if e.cancelLoad != nil {
		e.cancelLoad()
		e.cancelLoad = nil
	}
	if err == nil {
		err = e.out.SetVolume(e.volume)
	}
	if err == nil {
		err = e.out.Play()
	}
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", ErrPlaybackFailed, track.ID, err)
		e.state = StateError
		e.lastErr = err
		e.duration = 0
		logger.Error("playback failed", logger.String("track", track.ID), logger.String("uri", track.AudioURI), logger.ErrorField(err))
	} else {
		e.state = StatePlaying
		e.duration = dur
		logger.Info("now playing",
			logger.String("track", track.ID),
			logger.String("title", track.Label()),
			logger.String("origin", string(e.list.Origin())),
			logger.Int("cursor", e.list.Cursor()),
			logger.Duration("duration", dur))
	}
	e.notifyAndUnlock()
	ld.finish(err)
}

// trackEnded is the natural end of generation gen.
func (e *Engine) trackEnded(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || e.state != StatePlaying {
		e.mu.Unlock()
		return
	}
	ld, err := e.advanceLocked(e.lastCtx, true)
	if err != nil {
		e.mu.Unlock()
		logger.Warn("auto advance failed", logger.ErrorField(err))
		return
	}
	if ld == nil {
		logger.Info("end of list reached")
	}
	e.notifyAndUnlock()
}

// trackFailed is generation gen breaking off mid-play. Playback halts in
// the error state and nothing advances; a fresh play (or toggle) recovers.
func (e *Engine) trackFailed(gen uint64, cause error) {
	e.mu.Lock()
	if gen != e.gen || (e.state != StatePlaying && e.state != StatePaused) {
		e.mu.Unlock()
		return
	}
	id := ""
	if e.track != nil {
		id = e.track.ID
	}
	err := fmt.Errorf("%w: %s: %v", ErrPlaybackFailed, id, cause)
	if stopErr := e.out.Stop(); stopErr != nil {
		logger.Debug("output stop", logger.ErrorField(stopErr))
	}
	e.state = StateError
	e.lastErr = err
	e.duration = 0
	logger.Error("playback broke off", logger.String("track", id), logger.ErrorField(err))
	e.notifyAndUnlock()
}

// advanceLocked resolves and plays the next track. natural is true on track
// end, where repeat applies. A nil Load with nil error means playback
// stopped at the end of the list.
func (e *Engine) advanceLocked(ctx context.Context, natural bool) (*Load, error) {
	if t, ok := e.queue.pop(); ok {
		return e.playLocked(ctx, NewTrackList(OriginQueue, []model.Track{t}), 0)
	}
	if e.list.Len() == 0 {
		return nil, ErrEmptyContext
	}
	if natural && e.repeat == RepeatOne && e.list.Cursor() >= 0 {
		return e.playLocked(ctx, e.list, e.list.Cursor())
	}
	if e.shuffle {
		return e.playLocked(ctx, e.list, e.shuffleIndexLocked())
	}
	if natural && e.repeat == RepeatNone && e.list.atEnd() {
		e.stopLocked()
		return nil, nil
	}
	return e.playLocked(ctx, e.list, e.list.nextIndex())
}

// shuffleIndexLocked draws uniformly among the indices other than the cursor.
func (e *Engine) shuffleIndexLocked() int {
	n := e.list.Len()
	cur := e.list.Cursor()
	if n == 1 || cur < 0 {
		return e.rng.Intn(n)
	}
	i := e.rng.Intn(n - 1)
	if i >= cur {
		i++
	}
	return i
}

func (e *Engine) stopLocked() {
	e.gen++
	e.halt()
	e.track = nil
	e.state = StateIdle
	e.duration = 0
	e.lastErr = nil
}

// halt cancels any pending load and silences the output.
func (e *Engine) halt() {
	if e.cancelLoad != nil {
		e.cancelLoad()
		e.cancelLoad = nil
	}
	if err := e.out.Stop(); err != nil {
		logger.Debug("output stop", logger.ErrorField(err))
	}
}

// finishCommand releases the lock held by a navigation command, notifies
// observers on success and converts a rejected request into a failed Load.
func (e *Engine) finishCommand(op string, ld *Load, err error) *Load {
	if err != nil {
		e.mu.Unlock()
		logger.Warn(op+" rejected", logger.ErrorField(err))
		return failedLoad(err)
	}
	e.notifyAndUnlock()
	return ld
}

// notifyAndUnlock snapshots under the lock, releases it, then fans out.
// The command goroutine and a load goroutine can both get here at once;
// the sequence number taken under mu decides which snapshot is newer.
func (e *Engine) notifyAndUnlock() {
	e.seq++
	seq := e.seq
	snap := e.snapshotLocked()
	subs := make([]subscriber, len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	e.fanout.Lock()
	defer e.fanout.Unlock()
	if seq <= e.delivered {
		return
	}
	e.delivered = seq
	for _, s := range subs {
		s.fn(snap)
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	s := Snapshot{
		Generation:  e.gen,
		State:       e.state,
		IsPlaying:   e.state == StatePlaying,
		Volume:      e.volume,
		Shuffle:     e.shuffle,
		Repeat:      e.repeat,
		Origin:      e.list.Origin(),
		Cursor:      e.list.Cursor(),
		Duration:    e.duration,
		QueueLength: e.queue.Len(),
	}
	if e.track != nil {
		t := *e.track
		s.Track = &t
	}
	if e.lastErr != nil {
		s.Error = e.lastErr.Error()
	}
	return s
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
