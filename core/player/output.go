package player

import (
	"context"
	"time"
)

// Output is the single audio device. Only the Engine may drive it.
type Output interface {
	// Load sets a new source and blocks until it is ready to play, the
	// context is cancelled, or decoding fails. It returns the media duration,
	// or 0 when unknown. ended is called at most once, when the source stops
	// on its own: with nil after playing through to its end, or with the
	// cause when playback broke off. It is never called after Stop or after
	// another Load. Implementations must not hold their own locks while
	// calling it.
	Load(ctx context.Context, uri string, ended func(err error)) (time.Duration, error)
	Play() error
	Pause() error
	Stop() error
	Seek(pos time.Duration) error
	SetVolume(v float64) error
	Position() time.Duration
}

// Load is the awaitable result of one load attempt. Every call to Play (and
// every navigation that plays something) creates a new attempt with a higher
// generation; attempts that lose the race finish with ErrSuperseded.
type Load struct {
	gen  uint64
	done chan struct{}
	err  error
}

func newLoad(gen uint64) *Load {
	return &Load{gen: gen, done: make(chan struct{})}
}

func failedLoad(err error) *Load {
	l := newLoad(0)
	l.finish(err)
	return l
}

func (l *Load) finish(err error) {
	l.err = err
	close(l.done)
}

// Generation identifies the attempt. It is 0 for requests rejected up front.
func (l *Load) Generation() uint64 {
	return l.gen
}

// Done is closed once the attempt has settled.
func (l *Load) Done() <-chan struct{} {
	return l.done
}

// Err returns the outcome. It is only meaningful after Done is closed.
func (l *Load) Err() error {
	select {
	case <-l.done:
		return l.err
	default:
		return nil
	}
}

// Wait blocks until the attempt settles or ctx is done.
func (l *Load) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		return l.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
