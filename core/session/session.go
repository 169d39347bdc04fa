package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"MePlay/core/library"
	"MePlay/core/player"
	"MePlay/logger"
	"MePlay/model"
)

// Remote is everything the session needs from the durable tier.
type Remote interface {
	library.CatalogRemote
	library.LikeRemote
	library.PlaylistRemote
}

// Session is the one playback session of the process. It is built once and
// handed to every consumer; there are no package-level singletons.
type Session struct {
	ID        string
	Catalog   *library.Catalog
	Likes     *library.LikeSet
	Playlists *library.PlaylistStore
	Resolver  *library.Resolver
	Engine    *player.Engine

	// ctx outlives individual commands so automatic advance keeps working
	ctx    context.Context
	cancel context.CancelFunc
}

// New wires a session. store may be nil.
func New(remote Remote, out player.Output, store library.LocalStore, opts ...player.Option) *Session {
	catalog := library.NewCatalog(remote)
	likes := library.NewLikeSet(remote, store)
	playlists := library.NewPlaylistStore(remote, catalog)

	opts = append([]player.Option{player.WithDefaultContext(catalog.List)}, opts...)
	engine := player.NewEngine(out, player.NewQueue(catalog), opts...)

	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:        uuid.NewString(),
		Catalog:   catalog,
		Likes:     likes,
		Playlists: playlists,
		Resolver:  library.NewResolver(catalog, likes, playlists),
		Engine:    engine,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start loads the catalog and the like set. Failures are reported but leave
// the session usable with whatever could be loaded.
func (s *Session) Start(ctx context.Context) error {
	var errs []error
	if err := s.Catalog.Refresh(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.Likes.Load(ctx); err != nil {
		errs = append(errs, err)
	}
	logger.Info("session started",
		logger.String("session", s.ID),
		logger.Int("tracks", s.Catalog.Len()),
		logger.Int("likes", s.Likes.Len()))
	return errors.Join(errs...)
}

// Open resolves a view without playing it.
func (s *Session) Open(ctx context.Context, v library.View) (*player.TrackList, error) {
	list, err := s.Resolver.Resolve(ctx, v)
	if err != nil {
		logger.Warn("view degraded", logger.String("origin", string(v.Origin())), logger.ErrorField(err))
	}
	return list, err
}

// PlayView resolves v and plays its track at index. A view that fails to
// resolve still goes through the engine, which rejects the empty list.
func (s *Session) PlayView(ctx context.Context, v library.View, index int) (*player.Load, error) {
	list, err := s.Open(ctx, v)
	return s.Engine.Play(s.ctx, list, index), err
}

// Play plays list[index].
func (s *Session) Play(list *player.TrackList, index int) *player.Load {
	return s.Engine.Play(s.ctx, list, index)
}

func (s *Session) Next() *player.Load {
	return s.Engine.Next(s.ctx)
}

func (s *Session) Previous() *player.Load {
	return s.Engine.Previous(s.ctx)
}

func (s *Session) TogglePlayPause() (*player.Load, error) {
	return s.Engine.TogglePlayPause(s.ctx)
}

// PlayQueued plays the queue entry at index, removing it from the queue.
func (s *Session) PlayQueued(index int) *player.Load {
	return s.Engine.PlayQueued(s.ctx, index)
}

// Enqueue appends a catalog track to the play-next queue.
func (s *Session) Enqueue(trackID string) (model.Track, error) {
	return s.Engine.Queue().Enqueue(trackID)
}

func (s *Session) DequeueAt(index int) (model.Track, error) {
	return s.Engine.Queue().DequeueAt(index)
}

func (s *Session) ClearQueue() {
	s.Engine.Queue().Clear()
}

// ToggleLike flips the like state of trackID.
func (s *Session) ToggleLike(ctx context.Context, trackID string) (library.ToggleResult, error) {
	return s.Likes.Toggle(ctx, trackID)
}

// ToggleCurrentLike flips the like state of the loaded track.
func (s *Session) ToggleCurrentLike(ctx context.Context) (library.ToggleResult, error) {
	snap := s.Engine.Snapshot()
	if snap.Track == nil {
		return library.ToggleResult{}, player.ErrNoTrackLoaded
	}
	return s.Likes.Toggle(ctx, snap.Track.ID)
}

func (s *Session) IsLiked(trackID string) bool {
	return s.Likes.IsLiked(trackID)
}

// Close stops playback and waits for pending like syncs.
func (s *Session) Close(ctx context.Context) error {
	s.Engine.Stop()
	s.cancel()
	if err := s.Likes.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for like sync: %w", err)
	}
	logger.Info("session closed", logger.String("session", s.ID))
	return nil
}
