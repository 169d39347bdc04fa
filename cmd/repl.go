package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"MePlay/core/library"
	"MePlay/core/player"
	"MePlay/core/session"
	"MePlay/model"
)

var errQuit = errors.New("quit")

type command struct {
	usage string
	run   func(ctx context.Context, args []string) error
}

// repl drives a session from text commands. Track numbers are 1-based and
// refer to the last list shown.
type repl struct {
	s    *session.Session
	out  io.Writer
	view *player.TrackList
	// wait bounds how long a command waits for its track to become ready
	wait     time.Duration
	commands map[string]command
}

func newREPL(s *session.Session, out io.Writer) *repl {
	r := &repl{s: s, out: out, wait: 5 * time.Second}
	r.commands = map[string]command{
		"ls":        {"ls                  list the catalog", r.cmdCatalog},
		"liked":     {"liked               list liked songs", r.cmdLiked},
		"search":    {"search <text>       search title, artist, album", r.cmdSearch},
		"genre":     {"genre <g> [text]    browse a genre", r.cmdGenre},
		"genres":    {"genres              list genres", r.cmdGenres},
		"playlists": {"playlists           list playlists", r.cmdPlaylists},
		"open":      {"open <playlist>     list a playlist's songs", r.cmdOpen},
		"play":      {"play <n>            play track n of the last list", r.cmdPlay},
		"p":         {"p                   play / pause", r.cmdToggle},
		"next":      {"next                next track", r.cmdNext},
		"prev":      {"prev                previous track", r.cmdPrev},
		"stop":      {"stop                stop playback", r.cmdStop},
		"seek":      {"seek <seconds>      seek in the current track", r.cmdSeek},
		"vol":       {"vol <0-100>         set volume", r.cmdVolume},
		"shuffle":   {"shuffle             toggle shuffle", r.cmdShuffle},
		"repeat":    {"repeat [mode]       cycle or set none|all|one", r.cmdRepeat},
		"status":    {"status              show what is playing", r.cmdStatus},
		"q":         {"q <track id>        add to the play-next queue", r.cmdEnqueue},
		"queue":     {"queue               show the queue", r.cmdQueue},
		"dq":        {"dq <n>              remove queue entry n", r.cmdDequeue},
		"playq":     {"playq <n>           play queue entry n now", r.cmdPlayQueued},
		"clearq":    {"clearq              empty the queue", r.cmdClearQueue},
		"like":      {"like [track id]     like / unlike (default: current)", r.cmdLike},
		"mkpl":      {"mkpl <name> [| desc] create a playlist", r.cmdCreatePlaylist},
		"rmpl":      {"rmpl <playlist>     delete a playlist", r.cmdDeletePlaylist},
		"pladd":     {"pladd <pl> <track>  add a track to a playlist", r.cmdPlaylistAdd},
		"plrm":      {"plrm <pl> <track>   remove a track from a playlist", r.cmdPlaylistRemove},
		"drift":     {"drift               compare local likes with the server", r.cmdDrift},
		"help":      {"help                this text", r.cmdHelp},
		"quit":      {"quit                exit", func(context.Context, []string) error { return errQuit }},
	}
	return r
}

// exec runs one line. It reports whether the user asked to quit.
func (r *repl) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	name := strings.ToLower(fields[0])
	if name == "exit" {
		name = "quit"
	}
	c, ok := r.commands[name]
	if !ok {
		fmt.Fprintf(r.out, "unknown command %q, try help\n", fields[0])
		return false
	}
	if err := c.run(ctx, fields[1:]); err != nil {
		if errors.Is(err, errQuit) {
			return true
		}
		fmt.Fprintf(r.out, "error: %v\n", err)
	}
	return false
}

// ========== 浏览 ==========

func (r *repl) show(ctx context.Context, v library.View) error {
	list, err := r.s.Open(ctx, v)
	r.view = list
	r.printTracks(list.Tracks())
	return err
}

func (r *repl) printTracks(tracks []model.Track) {
	if len(tracks) == 0 {
		fmt.Fprintln(r.out, "(no tracks)")
		return
	}
	for i, t := range tracks {
		mark := " "
		if r.s.IsLiked(t.ID) {
			mark = "*"
		}
		fmt.Fprintf(r.out, "%3d %s %-40s %-6s [%s]\n", i+1, mark, t.Label(), t.Duration, t.ID)
	}
}

func (r *repl) cmdCatalog(ctx context.Context, _ []string) error {
	return r.show(ctx, library.CatalogView())
}

func (r *repl) cmdLiked(ctx context.Context, _ []string) error {
	return r.show(ctx, library.LikedView())
}

func (r *repl) cmdSearch(ctx context.Context, args []string) error {
	return r.show(ctx, library.SearchView(strings.Join(args, " "), ""))
}

func (r *repl) cmdGenre(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: genre <g> [text]")
	}
	return r.show(ctx, library.SearchView(strings.Join(args[1:], " "), args[0]))
}

func (r *repl) cmdGenres(context.Context, []string) error {
	for _, g := range r.s.Catalog.Genres() {
		fmt.Fprintln(r.out, g)
	}
	return nil
}

func (r *repl) cmdPlaylists(ctx context.Context, _ []string) error {
	lists, err := r.s.Playlists.List(ctx)
	if err != nil {
		return err
	}
	if len(lists) == 0 {
		fmt.Fprintln(r.out, "(no playlists)")
	}
	for _, p := range lists {
		fmt.Fprintf(r.out, "%s  %-30s %d songs\n", p.ID, p.Name, p.SongCount)
	}
	return nil
}

func (r *repl) cmdOpen(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: open <playlist>")
	}
	return r.show(ctx, library.PlaylistView(args[0]))
}

// ========== 播放控制 ==========

func (r *repl) report(ld *player.Load) error {
	if ld == nil {
		r.printState()
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.wait)
	defer cancel()
	switch err := ld.Wait(ctx); {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintln(r.out, "still loading...")
		return nil
	case errors.Is(err, player.ErrSuperseded):
		return nil
	case err != nil:
		return err
	}
	r.printState()
	return nil
}

func (r *repl) printState() {
	snap := r.s.Engine.Snapshot()
	if snap.Track == nil {
		fmt.Fprintf(r.out, "[%s]\n", snap.State)
		return
	}
	fmt.Fprintf(r.out, "[%s] %s\n", snap.State, snap.Track.Label())
}

func parseIndex(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected a track number")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("bad number %q", args[0])
	}
	return n - 1, nil
}

func (r *repl) cmdPlay(_ context.Context, args []string) error {
	i, err := parseIndex(args)
	if err != nil {
		return err
	}
	list := r.view
	if list == nil {
		list = r.s.Catalog.List()
	}
	return r.report(r.s.Play(list, i))
}

func (r *repl) cmdToggle(context.Context, []string) error {
	ld, err := r.s.TogglePlayPause()
	if err != nil {
		return err
	}
	return r.report(ld)
}

func (r *repl) cmdNext(context.Context, []string) error {
	return r.report(r.s.Next())
}

func (r *repl) cmdPrev(context.Context, []string) error {
	return r.report(r.s.Previous())
}

func (r *repl) cmdStop(context.Context, []string) error {
	r.s.Engine.Stop()
	r.printState()
	return nil
}

func (r *repl) cmdSeek(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: seek <seconds>")
	}
	secs, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("bad position %q", args[0])
	}
	return r.s.Engine.Seek(time.Duration(secs * float64(time.Second)))
}

func (r *repl) cmdVolume(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: vol <0-100>")
	}
	pct, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("bad volume %q", args[0])
	}
	v, err := r.s.Engine.SetVolume(pct / 100)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "volume %d%%\n", int(v*100+0.5))
	return nil
}

func (r *repl) cmdShuffle(context.Context, []string) error {
	on := r.s.Engine.ToggleShuffle()
	fmt.Fprintf(r.out, "shuffle %v\n", on)
	return nil
}

func (r *repl) cmdRepeat(_ context.Context, args []string) error {
	var mode player.RepeatMode
	if len(args) == 0 {
		mode = r.s.Engine.CycleRepeat()
	} else {
		m, err := player.ParseRepeatMode(args[0])
		if err != nil {
			return err
		}
		r.s.Engine.SetRepeat(m)
		mode = m
	}
	fmt.Fprintf(r.out, "repeat %s\n", mode)
	return nil
}

func (r *repl) cmdStatus(context.Context, []string) error {
	snap := r.s.Engine.Snapshot()
	r.printState()
	if snap.Track != nil {
		fmt.Fprintf(r.out, "  %s / %s", formatClock(r.s.Engine.Position()), formatClock(snap.Duration))
		if r.s.IsLiked(snap.Track.ID) {
			fmt.Fprint(r.out, "  liked")
		}
		fmt.Fprintln(r.out)
	}
	fmt.Fprintf(r.out, "  volume %d%%  shuffle %v  repeat %s  queue %d  from %s\n",
		int(snap.Volume*100+0.5), snap.Shuffle, snap.Repeat, snap.QueueLength, snap.Origin)
	if snap.Error != "" {
		fmt.Fprintf(r.out, "  last error: %s\n", snap.Error)
	}
	return nil
}

func formatClock(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// ========== 队列 ==========

func (r *repl) cmdEnqueue(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: q <track id>")
	}
	t, err := r.s.Enqueue(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "queued %s\n", t.Label())
	return nil
}

func (r *repl) cmdQueue(context.Context, []string) error {
	items := r.s.Engine.Queue().Items()
	if len(items) == 0 {
		fmt.Fprintln(r.out, "(queue empty)")
		return nil
	}
	for i, t := range items {
		fmt.Fprintf(r.out, "%3d   %s [%s]\n", i+1, t.Label(), t.ID)
	}
	return nil
}

func (r *repl) cmdDequeue(_ context.Context, args []string) error {
	i, err := parseIndex(args)
	if err != nil {
		return err
	}
	t, err := r.s.DequeueAt(i)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "removed %s\n", t.Label())
	return nil
}

func (r *repl) cmdPlayQueued(_ context.Context, args []string) error {
	i, err := parseIndex(args)
	if err != nil {
		return err
	}
	return r.report(r.s.PlayQueued(i))
}

func (r *repl) cmdClearQueue(context.Context, []string) error {
	r.s.ClearQueue()
	return nil
}

// ========== 点赞与歌单 ==========

func (r *repl) cmdLike(ctx context.Context, args []string) error {
	var (
		res library.ToggleResult
		err error
	)
	if len(args) == 0 {
		res, err = r.s.ToggleCurrentLike(ctx)
	} else {
		res, err = r.s.ToggleLike(ctx, args[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, res.Message)
	return nil
}

func (r *repl) cmdCreatePlaylist(ctx context.Context, args []string) error {
	name, desc, _ := strings.Cut(strings.Join(args, " "), "|")
	id, err := r.s.Playlists.Create(ctx, name, desc)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "created playlist %s\n", id)
	return nil
}

func (r *repl) cmdDeletePlaylist(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: rmpl <playlist>")
	}
	if err := r.s.Playlists.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "playlist deleted")
	return nil
}

func (r *repl) cmdPlaylistAdd(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: pladd <playlist> <track id>")
	}
	if err := r.s.Playlists.AddSong(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "added")
	return nil
}

func (r *repl) cmdPlaylistRemove(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: plrm <playlist> <track id>")
	}
	if err := r.s.Playlists.RemoveSong(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "removed")
	return nil
}

func (r *repl) cmdDrift(ctx context.Context, _ []string) error {
	drift, err := r.s.Likes.Reconcile(ctx)
	if err != nil {
		return err
	}
	if drift.Empty() {
		fmt.Fprintln(r.out, "likes in sync")
		return nil
	}
	fmt.Fprintf(r.out, "local only:  %v\nremote only: %v\n", drift.LocalOnly, drift.RemoteOnly)
	return nil
}

func (r *repl) cmdHelp(context.Context, []string) error {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(r.out, "  "+r.commands[name].usage)
	}
	return nil
}
