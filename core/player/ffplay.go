package player

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"MePlay/logger"
)

// FFplayOutput plays through an ffplay child process. ffplay has no control
// channel, so pause, seek and volume changes stop the process and start a new
// one at the remembered offset.
type FFplayOutput struct {
	ffplayPath  string
	ffprobePath string

	mu        sync.Mutex
	uri       string
	duration  time.Duration
	ended     func(error)
	volume    float64
	offset    time.Duration
	startedAt time.Time
	cmd       *exec.Cmd
	// seq identifies the running process; a killed process never reports an end
	seq uint64
}

// NewFFplayOutput creates an output using the given binaries. Empty paths
// fall back to "ffplay" and "ffprobe" on PATH.
func NewFFplayOutput(ffplayPath, ffprobePath string) *FFplayOutput {
	if ffplayPath == "" {
		ffplayPath = "ffplay"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFplayOutput{ffplayPath: ffplayPath, ffprobePath: ffprobePath, volume: defaultVolume}
}

// ffprobeOutput is the subset of `ffprobe -print_format json -show_format` we read.
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Load probes uri for its duration. A source ffprobe cannot read is treated
// as a decode failure.
func (o *FFplayOutput) Load(ctx context.Context, uri string, ended func(error)) (time.Duration, error) {
	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		uri,
	}
	cmd := exec.CommandContext(ctx, o.ffprobePath, args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("ffprobe failed for %s: %w: %s", uri, err, bytes.TrimSpace(stderr.Bytes()))
	}
	dur, err := parseProbeDuration(out.Bytes())
	if err != nil {
		// 时长未知仍可播放, 只是不能 seek
		logger.Warn("unknown duration", logger.String("uri", uri), logger.ErrorField(err))
		dur = 0
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	o.killLocked()
	o.uri = uri
	o.duration = dur
	o.ended = ended
	o.offset = 0
	return dur, nil
}

// Play starts (or resumes) the loaded source.
func (o *FFplayOutput) Play() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.uri == "" {
		return ErrNoTrackLoaded
	}
	if o.cmd != nil {
		return nil
	}
	return o.startLocked()
}

// Pause stops the process and remembers where it was.
func (o *FFplayOutput) Pause() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cmd == nil {
		return nil
	}
	o.offset = o.positionLocked()
	o.killLocked()
	return nil
}

// Stop unloads the source.
func (o *FFplayOutput) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.killLocked()
	o.uri = ""
	o.ended = nil
	o.duration = 0
	o.offset = 0
	return nil
}

// Seek moves the playhead, restarting the process if it is running.
func (o *FFplayOutput) Seek(pos time.Duration) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.offset = pos
	if o.cmd == nil {
		return nil
	}
	o.killLocked()
	return o.startLocked()
}

// SetVolume applies v in [0, 1].
func (o *FFplayOutput) SetVolume(v float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.volume = v
	if o.cmd == nil {
		return nil
	}
	o.offset = o.positionLocked()
	o.killLocked()
	return o.startLocked()
}

// Position estimates the playhead from the wall clock.
func (o *FFplayOutput) Position() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.positionLocked()
}

func (o *FFplayOutput) positionLocked() time.Duration {
	if o.cmd == nil {
		return o.offset
	}
	pos := o.offset + time.Since(o.startedAt)
	if o.duration > 0 && pos > o.duration {
		pos = o.duration
	}
	return pos
}

func (o *FFplayOutput) startLocked() error {
	cmd := exec.Command(o.ffplayPath, buildArgs(o.uri, o.offset, o.volume)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffplay: %w", err)
	}
	o.seq++
	seq := o.seq
	o.cmd = cmd
	o.startedAt = time.Now()

	go func() {
		err := cmd.Wait()
		o.mu.Lock()
		if seq != o.seq {
			o.mu.Unlock()
			return
		}
		o.cmd = nil
		o.offset = 0
		ended := o.ended
		o.ended = nil
		o.mu.Unlock()

		if err != nil {
			logger.Warn("ffplay exited", logger.ErrorField(err))
			err = fmt.Errorf("ffplay exited: %w", err)
		}
		if ended != nil {
			ended(err)
		}
	}()
	return nil
}

func (o *FFplayOutput) killLocked() {
	if o.cmd == nil {
		return
	}
	o.seq++
	if o.cmd.Process != nil {
		_ = o.cmd.Process.Kill()
	}
	o.cmd = nil
}

func buildArgs(uri string, offset time.Duration, volume float64) []string {
	args := []string{
		"-nodisp",
		"-autoexit",
		"-loglevel", "error",
		"-volume", strconv.Itoa(int(clampVolume(volume)*100 + 0.5)),
	}
	if offset > 0 {
		args = append(args, "-ss", strconv.FormatFloat(offset.Seconds(), 'f', 3, 64))
	}
	return append(args, uri)
}

func parseProbeDuration(data []byte) (time.Duration, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("failed to unmarshal ffprobe output: %w", err)
	}
	if probe.Format.Duration == "" {
		return 0, fmt.Errorf("duration not found in ffprobe output")
	}
	secs, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", probe.Format.Duration, err)
	}
	if secs < 0 {
		return 0, fmt.Errorf("negative duration %q", probe.Format.Duration)
	}
	return time.Duration(math.Round(secs * float64(time.Second))), nil
}
