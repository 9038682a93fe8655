package pipeline

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/camkeep/camkeep/internal/events"
	"github.com/camkeep/camkeep/internal/ffmpeg"
	"github.com/camkeep/camkeep/internal/logging"
)

// recordingTimeFormat names recording files by their start time.
const recordingTimeFormat = "2006-01-02_15-04-05"

// RecordingExt is the container extension for archival recordings.
const RecordingExt = ".mp4"

// Default timing. Recording stops get twice the streaming budget because
// MP4 trailer finalization is slower than dropping a live segment feed.
const (
	defaultSettleDelay       = 1 * time.Second
	defaultStreamStopTimeout = 5 * time.Second
	defaultRecordStopTimeout = 10 * time.Second
	defaultKillTimeout       = 5 * time.Second
)

// StreamArgsFunc builds the spawn arguments for a live-preview pipeline and
// returns the playlist path the process will produce.
type StreamArgsFunc func(sourceURL, outDir string) (args []string, playlist string)

// RecordArgsFunc builds the spawn arguments for an archival pipeline.
type RecordArgsFunc func(sourceURL, outFile string) []string

// Options configures a Controller.
type Options struct {
	// FFmpegPath is the binary to spawn. Defaults to "ffmpeg".
	FFmpegPath string

	// MediaDir is the base directory for pipeline output. Defaults to "media".
	MediaDir string

	// Bus receives pipeline lifecycle events (optional).
	Bus *events.Bus

	// Probe overrides the binary availability check (tests).
	Probe func() bool

	// StreamArgs and RecordArgs override command construction (tests).
	StreamArgs StreamArgsFunc
	RecordArgs RecordArgsFunc

	// Timing overrides; zero values take the defaults above.
	SettleDelay       time.Duration
	StreamStopTimeout time.Duration
	RecordStopTimeout time.Duration
	KillTimeout       time.Duration
}

// Controller owns the registry of live ffmpeg processes and is the only
// way to start, stop, or inspect them. Operations on different keys run
// independently; operations on the same key are serialized through the
// registry's per-key locks.
type Controller struct {
	opts      Options
	reg       *registry
	paths     *pathResolver
	probe     func() bool
	logger    *slog.Logger
	outLogger *slog.Logger
	wg        sync.WaitGroup
}

// NewController creates a Controller with defaults filled in.
func NewController(opts *Options) *Controller {
	o := Options{}
	if opts != nil {
		o = *opts
	}
	if o.FFmpegPath == "" {
		o.FFmpegPath = "ffmpeg"
	}
	if o.MediaDir == "" {
		o.MediaDir = "media"
	}
	if o.StreamArgs == nil {
		o.StreamArgs = ffmpeg.StreamArgs
	}
	if o.RecordArgs == nil {
		o.RecordArgs = ffmpeg.RecordArgs
	}
	if o.SettleDelay == 0 {
		o.SettleDelay = defaultSettleDelay
	}
	if o.StreamStopTimeout == 0 {
		o.StreamStopTimeout = defaultStreamStopTimeout
	}
	if o.RecordStopTimeout == 0 {
		o.RecordStopTimeout = defaultRecordStopTimeout
	}
	if o.KillTimeout == 0 {
		o.KillTimeout = defaultKillTimeout
	}

	logger := logging.GetLogger("pipeline")
	c := &Controller{
		opts:      o,
		reg:       newRegistry(),
		paths:     &pathResolver{base: o.MediaDir, logger: logger},
		logger:    logger,
		outLogger: logging.GetLogger("ffmpeg"),
	}
	c.probe = o.Probe
	if c.probe == nil {
		c.probe = func() bool { return ffmpeg.Probe(o.FFmpegPath) }
	}
	return c
}

// StartStream starts the live-preview pipeline for a camera. Returns true
// when a process is running for the key afterwards, including the case
// where one already was. Failures are logged, never returned.
func (c *Controller) StartStream(cameraID, sourceURL string) bool {
	key := Key{CameraID: cameraID, Kind: KindStreaming}

	if !c.checkPreconditions(key, sourceURL) {
		return false
	}

	unlock := c.reg.lockKey(key)
	defer unlock()

	if c.reg.exists(key) {
		c.logger.Debug("Stream already running", "camera_id", cameraID)
		return true
	}

	dir, err := c.paths.Resolve(KindStreaming, cameraID)
	if err != nil {
		c.logger.Error("Cannot start stream", "camera_id", cameraID, "error", err)
		return false
	}

	args, playlist := c.opts.StreamArgs(sourceURL, dir)
	return c.launch(key, args, playlist)
}

// StopStream stops the live-preview pipeline for a camera. A missing entry
// is not an error: the stream is already stopped.
func (c *Controller) StopStream(cameraID string) bool {
	key := Key{CameraID: cameraID, Kind: KindStreaming}
	return c.stop(key, syscall.SIGTERM, nil, c.opts.StreamStopTimeout)
}

// StartRecording starts the archival pipeline for a camera. On success the
// generated container filename is returned; when a recording is already
// running its existing filename is returned instead of spawning a second
// process.
func (c *Controller) StartRecording(cameraID, sourceURL string) (string, bool) {
	key := Key{CameraID: cameraID, Kind: KindRecording}

	if !c.checkPreconditions(key, sourceURL) {
		return "", false
	}

	unlock := c.reg.lockKey(key)
	defer unlock()

	if lp, ok := c.reg.get(key); ok {
		c.logger.Debug("Recording already running", "camera_id", cameraID)
		return filepath.Base(lp.entry.OutputPath), true
	}

	dir, err := c.paths.Resolve(KindRecording, cameraID)
	if err != nil {
		c.logger.Error("Cannot start recording", "camera_id", cameraID, "error", err)
		return "", false
	}

	filename := time.Now().Format(recordingTimeFormat) + RecordingExt
	outFile := filepath.Join(dir, filename)
	args := c.opts.RecordArgs(sourceURL, outFile)
	if !c.launch(key, args, outFile) {
		return "", false
	}
	return filename, true
}

// StopRecording stops the archival pipeline for a camera. The process gets
// SIGINT rather than SIGTERM: ffmpeg only finalizes the MP4 trailer on
// interrupt. SIGTERM is the fallback when the interrupt cannot be
// delivered.
func (c *Controller) StopRecording(cameraID string) bool {
	key := Key{CameraID: cameraID, Kind: KindRecording}
	return c.stop(key, syscall.SIGINT, syscall.SIGTERM, c.opts.RecordStopTimeout)
}

// IsStreaming reports whether a live-preview process is registered for the
// camera.
func (c *Controller) IsStreaming(cameraID string) bool {
	return c.reg.exists(Key{CameraID: cameraID, Kind: KindStreaming})
}

// IsRecording reports whether an archival process is registered for the
// camera.
func (c *Controller) IsRecording(cameraID string) bool {
	return c.reg.exists(Key{CameraID: cameraID, Kind: KindRecording})
}

// GetRecordingInfo returns the recording process metadata for a camera, or
// nil when none is registered.
func (c *Controller) GetRecordingInfo(cameraID string) *Entry {
	lp, ok := c.reg.get(Key{CameraID: cameraID, Kind: KindRecording})
	if !ok {
		return nil
	}
	entry := lp.entry
	return &entry
}

// ListActive returns a snapshot of all registered process metadata.
func (c *Controller) ListActive() []Entry {
	return c.reg.snapshot()
}

// StopAll stops every registered process concurrently with the uniform
// streaming timeout and returns once all of them have been removed.
// Invoked from the daemon's termination path.
func (c *Controller) StopAll() {
	keys := c.reg.keys()
	if len(keys) == 0 {
		return
	}

	c.logger.Info("Stopping all pipeline processes", "count", len(keys))

	var stops sync.WaitGroup
	for _, key := range keys {
		stops.Add(1)
		go func(key Key) {
			defer stops.Done()
			c.stop(key, syscall.SIGTERM, nil, c.opts.StreamStopTimeout)
		}(key)
	}
	stops.Wait()

	// Exit watchers have observed every stop by now.
	c.wg.Wait()

	c.logger.Info("All pipeline processes stopped")
}

// checkPreconditions applies the shared early-exit policy: empty source,
// then binary availability. Order matters; both failures are logged with
// the camera attached.
func (c *Controller) checkPreconditions(key Key, sourceURL string) bool {
	if sourceURL == "" {
		c.logger.Error("Refusing to start pipeline", "camera_id", key.CameraID,
			"kind", key.Kind, "error", ErrInvalidSource)
		return false
	}
	if !c.probe() {
		c.logger.Error("Refusing to start pipeline", "camera_id", key.CameraID,
			"kind", key.Kind, "error", ErrBinaryUnavailable,
			"hint", "install ffmpeg or set --ffmpeg-path")
		return false
	}
	return true
}

// launch spawns the process, registers it, and wires the exit watcher.
// Caller must hold the key lock. Returns true iff a PID was obtained. The
// settle delay at the end gives an immediately failing process a chance to
// exit and be deregistered before the caller inspects state.
func (c *Controller) launch(key Key, args []string, outputPath string) bool {
	procLogger := c.logger.With("camera_id", key.CameraID, "kind", string(key.Kind))
	proc := newProcess(c.opts.FFmpegPath, args, procLogger, c.outLogger)

	if err := proc.start(); err != nil {
		c.publish(events.PipelineSpawnFailedEvent{
			CameraID: key.CameraID,
			Kind:     string(key.Kind),
			Error:    err.Error(),
		})
		return false
	}

	entry := Entry{
		CameraID:   key.CameraID,
		Kind:       key.Kind,
		PID:        proc.pid(),
		StartedAt:  time.Now(),
		OutputPath: outputPath,
	}
	c.reg.put(entry, proc)
	c.watch(key, proc)

	procLogger.Info("Pipeline process started", "pid", entry.PID, "output", outputPath)
	c.publish(events.PipelineStartedEvent{
		CameraID:   key.CameraID,
		Kind:       string(key.Kind),
		PID:        entry.PID,
		OutputPath: outputPath,
		Timestamp:  entry.StartedAt.Format(time.RFC3339),
	})

	time.Sleep(c.opts.SettleDelay)
	return true
}

// watch removes the registry entry once the process exits, wherever the
// exit came from, and records the exit code.
func (c *Controller) watch(key Key, proc *process) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		<-proc.done()

		code := proc.exitCode()
		if c.reg.remove(key, proc) {
			c.logger.Info("Pipeline process exited", "camera_id", key.CameraID,
				"kind", key.Kind, "exit_code", code)
		}
		c.publish(events.PipelineExitedEvent{
			CameraID: key.CameraID,
			Kind:     string(key.Kind),
			ExitCode: code,
		})
	}()
}

// stop implements the graceful-then-kill sequence for one key. A vacant
// key returns true immediately: already stopped is not an error.
func (c *Controller) stop(key Key, sig, fallback os.Signal, timeout time.Duration) bool {
	unlock := c.reg.lockKey(key)
	defer unlock()

	lp, ok := c.reg.get(key)
	if !ok {
		return true
	}
	proc := lp.proc

	c.logger.Info("Stopping pipeline process", "camera_id", key.CameraID,
		"kind", key.Kind, "pid", lp.entry.PID, "signal", sig)

	if err := proc.signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
		if fallback != nil {
			c.logger.Warn("Signal delivery failed, falling back",
				"camera_id", key.CameraID, "signal", sig, "fallback", fallback, "error", err)
			_ = proc.signal(fallback)
		} else {
			c.logger.Warn("Signal delivery failed", "camera_id", key.CameraID,
				"signal", sig, "error", err)
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-proc.done():
	case <-timer.C:
		c.logger.Warn("Graceful stop timed out, forcing kill",
			"camera_id", key.CameraID, "kind", key.Kind, "timeout", timeout)
		c.publish(events.PipelineForceKilledEvent{
			CameraID: key.CameraID,
			Kind:     string(key.Kind),
		})
		proc.kill()

		kill := time.NewTimer(c.opts.KillTimeout)
		defer kill.Stop()
		select {
		case <-proc.done():
		case <-kill.C:
			c.logger.Error("Process did not exit after kill", "camera_id", key.CameraID)
		}
	}

	c.reg.remove(key, proc)
	return true
}

func (c *Controller) publish(ev events.Event) {
	if c.opts.Bus != nil {
		c.opts.Bus.Publish(ev)
	}
}
