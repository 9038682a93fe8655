package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/camkeep/camkeep/cmd"
	"github.com/camkeep/camkeep/internal/api"
	"github.com/camkeep/camkeep/internal/cameras"
	"github.com/camkeep/camkeep/internal/config"
	"github.com/camkeep/camkeep/internal/events"
	"github.com/camkeep/camkeep/internal/logging"
	"github.com/camkeep/camkeep/internal/metrics"
	"github.com/camkeep/camkeep/internal/pipeline"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Camera settings
	CamerasFile string `help:"Camera definitions file" default:"cameras.toml" toml:"cameras.file" env:"CAMERAS_FILE"`

	// Pipeline settings
	FFmpegPath        string `help:"ffmpeg binary to spawn" default:"ffmpeg" toml:"pipeline.ffmpeg_path" env:"FFMPEG_PATH"`
	MediaDir          string `help:"Pipeline output base directory" default:"media" toml:"pipeline.media_dir" env:"MEDIA_DIR"`
	SettleDelayMs     int    `help:"Post-spawn settle delay in milliseconds" default:"1000" toml:"pipeline.settle_delay_ms" env:"SETTLE_DELAY_MS"`
	StreamStopSec     int    `help:"Graceful stop timeout for streams in seconds" default:"5" toml:"pipeline.stream_stop_sec" env:"STREAM_STOP_SEC"`
	RecordStopSec     int    `help:"Graceful stop timeout for recordings in seconds" default:"10" toml:"pipeline.record_stop_sec" env:"RECORD_STOP_SEC"`
	KillTimeoutSec    int    `help:"Post-kill exit wait in seconds" default:"5" toml:"pipeline.kill_timeout_sec" env:"KILL_TIMEOUT_SEC"`
	MetricsEnabled    bool   `help:"Expose Prometheus metrics at /metrics" default:"true" toml:"metrics.enabled" env:"METRICS_ENABLED"`
	CamerasHotReload  bool   `help:"Reload camera definitions when the file changes" default:"true" toml:"cameras.hot_reload" env:"CAMERAS_HOT_RELOAD"`

	// Logging settings
	LoggingLevel    string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat   string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingPipeline string `help:"Pipeline logging level" default:"info" toml:"logging.pipeline" env:"LOGGING_PIPELINE"`
	LoggingFFmpeg   string `help:"ffmpeg output logging level" default:"info" toml:"logging.ffmpeg" env:"LOGGING_FFMPEG"`
	LoggingAPI      string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, nil); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"pipeline": opts.LoggingPipeline,
				"ffmpeg":   opts.LoggingFFmpeg,
				"api":      opts.LoggingAPI,
			},
		})

		logger := logging.GetLogger("main")

		eventBus := events.New()

		var metricSet *metrics.Metrics
		if opts.MetricsEnabled {
			metricSet = metrics.New()
			metricSet.Attach(eventBus)
		}

		cameraStore := cameras.NewTOML(opts.CamerasFile)
		if loadErr := cameraStore.Load(); loadErr != nil {
			logger.Warn("Failed to load camera definitions", "error", loadErr)
		}

		controller := pipeline.NewController(&pipeline.Options{
			FFmpegPath:        opts.FFmpegPath,
			MediaDir:          opts.MediaDir,
			Bus:               eventBus,
			SettleDelay:       time.Duration(opts.SettleDelayMs) * time.Millisecond,
			StreamStopTimeout: time.Duration(opts.StreamStopSec) * time.Second,
			RecordStopTimeout: time.Duration(opts.RecordStopSec) * time.Second,
			KillTimeout:       time.Duration(opts.KillTimeoutSec) * time.Second,
		})

		// Pick up external edits to the cameras file. Changes made through
		// the API rewrite the same file, so the debounce absorbs our own
		// writes too.
		var cameraWatcher *config.Watcher[struct{}]
		if opts.CamerasHotReload {
			cameraWatcher = config.NewConfigWatcher(
				opts.CamerasFile,
				func(path string) (struct{}, error) {
					return struct{}{}, cameraStore.Load()
				},
				logging.GetLogger("config"),
			)
			cameraWatcher.OnReload(func(struct{}) {
				logger.Info("Camera definitions reloaded", "count", len(cameraStore.List()))
			})
		}

		apiOpts := &api.Options{
			CameraStore: cameraStore,
			Controller:  controller,
			Bus:         eventBus,
			MediaDir:    opts.MediaDir,
		}
		if metricSet != nil {
			apiOpts.PrometheusHandler = metricSet.Handler()
		}

		server := api.NewServer(apiOpts, logging.GetLogger("api"))

		hooks.OnStart(func() {
			if cameraWatcher != nil {
				if watchErr := cameraWatcher.Start(); watchErr != nil {
					logger.Warn("Camera file watcher unavailable", "error", watchErr)
				}
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}

			if cameraWatcher != nil {
				if stopErr := cameraWatcher.Stop(); stopErr != nil {
					logger.Error("Error stopping camera file watcher", "error", stopErr)
				}
			}

			// After the listener closes, no new starts can arrive; tear
			// down every remaining ffmpeg process before exiting.
			controller.StopAll()

			if metricSet != nil {
				metricSet.Detach()
			}
		})
	})

	cli.Root().Use = "camkeep"
	cli.Root().AddCommand(cmd.CreateCheckCmd())

	cli.Run()
}
