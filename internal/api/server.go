// Package api exposes the camera and pipeline control surface over HTTP
// using Huma v2 on the standard library mux.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/camkeep/camkeep/internal/api/models"
	"github.com/camkeep/camkeep/internal/cameras"
	"github.com/camkeep/camkeep/internal/events"
	"github.com/camkeep/camkeep/internal/pipeline"
	"github.com/camkeep/camkeep/internal/version"
)

// PipelineController is the subset of the pipeline controller the API
// needs. Satisfied by *pipeline.Controller; mocked in tests.
type PipelineController interface {
	StartStream(cameraID, sourceURL string) bool
	StopStream(cameraID string) bool
	StartRecording(cameraID, sourceURL string) (string, bool)
	StopRecording(cameraID string) bool
	IsStreaming(cameraID string) bool
	IsRecording(cameraID string) bool
	GetRecordingInfo(cameraID string) *pipeline.Entry
	ListActive() []pipeline.Entry
}

// Options configures the API server.
type Options struct {
	CameraStore cameras.Store
	Controller  PipelineController
	Bus         *events.Bus

	// MediaDir is the pipeline output base; HLS playlists under
	// <MediaDir>/streaming are served at /hls/.
	MediaDir string

	// PrometheusHandler, when set, is mounted at /metrics.
	PrometheusHandler http.Handler
}

// Server is the Huma v2 API server.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	store      cameras.Store
	pipelines  PipelineController
	bus        *events.Bus
	logger     *slog.Logger
}

// NewServer creates the API server with Go 1.22+ native routing.
func NewServer(opts *Options, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	corsConfig := DefaultCORSConfig()
	AddCORSHandler(mux, corsConfig)

	config := huma.DefaultConfig("Camkeep API", version.String())
	config.Info.Description = "Camera pipeline supervision API: live HLS preview and archival recording"
	// Empty servers list makes OpenAPI use relative paths, working with any host
	config.Servers = []*huma.Server{}

	api := humago.New(mux, config)

	server := &Server{
		api:       api,
		mux:       mux,
		store:     opts.CameraStore,
		pipelines: opts.Controller,
		bus:       opts.Bus,
		logger:    logger,
	}

	api.UseMiddleware(NewCORSMiddleware(corsConfig))
	api.UseMiddleware(HTTPLoggingMiddleware)

	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	// HLS playlists and segments written by the streaming pipelines
	if opts.MediaDir != "" {
		hlsDir := filepath.Join(opts.MediaDir, string(pipeline.KindStreaming))
		mux.Handle("GET /hls/", http.StripPrefix("/hls/", http.FileServer(http.Dir(hlsDir))))
	}

	server.registerRoutes()
	return server
}

// GetMux returns the underlying HTTP ServeMux for additional setup.
func (s *Server) GetMux() *http.ServeMux {
	return s.mux
}

// GetAPI returns the Huma API instance.
func (s *Server) GetAPI() huma.API {
	return s.api
}

// Start starts the HTTP server on the specified address.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting API server", "addr", addr)
	s.logger.Info("OpenAPI documentation available", "url", "http://"+addr+"/docs")

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}
	return s.httpServer.ListenAndServe()
}

// Stop shuts down the server without waiting for open connections; the
// pipeline teardown that follows must not be delayed by slow clients.
func (s *Server) Stop() error {
	s.logger.Info("Stopping API server")
	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

// registerRoutes sets up all API endpoints.
func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"health"},
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		return &models.HealthResponse{
			Body: models.HealthData{
				Status:  "ok",
				Message: "API is healthy",
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
	}, func(ctx context.Context, input *struct{}) (*models.VersionResponse, error) {
		versionInfo := version.Get()
		return &models.VersionResponse{
			Body: models.VersionData{
				Version:   versionInfo.Version,
				GitCommit: versionInfo.GitCommit,
				BuildDate: versionInfo.BuildDate,
				BuildID:   versionInfo.BuildID,
				GoVersion: versionInfo.GoVersion,
				Compiler:  versionInfo.Compiler,
				Platform:  versionInfo.Platform,
			},
		}, nil
	})

	s.registerCameraRoutes()
	s.registerPipelineRoutes()
	s.registerLogRoutes()
}

func (s *Server) publish(ev events.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}
