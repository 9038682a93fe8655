package api

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/camkeep/camkeep/internal/api/models"
	"github.com/camkeep/camkeep/internal/cameras"
	"github.com/camkeep/camkeep/internal/ffmpeg"
)

type cameraPathInput struct {
	CameraID string `path:"camera_id" example:"cam1" doc:"Camera identifier"`
}

// registerPipelineRoutes registers stream/recording control endpoints and
// the process listing.
func (s *Server) registerPipelineRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "start-stream",
		Method:      http.MethodPost,
		Path:        "/api/cameras/{camera_id}/stream/start",
		Summary:     "Start Stream",
		Description: "Start the live-preview HLS pipeline for a camera. Idempotent: a running stream is reported as success.",
		Tags:        []string{"pipelines"},
		Errors:      []int{404, 409, 500},
	}, func(ctx context.Context, input *cameraPathInput) (*models.PipelineStatusResponse, error) {
		cam, err := s.startableCamera(input.CameraID)
		if err != nil {
			return nil, err
		}
		if !s.pipelines.StartStream(cam.ID, cam.Source) {
			return nil, huma.Error500InternalServerError("failed to start stream for camera " + cam.ID)
		}
		return s.statusResponse(cam.ID), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "stop-stream",
		Method:      http.MethodPost,
		Path:        "/api/cameras/{camera_id}/stream/stop",
		Summary:     "Stop Stream",
		Description: "Stop the live-preview pipeline for a camera. Stopping an already-stopped stream succeeds.",
		Tags:        []string{"pipelines"},
		Errors:      []int{404},
	}, func(ctx context.Context, input *cameraPathInput) (*models.PipelineStatusResponse, error) {
		if _, ok := s.store.Get(input.CameraID); !ok {
			return nil, huma.Error404NotFound("camera not found: " + input.CameraID)
		}
		s.pipelines.StopStream(input.CameraID)
		return s.statusResponse(input.CameraID), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "start-recording",
		Method:      http.MethodPost,
		Path:        "/api/cameras/{camera_id}/recording/start",
		Summary:     "Start Recording",
		Description: "Start the archival MP4 pipeline for a camera. Idempotent: a running recording returns its existing filename.",
		Tags:        []string{"pipelines"},
		Errors:      []int{404, 409, 500},
	}, func(ctx context.Context, input *cameraPathInput) (*models.RecordingStartResponse, error) {
		cam, err := s.startableCamera(input.CameraID)
		if err != nil {
			return nil, err
		}
		filename, ok := s.pipelines.StartRecording(cam.ID, cam.Source)
		if !ok {
			return nil, huma.Error500InternalServerError("failed to start recording for camera " + cam.ID)
		}
		return &models.RecordingStartResponse{
			Body: models.RecordingStartData{
				CameraID: cam.ID,
				Filename: filename,
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "stop-recording",
		Method:      http.MethodPost,
		Path:        "/api/cameras/{camera_id}/recording/stop",
		Summary:     "Stop Recording",
		Description: "Stop the archival pipeline for a camera, finalizing the MP4 container. Stopping an already-stopped recording succeeds.",
		Tags:        []string{"pipelines"},
		Errors:      []int{404},
	}, func(ctx context.Context, input *cameraPathInput) (*models.PipelineStatusResponse, error) {
		if _, ok := s.store.Get(input.CameraID); !ok {
			return nil, huma.Error404NotFound("camera not found: " + input.CameraID)
		}
		s.pipelines.StopRecording(input.CameraID)
		return s.statusResponse(input.CameraID), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-pipeline-status",
		Method:      http.MethodGet,
		Path:        "/api/cameras/{camera_id}/status",
		Summary:     "Pipeline Status",
		Description: "Get the runtime pipeline state for a camera",
		Tags:        []string{"pipelines"},
		Errors:      []int{404},
	}, func(ctx context.Context, input *cameraPathInput) (*models.PipelineStatusResponse, error) {
		if _, ok := s.store.Get(input.CameraID); !ok {
			return nil, huma.Error404NotFound("camera not found: " + input.CameraID)
		}
		return s.statusResponse(input.CameraID), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "list-processes",
		Method:      http.MethodGet,
		Path:        "/api/processes",
		Summary:     "List Processes",
		Description: "Get all supervised ffmpeg processes",
		Tags:        []string{"pipelines"},
	}, func(ctx context.Context, input *struct{}) (*models.ProcessListResponse, error) {
		entries := s.pipelines.ListActive()
		procs := make([]models.ProcessData, len(entries))
		for i, e := range entries {
			procs[i] = models.ProcessData{
				CameraID:   e.CameraID,
				Kind:       string(e.Kind),
				PID:        e.PID,
				StartedAt:  e.StartedAt.Format(time.RFC3339),
				OutputPath: e.OutputPath,
			}
		}
		return &models.ProcessListResponse{
			Body: models.ProcessListData{
				Processes: procs,
				Count:     len(procs),
			},
		}, nil
	})
}

// startableCamera resolves a camera that may have pipelines started.
func (s *Server) startableCamera(cameraID string) (cameras.Camera, error) {
	cam, ok := s.store.Get(cameraID)
	if !ok {
		return cameras.Camera{}, huma.Error404NotFound("camera not found: " + cameraID)
	}
	if !cam.Enabled {
		return cameras.Camera{}, huma.Error409Conflict("camera is disabled: " + cameraID)
	}
	return cam, nil
}

// statusResponse builds the runtime state payload for one camera.
func (s *Server) statusResponse(cameraID string) *models.PipelineStatusResponse {
	data := models.PipelineStatusData{
		CameraID:  cameraID,
		Streaming: s.pipelines.IsStreaming(cameraID),
		Recording: s.pipelines.IsRecording(cameraID),
	}
	if data.Streaming {
		data.PlaylistURL = "/hls/" + cameraID + "/" + ffmpeg.PlaylistName
	}
	if info := s.pipelines.GetRecordingInfo(cameraID); info != nil {
		data.RecordingFile = filepath.Base(info.OutputPath)
	}
	return &models.PipelineStatusResponse{Body: data}
}
