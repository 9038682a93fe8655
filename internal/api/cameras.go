package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/camkeep/camkeep/internal/api/models"
	"github.com/camkeep/camkeep/internal/cameras"
	"github.com/camkeep/camkeep/internal/events"
)

// registerCameraRoutes registers camera definition CRUD endpoints.
func (s *Server) registerCameraRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-cameras",
		Method:      http.MethodGet,
		Path:        "/api/cameras",
		Summary:     "List Cameras",
		Description: "Get all configured cameras with their pipeline state",
		Tags:        []string{"cameras"},
	}, func(ctx context.Context, input *struct{}) (*models.CameraListResponse, error) {
		cams := s.store.List()
		apiCams := make([]models.CameraData, len(cams))
		for i, cam := range cams {
			apiCams[i] = s.cameraToAPI(cam)
		}
		return &models.CameraListResponse{
			Body: models.CameraListData{
				Cameras: apiCams,
				Count:   len(apiCams),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "create-camera",
		Method:      http.MethodPost,
		Path:        "/api/cameras",
		Summary:     "Create Camera",
		Description: "Add a camera definition",
		Tags:        []string{"cameras"},
		Errors:      []int{409, 422, 500},
	}, func(ctx context.Context, input *models.CameraCreateRequest) (*models.CameraResponse, error) {
		cam := cameras.Camera{
			ID:      input.Body.ID,
			Name:    input.Body.Name,
			Source:  input.Body.Source,
			Enabled: input.Body.Enabled,
		}
		if err := s.store.Add(cam); err != nil {
			return nil, s.mapCameraError(err)
		}

		s.publish(events.CameraCreatedEvent{
			CameraID:  cam.ID,
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return &models.CameraResponse{Body: s.cameraToAPI(cam)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-camera",
		Method:      http.MethodGet,
		Path:        "/api/cameras/{camera_id}",
		Summary:     "Get Camera",
		Description: "Get a single camera definition with its pipeline state",
		Tags:        []string{"cameras"},
		Errors:      []int{404},
	}, func(ctx context.Context, input *struct {
		CameraID string `path:"camera_id" example:"cam1" doc:"Camera identifier"`
	}) (*models.CameraResponse, error) {
		cam, ok := s.store.Get(input.CameraID)
		if !ok {
			return nil, huma.Error404NotFound("camera not found: " + input.CameraID)
		}
		return &models.CameraResponse{Body: s.cameraToAPI(cam)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "update-camera",
		Method:      http.MethodPut,
		Path:        "/api/cameras/{camera_id}",
		Summary:     "Update Camera",
		Description: "Replace a camera definition. Running pipelines keep their original source until restarted.",
		Tags:        []string{"cameras"},
		Errors:      []int{404, 422, 500},
	}, func(ctx context.Context, input *models.CameraUpdateRequest) (*models.CameraResponse, error) {
		cam := cameras.Camera{
			ID:      input.CameraID,
			Name:    input.Body.Name,
			Source:  input.Body.Source,
			Enabled: input.Body.Enabled,
		}
		if err := s.store.Update(input.CameraID, cam); err != nil {
			return nil, s.mapCameraError(err)
		}

		s.publish(events.CameraUpdatedEvent{
			CameraID:  cam.ID,
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return &models.CameraResponse{Body: s.cameraToAPI(cam)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "delete-camera",
		Method:      http.MethodDelete,
		Path:        "/api/cameras/{camera_id}",
		Summary:     "Delete Camera",
		Description: "Remove a camera definition, stopping any running pipelines first",
		Tags:        []string{"cameras"},
		Errors:      []int{404, 500},
	}, func(ctx context.Context, input *struct {
		CameraID string `path:"camera_id" example:"cam1" doc:"Camera identifier"`
	}) (*struct{}, error) {
		if _, ok := s.store.Get(input.CameraID); !ok {
			return nil, huma.Error404NotFound("camera not found: " + input.CameraID)
		}

		// Orphaned processes outlive their definition otherwise.
		s.pipelines.StopStream(input.CameraID)
		s.pipelines.StopRecording(input.CameraID)

		if err := s.store.Remove(input.CameraID); err != nil {
			return nil, s.mapCameraError(err)
		}

		s.publish(events.CameraDeletedEvent{
			CameraID:  input.CameraID,
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return &struct{}{}, nil
	})
}

// cameraToAPI merges a stored definition with runtime pipeline state.
func (s *Server) cameraToAPI(cam cameras.Camera) models.CameraData {
	return models.CameraData{
		ID:        cam.ID,
		Name:      cam.Name,
		Source:    cam.Source,
		Enabled:   cam.Enabled,
		Streaming: s.pipelines.IsStreaming(cam.ID),
		Recording: s.pipelines.IsRecording(cam.ID),
	}
}

// mapCameraError converts store errors to HTTP status errors.
func (s *Server) mapCameraError(err error) error {
	switch {
	case errors.Is(err, cameras.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, cameras.ErrAlreadyExists):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, cameras.ErrMissingID):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		s.logger.Error("Camera store operation failed", "error", err)
		return huma.Error500InternalServerError("camera store operation failed")
	}
}
