package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/camkeep/camkeep/internal/api/models"
	"github.com/camkeep/camkeep/internal/logging"
)

// registerLogRoutes registers the historical log endpoint backed by the
// in-memory ring buffer.
func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "List Logs",
		Description: "Get recent log entries from the in-memory buffer, oldest first",
		Tags:        []string{"logs"},
	}, func(ctx context.Context, input *struct {
		Level  string `query:"level" enum:"debug,info,warn,error" required:"false" doc:"Only entries at this level"`
		Module string `query:"module" required:"false" example:"pipeline" doc:"Only entries from this module"`
		Limit  int    `query:"limit" minimum:"1" maximum:"1000" required:"false" doc:"Maximum entries, newest kept"`
	}) (*models.LogListResponse, error) {
		var entries []logging.LogEntry
		if buffer := logging.GetBuffer(); buffer != nil {
			entries = buffer.ReadAll()
		}

		filtered := entries[:0:0]
		for _, e := range entries {
			if input.Level != "" && e.Level != input.Level {
				continue
			}
			if input.Module != "" && e.Module != input.Module {
				continue
			}
			filtered = append(filtered, e)
		}

		if input.Limit > 0 && len(filtered) > input.Limit {
			filtered = filtered[len(filtered)-input.Limit:]
		}

		apiEntries := make([]models.LogEntryData, len(filtered))
		for i, e := range filtered {
			apiEntries[i] = models.LogEntryData{
				Timestamp:  e.Timestamp.Format(time.RFC3339Nano),
				Level:      e.Level,
				Module:     e.Module,
				Message:    e.Message,
				Attributes: e.Attributes,
			}
		}

		return &models.LogListResponse{
			Body: models.LogListData{
				Entries: apiEntries,
				Count:   len(apiEntries),
			},
		}, nil
	})
}
