// Package models holds the request and response types for the HTTP API.
package models

// HealthData is the health check payload.
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Health status"`
	Message string `json:"message" example:"API is healthy" doc:"Status detail"`
}

// HealthResponse wraps the health check payload.
type HealthResponse struct {
	Body HealthData
}

// VersionData contains version and build metadata.
type VersionData struct {
	Version   string `json:"version" example:"1.2.3" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"2025-01-27T10:30:00Z" doc:"Build timestamp"`
	BuildID   string `json:"build_id" doc:"Build identifier"`
	GoVersion string `json:"go_version" example:"go1.24.0" doc:"Go version used to build"`
	Compiler  string `json:"compiler" example:"gc" doc:"Go compiler"`
	Platform  string `json:"platform" example:"linux/amd64" doc:"Target platform"`
}

// VersionResponse wraps version information.
type VersionResponse struct {
	Body VersionData
}

// CameraData is one camera definition with its runtime pipeline state.
type CameraData struct {
	ID        string `json:"id" example:"cam1" doc:"Camera identifier"`
	Name      string `json:"name,omitempty" example:"Front door" doc:"Display name"`
	Source    string `json:"source" example:"rtsp://10.0.0.5/main" doc:"Source stream URL"`
	Enabled   bool   `json:"enabled" doc:"Whether pipelines may be started for this camera"`
	Streaming bool   `json:"streaming" doc:"Live-preview pipeline running"`
	Recording bool   `json:"recording" doc:"Archival pipeline running"`
}

// CameraListData is the camera collection payload.
type CameraListData struct {
	Cameras []CameraData `json:"cameras" doc:"All configured cameras"`
	Count   int          `json:"count" example:"2" doc:"Number of cameras"`
}

// CameraListResponse wraps the camera collection.
type CameraListResponse struct {
	Body CameraListData
}

// CameraResponse wraps a single camera.
type CameraResponse struct {
	Body CameraData
}

// CameraCreateRequest is the payload for creating a camera.
type CameraCreateRequest struct {
	Body struct {
		ID      string `json:"id" minLength:"1" example:"cam1" doc:"Camera identifier"`
		Name    string `json:"name,omitempty" example:"Front door" doc:"Display name"`
		Source  string `json:"source" minLength:"1" example:"rtsp://10.0.0.5/main" doc:"Source stream URL"`
		Enabled bool   `json:"enabled" doc:"Whether pipelines may be started"`
	}
}

// CameraUpdateRequest is the payload for updating a camera.
type CameraUpdateRequest struct {
	CameraID string `path:"camera_id" example:"cam1" doc:"Camera identifier"`
	Body     struct {
		Name    string `json:"name,omitempty" example:"Front door" doc:"Display name"`
		Source  string `json:"source" minLength:"1" example:"rtsp://10.0.0.5/main" doc:"Source stream URL"`
		Enabled bool   `json:"enabled" doc:"Whether pipelines may be started"`
	}
}

// PipelineStatusData is the runtime pipeline state for one camera.
type PipelineStatusData struct {
	CameraID      string `json:"camera_id" example:"cam1" doc:"Camera identifier"`
	Streaming     bool   `json:"streaming" doc:"Live-preview pipeline running"`
	Recording     bool   `json:"recording" doc:"Archival pipeline running"`
	PlaylistURL   string `json:"playlist_url,omitempty" example:"/hls/cam1/index.m3u8" doc:"HLS playlist path while streaming"`
	RecordingFile string `json:"recording_file,omitempty" example:"2025-01-27_10-30-00.mp4" doc:"Container filename while recording"`
}

// PipelineStatusResponse wraps the pipeline status payload.
type PipelineStatusResponse struct {
	Body PipelineStatusData
}

// RecordingStartData reports the file a new recording writes to.
type RecordingStartData struct {
	CameraID string `json:"camera_id" example:"cam1" doc:"Camera identifier"`
	Filename string `json:"filename" example:"2025-01-27_10-30-00.mp4" doc:"Container filename"`
}

// RecordingStartResponse wraps the recording start payload.
type RecordingStartResponse struct {
	Body RecordingStartData
}

// ProcessData describes one supervised ffmpeg process.
type ProcessData struct {
	CameraID   string `json:"camera_id" example:"cam1" doc:"Camera identifier"`
	Kind       string `json:"kind" example:"streaming" doc:"Pipeline kind"`
	PID        int    `json:"pid" example:"4242" doc:"OS process id"`
	StartedAt  string `json:"started_at" example:"2025-01-27T10:30:00Z" doc:"Spawn timestamp"`
	OutputPath string `json:"output_path" doc:"Playlist or container file the process writes"`
}

// ProcessListData is the supervised process collection payload.
type ProcessListData struct {
	Processes []ProcessData `json:"processes" doc:"All supervised processes"`
	Count     int           `json:"count" example:"3" doc:"Number of processes"`
}

// ProcessListResponse wraps the process collection.
type ProcessListResponse struct {
	Body ProcessListData
}

// LogEntryData is one structured log line from the ring buffer.
type LogEntryData struct {
	Timestamp  string         `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"pipeline" doc:"Originating module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured attributes"`
}

// LogListData is the historical log payload.
type LogListData struct {
	Entries []LogEntryData `json:"entries" doc:"Log entries, oldest first"`
	Count   int            `json:"count" example:"120" doc:"Number of entries"`
}

// LogListResponse wraps the historical log payload.
type LogListResponse struct {
	Body LogListData
}
