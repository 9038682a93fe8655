// Package events provides an in-process typed event bus for pipeline and
// camera lifecycle notifications.
package events

// Event type constants for kelindar/event.
const (
	TypePipelineStarted uint32 = iota + 1
	TypePipelineExited
	TypePipelineForceKilled
	TypePipelineSpawnFailed
	TypeCameraCreated
	TypeCameraUpdated
	TypeCameraDeleted
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// PipelineStartedEvent fires after a pipeline process has spawned and been
// registered.
type PipelineStartedEvent struct {
	CameraID   string `json:"camera_id" example:"cam1" doc:"Camera identifier"`
	Kind       string `json:"kind" example:"streaming" doc:"Pipeline kind: streaming or recording"`
	PID        int    `json:"pid" example:"4242" doc:"OS process id"`
	OutputPath string `json:"output_path" doc:"Playlist or container file the process writes"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Start timestamp"`
}

// Type returns the event type identifier for PipelineStartedEvent.
func (e PipelineStartedEvent) Type() uint32 { return TypePipelineStarted }

// PipelineExitedEvent fires once a pipeline process has exited, whether on
// its own or after a stop.
type PipelineExitedEvent struct {
	CameraID string `json:"camera_id" example:"cam1" doc:"Camera identifier"`
	Kind     string `json:"kind" example:"recording" doc:"Pipeline kind"`
	ExitCode int    `json:"exit_code" example:"0" doc:"Process exit code"`
}

// Type returns the event type identifier for PipelineExitedEvent.
func (e PipelineExitedEvent) Type() uint32 { return TypePipelineExited }

// PipelineForceKilledEvent fires when a graceful stop times out and the
// process is killed.
type PipelineForceKilledEvent struct {
	CameraID string `json:"camera_id" example:"cam1" doc:"Camera identifier"`
	Kind     string `json:"kind" example:"streaming" doc:"Pipeline kind"`
}

// Type returns the event type identifier for PipelineForceKilledEvent.
func (e PipelineForceKilledEvent) Type() uint32 { return TypePipelineForceKilled }

// PipelineSpawnFailedEvent fires when the OS refuses to spawn a pipeline
// process.
type PipelineSpawnFailedEvent struct {
	CameraID string `json:"camera_id" example:"cam1" doc:"Camera identifier"`
	Kind     string `json:"kind" example:"streaming" doc:"Pipeline kind"`
	Error    string `json:"error" doc:"Spawn error detail"`
}

// Type returns the event type identifier for PipelineSpawnFailedEvent.
func (e PipelineSpawnFailedEvent) Type() uint32 { return TypePipelineSpawnFailed }

// CameraCreatedEvent fires when a camera definition is added.
type CameraCreatedEvent struct {
	CameraID  string `json:"camera_id" example:"cam1" doc:"Camera identifier"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for CameraCreatedEvent.
func (e CameraCreatedEvent) Type() uint32 { return TypeCameraCreated }

// CameraUpdatedEvent fires when a camera definition changes.
type CameraUpdatedEvent struct {
	CameraID  string `json:"camera_id" example:"cam1" doc:"Camera identifier"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for CameraUpdatedEvent.
func (e CameraUpdatedEvent) Type() uint32 { return TypeCameraUpdated }

// CameraDeletedEvent fires when a camera definition is removed.
type CameraDeletedEvent struct {
	CameraID  string `json:"camera_id" example:"cam1" doc:"Camera identifier"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for CameraDeletedEvent.
func (e CameraDeletedEvent) Type() uint32 { return TypeCameraDeleted }
