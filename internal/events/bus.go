package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher for in-process event broadcasting.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
// Usage: bus.Publish(PipelineStartedEvent{...})
func (b *Bus) Publish(ev Event) {
	// kelindar/event's generic Publish needs the concrete type.
	switch e := ev.(type) {
	case PipelineStartedEvent:
		event.Publish(b.dispatcher, e)
	case PipelineExitedEvent:
		event.Publish(b.dispatcher, e)
	case PipelineForceKilledEvent:
		event.Publish(b.dispatcher, e)
	case PipelineSpawnFailedEvent:
		event.Publish(b.dispatcher, e)
	case CameraCreatedEvent:
		event.Publish(b.dispatcher, e)
	case CameraUpdatedEvent:
		event.Publish(b.dispatcher, e)
	case CameraDeletedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes a handler function; the parameter type selects which
// events it receives. Returns an unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e PipelineExitedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(PipelineStartedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PipelineExitedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PipelineForceKilledEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PipelineSpawnFailedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CameraCreatedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CameraUpdatedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CameraDeletedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
