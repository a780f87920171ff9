package events

// Event represents a structured state change emitted by a protocol module.
type Event interface {
	EventType() string
}

// Emitter broadcasts events to downstream subscribers (metrics, indexers,
// test harnesses).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter satisfies the Emitter interface while discarding all events. It
// is the default wired into every engine so that event emission stays
// optional.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}
