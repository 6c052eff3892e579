package chain

import "sync"

// Sequence event names.
const (
	EventStart = "start"
	EventEnd   = "end"
)

// Event is delivered to listeners.
type Event struct {
	Name       string `json:"name"`
	SequenceID string `json:"sequenceId"`
}

// Listener receives events.
type Listener func(ev Event)

// Emitter is a named-event pub/sub primitive.
type Emitter interface {
	On(name string, fn Listener)
	Emit(ev Event)
}

type emitter struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

// NewEmitter returns an Emitter that calls listeners synchronously, in the
// order they subscribed.
func NewEmitter() Emitter {
	return &emitter{listeners: make(map[string][]Listener)}
}

func (e *emitter) On(name string, fn Listener) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[name] = append(e.listeners[name], fn)
}

func (e *emitter) Emit(ev Event) {
	e.mu.RLock()
	listeners := append([]Listener(nil), e.listeners[ev.Name]...)
	e.mu.RUnlock()

	for _, fn := range listeners {
		fn(ev)
	}
}
