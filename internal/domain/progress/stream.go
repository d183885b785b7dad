package progress

import (
	"sync"
	"time"
)

// DefaultBuffer sizes the event channel so a slow consumer never blocks
// stage transitions for the handful of events a request produces.
const DefaultBuffer = 16

// Stream is an ordered, single-consumer event stream for one request.
// A single publishing goroutine guarantees stage order; the stream
// guards the exactly-one-terminal-event invariant itself.
type Stream struct {
	ch chan Event

	mu     sync.Mutex
	closed bool
}

// NewStream creates a stream with the given buffer (<= 0 uses the
// default).
func NewStream(buffer int) *Stream {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Stream{ch: make(chan Event, buffer)}
}

// Events returns the receive side of the stream. The channel is closed
// after the terminal event.
func (s *Stream) Events() <-chan Event { return s.ch }

// Publish emits a non-terminal stage event. Returns false if the stream
// already terminated (the event is dropped, not reordered after a
// terminal).
func (s *Stream) Publish(stage Stage, message string) bool {
	return s.send(Event{Stage: stage, Message: message, Timestamp: time.Now().UTC()})
}

// PublishTerminal emits the terminal event with the assembled payload
// and closes the stream. Only the first terminal wins.
func (s *Stream) PublishTerminal(stage Stage, message string, data any) bool {
	if !stage.IsTerminal() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.ch <- Event{Stage: stage, Message: message, Timestamp: time.Now().UTC(), Data: data}
	s.closed = true
	close(s.ch)
	return true
}

func (s *Stream) send(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.ch <- ev
	return true
}
