// Package sse encodes server-sent events into their wire format.
//
// The router core treats this package as the SSE encoding collaborator: an
// SSE route's handler produces a Source of Event records, and the response
// body is the concatenation of their encodings.
package sse

import (
	"bytes"
	"io"
	"strings"
)

// Event is a single server-sent event record.
type Event struct {
	// Name is the optional event type, delivered as the "event:" field.
	Name string

	// Data is the event payload. Multi-line data is split into one
	// "data:" field per line, per the SSE specification.
	Data string

	// ID is the optional event id, delivered as the "id:" field.
	ID string
}

// Data wraps a bare string as a data-only event.
func Data(s string) Event {
	return Event{Data: s}
}

// Encode renders the event in SSE wire format, terminated by a blank line.
func (e Event) Encode() []byte {
	var buf bytes.Buffer
	if e.Name != "" {
		buf.WriteString("event: ")
		buf.WriteString(e.Name)
		buf.WriteByte('\n')
	}
	if e.ID != "" {
		buf.WriteString("id: ")
		buf.WriteString(e.ID)
		buf.WriteByte('\n')
	}
	for _, line := range strings.Split(e.Data, "\n") {
		buf.WriteString("data: ")
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

// Source produces events one at a time. Next returns io.EOF when the
// stream is exhausted. Close releases any resources backing the source
// (timers, subscriptions) and is called exactly once by the consumer,
// on exhaustion or on transport cancellation.
type Source interface {
	Next() (Event, error)
	Close() error
}

// Events returns a Source that yields the given events in order.
func Events(events ...Event) Source {
	return &sliceSource{events: events}
}

type sliceSource struct {
	events []Event
	pos    int
}

func (s *sliceSource) Next() (Event, error) {
	if s.pos >= len(s.events) {
		return Event{}, io.EOF
	}
	e := s.events[s.pos]
	s.pos++
	return e, nil
}

func (s *sliceSource) Close() error { return nil }

// Chan adapts a channel of events into a Source. The source is exhausted
// when the channel is closed. Close makes subsequent Next calls return
// io.EOF without draining the channel; producers can select on Done to
// stop emitting after a client disconnect.
func Chan(ch <-chan Event) *ChanSource {
	return &ChanSource{ch: ch, done: make(chan struct{})}
}

// ChanSource is a channel-backed Source.
type ChanSource struct {
	ch   <-chan Event
	done chan struct{}
}

// Next returns the next event from the channel, or io.EOF once the channel
// is closed or the source itself has been closed.
func (s *ChanSource) Next() (Event, error) {
	select {
	case <-s.done:
		return Event{}, io.EOF
	case e, ok := <-s.ch:
		if !ok {
			return Event{}, io.EOF
		}
		return e, nil
	}
}

// Close marks the source as done. It is safe to call exactly once.
func (s *ChanSource) Close() error {
	close(s.done)
	return nil
}

// Done is closed when the consumer cancels the source.
func (s *ChanSource) Done() <-chan struct{} { return s.done }
