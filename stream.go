package strada

import "io"

// Stream produces a streaming response body chunk by chunk. Next returns
// io.EOF when the stream is exhausted. Close is the cancellation hook: the
// response writer calls it exactly once — on exhaustion or when the
// transport stops consuming — and it must release whatever drives the
// stream (tickers, subscriptions, goroutines).
type Stream interface {
	Next() ([]byte, error)
	Close() error
}

// Chunks returns a Stream yielding the given strings as UTF-8 chunks.
func Chunks(chunks ...string) Stream {
	return &sliceStream{chunks: chunks}
}

type sliceStream struct {
	chunks []string
	pos    int
}

func (s *sliceStream) Next() ([]byte, error) {
	if s.pos >= len(s.chunks) {
		return nil, io.EOF
	}
	chunk := s.chunks[s.pos]
	s.pos++
	return []byte(chunk), nil
}

func (s *sliceStream) Close() error { return nil }

// ChanStream adapts a channel of byte chunks into a Stream. The stream is
// exhausted when the channel is closed; producers select on Done to stop
// after the consumer cancels.
func ChanStream(ch <-chan []byte) *ChannelStream {
	return &ChannelStream{ch: ch, done: make(chan struct{})}
}

// ChannelStream is a channel-backed Stream.
type ChannelStream struct {
	ch   <-chan []byte
	done chan struct{}
}

// Next returns the next chunk, or io.EOF once the channel is closed or
// the stream has been cancelled.
func (s *ChannelStream) Next() ([]byte, error) {
	select {
	case <-s.done:
		return nil, io.EOF
	case chunk, ok := <-s.ch:
		if !ok {
			return nil, io.EOF
		}
		return chunk, nil
	}
}

// Close cancels the stream, unblocking any pending Next.
func (s *ChannelStream) Close() error {
	close(s.done)
	return nil
}

// Done is closed when the consumer cancels the stream.
func (s *ChannelStream) Done() <-chan struct{} { return s.done }

// StreamFunc adapts a pull function and an optional cancellation hook
// into a Stream.
func StreamFunc(next func() ([]byte, error), close func() error) Stream {
	return &funcStream{next: next, close: close}
}

type funcStream struct {
	next  func() ([]byte, error)
	close func() error
}

func (s *funcStream) Next() ([]byte, error) { return s.next() }

func (s *funcStream) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
