package stream

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/record"
)

// Item is one element of a stream: a packet with its decoded value, or an inline error.
type Item struct {
	Packet record.Packet
	Value  record.Value
	Err    error
}

// Stream is a running subscription. Items is closed when the stream ends;
// Err then reports a terminal failure, or nil when the stream was closed.
type Stream struct {
	sub    Subscription
	items  chan Item
	done   chan struct{}
	cancel context.CancelFunc
	state  atomic.Int32

	mu  sync.Mutex
	err error
}

func newStream(sub Subscription) *Stream {
	return &Stream{
		sub:   sub,
		items: make(chan Item),
		done:  make(chan struct{}),
	}
}

// ID is the subscription id.
func (s *Stream) ID() string { return s.sub.ID }

// Subscription returns the handle the stream was opened for.
func (s *Stream) Subscription() Subscription { return s.sub }

// Items delivers packets in ascending order.
func (s *Stream) Items() <-chan Item { return s.items }

// Done is closed once the stream has stopped and released its resources.
func (s *Stream) Done() <-chan struct{} { return s.done }

// State returns the current lifecycle phase.
func (s *Stream) State() State { return State(s.state.Load()) }

// Err returns the terminal error, if any.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops delivery and waits until the stream has released its broker subscription.
func (s *Stream) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.done
}

func (s *Stream) setState(st State) {
	s.state.Store(int32(st))
}

func (s *Stream) finish(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.setState(Closed)
	close(s.items)
	close(s.done)
}
