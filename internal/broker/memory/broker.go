// Package memory is an in-process broker matching NATS-style wildcard patterns.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/broker"
)

const defaultBuffer = 1024

// Broker fans published messages out to matching subscriptions.
type Broker struct {
	mu     sync.RWMutex
	subs   map[*subscription]struct{}
	buffer int
	closed bool
}

// New returns a broker whose subscriptions buffer up to buffer messages.
func New(buffer int) *Broker {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Broker{subs: make(map[*subscription]struct{}), buffer: buffer}
}

// CompilePattern turns a subject pattern with "*" and a trailing ">" into a matcher.
func CompilePattern(pattern string) (glob.Glob, error) {
	tokens := strings.Split(pattern, ".")
	for i, tok := range tokens {
		switch {
		case tok == "*":
		case tok == ">" && i == len(tokens)-1:
			tokens[i] = "**"
		default:
			tokens[i] = glob.QuoteMeta(tok)
		}
	}
	g, err := glob.Compile(strings.Join(tokens, "."), '.')
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return g, nil
}

// Publish delivers data to every matching subscription, waiting for buffer room.
func (b *Broker) Publish(ctx context.Context, subject string, data []byte) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return broker.ErrClosed
	}
	targets := make([]*subscription, 0, len(b.subs))
	for s := range b.subs {
		if s.match.Match(subject) {
			targets = append(targets, s)
		}
	}
	b.mu.RUnlock()

	msg := broker.Message{Subject: subject, Data: data}
	for _, s := range targets {
		select {
		case s.messages <- msg:
		case <-s.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe registers a subscription on pattern.
func (b *Broker) Subscribe(_ context.Context, pattern string) (broker.Subscription, error) {
	match, err := CompilePattern(pattern)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, broker.ErrClosed
	}

	s := &subscription{
		broker:   b,
		match:    match,
		messages: make(chan broker.Message, b.buffer),
		done:     make(chan struct{}),
	}
	b.subs[s] = struct{}{}
	return s, nil
}

// Subscribers returns the number of live subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Fail ends every subscription with err.
func (b *Broker) Fail(err error) {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[*subscription]struct{})
	b.mu.Unlock()

	for s := range subs {
		s.end(err)
	}
}

// Close ends every subscription and rejects further use.
func (b *Broker) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.Fail(broker.ErrClosed)
	return nil
}

type subscription struct {
	broker   *Broker
	match    glob.Glob
	messages chan broker.Message
	done     chan struct{}

	once sync.Once
	mu   sync.Mutex
	err  error
}

func (s *subscription) Messages() <-chan broker.Message { return s.messages }

func (s *subscription) Done() <-chan struct{} { return s.done }

func (s *subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *subscription) Unsubscribe() error {
	s.broker.mu.Lock()
	delete(s.broker.subs, s)
	s.broker.mu.Unlock()
	s.end(nil)
	return nil
}

func (s *subscription) end(err error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.done)
	})
}
