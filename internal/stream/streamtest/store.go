// Package streamtest provides an in-memory store for exercising streams without ClickHouse.
package streamtest

import (
	"context"
	"sort"
	"sync"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/record"
)

// Store keeps packets in memory and answers range queries the way the ClickHouse store does.
type Store struct {
	mu       sync.Mutex
	packets  []record.Packet
	failures int
	failErr  error
	finds    int
	onFind   func(r record.Range)
}

// NewStore returns a store holding packets.
func NewStore(packets ...record.Packet) *Store {
	s := &Store{}
	s.add(packets)
	return s
}

// InsertPackets stores packets.
func (s *Store) InsertPackets(ctx context.Context, packets []record.Packet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.add(packets)
	return nil
}

// FailNext makes the next n FindRange calls fail with err.
func (s *Store) FailNext(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = n
	s.failErr = err
}

// OnFind registers a hook run at the start of every FindRange call.
func (s *Store) OnFind(fn func(r record.Range)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFind = fn
}

// Finds returns how many times FindRange was called.
func (s *Store) Finds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finds
}

// FindRange returns packets matching the range in ascending order.
func (s *Store) FindRange(ctx context.Context, r record.Range) ([]record.Packet, error) {
	s.mu.Lock()
	s.finds++
	hook := s.onFind
	s.mu.Unlock()

	if hook != nil {
		hook(r)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failures > 0 {
		s.failures--
		return nil, s.failErr
	}

	var out []record.Packet
	for _, p := range s.packets {
		if !matches(r, p) {
			continue
		}
		out = append(out, p)
		if r.Limit > 0 && len(out) == r.Limit {
			break
		}
	}
	return out, nil
}

// MaxBlockHeight returns the highest stored block in the namespace.
func (s *Store) MaxBlockHeight(ctx context.Context, namespace string) (uint64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		highest uint64
		found   bool
	)
	for _, p := range s.packets {
		if p.Entity != record.Block || p.Namespace != namespace {
			continue
		}
		if !found || p.Order.BlockHeight > highest {
			highest, found = p.Order.BlockHeight, true
		}
	}
	return highest, found, nil
}

func (s *Store) add(packets []record.Packet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.packets = append(s.packets, packets...)
	sort.SliceStable(s.packets, func(i, j int) bool {
		return s.packets[i].Order.Compare(s.packets[j].Order) < 0
	})
}

func matches(r record.Range, p record.Packet) bool {
	if p.Namespace != r.Namespace || p.Subject.ID() != r.Subject.ID() {
		return false
	}
	if p.Order.BlockHeight < r.FromHeight {
		return false
	}
	if r.After != nil && p.Order.Compare(*r.After) <= 0 {
		return false
	}
	for _, f := range r.Subject.Template().Fields {
		want, ok := r.Subject.Value(f.Name)
		if !ok {
			continue
		}
		if got, _ := p.Subject.Value(f.Name); got != want {
			return false
		}
	}
	return true
}
