package stream

import (
	"context"
	"sync"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/broker"
	"go.uber.org/zap"
)

// liveQueue buffers live messages without bound while catch-up runs.
type liveQueue struct {
	metrics Metrics
	logger  *zap.Logger
	warnAt  int

	mu     sync.Mutex
	items  []broker.Message
	notify chan struct{}
	closed bool
	err    error
	warned bool
}

func newLiveQueue(metrics Metrics, logger *zap.Logger, warnAt int) *liveQueue {
	return &liveQueue{
		metrics: metrics,
		logger:  logger,
		warnAt:  warnAt,
		notify:  make(chan struct{}, 1),
	}
}

// pump moves messages from the subscription into the queue until either side ends.
func (q *liveQueue) pump(ctx context.Context, sub broker.Subscription) {
	for {
		select {
		case <-ctx.Done():
			q.close(nil)
			return
		case m := <-sub.Messages():
			q.push(m)
		case <-sub.Done():
			q.drain(sub)
			err := sub.Err()
			if err == nil {
				err = broker.ErrClosed
			}
			q.close(err)
			return
		}
	}
}

func (q *liveQueue) drain(sub broker.Subscription) {
	for {
		select {
		case m := <-sub.Messages():
			q.push(m)
		default:
			return
		}
	}
}

func (q *liveQueue) push(m broker.Message) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, m)
	depth := len(q.items)
	warn := depth >= q.warnAt && !q.warned
	if warn {
		q.warned = true
	}
	q.mu.Unlock()

	q.metrics.AddBuffered(1)
	if warn {
		q.logger.Warn("live buffer is growing", zap.Int("depth", depth))
	}
	q.signal()
}

// pop blocks until a message is buffered, the queue is closed or ctx is done.
func (q *liveQueue) pop(ctx context.Context) (broker.Message, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			m := q.items[0]
			q.items[0] = broker.Message{}
			q.items = q.items[1:]
			if len(q.items) < q.warnAt {
				q.warned = false
			}
			q.mu.Unlock()
			q.metrics.AddBuffered(-1)
			return m, nil
		}
		if q.closed {
			err := q.err
			q.mu.Unlock()
			if err == nil {
				err = broker.ErrClosed
			}
			return broker.Message{}, err
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return broker.Message{}, ctx.Err()
		case <-q.notify:
		}
	}
}

func (q *liveQueue) close(err error) {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.err = err
	}
	q.mu.Unlock()
	q.signal()
}

// discard drops whatever is still buffered.
func (q *liveQueue) discard() {
	q.mu.Lock()
	n := len(q.items)
	q.items = nil
	q.closed = true
	q.mu.Unlock()
	if n > 0 {
		q.metrics.AddBuffered(-n)
	}
}

func (q *liveQueue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
