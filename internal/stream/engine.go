// Package stream merges stored history and live broker traffic into ordered subscriptions.
package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/access"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/broker"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/clock"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/deliver"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/record"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/subject"
	"go.uber.org/zap"
)

var (
	ErrStore  = errors.New("store unavailable")
	ErrBroker = errors.New("broker unavailable")
	ErrDecode = errors.New("decode record")
)

const (
	phaseHistorical = "historical"
	phaseLive       = "live"

	dropBeforeStart = "before_start"
	dropWatermark   = "watermark"
	dropDuplicate   = "duplicate"
)

// Engine opens streams against a store and a broker for one namespace.
type Engine struct {
	store     Store
	broker    Broker
	gate      Gate
	metrics   Metrics
	registry  *subject.Registry
	decoder   record.Decoder
	namespace string
	cfg       Config
	logger    *zap.Logger
	sleep     clock.SleepFunc
}

// NewEngine builds an Engine with dependencies.
func NewEngine(
	store Store,
	brk Broker,
	gate Gate,
	registry *subject.Registry,
	decoder record.Decoder,
	metrics Metrics,
	cfg Config,
	namespace string,
	logger *zap.Logger,
) (*Engine, error) {
	switch {
	case store == nil:
		return nil, errors.New("stream store is required")
	case brk == nil:
		return nil, errors.New("stream broker is required")
	case gate == nil:
		return nil, errors.New("stream gate is required")
	case registry == nil || decoder == nil:
		return nil, errors.New("stream registry and decoder are required")
	case metrics == nil:
		return nil, errors.New("stream metrics is required")
	}

	return &Engine{
		store:     store,
		broker:    brk,
		gate:      gate,
		metrics:   metrics,
		registry:  registry,
		decoder:   decoder,
		namespace: namespace,
		cfg:       cfg.withDefaults(),
		logger:    logger.Named("stream").With(zap.String("namespace", namespace)),
		sleep:     clock.SleepWithContext,
	}, nil
}

// Subscribe authorizes the request and starts a stream. Address, policy and
// authorization failures are returned here; nothing is emitted for them.
func (e *Engine) Subscribe(ctx context.Context, cred access.Credential, policy deliver.Policy, subj *subject.Subject) (_ *Stream, err error) {
	started := time.Now()
	defer func() {
		e.metrics.ObserveSubscribe(policyLabel(policy), err, started)
	}()

	st := newStream(NewSubscription(cred.Identity(), policy, subj))
	st.setState(Authorizing)

	if err = e.gate.Authorize(cred, policy, subj); err != nil {
		return nil, err
	}
	release, err := e.gate.Acquire(cred)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	pattern := record.Namespaced(e.namespace, subj.Wildcard())
	live, err := e.broker.Subscribe(runCtx, pattern)
	if err != nil {
		cancel()
		release()
		return nil, fmt.Errorf("%w: subscribe %s: %w", ErrBroker, pattern, err)
	}
	abort := func() {
		_ = live.Unsubscribe()
		cancel()
		release()
	}

	r := &runner{
		engine: e,
		stream: st,
		policy: policy,
		subj:   subj,
		live:   live,
		logger: e.logger.With(zap.String("subscription", st.ID()), zap.String("pattern", pattern), zap.Stringer("policy", policy)),
	}

	if from, ok := policy.Height(); ok {
		r.from = from
		height, known, werr := e.maxHeight(runCtx)
		if werr != nil {
			abort()
			return nil, werr
		}
		if known {
			r.watermark = &height
		}
		if err = e.gate.CheckLookback(cred, policy, height); err != nil {
			abort()
			return nil, err
		}
	}

	r.queue = newLiveQueue(e.metrics, r.logger, e.cfg.BufferWarnThreshold)
	r.release = release
	st.cancel = cancel

	e.metrics.ActiveStreams(1)
	go r.queue.pump(runCtx, live)
	go r.run(runCtx)

	return st, nil
}

func (e *Engine) maxHeight(ctx context.Context) (height uint64, known bool, err error) {
	err = e.retry(ctx, func(ctx context.Context) error {
		var ferr error
		height, known, ferr = e.store.MaxBlockHeight(ctx, e.namespace)
		return ferr
	})
	if err != nil {
		return 0, false, fmt.Errorf("%w: read watermark: %w", ErrStore, err)
	}
	return height, known, nil
}

func (e *Engine) retry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := clock.Backoff{Initial: e.cfg.InitialBackoff, Max: e.cfg.MaxBackoff}
	return clock.Retry(ctx, e.cfg.MaxRetries, backoff, e.sleep, fn)
}

// runner owns the catch-up cursor, the live queue and the seam state of one stream.
type runner struct {
	engine  *Engine
	stream  *Stream
	policy  deliver.Policy
	subj    *subject.Subject
	live    broker.Subscription
	queue   *liveQueue
	release func()
	logger  *zap.Logger

	from        uint64
	watermark   *uint64
	lastEmitted *record.Order
}

func (r *runner) run(ctx context.Context) {
	var err error
	if r.policy.IsHistorical() {
		r.stream.setState(HistoricalCatchUp)
		r.logger.Debug("catching up", zap.Uint64("from", r.from), zap.Any("watermark", r.watermark))
		err = r.catchUp(ctx)
	}
	if err == nil {
		r.stream.setState(LiveTail)
		err = r.tail(ctx)
	}

	_ = r.live.Unsubscribe()
	r.queue.discard()
	r.release()
	r.engine.metrics.ActiveStreams(-1)

	if ctx.Err() != nil {
		err = nil
	}
	if err != nil {
		r.logger.Warn("stream failed", zap.Error(err))
	}
	r.stream.cancel()
	r.stream.finish(err)
}

func (r *runner) catchUp(ctx context.Context) error {
	cfg := r.engine.cfg
	var after *record.Order

	for {
		page, err := r.fetch(ctx, record.Range{
			Subject:    r.subj,
			Namespace:  r.engine.namespace,
			FromHeight: r.from,
			After:      after,
			Limit:      cfg.PageSize,
		})
		if err != nil {
			return err
		}

		for _, p := range page {
			if !r.advance(p.Order) {
				r.engine.metrics.IncDropped(dropDuplicate)
				continue
			}
			if err = r.emit(ctx, r.item(p), phaseHistorical); err != nil {
				return err
			}
		}

		if len(page) < cfg.PageSize {
			return nil
		}
		last := page[len(page)-1].Order
		if r.watermark != nil && last.BlockHeight > *r.watermark {
			return nil
		}
		after = &last

		if err = r.engine.sleep(ctx, cfg.HistoricalThrottle); err != nil {
			return err
		}
	}
}

func (r *runner) fetch(ctx context.Context, rng record.Range) (page []record.Packet, err error) {
	err = r.engine.retry(ctx, func(ctx context.Context) error {
		started := time.Now()
		var ferr error
		page, ferr = r.engine.store.FindRange(ctx, rng)
		r.engine.metrics.ObservePage(ferr, len(page), started)
		if ferr != nil && ctx.Err() == nil {
			r.logger.Warn("fetch page failed", zap.Uint64("from", rng.FromHeight), zap.Error(ferr))
		}
		return ferr
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return page, nil
}

func (r *runner) tail(ctx context.Context) error {
	throttle := r.engine.cfg.LiveThrottle

	for {
		msg, err := r.queue.pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %w", ErrBroker, err)
		}

		p, err := record.UnmarshalEnvelope(r.engine.registry, msg.Data)
		if err != nil {
			r.engine.metrics.IncDecodeErrors()
			if err = r.emit(ctx, Item{Err: fmt.Errorf("%w: %s: %w", ErrDecode, msg.Subject, err)}, phaseLive); err != nil {
				return err
			}
			continue
		}

		if reason, ok := r.admit(p.Order); !ok {
			r.engine.metrics.IncDropped(reason)
			continue
		}
		if throttle > 0 {
			if err = r.engine.sleep(ctx, throttle); err != nil {
				return err
			}
		}
		if err = r.emit(ctx, r.item(p), phaseLive); err != nil {
			return err
		}
	}
}

// admit applies the seam rules to a live packet and advances the cursor when it passes.
func (r *runner) admit(o record.Order) (string, bool) {
	if r.policy.IsHistorical() {
		if o.BlockHeight < r.from {
			return dropBeforeStart, false
		}
		if r.watermark != nil && o.BlockHeight <= *r.watermark {
			return dropWatermark, false
		}
	}
	if !r.advance(o) {
		return dropDuplicate, false
	}
	return "", true
}

func (r *runner) advance(o record.Order) bool {
	if r.lastEmitted != nil && o.Compare(*r.lastEmitted) <= 0 {
		return false
	}
	r.lastEmitted = &o
	return true
}

func (r *runner) item(p record.Packet) Item {
	v, err := p.Decode(r.engine.decoder)
	if err != nil {
		r.engine.metrics.IncDecodeErrors()
		return Item{Packet: p, Err: fmt.Errorf("%w: %s: %w", ErrDecode, p.Path(), err)}
	}
	return Item{Packet: p, Value: v}
}

func (r *runner) emit(ctx context.Context, it Item, phase string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case r.stream.items <- it:
		r.engine.metrics.IncEmitted(phase)
		return nil
	}
}

func policyLabel(p deliver.Policy) string {
	if p.IsHistorical() {
		return "from_block"
	}
	return "new"
}
