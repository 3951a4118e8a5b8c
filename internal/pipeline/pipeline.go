package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/chain"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/clock"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/record"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

var (
	// ErrStorePhase marks a block whose packets were not persisted; nothing was published.
	ErrStorePhase = errors.New("store phase failed")
	// ErrPublishPhase marks a stored block with at least one packet not published.
	ErrPublishPhase = errors.New("publish phase failed")
)

// Phase names reported to metrics.
const (
	PhaseBuild   = "build"
	PhaseStore   = "store"
	PhasePublish = "publish"
)

// Config tunes a Pipeline.
type Config struct {
	Namespace string
	// StoreTimeout bounds each insert attempt.
	StoreTimeout time.Duration
	// StoreMaxRetries is the number of insert attempts per block; values below one mean a single attempt.
	StoreMaxRetries     int
	StoreInitialBackoff time.Duration
	// PublishRate caps published packets per second; zero disables the cap.
	PublishRate int
}

// PhaseStats reports one phase of a block.
type PhaseStats struct {
	Elapsed time.Duration
	Packets int
	Failed  int
	Err     error
}

// BlockStats reports a processed block.
type BlockStats struct {
	Height  uint64
	Store   PhaseStats
	Publish PhaseStats
}

var _ BlockProcessor = (*Pipeline)(nil)

// Pipeline persists a block's packets and then publishes them.
type Pipeline struct {
	builder   *Builder
	store     Store
	publisher Publisher
	metrics   Metrics
	cfg       Config
	limiter   ratelimit.Limiter
	logger    *zap.Logger
	now       func() time.Time
	sleep     clock.SleepFunc
}

// New constructs a Pipeline.
func New(
	builder *Builder,
	store Store,
	publisher Publisher,
	metrics Metrics,
	cfg Config,
	logger *zap.Logger,
) (*Pipeline, error) {
	if builder == nil {
		return nil, errors.New("builder is nil")
	}
	if store == nil {
		return nil, errors.New("store is nil")
	}
	if publisher == nil {
		return nil, errors.New("publisher is nil")
	}
	if metrics == nil {
		return nil, errors.New("metrics is nil")
	}
	if cfg.Namespace == "" {
		return nil, errors.New("namespace is empty")
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.PublishRate > 0 {
		limiter = ratelimit.New(cfg.PublishRate)
	}

	return &Pipeline{
		builder:   builder,
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		cfg:       cfg,
		limiter:   limiter,
		logger:    logger.Named("pipeline").With(zap.String("namespace", cfg.Namespace)),
		now:       time.Now,
		sleep:     clock.SleepWithContext,
	}, nil
}

// ProcessBlock builds the block's packets, stores them and publishes them in order.
// Publishing starts only after the store accepted every packet.
func (p *Pipeline) ProcessBlock(ctx context.Context, block *chain.Block) (BlockStats, error) {
	stats := BlockStats{}
	if block != nil {
		stats.Height = block.Height()
	}

	packets, err := p.build(block)
	if err != nil {
		stats.Store.Err = err
		return stats, fmt.Errorf("block %d: %w: %w", stats.Height, ErrStorePhase, err)
	}

	stats.Store = p.storePhase(ctx, packets)
	if stats.Store.Err != nil {
		p.logger.Warn("block not stored",
			zap.Uint64("height", stats.Height),
			zap.Int("packets", len(packets)),
			zap.Error(stats.Store.Err),
		)
		return stats, fmt.Errorf("block %d: %w: %w", stats.Height, ErrStorePhase, stats.Store.Err)
	}

	stats.Publish = p.publishPhase(ctx, packets)
	if stats.Publish.Err != nil {
		p.logger.Warn("block partially published",
			zap.Uint64("height", stats.Height),
			zap.Int("published", stats.Publish.Packets),
			zap.Int("failed", stats.Publish.Failed),
			zap.Error(stats.Publish.Err),
		)
		return stats, fmt.Errorf("block %d: %w: %w", stats.Height, ErrPublishPhase, stats.Publish.Err)
	}

	p.logger.Debug("block processed",
		zap.Uint64("height", stats.Height),
		zap.Int("packets", len(packets)),
		zap.Duration("store", stats.Store.Elapsed),
		zap.Duration("publish", stats.Publish.Elapsed),
	)
	return stats, nil
}

func (p *Pipeline) build(block *chain.Block) (packets []record.Packet, err error) {
	start := time.Now()
	defer func() {
		p.metrics.ObservePhase(PhaseBuild, err, len(packets), start)
	}()

	packets, err = p.builder.Build(block)
	if err != nil {
		return nil, fmt.Errorf("build packets: %w", err)
	}

	publishedAt := p.now().UTC()
	for i := range packets {
		packets[i].Namespace = p.cfg.Namespace
		packets[i].PublishedAt = publishedAt
	}
	return packets, nil
}

func (p *Pipeline) storePhase(ctx context.Context, packets []record.Packet) (stats PhaseStats) {
	start := time.Now()
	defer func() {
		stats.Elapsed = time.Since(start)
		p.metrics.ObservePhase(PhaseStore, stats.Err, stats.Packets, start)
	}()

	attempt := 0
	err := clock.Retry(ctx, p.cfg.StoreMaxRetries, clock.Backoff{Initial: p.cfg.StoreInitialBackoff}, p.sleep, func(ctx context.Context) error {
		attempt++
		if p.cfg.StoreTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, p.cfg.StoreTimeout)
			defer cancel()
		}
		ierr := p.store.InsertPackets(ctx, packets)
		if ierr != nil && attempt < p.cfg.StoreMaxRetries {
			p.logger.Debug("insert attempt failed", zap.Int("attempt", attempt), zap.Error(ierr))
		}
		return ierr
	})
	if err != nil {
		stats.Err = fmt.Errorf("insert packets: %w", err)
		return stats
	}
	stats.Packets = len(packets)
	return stats
}

func (p *Pipeline) publishPhase(ctx context.Context, packets []record.Packet) (stats PhaseStats) {
	start := time.Now()
	defer func() {
		stats.Elapsed = time.Since(start)
		p.metrics.ObservePhase(PhasePublish, stats.Err, stats.Packets, start)
		if stats.Failed > 0 {
			p.metrics.ObservePublishFailures(stats.Failed)
		}
	}()

	for i, packet := range packets {
		if err := ctx.Err(); err != nil {
			stats.Failed += len(packets) - i
			stats.Err = errors.Join(stats.Err, err)
			return stats
		}
		p.limiter.Take()

		data, err := record.MarshalEnvelope(packet)
		if err == nil {
			err = p.publisher.Publish(ctx, packet.Path(), data)
		}
		if err != nil {
			stats.Failed++
			if stats.Err == nil {
				stats.Err = fmt.Errorf("publish %s: %w", packet.Path(), err)
			}
			continue
		}
		stats.Packets++
	}
	return stats
}
