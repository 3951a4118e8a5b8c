package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/record"
	"github.com/goodnatureofminers/blockstream7000-backend/pkg/batcher"
	"github.com/goodnatureofminers/blockstream7000-backend/pkg/workerpool"
	"go.uber.org/zap"
)

// BackfillConfig tunes a Backfill run.
type BackfillConfig struct {
	Namespace string
	From      uint64
	// To is inclusive; zero means the chain tip when the run starts.
	To               uint64
	Workers          int
	ChunkSize        uint64
	FlushSize        int
	FlushInterval    time.Duration
	FlushesPerSecond int
}

// BackfillReport summarizes a Backfill run.
type BackfillReport struct {
	From, To  uint64
	Processed int
	Failed    []uint64
}

// Backfill stores a height range without publishing it.
type Backfill struct {
	logger  *zap.Logger
	metrics BackfillMetrics
	source  Source
	builder *Builder
	store   Store
	cfg     BackfillConfig
	now     func() time.Time

	mu     sync.Mutex
	failed map[uint64]struct{}
	stored int
}

type blockPackets struct {
	height  uint64
	packets []record.Packet
}

// NewBackfill builds a Backfill with dependencies.
func NewBackfill(
	source Source,
	builder *Builder,
	store Store,
	metrics BackfillMetrics,
	cfg BackfillConfig,
	logger *zap.Logger,
) (*Backfill, error) {
	if metrics == nil {
		return nil, errors.New("backfill metrics is required")
	}
	if source == nil || builder == nil || store == nil {
		return nil, errors.New("backfill source, builder and store are required")
	}
	if cfg.Namespace == "" {
		return nil, errors.New("namespace is empty")
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	return &Backfill{
		logger:  logger.Named("backfill").With(zap.String("namespace", cfg.Namespace)),
		metrics: metrics,
		source:  source,
		builder: builder,
		store:   store,
		cfg:     cfg,
		now:     time.Now,
	}, nil
}

// Run processes the configured range once. Failed heights are reported, not retried.
func (b *Backfill) Run(ctx context.Context) (BackfillReport, error) {
	report := BackfillReport{From: b.cfg.From, To: b.cfg.To}
	if report.To == 0 {
		latest, err := b.source.LatestHeight(ctx)
		if err != nil {
			return report, fmt.Errorf("latest height: %w", err)
		}
		report.To = latest
	}
	if report.From > report.To {
		return report, fmt.Errorf("empty range %d..%d", report.From, report.To)
	}

	b.failed = make(map[uint64]struct{})
	b.stored = 0
	writer := batcher.New[blockPackets](b.logger.Named("writer"), b.flush, batcher.Config{
		FlushSize:        b.cfg.FlushSize,
		FlushInterval:    b.cfg.FlushInterval,
		FlushesPerSecond: b.cfg.FlushesPerSecond,
	})
	writer.Start(ctx)

	b.logger.Info("backfill started", zap.Uint64("from", report.From), zap.Uint64("to", report.To))
	for start := report.From; start <= report.To; {
		end := report.To
		if end-start >= b.cfg.ChunkSize {
			end = start + b.cfg.ChunkSize - 1
		}
		heights := make([]uint64, 0, end-start+1)
		for h := start; h <= end; h++ {
			heights = append(heights, h)
		}

		started := time.Now()
		err := workerpool.Process(ctx, b.cfg.Workers, heights, func(ctx context.Context, height uint64) error {
			return b.processHeight(ctx, writer, height)
		}, workerpool.ContinueOnError())
		b.metrics.ObserveProcessBatch(err, len(heights), started)
		if err != nil {
			b.logger.Warn("chunk finished with failures", zap.Uint64("from", start), zap.Uint64("to", end), zap.Error(err))
		}

		if ctx.Err() != nil || end == report.To {
			break
		}
		start = end + 1
	}
	writer.Stop()

	b.mu.Lock()
	for h := range b.failed {
		report.Failed = append(report.Failed, h)
	}
	report.Processed = b.stored
	b.mu.Unlock()
	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i] < report.Failed[j] })

	b.logger.Info("backfill finished", zap.Int("processed", report.Processed), zap.Int("failed", len(report.Failed)))
	return report, ctx.Err()
}

func (b *Backfill) processHeight(ctx context.Context, writer *batcher.Batcher[blockPackets], height uint64) (err error) {
	started := time.Now()
	defer func() {
		if err != nil {
			b.markFailed(height)
		}
		b.metrics.ObserveProcessHeight(err, height, started)
	}()

	block, err := b.source.FetchBlock(ctx, height)
	if err != nil {
		return fmt.Errorf("fetch block height %d: %w", height, err)
	}
	packets, err := b.builder.Build(block)
	if err != nil {
		return fmt.Errorf("build block height %d: %w", height, err)
	}

	publishedAt := b.now().UTC()
	for i := range packets {
		packets[i].Namespace = b.cfg.Namespace
		packets[i].PublishedAt = publishedAt
	}

	if err = writer.Add(ctx, blockPackets{height: height, packets: packets}); err != nil {
		return fmt.Errorf("queue block height %d: %w", height, err)
	}
	return nil
}

func (b *Backfill) flush(ctx context.Context, blocks []blockPackets) (err error) {
	var packets []record.Packet
	for _, blk := range blocks {
		packets = append(packets, blk.packets...)
	}

	started := time.Now()
	defer func() {
		b.metrics.ObserveFlush(err, len(packets), started)
	}()

	if err = b.store.InsertPackets(ctx, packets); err != nil {
		for _, blk := range blocks {
			b.markFailed(blk.height)
		}
		return fmt.Errorf("insert %d blocks: %w", len(blocks), err)
	}
	b.mu.Lock()
	b.stored += len(blocks)
	b.mu.Unlock()
	return nil
}

func (b *Backfill) markFailed(height uint64) {
	b.mu.Lock()
	b.failed[height] = struct{}{}
	b.mu.Unlock()
}
