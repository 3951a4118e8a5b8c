package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/clock"
	"go.uber.org/zap"
)

// FollowerConfig tunes a Follower.
type FollowerConfig struct {
	Namespace string
	// StartHeight is used when the store holds no block for the namespace; negative means the chain tip.
	StartHeight int64
	// BatchSize caps heights processed between two tip checks.
	BatchSize         uint64
	SleepDuration     time.Duration
	LongSleepDuration time.Duration
}

// Follower tails the chain and hands each new block to the pipeline.
type Follower struct {
	logger            *zap.Logger
	metrics           FollowerMetrics
	sleep             clock.SleepFunc
	sleepDuration     time.Duration
	longSleepDuration time.Duration
	source            Source
	heights           HeightStore
	processor         BlockProcessor
	namespace         string
	startHeight       int64
	batchSize         uint64

	next    uint64
	resumed bool
}

// NewFollower builds a Follower with dependencies.
func NewFollower(
	source Source,
	heights HeightStore,
	processor BlockProcessor,
	metrics FollowerMetrics,
	cfg FollowerConfig,
	logger *zap.Logger,
) (*Follower, error) {
	if metrics == nil {
		return nil, errors.New("follower metrics is required")
	}
	if source == nil || heights == nil || processor == nil {
		return nil, errors.New("follower source, height store and processor are required")
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 1
	}

	return &Follower{
		logger:            logger.Named("follower").With(zap.String("namespace", cfg.Namespace)),
		metrics:           metrics,
		sleep:             clock.SleepWithContext,
		sleepDuration:     cfg.SleepDuration,
		longSleepDuration: cfg.LongSleepDuration,
		source:            source,
		heights:           heights,
		processor:         processor,
		namespace:         cfg.Namespace,
		startHeight:       cfg.StartHeight,
		batchSize:         cfg.BatchSize,
	}, nil
}

// Run follows the chain until the context is canceled.
func (f *Follower) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := f.run(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f.logger.Warn("run iteration failed, backing off", zap.Error(err), zap.Duration("sleep", f.sleepDuration))
			if sleepErr := f.sleep(ctx, f.sleepDuration); sleepErr != nil {
				return sleepErr
			}
		}
	}
}

// Next returns the height the follower processes next.
func (f *Follower) Next() uint64 {
	return f.next
}

func (f *Follower) run(ctx context.Context) error {
	started := time.Now()
	latest, err := f.source.LatestHeight(ctx)
	f.metrics.ObserveFetchHeights(err, started)
	if err != nil {
		return fmt.Errorf("latest height: %w", err)
	}

	if !f.resumed {
		if err = f.resume(ctx, latest); err != nil {
			return err
		}
	}

	if f.next > latest {
		f.logger.Debug("no new heights discovered; sleeping", zap.Duration("sleep", f.longSleepDuration))
		return f.sleep(ctx, f.longSleepDuration)
	}

	end := latest
	if end-f.next >= f.batchSize {
		end = f.next + f.batchSize - 1
	}
	for f.next <= end {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = f.process(ctx, f.next); err != nil {
			return err
		}
		f.next++
	}

	if end < latest {
		return nil
	}
	return f.sleep(ctx, f.sleepDuration)
}

// process returns an error only when the block could not be fetched; pipeline failures are skipped.
func (f *Follower) process(ctx context.Context, height uint64) (err error) {
	started := time.Now()
	defer func() {
		f.metrics.ObserveProcessHeight(err, height, started)
	}()

	block, err := f.source.FetchBlock(ctx, height)
	if err != nil {
		return fmt.Errorf("fetch block %d: %w", height, err)
	}

	stats, perr := f.processor.ProcessBlock(ctx, block)
	if perr != nil {
		f.logger.Error("block failed, moving on",
			zap.Uint64("height", height),
			zap.Duration("store", stats.Store.Elapsed),
			zap.Int("published", stats.Publish.Packets),
			zap.Error(perr),
		)
		return nil
	}
	f.logger.Info("block followed",
		zap.Uint64("height", height),
		zap.Int("packets", stats.Store.Packets),
		zap.Duration("store", stats.Store.Elapsed),
		zap.Duration("publish", stats.Publish.Elapsed),
	)
	return nil
}

func (f *Follower) resume(ctx context.Context, latest uint64) error {
	stored, ok, err := f.heights.MaxBlockHeight(ctx, f.namespace)
	if err != nil {
		return fmt.Errorf("max stored height: %w", err)
	}

	switch {
	case ok:
		f.next = stored + 1
	case f.startHeight >= 0:
		f.next = uint64(f.startHeight)
	default:
		f.next = latest
	}
	f.resumed = true
	f.logger.Info("resuming", zap.Uint64("next", f.next), zap.Bool("stored", ok), zap.Uint64("latest", latest))
	return nil
}
