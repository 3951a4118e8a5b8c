// Package pipeline turns decoded blocks into stored and published stream records.
package pipeline

//go:generate mockgen -source=types.go -destination=mocks_test.go -package=pipeline

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/chain"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/record"
)

type (
	// Store persists packets.
	Store interface {
		InsertPackets(ctx context.Context, packets []record.Packet) error
	}
	// HeightStore reports the highest stored block of a namespace.
	HeightStore interface {
		MaxBlockHeight(ctx context.Context, namespace string) (uint64, bool, error)
	}
	// Publisher sends encoded envelopes to live subscribers.
	Publisher interface {
		Publish(ctx context.Context, subject string, data []byte) error
	}
	// Source provides decoded blocks.
	Source interface {
		LatestHeight(ctx context.Context) (uint64, error)
		FetchBlock(ctx context.Context, height uint64) (*chain.Block, error)
	}
	// BlockProcessor stores and publishes one block.
	BlockProcessor interface {
		ProcessBlock(ctx context.Context, block *chain.Block) (BlockStats, error)
	}
	// Metrics observes pipeline phases.
	Metrics interface {
		ObservePhase(phase string, err error, packets int, started time.Time)
		ObservePublishFailures(n int)
	}
	// FollowerMetrics observes the follower loop.
	FollowerMetrics interface {
		ObserveFetchHeights(err error, started time.Time)
		ObserveProcessHeight(err error, height uint64, started time.Time)
	}
	// BackfillMetrics observes backfill batches.
	BackfillMetrics interface {
		ObserveProcessBatch(err error, heights int, started time.Time)
		ObserveProcessHeight(err error, height uint64, started time.Time)
		ObserveFlush(err error, packets int, started time.Time)
	}
)
