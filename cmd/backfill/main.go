package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/bitcoin"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/codec"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/metrics"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/model"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/pipeline"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/repository/clickhouse"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type config struct {
	ClickhouseDSN    string        `long:"clickhouse-dsn" env:"BACKFILL_CLICKHOUSE_DSN" description:"ClickHouse DSN" required:"true"`
	Network          string        `long:"network" env:"BACKFILL_NETWORK" description:"network name, also the record namespace" required:"true"`
	RPCURL           string        `long:"rpc-url" env:"BACKFILL_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser          string        `long:"rpc-user" env:"BACKFILL_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword      string        `long:"rpc-password" env:"BACKFILL_RPC_PASSWORD" description:"Bitcoin RPC password"`
	CompressionLevel int           `long:"compression-level" env:"BACKFILL_COMPRESSION_LEVEL" description:"zstd level 1-4 for record values, 0 stores plain JSON" default:"1"`
	From             uint64        `long:"from" env:"BACKFILL_FROM" description:"first height" default:"0"`
	To               uint64        `long:"to" env:"BACKFILL_TO" description:"last height, 0 is the chain tip"`
	Workers          int           `long:"workers" env:"BACKFILL_WORKERS" description:"concurrent block fetches" default:"8"`
	ChunkSize        uint64        `long:"chunk-size" env:"BACKFILL_CHUNK_SIZE" description:"heights per worker batch" default:"1000"`
	FlushSize        int           `long:"flush-size" env:"BACKFILL_FLUSH_SIZE" description:"blocks per insert" default:"100"`
	FlushInterval    time.Duration `long:"flush-interval" env:"BACKFILL_FLUSH_INTERVAL" description:"max wait before a partial insert" default:"5s"`
	FlushesPerSecond int           `long:"flushes-per-second" env:"BACKFILL_FLUSHES_PER_SECOND" description:"insert rate cap, 0 is unlimited" default:"0"`
	MetricsAddr      string        `long:"metrics-addr" env:"BACKFILL_METRICS_ADDR" description:"address for metrics server" default:":2113"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("backfill failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		_ = repo.Close()
	}()

	rpcClient, err := bitcoin.Dial(bitcoin.RPCConfig{URL: cfg.RPCURL, User: cfg.RPCUser, Password: cfg.RPCPassword})
	if err != nil {
		return fmt.Errorf("init bitcoin rpc client: %w", err)
	}
	defer func() {
		rpcClient.Shutdown()
		rpcClient.WaitForShutdown()
	}()
	rpc, err := bitcoin.NewRPCClient(rpcClient, metrics.NewRPCClient(cfg.Network))
	if err != nil {
		return err
	}
	source, err := bitcoin.NewSource(rpc, model.Network(cfg.Network))
	if err != nil {
		return fmt.Errorf("init bitcoin source: %w", err)
	}

	builder, err := pipeline.NewBuilder(codec.ForLevel(cfg.CompressionLevel))
	if err != nil {
		return err
	}
	backfill, err := pipeline.NewBackfill(source, builder, repo, metrics.NewBackfill(cfg.Network), pipeline.BackfillConfig{
		Namespace:        cfg.Network,
		From:             cfg.From,
		To:               cfg.To,
		Workers:          cfg.Workers,
		ChunkSize:        cfg.ChunkSize,
		FlushSize:        cfg.FlushSize,
		FlushInterval:    cfg.FlushInterval,
		FlushesPerSecond: cfg.FlushesPerSecond,
	}, logger)
	if err != nil {
		return err
	}

	report, err := backfill.Run(ctx)
	logger.Info("backfill finished",
		zap.Uint64("from", report.From),
		zap.Uint64("to", report.To),
		zap.Int("processed", report.Processed),
		zap.Uint64s("failed", report.Failed),
	)
	if err != nil {
		return err
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d heights failed", len(report.Failed))
	}
	return nil
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
