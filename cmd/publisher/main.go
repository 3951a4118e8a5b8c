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
	"github.com/goodnatureofminers/blockstream7000-backend/internal/broker/natsbroker"
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
	ClickhouseDSN     string        `long:"clickhouse-dsn" env:"PUBLISHER_CLICKHOUSE_DSN" description:"ClickHouse DSN" required:"true"`
	Network           string        `long:"network" env:"PUBLISHER_NETWORK" description:"network name, also the record namespace" required:"true"`
	RPCURL            string        `long:"rpc-url" env:"PUBLISHER_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser           string        `long:"rpc-user" env:"PUBLISHER_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword       string        `long:"rpc-password" env:"PUBLISHER_RPC_PASSWORD" description:"Bitcoin RPC password"`
	NATSURL           string        `long:"nats-url" env:"PUBLISHER_NATS_URL" description:"NATS server URL" default:"nats://127.0.0.1:4222"`
	NATSStream        string        `long:"nats-stream" env:"PUBLISHER_NATS_STREAM" description:"JetStream stream name" default:"BLOCKSTREAM"`
	NATSMaxAge        time.Duration `long:"nats-max-age" env:"PUBLISHER_NATS_MAX_AGE" description:"how long the broker keeps records" default:"24h"`
	CompressionLevel  int           `long:"compression-level" env:"PUBLISHER_COMPRESSION_LEVEL" description:"zstd level 1-4 for record values, 0 stores plain JSON" default:"1"`
	StartHeight       int64         `long:"start-height" env:"PUBLISHER_START_HEIGHT" description:"first height on an empty store, negative follows the tip" default:"-1"`
	BatchSize         uint64        `long:"batch-size" env:"PUBLISHER_BATCH_SIZE" description:"heights processed per iteration" default:"10"`
	SleepDuration     time.Duration `long:"sleep" env:"PUBLISHER_SLEEP" description:"pause after catching up" default:"1s"`
	LongSleepDuration time.Duration `long:"long-sleep" env:"PUBLISHER_LONG_SLEEP" description:"pause when the node has no new block" default:"10s"`
	StoreTimeout      time.Duration `long:"store-timeout" env:"PUBLISHER_STORE_TIMEOUT" description:"bound on each insert attempt" default:"30s"`
	StoreMaxRetries   int           `long:"store-max-retries" env:"PUBLISHER_STORE_MAX_RETRIES" description:"insert attempts per block" default:"3"`
	StoreBackoff      time.Duration `long:"store-initial-backoff" env:"PUBLISHER_STORE_INITIAL_BACKOFF" description:"delay before the first insert retry" default:"100ms"`
	PublishRate       int           `long:"publish-rate" env:"PUBLISHER_PUBLISH_RATE" description:"max published records per second, 0 is unlimited" default:"0"`
	MetricsAddr       string        `long:"metrics-addr" env:"PUBLISHER_METRICS_ADDR" description:"address for metrics server" default:":2112"`
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

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("publisher failed", zap.Error(err))
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

	brk, err := natsbroker.New(ctx, natsbroker.Config{
		URL:      cfg.NATSURL,
		Stream:   cfg.NATSStream,
		Subjects: []string{cfg.Network + ".>"},
		MaxAge:   cfg.NATSMaxAge,
	}, logger)
	if err != nil {
		return fmt.Errorf("init broker: %w", err)
	}
	defer func() {
		_ = brk.Close()
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
	processor, err := pipeline.New(builder, repo, brk, metrics.NewPipeline(cfg.Network), pipeline.Config{
		Namespace:           cfg.Network,
		StoreTimeout:        cfg.StoreTimeout,
		StoreMaxRetries:     cfg.StoreMaxRetries,
		StoreInitialBackoff: cfg.StoreBackoff,
		PublishRate:         cfg.PublishRate,
	}, logger)
	if err != nil {
		return err
	}

	follower, err := pipeline.NewFollower(source, repo, processor, metrics.NewFollower(cfg.Network), pipeline.FollowerConfig{
		Namespace:         cfg.Network,
		StartHeight:       cfg.StartHeight,
		BatchSize:         cfg.BatchSize,
		SleepDuration:     cfg.SleepDuration,
		LongSleepDuration: cfg.LongSleepDuration,
	}, logger)
	if err != nil {
		return err
	}

	return follower.Run(ctx)
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
