package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-proto/pkg/blockinsight7000/v1"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/access"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/broker/natsbroker"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/codec"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/metrics"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/repository/clickhouse"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/stream"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/subject"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/transport"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var config struct {
	Addr             string `long:"addr" env:"WEBSERVER_ADDR" description:"gRPC addr" default:":8000"`
	RestAddr         string `long:"rest-addr" env:"WEBSERVER_REST_ADDR" description:"REST, websocket and metrics addr" default:":8001"`
	ClickhouseDSN    string `long:"clickhouse-dsn" env:"WEBSERVER_CLICKHOUSE_DSN" description:"ClickHouse DSN" required:"true"`
	Network          string `long:"network" env:"WEBSERVER_NETWORK" description:"network name, also the record namespace" required:"true"`
	NATSURL          string `long:"nats-url" env:"WEBSERVER_NATS_URL" description:"NATS server URL" default:"nats://127.0.0.1:4222"`
	NATSStream       string `long:"nats-stream" env:"WEBSERVER_NATS_STREAM" description:"JetStream stream name" default:"BLOCKSTREAM"`
	CompressionLevel int    `long:"compression-level" env:"WEBSERVER_COMPRESSION_LEVEL" description:"zstd level the publisher stores values with, 0 for plain JSON" default:"1"`

	Credentials             string `long:"credentials" env:"WEBSERVER_CREDENTIALS" description:"TOML file with api keys" required:"true"`
	DefaultRatePerMinute    int    `long:"default-rate-per-minute" env:"WEBSERVER_DEFAULT_RATE_PER_MINUTE" description:"subscribe requests per minute when a key sets none" default:"60"`
	DefaultMaxSubscriptions int    `long:"default-max-subscriptions" env:"WEBSERVER_DEFAULT_MAX_SUBSCRIPTIONS" description:"concurrent subscriptions when a key sets none" default:"10"`
	DefaultHistoricalLimit  uint64 `long:"default-historical-limit" env:"WEBSERVER_DEFAULT_HISTORICAL_LIMIT" description:"blocks of look-back when a key sets none, 0 is unlimited" default:"0"`

	HistoricalThrottle  time.Duration `long:"historical-throttle" env:"WEBSERVER_HISTORICAL_THROTTLE" description:"pause between catch-up pages" default:"0ms"`
	LiveThrottle        time.Duration `long:"live-throttle" env:"WEBSERVER_LIVE_THROTTLE" description:"pause between live records" default:"0ms"`
	PageSize            int           `long:"page-size" env:"WEBSERVER_PAGE_SIZE" description:"rows per catch-up page" default:"100"`
	StoreMaxRetries     int           `long:"store-max-retries" env:"WEBSERVER_STORE_MAX_RETRIES" description:"attempts per store read" default:"3"`
	StoreInitialBackoff time.Duration `long:"store-initial-backoff" env:"WEBSERVER_STORE_INITIAL_BACKOFF" description:"first retry delay" default:"100ms"`
	BufferWarnThreshold int           `long:"buffer-warn-threshold" env:"WEBSERVER_BUFFER_WARN_THRESHOLD" description:"live buffer depth that is logged" default:"10000"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)
	if _, err := flags.ParseArgs(&config, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("Failed to parse arguments", zap.Error(err))
	}

	if err := run(ctx, logger); err != nil {
		logger.Fatal("webserver failed", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger) error {
	repo, err := clickhouse.NewRepository(config.ClickhouseDSN, metrics.NewClickhouseRepository())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		_ = repo.Close()
	}()

	brk, err := natsbroker.New(ctx, natsbroker.Config{
		URL:      config.NATSURL,
		Stream:   config.NATSStream,
		Subjects: []string{config.Network + ".>"},
	}, logger)
	if err != nil {
		return fmt.Errorf("init broker: %w", err)
	}
	defer func() {
		_ = brk.Close()
	}()

	keyring, err := access.LoadKeyring(config.Credentials, access.Limits{
		MaxSubscriptions: config.DefaultMaxSubscriptions,
		RatePerMinute:    config.DefaultRatePerMinute,
		HistoricalLimit:  config.DefaultHistoricalLimit,
	})
	if err != nil {
		return err
	}
	logger.Info("credentials loaded", zap.Int("keys", keyring.Len()))

	gate, err := access.NewGate(metrics.NewAccessGate())
	if err != nil {
		return err
	}

	registry := subject.DefaultRegistry()
	engine, err := stream.NewEngine(repo, brk, gate, registry, codec.ForLevel(config.CompressionLevel), metrics.NewStream(), stream.Config{
		HistoricalThrottle:  config.HistoricalThrottle,
		LiveThrottle:        config.LiveThrottle,
		PageSize:            config.PageSize,
		MaxRetries:          config.StoreMaxRetries,
		InitialBackoff:      config.StoreInitialBackoff,
		BufferWarnThreshold: config.BufferWarnThreshold,
	}, config.Network, logger)
	if err != nil {
		return err
	}

	ws, err := transport.NewWebSocketServer(engine, keyring, registry, metrics.NewWebSocket(), logger)
	if err != nil {
		return err
	}

	query, err := transport.NewQueryHandler(repo, keyring, gate, registry, codec.ForLevel(config.CompressionLevel), metrics.NewQuery(), config.Network, logger)
	if err != nil {
		return err
	}

	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	grpcPrometheus.EnableHandlingTimeHistogram()
	grpcPrometheus.Register(grpcServer)

	blockinsight7000v1.RegisterExplorerServiceServer(grpcServer, transport.NewExplorerHandler(map[string]transport.Pinger{
		"clickhouse": repo,
		"nats":       brk,
	}, logger))

	socket, err := net.Listen("tcp", config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", config.Addr, err)
	}
	go func() {
		if serveErr := grpcServer.Serve(socket); serveErr != nil {
			logger.Error("GRPC server stopped", zap.Error(serveErr))
		}
	}()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down gRPC server")
		grpcServer.GracefulStop()
	}()

	mux := http.NewServeMux()

	gw := gwruntime.NewServeMux()
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if err := blockinsight7000v1.RegisterExplorerServiceHandlerFromEndpoint(ctx, gw, config.Addr, opts); err != nil {
		return fmt.Errorf("register explorer handler: %w", err)
	}

	mux.Handle("/", gw)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle(transport.WebSocketPath, ws)
	mux.Handle(transport.QueryPath, query)

	s := &http.Server{
		Addr:              config.RestAddr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		ws.Shutdown()
		if err := s.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", config.RestAddr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}
