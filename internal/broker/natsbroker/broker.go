// Package natsbroker carries records over NATS JetStream.
package natsbroker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/broker"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
)

const defaultBuffer = 256

// Config describes the JetStream connection and the stream records are kept in.
type Config struct {
	URL      string
	Stream   string
	Subjects []string
	MaxAge   time.Duration
	Buffer   int
}

// Broker publishes to and consumes from one JetStream stream.
type Broker struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	stream string
	buffer int
	logger *zap.Logger
}

// New connects and makes sure the stream exists.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Broker, error) {
	if cfg.URL == "" {
		return nil, errors.New("nats url is required")
	}
	if cfg.Stream == "" || len(cfg.Subjects) == 0 {
		return nil, errors.New("nats stream name and subjects are required")
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = defaultBuffer
	}
	logger = logger.Named("nats_broker").With(zap.String("stream", cfg.Stream))

	nc, err := nats.Connect(cfg.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	if _, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      cfg.Stream,
		Subjects:  cfg.Subjects,
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    cfg.MaxAge,
	}); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream %s: %w", cfg.Stream, err)
	}

	return &Broker{nc: nc, js: js, stream: cfg.Stream, buffer: cfg.Buffer, logger: logger}, nil
}

// Publish stores data on subject and waits for the stream acknowledgement.
func (b *Broker) Publish(ctx context.Context, subject string, data []byte) error {
	if _, err := b.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return nil
}

// Subscribe starts an ordered consumer that only sees messages published from now on.
func (b *Broker) Subscribe(ctx context.Context, pattern string) (broker.Subscription, error) {
	consumer, err := b.js.OrderedConsumer(ctx, b.stream, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{pattern},
		DeliverPolicy:  jetstream.DeliverNewPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("create consumer for %s: %w", pattern, err)
	}

	sub := &subscription{
		messages: make(chan broker.Message, b.buffer),
		done:     make(chan struct{}),
	}
	logger := b.logger.With(zap.String("pattern", pattern))

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		m := broker.Message{Subject: msg.Subject(), Data: msg.Data()}
		select {
		case sub.messages <- m:
		case <-sub.done:
		}
	}, jetstream.ConsumeErrHandler(func(_ jetstream.ConsumeContext, err error) {
		if errors.Is(err, nats.ErrConnectionClosed) || errors.Is(err, jetstream.ErrConsumerDeleted) {
			logger.Error("consumer stopped", zap.Error(err))
			sub.fail(fmt.Errorf("%w: %w", broker.ErrClosed, err))
			return
		}
		logger.Warn("consumer error", zap.Error(err))
	}))
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", pattern, err)
	}
	sub.cc = cc

	return sub, nil
}

// Ping round-trips to the server.
func (b *Broker) Ping(ctx context.Context) error {
	if !b.nc.IsConnected() {
		return fmt.Errorf("nats status %s: %w", b.nc.Status(), broker.ErrClosed)
	}
	return b.nc.FlushWithContext(ctx)
}

// Close drains pending publishes and closes the connection.
func (b *Broker) Close() error {
	if err := b.nc.Drain(); err != nil {
		b.nc.Close()
		return fmt.Errorf("drain nats: %w", err)
	}
	return nil
}

type subscription struct {
	cc       jetstream.ConsumeContext
	messages chan broker.Message
	done     chan struct{}

	once sync.Once
	mu   sync.Mutex
	err  error
}

func (s *subscription) Messages() <-chan broker.Message { return s.messages }

func (s *subscription) Done() <-chan struct{} { return s.done }

func (s *subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *subscription) Unsubscribe() error {
	s.once.Do(func() {
		close(s.done)
		if s.cc != nil {
			s.cc.Stop()
		}
	})
	return nil
}

func (s *subscription) fail(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	_ = s.Unsubscribe()
}
