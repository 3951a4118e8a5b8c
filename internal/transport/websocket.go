package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/access"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/deliver"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/stream"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/subject"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocketPath is where the subscription server is mounted.
const WebSocketPath = "/api/v1/ws"

const (
	apiKeyParam  = "api_key"
	apiKeyHeader = "X-Api-Key"

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 << 10
	outboxSize     = 256
)

// Frame kinds reported to metrics.
const (
	kindSubscribe    = "subscribe"
	kindUnsubscribe  = "unsubscribe"
	kindInvalid      = "invalid"
	kindSubscribed   = "subscribed"
	kindUnsubscribed = "unsubscribed"
	kindError        = "error"
	kindResponse     = "response"
)

var (
	ErrMissingAPIKey = errors.New("missing api key")
	ErrNotSubscribed = errors.New("not subscribed")
)

// WebSocketServer upgrades authenticated requests and serves subscriptions over them.
type WebSocketServer struct {
	upgrader   websocket.Upgrader
	subscriber Subscriber
	auth       Authenticator
	registry   *subject.Registry
	metrics    WebSocketMetrics
	logger     *zap.Logger
	now        func() time.Time

	root   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWebSocketServer constructs a WebSocketServer.
func NewWebSocketServer(
	subscriber Subscriber,
	auth Authenticator,
	registry *subject.Registry,
	metrics WebSocketMetrics,
	logger *zap.Logger,
) (*WebSocketServer, error) {
	switch {
	case subscriber == nil:
		return nil, errors.New("websocket subscriber is required")
	case auth == nil:
		return nil, errors.New("websocket authenticator is required")
	case registry == nil:
		return nil, errors.New("websocket subject registry is required")
	case metrics == nil:
		return nil, errors.New("websocket metrics is required")
	}

	root, cancel := context.WithCancel(context.Background())
	return &WebSocketServer{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		subscriber: subscriber,
		auth:       auth,
		registry:   registry,
		metrics:    metrics,
		logger:     logger.Named("websocket"),
		now:        time.Now,
		root:       root,
		cancel:     cancel,
	}, nil
}

// ServeHTTP authenticates the caller, upgrades the connection and runs the session until either side closes it.
func (s *WebSocketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cred, err := authenticate(s.auth, r)
	if err != nil {
		s.metrics.ObserveUpgrade(err)
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	s.metrics.ObserveUpgrade(err)
	if err != nil {
		s.logger.Debug("upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}

	s.wg.Add(1)
	defer s.wg.Done()

	ctx, cancel := context.WithCancel(s.root)
	defer cancel()
	stop := context.AfterFunc(r.Context(), cancel)
	defer stop()

	s.metrics.Sessions(1)
	defer s.metrics.Sessions(-1)

	sess := newSession(s, conn, cred)
	sess.logger.Info("session opened", zap.String("remote", r.RemoteAddr))
	sess.run(ctx)
	sess.logger.Info("session closed")
}

// Shutdown ends every open session and waits for them to release their streams.
func (s *WebSocketServer) Shutdown() {
	s.cancel()
	s.wg.Wait()
}

func authenticate(auth Authenticator, r *http.Request) (access.Credential, error) {
	key := r.URL.Query().Get(apiKeyParam)
	if key == "" {
		key = r.Header.Get(apiKeyHeader)
	}
	if strings.TrimSpace(key) == "" {
		return access.Credential{}, ErrMissingAPIKey
	}
	cred, err := auth.Lookup(key)
	if err != nil {
		return access.Credential{}, fmt.Errorf("authenticate: %w", err)
	}
	return cred, nil
}

type session struct {
	server *WebSocketServer
	conn   *websocket.Conn
	cred   access.Credential
	outbox chan stream.ServerMessage
	logger *zap.Logger

	mu      sync.Mutex
	streams map[string]*relayed
	relays  sync.WaitGroup
}

// relayed is an open stream and the signal that its relay goroutine has returned.
type relayed struct {
	stream *stream.Stream
	done   chan struct{}
}

func newSession(s *WebSocketServer, conn *websocket.Conn, cred access.Credential) *session {
	return &session{
		server:  s,
		conn:    conn,
		cred:    cred,
		outbox:  make(chan stream.ServerMessage, outboxSize),
		logger:  s.logger.With(zap.String("caller", cred.Identity())),
		streams: make(map[string]*relayed),
	}
}

func (ss *session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ss.write(ctx)
		cancel()
	}()

	ss.read(ctx)
	cancel()

	ss.closeStreams()
	ss.relays.Wait()
	<-writerDone
	_ = ss.conn.Close()
}

// read handles client frames until the connection fails or the context ends.
func (ss *session) read(ctx context.Context) {
	ss.conn.SetReadLimit(maxMessageSize)
	_ = ss.conn.SetReadDeadline(time.Now().Add(pongWait))
	ss.conn.SetPongHandler(func(string) error {
		return ss.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// ReadMessage does not observe ctx; closing the connection unblocks it.
	stop := context.AfterFunc(ctx, func() { _ = ss.conn.Close() })
	defer stop()

	for {
		_, data, err := ss.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && ctx.Err() == nil {
				ss.logger.Debug("read failed", zap.Error(err))
			}
			return
		}
		ss.handle(ctx, data)
	}
}

func (ss *session) handle(ctx context.Context, data []byte) {
	msg, err := stream.DecodeClientMessage(data)
	if err != nil {
		ss.server.metrics.IncInbound(kindInvalid)
		ss.send(ctx, stream.ErrorMessage(err))
		return
	}

	policy := msg.Policy()
	if len(msg.Subscribe) > 0 {
		ss.server.metrics.IncInbound(kindSubscribe)
		for _, payload := range msg.Subscribe {
			ss.subscribe(ctx, payload, policy)
		}
		return
	}
	ss.server.metrics.IncInbound(kindUnsubscribe)
	for _, payload := range msg.Unsubscribe {
		ss.unsubscribe(ctx, payload, policy)
	}
}

func (ss *session) subscribe(ctx context.Context, payload subject.Payload, policy deliver.Policy) {
	subj, err := ss.server.registry.FromPayload(payload)
	if err != nil {
		ss.send(ctx, stream.ErrorMessage(err))
		return
	}

	id := stream.NewSubscription(ss.cred.Identity(), policy, subj).ID
	ss.mu.Lock()
	existing, ok := ss.streams[id]
	ss.mu.Unlock()
	if ok {
		ss.send(ctx, stream.Subscribed(existing.stream.Subscription()))
		return
	}

	st, err := ss.server.subscriber.Subscribe(ctx, ss.cred, policy, subj)
	if err != nil {
		ss.logger.Debug("subscribe rejected", zap.String("subject", subj.Wildcard()), zap.Error(err))
		ss.send(ctx, stream.ErrorMessage(err))
		return
	}

	rl := &relayed{stream: st, done: make(chan struct{})}
	ss.mu.Lock()
	ss.streams[st.ID()] = rl
	ss.mu.Unlock()

	ss.send(ctx, stream.Subscribed(st.Subscription()))

	ss.relays.Add(1)
	go func() {
		defer ss.relays.Done()
		defer close(rl.done)
		ss.relay(ctx, rl)
	}()
}

func (ss *session) unsubscribe(ctx context.Context, payload subject.Payload, policy deliver.Policy) {
	subj, err := ss.server.registry.FromPayload(payload)
	if err != nil {
		ss.send(ctx, stream.ErrorMessage(err))
		return
	}

	id := stream.NewSubscription(ss.cred.Identity(), policy, subj).ID
	ss.mu.Lock()
	rl, ok := ss.streams[id]
	delete(ss.streams, id)
	ss.mu.Unlock()
	if !ok {
		ss.send(ctx, stream.ErrorMessage(fmt.Errorf("%w: %s", ErrNotSubscribed, subj.Wildcard())))
		return
	}

	rl.stream.Close()
	// frames already taken from the stream go out before the ack
	select {
	case <-rl.done:
	case <-ctx.Done():
		return
	}
	ss.send(ctx, stream.Unsubscribed(rl.stream.Subscription()))
}

// relay forwards one stream's items until it ends; a terminal failure is reported to the client.
func (ss *session) relay(ctx context.Context, rl *relayed) {
	st := rl.stream
	for it := range st.Items() {
		if it.Err != nil {
			ss.send(ctx, stream.ErrorMessage(it.Err))
			continue
		}
		ss.send(ctx, stream.ResponseMessage(st.ID(), it, ss.server.now()))
	}

	ss.mu.Lock()
	if ss.streams[st.ID()] == rl {
		delete(ss.streams, st.ID())
	}
	ss.mu.Unlock()

	if err := st.Err(); err != nil {
		ss.logger.Warn("stream failed", zap.String("subscription", st.ID()), zap.Error(err))
		ss.send(ctx, stream.ErrorMessage(err))
	}
}

func (ss *session) closeStreams() {
	ss.mu.Lock()
	streams := make([]*stream.Stream, 0, len(ss.streams))
	for id, rl := range ss.streams {
		streams = append(streams, rl.stream)
		delete(ss.streams, id)
	}
	ss.mu.Unlock()

	for _, st := range streams {
		st.Close()
	}
}

func (ss *session) send(ctx context.Context, msg stream.ServerMessage) {
	select {
	case ss.outbox <- msg:
	case <-ctx.Done():
	}
}

// write is the only goroutine writing to the connection.
func (ss *session) write(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-ss.outbox:
			_ = ss.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ss.conn.WriteJSON(msg); err != nil {
				ss.logger.Debug("write failed", zap.Error(err))
				return
			}
			ss.server.metrics.IncOutbound(messageKind(msg))
		case <-ticker.C:
			_ = ss.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ss.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			_ = ss.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeWait),
			)
			return
		}
	}
}

func messageKind(msg stream.ServerMessage) string {
	switch {
	case msg.Subscribed != nil:
		return kindSubscribed
	case msg.Unsubscribed != nil:
		return kindUnsubscribed
	case msg.Response != nil:
		return kindResponse
	}
	return kindError
}
