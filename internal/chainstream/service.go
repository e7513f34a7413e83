// Package chainstream maintains the persistent event subscription against a
// blockchain node's WebSocket RPC endpoint and delivers every received text
// frame to its consumer.
//
// The service owns the whole socket lifecycle: it dials, subscribes by
// walking a list of candidate queries until the node accepts one, keeps the
// connection honest with a ping/pong heartbeat, and redials with jittered
// exponential backoff whenever the connection drops for any reason other
// than an intentional Close.
package chainstream

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Abduttayyeb07/Monitor/internal/pkg/logger"
	"github.com/Abduttayyeb07/Monitor/internal/pkg/x/chflow"
)

// ErrServiceAlreadyStarted is returned if Start is called more than once.
//
// The service must be started only once per lifecycle.
var ErrServiceAlreadyStarted = errors.New("service already started")

// RawFrame is one opaque text payload received from the stream. It may be a
// subscription acknowledgment, an RPC error, or an event notification; the
// service does not interpret it beyond the subscription protocol.
type RawFrame []byte

const (
	frameChannelBufferSize = 32

	defaultHandshakeTimeout    = 10 * time.Second
	defaultWriteTimeout        = 10 * time.Second
	defaultHeartbeatInterval   = 30 * time.Second
	defaultStalenessThreshold  = 75 * time.Second
	defaultBaseReconnectDelay  = time.Second
	defaultMaxReconnectDelay   = 30 * time.Second
	defaultReconnectJitterCeil = time.Second
)

// defaultSubscriptionQueries are tried in order until the node accepts one.
// Older nodes reject the EXISTS form, newer ones accept the first query and
// spare the stream the full transaction firehose.
var defaultSubscriptionQueries = []string{
	"tm.event='Tx' AND transfer.amount EXISTS",
	"tm.event='Tx' AND message.module='bank'",
	"tm.event='Tx'",
}

// Service defines the chainstream lifecycle and frame delivery entrypoint.
type Service interface {
	// Start opens the streaming connection in the background and returns the
	// channel on which raw frames are delivered. The channel is closed after
	// Close, or once the parent context is canceled.
	//
	// Returns ErrServiceAlreadyStarted if Start is called more than once.
	Start(ctx context.Context) (<-chan RawFrame, error)

	// Close shuts the connection down intentionally, suppressing any
	// reconnection. It is safe to call Close even if the service was never
	// started.
	Close()
}

// closeFunc defines a cleanup routine to stop background goroutines and dependencies.
type closeFunc func()

// config holds internal settings for the chainstream service.
type config struct {
	queries             []string
	heartbeatInterval   time.Duration
	stalenessThreshold  time.Duration
	baseReconnectDelay  time.Duration
	maxReconnectDelay   time.Duration
	reconnectJitterCeil time.Duration
	writeTimeout        time.Duration
}

// Option defines a functional option for configuring the chainstream service.
type Option func(*config)

// WithSubscriptionQueries replaces the candidate subscription queries tried,
// in order, on every (re)connect.
func WithSubscriptionQueries(queries ...string) Option {
	return func(c *config) {
		c.queries = queries
	}
}

// WithHeartbeatInterval sets how often a ping is sent on an open socket.
// Default: 30 seconds.
func WithHeartbeatInterval(d time.Duration) Option {
	return func(c *config) {
		c.heartbeatInterval = d
	}
}

// WithStalenessThreshold sets how long the socket may go without a pong
// before it is forcibly terminated. The threshold must exceed twice the
// heartbeat interval and is raised to that bound otherwise.
// Default: 75 seconds.
func WithStalenessThreshold(d time.Duration) Option {
	return func(c *config) {
		c.stalenessThreshold = d
	}
}

// WithBaseReconnectDelay sets the backoff floor for the first reconnect
// attempt. Default: 1 second.
func WithBaseReconnectDelay(d time.Duration) Option {
	return func(c *config) {
		c.baseReconnectDelay = d
	}
}

// WithMaxReconnectDelay caps the jitter-free backoff delay.
// Default: 30 seconds.
func WithMaxReconnectDelay(d time.Duration) Option {
	return func(c *config) {
		c.maxReconnectDelay = d
	}
}

// WithReconnectJitterCeil bounds the random jitter added on top of the
// backoff floor. Default: 1 second.
func WithReconnectJitterCeil(d time.Duration) Option {
	return func(c *config) {
		c.reconnectJitterCeil = d
	}
}

// WithWriteTimeout bounds every outbound socket write. Default: 10 seconds.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *config) {
		c.writeTimeout = d
	}
}

// service is the internal implementation of the chainstream Service interface.
type service struct {
	mu        sync.Mutex // protects lifecycle state
	isStarted bool       // ensures Start is called only once
	closeFunc closeFunc  // cancels context and cleans up dependencies

	socketURL string
	dial      dialFunc

	queries             []string
	heartbeatInterval   time.Duration
	stalenessThreshold  time.Duration
	baseReconnectDelay  time.Duration
	maxReconnectDelay   time.Duration
	reconnectJitterCeil time.Duration
	writeTimeout        time.Duration

	connMu   sync.Mutex // protects conn for forced termination
	conn     wsConn
	lastPong atomic.Int64 // unix nanos of the most recent pong
}

// Compile-time check to ensure *service implements the Service interface.
var _ Service = (*service)(nil)

// New creates a chainstream service for the given WebSocket URL.
func New(socketURL string, opts ...Option) *service {
	cfg := config{
		queries:             defaultSubscriptionQueries,
		heartbeatInterval:   defaultHeartbeatInterval,
		stalenessThreshold:  defaultStalenessThreshold,
		baseReconnectDelay:  defaultBaseReconnectDelay,
		maxReconnectDelay:   defaultMaxReconnectDelay,
		reconnectJitterCeil: defaultReconnectJitterCeil,
		writeTimeout:        defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	// A staleness threshold at or below 2x the heartbeat interval would
	// declare a healthy socket dead between two pongs.
	if cfg.stalenessThreshold <= 2*cfg.heartbeatInterval {
		cfg.stalenessThreshold = 2*cfg.heartbeatInterval + cfg.heartbeatInterval/2
	}
	if cfg.reconnectJitterCeil <= 0 {
		cfg.reconnectJitterCeil = defaultReconnectJitterCeil
	}

	return &service{
		socketURL:           socketURL,
		dial:                dialWebSocket,
		queries:             cfg.queries,
		heartbeatInterval:   cfg.heartbeatInterval,
		stalenessThreshold:  cfg.stalenessThreshold,
		baseReconnectDelay:  cfg.baseReconnectDelay,
		maxReconnectDelay:   cfg.maxReconnectDelay,
		reconnectJitterCeil: cfg.reconnectJitterCeil,
		writeTimeout:        cfg.writeTimeout,
	}
}

// Start launches the connection loop and returns the frame delivery channel.
func (s *service) Start(ctx context.Context) (<-chan RawFrame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return nil, ErrServiceAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	framesCh := make(chan RawFrame, frameChannelBufferSize)
	go s.run(ctx, framesCh)

	s.closeFunc = func() {
		cancel()
		s.closeActiveConn()
	}
	s.isStarted = true
	return framesCh, nil
}

// Close shuts down the connection loop and the active socket.
func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeFunc != nil {
		s.closeFunc()
	}

	s.closeFunc = nil
	s.isStarted = false
}

// run drives the connection state machine until the context is canceled:
// dial, apply the open effects, consume frames until the socket dies, then
// either stop (intentional close) or wait out the backoff and dial again.
func (s *service) run(ctx context.Context, framesCh chan<- RawFrame) {
	defer close(framesCh)

	state := newConnState(s.queries)
	for {
		state = state.connecting()
		logger.Debug(ctx, "stream connecting", "url", s.socketURL)

		conn, err := s.dial(ctx, s.socketURL)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn(ctx, "stream connection failed", "url", s.socketURL, "error", err)

			var effects []effect
			state, effects = state.disconnected(false)
			if !s.applyDisconnectEffects(ctx, effects) {
				return
			}
			continue
		}

		s.storeConn(conn)
		s.lastPong.Store(time.Now().UnixNano())
		conn.SetPongHandler(func(string) error {
			s.lastPong.Store(time.Now().UnixNano())
			return nil
		})

		var effects []effect
		state, effects = state.opened()
		logger.Info(ctx, "stream connected", "url", s.socketURL)

		stopHeartbeatLoop := func() {}
		for _, eff := range effects {
			switch e := eff.(type) {
			case sendSubscribe:
				logger.Info(ctx, "stream subscribing", "query", e.query, "requestId", e.requestID)
				s.writeSubscribe(ctx, conn, e)
			case startHeartbeat:
				stopHeartbeatLoop = s.spawnHeartbeat(ctx, conn)
			}
		}

		err = s.consumeFrames(ctx, conn, &state, framesCh)
		stopHeartbeatLoop()
		s.storeConn(nil)
		_ = conn.Close()

		intentional := ctx.Err() != nil
		if !intentional {
			logger.Warn(ctx, "stream disconnected", "error", err)
		}

		state, effects = state.disconnected(intentional)
		if !s.applyDisconnectEffects(ctx, effects) {
			return
		}
	}
}

// consumeFrames reads the socket until it fails, feeding each text frame
// through the subscription protocol and then delivering it downstream.
func (s *service) consumeFrames(ctx context.Context, conn wsConn, state *connState, framesCh chan<- RawFrame) error {
	for {
		messageType, frame, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if messageType != websocket.TextMessage {
			continue
		}

		next, effects := state.onFrame(frame)
		*state = next
		for _, eff := range effects {
			if sub, ok := eff.(sendSubscribe); ok {
				logger.Info(ctx, "stream subscription rejected, falling back", "query", sub.query, "requestId", sub.requestID)
				s.writeSubscribe(ctx, conn, sub)
			}
		}

		if ok := chflow.Send(ctx, framesCh, RawFrame(frame)); !ok {
			return nil
		}
	}
}

// applyDisconnectEffects waits out a scheduled reconnect delay. It reports
// false when no reconnect was scheduled or the context was canceled while
// waiting, meaning the run loop must stop.
func (s *service) applyDisconnectEffects(ctx context.Context, effects []effect) bool {
	for _, eff := range effects {
		sched, ok := eff.(scheduleReconnect)
		if !ok {
			continue
		}

		delay := s.reconnectDelay(sched.attempt)
		logger.Info(ctx, "stream reconnect scheduled", "attempt", sched.attempt, "delay", delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
			return true
		}
	}
	return false
}

// reconnectDelay is the backoff floor for the attempt plus a strictly
// positive random jitter, so concurrent reconnecting clients spread out.
func (s *service) reconnectDelay(attempt int) time.Duration {
	floor := reconnectFloor(s.baseReconnectDelay, s.maxReconnectDelay, attempt)
	return floor + rand.N(s.reconnectJitterCeil) + 1
}

// writeSubscribe sends one subscribe request frame. Write failures are only
// logged: the read side will observe the broken socket and drive the
// reconnect.
func (s *service) writeSubscribe(ctx context.Context, conn wsConn, sub sendSubscribe) {
	payload, err := json.Marshal(newSubscribeRequest(sub.query, sub.requestID))
	if err != nil {
		logger.Error(ctx, "stream subscribe encode failed", "query", sub.query, "error", err)
		return
	}

	_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		logger.Warn(ctx, "stream subscribe send failed", "query", sub.query, "error", err)
	}
}

// spawnHeartbeat starts the ping/staleness loop for one socket and returns
// the function that stops it. When the socket goes stale the connection is
// forcibly closed instead of pinged again, which surfaces as a read error
// and drives the reconnect path.
func (s *service) spawnHeartbeat(ctx context.Context, conn wsConn) func() {
	stopCh := make(chan struct{})

	go func() {
		ticker := time.NewTicker(s.heartbeatInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case <-ticker.C:
				sincePong := time.Since(time.Unix(0, s.lastPong.Load()))
				if sincePong > s.stalenessThreshold {
					logger.Warn(ctx, "stream connection stale, terminating", "sincePong", sincePong, "threshold", s.stalenessThreshold)
					_ = conn.Close()
					return
				}

				deadline := time.Now().Add(s.writeTimeout)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					logger.Warn(ctx, "stream ping failed", "error", err)
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stopCh) })
	}
}

func (s *service) storeConn(conn wsConn) {
	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()
}

// closeActiveConn force-closes the current socket so a blocked read returns
// immediately. Used by Close to interrupt the run loop.
func (s *service) closeActiveConn() {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
}
