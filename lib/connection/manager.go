// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package connection owns the session's single socket to the ticket
// server.
//
// A [Manager] dials with the session credential, hands every inbound
// frame to one handler in arrival order, and redials on a flat delay
// after every drop until it is closed. Construct exactly one per
// session and inject it where frames are sent; two managers for the
// same session would hold two sockets and receive every broadcast
// twice.
package connection

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/scire-project/scire/lib/clock"
	"github.com/scire-project/scire/lib/metrics"
	"github.com/scire-project/scire/lib/notice"
)

// DefaultReconnectDelay is the pause between a drop and the next dial.
const DefaultReconnectDelay = 5 * time.Second

// State is the socket lifecycle position.
type State int

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var (
	// ErrNotReady is returned by Send outside the Open state. Nothing
	// is queued; the caller retries after reconnection.
	ErrNotReady = notice.Transport("connection not ready")

	// ErrManagerClosed is returned by AwaitOpen after teardown.
	ErrManagerClosed = errors.New("connection manager closed")

	// ErrPeerClosed marks a read error caused by an orderly close from
	// the server. Dialer implementations wrap it so the manager does
	// not report routine closes as errors.
	ErrPeerClosed = errors.New("peer closed connection")
)

// Conn is one established socket.
type Conn interface {
	// ReadMessage blocks for the next data frame.
	ReadMessage() ([]byte, error)
	// WriteMessage writes one text frame. Not called concurrently.
	WriteMessage(data []byte) error
	// Close tears the socket down. May be called concurrently with
	// ReadMessage to unblock it.
	Close() error
}

// Dialer opens sockets. subprotocols is nil for anonymous dials.
type Dialer interface {
	Dial(ctx context.Context, url string, subprotocols []string) (Conn, error)
}

// Config holds the Manager's collaborators.
type Config struct {
	// URL is the socket endpoint.
	URL string

	// Token is the session credential. Empty dials anonymously.
	Token string

	Dialer Dialer
	Clock  clock.Clock

	// ReconnectDelay defaults to DefaultReconnectDelay.
	ReconnectDelay time.Duration

	// Handler receives every inbound frame, one at a time.
	Handler func(frame []byte)

	// OnStateChange, if set, is called after every transition,
	// outside the manager's lock.
	OnStateChange func(State)

	// OnError, if set, receives recoverable transport errors: failed
	// dials and abnormal drops.
	OnError func(error)

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Manager is the session's connection. Safe for concurrent use.
type Manager struct {
	config Config

	mutex   sync.Mutex
	state   State
	conn    Conn
	dialing bool
	timer   *clock.Timer
	started bool
	closed  bool
	ctx     context.Context
	cancel  context.CancelFunc
	opened  chan struct{}
	done    chan struct{}

	// writeMutex serializes frames on the socket; it is never held
	// together with mutex.
	writeMutex sync.Mutex
}

// NewManager creates a Manager in the Closed state. Nothing is dialed
// until Start.
func NewManager(config Config) *Manager {
	if config.ReconnectDelay <= 0 {
		config.ReconnectDelay = DefaultReconnectDelay
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Handler == nil {
		config.Handler = func([]byte) {}
	}
	if config.Dialer == nil {
		config.Dialer = WebsocketDialer{}
	}
	return &Manager{
		config: config,
		state:  StateClosed,
		opened: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start begins the first dial. Cancelling ctx tears the manager down
// as Close does. Calling Start again, or after Close, does nothing.
func (m *Manager) Start(ctx context.Context) {
	m.mutex.Lock()
	if m.started || m.closed {
		m.mutex.Unlock()
		return
	}
	m.started = true
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.mutex.Unlock()

	go func() {
		<-m.ctx.Done()
		m.Close()
	}()
	m.connect()
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.state
}

// Ready reports whether Send would currently be attempted.
func (m *Manager) Ready() bool {
	return m.State() == StateOpen
}

// AwaitOpen blocks until the socket is open, ctx is done, or the
// manager is closed.
func (m *Manager) AwaitOpen(ctx context.Context) error {
	m.mutex.Lock()
	if m.closed {
		m.mutex.Unlock()
		return ErrManagerClosed
	}
	if m.state == StateOpen {
		m.mutex.Unlock()
		return nil
	}
	opened := m.opened
	m.mutex.Unlock()

	select {
	case <-opened:
		return nil
	case <-m.done:
		return ErrManagerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Send writes one frame. Outside the Open state it returns ErrNotReady
// and drops the frame.
func (m *Manager) Send(frame []byte) error {
	m.mutex.Lock()
	conn := m.conn
	ready := m.state == StateOpen && conn != nil
	m.mutex.Unlock()
	if !ready {
		return ErrNotReady
	}

	m.writeMutex.Lock()
	defer m.writeMutex.Unlock()
	if err := conn.WriteMessage(frame); err != nil {
		return notice.Transport("sending frame: %w", err)
	}
	return nil
}

// Close stops reconnecting, cancels any pending redial, and closes the
// socket. Safe to call more than once.
func (m *Manager) Close() {
	m.mutex.Lock()
	if m.closed {
		m.mutex.Unlock()
		return
	}
	m.closed = true
	if m.cancel != nil {
		m.cancel()
	}
	m.timer.Stop()
	m.timer = nil
	conn := m.conn
	m.conn = nil
	changed := m.setStateLocked(StateClosed)
	close(m.done)
	m.mutex.Unlock()

	if conn != nil {
		if err := conn.Close(); err != nil {
			m.config.Logger.Debug("closing socket", "error", err)
		}
	}
	m.notifyState(changed)
}

func (m *Manager) connect() {
	m.mutex.Lock()
	if m.closed || m.conn != nil || m.dialing {
		m.mutex.Unlock()
		return
	}
	m.dialing = true
	changed := m.setStateLocked(StateConnecting)
	ctx := m.ctx
	m.mutex.Unlock()

	m.config.Metrics.ConnectionAttempt()
	m.notifyState(changed)
	go m.dial(ctx)
}

func (m *Manager) dial(ctx context.Context) {
	var subprotocols []string
	if m.config.Token != "" {
		subprotocols = []string{"token", m.config.Token}
	}
	conn, err := m.config.Dialer.Dial(ctx, m.config.URL, subprotocols)

	m.mutex.Lock()
	m.dialing = false
	if m.closed {
		m.mutex.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}
	if err != nil {
		changed := m.setStateLocked(StateClosed)
		m.scheduleLocked()
		m.mutex.Unlock()

		m.config.Logger.Warn("socket dial failed",
			"url", m.config.URL,
			"error", err,
			"retry_in", m.config.ReconnectDelay,
		)
		m.reportError(err)
		m.notifyState(changed)
		return
	}

	m.conn = conn
	m.timer.Stop()
	m.timer = nil
	changed := m.setStateLocked(StateOpen)
	m.mutex.Unlock()

	m.config.Logger.Info("socket connected", "url", m.config.URL, "anonymous", subprotocols == nil)
	m.notifyState(changed)
	m.readLoop(conn)
}

// readLoop delivers frames until the socket fails, then schedules the
// redial.
func (m *Manager) readLoop(conn Conn) {
	for {
		frame, err := conn.ReadMessage()
		if err != nil {
			m.dropped(conn, err)
			return
		}
		m.config.Handler(frame)
	}
}

func (m *Manager) dropped(conn Conn, cause error) {
	m.mutex.Lock()
	if m.conn != conn {
		// Close already took the socket.
		m.mutex.Unlock()
		return
	}
	m.conn = nil
	changed := m.setStateLocked(StateClosed)
	m.scheduleLocked()
	m.mutex.Unlock()

	conn.Close()
	if errors.Is(cause, ErrPeerClosed) {
		m.config.Logger.Info("socket closed by server", "retry_in", m.config.ReconnectDelay)
	} else {
		m.config.Logger.Warn("socket disconnected",
			"error", cause,
			"retry_in", m.config.ReconnectDelay,
		)
		m.reportError(cause)
	}
	m.notifyState(changed)
}

// scheduleLocked arms the single redial timer. Must hold mutex.
func (m *Manager) scheduleLocked() {
	if m.closed || m.timer != nil {
		return
	}
	m.timer = m.config.Clock.AfterFunc(m.config.ReconnectDelay, func() {
		m.mutex.Lock()
		m.timer = nil
		m.mutex.Unlock()
		m.connect()
	})
}

// setStateLocked records a transition and reports whether the state
// changed. Must hold mutex.
func (m *Manager) setStateLocked(state State) bool {
	if m.state == state {
		return false
	}
	if m.state == StateOpen {
		m.opened = make(chan struct{})
	}
	m.state = state
	if state == StateOpen {
		close(m.opened)
	}
	m.config.Metrics.ConnectionState(int(state))
	return true
}

func (m *Manager) notifyState(changed bool) {
	if !changed || m.config.OnStateChange == nil {
		return
	}
	m.config.OnStateChange(m.State())
}

func (m *Manager) reportError(err error) {
	if m.config.OnError != nil {
		m.config.OnError(notice.Transport("connection: %w", err))
	}
}
