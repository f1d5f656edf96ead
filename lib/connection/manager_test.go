// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package connection

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/scire-project/scire/lib/clock"
	"github.com/scire-project/scire/lib/notice"
	"github.com/scire-project/scire/lib/testutil"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// dialAttempt records one Dial call.
type dialAttempt struct {
	at           time.Time
	subprotocols []string
}

// fakeDialer fails every dial unless a conn is queued in accept. It
// tracks how many sockets are live or mid-dial at once.
type fakeDialer struct {
	clock    *clock.FakeClock
	attempts chan dialAttempt
	accept   chan *fakeConn

	mutex   sync.Mutex
	live    int
	maxLive int
}

func newFakeDialer(clk *clock.FakeClock) *fakeDialer {
	return &fakeDialer{
		clock:    clk,
		attempts: make(chan dialAttempt, 16),
		accept:   make(chan *fakeConn, 16),
	}
}

func (d *fakeDialer) Dial(ctx context.Context, url string, subprotocols []string) (Conn, error) {
	d.mutex.Lock()
	d.live++
	d.maxLive = max(d.maxLive, d.live)
	d.mutex.Unlock()

	d.attempts <- dialAttempt{at: d.clock.Now(), subprotocols: subprotocols}
	select {
	case conn := <-d.accept:
		conn.onClose = d.release
		return conn, nil
	default:
		d.release()
		return nil, errors.New("connection refused")
	}
}

func (d *fakeDialer) release() {
	d.mutex.Lock()
	d.live--
	d.mutex.Unlock()
}

func (d *fakeDialer) maxConcurrent() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.maxLive
}

type fakeConn struct {
	inbound chan []byte
	written chan []byte
	drop    chan error
	onClose func()

	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan []byte, 16),
		written: make(chan []byte, 16),
		drop:    make(chan error, 1),
		closed:  make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() ([]byte, error) {
	select {
	case frame := <-c.inbound:
		return frame, nil
	case err := <-c.drop:
		return nil, err
	case <-c.closed:
		return nil, errors.New("use of closed connection")
	}
}

func (c *fakeConn) WriteMessage(data []byte) error {
	c.written <- data
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		if c.onClose != nil {
			c.onClose()
		}
	})
	return nil
}

func newTestManager(t *testing.T, token string, handler func([]byte)) (*Manager, *fakeDialer, *clock.FakeClock, chan State) {
	t.Helper()
	fake := clock.Fake(epoch)
	dialer := newFakeDialer(fake)
	states := make(chan State, 64)
	manager := NewManager(Config{
		URL:           "wss://example.test/ws",
		Token:         token,
		Dialer:        dialer,
		Clock:         fake,
		Handler:       handler,
		OnStateChange: func(state State) { states <- state },
	})
	t.Cleanup(manager.Close)
	return manager, dialer, fake, states
}

func TestManagerReconnectsOnFlatDelay(t *testing.T) {
	manager, dialer, fake, _ := newTestManager(t, "secret", nil)
	manager.Start(context.Background())

	first := testutil.RequireReceive(t, dialer.attempts, time.Second, "initial dial")
	attempts := []time.Time{first.at}
	for i := range 3 {
		fake.WaitForTimers(1)

		// Nothing is dialed before the delay has fully elapsed.
		fake.Advance(DefaultReconnectDelay - time.Millisecond)
		testutil.RequireNoReceive(t, dialer.attempts, 20*time.Millisecond, "early redial %d", i+1)

		fake.Advance(time.Millisecond)
		attempt := testutil.RequireReceive(t, dialer.attempts, time.Second, "redial %d", i+1)
		attempts = append(attempts, attempt.at)
	}

	if len(attempts) != 4 {
		t.Fatalf("dial attempts = %d, want initial + 3", len(attempts))
	}
	for i := 1; i < len(attempts); i++ {
		if gap := attempts[i].Sub(attempts[i-1]); gap != DefaultReconnectDelay {
			t.Fatalf("gap before redial %d = %v, want %v", i, gap, DefaultReconnectDelay)
		}
	}
	if got := dialer.maxConcurrent(); got != 1 {
		t.Fatalf("max concurrent sockets = %d, want 1", got)
	}
	fake.WaitForTimers(1)
	if got := fake.PendingCount(); got != 1 {
		t.Fatalf("pending redial timers = %d, want 1", got)
	}
}

func TestManagerPassesTokenAsSubprotocol(t *testing.T) {
	manager, dialer, _, _ := newTestManager(t, "secret", nil)
	manager.Start(context.Background())
	attempt := testutil.RequireReceive(t, dialer.attempts, time.Second, "dial")
	if !slices.Equal(attempt.subprotocols, []string{"token", "secret"}) {
		t.Fatalf("subprotocols = %v", attempt.subprotocols)
	}
}

func TestManagerDialsAnonymouslyWithoutToken(t *testing.T) {
	manager, dialer, _, _ := newTestManager(t, "", nil)
	manager.Start(context.Background())
	attempt := testutil.RequireReceive(t, dialer.attempts, time.Second, "dial")
	if attempt.subprotocols != nil {
		t.Fatalf("subprotocols = %v, want none", attempt.subprotocols)
	}
}

func TestManagerSendRequiresOpen(t *testing.T) {
	manager, dialer, fake, states := newTestManager(t, "secret", nil)
	if err := manager.Send([]byte("early")); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Send before Start = %v, want ErrNotReady", err)
	}

	manager.Start(context.Background())
	testutil.RequireReceive(t, dialer.attempts, time.Second, "failed dial")
	fake.WaitForTimers(1)
	if err := manager.Send([]byte("closed")); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Send while closed = %v, want ErrNotReady", err)
	}

	conn := newFakeConn()
	dialer.accept <- conn
	fake.Advance(DefaultReconnectDelay)
	testutil.RequireReceive(t, dialer.attempts, time.Second, "redial")
	waitForState(t, states, StateOpen)

	if err := manager.Send([]byte(`{"action":"x"}`)); err != nil {
		t.Fatalf("Send while open: %v", err)
	}
	if got := testutil.RequireReceive(t, conn.written, time.Second, "written frame"); string(got) != `{"action":"x"}` {
		t.Fatalf("written = %s", got)
	}
	if fake.PendingCount() != 0 {
		t.Fatalf("redial timer still pending after open")
	}
}

func TestManagerDeliversFramesInOrderAndRedialsAfterDrop(t *testing.T) {
	received := make(chan string, 16)
	manager, dialer, fake, states := newTestManager(t, "secret", func(frame []byte) {
		received <- string(frame)
	})
	conn := newFakeConn()
	dialer.accept <- conn
	manager.Start(context.Background())
	waitForState(t, states, StateOpen)

	for _, frame := range []string{"one", "two", "three"} {
		conn.inbound <- []byte(frame)
	}
	for _, want := range []string{"one", "two", "three"} {
		if got := testutil.RequireReceive(t, received, time.Second, "frame %s", want); got != want {
			t.Fatalf("frame = %q, want %q", got, want)
		}
	}

	conn.drop <- errors.New("connection reset")
	waitForState(t, states, StateClosed)
	testutil.RequireClosed(t, conn.closed, time.Second, "dropped socket closed")

	fake.WaitForTimers(1)
	fake.Advance(DefaultReconnectDelay)
	testutil.RequireReceive(t, dialer.attempts, time.Second, "initial dial")
	testutil.RequireReceive(t, dialer.attempts, time.Second, "redial after drop")
}

func TestManagerCloseCancelsRedial(t *testing.T) {
	manager, dialer, fake, _ := newTestManager(t, "secret", nil)
	manager.Start(context.Background())
	testutil.RequireReceive(t, dialer.attempts, time.Second, "dial")
	fake.WaitForTimers(1)

	manager.Close()
	if fake.PendingCount() != 0 {
		t.Fatal("Close left a redial timer pending")
	}
	fake.Advance(time.Minute)
	testutil.RequireNoReceive(t, dialer.attempts, 20*time.Millisecond, "dial after Close")

	if manager.State() != StateClosed {
		t.Fatalf("State() = %v", manager.State())
	}
	if err := manager.AwaitOpen(context.Background()); !errors.Is(err, ErrManagerClosed) {
		t.Fatalf("AwaitOpen after Close = %v", err)
	}
	manager.Start(context.Background())
	testutil.RequireNoReceive(t, dialer.attempts, 20*time.Millisecond, "Start after Close")
}

func TestManagerCloseClosesOpenSocket(t *testing.T) {
	manager, dialer, _, states := newTestManager(t, "secret", nil)
	conn := newFakeConn()
	dialer.accept <- conn
	manager.Start(context.Background())
	waitForState(t, states, StateOpen)

	manager.Close()
	testutil.RequireClosed(t, conn.closed, time.Second, "socket closed on teardown")
}

func TestManagerAwaitOpen(t *testing.T) {
	manager, dialer, _, _ := newTestManager(t, "secret", nil)
	dialer.accept <- newFakeConn()

	result := make(chan error, 1)
	go func() { result <- manager.AwaitOpen(context.Background()) }()
	manager.Start(context.Background())
	if err := testutil.RequireReceive(t, result, time.Second, "AwaitOpen"); err != nil {
		t.Fatalf("AwaitOpen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := manager.AwaitOpen(ctx); err != nil {
		t.Fatalf("AwaitOpen while open: %v", err)
	}
}

func TestManagerContextCancelTearsDown(t *testing.T) {
	manager, dialer, fake, _ := newTestManager(t, "secret", nil)
	ctx, cancel := context.WithCancel(context.Background())
	manager.Start(ctx)
	testutil.RequireReceive(t, dialer.attempts, time.Second, "dial")
	fake.WaitForTimers(1)

	cancel()
	testutil.RequireClosed(t, manager.done, time.Second, "teardown after cancel")
	if fake.PendingCount() != 0 {
		t.Fatal("redial timer survived context cancellation")
	}
}

// newReportingManager is newTestManager with OnError feeding a channel.
func newReportingManager(t *testing.T) (*Manager, *fakeDialer, chan State, chan error) {
	t.Helper()
	fake := clock.Fake(epoch)
	dialer := newFakeDialer(fake)
	states := make(chan State, 64)
	reported := make(chan error, 16)
	manager := NewManager(Config{
		URL:           "wss://example.test/ws",
		Token:         "secret",
		Dialer:        dialer,
		Clock:         fake,
		OnStateChange: func(state State) { states <- state },
		OnError:       func(err error) { reported <- err },
	})
	t.Cleanup(manager.Close)
	return manager, dialer, states, reported
}

func TestManagerReportsFailedDial(t *testing.T) {
	manager, dialer, _, reported := newReportingManager(t)
	manager.Start(context.Background())
	testutil.RequireReceive(t, dialer.attempts, time.Second, "dial")

	err := testutil.RequireReceive(t, reported, time.Second, "dial error")
	if category := notice.CategoryOf(err); category != notice.CategoryTransport {
		t.Fatalf("dial error category = %q, want %q", category, notice.CategoryTransport)
	}
	testutil.RequireNoReceive(t, reported, 20*time.Millisecond, "second report for one dial")
}

func TestManagerReportsAbnormalDrop(t *testing.T) {
	manager, dialer, states, reported := newReportingManager(t)
	conn := newFakeConn()
	dialer.accept <- conn
	manager.Start(context.Background())
	waitForState(t, states, StateOpen)

	reset := errors.New("connection reset")
	conn.drop <- reset
	waitForState(t, states, StateClosed)

	err := testutil.RequireReceive(t, reported, time.Second, "drop error")
	if !errors.Is(err, reset) {
		t.Fatalf("reported %v, want it to wrap the read error", err)
	}
	if category := notice.CategoryOf(err); category != notice.CategoryTransport {
		t.Fatalf("drop error category = %q, want %q", category, notice.CategoryTransport)
	}
}

func TestManagerDoesNotReportPeerClose(t *testing.T) {
	manager, dialer, states, reported := newReportingManager(t)
	conn := newFakeConn()
	dialer.accept <- conn
	manager.Start(context.Background())
	waitForState(t, states, StateOpen)

	conn.drop <- fmt.Errorf("close 1000: %w", ErrPeerClosed)
	waitForState(t, states, StateClosed)
	testutil.RequireClosed(t, conn.closed, time.Second, "socket closed after server close")
	testutil.RequireNoReceive(t, reported, 20*time.Millisecond, "report for orderly close")
}

func waitForState(t *testing.T, states <-chan State, want State) {
	t.Helper()
	for {
		if got := testutil.RequireReceive(t, states, time.Second, "state %v", want); got == want {
			return
		}
	}
}
