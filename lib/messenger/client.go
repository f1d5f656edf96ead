// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package messenger assembles the sync core for one signed-in session:
// the store, the single socket, the frame dispatcher, the outbound
// command builder, the attach coordinator, and the REST client.
//
// A [Client] is what the CLI and the terminal UI drive. Each operation
// either loads state over REST into the store or sends one command
// over the socket; results of commands only ever arrive as server
// broadcasts. Every failure is reported to the configured
// notice.Notifier and also returned to the caller.
package messenger

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/scire-project/scire/lib/attach"
	"github.com/scire-project/scire/lib/clock"
	"github.com/scire-project/scire/lib/connection"
	"github.com/scire-project/scire/lib/dispatch"
	"github.com/scire-project/scire/lib/metrics"
	"github.com/scire-project/scire/lib/notice"
	"github.com/scire-project/scire/lib/outbound"
	"github.com/scire-project/scire/lib/restapi"
	"github.com/scire-project/scire/lib/schema"
	"github.com/scire-project/scire/lib/store"
)

// API is the REST surface the client reads from. *restapi.Client
// implements it.
type API interface {
	Admins(ctx context.Context) ([]schema.Admin, error)
	Users(ctx context.Context) ([]schema.User, error)
	Profile(ctx context.Context) (schema.Profile, error)
	Tickets(ctx context.Context) ([]schema.Ticket, error)
	Ticket(ctx context.Context, id int64) (schema.Ticket, error)
	TicketFiles(ctx context.Context, id int64) ([]schema.TicketFile, error)
	Messages(ctx context.Context, ticketID int64) ([]schema.MessageRecord, error)
	Upload(ctx context.Context, name string, content io.Reader) (schema.StoredFile, error)
	Download(ctx context.Context, uuid string, w io.Writer) (string, error)
}

// Config holds the session settings and optional collaborators.
type Config struct {
	Endpoints restapi.Endpoints
	SocketURL string

	// Token is the bearer credential for REST and the socket.
	Token string

	// HTTPClient is passed to the REST client when API is nil.
	HTTPClient *http.Client

	// API replaces the REST client. Tests inject a fake.
	API API

	// Dialer replaces the websocket dialer. Tests inject a fake.
	Dialer connection.Dialer

	Clock          clock.Clock
	ReconnectDelay time.Duration

	// Notifier receives every failure. Defaults to a LogNotifier on
	// Logger.
	Notifier notice.Notifier

	// OnConnectionState observes socket transitions.
	OnConnectionState func(connection.State)

	// OnNavigate is called with the ticket id when this session's own
	// ticket creation is confirmed, before the ticket is opened.
	OnNavigate func(ticketID int64)

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Client is one session. Safe for concurrent use.
type Client struct {
	logger      *slog.Logger
	notifier    notice.Notifier
	api         API
	store       *store.Store
	manager     *connection.Manager
	dispatcher  *dispatch.Dispatcher
	builder     *outbound.Builder
	coordinator *attach.Coordinator
	onNavigate  func(int64)

	ctx    context.Context
	cancel context.CancelFunc

	// navigationMutex orders navigation so a superseded OpenTicket
	// never overwrites the view that replaced it.
	navigationMutex sync.Mutex
	generation      uint64

	// backgroundMutex keeps navigate from adding to background once
	// Close has started waiting on it.
	backgroundMutex sync.Mutex
	closing         bool
	background      sync.WaitGroup
	closeOnce       sync.Once
}

// New assembles a Client. Nothing is dialed until Start.
func New(config Config) *Client {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	notifier := config.Notifier
	if notifier == nil {
		notifier = notice.LogNotifier{Logger: logger}
	}
	api := config.API
	if api == nil {
		api = restapi.New(restapi.Config{
			Endpoints:  config.Endpoints,
			Token:      config.Token,
			HTTPClient: config.HTTPClient,
			Logger:     logger.With("component", "restapi"),
			Metrics:    config.Metrics,
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		logger:     logger,
		notifier:   notifier,
		api:        api,
		store:      store.New(store.State{}),
		onNavigate: config.OnNavigate,
		ctx:        ctx,
		cancel:     cancel,
	}

	c.manager = connection.NewManager(connection.Config{
		URL:            config.SocketURL,
		Token:          config.Token,
		Dialer:         config.Dialer,
		Clock:          config.Clock,
		ReconnectDelay: config.ReconnectDelay,
		Handler:        func(frame []byte) { c.dispatcher.HandleFrame(frame) },
		OnStateChange:  config.OnConnectionState,
		OnError:        notifier.Notify,
		Logger:         logger.With("component", "connection"),
		Metrics:        config.Metrics,
	})
	c.builder = outbound.New(c.manager, logger.With("component", "outbound"), config.Metrics)
	c.coordinator = attach.New(attach.Config{
		Store:    c.store,
		Uploader: api,
		Attacher: c.builder,
		Notifier: notifier,
		Logger:   logger.With("component", "attach"),
		Metrics:  config.Metrics,
	})
	c.dispatcher = dispatch.New(ctx, dispatch.Config{
		Store:    c.store,
		Attacher: c.coordinator,
		Notifier: notifier,
		Navigate: c.navigate,
		Logger:   logger.With("component", "dispatch"),
		Metrics:  config.Metrics,
	})
	return c
}

// Start opens the socket. Cancelling ctx tears the connection down.
func (c *Client) Start(ctx context.Context) {
	c.manager.Start(ctx)
}

// Close stops reconnecting, closes the socket, waits for running
// upload chains and navigations, and discards later REST results.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.backgroundMutex.Lock()
		c.closing = true
		c.backgroundMutex.Unlock()

		c.cancel()
		c.manager.Close()
		c.coordinator.Close()
		c.background.Wait()
		c.store.Close()
	})
}

// Store exposes the session store for observers.
func (c *Client) Store() *store.Store { return c.store }

// State returns the current store snapshot.
func (c *Client) State() store.State { return c.store.State() }

// Subscribe returns a channel of store changes.
func (c *Client) Subscribe() <-chan store.Change { return c.store.Subscribe() }

// ConnectionState returns the socket lifecycle state.
func (c *Client) ConnectionState() connection.State { return c.manager.State() }

// AwaitOpen blocks until the socket is open.
func (c *Client) AwaitOpen(ctx context.Context) error {
	return c.manager.AwaitOpen(ctx)
}

// WaitAttachments blocks until every started upload chain has
// finished. Acknowledgements may still be in flight.
func (c *Client) WaitAttachments() {
	c.coordinator.Wait()
}

// fail reports err and returns it.
func (c *Client) fail(err error) error {
	c.notifier.Notify(err)
	return err
}

// navigate opens a ticket this session just created. It runs on the
// socket reader goroutine so the REST loads happen elsewhere.
func (c *Client) navigate(ticketID int64) {
	if c.onNavigate != nil {
		c.onNavigate(ticketID)
	}
	c.backgroundMutex.Lock()
	defer c.backgroundMutex.Unlock()
	if c.closing {
		return
	}
	c.background.Add(1)
	go func() {
		defer c.background.Done()
		if err := c.OpenTicket(c.ctx, ticketID); err != nil {
			c.logger.Debug("opening created ticket failed", "ticket_id", ticketID, "error", err)
		}
	}()
}
