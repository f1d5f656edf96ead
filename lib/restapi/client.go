// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package restapi talks to the three REST backends the client reads
// from: identity (admins, users, profile), the ticket API (tickets,
// files, messages), and blob storage.
//
// Every failure is returned as a request-category notice.Error carrying
// the server's message when the response body has one.
package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/scire-project/scire/lib/metrics"
	"github.com/scire-project/scire/lib/notice"
	"github.com/scire-project/scire/lib/version"
)

// fallbackMessage is shown when a failed response carries no message.
const fallbackMessage = "An unknown error occurred"

// Endpoints are the backend base URLs.
type Endpoints struct {
	Identity string
	API      string
	Storage  string
}

// Config holds the Client's settings.
type Config struct {
	Endpoints Endpoints

	// Token is sent as a bearer credential when non-empty.
	Token string

	// HTTPClient defaults to a client with a 30 second timeout.
	HTTPClient *http.Client

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Client issues REST calls. Safe for concurrent use.
type Client struct {
	endpoints  Endpoints
	token      string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// New creates a Client.
func New(config Config) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		endpoints:  config.Endpoints,
		token:      config.Token,
		httpClient: httpClient,
		logger:     logger,
		metrics:    config.Metrics,
	}
}

// request describes one call. route is the path template used for
// metrics; path is the concrete path.
type request struct {
	method      string
	base        string
	route       string
	path        string
	body        io.Reader
	contentType string
}

// do sends the request and returns the open response on 2xx. The
// caller closes the body.
func (c *Client) do(ctx context.Context, call request) (*http.Response, error) {
	target, err := url.JoinPath(call.base, call.path)
	if err != nil {
		return nil, notice.Request("%s %s: bad base URL: %w", call.method, call.route, err)
	}
	// url.JoinPath drops the trailing slash the list endpoints need.
	if strings.HasSuffix(call.path, "/") && !strings.HasSuffix(target, "/") {
		target += "/"
	}

	httpRequest, err := http.NewRequestWithContext(ctx, call.method, target, call.body)
	if err != nil {
		return nil, notice.Request("%s %s: %w", call.method, call.route, err)
	}
	httpRequest.Header.Set("Accept", "application/json")
	httpRequest.Header.Set("User-Agent", version.UserAgent())
	if call.contentType != "" {
		httpRequest.Header.Set("Content-Type", call.contentType)
	}
	if c.token != "" {
		httpRequest.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	response, err := c.httpClient.Do(httpRequest)
	if err != nil {
		c.metrics.Request(call.route, 0, time.Since(start))
		return nil, notice.Request("%s %s: %w", call.method, call.route, err)
	}
	c.metrics.Request(call.route, response.StatusCode, time.Since(start))

	if response.StatusCode < 200 || response.StatusCode > 299 {
		defer response.Body.Close()
		message := serverMessage(response.Body)
		c.logger.Debug("request failed",
			"method", call.method,
			"route", call.route,
			"status", response.StatusCode,
			"message", message,
		)
		return nil, &notice.Error{
			Category: notice.CategoryRequest,
			Err:      &StatusError{StatusCode: response.StatusCode, Message: message},
		}
	}
	return response, nil
}

// getJSON decodes a 2xx JSON body into T.
func getJSON[T any](ctx context.Context, c *Client, base, route, path string) (T, error) {
	var value T
	response, err := c.do(ctx, request{method: http.MethodGet, base: base, route: route, path: path})
	if err != nil {
		return value, err
	}
	defer response.Body.Close()
	if err := json.NewDecoder(response.Body).Decode(&value); err != nil {
		return value, notice.Request("GET %s: decoding response: %w", route, err)
	}
	return value, nil
}

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string { return e.Message }

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var status *StatusError
	return errors.As(err, &status) && status.StatusCode == code
}

// serverMessage pulls a human-readable message from an error body.
// The backends use "detail"; some proxies use "message" or "error".
func serverMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(data) == 0 {
		return fallbackMessage
	}
	var fields map[string]any
	if json.Unmarshal(data, &fields) == nil {
		for _, key := range []string{"detail", "message", "error"} {
			if text, ok := fields[key].(string); ok && text != "" {
				return text
			}
		}
	}
	return fallbackMessage
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
