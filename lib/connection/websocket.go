// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package connection

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// WebsocketDialer dials with gorilla/websocket. The zero value uses a
// ten second handshake and write timeout.
type WebsocketDialer struct {
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	Header           http.Header
}

func (d WebsocketDialer) Dial(ctx context.Context, url string, subprotocols []string) (Conn, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: orDefault(d.HandshakeTimeout, 10*time.Second),
		Subprotocols:     subprotocols,
	}
	conn, response, err := dialer.DialContext(ctx, url, d.Header)
	if err != nil {
		if response != nil {
			return nil, fmt.Errorf("dialing %s: %w (HTTP %d)", url, err, response.StatusCode)
		}
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return &websocketConn{conn: conn, writeTimeout: orDefault(d.WriteTimeout, 10*time.Second)}, nil
}

type websocketConn struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
}

// ReadMessage skips control frames (handled by gorilla) and returns
// the next text or binary payload.
func (c *websocketConn) ReadMessage() ([]byte, error) {
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, fmt.Errorf("%w: %v", ErrPeerClosed, err)
			}
			return nil, err
		}
		if kind == websocket.TextMessage || kind == websocket.BinaryMessage {
			return data, nil
		}
	}
}

func (c *websocketConn) WriteMessage(data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Close sends a going-away close frame before dropping the socket.
func (c *websocketConn) Close() error {
	message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "client shutting down")
	_ = c.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second))
	return c.conn.Close()
}

func orDefault(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}
