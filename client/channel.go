/*
 * Copyright 2026 The Inkwell Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package client is the editor side of Inkwell: the presence channel to the
// server, the REST documents client and the session tying them to the
// auto-save coordinator and the collaborator view.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/inkwell-team/inkwell/api/converter"
	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/api/types/events"
)

// ErrChannelOpened is returned when Open is called twice.
var ErrChannelOpened = errors.New("channel is already opened")

const writeWait = 10 * time.Second

// ChannelState is the state of a Channel.
type ChannelState int

// ChannelState values.
const (
	Idle ChannelState = iota
	Connecting
	Connected
	Disconnected
	Closed
)

// String returns the name of the state.
func (s ChannelState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// EventHandler receives inbound presence events.
type EventHandler func(events.Event)

// Channel is the duplex link of one session to the server. Sends while not
// connected are dropped, never queued.
type Channel interface {
	// Open starts connecting. It does not wait for the connection.
	Open(ctx context.Context) error

	// State returns the current state.
	State() ChannelState

	// JoinDocument joins the session of docID now if connected, and after
	// every reconnect until LeaveDocument.
	JoinDocument(docID string) bool

	// LeaveDocument leaves the session of docID.
	LeaveDocument(docID string) bool

	// SendCursor sends the caret position in docID.
	SendCursor(docID string, cursor types.Cursor) bool

	// SendChange sends a preview of the buffer of docID.
	SendChange(docID string, change types.Change) bool

	// Close closes the channel for good.
	Close() error
}

// WSChannel is a Channel over a websocket. It reconnects after a fixed
// delay forever, until closed.
type WSChannel struct {
	url     string
	options Options
	handler EventHandler
	userID  string
	dialer  *websocket.Dialer
	logger  *zap.SugaredLogger

	onState func(ChannelState)

	mu     sync.Mutex
	state  ChannelState
	conn   *websocket.Conn
	joined []string
	cancel context.CancelFunc
	done   chan struct{}

	// writeMu serializes writes to conn.
	writeMu sync.Mutex
}

// NewChannel creates a channel to the server at addr, an http(s) or ws(s)
// URL. Inbound events are given to handler from the reading goroutine.
func NewChannel(addr string, handler EventHandler, opts ...Option) (*WSChannel, error) {
	wsURL, err := socketURL(addr)
	if err != nil {
		return nil, err
	}

	options := newOptions(opts)
	return &WSChannel{
		url:     wsURL,
		options: options,
		handler: handler,
		userID:  options.selfID(),
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
		logger: options.Logger.Sugar().Named("channel"),
		state:  Idle,
	}, nil
}

// OnStateChange sets the function told about every state change. It runs
// on the channel's goroutine before frames of the new connection are read.
// Set it before Open.
func (c *WSChannel) OnStateChange(f func(ChannelState)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onState = f
}

func socketURL(addr string) (string, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("parse address %q: %w", addr, err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme of %q", addr)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String(), nil
}

// Open starts the connect loop.
func (c *WSChannel) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Idle {
		c.mu.Unlock()
		return ErrChannelOpened
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.state = Connecting
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	go c.run(ctx, done)
	return nil
}

// State returns the current state.
func (c *WSChannel) State() ChannelState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// setState changes the state unless the channel is closed. It reports
// whether the state was changed.
func (c *WSChannel) setState(state ChannelState) bool {
	c.mu.Lock()
	if c.state == Closed {
		c.mu.Unlock()
		return false
	}
	c.state = state
	onState := c.onState
	c.mu.Unlock()

	if onState != nil {
		onState(state)
	}
	return true
}

func (c *WSChannel) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		if !c.setState(Connecting) {
			return
		}

		err := c.connectAndRead(ctx)
		if ctx.Err() != nil || !c.setState(Disconnected) {
			return
		}
		c.logger.Infof("disconnected, reconnecting in %s: %v", c.options.ReconnectDelay, err)

		timer := time.NewTimer(c.options.ReconnectDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (c *WSChannel) connectAndRead(ctx context.Context) error {
	header := http.Header{}
	if c.options.Token != "" {
		header.Set("Authorization", "Bearer "+c.options.Token)
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}

	// Documents joined before this point are rejoined below, later ones
	// write their own join frame.
	c.mu.Lock()
	if c.state == Closed {
		c.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	c.conn = conn
	c.state = Connected
	joined := append([]string(nil), c.joined...)
	onState := c.onState
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		_ = conn.Close()
	}()

	if onState != nil {
		onState(Connected)
	}
	for _, docID := range joined {
		c.write(converter.JoinDocumentFrame(docID, c.userID, c.options.DisplayName))
	}

	return c.readLoop(conn)
}

// readLoop reads frames until the connection fails. Malformed frames are
// logged and dropped.
func (c *WSChannel) readLoop(conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		event, err := converter.BytesToEvent(data)
		if err != nil {
			c.logger.Warnf("drop inbound frame: %v", err)
			continue
		}
		if c.handler != nil {
			c.handler(event)
		}
	}
}

// write sends a frame if connected. It never blocks on a missing
// connection and reports whether the frame was written.
func (c *WSChannel) write(frame *converter.Frame) bool {
	c.mu.Lock()
	conn := c.conn
	connected := c.state == Connected
	c.mu.Unlock()
	if !connected || conn == nil {
		return false
	}

	data, err := converter.FrameToBytes(frame)
	if err != nil {
		c.logger.Warnf("encode %s frame: %v", frame.Type, err)
		return false
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.logger.Debugf("drop %s frame: %v", frame.Type, err)
		return false
	}
	return true
}

// JoinDocument joins the session of docID.
func (c *WSChannel) JoinDocument(docID string) bool {
	c.mu.Lock()
	found := false
	for _, id := range c.joined {
		if id == docID {
			found = true
			break
		}
	}
	if !found {
		c.joined = append(c.joined, docID)
	}
	c.mu.Unlock()

	return c.write(converter.JoinDocumentFrame(docID, c.userID, c.options.DisplayName))
}

// LeaveDocument leaves the session of docID.
func (c *WSChannel) LeaveDocument(docID string) bool {
	c.mu.Lock()
	for i, id := range c.joined {
		if id == docID {
			c.joined = append(c.joined[:i], c.joined[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	return c.write(converter.LeaveDocumentFrame(docID))
}

// SendCursor sends the caret position in docID.
func (c *WSChannel) SendCursor(docID string, cursor types.Cursor) bool {
	return c.write(converter.CursorUpdateFrame(docID, cursor))
}

// SendChange sends a preview of the buffer of docID.
func (c *WSChannel) SendChange(docID string, change types.Change) bool {
	return c.write(converter.TextChangeFrame(docID, change))
}

// Close closes the channel and waits for its goroutine to stop.
func (c *WSChannel) Close() error {
	c.mu.Lock()
	if c.state == Closed {
		c.mu.Unlock()
		return nil
	}
	c.state = Closed
	conn, cancel, done := c.conn, c.cancel, c.done
	onState := c.onState
	c.mu.Unlock()

	if conn != nil {
		c.writeMu.Lock()
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait),
		)
		c.writeMu.Unlock()
		_ = conn.Close()
	}
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	if onState != nil {
		onState(Closed)
	}
	return nil
}
