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

package rpc

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/inkwell-team/inkwell/api/converter"
	"github.com/inkwell-team/inkwell/server/backend/broadcast"
	"github.com/inkwell-team/inkwell/server/logging"
	"github.com/inkwell-team/inkwell/server/rpc/auth"
)

const (
	// writeWait is the time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait.
	pingPeriod = pongWait * 9 / 10
)

// socket is one presence connection. Its outbox is what the registry holds;
// the writer goroutine is the only one writing to ws.
type socket struct {
	*broadcast.Outbox

	ws       *websocket.Conn
	identity *auth.Identity
	logger   logging.Logger
}

func (s *Server) upgrader() *websocket.Upgrader {
	allowed := make(map[string]struct{}, len(s.conf.AllowedOrigins))
	for _, origin := range s.conf.AllowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowed) == 0 {
				return true
			}
			_, ok := allowed[r.Header.Get("Origin")]
			return ok
		},
	}
}

// serveSocket upgrades the request and runs the connection until either
// side closes it. The connection always leaves every session it joined.
func (s *Server) serveSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		httpLogger.Infof("upgrade websocket: %v", err)
		return
	}

	outbox := broadcast.NewOutbox(s.be.Config.OutboxSize)
	sock := &socket{
		Outbox: outbox,
		ws:     ws,
		logger: logging.New(outbox.ID()),
	}
	if id, ok := auth.From(r.Context()); ok {
		sock.identity = &id
	}

	started := time.Now()
	s.be.Metrics.AddConnection()
	defer s.be.Metrics.RemoveConnection()

	ctx := logging.With(context.Background(), sock.logger)
	writerDone := make(chan struct{})
	if !s.be.Background.AttachGoroutine(func(bgCtx context.Context) {
		defer close(writerDone)
		sock.writePump(bgCtx)
	}, "socket-writer") {
		close(writerDone)
		_ = ws.Close()
	}

	err = s.readPump(ctx, sock)

	left := s.be.Presence.LeaveAll(ctx, sock.ID())
	sock.Close()
	<-writerDone

	sock.logger.Debugf("left %d sessions", left)
	logging.LogSocketClosed(sock.logger, sock.ID(), time.Since(started), err)
}

// readPump reads frames until the socket fails. Frames that cannot be
// parsed or are not requests of a client are logged and dropped.
func (s *Server) readPump(ctx context.Context, sock *socket) error {
	sock.ws.SetReadLimit(s.conf.MaxRequestBytes)
	if err := sock.ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return err
	}
	sock.ws.SetPongHandler(func(string) error {
		return sock.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := sock.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		if msgType != websocket.TextMessage {
			sock.logger.Infof("drop non-text frame of type %d", msgType)
			continue
		}

		frame, err := converter.BytesToFrame(data)
		if err != nil {
			sock.logger.Infof("drop frame: %v", err)
			continue
		}
		s.handleFrame(ctx, sock, frame)
	}
}

func (s *Server) handleFrame(ctx context.Context, sock *socket, frame *converter.Frame) {
	switch frame.Type {
	case converter.KindJoinDocument:
		userID, displayName := frame.UserID, frame.DisplayName
		if sock.identity != nil {
			userID = sock.identity.UserID
			if displayName == "" {
				displayName = sock.identity.DisplayName
			}
		}
		if userID == "" {
			sock.logger.Infof("drop join of %s without user id", frame.DocumentID)
			return
		}
		s.be.Presence.Join(ctx, sock, frame.DocumentID, userID, displayName)
	case converter.KindLeaveDocument:
		s.be.Presence.Leave(ctx, sock.ID(), frame.DocumentID)
	case converter.KindCursorUpdate:
		if _, ok := s.be.Presence.RelayCursor(ctx, sock.ID(), frame.DocumentID, *frame.Cursor); !ok {
			sock.logger.Debugf("drop cursor for %s: not a member", frame.DocumentID)
		}
	case converter.KindTextChange:
		if _, ok := s.be.Presence.RelayChange(ctx, sock.ID(), frame.DocumentID, *frame.Change); !ok {
			sock.logger.Debugf("drop change for %s: not a member", frame.DocumentID)
		}
	default:
		sock.logger.Infof("drop %s frame from client", frame.Type)
	}
}

// writePump writes queued frames and pings until the outbox is closed, the
// backend shuts down, or a write fails. It closes the socket on return.
func (sock *socket) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = sock.ws.Close()
	}()

	for {
		select {
		case frame, ok := <-sock.Frames():
			_ = sock.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = sock.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sock.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				sock.logger.Debugf("write frame: %v", err)
				return
			}
		case <-ticker.C:
			_ = sock.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sock.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				sock.logger.Debugf("write ping: %v", err)
				return
			}
		case <-ctx.Done():
			_ = sock.ws.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait),
			)
			return
		}
	}
}
