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

// Package rpc serves the REST document API and the presence websocket of
// Inkwell.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/inkwell-team/inkwell/internal/version"
	"github.com/inkwell-team/inkwell/server/backend"
	"github.com/inkwell-team/inkwell/server/logging"
	"github.com/inkwell-team/inkwell/server/rpc/auth"
	"github.com/inkwell-team/inkwell/server/rpc/httphealth"
)

// VersionPath serves the version of the server.
const VersionPath = "/version"

// errShuttingDown is reported by the health check while the server stops.
var errShuttingDown = errors.New("server is shutting down")

// Server is a normal server that processes the logic requested by the client.
type Server struct {
	conf       *Config
	be         *backend.Backend
	tokens     *auth.TokenManager
	httpServer *http.Server
	closing    atomic.Bool
}

// NewServer creates a new instance of Server.
func NewServer(conf *Config, be *backend.Backend) (*Server, error) {
	s := &Server{
		conf: conf,
		be:   be,
	}

	if conf.SecretKey != "" {
		tokens, err := auth.NewTokenManager(conf.SecretKey, conf.ParseTokenDuration(), conf.TokenCacheSize)
		if err != nil {
			return nil, err
		}
		s.tokens = tokens
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Port),
		Handler:           s.newRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the root handler of the server.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// TokenManager returns the token manager, or nil when authentication is
// disabled.
func (s *Server) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *Server) newRouter() http.Handler {
	r := mux.NewRouter()
	r.Use(s.accessLog)

	path, health := httphealth.NewHandler(func(context.Context) error {
		if s.closing.Load() {
			return errShuttingDown
		}
		return nil
	})
	r.Handle(path, health).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc(VersionPath, s.getVersion).Methods(http.MethodGet)

	authenticate := auth.Middleware(s.tokens, writeError)
	r.Handle("/ws", authenticate(http.HandlerFunc(s.serveSocket))).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authenticate)
	api.HandleFunc("/documents", s.listDocuments).Methods(http.MethodGet)
	api.HandleFunc("/documents", s.createDocument).Methods(http.MethodPost)
	api.HandleFunc("/documents/{id}", s.getDocument).Methods(http.MethodGet)
	api.HandleFunc("/documents/{id}", s.updateDocument).Methods(http.MethodPatch)
	api.HandleFunc("/documents/{id}", s.deleteDocument).Methods(http.MethodDelete)
	api.HandleFunc("/documents/{id}/folder", s.moveDocument).Methods(http.MethodPut)

	return r
}

func (s *Server) getVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Detail())
}

// Start starts this server by opening the port.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		logging.DefaultLogger().Error(err)
		return fmt.Errorf("listen on %d: %w", s.conf.Port, err)
	}

	go func() {
		logging.DefaultLogger().Infof("serving HTTP on %d", s.conf.Port)

		var err error
		if s.conf.CertFile != "" && s.conf.KeyFile != "" {
			err = s.httpServer.ServeTLS(lis, s.conf.CertFile, s.conf.KeyFile)
		} else {
			err = s.httpServer.Serve(lis)
		}
		if !errors.Is(err, http.ErrServerClosed) {
			logging.DefaultLogger().Error(err)
		}
	}()

	return nil
}

// Shutdown shuts down this server. Open websockets are not tracked by
// http.Server, so they end when the backend's background closes.
func (s *Server) Shutdown(ctx context.Context, graceful bool) {
	s.closing.Store(true)

	if graceful {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			logging.DefaultLogger().Errorf("HTTP server Shutdown: %v", err)
		}
		return
	}

	if err := s.httpServer.Close(); err != nil {
		logging.DefaultLogger().Errorf("HTTP server Close: %v", err)
	}
}
