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

// Package server provides the Inkwell server which is the main entry point
// of the collaboration backend. It wires the backend to the HTTP server and
// the profiling server.
package server

import (
	"context"
	"errors"
	gosync "sync"

	"golang.org/x/sync/errgroup"

	"github.com/inkwell-team/inkwell/server/backend"
	"github.com/inkwell-team/inkwell/server/profiling"
	"github.com/inkwell-team/inkwell/server/profiling/prometheus"
	"github.com/inkwell-team/inkwell/server/rpc"
	"github.com/inkwell-team/inkwell/server/rpc/auth"
)

// Inkwell is a server of Inkwell. It tracks who is editing which document,
// relays their cursors and edits to each other and serves the documents.
type Inkwell struct {
	lock gosync.Mutex

	conf            *Config
	backend         *backend.Backend
	rpcServer       *rpc.Server
	profilingServer *profiling.Server

	shutdown   bool
	shutdownCh chan struct{}
}

// New creates a new instance of Inkwell.
func New(conf *Config) (*Inkwell, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	metrics, err := prometheus.NewMetrics()
	if err != nil {
		return nil, err
	}

	be, err := backend.New(conf.Backend, conf.Stores(), conf.Redis, metrics)
	if err != nil {
		return nil, err
	}

	rpcServer, err := rpc.NewServer(conf.RPC, be)
	if err != nil {
		if shutdownErr := be.Shutdown(); shutdownErr != nil {
			return nil, errors.Join(err, shutdownErr)
		}
		return nil, err
	}

	var profilingServer *profiling.Server
	if conf.Profiling != nil {
		profilingServer = profiling.NewServer(conf.Profiling, metrics)
	}

	return &Inkwell{
		conf:            conf,
		backend:         be,
		rpcServer:       rpcServer,
		profilingServer: profilingServer,
		shutdownCh:      make(chan struct{}),
	}, nil
}

// Start starts the backend and then opens the HTTP and profiling ports.
func (r *Inkwell) Start() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if err := r.backend.Start(context.Background()); err != nil {
		return err
	}

	var g errgroup.Group
	if r.profilingServer != nil {
		g.Go(r.profilingServer.Start)
	}
	g.Go(r.rpcServer.Start)
	return g.Wait()
}

// Shutdown shuts down this Inkwell server. Graceful shutdown waits for
// in-flight REST requests until ctx is done.
func (r *Inkwell) Shutdown(ctx context.Context, graceful bool) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.shutdown {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.rpcServer.Shutdown(gctx, graceful)
		return nil
	})
	if r.profilingServer != nil {
		g.Go(func() error {
			r.profilingServer.Shutdown(gctx, graceful)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := r.backend.Shutdown(); err != nil {
		return err
	}

	close(r.shutdownCh)
	r.shutdown = true
	return nil
}

// ShutdownCh returns the shutdown channel.
func (r *Inkwell) ShutdownCh() <-chan struct{} {
	return r.shutdownCh
}

// RPCAddr returns the address of the RPC.
func (r *Inkwell) RPCAddr() string {
	return r.conf.RPCAddr()
}

// Backend returns the backend of this server.
func (r *Inkwell) Backend() *backend.Backend {
	return r.backend
}

// TokenManager returns the token manager of the HTTP server, or nil when
// authentication is disabled.
func (r *Inkwell) TokenManager() *auth.TokenManager {
	return r.rpcServer.TokenManager()
}
