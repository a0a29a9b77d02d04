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

// Package backend assembles the server-side state of Inkwell: the session
// registry, the presence broadcaster, the document store, and the relay
// between nodes.
package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/xid"

	"github.com/inkwell-team/inkwell/server/backend/background"
	"github.com/inkwell-team/inkwell/server/backend/broadcast"
	"github.com/inkwell-team/inkwell/server/backend/database"
	"github.com/inkwell-team/inkwell/server/backend/database/badger"
	memdb "github.com/inkwell-team/inkwell/server/backend/database/memory"
	"github.com/inkwell-team/inkwell/server/backend/database/mongo"
	"github.com/inkwell-team/inkwell/server/backend/database/postgres"
	"github.com/inkwell-team/inkwell/server/backend/presence"
	"github.com/inkwell-team/inkwell/server/backend/registry"
	"github.com/inkwell-team/inkwell/server/backend/relay"
	"github.com/inkwell-team/inkwell/server/logging"
	"github.com/inkwell-team/inkwell/server/profiling/prometheus"
)

// StoreConfig selects the document store. The first non-nil entry in the
// order Mongo, Postgres, Badger is used; memory is the fallback.
type StoreConfig struct {
	Mongo    *mongo.Config
	Postgres *postgres.Config
	Badger   *badger.Config
}

// Backend manages Inkwell's backend such as the registry, the broadcaster
// and the database.
type Backend struct {
	Config *Config

	// NodeID identifies this process on the relay.
	NodeID string

	// Registry holds the session sets of open documents.
	Registry *registry.Registry
	// Broadcaster fans presence events out to session members.
	Broadcaster *broadcast.Broadcaster
	// Presence applies join and leave semantics on top of the registry.
	Presence *presence.Service
	// Relay forwards frames to the other nodes.
	Relay relay.Relay

	// Background is used to manage background tasks.
	Background *background.Background

	// Metrics is used to expose metrics.
	Metrics *prometheus.Metrics
	// DB is the database instance.
	DB database.Database
	// DBInfo describes the selected store for logs.
	DBInfo string
}

// New creates a new instance of Backend.
func New(
	conf *Config,
	stores StoreConfig,
	relayConf *relay.Config,
	metrics *prometheus.Metrics,
) (*Backend, error) {
	// 01. Resolve the hostname and derive the node id from it.
	if conf.Hostname == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("os.Hostname: %w", err)
		}
		conf.Hostname = hostname
	}
	nodeID := conf.Hostname + "-" + xid.New().String()

	// 02. Create the registry, the relay and the broadcaster on top of them.
	reg := registry.New()
	rl := relay.Ensure(relayConf, nodeID)
	broadcaster := broadcast.New(reg, rl, metrics)
	presenceService := presence.New(reg, broadcaster)

	// 03. Create the background task manager.
	bg := background.New(metrics)

	// 04. Open the document store.
	db, dbInfo, err := openDatabase(stores)
	if err != nil {
		if closeErr := rl.Close(); closeErr != nil {
			logging.DefaultLogger().Warnf("close relay: %v", closeErr)
		}
		return nil, err
	}

	logging.DefaultLogger().Infof("backend created: node: %s, db: %s", nodeID, dbInfo)

	return &Backend{
		Config: conf,
		NodeID: nodeID,

		Registry:    reg,
		Broadcaster: broadcaster,
		Presence:    presenceService,
		Relay:       rl,

		Background: bg,

		Metrics: metrics,
		DB:      db,
		DBInfo:  dbInfo,
	}, nil
}

func openDatabase(stores StoreConfig) (database.Database, string, error) {
	switch {
	case stores.Mongo != nil:
		db, err := mongo.Dial(stores.Mongo)
		if err != nil {
			return nil, "", err
		}
		return db, "mongo " + stores.Mongo.InkwellDatabase, nil
	case stores.Postgres != nil:
		db, err := postgres.Dial(stores.Postgres)
		if err != nil {
			return nil, "", err
		}
		return db, "postgres " + stores.Postgres.Schema, nil
	case stores.Badger != nil:
		db, err := badger.Open(stores.Badger)
		if err != nil {
			return nil, "", err
		}
		if stores.Badger.InMemory {
			return db, "badger in-memory", nil
		}
		return db, "badger " + stores.Badger.Path, nil
	default:
		db, err := memdb.New()
		if err != nil {
			return nil, "", err
		}
		return db, "memory", nil
	}
}

// Start subscribes to the relay and starts the stats reporter.
func (b *Backend) Start(ctx context.Context) error {
	if err := b.Relay.Subscribe(ctx, func(ctx context.Context, msg relay.Message) {
		b.Broadcaster.Deliver(ctx, msg)
	}); err != nil {
		return err
	}

	interval := b.Config.ParseStatsInterval()
	b.Background.AttachGoroutine(func(ctx context.Context) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := b.Registry.Stats()
				b.Metrics.SetSessions(stats.Sessions, stats.Members)
			}
		}
	}, "stats")

	logging.DefaultLogger().Infof("backend started")
	return nil
}

// Shutdown closes all resources of this instance.
func (b *Backend) Shutdown() error {
	var errs []error

	b.Background.Close()

	if err := b.Relay.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := b.DB.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	logging.DefaultLogger().Infof("backend stopped")
	return nil
}
