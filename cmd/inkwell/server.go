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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkwell-team/inkwell/server"
	"github.com/inkwell-team/inkwell/server/backend/database/badger"
	"github.com/inkwell-team/inkwell/server/backend/database/mongo"
	"github.com/inkwell-team/inkwell/server/backend/database/postgres"
	"github.com/inkwell-team/inkwell/server/backend/relay"
	"github.com/inkwell-team/inkwell/server/logging"
)

var (
	gracefulTimeout = server.DefaultShutdownTimeout
)

var (
	flagConfPath string
	flagLogLevel string

	tokenDuration time.Duration
	statsInterval time.Duration

	mongoConnectionURI     string
	mongoConnectionTimeout time.Duration
	mongoInkwellDatabase   string
	mongoPingTimeout       time.Duration
	mongoMonitoring        bool

	postgresConnectionURL     string
	postgresConnectionTimeout time.Duration
	postgresSchema            string

	badgerPath     string
	badgerInMemory bool

	redisAddress  string
	redisPassword string
	redisDB       int

	conf = server.NewConfig()
)

func newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server [options]",
		Short: "Start Inkwell server",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf.RPC.TokenDuration = tokenDuration.String()
			conf.Backend.StatsInterval = statsInterval.String()

			if mongoConnectionURI != "" {
				conf.Mongo = &mongo.Config{
					ConnectionURI:                mongoConnectionURI,
					ConnectionTimeout:            mongoConnectionTimeout.String(),
					InkwellDatabase:              mongoInkwellDatabase,
					PingTimeout:                  mongoPingTimeout.String(),
					MonitoringEnabled:            mongoMonitoring,
					MonitoringSlowQueryThreshold: server.DefaultMongoMonitoringSlowQueryThreshold.String(),
				}
			}

			if postgresConnectionURL != "" {
				conf.Postgres = &postgres.Config{
					ConnectionURL:     postgresConnectionURL,
					ConnectionTimeout: postgresConnectionTimeout.String(),
					Schema:            postgresSchema,
				}
			}

			if badgerPath != "" || badgerInMemory {
				conf.Badger = &badger.Config{
					Path:     badgerPath,
					InMemory: badgerInMemory,
				}
			}

			if redisAddress != "" {
				conf.Redis = &relay.Config{
					Address:       redisAddress,
					Password:      redisPassword,
					DB:            redisDB,
					ChannelPrefix: server.DefaultRedisChannelPrefix,
				}
			}

			// If config file is given, command-line arguments will be overwritten.
			if flagConfPath != "" {
				parsed, err := server.NewConfigFromFile(flagConfPath)
				if err != nil {
					return err
				}
				conf = parsed
			}

			if err := logging.SetLogLevel(flagLogLevel); err != nil {
				return err
			}

			r, err := server.New(conf)
			if err != nil {
				return err
			}

			if err := r.Start(); err != nil {
				return err
			}

			if code := handleSignal(r); code != 0 {
				return fmt.Errorf("exit code: %d", code)
			}

			return nil
		},
	}
}

func handleSignal(r *server.Inkwell) int {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	var sig os.Signal
	select {
	case s := <-sigCh:
		sig = s
	case <-r.ShutdownCh():
		// inkwell is already shutdown
		return 0
	}

	graceful := false
	if sig == syscall.SIGINT || sig == syscall.SIGTERM {
		graceful = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulTimeout)
	defer cancel()

	gracefulCh := make(chan struct{})
	go func() {
		if err := r.Shutdown(ctx, graceful); err != nil {
			logging.DefaultLogger().Errorf("shutdown: %v", err)
			return
		}
		close(gracefulCh)
	}()

	select {
	case <-sigCh:
		return 1
	case <-ctx.Done():
		return 1
	case <-gracefulCh:
		return 0
	}
}

func init() {
	cmd := newServerCmd()
	cmd.Flags().StringVarP(
		&flagConfPath,
		"config",
		"c",
		"",
		"Config path",
	)
	cmd.Flags().StringVarP(
		&flagLogLevel,
		"log-level",
		"l",
		"info",
		"Log level: debug, info, warn, error, panic, fatal",
	)
	cmd.Flags().IntVar(
		&conf.RPC.Port,
		"rpc-port",
		server.DefaultRPCPort,
		"Port of the document API and the presence websocket",
	)
	cmd.Flags().StringVar(
		&conf.RPC.CertFile,
		"rpc-cert-file",
		"",
		"RPC certification file's path",
	)
	cmd.Flags().StringVar(
		&conf.RPC.KeyFile,
		"rpc-key-file",
		"",
		"RPC key file's path",
	)
	cmd.Flags().Int64Var(
		&conf.RPC.MaxRequestBytes,
		"rpc-max-request-bytes",
		server.DefaultMaxRequestBytes,
		"Maximum request body or websocket frame size in bytes the server will accept.",
	)
	cmd.Flags().StringVar(
		&conf.RPC.SecretKey,
		"secret-key",
		"",
		"The secret key for signing tokens. Authentication is disabled when empty.",
	)
	cmd.Flags().DurationVar(
		&tokenDuration,
		"token-duration",
		server.DefaultTokenDuration,
		"The duration of tokens signed with the secret key.",
	)
	cmd.Flags().IntVar(
		&conf.RPC.TokenCacheSize,
		"token-cache-size",
		server.DefaultTokenCacheSize,
		"The number of verified tokens kept in memory.",
	)
	cmd.Flags().StringSliceVar(
		&conf.RPC.AllowedOrigins,
		"allowed-origins",
		nil,
		"Origins allowed to open a websocket. Any origin when empty.",
	)
	cmd.Flags().IntVar(
		&conf.Profiling.Port,
		"profiling-port",
		server.DefaultProfilingPort,
		"Profiling port",
	)
	cmd.Flags().BoolVar(
		&conf.Profiling.EnablePprof,
		"enable-pprof",
		false,
		"Enable runtime profiling data via HTTP server.",
	)
	cmd.Flags().StringVar(
		&conf.Backend.Hostname,
		"hostname",
		"",
		"Inkwell Server Hostname",
	)
	cmd.Flags().IntVar(
		&conf.Backend.OutboxSize,
		"outbox-size",
		server.DefaultOutboxSize,
		"Frames buffered per connection before new frames for it are dropped.",
	)
	cmd.Flags().DurationVar(
		&statsInterval,
		"stats-interval",
		server.DefaultStatsInterval,
		"Interval between refreshes of the session gauges.",
	)
	cmd.Flags().StringVar(
		&mongoConnectionURI,
		"mongo-connection-uri",
		"",
		"MongoDB's connection URI",
	)
	cmd.Flags().DurationVar(
		&mongoConnectionTimeout,
		"mongo-connection-timeout",
		server.DefaultMongoConnectionTimeout,
		"Mongo DB's connection timeout",
	)
	cmd.Flags().StringVar(
		&mongoInkwellDatabase,
		"mongo-inkwell-database",
		server.DefaultMongoInkwellDatabase,
		"Inkwell's database name in MongoDB",
	)
	cmd.Flags().DurationVar(
		&mongoPingTimeout,
		"mongo-ping-timeout",
		server.DefaultMongoPingTimeout,
		"Mongo DB's ping timeout",
	)
	cmd.Flags().BoolVar(
		&mongoMonitoring,
		"mongo-monitoring",
		false,
		"Log MongoDB commands, slow ones at warn level",
	)
	cmd.Flags().StringVar(
		&postgresConnectionURL,
		"postgres-connection-url",
		"",
		"PostgreSQL's connection URL",
	)
	cmd.Flags().DurationVar(
		&postgresConnectionTimeout,
		"postgres-connection-timeout",
		server.DefaultPostgresConnectionTimeout,
		"PostgreSQL's connection timeout",
	)
	cmd.Flags().StringVar(
		&postgresSchema,
		"postgres-schema",
		server.DefaultPostgresSchema,
		"Schema of the documents table in PostgreSQL",
	)
	cmd.Flags().StringVar(
		&badgerPath,
		"badger-path",
		"",
		"Directory of the embedded document store",
	)
	cmd.Flags().BoolVar(
		&badgerInMemory,
		"badger-in-memory",
		false,
		"Keep the embedded document store in memory",
	)
	cmd.Flags().StringVar(
		&redisAddress,
		"redis-address",
		"",
		"Redis host:port relaying presence frames between servers",
	)
	cmd.Flags().StringVar(
		&redisPassword,
		"redis-password",
		"",
		"Redis password",
	)
	cmd.Flags().IntVar(
		&redisDB,
		"redis-db",
		0,
		"Redis logical database",
	)

	rootCmd.AddCommand(cmd)
}
