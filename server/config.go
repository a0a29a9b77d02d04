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

package server

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/inkwell-team/inkwell/server/backend"
	"github.com/inkwell-team/inkwell/server/backend/database/badger"
	"github.com/inkwell-team/inkwell/server/backend/database/mongo"
	"github.com/inkwell-team/inkwell/server/backend/database/postgres"
	"github.com/inkwell-team/inkwell/server/backend/relay"
	"github.com/inkwell-team/inkwell/server/profiling"
	"github.com/inkwell-team/inkwell/server/rpc"
)

// Below are the values of the default values of Inkwell config.
const (
	DefaultRPCPort         = 8080
	DefaultProfilingPort   = 8081
	DefaultMaxRequestBytes = 4 * 1024 * 1024
	DefaultTokenDuration   = 24 * time.Hour
	DefaultTokenCacheSize  = 1024

	DefaultOutboxSize    = 256
	DefaultStatsInterval = 10 * time.Second

	DefaultMongoConnectionURI                = "mongodb://localhost:27017"
	DefaultMongoConnectionTimeout            = 5 * time.Second
	DefaultMongoPingTimeout                  = 5 * time.Second
	DefaultMongoInkwellDatabase              = "inkwell"
	DefaultMongoMonitoringSlowQueryThreshold = 100 * time.Millisecond

	DefaultPostgresConnectionTimeout = 5 * time.Second
	DefaultPostgresSchema            = "inkwell"

	DefaultRedisChannelPrefix = relay.DefaultChannelPrefix

	DefaultShutdownTimeout = 10 * time.Second
)

// Config is the configuration for creating an Inkwell instance. Mongo,
// Postgres and Badger select the document store; leaving all of them out
// keeps documents in memory.
type Config struct {
	RPC       *rpc.Config       `yaml:"RPC"`
	Profiling *profiling.Config `yaml:"Profiling"`
	Backend   *backend.Config   `yaml:"Backend"`
	Mongo     *mongo.Config     `yaml:"Mongo"`
	Postgres  *postgres.Config  `yaml:"Postgres"`
	Badger    *badger.Config    `yaml:"Badger"`
	Redis     *relay.Config     `yaml:"Redis"`
}

// NewConfig returns a Config struct that contains reasonable defaults
// for most of the configurations.
func NewConfig() *Config {
	return newConfig(DefaultRPCPort, DefaultProfilingPort)
}

// NewConfigFromFile returns a Config struct for the given conf file.
func NewConfigFromFile(path string) (*Config, error) {
	conf := &Config{}
	bytes, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err = yaml.Unmarshal(bytes, conf); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	conf.ensureDefaultValue()
	return conf, nil
}

// RPCAddr returns the RPC address.
func (c *Config) RPCAddr() string {
	return fmt.Sprintf("localhost:%d", c.RPC.Port)
}

// Stores returns the document store selection of this config.
func (c *Config) Stores() backend.StoreConfig {
	return backend.StoreConfig{
		Mongo:    c.Mongo,
		Postgres: c.Postgres,
		Badger:   c.Badger,
	}
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if err := c.RPC.Validate(); err != nil {
		return err
	}

	if c.Profiling != nil {
		if err := c.Profiling.Validate(); err != nil {
			return err
		}
	}

	if err := c.Backend.Validate(); err != nil {
		return err
	}

	if c.Mongo != nil {
		if err := c.Mongo.Validate(); err != nil {
			return err
		}
	}

	if c.Postgres != nil {
		if err := c.Postgres.Validate(); err != nil {
			return err
		}
	}

	if c.Badger != nil {
		if err := c.Badger.Validate(); err != nil {
			return err
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ensureDefaultValue sets the value of the option to which the default value
// should be applied when the user does not input it.
func (c *Config) ensureDefaultValue() {
	if c.RPC == nil {
		c.RPC = &rpc.Config{}
	}
	if c.RPC.Port == 0 {
		c.RPC.Port = DefaultRPCPort
	}
	if c.RPC.MaxRequestBytes == 0 {
		c.RPC.MaxRequestBytes = DefaultMaxRequestBytes
	}
	if c.RPC.TokenDuration == "" {
		c.RPC.TokenDuration = DefaultTokenDuration.String()
	}
	if c.RPC.TokenCacheSize == 0 {
		c.RPC.TokenCacheSize = DefaultTokenCacheSize
	}

	if c.Profiling != nil && c.Profiling.Port == 0 {
		c.Profiling.Port = DefaultProfilingPort
	}

	if c.Backend == nil {
		c.Backend = &backend.Config{}
	}
	if c.Backend.OutboxSize == 0 {
		c.Backend.OutboxSize = DefaultOutboxSize
	}
	if c.Backend.StatsInterval == "" {
		c.Backend.StatsInterval = DefaultStatsInterval.String()
	}

	if c.Mongo != nil {
		if c.Mongo.ConnectionURI == "" {
			c.Mongo.ConnectionURI = DefaultMongoConnectionURI
		}
		if c.Mongo.ConnectionTimeout == "" {
			c.Mongo.ConnectionTimeout = DefaultMongoConnectionTimeout.String()
		}
		if c.Mongo.InkwellDatabase == "" {
			c.Mongo.InkwellDatabase = DefaultMongoInkwellDatabase
		}
		if c.Mongo.PingTimeout == "" {
			c.Mongo.PingTimeout = DefaultMongoPingTimeout.String()
		}
		if c.Mongo.MonitoringEnabled && c.Mongo.MonitoringSlowQueryThreshold == "" {
			c.Mongo.MonitoringSlowQueryThreshold = DefaultMongoMonitoringSlowQueryThreshold.String()
		}
	}

	if c.Postgres != nil {
		if c.Postgres.ConnectionTimeout == "" {
			c.Postgres.ConnectionTimeout = DefaultPostgresConnectionTimeout.String()
		}
		if c.Postgres.Schema == "" {
			c.Postgres.Schema = DefaultPostgresSchema
		}
	}

	if c.Redis != nil && c.Redis.ChannelPrefix == "" {
		c.Redis.ChannelPrefix = DefaultRedisChannelPrefix
	}
}

func newConfig(port int, profilingPort int) *Config {
	return &Config{
		RPC: &rpc.Config{
			Port:            port,
			MaxRequestBytes: DefaultMaxRequestBytes,
			TokenDuration:   DefaultTokenDuration.String(),
			TokenCacheSize:  DefaultTokenCacheSize,
		},
		Profiling: &profiling.Config{
			Port: profilingPort,
		},
		Backend: &backend.Config{
			OutboxSize:    DefaultOutboxSize,
			StatsInterval: DefaultStatsInterval.String(),
		},
	}
}
