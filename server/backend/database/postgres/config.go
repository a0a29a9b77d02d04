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

package postgres

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyConnectionURL is returned when the connection URL is empty.
	ErrEmptyConnectionURL = errors.New("connection URL cannot be empty")

	// ErrEmptySchema is returned when the schema is empty.
	ErrEmptySchema = errors.New("schema cannot be empty")
)

// Config is the configuration for creating a Client instance.
type Config struct {
	// ConnectionURL is a postgres:// URL or a keyword/value DSN.
	ConnectionURL string `yaml:"ConnectionURL"`

	// ConnectionTimeout bounds connecting and migrating at start-up.
	ConnectionTimeout string `yaml:"ConnectionTimeout"`

	// Schema holds the documents table. It is created when missing.
	Schema string `yaml:"Schema"`

	// MaxConns is the size of the connection pool. Zero keeps the pgx default.
	MaxConns int32 `yaml:"MaxConns"`
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if c.ConnectionURL == "" {
		return ErrEmptyConnectionURL
	}

	if _, err := time.ParseDuration(c.ConnectionTimeout); err != nil {
		return fmt.Errorf(
			`invalid argument "%s" for "--postgres-connection-timeout" flag: %w`,
			c.ConnectionTimeout,
			err,
		)
	}

	if c.Schema == "" {
		return ErrEmptySchema
	}

	if c.MaxConns < 0 {
		return fmt.Errorf(`invalid argument "%d" for "--postgres-max-conns" flag`, c.MaxConns)
	}

	return nil
}

// ParseConnectionTimeout returns connection timeout duration.
func (c *Config) ParseConnectionTimeout() time.Duration {
	result, err := time.ParseDuration(c.ConnectionTimeout)
	if err != nil {
		return 5 * time.Second
	}

	return result
}
