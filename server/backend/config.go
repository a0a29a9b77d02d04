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

package backend

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrInvalidOutboxSize is returned when the outbox size is not positive.
var ErrInvalidOutboxSize = errors.New("outbox size must be positive")

// Config is the configuration for creating a Backend instance.
type Config struct {
	// Hostname is the name of this node. It prefixes the node id used by the
	// relay and labels logs. Defaults to the machine hostname.
	Hostname string `yaml:"Hostname"`

	// OutboxSize is the number of frames buffered per connection before
	// new frames for it are dropped.
	OutboxSize int `yaml:"OutboxSize"`

	// StatsInterval is how often the registry gauges are refreshed.
	StatsInterval string `yaml:"StatsInterval"`
}

// Validate validates this config.
func (c *Config) Validate() error {
	if c.OutboxSize <= 0 {
		return fmt.Errorf(
			`invalid argument "%d" for "--outbox-size" flag: %w`,
			c.OutboxSize,
			ErrInvalidOutboxSize,
		)
	}

	if _, err := time.ParseDuration(c.StatsInterval); err != nil {
		return fmt.Errorf(
			`invalid argument "%s" for "--stats-interval" flag: %w`,
			c.StatsInterval,
			err,
		)
	}

	return nil
}

// ParseStatsInterval returns the interval of the stats reporter.
func (c *Config) ParseStatsInterval() time.Duration {
	result, err := time.ParseDuration(c.StatsInterval)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse stats interval: %v\n", err)
		os.Exit(1)
	}

	return result
}
