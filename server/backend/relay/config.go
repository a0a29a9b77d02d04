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

package relay

import (
	"errors"
	"fmt"
	"net"
)

var (
	// ErrEmptyAddress is returned when the address is empty.
	ErrEmptyAddress = errors.New("address cannot be empty")

	// ErrEmptyChannelPrefix is returned when the channel prefix is empty.
	ErrEmptyChannelPrefix = errors.New("channel prefix cannot be empty")
)

// DefaultChannelPrefix is the prefix of the pub/sub channel.
const DefaultChannelPrefix = "inkwell"

// Config is the configuration for the Redis relay.
type Config struct {
	// Address is the host:port of the Redis server.
	Address string `yaml:"Address"`

	// Password is the password of the Redis server, if any.
	Password string `yaml:"Password"`

	// DB is the Redis logical database.
	DB int `yaml:"DB"`

	// ChannelPrefix is prepended to the pub/sub channel name.
	ChannelPrefix string `yaml:"ChannelPrefix"`
}

// Validate validates this config.
func (c *Config) Validate() error {
	if c.Address == "" {
		return ErrEmptyAddress
	}
	if _, _, err := net.SplitHostPort(c.Address); err != nil {
		return fmt.Errorf(`parse address "%s": %w`, c.Address, err)
	}
	if c.ChannelPrefix == "" {
		return ErrEmptyChannelPrefix
	}

	return nil
}

// Channel returns the pub/sub channel carrying document frames.
func (c *Config) Channel() string {
	return c.ChannelPrefix + ":documents"
}
