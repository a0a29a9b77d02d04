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
	"errors"
	"fmt"
	"os"
	"time"
)

var (
	// ErrInvalidRPCPort occurs when the port in the config is invalid.
	ErrInvalidRPCPort = errors.New("invalid port number for RPC server")
	// ErrInvalidCertFile occurs when the certificate file is invalid.
	ErrInvalidCertFile = errors.New("invalid cert file for RPC server")
	// ErrInvalidKeyFile occurs when the key file is invalid.
	ErrInvalidKeyFile = errors.New("invalid key file for RPC server")
	// ErrInvalidMaxRequestBytes occurs when the request limit is not positive.
	ErrInvalidMaxRequestBytes = errors.New("invalid max request bytes for RPC server")
	// ErrInvalidTokenDuration occurs when the token duration cannot be parsed.
	ErrInvalidTokenDuration = errors.New("invalid token duration for RPC server")
)

// Config is the configuration for creating a Server instance.
type Config struct {
	// Port is the port number for the HTTP and websocket server.
	Port int `yaml:"Port"`

	// CertFile is the path to the certificate file.
	CertFile string `yaml:"CertFile"`

	// KeyFile is the path to the key file.
	KeyFile string `yaml:"KeyFile"`

	// MaxRequestBytes is the maximum size of a request body or a websocket
	// frame the server will accept.
	MaxRequestBytes int64 `yaml:"MaxRequestBytes"`

	// SecretKey signs the tokens of callers. Authentication is disabled when
	// it is empty and the user id of join-document is trusted as is.
	SecretKey string `yaml:"SecretKey"`

	// TokenDuration is the lifetime of tokens issued with SecretKey.
	TokenDuration string `yaml:"TokenDuration"`

	// TokenCacheSize is the number of verified tokens kept in memory.
	TokenCacheSize int `yaml:"TokenCacheSize"`

	// AllowedOrigins lists the origins allowed to open a websocket. Empty
	// allows any origin.
	AllowedOrigins []string `yaml:"AllowedOrigins"`
}

// Validate validates the port number and the files for certification.
func (c *Config) Validate() error {
	if c.Port < 1 || 65535 < c.Port {
		return fmt.Errorf("must be between 1 and 65535, given %d: %w", c.Port, ErrInvalidRPCPort)
	}

	// when specific cert or key file are configured
	if c.CertFile != "" {
		if _, err := os.Stat(c.CertFile); err != nil {
			return fmt.Errorf("%s: %w", c.CertFile, ErrInvalidCertFile)
		}
	}

	if c.KeyFile != "" {
		if _, err := os.Stat(c.KeyFile); err != nil {
			return fmt.Errorf("%s: %w", c.KeyFile, ErrInvalidKeyFile)
		}
	}

	if c.MaxRequestBytes <= 0 {
		return fmt.Errorf("given %d: %w", c.MaxRequestBytes, ErrInvalidMaxRequestBytes)
	}

	if _, err := time.ParseDuration(c.TokenDuration); err != nil {
		return fmt.Errorf("%s: %w", c.TokenDuration, ErrInvalidTokenDuration)
	}

	return nil
}

// ParseTokenDuration returns the token duration.
func (c *Config) ParseTokenDuration() time.Duration {
	result, err := time.ParseDuration(c.TokenDuration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse token duration: %v\n", err)
		os.Exit(1)
	}

	return result
}
