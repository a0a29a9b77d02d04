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

// Package config holds the settings shared by the commands of the CLI and
// the tokens saved per server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/inkwell-team/inkwell/client"
)

// DefaultRPCAddr is the address of a local server.
const DefaultRPCAddr = "http://localhost:8080"

var (
	// RPCAddr is the address of the server.
	RPCAddr string
	// Token is the token sent to the server. The saved token of RPCAddr is
	// used when it is empty.
	Token string
	// UserID is the acting user on servers without authentication.
	UserID string
	// Output is the output format: empty for a table, yaml or json.
	Output string
)

// ErrUnknownOutput is returned for an output format other than yaml or json.
var ErrUnknownOutput = errors.New(`--output must be 'yaml' or 'json'`)

// ensureInkwellDir ensures that the directory of Inkwell exists.
func ensureInkwellDir() (string, error) {
	dir := path.Join(os.Getenv("HOME"), ".inkwell")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	return dir, nil
}

// configPath returns the path of CLI.
func configPath() (string, error) {
	dir, err := ensureInkwellDir()
	if err != nil {
		return "", fmt.Errorf("ensure inkwell dir: %w", err)
	}
	return path.Join(dir, "config.json"), nil
}

// Config is the configuration of CLI.
type Config struct {
	// Auths is the map of the address and the token.
	Auths map[string]string `json:"auths"`
}

// New creates a new configuration.
func New() *Config {
	return &Config{
		Auths: make(map[string]string),
	}
}

// Load loads the configuration. A missing file is an empty configuration.
func Load() (*Config, error) {
	configPathValue, err := configPath()
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Clean(configPathValue))
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}

		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	config := New()
	if err := json.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}
	if config.Auths == nil {
		config.Auths = make(map[string]string)
	}

	return config, nil
}

// Save saves the configuration.
func Save(config *Config) error {
	configPathValue, err := configPath()
	if err != nil {
		return err
	}

	file, err := os.OpenFile(filepath.Clean(configPathValue), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := json.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("encode config file: %w", err)
	}

	return nil
}

// LoadToken returns the token saved for addr, or the empty string.
func LoadToken(addr string) (string, error) {
	config, err := Load()
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return config.Auths[addr], nil
}

// ValidateOutput validates the output format.
func ValidateOutput() error {
	if Output != "" && Output != "yaml" && Output != "json" {
		return ErrUnknownOutput
	}
	return nil
}

// ClientOptions returns the options of clients of RPCAddr.
func ClientOptions() ([]client.Option, error) {
	token := Token
	if token == "" {
		saved, err := LoadToken(RPCAddr)
		if err != nil {
			return nil, err
		}
		token = saved
	}

	var opts []client.Option
	if token != "" {
		opts = append(opts, client.WithToken(token))
	}
	if UserID != "" {
		opts = append(opts, client.WithUserID(UserID))
	}
	return opts, nil
}

// Documents returns a client of the document API of RPCAddr.
func Documents() (*client.Documents, error) {
	opts, err := ClientOptions()
	if err != nil {
		return nil, err
	}
	return client.NewDocuments(RPCAddr, opts...)
}
