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

package badger

import (
	"errors"
)

// ErrEmptyPath is returned when neither a path nor in-memory mode is set.
var ErrEmptyPath = errors.New("badger path cannot be empty unless in-memory")

// Config is the configuration of the embedded document store used by the
// local-first mode.
type Config struct {
	// Path is the directory of the store.
	Path string `yaml:"Path"`

	// InMemory keeps the store in memory only.
	InMemory bool `yaml:"InMemory"`
}

// Validate validates this config.
func (c *Config) Validate() error {
	if c.Path == "" && !c.InMemory {
		return ErrEmptyPath
	}
	return nil
}
