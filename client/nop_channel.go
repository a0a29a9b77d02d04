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

package client

import (
	"context"
	"sync/atomic"

	"github.com/inkwell-team/inkwell/api/types"
)

// NopChannel is the Channel of local-only mode. It never connects and
// drops everything sent to it.
type NopChannel struct {
	closed atomic.Bool
}

// Open does nothing.
func (c *NopChannel) Open(context.Context) error { return nil }

// State returns Closed after Close and Idle before.
func (c *NopChannel) State() ChannelState {
	if c.closed.Load() {
		return Closed
	}
	return Idle
}

// JoinDocument drops the request.
func (c *NopChannel) JoinDocument(string) bool { return false }

// LeaveDocument drops the request.
func (c *NopChannel) LeaveDocument(string) bool { return false }

// SendCursor drops the cursor.
func (c *NopChannel) SendCursor(string, types.Cursor) bool { return false }

// SendChange drops the change.
func (c *NopChannel) SendChange(string, types.Change) bool { return false }

// Close marks the channel closed.
func (c *NopChannel) Close() error {
	c.closed.Store(true)
	return nil
}
