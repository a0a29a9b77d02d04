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

package broadcast

import (
	"sync"

	"github.com/rs/xid"
)

// DefaultOutboxSize is the default number of frames an Outbox holds.
const DefaultOutboxSize = 256

// Outbox is the bounded queue of frames waiting to be written to one
// connection. It implements registry.Conn.
type Outbox struct {
	id     string
	mu     sync.Mutex
	closed bool
	frames chan []byte
}

// NewOutbox creates a new Outbox with a fresh connection id.
func NewOutbox(size int) *Outbox {
	if size <= 0 {
		size = DefaultOutboxSize
	}
	return &Outbox{
		id:     xid.New().String(),
		frames: make(chan []byte, size),
	}
}

// ID returns the connection id.
func (o *Outbox) ID() string {
	return o.id
}

// Frames returns the channel the writer of the connection drains.
func (o *Outbox) Frames() <-chan []byte {
	return o.frames
}

// Send queues the frame. It never blocks: a full or closed outbox drops the
// frame and returns false.
func (o *Outbox) Send(frame []byte) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return false
	}

	select {
	case o.frames <- frame:
		return true
	default:
		return false
	}
}

// Close closes the outbox. It is safe to call more than once.
func (o *Outbox) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.closed {
		o.closed = true
		close(o.frames)
	}
}
