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

// Package autosave decides when an editor's buffer is written to the
// document store. Edits are debounced into one write; writes from one
// Coordinator never overlap and are never retried on a schedule.
package autosave

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/inkwell-team/inkwell/api/types"
)

// Debounce windows of the two modes.
const (
	ServerDelay = 2000 * time.Millisecond
	LocalDelay  = 500 * time.Millisecond
)

// Status is the auto-save status shown to the user.
type Status int

// Status values.
const (
	// Saved means the buffer matches what was loaded from the store.
	Saved Status = iota
	// Saving means a write is in flight.
	Saving
	// AutoSaved means the last write succeeded.
	AutoSaved
	// SaveFailed means the last write failed. The content stays unsaved.
	SaveFailed
)

// String returns the label of the status.
func (s Status) String() string {
	switch s {
	case Saved:
		return "Saved"
	case Saving:
		return "Saving..."
	case AutoSaved:
		return "Auto-saved"
	case SaveFailed:
		return "Save failed"
	}
	return "Unknown"
}

// Result tells what a save attempt did.
type Result int

// Result values. The Skip values are checked in this order.
const (
	SkipCreating Result = iota
	SkipUnbound
	SkipUnchanged
	Written
	Failed
	// Superseded means a newer edit or SaveNow replaced a timer's content
	// before it could be written.
	Superseded
)

// String returns the name of the result.
func (r Result) String() string {
	switch r {
	case SkipCreating:
		return "skip-creating"
	case SkipUnbound:
		return "skip-unbound"
	case SkipUnchanged:
		return "skip-unchanged"
	case Written:
		return "written"
	case Failed:
		return "failed"
	case Superseded:
		return "superseded"
	}
	return "unknown"
}

// Persister is the partial-update contract of the document store.
type Persister interface {
	UpdateDocument(ctx context.Context, id string, fields *types.UpdatableDocumentFields) error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDelay sets the debounce window.
func WithDelay(delay time.Duration) Option {
	return func(c *Coordinator) { c.delay = delay }
}

// WithStatusListener sets the function told about every status change. It
// is called without locks held.
func WithStatusListener(f func(Status)) Option {
	return func(c *Coordinator) { c.onStatus = f }
}

// WithFailureListener sets the function told about failed writes.
func WithFailureListener(f func(error)) Option {
	return func(c *Coordinator) { c.onFailure = f }
}

// WithWriteTimeout bounds writes fired by the debounce timer.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) { c.writeTimeout = timeout }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) { c.logger = logger.Sugar() }
}

// Coordinator debounces edits of one session into writes of its document.
type Coordinator struct {
	persister    Persister
	delay        time.Duration
	writeTimeout time.Duration
	onStatus     func(Status)
	onFailure    func(error)
	logger       *zap.SugaredLogger

	// writeMu keeps writes from overlapping.
	writeMu sync.Mutex

	mu        sync.Mutex
	docID     string
	creating  bool
	lastSaved string
	status    Status
	timer     *time.Timer
	// generation identifies the armed timer; a fired timer with an older
	// generation has been replaced and does nothing.
	generation uint64
	closed     bool
}

// New creates a Coordinator writing through p.
func New(p Persister, opts ...Option) *Coordinator {
	c := &Coordinator{
		persister:    p,
		delay:        ServerDelay,
		writeTimeout: 30 * time.Second,
		logger:       zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind sets the target document and the content last loaded from or saved
// to the store.
func (c *Coordinator) Bind(docID, savedContent string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.docID = docID
	c.lastSaved = savedContent
	c.status = Saved
}

// SetCreating marks the document as still being created. Attempts are
// skipped until it is cleared.
func (c *Coordinator) SetCreating(creating bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.creating = creating
}

// Status returns the current status.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status
}

// Schedule arms the debounce timer for content. A pending timer is stopped
// first, so only the last content of a burst of edits is written.
func (c *Coordinator) Schedule(content string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.stopTimerLocked()
	c.generation++
	generation := c.generation
	c.timer = time.AfterFunc(c.delay, func() {
		c.fire(generation, content)
	})
}

// Pending reports whether a debounce timer is armed.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.timer != nil
}

func (c *Coordinator) fire(generation uint64, content string) {
	c.mu.Lock()
	if c.closed || generation != c.generation {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
	defer cancel()

	result, err := c.attempt(ctx, content, generation)
	if err != nil {
		c.logger.Warnf("auto-save %s: %v", c.documentID(), err)
		return
	}
	c.logger.Debugf("auto-save %s: %s", c.documentID(), result)
}

// SaveNow cancels the pending timer and writes content before returning.
func (c *Coordinator) SaveNow(ctx context.Context, content string) (Result, error) {
	c.mu.Lock()
	c.stopTimerLocked()
	c.generation++
	c.mu.Unlock()

	return c.attempt(ctx, content, 0)
}

// Close stops the pending timer. Later calls to Schedule do nothing. A
// write already in flight is not aborted.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.stopTimerLocked()
}

func (c *Coordinator) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Coordinator) documentID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.docID
}

// attempt applies the skip conditions and writes content. A non-zero
// generation is the timer's; it must still be current once the write lock
// is held.
func (c *Coordinator) attempt(ctx context.Context, content string, generation uint64) (Result, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	switch {
	case generation != 0 && generation != c.generation:
		c.mu.Unlock()
		return Superseded, nil
	case c.creating:
		c.mu.Unlock()
		return SkipCreating, nil
	case c.docID == "":
		c.mu.Unlock()
		return SkipUnbound, nil
	case content == c.lastSaved:
		c.mu.Unlock()
		return SkipUnchanged, nil
	}
	docID := c.docID
	c.status = Saving
	c.mu.Unlock()
	c.notify(Saving)

	if err := c.persister.UpdateDocument(ctx, docID, types.ContentOnly(content)); err != nil {
		c.mu.Lock()
		c.status = SaveFailed
		c.mu.Unlock()
		c.notify(SaveFailed)
		if c.onFailure != nil {
			c.onFailure(err)
		}
		return Failed, err
	}

	c.mu.Lock()
	if c.docID == docID {
		c.lastSaved = content
	}
	c.status = AutoSaved
	c.mu.Unlock()
	c.notify(AutoSaved)
	return Written, nil
}

func (c *Coordinator) notify(status Status) {
	if c.onStatus != nil {
		c.onStatus(status)
	}
}
