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

// Package presence keeps an editor's view of who else is editing the same
// document. It consumes the presence events received over the channel.
package presence

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/api/types/events"
	"github.com/inkwell-team/inkwell/client/autosave"
)

// Collaborator status labels.
const (
	StatusOnline   = "Online"
	StatusEditing  = "Editing..."
	StatusReplaced = "Saved changes"
)

// Collaborator is another user editing the document.
type Collaborator struct {
	UserID      string
	DisplayName string
	Online      bool
	Cursor      *types.Cursor
	Status      string
	UpdatedAt   time.Time
}

// Snapshot is a consistent copy of the view.
type Snapshot struct {
	Collaborators []Collaborator
	SaveStatus    autosave.Status
}

// Option configures a View.
type Option func(*View)

// WithReplacedListener sets the function told when the stored document was
// replaced by someone else. The local buffer is left to the caller.
func WithReplacedListener(f func(events.DocumentReplacedEvent)) Option {
	return func(v *View) { v.onReplaced = f }
}

// WithChangeListener sets the function told after every change of the view.
func WithChangeListener(f func(Snapshot)) Option {
	return func(v *View) { v.onChange = f }
}

// View is the set of collaborators of one document and the auto-save status
// of the local session.
type View struct {
	docID  string
	selfID string

	onReplaced func(events.DocumentReplacedEvent)
	onChange   func(Snapshot)
	now        func() time.Time

	mu            sync.Mutex
	collaborators map[string]*Collaborator
	saveStatus    autosave.Status
}

// New creates a View of docID for the user selfID. Events about selfID are
// ignored.
func New(docID, selfID string, opts ...Option) *View {
	v := &View{
		docID:         docID,
		selfID:        selfID,
		now:           time.Now,
		collaborators: make(map[string]*Collaborator),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Apply updates the view with an inbound event. Events of other documents,
// of the local user, and nil events are ignored.
func (v *View) Apply(e events.Event) {
	if e == nil || e.DocumentID() != v.docID || e.Actor() == v.selfID {
		return
	}

	r := &reducer{view: v}
	v.mu.Lock()
	events.Dispatch(e, r)
	v.mu.Unlock()

	if r.changed {
		v.changed()
	}
	if r.replaced != nil && v.onReplaced != nil {
		v.onReplaced(*r.replaced)
	}
}

// SetSaveStatus records the auto-save status of the local session.
func (v *View) SetSaveStatus(status autosave.Status) {
	v.mu.Lock()
	v.saveStatus = status
	v.mu.Unlock()

	v.changed()
}

// SaveStatus returns the auto-save status of the local session.
func (v *View) SaveStatus() autosave.Status {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.saveStatus
}

// Collaborator returns the collaborator with the given user id.
func (v *View) Collaborator(userID string) (Collaborator, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, ok := v.collaborators[userID]
	if !ok {
		return Collaborator{}, false
	}
	return c.copy(), true
}

// Reset forgets every collaborator. It is used when the channel reconnects
// since the server announces the present members again.
func (v *View) Reset() {
	v.mu.Lock()
	v.collaborators = make(map[string]*Collaborator)
	v.mu.Unlock()

	v.changed()
}

// Snapshot returns a copy of the view with collaborators sorted by user id.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.snapshotLocked()
}

func (v *View) snapshotLocked() Snapshot {
	collaborators := make([]Collaborator, 0, len(v.collaborators))
	for _, c := range v.collaborators {
		collaborators = append(collaborators, c.copy())
	}
	sort.Slice(collaborators, func(i, j int) bool {
		return collaborators[i].UserID < collaborators[j].UserID
	})

	return Snapshot{
		Collaborators: collaborators,
		SaveStatus:    v.saveStatus,
	}
}

func (v *View) changed() {
	if v.onChange != nil {
		v.onChange(v.Snapshot())
	}
}

func (c *Collaborator) copy() Collaborator {
	clone := *c
	if c.Cursor != nil {
		cursor := *c.Cursor
		clone.Cursor = &cursor
	}
	return clone
}

// reducer applies one event to the view. The view's lock is held.
type reducer struct {
	view     *View
	changed  bool
	replaced *events.DocumentReplacedEvent
}

func (r *reducer) OnJoin(e events.JoinEvent) {
	r.view.collaborators[e.UserID] = &Collaborator{
		UserID:      e.UserID,
		DisplayName: e.DisplayName,
		Online:      true,
		Status:      StatusOnline,
		UpdatedAt:   r.view.now(),
	}
	r.changed = true
}

func (r *reducer) OnLeave(e events.LeaveEvent) {
	if _, ok := r.view.collaborators[e.UserID]; ok {
		delete(r.view.collaborators, e.UserID)
		r.changed = true
	}
}

func (r *reducer) OnCursor(e events.CursorEvent) {
	c, ok := r.view.collaborators[e.UserID]
	if !ok {
		return
	}
	cursor := e.Cursor
	c.Cursor = &cursor
	c.Status = fmt.Sprintf("Line %d", e.Cursor.LineNumber)
	c.UpdatedAt = r.view.now()
	r.changed = true
}

func (r *reducer) OnContentChange(e events.ContentChangeEvent) {
	c, ok := r.view.collaborators[e.UserID]
	if !ok {
		return
	}
	c.Status = StatusEditing
	c.UpdatedAt = r.view.now()
	r.changed = true
}

func (r *reducer) OnDocumentReplaced(e events.DocumentReplacedEvent) {
	if c, ok := r.view.collaborators[e.UserID]; ok {
		c.Status = StatusReplaced
		c.UpdatedAt = r.view.now()
		r.changed = true
	}
	replaced := e
	r.replaced = &replaced
}
