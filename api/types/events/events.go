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

// Package events defines the presence events exchanged between the members
// of a document session.
package events

import (
	"github.com/inkwell-team/inkwell/api/types"
)

// Type represents the type of an Event. The values are the wire kinds.
type Type string

const (
	// UserJoined occurs when a connection joins the session of a document.
	UserJoined Type = "user-joined"

	// UserLeft occurs when a connection leaves the session of a document.
	UserLeft Type = "user-left"

	// CursorMoved occurs when a member moves its caret.
	CursorMoved Type = "cursor-update"

	// ContentChanged occurs when a member edits the buffer. The payload is a
	// preview and is never applied to the peer's buffer.
	ContentChanged Type = "text-change"

	// DocumentReplaced occurs after the stored document was overwritten.
	DocumentReplaced Type = "document-update"
)

// Event is a presence event. The set of implementations is closed; use
// Dispatch with a Handler to consume one.
type Event interface {
	// Type returns the type of the event.
	Type() Type

	// DocumentID returns the document the event belongs to.
	DocumentID() string

	// Actor returns the user id of the member that caused the event.
	Actor() string

	accept(h Handler)
}

// Handler handles every kind of Event. Adding a variant adds a method here,
// so every consumer fails to compile until it handles the new kind.
type Handler interface {
	OnJoin(e JoinEvent)
	OnLeave(e LeaveEvent)
	OnCursor(e CursorEvent)
	OnContentChange(e ContentChangeEvent)
	OnDocumentReplaced(e DocumentReplacedEvent)
}

// Dispatch calls the method of h that matches the variant of e.
func Dispatch(e Event, h Handler) {
	e.accept(h)
}

// JoinEvent announces a member of the session.
type JoinEvent struct {
	DocID       string
	UserID      string
	DisplayName string
}

// LeaveEvent announces that a member left the session.
type LeaveEvent struct {
	DocID  string
	UserID string
}

// CursorEvent carries the caret position of a member.
type CursorEvent struct {
	DocID  string
	UserID string
	Cursor types.Cursor
}

// ContentChangeEvent carries a full snapshot of a member's buffer.
type ContentChangeEvent struct {
	DocID  string
	UserID string
	Change types.Change
}

// DocumentReplacedEvent tells the members that the stored document changed.
type DocumentReplacedEvent struct {
	DocID   string
	UserID  string
	Updates types.UpdatableDocumentFields
}

// Type returns UserJoined.
func (e JoinEvent) Type() Type { return UserJoined }

// DocumentID returns the document id.
func (e JoinEvent) DocumentID() string { return e.DocID }

// Actor returns the joining user.
func (e JoinEvent) Actor() string { return e.UserID }

func (e JoinEvent) accept(h Handler) { h.OnJoin(e) }

// Type returns UserLeft.
func (e LeaveEvent) Type() Type { return UserLeft }

// DocumentID returns the document id.
func (e LeaveEvent) DocumentID() string { return e.DocID }

// Actor returns the leaving user.
func (e LeaveEvent) Actor() string { return e.UserID }

func (e LeaveEvent) accept(h Handler) { h.OnLeave(e) }

// Type returns CursorMoved.
func (e CursorEvent) Type() Type { return CursorMoved }

// DocumentID returns the document id.
func (e CursorEvent) DocumentID() string { return e.DocID }

// Actor returns the user that moved the caret.
func (e CursorEvent) Actor() string { return e.UserID }

func (e CursorEvent) accept(h Handler) { h.OnCursor(e) }

// Type returns ContentChanged.
func (e ContentChangeEvent) Type() Type { return ContentChanged }

// DocumentID returns the document id.
func (e ContentChangeEvent) DocumentID() string { return e.DocID }

// Actor returns the editing user.
func (e ContentChangeEvent) Actor() string { return e.UserID }

func (e ContentChangeEvent) accept(h Handler) { h.OnContentChange(e) }

// Type returns DocumentReplaced.
func (e DocumentReplacedEvent) Type() Type { return DocumentReplaced }

// DocumentID returns the document id.
func (e DocumentReplacedEvent) DocumentID() string { return e.DocID }

// Actor returns the user that saved the document.
func (e DocumentReplacedEvent) Actor() string { return e.UserID }

func (e DocumentReplacedEvent) accept(h Handler) { h.OnDocumentReplaced(e) }
