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

// Package converter converts presence events and session requests to JSON
// frames and vice versa.
package converter

import (
	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/api/types/events"
)

// Kind is the value of the type field of a frame.
type Kind string

const (
	// KindJoinDocument asks the server to add the connection to a session.
	KindJoinDocument Kind = "join-document"

	// KindLeaveDocument asks the server to remove the connection from a session.
	KindLeaveDocument Kind = "leave-document"

	// KindCursorUpdate carries a caret position.
	KindCursorUpdate = Kind(events.CursorMoved)

	// KindTextChange carries a buffer snapshot.
	KindTextChange = Kind(events.ContentChanged)

	// KindUserJoined announces a member.
	KindUserJoined = Kind(events.UserJoined)

	// KindUserLeft announces a departure.
	KindUserLeft = Kind(events.UserLeft)

	// KindDocumentUpdate announces that the stored document changed.
	KindDocumentUpdate = Kind(events.DocumentReplaced)
)

// IsRequest returns whether the kind is only sent from a client to the server.
func (k Kind) IsRequest() bool {
	return k == KindJoinDocument || k == KindLeaveDocument
}

// Frame is a JSON text message on the presence channel. Which fields are set
// depends on Type.
type Frame struct {
	Type        Kind                           `json:"type"`
	DocumentID  string                         `json:"documentId,omitempty"`
	UserID      string                         `json:"userId,omitempty"`
	DisplayName string                         `json:"displayName,omitempty"`
	Cursor      *types.Cursor                  `json:"cursor,omitempty"`
	Change      *types.Change                  `json:"change,omitempty"`
	Updates     *types.UpdatableDocumentFields `json:"updates,omitempty"`
}

// JoinDocumentFrame returns a join-document request.
func JoinDocumentFrame(docID, userID, displayName string) *Frame {
	return &Frame{
		Type:        KindJoinDocument,
		DocumentID:  docID,
		UserID:      userID,
		DisplayName: displayName,
	}
}

// LeaveDocumentFrame returns a leave-document request.
func LeaveDocumentFrame(docID string) *Frame {
	return &Frame{Type: KindLeaveDocument, DocumentID: docID}
}

// CursorUpdateFrame returns a cursor-update sent by a member.
func CursorUpdateFrame(docID string, cursor types.Cursor) *Frame {
	return &Frame{Type: KindCursorUpdate, DocumentID: docID, Cursor: &cursor}
}

// TextChangeFrame returns a text-change sent by a member.
func TextChangeFrame(docID string, change types.Change) *Frame {
	return &Frame{Type: KindTextChange, DocumentID: docID, Change: &change}
}
