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

package converter

import (
	"encoding/json"
	"fmt"

	"github.com/inkwell-team/inkwell/api/types/events"
)

// FrameToBytes encodes the frame.
func FrameToBytes(f *Frame) ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal %s frame: %w", f.Type, err)
	}
	return data, nil
}

// ToFrame converts a presence event into its frame.
func ToFrame(e events.Event) *Frame {
	b := &frameBuilder{}
	events.Dispatch(e, b)
	return b.frame
}

// EventToBytes converts the event into an encoded frame.
func EventToBytes(e events.Event) ([]byte, error) {
	return FrameToBytes(ToFrame(e))
}

type frameBuilder struct {
	frame *Frame
}

func (b *frameBuilder) OnJoin(e events.JoinEvent) {
	b.frame = &Frame{Type: KindUserJoined, DocumentID: e.DocID, UserID: e.UserID, DisplayName: e.DisplayName}
}

func (b *frameBuilder) OnLeave(e events.LeaveEvent) {
	b.frame = &Frame{Type: KindUserLeft, DocumentID: e.DocID, UserID: e.UserID}
}

func (b *frameBuilder) OnCursor(e events.CursorEvent) {
	cursor := e.Cursor
	b.frame = &Frame{Type: KindCursorUpdate, DocumentID: e.DocID, UserID: e.UserID, Cursor: &cursor}
}

func (b *frameBuilder) OnContentChange(e events.ContentChangeEvent) {
	change := e.Change
	b.frame = &Frame{Type: KindTextChange, DocumentID: e.DocID, UserID: e.UserID, Change: &change}
}

func (b *frameBuilder) OnDocumentReplaced(e events.DocumentReplacedEvent) {
	updates := e.Updates
	b.frame = &Frame{Type: KindDocumentUpdate, DocumentID: e.DocID, UserID: e.UserID, Updates: &updates}
}
