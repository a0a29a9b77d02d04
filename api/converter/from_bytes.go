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

// BytesToFrame decodes and validates a frame. Errors wrap ErrMalformedFrame,
// ErrUnknownFrameType or ErrMissingField.
func BytesToFrame(data []byte) (*Frame, error) {
	frame := &Frame{}
	if err := json.Unmarshal(data, frame); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedFrame, err.Error())
	}
	if frame.Type == "" {
		return nil, fmt.Errorf("%w: no type", ErrMalformedFrame)
	}
	if err := validateFrame(frame); err != nil {
		return nil, err
	}

	return frame, nil
}

func validateFrame(f *Frame) error {
	switch f.Type {
	case KindJoinDocument, KindLeaveDocument:
	case KindCursorUpdate:
		if f.Cursor == nil {
			return fmt.Errorf("%w: cursor", ErrMissingField)
		}
		if err := f.Cursor.Validate(); err != nil {
			return fmt.Errorf("%w: %s", ErrMalformedFrame, err.Error())
		}
	case KindTextChange:
		if f.Change == nil {
			return fmt.Errorf("%w: change", ErrMissingField)
		}
	case KindUserJoined, KindUserLeft:
		if f.UserID == "" {
			return fmt.Errorf("%w: userId", ErrMissingField)
		}
	case KindDocumentUpdate:
		if f.Updates == nil {
			return fmt.Errorf("%w: updates", ErrMissingField)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFrameType, f.Type)
	}

	if f.DocumentID == "" {
		return fmt.Errorf("%w: documentId", ErrMissingField)
	}
	return nil
}

// FromFrame converts an event frame into a presence event.
func FromFrame(f *Frame) (events.Event, error) {
	switch f.Type {
	case KindUserJoined:
		return events.JoinEvent{DocID: f.DocumentID, UserID: f.UserID, DisplayName: f.DisplayName}, nil
	case KindUserLeft:
		return events.LeaveEvent{DocID: f.DocumentID, UserID: f.UserID}, nil
	case KindCursorUpdate:
		return events.CursorEvent{DocID: f.DocumentID, UserID: f.UserID, Cursor: *f.Cursor}, nil
	case KindTextChange:
		return events.ContentChangeEvent{DocID: f.DocumentID, UserID: f.UserID, Change: *f.Change}, nil
	case KindDocumentUpdate:
		return events.DocumentReplacedEvent{DocID: f.DocumentID, UserID: f.UserID, Updates: *f.Updates}, nil
	case KindJoinDocument, KindLeaveDocument:
		return nil, fmt.Errorf("%w: %s", ErrNotAnEvent, f.Type)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFrameType, f.Type)
	}
}

// BytesToEvent decodes a frame and converts it into a presence event.
func BytesToEvent(data []byte) (events.Event, error) {
	frame, err := BytesToFrame(data)
	if err != nil {
		return nil, err
	}
	return FromFrame(frame)
}
