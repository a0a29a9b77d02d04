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

package converter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-team/inkwell/api/converter"
	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/api/types/events"
	"github.com/inkwell-team/inkwell/pkg/errors"
)

func TestConverter(t *testing.T) {
	t.Run("event round trip test", func(t *testing.T) {
		title := "renamed"
		evs := []events.Event{
			events.JoinEvent{DocID: "d1", UserID: "alice", DisplayName: "Alice"},
			events.LeaveEvent{DocID: "d1", UserID: "alice"},
			events.CursorEvent{DocID: "d1", UserID: "bob", Cursor: types.Cursor{LineNumber: 5, Column: 3}},
			events.ContentChangeEvent{DocID: "d1", UserID: "bob", Change: types.Change{Content: "# a", Timestamp: 42}},
			events.DocumentReplacedEvent{DocID: "d1", UserID: "bob", Updates: types.UpdatableDocumentFields{Title: &title}},
		}

		for _, e := range evs {
			data, err := converter.EventToBytes(e)
			require.NoError(t, err)

			decoded, err := converter.BytesToEvent(data)
			require.NoError(t, err)
			assert.Equal(t, e, decoded)
		}
	})

	t.Run("wire format test", func(t *testing.T) {
		data, err := converter.EventToBytes(events.CursorEvent{
			DocID:  "d1",
			UserID: "bob",
			Cursor: types.Cursor{LineNumber: 5, Column: 3},
		})
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"type":"cursor-update","documentId":"d1","userId":"bob","cursor":{"lineNumber":5,"column":3}}`,
			string(data),
		)

		data, err = converter.FrameToBytes(converter.JoinDocumentFrame("d1", "alice", ""))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"join-document","documentId":"d1","userId":"alice"}`, string(data))
	})

	t.Run("decode request test", func(t *testing.T) {
		frame, err := converter.BytesToFrame([]byte(`{"type":"text-change","documentId":"d1","change":{"content":"x","timestamp":1}}`))
		require.NoError(t, err)
		assert.Equal(t, converter.KindTextChange, frame.Type)
		assert.Equal(t, "x", frame.Change.Content)
		assert.False(t, frame.Type.IsRequest())

		frame, err = converter.BytesToFrame([]byte(`{"type":"leave-document","documentId":"d1"}`))
		require.NoError(t, err)
		assert.True(t, frame.Type.IsRequest())

		_, err = converter.FromFrame(frame)
		assert.ErrorIs(t, err, converter.ErrNotAnEvent)
	})

	t.Run("invalid frame test", func(t *testing.T) {
		tests := []struct {
			name string
			data string
			want error
		}{
			{"not json", `{not json`, converter.ErrMalformedFrame},
			{"no type", `{"documentId":"d1"}`, converter.ErrMalformedFrame},
			{"unknown type", `{"type":"shrug","documentId":"d1"}`, converter.ErrUnknownFrameType},
			{"no document", `{"type":"join-document","userId":"a"}`, converter.ErrMissingField},
			{"no cursor", `{"type":"cursor-update","documentId":"d1"}`, converter.ErrMissingField},
			{"bad cursor", `{"type":"cursor-update","documentId":"d1","cursor":{"lineNumber":0,"column":1}}`, converter.ErrMalformedFrame},
			{"no user", `{"type":"user-left","documentId":"d1"}`, converter.ErrMissingField},
			{"no updates", `{"type":"document-update","documentId":"d1"}`, converter.ErrMissingField},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := converter.BytesToFrame([]byte(tt.data))
				assert.ErrorIs(t, err, tt.want)
				assert.Equal(t, errors.ErrCodeInvalidArgument, errors.StatusOf(err))
			})
		}
	})
}
