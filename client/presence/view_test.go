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

package presence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/api/types/events"
	"github.com/inkwell-team/inkwell/client/autosave"
	"github.com/inkwell-team/inkwell/client/presence"
)

func strPtr(s string) *string { return &s }

func TestView(t *testing.T) {
	t.Run("join upserts test", func(t *testing.T) {
		v := presence.New("7", "bob")

		v.Apply(events.JoinEvent{DocID: "7", UserID: "alice", DisplayName: "A"})
		v.Apply(events.JoinEvent{DocID: "7", UserID: "alice", DisplayName: "Alice"})

		snapshot := v.Snapshot()
		require.Len(t, snapshot.Collaborators, 1)
		assert.Equal(t, "Alice", snapshot.Collaborators[0].DisplayName)
		assert.True(t, snapshot.Collaborators[0].Online)
		assert.Equal(t, presence.StatusOnline, snapshot.Collaborators[0].Status)
	})

	t.Run("two peers scenario test", func(t *testing.T) {
		v := presence.New("7", "bob")

		v.Apply(events.JoinEvent{DocID: "7", UserID: "alice"})
		v.Apply(events.CursorEvent{DocID: "7", UserID: "alice", Cursor: types.Cursor{LineNumber: 3, Column: 1}})

		alice, ok := v.Collaborator("alice")
		require.True(t, ok)
		assert.Equal(t, "Line 3", alice.Status)
		assert.Equal(t, 1, alice.Cursor.Column)

		v.Apply(events.LeaveEvent{DocID: "7", UserID: "alice"})
		_, ok = v.Collaborator("alice")
		assert.False(t, ok)
		assert.Empty(t, v.Snapshot().Collaborators)
	})

	t.Run("untracked cursor is ignored test", func(t *testing.T) {
		v := presence.New("7", "bob")

		v.Apply(events.CursorEvent{DocID: "7", UserID: "ghost", Cursor: types.Cursor{LineNumber: 1, Column: 1}})
		v.Apply(events.ContentChangeEvent{DocID: "7", UserID: "ghost"})
		v.Apply(events.LeaveEvent{DocID: "7", UserID: "ghost"})

		assert.Empty(t, v.Snapshot().Collaborators)
	})

	t.Run("content change marks editing test", func(t *testing.T) {
		v := presence.New("7", "bob")

		v.Apply(events.JoinEvent{DocID: "7", UserID: "alice"})
		v.Apply(events.ContentChangeEvent{DocID: "7", UserID: "alice", Change: types.Change{Content: "# x", Timestamp: 1}})

		alice, ok := v.Collaborator("alice")
		require.True(t, ok)
		assert.Equal(t, presence.StatusEditing, alice.Status)
	})

	t.Run("own and foreign events are ignored test", func(t *testing.T) {
		v := presence.New("7", "bob")

		v.Apply(events.JoinEvent{DocID: "7", UserID: "bob"})
		v.Apply(events.JoinEvent{DocID: "8", UserID: "alice"})
		v.Apply(nil)

		assert.Empty(t, v.Snapshot().Collaborators)
	})

	t.Run("document replaced test", func(t *testing.T) {
		var replaced []events.DocumentReplacedEvent
		v := presence.New("7", "bob", presence.WithReplacedListener(func(e events.DocumentReplacedEvent) {
			replaced = append(replaced, e)
		}))

		v.Apply(events.JoinEvent{DocID: "7", UserID: "alice"})
		v.Apply(events.DocumentReplacedEvent{
			DocID:   "7",
			UserID:  "alice",
			Updates: types.UpdatableDocumentFields{Title: strPtr("New")},
		})

		alice, _ := v.Collaborator("alice")
		assert.Equal(t, presence.StatusReplaced, alice.Status)
		require.Len(t, replaced, 1)
		assert.Equal(t, "New", *replaced[0].Updates.Title)
	})

	t.Run("save status and change listener test", func(t *testing.T) {
		var snapshots []presence.Snapshot
		v := presence.New("7", "bob", presence.WithChangeListener(func(s presence.Snapshot) {
			snapshots = append(snapshots, s)
		}))

		v.SetSaveStatus(autosave.Saving)
		v.SetSaveStatus(autosave.AutoSaved)
		v.Apply(events.JoinEvent{DocID: "7", UserID: "alice"})
		v.Reset()

		assert.Equal(t, autosave.AutoSaved, v.SaveStatus())
		require.Len(t, snapshots, 4)
		assert.Equal(t, autosave.Saving, snapshots[0].SaveStatus)
		assert.Len(t, snapshots[2].Collaborators, 1)
		assert.Empty(t, snapshots[3].Collaborators)
	})
}
