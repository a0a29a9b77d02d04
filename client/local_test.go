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

package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/client"
	"github.com/inkwell-team/inkwell/client/autosave"
	"github.com/inkwell-team/inkwell/pkg/errors"
	"github.com/inkwell-team/inkwell/server/backend/database"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create get update test", func(t *testing.T) {
		store, err := client.OpenLocalStore("")
		require.NoError(t, err)
		defer func() { assert.NoError(t, store.Close()) }()

		doc, err := store.CreateDocument(ctx, &types.CreateDocumentFields{Title: "Draft", Content: "a"})
		require.NoError(t, err)
		assert.NotEmpty(t, doc.ID)

		require.NoError(t, store.UpdateDocument(ctx, doc.ID, types.ContentOnly("b")))
		stored, err := store.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, "b", stored.Content)
		assert.Equal(t, "Draft", stored.Title)
	})

	t.Run("invalid input test", func(t *testing.T) {
		store, err := client.OpenLocalStore("")
		require.NoError(t, err)
		defer func() { assert.NoError(t, store.Close()) }()

		_, err = store.CreateDocument(ctx, &types.CreateDocumentFields{Title: " "})
		assert.Error(t, err)

		err = store.UpdateDocument(ctx, "missing", &types.UpdatableDocumentFields{})
		assert.ErrorIs(t, err, types.ErrEmptyDocumentFields)

		_, err = store.GetDocument(ctx, "missing")
		assert.ErrorIs(t, err, database.ErrInvalidDocumentID)

		_, err = store.GetDocument(ctx, ulid.Make().String())
		assert.ErrorIs(t, err, database.ErrDocumentNotFound)
		assert.True(t, errors.IsStatus(err, errors.ErrCodeNotFound))
	})

	t.Run("persisted on disk test", func(t *testing.T) {
		dir := t.TempDir()

		store, err := client.OpenLocalStore(dir)
		require.NoError(t, err)
		doc, err := store.CreateDocument(ctx, &types.CreateDocumentFields{Title: "Draft", Content: "kept"})
		require.NoError(t, err)
		require.NoError(t, store.Close())

		store, err = client.OpenLocalStore(dir)
		require.NoError(t, err)
		defer func() { assert.NoError(t, store.Close()) }()

		stored, err := store.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, "kept", stored.Content)
	})

	t.Run("local session test", func(t *testing.T) {
		store, err := client.OpenLocalStore("")
		require.NoError(t, err)
		defer func() { assert.NoError(t, store.Close()) }()

		doc, err := store.CreateDocument(ctx, &types.CreateDocumentFields{Title: "Draft", Content: "a"})
		require.NoError(t, err)

		session := client.OpenLocal(store, doc, client.WithUserID("alice"))
		assert.Equal(t, doc.ID, session.DocumentID())
		assert.False(t, session.MoveCursor(types.Cursor{LineNumber: 1, Column: 1}))

		result, err := session.SaveNow(ctx)
		require.NoError(t, err)
		assert.Equal(t, autosave.SkipUnchanged, result)

		session.Edit("ab")
		assert.Eventually(t, func() bool {
			return session.View().SaveStatus() == autosave.AutoSaved
		}, waitFor, 10*time.Millisecond)

		stored, err := store.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, "ab", stored.Content)

		assert.NoError(t, session.Close())
		assert.Equal(t, client.Closed, session.Channel().State())
	})
}
