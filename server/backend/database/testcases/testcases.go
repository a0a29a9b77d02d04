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

// Package testcases contains testcases for database. It is used by database
// implementations to test their own implementations with the same testcases.
package testcases

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/server/backend/database"
)

func strPtr(s string) *string { return &s }

// RunCreateAndFindDocInfoTest runs the create and find testcases for the
// given database.
func RunCreateAndFindDocInfoTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	t.Run("create and find test", func(t *testing.T) {
		created, err := db.CreateDocInfo(ctx, &types.CreateDocumentFields{
			Title:    t.Name(),
			Content:  "# hello",
			FolderID: strPtr("folder-a"),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)

		found, err := db.FindDocInfoByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, t.Name(), found.Title)
		assert.Equal(t, "# hello", found.Content)
		require.NotNil(t, found.FolderID)
		assert.Equal(t, "folder-a", *found.FolderID)
	})

	t.Run("find missing document test", func(t *testing.T) {
		created, err := db.CreateDocInfo(ctx, &types.CreateDocumentFields{Title: t.Name()})
		require.NoError(t, err)
		require.NoError(t, db.DeleteDocInfo(ctx, created.ID))

		_, err = db.FindDocInfoByID(ctx, created.ID)
		assert.ErrorIs(t, err, database.ErrDocumentNotFound)
	})
}

// RunUpdateDocInfoTest runs the partial update testcases for the given
// database.
func RunUpdateDocInfoTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	t.Run("partial update test", func(t *testing.T) {
		created, err := db.CreateDocInfo(ctx, &types.CreateDocumentFields{
			Title:    t.Name(),
			Content:  "v1",
			FolderID: strPtr("folder-a"),
		})
		require.NoError(t, err)

		time.Sleep(2 * time.Millisecond)
		updated, err := db.UpdateDocInfo(ctx, created.ID, types.ContentOnly("v2"))
		require.NoError(t, err)
		assert.Equal(t, t.Name(), updated.Title)
		assert.Equal(t, "v2", updated.Content)
		assert.Equal(t, "folder-a", *updated.FolderID)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

		updated, err = db.UpdateDocInfo(ctx, created.ID, &types.UpdatableDocumentFields{FolderID: strPtr("")})
		require.NoError(t, err)
		assert.Nil(t, updated.FolderID)
		assert.Equal(t, "v2", updated.Content)

		found, err := db.FindDocInfoByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, found.FolderID)
		assert.Equal(t, "v2", found.Content)
	})

	t.Run("update missing document test", func(t *testing.T) {
		created, err := db.CreateDocInfo(ctx, &types.CreateDocumentFields{Title: t.Name()})
		require.NoError(t, err)
		require.NoError(t, db.DeleteDocInfo(ctx, created.ID))

		_, err = db.UpdateDocInfo(ctx, created.ID, types.ContentOnly("x"))
		assert.ErrorIs(t, err, database.ErrDocumentNotFound)
	})

	t.Run("last writer wins test", func(t *testing.T) {
		created, err := db.CreateDocInfo(ctx, &types.CreateDocumentFields{Title: t.Name()})
		require.NoError(t, err)

		_, err = db.UpdateDocInfo(ctx, created.ID, types.ContentOnly("from A"))
		require.NoError(t, err)
		_, err = db.UpdateDocInfo(ctx, created.ID, types.ContentOnly("from B"))
		require.NoError(t, err)

		found, err := db.FindDocInfoByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "from B", found.Content)
	})

	t.Run("concurrent writers test", func(t *testing.T) {
		created, err := db.CreateDocInfo(ctx, &types.CreateDocumentFields{Title: t.Name()})
		require.NoError(t, err)

		contents := map[string]bool{}
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			content := fmt.Sprintf("writer-%d", i)
			contents[content] = true
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := db.UpdateDocInfo(ctx, created.ID, types.ContentOnly(content))
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		found, err := db.FindDocInfoByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, contents[found.Content], "one complete write survives")
	})
}

// RunListDocInfosTest runs the list testcases for the given database. It
// expects the database to be empty.
func RunListDocInfosTest(t *testing.T, db database.Database) {
	ctx := context.Background()
	folder := "list-" + t.Name()

	var ids []string
	for i, title := range []string{"Alpha notes", "Beta plan", "Gamma notes"} {
		created, err := db.CreateDocInfo(ctx, &types.CreateDocumentFields{
			Title:    title,
			Content:  fmt.Sprintf("body %d", i),
			FolderID: strPtr(folder),
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
		time.Sleep(2 * time.Millisecond)
	}
	root, err := db.CreateDocInfo(ctx, &types.CreateDocumentFields{Title: "Root notes"})
	require.NoError(t, err)

	t.Run("folder filter test", func(t *testing.T) {
		infos, err := db.ListDocInfos(ctx, database.ListOptions{FolderID: &folder})
		require.NoError(t, err)
		require.Len(t, infos, 3)
		assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{infos[0].ID, infos[1].ID, infos[2].ID})
	})

	t.Run("query test", func(t *testing.T) {
		infos, err := db.ListDocInfos(ctx, database.ListOptions{FolderID: &folder, Query: "NOTES"})
		require.NoError(t, err)
		require.Len(t, infos, 2)
		assert.Equal(t, ids[2], infos[0].ID)
	})

	t.Run("root test", func(t *testing.T) {
		infos, err := db.ListDocInfos(ctx, database.ListOptions{FolderID: strPtr("")})
		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, root.ID, infos[0].ID)
	})

	t.Run("limit test", func(t *testing.T) {
		infos, err := db.ListDocInfos(ctx, database.ListOptions{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, infos, 2)
		assert.Equal(t, root.ID, infos[0].ID)
	})

	t.Run("moved document is listed once test", func(t *testing.T) {
		_, err := db.UpdateDocInfo(ctx, ids[0], &types.UpdatableDocumentFields{FolderID: strPtr("")})
		require.NoError(t, err)

		infos, err := db.ListDocInfos(ctx, database.ListOptions{FolderID: &folder})
		require.NoError(t, err)
		assert.Len(t, infos, 2)

		infos, err = db.ListDocInfos(ctx, database.ListOptions{FolderID: strPtr("")})
		require.NoError(t, err)
		assert.Len(t, infos, 2)
		assert.Equal(t, ids[0], infos[0].ID, "the moved document is the most recently updated")
	})
}

// RunDeleteDocInfoTest runs the delete testcases for the given database.
func RunDeleteDocInfoTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	created, err := db.CreateDocInfo(ctx, &types.CreateDocumentFields{Title: t.Name()})
	require.NoError(t, err)

	assert.NoError(t, db.DeleteDocInfo(ctx, created.ID))
	assert.ErrorIs(t, db.DeleteDocInfo(ctx, created.ID), database.ErrDocumentNotFound)
}
