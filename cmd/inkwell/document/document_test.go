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

package document_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/cmd/inkwell/config"
	"github.com/inkwell-team/inkwell/cmd/inkwell/document"
	"github.com/inkwell-team/inkwell/server/backend"
	"github.com/inkwell-team/inkwell/server/rpc"
)

func execute(t *testing.T, args ...string) string {
	out := &bytes.Buffer{}
	document.SubCmd.SetOut(out)
	document.SubCmd.SetErr(out)
	document.SubCmd.SetArgs(args)
	require.NoError(t, document.SubCmd.Execute(), out.String())
	return out.String()
}

func decode(t *testing.T, out string) []*types.DocumentSummary {
	var documents []*types.DocumentSummary
	require.NoError(t, json.Unmarshal([]byte(out), &documents))
	return documents
}

func TestDocumentCommands(t *testing.T) {
	be, err := backend.New(&backend.Config{
		OutboxSize:    16,
		StatsInterval: "1m",
	}, backend.StoreConfig{}, nil, nil)
	require.NoError(t, err)
	srv, err := rpc.NewServer(&rpc.Config{
		Port:            8080,
		MaxRequestBytes: 1 << 20,
		TokenDuration:   "1h",
	}, be)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer func() {
		ts.Close()
		assert.NoError(t, be.Shutdown())
	}()

	t.Setenv("HOME", t.TempDir())
	config.RPCAddr = ts.URL
	config.UserID = "alice"
	config.Output = "json"
	defer func() {
		config.RPCAddr = config.DefaultRPCAddr
		config.UserID = ""
		config.Output = ""
	}()

	created := decode(t, execute(t, "create", "Plan", "--content", "# Plan"))
	require.Len(t, created, 1)
	id := created[0].ID
	assert.Equal(t, "Plan", created[0].Title)

	listed := decode(t, execute(t, "ls"))
	require.Len(t, listed, 1)
	assert.Equal(t, id, listed[0].ID)

	updated := decode(t, execute(t, "update", id, "--title", "Plan v2"))
	require.Len(t, updated, 1)
	assert.Equal(t, "Plan v2", updated[0].Title)
	assert.Equal(t, "# Plan", updated[0].Content)

	moved := decode(t, execute(t, "mv", id, "drafts"))
	require.Len(t, moved, 1)
	require.NotNil(t, moved[0].FolderID)
	assert.Equal(t, "drafts", *moved[0].FolderID)

	inRoot := decode(t, execute(t, "ls", "--root"))
	assert.Len(t, inRoot, 0)

	config.Output = ""
	assert.Contains(t, execute(t, "ls", "--root=false"), "Plan v2")
	assert.Equal(t, "# Plan", execute(t, "get", id, "--raw"))

	assert.Equal(t, "removed "+id+"\n", execute(t, "remove", id))
}
