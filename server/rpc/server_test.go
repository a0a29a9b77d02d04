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

package rpc_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-team/inkwell/api/converter"
	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/internal/version"
	"github.com/inkwell-team/inkwell/server/backend"
	"github.com/inkwell-team/inkwell/server/rpc"
)

func newTestServer(t *testing.T, secretKey string) (*httptest.Server, *rpc.Server, *backend.Backend) {
	be, err := backend.New(&backend.Config{
		OutboxSize:    64,
		StatsInterval: "1m",
	}, backend.StoreConfig{}, nil, nil)
	require.NoError(t, err)

	srv, err := rpc.NewServer(&rpc.Config{
		Port:            8080,
		MaxRequestBytes: 1 << 20,
		SecretKey:       secretKey,
		TokenDuration:   "1h",
	}, be)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		assert.NoError(t, be.Shutdown())
	})
	return ts, srv, be
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, frame *converter.Frame) {
	data, err := converter.FrameToBytes(frame)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func receive(t *testing.T, conn *websocket.Conn) *converter.Frame {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	frame, err := converter.BytesToFrame(data)
	require.NoError(t, err)
	return frame
}

func waitMembers(t *testing.T, be *backend.Backend, docID string, n int) {
	assert.Eventually(t, func() bool {
		return len(be.Presence.Members(docID)) == n
	}, 5*time.Second, 10*time.Millisecond)
}

func TestSocket(t *testing.T) {
	t.Run("two peers test", func(t *testing.T) {
		ts, _, be := newTestServer(t, "")

		alice := dial(t, ts, "")
		send(t, alice, converter.JoinDocumentFrame("doc", "alice", "Alice"))
		waitMembers(t, be, "doc", 1)

		bob := dial(t, ts, "")
		send(t, bob, converter.JoinDocumentFrame("doc", "bob", "Bob"))

		joined := receive(t, alice)
		assert.Equal(t, converter.KindUserJoined, joined.Type)
		assert.Equal(t, "bob", joined.UserID)

		present := receive(t, bob)
		assert.Equal(t, converter.KindUserJoined, present.Type)
		assert.Equal(t, "alice", present.UserID)

		send(t, alice, converter.CursorUpdateFrame("doc", types.Cursor{LineNumber: 3, Column: 1}))
		cursor := receive(t, bob)
		assert.Equal(t, converter.KindCursorUpdate, cursor.Type)
		assert.Equal(t, "alice", cursor.UserID)
		assert.Equal(t, 3, cursor.Cursor.LineNumber)

		require.NoError(t, bob.Close())
		left := receive(t, alice)
		assert.Equal(t, converter.KindUserLeft, left.Type)
		assert.Equal(t, "bob", left.UserID)
		waitMembers(t, be, "doc", 1)
	})

	t.Run("malformed frames are dropped test", func(t *testing.T) {
		ts, _, be := newTestServer(t, "")

		conn := dial(t, ts, "")
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"bogus","documentId":"doc"}`)))
		send(t, conn, converter.JoinDocumentFrame("doc", "alice", ""))

		waitMembers(t, be, "doc", 1)
	})

	t.Run("authenticated identity wins test", func(t *testing.T) {
		ts, srv, be := newTestServer(t, "secret")

		token, err := srv.TokenManager().Generate("carol", "Carol")
		require.NoError(t, err)

		url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		assert.Error(t, err)
		if resp != nil {
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			_ = resp.Body.Close()
		}

		conn := dial(t, ts, "?token="+token)
		send(t, conn, converter.JoinDocumentFrame("doc", "mallory", ""))
		waitMembers(t, be, "doc", 1)

		members := be.Presence.Members("doc")
		assert.Equal(t, "carol", members[0].UserID)
		assert.Equal(t, "Carol", members[0].DisplayName)
	})
}

func TestDocumentsAPI(t *testing.T) {
	ts, _, be := newTestServer(t, "")

	do := func(method, path string, body any) *http.Response {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req, err := http.NewRequest(method, ts.URL+path, &buf)
		require.NoError(t, err)
		req.Header.Set(rpc.UserHeader, "alice")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	t.Run("health test", func(t *testing.T) {
		resp := do(http.MethodGet, "/healthz", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("version test", func(t *testing.T) {
		resp := do(http.MethodGet, rpc.VersionPath, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		detail := &types.VersionDetail{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(detail))
		assert.Equal(t, version.Version, detail.InkwellVersion)
	})

	t.Run("crud test", func(t *testing.T) {
		resp := do(http.MethodPost, "/api/documents", types.CreateDocumentFields{Title: "Plan", Content: "a"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		created := &types.DocumentSummary{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(created))

		viewer := dial(t, ts, "")
		send(t, viewer, converter.JoinDocumentFrame(created.ID, "bob", ""))
		waitMembers(t, be, created.ID, 1)

		resp = do(http.MethodPatch, "/api/documents/"+created.ID, map[string]string{"content": "b"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		updated := &types.DocumentSummary{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(updated))
		assert.Equal(t, "b", updated.Content)
		assert.Equal(t, "Plan", updated.Title)

		replaced := receive(t, viewer)
		assert.Equal(t, converter.KindDocumentUpdate, replaced.Type)
		assert.Equal(t, "alice", replaced.UserID)

		resp = do(http.MethodPut, "/api/documents/"+created.ID+"/folder", rpc.MoveRequest{FolderID: "work"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = do(http.MethodGet, "/api/documents?folderId=work", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var list []*types.DocumentSummary
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
		assert.Len(t, list, 1)

		resp = do(http.MethodDelete, "/api/documents/"+created.ID, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = do(http.MethodGet, "/api/documents/"+created.ID, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		errResp := &rpc.ErrorResponse{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(errResp))
		assert.Equal(t, "ErrDocumentNotFound", errResp.Code)
	})

	t.Run("invalid body test", func(t *testing.T) {
		resp := do(http.MethodPost, "/api/documents", map[string]string{"title": ""})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp = do(http.MethodPatch, "/api/documents/x", map[string]string{"unknown": "1"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp = do(http.MethodGet, "/api/documents?limit=abc", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
