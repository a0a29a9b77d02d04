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
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/api/types/events"
	"github.com/inkwell-team/inkwell/client"
	"github.com/inkwell-team/inkwell/client/autosave"
	"github.com/inkwell-team/inkwell/client/presence"
	"github.com/inkwell-team/inkwell/server/backend"
	"github.com/inkwell-team/inkwell/server/rpc"
	"github.com/inkwell-team/inkwell/server/rpc/auth"
)

const waitFor = 5 * time.Second

type testServer struct {
	*httptest.Server
	be   *backend.Backend
	once sync.Once

	// conns counts the accepted connections.
	conns atomic.Int32
}

// newTestServer starts a server on addr, or on a random port when addr is
// empty.
func newTestServer(t *testing.T, addr string) *testServer {
	return startTestServer(t, addr, "")
}

// startTestServer starts a server that authenticates with secretKey when
// it is not empty.
func startTestServer(t *testing.T, addr, secretKey string) *testServer {
	be, err := backend.New(&backend.Config{
		OutboxSize:    64,
		StatsInterval: "1m",
	}, backend.StoreConfig{}, nil, nil)
	require.NoError(t, err)

	srv, err := rpc.NewServer(&rpc.Config{
		Port:            8080,
		MaxRequestBytes: 1 << 20,
		TokenDuration:   "1h",
		SecretKey:       secretKey,
	}, be)
	require.NoError(t, err)

	s := &testServer{be: be}
	ts := httptest.NewUnstartedServer(srv.Handler())
	if addr != "" {
		require.NoError(t, ts.Listener.Close())
		ts.Listener, err = net.Listen("tcp", addr)
		require.NoError(t, err)
	}
	ts.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateNew {
			s.conns.Add(1)
		}
	}
	ts.Start()

	s.Server = ts
	t.Cleanup(s.stop)
	return s
}

func (s *testServer) stop() {
	s.once.Do(func() {
		s.CloseClientConnections()
		s.Close()
		_ = s.be.Shutdown()
	})
}

func (s *testServer) waitMembers(t *testing.T, docID string, n int) {
	assert.Eventually(t, func() bool {
		return len(s.be.Presence.Members(docID)) == n
	}, waitFor, 10*time.Millisecond)
}

func collaborator(t *testing.T, view *presence.View, userID, status string) {
	assert.Eventually(t, func() bool {
		c, ok := view.Collaborator(userID)
		return ok && c.Status == status
	}, waitFor, 10*time.Millisecond)
}

func TestWSChannel(t *testing.T) {
	t.Run("socket url test", func(t *testing.T) {
		_, err := client.NewChannel("ftp://localhost", nil)
		assert.Error(t, err)

		_, err = client.NewChannel("http://localhost:8080", nil)
		assert.NoError(t, err)
	})

	t.Run("sends before connect are dropped test", func(t *testing.T) {
		ch, err := client.NewChannel("http://127.0.0.1:1", nil)
		require.NoError(t, err)

		assert.Equal(t, client.Idle, ch.State())
		assert.False(t, ch.SendCursor("doc", types.Cursor{LineNumber: 1, Column: 1}))
		assert.False(t, ch.SendChange("doc", types.Change{Content: "x"}))
		assert.False(t, ch.JoinDocument("doc"))
		assert.NoError(t, ch.Close())
		assert.Equal(t, client.Closed, ch.State())
	})

	t.Run("open twice test", func(t *testing.T) {
		ts := newTestServer(t, "")
		ch, err := client.NewChannel(ts.URL, nil)
		require.NoError(t, err)
		defer func() { assert.NoError(t, ch.Close()) }()

		require.NoError(t, ch.Open(context.Background()))
		assert.NotEqual(t, client.Idle, ch.State())
		assert.ErrorIs(t, ch.Open(context.Background()), client.ErrChannelOpened)
	})

	t.Run("concurrent open test", func(t *testing.T) {
		ts := newTestServer(t, "")
		ch, err := client.NewChannel(ts.URL, nil, client.WithUserID("alice"))
		require.NoError(t, err)

		var wg sync.WaitGroup
		var opened atomic.Int32
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := ch.Open(context.Background()); err == nil {
					opened.Add(1)
				} else {
					assert.ErrorIs(t, err, client.ErrChannelOpened)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), opened.Load())

		assert.Eventually(t, func() bool {
			return ch.State() == client.Connected
		}, waitFor, 10*time.Millisecond)
		ch.JoinDocument("doc")
		ts.waitMembers(t, "doc", 1)
		assert.Equal(t, int32(1), ts.conns.Load())

		assert.NoError(t, ch.Close())
		assert.Equal(t, client.Closed, ch.State())
	})

	t.Run("joins while connecting are not lost test", func(t *testing.T) {
		ts := newTestServer(t, "")
		ch, err := client.NewChannel(ts.URL, nil, client.WithUserID("alice"))
		require.NoError(t, err)
		defer func() { assert.NoError(t, ch.Close()) }()

		const docs = 20
		require.NoError(t, ch.Open(context.Background()))
		for i := 0; i < docs; i++ {
			ch.JoinDocument(fmt.Sprintf("doc-%d", i))
			time.Sleep(time.Millisecond)
		}

		for i := 0; i < docs; i++ {
			ts.waitMembers(t, fmt.Sprintf("doc-%d", i), 1)
		}
	})

	t.Run("join and receive events test", func(t *testing.T) {
		ts := newTestServer(t, "")

		var mu sync.Mutex
		var received []events.Event
		alice, err := client.NewChannel(ts.URL, func(e events.Event) {
			mu.Lock()
			received = append(received, e)
			mu.Unlock()
		}, client.WithUserID("alice"), client.WithDisplayName("Alice"))
		require.NoError(t, err)
		defer func() { assert.NoError(t, alice.Close()) }()

		require.NoError(t, alice.Open(context.Background()))
		alice.JoinDocument("doc")
		ts.waitMembers(t, "doc", 1)

		bob, err := client.NewChannel(ts.URL, nil, client.WithUserID("bob"))
		require.NoError(t, err)
		require.NoError(t, bob.Open(context.Background()))
		bob.JoinDocument("doc")
		ts.waitMembers(t, "doc", 2)

		assert.Eventually(t, func() bool {
			return bob.SendCursor("doc", types.Cursor{LineNumber: 2, Column: 4})
		}, waitFor, 10*time.Millisecond)

		assert.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(received) >= 2
		}, waitFor, 10*time.Millisecond)

		mu.Lock()
		assert.Equal(t, events.UserJoined, received[0].Type())
		assert.Equal(t, "bob", received[0].Actor())
		assert.Equal(t, events.CursorMoved, received[1].Type())
		mu.Unlock()

		require.NoError(t, bob.Close())
		ts.waitMembers(t, "doc", 1)
	})

	t.Run("reconnect and rejoin test", func(t *testing.T) {
		ts := newTestServer(t, "")
		addr := ts.Listener.Addr().String()

		var mu sync.Mutex
		var states []client.ChannelState
		ch, err := client.NewChannel(ts.URL, nil,
			client.WithUserID("alice"),
			client.WithReconnectDelay(50*time.Millisecond),
		)
		require.NoError(t, err)
		ch.OnStateChange(func(state client.ChannelState) {
			mu.Lock()
			states = append(states, state)
			mu.Unlock()
		})
		defer func() { assert.NoError(t, ch.Close()) }()

		require.NoError(t, ch.Open(context.Background()))
		ch.JoinDocument("doc")
		ts.waitMembers(t, "doc", 1)

		ts.stop()
		assert.Eventually(t, func() bool {
			return ch.State() != client.Connected
		}, waitFor, 10*time.Millisecond)

		restarted := newTestServer(t, addr)
		restarted.waitMembers(t, "doc", 1)
		assert.Equal(t, client.Connected, ch.State())

		mu.Lock()
		assert.Contains(t, states, client.Disconnected)
		assert.Equal(t, client.Connecting, states[0])
		mu.Unlock()
	})

	t.Run("left documents are not rejoined test", func(t *testing.T) {
		ts := newTestServer(t, "")
		ch, err := client.NewChannel(ts.URL, nil, client.WithUserID("alice"))
		require.NoError(t, err)
		defer func() { assert.NoError(t, ch.Close()) }()

		require.NoError(t, ch.Open(context.Background()))
		ch.JoinDocument("a")
		ch.JoinDocument("b")
		ts.waitMembers(t, "a", 1)
		ts.waitMembers(t, "b", 1)

		assert.True(t, ch.LeaveDocument("a"))
		ts.waitMembers(t, "a", 0)
		ts.waitMembers(t, "b", 1)
	})
}

func TestNopChannel(t *testing.T) {
	ch := &client.NopChannel{}
	assert.NoError(t, ch.Open(context.Background()))
	assert.Equal(t, client.Idle, ch.State())
	assert.False(t, ch.JoinDocument("doc"))
	assert.False(t, ch.SendCursor("doc", types.Cursor{LineNumber: 1, Column: 1}))
	assert.False(t, ch.SendChange("doc", types.Change{Content: "x"}))
	assert.False(t, ch.LeaveDocument("doc"))
	assert.NoError(t, ch.Close())
	assert.Equal(t, client.Closed, ch.State())
}

func TestSession(t *testing.T) {
	t.Run("token user ignores its own saves test", func(t *testing.T) {
		ctx := context.Background()
		ts := startTestServer(t, "", "secret")

		tm, err := auth.NewTokenManager("secret", time.Hour, 1)
		require.NoError(t, err)
		carolToken, err := tm.Generate("carol", "Carol")
		require.NoError(t, err)
		daveToken, err := tm.Generate("dave", "Dave")
		require.NoError(t, err)

		docs, err := client.NewDocuments(ts.URL, client.WithToken(carolToken))
		require.NoError(t, err)
		doc, err := docs.CreateDocument(ctx, &types.CreateDocumentFields{Title: "Plan", Content: "a"})
		require.NoError(t, err)

		var ownReplaced atomic.Int32
		carol, err := client.Connect(ctx, ts.URL, doc,
			client.WithToken(carolToken),
			client.WithReplacedListener(func(events.DocumentReplacedEvent) { ownReplaced.Add(1) }),
		)
		require.NoError(t, err)
		defer func() { assert.NoError(t, carol.Close()) }()

		replaced := make(chan events.DocumentReplacedEvent, 1)
		dave, err := client.Connect(ctx, ts.URL, doc,
			client.WithToken(daveToken),
			client.WithReplacedListener(func(e events.DocumentReplacedEvent) { replaced <- e }),
		)
		require.NoError(t, err)
		defer func() { assert.NoError(t, dave.Close()) }()
		ts.waitMembers(t, doc.ID, 2)
		collaborator(t, carol.View(), "dave", presence.StatusOnline)

		carol.Edit("ab")
		result, err := carol.SaveNow(ctx)
		require.NoError(t, err)
		assert.Equal(t, autosave.Written, result)

		select {
		case e := <-replaced:
			assert.Equal(t, "carol", e.UserID)
		case <-time.After(waitFor):
			t.Fatal("document replaced event not received")
		}
		assert.Never(t, func() bool {
			return ownReplaced.Load() > 0
		}, 200*time.Millisecond, 10*time.Millisecond)
		_, ok := carol.View().Collaborator("carol")
		assert.False(t, ok)
	})

	t.Run("two editors test", func(t *testing.T) {
		ctx := context.Background()
		ts := newTestServer(t, "")

		docs, err := client.NewDocuments(ts.URL, client.WithUserID("alice"))
		require.NoError(t, err)
		doc, err := docs.CreateDocument(ctx, &types.CreateDocumentFields{Title: "Notes", Content: "# Notes"})
		require.NoError(t, err)

		replaced := make(chan events.DocumentReplacedEvent, 1)
		alice, err := client.Connect(ctx, ts.URL, doc, client.WithUserID("alice"), client.WithDisplayName("Alice"))
		require.NoError(t, err)
		defer func() { assert.NoError(t, alice.Close()) }()
		ts.waitMembers(t, doc.ID, 1)

		bob, err := client.Connect(ctx, ts.URL, doc,
			client.WithUserID("bob"),
			client.WithDisplayName("Bob"),
			client.WithReplacedListener(func(e events.DocumentReplacedEvent) { replaced <- e }),
		)
		require.NoError(t, err)
		defer func() { assert.NoError(t, bob.Close()) }()
		ts.waitMembers(t, doc.ID, 2)

		collaborator(t, alice.View(), "bob", presence.StatusOnline)
		collaborator(t, bob.View(), "alice", presence.StatusOnline)

		assert.True(t, bob.MoveCursor(types.Cursor{LineNumber: 3, Column: 1}))
		collaborator(t, alice.View(), "bob", "Line 3")

		alice.Edit("# Notes\n\nmore")
		collaborator(t, bob.View(), "alice", presence.StatusEditing)
		assert.True(t, alice.Autosave().Pending())

		result, err := alice.SaveNow(ctx)
		require.NoError(t, err)
		assert.Equal(t, autosave.Written, result)
		assert.Equal(t, autosave.AutoSaved, alice.View().SaveStatus())
		assert.False(t, alice.Autosave().Pending())

		select {
		case e := <-replaced:
			assert.Equal(t, doc.ID, e.DocID)
			assert.Equal(t, "alice", e.UserID)
		case <-time.After(waitFor):
			t.Fatal("document replaced event not received")
		}
		collaborator(t, bob.View(), "alice", presence.StatusReplaced)

		stored, err := docs.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, "# Notes\n\nmore", stored.Content)

		require.NoError(t, bob.Close())
		assert.Eventually(t, func() bool {
			_, ok := alice.View().Collaborator("bob")
			return !ok
		}, waitFor, 10*time.Millisecond)
	})

	t.Run("reconnect resets the view test", func(t *testing.T) {
		ctx := context.Background()
		ts := newTestServer(t, "")
		addr := ts.Listener.Addr().String()
		doc := &types.DocumentSummary{ID: "doc", Content: ""}

		alice, err := client.Connect(ctx, ts.URL, doc,
			client.WithUserID("alice"),
			client.WithReconnectDelay(50*time.Millisecond),
		)
		require.NoError(t, err)
		defer func() { assert.NoError(t, alice.Close()) }()

		bob, err := client.Connect(ctx, ts.URL, doc,
			client.WithUserID("bob"),
			client.WithReconnectDelay(time.Hour),
		)
		require.NoError(t, err)
		defer func() { assert.NoError(t, bob.Close()) }()
		collaborator(t, alice.View(), "bob", presence.StatusOnline)

		// bob does not come back before alice rejoins
		ts.stop()

		restarted := newTestServer(t, addr)
		restarted.waitMembers(t, "doc", 1)
		assert.Eventually(t, func() bool {
			return len(alice.View().Snapshot().Collaborators) == 0
		}, waitFor, 10*time.Millisecond)
	})
}
