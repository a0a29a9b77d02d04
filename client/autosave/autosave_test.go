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

package autosave_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/client/autosave"
)

var errStoreDown = errors.New("store down")

// memoryStore is a Persister keeping the last written content per document.
type memoryStore struct {
	mu       sync.Mutex
	contents map[string]string
	writes   []string
	fail     bool
	inFlight int
	overlap  bool
	latency  time.Duration
}

func newMemoryStore() *memoryStore {
	return &memoryStore{contents: make(map[string]string)}
}

func (s *memoryStore) UpdateDocument(_ context.Context, id string, fields *types.UpdatableDocumentFields) error {
	s.mu.Lock()
	s.inFlight++
	if s.inFlight > 1 {
		s.overlap = true
	}
	fail, latency := s.fail, s.latency
	s.mu.Unlock()

	time.Sleep(latency)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
	if fail {
		return errStoreDown
	}
	s.contents[id] = *fields.Content
	s.writes = append(s.writes, *fields.Content)
	return nil
}

func (s *memoryStore) setFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

func (s *memoryStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.writes)
}

func (s *memoryStore) allWrites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.writes...)
}

func (s *memoryStore) content(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contents[id]
}

// statusLog records the statuses a Coordinator reports.
type statusLog struct {
	mu       sync.Mutex
	statuses []autosave.Status
}

func (l *statusLog) add(s autosave.Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.statuses = append(l.statuses, s)
}

func (l *statusLog) all() []autosave.Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]autosave.Status(nil), l.statuses...)
}

const delay = 30 * time.Millisecond

func TestCoordinator(t *testing.T) {
	ctx := context.Background()

	t.Run("debounce coalescing test", func(t *testing.T) {
		store := newMemoryStore()
		c := autosave.New(store, autosave.WithDelay(delay))
		defer c.Close()
		c.Bind("doc", "")

		for _, content := range []string{"h", "he", "hel", "hell", "hello"} {
			c.Schedule(content)
			time.Sleep(delay / 5)
		}

		assert.Eventually(t, func() bool { return store.writeCount() == 1 }, time.Second, 5*time.Millisecond)
		time.Sleep(2 * delay)
		assert.Equal(t, 1, store.writeCount())
		assert.Equal(t, "hello", store.content("doc"))
		assert.Equal(t, autosave.AutoSaved, c.Status())
		assert.False(t, c.Pending())
	})

	t.Run("skip order test", func(t *testing.T) {
		store := newMemoryStore()
		c := autosave.New(store, autosave.WithDelay(delay))
		defer c.Close()

		c.SetCreating(true)
		result, err := c.SaveNow(ctx, "x")
		require.NoError(t, err)
		assert.Equal(t, autosave.SkipCreating, result)

		c.SetCreating(false)
		result, err = c.SaveNow(ctx, "x")
		require.NoError(t, err)
		assert.Equal(t, autosave.SkipUnbound, result)

		c.Bind("doc", "x")
		result, err = c.SaveNow(ctx, "x")
		require.NoError(t, err)
		assert.Equal(t, autosave.SkipUnchanged, result)

		assert.Equal(t, 0, store.writeCount())
	})

	t.Run("idempotent skip test", func(t *testing.T) {
		store := newMemoryStore()
		c := autosave.New(store, autosave.WithDelay(delay))
		defer c.Close()
		c.Bind("doc", "")

		result, err := c.SaveNow(ctx, "same")
		require.NoError(t, err)
		assert.Equal(t, autosave.Written, result)

		result, err = c.SaveNow(ctx, "same")
		require.NoError(t, err)
		assert.Equal(t, autosave.SkipUnchanged, result)
		assert.Equal(t, 1, store.writeCount())
	})

	t.Run("status transitions test", func(t *testing.T) {
		store := newMemoryStore()
		log := &statusLog{}
		var failures []error
		c := autosave.New(store,
			autosave.WithDelay(delay),
			autosave.WithStatusListener(log.add),
			autosave.WithFailureListener(func(err error) { failures = append(failures, err) }),
		)
		defer c.Close()
		c.Bind("doc", "")
		assert.Equal(t, autosave.Saved, c.Status())

		store.setFail(true)
		result, err := c.SaveNow(ctx, "draft")
		assert.ErrorIs(t, err, errStoreDown)
		assert.Equal(t, autosave.Failed, result)
		assert.Equal(t, autosave.SaveFailed, c.Status())
		require.Len(t, failures, 1)

		// the same content is still unsaved, so it is attempted again
		store.setFail(false)
		result, err = c.SaveNow(ctx, "draft")
		require.NoError(t, err)
		assert.Equal(t, autosave.Written, result)

		assert.Equal(t, []autosave.Status{
			autosave.Saving, autosave.SaveFailed,
			autosave.Saving, autosave.AutoSaved,
		}, log.all())
	})

	t.Run("save now cancels pending timer test", func(t *testing.T) {
		store := newMemoryStore()
		c := autosave.New(store, autosave.WithDelay(delay))
		defer c.Close()
		c.Bind("doc", "")

		c.Schedule("pending")
		assert.True(t, c.Pending())

		result, err := c.SaveNow(ctx, "final")
		require.NoError(t, err)
		assert.Equal(t, autosave.Written, result)
		assert.False(t, c.Pending())

		time.Sleep(3 * delay)
		assert.Equal(t, 1, store.writeCount())
		assert.Equal(t, "final", store.content("doc"))
	})

	t.Run("writes never overlap test", func(t *testing.T) {
		store := newMemoryStore()
		store.latency = delay
		c := autosave.New(store, autosave.WithDelay(time.Millisecond))
		defer c.Close()
		c.Bind("doc", "")

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, _ = c.SaveNow(ctx, string(rune('a'+i)))
			}(i)
		}
		wg.Wait()

		store.mu.Lock()
		defer store.mu.Unlock()
		assert.False(t, store.overlap)
	})

	t.Run("close stops the timer test", func(t *testing.T) {
		store := newMemoryStore()
		c := autosave.New(store, autosave.WithDelay(delay))
		c.Bind("doc", "")

		c.Schedule("lost")
		c.Close()
		c.Schedule("ignored")

		time.Sleep(3 * delay)
		assert.Equal(t, 0, store.writeCount())
	})

	t.Run("save race is last writer wins test", func(t *testing.T) {
		store := newMemoryStore()
		tab1 := autosave.New(store, autosave.WithDelay(delay))
		tab2 := autosave.New(store, autosave.WithDelay(delay))
		defer tab1.Close()
		defer tab2.Close()
		tab1.Bind("doc", "base")
		tab2.Bind("doc", "base")

		_, err := tab1.SaveNow(ctx, "from tab 1")
		require.NoError(t, err)
		_, err = tab2.SaveNow(ctx, "from tab 2")
		require.NoError(t, err)

		assert.Equal(t, 2, store.writeCount())
		assert.Equal(t, "from tab 2", store.content("doc"))
	})

	t.Run("fired timer waiting on a write is superseded by save now test", func(t *testing.T) {
		store := newMemoryStore()
		store.latency = 100 * time.Millisecond
		c := autosave.New(store, autosave.WithDelay(time.Millisecond))
		defer c.Close()
		c.Bind("doc", "")

		first := make(chan struct{})
		go func() {
			defer close(first)
			_, err := c.SaveNow(ctx, "first")
			assert.NoError(t, err)
		}()
		time.Sleep(20 * time.Millisecond)

		// the timer fires while the first write is in flight
		c.Schedule("stale")
		time.Sleep(20 * time.Millisecond)

		result, err := c.SaveNow(ctx, "newest")
		require.NoError(t, err)
		assert.Equal(t, autosave.Written, result)
		<-first

		time.Sleep(2 * store.latency)
		assert.Equal(t, []string{"first", "newest"}, store.allWrites())
		assert.Equal(t, "newest", store.content("doc"))
	})
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Auto-saved", autosave.AutoSaved.String())
	assert.Equal(t, "Save failed", autosave.SaveFailed.String())
	assert.Equal(t, "skip-unchanged", autosave.SkipUnchanged.String())
	assert.Equal(t, "superseded", autosave.Superseded.String())
}
