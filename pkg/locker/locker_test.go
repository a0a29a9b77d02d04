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

package locker_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/inkwell-team/inkwell/pkg/locker"
)

func TestLocker(t *testing.T) {
	t.Run("lock blocks the same name", func(t *testing.T) {
		l := locker.New()
		l.Lock("doc-1")

		acquired := make(chan struct{})
		go func() {
			l.Lock("doc-1")
			close(acquired)
		}()

		select {
		case <-acquired:
			t.Fatal("lock should not be acquired while it is held")
		case <-time.After(50 * time.Millisecond):
		}

		assert.NoError(t, l.Unlock("doc-1"))

		select {
		case <-acquired:
		case <-time.After(time.Second):
			t.Fatal("lock was not acquired after unlock")
		}
		assert.NoError(t, l.Unlock("doc-1"))
		assert.Equal(t, 0, l.Len())
	})

	t.Run("different names do not block", func(t *testing.T) {
		l := locker.New()
		l.Lock("doc-1")
		defer func() {
			assert.NoError(t, l.Unlock("doc-1"))
		}()

		done := make(chan struct{})
		go func() {
			l.WithLock("doc-2", func() {})
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("unrelated lock was blocked")
		}
	})

	t.Run("unlock unknown name", func(t *testing.T) {
		l := locker.New()
		assert.ErrorIs(t, l.Unlock("missing"), locker.ErrNoSuchLock)
	})

	t.Run("entries are cleaned up under contention", func(t *testing.T) {
		l := locker.New()
		var wg sync.WaitGroup
		counter := 0
		for i := 0; i < 200; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				l.WithLock("doc-1", func() {
					counter++
				})
			}()
		}
		wg.Wait()

		assert.Equal(t, 200, counter)
		assert.Equal(t, 0, l.Len())
	})
}
