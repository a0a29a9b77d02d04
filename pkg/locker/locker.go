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
 *
 * This file is derived from the moby/locker package:
 *   https://github.com/moby/locker
 */

/*
Package locker provides named mutexes. The broadcaster takes one per document
id so that broadcasts for the same document are serialized while unrelated
documents proceed in parallel.

Lock entries are created on demand and removed on Unlock once nobody else
holds or waits for them, so the number of entries is bounded by the number of
documents with in-flight work.
*/
package locker

import (
	"errors"
	"sync"
)

// ErrNoSuchLock is returned when the requested lock does not exist.
var ErrNoSuchLock = errors.New("no such lock")

// Locker provides a locking mechanism based on the passed in name.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

// entry is a mutex plus the number of routines holding or waiting for it.
// refs is guarded by Locker.mu.
type entry struct {
	mu   sync.Mutex
	refs int
}

// New creates a new Locker.
func New() *Locker {
	return &Locker{
		locks: make(map[string]*entry),
	}
}

// Lock locks the mutex with the given name, creating it if needed.
func (l *Locker) Lock(name string) {
	l.mu.Lock()
	e, ok := l.locks[name]
	if !ok {
		e = &entry{}
		l.locks[name] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

// Unlock unlocks the mutex with the given name.
func (l *Locker) Unlock(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.locks[name]
	if !ok {
		return ErrNoSuchLock
	}

	e.refs--
	if e.refs == 0 {
		delete(l.locks, name)
	}
	e.mu.Unlock()

	return nil
}

// WithLock runs f while holding the named lock.
func (l *Locker) WithLock(name string, f func()) {
	l.Lock(name)
	defer func() {
		_ = l.Unlock(name)
	}()

	f()
}

// Len returns the number of live lock entries.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.locks)
}
