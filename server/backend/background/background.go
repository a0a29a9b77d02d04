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

// Package background tracks the goroutines the backend starts so that
// shutdown can stop and wait for them.
package background

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/inkwell-team/inkwell/server/logging"
	"github.com/inkwell-team/inkwell/server/profiling/prometheus"
)

type routineID int32

func (c *routineID) next() string {
	next := atomic.AddInt32((*int32)(c), 1)
	return "bg" + strconv.Itoa(int(next))
}

// Background owns the long-running goroutines of the backend, such as the
// relay subscriber and the registry stats reporter.
type Background struct {
	// ctx is canceled when Close begins.
	ctx    context.Context
	cancel context.CancelFunc

	// wgMu blocks Attach while Close is waiting.
	wgMu   sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	routineID routineID
	metrics   *prometheus.Metrics
}

// New creates a new background service.
func New(metrics *prometheus.Metrics) *Background {
	ctx, cancel := context.WithCancel(context.Background())
	return &Background{
		ctx:     ctx,
		cancel:  cancel,
		metrics: metrics,
	}
}

// AttachGoroutine runs f in a new goroutine. The context given to f carries
// a routine logger and is canceled by Close. It returns false when the
// service is already closed.
func (b *Background) AttachGoroutine(
	f func(ctx context.Context),
	taskType string,
) bool {
	b.wgMu.RLock()
	defer b.wgMu.RUnlock()
	if b.closed {
		logging.DefaultLogger().Warnf("background closed, skip %s", taskType)
		return false
	}

	b.wg.Add(1)
	routineLogger := logging.New(b.routineID.next(), logging.NewField("task", taskType))
	b.metrics.AddBackgroundGoroutines(taskType)
	go func() {
		defer func() {
			b.wg.Done()
			b.metrics.RemoveBackgroundGoroutines(taskType)
		}()
		f(logging.With(b.ctx, routineLogger))
	}()
	return true
}

// Close cancels every attached goroutine's context and waits for them to
// return.
func (b *Background) Close() {
	b.wgMu.Lock()
	if b.closed {
		b.wgMu.Unlock()
		return
	}
	b.closed = true
	b.wgMu.Unlock()

	b.cancel()
	b.wg.Wait()
}
