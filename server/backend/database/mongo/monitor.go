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

package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/event"
	"go.uber.org/zap"

	"github.com/inkwell-team/inkwell/server/logging"
)

// newCommandMonitor returns a monitor logging every document command at
// debug level. Commands slower than slowThreshold are logged at warn level.
func newCommandMonitor(slowThreshold time.Duration) *event.CommandMonitor {
	logger := logging.New("mongo")

	return &event.CommandMonitor{
		Started: func(_ context.Context, evt *event.CommandStartedEvent) {
			if logging.Enabled(zap.DebugLevel) {
				logger.Debugf("%s #%d on %s", evt.CommandName, evt.RequestID, evt.DatabaseName)
			}
		},
		Succeeded: func(_ context.Context, evt *event.CommandSucceededEvent) {
			if slowThreshold > 0 && evt.Duration > slowThreshold {
				logger.Warnf("slow %s #%d: %s", evt.CommandName, evt.RequestID, evt.Duration)
				return
			}
			logger.Debugf("%s #%d done in %s", evt.CommandName, evt.RequestID, evt.Duration)
		},
		Failed: func(_ context.Context, evt *event.CommandFailedEvent) {
			// a caller that went away is not a store failure
			if errors.Is(evt.Failure, context.Canceled) {
				logger.Debugf("%s #%d canceled after %s", evt.CommandName, evt.RequestID, evt.Duration)
				return
			}
			logger.Warnf("%s #%d failed after %s: %v", evt.CommandName, evt.RequestID, evt.Duration, evt.Failure)
		},
	}
}
