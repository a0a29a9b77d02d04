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

package logging

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RequestLogLevel represents the severity used to log a finished request.
type RequestLogLevel int

// RequestLogLevel values.
const (
	RequestLogDebug RequestLogLevel = iota
	RequestLogInfo
	RequestLogWarn
	RequestLogError
)

// String returns the string representation of RequestLogLevel.
func (l RequestLogLevel) String() string {
	switch l {
	case RequestLogDebug:
		return "debug"
	case RequestLogInfo:
		return "info"
	case RequestLogError:
		return "error"
	}
	return "warn"
}

// toRequestLogLevel classifies a response by its HTTP status. Health checks
// and successful requests are debug noise, client mistakes are info.
func toRequestLogLevel(status int) RequestLogLevel {
	switch {
	case status < http.StatusBadRequest:
		return RequestLogDebug
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return RequestLogWarn
	case status < http.StatusInternalServerError:
		return RequestLogInfo
	default:
		return RequestLogError
	}
}

// LogRequest logs a finished HTTP request with a level derived from status.
func LogRequest(logger *zap.SugaredLogger, method, path string, status int, written int64, duration time.Duration) {
	const template = "HTTP : %s %q %d %dB %s"
	switch toRequestLogLevel(status) {
	case RequestLogDebug:
		logger.Debugf(template, method, path, status, written, duration)
	case RequestLogInfo:
		logger.Infof(template, method, path, status, written, duration)
	case RequestLogError:
		logger.Errorf(template, method, path, status, written, duration)
	default:
		logger.Warnf(template, method, path, status, written, duration)
	}
}

// LogSocketClosed logs the end of a websocket connection. A canceled context
// or a normal close is not an error.
func LogSocketClosed(logger *zap.SugaredLogger, connID string, duration time.Duration, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		logger.Debugf("WS : %s closed after %s", connID, duration)
		return
	}
	logger.Infof("WS : %s closed after %s: %v", connID, duration, err)
}
