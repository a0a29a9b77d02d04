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
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToRequestLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected RequestLogLevel
	}{
		{"ok", http.StatusOK, RequestLogDebug},
		{"switching protocols", http.StatusSwitchingProtocols, RequestLogDebug},
		{"bad request", http.StatusBadRequest, RequestLogInfo},
		{"not found", http.StatusNotFound, RequestLogInfo},
		{"unauthorized", http.StatusUnauthorized, RequestLogWarn},
		{"forbidden", http.StatusForbidden, RequestLogWarn},
		{"internal", http.StatusInternalServerError, RequestLogError},
		{"unavailable", http.StatusServiceUnavailable, RequestLogError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, toRequestLogLevel(tt.status))
		})
	}
}

func TestRequestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    RequestLogLevel
		expected string
	}{
		{RequestLogDebug, "debug"},
		{RequestLogInfo, "info"},
		{RequestLogWarn, "warn"},
		{RequestLogError, "error"},
		{RequestLogLevel(999), "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	assert.NoError(t, SetLogLevel("debug"))
	assert.True(t, Enabled(-1))
	assert.NoError(t, SetLogLevel("INFO"))
	assert.False(t, Enabled(-1))
	assert.Error(t, SetLogLevel("verbose"))
}
