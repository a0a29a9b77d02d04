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

// Package httphealth uses http GET to provide a health check for the server.
package httphealth

import (
	"context"
	"encoding/json"
	"net/http"
)

// Path is the route of the health check.
const Path = "/healthz"

// Status values of CheckResponse.
const (
	StatusServing    = "SERVING"
	StatusNotServing = "NOT_SERVING"
)

// Checker reports an error when the server cannot serve.
type Checker func(ctx context.Context) error

// CheckResponse represents the response structure for health checks.
type CheckResponse struct {
	Status string `json:"status"`
}

// NewHandler creates a new HTTP handler for health checks.
func NewHandler(checker Checker) (string, http.Handler) {
	check := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		status, code := StatusServing, http.StatusOK
		if err := checker(r.Context()); err != nil {
			status, code = StatusNotServing, http.StatusServiceUnavailable
		}

		resp, err := json.Marshal(CheckResponse{Status: status})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if r.Method == http.MethodGet {
			_, _ = w.Write(resp)
		}
	})
	return Path, check
}
