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

package rpc

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"github.com/inkwell-team/inkwell/pkg/errors"
	"github.com/inkwell-team/inkwell/server/logging"
)

// ErrInvalidBody is returned when a request body is not valid JSON.
var ErrInvalidBody = errors.InvalidArgument("invalid request body").WithCode("ErrInvalidRequestBody")

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var httpLogger = logging.New("http")

// accessLog logs every request and records it in the metrics. httpsnoop
// keeps the Hijacker of the writer so websocket upgrades pass through.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		logging.LogRequest(httpLogger, r.Method, r.URL.RequestURI(), m.Code, m.Written, m.Duration)
		s.be.Metrics.ObserveHTTPRequest(r.Method, route, m.Code, m.Duration.Seconds())
	})
}

// writeError writes err as an ErrorResponse with the HTTP status of its
// status code.
func writeError(w http.ResponseWriter, err error) {
	status := errors.StatusOf(err)
	code := errors.CodeOf(err)
	if code == "" {
		code = status.String()
	}

	message := err.Error()
	if !status.IsClientError() {
		httpLogger.Errorf("request failed: %v", err)
		message = http.StatusText(status.HTTPStatus())
	}

	writeJSON(w, status.HTTPStatus(), ErrorResponse{Error: message, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		httpLogger.Warnf("write response: %v", err)
	}
}

// readJSON decodes the body into v, rejecting unknown fields and bodies
// larger than limit.
func readJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrInvalidBody)
		}
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return nil
}
