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

// Package errors provides status-carrying errors shared by the server, the
// stores and the client.
package errors

import (
	"fmt"
	"net/http"
)

// StatusCode represents the error codes used throughout Inkwell.
type StatusCode int

const (
	// ErrCodeInvalidArgument indicates that the caller specified an invalid argument.
	ErrCodeInvalidArgument StatusCode = 3

	// ErrCodeNotFound indicates that a requested document was not found.
	ErrCodeNotFound StatusCode = 5

	// ErrCodeAlreadyExists indicates that the entity already exists.
	ErrCodeAlreadyExists StatusCode = 6

	// ErrCodePermissionDenied indicates that the caller may not run the operation.
	ErrCodePermissionDenied StatusCode = 7

	// ErrCodeFailedPrecondition indicates the system is not in a state required
	// for the operation.
	ErrCodeFailedPrecondition StatusCode = 9

	// ErrCodeInternal indicates that an invariant of the system is broken.
	ErrCodeInternal StatusCode = 13

	// ErrCodeUnavailable indicates that the service is temporarily unavailable.
	ErrCodeUnavailable StatusCode = 14

	// ErrCodeUnauthenticated indicates missing or invalid credentials.
	ErrCodeUnauthenticated StatusCode = 16
)

// String returns the string representation of the error code.
func (c StatusCode) String() string {
	switch c {
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeAlreadyExists:
		return "already_exists"
	case ErrCodePermissionDenied:
		return "permission_denied"
	case ErrCodeFailedPrecondition:
		return "failed_precondition"
	case ErrCodeInternal:
		return "internal"
	case ErrCodeUnavailable:
		return "unavailable"
	case ErrCodeUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("code_%d", int(c))
	}
}

// HTTPStatus maps the code to the status used by the REST document API.
// Errors without a status are reported as 500.
func (c StatusCode) HTTPStatus() int {
	switch c {
	case ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists, ErrCodeFailedPrecondition:
		return http.StatusConflict
	case ErrCodePermissionDenied:
		return http.StatusForbidden
	case ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// StatusFromHTTP maps an HTTP status back to a code. It is the inverse of
// HTTPStatus for the statuses HTTPStatus produces.
func StatusFromHTTP(status int) StatusCode {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidArgument
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeFailedPrecondition
	case http.StatusForbidden:
		return ErrCodePermissionDenied
	case http.StatusUnauthorized:
		return ErrCodeUnauthenticated
	case http.StatusServiceUnavailable:
		return ErrCodeUnavailable
	default:
		return ErrCodeInternal
	}
}

// IsClientError returns true if the error code represents a client-side error.
func (c StatusCode) IsClientError() bool {
	switch c {
	case ErrCodeInvalidArgument, ErrCodeNotFound, ErrCodeAlreadyExists,
		ErrCodePermissionDenied, ErrCodeFailedPrecondition, ErrCodeUnauthenticated:
		return true
	default:
		return false
	}
}
