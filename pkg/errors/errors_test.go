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

package errors_test

import (
	goerrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkwell-team/inkwell/pkg/errors"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		code   errors.StatusCode
		str    string
		status int
	}{
		{errors.ErrCodeInvalidArgument, "invalid_argument", http.StatusBadRequest},
		{errors.ErrCodeNotFound, "not_found", http.StatusNotFound},
		{errors.ErrCodeAlreadyExists, "already_exists", http.StatusConflict},
		{errors.ErrCodePermissionDenied, "permission_denied", http.StatusForbidden},
		{errors.ErrCodeFailedPrecondition, "failed_precondition", http.StatusConflict},
		{errors.ErrCodeInternal, "internal", http.StatusInternalServerError},
		{errors.ErrCodeUnavailable, "unavailable", http.StatusServiceUnavailable},
		{errors.ErrCodeUnauthenticated, "unauthenticated", http.StatusUnauthorized},
		{errors.StatusCode(999), "code_999", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.str, tt.code.String())
			assert.Equal(t, tt.status, tt.code.HTTPStatus())
		})
	}
}

func TestStatusError(t *testing.T) {
	errNotFound := errors.NotFound("document not found").WithCode("ErrDocumentNotFound")

	t.Run("wrapped status test", func(t *testing.T) {
		wrapped := fmt.Errorf("find doc 7: %w", errNotFound)
		assert.Equal(t, errors.ErrCodeNotFound, errors.StatusOf(wrapped))
		assert.Equal(t, "ErrDocumentNotFound", errors.CodeOf(wrapped))
		assert.True(t, errors.Is(wrapped, errNotFound))
		assert.True(t, errors.IsStatus(wrapped, errors.ErrCodeNotFound))
		assert.True(t, errors.StatusOf(wrapped).IsClientError())
	})

	t.Run("plain error test", func(t *testing.T) {
		plain := goerrors.New("boom")
		assert.Equal(t, errors.StatusCode(0), errors.StatusOf(plain))
		assert.Equal(t, "", errors.CodeOf(plain))
		assert.Equal(t, errors.StatusCode(0), errors.StatusOf(nil))
	})

	t.Run("with code keeps message test", func(t *testing.T) {
		err := errors.Unavailable("store unreachable").WithCode("ErrStoreUnavailable")
		assert.Equal(t, "store unreachable", err.Error())
		assert.Equal(t, errors.ErrCodeUnavailable, err.Status())
		assert.False(t, err.Status().IsClientError())
	})
}

func TestStatusFromHTTP(t *testing.T) {
	for _, code := range []errors.StatusCode{
		errors.ErrCodeInvalidArgument,
		errors.ErrCodeNotFound,
		errors.ErrCodePermissionDenied,
		errors.ErrCodeUnauthenticated,
		errors.ErrCodeUnavailable,
		errors.ErrCodeInternal,
	} {
		assert.Equal(t, code, errors.StatusFromHTTP(code.HTTPStatus()), code.String())
	}

	err := errors.New("gone", errors.StatusFromHTTP(http.StatusNotFound)).WithCode("ErrDocumentNotFound")
	assert.True(t, errors.IsStatus(err, errors.ErrCodeNotFound))
	assert.Equal(t, "ErrDocumentNotFound", errors.CodeOf(err))
}
