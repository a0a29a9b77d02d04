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

// Package database provides the document store interface of the Inkwell
// backend.
package database

import (
	"context"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/pkg/errors"
)

var (
	// ErrDocumentNotFound is returned when the document could not be found.
	ErrDocumentNotFound = errors.NotFound("document not found").WithCode("ErrDocumentNotFound")

	// ErrInvalidDocumentID is returned when the id is not one the store issues.
	ErrInvalidDocumentID = errors.InvalidArgument("invalid document id").WithCode("ErrInvalidDocumentID")

	// ErrUnavailable is returned when the backing store cannot be reached.
	ErrUnavailable = errors.Unavailable("document store unavailable").WithCode("ErrUnavailable")
)

// Database reads and saves documents. UpdateDocInfo is a partial overwrite
// by id without version checks: concurrent writers race and the last one
// wins.
type Database interface {
	// Close all resources of this database.
	Close() error

	// CreateDocInfo creates a new document.
	CreateDocInfo(ctx context.Context, fields *types.CreateDocumentFields) (*DocInfo, error)

	// FindDocInfoByID returns the document of the given id.
	FindDocInfoByID(ctx context.Context, id string) (*DocInfo, error)

	// ListDocInfos returns the documents matching opts, most recently
	// updated first.
	ListDocInfos(ctx context.Context, opts ListOptions) ([]*DocInfo, error)

	// UpdateDocInfo applies the non-nil fields to the document and returns
	// the result.
	UpdateDocInfo(ctx context.Context, id string, fields *types.UpdatableDocumentFields) (*DocInfo, error)

	// DeleteDocInfo deletes the document of the given id.
	DeleteDocInfo(ctx context.Context, id string) error
}
