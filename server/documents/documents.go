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

// Package documents implements the document operations of the REST API on
// top of the backend's store.
package documents

import (
	"context"
	"fmt"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/pkg/errors"
	"github.com/inkwell-team/inkwell/server/backend"
	"github.com/inkwell-team/inkwell/server/backend/database"
	"github.com/inkwell-team/inkwell/server/logging"
)

// ErrInvalidFields is returned when the fields of a request fail validation.
var ErrInvalidFields = errors.InvalidArgument("invalid document fields").WithCode("ErrInvalidDocumentFields")

// CreateDocument creates a document.
func CreateDocument(
	ctx context.Context,
	be *backend.Backend,
	fields *types.CreateDocumentFields,
) (*types.DocumentSummary, error) {
	if err := fields.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFields, err)
	}

	info, err := be.DB.CreateDocInfo(ctx, fields)
	if err != nil {
		return nil, err
	}
	be.Metrics.AddDocumentMutation("create")

	return info.ToDocumentSummary(), nil
}

// GetDocument returns the document of the given id.
func GetDocument(
	ctx context.Context,
	be *backend.Backend,
	id string,
) (*types.DocumentSummary, error) {
	info, err := be.DB.FindDocInfoByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return info.ToDocumentSummary(), nil
}

// ListDocuments returns documents matching the folder and query filters.
func ListDocuments(
	ctx context.Context,
	be *backend.Backend,
	opts database.ListOptions,
) ([]*types.DocumentSummary, error) {
	if opts.Limit < 0 {
		return nil, fmt.Errorf("limit %d: %w", opts.Limit, ErrInvalidFields)
	}

	infos, err := be.DB.ListDocInfos(ctx, opts)
	if err != nil {
		return nil, err
	}

	summaries := make([]*types.DocumentSummary, 0, len(infos))
	for _, info := range infos {
		summaries = append(summaries, info.ToDocumentSummary())
	}
	return summaries, nil
}

// UpdateDocument applies the given partial update. The last write wins;
// there is no version check. Members of the document's session are told
// about the change with a document-update event attributed to userID.
func UpdateDocument(
	ctx context.Context,
	be *backend.Backend,
	id string,
	userID string,
	fields *types.UpdatableDocumentFields,
) (*types.DocumentSummary, error) {
	if err := fields.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFields, err)
	}

	info, err := be.DB.UpdateDocInfo(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	be.Metrics.AddDocumentMutation("update")

	result := be.Presence.DocumentReplaced(ctx, id, userID, *fields)
	if result.Delivered > 0 || result.Dropped > 0 {
		logging.From(ctx).Debugf("document-update %s: %d delivered, %d dropped",
			id, result.Delivered, result.Dropped)
	}

	return info.ToDocumentSummary(), nil
}

// MoveDocument moves the document into the given folder. An empty folderID
// moves it to the root.
func MoveDocument(
	ctx context.Context,
	be *backend.Backend,
	id string,
	userID string,
	folderID string,
) (*types.DocumentSummary, error) {
	return UpdateDocument(ctx, be, id, userID, &types.UpdatableDocumentFields{
		FolderID: &folderID,
	})
}

// DeleteDocument deletes the document of the given id.
func DeleteDocument(
	ctx context.Context,
	be *backend.Backend,
	id string,
) error {
	if err := be.DB.DeleteDocInfo(ctx, id); err != nil {
		return err
	}
	be.Metrics.AddDocumentMutation("delete")

	return nil
}
