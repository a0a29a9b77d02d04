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

package client

import (
	"context"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/server/backend/database"
	"github.com/inkwell-team/inkwell/server/backend/database/badger"
)

// LocalStore persists documents on this machine for local-only mode. It is
// the Persister of the auto-save coordinator when there is no server.
type LocalStore struct {
	db database.Database
}

// OpenLocalStore opens the embedded store at path. An empty path keeps the
// documents in memory.
func OpenLocalStore(path string) (*LocalStore, error) {
	db, err := badger.Open(&badger.Config{
		Path:     path,
		InMemory: path == "",
	})
	if err != nil {
		return nil, err
	}
	return &LocalStore{db: db}, nil
}

// NewLocalStore wraps an open database.
func NewLocalStore(db database.Database) *LocalStore {
	return &LocalStore{db: db}
}

// CreateDocument creates a document.
func (s *LocalStore) CreateDocument(ctx context.Context, fields *types.CreateDocumentFields) (*types.DocumentSummary, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	info, err := s.db.CreateDocInfo(ctx, fields)
	if err != nil {
		return nil, err
	}
	return info.ToDocumentSummary(), nil
}

// GetDocument returns the document of id.
func (s *LocalStore) GetDocument(ctx context.Context, id string) (*types.DocumentSummary, error) {
	info, err := s.db.FindDocInfoByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return info.ToDocumentSummary(), nil
}

// UpdateDocument applies a partial update to the document of id.
func (s *LocalStore) UpdateDocument(ctx context.Context, id string, fields *types.UpdatableDocumentFields) error {
	if err := fields.Validate(); err != nil {
		return err
	}
	_, err := s.db.UpdateDocInfo(ctx, id, fields)
	return err
}

// Close closes the store.
func (s *LocalStore) Close() error {
	return s.db.Close()
}
