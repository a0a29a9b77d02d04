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

// Package memory implements the database interface using in-memory database.
package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/server/backend/database"
)

// DB is an in-memory database for testing or temporarily.
type DB struct {
	db *memdb.MemDB
}

// New returns a new in-memory database.
func New() (*DB, error) {
	memDB, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("new memdb: %w", err)
	}

	return &DB{
		db: memDB,
	}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return nil
}

// CreateDocInfo creates a new document.
func (d *DB) CreateDocInfo(
	_ context.Context,
	fields *types.CreateDocumentFields,
) (*database.DocInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info := database.NewDocInfo(uuid.NewString(), fields, database.Now())
	if err := txn.Insert(tblDocuments, info); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// FindDocInfoByID returns the document of the given id.
func (d *DB) FindDocInfoByID(_ context.Context, id string) (*database.DocInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tblDocuments, "id", id)
	if err != nil {
		return nil, fmt.Errorf("find document %s: %w", id, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("find document %s: %w", id, database.ErrDocumentNotFound)
	}

	return raw.(*database.DocInfo).DeepCopy(), nil
}

// ListDocInfos returns the documents matching opts.
func (d *DB) ListDocInfos(_ context.Context, opts database.ListOptions) ([]*database.DocInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	var (
		iter memdb.ResultIterator
		err  error
	)
	if opts.FolderID != nil && *opts.FolderID != "" {
		iter, err = txn.Get(tblDocuments, "folder_id", *opts.FolderID)
	} else {
		iter, err = txn.Get(tblDocuments, "id")
	}
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	var infos []*database.DocInfo
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		info := raw.(*database.DocInfo)
		if opts.Match(info) {
			infos = append(infos, info.DeepCopy())
		}
	}

	return opts.SortAndLimit(infos), nil
}

// UpdateDocInfo applies the non-nil fields to the document.
func (d *DB) UpdateDocInfo(
	_ context.Context,
	id string,
	fields *types.UpdatableDocumentFields,
) (*database.DocInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tblDocuments, "id", id)
	if err != nil {
		return nil, fmt.Errorf("update document %s: %w", id, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("update document %s: %w", id, database.ErrDocumentNotFound)
	}

	info := raw.(*database.DocInfo).DeepCopy()
	info.Apply(fields, database.Now())
	if err := txn.Insert(tblDocuments, info); err != nil {
		return nil, fmt.Errorf("update document %s: %w", id, err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// DeleteDocInfo deletes the document of the given id.
func (d *DB) DeleteDocInfo(_ context.Context, id string) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tblDocuments, "id", id)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	if raw == nil {
		return fmt.Errorf("delete document %s: %w", id, database.ErrDocumentNotFound)
	}

	if err := txn.Delete(tblDocuments, raw); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	txn.Commit()

	return nil
}
