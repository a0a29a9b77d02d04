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

// Package badger implements the database interface on an embedded Badger
// store. It backs the local-first mode, where no server is involved.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/server/backend/database"
	"github.com/inkwell-team/inkwell/server/logging"
)

const (
	docPrefix = "doc/"

	// maxConflictRetries bounds the retries of a write that lost a
	// transaction conflict.
	maxConflictRetries = 16
)

// DB is a database backed by Badger. Documents are JSON values under
// "doc/<ulid>" keys.
type DB struct {
	db *badger.DB
}

// Open opens the store described by conf.
func Open(conf *Config) (*DB, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(conf.Path).
		WithInMemory(conf.InMemory).
		WithLogger(&logger{logging.New("badger")}).
		WithLoggingLevel(badger.WARNING)
	if conf.InMemory {
		opts = opts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", conf.Path, err)
	}

	return &DB{db: db}, nil
}

// Close closes the store.
func (d *DB) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("close badger: %w", err)
	}
	return nil
}

func docKey(id string) []byte {
	return []byte(docPrefix + id)
}

func getDoc(txn *badger.Txn, id string) (*database.DocInfo, error) {
	item, err := txn.Get(docKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s: %w", id, database.ErrDocumentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}

	info := &database.DocInfo{}
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, info)
	}); err != nil {
		return nil, fmt.Errorf("decode %s: %w", id, err)
	}
	return info, nil
}

func setDoc(txn *badger.Txn, info *database.DocInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encode %s: %w", info.ID, err)
	}
	return txn.Set(docKey(info.ID), data)
}

// update runs f in a read-write transaction, retrying when another writer
// committed the same key first. The retry makes the later writer win.
func (d *DB) update(f func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < maxConflictRetries; i++ {
		err = d.db.Update(f)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// CreateDocInfo creates a new document.
func (d *DB) CreateDocInfo(
	_ context.Context,
	fields *types.CreateDocumentFields,
) (*database.DocInfo, error) {
	info := database.NewDocInfo(ulid.Make().String(), fields, database.Now())
	if err := d.update(func(txn *badger.Txn) error {
		return setDoc(txn, info)
	}); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	return info, nil
}

// FindDocInfoByID returns the document of the given id.
func (d *DB) FindDocInfoByID(_ context.Context, id string) (*database.DocInfo, error) {
	if _, err := ulid.ParseStrict(id); err != nil {
		return nil, fmt.Errorf("find document %s: %w", id, database.ErrInvalidDocumentID)
	}

	var info *database.DocInfo
	if err := d.db.View(func(txn *badger.Txn) error {
		var err error
		info, err = getDoc(txn, id)
		return err
	}); err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}
	return info, nil
}

// ListDocInfos scans every document and returns those matching opts.
func (d *DB) ListDocInfos(_ context.Context, opts database.ListOptions) ([]*database.DocInfo, error) {
	var infos []*database.DocInfo
	err := d.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(docPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			info := &database.DocInfo{}
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, info)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if opts.Match(info) {
				infos = append(infos, info)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return opts.SortAndLimit(infos), nil
}

// UpdateDocInfo applies the non-nil fields to the document.
func (d *DB) UpdateDocInfo(
	_ context.Context,
	id string,
	fields *types.UpdatableDocumentFields,
) (*database.DocInfo, error) {
	var info *database.DocInfo
	err := d.update(func(txn *badger.Txn) error {
		var err error
		if info, err = getDoc(txn, id); err != nil {
			return err
		}
		info.Apply(fields, database.Now())
		return setDoc(txn, info)
	})
	if err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}
	return info, nil
}

// DeleteDocInfo deletes the document of the given id.
func (d *DB) DeleteDocInfo(_ context.Context, id string) error {
	err := d.update(func(txn *badger.Txn) error {
		if _, err := getDoc(txn, id); err != nil {
			return err
		}
		return txn.Delete(docKey(id))
	})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// logger adapts the server logger to badger.Logger.
type logger struct {
	*zap.SugaredLogger
}

func (l *logger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}
