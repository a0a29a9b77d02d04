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

// Package postgres implements database interfaces using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/server/backend/database"
	"github.com/inkwell-team/inkwell/server/logging"
)

const createTable = `
CREATE TABLE IF NOT EXISTS documents (
	id         uuid PRIMARY KEY,
	title      text NOT NULL,
	content    text NOT NULL DEFAULT '',
	folder_id  text,
	created_at timestamptz NOT NULL,
	updated_at timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS documents_folder_updated_idx ON documents (folder_id, updated_at DESC);
CREATE INDEX IF NOT EXISTS documents_updated_idx ON documents (updated_at DESC);
`

const docColumns = "id::text, title, content, folder_id, created_at, updated_at"

// Client is a client that connects to PostgreSQL and reads or saves
// Inkwell data.
type Client struct {
	config *Config
	pool   *pgxpool.Pool
}

// Dial creates an instance of Client, connects to the given database and
// creates the schema if needed.
func Dial(conf *Config) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.ParseConnectionTimeout())
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(conf.ConnectionURL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	poolConfig.ConnConfig.RuntimeParams["search_path"] = conf.Schema
	if conf.MaxConns > 0 {
		poolConfig.MaxConns = conf.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := migrate(ctx, pool, conf.Schema); err != nil {
		pool.Close()
		return nil, err
	}

	logging.DefaultLogger().Infof("PostgreSQL connected, host: %s, schema: %s", poolConfig.ConnConfig.Host, conf.Schema)

	return &Client{
		config: conf,
		pool:   pool,
	}, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool, schema string) error {
	if _, err := pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{schema}.Sanitize()); err != nil {
		return fmt.Errorf("create schema %s: %w", schema, err)
	}
	if _, err := pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

// Close all resources of this client.
func (c *Client) Close() error {
	c.pool.Close()
	return nil
}

func scanDocInfo(row pgx.Row) (*database.DocInfo, error) {
	info := &database.DocInfo{}
	if err := row.Scan(
		&info.ID,
		&info.Title,
		&info.Content,
		&info.FolderID,
		&info.CreatedAt,
		&info.UpdatedAt,
	); err != nil {
		return nil, err
	}
	info.CreatedAt = info.CreatedAt.UTC()
	info.UpdatedAt = info.UpdatedAt.UTC()
	return info, nil
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s: %w", id, database.ErrInvalidDocumentID)
	}
	return nil
}

// CreateDocInfo creates a new document.
func (c *Client) CreateDocInfo(
	ctx context.Context,
	fields *types.CreateDocumentFields,
) (*database.DocInfo, error) {
	info := database.NewDocInfo(uuid.NewString(), fields, database.Now())
	if _, err := c.pool.Exec(ctx,
		`INSERT INTO documents (id, title, content, folder_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		info.ID, info.Title, info.Content, info.FolderID, info.CreatedAt, info.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	return info, nil
}

// FindDocInfoByID returns the document of the given id.
func (c *Client) FindDocInfoByID(ctx context.Context, id string) (*database.DocInfo, error) {
	if err := checkID(id); err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}

	info, err := scanDocInfo(c.pool.QueryRow(ctx,
		"SELECT "+docColumns+" FROM documents WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("find document %s: %w", id, database.ErrDocumentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find document %s: %w", id, err)
	}

	return info, nil
}

// ListDocInfos returns the documents matching opts.
func (c *Client) ListDocInfos(ctx context.Context, opts database.ListOptions) ([]*database.DocInfo, error) {
	var (
		where []string
		args  []any
	)
	if opts.FolderID != nil {
		if *opts.FolderID == "" {
			where = append(where, "folder_id IS NULL")
		} else {
			args = append(args, *opts.FolderID)
			where = append(where, fmt.Sprintf("folder_id = $%d", len(args)))
		}
	}
	if opts.Query != "" {
		args = append(args, "%"+escapeLike(opts.Query)+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", len(args), len(args)))
	}

	query := "SELECT " + docColumns + " FROM documents"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, opts.EffectiveLimit())
	query += fmt.Sprintf(" ORDER BY updated_at DESC, id ASC LIMIT $%d", len(args))

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var infos []*database.DocInfo
	for rows.Next() {
		info, err := scanDocInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return infos, nil
}

// UpdateDocInfo applies the non-nil fields to the document in one UPDATE
// statement. A nil parameter keeps the column.
func (c *Client) UpdateDocInfo(
	ctx context.Context,
	id string,
	fields *types.UpdatableDocumentFields,
) (*database.DocInfo, error) {
	if err := checkID(id); err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}

	info, err := scanDocInfo(c.pool.QueryRow(ctx,
		`UPDATE documents SET
			title = COALESCE($2::text, title),
			content = COALESCE($3::text, content),
			folder_id = CASE
				WHEN $4::text IS NULL THEN folder_id
				WHEN $4::text = '' THEN NULL
				ELSE $4::text
			END,
			updated_at = $5
		 WHERE id = $1
		 RETURNING `+docColumns,
		id, fields.Title, fields.Content, fields.FolderID, database.Now(),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("update document %s: %w", id, database.ErrDocumentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update document %s: %w", id, err)
	}

	return info, nil
}

// DeleteDocInfo deletes the document of the given id.
func (c *Client) DeleteDocInfo(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	tag, err := c.pool.Exec(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete document %s: %w", id, database.ErrDocumentNotFound)
	}

	return nil
}

// escapeLike escapes the wildcards of a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
