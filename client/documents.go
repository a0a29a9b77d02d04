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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/pkg/errors"
)

// userHeader names the acting user on servers without authentication.
const userHeader = "X-Inkwell-User"

// ListOptions filters ListDocuments.
type ListOptions struct {
	// FolderID restricts the result to one folder. A pointer to "" means the
	// root folder.
	FolderID *string
	Query    string
	Limit    int
}

// Documents is a client of the REST document API. It is the Persister of
// the auto-save coordinator in server mode.
type Documents struct {
	rootURL string
	baseURL string
	options Options
	logger  *zap.SugaredLogger
}

// NewDocuments creates a client of the server at addr.
func NewDocuments(addr string, opts ...Option) (*Documents, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("parse address %q: %w", addr, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme of %q", addr)
	}

	options := newOptions(opts)
	root := strings.TrimSuffix(u.String(), "/")
	return &Documents{
		rootURL: root,
		baseURL: root + "/api/documents",
		options: options,
		logger:  options.Logger.Sugar().Named("documents"),
	}, nil
}

// CreateDocument creates a document.
func (d *Documents) CreateDocument(ctx context.Context, fields *types.CreateDocumentFields) (*types.DocumentSummary, error) {
	summary := &types.DocumentSummary{}
	if err := d.do(ctx, http.MethodPost, d.baseURL, fields, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// GetDocument returns the document of id.
func (d *Documents) GetDocument(ctx context.Context, id string) (*types.DocumentSummary, error) {
	summary := &types.DocumentSummary{}
	if err := d.do(ctx, http.MethodGet, d.baseURL+"/"+url.PathEscape(id), nil, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// ListDocuments returns the documents passing opts.
func (d *Documents) ListDocuments(ctx context.Context, opts ListOptions) ([]*types.DocumentSummary, error) {
	query := url.Values{}
	if opts.FolderID != nil {
		query.Set("folderId", *opts.FolderID)
	}
	if opts.Query != "" {
		query.Set("q", opts.Query)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	path := ""
	if len(query) > 0 {
		path = "?" + query.Encode()
	}

	var summaries []*types.DocumentSummary
	if err := d.do(ctx, http.MethodGet, d.baseURL+path, nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// UpdateDocument applies a partial update to the document of id.
func (d *Documents) UpdateDocument(ctx context.Context, id string, fields *types.UpdatableDocumentFields) error {
	_, err := d.PatchDocument(ctx, id, fields)
	return err
}

// PatchDocument applies a partial update and returns the stored document.
func (d *Documents) PatchDocument(
	ctx context.Context,
	id string,
	fields *types.UpdatableDocumentFields,
) (*types.DocumentSummary, error) {
	summary := &types.DocumentSummary{}
	if err := d.do(ctx, http.MethodPatch, d.baseURL+"/"+url.PathEscape(id), fields, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// MoveDocument moves the document of id into folderID, or to the root when
// folderID is empty.
func (d *Documents) MoveDocument(ctx context.Context, id, folderID string) (*types.DocumentSummary, error) {
	summary := &types.DocumentSummary{}
	body := map[string]string{"folderId": folderID}
	if err := d.do(ctx, http.MethodPut, d.baseURL+"/"+url.PathEscape(id)+"/folder", body, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// DeleteDocument deletes the document of id.
func (d *Documents) DeleteDocument(ctx context.Context, id string) error {
	return d.do(ctx, http.MethodDelete, d.baseURL+"/"+url.PathEscape(id), nil, nil)
}

// ServerVersion returns the version of the server.
func (d *Documents) ServerVersion(ctx context.Context) (*types.VersionDetail, error) {
	detail := &types.VersionDetail{}
	if err := d.do(ctx, http.MethodGet, d.rootURL+"/version", nil, detail); err != nil {
		return nil, err
	}
	return detail, nil
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (d *Documents) do(ctx context.Context, method, target string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if d.options.Token != "" {
		req.Header.Set("Authorization", "Bearer "+d.options.Token)
	} else if d.options.UserID != "" {
		req.Header.Set(userHeader, d.options.UserID)
	}

	resp, err := d.options.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path,
			errors.Unavailable(err.Error()).WithCode("ErrServerUnreachable"))
	}
	defer func() { _ = resp.Body.Close() }()
	d.logger.Debugf("%s %s: %d", method, req.URL.Path, resp.StatusCode)

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns an error response into a status error carrying the
// server's code.
func decodeError(resp *http.Response) error {
	status := errors.StatusFromHTTP(resp.StatusCode)

	body := &errorResponse{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(body); err != nil || body.Error == "" {
		return errors.New(http.StatusText(resp.StatusCode), status)
	}

	statusErr := errors.New(body.Error, status)
	if body.Code != "" {
		statusErr = statusErr.WithCode(body.Code)
	}
	return statusErr
}
