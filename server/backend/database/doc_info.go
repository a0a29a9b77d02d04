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

package database

import (
	"sort"
	"strings"
	"time"

	"github.com/inkwell-team/inkwell/api/types"
)

// DefaultListLimit is the number of documents returned when no limit is given.
const DefaultListLimit = 100

// DocInfo is a structure representing a stored document.
type DocInfo struct {
	// ID is the unique ID of the document.
	ID string `bson:"_id"`

	// Title is the title of the document.
	Title string `bson:"title"`

	// Content is the markdown body of the document.
	Content string `bson:"content"`

	// FolderID is the folder the document belongs to. Nil means the root.
	FolderID *string `bson:"folder_id,omitempty"`

	// CreatedAt is the time when the document is created.
	CreatedAt time.Time `bson:"created_at"`

	// UpdatedAt is the time when the document is last written.
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewDocInfo returns a DocInfo built from the creation fields.
func NewDocInfo(id string, fields *types.CreateDocumentFields, now time.Time) *DocInfo {
	return &DocInfo{
		ID:        id,
		Title:     fields.Title,
		Content:   fields.Content,
		FolderID:  normalizeFolder(fields.FolderID),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply overwrites the fields that are set and bumps UpdatedAt.
func (info *DocInfo) Apply(fields *types.UpdatableDocumentFields, now time.Time) {
	if fields.Title != nil {
		info.Title = *fields.Title
	}
	if fields.Content != nil {
		info.Content = *fields.Content
	}
	if fields.FolderID != nil {
		info.FolderID = normalizeFolder(fields.FolderID)
	}
	info.UpdatedAt = now
}

// DeepCopy creates a deep copy of this DocInfo.
func (info *DocInfo) DeepCopy() *DocInfo {
	if info == nil {
		return nil
	}

	clone := *info
	if info.FolderID != nil {
		folderID := *info.FolderID
		clone.FolderID = &folderID
	}
	return &clone
}

// ToDocumentSummary converts this DocInfo to the API representation.
func (info *DocInfo) ToDocumentSummary() *types.DocumentSummary {
	return &types.DocumentSummary{
		ID:        info.ID,
		Title:     info.Title,
		Content:   info.Content,
		FolderID:  info.FolderID,
		CreatedAt: info.CreatedAt,
		UpdatedAt: info.UpdatedAt,
	}
}

// normalizeFolder maps the empty folder id to the root.
func normalizeFolder(folderID *string) *string {
	if folderID == nil || *folderID == "" {
		return nil
	}
	id := *folderID
	return &id
}

// ListOptions filters ListDocInfos.
type ListOptions struct {
	// FolderID restricts the result to one folder when set. A pointer to the
	// empty string selects documents at the root.
	FolderID *string

	// Query is a case-insensitive substring of the title or the content.
	Query string

	// Limit caps the number of documents. Zero means DefaultListLimit.
	Limit int
}

// EffectiveLimit returns the limit to apply.
func (o ListOptions) EffectiveLimit() int {
	if o.Limit <= 0 {
		return DefaultListLimit
	}
	return o.Limit
}

// Match reports whether the document passes the filter.
func (o ListOptions) Match(info *DocInfo) bool {
	if o.FolderID != nil {
		want := normalizeFolder(o.FolderID)
		switch {
		case want == nil && info.FolderID != nil:
			return false
		case want != nil && (info.FolderID == nil || *info.FolderID != *want):
			return false
		}
	}

	if o.Query == "" {
		return true
	}
	q := strings.ToLower(o.Query)
	return strings.Contains(strings.ToLower(info.Title), q) ||
		strings.Contains(strings.ToLower(info.Content), q)
}

// SortAndLimit orders infos by UpdatedAt descending, then by ID, and applies
// the limit of o.
func (o ListOptions) SortAndLimit(infos []*DocInfo) []*DocInfo {
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].UpdatedAt.Equal(infos[j].UpdatedAt) {
			return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
		}
		return infos[i].ID < infos[j].ID
	})

	if limit := o.EffectiveLimit(); len(infos) > limit {
		infos = infos[:limit]
	}
	return infos
}

// Now returns the current time at the millisecond precision every backend
// can store.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
