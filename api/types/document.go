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

package types

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrEmptyDocumentFields is returned when an update names no field at all.
var ErrEmptyDocumentFields = errors.New("UpdatableDocumentFields is empty")

// DocumentSummary is the representation of a document returned by the REST
// API and the CLI.
type DocumentSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	FolderID  *string   `json:"folderId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateDocumentFields is the set of fields used to create a document.
type CreateDocumentFields struct {
	Title    string  `json:"title" validate:"max=255,notblank"`
	Content  string  `json:"content"`
	FolderID *string `json:"folderId,omitempty" validate:"omitempty,max=64"`
}

// Validate validates the CreateDocumentFields.
func (f *CreateDocumentFields) Validate() error {
	return validateStruct("CreateDocumentFields", f)
}

// UpdatableDocumentFields is a partial update of a document. A nil field is
// left untouched. A FolderID pointing to the empty string moves the document
// to the root.
type UpdatableDocumentFields struct {
	Title    *string `json:"title,omitempty" bson:"title,omitempty" validate:"omitempty,max=255,notblank"`
	Content  *string `json:"content,omitempty" bson:"content,omitempty"`
	FolderID *string `json:"folderId,omitempty" bson:"folder_id,omitempty" validate:"omitempty,max=64"`
}

// Validate validates the UpdatableDocumentFields.
func (f *UpdatableDocumentFields) Validate() error {
	if f.Title == nil && f.Content == nil && f.FolderID == nil {
		return ErrEmptyDocumentFields
	}

	return validateStruct("UpdatableDocumentFields", f)
}

// ContentOnly returns fields that only replace the content.
func ContentOnly(content string) *UpdatableDocumentFields {
	return &UpdatableDocumentFields{Content: &content}
}

func init() {
	registerValidation("notblank", func(level validator.FieldLevel) bool {
		return strings.TrimSpace(level.Field().String()) != ""
	})
}
