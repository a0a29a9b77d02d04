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

// Cursor is a caret position in the editor. Lines and columns start at 1.
type Cursor struct {
	LineNumber int `json:"lineNumber" validate:"min=1"`
	Column     int `json:"column" validate:"min=1"`
}

// Validate validates the Cursor.
func (c *Cursor) Validate() error {
	return validateStruct("Cursor", c)
}

// Change is the payload of a text change. Content is the full document body;
// peers treat it as a preview signal only. Timestamp is in milliseconds since
// the epoch, set by the editing session.
type Change struct {
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp" validate:"min=0"`
}

// Validate validates the Change.
func (c *Change) Validate() error {
	return validateStruct("Change", c)
}
