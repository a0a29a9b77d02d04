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

package relay

import (
	"context"
)

// Dummy is a relay that does nothing. It is used when no relay is configured
// and the server runs as a single node.
type Dummy struct{}

// Publish does nothing.
func (d *Dummy) Publish(_ context.Context, _, _ string, _ []byte) error {
	return nil
}

// Subscribe does nothing.
func (d *Dummy) Subscribe(_ context.Context, _ Handler) error {
	return nil
}

// Close does nothing.
func (d *Dummy) Close() error {
	return nil
}
