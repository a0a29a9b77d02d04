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

package converter

import (
	"github.com/inkwell-team/inkwell/pkg/errors"
)

var (
	// ErrMalformedFrame is returned when a frame is not a JSON object with a
	// type field.
	ErrMalformedFrame = errors.InvalidArgument("malformed frame").WithCode("ErrMalformedFrame")

	// ErrUnknownFrameType is returned when the type of a frame is not one of
	// the known kinds. Receivers ignore such frames.
	ErrUnknownFrameType = errors.InvalidArgument("unknown frame type").WithCode("ErrUnknownFrameType")

	// ErrMissingField is returned when a frame lacks a field its kind requires.
	ErrMissingField = errors.InvalidArgument("missing field").WithCode("ErrMissingField")

	// ErrNotAnEvent is returned when a request frame is converted to an event.
	ErrNotAnEvent = errors.InvalidArgument("frame is not an event").WithCode("ErrNotAnEvent")
)
