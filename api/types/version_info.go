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

// VersionInfo is the version of the CLI and of the server it talks to.
type VersionInfo struct {
	// ClientVersion is the version of the inkwell CLI.
	ClientVersion *VersionDetail `json:"clientVersion,omitempty" yaml:"clientVersion,omitempty"`

	// ServerVersion is the version of the server.
	ServerVersion *VersionDetail `json:"serverVersion,omitempty" yaml:"serverVersion,omitempty"`
}

// VersionDetail is the version of one binary.
type VersionDetail struct {
	InkwellVersion string `json:"inkwellVersion" yaml:"inkwellVersion"`
	GoVersion      string `json:"goVersion" yaml:"goVersion"`
	BuildDate      string `json:"buildDate" yaml:"buildDate"`
}
