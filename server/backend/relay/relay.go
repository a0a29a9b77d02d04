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

// Package relay forwards presence frames between server nodes so that members
// of one document connected to different nodes see each other.
package relay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/inkwell-team/inkwell/server/logging"
)

// Message is the envelope published on the relay channel.
type Message struct {
	// Node is the id of the publishing node.
	Node string `json:"node"`

	// DocumentID is the document the frame belongs to.
	DocumentID string `json:"documentId"`

	// Exclude is the id of the connection that caused the frame.
	Exclude string `json:"exclude,omitempty"`

	// Payload is the encoded frame.
	Payload json.RawMessage `json:"payload"`
}

// Marshal marshals the message to JSON.
func (m Message) Marshal() ([]byte, error) {
	encoded, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	return encoded, nil
}

// Handler is called for every message published by another node.
type Handler func(ctx context.Context, msg Message)

// Relay is the interface for cross-node fan-out.
type Relay interface {
	// Publish sends the frame of a document to the other nodes.
	Publish(ctx context.Context, docID, exclude string, frame []byte) error

	// Subscribe starts delivering messages from other nodes to h until ctx is
	// done or the relay is closed.
	Subscribe(ctx context.Context, h Handler) error

	// Close releases the resources of the relay.
	Close() error
}

// Ensure creates a relay based on the given configuration. If the
// configuration is nil or invalid, it returns a Dummy relay so callers can use
// it without nil checks.
func Ensure(conf *Config, node string) Relay {
	if conf == nil {
		return &Dummy{}
	}

	if err := conf.Validate(); err != nil {
		logging.DefaultLogger().Warnf("invalid relay configuration: %v", err)
		return &Dummy{}
	}

	logging.DefaultLogger().Infof("relaying through redis: %s, channel: %s", conf.Address, conf.Channel())
	return newRedisRelay(conf, node)
}
