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
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/inkwell-team/inkwell/server/logging"
)

type redisRelay struct {
	client  *redis.Client
	channel string
	node    string

	mu     sync.Mutex
	pubsub *redis.PubSub
}

func newRedisRelay(conf *Config, node string) *redisRelay {
	return &redisRelay{
		client: redis.NewClient(&redis.Options{
			Addr:     conf.Address,
			Password: conf.Password,
			DB:       conf.DB,
		}),
		channel: conf.Channel(),
		node:    node,
	}
}

// Publish publishes the frame on the relay channel.
func (r *redisRelay) Publish(ctx context.Context, docID, exclude string, frame []byte) error {
	encoded, err := Message{
		Node:       r.node,
		DocumentID: docID,
		Exclude:    exclude,
		Payload:    frame,
	}.Marshal()
	if err != nil {
		return err
	}

	if err := r.client.Publish(ctx, r.channel, encoded).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", r.channel, err)
	}
	return nil
}

// Subscribe subscribes to the relay channel and delivers messages of other
// nodes to h from a single goroutine, which keeps per-document order.
func (r *redisRelay) Subscribe(ctx context.Context, h Handler) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("subscribe to %s: %w", r.channel, err)
	}

	r.mu.Lock()
	r.pubsub = pubsub
	r.mu.Unlock()

	go func() {
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-ch:
				if !ok {
					return
				}
				msg, ok := decode(r.node, raw.Payload)
				if !ok {
					continue
				}
				h(ctx, msg)
			}
		}
	}()

	return nil
}

// decode parses a relay payload. It reports false for malformed payloads and
// for messages published by the node itself.
func decode(node, payload string) (Message, bool) {
	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		logging.DefaultLogger().Warnf("drop malformed relay message: %v", err)
		return Message{}, false
	}
	if msg.Node == node || msg.DocumentID == "" {
		return Message{}, false
	}
	return msg, true
}

// Close closes the subscription and the client.
func (r *redisRelay) Close() error {
	r.mu.Lock()
	pubsub := r.pubsub
	r.pubsub = nil
	r.mu.Unlock()

	if pubsub != nil {
		if err := pubsub.Close(); err != nil {
			return fmt.Errorf("close subscription: %w", err)
		}
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("close redis client: %w", err)
	}
	return nil
}
