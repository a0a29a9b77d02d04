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

// Package broadcast delivers presence events to the members of a document
// session.
package broadcast

import (
	"context"

	"github.com/inkwell-team/inkwell/api/converter"
	"github.com/inkwell-team/inkwell/api/types/events"
	"github.com/inkwell-team/inkwell/pkg/locker"
	"github.com/inkwell-team/inkwell/server/backend/registry"
	"github.com/inkwell-team/inkwell/server/backend/relay"
	"github.com/inkwell-team/inkwell/server/logging"
)

// Result counts the outcome of one broadcast on this node.
type Result struct {
	Delivered int
	Dropped   int
}

// Metrics receives delivery counts.
type Metrics interface {
	AddBroadcast(eventType string, delivered, dropped int)
	AddRelayError()
}

type nopMetrics struct{}

func (nopMetrics) AddBroadcast(string, int, int) {}
func (nopMetrics) AddRelayError()                {}

// Broadcaster fans presence events out to session members. Broadcasts for
// one document are serialized, so every member receives them in call order.
// Broadcasts for different documents do not wait on each other.
type Broadcaster struct {
	registry *registry.Registry
	locks    *locker.Locker
	relay    relay.Relay
	metrics  Metrics
}

// New creates a Broadcaster. relay and metrics may be nil.
func New(reg *registry.Registry, r relay.Relay, metrics Metrics) *Broadcaster {
	if r == nil {
		r = &relay.Dummy{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &Broadcaster{
		registry: reg,
		locks:    locker.New(),
		relay:    r,
		metrics:  metrics,
	}
}

// Broadcast sends the event to every member of the session of docID except
// the connection excludeConnID. Membership is resolved when the call runs.
// Members whose outbox is full or closed miss the event.
func (b *Broadcaster) Broadcast(
	ctx context.Context,
	docID string,
	event events.Event,
	excludeConnID string,
) Result {
	var result Result
	b.Sequence(ctx, docID, func(tx *Tx) {
		result = tx.Broadcast(event, excludeConnID)
	})
	return result
}

// Sequence runs f while holding the order of docID. Membership changes made
// in f and the events f sends are seen by every member in the same order as
// those of other Broadcast and Sequence calls for the document. f must not
// call back into the Broadcaster for the same document.
func (b *Broadcaster) Sequence(ctx context.Context, docID string, f func(tx *Tx)) {
	b.locks.WithLock(docID, func() {
		f(&Tx{ctx: ctx, docID: docID, b: b})
	})
}

// Deliver sends a frame that was published by another node to the local
// members of the session.
func (b *Broadcaster) Deliver(ctx context.Context, msg relay.Message) Result {
	var result Result
	b.locks.WithLock(msg.DocumentID, func() {
		result = b.deliver(msg.DocumentID, msg.Payload, msg.Exclude)
	})

	logging.From(ctx).Debugf("relayed frame for %s: %d delivered, %d dropped",
		msg.DocumentID, result.Delivered, result.Dropped)
	return result
}

func (b *Broadcaster) deliver(docID string, frame []byte, excludeConnID string) Result {
	var result Result
	for _, member := range b.registry.Members(docID) {
		if member.Conn.ID() == excludeConnID {
			continue
		}

		if member.Conn.Send(frame) {
			result.Delivered++
		} else {
			result.Dropped++
		}
	}
	return result
}

// Tx sends events while the order of one document is held.
type Tx struct {
	ctx   context.Context
	docID string
	b     *Broadcaster
}

// Broadcast sends the event to every member except excludeConnID and
// publishes it to the relay.
func (tx *Tx) Broadcast(event events.Event, excludeConnID string) Result {
	frame, err := converter.EventToBytes(event)
	if err != nil {
		logging.From(tx.ctx).Errorf("encode %s for %s: %v", event.Type(), tx.docID, err)
		return Result{}
	}

	result := tx.b.deliver(tx.docID, frame, excludeConnID)
	tx.b.metrics.AddBroadcast(string(event.Type()), result.Delivered, result.Dropped)

	if err := tx.b.relay.Publish(tx.ctx, tx.docID, excludeConnID, frame); err != nil {
		tx.b.metrics.AddRelayError()
		logging.From(tx.ctx).Warnf("relay %s for %s: %v", event.Type(), tx.docID, err)
	}

	return result
}

// SendTo sends the event to a single connection only.
func (tx *Tx) SendTo(conn registry.Conn, event events.Event) bool {
	frame, err := converter.EventToBytes(event)
	if err != nil {
		logging.From(tx.ctx).Errorf("encode %s for %s: %v", event.Type(), conn.ID(), err)
		return false
	}

	if conn.Send(frame) {
		tx.b.metrics.AddBroadcast(string(event.Type()), 1, 0)
		return true
	}
	tx.b.metrics.AddBroadcast(string(event.Type()), 0, 1)
	return false
}
