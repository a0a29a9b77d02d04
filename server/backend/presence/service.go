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

// Package presence keeps document sessions and announces membership changes
// and member activity to the other members.
package presence

import (
	"context"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/api/types/events"
	"github.com/inkwell-team/inkwell/server/backend/broadcast"
	"github.com/inkwell-team/inkwell/server/backend/registry"
	"github.com/inkwell-team/inkwell/server/logging"
)

// Service composes the registry and the broadcaster. Every membership change
// happens in the same document sequence as its announcement.
type Service struct {
	registry    *registry.Registry
	broadcaster *broadcast.Broadcaster
}

// New creates a presence service.
func New(reg *registry.Registry, b *broadcast.Broadcaster) *Service {
	return &Service{
		registry:    reg,
		broadcaster: b,
	}
}

// Join adds conn to the session of docID. The other members receive
// user-joined for the new member, and the new member receives one user-joined
// per distinct user already present. It returns false if conn was already a
// member, in which case nothing is sent.
func (s *Service) Join(ctx context.Context, conn registry.Conn, docID, userID, displayName string) bool {
	var added bool
	s.broadcaster.Sequence(ctx, docID, func(tx *broadcast.Tx) {
		var others []registry.Member
		others, added = s.registry.Join(docID, conn, userID, displayName)
		if !added {
			return
		}

		tx.Broadcast(events.JoinEvent{DocID: docID, UserID: userID, DisplayName: displayName}, conn.ID())

		seen := make(map[string]bool, len(others))
		for _, m := range others {
			if seen[m.UserID] {
				continue
			}
			seen[m.UserID] = true
			tx.SendTo(conn, events.JoinEvent{DocID: docID, UserID: m.UserID, DisplayName: m.DisplayName})
		}
	})

	if added {
		logging.From(ctx).Debugf("%s joined %s as %s", conn.ID(), docID, userID)
	}
	return added
}

// Leave removes the connection from the session of docID and announces the
// departure. It returns false if the connection was not a member.
func (s *Service) Leave(ctx context.Context, connID, docID string) bool {
	var removed bool
	s.broadcaster.Sequence(ctx, docID, func(tx *broadcast.Tx) {
		var member registry.Member
		member, removed = s.registry.Leave(connID, docID)
		if removed {
			s.announceLeave(tx, docID, member)
		}
	})
	return removed
}

// LeaveAll removes the connection from every session it belongs to and
// announces each departure. It returns the number of sessions left.
func (s *Service) LeaveAll(ctx context.Context, connID string) int {
	left := 0
	for _, docID := range s.registry.Documents(connID) {
		if s.Leave(ctx, connID, docID) {
			left++
		}
	}

	// Sweep memberships added after Documents was read.
	for _, d := range s.registry.LeaveAll(connID) {
		s.broadcaster.Sequence(ctx, d.DocID, func(tx *broadcast.Tx) {
			s.announceLeave(tx, d.DocID, d.Member)
		})
		left++
	}

	if left > 0 {
		logging.From(ctx).Debugf("%s left %d sessions", connID, left)
	}
	return left
}

// announceLeave sends user-left unless another connection of the same user
// is still in the session.
func (s *Service) announceLeave(tx *broadcast.Tx, docID string, member registry.Member) {
	for _, m := range s.registry.Members(docID) {
		if m.UserID == member.UserID {
			return
		}
	}
	tx.Broadcast(events.LeaveEvent{DocID: docID, UserID: member.UserID}, member.Conn.ID())
}

// RelayCursor records the cursor of a member and sends it to the other
// members. Cursors from connections that are not members are dropped.
func (s *Service) RelayCursor(ctx context.Context, connID, docID string, cursor types.Cursor) (broadcast.Result, bool) {
	member, ok := s.registry.UpdateCursor(docID, connID, cursor)
	if !ok {
		logging.From(ctx).Debugf("drop cursor of %s: not a member of %s", connID, docID)
		return broadcast.Result{}, false
	}

	return s.broadcaster.Broadcast(ctx, docID, events.CursorEvent{
		DocID:  docID,
		UserID: member.UserID,
		Cursor: cursor,
	}, connID), true
}

// RelayChange sends a content preview of a member to the other members.
// Changes from connections that are not members are dropped.
func (s *Service) RelayChange(ctx context.Context, connID, docID string, change types.Change) (broadcast.Result, bool) {
	member, ok := s.registry.Member(docID, connID)
	if !ok {
		logging.From(ctx).Debugf("drop change of %s: not a member of %s", connID, docID)
		return broadcast.Result{}, false
	}

	return s.broadcaster.Broadcast(ctx, docID, events.ContentChangeEvent{
		DocID:  docID,
		UserID: member.UserID,
		Change: change,
	}, connID), true
}

// DocumentReplaced tells every member of the session that the stored
// document was overwritten by userID.
func (s *Service) DocumentReplaced(
	ctx context.Context,
	docID, userID string,
	updates types.UpdatableDocumentFields,
) broadcast.Result {
	return s.broadcaster.Broadcast(ctx, docID, events.DocumentReplacedEvent{
		DocID:   docID,
		UserID:  userID,
		Updates: updates,
	}, "")
}

// Members returns the members of the session of docID.
func (s *Service) Members(docID string) []registry.Member {
	return s.registry.Members(docID)
}

// Stats returns statistics about the sessions.
func (s *Service) Stats() registry.Stats {
	return s.registry.Stats()
}
