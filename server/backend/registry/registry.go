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

// Package registry tracks which connections are members of which document
// sessions.
package registry

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/pkg/cmap"
)

// Conn is the registry's view of a live connection.
type Conn interface {
	// ID returns the identifier of the connection, unique within the process.
	ID() string

	// Send queues a frame for delivery without blocking. It returns false when
	// the frame was dropped.
	Send(frame []byte) bool
}

// Member is a connection that belongs to a session.
type Member struct {
	Conn        Conn
	UserID      string
	DisplayName string
	Cursor      *types.Cursor
	JoinedAt    time.Time

	seq uint64
}

// Departure records a membership removed by LeaveAll.
type Departure struct {
	DocID  string
	Member Member
}

// Stats is a point-in-time summary of the registry.
type Stats struct {
	Sessions    int
	Members     int
	Connections int
}

// SessionSet is the set of members of one document, keyed by connection id.
// Structural changes happen inside the registry's shard lock for the
// document; mu also guards reads from outside that lock.
type SessionSet struct {
	mu      sync.RWMutex
	docID   string
	members map[string]*Member
}

func (s *SessionSet) snapshot(exclude string) []Member {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make([]Member, 0, len(s.members))
	for id, m := range s.members {
		if id == exclude {
			continue
		}
		members = append(members, *m)
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].seq < members[j].seq
	})
	return members
}

// Registry maps documents to session sets. The zero value is not usable; call
// New. Calls concerning one connection are expected to come from one
// goroutine, the connection's read loop.
type Registry struct {
	// sessions maps a document id to its session set.
	sessions *cmap.Map[string, *SessionSet]

	// connDocs maps a connection id to the documents it joined.
	connDocs *cmap.Map[string, map[string]struct{}]

	seq atomic.Uint64
	now func() time.Time
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		sessions: cmap.New[string, *SessionSet](),
		connDocs: cmap.New[string, map[string]struct{}](),
		now:      time.Now,
	}
}

// Join adds conn to the session of docID, creating the session if needed.
// It returns the other members at the time of joining, and whether conn was
// added. Joining twice is a no-op apart from refreshing the display name.
func (r *Registry) Join(docID string, conn Conn, userID, displayName string) ([]Member, bool) {
	connID := conn.ID()
	var added bool
	var others []Member

	r.sessions.Upsert(docID, func(set *SessionSet, exists bool) *SessionSet {
		if !exists {
			set = &SessionSet{docID: docID, members: make(map[string]*Member)}
		}

		set.mu.Lock()
		if m, ok := set.members[connID]; ok {
			if displayName != "" {
				m.DisplayName = displayName
			}
		} else {
			set.members[connID] = &Member{
				Conn:        conn,
				UserID:      userID,
				DisplayName: displayName,
				JoinedAt:    r.now(),
				seq:         r.seq.Add(1),
			}
			added = true
		}
		set.mu.Unlock()

		others = set.snapshot(connID)
		return set
	})

	if added {
		r.connDocs.Upsert(connID, func(docs map[string]struct{}, exists bool) map[string]struct{} {
			if !exists {
				docs = make(map[string]struct{})
			}
			docs[docID] = struct{}{}
			return docs
		})
	}

	return others, added
}

// Leave removes the connection from the session of docID. The session is
// discarded when its last member leaves.
func (r *Registry) Leave(connID, docID string) (Member, bool) {
	member, ok := r.remove(connID, docID)
	if !ok {
		return Member{}, false
	}

	r.connDocs.Delete(connID, func(docs map[string]struct{}, exists bool) bool {
		if !exists {
			return false
		}
		delete(docs, docID)
		return len(docs) == 0
	})

	return member, true
}

// LeaveAll removes the connection from every session it belongs to.
func (r *Registry) LeaveAll(connID string) []Departure {
	var docIDs []string
	r.connDocs.Delete(connID, func(docs map[string]struct{}, exists bool) bool {
		for docID := range docs {
			docIDs = append(docIDs, docID)
		}
		return exists
	})
	sort.Strings(docIDs)

	var departures []Departure
	for _, docID := range docIDs {
		if member, ok := r.remove(connID, docID); ok {
			departures = append(departures, Departure{DocID: docID, Member: member})
		}
	}
	return departures
}

func (r *Registry) remove(connID, docID string) (Member, bool) {
	var removed *Member
	r.sessions.Delete(docID, func(set *SessionSet, exists bool) bool {
		if !exists {
			return false
		}

		set.mu.Lock()
		defer set.mu.Unlock()

		removed = set.members[connID]
		delete(set.members, connID)
		return len(set.members) == 0
	})

	if removed == nil {
		return Member{}, false
	}
	return *removed, true
}

// Members returns the members of the session of docID in join order.
func (r *Registry) Members(docID string) []Member {
	set, ok := r.sessions.Get(docID)
	if !ok {
		return nil
	}
	return set.snapshot("")
}

// Member returns the membership of the connection in the session of docID.
func (r *Registry) Member(docID, connID string) (Member, bool) {
	set, ok := r.sessions.Get(docID)
	if !ok {
		return Member{}, false
	}

	set.mu.RLock()
	defer set.mu.RUnlock()

	m, ok := set.members[connID]
	if !ok {
		return Member{}, false
	}
	return *m, true
}

// UpdateCursor records the last known cursor of a member. It returns false
// when the connection is not a member of the session.
func (r *Registry) UpdateCursor(docID, connID string, cursor types.Cursor) (Member, bool) {
	set, ok := r.sessions.Get(docID)
	if !ok {
		return Member{}, false
	}

	set.mu.Lock()
	defer set.mu.Unlock()

	m, ok := set.members[connID]
	if !ok {
		return Member{}, false
	}
	m.Cursor = &cursor
	return *m, true
}

// Documents returns the documents the connection has joined.
func (r *Registry) Documents(connID string) []string {
	var docIDs []string
	r.connDocs.Range(func(id string, docs map[string]struct{}) bool {
		if id != connID {
			return true
		}
		for docID := range docs {
			docIDs = append(docIDs, docID)
		}
		return false
	})
	sort.Strings(docIDs)
	return docIDs
}

// Stats returns statistics about the registry.
func (r *Registry) Stats() Stats {
	stats := Stats{Connections: r.connDocs.Len()}
	r.sessions.Range(func(_ string, set *SessionSet) bool {
		set.mu.RLock()
		stats.Members += len(set.members)
		set.mu.RUnlock()
		stats.Sessions++
		return true
	})
	return stats
}
