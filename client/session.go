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

package client

import (
	"context"
	"sync"
	"time"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/client/autosave"
	"github.com/inkwell-team/inkwell/client/presence"
)

// Session is one editor open on one document. Edits are previewed to
// collaborators over the channel and saved by the auto-save coordinator;
// inbound events update the view.
type Session struct {
	docID   string
	channel Channel
	view    *presence.View
	saver   *autosave.Coordinator
	now     func() time.Time

	mu      sync.Mutex
	content string
}

// Connect opens a session on doc against the server at addr.
func Connect(ctx context.Context, addr string, doc *types.DocumentSummary, opts ...Option) (*Session, error) {
	options := newOptions(opts)

	docs, err := NewDocuments(addr, opts...)
	if err != nil {
		return nil, err
	}

	view := newView(doc.ID, options)
	ch, err := NewChannel(addr, view.Apply, opts...)
	if err != nil {
		return nil, err
	}
	ch.OnStateChange(func(state ChannelState) {
		// the server announces the members again after the rejoin
		if state == Connected {
			view.Reset()
		}
	})

	s := newSession(doc, ch, view, docs, autosave.ServerDelay, options)
	if err := ch.Open(ctx); err != nil {
		s.saver.Close()
		return nil, err
	}
	ch.JoinDocument(doc.ID)
	return s, nil
}

// OpenLocal opens a session on doc in local-only mode. Nothing is sent to
// collaborators and edits are saved to store.
func OpenLocal(store *LocalStore, doc *types.DocumentSummary, opts ...Option) *Session {
	options := newOptions(opts)
	view := newView(doc.ID, options)
	return newSession(doc, &NopChannel{}, view, store, autosave.LocalDelay, options)
}

func newView(docID string, options Options) *presence.View {
	var viewOpts []presence.Option
	if options.OnReplaced != nil {
		viewOpts = append(viewOpts, presence.WithReplacedListener(options.OnReplaced))
	}
	return presence.New(docID, options.selfID(), viewOpts...)
}

func newSession(
	doc *types.DocumentSummary,
	ch Channel,
	view *presence.View,
	persister autosave.Persister,
	delay time.Duration,
	options Options,
) *Session {
	saver := autosave.New(persister,
		autosave.WithDelay(delay),
		autosave.WithStatusListener(view.SetSaveStatus),
		autosave.WithLogger(options.Logger),
	)
	saver.Bind(doc.ID, doc.Content)

	return &Session{
		docID:   doc.ID,
		channel: ch,
		view:    view,
		saver:   saver,
		now:     time.Now,
		content: doc.Content,
	}
}

// DocumentID returns the id of the document of this session.
func (s *Session) DocumentID() string {
	return s.docID
}

// Channel returns the channel of this session.
func (s *Session) Channel() Channel {
	return s.channel
}

// View returns the collaborator view of this session.
func (s *Session) View() *presence.View {
	return s.view
}

// Autosave returns the auto-save coordinator of this session.
func (s *Session) Autosave() *autosave.Coordinator {
	return s.saver
}

// Edit records the new buffer content. It previews the content to
// collaborators and schedules a save.
func (s *Session) Edit(content string) {
	s.mu.Lock()
	s.content = content
	s.mu.Unlock()

	s.channel.SendChange(s.docID, types.Change{
		Content:   content,
		Timestamp: s.now().UnixMilli(),
	})
	s.saver.Schedule(content)
}

// MoveCursor tells collaborators where the caret is.
func (s *Session) MoveCursor(cursor types.Cursor) bool {
	return s.channel.SendCursor(s.docID, cursor)
}

// SaveNow writes the current buffer right away.
func (s *Session) SaveNow(ctx context.Context) (autosave.Result, error) {
	s.mu.Lock()
	content := s.content
	s.mu.Unlock()

	return s.saver.SaveNow(ctx, content)
}

// Close leaves the document and closes the channel. A pending save is
// dropped; call SaveNow first to keep it.
func (s *Session) Close() error {
	s.channel.LeaveDocument(s.docID)
	s.saver.Close()
	return s.channel.Close()
}
