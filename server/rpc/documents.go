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

package rpc

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/server/backend/database"
	"github.com/inkwell-team/inkwell/server/documents"
	"github.com/inkwell-team/inkwell/server/rpc/auth"
)

// UserHeader names the acting user when authentication is disabled.
const UserHeader = "X-Inkwell-User"

// MoveRequest is the body of a folder change.
type MoveRequest struct {
	FolderID string `json:"folderId"`
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := database.ListOptions{Query: query.Get("q")}
	if query.Has("folderId") {
		folderID := query.Get("folderId")
		opts.FolderID = &folderID
	}
	if limit := query.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			writeError(w, fmt.Errorf("limit %q: %w", limit, ErrInvalidBody))
			return
		}
		opts.Limit = n
	}

	summaries, err := documents.ListDocuments(r.Context(), s.be, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	fields := &types.CreateDocumentFields{}
	if err := readJSON(w, r, s.conf.MaxRequestBytes, fields); err != nil {
		writeError(w, err)
		return
	}

	summary, err := documents.CreateDocument(r.Context(), s.be, fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	summary, err := documents.GetDocument(r.Context(), s.be, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) updateDocument(w http.ResponseWriter, r *http.Request) {
	fields := &types.UpdatableDocumentFields{}
	if err := readJSON(w, r, s.conf.MaxRequestBytes, fields); err != nil {
		writeError(w, err)
		return
	}

	summary, err := documents.UpdateDocument(r.Context(), s.be, mux.Vars(r)["id"], actingUser(r), fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) moveDocument(w http.ResponseWriter, r *http.Request) {
	req := &MoveRequest{}
	if err := readJSON(w, r, s.conf.MaxRequestBytes, req); err != nil {
		writeError(w, err)
		return
	}

	summary, err := documents.MoveDocument(r.Context(), s.be, mux.Vars(r)["id"], actingUser(r), req.FolderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := documents.DeleteDocument(r.Context(), s.be, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// actingUser returns the authenticated user, or the user named by
// UserHeader when authentication is disabled.
func actingUser(r *http.Request) string {
	if id, ok := auth.From(r.Context()); ok {
		return id.UserID
	}
	return r.Header.Get(UserHeader)
}
