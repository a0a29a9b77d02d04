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

package auth

import (
	"context"
	"net/http"
	"strings"
)

type key int

const identityKey key = 0

// Identity is the authenticated caller.
type Identity struct {
	UserID      string
	DisplayName string
}

// From returns the identity stored in ctx, if any.
func From(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// With returns a context carrying the given identity.
func With(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// TokenFromRequest extracts a token from the Authorization header or, for
// browser websocket upgrades that cannot set headers, the token query
// parameter.
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// Middleware authenticates every request with tm. A nil tm disables
// authentication and lets requests through without an identity.
func Middleware(tm *TokenManager, onError func(w http.ResponseWriter, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if tm == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				onError(w, ErrMissingToken)
				return
			}

			claims, err := tm.Verify(token)
			if err != nil {
				onError(w, err)
				return
			}

			ctx := With(r.Context(), Identity{
				UserID:      claims.Subject,
				DisplayName: claims.DisplayName,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
