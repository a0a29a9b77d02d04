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
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/inkwell-team/inkwell/api/types/events"
)

// DefaultReconnectDelay is the fixed wait between reconnect attempts.
const DefaultReconnectDelay = 3000 * time.Millisecond

// Option configures Options.
type Option func(*Options)

// Options configures how we set up the client.
type Options struct {
	// Token is the token of the user. Each request and the websocket are
	// authenticated with it.
	Token string

	// UserID is the user announced in join-document. Servers with
	// authentication take the user from Token instead.
	UserID string

	// DisplayName is the name shown to collaborators.
	DisplayName string

	// ReconnectDelay is the fixed wait before reconnecting.
	ReconnectDelay time.Duration

	// HTTPClient sends the REST requests.
	HTTPClient *http.Client

	// Logger is the Logger of the client.
	Logger *zap.Logger

	// OnReplaced is told when someone else replaced the stored document.
	OnReplaced func(events.DocumentReplacedEvent)
}

// WithToken configures the token of the client.
func WithToken(token string) Option {
	return func(o *Options) { o.Token = token }
}

// WithUserID configures the user of the client.
func WithUserID(userID string) Option {
	return func(o *Options) { o.UserID = userID }
}

// WithDisplayName configures the name shown to collaborators.
func WithDisplayName(name string) Option {
	return func(o *Options) { o.DisplayName = name }
}

// WithReconnectDelay configures the wait between reconnect attempts.
func WithReconnectDelay(delay time.Duration) Option {
	return func(o *Options) { o.ReconnectDelay = delay }
}

// WithHTTPClient configures the HTTP client of the REST API.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) { o.HTTPClient = c }
}

// WithLogger configures the Logger of the client.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithReplacedListener configures the function told when the stored
// document was replaced by someone else.
func WithReplacedListener(f func(events.DocumentReplacedEvent)) Option {
	return func(o *Options) { o.OnReplaced = f }
}

func newOptions(opts []Option) Options {
	options := Options{
		ReconnectDelay: DefaultReconnectDelay,
		HTTPClient:     http.DefaultClient,
		Logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// selfID returns the user the server acts as for this client: the subject
// of Token when it has one, UserID otherwise. The token is not verified
// here; the server does that.
func (o Options) selfID() string {
	if o.Token != "" {
		claims := &jwt.RegisteredClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(o.Token, claims); err == nil && claims.Subject != "" {
			return claims.Subject
		}
	}
	return o.UserID
}
