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

// Package auth turns bearer tokens into the identity of the caller.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/inkwell-team/inkwell/pkg/errors"
)

var (
	// ErrUnexpectedSigningMethod is returned when the signing method is unexpected.
	ErrUnexpectedSigningMethod = fmt.Errorf("unexpected signing method")

	// ErrInvalidToken is returned when a token cannot be verified.
	ErrInvalidToken = errors.Unauthenticated("invalid token").WithCode("ErrInvalidToken")

	// ErrMissingToken is returned when a request carries no token.
	ErrMissingToken = errors.Unauthenticated("missing token").WithCode("ErrMissingToken")
)

// DefaultCacheSize is the number of verified tokens kept in memory.
const DefaultCacheSize = 1024

// UserClaims is a JWT claims struct for a user. The subject is the user id.
type UserClaims struct {
	jwt.RegisteredClaims

	DisplayName string `json:"name,omitempty"`
}

// TokenManager signs and verifies HS256 tokens. Verified claims are cached
// by token until they expire.
type TokenManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	cache         *lru.Cache[string, *UserClaims]
	now           func() time.Time
}

// NewTokenManager creates a new TokenManager.
func NewTokenManager(secretKey string, tokenDuration time.Duration, cacheSize int) (*TokenManager, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *UserClaims](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create token cache: %w", err)
	}

	return &TokenManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		cache:         cache,
		now:           time.Now,
	}, nil
}

// Generate generates a new token for the user.
func (m *TokenManager) Generate(userID, displayName string) (string, error) {
	now := m.now()
	claims := UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
		},
		DisplayName: displayName,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signedToken, nil
}

// Verify verifies the given token and returns its claims.
func (m *TokenManager) Verify(token string) (*UserClaims, error) {
	if claims, ok := m.cache.Get(token); ok {
		if claims.ExpiresAt == nil || m.now().Before(claims.ExpiresAt.Time) {
			return claims, nil
		}
		m.cache.Remove(token)
		return nil, fmt.Errorf("token expired: %w", ErrInvalidToken)
	}

	claims := &UserClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%s: %w", token.Method.Alg(), ErrUnexpectedSigningMethod)
		}
		return m.secretKey, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token without subject: %w", ErrInvalidToken)
	}

	m.cache.Add(token, claims)
	return claims, nil
}
