// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.

package gosnowrest

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// tokenExpiryMargin is subtracted from the token lifetime so a token is
// refreshed before it actually expires on the server.
const tokenExpiryMargin = 60 * time.Second

// accessToken is an immutable bearer credential. A refresh replaces the
// cached value, it never mutates it.
type accessToken struct {
	value     string
	expiresAt time.Time
}

func (tok *accessToken) validAt(now time.Time) bool {
	return tok != nil && now.Add(tokenExpiryMargin).Before(tok.expiresAt)
}

// tokenProvider performs one network token acquisition.
type tokenProvider interface {
	fetchToken(ctx context.Context) (*accessToken, error)
	tokenType() string
}

// tokenManager caches the access token of a single session. Multi-user
// scenarios require one manager per user; there is deliberately no
// process-wide token state.
//
// The cache is the only mutable shared state in the package. Reads and
// writes go through the mutex; the actual refresh is collapsed through a
// singleflight group so that N concurrent callers holding an expired cache
// trigger exactly one network call and all receive its result.
type tokenManager struct {
	provider tokenProvider

	mu     sync.Mutex
	group  singleflight.Group
	cached *accessToken

	now func() time.Time
}

func newTokenManager(provider tokenProvider) *tokenManager {
	return &tokenManager{
		provider: provider,
		now:      time.Now,
	}
}

// getValidToken returns the cached token while it is more than
// tokenExpiryMargin away from expiry, refreshing it otherwise.
func (tm *tokenManager) getValidToken(ctx context.Context) (*accessToken, error) {
	if tok := tm.current(); tok.validAt(tm.now()) {
		return tok, nil
	}
	v, err, _ := tm.group.Do("token", func() (interface{}, error) {
		// A caller that queued behind a completed refresh finds a fresh
		// cache here and skips the network call.
		if tok := tm.current(); tok.validAt(tm.now()) {
			return tok, nil
		}
		tok, err := tm.provider.fetchToken(ctx)
		if err != nil {
			return nil, err
		}
		tm.store(tok)
		return tok, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*accessToken), nil
}

// invalidate drops the cached token. The next getValidToken call refreshes.
func (tm *tokenManager) invalidate() {
	tm.store(nil)
}

func (tm *tokenManager) current() *accessToken {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.cached
}

func (tm *tokenManager) store(tok *accessToken) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.cached = tok
}
