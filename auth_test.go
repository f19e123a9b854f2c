// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.

package gosnowrest

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newRefreshProvider(srv *httptest.Server) *oauthRefreshTokenProvider {
	return &oauthRefreshTokenProvider{
		cfg: &Config{
			Account:              "testorg-testaccount",
			OauthClientID:        "test-client-id",
			OauthClientSecret:    "test-client-secret",
			OauthRefreshToken:    "test-refresh-token",
			OauthTokenRequestURL: srv.URL + oauthTokenRequestPath,
			LoginTimeout:         5 * time.Second,
		},
		client: srv.Client(),
	}
}

func TestTokenCachedWithinValidity(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(tokenEndpoint(&hits))
	defer srv.Close()

	tm := newTokenManager(newRefreshProvider(srv))
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		tok, err := tm.getValidToken(ctx)
		assertNilF(t, err)
		assertEqualE(t, tok.value, "token-1", "cached token should be reused")
	}
	assertEqualE(t, atomic.LoadInt32(&hits), int32(1), "only one token request within the validity window")
}

func TestTokenRefreshedAfterExpiry(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(tokenEndpoint(&hits))
	defer srv.Close()

	tm := newTokenManager(newRefreshProvider(srv))
	ctx := context.Background()
	tok, err := tm.getValidToken(ctx)
	assertNilF(t, err)
	assertEqualE(t, tok.value, "token-1")

	// Move the manager clock past the expiry margin.
	tm.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	tok, err = tm.getValidToken(ctx)
	assertNilF(t, err)
	assertEqualE(t, tok.value, "token-2", "expired token should be replaced")
	assertEqualE(t, atomic.LoadInt32(&hits), int32(2))
}

func TestTokenRefreshedWithinExpiryMargin(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		serveJSON(w, http.StatusOK, map[string]any{
			"access_token": "short-lived",
			"expires_in":   30, // below the 60s refresh margin
		})
	}))
	defer srv.Close()

	tm := newTokenManager(newRefreshProvider(srv))
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		tok, err := tm.getValidToken(ctx)
		assertNilF(t, err)
		assertEqualE(t, tok.value, "short-lived")
	}
	assertEqualE(t, atomic.LoadInt32(&hits), int32(3), "a token inside the expiry margin is never served from cache")
}

func TestConcurrentRefreshCollapsesToOneRequest(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		time.Sleep(30 * time.Millisecond) // keep the flight open while callers pile up
		serveJSON(w, http.StatusOK, map[string]any{
			"access_token": "shared-token",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	tm := newTokenManager(newRefreshProvider(srv))
	ctx := context.Background()

	const parallelism = 10
	var wg sync.WaitGroup
	tokens := make([]string, parallelism)
	errs := make([]error, parallelism)
	for i := 0; i < parallelism; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := tm.getValidToken(ctx)
			if err != nil {
				errs[i] = err
				return
			}
			tokens[i] = tok.value
		}(i)
	}
	wg.Wait()

	for i := 0; i < parallelism; i++ {
		assertNilF(t, errs[i])
		assertEqualE(t, tokens[i], "shared-token", "every caller receives the single refresh result")
	}
	assertEqualE(t, atomic.LoadInt32(&hits), int32(1), "concurrent callers must share one token request")
}

func TestRefreshTokenGrantWireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assertEqualE(t, r.Method, http.MethodPost)
		assertEqualE(t, r.URL.Path, oauthTokenRequestPath)
		assertStringContainsE(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
		assertNilF(t, r.ParseForm())
		assertEqualE(t, r.PostForm.Get("grant_type"), "refresh_token")
		assertEqualE(t, r.PostForm.Get("refresh_token"), "test-refresh-token")
		assertEqualE(t, r.PostForm.Get("client_id"), "test-client-id")
		assertEqualE(t, r.PostForm.Get("client_secret"), "test-client-secret")
		serveJSON(w, http.StatusOK, map[string]any{"access_token": "tok", "expires_in": 3600})
	}))
	defer srv.Close()

	_, err := newRefreshProvider(srv).fetchToken(context.Background())
	assertNilF(t, err)
}

func TestRefreshErrorStatusSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "invalid_grant",
			"message": "Refresh token is invalid or expired.",
		})
	}))
	defer srv.Close()

	_, err := newRefreshProvider(srv).fetchToken(context.Background())
	var authErr *AuthError
	assertErrorsAsF(t, err, &authErr)
	assertEqualE(t, authErr.HTTPStatus, http.StatusBadRequest)
	assertStringContainsE(t, authErr.Body, "invalid_grant", "raw server diagnostic must be preserved")
}

func TestRefreshResponseWithoutAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveJSON(w, http.StatusOK, map[string]any{"token_type": "Bearer"})
	}))
	defer srv.Close()

	_, err := newRefreshProvider(srv).fetchToken(context.Background())
	var authErr *AuthError
	assertErrorsAsF(t, err, &authErr)
	assertEqualE(t, authErr.HTTPStatus, http.StatusOK)
	assertStringContainsE(t, authErr.Body, "token_type", "raw body must accompany a missing access_token")
}

func TestRefreshResponseDefaultLifetime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveJSON(w, http.StatusOK, map[string]any{"access_token": "tok"})
	}))
	defer srv.Close()

	before := time.Now()
	tok, err := newRefreshProvider(srv).fetchToken(context.Background())
	assertNilF(t, err)
	remaining := tok.expiresAt.Sub(before)
	assertTrueE(t, remaining > defaultTokenLifetime-time.Minute, "missing expires_in falls back to the default lifetime")
	assertTrueE(t, remaining <= defaultTokenLifetime+time.Minute)
}

func TestClientCredentialsGrant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assertNilF(t, r.ParseForm())
		assertEqualE(t, r.PostForm.Get("grant_type"), "client_credentials")
		assertEqualE(t, r.PostForm.Get("client_id"), "test-client-id")
		assertStringContainsE(t, r.PostForm.Get("scope"), "session:role:ANALYST")
		serveJSON(w, http.StatusOK, map[string]any{"access_token": "cc-token", "expires_in": 3600})
	}))
	defer srv.Close()

	provider := &oauthClientCredentialsProvider{
		cfg: &Config{
			Account:              "testorg-testaccount",
			OauthClientID:        "test-client-id",
			OauthClientSecret:    "test-client-secret",
			OauthTokenRequestURL: srv.URL + oauthTokenRequestPath,
			Role:                 "ANALYST",
			LoginTimeout:         5 * time.Second,
		},
		client: srv.Client(),
	}
	assertEqualE(t, provider.tokenType(), tokenTypeOAuth)
	tok, err := provider.fetchToken(context.Background())
	assertNilF(t, err)
	assertEqualE(t, tok.value, "cc-token")
}

func TestClientCredentialsGrantError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid_client"})
	}))
	defer srv.Close()

	provider := &oauthClientCredentialsProvider{
		cfg: &Config{
			OauthClientID:        "wrong",
			OauthClientSecret:    "wrong",
			OauthTokenRequestURL: srv.URL + oauthTokenRequestPath,
			LoginTimeout:         5 * time.Second,
		},
		client: srv.Client(),
	}
	_, err := provider.fetchToken(context.Background())
	var authErr *AuthError
	assertErrorsAsF(t, err, &authErr)
	assertEqualE(t, authErr.HTTPStatus, http.StatusUnauthorized)
	assertEqualE(t, authErr.Code, "invalid_client")
}

func TestBuildScopes(t *testing.T) {
	assertDeepEqualE(t, buildScopes(&Config{Role: "ANALYST"}), []string{"session:role:ANALYST"})
	assertDeepEqualE(t, buildScopes(&Config{OauthScope: "scope1, scope2"}), []string{"scope1", "scope2"})
	var noScopes []string
	assertDeepEqualE(t, buildScopes(&Config{}), noScopes)
}

func TestKeypairJWTClaims(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	assertNilF(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	assertNilF(t, err)
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	provider := &keypairJWTProvider{cfg: &Config{
		Account:    "testorg.testaccount",
		User:       "jdoe",
		PrivateKey: pemKey,
		JWTTimeout: time.Hour,
	}}
	assertEqualE(t, provider.tokenType(), tokenTypeKeypairJWT)

	tok, err := provider.fetchToken(context.Background())
	assertNilF(t, err)

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tok.value, claims, func(token *jwt.Token) (any, error) {
		return &key.PublicKey, nil
	})
	assertNilF(t, err)
	assertTrueF(t, parsed.Valid)
	assertEqualE(t, parsed.Method.Alg(), "RS256")
	assertEqualE(t, claims.Subject, "TESTORG-TESTACCOUNT.JDOE")
	assertTrueE(t, strings.HasPrefix(claims.Issuer, "TESTORG-TESTACCOUNT.JDOE.SHA256:"),
		"issuer must carry the public key fingerprint")
	assertNotNilF(t, claims.ExpiresAt)
	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assertEqualE(t, lifetime, time.Hour)
}

func TestKeypairJWTRejectsMalformedKey(t *testing.T) {
	provider := &keypairJWTProvider{cfg: &Config{
		Account:    "testorg-testaccount",
		User:       "jdoe",
		PrivateKey: []byte("not a pem block"),
		JWTTimeout: time.Hour,
	}}
	_, err := provider.fetchToken(context.Background())
	var authErr *AuthError
	assertErrorsAsF(t, err, &authErr)
	assertStringContainsE(t, err.Error(), "cannot parse private key")
}
