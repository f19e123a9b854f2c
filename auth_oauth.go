// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.

package gosnowrest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// defaultTokenLifetime is assumed when the token endpoint omits expires_in.
const defaultTokenLifetime = 600 * time.Second

type tokenRequestResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Error        string `json:"error"`
	Message      string `json:"message"`
}

// oauthRefreshTokenProvider mints access tokens through the refresh-token
// grant. The refresh token itself is long-lived and supplied once via
// Config; a rotated refresh_token in the response is ignored because the
// grant does not require rotation and the Config is immutable.
type oauthRefreshTokenProvider struct {
	cfg    *Config
	client *http.Client
}

func (provider *oauthRefreshTokenProvider) tokenType() string {
	return tokenTypeOAuth
}

func (provider *oauthRefreshTokenProvider) fetchToken(ctx context.Context) (*accessToken, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", provider.cfg.OauthRefreshToken)
	data.Set("client_id", provider.cfg.OauthClientID)
	data.Set("client_secret", provider.cfg.OauthClientSecret)

	tokenURL := provider.cfg.tokenRequestURL()
	logger.WithContext(ctx).Debugf("requesting access token from %v", tokenURL)

	ctx, cancel := context.WithTimeout(ctx, provider.cfg.LoginTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := provider.client.Do(req)
	if err != nil {
		return nil, &AuthError{Message: "token request failed", Body: err.Error()}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AuthError{HTTPStatus: resp.StatusCode, Message: "cannot read token response", Body: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &AuthError{
			HTTPStatus: resp.StatusCode,
			Message:    "token endpoint returned non-success status",
			Body:       string(body),
		}
	}

	var respd tokenRequestResponse
	if err = json.Unmarshal(body, &respd); err != nil {
		return nil, &AuthError{
			HTTPStatus: resp.StatusCode,
			Message:    "cannot decode token response",
			Body:       string(body),
		}
	}
	if respd.AccessToken == "" {
		return nil, &AuthError{
			HTTPStatus: resp.StatusCode,
			Code:       respd.Error,
			Message:    "token response missing access_token",
			Body:       string(body),
		}
	}

	lifetime := time.Duration(respd.ExpiresIn) * time.Second
	if lifetime == 0 {
		lifetime = defaultTokenLifetime
	}
	return &accessToken{
		value:     respd.AccessToken,
		expiresAt: time.Now().Add(lifetime),
	}, nil
}

// oauthClientCredentialsProvider mints access tokens through the OAuth
// client-credentials grant.
type oauthClientCredentialsProvider struct {
	cfg    *Config
	client *http.Client
}

func (provider *oauthClientCredentialsProvider) tokenType() string {
	return tokenTypeOAuth
}

func (provider *oauthClientCredentialsProvider) fetchToken(ctx context.Context) (*accessToken, error) {
	oauth2cfg := provider.buildClientCredentialsConfig()
	ctx, cancel := context.WithTimeout(ctx, provider.cfg.LoginTimeout)
	defer cancel()
	token, err := oauth2cfg.Token(context.WithValue(ctx, oauth2.HTTPClient, provider.client))
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, &AuthError{
				HTTPStatus: retrieveErr.Response.StatusCode,
				Code:       retrieveErr.ErrorCode,
				Message:    "client credentials grant failed",
				Body:       string(retrieveErr.Body),
			}
		}
		return nil, &AuthError{Message: "client credentials grant failed", Body: err.Error()}
	}
	expiry := token.Expiry
	if expiry.IsZero() {
		expiry = time.Now().Add(defaultTokenLifetime)
	}
	return &accessToken{value: token.AccessToken, expiresAt: expiry}, nil
}

func (provider *oauthClientCredentialsProvider) buildClientCredentialsConfig() *clientcredentials.Config {
	return &clientcredentials.Config{
		ClientID:     provider.cfg.OauthClientID,
		ClientSecret: provider.cfg.OauthClientSecret,
		TokenURL:     provider.cfg.tokenRequestURL(),
		Scopes:       buildScopes(provider.cfg),
		AuthStyle:    oauth2.AuthStyleInParams,
	}
}

func buildScopes(cfg *Config) []string {
	if cfg.OauthScope == "" {
		if cfg.Role == "" {
			return nil
		}
		return []string{"session:role:" + cfg.Role}
	}
	scopes := strings.Split(cfg.OauthScope, ",")
	for i, scope := range scopes {
		scopes[i] = strings.TrimSpace(scope)
	}
	return scopes
}
