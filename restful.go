// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.

package gosnowrest

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

var snowflakeTransport = &http.Transport{
	MaxIdleConns:    10,
	IdleConnTimeout: 30 * time.Minute,
}

// restClient owns the HTTP plumbing shared by all statement operations: URL
// assembly, bearer headers, requestId stamping and the
// refresh-once-then-retry handling of expired tokens.
type restClient struct {
	accountURL string
	client     *http.Client
	tokens     *tokenManager
	tokenType  string
}

// doRequest issues one authenticated call against the statements resource.
// A 401 response triggers exactly one token refresh and one retry of the
// same request; it is never an unbounded loop. The requestId parameter is
// regenerated for the retry so the server does not collapse it into the
// rejected attempt.
func (sr *restClient) doRequest(ctx context.Context, method, path string, params url.Values, body []byte) (int, []byte, error) {
	status, respBody, err := sr.doRequestOnce(ctx, method, path, params, body)
	if err != nil {
		return 0, nil, err
	}
	if status == http.StatusUnauthorized {
		logger.WithContext(ctx).Debug("access token rejected, refreshing and retrying once")
		sr.tokens.invalidate()
		status, respBody, err = sr.doRequestOnce(ctx, method, path, params, body)
		if err != nil {
			return 0, nil, err
		}
		if status == http.StatusUnauthorized {
			return 0, nil, &AuthError{
				HTTPStatus: status,
				Message:    "server rejected a freshly refreshed token",
				Body:       string(respBody),
			}
		}
	}
	return status, respBody, nil
}

func (sr *restClient) doRequestOnce(ctx context.Context, method, path string, params url.Values, body []byte) (int, []byte, error) {
	tok, err := sr.tokens.getValidToken(ctx)
	if err != nil {
		return 0, nil, err
	}

	fullURL := sr.buildURL(path, params)
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set(headerAuthorizationKey, headerBearerPrefix+tok.value)
	req.Header.Set(headerSnowflakeTokenType, sr.tokenType)
	req.Header.Set("Content-Type", headerContentTypeApplicationJSON)
	req.Header.Set("Accept", headerAcceptTypeApplicationJSON)
	req.Header.Set("User-Agent", userAgent)

	logger.WithContext(ctx).Debugf("%v %v", method, path)
	resp, err := sr.client.Do(req)
	if err != nil {
		return 0, nil, &RequestError{Method: method, URL: fullURL, Err: err}
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &RequestError{Method: method, URL: fullURL, HTTPStatus: resp.StatusCode, Err: err}
	}
	return resp.StatusCode, respBody, nil
}

// buildURL attaches a fresh requestId to every call.
func (sr *restClient) buildURL(path string, params url.Values) string {
	merged := url.Values{}
	for k, vs := range params {
		merged[k] = vs
	}
	merged.Set(requestIDKey, uuid.New().String())
	return sr.accountURL + path + "?" + merged.Encode()
}
