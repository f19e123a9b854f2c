// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.

package gosnowrest

import (
	"fmt"
	"time"
)

// AuthError is returned when an access token cannot be acquired: the token
// endpoint responded with a non-success status, the response body did not
// contain an access_token, or a freshly refreshed token was still rejected.
// Body carries the raw server diagnostic for operator visibility.
type AuthError struct {
	HTTPStatus int
	Code       string
	Message    string
	Body       string
}

func (e *AuthError) Error() string {
	if e.HTTPStatus != 0 {
		return fmt.Sprintf("auth error (HTTP %d): %s: %s", e.HTTPStatus, e.Message, maskSecrets(e.Body))
	}
	return fmt.Sprintf("auth error: %s: %s", e.Message, maskSecrets(e.Body))
}

// RequestError is returned for transport failures and for non-2xx responses
// that do not carry a recognizable statement-error body.
type RequestError struct {
	Method     string
	URL        string
	HTTPStatus int
	Body       string
	Err        error // transport cause, nil for HTTP-level failures
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request error: %s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("request error: %s %s: HTTP %d: %s", e.Method, e.URL, e.HTTPStatus, maskSecrets(e.Body))
}

func (e *RequestError) Unwrap() error { return e.Err }

// TimeoutError is returned by Exec when the client-side wait exceeded the
// configured statement timeout. The statement is not cancelled server-side;
// cancellation remains the caller's explicit responsibility.
type TimeoutError struct {
	Handle  StatementHandle
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("statement %v did not reach a terminal state within %v", e.Handle, e.Timeout)
}

// CancellationError is returned by CancelStatement when the cancel request
// itself failed. It is distinct from a cancel the server declined, which is
// reported as an acknowledged false.
type CancellationError struct {
	Handle     StatementHandle
	HTTPStatus int
	Body       string
	Err        error
}

func (e *CancellationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to cancel statement %v: %v", e.Handle, e.Err)
	}
	return fmt.Sprintf("failed to cancel statement %v: HTTP %d: %s", e.Handle, e.HTTPStatus, maskSecrets(e.Body))
}

func (e *CancellationError) Unwrap() error { return e.Err }

// ResultError is returned when the server's result payload is internally
// inconsistent, such as a reported row count that does not match the number
// of rows actually returned.
type ResultError struct {
	Handle  StatementHandle
	Message string
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("malformed result for statement %v: %s", e.Handle, e.Message)
}
