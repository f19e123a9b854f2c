// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.

package gosnowrest

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// StatementState is the client-side view of a statement's lifecycle:
// StateSubmitted and StateRunning are transient, the other three terminal.
type StatementState int

const (
	// StateSubmitted is a statement accepted by the server whose first
	// status has not been observed yet.
	StateSubmitted StatementState = iota
	// StateRunning is a statement the server reports as still executing.
	StateRunning
	// StateSucceeded is a terminal successful execution.
	StateSucceeded
	// StateFailed is a terminal execution error reported by the server.
	StateFailed
	// StateCancelled is a terminal state reached through cancellation.
	StateCancelled
)

func (state StatementState) String() string {
	return [...]string{"SUBMITTED", "RUNNING", "SUCCEEDED", "FAILED", "CANCELLED"}[state]
}

// IsTerminal reports whether no further state transition can occur.
func (state StatementState) IsTerminal() bool {
	return state >= StateSucceeded
}

// statementCancelledCode is the server error code of a statement that was
// cancelled before completing.
const statementCancelledCode = "000604"

// StatementStatus performs a single status query for a handle obtained from
// ExecAsync. It never loops or sleeps: the result is either running true
// with a nil result, or the terminal StatementResult with all partitions
// drained. A handle the server does not recognize yields a RequestError,
// never a silent completion.
func (c *Client) StatementStatus(ctx context.Context, handle StatementHandle) (result *StatementResult, running bool, err error) {
	statementPath := statementsPath + "/" + url.PathEscape(string(handle))
	status, raw, err := c.rest.doRequest(ctx, http.MethodGet, statementPath, nil, nil)
	if err != nil {
		return nil, false, err
	}
	resp, running, err := parseExecResponse(http.MethodGet, statementPath, status, raw)
	if err != nil {
		return nil, false, err
	}
	if running {
		return nil, true, nil
	}
	result, err = c.finalizeResult(ctx, resp)
	return result, false, err
}

// CancelStatement asks the server to cancel a running statement. The
// returned bool reflects whether the server acknowledged the cancellation;
// a handle that is unknown or already terminal yields false without an
// error. A cancel request that itself failed yields a CancellationError.
//
// Cancellation is cooperative and asynchronous: a concurrent Exec waiting
// on the same handle is bounded only by its own timeout, not by this call.
func (c *Client) CancelStatement(ctx context.Context, handle StatementHandle) (bool, error) {
	cancelPath := statementsPath + "/" + url.PathEscape(string(handle)) + "/cancel"
	status, raw, err := c.rest.doRequest(ctx, http.MethodPost, cancelPath, nil, nil)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			return false, &CancellationError{Handle: handle, Err: err}
		}
		return false, err
	}
	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound, http.StatusUnprocessableEntity:
		logger.WithContext(ctx).Debugf("cancel not acknowledged for statement %v (HTTP %d)", handle, status)
		return false, nil
	default:
		return false, &CancellationError{Handle: handle, HTTPStatus: status, Body: string(raw)}
	}
}
