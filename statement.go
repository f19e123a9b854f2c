// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.

package gosnowrest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Exec submits a statement and waits for its terminal result.
//
// When the submit response is already terminal it is returned immediately
// with no polling. Otherwise the statement status is polled at the
// configured cadence until a terminal state is observed or the statement
// timeout elapses, in which case a TimeoutError is returned. The timeout
// bounds only the local wait; the statement keeps running server-side and
// cancelling it remains the caller's explicit decision via CancelStatement.
func (c *Client) Exec(ctx context.Context, req *StatementRequest) (*StatementResult, error) {
	body := buildStatementsRequest(req, c.defaults)
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	status, raw, err := c.rest.doRequest(ctx, http.MethodPost, statementsPath, nil, reqBody)
	if err != nil {
		return nil, err
	}
	resp, running, err := parseExecResponse(http.MethodPost, statementsPath, status, raw)
	if err != nil {
		return nil, err
	}
	if !running {
		return c.finalizeResult(ctx, resp)
	}

	handle := StatementHandle(resp.StatementHandle)
	ctx = context.WithValue(ctx, SFStatementHandleKey, string(handle))
	timeout := req.effectiveTimeout(c.defaults)
	deadline := time.Now().Add(timeout)
	logger.WithContext(ctx).Debugf("statement still executing, polling every %v", c.pollInterval)

	for {
		timer := time.NewTimer(c.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		// The timeout is checked before each poll so the total wait is a
		// hard upper bound.
		if !time.Now().Before(deadline) {
			return nil, &TimeoutError{Handle: handle, Timeout: timeout}
		}
		result, running, err := c.StatementStatus(ctx, handle)
		if err != nil {
			return nil, err
		}
		if !running {
			return result, nil
		}
	}
}

// ExecAsync submits a statement and returns its handle without waiting. Use
// StatementStatus to observe progress and CancelStatement to abort.
func (c *Client) ExecAsync(ctx context.Context, req *StatementRequest) (StatementHandle, error) {
	body := buildStatementsRequest(req, c.defaults)
	reqBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	params := url.Values{asyncKey: {"true"}}
	status, raw, err := c.rest.doRequest(ctx, http.MethodPost, statementsPath, params, reqBody)
	if err != nil {
		return "", err
	}
	resp, _, err := parseExecResponse(http.MethodPost, statementsPath, status, raw)
	if err != nil {
		return "", err
	}
	if resp.StatementHandle == "" {
		return "", &RequestError{
			Method:     http.MethodPost,
			URL:        statementsPath,
			HTTPStatus: status,
			Body:       string(raw),
		}
	}
	return StatementHandle(resp.StatementHandle), nil
}

// parseExecResponse classifies a statements response: 200 and 422 are
// terminal (success and statement error), 202 is still executing, anything
// else is a RequestError carrying the raw body.
func parseExecResponse(method, path string, status int, raw []byte) (resp *execResponse, running bool, err error) {
	switch status {
	case http.StatusOK, http.StatusAccepted, http.StatusUnprocessableEntity:
	default:
		return nil, false, &RequestError{Method: method, URL: path, HTTPStatus: status, Body: string(raw)}
	}
	respd := &execResponse{}
	if err := json.Unmarshal(raw, respd); err != nil {
		return nil, false, &RequestError{Method: method, URL: path, HTTPStatus: status, Body: string(raw), Err: err}
	}
	if status == http.StatusAccepted {
		if respd.StatementHandle == "" {
			return nil, false, &RequestError{Method: method, URL: path, HTTPStatus: status, Body: string(raw)}
		}
		return respd, true, nil
	}
	if status == http.StatusUnprocessableEntity && respd.StatementHandle == "" {
		// A statement error always references the statement it belongs
		// to. Without a handle this is not a recognizable statement-error
		// body, e.g. a status query for an unknown handle.
		return nil, false, &RequestError{Method: method, URL: path, HTTPStatus: status, Body: string(raw)}
	}
	return respd, false, nil
}

// finalizeResult drains the remaining partitions of a terminal response, in
// order, and normalizes the concatenated rows into one StatementResult.
func (c *Client) finalizeResult(ctx context.Context, resp *execResponse) (*StatementResult, error) {
	rows := resp.Data
	if resp.ResultSetMetaData != nil {
		statementPath := statementsPath + "/" + url.PathEscape(resp.StatementHandle)
		for i := 1; i < len(resp.ResultSetMetaData.PartitionInfo); i++ {
			params := url.Values{partitionKey: {strconv.Itoa(i)}}
			status, raw, err := c.rest.doRequest(ctx, http.MethodGet, statementPath, params, nil)
			if err != nil {
				return nil, err
			}
			part, _, err := parseExecResponse(http.MethodGet, statementPath, status, raw)
			if err != nil {
				return nil, err
			}
			rows = append(rows, part.Data...)
		}
	}
	return normalizeResult(resp, rows)
}
