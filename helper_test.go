// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.

package gosnowrest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// newTestClient builds a client wired to an httptest server: tokens are
// requested from srv and statement calls are sent to srv instead of the
// real account origin. Poll cadence and timeout are shortened so poll-loop
// tests complete in milliseconds.
func newTestClient(t *testing.T, srv *httptest.Server, mutations ...func(*Config)) *Client {
	t.Helper()
	cfg := &Config{
		Account:              "testorg-testaccount",
		OauthClientID:        "test-client-id",
		OauthClientSecret:    "test-client-secret",
		OauthRefreshToken:    "test-refresh-token",
		OauthTokenRequestURL: srv.URL + oauthTokenRequestPath,
		PollInterval:         10 * time.Millisecond,
		StatementTimeout:     500 * time.Millisecond,
	}
	for _, mutate := range mutations {
		mutate(cfg)
	}
	client, err := NewClient(cfg)
	assertNilF(t, err, "client construction should not fail")
	client.rest.accountURL = srv.URL
	return client
}

// tokenEndpoint serves the refresh-token grant, minting token-1, token-2,
// and so on, and counting every request it sees.
func tokenEndpoint(hits *int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(hits, 1)
		serveJSON(w, http.StatusOK, map[string]any{
			"access_token": fmt.Sprintf("token-%d", n),
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}
}

func serveJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", headerContentTypeApplicationJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// successResponse builds a terminal single-partition response body.
func successResponse(handle string, columns []execResponseRowType, rows [][]*string) *execResponse {
	return &execResponse{
		Code:            "090001",
		SQLState:        "00000",
		Message:         "Statement executed successfully.",
		StatementHandle: handle,
		ResultSetMetaData: &execResponseResultSetMetaData{
			NumRows: int64(len(rows)),
			Format:  "jsonv2",
			RowType: columns,
			PartitionInfo: []execResponsePartitionInfo{
				{RowCount: int64(len(rows))},
			},
		},
		Data: rows,
	}
}

// runningResponse builds the transient body of a statement still executing.
func runningResponse(handle string) *execResponse {
	return &execResponse{
		Code:               "333334",
		Message:            "Asynchronous execution in progress.",
		StatementHandle:    handle,
		StatementStatusURL: statementsPath + "/" + handle,
	}
}

func sp(s string) *string {
	return &s
}

func singleColumn(name, typ string) []execResponseRowType {
	return []execResponseRowType{{Name: name, Type: typ, Nullable: false}}
}
