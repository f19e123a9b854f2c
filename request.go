// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.

package gosnowrest

import (
	"strconv"
	"time"
)

// SessionDefaults are applied to a statement when the request omits the
// corresponding field. They are captured from Config at client construction.
type SessionDefaults struct {
	Database  string
	Schema    string
	Warehouse string
	Role      string
	Timeout   time.Duration
}

// Binding is one positional statement parameter. Type is a Snowflake binding
// type name such as FIXED, TEXT, REAL or BOOLEAN; Value is its string
// rendering. Values pass through untyped, the server performs the coercion.
// Use bindings for untrusted input instead of interpolating into SQL text.
type Binding struct {
	Type  string
	Value string
}

// StatementRequest describes one SQL statement execution. A request is built
// fresh per call and never shared. The zero value of every optional field
// defers to the client's SessionDefaults.
type StatementRequest struct {
	SQL       string
	Bindings  map[int]Binding // keyed by 1-based ordinal position
	Timeout   time.Duration
	Database  string
	Schema    string
	Warehouse string
	Role      string
}

// effectiveTimeout resolves the statement timeout: per-call override wins,
// then the session default, then the package default.
func (req *StatementRequest) effectiveTimeout(defaults SessionDefaults) time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	if defaults.Timeout > 0 {
		return defaults.Timeout
	}
	return defaultStatementTimeout
}

// buildStatementsRequest merges session defaults with per-call overrides
// into the wire body. Overrides always win; fields empty in both are left
// out of the payload. SQL text is passed through unvalidated.
func buildStatementsRequest(req *StatementRequest, defaults SessionDefaults) statementsRequest {
	pick := func(override, def string) string {
		if override != "" {
			return override
		}
		return def
	}
	body := statementsRequest{
		Statement: req.SQL,
		Timeout:   int64(req.effectiveTimeout(defaults) / time.Second),
		Database:  pick(req.Database, defaults.Database),
		Schema:    pick(req.Schema, defaults.Schema),
		Warehouse: pick(req.Warehouse, defaults.Warehouse),
		Role:      pick(req.Role, defaults.Role),
	}
	if len(req.Bindings) > 0 {
		body.Bindings = make(map[string]bindingValue, len(req.Bindings))
		for pos, b := range req.Bindings {
			body.Bindings[strconv.Itoa(pos)] = bindingValue{Type: b.Type, Value: b.Value}
		}
	}
	return body
}
