// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.

package gosnowrest

import "fmt"

// StatementHandle is the opaque server-issued identifier that correlates
// submit, status and cancel calls for one statement. It is valid only after
// a successful submit and until a terminal state is observed.
type StatementHandle string

// ColumnType describes one column of a result set. Type is the server's
// declared type name, passed through verbatim; no client-side coercion is
// applied.
type ColumnType struct {
	Name     string
	Type     string
	Nullable bool
}

// StatementResult is the uniform, immutable outcome of one statement. Row
// values are the server's string renderings; nil marks SQL NULL. Callers
// needing native numeric types parse explicitly, which avoids silent
// precision loss on large integers and decimals.
//
// A server-reported SQL error is a result with Success false and the error
// code and message attached, not a Go error, so batch callers can inspect
// every outcome the same way.
type StatementResult struct {
	Handle   StatementHandle
	State    StatementState
	Success  bool
	RowCount int64
	Columns  []ColumnType
	Rows     [][]*string

	ErrorCode    string
	ErrorMessage string
	SQLState     string
}

// normalizeResult maps a terminal response body, with all partitions already
// drained into rows, to a StatementResult. The server-reported row count is
// cross-checked against the rows actually received; a mismatch is a
// ResultError, never silently trusted.
func normalizeResult(resp *execResponse, rows [][]*string) (*StatementResult, error) {
	handle := StatementHandle(resp.StatementHandle)
	if resp.ResultSetMetaData == nil {
		// Terminal failure reported by the server.
		state := StateFailed
		if resp.Code == statementCancelledCode {
			state = StateCancelled
		}
		return &StatementResult{
			Handle:       handle,
			State:        state,
			Success:      false,
			ErrorCode:    resp.Code,
			ErrorMessage: resp.Message,
			SQLState:     resp.SQLState,
		}, nil
	}

	if resp.ResultSetMetaData.NumRows != int64(len(rows)) {
		return nil, &ResultError{
			Handle: handle,
			Message: fmt.Sprintf("server reported %d rows but %d were returned",
				resp.ResultSetMetaData.NumRows, len(rows)),
		}
	}

	columns := make([]ColumnType, len(resp.ResultSetMetaData.RowType))
	for i, rt := range resp.ResultSetMetaData.RowType {
		columns[i] = ColumnType{Name: rt.Name, Type: rt.Type, Nullable: rt.Nullable}
	}

	return &StatementResult{
		Handle:   handle,
		State:    StateSucceeded,
		Success:  true,
		RowCount: int64(len(rows)),
		Columns:  columns,
		Rows:     rows,
	}, nil
}

// ColumnNames returns the column names in result order.
func (res *StatementResult) ColumnNames() []string {
	names := make([]string, len(res.Columns))
	for i, col := range res.Columns {
		names[i] = col.Name
	}
	return names
}

// Value returns the cell at the given row and column, with ok false for SQL
// NULL.
func (res *StatementResult) Value(row, col int) (string, bool) {
	v := res.Rows[row][col]
	if v == nil {
		return "", false
	}
	return *v, true
}
