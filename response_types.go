// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.

package gosnowrest

// Wire shapes of the SQL API v2 statements resource.

type statementsRequest struct {
	Statement string                  `json:"statement"`
	Timeout   int64                   `json:"timeout"` // seconds
	Database  string                  `json:"database,omitempty"`
	Schema    string                  `json:"schema,omitempty"`
	Warehouse string                  `json:"warehouse,omitempty"`
	Role      string                  `json:"role,omitempty"`
	Bindings  map[string]bindingValue `json:"bindings,omitempty"`
}

// bindingValue carries one positional parameter. Values travel as strings;
// the server coerces them according to the declared type.
type bindingValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type execResponseRowType struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	Precision  int64  `json:"precision"`
	Scale      int64  `json:"scale"`
	Length     int64  `json:"length"`
	ByteLength int64  `json:"byteLength"`
	Collation  string `json:"collation"`
}

type execResponsePartitionInfo struct {
	RowCount         int64 `json:"rowCount"`
	UncompressedSize int64 `json:"uncompressedSize"`
	CompressedSize   int64 `json:"compressedSize"`
}

type execResponseResultSetMetaData struct {
	NumRows       int64                       `json:"numRows"`
	Format        string                      `json:"format"`
	RowType       []execResponseRowType       `json:"rowType"`
	PartitionInfo []execResponsePartitionInfo `json:"partitionInfo"`
}

// execResponse is the response body of submit, status and partition calls.
// A body with resultSetMetaData is terminal; a body carrying only a handle
// and an in-progress code/message is transient.
type execResponse struct {
	Code               string                         `json:"code"`
	SQLState           string                         `json:"sqlState"`
	Message            string                         `json:"message"`
	StatementHandle    string                         `json:"statementHandle"`
	StatementStatusURL string                         `json:"statementStatusUrl"`
	CreatedOn          int64                          `json:"createdOn"`
	ResultSetMetaData  *execResponseResultSetMetaData `json:"resultSetMetaData"`
	Data               [][]*string                    `json:"data"`
}
