package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/snowflakedb/gosnowrest"
)

func renderResult(w io.Writer, result *gosnowrest.StatementResult, format string) error {
	if !result.Success {
		_, err := fmt.Fprintf(w, "statement %v %v\ncode: %v sqlState: %v\n%v\n",
			result.Handle, result.State, result.ErrorCode, result.SQLState, result.ErrorMessage)
		return err
	}
	switch format {
	case "json":
		return renderJSON(w, result)
	default:
		return renderTable(w, result)
	}
}

func renderTable(w io.Writer, result *gosnowrest.StatementResult) error {
	if result.RowCount == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	cols := result.ColumnNames()
	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for i := range result.Rows {
		row := make(table.Row, len(cols))
		for j := range cols {
			if v, ok := result.Value(i, j); ok {
				row[j] = v
			} else {
				row[j] = "NULL"
			}
		}
		t.AppendRow(row)
	}

	t.Render()
	_, err := fmt.Fprintf(w, "(%d rows)\n", result.RowCount)
	return err
}

// renderJSON emits rows as objects keyed by column name; SQL NULL becomes
// JSON null.
func renderJSON(w io.Writer, result *gosnowrest.StatementResult) error {
	cols := result.ColumnNames()
	rows := make([]map[string]any, len(result.Rows))
	for i := range result.Rows {
		row := make(map[string]any, len(cols))
		for j, col := range cols {
			if v, ok := result.Value(i, j); ok {
				row[col] = v
			} else {
				row[col] = nil
			}
		}
		rows[i] = row
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
