package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/snowflakedb/gosnowrest"
)

type execOptions struct {
	database  string
	schema    string
	warehouse string
	role      string
	timeout   time.Duration
	bindings  []string
}

func newExecCmd() *cobra.Command {
	opts := &execOptions{}

	cmd := &cobra.Command{
		Use:   "exec SQL",
		Short: "Execute a SQL statement and wait for its result",
		Example: `  # Run a query with the default connection profile
  snowrest exec "select current_version()"

  # Bind positional parameters
  snowrest exec "select * from orders where status = ?" --bind TEXT:SHIPPED

  # Override the session database for this statement only
  snowrest exec "select count(*) from t" --database ANALYTICS --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			bindings, err := parseBindings(opts.bindings)
			if err != nil {
				return err
			}
			result, err := client.Exec(cmd.Context(), &gosnowrest.StatementRequest{
				SQL:       args[0],
				Bindings:  bindings,
				Database:  opts.database,
				Schema:    opts.schema,
				Warehouse: opts.warehouse,
				Role:      opts.role,
				Timeout:   opts.timeout,
			})
			if err != nil {
				return err
			}
			format, _ := cmd.Root().PersistentFlags().GetString("format")
			return renderResult(cmd.OutOrStdout(), result, format)
		},
	}

	cmd.Flags().StringVar(&opts.database, "database", "", "database override for this statement")
	cmd.Flags().StringVar(&opts.schema, "schema", "", "schema override for this statement")
	cmd.Flags().StringVar(&opts.warehouse, "warehouse", "", "warehouse override for this statement")
	cmd.Flags().StringVar(&opts.role, "role", "", "role override for this statement")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "timeout override for this statement")
	cmd.Flags().StringArrayVar(&opts.bindings, "bind", nil, "positional binding as TYPE:VALUE, repeatable")

	return cmd
}

// parseBindings turns repeated TYPE:VALUE flags into ordinal bindings in
// flag order.
func parseBindings(specs []string) (map[int]gosnowrest.Binding, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	bindings := make(map[int]gosnowrest.Binding, len(specs))
	for i, spec := range specs {
		typ, value, err := splitBinding(spec)
		if err != nil {
			return nil, err
		}
		bindings[i+1] = gosnowrest.Binding{Type: typ, Value: value}
	}
	return bindings, nil
}

func splitBinding(spec string) (string, string, error) {
	for i := 0; i < len(spec); i++ {
		if spec[i] == ':' {
			if i == 0 {
				break
			}
			return spec[:i], spec[i+1:], nil
		}
	}
	return "", "", &bindingSyntaxError{spec: spec}
}

type bindingSyntaxError struct {
	spec string
}

func (e *bindingSyntaxError) Error() string {
	return "invalid binding " + strconv.Quote(e.spec) + ", expected TYPE:VALUE, e.g. FIXED:42"
}
