package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snowflakedb/gosnowrest"
)

func newSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit SQL",
		Short: "Submit a SQL statement without waiting and print its handle",
		Example: `  snowrest submit "call refresh_all_marts()"
  snowrest status 01b2c3d4-0000-1234-0000-000000000001`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			handle, err := client.ExecAsync(cmd.Context(), &gosnowrest.StatementRequest{SQL: args[0]})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), handle)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status HANDLE",
		Short: "Check a submitted statement and print its result when finished",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			handle := gosnowrest.StatementHandle(args[0])
			result, running, err := client.StatementStatus(cmd.Context(), handle)
			if err != nil {
				return err
			}
			if running {
				fmt.Fprintf(cmd.OutOrStdout(), "statement %v is still running\n", handle)
				return nil
			}
			format, _ := cmd.Root().PersistentFlags().GetString("format")
			return renderResult(cmd.OutOrStdout(), result, format)
		},
	}
}

func newCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel HANDLE",
		Short: "Cancel a running statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			handle := gosnowrest.StatementHandle(args[0])
			acknowledged, err := client.CancelStatement(cmd.Context(), handle)
			if err != nil {
				return err
			}
			if acknowledged {
				fmt.Fprintf(cmd.OutOrStdout(), "statement %v canceled\n", handle)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "statement %v was not running\n", handle)
			}
			return nil
		},
	}
}
