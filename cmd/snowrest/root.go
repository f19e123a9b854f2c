package main

import (
	"github.com/spf13/cobra"

	"github.com/snowflakedb/gosnowrest"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "snowrest",
		Short: "Run SQL statements through the Snowflake SQL REST API",
		Long: `snowrest executes SQL statements against a Snowflake account over the
SQL REST API, authenticating with OAuth or a registered key pair.

Connection parameters are resolved in order: the named profile from
connections.toml, SNOWREST_* environment variables, then command-line
flags. Later sources win.`,
		Version:       gosnowrest.SnowflakeGoRestVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
			if verbose {
				if err := gosnowrest.GetLogger().SetLogLevel("debug"); err != nil {
					return err
				}
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("connection", "c", "", "connection profile from connections.toml")
	flags.String("account", "", "account identifier, e.g. myorg-myaccount")
	flags.String("user", "", "login name (key-pair authentication)")
	flags.StringP("database", "d", "", "default database for the session")
	flags.String("schema", "", "default schema for the session")
	flags.String("warehouse", "", "warehouse to run statements on")
	flags.String("role", "", "role to assume")
	flags.Duration("timeout", 0, "statement timeout, e.g. 90s or 5m")
	flags.StringP("format", "f", "table", "output format: table, json")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newExecCmd())
	rootCmd.AddCommand(newSubmitCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newCancelCmd())

	return rootCmd
}
