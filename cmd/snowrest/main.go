// Package main provides the snowrest CLI, a thin command-line front end for
// running SQL statements through the Snowflake SQL REST API.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
