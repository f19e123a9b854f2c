// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.

package gosnowrest

// SnowflakeGoRestVersion is the version of the Go Snowflake SQL API client.
const SnowflakeGoRestVersion = "0.2.0"
