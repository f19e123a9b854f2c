// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.

package gosnowrest

import "fmt"

const (
	headerAuthorizationKey = "Authorization"
	headerBearerPrefix     = "Bearer "

	headerContentTypeApplicationJSON = "application/json"
	headerAcceptTypeApplicationJSON  = "application/json"

	// The SQL API requires the token type to be declared alongside the
	// bearer header.
	headerSnowflakeTokenType = "X-Snowflake-Authorization-Token-Type"

	tokenTypeOAuth      = "OAUTH"
	tokenTypeKeypairJWT = "KEYPAIR_JWT"

	oauthTokenRequestPath = "/oauth/token-request"
	statementsPath        = "/api/v2/statements"

	// requestId is attached to every statements call and regenerated on
	// the token-refresh retry.
	requestIDKey = "requestId"
	asyncKey     = "async"
	partitionKey = "partition"
)

// ClientType is the client application type reported in the User-Agent.
const ClientType = "Go"

var userAgent = fmt.Sprintf("%s/%s", ClientType, SnowflakeGoRestVersion)
