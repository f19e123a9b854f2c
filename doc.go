// Package gosnowrest is a Go client for the Snowflake SQL REST API.
//
// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.
//
// The client submits SQL statements to the /api/v2/statements endpoint of a
// Snowflake account and reconciles both execution models the API offers:
// synchronous execution, where Exec submits a statement and polls until a
// terminal state is reached, and asynchronous execution, where ExecAsync
// returns a statement handle for later StatementStatus and CancelStatement
// calls.
//
// Authentication is bearer-token based. The default authenticator performs
// the OAuth refresh-token grant against {account}/oauth/token-request and
// caches the access token until shortly before expiry; OAuth client
// credentials and keypair JWT authenticators are also available. The client
// never initiates a browser-based authorization flow and never writes tokens
// to disk. Obtaining the initial refresh token is a one-time setup step
// outside this package.
//
// A minimal session looks like this:
//
//	cfg := &gosnowrest.Config{
//		Account:           "myorg-myaccount",
//		OauthClientID:     clientID,
//		OauthClientSecret: clientSecret,
//		OauthRefreshToken: refreshToken,
//	}
//	client, err := gosnowrest.NewClient(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := client.Exec(ctx, &gosnowrest.StatementRequest{
//		SQL: "SELECT CURRENT_USER()",
//	})
//
// SQL-level failures are not returned as Go errors. A statement the server
// rejected with an error code yields a StatementResult with Success set to
// false and the server's error code and message attached, so callers running
// batches can inspect all outcomes uniformly. Transport, authentication,
// timeout and cancellation failures are returned as typed errors; see
// AuthError, RequestError, TimeoutError, CancellationError and ResultError.
package gosnowrest
