// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.

package gosnowrest

import (
	"net/http"
	"time"
)

// Client executes SQL statements against the Snowflake SQL REST API of one
// account. A Client is safe for concurrent use: the token cache is the only
// mutable state and it is synchronized internally. Statements submitted
// concurrently are independent; there is no implicit ordering between them.
type Client struct {
	cfg          *Config
	rest         *restClient
	defaults     SessionDefaults
	pollInterval time.Duration
}

// NewClient validates the configuration, fills in defaults and constructs a
// client. The credentials are captured once; a Client holds exactly one
// token cache, so multi-user scenarios require one Client per user.
func NewClient(cfg *Config) (*Client, error) {
	if err := fillMissingConfigParameters(cfg); err != nil {
		return nil, err
	}

	transport := http.RoundTripper(snowflakeTransport)
	if cfg.Transporter != nil {
		transport = cfg.Transporter
	}
	httpClient := &http.Client{Transport: transport}

	provider, err := newTokenProvider(cfg, httpClient)
	if err != nil {
		return nil, err
	}

	rest := &restClient{
		accountURL: cfg.accountURL(),
		client:     httpClient,
		tokens:     newTokenManager(provider),
		tokenType:  provider.tokenType(),
	}

	return &Client{
		cfg:  cfg,
		rest: rest,
		defaults: SessionDefaults{
			Database:  cfg.Database,
			Schema:    cfg.Schema,
			Warehouse: cfg.Warehouse,
			Role:      cfg.Role,
			Timeout:   cfg.StatementTimeout,
		},
		pollInterval: cfg.PollInterval,
	}, nil
}

func newTokenProvider(cfg *Config, httpClient *http.Client) (tokenProvider, error) {
	switch cfg.Authenticator {
	case AuthTypeOAuthRefreshToken:
		return &oauthRefreshTokenProvider{cfg: cfg, client: httpClient}, nil
	case AuthTypeOAuthClientCredentials:
		return &oauthClientCredentialsProvider{cfg: cfg, client: httpClient}, nil
	case AuthTypeKeypairJWT:
		return &keypairJWTProvider{cfg: cfg}, nil
	default:
		return nil, errUnknownAuthType
	}
}
