// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.

package gosnowrest

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// AuthType indicates the mechanism used to mint bearer tokens for SQL API
// calls.
type AuthType int

const (
	// AuthTypeOAuthRefreshToken performs the OAuth refresh-token grant
	// against the account's token endpoint. This is the default.
	AuthTypeOAuthRefreshToken AuthType = iota
	// AuthTypeOAuthClientCredentials performs the OAuth client-credentials
	// grant.
	AuthTypeOAuthClientCredentials
	// AuthTypeKeypairJWT signs a short-lived JWT with the configured RSA
	// private key.
	AuthTypeKeypairJWT
)

func (authType AuthType) String() string {
	switch authType {
	case AuthTypeOAuthRefreshToken:
		return "OAUTH_REFRESH_TOKEN"
	case AuthTypeOAuthClientCredentials:
		return "OAUTH_CLIENT_CREDENTIALS"
	case AuthTypeKeypairJWT:
		return "SNOWFLAKE_JWT"
	default:
		return "UNKNOWN"
	}
}

var (
	errEmptyAccount       = errors.New("account is empty")
	errEmptyOAuthClient   = errors.New("oauth client id and client secret are required")
	errEmptyRefreshToken  = errors.New("oauth refresh token is empty")
	errEmptyPrivateKey    = errors.New("private key is required for keypair authentication")
	errEmptyUser          = errors.New("user is required for keypair authentication")
	errUnknownAuthType    = errors.New("unknown authenticator type")
)

// errMsgMissingEnvVariable is the error message for a required environment
// variable that is not set.
const errMsgMissingEnvVariable = "%v environment variable is not set"

const (
	defaultStatementTimeout = 60 * time.Second
	defaultPollInterval     = 1 * time.Second
	defaultLoginTimeout     = 60 * time.Second
	defaultRequestTimeout   = 0 // rely on per-call contexts
	defaultJWTTimeout       = 1 * time.Hour
)

// Config holds the session parameters of a Client. The credential fields are
// read once by NewClient and never mutated afterwards; obtaining the refresh
// token through the one-time authorization flow happens outside this
// package.
type Config struct {
	Account string // account identifier, e.g. myorg-myaccount
	User    string // login name, required for keypair authentication

	Authenticator AuthType

	OauthClientID        string
	OauthClientSecret    string
	OauthRefreshToken    string
	OauthTokenRequestURL string // derived from Account when empty
	OauthScope           string // comma separated; defaults to session:role:<Role>

	PrivateKey []byte // PEM encoded PKCS8 RSA key for keypair authentication

	Database  string // default database, overridable per statement
	Schema    string // default schema
	Warehouse string // default warehouse
	Role      string // default role

	StatementTimeout time.Duration // default statement timeout, 60s when zero
	PollInterval     time.Duration // status poll cadence of Exec, 1s when zero
	LoginTimeout     time.Duration // timeout of token endpoint calls
	JWTTimeout       time.Duration // keypair JWT validity window

	Transporter http.RoundTripper // overrides the default transport
}

// accountURL returns the https origin of the account.
func (cfg *Config) accountURL() string {
	return fmt.Sprintf("https://%v.snowflakecomputing.com", cfg.Account)
}

func (cfg *Config) tokenRequestURL() string {
	if cfg.OauthTokenRequestURL != "" {
		return cfg.OauthTokenRequestURL
	}
	return cfg.accountURL() + oauthTokenRequestPath
}

// fillMissingConfigParameters applies defaults and validates that the
// selected authenticator has the credentials it needs.
func fillMissingConfigParameters(cfg *Config) error {
	if strings.TrimSpace(cfg.Account) == "" {
		return errEmptyAccount
	}
	switch cfg.Authenticator {
	case AuthTypeOAuthRefreshToken:
		if cfg.OauthClientID == "" || cfg.OauthClientSecret == "" {
			return errEmptyOAuthClient
		}
		if cfg.OauthRefreshToken == "" {
			return errEmptyRefreshToken
		}
	case AuthTypeOAuthClientCredentials:
		if cfg.OauthClientID == "" || cfg.OauthClientSecret == "" {
			return errEmptyOAuthClient
		}
	case AuthTypeKeypairJWT:
		if len(cfg.PrivateKey) == 0 {
			return errEmptyPrivateKey
		}
		if cfg.User == "" {
			return errEmptyUser
		}
	default:
		return errUnknownAuthType
	}
	if cfg.StatementTimeout == 0 {
		cfg.StatementTimeout = defaultStatementTimeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.LoginTimeout == 0 {
		cfg.LoginTimeout = defaultLoginTimeout
	}
	if cfg.JWTTimeout == 0 {
		cfg.JWTTimeout = defaultJWTTimeout
	}
	return nil
}

// ConfigParam maps a Config field to the environment variable it is read
// from.
type ConfigParam struct {
	Name          string
	EnvName       string
	FailOnMissing bool
}

// GetConfigFromEnv reads the listed parameters from the environment into a
// Config. Parameters marked FailOnMissing cause an error when unset.
func GetConfigFromEnv(properties []*ConfigParam) (*Config, error) {
	cfg := &Config{}
	for _, prop := range properties {
		value := os.Getenv(prop.EnvName)
		if value == "" {
			if prop.FailOnMissing {
				return nil, fmt.Errorf(errMsgMissingEnvVariable, prop.EnvName)
			}
			continue
		}
		switch prop.Name {
		case "Account":
			cfg.Account = value
		case "User":
			cfg.User = value
		case "OauthClientID":
			cfg.OauthClientID = value
		case "OauthClientSecret":
			cfg.OauthClientSecret = value
		case "OauthRefreshToken":
			cfg.OauthRefreshToken = value
		case "OauthTokenRequestURL":
			cfg.OauthTokenRequestURL = value
		case "OauthScope":
			cfg.OauthScope = value
		case "Database":
			cfg.Database = value
		case "Schema":
			cfg.Schema = value
		case "Warehouse":
			cfg.Warehouse = value
		case "Role":
			cfg.Role = value
		case "PrivateKeyFile":
			key, err := os.ReadFile(value)
			if err != nil {
				return nil, fmt.Errorf("cannot read private key file %v: %w", value, err)
			}
			cfg.PrivateKey = key
		default:
			return nil, fmt.Errorf("unknown config parameter: %v", prop.Name)
		}
	}
	return cfg, nil
}

// EnvConfigParams is the standard environment variable contract of the
// refresh-token flow.
var EnvConfigParams = []*ConfigParam{
	{Name: "Account", EnvName: "SNOWFLAKE_ACCOUNT_IDENTIFIER", FailOnMissing: true},
	{Name: "OauthClientID", EnvName: "OAUTH_CLIENT_ID", FailOnMissing: true},
	{Name: "OauthClientSecret", EnvName: "OAUTH_CLIENT_SECRET", FailOnMissing: true},
	{Name: "OauthRefreshToken", EnvName: "OAUTH_REFRESH_TOKEN", FailOnMissing: true},
	{Name: "Database", EnvName: "SNOWFLAKE_DATABASE", FailOnMissing: false},
	{Name: "Schema", EnvName: "SNOWFLAKE_SCHEMA", FailOnMissing: false},
	{Name: "Warehouse", EnvName: "SNOWFLAKE_WAREHOUSE", FailOnMissing: false},
	{Name: "Role", EnvName: "SNOWFLAKE_ROLE", FailOnMissing: false},
}
