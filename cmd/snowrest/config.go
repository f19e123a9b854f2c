package main

import (
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/snowflakedb/gosnowrest"
)

// envPrefix is stripped from environment variables before they become
// config keys: SNOWREST_OAUTH_CLIENT_ID turns into oauth_client_id.
const envPrefix = "SNOWREST_"

// loadConfig resolves the client configuration for one invocation. A named
// profile from connections.toml forms the base; SNOWREST_* environment
// variables and changed command-line flags override individual fields.
func loadConfig(flags *pflag.FlagSet) (*gosnowrest.Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, err
	}

	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
	}), nil); err != nil {
		return nil, err
	}

	var cfg *gosnowrest.Config
	if profile := k.String("connection"); profile != "" {
		loaded, err := gosnowrest.LoadConnectionConfig(profile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = &gosnowrest.Config{}
	}

	setString := func(dst *string, key string) {
		if v := k.String(key); v != "" {
			*dst = v
		}
	}
	setString(&cfg.Account, "account")
	setString(&cfg.User, "user")
	setString(&cfg.OauthClientID, "oauth_client_id")
	setString(&cfg.OauthClientSecret, "oauth_client_secret")
	setString(&cfg.OauthRefreshToken, "oauth_refresh_token")
	setString(&cfg.OauthTokenRequestURL, "oauth_token_request_url")
	setString(&cfg.OauthScope, "oauth_scope")
	setString(&cfg.Database, "database")
	setString(&cfg.Schema, "schema")
	setString(&cfg.Warehouse, "warehouse")
	setString(&cfg.Role, "role")

	if v := k.Duration("timeout"); v > 0 {
		cfg.StatementTimeout = v
	}
	if v := k.Duration("poll_interval"); v > 0 {
		cfg.PollInterval = v
	}
	switch k.String("authenticator") {
	case "":
	case "oauth":
		cfg.Authenticator = gosnowrest.AuthTypeOAuthRefreshToken
	case "oauth_client_credentials":
		cfg.Authenticator = gosnowrest.AuthTypeOAuthClientCredentials
	case "snowflake_jwt":
		cfg.Authenticator = gosnowrest.AuthTypeKeypairJWT
	}

	return cfg, nil
}

func newClient(flags *pflag.FlagSet) (*gosnowrest.Client, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	return gosnowrest.NewClient(cfg)
}
