// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.

package gosnowrest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	snowflakeHomeEnv      = "SNOWFLAKE_HOME"
	defaultConnectionName = "default"
	connectionsFileName   = "connections.toml"
)

type connectionProfile struct {
	Account              string `toml:"account"`
	User                 string `toml:"user"`
	Authenticator        string `toml:"authenticator"`
	OauthClientID        string `toml:"oauth_client_id"`
	OauthClientSecret    string `toml:"oauth_client_secret"`
	OauthRefreshToken    string `toml:"oauth_refresh_token"`
	OauthTokenRequestURL string `toml:"oauth_token_request_url"`
	OauthScope           string `toml:"oauth_scope"`
	PrivateKeyFile       string `toml:"private_key_file"`
	Database             string `toml:"database"`
	Schema               string `toml:"schema"`
	Warehouse            string `toml:"warehouse"`
	Role                 string `toml:"role"`
}

// LoadConnectionConfig reads the named connection profile from
// connections.toml. The file is looked up under $SNOWFLAKE_HOME, then
// ~/.snowflake. An empty name selects the "default" profile.
func LoadConnectionConfig(name string) (*Config, error) {
	if name == "" {
		name = defaultConnectionName
	}
	path, err := connectionsFilePath()
	if err != nil {
		return nil, err
	}
	profiles := map[string]connectionProfile{}
	if _, err := toml.DecodeFile(path, &profiles); err != nil {
		return nil, fmt.Errorf("cannot parse %v: %w", path, err)
	}
	profile, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("connection %v is not defined in %v", name, path)
	}
	return profileToConfig(&profile)
}

func connectionsFilePath() (string, error) {
	if home := os.Getenv(snowflakeHomeEnv); home != "" {
		return filepath.Join(home, connectionsFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".snowflake", connectionsFileName), nil
}

func profileToConfig(profile *connectionProfile) (*Config, error) {
	cfg := &Config{
		Account:              profile.Account,
		User:                 profile.User,
		OauthClientID:        profile.OauthClientID,
		OauthClientSecret:    profile.OauthClientSecret,
		OauthRefreshToken:    profile.OauthRefreshToken,
		OauthTokenRequestURL: profile.OauthTokenRequestURL,
		OauthScope:           profile.OauthScope,
		Database:             profile.Database,
		Schema:               profile.Schema,
		Warehouse:            profile.Warehouse,
		Role:                 profile.Role,
	}
	switch profile.Authenticator {
	case "", "oauth":
		cfg.Authenticator = AuthTypeOAuthRefreshToken
	case "oauth_client_credentials":
		cfg.Authenticator = AuthTypeOAuthClientCredentials
	case "snowflake_jwt":
		cfg.Authenticator = AuthTypeKeypairJWT
	default:
		return nil, fmt.Errorf("unknown authenticator in connection profile: %v", profile.Authenticator)
	}
	if profile.PrivateKeyFile != "" {
		key, err := os.ReadFile(profile.PrivateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("cannot read private key file %v: %w", profile.PrivateKeyFile, err)
		}
		cfg.PrivateKey = key
	}
	return cfg, nil
}
