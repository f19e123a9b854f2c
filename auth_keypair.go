// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.

package gosnowrest

import (
	"context"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// keypairJWTProvider signs a short-lived JWT with the account's registered
// RSA key. No network call is involved; the "refresh" is a local re-sign.
type keypairJWTProvider struct {
	cfg *Config
}

func (provider *keypairJWTProvider) tokenType() string {
	return tokenTypeKeypairJWT
}

func (provider *keypairJWTProvider) fetchToken(_ context.Context) (*accessToken, error) {
	privKey, err := parsePKCS8PrivateKey(provider.cfg.PrivateKey)
	if err != nil {
		return nil, &AuthError{Message: "cannot parse private key", Body: err.Error()}
	}

	fp, err := keyFingerprint(&privKey.PublicKey)
	if err != nil {
		return nil, &AuthError{Message: "cannot compute public key fingerprint", Body: err.Error()}
	}

	account := strings.ToUpper(strings.ReplaceAll(provider.cfg.Account, ".", "-"))
	user := strings.ToUpper(provider.cfg.User)
	now := time.Now().UTC()
	expiresAt := now.Add(provider.cfg.JWTTimeout)

	claims := jwt.RegisteredClaims{
		Issuer:    fmt.Sprintf("%s.%s.%s", account, user, fp),
		Subject:   fmt.Sprintf("%s.%s", account, user),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(privKey)
	if err != nil {
		return nil, &AuthError{Message: "cannot sign JWT", Body: err.Error()}
	}
	return &accessToken{value: signed, expiresAt: expiresAt}, nil
}

func parsePKCS8PrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("invalid PEM block in private key")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("not an RSA private key")
	}
	return rsaKey, nil
}

// keyFingerprint derives the SHA256 fingerprint Snowflake registers for the
// public half of the key pair.
func keyFingerprint(pubKey *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pubKey)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(der)
	return "SHA256:" + base64.StdEncoding.EncodeToString(hash[:]), nil
}
