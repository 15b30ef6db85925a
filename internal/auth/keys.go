package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// HKDF info labels; each derived key serves exactly one purpose.
const (
	signingKeyInfo = "worksheesh session signing v1"
	csrfKeyInfo    = "worksheesh csrf v1"
	derivedKeyLen  = 32
)

// ErrEmptySecret indicates no session secret was configured.
var ErrEmptySecret = errors.New("session secret is empty")

// Keys holds purpose-specific keys derived from the session secret.
type Keys struct {
	signing []byte
	csrf    []byte
}

// DeriveKeys expands the configured secret into independent signing and CSRF keys.
func DeriveKeys(secret string) (*Keys, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	signing, err := deriveKey(secret, signingKeyInfo)
	if err != nil {
		return nil, err
	}
	csrf, err := deriveKey(secret, csrfKeyInfo)
	if err != nil {
		return nil, err
	}

	return &Keys{signing: signing, csrf: csrf}, nil
}

func deriveKey(secret, info string) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	key := make([]byte, derivedKeyLen)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive %q key: %w", info, err)
	}
	return key, nil
}
