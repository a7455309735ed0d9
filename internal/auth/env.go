package auth

import (
	"fmt"
	"strings"
)

// EnvOverride serves a token from the environment ahead of the wrapped store.
// Logging out never touches an env token.
type EnvOverride struct {
	Token string
	Store Store
}

func (e *EnvOverride) Get() (*TokenInfo, error) {
	if strings.TrimSpace(e.Token) != "" {
		return newTokenInfo(e.Token, SourceEnv)
	}
	return e.Store.Get()
}

func (e *EnvOverride) Set(token string) error {
	return e.Store.Set(token)
}

func (e *EnvOverride) Remove() error {
	return e.Store.Remove()
}

// FromEnv reports whether the active token comes from the environment.
func (e *EnvOverride) FromEnv() bool {
	return strings.TrimSpace(e.Token) != ""
}

// Open picks a backend by name ("bolt" or "file") rooted at dir and wraps it
// with the env override.
func Open(backend, dir, envToken string) (*EnvOverride, error) {
	var s Store
	switch backend {
	case "", SourceBolt:
		s = NewBoltStore(dir)
	case SourceFile:
		s = NewFileStore(dir)
	default:
		return nil, fmt.Errorf("unknown token store %q (want bolt or file)", backend)
	}
	return &EnvOverride{Token: envToken, Store: s}, nil
}
