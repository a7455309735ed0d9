package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Source values for TokenInfo.
const (
	SourceEnv  = "env"
	SourceFile = "file"
	SourceBolt = "bolt"
)

// ErrEmptyToken is returned when asked to store a blank token.
var ErrEmptyToken = errors.New("empty token")

type TokenInfo struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"`     // "env" | "file" | "bolt"
	CreatedAt time.Time  `json:"created_at"` // when we saved it
	ExpiresAt *time.Time `json:"expires_at"` // read from a JWT payload, display only
}

// Store keeps the single session token.
// Get returns (nil, nil) when nobody is logged in.
type Store interface {
	Get() (*TokenInfo, error)
	Set(token string) error
	Remove() error
}

func newTokenInfo(token, source string) (*TokenInfo, error) {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return nil, ErrEmptyToken
	}
	return &TokenInfo{
		Token:     token,
		Source:    source,
		CreatedAt: time.Now(),
		ExpiresAt: expiry(token),
	}, nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}

// Claims decodes a JWT payload without verifying it. Opaque tokens return false.
func Claims(token string) (jwt.MapClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

func expiry(token string) *time.Time {
	claims, ok := Claims(token)
	if !ok {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}
