package utils

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"
)

// Manager issues opaque refresh tokens. Access tokens are signed JWTs and
// are built where the signing key lives.
type Manager struct {
	signingKey string
}

func NewManager(signingKey string) (*Manager, error) {
	if signingKey == "" {
		return nil, errors.New("empty signing key")
	}

	return &Manager{signingKey: signingKey}, nil
}

// SigningKey exposes the HMAC key for callers that build signed JWTs.
func (m *Manager) SigningKey() string {
	return m.signingKey
}

func (m *Manager) NewRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", b), nil
}
