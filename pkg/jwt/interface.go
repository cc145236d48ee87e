package jwt

import (
	"fmt"

	"campaignqa-srv/pkg/scope"
)

// IManager verifies HS256 access tokens issued by the identity service.
// Implementations are safe for concurrent use.
type IManager interface {
	scope.Manager
}

// New creates a new JWT manager. Returns the interface.
func New(cfg Config) (IManager, error) {
	if len(cfg.SecretKey) < MinSecretKeyLen {
		return nil, fmt.Errorf("secret key must be at least %d characters long, got %d", MinSecretKeyLen, len(cfg.SecretKey))
	}
	return &managerImpl{
		secretKey: []byte(cfg.SecretKey),
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
	}, nil
}
