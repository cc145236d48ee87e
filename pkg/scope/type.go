package scope

import "github.com/golang-jwt/jwt/v5"

// Payload is the verified identity carried by an access token.
type Payload struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Manager verifies access tokens.
type Manager interface {
	Verify(token string) (Payload, error)
}

type ctxKey int

const (
	payloadKey ctxKey = iota
	scopeKey
)
