package jwt

import "github.com/golang-jwt/jwt/v5"

// Config holds JWT manager configuration.
type Config struct {
	SecretKey string
	Issuer    string
	Audience  []string
}

type managerImpl struct {
	secretKey []byte
	issuer    string
	audience  []string
}

// Claims represents JWT claims structure.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}
