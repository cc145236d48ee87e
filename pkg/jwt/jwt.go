package jwt

import (
	"fmt"

	"campaignqa-srv/pkg/scope"

	"github.com/golang-jwt/jwt/v5"
)

// Verify checks signature, expiry, issuer and audience, and returns the scope payload.
func (m *managerImpl) Verify(tokenString string) (scope.Payload, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if len(m.audience) > 0 {
		opts = append(opts, jwt.WithAudience(m.audience...))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return m.secretKey, nil
	}, opts...)
	if err != nil {
		return scope.Payload{}, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return scope.Payload{}, fmt.Errorf("invalid token")
	}
	return scope.Payload{
		UserID:           claims.Subject,
		Username:         claims.Email,
		Role:             claims.Role,
		RegisteredClaims: claims.RegisteredClaims,
	}, nil
}
