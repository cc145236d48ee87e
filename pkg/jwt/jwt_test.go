package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func sign(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return s
}

func claimsFor(issuer string, audience []string, expiresIn time.Duration) Claims {
	now := time.Now()
	return Claims{
		Email: "a@b.c",
		Role:  "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "user-1",
			Audience:  audience,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
}

func TestNewRejectsShortSecret(t *testing.T) {
	if _, err := New(Config{SecretKey: "short"}); err == nil {
		t.Fatal("New() with short secret should fail")
	}
}

func TestVerify(t *testing.T) {
	m, err := New(Config{SecretKey: testSecret, Issuer: "identity", Audience: []string{"campaign-qa"}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	aud := []string{"campaign-qa"}

	t.Run("valid token", func(t *testing.T) {
		p, err := m.Verify(sign(t, testSecret, claimsFor("identity", aud, time.Minute)))
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if p.UserID != "user-1" || p.Username != "a@b.c" || p.Role != "user" {
			t.Errorf("Verify() payload = %+v", p)
		}
	})

	tests := []struct {
		name   string
		secret string
		claims Claims
	}{
		{"other issuer", testSecret, claimsFor("someone-else", aud, time.Minute)},
		{"other audience", testSecret, claimsFor("identity", []string{"billing"}, time.Minute)},
		{"other secret", testSecret + "x", claimsFor("identity", aud, time.Minute)},
		{"expired", testSecret, claimsFor("identity", aud, -time.Minute)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Verify(sign(t, tt.secret, tt.claims)); err == nil {
				t.Error("Verify() should reject the token")
			}
		})
	}

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Verify("not-a-jwt"); err == nil {
			t.Error("Verify() should reject a malformed token")
		}
	})
}
