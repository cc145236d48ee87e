package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campaignqa-srv/config"
	"campaignqa-srv/pkg/encrypter"
	pkgJWT "campaignqa-srv/pkg/jwt"
	"campaignqa-srv/pkg/log"
	"campaignqa-srv/pkg/scope"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtManager, err := pkgJWT.New(pkgJWT.Config{SecretKey: testSecret, Issuer: "identity"})
	if err != nil {
		t.Fatalf("jwt.New() error = %v", err)
	}
	enc := encrypter.New()
	hash, err := enc.HashSecret("s3cret")
	if err != nil {
		t.Fatalf("HashSecret() error = %v", err)
	}

	mw := New(log.NewNop(), jwtManager, config.CookieConfig{Name: "auth_token"}, map[string]string{"ads-sync": hash}, enc)

	r := gin.New()
	r.GET("/me", mw.Auth(), func(c *gin.Context) {
		c.String(http.StatusOK, scope.GetScopeFromContext(c.Request.Context()).UserID)
	})
	r.GET("/internal", mw.ServiceAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("service_name"))
	})
	return r
}

func signToken(t *testing.T, subject string) string {
	t.Helper()
	claims := pkgJWT.Claims{
		Email: "a@b.c",
		Role:  "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "identity",
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return s
}

func TestAuth(t *testing.T) {
	r := newTestRouter(t)
	token := signToken(t, "user-1")

	tests := []struct {
		name     string
		header   string
		cookie   string
		wantCode int
		wantBody string
	}{
		{name: "bearer header", header: "Bearer " + token, wantCode: http.StatusOK, wantBody: "user-1"},
		{name: "cookie fallback", cookie: token, wantCode: http.StatusOK, wantBody: "user-1"},
		{name: "missing token", wantCode: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "auth_token", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestServiceAuth(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name     string
		key      string
		wantCode int
	}{
		{name: "valid key", key: "ads-sync:s3cret", wantCode: http.StatusOK},
		{name: "wrong key", key: "ads-sync:nope", wantCode: http.StatusUnauthorized},
		{name: "unknown service", key: "other:s3cret", wantCode: http.StatusUnauthorized},
		{name: "no separator", key: "ads-sync", wantCode: http.StatusUnauthorized},
		{name: "missing header", wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/internal", nil)
			if tt.key != "" {
				req.Header.Set("X-Service-Key", tt.key)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusOK && w.Body.String() != "ads-sync" {
				t.Errorf("service_name = %q, want ads-sync", w.Body.String())
			}
		})
	}
}
