package encrypter

import "testing"

func TestSecretHashing(t *testing.T) {
	e := New()
	hash, err := e.HashSecret("svc-key-1")
	if err != nil {
		t.Fatalf("HashSecret() error = %v", err)
	}

	tests := []struct {
		name   string
		secret string
		hash   string
		want   bool
	}{
		{"matching secret", "svc-key-1", hash, true},
		{"wrong secret", "svc-key-2", hash, false},
		{"empty secret", "", hash, false},
		{"empty hash", "svc-key-1", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.VerifySecret(tt.secret, tt.hash); got != tt.want {
				t.Errorf("VerifySecret() = %v, want %v", got, tt.want)
			}
		})
	}
}
