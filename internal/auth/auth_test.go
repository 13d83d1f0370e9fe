package auth

import (
	"context"
	"testing"
	"time"
)

func TestStaticAuthenticator(t *testing.T) {
	a := NewStaticAuthenticator("admin", "s3cret")
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"valid credentials", "admin", "s3cret", true},
		{"username with whitespace", "  admin  ", "s3cret", true},
		{"wrong password", "admin", "wrong", false},
		{"wrong username", "root", "s3cret", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Authenticate(ctx, tt.username, tt.password)
			if err != nil {
				t.Fatalf("Authenticate: %v", err)
			}
			if got != tt.want {
				t.Errorf("Authenticate(%q, %q) = %v, want %v", tt.username, tt.password, got, tt.want)
			}
		})
	}
}

func TestStaticAuthenticatorUnconfigured(t *testing.T) {
	a := NewStaticAuthenticator("", "")

	if _, err := a.Authenticate(context.Background(), "admin", "x"); err == nil {
		t.Error("expected error when no credentials configured")
	}
}

func TestSessionLifecycle(t *testing.T) {
	store := NewSessionStore(time.Hour, 24*time.Hour)
	defer store.Stop()

	token, expiresAt, err := store.Create("admin", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if until := time.Until(expiresAt); until < 59*time.Minute || until > time.Hour {
		t.Errorf("expiry %v not within session TTL", until)
	}

	username, ok := store.Validate(token)
	if !ok || username != "admin" {
		t.Errorf("Validate = (%q, %v), want (admin, true)", username, ok)
	}

	store.Destroy(token)
	if _, ok := store.Validate(token); ok {
		t.Error("destroyed session still valid")
	}
}

func TestSessionRememberTTL(t *testing.T) {
	store := NewSessionStore(time.Hour, 24*time.Hour)
	defer store.Stop()

	_, expiresAt, err := store.Create("admin", true)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if until := time.Until(expiresAt); until < 23*time.Hour {
		t.Errorf("remember-me expiry %v, want about 24h", until)
	}
}

func TestSessionExpiry(t *testing.T) {
	store := NewSessionStore(-time.Second, time.Hour)
	defer store.Stop()

	token, _, err := store.Create("admin", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := store.Validate(token); ok {
		t.Error("expired session should not validate")
	}
	if store.Len() != 0 {
		t.Error("expired session not evicted on validate")
	}
}

func TestValidateUnknownToken(t *testing.T) {
	store := NewSessionStore(time.Hour, time.Hour)
	defer store.Stop()

	if _, ok := store.Validate("bogus"); ok {
		t.Error("unknown token should not validate")
	}
}
