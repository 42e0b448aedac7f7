package auth

import (
	"strings"
	"testing"
)

func TestTokenService_IssueAndParse(t *testing.T) {
	ts := NewTokenService("test-secret-key", 0)

	tests := []struct {
		name     string
		username string
	}{
		{"simple username", "alice"},
		{"username with digits", "bob42"},
		{"long username", strings.Repeat("x", 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ts.Issue(tt.username)
			if err != nil {
				t.Fatalf("Issue() error = %v", err)
			}
			if token == "" {
				t.Fatal("Issue() returned empty token")
			}
			got, err := ts.Parse(token)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got != tt.username {
				t.Errorf("Parse() = %q, want %q", got, tt.username)
			}
		})
	}
}

func TestTokenService_Parse_Invalid(t *testing.T) {
	ts := NewTokenService("test-secret-key", 0)
	other := NewTokenService("another-secret", 0)

	token, err := ts.Issue("alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
		svc   *TokenService
	}{
		{"wrong secret", token, other},
		{"garbage token", "invalid.token.here", ts},
		{"empty token", "", ts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.svc.Parse(tt.token); err == nil {
				t.Error("Parse() should fail")
			}
		})
	}
}

func TestTokenService_Parse_Tampered(t *testing.T) {
	ts := NewTokenService("test-secret-key", 0)
	token, err := ts.Issue("alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Flipping any single character must invalidate the signature.
	b := []byte(token)
	last := len(b) - 1
	if b[last] == 'A' {
		b[last] = 'B'
	} else {
		b[last] = 'A'
	}
	if _, err := ts.Parse(string(b)); err == nil {
		t.Error("Parse() should fail for tampered token")
	}
}

func TestTokenService_Expiry(t *testing.T) {
	// Negative TTL produces an already-expired claim.
	expired := NewTokenService("test-secret", -1)
	token, err := expired.Issue("alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := expired.Parse(token); err == nil {
		t.Error("Parse() should fail for expired token")
	}

	// TTL 0 omits the expiry claim entirely; the token stays valid.
	forever := NewTokenService("test-secret", 0)
	token, err = forever.Issue("alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := forever.Parse(token); err != nil {
		t.Errorf("Parse() error = %v for token without expiry", err)
	}

	fresh := NewTokenService("test-secret", 15)
	token, err = fresh.Issue("alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := fresh.Parse(token); err != nil {
		t.Errorf("Parse() error = %v for fresh token", err)
	}
}
