// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Error("HashPassword() returned the plaintext")
	}

	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("CheckPassword() rejected the right password")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("CheckPassword() accepted a wrong password")
	}

	// Hashing is salted, so two hashes of the same password differ
	hash2, _ := HashPassword("correct horse battery staple")
	if hash == hash2 {
		t.Error("HashPassword() produced identical hashes (missing salt?)")
	}
}

func TestGenerateSessionToken(t *testing.T) {
	token, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	// 24 bytes base64 without padding = 32 characters
	if len(token) != 32 {
		t.Errorf("GenerateSessionToken() length = %d, want 32", len(token))
	}
	if strings.ContainsAny(token, "=+/") {
		t.Errorf("GenerateSessionToken() not URL-safe: %s", token)
	}

	// Two tokens should be different
	token2, _ := GenerateSessionToken()
	if token == token2 {
		t.Error("GenerateSessionToken() produced duplicate tokens (extremely unlikely)")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"standard", "Bearer abc123", "abc123", false},
		{"lowercase scheme", "bearer abc123", "abc123", false},
		{"missing header", "", "", true},
		{"wrong scheme", "Basic abc123", "", true},
		{"empty token", "Bearer ", "", true},
		{"scheme only", "Bearer", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			token, err := BearerToken(r)
			if tt.wantErr {
				if err != ErrNoBearerToken {
					t.Errorf("BearerToken() error = %v, want ErrNoBearerToken", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BearerToken() error = %v", err)
			}
			if token != tt.want {
				t.Errorf("BearerToken() = %q, want %q", token, tt.want)
			}
		})
	}
}
