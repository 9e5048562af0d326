// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/boothpulse/models"
)

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusCreated, map[string]string{"hello": "world"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("Unexpected body: %v", body)
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
		kind   string
	}{
		{"validation", func(w http.ResponseWriter) { ValidationError(w, "bad input") }, 400, models.ErrKindValidation},
		{"locked", func(w http.ResponseWriter) { LockedError(w, "frozen") }, 400, models.ErrKindLocked},
		{"unauthorized", func(w http.ResponseWriter) { UnauthorizedError(w, "who?") }, 401, models.ErrKindUnauthorized},
		{"forbidden", func(w http.ResponseWriter) { ForbiddenError(w, "no") }, 403, models.ErrKindForbidden},
		{"not found", func(w http.ResponseWriter) { NotFoundError(w, "gone") }, 404, models.ErrKindNotFound},
		{"conflict", func(w http.ResponseWriter) { ConflictError(w, "taken") }, 409, models.ErrKindConflict},
		{"server", func(w http.ResponseWriter) { ServerError(w, "oops") }, 500, models.ErrKindServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			if w.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, w.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error body: %v", err)
			}
			if resp.Error != tt.kind {
				t.Errorf("Expected kind %q, got %q", tt.kind, resp.Error)
			}
			if resp.Message == "" {
				t.Error("Expected a message")
			}
		})
	}
}

func TestParseJSONBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"test"}`))

	var body struct {
		Name string `json:"name"`
	}
	if err := ParseJSONBody(r, &body); err != nil {
		t.Fatalf("ParseJSONBody() error = %v", err)
	}
	if body.Name != "test" {
		t.Errorf("Expected name test, got %s", body.Name)
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{not json`))
	if err := ParseJSONBody(r, &body); err == nil {
		t.Error("ParseJSONBody() accepted invalid JSON")
	}
}

func TestCORS(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	// Preflight short-circuits
	req := httptest.NewRequest("OPTIONS", "/", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected preflight 200, got %d", w.Code)
	}
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "https://dashboard.example.com" {
		t.Errorf("Unexpected allow-origin: %s", origin)
	}

	// Normal requests pass through with headers set
	req = httptest.NewRequest("GET", "/", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected handler to run, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("Expected CORS headers on normal requests")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "10.0.0.1:1234", nil, "10.0.0.1"},
		{"x-forwarded-for single", "10.0.0.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "203.0.113.7"},
		{"x-forwarded-for chain", "10.0.0.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.7, 70.1.2.3"}, "203.0.113.7"},
		{"x-real-ip", "10.0.0.1:1234", map[string]string{"X-Real-IP": "198.51.100.2"}, "198.51.100.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			if ip := GetClientIP(r); ip != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", ip, tt.want)
			}
		})
	}
}
