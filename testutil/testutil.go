// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/boothpulse/auth"
	"github.com/danielhkuo/boothpulse/cliparse"
	"github.com/danielhkuo/boothpulse/db"
)

// SetupTestDB creates a fresh in-memory database with the full schema.
// Each call gets its own database, so tests never see each other's rows.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// An in-memory database exists per connection; a second pooled
	// connection would see an empty database
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     ":memory:",
		DatabaseType:    "sqlite",
		SessionTTLHours: 24,
	}
}

// CreateTestUser creates a user with an active session and returns the user
// ID and a bearer token. The password for every test user is "password123".
func CreateTestUser(t *testing.T, conn *sql.DB, email, role string, constituencyID *string) (userID, token string) {
	t.Helper()

	userID = uuid.NewString()
	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now()
	_, err = conn.Exec(`
		INSERT INTO users (id, name, email, phone, password_hash, role, constituency_id, created_at, updated_at)
		VALUES ($1, 'Test User', $2, NULL, $3, $4, $5, $6, $7)
	`, userID, email, hash, role, constituencyID, now, now)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	token, err = auth.GenerateSessionToken()
	if err != nil {
		t.Fatalf("Failed to generate session token: %v", err)
	}
	_, err = conn.Exec(`
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, token, userID, now, now.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return userID, token
}

// CreateTestConstituency inserts a constituency and returns its ID
func CreateTestConstituency(t *testing.T, conn *sql.DB, name string, locked bool) string {
	t.Helper()

	id := uuid.NewString()
	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO constituencies (id, name, state, type, is_locked, campaign_id, created_at, updated_at)
		VALUES ($1, $2, 'Uttar Pradesh', 'VIDHAN_SABHA', $3, NULL, $4, $5)
	`, id, name, locked, now, now)
	if err != nil {
		t.Fatalf("Failed to create test constituency: %v", err)
	}

	return id
}

// CreateTestBooth inserts a booth in a constituency and returns its ID
func CreateTestBooth(t *testing.T, conn *sql.DB, constituencyID, boothNumber string, voterCount int) string {
	t.Helper()

	id := uuid.NewString()
	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO booths (id, booth_number, name, constituency_id, voter_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, boothNumber, "Booth "+boothNumber, constituencyID, voterCount, now, now)
	if err != nil {
		t.Fatalf("Failed to create test booth: %v", err)
	}

	return id
}

// AssignBooth links a worker to a booth
func AssignBooth(t *testing.T, conn *sql.DB, userID, boothID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO user_booths (user_id, booth_id) VALUES ($1, $2)
	`, userID, boothID)
	if err != nil {
		t.Fatalf("Failed to assign booth: %v", err)
	}
}

// CreateTestPrediction inserts a prediction row directly and returns its ID
func CreateTestPrediction(t *testing.T, conn *sql.DB, boothID, userID string, turnoutPct float64, data map[string]float64, confidence int) string {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Failed to marshal prediction data: %v", err)
	}

	id := uuid.NewString()
	now := time.Now()
	_, err = conn.Exec(`
		INSERT INTO predictions (id, booth_id, user_id, turnout_pct, data, confidence, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, boothID, userID, turnoutPct, string(payload), confidence, now, now)
	if err != nil {
		t.Fatalf("Failed to create test prediction: %v", err)
	}

	return id
}

// CreateTestCampaign inserts a campaign and returns its ID
func CreateTestCampaign(t *testing.T, conn *sql.DB, name, code string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO campaigns (id, name, code, party_id, state, description, created_at)
		VALUES ($1, $2, $3, NULL, 'Uttar Pradesh', NULL, $4)
	`, id, name, code, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test campaign: %v", err)
	}

	return id
}

// LinkConstituencyToCampaign points a constituency at a campaign
func LinkConstituencyToCampaign(t *testing.T, conn *sql.DB, constituencyID, campaignID string) {
	t.Helper()

	_, err := conn.Exec(`
		UPDATE constituencies SET campaign_id = $1 WHERE id = $2
	`, campaignID, constituencyID)
	if err != nil {
		t.Fatalf("Failed to link constituency to campaign: %v", err)
	}
}

// MakeRequest creates an HTTP test request. When token is non-empty it is
// sent as a bearer Authorization header.
func MakeRequest(method, path string, body interface{}, token string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
