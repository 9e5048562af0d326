// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/boothpulse/models"
	"github.com/danielhkuo/boothpulse/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

// TestRoutesThroughMux verifies path parameters and handler wiring end to
// end through the real mux rather than calling handlers directly
func TestRoutesThroughMux(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	constituencyID := testutil.CreateTestConstituency(t, db, "Lucknow East", false)
	boothID := testutil.CreateTestBooth(t, db, constituencyID, "101", 900)
	workerID, workerToken := testutil.CreateTestUser(t, db, "worker@test.com", models.RoleWorker, &constituencyID)
	testutil.AssignBooth(t, db, workerID, boothID)
	predID := testutil.CreateTestPrediction(t, db, boothID, workerID, 60, map[string]float64{"BJP": 55, "INC": 45}, 4)

	paths := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/constituencies/" + constituencyID, http.StatusOK},
		{"GET", "/booths/" + boothID, http.StatusOK},
		{"GET", "/booths/" + boothID + "/summary", http.StatusOK},
		{"GET", "/predictions/my-booths", http.StatusOK},
		{"GET", "/predictions/summary", http.StatusOK},
		{"GET", "/predictions/" + predID, http.StatusOK},
		{"GET", "/predictions/does-not-exist", http.StatusNotFound},
		{"GET", "/parties", http.StatusOK},
		{"GET", "/campaigns", http.StatusOK},
		// admin-only routes reject a worker
		{"GET", "/users", http.StatusForbidden},
		{"GET", "/predictions", http.StatusForbidden},
	}

	for _, tt := range paths {
		req := testutil.MakeRequest(tt.method, tt.path, nil, workerToken)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		if w.Code != tt.status {
			t.Errorf("%s %s: expected %d, got %d - %s", tt.method, tt.path, tt.status, w.Code, w.Body.String())
		}
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	for _, path := range []string{"/users", "/constituencies", "/booths", "/predictions/my-booths", "/campaigns"} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: expected 401, got %d", path, w.Code)
		}
	}
}
