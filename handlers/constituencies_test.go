// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/boothpulse/models"
	"github.com/danielhkuo/boothpulse/testutil"
)

func TestCreateConstituency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewConstituencyHandler(db, cfg)

	_, adminToken := testutil.CreateTestUser(t, db, "admin@test.com", models.RoleAdmin, nil)

	req := testutil.MakeRequest("POST", "/constituencies", models.CreateConstituencyRequest{
		Name:  "Lucknow East",
		State: "Uttar Pradesh",
		Type:  models.ConstituencyVidhanSabha,
	}, adminToken)
	w := httptest.NewRecorder()

	handler.Create(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var c models.Constituency
	testutil.AssertJSON(t, w, &c)
	if c.Name != "Lucknow East" || c.Type != models.ConstituencyVidhanSabha {
		t.Errorf("Unexpected constituency: %+v", c)
	}
	if c.IsLocked {
		t.Error("New constituency must start unlocked")
	}
}

func TestCreateConstituencyValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewConstituencyHandler(db, cfg)

	_, adminToken := testutil.CreateTestUser(t, db, "admin@test.com", models.RoleAdmin, nil)
	_, workerToken := testutil.CreateTestUser(t, db, "worker@test.com", models.RoleWorker, nil)

	// bad type
	req := testutil.MakeRequest("POST", "/constituencies", models.CreateConstituencyRequest{
		Name: "X", State: "UP", Type: "CITY_COUNCIL",
	}, adminToken)
	w := httptest.NewRecorder()
	handler.Create(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// non-admin caller
	req = testutil.MakeRequest("POST", "/constituencies", models.CreateConstituencyRequest{
		Name: "X", State: "UP", Type: models.ConstituencyLokSabha,
	}, workerToken)
	w = httptest.NewRecorder()
	handler.Create(w, req)
	testutil.AssertStatus(t, w, http.StatusForbidden)
}

func TestListConstituenciesWithCoverage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewConstituencyHandler(db, cfg)

	constituencyID := testutil.CreateTestConstituency(t, db, "Covered", false)
	testutil.CreateTestConstituency(t, db, "Empty", false)
	workerID, token := testutil.CreateTestUser(t, db, "worker@test.com", models.RoleWorker, nil)

	b1 := testutil.CreateTestBooth(t, db, constituencyID, "101", 500)
	testutil.CreateTestBooth(t, db, constituencyID, "102", 500)
	testutil.CreateTestPrediction(t, db, b1, workerID, 60, map[string]float64{"BJP": 100}, 3)

	req := testutil.MakeRequest("GET", "/constituencies", nil, token)
	w := httptest.NewRecorder()
	handler.List(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var overviews []models.ConstituencyOverview
	testutil.AssertJSON(t, w, &overviews)
	if len(overviews) != 2 {
		t.Fatalf("Expected 2 constituencies, got %d", len(overviews))
	}

	// Sorted by name: Covered, Empty
	covered := overviews[0]
	if covered.Name != "Covered" {
		t.Fatalf("Expected Covered first, got %s", covered.Name)
	}
	if covered.TotalBooths != 2 || covered.UpdatedBooths != 1 {
		t.Errorf("Unexpected coverage counts: %+v", covered)
	}
	if covered.Coverage != 50 {
		t.Errorf("Expected 50%% coverage, got %f", covered.Coverage)
	}
	if overviews[1].Coverage != 0 {
		t.Errorf("Expected 0%% coverage for empty constituency, got %f", overviews[1].Coverage)
	}
}

func TestUpdateConstituency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewConstituencyHandler(db, cfg)

	constituencyID := testutil.CreateTestConstituency(t, db, "Old Name", false)
	_, adminToken := testutil.CreateTestUser(t, db, "admin@test.com", models.RoleAdmin, nil)

	req := testutil.MakeRequest("PUT", "/constituencies/"+constituencyID, models.CreateConstituencyRequest{
		Name:  "New Name",
		State: "Uttar Pradesh",
		Type:  models.ConstituencyLokSabha,
	}, adminToken)
	req.SetPathValue("id", constituencyID)
	w := httptest.NewRecorder()

	handler.Update(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var c models.Constituency
	testutil.AssertJSON(t, w, &c)
	if c.Name != "New Name" || c.Type != models.ConstituencyLokSabha {
		t.Errorf("Unexpected updated constituency: %+v", c)
	}
}

func TestLockUnlockConstituency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewConstituencyHandler(db, cfg)

	constituencyID := testutil.CreateTestConstituency(t, db, "Lucknow East", false)
	_, adminToken := testutil.CreateTestUser(t, db, "admin@test.com", models.RoleAdmin, nil)
	_, workerToken := testutil.CreateTestUser(t, db, "worker@test.com", models.RoleWorker, nil)

	// Workers cannot lock
	req := testutil.MakeRequest("POST", "/constituencies/"+constituencyID+"/lock", nil, workerToken)
	req.SetPathValue("id", constituencyID)
	w := httptest.NewRecorder()
	handler.Lock(w, req)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	// Admin locks
	req = testutil.MakeRequest("POST", "/constituencies/"+constituencyID+"/lock", nil, adminToken)
	req.SetPathValue("id", constituencyID)
	w = httptest.NewRecorder()
	handler.Lock(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var c models.Constituency
	testutil.AssertJSON(t, w, &c)
	if !c.IsLocked {
		t.Error("Expected constituency to be locked")
	}

	// Locked constituency still serves reads
	req = testutil.MakeRequest("GET", "/constituencies/"+constituencyID, nil, workerToken)
	req.SetPathValue("id", constituencyID)
	w = httptest.NewRecorder()
	handler.GetByID(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	// Unlock reopens
	req = testutil.MakeRequest("POST", "/constituencies/"+constituencyID+"/unlock", nil, adminToken)
	req.SetPathValue("id", constituencyID)
	w = httptest.NewRecorder()
	handler.Unlock(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	testutil.AssertJSON(t, w, &c)
	if c.IsLocked {
		t.Error("Expected constituency to be unlocked")
	}
}

func TestDeleteConstituency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewConstituencyHandler(db, cfg)

	constituencyID := testutil.CreateTestConstituency(t, db, "Doomed", false)
	_, adminToken := testutil.CreateTestUser(t, db, "admin@test.com", models.RoleAdmin, nil)

	req := testutil.MakeRequest("DELETE", "/constituencies/"+constituencyID, nil, adminToken)
	req.SetPathValue("id", constituencyID)
	w := httptest.NewRecorder()
	handler.Delete(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	// Second delete is a 404
	req = testutil.MakeRequest("DELETE", "/constituencies/"+constituencyID, nil, adminToken)
	req.SetPathValue("id", constituencyID)
	w = httptest.NewRecorder()
	handler.Delete(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
