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

// TestFullPredictionWorkflow tests the complete end-to-end workflow:
// 1. Admin registers, sets up constituency and booths
// 2. Workers register and get booth assignments
// 3. Workers submit predictions
// 4. A worker revises a prediction
// 5. Leader reads the summary
// 6. Admin locks the constituency
// 7. Further submissions are rejected, summary still serves
func TestFullPredictionWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	authHandler := NewAuthHandler(db, cfg)
	userHandler := NewUserHandler(db, cfg)
	constituencyHandler := NewConstituencyHandler(db, cfg)
	boothHandler := NewBoothHandler(db, cfg)
	predictionHandler := NewPredictionHandler(db, cfg)

	// Step 1: Admin account and geography. The bootstrap admin is seeded
	// directly; everything after goes through the handlers.
	_, adminToken := testutil.CreateTestUser(t, db, "admin@test.com", models.RoleAdmin, nil)

	req := testutil.MakeRequest("POST", "/constituencies", models.CreateConstituencyRequest{
		Name:  "Lucknow East",
		State: "Uttar Pradesh",
		Type:  models.ConstituencyVidhanSabha,
	}, adminToken)
	w := httptest.NewRecorder()
	constituencyHandler.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create constituency failed: %d - %s", w.Code, w.Body.String())
	}
	var constituency models.Constituency
	testutil.AssertJSON(t, w, &constituency)

	createBooth := func(number string, voters int) models.Booth {
		req := testutil.MakeRequest("POST", "/booths", models.CreateBoothRequest{
			BoothNumber:    number,
			ConstituencyID: constituency.ID,
			VoterCount:     &voters,
		}, adminToken)
		w := httptest.NewRecorder()
		boothHandler.Create(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 1 - Create booth %s failed: %d - %s", number, w.Code, w.Body.String())
		}
		var booth models.Booth
		testutil.AssertJSON(t, w, &booth)
		return booth
	}
	booth1 := createBooth("101", 1000)
	booth2 := createBooth("102", 500)
	t.Logf("Step 1 - Constituency %s with booths %s, %s", constituency.ID, booth1.ID, booth2.ID)

	// Step 2: Workers register through the API and get assignments
	registerWorker := func(email string) models.AuthResponse {
		req := testutil.MakeRequest("POST", "/auth/register", models.RegisterRequest{
			Name:     "Worker " + email,
			Email:    email,
			Password: "password123",
		}, "")
		w := httptest.NewRecorder()
		authHandler.Register(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 2 - Register %s failed: %d - %s", email, w.Code, w.Body.String())
		}
		var resp models.AuthResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}
	worker1 := registerWorker("w1@test.com")
	worker2 := registerWorker("w2@test.com")

	assign := func(userID string, boothIDs []string) {
		req := testutil.MakeRequest("PUT", "/users/"+userID+"/booths", models.AssignBoothsRequest{
			BoothIDs: boothIDs,
		}, adminToken)
		req.SetPathValue("id", userID)
		w := httptest.NewRecorder()
		userHandler.AssignBooths(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("Step 2 - Assign booths failed: %d - %s", w.Code, w.Body.String())
		}
	}
	assign(worker1.User.ID, []string{booth1.ID})
	assign(worker2.User.ID, []string{booth2.ID})

	// Step 3: Workers submit predictions
	submit := func(token, boothID string, turnout float64, data map[string]float64) {
		req := testutil.MakeRequest("POST", "/predictions", models.SubmitPredictionRequest{
			BoothID:           boothID,
			TurnoutPercentage: &turnout,
			Data:              data,
			ConfidenceLevel:   intPtr(4),
		}, token)
		w := httptest.NewRecorder()
		predictionHandler.Submit(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 3 - Submit failed: %d - %s", w.Code, w.Body.String())
		}
	}
	submit(worker1.Token, booth1.ID, 60, map[string]float64{"BJP": 40, "INC": 60})
	submit(worker2.Token, booth2.ID, 80, map[string]float64{"BJP": 30, "INC": 70})

	// Step 4: Worker 1 revises; the revision replaces the original
	submit(worker1.Token, booth1.ID, 60, map[string]float64{"BJP": 45, "INC": 55})

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM predictions`).Scan(&count); err != nil {
		t.Fatalf("Step 4 - Count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("Step 4 - Expected 2 prediction rows, got %d", count)
	}

	// Step 5: Leader reads the summary
	leaderResp := registerWorker("leader@test.com")
	req = testutil.MakeRequest("GET", "/predictions/summary?constituencyId="+constituency.ID, nil, leaderResp.Token)
	w = httptest.NewRecorder()
	predictionHandler.Summary(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 5 - Summary failed: %d - %s", w.Code, w.Body.String())
	}
	var summary models.SummaryResponse
	testutil.AssertJSON(t, w, &summary)

	// booth1: BJP 0.6*0.45*1000=270, INC 0.6*0.55*1000=330
	// booth2: BJP 0.8*0.30*500=120, INC 0.8*0.70*500=280
	// BJP 390 / INC 610
	if summary.PredictedWinner == nil || summary.PredictedWinner.Party != "INC" {
		t.Fatalf("Step 5 - Expected INC winner, got %+v", summary.PredictedWinner)
	}
	if summary.BoothStats.UpdatedBooths != 2 {
		t.Errorf("Step 5 - Expected 2 updated booths, got %d", summary.BoothStats.UpdatedBooths)
	}

	// Step 6: Admin locks the constituency
	req = testutil.MakeRequest("POST", "/constituencies/"+constituency.ID+"/lock", nil, adminToken)
	req.SetPathValue("id", constituency.ID)
	w = httptest.NewRecorder()
	constituencyHandler.Lock(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 6 - Lock failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 7: Submissions bounce, reads still work
	turnout := 99.0
	req = testutil.MakeRequest("POST", "/predictions", models.SubmitPredictionRequest{
		BoothID:           booth1.ID,
		TurnoutPercentage: &turnout,
		Data:              map[string]float64{"BJP": 100},
		ConfidenceLevel:   intPtr(5),
	}, worker1.Token)
	w = httptest.NewRecorder()
	predictionHandler.Submit(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	var errResp models.ErrorResponse
	testutil.AssertJSON(t, w, &errResp)
	if errResp.Error != models.ErrKindLocked {
		t.Errorf("Step 7 - Expected locked error kind, got %s", errResp.Error)
	}

	req = testutil.MakeRequest("GET", "/predictions/summary?constituencyId="+constituency.ID, nil, leaderResp.Token)
	w = httptest.NewRecorder()
	predictionHandler.Summary(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var after models.SummaryResponse
	testutil.AssertJSON(t, w, &after)
	if after.PredictedWinner == nil || after.PredictedWinner.Party != "INC" {
		t.Errorf("Step 7 - Summary changed under lock: %+v", after.PredictedWinner)
	}
}
