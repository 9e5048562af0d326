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

func TestCreateCampaign(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewCampaignHandler(db, cfg)

	_, adminToken := testutil.CreateTestUser(t, db, "admin@test.com", models.RoleAdmin, nil)

	req := testutil.MakeRequest("POST", "/campaigns", models.CreateCampaignRequest{
		Name:  "UP Assembly 2027",
		Code:  "UP27",
		State: "Uttar Pradesh",
	}, adminToken)
	w := httptest.NewRecorder()
	handler.Create(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var campaign models.Campaign
	testutil.AssertJSON(t, w, &campaign)
	if campaign.Code != "UP27" {
		t.Errorf("Expected code UP27, got %s", campaign.Code)
	}

	// Duplicate code is a conflict
	req = testutil.MakeRequest("POST", "/campaigns", models.CreateCampaignRequest{
		Name:  "Duplicate",
		Code:  "UP27",
		State: "Uttar Pradesh",
	}, adminToken)
	w = httptest.NewRecorder()
	handler.Create(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestJoinCampaignWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewCampaignHandler(db, cfg)

	campaignID := testutil.CreateTestCampaign(t, db, "UP Assembly 2027", "UP27")
	constituencyID := testutil.CreateTestConstituency(t, db, "Lucknow East", false)
	_, workerToken := testutil.CreateTestUser(t, db, "worker@test.com", models.RoleWorker, nil)
	_, adminToken := testutil.CreateTestUser(t, db, "admin@test.com", models.RoleAdmin, nil)

	// Join with constituency scope
	req := testutil.MakeRequest("POST", "/campaigns/"+campaignID+"/join", models.JoinCampaignRequest{
		Role:           models.CampaignRoleBoothWorker,
		Scope:          models.ScopeConstituency,
		ConstituencyID: &constituencyID,
	}, workerToken)
	req.SetPathValue("id", campaignID)
	w := httptest.NewRecorder()
	handler.Join(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var member models.CampaignMember
	testutil.AssertJSON(t, w, &member)
	if member.Status != models.MemberPending {
		t.Errorf("Expected PENDING status, got %s", member.Status)
	}

	// Joining again is a conflict
	req = testutil.MakeRequest("POST", "/campaigns/"+campaignID+"/join", models.JoinCampaignRequest{
		Role:  models.CampaignRoleBoothWorker,
		Scope: models.ScopeCampaign,
	}, workerToken)
	req.SetPathValue("id", campaignID)
	w = httptest.NewRecorder()
	handler.Join(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)

	// Shows up in the pending list
	req = testutil.MakeRequest("GET", "/campaigns/"+campaignID+"/members/pending", nil, adminToken)
	req.SetPathValue("id", campaignID)
	w = httptest.NewRecorder()
	handler.PendingMembers(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var pending []models.CampaignMember
	testutil.AssertJSON(t, w, &pending)
	if len(pending) != 1 || pending[0].ID != member.ID {
		t.Fatalf("Expected the join request pending, got %+v", pending)
	}

	// Approve it
	req = testutil.MakeRequest("POST", "/campaign-members/"+member.ID+"/status", models.UpdateMemberStatusRequest{
		Status: models.MemberApproved,
	}, adminToken)
	req.SetPathValue("id", member.ID)
	w = httptest.NewRecorder()
	handler.UpdateMemberStatus(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var approved models.CampaignMember
	testutil.AssertJSON(t, w, &approved)
	if approved.Status != models.MemberApproved {
		t.Errorf("Expected APPROVED, got %s", approved.Status)
	}

	// The worker sees their membership
	req = testutil.MakeRequest("GET", "/campaigns/"+campaignID+"/membership", nil, workerToken)
	req.SetPathValue("id", campaignID)
	w = httptest.NewRecorder()
	handler.MyMembership(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var mine models.CampaignMember
	testutil.AssertJSON(t, w, &mine)
	if mine.Status != models.MemberApproved {
		t.Errorf("Expected APPROVED membership, got %s", mine.Status)
	}
}

func TestJoinCampaignValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewCampaignHandler(db, cfg)

	campaignID := testutil.CreateTestCampaign(t, db, "UP Assembly 2027", "UP27")
	_, token := testutil.CreateTestUser(t, db, "worker@test.com", models.RoleWorker, nil)

	cases := []struct {
		name   string
		req    models.JoinCampaignRequest
		status int
	}{
		{"bad role", models.JoinCampaignRequest{Role: "KINGMAKER", Scope: models.ScopeCampaign}, http.StatusBadRequest},
		{"bad scope", models.JoinCampaignRequest{Role: models.CampaignRoleBoothWorker, Scope: "GALAXY"}, http.StatusBadRequest},
		{"constituency scope without target", models.JoinCampaignRequest{Role: models.CampaignRoleConstituencyLeader, Scope: models.ScopeConstituency}, http.StatusBadRequest},
		{"booth scope without target", models.JoinCampaignRequest{Role: models.CampaignRoleBoothWorker, Scope: models.ScopeBooth}, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/campaigns/"+campaignID+"/join", tc.req, token)
			req.SetPathValue("id", campaignID)
			w := httptest.NewRecorder()
			handler.Join(w, req)
			testutil.AssertStatus(t, w, tc.status)
		})
	}

	// Unknown campaign
	req := testutil.MakeRequest("POST", "/campaigns/missing/join", models.JoinCampaignRequest{
		Role:  models.CampaignRoleBoothWorker,
		Scope: models.ScopeCampaign,
	}, token)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()
	handler.Join(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestCampaignSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewCampaignHandler(db, cfg)

	campaignID := testutil.CreateTestCampaign(t, db, "UP Assembly 2027", "UP27")
	constituencyID := testutil.CreateTestConstituency(t, db, "Lucknow East", false)
	testutil.LinkConstituencyToCampaign(t, db, constituencyID, campaignID)

	workerID, token := testutil.CreateTestUser(t, db, "worker@test.com", models.RoleWorker, nil)
	b1 := testutil.CreateTestBooth(t, db, constituencyID, "101", 500)
	testutil.CreateTestBooth(t, db, constituencyID, "102", 500)
	testutil.CreateTestPrediction(t, db, b1, workerID, 60, map[string]float64{"BJP": 100}, 3)

	req := testutil.MakeRequest("GET", "/campaigns/"+campaignID+"/summary", nil, token)
	req.SetPathValue("id", campaignID)
	w := httptest.NewRecorder()
	handler.Summary(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var summary models.CampaignSummary
	testutil.AssertJSON(t, w, &summary)
	if summary.TotalConstituencies != 1 || summary.TotalBooths != 2 || summary.UpdatedBooths != 1 {
		t.Errorf("Unexpected campaign summary: %+v", summary)
	}
	if summary.CoveragePct != 50 {
		t.Errorf("Expected 50%% coverage, got %f", summary.CoveragePct)
	}

	// Unknown campaign
	req = testutil.MakeRequest("GET", "/campaigns/missing/summary", nil, token)
	req.SetPathValue("id", "missing")
	w = httptest.NewRecorder()
	handler.Summary(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
