// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/boothpulse/cliparse"
	"github.com/danielhkuo/boothpulse/middleware"
	"github.com/danielhkuo/boothpulse/models"
)

type CampaignHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCampaignHandler(db *sql.DB, cfg cliparse.Config) *CampaignHandler {
	return &CampaignHandler{db: db, cfg: cfg}
}

// Create handles POST /campaigns (admin)
func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}

	var req models.CreateCampaignRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ValidationError(w, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ValidationError(w, "name is required")
		return
	}
	if req.Code == "" {
		middleware.ValidationError(w, "code is required")
		return
	}
	if req.State == "" {
		middleware.ValidationError(w, "state is required")
		return
	}

	var codeTaken bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM campaigns WHERE code = $1)`, req.Code).Scan(&codeTaken)
	if err != nil {
		slog.Error("failed to check campaign code", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}
	if codeTaken {
		middleware.ConflictError(w, "Campaign code already in use")
		return
	}

	campaign := models.Campaign{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Code:        req.Code,
		PartyID:     req.PartyID,
		State:       req.State,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}

	_, err = h.db.Exec(`
		INSERT INTO campaigns (id, name, code, party_id, state, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, campaign.ID, campaign.Name, campaign.Code, campaign.PartyID, campaign.State,
		campaign.Description, campaign.CreatedAt)

	if err != nil {
		slog.Error("failed to insert campaign", "error", err)
		middleware.ServerError(w, "Failed to create campaign")
		return
	}

	slog.Info("campaign created", "campaign_id", campaign.ID, "code", campaign.Code)

	middleware.JSONResponse(w, http.StatusCreated, campaign)
}

// List handles GET /campaigns
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(h.db, w, r); !ok {
		return
	}

	rows, err := h.db.Query(`
		SELECT id, name, code, party_id, state, description, created_at
		FROM campaigns
		ORDER BY name
	`)
	if err != nil {
		slog.Error("failed to query campaigns", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}
	defer rows.Close()

	campaigns := []models.Campaign{}
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			slog.Error("failed to scan campaign", "error", err)
			middleware.ServerError(w, "Database error")
			return
		}
		campaigns = append(campaigns, campaign)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read campaigns", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, campaigns)
}

// GetByID handles GET /campaigns/{id}
func (h *CampaignHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(h.db, w, r); !ok {
		return
	}

	campaign, err := scanCampaign(h.db.QueryRow(`
		SELECT id, name, code, party_id, state, description, created_at
		FROM campaigns
		WHERE id = $1
	`, r.PathValue("id")))

	if err == sql.ErrNoRows {
		middleware.NotFoundError(w, "Campaign not found")
		return
	}
	if err != nil {
		slog.Error("failed to query campaign", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, campaign)
}

// Summary handles GET /campaigns/{id}/summary
// Coverage rollup across every constituency tagged to the campaign
func (h *CampaignHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(h.db, w, r); !ok {
		return
	}

	summary, err := ComputeCampaignCoverage(h.db, r.PathValue("id"))
	if err == ErrCampaignNotFound {
		middleware.NotFoundError(w, "Campaign not found")
		return
	}
	if err != nil {
		slog.Error("failed to compute campaign coverage", "error", err)
		middleware.ServerError(w, "Failed to compute summary")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, summary)
}

// Join handles POST /campaigns/{id}/join
// Creates a pending membership request for the caller
func (h *CampaignHandler) Join(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(h.db, w, r)
	if !ok {
		return
	}

	campaignID := r.PathValue("id")

	var req models.JoinCampaignRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ValidationError(w, "Invalid JSON")
		return
	}

	if !validCampaignRole(req.Role) {
		middleware.ValidationError(w, "invalid campaign role")
		return
	}
	switch req.Scope {
	case models.ScopeCampaign, models.ScopeState:
		// no narrower target needed
	case models.ScopeConstituency:
		if req.ConstituencyID == nil {
			middleware.ValidationError(w, "constituencyId is required for CONSTITUENCY scope")
			return
		}
	case models.ScopeBooth:
		if req.BoothID == nil {
			middleware.ValidationError(w, "boothId is required for BOOTH scope")
			return
		}
	default:
		middleware.ValidationError(w, "invalid scope")
		return
	}

	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM campaigns WHERE id = $1)`, campaignID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check campaign", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}
	if !exists {
		middleware.NotFoundError(w, "Campaign not found")
		return
	}

	var existingStatus string
	err = h.db.QueryRow(`
		SELECT status FROM campaign_members WHERE user_id = $1 AND campaign_id = $2
	`, user.ID, campaignID).Scan(&existingStatus)
	if err == nil {
		middleware.ConflictError(w, "Already requested or already a member ("+existingStatus+")")
		return
	}
	if err != sql.ErrNoRows {
		slog.Error("failed to check membership", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	member := models.CampaignMember{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		CampaignID:     campaignID,
		Role:           req.Role,
		Scope:          req.Scope,
		ConstituencyID: req.ConstituencyID,
		BoothID:        req.BoothID,
		Status:         models.MemberPending,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	_, err = h.db.Exec(`
		INSERT INTO campaign_members (id, user_id, campaign_id, role, scope, constituency_id, booth_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, member.ID, member.UserID, member.CampaignID, member.Role, member.Scope,
		member.ConstituencyID, member.BoothID, member.Status, member.CreatedAt, member.UpdatedAt)

	if err != nil {
		slog.Error("failed to insert campaign member", "error", err)
		middleware.ServerError(w, "Failed to submit join request")
		return
	}

	slog.Info("campaign join requested", "campaign_id", campaignID, "user_id", user.ID, "role", req.Role)

	middleware.JSONResponse(w, http.StatusCreated, member)
}

// PendingMembers handles GET /campaigns/{id}/members/pending (admin)
func (h *CampaignHandler) PendingMembers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}

	rows, err := h.db.Query(`
		SELECT id, user_id, campaign_id, role, scope, constituency_id, booth_id, status, created_at, updated_at
		FROM campaign_members
		WHERE campaign_id = $1 AND status = $2
		ORDER BY created_at
	`, r.PathValue("id"), models.MemberPending)
	if err != nil {
		slog.Error("failed to query pending members", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}
	defer rows.Close()

	members := []models.CampaignMember{}
	for rows.Next() {
		member, err := scanCampaignMember(rows)
		if err != nil {
			slog.Error("failed to scan campaign member", "error", err)
			middleware.ServerError(w, "Database error")
			return
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read pending members", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, members)
}

// MyMembership handles GET /campaigns/{id}/membership
// Returns the caller's membership in the campaign, 404 if none
func (h *CampaignHandler) MyMembership(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(h.db, w, r)
	if !ok {
		return
	}

	member, err := scanCampaignMember(h.db.QueryRow(`
		SELECT id, user_id, campaign_id, role, scope, constituency_id, booth_id, status, created_at, updated_at
		FROM campaign_members
		WHERE user_id = $1 AND campaign_id = $2
	`, user.ID, r.PathValue("id")))

	if err == sql.ErrNoRows {
		middleware.NotFoundError(w, "No membership for this campaign")
		return
	}
	if err != nil {
		slog.Error("failed to query membership", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, member)
}

// UpdateMemberStatus handles POST /campaign-members/{id}/status (admin)
// Approves or rejects a pending join request
func (h *CampaignHandler) UpdateMemberStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}

	var req models.UpdateMemberStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ValidationError(w, "Invalid JSON")
		return
	}

	if req.Status != models.MemberApproved && req.Status != models.MemberRejected {
		middleware.ValidationError(w, "status must be APPROVED or REJECTED")
		return
	}

	member, err := scanCampaignMember(h.db.QueryRow(`
		UPDATE campaign_members
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING id, user_id, campaign_id, role, scope, constituency_id, booth_id, status, created_at, updated_at
	`, req.Status, time.Now(), r.PathValue("id")))

	if err == sql.ErrNoRows {
		middleware.NotFoundError(w, "Member not found")
		return
	}
	if err != nil {
		slog.Error("failed to update member status", "error", err)
		middleware.ServerError(w, "Failed to update status")
		return
	}

	slog.Info("member status updated", "member_id", member.ID, "status", member.Status)

	middleware.JSONResponse(w, http.StatusOK, member)
}

func validCampaignRole(role string) bool {
	switch role {
	case models.CampaignRolePartyHead,
		models.CampaignRoleCampaignDataManager,
		models.CampaignRoleConstituencyManager,
		models.CampaignRoleConstituencyLeader,
		models.CampaignRoleConstituencyDataManager,
		models.CampaignRoleBoothManager,
		models.CampaignRoleBoothDataManager,
		models.CampaignRoleBoothWorker:
		return true
	}
	return false
}

func scanCampaign(row rowScanner) (models.Campaign, error) {
	var campaign models.Campaign
	var partyID, description sql.NullString
	err := row.Scan(
		&campaign.ID, &campaign.Name, &campaign.Code, &partyID,
		&campaign.State, &description, &campaign.CreatedAt,
	)
	if err != nil {
		return models.Campaign{}, err
	}
	if partyID.Valid {
		campaign.PartyID = &partyID.String
	}
	campaign.Description = description.String
	return campaign, nil
}

func scanCampaignMember(row rowScanner) (models.CampaignMember, error) {
	var member models.CampaignMember
	var constituencyID, boothID sql.NullString
	err := row.Scan(
		&member.ID, &member.UserID, &member.CampaignID, &member.Role, &member.Scope,
		&constituencyID, &boothID, &member.Status, &member.CreatedAt, &member.UpdatedAt,
	)
	if err != nil {
		return models.CampaignMember{}, err
	}
	if constituencyID.Valid {
		member.ConstituencyID = &constituencyID.String
	}
	if boothID.Valid {
		member.BoothID = &boothID.String
	}
	return member, nil
}
