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

type ConstituencyHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewConstituencyHandler(db *sql.DB, cfg cliparse.Config) *ConstituencyHandler {
	return &ConstituencyHandler{db: db, cfg: cfg}
}

// Create handles POST /constituencies (admin)
func (h *ConstituencyHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}

	var req models.CreateConstituencyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ValidationError(w, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ValidationError(w, "name is required")
		return
	}
	if req.State == "" {
		middleware.ValidationError(w, "state is required")
		return
	}
	if req.Type != models.ConstituencyLokSabha && req.Type != models.ConstituencyVidhanSabha {
		middleware.ValidationError(w, "type must be LOK_SABHA or VIDHAN_SABHA")
		return
	}

	constituency := models.Constituency{
		ID:         uuid.NewString(),
		Name:       req.Name,
		State:      req.State,
		Type:       req.Type,
		CampaignID: req.CampaignID,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	_, err := h.db.Exec(`
		INSERT INTO constituencies (id, name, state, type, is_locked, campaign_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6, $7)
	`, constituency.ID, constituency.Name, constituency.State, constituency.Type,
		constituency.CampaignID, constituency.CreatedAt, constituency.UpdatedAt)

	if err != nil {
		slog.Error("failed to insert constituency", "error", err)
		middleware.ServerError(w, "Failed to create constituency")
		return
	}

	slog.Info("constituency created", "constituency_id", constituency.ID, "name", constituency.Name)

	middleware.JSONResponse(w, http.StatusCreated, constituency)
}

// List handles GET /constituencies
// Each entry carries coverage counts for the admin overview
func (h *ConstituencyHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(h.db, w, r); !ok {
		return
	}

	rows, err := h.db.Query(`
		SELECT c.id, c.name, c.state, c.type, c.is_locked, c.campaign_id, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM booths b WHERE b.constituency_id = c.id),
		       (SELECT COUNT(DISTINCT p.booth_id)
		        FROM predictions p
		        JOIN booths b2 ON p.booth_id = b2.id
		        WHERE b2.constituency_id = c.id)
		FROM constituencies c
		ORDER BY c.name
	`)
	if err != nil {
		slog.Error("failed to query constituencies", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}
	defer rows.Close()

	overviews := []models.ConstituencyOverview{}
	for rows.Next() {
		var o models.ConstituencyOverview
		var campaignID sql.NullString
		if err := rows.Scan(
			&o.ID, &o.Name, &o.State, &o.Type, &o.IsLocked, &campaignID,
			&o.CreatedAt, &o.UpdatedAt, &o.TotalBooths, &o.UpdatedBooths,
		); err != nil {
			slog.Error("failed to scan constituency", "error", err)
			middleware.ServerError(w, "Database error")
			return
		}
		if campaignID.Valid {
			o.CampaignID = &campaignID.String
		}
		if o.TotalBooths > 0 {
			o.Coverage = round2(float64(o.UpdatedBooths) / float64(o.TotalBooths) * 100)
		}
		overviews = append(overviews, o)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read constituencies", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, overviews)
}

// GetByID handles GET /constituencies/{id}
func (h *ConstituencyHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(h.db, w, r); !ok {
		return
	}

	constituency, err := getConstituency(h.db, r.PathValue("id"))
	if err == sql.ErrNoRows {
		middleware.NotFoundError(w, "Constituency not found")
		return
	}
	if err != nil {
		slog.Error("failed to query constituency", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, constituency)
}

// Update handles PUT /constituencies/{id} (admin)
func (h *ConstituencyHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}

	constituencyID := r.PathValue("id")

	var req models.CreateConstituencyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ValidationError(w, "Invalid JSON")
		return
	}

	if req.Name == "" || req.State == "" {
		middleware.ValidationError(w, "name and state are required")
		return
	}
	if req.Type != models.ConstituencyLokSabha && req.Type != models.ConstituencyVidhanSabha {
		middleware.ValidationError(w, "type must be LOK_SABHA or VIDHAN_SABHA")
		return
	}

	constituency, err := scanConstituencyRow(h.db.QueryRow(`
		UPDATE constituencies
		SET name = $1, state = $2, type = $3, campaign_id = $4, updated_at = $5
		WHERE id = $6
		RETURNING id, name, state, type, is_locked, campaign_id, created_at, updated_at
	`, req.Name, req.State, req.Type, req.CampaignID, time.Now(), constituencyID))

	if err == sql.ErrNoRows {
		middleware.NotFoundError(w, "Constituency not found")
		return
	}
	if err != nil {
		slog.Error("failed to update constituency", "error", err)
		middleware.ServerError(w, "Failed to update constituency")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, constituency)
}

// Delete handles DELETE /constituencies/{id} (admin)
func (h *ConstituencyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}

	result, err := h.db.Exec(`DELETE FROM constituencies WHERE id = $1`, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to delete constituency", "error", err)
		middleware.ServerError(w, "Failed to delete constituency")
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ServerError(w, "Failed to delete constituency")
		return
	}
	if affected == 0 {
		middleware.NotFoundError(w, "Constituency not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Constituency deleted successfully",
	})
}

// Lock handles POST /constituencies/{id}/lock (admin)
// While locked, no prediction write is accepted for the constituency's booths
func (h *ConstituencyHandler) Lock(w http.ResponseWriter, r *http.Request) {
	h.setLock(w, r, true)
}

// Unlock handles POST /constituencies/{id}/unlock (admin)
func (h *ConstituencyHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	h.setLock(w, r, false)
}

func (h *ConstituencyHandler) setLock(w http.ResponseWriter, r *http.Request, locked bool) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}

	constituencyID := r.PathValue("id")

	constituency, err := scanConstituencyRow(h.db.QueryRow(`
		UPDATE constituencies
		SET is_locked = $1, updated_at = $2
		WHERE id = $3
		RETURNING id, name, state, type, is_locked, campaign_id, created_at, updated_at
	`, locked, time.Now(), constituencyID))

	if err == sql.ErrNoRows {
		middleware.NotFoundError(w, "Constituency not found")
		return
	}
	if err != nil {
		slog.Error("failed to set lock", "error", err, "constituency_id", constituencyID)
		middleware.ServerError(w, "Failed to update lock")
		return
	}

	slog.Info("constituency lock changed", "constituency_id", constituencyID, "locked", locked)

	middleware.JSONResponse(w, http.StatusOK, constituency)
}

// getConstituency loads one constituency by id
func getConstituency(db *sql.DB, id string) (models.Constituency, error) {
	return scanConstituencyRow(db.QueryRow(`
		SELECT id, name, state, type, is_locked, campaign_id, created_at, updated_at
		FROM constituencies
		WHERE id = $1
	`, id))
}

func scanConstituencyRow(row *sql.Row) (models.Constituency, error) {
	var c models.Constituency
	var campaignID sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.State, &c.Type, &c.IsLocked, &campaignID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.Constituency{}, err
	}
	if campaignID.Valid {
		c.CampaignID = &campaignID.String
	}
	return c, nil
}
