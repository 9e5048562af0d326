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

type BoothHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewBoothHandler(db *sql.DB, cfg cliparse.Config) *BoothHandler {
	return &BoothHandler{db: db, cfg: cfg}
}

// Create handles POST /booths (admin)
func (h *BoothHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}

	var req models.CreateBoothRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ValidationError(w, "Invalid JSON")
		return
	}

	if req.BoothNumber == "" {
		middleware.ValidationError(w, "boothNumber is required")
		return
	}
	if req.ConstituencyID == "" {
		middleware.ValidationError(w, "constituencyId is required")
		return
	}
	voterCount := 0
	if req.VoterCount != nil {
		if *req.VoterCount < 0 {
			middleware.ValidationError(w, "voterCount must be non-negative")
			return
		}
		voterCount = *req.VoterCount
	}

	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM constituencies WHERE id = $1)`, req.ConstituencyID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check constituency", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}
	if !exists {
		middleware.NotFoundError(w, "Constituency not found")
		return
	}

	booth := models.Booth{
		ID:             uuid.NewString(),
		BoothNumber:    req.BoothNumber,
		Name:           req.Name,
		ConstituencyID: req.ConstituencyID,
		VoterCount:     voterCount,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	_, err = h.db.Exec(`
		INSERT INTO booths (id, booth_number, name, constituency_id, voter_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, booth.ID, booth.BoothNumber, booth.Name, booth.ConstituencyID, booth.VoterCount,
		booth.CreatedAt, booth.UpdatedAt)

	if err != nil {
		slog.Error("failed to insert booth", "error", err)
		middleware.ServerError(w, "Failed to create booth")
		return
	}

	slog.Info("booth created", "booth_id", booth.ID, "constituency_id", booth.ConstituencyID)

	middleware.JSONResponse(w, http.StatusCreated, booth)
}

// List handles GET /booths (optional ?constituencyId= filter)
// Workers only see the booths assigned to them; other roles see everything
// in scope
func (h *BoothHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(h.db, w, r)
	if !ok {
		return
	}

	query := `
		SELECT b.id, b.booth_number, b.name, b.constituency_id, b.voter_count, b.created_at, b.updated_at
		FROM booths b`
	var args []interface{}

	if user.Role == models.RoleWorker {
		query += `
		JOIN user_booths ub ON ub.booth_id = b.id AND ub.user_id = $1`
		args = append(args, user.ID)
		if constituencyID := r.URL.Query().Get("constituencyId"); constituencyID != "" {
			query += `
		WHERE b.constituency_id = $2`
			args = append(args, constituencyID)
		}
	} else if constituencyID := r.URL.Query().Get("constituencyId"); constituencyID != "" {
		query += `
		WHERE b.constituency_id = $1`
		args = append(args, constituencyID)
	}
	query += `
		ORDER BY b.booth_number`

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query booths", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}
	defer rows.Close()

	booths := []models.Booth{}
	for rows.Next() {
		booth, err := scanBooth(rows)
		if err != nil {
			slog.Error("failed to scan booth", "error", err)
			middleware.ServerError(w, "Database error")
			return
		}
		booths = append(booths, booth)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read booths", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, booths)
}

// GetByID handles GET /booths/{id}
func (h *BoothHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(h.db, w, r); !ok {
		return
	}

	booth, err := scanBooth(h.db.QueryRow(`
		SELECT id, booth_number, name, constituency_id, voter_count, created_at, updated_at
		FROM booths
		WHERE id = $1
	`, r.PathValue("id")))

	if err == sql.ErrNoRows {
		middleware.NotFoundError(w, "Booth not found")
		return
	}
	if err != nil {
		slog.Error("failed to query booth", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, booth)
}

// Update handles PUT /booths/{id} (admin)
// The voter count feeds aggregation weights; moving a booth between
// constituencies is allowed and takes effect on the next read
func (h *BoothHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}

	boothID := r.PathValue("id")

	var req models.CreateBoothRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ValidationError(w, "Invalid JSON")
		return
	}

	if req.BoothNumber == "" || req.ConstituencyID == "" {
		middleware.ValidationError(w, "boothNumber and constituencyId are required")
		return
	}
	voterCount := 0
	if req.VoterCount != nil {
		if *req.VoterCount < 0 {
			middleware.ValidationError(w, "voterCount must be non-negative")
			return
		}
		voterCount = *req.VoterCount
	}

	booth, err := scanBooth(h.db.QueryRow(`
		UPDATE booths
		SET booth_number = $1, name = $2, constituency_id = $3, voter_count = $4, updated_at = $5
		WHERE id = $6
		RETURNING id, booth_number, name, constituency_id, voter_count, created_at, updated_at
	`, req.BoothNumber, req.Name, req.ConstituencyID, voterCount, time.Now(), boothID))

	if err == sql.ErrNoRows {
		middleware.NotFoundError(w, "Booth not found")
		return
	}
	if err != nil {
		slog.Error("failed to update booth", "error", err)
		middleware.ServerError(w, "Failed to update booth")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, booth)
}

// Delete handles DELETE /booths/{id} (admin)
func (h *BoothHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}

	result, err := h.db.Exec(`DELETE FROM booths WHERE id = $1`, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to delete booth", "error", err)
		middleware.ServerError(w, "Failed to delete booth")
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ServerError(w, "Failed to delete booth")
		return
	}
	if affected == 0 {
		middleware.NotFoundError(w, "Booth not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Booth deleted successfully",
	})
}

// Summary handles GET /booths/{id}/summary
// Booth detail with every worker's prediction for it
func (h *BoothHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(h.db, w, r); !ok {
		return
	}

	boothID := r.PathValue("id")

	booth, err := scanBooth(h.db.QueryRow(`
		SELECT id, booth_number, name, constituency_id, voter_count, created_at, updated_at
		FROM booths
		WHERE id = $1
	`, boothID))

	if err == sql.ErrNoRows {
		middleware.NotFoundError(w, "Booth not found")
		return
	}
	if err != nil {
		slog.Error("failed to query booth", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, booth_id, user_id, turnout_pct, data, confidence, created_at, updated_at
		FROM predictions
		WHERE booth_id = $1
		ORDER BY updated_at DESC
	`, boothID)
	if err != nil {
		slog.Error("failed to query booth predictions", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}
	defer rows.Close()

	predictions := []models.Prediction{}
	for rows.Next() {
		pred, err := scanPrediction(rows)
		if err != nil {
			slog.Error("failed to scan prediction", "error", err)
			middleware.ServerError(w, "Database error")
			return
		}
		predictions = append(predictions, pred)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read booth predictions", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"booth":       booth,
		"predictions": predictions,
	})
}

func scanBooth(row rowScanner) (models.Booth, error) {
	var booth models.Booth
	var name sql.NullString
	err := row.Scan(
		&booth.ID, &booth.BoothNumber, &name, &booth.ConstituencyID,
		&booth.VoterCount, &booth.CreatedAt, &booth.UpdatedAt,
	)
	if err != nil {
		return models.Booth{}, err
	}
	booth.Name = name.String
	return booth, nil
}
