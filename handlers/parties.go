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

// PartyHandler manages the party registry. The registry is reference data
// for clients; prediction party keys stay free-form and are never checked
// against it.
type PartyHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPartyHandler(db *sql.DB, cfg cliparse.Config) *PartyHandler {
	return &PartyHandler{db: db, cfg: cfg}
}

// Create handles POST /parties (admin)
func (h *PartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}

	var req models.CreatePartyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ValidationError(w, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ValidationError(w, "name is required")
		return
	}
	if req.ShortName == "" {
		middleware.ValidationError(w, "shortName is required")
		return
	}

	party := models.Party{
		ID:        uuid.NewString(),
		Name:      req.Name,
		ShortName: req.ShortName,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if req.LogoURL != "" {
		party.LogoURL = &req.LogoURL
	}

	_, err := h.db.Exec(`
		INSERT INTO parties (id, name, short_name, logo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, party.ID, party.Name, party.ShortName, party.LogoURL, party.CreatedAt, party.UpdatedAt)

	if err != nil {
		slog.Error("failed to insert party", "error", err)
		middleware.ServerError(w, "Failed to create party")
		return
	}

	slog.Info("party created", "party_id", party.ID, "short_name", party.ShortName)

	middleware.JSONResponse(w, http.StatusCreated, party)
}

// List handles GET /parties
func (h *PartyHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(h.db, w, r); !ok {
		return
	}

	rows, err := h.db.Query(`
		SELECT id, name, short_name, logo_url, created_at, updated_at
		FROM parties
		ORDER BY short_name
	`)
	if err != nil {
		slog.Error("failed to query parties", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}
	defer rows.Close()

	parties := []models.Party{}
	for rows.Next() {
		party, err := scanParty(rows)
		if err != nil {
			slog.Error("failed to scan party", "error", err)
			middleware.ServerError(w, "Database error")
			return
		}
		parties = append(parties, party)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read parties", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, parties)
}

// GetByID handles GET /parties/{id}
func (h *PartyHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(h.db, w, r); !ok {
		return
	}

	party, err := scanParty(h.db.QueryRow(`
		SELECT id, name, short_name, logo_url, created_at, updated_at
		FROM parties
		WHERE id = $1
	`, r.PathValue("id")))

	if err == sql.ErrNoRows {
		middleware.NotFoundError(w, "Party not found")
		return
	}
	if err != nil {
		slog.Error("failed to query party", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, party)
}

// Update handles PUT /parties/{id} (admin)
func (h *PartyHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}

	var req models.CreatePartyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ValidationError(w, "Invalid JSON")
		return
	}

	if req.Name == "" || req.ShortName == "" {
		middleware.ValidationError(w, "name and shortName are required")
		return
	}

	var logoURL *string
	if req.LogoURL != "" {
		logoURL = &req.LogoURL
	}

	party, err := scanParty(h.db.QueryRow(`
		UPDATE parties
		SET name = $1, short_name = $2, logo_url = $3, updated_at = $4
		WHERE id = $5
		RETURNING id, name, short_name, logo_url, created_at, updated_at
	`, req.Name, req.ShortName, logoURL, time.Now(), r.PathValue("id")))

	if err == sql.ErrNoRows {
		middleware.NotFoundError(w, "Party not found")
		return
	}
	if err != nil {
		slog.Error("failed to update party", "error", err)
		middleware.ServerError(w, "Failed to update party")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, party)
}

// Delete handles DELETE /parties/{id} (admin)
func (h *PartyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}

	result, err := h.db.Exec(`DELETE FROM parties WHERE id = $1`, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to delete party", "error", err)
		middleware.ServerError(w, "Failed to delete party")
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ServerError(w, "Failed to delete party")
		return
	}
	if affected == 0 {
		middleware.NotFoundError(w, "Party not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Party deleted successfully",
	})
}

func scanParty(row rowScanner) (models.Party, error) {
	var party models.Party
	var logoURL sql.NullString
	err := row.Scan(&party.ID, &party.Name, &party.ShortName, &logoURL, &party.CreatedAt, &party.UpdatedAt)
	if err != nil {
		return models.Party{}, err
	}
	if logoURL.Valid {
		party.LogoURL = &logoURL.String
	}
	return party, nil
}
