// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/boothpulse/cliparse"
	"github.com/danielhkuo/boothpulse/middleware"
	"github.com/danielhkuo/boothpulse/models"
)

type UserHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewUserHandler(db *sql.DB, cfg cliparse.Config) *UserHandler {
	return &UserHandler{db: db, cfg: cfg}
}

// List handles GET /users (admin)
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}

	rows, err := h.db.Query(`
		SELECT id, name, email, phone, role, constituency_id, created_at, updated_at
		FROM users
		ORDER BY name
	`)
	if err != nil {
		slog.Error("failed to query users", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			slog.Error("failed to scan user", "error", err)
			middleware.ServerError(w, "Database error")
			return
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read users", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, users)
}

// GetByID handles GET /users/{id}
// Admins can read anyone; everyone else only themselves
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireUser(h.db, w, r)
	if !ok {
		return
	}

	userID := r.PathValue("id")
	if caller.Role != models.RoleAdmin && caller.ID != userID {
		middleware.ForbiddenError(w, "Cannot access another user")
		return
	}

	user, err := scanUser(h.db.QueryRow(`
		SELECT id, name, email, phone, role, constituency_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID))

	if err == sql.ErrNoRows {
		middleware.NotFoundError(w, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user)
}

// Update handles PUT /users/{id} (admin)
// Partial update of name/phone/role/constituency
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}

	userID := r.PathValue("id")

	var req models.UpdateUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ValidationError(w, "Invalid JSON")
		return
	}

	if req.Role != nil {
		switch *req.Role {
		case models.RoleAdmin, models.RoleLeader, models.RoleWorker:
		default:
			middleware.ValidationError(w, "role must be ADMIN, LEADER or WORKER")
			return
		}
	}

	current, err := scanUser(h.db.QueryRow(`
		SELECT id, name, email, phone, role, constituency_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID))

	if err == sql.ErrNoRows {
		middleware.NotFoundError(w, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Phone != nil {
		current.Phone = req.Phone
	}
	if req.Role != nil {
		current.Role = *req.Role
	}
	if req.ConstituencyID != nil {
		current.ConstituencyID = req.ConstituencyID
	}
	current.UpdatedAt = time.Now()

	_, err = h.db.Exec(`
		UPDATE users
		SET name = $1, phone = $2, role = $3, constituency_id = $4, updated_at = $5
		WHERE id = $6
	`, current.Name, current.Phone, current.Role, current.ConstituencyID, current.UpdatedAt, userID)

	if err != nil {
		slog.Error("failed to update user", "error", err)
		middleware.ServerError(w, "Failed to update user")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, current)
}

// Delete handles DELETE /users/{id} (admin)
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}

	result, err := h.db.Exec(`DELETE FROM users WHERE id = $1`, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to delete user", "error", err)
		middleware.ServerError(w, "Failed to delete user")
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ServerError(w, "Failed to delete user")
		return
	}
	if affected == 0 {
		middleware.NotFoundError(w, "User not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "User deleted successfully",
	})
}

// AssignBooths handles PUT /users/{id}/booths (admin)
// Replaces the user's booth assignments with the given set
func (h *UserHandler) AssignBooths(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}

	userID := r.PathValue("id")

	var req models.AssignBoothsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ValidationError(w, "Invalid JSON")
		return
	}

	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check user", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}
	if !exists {
		middleware.NotFoundError(w, "User not found")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM user_booths WHERE user_id = $1`, userID); err != nil {
		slog.Error("failed to clear booth assignments", "error", err)
		middleware.ServerError(w, "Failed to assign booths")
		return
	}

	for _, boothID := range req.BoothIDs {
		var boothExists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM booths WHERE id = $1)`, boothID).Scan(&boothExists); err != nil {
			slog.Error("failed to check booth", "error", err)
			middleware.ServerError(w, "Failed to assign booths")
			return
		}
		if !boothExists {
			middleware.NotFoundError(w, "Booth not found: "+boothID)
			return
		}

		if _, err := tx.Exec(`
			INSERT INTO user_booths (user_id, booth_id) VALUES ($1, $2)
		`, userID, boothID); err != nil {
			slog.Error("failed to insert booth assignment", "error", err)
			middleware.ServerError(w, "Failed to assign booths")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ServerError(w, "Failed to assign booths")
		return
	}

	slog.Info("booths assigned", "user_id", userID, "count", len(req.BoothIDs))

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"userId":   userID,
		"boothIds": req.BoothIDs,
	})
}

func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	var phone, constituencyID sql.NullString
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &phone, &user.Role,
		&constituencyID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}
	if phone.Valid {
		user.Phone = &phone.String
	}
	if constituencyID.Valid {
		user.ConstituencyID = &constituencyID.String
	}
	return user, nil
}
