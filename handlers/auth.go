// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/boothpulse/auth"
	"github.com/danielhkuo/boothpulse/cliparse"
	"github.com/danielhkuo/boothpulse/middleware"
	"github.com/danielhkuo/boothpulse/models"
)

type AuthHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAuthHandler(db *sql.DB, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ValidationError(w, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ValidationError(w, "name is required")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		middleware.ValidationError(w, "a valid email is required")
		return
	}
	if len(req.Password) < 8 {
		middleware.ValidationError(w, "password must be at least 8 characters")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleWorker
	}
	switch role {
	case models.RoleWorker, models.RoleLeader:
		// open self-registration
	case models.RoleAdmin:
		// only an existing admin may create another admin
		if _, ok := requireAdmin(h.db, w, r); !ok {
			return
		}
	default:
		middleware.ValidationError(w, "role must be ADMIN, LEADER or WORKER")
		return
	}

	// Pre-check the email; the unique constraint still backstops races
	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, req.Email).Scan(&exists)
	if err != nil {
		slog.Error("failed to check email", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}
	if exists {
		middleware.ConflictError(w, "Email already registered")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ServerError(w, "Failed to register")
		return
	}

	var phone *string
	if req.Phone != "" {
		phone = &req.Phone
	}

	userID := uuid.NewString()
	now := time.Now()
	_, err = h.db.Exec(`
		INSERT INTO users (id, name, email, phone, password_hash, role, constituency_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, userID, req.Name, req.Email, phone, passwordHash, role, req.ConstituencyID, now, now)

	if err != nil {
		slog.Error("failed to insert user", "error", err)
		middleware.ServerError(w, "Failed to register")
		return
	}

	user := models.User{
		ID:             userID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          phone,
		Role:           role,
		ConstituencyID: req.ConstituencyID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	token, ok := h.createSession(w, userID)
	if !ok {
		return
	}

	slog.Info("user registered", "user_id", userID, "role", role)

	middleware.JSONResponse(w, http.StatusCreated, models.AuthResponse{
		Token: token,
		User:  user,
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ValidationError(w, "Invalid JSON")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		middleware.ValidationError(w, "email and password are required")
		return
	}

	var user models.User
	var phone, constituencyID sql.NullString
	err := h.db.QueryRow(`
		SELECT id, name, email, phone, password_hash, role, constituency_id, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email).Scan(
		&user.ID, &user.Name, &user.Email, &phone, &user.PasswordHash,
		&user.Role, &constituencyID, &user.CreatedAt, &user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		middleware.UnauthorizedError(w, "Invalid email or password")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		middleware.UnauthorizedError(w, "Invalid email or password")
		return
	}

	if phone.Valid {
		user.Phone = &phone.String
	}
	if constituencyID.Valid {
		user.ConstituencyID = &constituencyID.String
	}

	token, ok := h.createSession(w, user.ID)
	if !ok {
		return
	}

	slog.Info("user logged in", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{
		Token: token,
		User:  user,
	})
}

// createSession issues a bearer token for the user. Writes the error
// response itself; returns ok=false if the handler should bail out.
func (h *AuthHandler) createSession(w http.ResponseWriter, userID string) (string, bool) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		slog.Error("failed to generate session token", "error", err)
		middleware.ServerError(w, "Failed to create session")
		return "", false
	}

	now := time.Now()
	expires := now.Add(time.Duration(h.cfg.SessionTTLHours) * time.Hour)
	_, err = h.db.Exec(`
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, token, userID, now, expires)

	if err != nil {
		slog.Error("failed to insert session", "error", err)
		middleware.ServerError(w, "Failed to create session")
		return "", false
	}

	return token, true
}
