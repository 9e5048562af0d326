// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/boothpulse/auth"
	"github.com/danielhkuo/boothpulse/middleware"
	"github.com/danielhkuo/boothpulse/models"
)

var errUnauthenticated = errors.New("unauthenticated")

// currentUser resolves the Authorization bearer token to a user record.
// The caller identity is always threaded through explicitly from here;
// nothing reads it from ambient state.
func currentUser(db *sql.DB, r *http.Request) (models.User, error) {
	token, err := auth.BearerToken(r)
	if err != nil {
		return models.User{}, errUnauthenticated
	}

	var u models.User
	var phone, constituencyID sql.NullString
	var expiresAt time.Time
	err = db.QueryRow(`
		SELECT u.id, u.name, u.email, u.phone, u.password_hash, u.role,
		       u.constituency_id, u.created_at, u.updated_at, s.expires_at
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token = $1
	`, token).Scan(
		&u.ID, &u.Name, &u.Email, &phone, &u.PasswordHash, &u.Role,
		&constituencyID, &u.CreatedAt, &u.UpdatedAt, &expiresAt,
	)

	if err == sql.ErrNoRows {
		return models.User{}, errUnauthenticated
	}
	if err != nil {
		return models.User{}, err
	}

	if time.Now().After(expiresAt) {
		return models.User{}, errUnauthenticated
	}

	if phone.Valid {
		u.Phone = &phone.String
	}
	if constituencyID.Valid {
		u.ConstituencyID = &constituencyID.String
	}

	return u, nil
}

// requireUser authenticates the request, writing the error response itself.
// Returns ok=false if the handler should bail out.
func requireUser(db *sql.DB, w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, err := currentUser(db, r)
	if err == errUnauthenticated {
		middleware.UnauthorizedError(w, "Authentication required")
		return models.User{}, false
	}
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		middleware.ServerError(w, "Database error")
		return models.User{}, false
	}
	return user, true
}

// requireAdmin authenticates the request and checks for the ADMIN role
func requireAdmin(db *sql.DB, w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := requireUser(db, w, r)
	if !ok {
		return models.User{}, false
	}
	if user.Role != models.RoleAdmin {
		middleware.ForbiddenError(w, "Admin access required")
		return models.User{}, false
	}
	return user, true
}
