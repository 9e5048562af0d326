// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/boothpulse/models"
)

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Log request
		slog.Info("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", GetClientIP(r),
		)

		// Call the next handler
		next(w, r)

		// Log completion
		duration := time.Since(start)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response with an explicit error kind.
// Kinds are the models.ErrKind* constants; callers usually go through the
// named helpers below.
func ErrorResponse(w http.ResponseWriter, statusCode int, kind, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		Error:   kind,
		Message: message,
	})
}

// ValidationError writes a 400 with the validation_error kind
func ValidationError(w http.ResponseWriter, message string) {
	ErrorResponse(w, http.StatusBadRequest, models.ErrKindValidation, message)
}

// LockedError writes a 400 with the locked kind. Locked constituencies are
// an expected business state and must be distinguishable from validation
// failures on the client.
func LockedError(w http.ResponseWriter, message string) {
	ErrorResponse(w, http.StatusBadRequest, models.ErrKindLocked, message)
}

// NotFoundError writes a 404 with the not_found kind
func NotFoundError(w http.ResponseWriter, message string) {
	ErrorResponse(w, http.StatusNotFound, models.ErrKindNotFound, message)
}

// UnauthorizedError writes a 401 with the unauthorized kind
func UnauthorizedError(w http.ResponseWriter, message string) {
	ErrorResponse(w, http.StatusUnauthorized, models.ErrKindUnauthorized, message)
}

// ForbiddenError writes a 403 with the forbidden kind
func ForbiddenError(w http.ResponseWriter, message string) {
	ErrorResponse(w, http.StatusForbidden, models.ErrKindForbidden, message)
}

// ConflictError writes a 409 with the conflict kind
func ConflictError(w http.ResponseWriter, message string) {
	ErrorResponse(w, http.StatusConflict, models.ErrKindConflict, message)
}

// ServerError writes a 500 with the server_error kind
func ServerError(w http.ResponseWriter, message string) {
	ErrorResponse(w, http.StatusInternalServerError, models.ErrKindServer, message)
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// CORS middleware allows cross-origin requests from the web and mobile clients
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetClientIP extracts the client IP address
// Checks X-Forwarded-For, X-Real-IP, then falls back to RemoteAddr
func GetClientIP(r *http.Request) string {
	// Check X-Forwarded-For (load balancers)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take first IP in chain
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' || xff[i] == ' ' {
				return xff[:i]
			}
		}
		return xff
	}

	// Check X-Real-IP (nginx)
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	// Strip port if present
	addr := r.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}
