// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)

Error responses carry a machine-readable kind plus a human message:

	{"error": "locked", "message": "Constituency is locked"}

The kind-specific helpers pick the status code:

	middleware.ValidationError(w, msg)   // 400 validation_error
	middleware.LockedError(w, msg)       // 400 locked
	middleware.UnauthorizedError(w, msg) // 401 unauthorized
	middleware.ForbiddenError(w, msg)    // 403 forbidden
	middleware.NotFoundError(w, msg)     // 404 not_found
	middleware.ConflictError(w, msg)     // 409 conflict
	middleware.ServerError(w, msg)       // 500 server_error

Parse JSON request bodies:

	var req models.SubmitPredictionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ValidationError(w, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used in request logs.
*/
package middleware
