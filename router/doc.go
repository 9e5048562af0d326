// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the BoothPulse API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Authentication (public):

	POST /auth/register - Create account, returns session token
	POST /auth/login    - Exchange credentials for session token

User management (admin, bearer token):

	GET    /users             - List users
	GET    /users/{id}        - Get user (admin or self)
	PUT    /users/{id}        - Update user
	DELETE /users/{id}        - Delete user
	PUT    /users/{id}/booths - Replace a worker's booth assignments

Party registry (admin writes, any user reads):

	POST   /parties
	GET    /parties
	GET    /parties/{id}
	PUT    /parties/{id}
	DELETE /parties/{id}

Constituencies (admin writes, any user reads):

	POST   /constituencies
	GET    /constituencies          - Includes coverage stats
	GET    /constituencies/{id}
	PUT    /constituencies/{id}
	DELETE /constituencies/{id}
	POST   /constituencies/{id}/lock   - Freeze prediction writes
	POST   /constituencies/{id}/unlock - Reopen

Booths (admin writes, assigned workers read):

	POST   /booths
	GET    /booths
	GET    /booths/{id}
	PUT    /booths/{id}
	DELETE /booths/{id}
	GET    /booths/{id}/summary - Booth with all predictions

Predictions:

	POST /predictions           - Submit or replace own prediction
	GET  /predictions           - List all (admin)
	GET  /predictions/my-booths - Assigned booths with own prediction
	GET  /predictions/summary   - Aggregated constituency projection
	GET  /predictions/{id}      - Single prediction

Campaigns:

	POST /campaigns
	GET  /campaigns
	GET  /campaigns/{id}
	GET  /campaigns/{id}/summary         - Coverage rollup
	POST /campaigns/{id}/join            - Request membership
	GET  /campaigns/{id}/members/pending - Pending requests (admin)
	GET  /campaigns/{id}/membership      - Caller's membership
	POST /campaign-members/{id}/status   - Approve or reject (admin)

# Handler Initialization

The router creates handler instances with dependency injection:

	authHandler := handlers.NewAuthHandler(db, cfg)
	predictionHandler := handlers.NewPredictionHandler(db, cfg)
	...

All handlers receive the database connection and configuration.
*/
package router
