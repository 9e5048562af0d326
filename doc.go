// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the BoothPulse API server.

BoothPulse is a campaign field-intelligence service: booth workers submit
vote-share predictions for their polling booths, and the service aggregates
them into per-constituency and per-campaign projections.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=boothpulse.db go run main.go

Or with flags:

	go run main.go -p 5000 -d "postgres://..." -t postgres

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - SESSION_TTL_HOURS (--session-ttl): Bearer session lifetime (default: 720)
  - ADMIN_EMAIL / ADMIN_PASSWORD: Bootstrap admin account, created on
    startup when no user with that email exists

A .env file in the working directory is loaded if present; real environment
variables take precedence.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (auth, users, parties, constituencies,
    booths, predictions, campaigns) plus the aggregation engine
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Password hashing and session tokens
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
