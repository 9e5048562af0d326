// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 5000)
  - DatabaseURL: SQLite path or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - SessionTTLHours: Bearer session lifetime (default: 720)
  - AdminEmail / AdminPassword: Optional bootstrap admin account

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type
	--session-ttl  Session lifetime in hours
	--admin-email / --admin-password  Bootstrap admin (prefer env)

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	SESSION_TTL_HOURS → --session-ttl
	ADMIN_EMAIL       → --admin-email
	ADMIN_PASSWORD    → --admin-password

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - DATABASE_TYPE is neither sqlite nor postgres
  - only one of ADMIN_EMAIL / ADMIN_PASSWORD is set
*/
package cliparse
