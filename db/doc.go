// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles driver selection and database schema creation.

# Opening a Connection

Open picks the driver from the configuration:

	conn, err := db.Open(cfg)

DATABASE_TYPE "sqlite" (the default, cgo-free via modernc.org/sqlite)
takes a file path or :memory: as DATABASE_URL; "postgres" takes a
connection string. SQLite connections are capped at one open connection
because the driver serializes writers anyway.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL sticks to the dialect subset both drivers accept.

# Tables

The schema includes:

  - users: Accounts with role (ADMIN, LEADER, WORKER)
  - sessions: Bearer tokens with expiry
  - parties: Party registry (reference data)
  - campaigns: Election campaigns
  - constituencies: Constituencies with the is_locked flag
  - booths: Polling booths with voter_count weights
  - user_booths: Worker-to-booth assignments
  - predictions: One row per (booth, user), replaced on resubmission
  - campaign_members: Membership requests with role, scope, status

# Key Constraints

	predictions UNIQUE (booth_id, user_id)
	predictions CHECK (turnout_pct BETWEEN 0 AND 100)
	predictions CHECK (confidence BETWEEN 1 AND 5)
	campaign_members UNIQUE (user_id, campaign_id)

The predictions uniqueness constraint is what makes submission an upsert:
the ON CONFLICT target in the submit path relies on it.
*/
package db
