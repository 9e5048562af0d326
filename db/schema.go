// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is restricted to the dialect subset shared by SQLite and Postgres.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    phone TEXT,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('ADMIN', 'LEADER', 'WORKER')),
    constituency_id TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

-- Sessions (bearer tokens)
CREATE TABLE IF NOT EXISTS sessions (
    token TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);

-- Parties (registry only; prediction party keys are free-form)
CREATE TABLE IF NOT EXISTS parties (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    short_name TEXT NOT NULL,
    logo_url TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

-- Campaigns
CREATE TABLE IF NOT EXISTS campaigns (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    code TEXT NOT NULL UNIQUE,
    party_id TEXT REFERENCES parties(id),
    state TEXT NOT NULL,
    description TEXT,
    created_at TIMESTAMP NOT NULL
);

-- Constituencies
CREATE TABLE IF NOT EXISTS constituencies (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    state TEXT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('LOK_SABHA', 'VIDHAN_SABHA')),
    is_locked BOOLEAN NOT NULL DEFAULT FALSE,
    campaign_id TEXT REFERENCES campaigns(id),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_constituencies_campaign_id ON constituencies(campaign_id);

-- Booths
CREATE TABLE IF NOT EXISTS booths (
    id TEXT PRIMARY KEY,
    booth_number TEXT NOT NULL,
    name TEXT,
    constituency_id TEXT NOT NULL REFERENCES constituencies(id) ON DELETE CASCADE,
    voter_count INTEGER NOT NULL DEFAULT 0 CHECK (voter_count >= 0),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_booths_constituency_id ON booths(constituency_id);

-- Booth assignments (which worker covers which booths)
CREATE TABLE IF NOT EXISTS user_booths (
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    booth_id TEXT NOT NULL REFERENCES booths(id) ON DELETE CASCADE,
    PRIMARY KEY (user_id, booth_id)
);

CREATE INDEX IF NOT EXISTS idx_user_booths_booth_id ON user_booths(booth_id);

-- Predictions: one row per (booth, user), replaced in place on resubmission.
-- data is the canonical JSON object of party short-name -> share pct.
CREATE TABLE IF NOT EXISTS predictions (
    id TEXT PRIMARY KEY,
    booth_id TEXT NOT NULL REFERENCES booths(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    turnout_pct REAL NOT NULL CHECK (turnout_pct >= 0 AND turnout_pct <= 100),
    data TEXT NOT NULL,
    confidence INTEGER NOT NULL CHECK (confidence >= 1 AND confidence <= 5),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    UNIQUE (booth_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_predictions_booth_id ON predictions(booth_id);
CREATE INDEX IF NOT EXISTS idx_predictions_user_id ON predictions(user_id);

-- Campaign membership requests
CREATE TABLE IF NOT EXISTS campaign_members (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    campaign_id TEXT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
    role TEXT NOT NULL,
    scope TEXT NOT NULL CHECK (scope IN ('CAMPAIGN', 'STATE', 'CONSTITUENCY', 'BOOTH')),
    constituency_id TEXT REFERENCES constituencies(id),
    booth_id TEXT REFERENCES booths(id),
    status TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED')),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    UNIQUE (user_id, campaign_id)
);

CREATE INDEX IF NOT EXISTS idx_campaign_members_campaign_id ON campaign_members(campaign_id);
`
