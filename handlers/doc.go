// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the BoothPulse API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AuthHandler: Registration and login
  - UserHandler: User management and booth assignment
  - PartyHandler: Party registry CRUD
  - ConstituencyHandler: Constituency CRUD and lock control
  - BoothHandler: Booth CRUD and per-booth summaries
  - PredictionHandler: Prediction submission and aggregated summaries
  - CampaignHandler: Campaigns and membership requests

Handlers are created via constructor functions that accept *sql.DB and Config:

	predictionHandler := handlers.NewPredictionHandler(db, cfg)

# Prediction Flow

Workers are assigned booths and submit one prediction per booth:

	GET  /predictions/my-booths → assigned booths with own latest prediction
	POST /predictions           → submit or replace (one row per booth+worker)
	GET  /predictions/summary   → aggregated constituency projection

Resubmitting for the same booth replaces the worker's previous numbers in
place. Submission is rejected while the booth's constituency is locked; the
lock check runs inside the same transaction as the write.

# Aggregation

The weighted aggregation lives in aggregate.go:

	result, err := ComputeConstituencyAggregate(db, constituencyID)

Every prediction contributes turnout x share x booth-voter-weight to its
party's tally; shares are normalized to percentages and the winner is the
party with the largest raw tally. Aggregates are computed on read, never
stored.

Campaign-level rollups come from ComputeCampaignCoverage.

# Locking

Admins freeze a constituency once counting is done:

	POST /constituencies/{id}/lock
	POST /constituencies/{id}/unlock

A locked constituency rejects new predictions but still serves summaries.
*/
package handlers
