// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/danielhkuo/boothpulse/models"
)

var (
	ErrConstituencyNotFound = errors.New("constituency not found")
	ErrConstituencyLocked   = errors.New("constituency is locked")
	ErrCampaignNotFound     = errors.New("campaign not found")
)

// AggregateResult is the aggregation engine output for one constituency.
// All percentages are 0-100.
type AggregateResult struct {
	TotalBooths     int
	UpdatedBooths   int
	UpdateProgress  float64
	VoteSharePct    map[string]float64
	PredictedWinner string // empty when there are no predictions
	WinnerShare     float64
	LastUpdated     *time.Time
}

// queryer is the subset of *sql.DB / *sql.Tx the lock gate needs
type queryer interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

// ConstituencyWritable is the lock gate: it reads the constituency's lock
// flag and rejects writes while it is set. Run it on the same transaction
// as the prediction write so the check and the write are atomic.
func ConstituencyWritable(q queryer, constituencyID string) error {
	var locked bool
	err := q.QueryRow(`
		SELECT is_locked FROM constituencies WHERE id = $1
	`, constituencyID).Scan(&locked)

	if err == sql.ErrNoRows {
		return ErrConstituencyNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read lock flag: %w", err)
	}
	if locked {
		return ErrConstituencyLocked
	}
	return nil
}

// ComputeConstituencyAggregate computes the weighted vote-share estimate
// for one constituency from every stored prediction for its booths.
//
// Each prediction contributes (turnout/100) * (share/100) * boothWeight
// votes per party, where boothWeight is the booth's voter count (1 when no
// count is recorded, so a booth is never silently excluded). All workers'
// submissions for a booth contribute additively; the engine does not pick
// one authoritative prediction per booth. Party shares are the per-party
// contribution over the total, as a percentage rounded to 2 decimals. The
// predicted winner is the party with the highest raw contribution, ties
// broken by lexicographically smaller party key.
//
// Empty input degrades to zeroed output; the only error besides store
// failures is an unresolvable constituency id.
func ComputeConstituencyAggregate(db *sql.DB, constituencyID string) (AggregateResult, error) {
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM constituencies WHERE id = $1)
	`, constituencyID).Scan(&exists)
	if err != nil {
		return AggregateResult{}, fmt.Errorf("failed to resolve constituency: %w", err)
	}
	if !exists {
		return AggregateResult{}, ErrConstituencyNotFound
	}

	result := AggregateResult{VoteSharePct: map[string]float64{}}

	err = db.QueryRow(`
		SELECT COUNT(*) FROM booths WHERE constituency_id = $1
	`, constituencyID).Scan(&result.TotalBooths)
	if err != nil {
		return AggregateResult{}, fmt.Errorf("failed to count booths: %w", err)
	}

	rows, err := db.Query(`
		SELECT p.booth_id, p.turnout_pct, p.data, p.updated_at, b.voter_count
		FROM predictions p
		JOIN booths b ON p.booth_id = b.id
		WHERE b.constituency_id = $1
	`, constituencyID)
	if err != nil {
		return AggregateResult{}, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	contributions := map[string]float64{}
	totalVotes := 0.0
	seenBooths := map[string]bool{}
	var lastUpdated time.Time

	for rows.Next() {
		var boothID, dataJSON string
		var turnout float64
		var updatedAt time.Time
		var voterCount int

		if err := rows.Scan(&boothID, &turnout, &dataJSON, &updatedAt, &voterCount); err != nil {
			return AggregateResult{}, fmt.Errorf("failed to scan prediction: %w", err)
		}

		var shares map[string]float64
		if err := json.Unmarshal([]byte(dataJSON), &shares); err != nil {
			return AggregateResult{}, fmt.Errorf("failed to parse prediction data: %w", err)
		}

		seenBooths[boothID] = true
		if updatedAt.After(lastUpdated) {
			lastUpdated = updatedAt
		}

		weight := float64(voterCount)
		if weight == 0 {
			weight = 1
		}

		for party, sharePct := range shares {
			votes := (turnout / 100) * (sharePct / 100) * weight
			contributions[party] += votes
			totalVotes += votes
		}
	}
	if err := rows.Err(); err != nil {
		return AggregateResult{}, fmt.Errorf("failed to read predictions: %w", err)
	}

	result.UpdatedBooths = len(seenBooths)
	if result.TotalBooths > 0 {
		result.UpdateProgress = float64(result.UpdatedBooths) / float64(result.TotalBooths) * 100
	}
	if len(seenBooths) > 0 {
		t := lastUpdated
		result.LastUpdated = &t
	}

	for party, votes := range contributions {
		if totalVotes > 0 {
			result.VoteSharePct[party] = round2(votes / totalVotes * 100)
		} else {
			result.VoteSharePct[party] = 0
		}

		if result.PredictedWinner == "" ||
			votes > contributions[result.PredictedWinner] ||
			(votes == contributions[result.PredictedWinner] && party < result.PredictedWinner) {
			result.PredictedWinner = party
		}
	}
	if result.PredictedWinner != "" {
		result.WinnerShare = result.VoteSharePct[result.PredictedWinner]
	}

	return result, nil
}

// ComputeCampaignCoverage computes booth coverage across every constituency
// tagged to the campaign. Coverage only; vote shares are not aggregated
// across constituencies.
func ComputeCampaignCoverage(db *sql.DB, campaignID string) (models.CampaignSummary, error) {
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM campaigns WHERE id = $1)
	`, campaignID).Scan(&exists)
	if err != nil {
		return models.CampaignSummary{}, fmt.Errorf("failed to resolve campaign: %w", err)
	}
	if !exists {
		return models.CampaignSummary{}, ErrCampaignNotFound
	}

	var summary models.CampaignSummary

	err = db.QueryRow(`
		SELECT COUNT(*) FROM constituencies WHERE campaign_id = $1
	`, campaignID).Scan(&summary.TotalConstituencies)
	if err != nil {
		return models.CampaignSummary{}, fmt.Errorf("failed to count constituencies: %w", err)
	}

	err = db.QueryRow(`
		SELECT COUNT(*)
		FROM booths b
		JOIN constituencies c ON b.constituency_id = c.id
		WHERE c.campaign_id = $1
	`, campaignID).Scan(&summary.TotalBooths)
	if err != nil {
		return models.CampaignSummary{}, fmt.Errorf("failed to count booths: %w", err)
	}

	err = db.QueryRow(`
		SELECT COUNT(DISTINCT p.booth_id)
		FROM predictions p
		JOIN booths b ON p.booth_id = b.id
		JOIN constituencies c ON b.constituency_id = c.id
		WHERE c.campaign_id = $1
	`, campaignID).Scan(&summary.UpdatedBooths)
	if err != nil {
		return models.CampaignSummary{}, fmt.Errorf("failed to count updated booths: %w", err)
	}

	if summary.TotalBooths > 0 {
		summary.CoveragePct = float64(summary.UpdatedBooths) / float64(summary.TotalBooths) * 100
	}

	return summary, nil
}

// SortedPartyShares converts a vote-share map into a list sorted by share
// descending, ties broken by party key, for stable presentation.
func SortedPartyShares(voteSharePct map[string]float64) []models.PartyShare {
	shares := make([]models.PartyShare, 0, len(voteSharePct))
	for party, share := range voteSharePct {
		shares = append(shares, models.PartyShare{Party: party, VoteShare: share})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].VoteShare != shares[j].VoteShare {
			return shares[i].VoteShare > shares[j].VoteShare
		}
		return shares[i].Party < shares[j].Party
	})

	return shares
}

// round2 rounds to 2 decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
