// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/boothpulse/cliparse"
	"github.com/danielhkuo/boothpulse/middleware"
	"github.com/danielhkuo/boothpulse/models"
)

type PredictionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPredictionHandler(db *sql.DB, cfg cliparse.Config) *PredictionHandler {
	return &PredictionHandler{db: db, cfg: cfg}
}

// Submit handles POST /predictions
// Upserts the caller's prediction for a booth: at most one record exists
// per (booth, user) pair, and a resubmission replaces it in place.
func (h *PredictionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(h.db, w, r)
	if !ok {
		return
	}

	var req models.SubmitPredictionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ValidationError(w, "Invalid JSON")
		return
	}

	if req.BoothID == "" {
		middleware.ValidationError(w, "boothId is required")
		return
	}
	if req.TurnoutPercentage == nil {
		middleware.ValidationError(w, "turnoutPercentage is required")
		return
	}
	turnout := *req.TurnoutPercentage
	if math.IsNaN(turnout) || turnout < 0 || turnout > 100 {
		middleware.ValidationError(w, "turnoutPercentage must be between 0 and 100")
		return
	}
	if req.ConfidenceLevel == nil {
		middleware.ValidationError(w, "confidenceLevel is required")
		return
	}
	confidence := *req.ConfidenceLevel
	if confidence < 1 || confidence > 5 {
		middleware.ValidationError(w, "confidenceLevel must be between 1 and 5")
		return
	}
	if len(req.Data) == 0 {
		middleware.ValidationError(w, "data cannot be empty")
		return
	}
	// Party keys are free-form short names on purpose (party lists evolve);
	// only the share values are range-checked.
	for party, sharePct := range req.Data {
		if math.IsNaN(sharePct) || sharePct < 0 || sharePct > 100 {
			middleware.ValidationError(w, "vote share for "+party+" must be between 0 and 100")
			return
		}
	}

	// Canonical shape at the store boundary: whatever object variant came
	// in, exactly one JSON encoding goes out
	dataJSON, err := json.Marshal(req.Data)
	if err != nil {
		slog.Error("failed to encode prediction data", "error", err)
		middleware.ServerError(w, "Failed to submit prediction")
		return
	}

	// The lock check and the write share one transaction, so a concurrent
	// lock cannot slip between them
	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}
	defer tx.Rollback()

	var constituencyID string
	err = tx.QueryRow(`
		SELECT constituency_id FROM booths WHERE id = $1
	`, req.BoothID).Scan(&constituencyID)

	if err == sql.ErrNoRows {
		middleware.NotFoundError(w, "Booth not found")
		return
	}
	if err != nil {
		slog.Error("failed to query booth", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	if err := ConstituencyWritable(tx, constituencyID); err != nil {
		switch err {
		case ErrConstituencyLocked:
			middleware.LockedError(w, "Constituency is locked; predictions are frozen")
		case ErrConstituencyNotFound:
			middleware.NotFoundError(w, "Constituency not found")
		default:
			slog.Error("lock gate failed", "error", err)
			middleware.ServerError(w, "Database error")
		}
		return
	}

	// Upsert keyed on (booth_id, user_id): the unique constraint serializes
	// concurrent submissions for the same key, last write wins. created_at
	// and the row id survive replacement.
	now := time.Now()
	var stored models.Prediction
	var storedJSON string
	err = tx.QueryRow(`
		INSERT INTO predictions (id, booth_id, user_id, turnout_pct, data, confidence, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (booth_id, user_id) DO UPDATE SET
			turnout_pct = EXCLUDED.turnout_pct,
			data = EXCLUDED.data,
			confidence = EXCLUDED.confidence,
			updated_at = EXCLUDED.updated_at
		RETURNING id, booth_id, user_id, turnout_pct, data, confidence, created_at, updated_at
	`, uuid.NewString(), req.BoothID, user.ID, turnout, string(dataJSON), confidence, now, now).Scan(
		&stored.ID, &stored.BoothID, &stored.UserID, &stored.TurnoutPercentage,
		&storedJSON, &stored.ConfidenceLevel, &stored.CreatedAt, &stored.UpdatedAt,
	)

	if err != nil {
		slog.Error("failed to upsert prediction", "error", err)
		middleware.ServerError(w, "Failed to submit prediction")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ServerError(w, "Failed to submit prediction")
		return
	}

	if err := json.Unmarshal([]byte(storedJSON), &stored.Data); err != nil {
		slog.Error("failed to decode stored prediction data", "error", err)
		middleware.ServerError(w, "Failed to submit prediction")
		return
	}

	slog.Info("prediction submitted",
		"booth_id", req.BoothID,
		"user_id", user.ID,
		"prediction_id", stored.ID,
	)

	middleware.JSONResponse(w, http.StatusCreated, stored)
}

// MyBooths handles GET /predictions/my-booths
// Returns the caller's assigned booths with their own prediction, if any
func (h *PredictionHandler) MyBooths(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(h.db, w, r)
	if !ok {
		return
	}

	rows, err := h.db.Query(`
		SELECT b.id, b.booth_number, b.name, b.voter_count,
		       p.id, p.turnout_pct, p.data, p.confidence, p.created_at, p.updated_at
		FROM user_booths ub
		JOIN booths b ON ub.booth_id = b.id
		LEFT JOIN predictions p ON p.booth_id = b.id AND p.user_id = ub.user_id
		WHERE ub.user_id = $1
		ORDER BY b.booth_number
	`, user.ID)
	if err != nil {
		slog.Error("failed to query assigned booths", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}
	defer rows.Close()

	entries := []models.MyBoothEntry{}
	for rows.Next() {
		var entry models.MyBoothEntry
		var boothName sql.NullString
		var predID, predJSON sql.NullString
		var predTurnout sql.NullFloat64
		var predConfidence sql.NullInt64
		var predCreated, predUpdated sql.NullTime

		if err := rows.Scan(
			&entry.BoothID, &entry.BoothNumber, &boothName, &entry.VoterCount,
			&predID, &predTurnout, &predJSON, &predConfidence, &predCreated, &predUpdated,
		); err != nil {
			slog.Error("failed to scan booth", "error", err)
			middleware.ServerError(w, "Database error")
			return
		}

		entry.Name = boothName.String

		if predID.Valid {
			pred := models.Prediction{
				ID:                predID.String,
				BoothID:           entry.BoothID,
				UserID:            user.ID,
				TurnoutPercentage: predTurnout.Float64,
				ConfidenceLevel:   int(predConfidence.Int64),
				CreatedAt:         predCreated.Time,
				UpdatedAt:         predUpdated.Time,
			}
			if err := json.Unmarshal([]byte(predJSON.String), &pred.Data); err != nil {
				slog.Error("failed to decode prediction data", "error", err, "prediction_id", pred.ID)
				middleware.ServerError(w, "Database error")
				return
			}
			entry.Prediction = &pred
		}

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read assigned booths", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, entries)
}

// Summary handles GET /predictions/summary?constituencyId=
// The leader dashboard: weighted vote share, predicted winner and coverage
// for one constituency, computed on read. Without the query parameter it
// falls back to the caller's own constituency.
func (h *PredictionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(h.db, w, r)
	if !ok {
		return
	}

	constituencyID := r.URL.Query().Get("constituencyId")
	if constituencyID == "" {
		if user.ConstituencyID == nil {
			middleware.ValidationError(w, "constituencyId is required")
			return
		}
		constituencyID = *user.ConstituencyID
	}

	var ref models.ConstituencyRef
	err := h.db.QueryRow(`
		SELECT id, name FROM constituencies WHERE id = $1
	`, constituencyID).Scan(&ref.ID, &ref.Name)

	if err == sql.ErrNoRows {
		middleware.NotFoundError(w, "Constituency not found")
		return
	}
	if err != nil {
		slog.Error("failed to query constituency", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	agg, err := ComputeConstituencyAggregate(h.db, constituencyID)
	if err != nil {
		slog.Error("failed to aggregate constituency", "error", err, "constituency_id", constituencyID)
		middleware.ServerError(w, "Failed to compute summary")
		return
	}

	response := models.SummaryResponse{
		Constituency:   ref,
		PartyVoteShare: SortedPartyShares(agg.VoteSharePct),
		BoothStats: models.BoothStats{
			TotalBooths:   agg.TotalBooths,
			UpdatedBooths: agg.UpdatedBooths,
		},
		LastUpdated: agg.LastUpdated,
	}
	if agg.PredictedWinner != "" {
		response.PredictedWinner = &models.PartyShare{
			Party:     agg.PredictedWinner,
			VoteShare: agg.WinnerShare,
		}
	}

	middleware.JSONResponse(w, http.StatusOK, response)
}

// List handles GET /predictions (admin, optional ?constituencyId= filter)
func (h *PredictionHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}

	query := `
		SELECT p.id, p.booth_id, p.user_id, p.turnout_pct, p.data, p.confidence, p.created_at, p.updated_at
		FROM predictions p
	`
	var args []interface{}
	if constituencyID := r.URL.Query().Get("constituencyId"); constituencyID != "" {
		query += `
		JOIN booths b ON p.booth_id = b.id
		WHERE b.constituency_id = $1`
		args = append(args, constituencyID)
	}
	query += `
		ORDER BY p.updated_at DESC`

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query predictions", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}
	defer rows.Close()

	predictions := []models.Prediction{}
	for rows.Next() {
		pred, err := scanPrediction(rows)
		if err != nil {
			slog.Error("failed to scan prediction", "error", err)
			middleware.ServerError(w, "Database error")
			return
		}
		predictions = append(predictions, pred)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read predictions", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, predictions)
}

// GetByID handles GET /predictions/{id}
func (h *PredictionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(h.db, w, r); !ok {
		return
	}

	predictionID := r.PathValue("id")
	if predictionID == "" {
		middleware.ValidationError(w, "prediction id is required")
		return
	}

	row := h.db.QueryRow(`
		SELECT id, booth_id, user_id, turnout_pct, data, confidence, created_at, updated_at
		FROM predictions
		WHERE id = $1
	`, predictionID)

	pred, err := scanPrediction(row)
	if err == sql.ErrNoRows {
		middleware.NotFoundError(w, "Prediction not found")
		return
	}
	if err != nil {
		slog.Error("failed to query prediction", "error", err)
		middleware.ServerError(w, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, pred)
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPrediction(row rowScanner) (models.Prediction, error) {
	var pred models.Prediction
	var dataJSON string
	err := row.Scan(
		&pred.ID, &pred.BoothID, &pred.UserID, &pred.TurnoutPercentage,
		&dataJSON, &pred.ConfidenceLevel, &pred.CreatedAt, &pred.UpdatedAt,
	)
	if err != nil {
		return models.Prediction{}, err
	}
	if err := json.Unmarshal([]byte(dataJSON), &pred.Data); err != nil {
		return models.Prediction{}, err
	}
	return pred, nil
}
