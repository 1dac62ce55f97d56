package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/scorewise/scorewise/internal/domain"
)

// ─── Scoring Endpoints ──────────────────────────────────────────────────────
//
// POST /api/credit-score                 — score a user and persist the result
// POST /api/credit-score/predict         — growth projection, nothing persisted
// GET  /api/credit-score/{userID}        — latest persisted score
// GET  /api/credit-score/{userID}/history — monthly average score history

type scoreRequest struct {
	UserID int64 `json:"user_id"`
}

type predictRequest struct {
	UserID             int64   `json:"user_id"`
	MonthlyRemitAmount float64 `json:"monthly_remit_amount"`
}

// handleScore computes, persists, and returns a user's current score.
// POST /api/credit-score
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id must be positive")
		return
	}

	score, err := s.svc.ScoreUser(r.Context(), req.UserID)
	if err != nil {
		writeScoringError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":      req.UserID,
		"credit_score": score,
	})
}

// handlePredict runs the remittance-habit growth simulation.
// POST /api/credit-score/predict
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id must be positive")
		return
	}
	if req.MonthlyRemitAmount < 0 {
		writeError(w, http.StatusBadRequest, "monthly_remit_amount must be non-negative")
		return
	}

	proj, err := s.svc.PredictGrowth(r.Context(), req.UserID, req.MonthlyRemitAmount)
	if err != nil {
		writeScoringError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":    req.UserID,
		"projection": proj,
	})
}

// handleLatestScore returns the last persisted score, 0 if never scored.
// GET /api/credit-score/{userID}
func (s *Server) handleLatestScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	score, err := s.svc.LatestScore(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":      userID,
		"credit_score": score,
	})
}

// handleScoreHistory returns monthly average scores, oldest first.
// GET /api/credit-score/{userID}/history
func (s *Server) handleScoreHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	history, err := s.svc.History(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if history == nil {
		history = []domain.ScoreHistoryEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"history": history,
	})
}

// userIDParam parses the {userID} route parameter, writing a 400 on failure.
func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

// writeScoringError maps pipeline failures to HTTP statuses. A missing model
// or scaler artifact is a deployment problem, surfaced as service-unavailable
// rather than scored around.
func writeScoringError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrModelUnavailable),
		errors.Is(err, domain.ErrScalerUnavailable),
		errors.Is(err, domain.ErrArtifactCorrupted):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrNegativeRemitAmount):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
