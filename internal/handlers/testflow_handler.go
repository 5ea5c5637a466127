package handlers

import (
	"net/http"
	"time"

	"vocadrill/internal/drill"
	"vocadrill/internal/service"
)

// TestFlowHandler handles multi-phase test HTTP requests
type TestFlowHandler struct {
	testService *service.TestFlowService
}

// NewTestFlowHandler creates a new test flow handler
func NewTestFlowHandler(testService *service.TestFlowService) *TestFlowHandler {
	return &TestFlowHandler{testService: testService}
}

// StartTest handles POST /api/tests
func (h *TestFlowHandler) StartTest(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		PlanID int64 `json:"plan_id"`
		Quotas []struct {
			Phase string `json:"phase"`
			Count int    `json:"count"`
		} `json:"quotas"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	var quotas []drill.PhaseQuota
	for _, q := range req.Quotas {
		if q.Count <= 0 {
			respondWithError(w, http.StatusBadRequest, "Phase counts must be positive", "", nil)
			return
		}
		quotas = append(quotas, drill.PhaseQuota{Phase: q.Phase, Count: q.Count})
	}

	testID, phase, items, err := h.testService.StartTest(user.ID, req.PlanID, quotas)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"test_id": testID,
		"phase":   phase,
		"items":   itemViews(items),
	})
}

// CurrentPhase handles GET /api/tests/{id}/phase
func (h *TestFlowHandler) CurrentPhase(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	testID := r.PathValue("id")

	phase, items, err := h.testService.CurrentPhase(user.ID, testID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"phase": phase,
		"items": itemViews(items),
	})
}

// SubmitPhase handles POST /api/tests/{id}/phase
func (h *TestFlowHandler) SubmitPhase(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	testID := r.PathValue("id")

	var req struct {
		Results []drill.PhaseItemResult `json:"results"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	nextPhase, nextItems, summary, err := h.testService.SubmitPhase(user.ID, testID, req.Results)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if summary != nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"completed": true,
			"summary":   summary,
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"completed": false,
		"phase":     nextPhase,
		"items":     itemViews(nextItems),
	})
}

// AbandonTest handles DELETE /api/tests/{id}
func (h *TestFlowHandler) AbandonTest(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	testID := r.PathValue("id")

	if err := h.testService.AbandonTest(user.ID, testID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// TestHistory handles GET /api/plans/{id}/tests
func (h *TestFlowHandler) TestHistory(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	planID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid plan id", "", nil)
		return
	}

	results, err := h.testService.TestHistory(user.ID, planID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := make([]map[string]interface{}, 0, len(results))
	for _, res := range results {
		views = append(views, map[string]interface{}{
			"id":             res.ID,
			"plan_id":        res.StudyPlanID,
			"total_items":    res.TotalItems,
			"correct_items":  res.CorrectItems,
			"overall_score":  res.OverallScore,
			"grade":          res.Grade,
			"strongest":      res.Strongest,
			"weakest":        res.Weakest,
			"time_spent_sec": res.TimeSpentSec,
			"taken_at":       res.TakenAt.Format(time.RFC3339),
		})
	}
	respondJSON(w, http.StatusOK, views)
}
