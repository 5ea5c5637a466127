package handlers

import (
	"net/http"
	"time"

	"vocadrill/internal/drill"
	"vocadrill/internal/models"
	"vocadrill/internal/service"
)

// SessionHandler handles drill session HTTP requests
type SessionHandler struct {
	studyService *service.StudyService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(studyService *service.StudyService) *SessionHandler {
	return &SessionHandler{studyService: studyService}
}

func itemView(item *drill.Item) map[string]interface{} {
	if item == nil {
		return nil
	}
	return map[string]interface{}{
		"id":         item.ID,
		"front_text": item.FrontText,
		"back_text":  item.BackText,
	}
}

// StartSession handles POST /api/sessions
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		PlanID int64            `json:"plan_id"`
		Mode   models.StudyMode `json:"mode"`
		IsTest bool             `json:"is_test"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	switch req.Mode {
	case models.ModeLearn, models.ModeMultipleChoice, models.ModeMatching,
		models.ModeWriting, models.ModeFillGaps:
	default:
		respondWithError(w, http.StatusBadRequest, "Invalid study mode", "", nil)
		return
	}

	session, err := h.studyService.StartSession(user.ID, req.PlanID, req.Mode, req.IsTest)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := map[string]interface{}{
		"session_id":  session.ID,
		"mode":        session.Mode,
		"is_test":     session.IsTest,
		"total_items": session.TotalItems,
	}

	if req.Mode == models.ModeMatching {
		round, pairs, err := h.studyService.MatchingRound(user.ID, session.ID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		resp["round"] = round
		resp["pairs"] = itemViews(pairs)
	} else {
		item, remaining, err := h.studyService.CurrentItem(user.ID, session.ID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		resp["current"] = itemView(item)
		resp["remaining"] = remaining
	}

	respondJSON(w, http.StatusCreated, resp)
}

func itemViews(items []drill.Item) []map[string]interface{} {
	views := make([]map[string]interface{}, 0, len(items))
	for i := range items {
		views = append(views, itemView(&items[i]))
	}
	return views
}

// Current handles GET /api/sessions/{id}/current
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	sessionID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid session id", "", nil)
		return
	}

	item, remaining, err := h.studyService.CurrentItem(user.ID, sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"current":   itemView(item),
		"remaining": remaining,
	})
}

// SubmitAnswer handles POST /api/sessions/{id}/answer
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	sessionID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid session id", "", nil)
		return
	}

	var req struct {
		ItemID     int64  `json:"item_id"`
		AnswerText string `json:"answer_text"`
		IsCorrect  *bool  `json:"is_correct"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	outcome, err := h.studyService.SubmitAnswer(user.ID, sessionID, req.ItemID, req.AnswerText, req.IsCorrect)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := map[string]interface{}{
		"correct":   outcome.Correct,
		"completed": outcome.Completed,
	}
	if outcome.Diff != nil {
		resp["diff"] = outcome.Diff
	}
	if outcome.Completed {
		resp["stats"] = statsView(outcome.Stats)
	} else {
		resp["next"] = itemView(outcome.Next)
		resp["remaining"] = outcome.Remaining
	}
	respondJSON(w, http.StatusOK, resp)
}

func statsView(stats *models.SessionStats) map[string]interface{} {
	return map[string]interface{}{
		"total_items":        stats.TotalItems,
		"correct_items":      stats.CorrectItems,
		"wrong_attempts":     stats.WrongAttempts,
		"known_on_first_try": stats.KnownOnFirstTry,
		"accuracy":           stats.Accuracy,
	}
}

// Restart handles POST /api/sessions/{id}/restart
func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	sessionID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid session id", "", nil)
		return
	}

	item, err := h.studyService.RestartSession(user.ID, sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"current": itemView(item)})
}

// Abandon handles DELETE /api/sessions/{id}
func (h *SessionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	sessionID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid session id", "", nil)
		return
	}

	if err := h.studyService.AbandonSession(user.ID, sessionID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// MatchingRound handles GET /api/sessions/{id}/matching/round
func (h *SessionHandler) MatchingRound(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	sessionID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid session id", "", nil)
		return
	}

	round, pairs, err := h.studyService.MatchingRound(user.ID, sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"round": round,
		"pairs": itemViews(pairs),
	})
}

// SubmitMatch handles POST /api/sessions/{id}/matching/match
func (h *SessionHandler) SubmitMatch(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	sessionID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid session id", "", nil)
		return
	}

	var req struct {
		PairID int64 `json:"pair_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.studyService.SubmitMatch(user.ID, sessionID, req.PairID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"result": result})
}

// SubmitMismatch handles POST /api/sessions/{id}/matching/mismatch
func (h *SessionHandler) SubmitMismatch(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	sessionID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid session id", "", nil)
		return
	}

	var req struct {
		LeftPairID  int64 `json:"left_pair_id"`
		RightPairID int64 `json:"right_pair_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.studyService.SubmitMismatch(user.ID, sessionID, req.LeftPairID, req.RightPairID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// AdvanceMatchingRound handles POST /api/sessions/{id}/matching/advance
func (h *SessionHandler) AdvanceMatchingRound(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	sessionID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid session id", "", nil)
		return
	}

	moreRounds, stats, err := h.studyService.AdvanceMatchingRound(user.ID, sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := map[string]interface{}{"more_rounds": moreRounds}
	if !moreRounds {
		resp["stats"] = statsView(stats)
	}
	respondJSON(w, http.StatusOK, resp)
}

// RecentSessions handles GET /api/sessions/recent
func (h *SessionHandler) RecentSessions(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	sessions, err := h.studyService.RecentSessions(user.ID, 20)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := make([]map[string]interface{}, 0, len(sessions))
	for _, s := range sessions {
		view := map[string]interface{}{
			"id":            s.ID,
			"plan_id":       s.StudyPlanID,
			"mode":          s.Mode,
			"is_test":       s.IsTest,
			"total_items":   s.TotalItems,
			"correct_items": s.CorrectItems,
			"started_at":    s.StartedAt.Format(time.RFC3339),
		}
		if s.CompletedAt != nil {
			view["completed_at"] = s.CompletedAt.Format(time.RFC3339)
		}
		views = append(views, view)
	}
	respondJSON(w, http.StatusOK, views)
}

// PlanAccuracy handles GET /api/plans/{id}/accuracy
func (h *SessionHandler) PlanAccuracy(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	planID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid plan id", "", nil)
		return
	}

	accuracy, err := h.studyService.PlanAccuracy(user.ID, planID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"accuracy": accuracy})
}
