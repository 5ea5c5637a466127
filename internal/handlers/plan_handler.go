package handlers

import (
	"net/http"
	"strconv"
	"time"

	"vocadrill/internal/models"
	"vocadrill/internal/service"
)

// PlanHandler handles study plan and flashcard HTTP requests
type PlanHandler struct {
	planService *service.PlanService
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

func planView(plan *models.StudyPlan) map[string]interface{} {
	view := map[string]interface{}{
		"id":                plan.ID,
		"name":              plan.Name,
		"description":       plan.Description,
		"question_language": plan.QuestionLanguage,
		"answer_language":   plan.AnswerLanguage,
		"status":            plan.Status,
		"created_at":        plan.CreatedAt.Format(time.RFC3339),
	}
	if plan.ExamDate != nil {
		view["exam_date"] = plan.ExamDate.Format("2006-01-02")
	}
	return view
}

// CreatePlan handles POST /api/plans
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Name             string `json:"name"`
		Description      string `json:"description"`
		QuestionLanguage string `json:"question_language"`
		AnswerLanguage   string `json:"answer_language"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	plan, err := h.planService.CreatePlan(user.ID, req.Name, req.Description, req.QuestionLanguage, req.AnswerLanguage)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, planView(plan))
}

// ListPlans handles GET /api/plans
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	summaries, err := h.planService.ListPlans(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := make([]map[string]interface{}, 0, len(summaries))
	for i := range summaries {
		view := planView(&summaries[i].StudyPlan)
		view["card_count"] = summaries[i].CardCount
		view["avg_mastery"] = summaries[i].AvgMastery
		view["session_count"] = summaries[i].SessionCount
		views = append(views, view)
	}
	respondJSON(w, http.StatusOK, views)
}

// GetPlan handles GET /api/plans/{id}
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	planID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid plan id", "", nil)
		return
	}

	plan, err := h.planService.GetPlan(user.ID, planID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, planView(plan))
}

// UpdatePlanStatus handles PATCH /api/plans/{id}/status
func (h *PlanHandler) UpdatePlanStatus(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	planID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid plan id", "", nil)
		return
	}

	var req struct {
		Status models.PlanStatus `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	switch req.Status {
	case models.PlanActive, models.PlanCompleted, models.PlanArchived:
	default:
		respondWithError(w, http.StatusBadRequest, "Invalid plan status", "", nil)
		return
	}

	if err := h.planService.UpdatePlanStatus(user.ID, planID, req.Status); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// DeletePlan handles DELETE /api/plans/{id}
func (h *PlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	planID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid plan id", "", nil)
		return
	}

	if err := h.planService.DeletePlan(user.ID, planID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// AddCard handles POST /api/plans/{id}/cards
func (h *PlanHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	planID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid plan id", "", nil)
		return
	}

	var req struct {
		FrontText  string `json:"front_text"`
		BackText   string `json:"back_text"`
		Difficulty string `json:"difficulty"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	card, err := h.planService.AddCard(user.ID, planID, req.FrontText, req.BackText, req.Difficulty)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, cardView(card))
}

func cardView(card *models.Flashcard) map[string]interface{} {
	return map[string]interface{}{
		"id":            card.ID,
		"plan_id":       card.StudyPlanID,
		"front_text":    card.FrontText,
		"back_text":     card.BackText,
		"difficulty":    card.Difficulty,
		"mastery_level": card.MasteryLevel,
	}
}

// BulkAddCards handles POST /api/plans/{id}/cards/bulk
func (h *PlanHandler) BulkAddCards(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	planID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid plan id", "", nil)
		return
	}

	var req struct {
		Cards []struct {
			FrontText  string `json:"front_text"`
			BackText   string `json:"back_text"`
			Difficulty string `json:"difficulty"`
		} `json:"cards"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Cards) == 0 {
		respondWithError(w, http.StatusBadRequest, "No cards to import", "", nil)
		return
	}

	cards := make([]models.Flashcard, len(req.Cards))
	for i, c := range req.Cards {
		cards[i] = models.Flashcard{
			FrontText:  c.FrontText,
			BackText:   c.BackText,
			Difficulty: c.Difficulty,
		}
	}

	count, err := h.planService.BulkAddCards(user.ID, planID, cards)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"imported": count})
}

// ListCards handles GET /api/plans/{id}/cards
func (h *PlanHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	planID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid plan id", "", nil)
		return
	}

	cards, err := h.planService.GetCards(user.ID, planID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := make([]map[string]interface{}, 0, len(cards))
	for i := range cards {
		views = append(views, cardView(&cards[i]))
	}
	respondJSON(w, http.StatusOK, views)
}

// UpdateCard handles PUT /api/cards/{id}
func (h *PlanHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	cardID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid card id", "", nil)
		return
	}

	var req struct {
		FrontText  string `json:"front_text"`
		BackText   string `json:"back_text"`
		Difficulty string `json:"difficulty"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.planService.UpdateCard(user.ID, cardID, req.FrontText, req.BackText, req.Difficulty); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// DeleteCard handles DELETE /api/cards/{id}
func (h *PlanHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	cardID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid card id", "", nil)
		return
	}

	if err := h.planService.DeleteCard(user.ID, cardID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// AddSentence handles POST /api/cards/{id}/sentences
func (h *PlanHandler) AddSentence(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	cardID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid card id", "", nil)
		return
	}

	var req struct {
		SentenceText string `json:"sentence_text"`
		TargetWord   string `json:"target_word"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SentenceText == "" || req.TargetWord == "" {
		respondWithError(w, http.StatusBadRequest, "Sentence text and target word are required", "", nil)
		return
	}

	sentence, err := h.planService.AddSentence(user.ID, cardID, req.SentenceText, req.TargetWord)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":            sentence.ID,
		"card_id":       sentence.FlashcardID,
		"sentence_text": sentence.SentenceText,
		"target_word":   sentence.TargetWord,
	})
}
