package service

import (
	"errors"
	"fmt"

	"vocadrill/internal/models"
	"vocadrill/internal/repository"
	"vocadrill/internal/validation"
)

var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrNotPlanOwner = errors.New("plan belongs to another user")
	ErrCardNotFound = errors.New("flashcard not found")
)

// PlanService handles study plan and flashcard business logic
type PlanService struct {
	planRepo *repository.PlanRepository
	cardRepo *repository.FlashcardRepository
}

// NewPlanService creates a new plan service
func NewPlanService(planRepo *repository.PlanRepository, cardRepo *repository.FlashcardRepository) *PlanService {
	return &PlanService{
		planRepo: planRepo,
		cardRepo: cardRepo,
	}
}

// CreatePlan creates a study plan for a user
func (s *PlanService) CreatePlan(userID int64, name, description, questionLang, answerLang string) (*models.StudyPlan, error) {
	if err := validation.ValidatePlanName(name); err != nil {
		return nil, err
	}

	plan, err := s.planRepo.CreatePlan(userID, name, description, questionLang, answerLang)
	if err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	return plan, nil
}

// GetPlan returns a plan owned by the given user
func (s *PlanService) GetPlan(userID, planID int64) (*models.StudyPlan, error) {
	plan, err := s.planRepo.GetPlanByID(planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	if plan.UserID != userID {
		return nil, ErrNotPlanOwner
	}
	return plan, nil
}

// ListPlans returns summaries of all plans for a user
func (s *PlanService) ListPlans(userID int64) ([]models.PlanSummary, error) {
	return s.planRepo.GetPlansForUser(userID)
}

// UpdatePlanStatus moves a plan between active, paused and completed
func (s *PlanService) UpdatePlanStatus(userID, planID int64, status models.PlanStatus) error {
	if _, err := s.GetPlan(userID, planID); err != nil {
		return err
	}
	return s.planRepo.UpdatePlanStatus(planID, status)
}

// DeletePlan removes a plan and its flashcards
func (s *PlanService) DeletePlan(userID, planID int64) error {
	if _, err := s.GetPlan(userID, planID); err != nil {
		return err
	}
	return s.planRepo.DeletePlan(planID)
}

// AddCard creates a flashcard on one of the user's plans
func (s *PlanService) AddCard(userID, planID int64, front, back, difficulty string) (*models.Flashcard, error) {
	if err := validation.ValidateCardText("front_text", front); err != nil {
		return nil, err
	}
	if err := validation.ValidateCardText("back_text", back); err != nil {
		return nil, err
	}
	if _, err := s.GetPlan(userID, planID); err != nil {
		return nil, err
	}

	card, err := s.cardRepo.CreateCard(planID, front, back, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to create flashcard: %w", err)
	}
	return card, nil
}

// BulkAddCards imports a batch of flashcards into a plan atomically.
// Every card is validated before anything is written.
func (s *PlanService) BulkAddCards(userID, planID int64, cards []models.Flashcard) (int, error) {
	if _, err := s.GetPlan(userID, planID); err != nil {
		return 0, err
	}
	for _, card := range cards {
		if err := validation.ValidateCardText("front_text", card.FrontText); err != nil {
			return 0, err
		}
		if err := validation.ValidateCardText("back_text", card.BackText); err != nil {
			return 0, err
		}
	}

	count, err := s.cardRepo.CreateCards(planID, cards)
	if err != nil {
		return 0, fmt.Errorf("failed to import flashcards: %w", err)
	}
	return count, nil
}

// GetCards returns all flashcards for one of the user's plans
func (s *PlanService) GetCards(userID, planID int64) ([]models.Flashcard, error) {
	if _, err := s.GetPlan(userID, planID); err != nil {
		return nil, err
	}
	return s.cardRepo.GetCardsForPlan(planID)
}

// UpdateCard edits a flashcard's text
func (s *PlanService) UpdateCard(userID, cardID int64, front, back, difficulty string) error {
	if err := validation.ValidateCardText("front_text", front); err != nil {
		return err
	}
	if err := validation.ValidateCardText("back_text", back); err != nil {
		return err
	}

	card, err := s.cardRepo.GetCardByID(cardID)
	if err != nil {
		return fmt.Errorf("failed to get flashcard: %w", err)
	}
	if card == nil {
		return ErrCardNotFound
	}
	if _, err := s.GetPlan(userID, card.StudyPlanID); err != nil {
		return err
	}

	return s.cardRepo.UpdateCard(cardID, front, back, difficulty)
}

// DeleteCard removes a flashcard
func (s *PlanService) DeleteCard(userID, cardID int64) error {
	card, err := s.cardRepo.GetCardByID(cardID)
	if err != nil {
		return fmt.Errorf("failed to get flashcard: %w", err)
	}
	if card == nil {
		return ErrCardNotFound
	}
	if _, err := s.GetPlan(userID, card.StudyPlanID); err != nil {
		return err
	}

	return s.cardRepo.DeleteCard(cardID)
}

// AddSentence attaches an example sentence to a flashcard
func (s *PlanService) AddSentence(userID, cardID int64, text, gapWord string) (*models.VocabularySentence, error) {
	card, err := s.cardRepo.GetCardByID(cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get flashcard: %w", err)
	}
	if card == nil {
		return nil, ErrCardNotFound
	}
	if _, err := s.GetPlan(userID, card.StudyPlanID); err != nil {
		return nil, err
	}

	sentence, err := s.cardRepo.CreateSentence(cardID, text, gapWord)
	if err != nil {
		return nil, fmt.Errorf("failed to create sentence: %w", err)
	}
	return sentence, nil
}
