package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"vocadrill/internal/drill"
	"vocadrill/internal/models"
	"vocadrill/internal/repository"
	"vocadrill/internal/security"
)

var ErrTestNotFound = errors.New("no active test with that id")

// defaultPhaseOrder is the phase sequence used when the caller does not
// supply explicit quotas. Each phase exercises a different drill mode
// over its own slice of the pool.
var defaultPhaseOrder = []string{
	string(models.ModeMultipleChoice),
	string(models.ModeMatching),
	string(models.ModeWriting),
	string(models.ModeFillGaps),
}

// activeTest holds one running multi-phase test in memory
type activeTest struct {
	userID    int64
	planID    int64
	planName  string
	flow      *drill.TestFlow
	startedAt time.Time
}

// TestFlowService orchestrates multi-phase tests over a plan's cards.
// The pool is partitioned across phases before anything starts, so a
// plan too small for the quotas fails up front rather than mid-test.
type TestFlowService struct {
	planRepo    *repository.PlanRepository
	cardRepo    *repository.FlashcardRepository
	sessionRepo *repository.SessionRepository
	userRepo    *repository.UserRepository
	email       *EmailService

	mu     sync.Mutex
	active map[string]*activeTest
}

// NewTestFlowService creates a new test flow service
func NewTestFlowService(planRepo *repository.PlanRepository, cardRepo *repository.FlashcardRepository, sessionRepo *repository.SessionRepository, userRepo *repository.UserRepository, email *EmailService) *TestFlowService {
	return &TestFlowService{
		planRepo:    planRepo,
		cardRepo:    cardRepo,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		email:       email,
		active:      make(map[string]*activeTest),
	}
}

// DefaultQuotas splits a pool of the given size evenly across the
// standard phase order, earlier phases taking the remainder
func DefaultQuotas(poolSize int) []drill.PhaseQuota {
	quotas := make([]drill.PhaseQuota, len(defaultPhaseOrder))
	per := poolSize / len(defaultPhaseOrder)
	extra := poolSize % len(defaultPhaseOrder)
	for i, phase := range defaultPhaseOrder {
		count := per
		if i < extra {
			count++
		}
		quotas[i] = drill.PhaseQuota{Phase: phase, Count: count}
	}
	return quotas
}

// StartTest shuffles the plan's cards, partitions them across the phase
// quotas and returns the test ID with the first phase. A nil quota list
// gets DefaultQuotas over the whole pool. Returns ErrNoContent for an
// empty plan and *drill.InsufficientPoolError when the quotas cannot be
// filled.
func (s *TestFlowService) StartTest(userID, planID int64, quotas []drill.PhaseQuota) (testID string, phase string, items []drill.Item, err error) {
	plan, err := s.planRepo.GetPlanByID(planID)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return "", "", nil, ErrPlanNotFound
	}
	if plan.UserID != userID {
		return "", "", nil, ErrNotPlanOwner
	}

	cards, err := s.cardRepo.GetCardsForPlan(planID)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to get flashcards: %w", err)
	}
	if len(cards) == 0 {
		return "", "", nil, ErrNoContent
	}

	pool := make([]drill.Item, len(cards))
	for i, card := range cards {
		pool[i] = drill.Item{ID: card.ID, FrontText: card.FrontText, BackText: card.BackText}
	}
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	if quotas == nil {
		quotas = DefaultQuotas(len(pool))
	}

	flow, err := drill.NewTestFlow(pool, quotas, func(phase string, results []drill.PhaseItemResult) {
		log.Printf("Test phase complete: plan=%d phase=%s items=%d", planID, phase, len(results))
	})
	if err != nil {
		return "", "", nil, err
	}

	testID = security.GenerateSessionID()
	s.mu.Lock()
	s.active[testID] = &activeTest{
		userID:    userID,
		planID:    planID,
		planName:  plan.Name,
		flow:      flow,
		startedAt: time.Now(),
	}
	s.mu.Unlock()

	phase, items, _ = flow.CurrentPhase()
	return testID, phase, items, nil
}

// CurrentPhase returns the active phase of a running test
func (s *TestFlowService) CurrentPhase(userID int64, testID string) (phase string, items []drill.Item, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at, err := s.lookup(userID, testID)
	if err != nil {
		return "", nil, err
	}
	phase, items, _ = at.flow.CurrentPhase()
	return phase, items, nil
}

// SubmitPhase records one phase's results. While phases remain it
// returns the next one; after the last it computes the summary,
// persists the result and sends the report email off the request path.
func (s *TestFlowService) SubmitPhase(userID int64, testID string, results []drill.PhaseItemResult) (nextPhase string, nextItems []drill.Item, summary *drill.TestSummary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at, err := s.lookup(userID, testID)
	if err != nil {
		return "", nil, nil, err
	}

	if err := at.flow.CompletePhase(results); err != nil {
		return "", nil, nil, err
	}

	if !at.flow.IsComplete() {
		nextPhase, nextItems, _ = at.flow.CurrentPhase()
		return nextPhase, nextItems, nil, nil
	}

	final := at.flow.Summary()
	result := &models.TestResult{
		UserID:       at.userID,
		StudyPlanID:  at.planID,
		TotalItems:   final.TotalItems,
		CorrectItems: final.TotalCorrect,
		OverallScore: final.OverallScore,
		Grade:        final.Grade,
		Strongest:    final.Strongest,
		Weakest:      final.Weakest,
		TimeSpentSec: int(time.Since(at.startedAt).Seconds()),
	}
	saved, err := s.sessionRepo.CreateTestResult(result)
	if err != nil {
		log.Printf("Failed to persist test result for plan %d: %v", at.planID, err)
		saved = result
	}
	delete(s.active, testID)

	go s.sendReport(at, final, saved)

	return "", nil, &final, nil
}

// AbandonTest drops a running test without a result
func (s *TestFlowService) AbandonTest(userID int64, testID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(userID, testID); err != nil {
		return err
	}
	delete(s.active, testID)
	return nil
}

// TestHistory returns past test results for one of the user's plans
func (s *TestFlowService) TestHistory(userID, planID int64) ([]models.TestResult, error) {
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
	return s.sessionRepo.GetTestResultsForPlan(planID)
}

func (s *TestFlowService) lookup(userID int64, testID string) (*activeTest, error) {
	at, ok := s.active[testID]
	if !ok || at.userID != userID {
		return nil, ErrTestNotFound
	}
	return at, nil
}

// sendReport emails the test summary. Failures are logged only; the
// result is already persisted by the time this runs.
func (s *TestFlowService) sendReport(at *activeTest, summary drill.TestSummary, result *models.TestResult) {
	if s.email == nil || !s.email.IsEnabled() {
		return
	}
	user, err := s.userRepo.GetUserByID(at.userID)
	if err != nil || user == nil {
		log.Printf("Failed to load user %d for test report email: %v", at.userID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.email.SendTestReportEmail(ctx, user.Email, user.Name, at.planName, summary, result); err != nil {
		log.Printf("Failed to send test report email to %s: %v", user.Email, err)
	}
}
