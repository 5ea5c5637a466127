package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"vocadrill/internal/drill"
	"vocadrill/internal/models"
	"vocadrill/internal/repository"
)

var (
	ErrNoContent           = errors.New("plan has no content for this mode")
	ErrActiveSessionGone   = errors.New("no active session with that id")
	ErrWrongSessionKind    = errors.New("operation does not apply to this session's mode")
	ErrCorrectnessRequired = errors.New("correctness flag required for this mode")
)

const masteryStep = 10.0

// activeSession holds the in-memory drill state for one running session.
// Exactly one of queue and match is set, depending on the mode.
type activeSession struct {
	session *models.DrillSession
	queue   *drill.Queue
	match   *drill.MatchSession
	grader  drill.Grader
	answers map[int64]string // correct answer per item, for graded modes
}

// AnswerOutcome is what a single answer submission produces
type AnswerOutcome struct {
	Correct   bool
	Diff      *drill.Diff
	Completed bool
	Stats     *models.SessionStats
	Next      *drill.Item
	Remaining int
}

// StudyService orchestrates drill sessions: it builds the in-memory
// queue or matching state from a plan's cards, grades answers, applies
// the session-state transition immediately, and persists attempts and
// mastery updates off the answer path.
type StudyService struct {
	planRepo    *repository.PlanRepository
	cardRepo    *repository.FlashcardRepository
	sessionRepo *repository.SessionRepository

	reinsertMin int
	reinsertMax int

	mu     sync.Mutex
	active map[int64]*activeSession // keyed by DrillSession.ID
}

// NewStudyService creates a new study service
func NewStudyService(planRepo *repository.PlanRepository, cardRepo *repository.FlashcardRepository, sessionRepo *repository.SessionRepository, reinsertMin, reinsertMax int) *StudyService {
	return &StudyService{
		planRepo:    planRepo,
		cardRepo:    cardRepo,
		sessionRepo: sessionRepo,
		reinsertMin: reinsertMin,
		reinsertMax: reinsertMax,
		active:      make(map[int64]*activeSession),
	}
}

// StartSession builds the drill material for a plan and opens a session.
// A plan with no usable content for the mode returns ErrNoContent.
func (s *StudyService) StartSession(userID, planID int64, mode models.StudyMode, isTest bool) (*models.DrillSession, error) {
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

	items, answers, err := s.buildItems(planID, mode)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoContent
	}

	session, err := s.sessionRepo.CreateSession(userID, planID, mode, isTest, len(items))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	as := &activeSession{
		session: session,
		grader:  drill.Grader{},
		answers: answers,
	}

	if mode == models.ModeMatching {
		as.match, err = drill.NewMatchSession(items, isTest)
	} else {
		queueMode := drill.ModePractice
		if isTest {
			queueMode = drill.ModeTest
		}
		as.queue, err = drill.NewQueue(items, queueMode,
			drill.WithReinsertBand(s.reinsertMin, s.reinsertMax))
	}
	if err != nil {
		if errors.Is(err, drill.ErrNoItems) {
			return nil, ErrNoContent
		}
		return nil, err
	}

	s.mu.Lock()
	s.active[session.ID] = as
	s.mu.Unlock()

	return session, nil
}

// buildItems turns a plan's cards into drill items for the given mode.
// Fill-the-gaps draws on vocabulary sentences instead of bare cards,
// blanking out the target word; cards without a sentence are skipped.
func (s *StudyService) buildItems(planID int64, mode models.StudyMode) ([]drill.Item, map[int64]string, error) {
	cards, err := s.cardRepo.GetCardsForPlan(planID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get flashcards: %w", err)
	}

	answers := make(map[int64]string)

	if mode == models.ModeFillGaps {
		sentences, err := s.cardRepo.GetSentencesForPlan(planID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sentences: %w", err)
		}
		var items []drill.Item
		for _, card := range cards {
			cardSentences := sentences[card.ID]
			if len(cardSentences) == 0 {
				continue
			}
			sent := cardSentences[0]
			gapped := strings.Replace(sent.SentenceText, sent.TargetWord, "_____", 1)
			items = append(items, drill.Item{
				ID:        card.ID,
				FrontText: gapped,
				BackText:  sent.TargetWord,
			})
			answers[card.ID] = sent.TargetWord
		}
		return items, answers, nil
	}

	items := make([]drill.Item, 0, len(cards))
	for _, card := range cards {
		items = append(items, drill.Item{
			ID:        card.ID,
			FrontText: card.FrontText,
			BackText:  card.BackText,
		})
		answers[card.ID] = card.BackText
	}
	return items, answers, nil
}

func (s *StudyService) lookup(userID, sessionID int64) (*activeSession, error) {
	as, ok := s.active[sessionID]
	if !ok || as.session.UserID != userID {
		return nil, ErrActiveSessionGone
	}
	return as, nil
}

// CurrentItem returns the item currently being presented and how many
// presentations remain
func (s *StudyService) CurrentItem(userID, sessionID int64) (*drill.Item, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	as, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, 0, err
	}
	if as.queue == nil {
		return nil, 0, ErrWrongSessionKind
	}
	return as.queue.Current(), as.queue.Remaining(), nil
}

// SubmitAnswer grades one answer and applies the queue transition.
// Graded modes (writing, fill-the-gaps) compare answerText against the
// item's answer; self-reported modes (learn, multiple choice) take the
// reported flag as-is. The state transition happens before any
// persistence, and persistence failures never surface to the caller.
func (s *StudyService) SubmitAnswer(userID, sessionID, itemID int64, answerText string, reported *bool) (*AnswerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	as, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if as.queue == nil {
		return nil, ErrWrongSessionKind
	}

	outcome := &AnswerOutcome{}

	switch as.session.Mode {
	case models.ModeWriting, models.ModeFillGaps:
		// An empty answer is still graded; it just diffs as all missing.
		result := as.grader.Compare(answerText, as.answers[itemID])
		outcome.Correct = result.IsCorrect
		outcome.Diff = result.Diff
	default:
		if reported == nil {
			return nil, ErrCorrectnessRequired
		}
		outcome.Correct = *reported
	}

	status := as.queue.Status(itemID)
	firstView := status != nil && !status.Known && status.Attempts == 0

	as.queue.Submit(itemID, outcome.Correct)

	s.persistAttempt(as.session.ID, itemID, answerText, outcome.Correct)
	if outcome.Correct && firstView {
		go s.bumpMastery(itemID)
	}

	if as.queue.IsComplete() {
		outcome.Completed = true
		outcome.Stats = s.finishSession(as)
	} else {
		outcome.Next = as.queue.Current()
		outcome.Remaining = as.queue.Remaining()
	}
	return outcome, nil
}

// persistAttempt records an answer row. A write failure is logged and
// swallowed so the drill never stalls on storage.
func (s *StudyService) persistAttempt(sessionID, itemID int64, answerText string, correct bool) {
	if err := s.sessionRepo.RecordAttempt(sessionID, itemID, answerText, correct); err != nil {
		log.Printf("Failed to record attempt for session %d item %d: %v", sessionID, itemID, err)
	}
}

// bumpMastery raises a card's long-term mastery level by one step,
// capped at 100. Runs off the answer path; failures are logged only.
func (s *StudyService) bumpMastery(cardID int64) {
	card, err := s.cardRepo.GetCardByID(cardID)
	if err != nil || card == nil {
		log.Printf("Failed to load card %d for mastery update: %v", cardID, err)
		return
	}
	level := card.MasteryLevel + masteryStep
	if level > 100 {
		level = 100
	}
	if err := s.cardRepo.UpdateMastery(cardID, level); err != nil {
		log.Printf("Failed to update mastery for card %d: %v", cardID, err)
	}
}

// finishSession computes final stats, persists completion and drops the
// in-memory state. Caller holds s.mu.
func (s *StudyService) finishSession(as *activeSession) *models.SessionStats {
	stats := &models.SessionStats{
		TotalItems: as.session.TotalItems,
	}
	for _, st := range as.queue.Statuses() {
		if st.Known {
			stats.CorrectItems++
		}
		if st.KnownOnFirstTry() {
			stats.KnownOnFirstTry++
		}
		if st.Attempts > 0 {
			stats.WrongAttempts += st.Attempts
		}
	}
	if stats.TotalItems > 0 {
		stats.Accuracy = float64(stats.CorrectItems) / float64(stats.TotalItems) * 100
	}

	if err := s.sessionRepo.CompleteSession(as.session.ID, stats.CorrectItems); err != nil {
		log.Printf("Failed to complete session %d: %v", as.session.ID, err)
	}
	delete(s.active, as.session.ID)
	return stats
}

// RestartSession reshuffles the full item set and clears progress
func (s *StudyService) RestartSession(userID, sessionID int64) (*drill.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	as, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if as.queue == nil {
		return nil, ErrWrongSessionKind
	}
	as.queue.Restart()
	return as.queue.Current(), nil
}

// AbandonSession drops an in-memory session without completing it
func (s *StudyService) AbandonSession(userID, sessionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(userID, sessionID); err != nil {
		return err
	}
	delete(s.active, sessionID)
	return nil
}

// MatchingRound returns the pairs to lay out for the current round of a
// matching session
func (s *StudyService) MatchingRound(userID, sessionID int64) (round int, pairs []drill.Item, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	as, err := s.lookup(userID, sessionID)
	if err != nil {
		return 0, nil, err
	}
	if as.match == nil {
		return 0, nil, ErrWrongSessionKind
	}
	return as.match.Round(), as.match.RoundPairs(), nil
}

// SubmitMatch records a correct pairing in a matching session
func (s *StudyService) SubmitMatch(userID, sessionID, pairID int64) (drill.MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	as, err := s.lookup(userID, sessionID)
	if err != nil {
		return "", err
	}
	if as.match == nil {
		return "", ErrWrongSessionKind
	}

	result := as.match.RecordMatch(pairID)
	s.persistAttempt(as.session.ID, pairID, "", true)
	if result == drill.MatchFirstTry {
		go s.bumpMastery(pairID)
	}
	return result, nil
}

// SubmitMismatch records an incorrect pairing attempt between two pairs
func (s *StudyService) SubmitMismatch(userID, sessionID, leftPairID, rightPairID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	as, err := s.lookup(userID, sessionID)
	if err != nil {
		return err
	}
	if as.match == nil {
		return ErrWrongSessionKind
	}

	as.match.RecordMismatch(leftPairID, rightPairID)
	s.persistAttempt(as.session.ID, leftPairID, "", false)
	return nil
}

// AdvanceMatchingRound moves a matching session to its next round. When
// no pairs need retrying (or in test mode) the session completes and
// final stats are returned instead.
func (s *StudyService) AdvanceMatchingRound(userID, sessionID int64) (moreRounds bool, stats *models.SessionStats, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	as, err := s.lookup(userID, sessionID)
	if err != nil {
		return false, nil, err
	}
	if as.match == nil {
		return false, nil, ErrWrongSessionKind
	}

	if as.match.AdvanceRound() {
		return true, nil, nil
	}

	results := as.match.Results()
	stats = &models.SessionStats{TotalItems: len(results)}
	for _, r := range results {
		if r.Correct {
			stats.CorrectItems++
			stats.KnownOnFirstTry++
		}
	}
	if stats.TotalItems > 0 {
		stats.Accuracy = float64(stats.CorrectItems) / float64(stats.TotalItems) * 100
	}

	if err := s.sessionRepo.CompleteSession(as.session.ID, stats.CorrectItems); err != nil {
		log.Printf("Failed to complete session %d: %v", as.session.ID, err)
	}
	delete(s.active, as.session.ID)
	return false, stats, nil
}

// RecentSessions returns a user's latest sessions for the history view
func (s *StudyService) RecentSessions(userID int64, limit int) ([]models.DrillSession, error) {
	return s.sessionRepo.GetRecentSessions(userID, limit)
}

// PlanAccuracy returns the historical answer accuracy for a plan
func (s *StudyService) PlanAccuracy(userID, planID int64) (float64, error) {
	plan, err := s.planRepo.GetPlanByID(planID)
	if err != nil {
		return 0, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return 0, ErrPlanNotFound
	}
	if plan.UserID != userID {
		return 0, ErrNotPlanOwner
	}
	return s.sessionRepo.GetPlanAccuracy(planID)
}
