package repository

import (
	"database/sql"
	"time"

	"vocadrill/internal/database"
	"vocadrill/internal/models"
)

// SessionRepository handles drill session and test result database operations
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateSession records the start of a drill session
func (r *SessionRepository) CreateSession(userID, planID int64, mode models.StudyMode, isTest bool, totalItems int) (*models.DrillSession, error) {
	query := `
		INSERT INTO drill_sessions (user_id, study_plan_id, mode, is_test, total_items)
		VALUES (?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, userID, planID, mode, isTest, totalItems)
	if err != nil {
		return nil, err
	}

	return r.GetSessionByID(id)
}

// GetSessionByID retrieves a drill session by ID, or nil if not found
func (r *SessionRepository) GetSessionByID(sessionID int64) (*models.DrillSession, error) {
	query := `
		SELECT id, user_id, study_plan_id, mode, is_test, started_at, completed_at,
		       total_items, correct_items
		FROM drill_sessions
		WHERE id = ?
	`

	session := &models.DrillSession{}
	var completedAt sql.NullTime

	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.StudyPlanID,
		&session.Mode,
		&session.IsTest,
		&session.StartedAt,
		&completedAt,
		&session.TotalItems,
		&session.CorrectItems,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		session.CompletedAt = &completedAt.Time
	}
	return session, nil
}

// RecordAttempt stores a single answer submission
func (r *SessionRepository) RecordAttempt(sessionID, cardID int64, answerText string, isCorrect bool) error {
	query := `
		INSERT INTO item_attempts (drill_session_id, flashcard_id, answer_text, is_correct)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, sessionID, cardID, answerText, isCorrect)
	return err
}

// GetSessionAttempts retrieves all attempts for a session in order
func (r *SessionRepository) GetSessionAttempts(sessionID int64) ([]models.ItemAttempt, error) {
	query := `
		SELECT id, drill_session_id, flashcard_id, answer_text, is_correct, attempted_at
		FROM item_attempts
		WHERE drill_session_id = ?
		ORDER BY id
	`

	rows, err := r.db.Query(query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []models.ItemAttempt
	for rows.Next() {
		var attempt models.ItemAttempt
		err := rows.Scan(
			&attempt.ID,
			&attempt.DrillSessionID,
			&attempt.FlashcardID,
			&attempt.AnswerText,
			&attempt.IsCorrect,
			&attempt.AttemptedAt,
		)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}

	return attempts, rows.Err()
}

// CompleteSession marks a session finished and stores its totals
func (r *SessionRepository) CompleteSession(sessionID int64, correctItems int) error {
	query := `
		UPDATE drill_sessions
		SET completed_at = ?, correct_items = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, time.Now(), correctItems, sessionID)
	return err
}

// GetRecentSessions retrieves a user's latest sessions across plans
func (r *SessionRepository) GetRecentSessions(userID int64, limit int) ([]models.DrillSession, error) {
	query := `
		SELECT id, user_id, study_plan_id, mode, is_test, started_at, completed_at,
		       total_items, correct_items
		FROM drill_sessions
		WHERE user_id = ?
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.DrillSession
	for rows.Next() {
		var session models.DrillSession
		var completedAt sql.NullTime
		err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.StudyPlanID,
			&session.Mode,
			&session.IsTest,
			&session.StartedAt,
			&completedAt,
			&session.TotalItems,
			&session.CorrectItems,
		)
		if err != nil {
			return nil, err
		}
		if completedAt.Valid {
			session.CompletedAt = &completedAt.Time
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// GetPlanAccuracy computes overall answer accuracy for completed sessions of a plan
func (r *SessionRepository) GetPlanAccuracy(planID int64) (float64, error) {
	query := `
		SELECT COALESCE(SUM(correct_items), 0), COALESCE(SUM(total_items), 0)
		FROM drill_sessions
		WHERE study_plan_id = ? AND completed_at IS NOT NULL
	`

	var correct, total int
	if err := r.db.QueryRow(query, planID).Scan(&correct, &total); err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	return float64(correct) / float64(total) * 100, nil
}

// CreateTestResult persists the summary of a completed test flow
func (r *SessionRepository) CreateTestResult(result *models.TestResult) (*models.TestResult, error) {
	query := `
		INSERT INTO test_results (user_id, study_plan_id, total_items, correct_items,
		                          overall_score, grade, strongest, weakest, time_spent_sec)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query,
		result.UserID,
		result.StudyPlanID,
		result.TotalItems,
		result.CorrectItems,
		result.OverallScore,
		result.Grade,
		result.Strongest,
		result.Weakest,
		result.TimeSpentSec,
	)
	if err != nil {
		return nil, err
	}

	result.ID = id
	result.TakenAt = time.Now()
	return result, nil
}

// GetTestResultsForPlan retrieves past test results for a plan, newest first
func (r *SessionRepository) GetTestResultsForPlan(planID int64) ([]models.TestResult, error) {
	query := `
		SELECT id, user_id, study_plan_id, total_items, correct_items,
		       overall_score, grade, strongest, weakest, time_spent_sec, taken_at
		FROM test_results
		WHERE study_plan_id = ?
		ORDER BY taken_at DESC
	`

	rows, err := r.db.Query(query, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.TestResult
	for rows.Next() {
		var result models.TestResult
		err := rows.Scan(
			&result.ID,
			&result.UserID,
			&result.StudyPlanID,
			&result.TotalItems,
			&result.CorrectItems,
			&result.OverallScore,
			&result.Grade,
			&result.Strongest,
			&result.Weakest,
			&result.TimeSpentSec,
			&result.TakenAt,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, rows.Err()
}
