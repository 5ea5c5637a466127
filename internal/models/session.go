package models

import "time"

// StudyMode identifies which drill variant a session runs
type StudyMode string

const (
	ModeLearn          StudyMode = "learn"
	ModeMultipleChoice StudyMode = "multiple_choice"
	ModeMatching       StudyMode = "matching"
	ModeWriting        StudyMode = "writing"
	ModeFillGaps       StudyMode = "fill_gaps"
)

// DrillSession represents one practice or test run over a plan's cards
type DrillSession struct {
	ID           int64
	UserID       int64
	StudyPlanID  int64
	Mode         StudyMode
	IsTest       bool
	StartedAt    time.Time
	CompletedAt  *time.Time
	TotalItems   int
	CorrectItems int
}

// ItemAttempt records a single answer submission within a session
type ItemAttempt struct {
	ID             int64
	DrillSessionID int64
	FlashcardID    int64
	AnswerText     string
	IsCorrect      bool
	AttemptedAt    time.Time
}

// SessionStats summarizes a finished session for display
type SessionStats struct {
	TotalItems      int
	CorrectItems    int
	WrongAttempts   int
	KnownOnFirstTry int
	Accuracy        float64 // percentage of items eventually answered correctly
}

// TestResult persists the outcome of a full multi-phase test flow
type TestResult struct {
	ID           int64
	UserID       int64
	StudyPlanID  int64
	TotalItems   int
	CorrectItems int
	OverallScore float64
	Grade        string
	Strongest    string
	Weakest      string
	TimeSpentSec int
	TakenAt      time.Time
}
