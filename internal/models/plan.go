package models

import "time"

// PlanStatus tracks the lifecycle of a study plan
type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanArchived  PlanStatus = "archived"
)

// StudyPlan represents a named collection of flashcards a user studies
type StudyPlan struct {
	ID               int64
	UserID           int64
	Name             string
	Description      string
	QuestionLanguage string
	AnswerLanguage   string
	Status           PlanStatus
	ExamDate         *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PlanSummary extends StudyPlan with card counts for list views
type PlanSummary struct {
	StudyPlan
	CardCount    int
	AvgMastery   float64
	SessionCount int
}
