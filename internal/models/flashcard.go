package models

import "time"

// Flashcard is one prompt/answer pair in a study plan
type Flashcard struct {
	ID           int64
	StudyPlanID  int64
	FrontText    string
	BackText     string
	Difficulty   string  // easy, medium, hard
	MasteryLevel float64 // 0-100, persisted long-term; distinct from session state
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// VocabularySentence is an example sentence for a flashcard, used by
// the fill-the-gaps mode to blank out the target word
type VocabularySentence struct {
	ID           int64
	FlashcardID  int64
	SentenceText string
	TargetWord   string
	CreatedAt    time.Time
}
