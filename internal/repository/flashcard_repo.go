package repository

import (
	"database/sql"

	"vocadrill/internal/database"
	"vocadrill/internal/models"
)

// FlashcardRepository handles flashcard database operations
type FlashcardRepository struct {
	db *database.DB
}

// NewFlashcardRepository creates a new flashcard repository
func NewFlashcardRepository(db *database.DB) *FlashcardRepository {
	return &FlashcardRepository{db: db}
}

// CreateCard adds a flashcard to a plan
func (r *FlashcardRepository) CreateCard(planID int64, frontText, backText, difficulty string) (*models.Flashcard, error) {
	query := `
		INSERT INTO flashcards (study_plan_id, front_text, back_text, difficulty)
		VALUES (?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, planID, frontText, backText, difficulty)
	if err != nil {
		return nil, err
	}

	return r.GetCardByID(id)
}

// CreateCards adds a batch of flashcards to a plan in one transaction,
// so a failed import leaves nothing behind
func (r *FlashcardRepository) CreateCards(planID int64, cards []models.Flashcard) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO flashcards (study_plan_id, front_text, back_text, difficulty)
		VALUES (?, ?, ?, ?)
	`

	for _, card := range cards {
		if _, err := tx.ExecReturningID(query, planID, card.FrontText, card.BackText, card.Difficulty); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(cards), nil
}

// GetCardByID retrieves a flashcard by ID, or nil if not found
func (r *FlashcardRepository) GetCardByID(cardID int64) (*models.Flashcard, error) {
	query := `
		SELECT id, study_plan_id, front_text, back_text, difficulty, mastery_level, created_at, updated_at
		FROM flashcards
		WHERE id = ?
	`

	card := &models.Flashcard{}
	err := r.db.QueryRow(query, cardID).Scan(
		&card.ID,
		&card.StudyPlanID,
		&card.FrontText,
		&card.BackText,
		&card.Difficulty,
		&card.MasteryLevel,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return card, nil
}

// GetCardsForPlan retrieves all flashcards in a plan
func (r *FlashcardRepository) GetCardsForPlan(planID int64) ([]models.Flashcard, error) {
	query := `
		SELECT id, study_plan_id, front_text, back_text, difficulty, mastery_level, created_at, updated_at
		FROM flashcards
		WHERE study_plan_id = ?
		ORDER BY id
	`

	rows, err := r.db.Query(query, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		var card models.Flashcard
		err := rows.Scan(
			&card.ID,
			&card.StudyPlanID,
			&card.FrontText,
			&card.BackText,
			&card.Difficulty,
			&card.MasteryLevel,
			&card.CreatedAt,
			&card.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

// UpdateCard changes a flashcard's texts and difficulty
func (r *FlashcardRepository) UpdateCard(cardID int64, frontText, backText, difficulty string) error {
	query := `
		UPDATE flashcards
		SET front_text = ?, back_text = ?, difficulty = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, frontText, backText, difficulty, cardID)
	return err
}

// UpdateMastery sets a flashcard's persisted mastery level (0-100)
func (r *FlashcardRepository) UpdateMastery(cardID int64, masteryLevel float64) error {
	query := "UPDATE flashcards SET mastery_level = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, masteryLevel, cardID)
	return err
}

// DeleteCard removes a flashcard
func (r *FlashcardRepository) DeleteCard(cardID int64) error {
	_, err := r.db.Exec("DELETE FROM flashcards WHERE id = ?", cardID)
	return err
}

// CreateSentence adds an example sentence for a flashcard
func (r *FlashcardRepository) CreateSentence(cardID int64, sentenceText, targetWord string) (*models.VocabularySentence, error) {
	query := `
		INSERT INTO vocabulary_sentences (flashcard_id, sentence_text, target_word)
		VALUES (?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, cardID, sentenceText, targetWord)
	if err != nil {
		return nil, err
	}

	sentence := &models.VocabularySentence{}
	err = r.db.QueryRow(`
		SELECT id, flashcard_id, sentence_text, target_word, created_at
		FROM vocabulary_sentences
		WHERE id = ?
	`, id).Scan(
		&sentence.ID,
		&sentence.FlashcardID,
		&sentence.SentenceText,
		&sentence.TargetWord,
		&sentence.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return sentence, nil
}

// GetSentencesForPlan retrieves example sentences for every card in a plan,
// keyed by flashcard ID
func (r *FlashcardRepository) GetSentencesForPlan(planID int64) (map[int64][]models.VocabularySentence, error) {
	query := `
		SELECT s.id, s.flashcard_id, s.sentence_text, s.target_word, s.created_at
		FROM vocabulary_sentences s
		JOIN flashcards f ON f.id = s.flashcard_id
		WHERE f.study_plan_id = ?
		ORDER BY s.id
	`

	rows, err := r.db.Query(query, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sentences := make(map[int64][]models.VocabularySentence)
	for rows.Next() {
		var s models.VocabularySentence
		err := rows.Scan(&s.ID, &s.FlashcardID, &s.SentenceText, &s.TargetWord, &s.CreatedAt)
		if err != nil {
			return nil, err
		}
		sentences[s.FlashcardID] = append(sentences[s.FlashcardID], s)
	}

	return sentences, rows.Err()
}
