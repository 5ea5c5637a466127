package repository

import (
	"database/sql"

	"vocadrill/internal/database"
	"vocadrill/internal/models"
)

// PlanRepository handles study plan database operations
type PlanRepository struct {
	db *database.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *database.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// CreatePlan creates a new study plan
func (r *PlanRepository) CreatePlan(userID int64, name, description, questionLang, answerLang string) (*models.StudyPlan, error) {
	query := `
		INSERT INTO study_plans (user_id, name, description, question_language, answer_language)
		VALUES (?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, userID, name, description, questionLang, answerLang)
	if err != nil {
		return nil, err
	}

	return r.GetPlanByID(id)
}

// GetPlanByID retrieves a study plan by ID, or nil if not found
func (r *PlanRepository) GetPlanByID(planID int64) (*models.StudyPlan, error) {
	query := `
		SELECT id, user_id, name, description, question_language, answer_language,
		       status, exam_date, created_at, updated_at
		FROM study_plans
		WHERE id = ?
	`

	plan := &models.StudyPlan{}
	var examDate sql.NullTime

	err := r.db.QueryRow(query, planID).Scan(
		&plan.ID,
		&plan.UserID,
		&plan.Name,
		&plan.Description,
		&plan.QuestionLanguage,
		&plan.AnswerLanguage,
		&plan.Status,
		&examDate,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if examDate.Valid {
		plan.ExamDate = &examDate.Time
	}
	return plan, nil
}

// GetPlansForUser retrieves all plans for a user with card counts
func (r *PlanRepository) GetPlansForUser(userID int64) ([]models.PlanSummary, error) {
	query := `
		SELECT p.id, p.user_id, p.name, p.description, p.question_language, p.answer_language,
		       p.status, p.exam_date, p.created_at, p.updated_at,
		       COUNT(f.id), COALESCE(AVG(f.mastery_level), 0)
		FROM study_plans p
		LEFT JOIN flashcards f ON f.study_plan_id = p.id
		WHERE p.user_id = ?
		GROUP BY p.id, p.user_id, p.name, p.description, p.question_language, p.answer_language,
		         p.status, p.exam_date, p.created_at, p.updated_at
		ORDER BY p.updated_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []models.PlanSummary
	for rows.Next() {
		var summary models.PlanSummary
		var examDate sql.NullTime

		err := rows.Scan(
			&summary.ID,
			&summary.UserID,
			&summary.Name,
			&summary.Description,
			&summary.QuestionLanguage,
			&summary.AnswerLanguage,
			&summary.Status,
			&examDate,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&summary.CardCount,
			&summary.AvgMastery,
		)
		if err != nil {
			return nil, err
		}
		if examDate.Valid {
			summary.ExamDate = &examDate.Time
		}
		plans = append(plans, summary)
	}

	return plans, rows.Err()
}

// UpdatePlanStatus changes a plan's lifecycle status
func (r *PlanRepository) UpdatePlanStatus(planID int64, status models.PlanStatus) error {
	query := "UPDATE study_plans SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, status, planID)
	return err
}

// DeletePlan removes a plan and, via cascade, its cards and sessions
func (r *PlanRepository) DeletePlan(planID int64) error {
	_, err := r.db.Exec("DELETE FROM study_plans WHERE id = ?", planID)
	return err
}
