package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lightingpro/storefront/internal/core/domain/catalog"
	"github.com/lightingpro/storefront/internal/core/ports"
	"github.com/lightingpro/storefront/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
)

type questionnaireRow struct {
	catalog.Questionnaire
	AnswersRaw []byte `db:"answers"`
}

type QuestionnaireRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewQuestionnaireRepository(database *db.Database, logger *logrus.Logger) ports.QuestionnaireRepository {
	return &QuestionnaireRepository{db: database, logger: logger}
}

func (r *QuestionnaireRepository) Create(ctx context.Context, q *catalog.Questionnaire) error {
	answersRaw, err := json.Marshal(q.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode questionnaire answers: %w", err)
	}
	query := `INSERT INTO questionnaires (id, user_id, answers, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.DB.ExecContext(ctx, query, q.ID, q.UserID, answersRaw, q.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert questionnaire: %w", err)
	}
	return nil
}

func (r *QuestionnaireRepository) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Questionnaire, error) {
	var row questionnaireRow
	query := `SELECT id, user_id, answers, created_at FROM questionnaires WHERE id = $1`
	if err := r.db.DB.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("questionnaire %s not found", id)
		}
		return nil, fmt.Errorf("failed to get questionnaire: %w", err)
	}
	q := row.Questionnaire
	if len(row.AnswersRaw) > 0 {
		if err := json.Unmarshal(row.AnswersRaw, &q.Answers); err != nil {
			return nil, fmt.Errorf("failed to decode questionnaire answers: %w", err)
		}
	}
	return &q, nil
}
