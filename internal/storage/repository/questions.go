package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/quiz-backend/internal/models"
)

// ListTests возвращает номера тестов, встречающиеся в каталоге вопросов.
func (s *Storage) ListTests(ctx context.Context) ([]int, error) {
	const op = "storage.ListTests"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT DISTINCT test FROM questions ORDER BY test`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []int
	for rows.Next() {
		var test int
		if err := rows.Scan(&test); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, test)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListQuestionsByTest возвращает вопросы теста в порядке question_no.
// Вариантные поля (options, match_left, match_right) хранятся в jsonb
// и раскладываются по типу вопроса.
func (s *Storage) ListQuestionsByTest(ctx context.Context, test int) ([]*models.Question, error) {
	const op = "storage.ListQuestionsByTest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, test, question_no, question_type,
			      question_ta, question_en, images,
			      options, correct_answer, match_left, match_right,
			      explanation_ta, explanation_en, exam, subject, chapter
			  FROM questions
			  WHERE test = $1
			  ORDER BY question_no`
	rows, err := s.DB.QueryContext(ctx, query, test)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Question
	for rows.Next() {
		item, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func scanQuestion(rows *sql.Rows) (*models.Question, error) {
	var item models.Question
	var images, options, matchLeft, matchRight []byte
	var correctAnswer sql.NullInt64
	var exam, subject, chapter sql.NullString

	if err := rows.Scan(&item.ID, &item.Test, &item.QuestionNo, &item.Type,
		&item.Text.Tamil, &item.Text.English, &images,
		&options, &correctAnswer, &matchLeft, &matchRight,
		&item.Explanation.Tamil, &item.Explanation.English,
		&exam, &subject, &chapter); err != nil {
		return nil, err
	}

	if images != nil {
		if err := json.Unmarshal(images, &item.Images); err != nil {
			return nil, err
		}
	}
	switch item.Type {
	case models.QuestionMCQ:
		if options != nil {
			if err := json.Unmarshal(options, &item.Options); err != nil {
				return nil, err
			}
		}
		if correctAnswer.Valid {
			item.CorrectAnswer = int(correctAnswer.Int64)
		}
	case models.QuestionMatch:
		if matchLeft != nil {
			if err := json.Unmarshal(matchLeft, &item.MatchLeft); err != nil {
				return nil, err
			}
		}
		if matchRight != nil {
			if err := json.Unmarshal(matchRight, &item.MatchRight); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("unknown question type: %s", item.Type)
	}

	item.Exam = exam.String
	item.Subject = subject.String
	item.Chapter = chapter.String
	return &item, nil
}
