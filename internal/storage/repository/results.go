package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/quiz-backend/internal/models"
)

// CreateResult сохраняет результат попытки и возвращает запись с полями,
// выставленными базой (id и серверное completed_at). Повторная попытка для
// той же пары (email, test) упирается в уникальный индекс и возвращает
// ErrDuplicateAttempt, первая сохранённая запись остаётся нетронутой.
func (s *Storage) CreateResult(ctx context.Context, result models.TestResult) (*models.TestResult, error) {
	const op = "storage.CreateResult"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO test_results (test, email, name, score)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, completed_at`
	row := s.DB.QueryRowContext(ctx, query,
		result.Test, result.Email, result.Name, result.Score)
	if err := row.Scan(&result.ID, &result.CompletedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicateAttempt)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// HasResult проверяет, есть ли сохранённый результат для пары (email, test).
func (s *Storage) HasResult(ctx context.Context, email string, test int) (bool, error) {
	const op = "storage.HasResult"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM test_results WHERE email = $1 AND test = $2
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, email, test).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListResultsByEmail возвращает результаты пользователя, свежие первыми.
func (s *Storage) ListResultsByEmail(ctx context.Context, email string) ([]*models.TestResult, error) {
	const op = "storage.ListResultsByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, test, email, name, score, completed_at
			  FROM test_results
			  WHERE email = $1
			  ORDER BY completed_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.TestResult
	for rows.Next() {
		var item models.TestResult
		if err := rows.Scan(&item.ID, &item.Test, &item.Email, &item.Name,
			&item.Score, &item.CompletedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// Leaderboard агрегирует результаты по email: суммарный балл, число тестов
// и средний балл, округлённый до одного знака. Имя берётся из самой ранней
// записи пользователя. Сортировка по суммарному баллу по убыванию, при
// равенстве — по email по возрастанию, чтобы порядок не плавал между вызовами.
func (s *Storage) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	const op = "storage.Leaderboard"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      (SELECT r.name FROM test_results r
			       WHERE r.email = g.email
			       ORDER BY r.completed_at, r.id
			       LIMIT 1) AS name,
			      g.total_score,
			      g.tests,
			      g.avg_score
			  FROM (
			      SELECT email,
			             SUM(score) AS total_score,
			             COUNT(*) AS tests,
			             ROUND(AVG(score)::numeric, 1)::float8 AS avg_score
			      FROM test_results
			      GROUP BY email
			  ) g
			  ORDER BY g.total_score DESC, g.email ASC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.LeaderboardEntry
	for rows.Next() {
		var item models.LeaderboardEntry
		if err := rows.Scan(&item.Name, &item.TotalScore, &item.Tests, &item.AvgScore); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
