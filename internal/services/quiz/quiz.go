// Package quiz содержит бизнес-логику попыток прохождения тестов,
// таблицы лидеров и каталога вопросов.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/quiz-backend/internal/lib/sl"
	"github.com/magabrotheeeer/quiz-backend/internal/models"
	"github.com/magabrotheeeer/quiz-backend/internal/storage/repository"
)

// ErrDuplicateAttempt повторная отправка результата для той же пары
// (email, test). Результаты пишутся один раз и не перезаписываются.
var ErrDuplicateAttempt = errors.New("attempt already submitted")

const (
	// defaultLeaderboardLimit размер таблицы лидеров по умолчанию.
	defaultLeaderboardLimit = 20
	// maxLeaderboardLimit верхняя граница размера таблицы лидеров.
	maxLeaderboardLimit = 50
	// catalogCacheTTL время жизни каталога вопросов в кэше.
	catalogCacheTTL = 10 * time.Minute
)

// ResultRepository описывает контракт хранилища результатов тестов.
type ResultRepository interface {
	CreateResult(ctx context.Context, result models.TestResult) (*models.TestResult, error)
	HasResult(ctx context.Context, email string, test int) (bool, error)
	ListResultsByEmail(ctx context.Context, email string) ([]*models.TestResult, error)
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// QuestionRepository описывает контракт каталога вопросов.
type QuestionRepository interface {
	ListTests(ctx context.Context) ([]int, error)
	ListQuestionsByTest(ctx context.Context, test int) ([]*models.Question, error)
}

// Cache описывает интерфейс кэша для каталога вопросов.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// QuizService отвечает за попытки, таблицу лидеров и каталог вопросов.
type QuizService struct {
	results   ResultRepository
	questions QuestionRepository
	cache     Cache
	log       *slog.Logger
}

// NewQuizService создает новый экземпляр QuizService.
func NewQuizService(results ResultRepository, questions QuestionRepository, cache Cache, log *slog.Logger) *QuizService {
	return &QuizService{
		results:   results,
		questions: questions,
		cache:     cache,
		log:       log,
	}
}

// HasAttempted сообщает, сдавал ли пользователь уже этот тест.
// Отсутствие записи не является ошибкой.
func (s *QuizService) HasAttempted(ctx context.Context, email string, test int) (bool, error) {
	const op = "quiz.HasAttempted"
	attempted, err := s.results.HasResult(ctx, email, test)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return attempted, nil
}

// Submit сохраняет результат попытки. Момент завершения проставляет база,
// присланное клиентом время игнорируется. Повторная попытка для той же пары
// (email, test) завершается ErrDuplicateAttempt, первый результат сохраняется.
func (s *QuizService) Submit(ctx context.Context, test, score int, email, name string) (*models.TestResult, error) {
	const op = "quiz.Submit"
	result, err := s.results.CreateResult(ctx, models.TestResult{
		Test:  test,
		Email: email,
		Name:  name,
		Score: score,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateAttempt) {
			return nil, ErrDuplicateAttempt
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// Leaderboard возвращает агрегированную таблицу лидеров. Считается
// на каждом вызове: число строк ограничено числом пользователей,
// а не числом попыток, поэтому материализация не нужна.
func (s *QuizService) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	const op = "quiz.Leaderboard"
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	entries, err := s.results.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entries, nil
}

// ProfileResults возвращает результаты пользователя, свежие первыми.
func (s *QuizService) ProfileResults(ctx context.Context, email string) ([]*models.TestResult, error) {
	const op = "quiz.ProfileResults"
	results, err := s.results.ListResultsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return results, nil
}

// Tests возвращает номера доступных тестов. Каталог неизменяемый,
// поэтому ответ кэшируется.
func (s *QuizService) Tests(ctx context.Context) ([]int, error) {
	const op = "quiz.Tests"
	const key = "questions:tests"

	var cached []int
	if found, err := s.cache.Get(key, &cached); err != nil {
		s.log.Warn("cache read failed", sl.Err(err))
	} else if found {
		return cached, nil
	}

	tests, err := s.questions.ListTests(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(key, tests, catalogCacheTTL); err != nil {
		s.log.Warn("cache write failed", sl.Err(err))
	}
	return tests, nil
}

// Questions возвращает вопросы теста в порядке question_no, с кэшированием.
func (s *QuizService) Questions(ctx context.Context, test int) ([]*models.Question, error) {
	const op = "quiz.Questions"
	key := fmt.Sprintf("questions:test:%d", test)

	var cached []*models.Question
	if found, err := s.cache.Get(key, &cached); err != nil {
		s.log.Warn("cache read failed", sl.Err(err))
	} else if found {
		return cached, nil
	}

	questions, err := s.questions.ListQuestionsByTest(ctx, test)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(key, questions, catalogCacheTTL); err != nil {
		s.log.Warn("cache write failed", sl.Err(err))
	}
	return questions, nil
}
