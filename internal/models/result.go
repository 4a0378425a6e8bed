package models

import "time"

// TestResult представляет единственную зачтённую попытку пользователя по тесту.
// Пара (Email, Test) уникальна на уровне хранилища, запись после создания не меняется.
type TestResult struct {
	ID          int       `json:"id"`
	Test        int       `json:"test"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completedAt"`
}

// LeaderboardEntry агрегированная статистика одного пользователя
// для таблицы лидеров.
type LeaderboardEntry struct {
	Name       string  `json:"name"`
	TotalScore int     `json:"totalScore"`
	Tests      int     `json:"tests"`
	AvgScore   float64 `json:"avgScore"` // Средний балл, округлён до одного знака
}
