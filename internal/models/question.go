package models

// QuestionType дискриминатор варианта вопроса.
type QuestionType string

const (
	// QuestionMCQ вопрос с одним правильным вариантом ответа.
	QuestionMCQ QuestionType = "mcq"
	// QuestionMatch вопрос на сопоставление двух колонок.
	QuestionMatch QuestionType = "match"
)

// Bilingual текст на двух языках.
type Bilingual struct {
	Tamil   string `json:"tamil"`
	English string `json:"english"`
}

// MatchItem элемент колонки в вопросе на сопоставление.
type MatchItem struct {
	Key     string `json:"key"`
	Tamil   string `json:"tamil"`
	English string `json:"english"`
}

// Question вопрос каталога. Поля Options и CorrectAnswer заполнены только
// для типа mcq, MatchLeft и MatchRight — только для match.
type Question struct {
	ID            int          `json:"id"`
	Test          int          `json:"test"`
	QuestionNo    int          `json:"questionNo"`
	Type          QuestionType `json:"questionType"`
	Text          Bilingual    `json:"question"`
	Images        []string     `json:"images,omitempty"`
	Options       []Bilingual  `json:"options,omitempty"`
	CorrectAnswer int          `json:"correctAnswer,omitempty"` // Номер варианта, 1..4
	MatchLeft     []MatchItem  `json:"matchLeft,omitempty"`
	MatchRight    []MatchItem  `json:"matchRight,omitempty"`
	Explanation   Bilingual    `json:"explanation"`
	Exam          string       `json:"exam,omitempty"`
	Subject       string       `json:"subject,omitempty"`
	Chapter       string       `json:"chapter,omitempty"`
}
