package domain

import (
	"strings"
	"time"
)

// Difficulty is the generator-assigned difficulty of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyOther  Difficulty = "other"
)

// ParseDifficulty maps free-form generator output onto a known difficulty.
// Unrecognized values fall back to DifficultyOther.
func ParseDifficulty(raw string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(raw))) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyMedium:
		return DifficultyMedium
	case DifficultyHard:
		return DifficultyHard
	default:
		return DifficultyOther
	}
}

// Question models an MCQ question whose answer must match exactly one option.
type Question struct {
	Text        string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty"`
	Explanation string   `json:"explanation"`
}

// AnswerIndex returns the position of the correct option, or -1 when the
// answer matches no option.
func (q Question) AnswerIndex() int {
	for i, opt := range q.Options {
		if opt == q.Answer {
			return i
		}
	}
	return -1
}

// Quiz is an immutable quiz document. Question order is display and scoring order.
type Quiz struct {
	ID            string     `json:"id,omitempty"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary"`
	Questions     []Question `json:"quiz"`
	RelatedTopics []string   `json:"related_topics"`
}

// HistoryItem summarizes a previously generated quiz.
type HistoryItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// QuizRecord is a stored quiz with its history metadata.
type QuizRecord struct {
	HistoryItem
	Quiz Quiz `json:"quiz"`
}
