package app

import (
	"fmt"

	"wiki-quiz-service/internal/domain"
)

// OptionState is how a single option is marked for display.
type OptionState int

const (
	OptionUnselected OptionState = iota
	OptionSelected
	OptionCorrect
	OptionIncorrectSelected
)

func (s OptionState) String() string {
	switch s {
	case OptionUnselected:
		return "unselected"
	case OptionSelected:
		return "selected"
	case OptionCorrect:
		return "correct"
	case OptionIncorrectSelected:
		return "incorrect"
	default:
		return fmt.Sprintf("option_state(%d)", int(s))
	}
}

func (s OptionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DifficultyClass maps a difficulty onto its badge style. Unknown values get
// the neutral style.
func DifficultyClass(d domain.Difficulty) string {
	switch d {
	case domain.DifficultyEasy:
		return "bg-green-100 text-green-800"
	case domain.DifficultyMedium:
		return "bg-yellow-100 text-yellow-800"
	case domain.DifficultyHard:
		return "bg-red-100 text-red-800"
	default:
		return "bg-gray-100 text-gray-800"
	}
}

// View is the render model handed to display shells.
type View struct {
	QuizID        string         `json:"quizId,omitempty"`
	Title         string         `json:"title"`
	Summary       string         `json:"summary"`
	Mode          Mode           `json:"mode"`
	Revealed      bool           `json:"revealed"`
	Questions     []QuestionView `json:"questions"`
	AnsweredCount int            `json:"answeredCount"`
	QuestionCount int            `json:"questionCount"`
	Complete      bool           `json:"complete"`
	Score         *int           `json:"score,omitempty"`
	RelatedTopics []string       `json:"relatedTopics"`
	CanSubmit     bool           `json:"canSubmit"`
	CanRetake     bool           `json:"canRetake"`
}

type QuestionView struct {
	Number          int               `json:"number"`
	Text            string            `json:"text"`
	Difficulty      domain.Difficulty `json:"difficulty"`
	DifficultyClass string            `json:"difficultyClass"`
	Options         []OptionView      `json:"options"`
	Explanation     string            `json:"explanation,omitempty"`
}

type OptionView struct {
	Index int         `json:"index"`
	Label string      `json:"label"`
	Text  string      `json:"text"`
	State OptionState `json:"state"`
}

// Render derives the view model from s. Explanations and the score are only
// exposed once results are revealed.
func Render(s State) View {
	quiz := s.Quiz()
	revealed := s.Revealed()
	taking := s.Mode() == ModeTaking

	questions := make([]QuestionView, len(quiz.Questions))
	for qi, q := range quiz.Questions {
		difficulty := domain.ParseDifficulty(q.Difficulty)
		options := make([]OptionView, len(q.Options))
		for oi, text := range q.Options {
			options[oi] = OptionView{
				Index: oi,
				Label: optionLabel(oi),
				Text:  text,
				State: s.OptionState(qi, oi),
			}
		}
		qv := QuestionView{
			Number:          qi + 1,
			Text:            q.Text,
			Difficulty:      difficulty,
			DifficultyClass: DifficultyClass(difficulty),
			Options:         options,
		}
		if revealed {
			qv.Explanation = q.Explanation
		}
		questions[qi] = qv
	}

	topics := quiz.RelatedTopics
	if topics == nil {
		topics = []string{}
	}

	view := View{
		QuizID:        quiz.ID,
		Title:         quiz.Title,
		Summary:       quiz.Summary,
		Mode:          s.Mode(),
		Revealed:      revealed,
		Questions:     questions,
		AnsweredCount: s.AnsweredCount(),
		QuestionCount: len(quiz.Questions),
		Complete:      s.IsComplete(),
		RelatedTopics: topics,
		CanSubmit:     taking && !revealed,
		CanRetake:     taking && revealed,
	}
	if revealed {
		score := s.Score()
		view.Score = &score
	}
	return view
}

// optionLabel returns A, B, ... Z, then AA, AB for longer option lists.
func optionLabel(i int) string {
	label := ""
	for n := i; ; n = n/26 - 1 {
		label = string(rune('A'+n%26)) + label
		if n < 26 {
			break
		}
	}
	return label
}
