package app

import (
	"fmt"
	"maps"
	"strings"

	"wiki-quiz-service/internal/domain"
)

// Mode selects how a quiz is presented. It is fixed for the life of a session.
type Mode int

const (
	ModeTaking Mode = iota + 1
	ModeReviewOnly
)

func (m Mode) String() string {
	switch m {
	case ModeTaking:
		return "take"
	case ModeReviewOnly:
		return "review"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts the names produced by String. An empty string means ModeTaking.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(raw) {
	case "", "take", "taking":
		return ModeTaking, nil
	case "review", "reviewonly":
		return ModeReviewOnly, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", raw)
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	if m != ModeTaking && m != ModeReviewOnly {
		return nil, fmt.Errorf("unknown mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// State is the read side shared by both presentation modes. Every value is
// derived from the selections and the reveal flag on each call.
type State interface {
	Quiz() domain.Quiz
	Mode() Mode
	Revealed() bool
	Selection(question int) (option int, ok bool)
	AnsweredCount() int
	IsComplete() bool
	Score() int
	OptionState(question, option int) OptionState
	Snapshot() Snapshot
}

// Initialize validates the quiz and returns the initial state for mode:
// an Attempt for ModeTaking, a Review for ModeReviewOnly.
func Initialize(quiz domain.Quiz, mode Mode) (State, error) {
	switch mode {
	case ModeTaking:
		return NewAttempt(quiz)
	case ModeReviewOnly:
		return NewReview(quiz)
	default:
		return nil, fmt.Errorf("initialize quiz session: unknown mode %d", int(mode))
	}
}

// board holds the data common to both modes. Values are copied on every
// transition; the selections map is cloned before it is written.
type board struct {
	quiz       domain.Quiz
	answers    []int
	selections map[int]int
	revealed   bool
}

func newBoard(quiz domain.Quiz) (board, error) {
	if err := domain.ValidateQuiz(quiz); err != nil {
		return board{}, err
	}
	answers := make([]int, len(quiz.Questions))
	for i, q := range quiz.Questions {
		answers[i] = q.AnswerIndex()
	}
	return board{quiz: quiz, answers: answers}, nil
}

func (b board) Quiz() domain.Quiz { return b.quiz }

func (b board) Revealed() bool { return b.revealed }

func (b board) Selection(question int) (int, bool) {
	option, ok := b.selections[question]
	return option, ok
}

func (b board) AnsweredCount() int { return len(b.selections) }

func (b board) IsComplete() bool { return len(b.selections) == len(b.quiz.Questions) }

// Score counts questions whose selected option is the correct one.
// Unanswered questions count as incorrect.
func (b board) Score() int {
	score := 0
	for question, option := range b.selections {
		if b.answers[question] == option {
			score++
		}
	}
	return score
}

func (b board) OptionState(question, option int) OptionState {
	if question < 0 || question >= len(b.answers) {
		return OptionUnselected
	}
	selected, answered := b.selections[question]
	picked := answered && selected == option
	if !b.revealed {
		if picked {
			return OptionSelected
		}
		return OptionUnselected
	}
	switch {
	case option == b.answers[question]:
		return OptionCorrect
	case picked:
		return OptionIncorrectSelected
	default:
		return OptionUnselected
	}
}

func (b board) Snapshot() Snapshot {
	return Snapshot{Revealed: b.revealed, Selections: maps.Clone(b.selections)}
}

func (b board) checkOption(question, option int) error {
	if question < 0 || question >= len(b.quiz.Questions) {
		return fmt.Errorf("%w: index %d", domain.ErrQuestionNotFound, question)
	}
	if option < 0 || option >= len(b.quiz.Questions[question].Options) {
		return fmt.Errorf("%w: question %d option %d", domain.ErrOptionNotFound, question, option)
	}
	return nil
}

// Attempt is a quiz being taken. Selections are accepted until Submit reveals
// the results; Retake starts a new attempt.
type Attempt struct {
	board
}

// NewAttempt returns an unrevealed attempt with no selections.
func NewAttempt(quiz domain.Quiz) (Attempt, error) {
	b, err := newBoard(quiz)
	if err != nil {
		return Attempt{}, err
	}
	return Attempt{board: b}, nil
}

func (Attempt) Mode() Mode { return ModeTaking }

// Select records option for question, replacing any earlier choice.
func (a Attempt) Select(question, option int) (Attempt, error) {
	if a.revealed {
		return a, domain.ErrAnswersLocked
	}
	if err := a.checkOption(question, option); err != nil {
		return a, err
	}
	next := a
	next.selections = maps.Clone(a.selections)
	if next.selections == nil {
		next.selections = make(map[int]int, len(a.quiz.Questions))
	}
	next.selections[question] = option
	return next, nil
}

// SelectText resolves text to an option position and selects it.
func (a Attempt) SelectText(question int, text string) (Attempt, error) {
	if a.revealed {
		return a, domain.ErrAnswersLocked
	}
	if question < 0 || question >= len(a.quiz.Questions) {
		return a, fmt.Errorf("%w: index %d", domain.ErrQuestionNotFound, question)
	}
	found := -1
	for i, opt := range a.quiz.Questions[question].Options {
		if opt != text {
			continue
		}
		if found >= 0 {
			return a, fmt.Errorf("%w: question %d %q", domain.ErrAmbiguousOption, question, text)
		}
		found = i
	}
	if found < 0 {
		return a, fmt.Errorf("%w: question %d %q", domain.ErrOptionNotFound, question, text)
	}
	return a.Select(question, found)
}

// Submit reveals the results. It does not check completeness; callers that
// want a confirmation step consult IsComplete first.
func (a Attempt) Submit() (Attempt, error) {
	if a.revealed {
		return a, domain.ErrAlreadySubmitted
	}
	next := a
	next.revealed = true
	return next, nil
}

// Retake clears all selections and hides the results.
func (a Attempt) Retake() Attempt {
	next := a
	next.selections = nil
	next.revealed = false
	return next
}

func (a Attempt) Snapshot() Snapshot {
	snap := a.board.Snapshot()
	snap.Mode = ModeTaking
	return snap
}

// Review is a read-only, already revealed presentation. It never records
// selections, so its score is always zero.
type Review struct {
	board
}

// NewReview returns a revealed review of quiz.
func NewReview(quiz domain.Quiz) (Review, error) {
	b, err := newBoard(quiz)
	if err != nil {
		return Review{}, err
	}
	b.revealed = true
	return Review{board: b}, nil
}

func (Review) Mode() Mode { return ModeReviewOnly }

func (r Review) Snapshot() Snapshot {
	snap := r.board.Snapshot()
	snap.Mode = ModeReviewOnly
	return snap
}

// Snapshot is the serializable form of a State.
type Snapshot struct {
	Mode       Mode        `json:"mode"`
	Revealed   bool        `json:"revealed"`
	Selections map[int]int `json:"selections,omitempty"`
}

// Restore rebuilds a State from a snapshot taken against the same quiz.
// Selections are replayed through Select so a stale or tampered snapshot
// cannot break the session invariants.
func Restore(quiz domain.Quiz, snap Snapshot) (State, error) {
	switch snap.Mode {
	case ModeReviewOnly:
		if len(snap.Selections) > 0 || !snap.Revealed {
			return nil, fmt.Errorf("restore review: inconsistent snapshot")
		}
		return NewReview(quiz)
	case ModeTaking:
		attempt, err := NewAttempt(quiz)
		if err != nil {
			return nil, err
		}
		for question, option := range snap.Selections {
			attempt, err = attempt.Select(question, option)
			if err != nil {
				return nil, fmt.Errorf("restore attempt: %w", err)
			}
		}
		if snap.Revealed {
			attempt, _ = attempt.Submit()
		}
		return attempt, nil
	default:
		return nil, fmt.Errorf("restore: unknown mode %d", int(snap.Mode))
	}
}
