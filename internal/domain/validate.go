package domain

import "fmt"

// ValidateQuiz checks the invariants the quiz session relies on. Failures wrap
// ErrMalformedQuiz and name the 1-based question number.
func ValidateQuiz(quiz Quiz) error {
	if len(quiz.Questions) == 0 {
		return fmt.Errorf("%w: quiz has no questions", ErrMalformedQuiz)
	}
	for i, q := range quiz.Questions {
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d needs at least two options", ErrMalformedQuiz, i+1)
		}
		matches := 0
		for _, opt := range q.Options {
			if opt == q.Answer {
				matches++
			}
		}
		switch {
		case matches == 0:
			return fmt.Errorf("%w: question %d answer %q is not among its options", ErrMalformedQuiz, i+1, q.Answer)
		case matches > 1:
			return fmt.Errorf("%w: question %d answer %q matches %d options", ErrMalformedQuiz, i+1, q.Answer, matches)
		}
	}
	return nil
}
