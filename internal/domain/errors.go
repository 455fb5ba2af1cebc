package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrMalformedQuiz is wrapped by validation failures on a quiz document.
	ErrMalformedQuiz = errors.New("malformed quiz")
	// ErrPresentationNotFound is returned for unknown or expired presentations.
	ErrPresentationNotFound = errors.New("presentation not found")

	// ErrReviewOnly rejects mutations on a read-only review presentation.
	ErrReviewOnly = errors.New("quiz is open for review only")
	// ErrAnswersLocked rejects selections after results were revealed.
	ErrAnswersLocked = errors.New("answers are locked until retake")
	// ErrAlreadySubmitted rejects a second submit within one attempt.
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	// ErrQuestionNotFound indicates a question index outside the quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates an option that does not belong to the question.
	ErrOptionNotFound = errors.New("option not found")
	// ErrAmbiguousOption indicates option text shared by several options.
	ErrAmbiguousOption = errors.New("option text is ambiguous")
	// ErrConfirmationRequired is returned when an incomplete attempt is submitted unconfirmed.
	ErrConfirmationRequired = errors.New("submit of an incomplete attempt requires confirmation")
)
