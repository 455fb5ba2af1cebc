package app

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"sync"

	"wiki-quiz-service/internal/domain"

	"github.com/google/uuid"
)

// PresentationRepository abstracts where presentation state lives (in-memory, Redis, etc).
type PresentationRepository interface {
	Save(ctx context.Context, p Presentation) error
	Get(ctx context.Context, id string) (Presentation, error)
	Delete(ctx context.Context, id string) error
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// Catalog lists and fetches previously generated quizzes.
type Catalog interface {
	ListHistory(ctx context.Context) ([]domain.HistoryItem, error)
	GetRecord(ctx context.Context, quizID string) (domain.QuizRecord, error)
}

// Presentation is one open view of one quiz, as stored between requests.
type Presentation struct {
	ID       string   `json:"id"`
	QuizID   string   `json:"quizId"`
	Snapshot Snapshot `json:"snapshot"`
}

// Opened is returned when a presentation starts.
type Opened struct {
	PresentationID string `json:"presentationId"`
	View           View   `json:"view"`
}

// ConfirmationError carries the progress a shell shows when asking the user
// to confirm an incomplete submit. It matches domain.ErrConfirmationRequired.
type ConfirmationError struct {
	Answered int
	Total    int
}

func (e *ConfirmationError) Error() string {
	return domain.ErrConfirmationRequired.Error()
}

func (e *ConfirmationError) Is(target error) bool {
	return target == domain.ErrConfirmationRequired
}

const lockStripes = 64

// PresentationService contains the quiz presentation use cases.
type PresentationService struct {
	presentations PresentationRepository
	quizzes       QuizRepository
	catalog       Catalog
	logger        *slog.Logger
	newID         func() string
	locks         [lockStripes]sync.Mutex
}

func NewPresentationService(presentations PresentationRepository, quizzes QuizRepository, catalog Catalog, logger *slog.Logger) *PresentationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PresentationService{
		presentations: presentations,
		quizzes:       quizzes,
		catalog:       catalog,
		logger:        logger,
		newID:         uuid.NewString,
	}
}

// Open starts a new presentation of quizID in the given mode.
func (s *PresentationService) Open(ctx context.Context, quizID string, mode Mode) (Opened, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return Opened{}, err
	}
	state, err := Initialize(quiz, mode)
	if err != nil {
		return Opened{}, err
	}

	p := Presentation{ID: s.newID(), QuizID: quizID, Snapshot: state.Snapshot()}
	if err := s.presentations.Save(ctx, p); err != nil {
		return Opened{}, err
	}
	s.logger.Info("presentation opened", "presentation_id", p.ID, "quiz_id", quizID, "mode", mode.String())
	return Opened{PresentationID: p.ID, View: Render(state)}, nil
}

// View renders the current state of a presentation.
func (s *PresentationService) View(ctx context.Context, id string) (View, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	_, state, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	return Render(state), nil
}

// Select records an option by position for a question.
func (s *PresentationService) Select(ctx context.Context, id string, question, option int) (View, error) {
	return s.transition(ctx, id, func(a Attempt) (Attempt, error) {
		return a.Select(question, option)
	})
}

// SelectText records an option by its text for a question.
func (s *PresentationService) SelectText(ctx context.Context, id string, question int, text string) (View, error) {
	return s.transition(ctx, id, func(a Attempt) (Attempt, error) {
		return a.SelectText(question, text)
	})
}

// Submit reveals results. An incomplete attempt is only submitted when the
// caller confirms; otherwise a *ConfirmationError is returned and nothing changes.
func (s *PresentationService) Submit(ctx context.Context, id string, confirmed bool) (View, error) {
	return s.transition(ctx, id, func(a Attempt) (Attempt, error) {
		if !a.Revealed() && !a.IsComplete() && !confirmed {
			return a, &ConfirmationError{Answered: a.AnsweredCount(), Total: len(a.Quiz().Questions)}
		}
		return a.Submit()
	})
}

// Retake starts a new attempt.
func (s *PresentationService) Retake(ctx context.Context, id string) (View, error) {
	return s.transition(ctx, id, func(a Attempt) (Attempt, error) {
		return a.Retake(), nil
	})
}

// Close discards a presentation.
func (s *PresentationService) Close(ctx context.Context, id string) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if err := s.presentations.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrPresentationNotFound) {
		return err
	}
	s.logger.Info("presentation closed", "presentation_id", id)
	return nil
}

// History lists previously generated quizzes, newest first.
func (s *PresentationService) History(ctx context.Context) ([]domain.HistoryItem, error) {
	return s.catalog.ListHistory(ctx)
}

// Record fetches a stored quiz with its metadata.
func (s *PresentationService) Record(ctx context.Context, quizID string) (domain.QuizRecord, error) {
	return s.catalog.GetRecord(ctx, quizID)
}

func (s *PresentationService) transition(ctx context.Context, id string, fn func(Attempt) (Attempt, error)) (View, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	p, state, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	attempt, ok := state.(Attempt)
	if !ok {
		return Render(state), domain.ErrReviewOnly
	}

	next, err := fn(attempt)
	if err != nil {
		return Render(attempt), err
	}

	p.Snapshot = next.Snapshot()
	if err := s.presentations.Save(ctx, p); err != nil {
		return View{}, err
	}
	return Render(next), nil
}

func (s *PresentationService) load(ctx context.Context, id string) (Presentation, State, error) {
	p, err := s.presentations.Get(ctx, id)
	if err != nil {
		return Presentation{}, nil, err
	}
	quiz, err := s.quizzes.GetQuiz(ctx, p.QuizID)
	if err != nil {
		return Presentation{}, nil, err
	}
	state, err := Restore(quiz, p.Snapshot)
	if err != nil {
		s.logger.Error("presentation state rejected", "presentation_id", id, "error", err)
		return Presentation{}, nil, err
	}
	return p, state, nil
}

// lockFor serializes operations on one presentation within this process.
func (s *PresentationService) lockFor(id string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &s.locks[h.Sum32()%lockStripes]
}
