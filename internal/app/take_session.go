package app

import (
	"context"
	"fmt"

	"quiz-maker-service/internal/domain"
)

// TakeState is the attempt-taking lifecycle position of a session.
type TakeState int

const (
	TakeNotStarted TakeState = iota
	TakeInProgress
	TakeSubmitted
)

func (s TakeState) String() string {
	switch s {
	case TakeInProgress:
		return "in_progress"
	case TakeSubmitted:
		return "submitted"
	default:
		return "not_started"
	}
}

// TakeSession is one taker working through a quiz. Its feedback mode is fixed
// when the session starts. It is not safe for concurrent use; one connection owns it.
type TakeSession struct {
	quiz     domain.Quiz
	progress domain.Progress
	state    TakeState
	revealed map[string]bool
}

func (t *TakeSession) Quiz() domain.Quiz         { return t.quiz }
func (t *TakeSession) Progress() domain.Progress { return t.progress.Clone() }
func (t *TakeSession) State() TakeState          { return t.state }
func (t *TakeSession) Mode() domain.FeedbackMode { return t.progress.Mode }

// CurrentQuestion returns the question at the progress cursor.
func (t *TakeSession) CurrentQuestion() domain.Question {
	return t.quiz.Questions[t.progress.CurrentQuestionIndex]
}

func (t *TakeSession) ensureOpen() error {
	if t.state != TakeInProgress {
		return domain.ErrSessionClosed
	}
	return nil
}

// selectOption picks an option on the given question. Single-answer questions
// replace the selection; multiple-answer questions toggle it. Answering a
// question removes it from the skipped set.
func (t *TakeSession) selectOption(questionID, optionID string) error {
	if err := t.ensureOpen(); err != nil {
		return err
	}
	q, ok := t.quiz.Question(questionID)
	if !ok {
		return domain.ErrQuestionNotFound
	}
	if t.revealed[questionID] {
		return domain.ErrQuestionLocked
	}
	if !hasOption(q, optionID) {
		return domain.ErrOptionNotFound
	}

	current := t.progress.Answers[questionID]
	if domain.InferQuestionType(q.AnswerOptions) == domain.QuestionMultiple {
		t.progress.Answers[questionID] = toggle(current, optionID)
	} else {
		t.progress.Answers[questionID] = []string{optionID}
	}
	t.progress.SkippedQuestions = remove(t.progress.SkippedQuestions, questionID)
	return nil
}

// skip marks the current question skipped and moves to the next one.
func (t *TakeSession) skip() error {
	if err := t.ensureOpen(); err != nil {
		return err
	}
	qid := t.CurrentQuestion().ID
	if !contains(t.progress.SkippedQuestions, qid) {
		t.progress.SkippedQuestions = append(t.progress.SkippedQuestions, qid)
	}
	if t.progress.CurrentQuestionIndex < len(t.quiz.Questions)-1 {
		t.progress.CurrentQuestionIndex++
	}
	return nil
}

// useHint records hint use for the current question and returns the hint.
func (t *TakeSession) useHint() (string, error) {
	if err := t.ensureOpen(); err != nil {
		return "", err
	}
	q := t.CurrentQuestion()
	if !contains(t.progress.HintsUsed, q.ID) {
		t.progress.HintsUsed = append(t.progress.HintsUsed, q.ID)
	}
	return q.Hint, nil
}

func (t *TakeSession) navigate(index int) error {
	if err := t.ensureOpen(); err != nil {
		return err
	}
	if index < 0 || index >= len(t.quiz.Questions) {
		return fmt.Errorf("question index %d out of range: %w", index, domain.ErrInvalidInput)
	}
	t.progress.CurrentQuestionIndex = index
	return nil
}

// reveal scores the current question in immediate mode and locks its answer.
func (t *TakeSession) reveal() (domain.AnswerResult, error) {
	if err := t.ensureOpen(); err != nil {
		return domain.AnswerResult{}, err
	}
	if t.progress.Mode != domain.FeedbackImmediate {
		return domain.AnswerResult{}, fmt.Errorf("reveal in %s mode: %w", t.progress.Mode, domain.ErrInvalidInput)
	}
	q := t.CurrentQuestion()
	t.revealed[q.ID] = true
	return ScoreQuestion(q, t.progress.Answers[q.ID]), nil
}

func hasOption(q domain.Question, optionID string) bool {
	for _, opt := range q.AnswerOptions {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func toggle(ids []string, id string) []string {
	if contains(ids, id) {
		return remove(ids, id)
	}
	return append(append([]string{}, ids...), id)
}

// TakeService persists every take-session event through ProgressService and
// submits finished sessions through AttemptService.
type TakeService struct {
	quizzes  QuizRepository
	progress *ProgressService
	attempts *AttemptService
	settings settings
}

func NewTakeService(quizzes QuizRepository, progress *ProgressService, attempts *AttemptService, opts ...Option) *TakeService {
	return &TakeService{quizzes: quizzes, progress: progress, attempts: attempts, settings: newSettings(opts)}
}

// Start opens a session in the chosen mode. With resume set, answers, skips,
// hints and position from saved progress are kept; otherwise saved progress
// is overwritten by a fresh one.
func (s *TakeService) Start(ctx context.Context, quizID string, mode domain.FeedbackMode, resume bool) (*TakeSession, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("feedback mode %q: %w", mode, domain.ErrInvalidInput)
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("take quiz %q without questions: %w", quizID, domain.ErrInvalidInput)
	}

	progress := domain.Progress{QuizID: quiz.ID, Answers: map[string][]string{}, StartedAt: s.settings.now()}
	if resume {
		saved, ok, err := s.progress.GetProgress(ctx, quizID)
		if err != nil {
			return nil, err
		}
		if ok {
			progress = saved.Clone()
		}
	}
	progress.Mode = mode
	if progress.CurrentQuestionIndex >= len(quiz.Questions) {
		progress.CurrentQuestionIndex = 0
	}

	session := &TakeSession{quiz: quiz, progress: progress, state: TakeInProgress, revealed: map[string]bool{}}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *TakeService) Select(ctx context.Context, session *TakeSession, questionID, optionID string) error {
	if err := session.selectOption(questionID, optionID); err != nil {
		return err
	}
	return s.save(ctx, session)
}

func (s *TakeService) Skip(ctx context.Context, session *TakeSession) error {
	if err := session.skip(); err != nil {
		return err
	}
	return s.save(ctx, session)
}

func (s *TakeService) UseHint(ctx context.Context, session *TakeSession) (string, error) {
	hint, err := session.useHint()
	if err != nil {
		return "", err
	}
	return hint, s.save(ctx, session)
}

func (s *TakeService) Navigate(ctx context.Context, session *TakeSession, index int) error {
	if err := session.navigate(index); err != nil {
		return err
	}
	return s.save(ctx, session)
}

// Reveal does not change stored progress; the lock lives in the session only.
func (s *TakeService) Reveal(_ context.Context, session *TakeSession) (domain.AnswerResult, error) {
	return session.reveal()
}

// Submit scores the session and closes it.
func (s *TakeService) Submit(ctx context.Context, session *TakeSession) (domain.Attempt, error) {
	if err := session.ensureOpen(); err != nil {
		return domain.Attempt{}, err
	}
	attempt, err := s.attempts.SubmitAttempt(ctx, SubmitInput{
		QuizID:    session.quiz.ID,
		Answers:   session.progress.SubmittedAnswers(),
		StartedAt: session.progress.StartedAt,
		Mode:      session.progress.Mode,
	})
	if err != nil {
		return domain.Attempt{}, err
	}
	session.state = TakeSubmitted
	return attempt, nil
}

// Clear abandons the session and its stored progress without recording an attempt.
func (s *TakeService) Clear(ctx context.Context, session *TakeSession) error {
	if err := session.ensureOpen(); err != nil {
		return err
	}
	if err := s.progress.ClearProgress(ctx, session.quiz.ID); err != nil {
		return err
	}
	session.state = TakeNotStarted
	return nil
}

func (s *TakeService) save(ctx context.Context, session *TakeSession) error {
	saved, err := s.progress.SaveProgress(ctx, session.progress)
	if err != nil {
		return err
	}
	session.progress = saved
	return nil
}
