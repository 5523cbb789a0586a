package domain

import "time"

// QuestionType is derived from how many options are marked correct.
type QuestionType string

const (
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
)

// FeedbackMode controls when answers are revealed while taking a quiz.
type FeedbackMode string

const (
	FeedbackImmediate FeedbackMode = "immediate"
	FeedbackEnd       FeedbackMode = "end"
)

// Valid reports whether m is one of the known modes.
func (m FeedbackMode) Valid() bool {
	return m == FeedbackImmediate || m == FeedbackEnd
}

// AnswerOption represents a possible answer for a question.
type AnswerOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	Rationale string `json:"rationale,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// Question models a single- or multiple-answer question. Type is never trusted
// from callers; see NormalizeQuestion.
type Question struct {
	ID            string         `json:"id"`
	Text          string         `json:"question"`
	Hint          string         `json:"hint,omitempty"`
	ImageURL      string         `json:"imageUrl,omitempty"`
	AnswerOptions []AnswerOption `json:"answerOptions"`
	Type          QuestionType   `json:"type"`
}

// QuizContent holds the authorable fields shared by drafts and quizzes.
type QuizContent struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	TimeLimit   *int       `json:"timeLimit,omitempty"` // minutes
	Tags        []string   `json:"tags,omitempty"`
	Questions   []Question `json:"questions"`
}

// Quiz is a published quiz. Only the title changes after creation.
type Quiz struct {
	ID string `json:"id"`
	QuizContent
	ShareCode string    `json:"shareCode,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Question returns the question with the given id.
func (q Quiz) Question(id string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// Draft is a quiz still being authored in the three-step wizard.
type Draft struct {
	ID string `json:"id"`
	QuizContent
	CurrentStep           int       `json:"currentStep"`
	// AutoGenerateShareCode defaults to true when absent.
	AutoGenerateShareCode *bool     `json:"autoGenerateShareCode"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// WantsShareCode reports whether publishing should assign a share code.
func (d Draft) WantsShareCode() bool {
	return d.AutoGenerateShareCode == nil || *d.AutoGenerateShareCode
}

// DraftSummary is the list view of a draft.
type DraftSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"questionCount"`
	CurrentStep   int       `json:"currentStep"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Progress is the single in-flight attempt snapshot for a quiz.
type Progress struct {
	QuizID               string              `json:"quizId"`
	CurrentQuestionIndex int                 `json:"currentQuestionIndex"`
	Answers              map[string][]string `json:"answers"` // questionId -> selected optionIds
	SkippedQuestions     []string            `json:"skippedQuestions"`
	HintsUsed            []string            `json:"hintsUsed"`
	Mode                 FeedbackMode        `json:"mode"`
	StartedAt            time.Time           `json:"startedAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}

// Clone returns a deep copy so snapshots can be shared safely.
func (p Progress) Clone() Progress {
	out := p
	out.Answers = make(map[string][]string, len(p.Answers))
	for questionID, selected := range p.Answers {
		out.Answers[questionID] = append([]string{}, selected...)
	}
	out.SkippedQuestions = append([]string{}, p.SkippedQuestions...)
	out.HintsUsed = append([]string{}, p.HintsUsed...)
	return out
}

// SubmittedAnswers flattens the answer map into scoring input.
func (p Progress) SubmittedAnswers() []SubmittedAnswer {
	out := make([]SubmittedAnswer, 0, len(p.Answers))
	for questionID, selected := range p.Answers {
		out = append(out, SubmittedAnswer{QuestionID: questionID, SelectedOptionIDs: selected})
	}
	return out
}

// SubmittedAnswer is the selection a taker made for one question.
type SubmittedAnswer struct {
	QuestionID        string   `json:"questionId"`
	SelectedOptionIDs []string `json:"selectedOptionIds"`
}

// AnswerResult is the scored outcome of one question.
type AnswerResult struct {
	QuestionID        string   `json:"questionId"`
	SelectedOptionIDs []string `json:"selectedOptionIds"`
	CorrectOptionIDs  []string `json:"correctOptionIds"`
	PointsEarned      float64  `json:"pointsEarned"`
	IsCorrect         bool     `json:"isCorrect"`
}

// ScoreResult is the output of the scoring engine.
type ScoreResult struct {
	Answers          []AnswerResult `json:"answers"`
	Score            float64        `json:"score"`
	TotalPoints      int            `json:"totalPoints"`
	Percentage       float64        `json:"percentage"`
	QuestionsSkipped int            `json:"questionsSkipped"`
}

// Attempt is an immutable scored record. It snapshots everything needed for
// review so later quiz edits never change history.
type Attempt struct {
	ID        string `json:"id"`
	QuizID    string `json:"quizId"`
	QuizTitle string `json:"quizTitle"`
	ScoreResult
	StartedAt   time.Time    `json:"startedAt"`
	CompletedAt time.Time    `json:"completedAt"`
	Duration    int          `json:"duration"` // seconds
	Mode        FeedbackMode `json:"mode"`
}

// QuizStats summarizes the attempt history of a quiz for list views.
type QuizStats struct {
	QuestionCount int        `json:"questionCount"`
	AttemptCount  int        `json:"attemptCount"`
	BestScore     *float64   `json:"bestScore"`
	LastAttempt   *time.Time `json:"lastAttempt"`
}

// QuizListItem pairs a quiz with its stats.
type QuizListItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ShareCode string    `json:"shareCode,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	QuizStats
}

// QuizDetail is a quiz with its attempt history, newest first.
type QuizDetail struct {
	Quiz     Quiz      `json:"quiz"`
	Attempts []Attempt `json:"attempts"`
}
