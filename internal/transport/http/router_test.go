package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-maker-service/internal/domain"
)

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func TestHealth(t *testing.T) {
	stack := newTestStack(t)
	resp := doJSON(t, http.MethodGet, stack.server.URL+"/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateQuizValidationErrors(t *testing.T) {
	stack := newTestStack(t)
	resp := doJSON(t, http.MethodPost, stack.server.URL+"/api/quizzes", map[string]any{
		"title":     "Ok title",
		"questions": []any{},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Errors []string `json:"errors"`
	}
	decodeBody(t, resp, &body)
	assert.Contains(t, body.Errors, "At least one question is required")
}

func TestCreateAndListQuizzes(t *testing.T) {
	stack := newTestStack(t)
	resp := doJSON(t, http.MethodPost, stack.server.URL+"/api/quizzes", sampleContent())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created domain.Quiz
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ShareCode)
	assert.Equal(t, domain.QuestionMultiple, created.Questions[1].Type)

	resp = doJSON(t, http.MethodGet, stack.server.URL+"/api/quizzes", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []domain.QuizListItem
	decodeBody(t, resp, &items)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].QuestionCount)
	assert.Nil(t, items[0].BestScore)
}

func TestUnknownQuizIsNotFound(t *testing.T) {
	stack := newTestStack(t)
	for _, path := range []string{"/api/quizzes/missing", "/api/quizzes/shared/QUIZ-NOPE", "/api/attempts/missing", "/api/drafts/missing"} {
		resp := doJSON(t, http.MethodGet, stack.server.URL+path, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestExportSetsAttachmentName(t *testing.T) {
	stack := newTestStack(t)
	quiz := stack.seedQuiz(t)

	resp := doJSON(t, http.MethodGet, stack.server.URL+"/api/quizzes/"+quiz.ID+"/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="Arithmetic_basics.json"`, resp.Header.Get("Content-Disposition"))

	var doc domain.ExportedQuiz
	decodeBody(t, resp, &doc)
	assert.Equal(t, "Arithmetic basics", doc.Title)
	require.Len(t, doc.Questions, 2)
	assert.Equal(t, "What is 2 + 2?", doc.Questions[0].Question)
}

func TestImportAcceptsTextAlias(t *testing.T) {
	stack := newTestStack(t)
	payload := `{"title":"Imported quiz","questions":[{"text":"Which is a primary colour?","answerOptions":[{"text":"Red","isCorrect":true},{"text":"Green"}]}]}`
	req, err := http.NewRequest(http.MethodPost, stack.server.URL+"/api/quizzes/import", strings.NewReader(payload))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var quiz domain.Quiz
	decodeBody(t, resp, &quiz)
	assert.Equal(t, "Which is a primary colour?", quiz.Questions[0].Text)
	assert.Empty(t, quiz.ShareCode)
}

func TestDraftPublishFlow(t *testing.T) {
	stack := newTestStack(t)
	content := sampleContent()

	resp := doJSON(t, http.MethodPost, stack.server.URL+"/api/drafts", domain.Draft{QuizContent: content, CurrentStep: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var draft domain.Draft
	decodeBody(t, resp, &draft)
	require.NotEmpty(t, draft.ID)

	resp = doJSON(t, http.MethodPost, stack.server.URL+"/api/drafts/"+draft.ID+"/advance", map[string]int{"step": 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, stack.server.URL+"/api/drafts/"+draft.ID+"/publish", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, stack.server.URL+"/api/drafts/"+draft.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDraftShareCodeDefaultsToGenerated(t *testing.T) {
	stack := newTestStack(t)
	questions := `"questions":[{"question":"What is 2 + 2?","answerOptions":[{"text":"3"},{"text":"4","isCorrect":true}]}]`

	cases := []struct {
		name      string
		body      string
		wantShare bool
	}{
		{name: "flag absent", body: `{"title":"Default share",` + questions + `}`, wantShare: true},
		{name: "flag off", body: `{"title":"No share","autoGenerateShareCode":false,` + questions + `}`, wantShare: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(stack.server.URL+"/api/drafts", "application/json", strings.NewReader(tc.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var draft domain.Draft
			decodeBody(t, resp, &draft)
			require.NotNil(t, draft.AutoGenerateShareCode)
			assert.Equal(t, tc.wantShare, *draft.AutoGenerateShareCode)

			resp = doJSON(t, http.MethodPost, stack.server.URL+"/api/drafts/"+draft.ID+"/publish", nil)
			require.Equal(t, http.StatusCreated, resp.StatusCode)
			var quiz domain.Quiz
			decodeBody(t, resp, &quiz)
			assert.Equal(t, tc.wantShare, quiz.ShareCode != "")
		})
	}
}

func TestCreateQuizAcceptsTextAlias(t *testing.T) {
	stack := newTestStack(t)
	payload := `{"title":"Created with text","questions":[{"text":"Which is a primary colour?","answerOptions":[{"text":"Red","isCorrect":true},{"text":"Green"}]}]}`
	resp, err := http.Post(stack.server.URL+"/api/quizzes", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var quiz domain.Quiz
	decodeBody(t, resp, &quiz)
	assert.Equal(t, "Which is a primary colour?", quiz.Questions[0].Text)
}

func TestAdvanceDraftRejectsOutOfRangeStep(t *testing.T) {
	stack := newTestStack(t)
	draft, err := stack.drafts.SaveDraft(context.Background(), domain.Draft{})
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPost, stack.server.URL+"/api/drafts/"+draft.ID+"/advance", map[string]int{"step": 7})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body struct {
		Errors []string `json:"errors"`
	}
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Errors)
}

func TestProgressEndpoints(t *testing.T) {
	stack := newTestStack(t)
	quiz := stack.seedQuiz(t)
	url := stack.server.URL + "/api/progress/" + quiz.ID

	resp := doJSON(t, http.MethodGet, url, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var empty *domain.Progress
	decodeBody(t, resp, &empty)
	assert.Nil(t, empty)

	resp = doJSON(t, http.MethodPost, url, map[string]any{
		"currentQuestionIndex": 1,
		"answers":              map[string][]string{"q1": {"o2"}},
		"mode":                 "immediate",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, url, map[string]any{"mode": "later"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, url, nil)
	var saved domain.Progress
	decodeBody(t, resp, &saved)
	assert.Equal(t, quiz.ID, saved.QuizID)
	assert.Equal(t, 1, saved.CurrentQuestionIndex)
	assert.Equal(t, domain.FeedbackImmediate, saved.Mode)

	resp = doJSON(t, http.MethodDelete, url, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSubmitAttemptScoresAndClearsProgress(t *testing.T) {
	stack := newTestStack(t)
	quiz := stack.seedQuiz(t)
	ctx := context.Background()
	_, err := stack.progress.SaveProgress(ctx, domain.Progress{QuizID: quiz.ID})
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPost, stack.server.URL+"/api/attempts", map[string]any{
		"quizId": quiz.ID,
		"mode":   "end",
		"answers": []map[string]any{
			{"questionId": "q1", "selectedOptionIds": []string{"o2"}},
			{"questionId": "q2", "selectedOptionIds": []string{"o4"}},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var attempt domain.Attempt
	decodeBody(t, resp, &attempt)
	assert.InDelta(t, 1.5, attempt.Score, 1e-9)
	assert.Equal(t, 2, attempt.TotalPoints)
	assert.Equal(t, 75.0, attempt.Percentage)

	_, ok, err := stack.progress.GetProgress(ctx, quiz.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	resp = doJSON(t, http.MethodGet, stack.server.URL+"/api/attempts/quiz/"+quiz.ID, nil)
	var history []domain.Attempt
	decodeBody(t, resp, &history)
	assert.Len(t, history, 1)
}

func TestSubmitAttemptRequiresQuizID(t *testing.T) {
	stack := newTestStack(t)
	resp := doJSON(t, http.MethodPost, stack.server.URL+"/api/attempts", map[string]any{"mode": "end"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body struct {
		Errors []string `json:"errors"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, []string{"quizId is required"}, body.Errors)
}

func TestDeleteQuizCascades(t *testing.T) {
	stack := newTestStack(t)
	quiz := stack.seedQuiz(t)
	ctx := context.Background()
	_, err := stack.progress.SaveProgress(ctx, domain.Progress{QuizID: quiz.ID})
	require.NoError(t, err)

	resp := doJSON(t, http.MethodDelete, stack.server.URL+"/api/quizzes/"+quiz.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, ok, err := stack.progress.GetProgress(ctx, quiz.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	resp = doJSON(t, http.MethodGet, stack.server.URL+"/api/quizzes/"+quiz.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
