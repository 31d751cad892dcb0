package survey_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlane/formlane/internal/api"
	"github.com/formlane/formlane/internal/cache"
	"github.com/formlane/formlane/internal/i18n"
	"github.com/formlane/formlane/internal/session"
	"github.com/formlane/formlane/internal/stats"
	"github.com/formlane/formlane/internal/survey"
	"github.com/formlane/formlane/internal/validate"
)

// fakeAPI is a minimal in-memory survey API covering the full
// create -> edit -> publish -> interview -> stats flow.
type fakeAPI struct {
	mu        sync.Mutex
	state     survey.State
	title     string
	questions []survey.Question
	nextQID   int
	answers   map[string]map[int]string // interviewID -> questionID -> answer
	started   int
	finished  int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		state:   survey.StateDraft,
		nextQID: 1,
		answers: map[string]map[int]string{},
	}
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/surveys", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"hash": "h1"})
	})

	mux.HandleFunc("GET /api/surveys/h1", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, map[string]any{"survey": survey.Survey{
			Hash: "h1", Title: f.title, State: f.state, Questions: f.questions,
		}})
	})

	mux.HandleFunc("PATCH /api/surveys/h1", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Title string `json:"title"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.title = body.Title
		f.mu.Unlock()
		writeJSON(w, map[string]any{})
	})

	mux.HandleFunc("POST /api/surveys/h1/publish", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if len(f.questions) == 0 {
			http.Error(w, `{"error":"cannot publish an empty survey"}`, http.StatusBadRequest)
			return
		}
		f.state = survey.StateActive
		for i := range f.questions {
			f.questions[i].State = survey.QuestionStateActual
		}
		writeJSON(w, map[string]any{})
	})

	mux.HandleFunc("POST /api/surveys/h1/question", func(w http.ResponseWriter, r *http.Request) {
		t := survey.QuestionType(r.URL.Query().Get("type"))
		f.mu.Lock()
		q := survey.Question{
			ID: f.nextQID, Type: t, Order: f.nextQID, State: survey.QuestionStateNew,
		}
		f.nextQID++
		f.questions = append(f.questions, q)
		f.mu.Unlock()
		writeJSON(w, map[string]any{"question": q})
	})

	mux.HandleFunc("PATCH /api/surveys/h1/question/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Label string `json:"label"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		for i := range f.questions {
			if fmt.Sprint(f.questions[i].ID) == r.PathValue("id") {
				f.questions[i].Label = body.Label
			}
		}
		f.mu.Unlock()
		writeJSON(w, map[string]any{})
	})

	mux.HandleFunc("POST /api/interview/h1/start", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.started++
		f.answers[r.URL.Query().Get("interviewId")] = map[int]string{}
		f.mu.Unlock()
		writeJSON(w, map[string]any{})
	})

	mux.HandleFunc("GET /api/interview/h1/survey", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("interviewId")
		f.mu.Lock()
		defer f.mu.Unlock()
		doc := survey.InterviewDocument{}
		for _, q := range f.questions {
			doc.Questions = append(doc.Questions, survey.QuestionWithAnswer{
				Question: q,
				Answer:   f.answers[id][q.ID],
			})
		}
		writeJSON(w, doc)
	})

	mux.HandleFunc("PATCH /api/interview/h1/{qid}/answer", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Answer string `json:"answer"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		id := r.URL.Query().Get("interviewId")
		f.mu.Lock()
		for _, q := range f.questions {
			if fmt.Sprint(q.ID) == r.PathValue("qid") {
				f.answers[id][q.ID] = body.Answer
			}
		}
		f.mu.Unlock()
		writeJSON(w, map[string]any{})
	})

	mux.HandleFunc("POST /api/interview/h1/finish", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.finished++
		f.mu.Unlock()
		writeJSON(w, map[string]any{})
	})

	mux.HandleFunc("GET /api/surveys/h1/stats", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := survey.Stats{
			StartedInterviews:   f.started,
			CompletedInterviews: f.finished,
		}
		for _, q := range f.questions {
			qs := survey.QuestionStats{ID: q.ID, Label: q.Label, Type: q.Type}
			for _, byQ := range f.answers {
				if a, ok := byQ[q.ID]; ok && a != "" {
					qs.Answers = append(qs.Answers, a)
				}
			}
			out.Questions = append(out.Questions, qs)
		}
		writeJSON(w, out)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestScenario_CreatePublishInterviewStats(t *testing.T) {
	server := httptest.NewServer(newFakeAPI().handler())
	defer server.Close()

	transport, err := api.New(server.URL, 5*time.Second, "", nil)
	require.NoError(t, err)
	client := survey.NewClient(transport)

	store := cache.NewStore(time.Hour)
	surveys := cache.NewSurveyCache(store, client, nil)
	interviews := cache.NewInterviewCache(store, client, nil)
	sessions := session.NewStore(t.TempDir())
	ctx := context.Background()

	// Build the survey.
	hash, err := client.Create(ctx)
	require.NoError(t, err)
	require.Equal(t, "h1", hash)

	q, err := surveys.CreateQuestion(ctx, hash, survey.TypeRating)
	require.NoError(t, err)
	require.NoError(t, surveys.UpdateQuestionLabel(ctx, hash, q.ID, "Rate us"))
	require.NoError(t, surveys.UpdateTitle(ctx, hash, "Feedback"))
	require.NoError(t, surveys.Publish(ctx, hash))

	s, err := surveys.Refresh(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, survey.StateActive, s.State)
	assert.Equal(t, "Feedback", s.Title)
	assert.Equal(t, survey.QuestionStateActual, s.Questions[0].State)

	// Take the survey as a respondent.
	interviewID, isNew, err := sessions.InterviewID(hash, false)
	require.NoError(t, err)
	require.True(t, isNew)
	require.NoError(t, interviews.Start(ctx, hash, interviewID, false))

	doc, err := interviews.Document(ctx, hash, interviewID)
	require.NoError(t, err)
	require.Len(t, doc.Questions, 1)

	require.NoError(t, interviews.UpdateAnswer(ctx, hash, interviewID, q.ID, "5"))

	doc, err = interviews.Document(ctx, hash, interviewID)
	require.NoError(t, err)
	require.Empty(t, validate.Answers(doc.Questions, i18n.EN))
	require.NoError(t, interviews.Finish(ctx, hash, interviewID))

	// A later run resumes the same session id.
	resumedID, isNew, err := sessions.InterviewID(hash, false)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, interviewID, resumedID)

	// Statistics reflect the completed interview.
	st, err := client.Stats(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, 1, st.StartedInterviews)
	assert.Equal(t, 1, st.CompletedInterviews)
	require.Len(t, st.Questions, 1)

	agg := stats.Rating(st.Questions[0])
	assert.Equal(t, 5.0, agg.Average)

	csv := string(stats.CSV(st, i18n.EN))
	assert.True(t, strings.Contains(csv, "Average rating;5.0"))
}

func TestScenario_PublishEmptySurveyFails(t *testing.T) {
	server := httptest.NewServer(newFakeAPI().handler())
	defer server.Close()

	transport, err := api.New(server.URL, 5*time.Second, "", nil)
	require.NoError(t, err)
	client := survey.NewClient(transport)
	surveys := cache.NewSurveyCache(cache.NewStore(time.Hour), client, nil)
	ctx := context.Background()

	_, err = surveys.Survey(ctx, "h1")
	require.NoError(t, err)

	err = surveys.Publish(ctx, "h1")
	require.Error(t, err)

	// The optimistic state flip must have been rolled back.
	s, err := surveys.Survey(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, survey.StateDraft, s.State)
}
