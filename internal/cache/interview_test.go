package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlane/formlane/internal/errors"
	"github.com/formlane/formlane/internal/survey"
)

type fakeInterviewAPI struct {
	mu     sync.Mutex
	remote *survey.InterviewDocument
	fail   map[string]error
	calls  map[string]int
}

func newFakeInterviewAPI(remote *survey.InterviewDocument) *fakeInterviewAPI {
	return &fakeInterviewAPI{remote: remote, fail: map[string]error{}, calls: map[string]int{}}
}

func (f *fakeInterviewAPI) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.fail[op]
}

func (f *fakeInterviewAPI) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeInterviewAPI) StartInterview(ctx context.Context, hash, interviewID string, demo bool) error {
	return f.record("start")
}

func (f *fakeInterviewAPI) InterviewSurvey(ctx context.Context, hash, interviewID string) (*survey.InterviewDocument, error) {
	if err := f.record("survey"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remote.Clone(), nil
}

func (f *fakeInterviewAPI) UpdateAnswer(ctx context.Context, hash, interviewID string, questionID int, answer string) error {
	return f.record("answer")
}

func (f *fakeInterviewAPI) FinishInterview(ctx context.Context, hash, interviewID string) error {
	return f.record("finish")
}

func testInterviewDoc() *survey.InterviewDocument {
	return &survey.InterviewDocument{
		Questions: []survey.QuestionWithAnswer{
			{Question: survey.Question{ID: 1, Label: "Name", Type: survey.TypeShortText}},
			{Question: survey.Question{ID: 2, Label: "Age", Type: survey.TypeNumber}, Answer: "30"},
		},
	}
}

func newTestInterviewCache(t *testing.T) (*InterviewCache, *fakeInterviewAPI, *Store) {
	t.Helper()
	api := newFakeInterviewAPI(testInterviewDoc())
	store := NewStore(time.Hour)
	return NewInterviewCache(store, api, nil), api, store
}

func TestInterviewCache_DocumentReadThrough(t *testing.T) {
	c, api, _ := newTestInterviewCache(t)
	ctx := context.Background()

	d1, err := c.Document(ctx, "h1", "iv1")
	require.NoError(t, err)
	assert.Len(t, d1.Questions, 2)

	_, err = c.Document(ctx, "h1", "iv1")
	require.NoError(t, err)
	assert.Equal(t, 1, api.callCount("survey"))
}

func TestInterviewCache_SessionsAreIsolated(t *testing.T) {
	c, api, _ := newTestInterviewCache(t)
	ctx := context.Background()

	_, err := c.Document(ctx, "h1", "iv1")
	require.NoError(t, err)
	_, err = c.Document(ctx, "h1", "iv2")
	require.NoError(t, err)
	assert.Equal(t, 2, api.callCount("survey"), "each session has its own document")

	require.NoError(t, c.UpdateAnswer(ctx, "h1", "iv1", 1, "Alice"))

	d2, err := c.Document(ctx, "h1", "iv2")
	require.NoError(t, err)
	assert.Empty(t, d2.QuestionByID(1).Answer)
}

func TestInterviewCache_UpdateAnswerOptimistic(t *testing.T) {
	c, _, _ := newTestInterviewCache(t)
	ctx := context.Background()
	_, err := c.Document(ctx, "h1", "iv1")
	require.NoError(t, err)

	require.NoError(t, c.UpdateAnswer(ctx, "h1", "iv1", 1, "Alice"))

	d, err := c.Document(ctx, "h1", "iv1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", d.QuestionByID(1).Answer)
}

func TestInterviewCache_UpdateAnswerRollsBack(t *testing.T) {
	c, api, _ := newTestInterviewCache(t)
	ctx := context.Background()
	_, err := c.Document(ctx, "h1", "iv1")
	require.NoError(t, err)

	api.fail["answer"] = errors.NewAPIStatusError(500, "boom")
	require.Error(t, c.UpdateAnswer(ctx, "h1", "iv1", 2, "31"))

	d, err := c.Document(ctx, "h1", "iv1")
	require.NoError(t, err)
	assert.Equal(t, "30", d.QuestionByID(2).Answer)
}

func TestInterviewCache_FinishInvalidates(t *testing.T) {
	c, api, store := newTestInterviewCache(t)
	ctx := context.Background()
	_, err := c.Document(ctx, "h1", "iv1")
	require.NoError(t, err)

	require.NoError(t, c.Finish(ctx, "h1", "iv1"))

	_, _, ok := store.Get(InterviewKey("h1", "iv1"))
	assert.False(t, ok)
	assert.Equal(t, 1, api.callCount("finish"))
}

func TestInterviewCache_StartFailurePropagates(t *testing.T) {
	c, api, _ := newTestInterviewCache(t)
	api.fail["start"] = errors.NewAPIStatusError(404, "no such survey")

	err := c.Start(context.Background(), "h1", "iv1", false)
	require.Error(t, err)
	var fe *errors.FormlaneError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, errors.ErrCodeAPINotFound, fe.Code)
}
