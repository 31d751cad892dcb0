package cache

import (
	"context"

	"github.com/formlane/formlane/internal/log"
	"github.com/formlane/formlane/internal/survey"
)

// InterviewAPI is the slice of the resource client the interview cache
// drives.
type InterviewAPI interface {
	StartInterview(ctx context.Context, hash, interviewID string, demo bool) error
	InterviewSurvey(ctx context.Context, hash, interviewID string) (*survey.InterviewDocument, error)
	UpdateAnswer(ctx context.Context, hash, interviewID string, questionID int, answer string) error
	FinishInterview(ctx context.Context, hash, interviewID string) error
}

// InterviewCache keeps the document of one respondent session per
// (hash, interview id) key. Answers are written through the same
// optimistic protocol as survey edits.
type InterviewCache struct {
	store  *Store
	api    InterviewAPI
	logger *log.Logger
}

// NewInterviewCache wires a cache over the given store and API.
func NewInterviewCache(store *Store, api InterviewAPI, logger *log.Logger) *InterviewCache {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &InterviewCache{store: store, api: api, logger: logger}
}

// Start registers the respondent session and clears any stale document
// cached under the same key.
func (c *InterviewCache) Start(ctx context.Context, hash, interviewID string, demo bool) error {
	if err := c.api.StartInterview(ctx, hash, interviewID, demo); err != nil {
		return err
	}
	c.store.Invalidate(InterviewKey(hash, interviewID))
	return nil
}

// Document returns the respondent's question/answer document, fetching
// on miss and refreshing in the background when stale.
func (c *InterviewCache) Document(ctx context.Context, hash, interviewID string) (*survey.InterviewDocument, error) {
	key := InterviewKey(hash, interviewID)
	if v, fresh, ok := c.store.Get(key); ok {
		doc := v.(*survey.InterviewDocument)
		if !fresh {
			c.refresh(hash, interviewID)
		}
		return doc.Clone(), nil
	}

	doc, err := c.api.InterviewSurvey(ctx, hash, interviewID)
	if err != nil {
		return nil, err
	}
	c.store.Put(key, doc)
	return doc.Clone(), nil
}

func (c *InterviewCache) refresh(hash, interviewID string) {
	key := InterviewKey(hash, interviewID)
	ctx, gen := c.store.BeginRefresh(context.Background(), key)
	go func() {
		doc, err := c.api.InterviewSurvey(ctx, hash, interviewID)
		if err != nil {
			c.logger.WithError(err).Debug("background interview refresh failed", "hash", hash)
			return
		}
		c.store.CompleteRefresh(key, gen, doc)
	}()
}

// UpdateAnswer stores a raw answer string, patching the cached document
// first and rolling the single answer back if the write fails.
func (c *InterviewCache) UpdateAnswer(ctx context.Context, hash, interviewID string, questionID int, answer string) error {
	key := InterviewKey(hash, interviewID)
	c.store.CancelRefresh(key)

	var undo func(*survey.InterviewDocument)
	c.store.Update(key, func(cur any) any {
		doc, _ := cur.(*survey.InterviewDocument)
		if doc == nil {
			return nil
		}
		next := doc.Clone()
		q := next.QuestionByID(questionID)
		if q == nil {
			return next
		}
		old := q.Answer
		q.Answer = answer
		undo = func(doc *survey.InterviewDocument) {
			if q := doc.QuestionByID(questionID); q != nil {
				q.Answer = old
			}
		}
		return next
	})

	if err := c.api.UpdateAnswer(ctx, hash, interviewID, questionID, answer); err != nil {
		if undo != nil {
			c.store.Update(key, func(cur any) any {
				doc, _ := cur.(*survey.InterviewDocument)
				if doc == nil {
					return nil
				}
				next := doc.Clone()
				undo(next)
				return next
			})
		}
		return err
	}
	return nil
}

// Finish completes the session and drops its document from the cache.
func (c *InterviewCache) Finish(ctx context.Context, hash, interviewID string) error {
	if err := c.api.FinishInterview(ctx, hash, interviewID); err != nil {
		return err
	}
	c.store.Invalidate(InterviewKey(hash, interviewID))
	return nil
}
