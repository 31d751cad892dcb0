package cache

import (
	"context"
	"sort"

	"github.com/formlane/formlane/internal/log"
	"github.com/formlane/formlane/internal/survey"
)

// SurveyAPI is the slice of the resource client the survey cache drives.
// Defined here so tests can substitute a fake without a live server.
type SurveyAPI interface {
	Get(ctx context.Context, hash string) (*survey.Survey, error)
	UpdateTitle(ctx context.Context, hash, title string) error
	Publish(ctx context.Context, hash string) error
	Restore(ctx context.Context, hash string) error
	AccessList(ctx context.Context, hash string) ([]string, error)
	AccessGrant(ctx context.Context, hash, email string) error
	AccessRevoke(ctx context.Context, hash, email string) error
	CreateQuestion(ctx context.Context, hash string, t survey.QuestionType) (*survey.Question, error)
	UpdateQuestionLabel(ctx context.Context, hash string, questionID int, label string) error
	UpdateQuestionType(ctx context.Context, hash string, questionID int, newType survey.QuestionType) error
	UpdateQuestionOrder(ctx context.Context, hash string, questionID, newOrder int) error
	UpdateQuestionExtraParams(ctx context.Context, hash string, questionID int, params survey.ExtraParams) error
	RestoreQuestion(ctx context.Context, hash string, questionID int) (*survey.Question, error)
	DeleteQuestion(ctx context.Context, hash string, questionID int) error
	CreateOption(ctx context.Context, hash string, questionID int) (*survey.Option, error)
	UpdateOptionLabel(ctx context.Context, hash string, questionID, optionID int, label string) error
	UpdateOptionOrder(ctx context.Context, hash string, questionID, optionID, newOrder int) error
	DeleteOption(ctx context.Context, hash string, questionID, optionID int) error
}

// SurveyCache serves survey documents through the store and runs every
// edit through the optimistic protocol: cancel the key's in-flight
// refresh, apply a structural patch to the cached document, call the
// API, then adopt the canonical entity or apply the inverse patch.
//
// Inverse patches are scoped to the entity that was edited. A rollback
// of a failed rename never reverts a sibling edit that succeeded in
// the meantime.
type SurveyCache struct {
	store  *Store
	api    SurveyAPI
	logger *log.Logger
}

// NewSurveyCache wires a cache over the given store and API.
func NewSurveyCache(store *Store, api SurveyAPI, logger *log.Logger) *SurveyCache {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &SurveyCache{store: store, api: api, logger: logger}
}

// Survey returns the survey document, fetching on miss. A stale hit is
// returned immediately while a background refresh brings the copy up to
// date for the next read.
func (c *SurveyCache) Survey(ctx context.Context, hash string) (*survey.Survey, error) {
	key := SurveyKey(hash)
	if v, fresh, ok := c.store.Get(key); ok {
		s := v.(*survey.Survey)
		if !fresh {
			c.refreshSurvey(hash)
		}
		return s.Clone(), nil
	}

	s, err := c.api.Get(ctx, hash)
	if err != nil {
		return nil, err
	}
	c.store.Put(key, s)
	return s.Clone(), nil
}

// Refresh forces a synchronous refetch of the survey document.
func (c *SurveyCache) Refresh(ctx context.Context, hash string) (*survey.Survey, error) {
	s, err := c.api.Get(ctx, hash)
	if err != nil {
		return nil, err
	}
	c.store.Put(SurveyKey(hash), s)
	return s.Clone(), nil
}

// Invalidate drops the cached document and access list of a survey.
func (c *SurveyCache) Invalidate(hash string) {
	c.store.Invalidate(SurveyKey(hash))
	c.store.Invalidate(AccessKey(hash))
}

// refreshSurvey refetches the document in the background. The result is
// discarded when a mutation cancels the refresh before it lands.
func (c *SurveyCache) refreshSurvey(hash string) {
	key := SurveyKey(hash)
	ctx, gen := c.store.BeginRefresh(context.Background(), key)
	go func() {
		s, err := c.api.Get(ctx, hash)
		if err != nil {
			c.logger.WithError(err).Debug("background survey refresh failed", "hash", hash)
			return
		}
		c.store.CompleteRefresh(key, gen, s)
	}()
}

// mutate runs one edit through the protocol. patch mutates the working
// clone and returns the inverse patch for rollback; it may return nil
// when there is nothing to undo. When no document is cached the
// optimistic phase is skipped and only the network call runs.
// markStale is set for edits whose server-computed side effects (order
// renumbering, state transitions) the patch cannot reproduce.
func (c *SurveyCache) mutate(ctx context.Context, hash string, patch func(*survey.Survey) func(*survey.Survey), call func(context.Context) error, markStale bool) error {
	key := SurveyKey(hash)
	c.store.CancelRefresh(key)

	var undo func(*survey.Survey)
	c.store.Update(key, func(cur any) any {
		s, _ := cur.(*survey.Survey)
		if s == nil {
			return nil
		}
		next := s.Clone()
		undo = patch(next)
		return next
	})

	if err := call(ctx); err != nil {
		if undo != nil {
			c.store.Update(key, func(cur any) any {
				s, _ := cur.(*survey.Survey)
				if s == nil {
					return nil
				}
				next := s.Clone()
				undo(next)
				return next
			})
		}
		return err
	}

	if markStale {
		c.store.MarkStale(key)
	}
	return nil
}

// adopt merges a canonical server entity into the cached document and
// marks it stale so the next read settles server-side renumbering.
func (c *SurveyCache) adopt(hash string, merge func(*survey.Survey)) {
	key := SurveyKey(hash)
	c.store.Update(key, func(cur any) any {
		s, _ := cur.(*survey.Survey)
		if s == nil {
			return nil
		}
		next := s.Clone()
		merge(next)
		return next
	})
	c.store.MarkStale(key)
}

// UpdateTitle renames the survey.
func (c *SurveyCache) UpdateTitle(ctx context.Context, hash, title string) error {
	return c.mutate(ctx, hash,
		func(s *survey.Survey) func(*survey.Survey) {
			old := s.Title
			s.Title = title
			return func(s *survey.Survey) { s.Title = old }
		},
		func(ctx context.Context) error { return c.api.UpdateTitle(ctx, hash, title) },
		false,
	)
}

// Publish transitions the survey to ACTIVE. The server also flips
// question states to ACTUAL, so the copy goes stale on success.
func (c *SurveyCache) Publish(ctx context.Context, hash string) error {
	return c.mutate(ctx, hash,
		func(s *survey.Survey) func(*survey.Survey) {
			old := s.State
			s.State = survey.StateActive
			return func(s *survey.Survey) { s.State = old }
		},
		func(ctx context.Context) error { return c.api.Publish(ctx, hash) },
		true,
	)
}

// Restore transitions the survey back to DRAFT, reverting pending edits
// server-side.
func (c *SurveyCache) Restore(ctx context.Context, hash string) error {
	return c.mutate(ctx, hash,
		func(s *survey.Survey) func(*survey.Survey) {
			old := s.State
			s.State = survey.StateDraft
			return func(s *survey.Survey) { s.State = old }
		},
		func(ctx context.Context) error { return c.api.Restore(ctx, hash) },
		true,
	)
}

// CreateQuestion appends a question of the given type. There is no
// optimistic phase: the id and defaults only exist once the server
// assigns them, so the canonical entity is adopted on success.
func (c *SurveyCache) CreateQuestion(ctx context.Context, hash string, t survey.QuestionType) (*survey.Question, error) {
	c.store.CancelRefresh(SurveyKey(hash))
	q, err := c.api.CreateQuestion(ctx, hash, t)
	if err != nil {
		return nil, err
	}
	c.adopt(hash, func(s *survey.Survey) {
		s.Questions = append(s.Questions, *q)
	})
	return q, nil
}

// UpdateQuestionLabel edits a question's label.
func (c *SurveyCache) UpdateQuestionLabel(ctx context.Context, hash string, questionID int, label string) error {
	return c.mutate(ctx, hash,
		func(s *survey.Survey) func(*survey.Survey) {
			q := s.QuestionByID(questionID)
			if q == nil {
				return nil
			}
			old := q.Label
			q.Label = label
			return func(s *survey.Survey) {
				if q := s.QuestionByID(questionID); q != nil {
					q.Label = old
				}
			}
		},
		func(ctx context.Context) error { return c.api.UpdateQuestionLabel(ctx, hash, questionID, label) },
		false,
	)
}

// UpdateQuestionType switches a question to another type. Collected
// answers for the question are discarded server-side; constraints not
// meaningful for the new type are dropped from the optimistic copy.
func (c *SurveyCache) UpdateQuestionType(ctx context.Context, hash string, questionID int, newType survey.QuestionType) error {
	return c.mutate(ctx, hash,
		func(s *survey.Survey) func(*survey.Survey) {
			q := s.QuestionByID(questionID)
			if q == nil {
				return nil
			}
			oldType, oldParams := q.Type, q.ExtraParams
			q.Type = newType
			q.ExtraParams = q.ExtraParams.Normalized(newType)
			return func(s *survey.Survey) {
				if q := s.QuestionByID(questionID); q != nil {
					q.Type = oldType
					q.ExtraParams = oldParams
				}
			}
		},
		func(ctx context.Context) error { return c.api.UpdateQuestionType(ctx, hash, questionID, newType) },
		true,
	)
}

// UpdateQuestionOrder moves a question to a new position. The patch
// shifts only the orders between the old and new slot; the inverse
// restores the captured per-question orders and nothing else.
func (c *SurveyCache) UpdateQuestionOrder(ctx context.Context, hash string, questionID, newOrder int) error {
	return c.mutate(ctx, hash,
		func(s *survey.Survey) func(*survey.Survey) {
			q := s.QuestionByID(questionID)
			if q == nil {
				return nil
			}
			orders := make(map[int]int, len(s.Questions))
			for _, qq := range s.Questions {
				orders[qq.ID] = qq.Order
			}
			shiftOrder(len(s.Questions), q.Order, newOrder, func(i int) *int { return &s.Questions[i].Order })
			sortQuestions(s)
			return func(s *survey.Survey) {
				for i := range s.Questions {
					if o, ok := orders[s.Questions[i].ID]; ok {
						s.Questions[i].Order = o
					}
				}
				sortQuestions(s)
			}
		},
		func(ctx context.Context) error { return c.api.UpdateQuestionOrder(ctx, hash, questionID, newOrder) },
		true,
	)
}

// UpdateQuestionExtraParams replaces a question's validation constraints.
func (c *SurveyCache) UpdateQuestionExtraParams(ctx context.Context, hash string, questionID int, params survey.ExtraParams) error {
	return c.mutate(ctx, hash,
		func(s *survey.Survey) func(*survey.Survey) {
			q := s.QuestionByID(questionID)
			if q == nil {
				return nil
			}
			old := q.ExtraParams
			q.ExtraParams = params.Normalized(q.Type)
			return func(s *survey.Survey) {
				if q := s.QuestionByID(questionID); q != nil {
					q.ExtraParams = old
				}
			}
		},
		func(ctx context.Context) error { return c.api.UpdateQuestionExtraParams(ctx, hash, questionID, params) },
		false,
	)
}

// RestoreQuestion undoes a pending delete and adopts the canonical
// question the server returns.
func (c *SurveyCache) RestoreQuestion(ctx context.Context, hash string, questionID int) (*survey.Question, error) {
	c.store.CancelRefresh(SurveyKey(hash))
	q, err := c.api.RestoreQuestion(ctx, hash, questionID)
	if err != nil {
		return nil, err
	}
	c.adopt(hash, func(s *survey.Survey) {
		for i := range s.Questions {
			if s.Questions[i].ID == q.ID {
				s.Questions[i] = *q
				return
			}
		}
		s.Questions = append(s.Questions, *q)
		sortQuestions(s)
	})
	return q, nil
}

// DeleteQuestion removes a question. A question never published is
// dropped from the copy outright; an already-published one is kept with
// a DELETED marker, mirroring what the server will report.
func (c *SurveyCache) DeleteQuestion(ctx context.Context, hash string, questionID int) error {
	return c.mutate(ctx, hash,
		func(s *survey.Survey) func(*survey.Survey) {
			idx := -1
			for i := range s.Questions {
				if s.Questions[i].ID == questionID {
					idx = i
					break
				}
			}
			if idx < 0 {
				return nil
			}
			removed := s.Questions[idx]
			removed.Options = append([]survey.Option(nil), removed.Options...)
			if removed.State == survey.QuestionStateNew {
				s.Questions = append(s.Questions[:idx], s.Questions[idx+1:]...)
				return func(s *survey.Survey) {
					if s.QuestionByID(questionID) != nil {
						return
					}
					s.Questions = append(s.Questions, removed)
					sortQuestions(s)
				}
			}
			oldState := s.Questions[idx].State
			s.Questions[idx].State = survey.QuestionStateDeleted
			return func(s *survey.Survey) {
				if q := s.QuestionByID(questionID); q != nil {
					q.State = oldState
				}
			}
		},
		func(ctx context.Context) error { return c.api.DeleteQuestion(ctx, hash, questionID) },
		true,
	)
}

// CreateOption appends an option to a choice question, adopting the
// canonical entity on success.
func (c *SurveyCache) CreateOption(ctx context.Context, hash string, questionID int) (*survey.Option, error) {
	c.store.CancelRefresh(SurveyKey(hash))
	opt, err := c.api.CreateOption(ctx, hash, questionID)
	if err != nil {
		return nil, err
	}
	c.adopt(hash, func(s *survey.Survey) {
		if q := s.QuestionByID(questionID); q != nil {
			q.Options = append(q.Options, *opt)
		}
	})
	return opt, nil
}

// UpdateOptionLabel edits an option's label.
func (c *SurveyCache) UpdateOptionLabel(ctx context.Context, hash string, questionID, optionID int, label string) error {
	return c.mutate(ctx, hash,
		func(s *survey.Survey) func(*survey.Survey) {
			opt := optionByID(s, questionID, optionID)
			if opt == nil {
				return nil
			}
			old := opt.Label
			opt.Label = label
			return func(s *survey.Survey) {
				if opt := optionByID(s, questionID, optionID); opt != nil {
					opt.Label = old
				}
			}
		},
		func(ctx context.Context) error {
			return c.api.UpdateOptionLabel(ctx, hash, questionID, optionID, label)
		},
		false,
	)
}

// UpdateOptionOrder moves an option within its question.
func (c *SurveyCache) UpdateOptionOrder(ctx context.Context, hash string, questionID, optionID, newOrder int) error {
	return c.mutate(ctx, hash,
		func(s *survey.Survey) func(*survey.Survey) {
			q := s.QuestionByID(questionID)
			if q == nil {
				return nil
			}
			opt := optionByID(s, questionID, optionID)
			if opt == nil {
				return nil
			}
			orders := make(map[int]int, len(q.Options))
			for _, o := range q.Options {
				orders[o.ID] = o.Order
			}
			shiftOrder(len(q.Options), opt.Order, newOrder, func(i int) *int { return &q.Options[i].Order })
			sortOptions(q)
			return func(s *survey.Survey) {
				q := s.QuestionByID(questionID)
				if q == nil {
					return
				}
				for i := range q.Options {
					if o, ok := orders[q.Options[i].ID]; ok {
						q.Options[i].Order = o
					}
				}
				sortOptions(q)
			}
		},
		func(ctx context.Context) error {
			return c.api.UpdateOptionOrder(ctx, hash, questionID, optionID, newOrder)
		},
		true,
	)
}

// DeleteOption removes an option, with the same never-published
// distinction as DeleteQuestion.
func (c *SurveyCache) DeleteOption(ctx context.Context, hash string, questionID, optionID int) error {
	return c.mutate(ctx, hash,
		func(s *survey.Survey) func(*survey.Survey) {
			q := s.QuestionByID(questionID)
			if q == nil {
				return nil
			}
			idx := -1
			for i := range q.Options {
				if q.Options[i].ID == optionID {
					idx = i
					break
				}
			}
			if idx < 0 {
				return nil
			}
			removed := q.Options[idx]
			if removed.State == survey.QuestionStateNew {
				q.Options = append(q.Options[:idx], q.Options[idx+1:]...)
				return func(s *survey.Survey) {
					q := s.QuestionByID(questionID)
					if q == nil || optionByID(s, questionID, optionID) != nil {
						return
					}
					q.Options = append(q.Options, removed)
					sortOptions(q)
				}
			}
			oldState := q.Options[idx].State
			q.Options[idx].State = survey.QuestionStateDeleted
			return func(s *survey.Survey) {
				if opt := optionByID(s, questionID, optionID); opt != nil {
					opt.State = oldState
				}
			}
		},
		func(ctx context.Context) error {
			return c.api.DeleteOption(ctx, hash, questionID, optionID)
		},
		true,
	)
}

// Access returns the survey's shared-editor emails, fetching on miss.
func (c *SurveyCache) Access(ctx context.Context, hash string) ([]string, error) {
	key := AccessKey(hash)
	if v, fresh, ok := c.store.Get(key); ok && fresh {
		return append([]string(nil), v.([]string)...), nil
	}
	emails, err := c.api.AccessList(ctx, hash)
	if err != nil {
		return nil, err
	}
	c.store.Put(key, emails)
	return append([]string(nil), emails...), nil
}

// AccessGrant shares the survey with an email, appended optimistically.
func (c *SurveyCache) AccessGrant(ctx context.Context, hash, email string) error {
	key := AccessKey(hash)
	c.store.CancelRefresh(key)

	patched := false
	c.store.Update(key, func(cur any) any {
		emails, ok := cur.([]string)
		if !ok {
			return nil
		}
		patched = true
		return append(append([]string(nil), emails...), email)
	})

	if err := c.api.AccessGrant(ctx, hash, email); err != nil {
		if patched {
			c.store.Update(key, func(cur any) any {
				emails, ok := cur.([]string)
				if !ok {
					return nil
				}
				return removeEmail(emails, email)
			})
		}
		return err
	}
	c.store.MarkStale(key)
	return nil
}

// AccessRevoke removes an email from the share list.
func (c *SurveyCache) AccessRevoke(ctx context.Context, hash, email string) error {
	key := AccessKey(hash)
	c.store.CancelRefresh(key)

	patched := false
	c.store.Update(key, func(cur any) any {
		emails, ok := cur.([]string)
		if !ok {
			return nil
		}
		patched = true
		return removeEmail(emails, email)
	})

	if err := c.api.AccessRevoke(ctx, hash, email); err != nil {
		if patched {
			c.store.Update(key, func(cur any) any {
				emails, ok := cur.([]string)
				if !ok {
					return nil
				}
				return append(append([]string(nil), emails...), email)
			})
		}
		return err
	}
	c.store.MarkStale(key)
	return nil
}

// shiftOrder moves one slot from oldOrder to newOrder, sliding the
// entries in between by one. get returns the order field of entry i.
func shiftOrder(n, oldOrder, newOrder int, get func(i int) *int) {
	for i := 0; i < n; i++ {
		o := get(i)
		switch {
		case *o == oldOrder:
			*o = newOrder
		case oldOrder < newOrder && *o > oldOrder && *o <= newOrder:
			*o--
		case oldOrder > newOrder && *o >= newOrder && *o < oldOrder:
			*o++
		}
	}
}

func sortQuestions(s *survey.Survey) {
	sort.SliceStable(s.Questions, func(i, j int) bool {
		return s.Questions[i].Order < s.Questions[j].Order
	})
}

func sortOptions(q *survey.Question) {
	sort.SliceStable(q.Options, func(i, j int) bool {
		return q.Options[i].Order < q.Options[j].Order
	})
}

func optionByID(s *survey.Survey, questionID, optionID int) *survey.Option {
	q := s.QuestionByID(questionID)
	if q == nil {
		return nil
	}
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return &q.Options[i]
		}
	}
	return nil
}

func removeEmail(emails []string, email string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		if e != email {
			out = append(out, e)
		}
	}
	return out
}
