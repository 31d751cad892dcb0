package survey

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/formlane/formlane/internal/api"
)

// Respondent endpoints. These are anonymous: the interview id in the query
// string identifies the session, not a cookie.

// StartInterview registers a new respondent session for a published survey.
// Demo runs are flagged so the server excludes them from statistics.
func (c *Client) StartInterview(ctx context.Context, hash, interviewID string, demo bool) error {
	q := url.Values{}
	q.Set("interviewId", interviewID)
	if demo {
		q.Set("isDemo", "true")
	}
	resp, err := c.api.Do(ctx, api.Request{
		Method:        http.MethodPost,
		Path:          "/interview/" + hash + "/start",
		Query:         q,
		NoCredentials: true,
	})
	if err != nil {
		return err
	}
	return resp.Err()
}

// InterviewSurvey fetches the survey questions with the answers the
// respondent has entered so far.
func (c *Client) InterviewSurvey(ctx context.Context, hash, interviewID string) (*InterviewDocument, error) {
	q := url.Values{}
	q.Set("interviewId", interviewID)
	resp, err := c.api.Do(ctx, api.Request{
		Method:        http.MethodGet,
		Path:          "/interview/" + hash + "/survey",
		Query:         q,
		NoCredentials: true,
	})
	if err != nil {
		return nil, err
	}
	var out InterviewDocument
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAnswer stores the raw answer string for one question.
func (c *Client) UpdateAnswer(ctx context.Context, hash, interviewID string, questionID int, answer string) error {
	q := url.Values{}
	q.Set("interviewId", interviewID)
	resp, err := c.api.Do(ctx, api.Request{
		Method:        http.MethodPatch,
		Path:          fmt.Sprintf("/interview/%s/%d/answer", hash, questionID),
		Query:         q,
		Body:          map[string]string{"answer": answer},
		NoCredentials: true,
	})
	if err != nil {
		return err
	}
	return resp.Err()
}

// FinishInterview marks the respondent session completed.
func (c *Client) FinishInterview(ctx context.Context, hash, interviewID string) error {
	q := url.Values{}
	q.Set("interviewId", interviewID)
	resp, err := c.api.Do(ctx, api.Request{
		Method:        http.MethodPost,
		Path:          "/interview/" + hash + "/finish",
		Query:         q,
		NoCredentials: true,
	})
	if err != nil {
		return err
	}
	return resp.Err()
}
