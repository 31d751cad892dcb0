package survey

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/formlane/formlane/internal/api"
)

// Client maps survey resource operations onto API endpoints. It carries no
// business logic; failures are whatever the transport reports.
type Client struct {
	api *api.Client
}

// NewClient creates a resource client on top of the transport wrapper.
func NewClient(transport *api.Client) *Client {
	return &Client{api: transport}
}

// Transport exposes the underlying API client.
func (c *Client) Transport() *api.Client {
	return c.api
}

// Create creates an empty draft survey and returns its hash.
func (c *Client) Create(ctx context.Context) (string, error) {
	resp, err := c.api.Do(ctx, api.Request{Method: http.MethodPost, Path: "/surveys"})
	if err != nil {
		return "", err
	}
	var out struct {
		Hash string `json:"hash"`
	}
	if err := resp.Decode(&out); err != nil {
		return "", err
	}
	return out.Hash, nil
}

// List returns the surveys the user created or can edit.
func (c *Client) List(ctx context.Context) ([]Summary, error) {
	resp, err := c.api.Do(ctx, api.Request{Method: http.MethodGet, Path: "/surveys"})
	if err != nil {
		return nil, err
	}
	var out struct {
		Surveys []Summary `json:"surveys"`
	}
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out.Surveys, nil
}

// Get fetches the full survey document by hash.
func (c *Client) Get(ctx context.Context, hash string) (*Survey, error) {
	resp, err := c.api.Do(ctx, api.Request{Method: http.MethodGet, Path: "/surveys/" + hash})
	if err != nil {
		return nil, err
	}
	var out struct {
		Survey Survey `json:"survey"`
	}
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	if out.Survey.Hash == "" {
		out.Survey.Hash = hash
	}
	return &out.Survey, nil
}

// UpdateTitle renames the survey.
func (c *Client) UpdateTitle(ctx context.Context, hash, title string) error {
	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodPatch,
		Path:   "/surveys/" + hash,
		Body:   map[string]string{"title": title},
	})
	if err != nil {
		return err
	}
	return resp.Err()
}

// Publish transitions the survey DRAFT -> ACTIVE.
func (c *Client) Publish(ctx context.Context, hash string) error {
	resp, err := c.api.Do(ctx, api.Request{Method: http.MethodPost, Path: "/surveys/" + hash + "/publish"})
	if err != nil {
		return err
	}
	return resp.Err()
}

// Restore transitions the survey ACTIVE -> DRAFT.
func (c *Client) Restore(ctx context.Context, hash string) error {
	resp, err := c.api.Do(ctx, api.Request{Method: http.MethodPut, Path: "/surveys/" + hash + "/restore"})
	if err != nil {
		return err
	}
	return resp.Err()
}

// Stats fetches the statistics snapshot of a survey.
func (c *Client) Stats(ctx context.Context, hash string) (*Stats, error) {
	resp, err := c.api.Do(ctx, api.Request{Method: http.MethodGet, Path: "/surveys/" + hash + "/stats"})
	if err != nil {
		return nil, err
	}
	var out Stats
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AccessList returns the emails granted edit access to the survey.
func (c *Client) AccessList(ctx context.Context, hash string) ([]string, error) {
	resp, err := c.api.Do(ctx, api.Request{Method: http.MethodGet, Path: "/surveys/" + hash + "/access"})
	if err != nil {
		return nil, err
	}
	var out struct {
		Emails []string `json:"emails"`
	}
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out.Emails, nil
}

// AccessGrant grants edit access to the given email.
func (c *Client) AccessGrant(ctx context.Context, hash, email string) error {
	q := url.Values{}
	q.Set("email", email)
	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/surveys/" + hash + "/access",
		Query:  q,
	})
	if err != nil {
		return err
	}
	return resp.Err()
}

// AccessRevoke removes edit access from the given email.
func (c *Client) AccessRevoke(ctx context.Context, hash, email string) error {
	q := url.Values{}
	q.Set("email", email)
	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodDelete,
		Path:   "/surveys/" + hash + "/access",
		Query:  q,
	})
	if err != nil {
		return err
	}
	return resp.Err()
}

func questionPath(hash string, questionID int) string {
	return fmt.Sprintf("/surveys/%s/question/%d", hash, questionID)
}

// CreateQuestion adds a question of the given type and returns the
// server's canonical version (id, order, defaults assigned server-side).
func (c *Client) CreateQuestion(ctx context.Context, hash string, t QuestionType) (*Question, error) {
	q := url.Values{}
	q.Set("type", string(t))
	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/surveys/" + hash + "/question",
		Query:  q,
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		Question Question `json:"question"`
	}
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out.Question, nil
}

// UpdateQuestionLabel changes only the label of a question.
func (c *Client) UpdateQuestionLabel(ctx context.Context, hash string, questionID int, label string) error {
	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodPatch,
		Path:   questionPath(hash, questionID),
		Body:   map[string]string{"label": label},
	})
	if err != nil {
		return err
	}
	return resp.Err()
}

// UpdateQuestionType changes the type of a question. The server discards
// answers already collected for it.
func (c *Client) UpdateQuestionType(ctx context.Context, hash string, questionID int, newType QuestionType) error {
	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodPatch,
		Path:   questionPath(hash, questionID) + "/type",
		Body:   map[string]QuestionType{"newType": newType},
	})
	if err != nil {
		return err
	}
	return resp.Err()
}

// UpdateQuestionOrder moves the question to a new position. The server
// renumbers siblings.
func (c *Client) UpdateQuestionOrder(ctx context.Context, hash string, questionID, newOrder int) error {
	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodPatch,
		Path:   questionPath(hash, questionID) + "/order",
		Body:   map[string]int{"newOrder": newOrder},
	})
	if err != nil {
		return err
	}
	return resp.Err()
}

// UpdateQuestionExtraParams replaces the validation constraints of a question.
func (c *Client) UpdateQuestionExtraParams(ctx context.Context, hash string, questionID int, params ExtraParams) error {
	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodPatch,
		Path:   questionPath(hash, questionID) + "/extra_params",
		Body:   params,
	})
	if err != nil {
		return err
	}
	return resp.Err()
}

// RestoreQuestion undoes a pending delete, returning the server's
// canonical version of the question.
func (c *Client) RestoreQuestion(ctx context.Context, hash string, questionID int) (*Question, error) {
	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodPut,
		Path:   questionPath(hash, questionID) + "/restore",
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		Question Question `json:"question"`
	}
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out.Question, nil
}

// DeleteQuestion removes a question from the survey.
func (c *Client) DeleteQuestion(ctx context.Context, hash string, questionID int) error {
	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodDelete,
		Path:   questionPath(hash, questionID),
	})
	if err != nil {
		return err
	}
	return resp.Err()
}

func optionPath(hash string, questionID, optionID int) string {
	return fmt.Sprintf("/surveys/%s/question/%d/option/%d", hash, questionID, optionID)
}

// CreateOption adds an option to a choice question and returns the
// server's canonical version.
func (c *Client) CreateOption(ctx context.Context, hash string, questionID int) (*Option, error) {
	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   questionPath(hash, questionID) + "/option",
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		Option Option `json:"option"`
	}
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out.Option, nil
}

// UpdateOptionLabel changes the label of an option.
func (c *Client) UpdateOptionLabel(ctx context.Context, hash string, questionID, optionID int, label string) error {
	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodPatch,
		Path:   optionPath(hash, questionID, optionID),
		Body:   map[string]string{"label": label},
	})
	if err != nil {
		return err
	}
	return resp.Err()
}

// UpdateOptionOrder moves an option to a new position.
func (c *Client) UpdateOptionOrder(ctx context.Context, hash string, questionID, optionID, newOrder int) error {
	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodPatch,
		Path:   optionPath(hash, questionID, optionID) + "/order",
		Body:   map[string]int{"new_order": newOrder},
	})
	if err != nil {
		return err
	}
	return resp.Err()
}

// DeleteOption removes an option from its question.
func (c *Client) DeleteOption(ctx context.Context, hash string, questionID, optionID int) error {
	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodDelete,
		Path:   optionPath(hash, questionID, optionID),
	})
	if err != nil {
		return err
	}
	return resp.Err()
}
