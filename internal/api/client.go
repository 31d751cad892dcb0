// Package api is the transport layer for the survey REST API.
//
// Every call goes through Client.Do, which normalizes HTTP outcomes into a
// uniform Response: 4xx/5xx statuses are not Go errors, they come back as
// Success=false with the server-supplied message. Only transport-level
// failures (network unreachable, malformed response body) produce an error,
// reported with Status 0.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/formlane/formlane/internal/errors"
	"github.com/formlane/formlane/internal/log"
)

// Prefix is prepended to every resource path.
const Prefix = "/api"

// Client issues JSON requests against the survey API.
type Client struct {
	origin string
	http   *http.Client
	jar    *Jar
	logger *log.Logger
}

// Request describes a single API call.
type Request struct {
	Method string
	Path   string // resource path under /api, e.g. "/surveys/a1b2c3"
	Query  url.Values
	Body   any

	// NoCredentials omits the session cookie (anonymous endpoints).
	NoCredentials bool
}

// Response is the uniform result shape for every API call.
type Response struct {
	Success bool
	Status  int
	Data    json.RawMessage
	Error   string
	Header  http.Header
}

// errorEnvelope is the body shape the API uses for failed requests.
type errorEnvelope struct {
	Error string `json:"error"`
}

// New creates a Client for the given origin. The cookie jar is loaded from
// jarPath so the server-issued session cookie survives between invocations;
// an empty jarPath keeps cookies in memory only.
func New(origin string, timeout time.Duration, jarPath string, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.DefaultLogger()
	}

	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	jar := NewJar(inner, jarPath)
	if err := jar.Load(origin); err != nil {
		// A corrupt jar means a fresh session, not a hard failure.
		logger.Warn("could not load session cookies", "path", jarPath, "error", err.Error())
	}

	return &Client{
		origin: strings.TrimRight(origin, "/"),
		http: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		jar:    jar,
		logger: logger,
	}, nil
}

// Origin returns the configured API origin.
func (c *Client) Origin() string {
	return c.origin
}

// Do performs the request and normalizes the outcome.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	fullURL := c.origin + Prefix + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetBadResponse, "marshal request body", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetBadResponse, "create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	// A shallow copy keeps the shared client untouched when the call is
	// anonymous; without a jar no session cookie is attached.
	hc := *c.http
	if req.NoCredentials {
		hc.Jar = nil
	}

	start := time.Now()
	httpResp, err := hc.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeNetTimeout, "request cancelled", err)
		}
		return nil, errors.NewNetUnreachableError(err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetBadResponse, "read response body", err)
	}

	c.logger.Debug("api call",
		"method", req.Method,
		"path", req.Path,
		"status", httpResp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds())

	if err := c.jar.Save(); err != nil {
		c.logger.Warn("could not persist session cookies", "error", err.Error())
	}

	if httpResp.StatusCode >= 400 {
		var envelope errorEnvelope
		// Any status >= 400 is a failure regardless of body shape.
		_ = json.Unmarshal(respBody, &envelope)
		return &Response{
			Success: false,
			Status:  httpResp.StatusCode,
			Error:   envelope.Error,
			Header:  httpResp.Header,
		}, nil
	}

	return &Response{
		Success: true,
		Status:  httpResp.StatusCode,
		Data:    respBody,
		Header:  httpResp.Header,
	}, nil
}

// Err converts a failed response into the fixed error taxonomy.
// It returns nil for successful responses.
func (r *Response) Err() error {
	if r.Success {
		return nil
	}
	return errors.NewAPIStatusError(r.Status, r.Error)
}

// Decode unmarshals the response data into v.
func (r *Response) Decode(v any) error {
	if err := r.Err(); err != nil {
		return err
	}
	if len(r.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return errors.Wrap(errors.ErrCodeNetBadResponse, "unmarshal response", err)
	}
	return nil
}
