package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/naumanrao/courseadmin/internal/config"
)

// HTTPDoer matches the subset of http.Client used by Client.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// TokenSource supplies the bearer token for authenticated calls. It returns
// ErrAuthenticationMissing when nobody is logged in.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed TokenSource. The empty token means logged out.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", ErrAuthenticationMissing
	}
	return string(t), nil
}

// Client talks to the course platform's admin REST API.
type Client struct {
	base     *url.URL
	http     HTTPDoer
	tokens   TokenSource
	observer Observer
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport, typically with an httptest client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) { c.http = doer }
}

// NewClient builds a Client against cfg.APIBaseURL.
func NewClient(cfg config.Config, tokens TokenSource, observer Observer, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return nil, errors.New("api: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.APIBaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("api: parse base URL: %w", err)
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	c := &Client{
		base:     base,
		http:     &http.Client{Timeout: cfg.HTTPTimeout()},
		tokens:   tokens,
		observer: observer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// request describes one call. A nil body sends no payload.
type request struct {
	op          string
	method      string
	endpoint    string
	query       url.Values
	body        io.Reader
	contentType string
	anonymous   bool
}

func jsonBody(payload any) (io.Reader, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return &buf, nil
}

// do sends r and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	var token string
	if !r.anonymous {
		t, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		token = t
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.resolve(r.endpoint, r.query), r.body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", r.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if r.body != nil {
		ct := r.contentType
		if ct == "" {
			ct = "application/json"
		}
		req.Header.Set("Content-Type", ct)
	}

	start := time.Now()
	event := CallEvent{Method: r.method, Path: req.URL.Path}
	finish := func(status int, err error) error {
		event.Status = status
		event.LatencyMs = time.Since(start).Milliseconds()
		event.Success = err == nil
		if err != nil {
			event.ErrorCode = Classify(err).String()
		}
		c.observer.OnCallComplete(event)
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return finish(0, &NetworkError{Op: r.op, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return finish(resp.StatusCode, errorFromResponse(r.op, resp))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return finish(resp.StatusCode, &NetworkError{Op: r.op, Err: fmt.Errorf("decode response: %w", err)})
		}
	}
	return finish(resp.StatusCode, nil)
}

func (c *Client) resolve(endpoint string, query url.Values) string {
	ref := &url.URL{Path: strings.TrimPrefix(endpoint, "/")}
	u := c.base.ResolveReference(ref)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func errorFromResponse(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err == nil {
			msg := strings.TrimSpace(payload.Message)
			if msg == "" {
				msg = strings.TrimSpace(payload.Error)
			}
			if msg != "" {
				return &ServerRejection{Op: op, Status: resp.StatusCode, Message: msg}
			}
		}
	}
	return &NetworkError{Op: op, Status: resp.StatusCode}
}

func coursePath(courseID string, rest ...string) string {
	parts := append([]string{"admin/api/courses", courseID}, rest...)
	return strings.Join(parts, "/")
}
