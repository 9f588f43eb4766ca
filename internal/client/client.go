// Package client wraps the blog platform's REST gateway. Each resource gets a
// thin typed API; none of them hold state besides the HTTP client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"blogfront/internal/apperr"
	"blogfront/internal/config"
	"blogfront/internal/models"
)

// TokenSource yields the bearer token for the request carried by ctx. An
// empty token sends the call anonymously.
type TokenSource interface {
	Token(ctx context.Context) string
}

type TokenFunc func(ctx context.Context) string

func (f TokenFunc) Token(ctx context.Context) string { return f(ctx) }

type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
	cfg     config.API

	Users      *UserAPI
	Blogs      *BlogAPI
	Engagement *EngagementAPI
}

func New(cfg config.API, tokens TokenSource) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("API base URL must be absolute: %q", cfg.BaseURL)
	}
	if tokens == nil {
		tokens = TokenFunc(func(context.Context) string { return "" })
	}

	c := &Client{
		baseURL: base,
		http:    &http.Client{},
		tokens:  tokens,
		cfg:     cfg,
	}
	c.Users = &UserAPI{c: c}
	c.Blogs = &BlogAPI{c: c}
	c.Engagement = &EngagementAPI{c: c}
	return c, nil
}

type request struct {
	op      string
	method  string
	path    string
	query   url.Values
	body    any
	timeout time.Duration
}

type remoteError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	timeout := req.timeout
	if timeout == 0 {
		timeout = c.cfg.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var body io.Reader
	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", req.op, err)
		}
		body = bytes.NewReader(buf)
	}

	u := c.baseURL.JoinPath(req.path)
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", req.op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Printf("%s %s failed: %v", req.method, u.Path, err)
		return apperr.Wrap(apperr.Remote, req.op, err, "Could not reach the server. Please try again.")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Wrap(apperr.Remote, req.op, err, "Could not read the server response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e := statusError(req.op, resp.StatusCode, payload)
		log.Printf("%s %s -> %d: %s", req.method, u.Path, resp.StatusCode, e.Message)
		return e
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return apperr.Wrap(apperr.Remote, req.op, err, "Unexpected response from the server")
	}
	return nil
}

func statusError(op string, status int, payload []byte) *apperr.Error {
	var re remoteError
	_ = json.Unmarshal(payload, &re)
	msg := re.Message
	if msg == "" {
		msg = re.Error
	}

	kind := apperr.Remote
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = apperr.Auth
		if msg == "" {
			msg = "You are not allowed to do that. Please log in again."
		}
	case http.StatusNotFound:
		kind = apperr.NotFound
		if msg == "" {
			msg = "Not found"
		}
	default:
		if msg == "" {
			msg = fmt.Sprintf("Request failed (%d %s)", status, http.StatusText(status))
		}
	}

	return &apperr.Error{
		Kind:    kind,
		Op:      op,
		Message: msg,
		Status:  status,
		Err:     errors.New(http.StatusText(status)),
	}
}

// pageQuery applies the gateway's defaults: first page, ten items, newest
// first.
func pageQuery(p models.PageRequest, withSort bool) url.Values {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = 10
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("size", strconv.Itoa(p.Size))
	if withSort {
		if p.SortBy == "" {
			p.SortBy = "createdAt"
		}
		if p.SortDir == "" {
			p.SortDir = "desc"
		}
		q.Set("sortBy", p.SortBy)
		q.Set("sortDir", p.SortDir)
	}
	return q
}

func idPath(format string, ids ...int64) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}
