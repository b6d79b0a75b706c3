// Package client is a typed HTTP client for the dev log API. Every call
// returns a Result; transport failures, non-2xx replies and decode errors all
// end up in Result.Err.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"devfolio/internal/domain"
	"devfolio/internal/wire"
)

const DefaultTimeout = 15 * time.Second

// Result is the uniform outcome of a client call. Data is the zero value
// whenever Err is set.
type Result[T any] struct {
	Data T
	Err  error
}

func (r Result[T]) OK() bool { return r.Err == nil }

// APIError is a non-2xx reply.
type APIError struct {
	Status  int
	Message string
	Fields  []domain.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
	logger  logrus.FieldLogger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithToken sends an admin bearer token with every request.
func WithToken(token string) Option { return func(c *Client) { c.token = token } }

func WithLogger(logger logrus.FieldLogger) Option { return func(c *Client) { c.logger = logger } }

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) CreateDevLog(ctx context.Context, in domain.DevLogInput) Result[*domain.DevLog] {
	body := wire.DevLogCreate{
		Title:    in.Title,
		Content:  in.Content,
		Category: in.Category,
		Tags:     in.Tags,
		ImageURL: in.ImageURL,
	}
	return one(c.call(ctx, "create dev log", http.MethodPost, "/api/dev-logs", nil, body))
}

func (c *Client) ListDevLogs(ctx context.Context) Result[[]domain.DevLog] {
	return many(c.call(ctx, "fetch dev logs", http.MethodGet, "/api/dev-logs", nil, nil))
}

func (c *Client) DevLogsByCategory(ctx context.Context, category string) Result[[]domain.DevLog] {
	q := url.Values{"category": {category}}
	return many(c.call(ctx, "fetch dev logs by category", http.MethodGet, "/api/dev-logs", q, nil))
}

func (c *Client) SearchDevLogsByTags(ctx context.Context, tags []string) Result[[]domain.DevLog] {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return Result[[]domain.DevLog]{Err: fmt.Errorf("encode tags: %w", err)}
	}
	q := url.Values{"tags": {string(raw)}}
	return many(c.call(ctx, "search dev logs by tags", http.MethodGet, "/api/dev-logs", q, nil))
}

func (c *Client) SearchDevLogsByText(ctx context.Context, text string) Result[[]domain.DevLog] {
	q := url.Values{"search": {text}}
	return many(c.call(ctx, "search dev logs by text", http.MethodGet, "/api/dev-logs", q, nil))
}

func (c *Client) GetDevLog(ctx context.Context, id string) Result[*domain.DevLog] {
	return one(c.call(ctx, "fetch dev log", http.MethodGet, "/api/dev-logs/"+url.PathEscape(id), nil, nil))
}

func (c *Client) UpdateDevLog(ctx context.Context, id string, patch domain.DevLogPatch) Result[*domain.DevLog] {
	return one(c.call(ctx, "update dev log", http.MethodPut, "/api/dev-logs/"+url.PathEscape(id), nil, wire.DevLogUpdate(patch)))
}

func (c *Client) DeleteDevLog(ctx context.Context, id string) Result[struct{}] {
	_, err := c.call(ctx, "delete dev log", http.MethodDelete, "/api/dev-logs/"+url.PathEscape(id), nil, nil)
	return Result[struct{}]{Err: err}
}

// IncrementViews bumps the view counter and returns the new count.
func (c *Client) IncrementViews(ctx context.Context, id string) Result[int64] {
	raw, err := c.call(ctx, "increment views", http.MethodPost, "/api/dev-logs/"+url.PathEscape(id)+"/views", nil, nil)
	if err != nil {
		return Result[int64]{Err: err}
	}
	var msg wire.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Result[int64]{Err: fmt.Errorf("increment views: decode response: %w", err)}
	}
	if msg.Views == nil {
		return Result[int64]{}
	}
	return Result[int64]{Data: *msg.Views}
}

func one(raw []byte, err error) Result[*domain.DevLog] {
	if err != nil {
		return Result[*domain.DevLog]{Err: err}
	}
	var w wire.DevLog
	if err := json.Unmarshal(raw, &w); err != nil {
		return Result[*domain.DevLog]{Err: fmt.Errorf("decode dev log: %w", err)}
	}
	post := w.Domain()
	return Result[*domain.DevLog]{Data: &post}
}

func many(raw []byte, err error) Result[[]domain.DevLog] {
	if err != nil {
		return Result[[]domain.DevLog]{Err: err}
	}
	var ws []wire.DevLog
	if err := json.Unmarshal(raw, &ws); err != nil {
		return Result[[]domain.DevLog]{Err: fmt.Errorf("decode dev logs: %w", err)}
	}
	posts := make([]domain.DevLog, len(ws))
	for i := range ws {
		posts[i] = ws[i].Domain()
	}
	return Result[[]domain.DevLog]{Data: posts}
}

// call performs one request and returns the raw 2xx body.
func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, body any) (raw []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			raw, err = nil, fmt.Errorf("%s: %v", op, r)
		}
		if err != nil {
			c.logger.WithError(err).WithField("op", op).Warn("dev log api call failed")
		}
	}()

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: "Failed to " + op}
		var eb wire.ErrorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Message != "" {
			apiErr.Message = eb.Message
			apiErr.Fields = eb.Errors
		}
		return nil, apiErr
	}
	return raw, nil
}
