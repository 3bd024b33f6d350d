package ragclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xhad/ragask/internal/models"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	submitPath = "/api/async-queries/submit"
	statusPath = "/api/async-queries/status/"
	healthPath = "/api/health"
	statsPath  = "/api/stats"
	queryPath  = "/api/queries"
)

// ClientConfig represents the configuration for a RAG service client.
type ClientConfig struct {
	BaseURL        string
	SubmitTimeout  time.Duration
	StatusTimeout  time.Duration
	RequestTimeout time.Duration // health, stats and recent queries
	DirectTimeout  time.Duration
	PollInterval   time.Duration
	MaxWait        time.Duration
	RateLimit      float64 // requests per second across all endpoints
	HTTPClient     *http.Client
	Logger         *zap.Logger
	OnSubmit       func(queryID string)
	OnProgress     func(result *models.QueryResult) // called for every non-terminal snapshot
}

// Client submits questions to a remote RAG service and polls for their answers.
type Client struct {
	config  ClientConfig
	client  *http.Client
	logger  *zap.Logger
	limiter *rate.Limiter
	baseURL string
}

// NewWithConfig creates a new Client with the given configuration.
func NewWithConfig(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:5000"
	}
	if config.SubmitTimeout == 0 {
		config.SubmitTimeout = 30 * time.Second
	}
	if config.StatusTimeout == 0 {
		config.StatusTimeout = 10 * time.Second
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 10 * time.Second
	}
	if config.DirectTimeout == 0 {
		config.DirectTimeout = 120 * time.Second
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 3 * time.Second
	}
	if config.MaxWait <= 0 {
		config.MaxWait = 300 * time.Second
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 5
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{}
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	parsedURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", config.BaseURL)
	}

	return &Client{
		config:  config,
		client:  config.HTTPClient,
		logger:  config.Logger,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
		baseURL: strings.TrimRight(config.BaseURL, "/"),
	}, nil
}

// New creates a Client with default settings. An unusable baseURL falls back
// to http://localhost:5000; use NewWithConfig to get the error instead.
func New(baseURL string) *Client {
	c, err := NewWithConfig(ClientConfig{
		BaseURL: baseURL,
	})
	if err != nil {
		c, _ = NewWithConfig(ClientConfig{})
	}
	return c
}

// Submit sends the question for asynchronous processing and returns its query ID.
func (c *Client) Submit(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}

	var handle models.QueryHandle
	err := c.do(ctx, "submit", http.MethodPost, submitPath, c.config.SubmitTimeout,
		models.Query{Question: question}, &handle)
	if err != nil {
		return "", err
	}
	if handle.QueryID == "" {
		return "", fmt.Errorf("submit: %w", ErrMissingQueryID)
	}

	c.logger.Debug("query submitted", zap.String("query_id", handle.QueryID))
	return handle.QueryID, nil
}

// CheckStatus fetches the current snapshot of a query. A snapshot whose
// status is "error" is returned as a *DomainError.
func (c *Client) CheckStatus(ctx context.Context, queryID string) (*models.QueryResult, error) {
	var result models.QueryResult
	err := c.do(ctx, "status", http.MethodGet, statusPath+url.PathEscape(queryID), c.config.StatusTimeout, nil, &result)
	if err != nil {
		return nil, err
	}

	if result.Status == models.StatusError {
		return nil, newDomainError(queryID, &result)
	}

	return &result, nil
}

// WaitForResult polls the query at a fixed interval until it completes, the
// server reports an error, or maxWait elapses. A maxWait of zero uses the
// configured default.
func (c *Client) WaitForResult(ctx context.Context, queryID string, maxWait time.Duration) (*models.QueryResult, error) {
	if maxWait <= 0 {
		maxWait = c.config.MaxWait
	}

	start := time.Now()
	waitCtx, cancel := context.WithTimeout(ctx, maxWait)
	defer cancel()

	timedOut := func(polls int) error {
		waited := time.Since(start)
		c.logger.Debug("query timed out",
			zap.String("query_id", queryID),
			zap.Int("polls", polls),
			zap.Duration("waited", waited))
		return &TimeoutError{QueryID: queryID, Waited: waited}
	}

	for polls := 1; ; polls++ {
		result, err := c.CheckStatus(waitCtx, queryID)
		if err != nil {
			if ctx.Err() == nil && waitCtx.Err() != nil {
				return nil, timedOut(polls)
			}
			return nil, err
		}

		c.logger.Debug("polled query status",
			zap.String("query_id", queryID),
			zap.String("status", string(result.Status)),
			zap.String("progress", result.Progress))

		if result.Status == models.StatusCompleted {
			return result, nil
		}

		if c.config.OnProgress != nil {
			c.config.OnProgress(result)
		}

		// The interval runs from the end of each status response.
		timer := time.NewTimer(c.config.PollInterval)
		select {
		case <-timer.C:
		case <-waitCtx.Done():
			timer.Stop()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, timedOut(polls)
		}
	}
}

// Ask submits the question and waits for its answer.
func (c *Client) Ask(ctx context.Context, question string, maxWait time.Duration) (*models.QueryResult, error) {
	queryID, err := c.Submit(ctx, question)
	if err != nil {
		return nil, err
	}

	if c.config.OnSubmit != nil {
		c.config.OnSubmit(queryID)
	}

	return c.WaitForResult(ctx, queryID, maxWait)
}

// Query runs the question through the synchronous endpoint with a long timeout.
func (c *Client) Query(ctx context.Context, question string) (*models.QueryResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	var result models.QueryResult
	err := c.do(ctx, "query", http.MethodPost, queryPath, c.config.DirectTimeout,
		models.Query{Question: question}, &result)
	if err != nil {
		return nil, err
	}
	if result.Status == models.StatusError {
		return nil, newDomainError(result.ID, &result)
	}

	return &result, nil
}

// Health succeeds when the server answers its health endpoint with a 2xx.
func (c *Client) Health(ctx context.Context) (*models.Health, error) {
	data, err := c.send(ctx, "health", http.MethodGet, healthPath, c.config.RequestTimeout, nil)
	if err != nil {
		return nil, err
	}

	health := &models.Health{Status: "ok"}
	// The body is informational only.
	_ = json.Unmarshal(data, health)
	return health, nil
}

func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	if err := c.do(ctx, "stats", http.MethodGet, statsPath, c.config.RequestTimeout, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecentQueries lists the most recent queries known to the server, newest first.
func (c *Client) RecentQueries(ctx context.Context, limit int) ([]models.QueryResult, error) {
	if limit <= 0 {
		limit = 10
	}

	var queries []models.QueryResult
	path := queryPath + "?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, "recent queries", http.MethodGet, path, c.config.RequestTimeout, nil, &queries); err != nil {
		return nil, err
	}
	return queries, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, timeout time.Duration, in, out interface{}) error {
	data, err := c.send(ctx, op, method, path, timeout, in)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, op, method, path string, timeout time.Duration, in interface{}) ([]byte, error) {
	endpoint := c.baseURL + path
	if err := c.throttle(ctx); err != nil {
		return nil, &NetworkError{Op: op, URL: endpoint, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", op, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("sending request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("url", endpoint),
		zap.String("request_id", requestID))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, URL: endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("request failed",
			zap.String("op", op),
			zap.Int("status_code", resp.StatusCode),
			zap.String("request_id", requestID))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	return data, nil
}

// throttle blocks until the client-wide limiter admits one more request.
func (c *Client) throttle(ctx context.Context) error {
	r := c.limiter.Reserve()
	delay := r.Delay()
	if delay == 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}
