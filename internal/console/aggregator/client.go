package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"toolwatch/pkg/logger"
)

// Client fetches execution records from the platform API.
type Client interface {
	FetchExecutions(ctx context.Context, limit int) ([]Record, error)
}

// ClientConfig holds the settings for the platform API client.
type ClientConfig struct {
	BaseURL             string
	Timeout             time.Duration
	MaxRequestPerMinute int
}

type httpClient struct {
	baseURL        string
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewClient creates a rate-limited HTTP client for the platform API.
func NewClient(cfg ClientConfig, log *logger.Logger) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limit := rate.Inf
	if cfg.MaxRequestPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.MaxRequestPerMinute))
	}

	return &httpClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		log:     log,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		requestLimiter: rate.NewLimiter(limit, 1),
	}
}

// executionsResponse mirrors the API body. A body in any other shape
// decodes to zero records.
type executionsResponse struct {
	Executions []Record `json:"executions"`
}

func (c *httpClient) FetchExecutions(ctx context.Context, limit int) ([]Record, error) {
	url := fmt.Sprintf("%s/api/v1/executions?limit=%d", c.baseURL, limit)

	if err := c.requestLimiter.Wait(ctx); err != nil {
		c.log.ErrorContext(ctx, "Failed to wait for request limit", logger.StringField("url", url), logger.ErrorField(err))
		return nil, &FetchError{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "Failed to fetch executions", logger.StringField("url", url), logger.ErrorField(err))
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.log.ErrorContext(ctx, "Received non-OK response from platform API",
			logger.StringField("url", url),
			logger.IntField("status_code", resp.StatusCode),
		)
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	var decoded executionsResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		c.log.WarnContext(ctx, "Response body not in the expected shape, treating as empty",
			logger.StringField("url", url),
			logger.ErrorField(err),
		)
		return []Record{}, nil
	}

	c.log.DebugContext(ctx, "Fetched executions", logger.IntField("count", len(decoded.Executions)))

	return decoded.Executions, nil
}
