package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/semi-dlc/flowt-bb/internal/metrics"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("completion API key not configured")

// StatusError is a non-2xx answer from the upstream. Body is for server logs only.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion upstream returned %d", e.Status)
}

// Completer produces one chat completion.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Client talks to an OpenAI-compatible chat-completions endpoint. No retries.
type Client struct {
	http   *resty.Client
	apiKey string
	log    zerolog.Logger
}

// NewClient creates a client for baseURL (e.g. https://api.openai.com/v1).
func NewClient(baseURL, apiKey string, timeout time.Duration, log zerolog.Logger) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}
	return &Client{http: c, apiKey: apiKey, log: log}
}

// Complete posts req and decodes the response. Non-2xx statuses
// come back as *StatusError with the raw body attached for logging.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	family := Family(req.Model)
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&req).
		Post("/chat/completions")
	if err != nil {
		metrics.ObserveUpstream(family, 0, time.Since(start))
		return nil, fmt.Errorf("completion request: %w", err)
	}
	metrics.ObserveUpstream(family, resp.StatusCode(), time.Since(start))

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		c.log.Error().
			Int("status", resp.StatusCode()).
			Str("model", req.Model).
			Str("body", string(resp.Body())).
			Msg("completion upstream error")
		return nil, &StatusError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}

	var out Response
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, errors.New("completion response has no choices")
	}
	return &out, nil
}

// HealthPing implements health.HealthPinger by listing models.
func (c *Client) HealthPing(ctx context.Context) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}
	resp, err := c.http.R().SetContext(ctx).Get("/models")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return &StatusError{Status: resp.StatusCode()}
	}
	return nil
}
