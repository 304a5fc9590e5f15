// Package summary generates human-facing purchase summaries through an
// external text-generation API. The resolver core never depends on it:
// callers attach the summary to an already-complete structured result and
// degrade gracefully when this service fails.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrEmptyResponse is returned when the API answers 200 with no usable text.
var ErrEmptyResponse = errors.New("text generation returned no content")

// Config holds the client configuration, injected at startup. The API key
// is never read from ambient globals.
type Config struct {
	BaseURL  string
	APIKey   string
	Model    string
	Language string
	Timeout  time.Duration
}

// Client calls a Gemini-style generateContent endpoint to turn structured
// purchase data into a short natural-language summary.
type Client struct {
	httpClient *http.Client
	cfg        Config
	limiter    *rate.Limiter
}

const (
	maxAttempts = 3
	// The free tier allows 15 requests per minute; stay at 10/min with a
	// small burst.
	requestsPerSecond = 10.0 / 60.0
)

// NewClient creates a summary client. Language defaults to Azerbaijani,
// matching the catalog's locale.
func NewClient(cfg Config) *Client {
	if cfg.Language == "" {
		cfg.Language = "Azerbaijani"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 3),
	}
}

// request/response bodies for the generateContent endpoint.

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Summarize renders data as JSON, asks the model for a short summary in
// the configured language, and returns the generated text. Transient
// failures are retried with backoff; the final error is returned so the
// caller can degrade to the structured result alone.
func (c *Client) Summarize(ctx context.Context, data any) (string, error) {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshal purchase data")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: c.prompt(payload)}}}},
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal request")
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)

	lg := zctx.From(ctx)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", errors.Wrap(err, "rate limiter")
		}

		text, err := c.doGenerate(ctx, url, body)
		if err == nil {
			return text, nil
		}
		lastErr = err

		lg.Warn("summary request failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if !retryable(err) || attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		}
	}

	return "", lastErr
}

// statusError marks an HTTP-level failure so retryable() can distinguish
// server faults from client mistakes.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("text generation API status %d: %s", e.code, e.body)
}

func (c *Client) doGenerate(ctx context.Context, url string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", &statusError{code: resp.StatusCode, body: string(respBody)}
	}

	var gen generateResponse
	if err := json.Unmarshal(respBody, &gen); err != nil {
		return "", errors.Wrap(err, "decode response")
	}
	if len(gen.Candidates) == 0 || len(gen.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	return gen.Candidates[0].Content.Parts[0].Text, nil
}

// retryable reports whether the failure is worth another attempt: network
// errors and 5xx/429 responses are, other HTTP statuses are not.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return true
}

func (c *Client) prompt(payload []byte) string {
	return fmt.Sprintf(`You are a helpful assistant that summarizes purchase information in a user-friendly way.

Here is the purchase data in JSON format:
%s

Please provide a concise, natural language summary of this purchase that includes:
1. What product was purchased
2. The price information (original price and any discounts)
3. Any offers or cashback applied
4. The final amount the user will pay or save

Keep the summary brief, friendly, and easy to understand. Use Azerbaijani currency (AZN) where applicable.
IMPORTANT: Your response must be entirely in %s language.`, payload, c.cfg.Language)
}
