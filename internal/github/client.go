package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://api.github.com"

// RateLimitInfo holds the last-seen rate limit window reported by the API.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetTime time.Time
	// RetryAfter is the secondary ("abuse") limit deadline, zero when inactive.
	RetryAfter time.Time
	seen       bool
}

// Client issues authenticated requests to the GitHub API and suspends the
// calling flow while the rate limit quota resets. It is meant for a single
// sequential pipeline run and keeps no shared state beyond the last-seen
// rate limit window.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logrus.Logger
	rateLimit  RateLimitInfo
	maxRetries int
}

// ClientOption allows configuring the client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL, for GitHub Enterprise hosts and
// tests. An empty value keeps the default.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithMaxRetries overrides the suspend-and-retry budget for rate-limit responses.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// NewClient creates a client authenticated with the given token. An empty
// token yields an unauthenticated client with GitHub's restrictive anonymous
// quota, which is still usable for small public repositories.
func NewClient(token string, logger *logrus.Logger, opts ...ClientOption) *Client {
	httpClient := &http.Client{Timeout: 120 * time.Second}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = 120 * time.Second
	}

	client := &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		logger:     logger,
		maxRetries: 3,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Get fetches path with the given query parameters and unmarshals the JSON
// body into result. Rate-limit responses suspend the calling flow until the
// reported reset and are retried up to the retry budget; all other non-2xx
// responses fail immediately with an APIError.
func (c *Client) Get(ctx context.Context, path string, query url.Values, result interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := c.waitForQuota(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/vnd.github.v3+json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return NewAPIError(0, "request failed", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return NewAPIError(resp.StatusCode, "failed to read response body", err)
		}

		c.updateRateLimitInfo(resp)

		if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
			if result != nil {
				if err := json.Unmarshal(body, result); err != nil {
					return NewAPIError(resp.StatusCode, "failed to decode response", err)
				}
			}
			return nil
		}

		if !isRateLimitResponse(resp.StatusCode, body) {
			return NewAPIError(resp.StatusCode, string(body), nil)
		}

		deadline := c.resetDeadline()
		lastErr = NewRateLimitError(deadline, c.rateLimit.Limit, c.rateLimit.Remaining)
		if wait := time.Until(deadline); wait > 0 {
			c.logger.Warnf("Rate limit exceeded (attempt %d/%d). Waiting %v before retry", attempt+1, c.maxRetries, wait)
			if err := sleepCtx(ctx, wait); err != nil {
				return err
			}
		}
	}

	return lastErr
}

// waitForQuota suspends until the reported reset when the previous response
// left zero remaining quota.
func (c *Client) waitForQuota(ctx context.Context) error {
	if !c.rateLimit.seen || c.rateLimit.Remaining > 0 {
		return nil
	}
	if wait := time.Until(c.rateLimit.ResetTime); wait > 0 {
		c.logger.Warnf("Rate limit quota exhausted. Waiting %v for reset", wait)
		return sleepCtx(ctx, wait)
	}
	return nil
}

func (c *Client) updateRateLimitInfo(resp *http.Response) {
	if limit := resp.Header.Get("X-RateLimit-Limit"); limit != "" {
		c.rateLimit.Limit, _ = strconv.Atoi(limit)
	}
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		c.rateLimit.Remaining, _ = strconv.Atoi(remaining)
		c.rateLimit.seen = true
	}
	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if resetUnix, err := strconv.ParseInt(reset, 10, 64); err == nil {
			c.rateLimit.ResetTime = time.Unix(resetUnix, 0)
		}
	}
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.ParseInt(retryAfter, 10, 64); err == nil {
			c.rateLimit.RetryAfter = time.Now().Add(time.Duration(seconds) * time.Second)
		}
	} else {
		c.rateLimit.RetryAfter = time.Time{}
	}
}

// resetDeadline picks the later of the primary reset and the secondary
// Retry-After deadline.
func (c *Client) resetDeadline() time.Time {
	deadline := c.rateLimit.ResetTime
	if c.rateLimit.RetryAfter.After(deadline) {
		deadline = c.rateLimit.RetryAfter
	}
	return deadline
}

// isRateLimitResponse recognizes both the primary quota signal (429, or 403
// with a rate-limit message) and GitHub's secondary abuse-detection signal.
func isRateLimitResponse(statusCode int, body []byte) bool {
	if statusCode == http.StatusTooManyRequests {
		return true
	}
	if statusCode != http.StatusForbidden {
		return false
	}
	text := strings.ToLower(string(body))
	return strings.Contains(text, "rate limit") || strings.Contains(text, "abuse")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
