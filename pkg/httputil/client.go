package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/julienv/daygate/pkg/logger"
)

// DefaultTimeout bounds an upstream call when no explicit timeout is set.
const DefaultTimeout = 10 * time.Second

// UpstreamError reports a provider response that cannot be used: a non-2xx
// status, or a 2xx body that does not match the expected shape.
type UpstreamError struct {
	Source     string
	StatusCode int
	Reason     string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Source, e.Reason, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Source, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewShapeError wraps a decode failure on a 2xx response.
func NewShapeError(source string, statusCode int, err error) *UpstreamError {
	return &UpstreamError{
		Source:     source,
		StatusCode: statusCode,
		Reason:     "unexpected shape",
		Err:        err,
	}
}

// TimeoutError reports a provider that exceeded its allotted time.
type TimeoutError struct {
	Source  string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timed out after %s", e.Source, e.Timeout)
}

// Client is an HTTP client wrapper with per-call timeouts, JSON decoding
// and optional outbound rate limiting. Failed calls are not retried; the
// first outcome is what the caller sees.
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	limiter    *rate.Limiter
	timeout    time.Duration
}

// New creates a new HTTP client with the default timeout.
func New(log *logger.Logger) *Client {
	return NewWithTimeout(log, DefaultTimeout)
}

// NewWithTimeout creates a client with a custom per-call timeout.
func NewWithTimeout(log *logger.Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		// The transport-level timeout stays above the per-call context
		// deadline so cancellation is always attributed to the deadline.
		httpClient: &http.Client{Timeout: timeout + time.Second},
		logger:     log,
		timeout:    timeout,
	}
}

// WithRateLimit caps outbound requests at rps per second.
func (c *Client) WithRateLimit(rps int) *Client {
	if rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), rps)
	}
	return c
}

// Timeout returns the per-call timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// GetJSON issues a GET request for url and decodes the 2xx response body
// into dest. The call is bounded by the client timeout; the deadline timer
// is released on every exit path. source names the provider in errors.
func (c *Client) GetJSON(ctx context.Context, source, url string, dest interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return c.classify(source, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request for %s: %w", source, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"source":   source,
			"url":      url,
			"duration": time.Since(start),
			"error":    err.Error(),
		}).Error("Upstream request failed")
		return c.classify(source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.logger.WithFields(map[string]interface{}{
			"source":      source,
			"url":         url,
			"status_code": resp.StatusCode,
		}).Warn("Upstream returned non-2xx status")
		return &UpstreamError{Source: source, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return NewShapeError(source, resp.StatusCode, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"source":      source,
		"url":         url,
		"status_code": resp.StatusCode,
		"duration":    time.Since(start),
	}).Debug("Upstream request completed")

	return nil
}

// classify maps transport errors onto the error taxonomy.
func (c *Client) classify(source string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Source: source, Timeout: c.timeout}
	}
	return fmt.Errorf("%s: %w", source, err)
}

// IsUpstreamError reports whether err is an UpstreamError.
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// IsTimeoutError reports whether err is a TimeoutError.
func IsTimeoutError(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
