package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/trobanga/medboard/internal/lib"
	"github.com/trobanga/medboard/internal/models"
)

// HTTPClient wraps a resty client with the retry policy and logging used for
// every outbound call: transient failures (network, 408, 429, 5xx) are retried
// with exponential backoff, everything else is returned to the caller at once.
type HTTPClient struct {
	client      *resty.Client
	retryConfig lib.RetryConfig
	logger      *lib.Logger
}

// NewHTTPClient creates an HTTP client with timeout and retry configuration
func NewHTTPClient(timeout time.Duration, retryConfig models.RetryConfig, logger *lib.Logger) *HTTPClient {
	c := &HTTPClient{
		retryConfig: lib.NewRetryConfigFromModel(retryConfig),
		logger:      logger,
	}

	retries := c.retryConfig.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}

	c.client = resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(c.retryConfig.InitialBackoff()).
		SetRetryMaxWaitTime(c.retryConfig.MaxBackoff()).
		SetRetryAfter(c.retryAfter).
		AddRetryCondition(c.shouldRetry).
		AddRetryHook(c.logRetry).
		SetHeader("Accept", "application/json").
		OnAfterResponse(c.logResponse)

	return c
}

// Get performs an HTTP GET request with retry logic.
// Non-2xx responses are returned without error so callers can inspect them.
func (c *HTTPClient) Get(ctx context.Context, rawURL string) (*resty.Response, error) {
	if u, err := url.Parse(rawURL); err == nil {
		lib.LogServiceCall(c.logger, u.Host, u.Path, "GET")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		Get(rawURL)
	if err != nil {
		return resp, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	return resp, nil
}

// shouldRetry decides whether resty should run another attempt
func (c *HTTPClient) shouldRetry(resp *resty.Response, err error) bool {
	attempt := attemptOf(resp)

	if err != nil {
		return lib.IsNetworkError(err) && lib.ShouldRetry(lib.ErrorTypeTransient, attempt, c.retryConfig.MaxAttempts)
	}
	if resp == nil {
		return false
	}
	return lib.ShouldRetry(lib.ClassifyHTTPError(resp.StatusCode()), attempt, c.retryConfig.MaxAttempts)
}

// retryAfter applies the exponential backoff formula to the attempt that just failed
func (c *HTTPClient) retryAfter(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
	attempt := attemptOf(resp) - 1
	return lib.CalculateBackoff(attempt, c.retryConfig.InitialBackoffMs, c.retryConfig.MaxBackoffMs), nil
}

func (c *HTTPClient) logRetry(resp *resty.Response, err error) {
	target := ""
	if resp != nil && resp.Request != nil {
		target = resp.Request.URL
	}
	cause := err
	if cause == nil && resp != nil {
		cause = fmt.Errorf("HTTP %d: %s", resp.StatusCode(), resp.Status())
	}
	lib.LogRetry(c.logger, target, attemptOf(resp)-1, c.retryConfig.MaxAttempts, cause)
}

func (c *HTTPClient) logResponse(_ *resty.Client, resp *resty.Response) error {
	host := ""
	if resp.Request != nil && resp.Request.RawRequest != nil {
		host = resp.Request.RawRequest.URL.Host
	}
	lib.LogServiceResponse(c.logger, host, resp.StatusCode(), resp.Time())
	return nil
}

// attemptOf returns the 1-based number of the attempt that produced resp
func attemptOf(resp *resty.Response) int {
	if resp == nil || resp.Request == nil {
		return 0
	}
	return resp.Request.Attempt
}
