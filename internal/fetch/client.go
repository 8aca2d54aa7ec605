// Package fetch downloads datasets over HTTP and scrapes the pages that link to them.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultUserAgent is sent on every request. Our World in Data rejects requests
// without a User-Agent.
const DefaultUserAgent = "Our World In Data data fetch/1.0"

// Options configures a Client. Zero values select defaults.
type Options struct {
	Timeout   time.Duration
	RetryMax  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	UserAgent string
	Logger    *zap.Logger
	// MaxBytes bounds a response body; 0 means 64 MiB.
	MaxBytes int64
}

// Client is an HTTP getter with retry and backoff.
type Client struct {
	httpClient       *http.Client
	userAgent        string
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	maxBytes         int64
	log              *zap.Logger
}

// NewClient returns a client with default timeouts and retry strategy applied
// to zero fields of opt.
func NewClient(opt Options) *Client {
	if opt.Timeout <= 0 {
		opt.Timeout = 60 * time.Second
	}
	if opt.RetryMax <= 0 {
		opt.RetryMax = 3
	}
	if opt.BaseDelay <= 0 {
		opt.BaseDelay = 500 * time.Millisecond
	}
	if opt.MaxDelay <= 0 {
		opt.MaxDelay = 4 * time.Second
	}
	if opt.UserAgent == "" {
		opt.UserAgent = DefaultUserAgent
	}
	if opt.MaxBytes <= 0 {
		opt.MaxBytes = 64 << 20
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	return &Client{
		httpClient:       &http.Client{Timeout: opt.Timeout},
		userAgent:        opt.UserAgent,
		retryMaxAttempts: opt.RetryMax,
		retryBaseDelay:   opt.BaseDelay,
		retryMaxDelay:    opt.MaxDelay,
		maxBytes:         opt.MaxBytes,
		log:              opt.Logger,
	}
}

// Get downloads url and returns the body. 429, 5xx and network timeouts are
// retried with exponential backoff; a Retry-After header overrides the backoff.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	backoff := c.retryBaseDelay
	var lastErr error
	for attempt := 1; attempt <= c.retryMaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		body, wait, err := c.do(ctx, url)
		if err == nil {
			c.log.Debug("fetched", zap.String("url", url), zap.Int("bytes", len(body)), zap.Int("attempt", attempt))
			return body, nil
		}
		lastErr = err
		if wait < 0 || attempt == c.retryMaxAttempts {
			break
		}
		if wait == 0 {
			wait = withJitter(backoff)
			if c.retryMaxDelay > 0 && wait > c.retryMaxDelay {
				wait = c.retryMaxDelay
			}
			backoff *= 2
		}
		c.log.Warn("fetch retry", zap.String("url", url), zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(err))
		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// do performs one request. wait is -1 for non-retryable failures, 0 to use the
// backoff, or the server-requested delay.
func (c *Client) do(ctx context.Context, url string) (body []byte, wait time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, -1, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isRetryableNetErr(err) && ctx.Err() == nil {
			return nil, 0, fmt.Errorf("http request: %w", err)
		}
		return nil, -1, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		herr := &HTTPError{URL: url, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
		return nil, retryWait(resp), classify(herr, resp)
	}
	body, err = io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, 0, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, -1, fmt.Errorf("response from %s exceeds %d bytes", url, c.maxBytes)
	}
	return body, 0, nil
}

func retryWait(resp *http.Response) time.Duration {
	sc := resp.StatusCode
	if sc != http.StatusTooManyRequests && (sc < 500 || sc > 599) {
		return -1
	}
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if secs, err := parseRetryAfterSeconds(ra); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}

// classify maps a generic HTTPError to a typed error.
func classify(herr *HTTPError, resp *http.Response) error {
	sc := herr.StatusCode
	switch {
	case sc == http.StatusNotFound || sc == http.StatusGone:
		return &NotFoundError{HTTPError: herr}
	case sc == http.StatusTooManyRequests:
		var ra time.Duration
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := parseRetryAfterSeconds(v); err == nil && secs > 0 {
				ra = time.Duration(secs) * time.Second
			}
		}
		return &RateLimitError{HTTPError: herr, RetryAfter: ra}
	case sc >= 500 && sc <= 599:
		return &ServerError{HTTPError: herr}
	}
	return herr
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// parseRetryAfterSeconds interprets a Retry-After value as seconds or an HTTP date.
func parseRetryAfterSeconds(v string) (int, error) {
	if s, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		return s, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return int(d.Seconds()), nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}

// withJitter returns d with +/- 20% jitter applied.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 500 * time.Millisecond
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if out <= 0 {
		return d
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
