// Package clover talks to the Clover POS REST API: employees (groomers),
// inventory items used as grooming services, shifts and orders.
package clover

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"groompro-backend/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultRetryDelay = 500 * time.Millisecond
)

var ErrNotConfigured = errors.New("clover: api token or merchant id not configured")

type Config struct {
	APIBase    string
	APIToken   string
	MerchantID string
	CacheTTL   time.Duration
	RetryCount int
	RetryDelay time.Duration
	// RateLimit is requests per second; zero disables limiting.
	RateLimit float64
	Timeout   time.Duration

	Cache      utils.Cache
	Calls      *prometheus.CounterVec
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	token      string
	cache      utils.Cache
	cacheTTL   time.Duration
	retries    int
	retryDelay time.Duration
	limiter    *rate.Limiter
	calls      *prometheus.CounterVec
	httpClient *http.Client
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	delay := cfg.RetryDelay
	if delay < 0 {
		delay = defaultRetryDelay
	}
	retries := cfg.RetryCount
	if retries < 0 {
		retries = 0
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.APIBase, "/") + "/v3/merchants/" + url.PathEscape(cfg.MerchantID),
		token:      cfg.APIToken,
		cache:      cfg.Cache,
		cacheTTL:   cfg.CacheTTL,
		retries:    retries,
		retryDelay: delay,
		calls:      cfg.Calls,
		httpClient: httpClient,
	}
	if cfg.APIToken == "" || cfg.MerchantID == "" {
		c.token = ""
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), int(cfg.RateLimit)+1)
	}
	return c
}

// Enabled reports whether the client has credentials.
func (c *Client) Enabled() bool {
	return c != nil && c.token != ""
}

// APIError is a non-2xx Clover response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("clover: status=%d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports a 404 from Clover.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// get performs a GET, retrying transport errors, 429 and 5xx responses.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		raw, status, err := c.do(ctx, http.MethodGet, path, query, nil)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if ctx.Err() != nil || errors.Is(err, ErrNotConfigured) || (status != 0 && !retryable(status)) {
			break
		}
		logrus.WithFields(logrus.Fields{
			"path":    path,
			"attempt": attempt + 1,
			"error":   err.Error(),
		}).Warn("Clover GET failed, retrying")
	}
	return nil, lastErr
}

// send performs a mutation. Mutations are never retried.
func (c *Client) send(ctx context.Context, method, path string, in any) ([]byte, error) {
	raw, _, err := c.do(ctx, method, path, nil, in)
	return raw, err
}

// cachedGet serves path from the cache when possible and stores fresh payloads.
func (c *Client) cachedGet(ctx context.Context, key, path string, query url.Values) ([]byte, error) {
	if c.cache != nil {
		var cached json.RawMessage
		if ok, err := c.cache.Get(ctx, key, &cached); err == nil && ok {
			return cached, nil
		} else if err != nil {
			logrus.WithError(err).WithField("key", key).Debug("Clover cache read failed")
		}
	}

	raw, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, key, json.RawMessage(raw), c.cacheTTL); err != nil {
			logrus.WithError(err).WithField("key", key).Debug("Clover cache write failed")
		}
	}
	return raw, nil
}

func (c *Client) invalidate(ctx context.Context, key string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Delete(ctx, key); err != nil {
		logrus.WithError(err).WithField("key", key).Debug("Clover cache delete failed")
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in any) ([]byte, int, error) {
	if !c.Enabled() {
		return nil, 0, ErrNotConfigured
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, fmt.Errorf("clover: rate limit: %w", err)
		}
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, 0, fmt.Errorf("clover: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
	}

	full := c.baseURL + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, full, body)
	if err != nil {
		return nil, 0, fmt.Errorf("clover: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, "error")
		return nil, 0, fmt.Errorf("clover: do request: %w", err)
	}
	defer resp.Body.Close()
	c.observe(method, strconv.Itoa(resp.StatusCode))

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	return raw, resp.StatusCode, nil
}

func (c *Client) observe(method, status string) {
	if c.calls == nil {
		return
	}
	c.calls.WithLabelValues(method, status).Inc()
}
