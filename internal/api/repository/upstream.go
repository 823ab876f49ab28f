package repository

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"equity-insights/pkg/apperrors"
	"equity-insights/pkg/logger"
	"equity-insights/pkg/respcache"

	"golang.org/x/time/rate"
)

const (
	defaultMaxRetries = 3
	retryBackoffBase  = 500 * time.Millisecond
	retryBackoffCap   = 5 * time.Second
	retryJitterMax    = 250 * time.Millisecond
)

// upstreamClient issues outbound calls to one provider, consulting a
// shared response cache and retrying transient failures with bounded
// exponential backoff. The credential is appended as a query parameter
// and never becomes part of a cache key or a log line.
type upstreamClient struct {
	name        string
	baseURL     string
	apiKey      string
	secretParam string
	httpClient  *http.Client
	limiter     *rate.Limiter
	cache       *respcache.Cache
	log         *logger.Logger
	maxRetries  int
	backoffBase time.Duration
}

func newUpstreamClient(name, baseURL, apiKey, secretParam string, maxRequestPerMinute, maxRetries int, cache *respcache.Cache, log *logger.Logger) *upstreamClient {
	if maxRequestPerMinute <= 0 {
		maxRequestPerMinute = 60
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	secondsPerRequest := time.Minute / time.Duration(maxRequestPerMinute)
	return &upstreamClient{
		name:        name,
		baseURL:     baseURL,
		apiKey:      apiKey,
		secretParam: secretParam,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter:     rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		cache:       cache,
		log:         log,
		maxRetries:  maxRetries,
		backoffBase: retryBackoffBase,
	}
}

// transientError marks a retryable upstream failure.
type transientError struct {
	statusCode int
	err        error
}

func (e *transientError) Error() string {
	return e.err.Error()
}

func (e *transientError) Unwrap() error {
	return e.err
}

// getJSON fetches path with params and returns the raw response body.
// Successful responses are cached for ttl; failures are never cached.
// A cache hit returns immediately without touching the network or the
// request limiter.
func (c *upstreamClient) getJSON(ctx context.Context, path string, params url.Values, timeout, ttl time.Duration) ([]byte, error) {
	if c.apiKey == "" {
		return nil, apperrors.Newf(apperrors.KindNotConfigured, "%s API key is not configured", c.name)
	}

	key := respcache.Key(path, params, c.secretParam)
	if cached, ok := c.cache.Get(key); ok {
		if body, ok := cached.([]byte); ok {
			return body, nil
		}
	}

	query := url.Values{}
	for name, values := range params {
		query[name] = values
	}
	query.Set(c.secretParam, c.apiKey)
	fullURL := c.baseURL + path + "?" + query.Encode()

	var lastErr *transientError
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, apperrors.Wrap(apperrors.KindUnavailable, "request limiter interrupted", err)
		}

		body, err := c.doOnce(ctx, fullURL, timeout)
		if err == nil {
			c.cache.Set(key, body, ttl)
			return body, nil
		}

		var transient *transientError
		if !errors.As(err, &transient) {
			return nil, err
		}
		lastErr = transient

		// No sleep after the final attempt.
		if attempt >= c.maxRetries-1 {
			break
		}

		sleep := c.backoffDelay(attempt)
		c.log.WarnContext(ctx, "Upstream call retrying",
			logger.StringField("provider", c.name),
			logger.StringField("path", path),
			logger.IntField("attempt", attempt+1),
			logger.Field("sleep", sleep),
			logger.ErrorField(transient.err),
		)
		select {
		case <-ctx.Done():
			return nil, apperrors.Wrap(apperrors.KindUnavailable, "request canceled", ctx.Err())
		case <-time.After(sleep):
		}
	}

	return nil, c.exhausted(path, lastErr)
}

// backoffDelay returns the sleep before the next attempt: exponential
// in the attempt number plus jitter, clamped to retryBackoffCap. The
// shift is bounded so a large configured retry count cannot overflow
// into a zero or negative duration.
func (c *upstreamClient) backoffDelay(attempt int) time.Duration {
	shift := attempt
	if shift > 20 {
		shift = 20
	}
	backoff := c.backoffBase << shift
	if backoff <= 0 || backoff > retryBackoffCap {
		backoff = retryBackoffCap
	}
	sleep := backoff + time.Duration(rand.Int63n(int64(retryJitterMax)))
	if sleep > retryBackoffCap {
		sleep = retryBackoffCap
	}
	return sleep
}

// doOnce performs a single request attempt. Transient failures (429,
// 5xx, transport and timeout errors) come back as *transientError;
// everything else is terminal.
func (c *upstreamClient) doOnce(ctx context.Context, fullURL string, timeout time.Duration) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnavailable, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transientError{err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transientError{err: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &transientError{
			statusCode: resp.StatusCode,
			err:        apperrors.Newf(apperrors.KindUnavailable, "%s returned status %d", c.name, resp.StatusCode),
		}
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.Newf(apperrors.KindNotFound, "%s resource not found", c.name)
	default:
		return nil, apperrors.Newf(apperrors.KindUnavailable, "%s returned status %d", c.name, resp.StatusCode)
	}
}

// exhausted maps the last transient failure to the error surfaced to
// callers once all attempts are spent.
func (c *upstreamClient) exhausted(path string, last *transientError) error {
	if last == nil {
		return apperrors.Newf(apperrors.KindUnavailable, "%s request failed", c.name)
	}

	if last.statusCode == http.StatusTooManyRequests {
		return apperrors.Wrap(apperrors.KindRateLimited, c.name+" rate limit exceeded", last.err)
	}

	var netErr interface{ Timeout() bool }
	if (errors.As(last.err, &netErr) && netErr.Timeout()) || errors.Is(last.err, context.DeadlineExceeded) {
		return apperrors.Wrap(apperrors.KindTimeout, c.name+" request timed out", last.err)
	}

	c.log.Error("Upstream retries exhausted",
		logger.StringField("provider", c.name),
		logger.StringField("path", path),
		logger.ErrorField(last.err),
	)
	return apperrors.Wrap(apperrors.KindUnavailable, c.name+" is unavailable", last.err)
}
