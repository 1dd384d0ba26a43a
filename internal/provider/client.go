package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	fetchTimeout = 10 * time.Second
	maxBodyBytes = 1 << 20 // 1 MiB
	userAgent    = "geofacts/1.0 (+https://github.com/geofacts/geofacts)"
)

// Client is the shared outbound fetch primitive. Every provider request goes
// through it: fixed timeout, capped response size, explicit User-Agent and
// Accept header, an optional rate limit and a circuit breaker per provider.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// ClientConfig tunes a Client for one provider.
type ClientConfig struct {
	// HTTPClient overrides the default client; the fetch timeout still
	// applies per call. Used by tests to point at a stub server.
	HTTPClient *http.Client
	// RequestsPerSec caps the outbound rate; 0 means unlimited.
	RequestsPerSec int
	// BreakerName labels the circuit breaker, normally the provider slug.
	BreakerName string
}

// NewClient builds a Client for one provider.
func NewClient(cfg ClientConfig) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: fetchTimeout}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.RequestsPerSec)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.BreakerName,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{http: hc, limiter: limiter, breaker: cb}
}

// FetchJSON performs a GET against baseURL with the given query parameters
// and decodes the JSON body into out. Failures are typed: *HTTPError for a
// non-2xx status, *TransportError for network faults, ErrNotJSON for an
// unparseable 2xx body. A 2xx body that parses but encodes a provider-level
// error is the caller's concern (normalization translates it to ErrCapability).
func (c *Client) FetchJSON(ctx context.Context, baseURL string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Err: err}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	u := baseURL
	if len(params) > 0 {
		u = fmt.Sprintf("%s?%s", baseURL, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	body, err := c.breaker.Execute(func() (interface{}, error) {
		resp, doErr := c.http.Do(req)
		if doErr != nil {
			return nil, &TransportError{Err: doErr}
		}
		defer resp.Body.Close()

		data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if readErr != nil {
			return nil, &TransportError{Err: readErr}
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &HTTPError{Status: resp.StatusCode, Body: truncate(string(data), 512)}
		}
		return data, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return &TransportError{Err: err}
		}
		return err
	}

	raw, ok := body.([]byte)
	if !ok {
		return &TransportError{Err: errors.New("unexpected result type from circuit breaker")}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrNotJSON, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
