// Package api is the REST client for the storefront backend. It owns the
// transport concerns (identity header, instrumentation, optional breaker)
// so call sites stay a single method call. Single attempt per request: no
// retry, no backoff, callers handle failure.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const maxResponseBodySize = 1 << 20 // 1MB

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
	breaker *gobreaker.CircuitBreaker[[]byte]
}

type options struct {
	httpClient *http.Client
	transport  http.RoundTripper
	initData   func() string
	log        *zap.Logger
	timeout    time.Duration
	breaker    bool
}

type Option func(*options)

// WithHTTPClient replaces the underlying http.Client. Its transport is
// still wrapped with the identity and instrumentation layers.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithTransport sets the innermost round-tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithInitData sets a fixed host-provided signed identity blob. An empty
// blob means requests go out without a credential (local development
// outside the host; the backend falls back to its debug identity).
func WithInitData(blob string) Option {
	return func(o *options) { o.initData = func() string { return blob } }
}

// WithInitDataProvider sets a callback consulted before every dispatch,
// for hosts that refresh the blob during a session.
func WithInitDataProvider(f func() string) Option {
	return func(o *options) { o.initData = f }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTimeout bounds every request. Zero means no client-side deadline
// beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithBreaker fences the read endpoints with a circuit breaker, so a dead
// backend fails fast instead of stacking up timed-out fetches. Cart
// mutations stay unfenced: a user action always gets its one attempt.
func WithBreaker() Option {
	return func(o *options) { o.breaker = true }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	o := &options{
		initData: func() string { return "" },
		log:      zap.NewNop(),
		timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}

	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{}
	}
	base := o.transport
	if base == nil {
		base = hc.Transport
	}
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = otelhttp.NewTransport(&initDataTransport{next: base, initData: o.initData})
	hc.Timeout = o.timeout

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    hc,
		log:     o.log,
	}
	if o.breaker {
		c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "shop-api",
			Timeout: 15 * time.Second,
		})
	}
	return c, nil
}

// get fetches a read endpoint, through the breaker when one is configured.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return c.getURL(ctx, u, out)
}

func (c *Client) getURL(ctx context.Context, u string, out any) error {
	if c.breaker == nil {
		return c.roundTrip(ctx, http.MethodGet, u, nil, nil, out)
	}
	raw, err := c.breaker.Execute(func() ([]byte, error) {
		var buf json.RawMessage
		if err := c.roundTrip(ctx, http.MethodGet, u, nil, nil, &buf); err != nil {
			return nil, err
		}
		return buf, nil
	})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, headers http.Header, body, out any) error {
	return c.roundTrip(ctx, method, c.baseURL+path, headers, body, out)
}

func (c *Client) roundTrip(ctx context.Context, method, u string, headers http.Header, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, u, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug("api error response",
			zap.String("method", method),
			zap.String("url", u),
			zap.Int("status", resp.StatusCode))
		return &APIError{StatusCode: resp.StatusCode, Body: raw}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
