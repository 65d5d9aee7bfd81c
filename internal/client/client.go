// Package client talks to the flashdeck REST API and normalizes its failures.
package client

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

	"github.com/vytor/flashdeck/internal/logger"
)

const maxErrorBody = 64 << 10

type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenStore
	onUnauthorized func()
	log            *logger.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithTokenStore(s TokenStore) Option {
	return func(c *Client) { c.tokens = s }
}

// WithOnUnauthorized sets the callback run after a 401 or 403 cleared the
// stored token.
func WithOnUnauthorized(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tokens:     NewMemoryTokenStore(""),
		log:        logger.Default().WithPrefix("client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Tokens() TokenStore { return c.tokens }

// do sends body as JSON and decodes a 2xx response into out. Every failure
// comes back as an *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	log := c.log.WithField("method", method).WithField("path", path)

	req, authed, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return HandleAPIError(err)
	}

	log.Debug("sending request")
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed: %v", err)
		return HandleAPIError(&transportError{err: err})
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rerr := &responseError{status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &rerr.body); err != nil {
				log.Debug("non-JSON error body: %s", string(raw))
			}
		}
		if authed && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			c.dropSession(log)
		}
		return HandleAPIError(rerr)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error("failed to decode response: %v", err)
		return HandleAPIError(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// newRequest reports whether a bearer token was attached.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, bool, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, false, err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.Token()
	if err != nil {
		return nil, false, fmt.Errorf("read token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, token != "", nil
}

func (c *Client) dropSession(log *logger.Logger) {
	log.Info("session rejected, clearing token")
	if err := c.tokens.Clear(); err != nil {
		log.Warn("failed to clear token: %v", err)
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}
