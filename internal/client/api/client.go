package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/corporatesaathi/saathi/internal/common"
	"github.com/corporatesaathi/saathi/internal/logging"
	"github.com/google/uuid"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20
)

// TokenSource yields the current bearer token, or "" when there is none.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A cookie jar is
// attached when the given client has none.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  logging.Logger
	timeout time.Duration
}

// New builds a Client for the backend at baseURL. tokens may be nil, in
// which case no Authorization header is ever sent.
func New(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.NewNopLogger()
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("cookie jar: %w", err)
		}
		c.http.Jar = jar
	}
	return c, nil
}

// BaseURL returns the configured backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Auth() *AuthAPI {
	return &AuthAPI{c: c}
}

func (c *Client) Clients() *ClientsAPI {
	return &ClientsAPI{c: c}
}

// call sends one request and decodes the envelope into T. It never touches
// the stored token.
func call[T any](ctx context.Context, c *Client, method, endpoint string, body any) (*Envelope[T], error) {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log := c.logger.With("method", method, "endpoint", endpoint, "request_id", requestID)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err, "duration", time.Since(start))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &Error{
			Kind:      KindTransport,
			Message:   "Unable to reach the server. Check your connection and try again.",
			RequestID: requestID,
			cause:     fmt.Errorf("%w: %v", ErrUnavailable, err),
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{
			Status:    resp.StatusCode,
			Kind:      KindTransport,
			Message:   "Connection interrupted while reading the response.",
			RequestID: requestID,
			cause:     fmt.Errorf("%w: %v", ErrUnavailable, err),
		}
	}

	log.Debug(ctx, "request finished", "status", resp.StatusCode, "duration", time.Since(start))

	var env Envelope[T]
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, code := DefaultErrorMessage, ""
		if decodeErr == nil {
			code = env.Code
			if text := env.Text(); text != "" {
				msg = text
			}
		}
		return nil, &Error{
			Status:    resp.StatusCode,
			Kind:      classify(resp.StatusCode, code, msg),
			Code:      code,
			Message:   msg,
			RequestID: requestID,
		}
	}

	if decodeErr != nil {
		return nil, &Error{
			Status:    resp.StatusCode,
			Message:   "Unexpected response from the server.",
			RequestID: requestID,
			cause:     errors.Join(ErrBadResponse, decodeErr),
		}
	}

	return &env, nil
}
