// Package client wraps the ensayos HTTP API.
//
// Each exported operation issues one request (two when a legacy path exists
// and the primary path fails) and returns the response body unchanged.
// Operations never validate or reshape responses.
package client

import (
	"net/http"
	"strings"
	"time"

	"github.com/paes/ensayos/internal/tokenstore"
	"github.com/paes/ensayos/pkg/logger"
)

// Defaults used by New.
const (
	DefaultBaseURL = "http://127.0.0.1:8000/api"
	DefaultTimeout = 10 * time.Second
)

// Client calls the ensayos API. It holds no mutable state and is safe for
// concurrent use.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	tokens       tokenstore.Store
	submitFormat SubmitFormat
	logger       logger.Logger

	timeout    time.Duration
	hasTimeout bool
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the base address all paths are joined to.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each request. Zero removes the bound. It applies to the
// HTTP client in use after all options, including one set by WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.timeout = d
			c.hasTimeout = true
		}
	}
}

// WithTokenStore sets where the auth token is looked up. Without a store
// every request is anonymous.
func WithTokenStore(store tokenstore.Store) Option {
	return func(c *Client) {
		c.tokens = store
	}
}

// WithSubmitFormat forces the wire shape of answer submissions. By default
// the shape follows the AnswerPayload variant.
func WithSubmitFormat(f SubmitFormat) Option {
	return func(c *Client) {
		c.submitFormat = f
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		submitFormat: SubmitAuto,
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.hasTimeout {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// BaseURL returns the configured base address.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) token() (string, bool) {
	if c.tokens == nil {
		return "", false
	}
	t, ok := c.tokens.Get(tokenstore.TokenKey)
	if !ok || t == "" {
		return "", false
	}
	return t, true
}
