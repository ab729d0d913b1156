// Package supabase talks to the Supabase identity (GoTrue) and REST (PostgREST) APIs.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// HeaderAPIKey carries the project key on every Supabase request.
	HeaderAPIKey = "apikey"

	authUserPath   = "/auth/v1/user"
	authHealthPath = "/auth/v1/health"
	restPathPrefix = "/rest/v1/"
)

// ErrNotConfigured is returned by New when the URL or key is empty.
var ErrNotConfigured = errors.New("supabase url and service role key are required")

// APIError is an error response from a Supabase endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client is a thin Supabase client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	serviceKey string
	http       *resty.Client
}

type clientConfig struct {
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client. Options may be given in any order.
type Option func(*clientConfig)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// WithTimeout sets a per-request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// New creates a Client for the project at baseURL authenticated with serviceKey.
func New(baseURL, serviceKey string, opts ...Option) (*Client, error) {
	if baseURL == "" || serviceKey == "" {
		return nil, ErrNotConfigured
	}

	var cfg clientConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	httpClient := resty.New()
	if cfg.httpClient != nil {
		httpClient = resty.NewWithClient(cfg.httpClient)
	}
	if cfg.timeout > 0 {
		httpClient.SetTimeout(cfg.timeout)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		http:       httpClient,
	}

	c.http.SetHeader(HeaderAPIKey, serviceKey)
	c.http.SetHeader("Accept", "application/json")

	return c, nil
}

// Ping checks that the identity service answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(c.baseURL + authHealthPath)
	if err != nil {
		return fmt.Errorf("supabase health: %w", err)
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Message: "supabase health: " + resp.Status()}
	}
	return nil
}

func (c *Client) restURL(table string) string {
	return c.baseURL + restPathPrefix + table
}

// errorBody covers both GoTrue and PostgREST error payloads.
type errorBody struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
	Details          string `json:"details"`
	Hint             string `json:"hint"`
	Code             any    `json:"code"`
}

// apiError builds an APIError from a failed response, preferring the message
// Supabase put in the body over the bare status line.
func apiError(op string, resp *resty.Response) *APIError {
	msg := ""
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		switch {
		case body.Message != "":
			msg = body.Message
		case body.Msg != "":
			msg = body.Msg
		case body.ErrorDescription != "":
			msg = body.ErrorDescription
		}
		if msg != "" && body.Details != "" {
			msg += ": " + body.Details
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(resp.String())
	}
	if msg == "" {
		msg = resp.Status()
	}

	return &APIError{
		StatusCode: resp.StatusCode(),
		Message:    fmt.Sprintf("%s: %s", op, msg),
	}
}
