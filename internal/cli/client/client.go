package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 512
)

// Session is the token holder the client reads from and clears on
// authorization failures. *session.Store satisfies it.
type Session interface {
	Token() string
	SetToken(token string, rememberMe bool) error
}

// Client represents an HTTP client for the Lexicon API
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    Session
	validate   *validator.Validate
	logger     zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		httpClient := *c.httpClient
		httpClient.Timeout = timeout
		c.httpClient = &httpClient
	}
}

// WithLogger sets the request logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a new API client
func New(baseURL string, session Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		session:  session,
		validate: validator.New(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "api").Logger()
	return c
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one API call
type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	auth        bool

	// optionalBody accepts an empty or null 2xx body and leaves out untouched
	optionalBody bool
}

// do sends the request and decodes a 2xx JSON body into out.
// Authenticated calls answered with 401 clear the session and return ErrSessionExpired.
func (c *Client) do(ctx context.Context, r request, out any) error {
	var token string
	if r.auth {
		token = c.session.Token()
		if token == "" {
			return ErrNotLoggedIn
		}
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := ulid.Make().String()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.auth {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	log := c.logger.With().
		Str("request_id", requestID).
		Str("method", r.method).
		Str("path", r.path).
		Logger()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("API request failed")
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("API request")

	if r.auth && resp.StatusCode == http.StatusUnauthorized {
		log.Warn().Msg("Token rejected by server, clearing session")
		if err := c.session.SetToken("", false); err != nil {
			log.Error().Err(err).Msg("Failed to clear session")
		}
		return ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RequestFailedError{
			Method:     r.method,
			Path:       r.path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if r.optionalBody && isEmptyBody(data) {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &InvalidResponseError{Path: r.path, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if err := c.check(out); err != nil {
		return &InvalidResponseError{Path: r.path, Err: err}
	}
	return nil
}

func isEmptyBody(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}

// check validates a decoded response, element-wise for slices
func (c *Client) check(out any) error {
	v := reflect.ValueOf(out)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return errors.New("empty response")
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return errors.New("expected a JSON array")
		}
		return c.validate.Var(v.Interface(), "dive")
	case reflect.Struct:
		return c.validate.Struct(v.Interface())
	}
	return nil
}
