// Package aoraclient is the Go client for the Aora video-sharing service. It
// wraps the HTTP API behind typed operations, keeps the signed-in session in
// memory, and reports failures as *Error values with a coarse kind and the
// underlying cause preserved.
package aoraclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	platformHeader = "X-Aora-Platform"
	projectHeader  = "X-Aora-Project"

	defaultTimeout = 30 * time.Second
)

// Config identifies the service deployment a Client talks to.
type Config struct {
	// Endpoint is the base URL of the service, e.g. "https://api.aora.dev".
	Endpoint string
	// Platform names the calling application, e.g. "com.aora.mobile".
	Platform string
	// ProjectID scopes requests to a project on multi-tenant deployments.
	ProjectID string
}

// Validate reports the first missing field.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("endpoint is required")
	}
	if _, err := url.ParseRequestURI(c.Endpoint); err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if strings.TrimSpace(c.Platform) == "" {
		return fmt.Errorf("platform is required")
	}
	if strings.TrimSpace(c.ProjectID) == "" {
		return fmt.Errorf("project id is required")
	}
	return nil
}

// Session holds the token pair returned by the service on sign in.
type Session struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// Client is safe for concurrent use.
type Client struct {
	cfg        Config
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger

	mu      sync.RWMutex
	session Session
	signed  bool
}

// Option customises a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the transport used for all requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger replaces the logger used for non-fatal warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a Client for the given deployment.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, newError(KindValidation, "invalid client configuration", err)
	}

	client := &Client{
		cfg:        cfg,
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Session returns the current token pair and whether the client is signed in.
func (c *Client) Session() (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session, c.signed
}

func (c *Client) setSession(session Session) {
	c.mu.Lock()
	c.session = session
	c.signed = true
	c.mu.Unlock()
}

func (c *Client) clearSession() {
	c.mu.Lock()
	c.session = Session{}
	c.signed = false
	c.mu.Unlock()
}

// doJSON issues a request with a JSON body (nil for none) and decodes a 2xx
// response into out. Non-2xx responses come back as *apiError.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.endpoint + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set(platformHeader, c.cfg.Platform)
	req.Header.Set(projectHeader, c.cfg.ProjectID)
	if session, ok := c.Session(); ok && session.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := "request failed"
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			message = payload.Error
		}
		return &apiError{Status: resp.StatusCode, Message: message}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
