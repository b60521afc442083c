package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/vrain/internal/domain"
	"github.com/MrSnakeDoc/vrain/internal/logger"
	"github.com/MrSnakeDoc/vrain/internal/session"
	"github.com/MrSnakeDoc/vrain/internal/utils"
)

const (
	// DefaultBaseURL is the hosted vrain backend.
	DefaultBaseURL = "http://vrain-backend.codextarun.xyz"
	DefaultTimeout = 10 * time.Second

	maxResponseBody = 4 << 20
)

// Client talks to the vrain REST backend on behalf of one session.
type Client struct {
	base    string
	http    *http.Client
	session *session.Session
	log     logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }
func WithLogger(l logger.Logger) Option     { return func(c *Client) { c.log = l } }

// New builds a client for base. A nil session behaves as logged out.
func New(base string, sess *session.Session, opts ...Option) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if sess == nil {
		sess = session.New(nil)
	}
	c := &Client{
		base:    strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		session: sess,
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string { return c.base }

// Session returns the session whose token authenticates requests.
func (c *Client) Session() *session.Session { return c.session }

// WithSession returns a copy bound to another session, sharing the transport.
func (c *Client) WithSession(sess *session.Session) *Client {
	cp := *c
	cp.session = sess
	return &cp
}

// request describes one backend call.
type request struct {
	method string
	path   string
	auth   bool
	body   any
	out    any
}

// do executes r. Authenticated calls without a token fail with
// domain.ErrNotAuthenticated before any network activity.
func (c *Client) do(ctx context.Context, r request) error {
	var token string
	if r.auth {
		token = c.session.Token()
		if token == "" {
			return domain.ErrNotAuthenticated
		}
	}

	var body io.Reader = http.NoBody
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.base+r.path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", r.method, r.path, err)
	}
	defer utils.Close(resp.Body)

	c.log.Debug("backend call",
		logger.String("method", r.method),
		logger.String("path", r.path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", time.Since(start)))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if r.out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, r.out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}
