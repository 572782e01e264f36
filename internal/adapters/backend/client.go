package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"sitesafety/internal/domain/auth"
	"sitesafety/internal/domain/safety"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds every backend call
const DefaultTimeout = 15 * time.Second

const maxBodySize = 8 << 20

// Client calls the site safety REST API. The bearer token is set and
// cleared only by the session store.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for baseURL, e.g. http://localhost:5000/api
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// SetToken installs token as the bearer credential. An empty token is ignored.
func (c *Client) SetToken(token string) {
	if token == "" {
		return
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken drops the bearer credential
func (c *Client) ClearToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

func (c *Client) hasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// Get decodes the body of GET path into out
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return c.decode(http.MethodGet, path, body, out)
}

// GetList is Get for collections. A body of the form {"data": [...]} is
// unwrapped first.
func (c *Client) GetList(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if node, err := sonic.Get(body, "data"); err == nil && node.TypeSafe() == ast.V_ARRAY {
		if raw, err := node.Raw(); err == nil {
			body = []byte(raw)
		}
	}
	return c.decode(http.MethodGet, path, body, out)
}

// Post sends body as JSON and decodes the response into out when out is not nil
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.send(ctx, http.MethodPost, path, body, out)
}

// Put sends body as JSON and decodes the response into out when out is not nil
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.send(ctx, http.MethodPut, path, body, out)
}

// Delete removes the resource at path
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// Login posts credentials to /auth/login
func (c *Client) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	var resp auth.LoginResponse
	if err := c.Post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register posts a new account to /auth/register
func (c *Client) Register(ctx context.Context, req auth.RegisterRequest) error {
	return c.Post(ctx, "/auth/register", req, nil)
}

func (c *Client) send(ctx context.Context, method, path string, in, out any) error {
	payload, err := sonic.Marshal(in)
	if err != nil {
		return &safety.RequestError{Method: method, Path: path, Message: "encode request body", Err: err}
	}
	body, err := c.do(ctx, method, path, nil, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return c.decode(method, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &safety.RequestError{Method: method, Path: path, Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("backend unreachable")
		return nil, &safety.RequestError{Method: method, Path: path, Message: transportMessage(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &safety.RequestError{Method: method, Path: path, Status: resp.StatusCode, Message: "read response body", Err: err}
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &safety.RequestError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: errorMessage(body, resp.StatusCode),
		}
	}
	return body, nil
}

func (c *Client) decode(method, path string, body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return &safety.RequestError{Method: method, Path: path, Status: http.StatusOK, Message: "malformed response body", Err: err}
	}
	return nil
}

// errorMessage extracts the "message" field the backend puts in error bodies
func errorMessage(body []byte, status int) string {
	if node, err := sonic.Get(body, "message"); err == nil {
		if msg, err := node.String(); err == nil && msg != "" {
			return msg
		}
	}
	return http.StatusText(status)
}

func transportMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "request timed out"
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return "request timed out"
	}
	return fmt.Sprintf("network error: %v", errors.Unwrap(err))
}
