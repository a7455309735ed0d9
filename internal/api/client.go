// Package api is the HTTP client for the remote todo server.
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

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/idilsaglam/todo/internal/auth"
	"github.com/idilsaglam/todo/internal/logger"
	"github.com/idilsaglam/todo/internal/model"
)

// TokenSource yields the current session token, read before every
// authenticated request. A nil TokenInfo means no session.
type TokenSource interface {
	Get() (*auth.TokenInfo, error)
}

type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
	logger  *zap.Logger
}

type Option func(*Client)

// WithHTTPClient swaps the underlying http.Client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the transport timeout; 0 disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a client for the server at baseURL that reads the bearer token from tokens.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL is the server root this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out model.LoginResponse
	req := model.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", false, req, &out); err != nil {
		return "", err
	}
	if out.Data.Token == "" {
		return "", model.NewRequestError("login: response carried no token", http.StatusOK, nil)
	}
	return out.Data.Token, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) error {
	req := model.RegisterRequest{Username: username, Password: password, Email: email}
	return c.do(ctx, http.MethodPost, "/api/auth/register", false, req, nil)
}

func (c *Client) Profile(ctx context.Context) (*model.Profile, error) {
	var out model.ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/api/profile", true, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) ListTodos(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := c.do(ctx, http.MethodGet, "/api/todos", true, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

func (c *Client) CreateTodo(ctx context.Context, title, description string) (*model.Item, error) {
	var created model.Item
	req := model.NewItem{Title: title, Description: description}
	if err := c.do(ctx, http.MethodPost, "/api/todos", true, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/todos/"+url.PathEscape(id), true, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, authed bool, body, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return model.NewRequestError(fmt.Sprintf("%s %s", method, path), 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	log := logger.WithRequestID(logger.ContextWithRequestID(ctx, reqID), c.logger).
		With(zap.String("method", method), zap.String("path", path))

	if authed {
		// The server decides whether the token is any good.
		token := ""
		if ti, err := c.tokens.Get(); err != nil {
			log.Warn("read session token", zap.Error(err))
		} else if ti != nil {
			token = ti.Token
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Duration("took", time.Since(start)), zap.Error(err))
		return model.NewRequestError(fmt.Sprintf("%s %s", method, path), 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.NewRequestError(fmt.Sprintf("%s %s: read body", method, path), resp.StatusCode, err)
	}
	log.Debug("request done", zap.Int("status", resp.StatusCode), zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rerr := model.NewRequestError(fmt.Sprintf("%s %s: status %d", method, path, resp.StatusCode), resp.StatusCode, nil)
		if msg := serverMessage(raw); msg != "" {
			rerr.Message, rerr.Remote = msg, true
		}
		log.Info("request rejected", zap.Int("status", resp.StatusCode), zap.String("message", rerr.Message))
		return rerr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return model.NewRequestError(fmt.Sprintf("%s %s: decode response", method, path), resp.StatusCode, err)
	}
	return nil
}

// serverMessage pulls {"message": "..."} out of an error body.
func serverMessage(raw []byte) string {
	var body model.ErrorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Message)
}
