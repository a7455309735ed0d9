// Package account covers login, registration, logout and the profile:
// direct pass-throughs to the API and the token store.
package account

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/idilsaglam/todo/internal/auth"
	"github.com/idilsaglam/todo/internal/model"
)

// Client is the part of the API this package calls.
type Client interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, email, password string) error
	Profile(ctx context.Context) (*model.Profile, error)
}

// Tokens is the session token store; FromEnv reports an env-provided token.
type Tokens interface {
	auth.Store
	FromEnv() bool
}

type Service struct {
	client Client
	tokens Tokens
	logger *zap.Logger
}

// New returns a Service; a nil logger discards logs.
func New(client Client, tokens Tokens, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: client,
		tokens: tokens,
		logger: logger,
	}
}

// Status describes the current session for display.
type Status struct {
	LoggedIn  bool
	Source    string
	ExpiresAt *time.Time
}

func (s *Service) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return model.NewValidationError("Username and password cannot be empty.")
	}
	token, err := s.client.Login(ctx, username, password)
	if err != nil {
		s.logger.Info("login rejected", zap.String("username", username), zap.Error(err))
		return fmt.Errorf("login: %w", err)
	}
	if err := s.tokens.Set(token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	s.logger.Info("logged in", zap.String("username", username))
	return nil
}

func (s *Service) Register(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return model.NewValidationError("All fields are required.")
	}
	if err := s.client.Register(ctx, username, email, password); err != nil {
		s.logger.Info("register rejected", zap.String("username", username), zap.Error(err))
		return err
	}
	s.logger.Info("registered", zap.String("username", username))
	return nil
}

// Logout drops the stored token. It reports false when the active token
// comes from the environment and so outlives the logout.
func (s *Service) Logout() (bool, error) {
	if err := s.tokens.Remove(); err != nil {
		return false, fmt.Errorf("logout: %w", err)
	}
	s.logger.Info("logged out")
	return !s.tokens.FromEnv(), nil
}

func (s *Service) Profile(ctx context.Context) (*model.Profile, error) {
	p, err := s.client.Profile(ctx)
	if err != nil {
		s.logger.Warn("fetch profile", zap.Error(err))
		return nil, fmt.Errorf("profile: %w", err)
	}
	return p, nil
}

// Token returns the raw session token, or "" when there is none.
func (s *Service) Token() (string, error) {
	ti, err := s.tokens.Get()
	if err != nil || ti == nil {
		return "", err
	}
	return ti.Token, nil
}

// Authenticated reports whether a token is present. Freshness is the server's call.
func (s *Service) Authenticated() bool {
	ti, err := s.tokens.Get()
	if err != nil {
		s.logger.Warn("read session token", zap.Error(err))
		return false
	}
	return ti != nil && ti.Token != ""
}

func (s *Service) Status() (Status, error) {
	ti, err := s.tokens.Get()
	if err != nil {
		return Status{}, err
	}
	if ti == nil {
		return Status{}, nil
	}
	return Status{LoggedIn: true, Source: ti.Source, ExpiresAt: ti.ExpiresAt}, nil
}
