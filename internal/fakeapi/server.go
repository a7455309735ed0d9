// Package fakeapi is an in-memory stand-in for the remote todo server.
// It speaks the same HTTP contract and is used by tests and local runs.
package fakeapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/todo/internal/model"
)

type user struct {
	ID           string
	Username     string
	Email        string
	PasswordHash []byte
}

type Server struct {
	mu       sync.Mutex
	users    map[string]*user        // by username
	todos    map[string][]model.Item // by user id, insertion order
	failures map[string]int          // "METHOD /template" -> status for the next call

	secret []byte
	ttl    time.Duration
	newID  func() string
	logger *zap.Logger
	router *mux.Router
}

type Option func(*Server)

func WithSecret(secret string) Option {
	return func(s *Server) { s.secret = []byte(secret) }
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) { s.ttl = ttl }
}

// WithIDGenerator replaces uuid ids, e.g. with a counter in tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Server) { s.newID = fn }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(opts ...Option) *Server {
	s := &Server{
		users:    make(map[string]*user),
		todos:    make(map[string][]model.Item),
		failures: make(map[string]int),
		secret:   []byte("dev-secret"),
		ttl:      24 * time.Hour,
		newID:    uuid.NewString,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.injectFailures)

	api := r.PathPrefix("/api").Subrouter()

	authRouter := api.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/register", s.register).Methods(http.MethodPost)
	authRouter.HandleFunc("/login", s.login).Methods(http.MethodPost)

	private := api.PathPrefix("").Subrouter()
	private.Use(s.requireToken)
	private.HandleFunc("/profile", s.profile).Methods(http.MethodGet)
	private.HandleFunc("/todos", s.listTodos).Methods(http.MethodGet)
	private.HandleFunc("/todos", s.createTodo).Methods(http.MethodPost)
	private.HandleFunc("/todos/{id}", s.deleteTodo).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, s.logger, http.StatusNotFound, "Not found")
	})
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// FailNext makes the next request matching method and route template
// (e.g. "POST", "/api/todos") answer with status instead of being handled.
func (s *Server) FailNext(method, template string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+template] = status
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := mux.CurrentRoute(r)
		if route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				key := r.Method + " " + tpl
				s.mu.Lock()
				status, ok := s.failures[key]
				delete(s.failures, key)
				s.mu.Unlock()
				if ok {
					writeMessage(w, s.logger, status, "Injected failure")
					return
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		ReadHeaderTimeout: 5 * time.Second,
		Handler:           s,
	}
	wg, ctx := errgroup.WithContext(ctx)
	wg.Go(func() error {
		s.logger.Info("listening HTTP", zap.String("addr", listener.Addr().String()))
		return srv.Serve(listener)
	})
	wg.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := wg.Wait(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
