package fakeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/idilsaglam/todo/internal/model"
)

type ctxKey string

const userKey ctxKey = "user"

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// -------------- auth ----------------

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeJSON(w, r, s.logger, &req) {
		return
	}
	if req.Username == "" || req.Password == "" || req.Email == "" {
		writeMessage(w, s.logger, http.StatusBadRequest, "All fields are required.")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		s.logger.Error("hash password", zap.Error(err))
		writeMessage(w, s.logger, http.StatusInternalServerError, "Internal error")
		return
	}

	s.mu.Lock()
	if _, exists := s.users[req.Username]; exists {
		s.mu.Unlock()
		writeMessage(w, s.logger, http.StatusConflict, "Username already exists")
		return
	}
	u := &user{ID: s.newID(), Username: req.Username, Email: req.Email, PasswordHash: hash}
	s.users[u.Username] = u
	s.mu.Unlock()

	s.logger.Info("register", zap.String("user", u.ID))
	writeMessage(w, s.logger, http.StatusCreated, "User registered successfully")
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, s.logger, &req) {
		return
	}

	s.mu.Lock()
	u, ok := s.users[req.Username]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
		writeMessage(w, s.logger, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}).SignedString(s.secret)
	if err != nil {
		s.logger.Error("token signing", zap.Error(err))
		writeMessage(w, s.logger, http.StatusInternalServerError, "Internal error")
		return
	}

	s.logger.Info("login", zap.String("user", u.ID))
	writeJSON(w, s.logger, http.StatusOK, map[string]any{
		"data": map[string]string{"token": token},
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		if !strings.HasPrefix(raw, "Bearer ") {
			writeMessage(w, s.logger, http.StatusUnauthorized, "Unauthorized")
			return
		}

		c := &claims{}
		_, err := jwt.ParseWithClaims(strings.TrimPrefix(raw, "Bearer "), c, func(*jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeMessage(w, s.logger, http.StatusUnauthorized, "Unauthorized")
			return
		}

		s.mu.Lock()
		u, ok := s.users[c.Username]
		s.mu.Unlock()
		if !ok || u.ID != c.Subject {
			writeMessage(w, s.logger, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

func currentUser(r *http.Request) *user {
	u, _ := r.Context().Value(userKey).(*user)
	return u
}

// -------------- profile & todos ----------------

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	writeJSON(w, s.logger, http.StatusOK, map[string]any{
		"data": model.Profile{Username: u.Username, Email: u.Email},
	})
}

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)

	s.mu.Lock()
	items := append([]model.Item{}, s.todos[u.ID]...)
	s.mu.Unlock()

	writeJSON(w, s.logger, http.StatusOK, items)
}

func (s *Server) createTodo(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	var req model.NewItem
	if !decodeJSON(w, r, s.logger, &req) {
		return
	}
	if req.Title == "" || req.Description == "" {
		writeMessage(w, s.logger, http.StatusBadRequest, "Title and description are required")
		return
	}

	s.mu.Lock()
	item := model.Item{ID: s.newID(), Title: req.Title, Description: req.Description}
	s.todos[u.ID] = append(s.todos[u.ID], item)
	s.mu.Unlock()

	writeJSON(w, s.logger, http.StatusCreated, item)
}

func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	items := s.todos[u.ID]
	idx := -1
	for i, it := range items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx >= 0 {
		s.todos[u.ID] = append(items[:idx:idx], items[idx+1:]...)
	}
	s.mu.Unlock()

	if idx < 0 {
		writeMessage(w, s.logger, http.StatusNotFound, "Todo not found")
		return
	}
	writeMessage(w, s.logger, http.StatusOK, "Todo deleted")
}

// -------------- helpers ----------------

func decodeJSON(w http.ResponseWriter, r *http.Request, logger *zap.Logger, into any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeMessage(w, logger, http.StatusBadRequest, "bad json")
		return false
	}
	return true
}

func writeMessage(w http.ResponseWriter, logger *zap.Logger, status int, msg string) {
	writeJSON(w, logger, status, model.ErrorBody{Message: msg})
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to write JSON response", zap.Error(err))
	}
}
