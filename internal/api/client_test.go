package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todo/internal/api"
	"github.com/idilsaglam/todo/internal/auth"
	"github.com/idilsaglam/todo/internal/fakeapi"
	"github.com/idilsaglam/todo/internal/model"
)

type staticTokens struct{ token string }

func (s *staticTokens) Get() (*auth.TokenInfo, error) {
	if s.token == "" {
		return nil, nil
	}
	return &auth.TokenInfo{Token: s.token}, nil
}

func newClient(t *testing.T) (*api.Client, *staticTokens, *fakeapi.Server) {
	t.Helper()
	fake := fakeapi.New()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	tokens := &staticTokens{}
	return api.New(srv.URL+"/", tokens, api.WithTimeout(5*time.Second)), tokens, fake
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, tokens, _ := newClient(t)

	require.NoError(t, c.Register(ctx, "ann", "ann@example.com", "pw"))
	token, err := c.Login(ctx, "ann", "pw")
	require.NoError(t, err)
	tokens.token = token

	p, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Profile{Username: "ann", Email: "ann@example.com"}, *p)

	items, err := c.ListTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)

	created, err := c.CreateTodo(ctx, "Buy milk", "2%")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Buy milk", created.Title)

	items, err = c.ListTodos(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Item{*created}, items)

	require.NoError(t, c.DeleteTodo(ctx, created.ID))
	items, err = c.ListTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClientSurfacesServerMessage(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newClient(t)

	require.NoError(t, c.Register(ctx, "ann", "a@x", "pw"))
	err := c.Register(ctx, "ann", "a@x", "pw")
	require.Error(t, err)
	assert.True(t, model.IsError(err, model.ErrCodeRequest))
	assert.Equal(t, http.StatusConflict, model.StatusOf(err))
	assert.Equal(t, "Username already exists", err.Error())
	assert.Equal(t, "Username already exists", model.ServerMessage(err))

	_, err = c.Login(ctx, "ann", "bad")
	assert.Equal(t, http.StatusUnauthorized, model.StatusOf(err))
}

func TestClientSendsBearerEvenWithoutToken(t *testing.T) {
	var (
		mu  sync.Mutex
		got []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = append(got, r.Header.Get("Authorization"))
		mu.Unlock()
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &staticTokens{}
	c := api.New(srv.URL, tokens)

	_, err := c.ListTodos(context.Background())
	assert.True(t, model.IsError(err, model.ErrCodeRequest))

	tokens.token = "abc"
	err = c.DeleteTodo(context.Background(), "id/with slash")
	assert.Equal(t, http.StatusUnauthorized, model.StatusOf(err))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Bearer", "Bearer abc"}, got, "trailing space is trimmed on the wire")
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := api.New(url, &staticTokens{token: "x"})
	_, err := c.ListTodos(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsError(err, model.ErrCodeRequest))
	assert.Equal(t, 0, model.StatusOf(err))
}

func TestClientBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	_, err := api.New(srv.URL, &staticTokens{}).ListTodos(context.Background())
	assert.True(t, model.IsError(err, model.ErrCodeRequest))
}
