package todo_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todo/internal/api"
	"github.com/idilsaglam/todo/internal/auth"
	"github.com/idilsaglam/todo/internal/fakeapi"
	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/todo"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) ListTodos(ctx context.Context) ([]model.Item, error) {
	args := m.Called(ctx)
	if items := args.Get(0); items != nil {
		return items.([]model.Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClient) CreateTodo(ctx context.Context, title, description string) (*model.Item, error) {
	args := m.Called(ctx, title, description)
	if it := args.Get(0); it != nil {
		return it.(*model.Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClient) DeleteTodo(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var (
	milk   = model.Item{ID: "1", Title: "Buy milk", Description: "2%"}
	bread  = model.Item{ID: "2", Title: "Bread", Description: "rye"}
	netErr = model.NewRequestError("GET /api/todos", 0, errors.New("connection refused"))
)

func TestFetchAllReplacesSnapshotInServerOrder(t *testing.T) {
	c := new(mockClient)
	c.On("ListTodos", mock.Anything).Return([]model.Item{bread, milk}, nil).Twice()

	s := todo.NewStore(c, nil)
	first, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	second, err := s.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []model.Item{bread, milk}, first)
	assert.Equal(t, first, second, "idempotent with no writes in between")
	assert.Equal(t, first, s.Items())
	c.AssertExpectations(t)
}

func TestFetchAllFailureKeepsSnapshot(t *testing.T) {
	c := new(mockClient)
	c.On("ListTodos", mock.Anything).Return([]model.Item{milk}, nil).Once()
	c.On("ListTodos", mock.Anything).Return(nil, netErr).Once()

	s := todo.NewStore(c, nil)
	_, err := s.FetchAll(context.Background())
	require.NoError(t, err)

	_, err = s.FetchAll(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsError(err, model.ErrCodeRequest))
	assert.Equal(t, []model.Item{milk}, s.Items())
}

func TestItemsIsACopy(t *testing.T) {
	c := new(mockClient)
	c.On("ListTodos", mock.Anything).Return([]model.Item{milk}, nil)

	s := todo.NewStore(c, nil)
	_, err := s.FetchAll(context.Background())
	require.NoError(t, err)

	got := s.Items()
	got[0].Title = "changed"
	assert.Equal(t, "Buy milk", s.Items()[0].Title)
}

func TestReset(t *testing.T) {
	c := new(mockClient)
	c.On("ListTodos", mock.Anything).Return([]model.Item{milk}, nil)

	s := todo.NewStore(c, nil)
	_, err := s.FetchAll(context.Background())
	require.NoError(t, err)

	s.Reset()
	assert.Empty(t, s.Items())
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
	}{
		{name: "empty title", title: "", description: "2%"},
		{name: "empty description", title: "Buy milk", description: ""},
		{name: "both empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := new(mockClient)
			s := todo.NewStore(c, nil)

			err := s.Add(context.Background(), tt.title, tt.description)
			require.Error(t, err)
			assert.True(t, model.IsError(err, model.ErrCodeValidation))
			assert.Empty(t, s.Items())
			c.AssertNotCalled(t, "CreateTodo", mock.Anything, mock.Anything, mock.Anything)
			c.AssertNotCalled(t, "ListTodos", mock.Anything)
		})
	}
}

func TestAddResyncs(t *testing.T) {
	c := new(mockClient)
	c.On("CreateTodo", mock.Anything, "Buy milk", "2%").Return(&milk, nil).Once()
	c.On("ListTodos", mock.Anything).Return([]model.Item{milk}, nil).Once()

	s := todo.NewStore(c, nil)
	require.NoError(t, s.Add(context.Background(), "Buy milk", "2%"))

	assert.Equal(t, []model.Item{milk}, s.Items())
	c.AssertExpectations(t)
}

func TestAddSendsInputAsTyped(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
	}{
		{name: "whitespace title", title: " ", description: "2%"},
		{name: "padded title", title: "  Buy milk ", description: "2%"},
		{name: "padded description", title: "Buy milk", description: "\t2% "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := model.Item{ID: "1", Title: tt.title, Description: tt.description}
			c := new(mockClient)
			c.On("CreateTodo", mock.Anything, tt.title, tt.description).Return(&created, nil).Once()
			c.On("ListTodos", mock.Anything).Return([]model.Item{created}, nil).Once()

			s := todo.NewStore(c, nil)
			require.NoError(t, s.Add(context.Background(), tt.title, tt.description))

			assert.Equal(t, []model.Item{created}, s.Items())
			c.AssertExpectations(t)
		})
	}
}

func TestAddFailureLeavesCollection(t *testing.T) {
	c := new(mockClient)
	c.On("ListTodos", mock.Anything).Return([]model.Item{bread}, nil).Once()
	c.On("CreateTodo", mock.Anything, "Buy milk", "2%").Return(nil, netErr).Once()

	s := todo.NewStore(c, nil)
	_, err := s.FetchAll(context.Background())
	require.NoError(t, err)

	err = s.Add(context.Background(), "Buy milk", "2%")
	require.Error(t, err)
	assert.True(t, model.IsError(err, model.ErrCodeRequest))
	assert.Equal(t, []model.Item{bread}, s.Items())
	c.AssertExpectations(t) // no resync after a failed write
}

func TestAddSucceedsWhenOnlyResyncFails(t *testing.T) {
	c := new(mockClient)
	c.On("CreateTodo", mock.Anything, "Buy milk", "2%").Return(&milk, nil).Once()
	c.On("ListTodos", mock.Anything).Return(nil, netErr).Once()

	s := todo.NewStore(c, nil)
	require.NoError(t, s.Add(context.Background(), "Buy milk", "2%"))
	assert.Empty(t, s.Items(), "stale until the next successful fetch")
}

func TestRemove(t *testing.T) {
	c := new(mockClient)
	c.On("ListTodos", mock.Anything).Return([]model.Item{milk, bread}, nil).Once()
	c.On("DeleteTodo", mock.Anything, "1").Return(nil).Once()
	c.On("ListTodos", mock.Anything).Return([]model.Item{bread}, nil).Once()

	s := todo.NewStore(c, nil)
	_, err := s.FetchAll(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Remove(context.Background(), "1"))
	assert.Equal(t, []model.Item{bread}, s.Items())
	c.AssertExpectations(t)
}

func TestRemoveFailureLeavesCollection(t *testing.T) {
	c := new(mockClient)
	c.On("ListTodos", mock.Anything).Return([]model.Item{milk}, nil).Once()
	c.On("DeleteTodo", mock.Anything, "1").Return(model.NewRequestError("Todo not found", http.StatusNotFound, nil)).Once()

	s := todo.NewStore(c, nil)
	_, err := s.FetchAll(context.Background())
	require.NoError(t, err)

	err = s.Remove(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, model.IsError(err, model.ErrCodeRequest))
	assert.Equal(t, []model.Item{milk}, s.Items())
	c.AssertExpectations(t)
}

type tokenHolder struct{ token string }

func (h *tokenHolder) Get() (*auth.TokenInfo, error) {
	return &auth.TokenInfo{Token: h.token}, nil
}

func newLiveStore(t *testing.T) (*todo.Store, *fakeapi.Server) {
	t.Helper()
	n := 0
	var mu sync.Mutex
	fake := fakeapi.New(fakeapi.WithIDGenerator(func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return strconv.Itoa(n)
	}))
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	holder := &tokenHolder{}
	c := api.New(srv.URL, holder)
	ctx := context.Background()
	require.NoError(t, c.Register(ctx, "ann", "ann@example.com", "pw")) // user id "1"
	token, err := c.Login(ctx, "ann", "pw")
	require.NoError(t, err)
	holder.token = token

	return todo.NewStore(c, nil), fake
}

func TestScenarioAddFetchRemove(t *testing.T) {
	ctx := context.Background()
	s, _ := newLiveStore(t)

	items, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, s.Add(ctx, "Buy milk", "2%"))
	items, err = s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Item{{ID: "2", Title: "Buy milk", Description: "2%"}}, items)

	require.NoError(t, s.Remove(ctx, "2"))
	items, err = s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestScenarioServerFailures(t *testing.T) {
	ctx := context.Background()
	s, fake := newLiveStore(t)

	require.NoError(t, s.Add(ctx, "Buy milk", "2%"))
	before := s.Items()
	require.Len(t, before, 1)

	fake.FailNext(http.MethodPost, "/api/todos", http.StatusInternalServerError)
	err := s.Add(ctx, "Bread", "rye")
	assert.True(t, model.IsError(err, model.ErrCodeRequest))
	assert.Equal(t, before, s.Items())

	fake.FailNext(http.MethodDelete, "/api/todos/{id}", http.StatusBadGateway)
	err = s.Remove(ctx, before[0].ID)
	assert.True(t, model.IsError(err, model.ErrCodeRequest))
	assert.Equal(t, before, s.Items())

	fake.FailNext(http.MethodGet, "/api/todos", http.StatusServiceUnavailable)
	_, err = s.FetchAll(ctx)
	assert.True(t, model.IsError(err, model.ErrCodeRequest))
	assert.Equal(t, before, s.Items())

	require.NoError(t, s.Add(ctx, "Bread", "rye"), "store stays usable after failures")
	assert.Len(t, s.Items(), 2)
}

func TestConcurrentWritesConverge(t *testing.T) {
	ctx := context.Background()
	s, _ := newLiveStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Add(ctx, "task "+strconv.Itoa(i), "d"))
		}(i)
	}
	wg.Wait()

	items, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 5)
}
