package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-list/internal/config"
	"github.com/Tomlord1122/todo-list/internal/database"
	"github.com/Tomlord1122/todo-list/internal/logging"
	"github.com/Tomlord1122/todo-list/internal/repository"
	"github.com/Tomlord1122/todo-list/internal/server"
	"github.com/Tomlord1122/todo-list/internal/service"
)

// newTestAPI runs the real API on an in-memory store.
func newTestAPI(t *testing.T) *Client {
	t.Helper()
	svc := service.NewTodoService(repository.NewMemoryTodoRepository(), logging.Discard())
	srv := server.NewServer(config.Default(), svc, database.NewMemory(), logging.Discard())
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return New(ts.URL+"/api/todos/", WithHTTPClient(ts.Client()))
}

func ptr[T any](v T) *T { return &v }

func TestClient_Scenario(t *testing.T) {
	c := newTestAPI(t)
	ctx := context.Background()

	todos, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
	assert.NotNil(t, todos)

	created, err := c.Create(ctx, "Buy milk")
	require.NoError(t, err)
	assert.Equal(t, Todo{ID: "1", Text: "Buy milk", Completed: false, CreatedAt: created.CreatedAt, UpdatedAt: created.UpdatedAt}, created)
	assert.False(t, created.CreatedAt.IsZero())

	updated, err := c.Update(ctx, "1", Patch{Completed: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", updated.Text)
	assert.True(t, updated.Completed)

	got, err := c.Get(ctx, "1")
	require.NoError(t, err)
	assert.True(t, got.Completed)

	require.NoError(t, c.Delete(ctx, "1"))

	todos, err = c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestClient_PatchOmitsNilFields(t *testing.T) {
	c := newTestAPI(t)
	ctx := context.Background()

	_, err := c.Create(ctx, "Original")
	require.NoError(t, err)

	// completed=false must still be sent when explicitly set.
	_, err = c.Update(ctx, "1", Patch{Completed: ptr(true)})
	require.NoError(t, err)
	back, err := c.Update(ctx, "1", Patch{Completed: ptr(false)})
	require.NoError(t, err)
	assert.False(t, back.Completed)
	assert.Equal(t, "Original", back.Text)
}

func TestClient_Errors(t *testing.T) {
	c := newTestAPI(t)
	ctx := context.Background()

	err := c.Delete(ctx, "7")
	assert.True(t, IsNotFound(err))
	assert.EqualError(t, err, "todo api: 404: Todo not found")

	_, err = c.Create(ctx, "   ")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.False(t, IsNotFound(err))
}

func TestClient_NonJSONError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := New(ts.URL).List(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "todo api: 502 Bad Gateway", apiErr.Error())
}

func TestClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(url).List(context.Background())
	assert.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
