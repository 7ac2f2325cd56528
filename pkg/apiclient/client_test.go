package apiclient_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/JesusMarth/qa-automation-project/internal/delivery/http/v1"
	"github.com/JesusMarth/qa-automation-project/internal/storage"
	"github.com/JesusMarth/qa-automation-project/pkg/apiclient"
)

func newTestServer(t *testing.T) *apiclient.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.Open(storage.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.EnsureSchema(context.Background()))

	router := gin.New()
	v1.RegisterRoutes(router, v1.New(zerolog.Nop(), store))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return apiclient.New(server.URL)
}

func TestHealth(t *testing.T) {
	client := newTestServer(t)

	health, err := client.GetHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "OK", health.Status)
	assert.NotEmpty(t, health.Timestamp)
}

// Full task lifecycle against a live server: create, read back, full
// overwrite, delete, and the 404 afterwards.
func TestTaskLifecycle(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	created, err := client.CreateTask(ctx, apiclient.CreateTaskParams{
		Title:    "Buy milk",
		Priority: "high",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "high", created.Priority)
	assert.Equal(t, "pending", created.Status)

	fetched, err := client.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)

	message, err := client.UpdateTask(ctx, created.ID, apiclient.UpdateTaskParams{
		Title:       "Buy milk",
		Description: "2%",
		Status:      "completed",
		Priority:    "high",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, message)

	updated, err := client.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, "2%", updated.Description)

	_, err = client.DeleteTask(ctx, created.ID)
	require.NoError(t, err)

	_, err = client.GetTask(ctx, created.ID)
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestCreateTaskValidationError(t *testing.T) {
	client := newTestServer(t)

	_, err := client.CreateTask(context.Background(), apiclient.CreateTaskParams{Title: "   "})
	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "El título es requerido", apiErr.Message)

	tasks, err := client.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestRegisterLoginAndList(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	user, err := client.Register(ctx, apiclient.RegisterParams{
		Username: "alice",
		Password: "secret",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Empty(t, user.Password)

	_, err = client.Register(ctx, apiclient.RegisterParams{
		Username: "alice",
		Password: "secret",
		Email:    "second@example.com",
	})
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.StatusCode)

	result, err := client.Login(ctx, apiclient.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "alice", result.User.Username)
	// The server echoes the plaintext password on login. Seeded bug.
	assert.Equal(t, "secret", result.User.Password)

	_, err = client.Login(ctx, apiclient.Credentials{Username: "alice", Password: "nope"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)

	users, err := client.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "secret", users[0].Password)
}
