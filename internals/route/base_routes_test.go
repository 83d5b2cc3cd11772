package routes_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	database "dndbuilder_backend/internals/databases"
	"dndbuilder_backend/internals/testutils"
)

func TestRoot(t *testing.T) {
	app := testutils.NewTestApp(t)

	res := app.Get("/")
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "D&D Character Builder API", res.Body["message"])
	assert.Equal(t, "1.0.0", res.Body["version"])
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
}

func TestHealth(t *testing.T) {
	app := testutils.NewTestApp(t)

	res := app.Get("/health")
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "healthy", res.Body["status"])
	assert.Equal(t, "connected", res.Body["database"])
	assert.Contains(t, res.Body, "uptime_seconds")

	require.NoError(t, database.Close(app.DB))
	res = app.Get("/health")
	require.Equal(t, http.StatusServiceUnavailable, res.Status)
	assert.Equal(t, "unhealthy", res.Body["status"])
	assert.Equal(t, "disconnected", res.Body["database"])
}

func TestUnknownRoute(t *testing.T) {
	app := testutils.NewTestApp(t)

	res := app.Get("/api/v1/dragons")
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, false, res.Body["success"])
}
