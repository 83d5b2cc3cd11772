package configs_test

import (
	"bytes"
	"context"
	"log"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dndbuilder_backend/internals/configs"
)

func TestParseDefaults(t *testing.T) {
	s, err := configs.Parse()
	require.NoError(t, err)

	assert.Equal(t, "D&D Character Builder API", s.AppName)
	assert.Equal(t, "/api/v1", s.APIV1Str)
	assert.Equal(t, "HS256", s.Algorithm)
	assert.Equal(t, 30*time.Minute, s.AccessTokenTTL())
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8000"}, s.CORSOrigins)
	assert.Equal(t, 5*time.Minute, s.CacheTTL)
	assert.Empty(t, s.RedisURL)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("BACKEND_CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "15")
	t.Setenv("REQUEST_TIMEOUT", "2s")

	s, err := configs.Parse()
	require.NoError(t, err)

	assert.Equal(t, "9001", s.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, s.CORSOrigins)
	assert.Equal(t, 15*time.Minute, s.AccessTokenTTL())
	assert.Equal(t, 2*time.Second, s.RequestTimeout)
}

func TestParseRejectsBadSettings(t *testing.T) {
	t.Run("algorithm", func(t *testing.T) {
		t.Setenv("ALGORITHM", "RS256")
		_, err := configs.Parse()
		assert.ErrorContains(t, err, "ALGORITHM")
	})
	t.Run("production secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		_, err := configs.Parse()
		assert.ErrorContains(t, err, "SECRET_KEY")
	})
	t.Run("expiry", func(t *testing.T) {
		t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "0")
		_, err := configs.Parse()
		assert.Error(t, err)
	})
}

func TestGetEnv(t *testing.T) {
	t.Setenv("DND_TEST_KEY", "value")
	assert.Equal(t, "value", configs.GetEnv("DND_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", configs.GetEnv("DND_TEST_MISSING", "fallback"))
	assert.Equal(t, "", configs.GetEnv("DND_TEST_MISSING"))
}

func TestSetupLoggerWritesFile(t *testing.T) {
	defer log.SetOutput(log.Writer())
	defer log.SetPrefix(log.Prefix())
	defer log.SetFlags(log.Flags())

	s := &configs.Settings{LogDir: filepath.Join(t.TempDir(), "logs")}
	w, closer, err := configs.SetupLogger(s)
	require.NoError(t, err)
	defer closer.Close()

	_, err = w.Write([]byte("hello\n"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(s.LogDir, "app.log"))
}

func TestGormLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	quiet := configs.NewGormLogger(time.Hour, false)
	quiet.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Empty(t, buf.String())

	verbose := configs.NewGormLogger(time.Hour, true)
	verbose.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.True(t, strings.Contains(buf.String(), "[QUERY]"))
}
