package helper

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	now := time.Now()
	tok, exp, err := IssueAccessToken(42, "s3cret", 30*time.Minute, now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(30*time.Minute), exp, time.Second)

	id, err := ParseAccessToken(tok, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = ParseAccessToken(tok, "other")
	assert.Error(t, err)
}

func TestExpiredAccessToken(t *testing.T) {
	tok, _, err := IssueAccessToken(1, "s3cret", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = ParseAccessToken(tok, "s3cret")
	assert.Error(t, err)
}

func TestGetRawAccessToken(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(GetRawAccessToken(c))
	})

	cases := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{name: "bearer header", header: "Bearer abc", want: "abc"},
		{name: "case-insensitive scheme", header: "bearer abc", want: "abc"},
		{name: "other scheme", header: "Basic abc", want: ""},
		{name: "cookie fallback", cookie: "xyz", want: "xyz"},
		{name: "nothing", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tc.cookie})
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			buf := make([]byte, 16)
			n, _ := resp.Body.Read(buf)
			assert.Equal(t, tc.want, string(buf[:n]))
		})
	}
}
