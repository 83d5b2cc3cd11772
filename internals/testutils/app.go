package testutils

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/cache"
	"dndbuilder_backend/internals/configs"
	routes "dndbuilder_backend/internals/route"
)

// TestApp is the real fiber app wired to a private database.
type TestApp struct {
	T        *testing.T
	App      *fiber.App
	DB       *gorm.DB
	Settings *configs.Settings
	Cache    cache.Cache
}

type AppOption func(*TestApp)

// WithCache replaces the default no-op cache.
func WithCache(c cache.Cache) AppOption {
	return func(a *TestApp) { a.Cache = c }
}

// WithSettings lets a test tweak settings before the app is built.
func WithSettings(fn func(*configs.Settings)) AppOption {
	return func(a *TestApp) { fn(a.Settings) }
}

func NewTestApp(t *testing.T, opts ...AppOption) *TestApp {
	t.Helper()
	a := &TestApp{T: t, Settings: TestSettings(), Cache: cache.Noop{}}
	for _, o := range opts {
		o(a)
	}
	a.DB = NewTestDBWith(t, a.Settings)
	a.App = routes.NewApp(a.Settings, a.DB, a.Cache, io.Discard)
	return a
}

// Response is a decoded JSON reply.
type Response struct {
	Status int
	Header http.Header
	Raw    []byte
	Body   map[string]any
}

// Data returns the "data" object of a success envelope.
func (r Response) Data() map[string]any {
	d, _ := r.Body["data"].(map[string]any)
	return d
}

// List returns the "data" array of a list envelope.
func (r Response) List() []any {
	d, _ := r.Body["data"].([]any)
	return d
}

// Errors returns the per-field messages of a validation reply.
func (r Response) Errors() map[string]any {
	e, _ := r.Body["errors"].(map[string]any)
	return e
}

// ID returns data.id as uint.
func (r Response) ID() uint {
	return uint(Num(r.Data()["id"]))
}

// Num converts a decoded JSON number.
func Num(v any) float64 {
	f, _ := v.(float64)
	return f
}

// Request sends a JSON request; token, when given, is sent as bearer.
func (a *TestApp) Request(method, path string, body any, token ...string) Response {
	a.T.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := sonic.Marshal(b)
			require.NoError(a.T, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if len(token) > 0 && token[0] != "" {
		req.Header.Set("Authorization", "Bearer "+token[0])
	}

	resp, err := a.App.Test(req, -1)
	require.NoError(a.T, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.T, err)

	out := Response{Status: resp.StatusCode, Header: resp.Header, Raw: raw}
	if len(raw) > 0 {
		_ = sonic.Unmarshal(raw, &out.Body)
	}
	return out
}

func (a *TestApp) Get(path string, token ...string) Response {
	return a.Request(http.MethodGet, path, nil, token...)
}

func (a *TestApp) Post(path string, body any, token ...string) Response {
	return a.Request(http.MethodPost, path, body, token...)
}

func (a *TestApp) Patch(path string, body any, token ...string) Response {
	return a.Request(http.MethodPatch, path, body, token...)
}

func (a *TestApp) Put(path string, body any, token ...string) Response {
	return a.Request(http.MethodPut, path, body, token...)
}

func (a *TestApp) Delete(path string, token ...string) Response {
	return a.Request(http.MethodDelete, path, nil, token...)
}
