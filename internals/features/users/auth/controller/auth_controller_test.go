package controller_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userModel "dndbuilder_backend/internals/features/users/user/model"
	"dndbuilder_backend/internals/testutils"
)

const api = "/api/v1"

func TestRegister(t *testing.T) {
	app := testutils.NewTestApp(t)

	res := app.Post(api+"/auth/register", map[string]any{
		"username": "gandalf",
		"email":    "Gandalf@Example.com",
		"password": "youshallnotpass",
	})
	require.Equal(t, http.StatusCreated, res.Status, string(res.Raw))
	data := res.Data()
	assert.Equal(t, "gandalf", data["username"])
	assert.Equal(t, "gandalf@example.com", data["email"])
	assert.Equal(t, true, data["is_active"])
	assert.Equal(t, false, data["is_superuser"])
	assert.NotContains(t, data, "hashed_password")
	assert.NotContains(t, string(res.Raw), "youshallnotpass")

	dup := app.Post(api+"/auth/register", map[string]any{
		"username": "gandalf", "email": "grey@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, dup.Status)
	dup = app.Post(api+"/auth/register", map[string]any{
		"username": "mithrandir", "email": "GANDALF@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, dup.Status, "emails compare case-insensitively")

	bad := app.Post(api+"/auth/register", map[string]any{"username": "ab", "email": "nope", "password": "short"})
	require.Equal(t, http.StatusUnprocessableEntity, bad.Status)
	errs := bad.Errors()
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestRegisterIsRateLimited(t *testing.T) {
	app := testutils.NewTestApp(t)

	for i := 0; i < 5; i++ {
		res := app.Post(api+"/auth/register", map[string]any{})
		require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	}
	assert.Equal(t, http.StatusTooManyRequests, app.Post(api+"/auth/register", map[string]any{}).Status)
}

func TestLogin(t *testing.T) {
	app := testutils.NewTestApp(t)
	app.CreateUser("frodo", "ringbearer1", false)

	res := app.Post(api+"/auth/login", map[string]any{"username": "frodo", "password": "ringbearer1"})
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	data := res.Data()
	assert.Equal(t, "bearer", data["token_type"])
	assert.EqualValues(t, app.Settings.AccessTokenTTL().Seconds(), data["expires_in"])
	token, _ := data["access_token"].(string)
	require.NotEmpty(t, token)

	me := app.Get(api+"/auth/me", token)
	require.Equal(t, http.StatusOK, me.Status)
	assert.Equal(t, "frodo", me.Data()["username"])

	byEmail := app.Post(api+"/auth/login", map[string]any{"username": "FRODO@example.com", "password": "ringbearer1"})
	assert.Equal(t, http.StatusOK, byEmail.Status)

	wrong := app.Post(api+"/auth/login", map[string]any{"username": "frodo", "password": "ringbearer2"})
	require.Equal(t, http.StatusUnauthorized, wrong.Status)
	assert.Equal(t, "Incorrect username or password", wrong.Body["message"])
	unknown := app.Post(api+"/auth/login", map[string]any{"username": "sauron", "password": "ringbearer1"})
	assert.Equal(t, http.StatusUnauthorized, unknown.Status)
}

func TestLoginAcceptsPasswordForm(t *testing.T) {
	app := testutils.NewTestApp(t)
	app.CreateUser("sam", "potatoes123", false)

	req := httptest.NewRequest(http.MethodPost, api+"/auth/login",
		strings.NewReader("username=sam&password=potatoes123&grant_type=password"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.App.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(raw, &body))
	assert.NotEmpty(t, body.Data.AccessToken)
}

func TestInactiveUser(t *testing.T) {
	app := testutils.NewTestApp(t)
	u := app.CreateUser("boromir", "gondor1234", false)
	token := app.Token(u.ID)
	require.NoError(t, app.DB.Model(&userModel.UserModel{}).Where("id = ?", u.ID).Update("is_active", false).Error)

	res := app.Post(api+"/auth/login", map[string]any{"username": "boromir", "password": "gondor1234"})
	assert.Equal(t, http.StatusForbidden, res.Status)
	assert.Equal(t, http.StatusForbidden, app.Get(api+"/auth/me", token).Status)
}

func TestMeRequiresToken(t *testing.T) {
	app := testutils.NewTestApp(t)

	assert.Equal(t, http.StatusUnauthorized, app.Get(api+"/auth/me").Status)
	assert.Equal(t, http.StatusUnauthorized, app.Get(api+"/auth/me", "garbage").Status)
	assert.Equal(t, http.StatusUnauthorized, app.Get(api+"/auth/me", app.Token(4242)).Status, "deleted users")
}

func TestChangePassword(t *testing.T) {
	app := testutils.NewTestApp(t)
	u := app.CreateUser("aragorn", "strider123", false)
	token := app.Token(u.ID)
	path := api + "/auth/change-password"

	res := app.Post(path, map[string]any{"current_password": "wrong-one", "new_password": "elessar456"}, token)
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Errors(), "current_password")

	res = app.Post(path, map[string]any{"current_password": "strider123", "new_password": "strider123"}, token)
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Errors(), "new_password")

	assert.Equal(t, http.StatusUnauthorized,
		app.Post(path, map[string]any{"current_password": "strider123", "new_password": "elessar456"}).Status)

	res = app.Post(path, map[string]any{"current_password": "strider123", "new_password": "elessar456"}, token)
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))

	old := app.Post(api+"/auth/login", map[string]any{"username": "aragorn", "password": "strider123"})
	assert.Equal(t, http.StatusUnauthorized, old.Status)
	fresh := app.Post(api+"/auth/login", map[string]any{"username": "aragorn", "password": "elessar456"})
	assert.Equal(t, http.StatusOK, fresh.Status)
}
