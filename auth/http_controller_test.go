package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/innotter/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthApp(t *testing.T) (*fiber.App, auth.RepositoryManager) {
	t.Helper()

	db := setupDB(t)
	repo := auth.NewRepositoryManager(db)
	cfg := testConfig()
	auther := auth.NewAuthenticator(repo.Users(), cfg)

	app := fiber.New(fiber.Config{ErrorHandler: auth.ErrorHandler})
	auth.NewAuthController(repo, auther).RegisterRoutes(app, auther.Middleware(cfg))

	return app, repo
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Token "+token)
	}

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func decodeJSON[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func TestAuthController_Login(t *testing.T) {
	app, repo := newAuthApp(t)
	mustRegister(t, repo.Users(), "alice@example.com", "sekret12", auth.RoleUser)

	t.Run("valid credentials return a pair", func(t *testing.T) {
		res := doJSON(t, app, fiber.MethodPost, "/login", "", fiber.Map{
			"email":    "alice@example.com",
			"password": "sekret12",
		})
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		pair := decodeJSON[auth.TokenPair](t, res)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("bad credentials are a 401", func(t *testing.T) {
		res := doJSON(t, app, fiber.MethodPost, "/login", "", fiber.Map{
			"email":    "alice@example.com",
			"password": "wrong",
		})
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("missing fields are a 400", func(t *testing.T) {
		res := doJSON(t, app, fiber.MethodPost, "/login", "", fiber.Map{
			"email": "alice@example.com",
		})
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})
}

func TestAuthController_Refresh(t *testing.T) {
	app, repo := newAuthApp(t)
	mustRegister(t, repo.Users(), "bob@example.com", "sekret12", auth.RoleUser)

	login := doJSON(t, app, fiber.MethodPost, "/login", "", fiber.Map{
		"email":    "bob@example.com",
		"password": "sekret12",
	})
	require.Equal(t, fiber.StatusOK, login.StatusCode)
	pair := decodeJSON[auth.TokenPair](t, login)

	t.Run("refresh token rotates the pair", func(t *testing.T) {
		res := doJSON(t, app, fiber.MethodPost, "/refresh", "", fiber.Map{
			"refresh_token": pair.RefreshToken,
		})
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		fresh := decodeJSON[auth.TokenPair](t, res)
		assert.NotEmpty(t, fresh.AccessToken)
	})

	t.Run("access token is rejected here", func(t *testing.T) {
		res := doJSON(t, app, fiber.MethodPost, "/refresh", "", fiber.Map{
			"refresh_token": pair.AccessToken,
		})
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})
}

func TestAuthController_UserResource(t *testing.T) {
	app, repo := newAuthApp(t)

	mustRegister(t, repo.Users(), "admin@example.com", "sekret12", auth.RoleAdmin)
	mustRegister(t, repo.Users(), "plain@example.com", "sekret12", auth.RoleUser)

	tokenFor := func(t *testing.T, email string) string {
		t.Helper()
		res := doJSON(t, app, fiber.MethodPost, "/login", "", fiber.Map{
			"email":    email,
			"password": "sekret12",
		})
		require.Equal(t, fiber.StatusOK, res.StatusCode)
		return decodeJSON[auth.TokenPair](t, res).AccessToken
	}

	adminToken := tokenFor(t, "admin@example.com")
	plainToken := tokenFor(t, "plain@example.com")

	t.Run("regular users cannot reach the resource", func(t *testing.T) {
		res := doJSON(t, app, fiber.MethodGet, "/users/", plainToken, nil)
		assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
	})

	t.Run("anonymous callers get a 401", func(t *testing.T) {
		res := doJSON(t, app, fiber.MethodGet, "/users/", "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	var createdID string

	t.Run("admin creates a user", func(t *testing.T) {
		res := doJSON(t, app, fiber.MethodPost, "/users/", adminToken, fiber.Map{
			"username":  "carol",
			"email":     "carol@example.com",
			"role":      "user",
			"password":  "sekret12",
			"password2": "sekret12",
		})
		require.Equal(t, fiber.StatusCreated, res.StatusCode)

		created := decodeJSON[auth.User](t, res)
		assert.Equal(t, "carol", created.Username)
		assert.Equal(t, auth.RoleUser, created.Role)
		createdID = created.ID.String()
	})

	t.Run("password mismatch is a 400", func(t *testing.T) {
		res := doJSON(t, app, fiber.MethodPost, "/users/", adminToken, fiber.Map{
			"username":  "dave",
			"email":     "dave@example.com",
			"role":      "user",
			"password":  "sekret12",
			"password2": "different",
		})
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})

	t.Run("admin lists and retrieves users", func(t *testing.T) {
		res := doJSON(t, app, fiber.MethodGet, "/users/", adminToken, nil)
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		records := decodeJSON[[]auth.User](t, res)
		assert.GreaterOrEqual(t, len(records), 3)

		res = doJSON(t, app, fiber.MethodGet, "/users/"+createdID, adminToken, nil)
		require.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("admin updates a user", func(t *testing.T) {
		res := doJSON(t, app, fiber.MethodPut, "/users/"+createdID, adminToken, fiber.Map{
			"username":   "carol-renamed",
			"email":      "carol@example.com",
			"first_name": "Carol",
		})
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		updated := decodeJSON[auth.User](t, res)
		assert.Equal(t, "carol-renamed", updated.Username)
		assert.Equal(t, "Carol", updated.FirstName)
	})

	t.Run("blocking a user locks them out of login", func(t *testing.T) {
		res := doJSON(t, app, fiber.MethodPost, "/users/"+createdID+"/block-user", adminToken, nil)
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		blocked := decodeJSON[auth.User](t, res)
		assert.True(t, blocked.IsBlocked)

		login := doJSON(t, app, fiber.MethodPost, "/login", "", fiber.Map{
			"email":    "carol@example.com",
			"password": "sekret12",
		})
		assert.Equal(t, fiber.StatusUnauthorized, login.StatusCode)
	})

	t.Run("admin deletes a user", func(t *testing.T) {
		res := doJSON(t, app, fiber.MethodDelete, "/users/"+createdID, adminToken, nil)
		require.Equal(t, fiber.StatusNoContent, res.StatusCode)

		res = doJSON(t, app, fiber.MethodGet, "/users/"+createdID, adminToken, nil)
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	})

	t.Run("unknown id is a 404, malformed id a 400", func(t *testing.T) {
		res := doJSON(t, app, fiber.MethodGet, "/users/c1a79540-0000-0000-0000-000000000000", adminToken, nil)
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

		res = doJSON(t, app, fiber.MethodGet, "/users/not-a-uuid", adminToken, nil)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})
}
