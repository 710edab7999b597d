package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	authmw "shopapi/internal/middleware/auth"
	"shopapi/internal/models"
)

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	createUser(t, env, "alice", "secret")

	ck := login(t, env, "alice", "secret")
	require.NotEmpty(t, ck.Value)

	user, err := env.S.Validate(ck.Value)
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
}

func TestLoginPlaintextRow(t *testing.T) {
	env := newTestEnv(t)

	// rows created before hashing was introduced hold the raw password
	user := models.User{Username: "alice", Password: "secret"}
	require.NoError(t, env.DB.Create(&user).Error)

	rec, c := env.doJSONRequest(http.MethodPost, "/login", map[string]string{
		"username": "alice",
		"password": "secret",
	})
	require.NoError(t, env.A.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Logged in sucessfully", decodeMessage(t, rec))
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	createUser(t, env, "alice", "secret")

	rec, c := env.doJSONRequest(http.MethodPost, "/login", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	require.NoError(t, env.A.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Unauthorized. Invalid credentials", decodeMessage(t, rec))

	var count int64
	require.NoError(t, env.DB.Model(&models.Session{}).Count(&count).Error)
	require.Zero(t, count, "failed login must not establish a session")
}

func TestLoginUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/login", map[string]string{
		"username": "nobody",
		"password": "secret",
	})
	require.NoError(t, env.A.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Unauthorized. Invalid credentials", decodeMessage(t, rec))
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	createUser(t, env, "alice", "secret")
	ck := login(t, env, "alice", "secret")

	rec, c := env.doJSONRequest(http.MethodPost, "/logout", nil, ck)
	require.NoError(t, env.A.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Logout sucessfully", decodeMessage(t, rec))

	_, err := env.S.Validate(ck.Value)
	require.Error(t, err, "revoked session must not validate")
}

func TestLogoutWithoutSession(t *testing.T) {
	env := newTestEnv(t)

	guarded := authmw.RequireSession(env.S)(env.A.Logout)
	rec, c := env.doJSONRequest(http.MethodPost, "/logout", nil)
	require.NoError(t, guarded(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuardRejectsAfterLogout(t *testing.T) {
	env := newTestEnv(t)
	createUser(t, env, "alice", "secret")
	ck := login(t, env, "alice", "secret")

	guarded := authmw.RequireSession(env.S)(env.A.Logout)

	rec, c := env.doJSONRequest(http.MethodPost, "/logout", nil, ck)
	require.NoError(t, guarded(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec2, c2 := env.doJSONRequest(http.MethodPost, "/logout", nil, ck)
	require.NoError(t, guarded(c2))
	require.Equal(t, http.StatusUnauthorized, rec2.Code)
}
