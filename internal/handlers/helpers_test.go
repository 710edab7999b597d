package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shopapi/internal/hash"
	"shopapi/internal/models"
	"shopapi/internal/session"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
	A  *AuthHandler
	P  *ProductHandler
	S  *session.Service
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}, &models.Session{}))

	sessions := &session.Service{DB: db, Secret: []byte("test_secret")}

	env := &testEnv{
		T:  t,
		E:  echo.New(),
		DB: db,
		S:  sessions,
	}
	env.A = &AuthHandler{DB: db, Sessions: sessions}
	env.P = &ProductHandler{DB: db}

	return env
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func createUser(t *testing.T, env *testEnv, username, password string) models.User {
	hashed, err := hash.HashPassword(password)
	require.NoError(t, err)

	user := models.User{Username: username, Password: hashed}
	require.NoError(t, env.DB.Create(&user).Error)
	return user
}

func login(t *testing.T, env *testEnv, username, password string) *http.Cookie {
	payload := map[string]string{"username": username, "password": password}
	rec, c := env.doJSONRequest(http.MethodPost, "/login", payload)
	require.NoError(t, env.A.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp["message"]
}
