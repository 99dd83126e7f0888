package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/auth-service/internal/api"
	"github.com/99minutos/auth-service/internal/core/auth"
	"github.com/99minutos/auth-service/internal/core/ports"
	"github.com/99minutos/auth-service/internal/core/service"
	redisstore "github.com/99minutos/auth-service/internal/infrastructure/db/redis"
)

type testServer struct {
	handler http.Handler
	mr      *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newLoggedTestServer(t, zerolog.Nop())
}

func newLoggedTestServer(t *testing.T, log zerolog.Logger) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := redisstore.NewUserRepository(client)
	tokens, err := auth.NewTokenManager("e2e-secret", auth.DefaultTokenTTL)
	require.NoError(t, err)

	e := api.NewRouter(api.Dependencies{
		AuthService: service.NewAuthService(repo, auth.NewBcryptHasher(4), tokens, log),
		Verifier:    tokens,
		RoutePrefix: "/api",
		Readiness:   map[string]ports.Pinger{"redis": repo},
		Log:         log,
	})
	return &testServer{handler: e, mr: mr}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func corrupt(token string) string {
	sig := strings.LastIndex(token, ".") + 1
	b := []byte(token)
	if b[sig] == 'A' {
		b[sig] = 'B'
	} else {
		b[sig] = 'A'
	}
	return string(b)
}

func TestRouter_RegisterLoginProfile(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/register", `{"username":"alice","password":"s3cret"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "s3cret")
	assert.NotContains(t, rec.Body.String(), "$2a$")

	rec = s.do(t, http.MethodPost, "/api/login", `{"username":"alice","password":"s3cret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := decode(t, rec)["token"].(string)
	require.NotEmpty(t, token)

	rec = s.do(t, http.MethodGet, "/api/profile", "", map[string]string{"Authorization": token})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile := decode(t, rec)
	assert.Equal(t, "alice", profile["username"])
	assert.NotEmpty(t, profile["userId"])

	rec = s.do(t, http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, api.CodeMissingCredential, decode(t, rec)["code"])

	rec = s.do(t, http.MethodGet, "/api/profile", "", map[string]string{"Authorization": corrupt(token)})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, api.CodeInvalidToken, decode(t, rec)["code"])
}

func TestRouter_DuplicateRegistrationAndWrongPassword(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/register", `{"username":"bob","password":"pw1"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/register", `{"username":"bob","password":"pw2"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, api.CodeDuplicateUsername, decode(t, rec)["code"])

	rec = s.do(t, http.MethodPost, "/api/login", `{"username":"bob","password":"pw2"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, api.CodeInvalidCredentials, decode(t, rec)["code"])

	rec = s.do(t, http.MethodPost, "/api/login", `{"username":"bob","password":"pw1"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["token"])
}

func TestRouter_UnknownUserMatchesWrongPassword(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/register", `{"username":"carol","password":"pw"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	wrong := s.do(t, http.MethodPost, "/api/login", `{"username":"carol","password":"nope"}`, nil)
	unknown := s.do(t, http.MethodPost, "/api/login", `{"username":"nobody","password":"nope"}`, nil)

	assert.Equal(t, wrong.Code, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestRouter_InvalidPayload(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []string{`{"username":"dave"}`, `not json`} {
		rec := s.do(t, http.MethodPost, "/api/register", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, api.CodeInvalidPayload, decode(t, rec)["code"], body)
	}
}

func TestRouter_StoreUnavailable(t *testing.T) {
	s := newTestServer(t)
	s.mr.Close()

	rec := s.do(t, http.MethodPost, "/api/register", `{"username":"erin","password":"pw"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, api.CodeInternal, body["code"])
	assert.Equal(t, "internal server error", body["error"])

	rec = s.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_ServerErrorLoggedOnce(t *testing.T) {
	var logs bytes.Buffer
	s := newLoggedTestServer(t, zerolog.New(&logs))
	s.mr.Close()

	rec := s.do(t, http.MethodPost, "/api/register", `{"username":"erin","password":"pw"}`, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	assert.Equal(t, 1, strings.Count(logs.String(), `"level":"error"`), logs.String())
	assert.Contains(t, logs.String(), `"status":500`)
}

func TestRouter_PublicRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/welcome", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to my page!", rec.Body.String())

	rec = s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	s.do(t, http.MethodPost, "/api/login", `{"username":"ghost","password":"pw"}`, nil)
	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "auth_logins_total")
	assert.Contains(t, rec.Body.String(), `auth_http_requests_total{code="401"`)
	assert.Contains(t, rec.Body.String(), `url="/api/login"`)
	assert.Contains(t, rec.Body.String(), "auth_http_request_duration_seconds")
}
