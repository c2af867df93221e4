package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Sanuthi50/Supercar-predictor/repository"
	"github.com/Sanuthi50/Supercar-predictor/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(t *testing.T) (pgxmock.PgxPoolIface, *gin.Engine) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	handler := NewAuthHandler(service.NewAuthService(repository.NewUserRepository(mock)))

	router := gin.New()
	router.Use(RequestID(), SessionMiddleware("test-secret"))
	router.POST("/auth/register", handler.Register)
	router.POST("/auth/login", handler.Login)
	router.POST("/auth/logout", handler.Logout)
	router.GET("/auth/profile", handler.Profile)
	router.GET("/auth/check", handler.Check)
	return mock, router
}

func doJSON(router *gin.Engine, method, path, body string, cookies []*http.Cookie) (*httptest.ResponseRecorder, map[string]any) {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var parsed map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	return w, parsed
}

func errorCode(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "username", "email", "password_hash", "first_name", "last_name",
		"is_active", "created_at", "last_login",
	})
}

func activeUserRow(id int64, username, hash string) *pgxmock.Rows {
	return userRows().AddRow(
		id, username, username+"@example.com", hash,
		(*string)(nil), (*string)(nil), true, time.Now(), (*time.Time)(nil),
	)
}

func bcryptHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegisterEndpoint(t *testing.T) {
	mock, router := newAuthRouter(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
		WithArgs("alice_01").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
		WithArgs("alice@example.com").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice_01", "alice@example.com", pgxmock.AnyArg(), (*string)(nil), (*string)(nil), true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).
			AddRow(int64(1), time.Now()))

	w, body := doJSON(router, http.MethodPost, "/auth/register",
		`{"username":"alice_01","email":"alice@example.com","password":"secret123"}`, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
	user, _ := body["user"].(map[string]any)
	assert.Equal(t, "alice_01", user["username"])
	assert.NotContains(t, user, "password_hash")
	assert.NotEmpty(t, body["request_id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterEndpointShortPassword(t *testing.T) {
	mock, router := newAuthRouter(t)

	w, body := doJSON(router, http.MethodPost, "/auth/register",
		`{"username":"alice_01","email":"alice@example.com","password":"123"}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "PASSWORD_TOO_SHORT", errorCode(body))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterEndpointDuplicateUsername(t *testing.T) {
	mock, router := newAuthRouter(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
		WithArgs("alice_01").
		WillReturnRows(activeUserRow(1, "alice_01", "hash"))

	w, body := doJSON(router, http.MethodPost, "/auth/register",
		`{"username":"alice_01","email":"new@example.com","password":"secret123"}`, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "USERNAME_EXISTS", errorCode(body))
}

func TestRegisterEndpointConstraintRace(t *testing.T) {
	mock, router := newAuthRouter(t)

	// pre-insert checks see nothing, but the insert loses a race and the
	// unique constraint reports the duplicate
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
		WithArgs("alice_01").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
		WithArgs("alice@example.com").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice_01", "alice@example.com", pgxmock.AnyArg(), (*string)(nil), (*string)(nil), true).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	w, body := doJSON(router, http.MethodPost, "/auth/register",
		`{"username":"alice_01","email":"alice@example.com","password":"secret123"}`, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_EXISTS", errorCode(body))
}

func TestRegisterEndpointInvalidJSON(t *testing.T) {
	_, router := newAuthRouter(t)

	w, body := doJSON(router, http.MethodPost, "/auth/register", `{not json`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_JSON", errorCode(body))
}

func TestRegisterEndpointEmptyBody(t *testing.T) {
	_, router := newAuthRouter(t)

	w, body := doJSON(router, http.MethodPost, "/auth/register", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "EMPTY_BODY", errorCode(body))
}

func TestLoginEndpointEmptyBody(t *testing.T) {
	_, router := newAuthRouter(t)

	w, body := doJSON(router, http.MethodPost, "/auth/login", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "EMPTY_BODY", errorCode(body))
}

func TestRegisterEndpointDatabaseDown(t *testing.T) {
	mock, router := newAuthRouter(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
		WithArgs("alice_01").
		WillReturnError(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})

	w, body := doJSON(router, http.MethodPost, "/auth/register",
		`{"username":"alice_01","email":"alice@example.com","password":"secret123"}`, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "DB_UNAVAILABLE", errorCode(body))
}

func TestLoginEndpointSetsSession(t *testing.T) {
	mock, router := newAuthRouter(t)
	hash := bcryptHash(t, "secret123")

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
		WithArgs("alice_01").
		WillReturnRows(activeUserRow(1, "alice_01", hash))
	mock.ExpectExec(`UPDATE users SET last_login`).
		WithArgs(int64(1), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	w, body := doJSON(router, http.MethodPost, "/auth/login",
		`{"username":"alice_01","password":"secret123"}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "login must set the session cookie")
	assert.True(t, sessionCookie.HttpOnly)

	// the cookie authenticates the profile endpoint
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
		WithArgs(int64(1)).
		WillReturnRows(activeUserRow(1, "alice_01", hash))

	w, body = doJSON(router, http.MethodGet, "/auth/profile", "", []*http.Cookie{sessionCookie})
	assert.Equal(t, http.StatusOK, w.Code)
	user, _ := body["user"].(map[string]any)
	assert.Equal(t, "alice_01", user["username"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginEndpointWrongPassword(t *testing.T) {
	mock, router := newAuthRouter(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
		WithArgs("alice_01").
		WillReturnRows(activeUserRow(1, "alice_01", bcryptHash(t, "secret123")))

	w, body := doJSON(router, http.MethodPost, "/auth/login",
		`{"username":"alice_01","password":"wrong"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(body))
}

func TestLoginEndpointUnknownUsername(t *testing.T) {
	mock, router := newAuthRouter(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	// indistinguishable from a wrong password
	w, body := doJSON(router, http.MethodPost, "/auth/login",
		`{"username":"ghost","password":"whatever"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(body))
}

func TestLoginEndpointDisabledAccount(t *testing.T) {
	mock, router := newAuthRouter(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
		WithArgs("alice_01").
		WillReturnRows(userRows().AddRow(
			int64(1), "alice_01", "alice@example.com", bcryptHash(t, "secret123"),
			(*string)(nil), (*string)(nil), false, time.Now(), (*time.Time)(nil),
		))

	w, body := doJSON(router, http.MethodPost, "/auth/login",
		`{"username":"alice_01","password":"secret123"}`, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ACCOUNT_DISABLED", errorCode(body))
}

func TestProfileEndpointUnauthenticated(t *testing.T) {
	_, router := newAuthRouter(t)

	w, body := doJSON(router, http.MethodGet, "/auth/profile", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "NOT_AUTHENTICATED", errorCode(body))
}

func TestCheckEndpointAnonymous(t *testing.T) {
	_, router := newAuthRouter(t)

	w, body := doJSON(router, http.MethodGet, "/auth/check", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["authenticated"])
}

func TestLogoutEndpoint(t *testing.T) {
	_, router := newAuthRouter(t)

	w, body := doJSON(router, http.MethodPost, "/auth/logout", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
}
