package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Sanuthi50/Supercar-predictor/repository"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (pgxmock.PgxPoolIface, *AuthService) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewAuthService(repository.NewUserRepository(mock))
}

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "username", "email", "password_hash", "first_name", "last_name",
		"is_active", "created_at", "last_login",
	})
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Username: "alice_01",
		Email:    "alice@example.com",
		Password: "secret123",
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*RegisterRequest)
		wantCode string
	}{
		{"missing username", func(r *RegisterRequest) { r.Username = "" }, "MISSING_USERNAME"},
		{"missing email", func(r *RegisterRequest) { r.Email = "" }, "MISSING_EMAIL"},
		{"missing password", func(r *RegisterRequest) { r.Password = "" }, "MISSING_PASSWORD"},
		{"short username", func(r *RegisterRequest) { r.Username = "ab" }, "USERNAME_TOO_SHORT"},
		{"long username", func(r *RegisterRequest) { r.Username = strings.Repeat("a", 151) }, "USERNAME_TOO_LONG"},
		{"bad username chars", func(r *RegisterRequest) { r.Username = "bad name!" }, "INVALID_USERNAME_FORMAT"},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, "INVALID_EMAIL_FORMAT"},
		{"bad email wins over bad username", func(r *RegisterRequest) {
			r.Username = "bad name!"
			r.Email = "not-an-email"
		}, "INVALID_EMAIL_FORMAT"},
		{"short password", func(r *RegisterRequest) { r.Password = "12345" }, "PASSWORD_TOO_SHORT"},
		{"long password", func(r *RegisterRequest) { r.Password = strings.Repeat("p", 501) }, "PASSWORD_TOO_LONG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, svc := newAuthService(t)

			req := validRegistration()
			tt.mutate(&req)

			_, err := svc.Register(context.Background(), req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantCode, verr.Code)

			// validation fails before any database access
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegisterSuccess(t *testing.T) {
	mock, svc := newAuthService(t)

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

	user, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterExistingUsername(t *testing.T) {
	mock, svc := newAuthService(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
		WithArgs("alice_01").
		WillReturnRows(userRows().AddRow(
			int64(1), "alice_01", "other@example.com", "hash",
			(*string)(nil), (*string)(nil), true, time.Now(), (*time.Time)(nil),
		))

	_, err := svc.Register(context.Background(), validRegistration())
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
}

func TestLoginSuccess(t *testing.T) {
	mock, svc := newAuthService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
		WithArgs("alice_01").
		WillReturnRows(userRows().AddRow(
			int64(1), "alice_01", "alice@example.com", string(hash),
			(*string)(nil), (*string)(nil), true, time.Now(), (*time.Time)(nil),
		))
	mock.ExpectExec(`UPDATE users SET last_login`).
		WithArgs(int64(1), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	user, err := svc.Login(context.Background(), "alice_01", "secret123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.NotNil(t, user.LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	mock, svc := newAuthService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
		WithArgs("alice_01").
		WillReturnRows(userRows().AddRow(
			int64(1), "alice_01", "alice@example.com", string(hash),
			(*string)(nil), (*string)(nil), true, time.Now(), (*time.Time)(nil),
		))

	_, err = svc.Login(context.Background(), "alice_01", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	mock, svc := newAuthService(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	// same error as a wrong password so user existence does not leak
	_, err := svc.Login(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	mock, svc := newAuthService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
		WithArgs("alice_01").
		WillReturnRows(userRows().AddRow(
			int64(1), "alice_01", "alice@example.com", string(hash),
			(*string)(nil), (*string)(nil), false, time.Now(), (*time.Time)(nil),
		))

	_, err = svc.Login(context.Background(), "alice_01", "secret123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestProfileNotFound(t *testing.T) {
	mock, svc := newAuthService(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Profile(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
