package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountService struct {
	err  error
	user *domain.User

	lastUsername string
	lastEmail    string
	lastPassword string
	lastUserID   int64
}

func (f *fakeAccountService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	f.lastUsername, f.lastEmail, f.lastPassword = username, email, password
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: 1, Username: username, Email: email, PasswordHash: "hashed"}, nil
}

func (f *fakeAccountService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	f.lastEmail, f.lastPassword = email, password
	if f.err != nil {
		return "", nil, f.err
	}
	return "signed-token", f.user, nil
}

func (f *fakeAccountService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	f.lastUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthController_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantError  string
	}{
		{name: "created", body: `{"username":"alice","email":"alice@example.com","password":"secret1"}`, wantStatus: http.StatusCreated},
		{name: "duplicate email", body: `{"username":"alice","email":"alice@example.com","password":"secret1"}`, svcErr: domain.ErrDuplicateEmail, wantStatus: http.StatusBadRequest, wantError: "Email already in use"},
		{name: "short password", body: `{"username":"alice","email":"alice@example.com","password":"123"}`, svcErr: domain.Invalid("Password must be at least 6 characters"), wantStatus: http.StatusBadRequest, wantError: "Password must be at least 6 characters"},
		{name: "malformed", body: `nope`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAccountService{err: tt.svcErr}
			ctrl := NewAuthController(testLogger, svc, time.Hour, false)

			rec := httptest.NewRecorder()
			ctrl.Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, rec))
				return
			}
			if rec.Code == http.StatusCreated {
				assert.NotContains(t, rec.Body.String(), "hashed")
				assert.NotContains(t, rec.Body.String(), "password")
				var got domain.User
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, "alice", got.Username)
			}
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	t.Run("success sets cookie", func(t *testing.T) {
		svc := &fakeAccountService{user: &domain.User{ID: 1, Username: "alice", Email: "alice@example.com"}}
		ctrl := NewAuthController(testLogger, svc, 2*time.Hour, true)

		rec := httptest.NewRecorder()
		ctrl.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"alice@example.com","password":"secret1"}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		var got LoginResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "Login successful", got.Message)
		assert.Equal(t, "signed-token", got.Token)
		require.NotNil(t, got.User)
		assert.Equal(t, int64(1), got.User.ID)

		cookie := findCookie(rec, middleware.AuthCookieName)
		require.NotNil(t, cookie)
		assert.Equal(t, "signed-token", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, "/", cookie.Path)
		assert.Equal(t, 7200, cookie.MaxAge)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		svc := &fakeAccountService{err: domain.ErrInvalidCredentials}
		ctrl := NewAuthController(testLogger, svc, time.Hour, false)

		rec := httptest.NewRecorder()
		ctrl.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"alice@example.com","password":"wrong"}`)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", decodeError(t, rec))
		assert.Nil(t, findCookie(rec, middleware.AuthCookieName))
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := &fakeAccountService{}
		ctrl := NewAuthController(testLogger, svc, time.Hour, false)

		rec := httptest.NewRecorder()
		ctrl.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":""}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "email is required; password is required", decodeError(t, rec))
		assert.Empty(t, svc.lastEmail)
	})
}

func TestAuthController_Logout(t *testing.T) {
	ctrl := NewAuthController(testLogger, &fakeAccountService{}, time.Hour, false)

	rec := httptest.NewRecorder()
	ctrl.Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Logout successful"}`, rec.Body.String())
	cookie := findCookie(rec, middleware.AuthCookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestAuthController_Me(t *testing.T) {
	t.Run("returns caller", func(t *testing.T) {
		svc := &fakeAccountService{user: &domain.User{ID: 4, Username: "dora", Email: "dora@example.com"}}
		ctrl := NewAuthController(testLogger, svc, time.Hour, false)

		rec := httptest.NewRecorder()
		ctrl.Me(rec, authed(httptest.NewRequest(http.MethodGet, "/auth/me", nil), 4))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(4), svc.lastUserID)
	})

	t.Run("deleted user", func(t *testing.T) {
		svc := &fakeAccountService{err: domain.ErrUserNotFound}
		ctrl := NewAuthController(testLogger, svc, time.Hour, false)

		rec := httptest.NewRecorder()
		ctrl.Me(rec, authed(httptest.NewRequest(http.MethodGet, "/auth/me", nil), 4))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("no user in context", func(t *testing.T) {
		ctrl := NewAuthController(testLogger, &fakeAccountService{}, time.Hour, false)
		rec := httptest.NewRecorder()
		ctrl.Me(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
