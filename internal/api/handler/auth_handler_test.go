package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dndvault/character-api/internal/api/middleware"
	"github.com/dndvault/character-api/internal/core/domain"
	"github.com/dndvault/character-api/internal/core/ports"
)

type stubAuthService struct {
	signUpFn  func(ctx context.Context, email, password string) (*domain.User, error)
	signInFn  func(ctx context.Context, email, password string) (*ports.Session, error)
	signOutFn func(ctx context.Context, token string) error
}

func (s *stubAuthService) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	return s.signUpFn(ctx, email, password)
}

func (s *stubAuthService) SignIn(ctx context.Context, email, password string) (*ports.Session, error) {
	return s.signInFn(ctx, email, password)
}

func (s *stubAuthService) SignOut(ctx context.Context, token string) error {
	return s.signOutFn(ctx, token)
}

func (s *stubAuthService) ResolveToken(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUnauthorized
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signUpFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			if email != "alice@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &domain.User{ID: "user-1", Email: email, PasswordHash: "hash"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/signup", `{"email":"alice@example.com","password":"secret1"}`), rec)

	if err := handler.SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "user-1" || resp["email"] != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if _, leaked := resp["password_hash"]; leaked {
		t.Fatalf("password hash leaked")
	}
}

func TestAuthHandler_SignUp_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "user exists", body: `{"email":"a@example.com","password":"secret1"}`, err: domain.ErrUserExists, status: http.StatusConflict},
		{name: "missing password", body: `{"email":"a@example.com"}`, status: http.StatusBadRequest},
		{name: "short password", body: `{"email":"a@example.com","password":"abc"}`, status: http.StatusBadRequest},
		{name: "bad email", body: `{"email":"nope","password":"secret1"}`, status: http.StatusBadRequest},
		{name: "malformed json", body: `{"email":`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			called := false
			stub := &stubAuthService{
				signUpFn: func(context.Context, string, string) (*domain.User, error) {
					called = true
					return nil, tt.err
				},
			}
			c := e.NewContext(jsonRequest(http.MethodPost, "/auth/signup", tt.body), httptest.NewRecorder())

			err := NewAuthHandler(stub).SignUp(c)
			if got := httpStatus(t, err); got != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, got)
			}
			if tt.err == nil && called {
				t.Fatalf("service should not be called for invalid input")
			}
		})
	}
}

func TestAuthHandler_SignIn_Success(t *testing.T) {
	e := newTestEcho()
	expires := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	stub := &stubAuthService{
		signInFn: func(ctx context.Context, email, password string) (*ports.Session, error) {
			return &ports.Session{
				AccessToken: "token-abc",
				ExpiresAt:   expires,
				User:        &domain.User{ID: "user-1", Email: email},
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/signin", `{"email":"alice@example.com","password":"x"}`), rec)

	if err := NewAuthHandler(stub).SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AccessToken != "token-abc" || resp.TokenType != "bearer" || !resp.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected session: %+v", resp)
	}
	if resp.User.ID != "user-1" {
		t.Fatalf("unexpected user: %+v", resp.User)
	}
}

func TestAuthHandler_SignIn_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signInFn: func(context.Context, string, string) (*ports.Session, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/signin", `{"email":"a@example.com","password":"wrong"}`), httptest.NewRecorder())

	err := NewAuthHandler(stub).SignIn(c)
	if got := httpStatus(t, err); got != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", got)
	}
}

func TestAuthHandler_SignOut(t *testing.T) {
	e := newTestEcho()
	var revoked string
	stub := &stubAuthService{
		signOutFn: func(_ context.Context, token string) error {
			revoked = token
			return nil
		},
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/signout", nil), rec)
	c.Set(middleware.TokenKey, "token-abc")

	if err := NewAuthHandler(stub).SignOut(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if revoked != "token-abc" {
		t.Fatalf("expected token to be revoked, got %q", revoked)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"success":true}` {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_SignOut_WithoutToken(t *testing.T) {
	e := newTestEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/signout", nil), httptest.NewRecorder())

	err := NewAuthHandler(&stubAuthService{}).SignOut(c)
	if got := httpStatus(t, err); got != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", got)
	}
}
