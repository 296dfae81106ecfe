package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dndvault/character-api/internal/core/domain"
)

type stubUserRepo struct {
	users   map[string]*domain.User
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

type stubRevokedStore struct {
	revoked map[string]time.Time
	err     error
}

func newStubRevokedStore() *stubRevokedStore {
	return &stubRevokedStore{revoked: make(map[string]time.Time)}
}

func (s *stubRevokedStore) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.revoked[tokenID] = until
	return nil
}

func (s *stubRevokedStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.revoked[tokenID]
	return ok, nil
}

func newTestAuthService() (*AuthService, *stubUserRepo, *stubRevokedStore) {
	repo := newStubUserRepo()
	store := newStubRevokedStore()
	return NewAuthService(repo, store, "secret", time.Hour, discardLogger), repo, store
}

func signedIn(t *testing.T, svc *AuthService, email, password string) string {
	t.Helper()
	if _, err := svc.SignUp(context.Background(), email, password); err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	session, err := svc.SignIn(context.Background(), email, password)
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	return session.AccessToken
}

func TestAuthService_SignUp_HashesPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()

	user, err := svc.SignUp(context.Background(), "  Alice@Example.com ", "pass123")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_SignUp_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if _, err := svc.SignUp(context.Background(), "not-an-email", "pass123"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for bad email, got %v", err)
	}
	if _, err := svc.SignUp(context.Background(), "bob@example.com", "123"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for short password, got %v", err)
	}
}

func TestAuthService_SignUp_Duplicate(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, _ = svc.SignUp(context.Background(), "bob@example.com", "password")
	if _, err := svc.SignUp(context.Background(), "bob@example.com", "password2"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_SignIn_IssuesHS256Token(t *testing.T) {
	svc, _, _ := newTestAuthService()
	token := signedIn(t, svc, "carol@example.com", "s3cret!")

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["email"] != "carol@example.com" {
		t.Fatalf("expected email claim, got %v", claims["email"])
	}
	if claims["sub"] == "" || claims["jti"] == "" {
		t.Fatalf("expected sub and jti claims, got %v", claims)
	}
}

func TestAuthService_SignIn_WrongPasswordOrUnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService()
	_, _ = svc.SignUp(context.Background(), "dave@example.com", "goodpass")

	if _, err := svc.SignIn(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.SignIn(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAuthService_ResolveToken_ReturnsIdentity(t *testing.T) {
	svc, _, _ := newTestAuthService()
	token := signedIn(t, svc, "erin@example.com", "hunter22")

	user, err := svc.ResolveToken(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if user.ID == "" || user.Email != "erin@example.com" {
		t.Fatalf("unexpected identity: %+v", user)
	}
	if user.PasswordHash != "" {
		t.Fatalf("resolved identity must not carry the password hash")
	}
}

func TestAuthService_ResolveToken_FailsClosed(t *testing.T) {
	svc, repo, store := newTestAuthService()
	token := signedIn(t, svc, "frank@example.com", "hunter22")

	cases := map[string]func(){
		"garbage": func() {},
		"expired": func() { svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) } },
		"store down": func() {
			svc.now = time.Now
			repo.findErr = errors.New("connection refused")
		},
		"revocation check down": func() {
			repo.findErr = nil
			store.err = errors.New("redis: connection refused")
		},
	}
	order := []string{"garbage", "expired", "store down", "revocation check down"}
	for _, name := range order {
		cases[name]()
		tok := token
		if name == "garbage" {
			tok = "not-a-token"
		}
		if _, err := svc.ResolveToken(context.Background(), tok); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}

func TestAuthService_ResolveToken_RejectsOtherSecret(t *testing.T) {
	svc, _, _ := newTestAuthService()
	other := NewAuthService(newStubUserRepo(), newStubRevokedStore(), "another-secret", time.Hour, discardLogger)
	token := signedIn(t, other, "gina@example.com", "hunter22")

	if _, err := svc.ResolveToken(context.Background(), token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_SignOut_RevokesToken(t *testing.T) {
	svc, _, store := newTestAuthService()
	token := signedIn(t, svc, "hank@example.com", "hunter22")

	if err := svc.SignOut(context.Background(), token); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}
	if len(store.revoked) != 1 {
		t.Fatalf("expected one revoked token, got %d", len(store.revoked))
	}
	if _, err := svc.ResolveToken(context.Background(), token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}
}
